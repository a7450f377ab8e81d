// Package launch hands control over to the Claude Code CLI, either by
// running it directly in the target directory or, when the browser is still
// inside the finder's captured subprocess context, by writing a handoff file
// for the outer wrapper to act on.
package launch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// HandoffEnv names the environment variable that points at the handoff file.
// When set, the launch request is written there instead of being executed, so
// the wrapper can start claude after the finder process has exited.
const HandoffEnv = "_CLAUDE_CHATS_RESUME"

// Request describes a pending claude invocation.
type Request struct {
	Dir             string // working directory for the new process
	ResumeID        string // session id to resume; "" starts a new session
	SkipPermissions bool
	SessionFile     string // optional log used to recover the recorded cwd
}

// Launcher starts or schedules a claude process. A nil error means the
// request was either executed or handed off; the browser terminates next.
type Launcher interface {
	Launch(req Request) error
}

// CLI launches the real claude binary.
type CLI struct{}

// Launch resolves the working directory, then executes claude with the
// terminal attached, or writes the handoff file when running under the
// finder wrapper.
func (CLI) Launch(req Request) error {
	dir := req.Dir

	// The project folder a resumed session is stored under is authoritative.
	// Only a brand-new session follows the cwd its sibling logs recorded,
	// and only while that directory still exists.
	if req.ResumeID == "" && req.SessionFile != "" {
		if cwd := readCwdFromSession(req.SessionFile); cwd != "" && isDir(cwd) {
			dir = cwd
		}
	}

	argv := buildArgs(req)

	if handoff := os.Getenv(HandoffEnv); handoff != "" {
		content := dir + "\n" + strings.Join(argv, " ")
		return os.WriteFile(handoff, []byte(content), 0o644)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", argv[0], err)
	}
	return nil
}

// buildArgs assembles the claude command line.
func buildArgs(req Request) []string {
	argv := []string{claudeBinary()}
	if req.ResumeID != "" {
		argv = append(argv, "--resume", req.ResumeID)
	}
	if req.SkipPermissions && canSkipPermissions() {
		argv = append(argv, "--dangerously-skip-permissions")
	}
	return argv
}

// claudeBinary locates the claude executable: PATH first, then the usual
// install locations.
func claudeBinary() string {
	name := "claude"
	if runtime.GOOS == "windows" {
		// claude.bat would recurse into this browser on some setups.
		name = "claude.exe"
	}
	if _, err := exec.LookPath(name); err == nil {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	for _, path := range []string{
		filepath.Join(home, ".claude", "local", "claude"),
		"/usr/local/bin/claude",
		"/opt/homebrew/bin/claude",
	} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return name
}

// canSkipPermissions reports whether --dangerously-skip-permissions is
// allowed. claude refuses it for root.
func canSkipPermissions() bool {
	return os.Getuid() != 0
}

// cwdRecord is the minimal shape of a log line carrying the session cwd.
type cwdRecord struct {
	CWD string `json:"cwd"`
}

// readCwdFromSession scans a session log for the first record that carries
// the working directory the session was started in.
func readCwdFromSession(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if !strings.Contains(string(line), `"cwd"`) {
			continue
		}
		var rec cwdRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return ""
		}
		return rec.CWD
	}
	return ""
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
