// Package finder drives the external fuzzy-finder process used for all list
// selection. The browser hands it display lines and expected keys; it hands
// back the key that ended the session and the raw selected lines.
package finder

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// Request describes one finder invocation.
type Request struct {
	Lines       []string
	Header      string
	Prompt      string
	BorderLabel string
	Multi       bool
	ExpectKeys  []string
	PreviewCmd  string
	Compact     bool // narrow terminal: drop margins and the preview pane
	Wide        bool // preview fits beside the list instead of below it
}

// Result reports how a finder invocation ended. Key is "" for a plain enter,
// "esc" for dismissal, or one of the request's expect keys. Selections holds
// the raw display lines that were selected, still carrying their decoration.
type Result struct {
	Key        string
	Selections []string
}

// Finder selects lines via an external process.
type Finder interface {
	Pick(req Request) (Result, error)
}

// ErrNotInstalled reports that the fzf binary is missing or unusable.
var ErrNotInstalled = errors.New("fzf not found")

// InstallHint is shown alongside ErrNotInstalled.
const InstallHint = `Install with:
  Ubuntu/Debian: sudo apt install fzf
  macOS:         brew install fzf`

// colorTheme is the fixed fzf color scheme.
var colorTheme = strings.Join([]string{
	"fg:#c0caf5",
	"bg:#1a1b26",
	"hl:#bb9af7",
	"fg+:#c0caf5",
	"bg+:#292e42",
	"hl+:#7dcfff",
	"info:#7aa2f7",
	"prompt:#7dcfff",
	"pointer:#ff007c",
	"marker:#9ece6a",
	"spinner:#9ece6a",
	"header:#565f89",
	"border:#27a1b9",
	"gutter:#1a1b26",
}, ",")

// Fzf runs the real fzf binary.
type Fzf struct {
	version float64
}

// NewFzf probes the fzf binary once and fails when it is not installed.
func NewFzf() (*Fzf, error) {
	out, err := exec.Command("fzf", "--version").Output()
	if err != nil {
		return nil, ErrNotInstalled
	}
	return &Fzf{version: parseVersion(string(out))}, nil
}

// parseVersion extracts major.minor from `fzf --version` output.
func parseVersion(out string) float64 {
	m := regexp.MustCompile(`^(\d+\.\d+)`).FindStringSubmatch(strings.TrimSpace(out))
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// Pick feeds the request lines to fzf and blocks until the user decides.
// A non-zero fzf exit reads as dismissal, never as an error.
func (f *Fzf) Pick(req Request) (Result, error) {
	cmd := exec.Command("fzf", f.args(req)...)
	cmd.Stdin = strings.NewReader(strings.Join(req.Lines, "\n"))

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{Key: "esc"}, nil
		}
		return Result{}, fmt.Errorf("failed to run fzf: %w", err)
	}
	return parseOutput(string(out), len(req.ExpectKeys) > 0), nil
}

// args assembles the fzf command line, feature-gating flags by version.
func (f *Fzf) args(req Request) []string {
	margin := "1,2"
	if req.Compact {
		margin = "0,1"
	}
	border := "sharp"
	if f.version >= 0.35 {
		border = "rounded"
	}
	info := "inline"
	if f.version >= 0.39 {
		info = "inline-right"
	}

	args := []string{
		"--header", req.Header,
		"--header-first",
		"--reverse",
		"--no-sort",
		"--prompt", req.Prompt,
		"--pointer", ">",
		"--marker", "*",
		"--border", border,
		"--margin", margin,
		"--padding", "0,1",
		"--info", info,
		"--color", colorTheme,
		"--ansi",
	}
	if f.version >= 0.35 {
		args = append(args, "--border-label-pos", "3")
		if req.BorderLabel != "" {
			args = append(args, "--border-label", " "+req.BorderLabel+" ")
		}
	}

	binds := []string{"ctrl-a:select-all"}
	if req.Multi {
		args = append(args, "--multi")
		binds = append(binds, "space:toggle+down")
	}
	if len(req.ExpectKeys) > 0 {
		args = append(args, "--expect", strings.Join(req.ExpectKeys, ","))
	}
	args = append(args, "--bind", strings.Join(binds, ","))

	if req.PreviewCmd != "" && !req.Compact {
		position := "bottom:40%:wrap:border-top"
		if req.Wide {
			position = "right:50%:wrap:border-left"
		}
		args = append(args, "--preview", req.PreviewCmd, "--preview-window", position)
	}
	return args
}

// parseOutput splits fzf stdout into the pressed key and the selections.
// With --expect the first line is the key (empty for plain enter).
func parseOutput(out string, expecting bool) Result {
	if !expecting {
		return Result{Selections: nonEmptyLines(strings.Split(strings.TrimRight(out, "\n"), "\n"))}
	}
	lines := strings.Split(out, "\n")
	res := Result{Key: strings.TrimSpace(lines[0])}
	res.Selections = nonEmptyLines(lines[1:])
	return res
}

func nonEmptyLines(lines []string) []string {
	var kept []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	return kept
}
