// Package navigator drives the interactive loop: project list, session
// list, and delete confirmation, orchestrated as a synchronous state machine
// over the finder and launcher collaborators.
package navigator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/strrl/claude-chats/internal/catalog"
	"github.com/strrl/claude-chats/internal/encoding"
	"github.com/strrl/claude-chats/internal/finder"
	"github.com/strrl/claude-chats/internal/launch"
	"github.com/strrl/claude-chats/internal/store"
	"github.com/strrl/claude-chats/internal/ui"
	"github.com/strrl/claude-chats/pkg/models"
)

// outcome tells the outer loop what a state decided.
type outcome int

const (
	stay outcome = iota
	back
	quit
	launched
)

// Navigator owns the interactive loop. All collaborators are explicit so
// tests can substitute them.
type Navigator struct {
	ProjectsDir string
	Scanner     catalog.Scanner
	Finder      finder.Finder
	Launcher    launch.Launcher
	Config      *store.Config
	CachePath   string
	In          io.Reader

	// PreviewCommand builds the finder preview command over an index→path
	// map file. Empty result disables the preview pane.
	PreviewCommand func(mapFile string) string

	// Summarize fills missing cache entries for the given sessions,
	// returning false when summarization is unavailable (no API key).
	Summarize func(cache *store.SummaryCache, sessions []models.Session) bool
}

// Run loops on the project list until the user quits or a claude process is
// launched.
func (n *Navigator) Run() error {
	for {
		out, err := n.projectList()
		if err != nil {
			return err
		}
		if out == quit || out == launched {
			return nil
		}
	}
}

// projectList shows a fresh catalog scan and dispatches one user action.
func (n *Navigator) projectList() (outcome, error) {
	projects, err := n.Scanner.Scan()
	if err != nil {
		return quit, fmt.Errorf("failed to scan projects: %w", err)
	}
	if len(projects) == 0 {
		fmt.Fprintln(ui.Out, "No chats found.")
		return quit, nil
	}

	sorted := catalog.Sort(projects, n.Config.SortMode())

	total := 0
	maxNameLen := 0
	for _, p := range projects {
		total += p.SessionCount
		if len(p.Name) > maxNameLen {
			maxNameLen = len(p.Name)
		}
	}

	width := ui.TermWidth()
	compact := ui.Compact()
	lines := make([]string, 0, len(sorted))
	byName := make(map[string]models.Project, len(sorted))
	for _, p := range sorted {
		lines = append(lines, ui.FormatProjectLine(p, maxNameLen, width, compact))
		byName[p.Name] = p
	}

	ui.ClearScreen()
	res, err := n.Finder.Pick(finder.Request{
		Lines:       lines,
		Header:      n.projectHeader(total, len(projects)),
		Prompt:      " Projects > ",
		BorderLabel: cwdDisplay(n.Scanner.Resolver.Home()),
		ExpectKeys:  []string{"tab", "ctrl-n", "ctrl-f", "ctrl-p"},
		Compact:     compact,
	})
	if err != nil {
		return quit, err
	}

	switch res.Key {
	case "esc":
		return quit, nil
	case "tab":
		n.Config.SetSortMode(n.Config.SortMode().Next())
		_ = n.Config.Save()
		return stay, nil
	case "ctrl-p":
		n.Config.SkipPermissions = !n.Config.SkipPermissions
		_ = n.Config.Save()
		return stay, nil
	case "ctrl-n":
		cwd, err := os.Getwd()
		if err != nil {
			cwd = n.Scanner.Resolver.Home()
		}
		return n.launchNew(cwd, "")
	case "ctrl-f":
		return n.newProjectFolder()
	}

	if len(res.Selections) == 0 {
		return quit, nil
	}
	name := ui.ProjectNameFromLine(res.Selections[0])
	project, ok := byName[name]
	if !ok {
		return stay, nil
	}

	if project.SessionCount == 0 {
		n.offerEmptyProjectDelete(project)
		return stay, nil
	}
	return n.sessionLoop(project)
}

func (n *Navigator) projectHeader(totalChats, projectCount int) string {
	perms := ui.Dim.Render("perms")
	if n.Config.SkipPermissions {
		perms = ui.Green.Render("perms")
	}
	return fmt.Sprintf("  %s\n  %s",
		ui.Dim.Render(fmt.Sprintf("%d chats, %d projects", totalChats, projectCount)),
		strings.Join([]string{
			ui.Dim.Render("enter") + " open",
			ui.Dim.Render("^n") + " new",
			ui.Dim.Render("^f") + " folder",
			ui.Dim.Render("^p") + " " + perms,
			ui.Dim.Render("tab") + " " + ui.Cyan.Render(n.Config.SortMode().Label()),
			ui.Dim.Render("esc") + " quit",
		}, "  "))
}

// launchNew starts a new claude session in dir. sessionFile, when set, lets
// the launcher recover the recorded working directory.
func (n *Navigator) launchNew(dir, sessionFile string) (outcome, error) {
	err := n.Launcher.Launch(launch.Request{
		Dir:             dir,
		SkipPermissions: n.Config.SkipPermissions,
		SessionFile:     sessionFile,
	})
	if err != nil {
		return quit, err
	}
	return launched, nil
}

// newProjectFolder prompts for a path, creates it together with its encoded
// catalog entry, and launches a session there.
func (n *Navigator) newProjectFolder() (outcome, error) {
	ui.ClearScreen()
	fmt.Fprintf(ui.Out, "\n  %s\n", ui.Bold.Render("New project folder"))
	folder := ui.AskString(n.In, "  "+ui.Dim.Render("Enter path (~ allowed):")+" ")
	if folder == "" {
		return stay, nil
	}
	folder = expandHome(folder, n.Scanner.Resolver.Home())
	folder, err := filepath.Abs(folder)
	if err != nil {
		return stay, nil
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		fmt.Fprintf(ui.Out, "\n  %s\n", ui.Red.Render("Error: "+err.Error()))
		ui.Pause(n.In)
		return stay, nil
	}
	// Register the encoded entry so the project shows up before its first chat.
	entry := filepath.Join(n.ProjectsDir, encoding.Encode(folder))
	if err := os.MkdirAll(entry, 0o755); err != nil {
		fmt.Fprintf(ui.Out, "\n  %s\n", ui.Red.Render("Error: "+err.Error()))
		ui.Pause(n.In)
		return stay, nil
	}
	return n.launchNew(folder, "")
}

// offerEmptyProjectDelete handles opening a project with zero sessions: the
// only useful action is removing the leftover encoded folder.
func (n *Navigator) offerEmptyProjectDelete(project models.Project) {
	ui.ClearScreen()
	fmt.Fprintf(ui.Out, "\n  %s  %s\n\n",
		ui.Bold.Render(project.Name),
		ui.Dim.Render("has no conversations."))
	if ui.AskYesNo(n.In, "  "+ui.Dim.Render("Delete empty folder? (y/N):")+" ") {
		_ = os.RemoveAll(project.DirPath)
		fmt.Fprintf(ui.Out, "\n  %s\n\n", ui.Green.Bold(true).Render("Deleted folder."))
	} else {
		fmt.Fprintf(ui.Out, "\n  %s\n\n", ui.Dim.Render("Skipped."))
	}
	ui.Pause(n.In)
}

func cwdDisplay(home string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	if cwd == home {
		return "~"
	}
	if strings.HasPrefix(cwd, home+string(os.PathSeparator)) {
		return "~" + cwd[len(home):]
	}
	return cwd
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(home, path[2:])
	}
	return path
}
