package navigator

import (
	"fmt"
	"os"
	"strings"

	"github.com/strrl/claude-chats/internal/finder"
	"github.com/strrl/claude-chats/internal/index"
	"github.com/strrl/claude-chats/internal/launch"
	"github.com/strrl/claude-chats/internal/store"
	"github.com/strrl/claude-chats/internal/ui"
	"github.com/strrl/claude-chats/pkg/models"
)

// sessionLoop shows one project's chats and stays there until the user goes
// back, quits, or hands off to claude. The session index is reloaded fresh
// every time the loop re-enters (after a deletion, in particular).
func (n *Navigator) sessionLoop(project models.Project) (outcome, error) {
	for {
		fmt.Fprint(ui.Out, ui.Dim.Render("  Loading "+project.Name+"..."))
		sessions, err := index.Load(project.DirPath)
		ui.ClearScreen()
		if err != nil || len(sessions) == 0 {
			return stay, nil
		}

		out, err := n.sessionPicker(project, sessions)
		if err != nil {
			return quit, err
		}
		if out != stay {
			return out, nil
		}
	}
}

// sessionPicker runs the finder over one freshly loaded index. Returns stay
// to request a reload, back to leave the project.
func (n *Navigator) sessionPicker(project models.Project, sessions []models.Session) (outcome, error) {
	mapFile, err := writeMapFile(sessions)
	if err != nil {
		mapFile = ""
	}
	if mapFile != "" {
		defer os.Remove(mapFile)
	}

	width := ui.TermWidth()
	compact := ui.Compact()
	idxWidth := len(fmt.Sprint(len(sessions) - 1))

	summariesOn := n.Config.AISummaries
	cache := store.LoadSummaryCache(n.CachePath)

	buildLines := func() []string {
		lines := make([]string, 0, len(sessions))
		for i, s := range sessions {
			summaryText := ""
			if summariesOn {
				summaryText, _ = cache.Get(s.ID())
			}
			lines = append(lines, ui.FormatSessionLine(i, s, idxWidth, summaryText, width, compact))
		}
		return lines
	}
	lines := buildLines()

	var emptyIdx []int
	for i, s := range sessions {
		if s.TrulyEmpty {
			emptyIdx = append(emptyIdx, i)
		}
	}

	previewCmd := ""
	if n.PreviewCommand != nil && mapFile != "" {
		previewCmd = n.PreviewCommand(mapFile)
	}

	// Toggle keys re-run the finder without reloading the index.
	for {
		res, err := n.Finder.Pick(finder.Request{
			Lines:      lines,
			Header:     n.sessionHeader(project, len(sessions), summariesOn),
			Prompt:     " ",
			Multi:      true,
			ExpectKeys: []string{"bs", "ctrl-d", "ctrl-x", "ctrl-p", "ctrl-s", "ctrl-n"},
			PreviewCmd: previewCmd,
			Compact:    compact,
			Wide:       width >= 100,
		})
		if err != nil {
			return quit, err
		}

		switch res.Key {
		case "esc":
			return quit, nil
		case "ctrl-p":
			n.Config.SkipPermissions = !n.Config.SkipPermissions
			_ = n.Config.Save()
			continue
		case "ctrl-s":
			summariesOn = !summariesOn
			n.Config.AISummaries = summariesOn
			_ = n.Config.Save()
			if summariesOn {
				if n.Summarize == nil || !n.Summarize(cache, sessions) {
					summariesOn = false
					n.Config.AISummaries = false
					_ = n.Config.Save()
					continue
				}
			}
			lines = buildLines()
			continue
		case "ctrl-n":
			newest := ""
			if len(sessions) > 0 {
				newest = sessions[0].FilePath
			}
			return n.launchNew(project.RealPath, newest)
		}

		if res.Key == "bs" || (len(res.Selections) == 0 && res.Key != "ctrl-d" && res.Key != "ctrl-x") {
			return back, nil
		}

		// Resume the highlighted session. The resolved project directory is
		// where the session's storage lives, so it wins over any recorded cwd.
		if res.Key == "" && len(res.Selections) > 0 {
			idx, ok := ui.ParseLineIndex(res.Selections[0])
			if !ok || idx < 0 || idx >= len(sessions) {
				continue
			}
			err := n.Launcher.Launch(launch.Request{
				Dir:             project.RealPath,
				ResumeID:        sessions[idx].ID(),
				SkipPermissions: n.Config.SkipPermissions,
				SessionFile:     sessions[idx].FilePath,
			})
			if err != nil {
				return quit, err
			}
			return launched, nil
		}

		var doomed []int
		switch res.Key {
		case "ctrl-d":
			if len(emptyIdx) == 0 {
				continue
			}
			doomed = emptyIdx
		case "ctrl-x":
			for _, line := range res.Selections {
				if idx, ok := ui.ParseLineIndex(line); ok && idx >= 0 && idx < len(sessions) {
					doomed = append(doomed, idx)
				}
			}
			if len(doomed) == 0 {
				continue
			}
		default:
			continue
		}

		n.confirmDelete(project, sessions, doomed)
		return stay, nil
	}
}

func (n *Navigator) sessionHeader(project models.Project, count int, summariesOn bool) string {
	perms := ui.Dim.Render("perms")
	if n.Config.SkipPermissions {
		perms = ui.Green.Render("perms")
	}
	ai := ui.Dim.Render("ai")
	if summariesOn {
		ai = ui.Green.Render("ai")
	}
	return fmt.Sprintf("  %s  %s\n  %s",
		ui.Bold.Render(project.Name),
		ui.Dim.Render(fmt.Sprintf("%d chats", count)),
		strings.Join([]string{
			ui.Dim.Render("ret") + " go",
			ui.Dim.Render("^n") + " new",
			ui.Dim.Render("^p") + " " + perms,
			ui.Dim.Render("^s") + " " + ai,
			ui.Dim.Render("^x") + " del",
			ui.Dim.Render("bs") + " back",
		}, " "))
}

// confirmDelete renders the exact set of records about to be removed and
// requires an explicit yes. Per-item removal errors are reported and
// counted, never aborting the batch.
func (n *Navigator) confirmDelete(project models.Project, sessions []models.Session, doomed []int) {
	ui.ClearScreen()
	width := ui.TermWidth()
	rule := "  " + ui.Red.Render(strings.Repeat("~", max(width-4, 10)))

	var totalSize int64
	for _, idx := range doomed {
		totalSize += sessions[idx].Size
	}
	label := "conversations"
	if len(doomed) == 1 {
		label = "conversation"
	}

	fmt.Fprintf(ui.Out, "\n%s\n\n", rule)
	fmt.Fprintf(ui.Out, "  %s  %s\n", ui.Red.Bold(true).Render(fmt.Sprintf("  Delete %d %s", len(doomed), label)),
		ui.Dim.Render("("+ui.HumanSize(totalSize)+")"))
	fmt.Fprintf(ui.Out, "  %s%s\n\n%s\n\n", ui.Dim.Render("  from "), ui.Bold.Render(project.Name), rule)

	for _, idx := range doomed {
		s := sessions[idx]
		msg := s.Message
		if len(msg) > 65 {
			msg = msg[:65]
		}
		fmt.Fprintf(ui.Out, "    %s  %s  %s  %s\n",
			ui.Red.Render("x"),
			ui.Dim.Render(fmt.Sprintf("%-16s", s.Date)),
			ui.Yellow.Render(fmt.Sprintf("%4s", ui.HumanSize(s.Size))),
			msg)
	}
	fmt.Fprintf(ui.Out, "\n%s\n\n", rule)

	prompt := fmt.Sprintf("  %s %s%s%s ",
		ui.Bold.Render("Confirm delete?"),
		ui.Red.Render("y"), ui.Dim.Render("/"), ui.Green.Render("N"))
	if !ui.AskYesNo(n.In, prompt) {
		fmt.Fprintf(ui.Out, "\n  %s\n", ui.Dim.Render("Cancelled."))
		ui.Pause(n.In)
		return
	}

	deleted := 0
	for _, idx := range doomed {
		if err := index.Remove(sessions[idx]); err != nil {
			fmt.Fprintf(ui.Out, "  %s\n", ui.Red.Render("Error: "+err.Error()))
			continue
		}
		deleted++
	}
	fmt.Fprintf(ui.Out, "\n  %s\n\n", ui.Green.Bold(true).Render(fmt.Sprintf("  Deleted %d %s.", deleted, label)))
	ui.Pause(n.In)
}

// writeMapFile persists the index → log path mapping the preview command
// reads. Callers remove the file when the picker exits.
func writeMapFile(sessions []models.Session) (string, error) {
	f, err := os.CreateTemp("", "claude-chats-*.txt")
	if err != nil {
		return "", err
	}
	for _, s := range sessions {
		if _, err := fmt.Fprintln(f, s.FilePath); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", err
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
