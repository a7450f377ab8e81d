package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/strrl/claude-chats/pkg/models"
)

// FormatProjectLine renders one project entry for the finder list. Missing
// projects show magenta; empty ones are dimmed.
func FormatProjectLine(p models.Project, maxNameLen, termWidth int, compact bool) string {
	name := p.Name
	padding := maxNameLen - len(name) + 2
	if compact {
		maxName := termWidth - 16
		if len(name) > maxName {
			name = name[:maxName-1] + "~"
		}
		padding = min(maxName, maxNameLen) - len(name) + 2
	}
	if padding < 1 {
		padding = 1
	}
	pad := strings.Repeat(" ", padding)

	switch {
	case p.Missing:
		return "  " + Magenta.Render(fmt.Sprintf("%s%s%3d chats", name, pad, p.SessionCount))
	case p.SessionCount == 0:
		return "  " + Dim.Render(fmt.Sprintf("%s%s  0 chats", name, pad))
	default:
		countStyle := Green
		if p.SessionCount >= 30 {
			countStyle = Red
		} else if p.SessionCount >= 10 {
			countStyle = Yellow
		}
		return fmt.Sprintf("  %s%s%s %s",
			White.Render(name), pad,
			countStyle.Render(fmt.Sprintf("%3d", p.SessionCount)),
			Dim.Render("chats"))
	}
}

// FormatSessionLine renders one chat entry: index, date, size, and either
// the first user message or its cached AI summary.
func FormatSessionLine(idx int, s models.Session, idxWidth int, summary string, termWidth int, compact bool) string {
	size := HumanSize(s.Size)

	if compact {
		if s.IsPlaceholder() {
			return " " + Dim.Render(fmt.Sprintf("%*d %4s %s", idxWidth, idx, size, s.Message))
		}
		text := s.Message
		if summary != "" {
			text = summary
		}
		maxMsg := termWidth - idxWidth - 12
		if len(text) > maxMsg && maxMsg > 1 {
			text = text[:maxMsg-1] + "~"
		}
		if summary != "" {
			text = Cyan.Render(text)
		}
		return fmt.Sprintf(" %*d %s %s", idxWidth, idx, Yellow.Render(fmt.Sprintf("%4s", size)), text)
	}

	if s.IsPlaceholder() {
		return "  " + Dim.Render(fmt.Sprintf("%*d  %-16s  %4s  %s", idxWidth, idx, s.Date, size, s.Message))
	}
	text := s.Message
	if summary != "" {
		text = Cyan.Render(summary)
	}
	return fmt.Sprintf("  %*d  %s  %s  %s",
		idxWidth, idx,
		Dim.Render(fmt.Sprintf("%-16s", s.Date)),
		Yellow.Render(fmt.Sprintf("%4s", size)),
		text)
}

// ParseLineIndex recovers the leading list index from a raw selected line.
func ParseLineIndex(line string) (int, bool) {
	clean := strings.TrimSpace(StripANSI(line))
	if clean == "" {
		return 0, false
	}
	fields := strings.Fields(clean)
	var idx int
	if _, err := fmt.Sscanf(fields[0], "%d", &idx); err != nil {
		return 0, false
	}
	return idx, true
}

var chatCountSuffix = regexp.MustCompile(`\s+\d+\s+chats\s*$`)

// ProjectNameFromLine recovers the display name from a raw project line by
// stripping decoration and the trailing chat-count column.
func ProjectNameFromLine(line string) string {
	clean := strings.TrimSpace(StripANSI(line))
	return strings.TrimSpace(chatCountSuffix.ReplaceAllString(clean, ""))
}
