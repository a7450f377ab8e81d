// Package preview renders a quick conversation digest for the finder's
// preview pane: the opening exchange plus the latest messages, with
// everything in between elided.
package preview

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/strrl/claude-chats/internal/ui"
)

const (
	firstShown = 3
	lastShown  = 4

	headBudget = 100_000
	tailBudget = 200_000

	maxLines = 5
	maxChars = 300
)

var (
	xmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	blankRunsRe = regexp.MustCompile(`\n{3,}`)
)

// message is one displayable conversation turn.
type message struct {
	role      string
	text      string
	timestamp string
}

// Render writes the preview for one session log to w. width is the pane
// width in columns.
func Render(w io.Writer, path string, width int) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintln(w, "  "+ui.Dim.Render("File not found"))
		return
	}

	if width < 23 {
		width = 23
	}
	sep := "  " + ui.Cyan.Faint(true).Render(strings.Repeat("~", width-3))

	head := readMessages(path, 0, headBudget)

	tailFrom := info.Size() - tailBudget
	var tail []message
	if tailFrom > 0 {
		tail = readMessages(path, tailFrom, tailBudget)
	}

	if len(head) == 0 && len(tail) == 0 {
		fmt.Fprintln(w, "\n  "+ui.Dim.Render("No messages"))
		return
	}

	fmt.Fprintln(w)
	if tailFrom <= 0 {
		// The whole log fit in one read.
		if len(head) <= firstShown+lastShown {
			printSection(w, head, sep)
		} else {
			printSection(w, head[:firstShown], sep)
			skipped := len(head) - firstShown - lastShown
			fmt.Fprintf(w, "\n  %s\n\n", ui.Yellow.Faint(true).Render(fmt.Sprintf("        ~ %d skipped", skipped)))
			printSection(w, head[len(head)-lastShown:], sep)
		}
	} else {
		if len(head) > firstShown {
			head = head[:firstShown]
		}
		printSection(w, head, sep)
		fmt.Fprintf(w, "\n  %s\n\n", ui.Yellow.Faint(true).Render("        ~  ...  "))
		if len(tail) > lastShown {
			tail = tail[len(tail)-lastShown:]
		}
		printSection(w, tail, sep)
	}
	fmt.Fprintln(w)
}

func printSection(w io.Writer, messages []message, sep string) {
	for i, m := range messages {
		fmt.Fprintln(w, renderMessage(m))
		if i < len(messages)-1 {
			fmt.Fprintln(w, sep)
		}
	}
}

func renderMessage(m message) string {
	label := ui.Magenta.Bold(true).Render("Claude")
	if m.role == "user" {
		label = ui.Green.Bold(true).Render("You   ")
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("  %s  %s", label, ui.Dim.Render(formatTimestamp(m.timestamp))))
	for _, line := range strings.Split(truncate(m.text), "\n") {
		out.WriteString("\n    " + line)
	}
	return out.String()
}

// truncate caps a message at maxLines lines and maxChars characters, noting
// how much was cut.
func truncate(text string) string {
	lines := strings.Split(text, "\n")
	remaining := 0
	if len(lines) > maxLines {
		remaining = len(lines) - maxLines
		lines = lines[:maxLines]
	}
	text = strings.Join(lines, "\n")
	if len(text) > maxChars {
		text = text[:maxChars]
	}
	if remaining > 0 {
		text += "\n" + ui.Dim.Render(fmt.Sprintf("+%d more lines", remaining))
	}
	return text
}

func formatTimestamp(ts string) string {
	if ts == "" {
		return strings.Repeat(" ", 12)
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return strings.Repeat(" ", 12)
	}
	return t.Format("Jan 02 15:04")
}

// logLine is the subset of a record the preview needs.
type logLine struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Message   *struct {
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

// readMessages collects user and assistant turns starting at seekFrom,
// reading at most budget bytes. Seeking into the middle of the file discards
// the partial first line.
func readMessages(path string, seekFrom, budget int64) []message {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	if seekFrom > 0 {
		if _, err := file.Seek(seekFrom, io.SeekStart); err != nil {
			return nil
		}
		reader.Reset(file)
		if _, err := reader.ReadString('\n'); err != nil {
			return nil
		}
	}

	var messages []message
	var bytesRead int64
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		bytesRead += int64(len(line)) + 1
		if bytesRead > budget {
			break
		}
		if len(line) == 0 {
			continue
		}

		var rec logLine
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if rec.Message == nil || (rec.Type != "user" && rec.Type != "assistant") {
			continue
		}
		if rec.Type == "user" && isSystemContent(rec.Message.Content) {
			continue
		}
		text := cleanText(extractText(rec.Message.Content))
		if text == "" {
			continue
		}
		messages = append(messages, message{role: rec.Type, text: text, timestamp: rec.Timestamp})
	}
	return messages
}

type contentBlock struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Content string `json:"content"`
}

// extractText joins the text parts of a content payload, which is either a
// plain string or an array of typed blocks.
func extractText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

var systemMarkers = []string{"<local-command-", "<command-name>", "<system-reminder>"}

func isSystemContent(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return containsMarker(text)
	}
	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return false
	}
	for _, b := range blocks {
		if containsMarker(b.Text) || containsMarker(b.Content) {
			return true
		}
	}
	return false
}

func containsMarker(text string) bool {
	for _, marker := range systemMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// cleanText strips markup and collapses blank runs for pane display.
func cleanText(text string) string {
	text = xmlTagRe.ReplaceAllString(text, "")
	text = ui.StripANSI(text)
	text = blankRunsRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
