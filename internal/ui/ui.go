// Package ui owns terminal presentation: styles, list-line formatting, and
// the few blocking prompts the browser needs outside the finder.
package ui

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	Dim     = lipgloss.NewStyle().Faint(true)
	Bold    = lipgloss.NewStyle().Bold(true)
	Cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	Green   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	Red     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	Yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	Magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	White   = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Bold(true)

	// Out is where all status output goes. Swappable in tests.
	Out io.Writer = os.Stdout
)

var ansiRe = regexp.MustCompile(`\x1b\[[^m]*m`)

// StripANSI removes color escape sequences, recovering the plain text of a
// decorated display line.
func StripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// TermWidth returns the terminal column count, defaulting to 80.
func TermWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// Compact reports whether the terminal is too narrow for the full layout.
func Compact() bool {
	return TermWidth() < 70
}

// ClearScreen resets the terminal before handing it to the finder or a
// confirmation screen.
func ClearScreen() {
	fmt.Fprint(Out, "\033[2J\033[H")
}

// HumanSize renders a byte count the way the chat list shows it.
func HumanSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%dB", size)
	case size < 1024*1024:
		return fmt.Sprintf("%dK", size/1024)
	default:
		return fmt.Sprintf("%dM", size/(1024*1024))
	}
}

// AskYesNo prompts on out and reads one line from in. Only an explicit y/yes
// confirms.
func AskYesNo(in io.Reader, prompt string) bool {
	fmt.Fprint(Out, prompt)
	answer := strings.ToLower(strings.TrimSpace(readLine(in)))
	return answer == "y" || answer == "yes"
}

// AskString prompts for one line of input.
func AskString(in io.Reader, prompt string) string {
	fmt.Fprint(Out, prompt)
	return strings.TrimSpace(readLine(in))
}

// Pause waits for enter so the user can read a message.
func Pause(in io.Reader) {
	fmt.Fprint(Out, Dim.Render("  Press Enter..."))
	readLine(in)
}

func readLine(in io.Reader) string {
	var line strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			line.WriteByte(buf[0])
		}
		if err != nil {
			break
		}
	}
	return strings.TrimRight(line.String(), "\r")
}
