package commands

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strrl/claude-chats/internal/preview"
	"github.com/strrl/claude-chats/internal/ui"
)

// newPreviewCommand creates the hidden preview command fzf invokes for its
// preview pane: `claude-chats preview <map-file> <index>`.
func newPreviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "preview <map-file> <index>",
		Hidden: true,
		Args:   cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return nil
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return nil
			}
			lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
			if idx < 0 || idx >= len(lines) {
				return nil
			}
			preview.Render(os.Stdout, strings.TrimSpace(lines[idx]), paneWidth())
			return nil
		},
	}
}

// paneWidth prefers the width fzf exports for the preview pane.
func paneWidth() int {
	if cols, err := strconv.Atoi(os.Getenv("FZF_PREVIEW_COLUMNS")); err == nil && cols > 0 {
		return cols
	}
	return ui.TermWidth() / 2
}
