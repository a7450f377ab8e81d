package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/strrl/claude-chats/internal/summary"
	"github.com/strrl/claude-chats/internal/ui"
)

// NewSetKeyCommand creates the set-key command
func NewSetKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key",
		Short: "Set or update the Gemini API key used for AI summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if key := promptGeminiKey(os.Stdin); key != "" {
				fmt.Fprintf(ui.Out, "  %s\n", ui.Green.Render("Gemini API key configured."))
			}
			return nil
		},
	}
}

// promptGeminiKey asks for an API key and stores it. Returns "" when the
// user cancels or the key cannot be saved.
func promptGeminiKey(in io.Reader) string {
	key := ui.AskString(in, "\n  "+ui.Bold.Render("Paste Gemini API key:")+" ")
	if key == "" {
		fmt.Fprintf(ui.Out, "  %s\n", ui.Dim.Render("Cancelled."))
		return ""
	}
	if err := summary.SaveKey(key); err != nil {
		fmt.Fprintf(ui.Out, "  %s\n", ui.Red.Render("Error: "+err.Error()))
		return ""
	}
	fmt.Fprintf(ui.Out, "  %s\n\n", ui.Green.Render("Key saved to "+summary.KeyFilePath()))
	return key
}
