package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strrl/claude-chats/internal/catalog"
	"github.com/strrl/claude-chats/internal/finder"
	"github.com/strrl/claude-chats/internal/launch"
	"github.com/strrl/claude-chats/internal/navigator"
	"github.com/strrl/claude-chats/internal/store"
	"github.com/strrl/claude-chats/internal/summary"
	"github.com/strrl/claude-chats/internal/ui"
	"github.com/strrl/claude-chats/pkg/models"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "claude-chats",
		Short: "Browse, resume, and delete Claude Code conversations",
		Long: `claude-chats is an fzf-driven browser for Claude Code chat sessions.

Project view:
  enter    Browse conversations in selected project
  ctrl-n   Start new session in the current directory
  ctrl-f   Create new project folder
  ctrl-p   Toggle --dangerously-skip-permissions
  tab      Cycle sort order (A-Z / Most chats / Recent)
  esc      Quit

Chat view:
  enter    Resume highlighted conversation in Claude Code
  ctrl-n   Start new session in current project
  space    Toggle selection
  ctrl-a   Select all
  ctrl-s   Toggle AI summaries (Gemini)
  ctrl-x   Delete selected conversations
  ctrl-d   Purge empty sessions (no real content)
  backspace  Back to project list
  esc      Quit`,
		RunE:          runBrowse,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewShowCommand())
	rootCmd.AddCommand(NewSetKeyCommand())
	rootCmd.AddCommand(newPreviewCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// claudeDir returns ~/.claude.
func claudeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".claude"), nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	dir, err := claudeDir()
	if err != nil {
		return err
	}
	projectsDir := filepath.Join(dir, "projects")
	if _, err := os.Stat(projectsDir); err != nil {
		fmt.Println("No Claude Code projects found.")
		fmt.Printf("Expected: %s\n", projectsDir)
		return nil
	}

	fzf, err := finder.NewFzf()
	if err != nil {
		return fmt.Errorf("%v\n%s", err, finder.InstallHint)
	}

	cfg := store.LoadConfig(filepath.Join(dir, "claude-chats.json"))

	nav := &navigator.Navigator{
		ProjectsDir:    projectsDir,
		Scanner:        catalog.NewScanner(projectsDir),
		Finder:         fzf,
		Launcher:       launch.CLI{},
		Config:         cfg,
		CachePath:      filepath.Join(dir, "claude-chats-summaries.json"),
		In:             os.Stdin,
		PreviewCommand: previewCommand,
		Summarize:      fillSummaries,
	}
	return nav.Run()
}

// previewCommand builds the shell command fzf runs for its preview pane.
// {n} expands to the zero-based index of the highlighted line.
func previewCommand(mapFile string) string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%q preview %q {n}", exe, mapFile)
}

// fillSummaries fetches missing AI summaries for the given sessions,
// prompting for an API key when none is stored yet. Returns false when
// summarization stays unavailable.
func fillSummaries(cache *store.SummaryCache, sessions []models.Session) bool {
	key := summary.LoadKey()
	if key == "" {
		key = promptGeminiKey(os.Stdin)
		if key == "" {
			return false
		}
	}

	client := summary.NewClient(key)
	client.FillMissing(cache, sessions, func(done, total int) {
		fmt.Fprintf(ui.Out, "\r  Summarizing %d/%d...", done, total)
	})
	fmt.Fprint(ui.Out, "\r"+strings.Repeat(" ", 40)+"\r")
	return true
}
