package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/strrl/claude-chats/internal/catalog"
	"github.com/strrl/claude-chats/internal/index"
	"github.com/strrl/claude-chats/pkg/models"
)

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [project]",
		Short: "List projects or sessions without the interactive browser",
		Long: `List projects or sessions in a non-interactive format.
Without arguments: lists all projects
With a project name: lists all sessions in that project`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	dir, err := claudeDir()
	if err != nil {
		return err
	}
	scanner := catalog.NewScanner(filepath.Join(dir, "projects"))
	projects, err := scanner.Scan()
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No projects found")
			return nil
		}
		return fmt.Errorf("failed to scan projects: %w", err)
	}

	if len(args) == 1 {
		return showSessions(projects, args[0])
	}
	return showProjects(projects)
}

func showProjects(projects []models.Project) error {
	if len(projects) == 0 {
		fmt.Println("No projects found")
		return nil
	}

	sorted := catalog.Sort(projects, models.SortByRecent)

	fmt.Println("Projects:")
	fmt.Println("=========")
	for i, project := range sorted {
		fmt.Printf("%d. %s\n", i+1, project.Name)
		fmt.Printf("   Path: %s\n", project.RealPath)
		fmt.Printf("   Sessions: %d\n", project.SessionCount)
		if !project.LastActivity.IsZero() {
			fmt.Printf("   Last Activity: %s\n", project.LastActivity.Format("2006-01-02 15:04"))
		}
		fmt.Println()
	}
	return nil
}

func showSessions(projects []models.Project, name string) error {
	var target *models.Project
	for _, project := range projects {
		if project.Name == name || project.RealPath == name || filepath.Base(project.DirPath) == name {
			p := project
			target = &p
			break
		}
	}
	if target == nil {
		return fmt.Errorf("project '%s' not found", name)
	}

	sessions, err := index.Load(target.DirPath)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Printf("No sessions found for project '%s'\n", name)
		return nil
	}

	fmt.Printf("Sessions for project '%s':\n", target.Name)
	fmt.Printf("Path: %s\n", target.RealPath)
	fmt.Println("===================================")
	for i, session := range sessions {
		fmt.Printf("%d. Session ID: %s\n", i+1, session.ID())
		if session.Date != "" {
			fmt.Printf("   Date: %s\n", session.Date)
		}
		fmt.Printf("   Message: %s\n", session.Message)
		fmt.Println()
	}
	return nil
}
