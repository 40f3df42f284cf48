package cli

import (
	"context"
	"fmt"

	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/internal/store"
	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage the current project",
	Long: `Set or view the current project.

The current project is the board the interactive view opens on, and the
default project for 'planify add'.

Examples:
  planify context              # Show current project
  planify context ls           # List all projects
  planify context set Launch   # Switch to the Launch board
  planify context clear        # Back to all projects`,
	RunE: runContextShow,
}

var contextLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List all projects",
	RunE:    runProjectList,
}

var contextSetCmd = &cobra.Command{
	Use:   "set [project]",
	Short: "Set the current project",
	Args:  cobra.ExactArgs(1),
	RunE:  runContextSet,
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the current project",
	RunE:  runContextClear,
}

func init() {
	contextCmd.AddCommand(contextLsCmd)
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextClearCmd)
}

func runContextShow(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(context.Background(), nil)
	if err != nil {
		return err
	}
	defer ws.close()

	p, ok := ws.currentProject()
	if !ok {
		if _, _, last := ws.prefs.Snapshot(); last != "" {
			fmt.Printf("⚠️  Current project %s no longer exists\n", shortID(last))
			return nil
		}
		fmt.Println("📥 No current project, showing all projects")
		return nil
	}

	tasks := ws.board.Tasks(store.TaskFilter{ProjectID: p.ID})
	done := 0
	for _, t := range tasks {
		if t.Status == model.StatusDone {
			done++
		}
	}
	fmt.Printf("📁 Current project: %s (%d/%d done)\n", p.Name, done, len(tasks))
	return nil
}

func runContextSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ws, err := openWorkspace(ctx, nil)
	if err != nil {
		return err
	}
	defer ws.close()

	p, err := ws.findProject(args[0])
	if err != nil {
		return err
	}
	if err := ws.board.ViewProjectBoard(ctx, p.ID); err != nil {
		return err
	}
	if err := ws.prefs.SetLastProject(p.ID); err != nil {
		return fmt.Errorf("failed to set context: %w", err)
	}

	fmt.Printf("📁 Switched to: %s\n", p.Name)
	return nil
}

func runContextClear(cmd *cobra.Command, args []string) error {
	if err := loadPrefs().SetLastProject(""); err != nil {
		return fmt.Errorf("failed to clear context: %w", err)
	}
	fmt.Println("📥 Context cleared, showing all projects")
	return nil
}
