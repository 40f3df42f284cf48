package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Delete a task by its ID or a unique ID prefix.

Examples:
  planify delete 3f2a9c1e
  planify rm 3f2a`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ws, err := openWorkspace(ctx, nil)
	if err != nil {
		return err
	}
	defer ws.close()

	task, err := ws.findTask(args[0])
	if err != nil {
		return err
	}

	if cfg.ConfirmDelete {
		fmt.Printf("About to delete: %q (ID: %s)\n", task.Title, task.ID)
		if !confirm("Are you sure?") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	return ws.board.DeleteTask(ctx, task.ID)
}
