package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/existflow/planify/internal/model"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move [task-id] [status]",
	Short: "Move a task to another column",
	Long: `Move a task to To Do, In Progress or Done.

Examples:
  planify move 3f2a doing
  planify move 3f2a "To Do"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := model.ParseStatus(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		return moveTask(args[0], status)
	},
}

var doneUndo bool

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as done",
	Long: `Move a task to Done, or back to To Do with --undo.

Examples:
  planify done 3f2a
  planify done 3f2a --undo`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := model.StatusDone
		if doneUndo {
			status = model.StatusTodo
		}
		return moveTask(args[0], status)
	},
}

func init() {
	doneCmd.Flags().BoolVarP(&doneUndo, "undo", "u", false, "Move the task back to To Do")
}

func moveTask(ref string, status model.Status) error {
	ctx := context.Background()
	ws, err := openWorkspace(ctx, nil)
	if err != nil {
		return err
	}
	defer ws.close()

	task, err := ws.findTask(ref)
	if err != nil {
		return err
	}
	if task.Status == status {
		fmt.Printf("%q is already in %s\n", task.Title, status)
		return nil
	}

	if err := ws.board.MoveTask(ctx, task.ID, status); err != nil {
		return err
	}
	fmt.Printf("✓ %q moved to %s\n", task.Title, status)
	return nil
}
