package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/existflow/planify/internal/model"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task",
	Long: `Change a task's fields. Only the flags given are changed.

Examples:
  planify edit 3f2a --title "Write launch copy"
  planify edit 3f2a -p high -d +2d -a maria`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editTitle    string
	editDesc     string
	editPriority string
	editDue      string
	editAssignee string
)

func init() {
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVar(&editDesc, "desc", "", "New description")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "Priority (low, medium, high)")
	editCmd.Flags().StringVarP(&editDue, "due", "d", "", "Due date (today, tomorrow, +3d, 2025-01-15)")
	editCmd.Flags().StringVarP(&editAssignee, "assign", "a", "", "Assignee")
}

func runEdit(cmd *cobra.Command, args []string) error {
	var patch model.TaskPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &editTitle
	}
	if flags.Changed("desc") {
		patch.Description = &editDesc
	}
	if flags.Changed("priority") {
		p, err := model.ParsePriority(editPriority)
		if err != nil {
			return err
		}
		patch.Priority = &p
	}
	if flags.Changed("due") {
		due, err := parseDue(editDue, time.Now())
		if err != nil {
			return err
		}
		patch.DueDate = &due
	}
	if flags.Changed("assign") {
		patch.AssignedUser = &editAssignee
	}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to change, see 'planify edit --help'")
	}

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
	_, err = ws.board.EditTask(ctx, task.ID, patch)
	return err
}
