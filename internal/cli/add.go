package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/planify/internal/model"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task to a project.

Without --project the task goes to the project set with 'planify context set'.

Examples:
  planify add "Write copy"
  planify add "Fix login" -p high -d tomorrow
  planify add "Release notes" --project Launch -s "In Progress" -a maria`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addProject  string
	addPriority string
	addDue      string
	addAssignee string
	addStatus   string
	addDesc     string
)

func init() {
	addCmd.Flags().StringVarP(&addProject, "project", "P", "", "Project to add the task to (id, id prefix or name)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "Priority (low, medium, high)")
	addCmd.Flags().StringVarP(&addDue, "due", "d", "", "Due date (today, tomorrow, +3d, 2025-01-15)")
	addCmd.Flags().StringVarP(&addAssignee, "assign", "a", "", "Assignee")
	addCmd.Flags().StringVarP(&addStatus, "status", "s", "", "Column (todo, in-progress, done)")
	addCmd.Flags().StringVar(&addDesc, "desc", "", "Description")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ws, err := openWorkspace(ctx, nil)
	if err != nil {
		return err
	}
	defer ws.close()

	project, ok := ws.currentProject()
	if addProject != "" {
		if project, err = ws.findProject(addProject); err != nil {
			return err
		}
	} else if !ok {
		return fmt.Errorf("no project given, use --project or 'planify context set <project>'")
	}

	draft := model.TaskDraft{
		Title:        strings.Join(args, " "),
		Description:  addDesc,
		AssignedUser: addAssignee,
	}
	if addPriority != "" {
		if draft.Priority, err = model.ParsePriority(addPriority); err != nil {
			return err
		}
	}
	if addStatus != "" {
		if draft.Status, err = model.ParseStatus(addStatus); err != nil {
			return err
		}
	}
	if addDue != "" {
		if draft.DueDate, err = parseDue(addDue, time.Now()); err != nil {
			return err
		}
	}

	task, err := ws.board.CreateTask(ctx, project.ID, draft)
	if err != nil {
		return err
	}

	fmt.Printf("  [%s] %s  %s  %s  due %s\n", project.Name, shortID(task.ID), task.Title,
		task.Priority, task.DueDate.Format("Jan 2"))
	return nil
}
