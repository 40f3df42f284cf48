package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/internal/store"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks grouped by project and column.

Examples:
  planify list
  planify list --project Launch
  planify list --status done`,
	RunE: runList,
}

var (
	listProject string
	listStatus  string
)

func init() {
	listCmd.Flags().StringVarP(&listProject, "project", "P", "", "Filter by project (id, id prefix or name)")
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by column (todo, in-progress, done)")
}

func runList(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(context.Background(), nil)
	if err != nil {
		return err
	}
	defer ws.close()

	var filter store.TaskFilter
	if listProject != "" {
		p, err := ws.findProject(listProject)
		if err != nil {
			return err
		}
		filter.ProjectID = p.ID
	}
	if listStatus != "" {
		if filter.Status, err = model.ParseStatus(listStatus); err != nil {
			return err
		}
	}

	tasks := ws.board.Tasks(filter)
	if len(tasks) == 0 {
		fmt.Println("No tasks found. Add one with: planify add \"Your task\"")
		return nil
	}

	byProject := make(map[string][]model.Task)
	var order []string
	for _, t := range tasks {
		if _, seen := byProject[t.ProjectID]; !seen {
			order = append(order, t.ProjectID)
		}
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return ws.board.ProjectName(order[i]) < ws.board.ProjectName(order[j])
	})

	now := time.Now()
	for _, id := range order {
		printTasks(ws.board.ProjectName(id), byProject[id], now)
	}
	return nil
}

func printTasks(projectName string, tasks []model.Task, now time.Time) {
	open := 0
	for _, t := range tasks {
		if t.Status != model.StatusDone {
			open++
		}
	}

	fmt.Printf("\n📁 %s (%d open)\n", projectName, open)
	fmt.Println(strings.Repeat("─", 72))

	for _, status := range model.Statuses() {
		var column []model.Task
		for _, t := range tasks {
			if t.Status == status {
				column = append(column, t)
			}
		}
		if len(column) == 0 {
			continue
		}
		fmt.Printf("  %s\n", status)
		for _, t := range column {
			printTask(t, now)
		}
	}
	fmt.Println()
}

func printTask(t model.Task, now time.Time) {
	priority := "  "
	switch t.Priority {
	case model.PriorityHigh:
		priority = "▲ "
	case model.PriorityLow:
		priority = "▽ "
	}

	due := t.DueDate.Format("Jan 2")
	if t.IsOverdue(now) {
		due = "!" + due
	}

	title := []rune(t.Title)
	if len(title) > 36 {
		title = append(title[:33], []rune("...")...)
	}

	fmt.Printf("    %s%-8s  %-36s  %-7s  %s\n", priority, shortID(t.ID), string(title), due, t.AssignedUser)
}
