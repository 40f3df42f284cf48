package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/internal/store"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  `Create, list, rename and delete projects.`,
}

var projectNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new project",
	Long: `Create a new project.

Examples:
  planify project new "Launch"
  planify project new "Launch" --desc "Q3 product launch"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProjectNew,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all projects",
	RunE:    runProjectList,
}

var projectEditCmd = &cobra.Command{
	Use:   "edit [project]",
	Short: "Rename a project or change its description",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectEdit,
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete [project]",
	Aliases: []string{"rm"},
	Short:   "Delete a project and its tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectDelete,
}

var (
	projectDesc string
	projectName string
)

func init() {
	projectNewCmd.Flags().StringVar(&projectDesc, "desc", "", "Project description")
	projectEditCmd.Flags().StringVarP(&projectName, "name", "n", "", "New name")
	projectEditCmd.Flags().StringVar(&projectDesc, "desc", "", "New description")

	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectEditCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ws, err := openWorkspace(ctx, nil)
	if err != nil {
		return err
	}
	defer ws.close()

	p, err := ws.board.CreateProject(ctx, strings.Join(args, " "), projectDesc)
	if err != nil {
		return err
	}
	fmt.Printf("  id: %s\n", shortID(p.ID))
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(context.Background(), nil)
	if err != nil {
		return err
	}
	defer ws.close()

	projects := ws.board.Projects()
	if len(projects) == 0 {
		fmt.Println("No projects found. Create one with: planify project new \"Name\"")
		return nil
	}

	current, _ := ws.currentProject()

	fmt.Println()
	fmt.Printf("  %-10s  %-24s  %s\n", "ID", "Name", "Done/Total")
	fmt.Println(strings.Repeat("─", 52))

	totalOpen := 0
	for _, p := range projects {
		tasks := ws.board.Tasks(store.TaskFilter{ProjectID: p.ID})
		done := 0
		for _, t := range tasks {
			if t.Status == model.StatusDone {
				done++
			}
		}
		totalOpen += len(tasks) - done

		marker := "  "
		if p.ID == current.ID {
			marker = "❯ "
		}
		fmt.Printf("%s%-10s  %-24s  %d/%d\n", marker, shortID(p.ID), p.Name, done, len(tasks))
	}

	fmt.Println(strings.Repeat("─", 52))
	fmt.Printf("  %d projects, %d open tasks\n\n", len(projects), totalOpen)
	return nil
}

func runProjectEdit(cmd *cobra.Command, args []string) error {
	var patch model.ProjectPatch
	if cmd.Flags().Changed("name") {
		patch.Name = &projectName
	}
	if cmd.Flags().Changed("desc") {
		patch.Description = &projectDesc
	}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to change, use --name or --desc")
	}

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
	_, err = ws.board.EditProject(ctx, p.ID, patch)
	return err
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
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

	if cfg.ConfirmDelete {
		n := len(ws.board.Tasks(store.TaskFilter{ProjectID: p.ID}))
		fmt.Printf("About to delete project %q and its %d tasks\n", p.Name, n)
		if !confirm("Are you sure?") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := ws.board.DeleteProject(ctx, p.ID); err != nil {
		return err
	}

	if current, ok := ws.currentProject(); ok && current.ID == p.ID {
		if err := ws.prefs.SetLastProject(""); err != nil {
			return fmt.Errorf("failed to clear context: %w", err)
		}
	}
	return nil
}
