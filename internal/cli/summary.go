package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/existflow/planify/internal/board"
	"github.com/existflow/planify/internal/model"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"stats", "dashboard"},
	Short:   "Show task counts across all projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(context.Background(), nil)
		if err != nil {
			return err
		}
		defer ws.close()

		writeSummary(os.Stdout, ws.board.Stats(time.Now()))
		return nil
	},
}

const summaryBarWidth = 20

func writeSummary(w io.Writer, st board.Stats) {
	fmt.Fprintf(w, "Projects  %d\n", st.Projects)
	fmt.Fprintf(w, "Tasks     %d\n", st.Tasks)
	fmt.Fprintf(w, "Done      %d\n", st.Done)
	fmt.Fprintf(w, "Pending   %d\n", st.Pending)
	if st.Overdue > 0 {
		fmt.Fprintf(w, "Overdue   %d\n", st.Overdue)
	}
	if st.Tasks == 0 {
		return
	}

	fmt.Fprintln(w)
	for _, p := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
		n := st.ByPriority[p]
		bar := strings.Repeat("█", n*summaryBarWidth/st.Tasks)
		fmt.Fprintf(w, "%-7s %3d  %s\n", p, n, bar)
	}
}
