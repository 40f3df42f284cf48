package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/existflow/planify/internal/board"
	"github.com/existflow/planify/internal/model"
)

func TestWriteSummary(t *testing.T) {
	tests := []struct {
		name    string
		stats   board.Stats
		want    []string
		notWant []string
	}{
		{
			name:    "empty",
			stats:   board.Stats{Projects: 2},
			want:    []string{"Projects  2", "Tasks     0"},
			notWant: []string{"Overdue", "High"},
		},
		{
			name: "mixed",
			stats: board.Stats{Projects: 1, Tasks: 4, Done: 1, Pending: 3, Overdue: 2, ByPriority: map[model.Priority]int{
				model.PriorityHigh: 2,
				model.PriorityLow:  2,
			}},
			want: []string{"Done      1", "Pending   3", "Overdue   2", "High      2  " + strings.Repeat("█", 10), "Medium    0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writeSummary(&buf, tt.stats)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output has %q:\n%s", w, out)
				}
			}
		})
	}
}
