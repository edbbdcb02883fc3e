package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskgraph/internal/dto"
	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/ui"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count tasks per status",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			counts, err := a.engine.Tasks.GetTaskCountByStatus()
			if err != nil {
				return err
			}
			total, err := a.engine.Query.TotalCount()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return outputJSON(out, dto.StatusCountsResponse{
					Status:     "success",
					Counts:     counts,
					TotalCount: total,
				})
			}

			for _, status := range models.AllTaskStatuses {
				padding := strings.Repeat(" ", 12-len(status))
				fmt.Fprintf(out, "%s%s %d\n", ui.RenderStatus(status), padding, counts[status])
			}
			fmt.Fprintln(out, ui.RenderSeparator())
			fmt.Fprintf(out, "%-12s %d\n", "total", total)
			return nil
		},
	}
}
