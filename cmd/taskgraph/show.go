package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskgraph/internal/dto"
	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/services"
	"github.com/yukikurage/taskgraph/internal/ui"
)

// taskDetail is a task with the IDs of its neighbours in both graphs
type taskDetail struct {
	dto.TaskView
	BlockedBy []uint64 `json:"blocked_by"`
	Blocks    []uint64 `json:"blocks"`
	Children  []uint64 `json:"children"`
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task with its relationships and rendered body",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := services.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			detail, err := a.loadDetail(id)
			if err != nil {
				return err
			}

			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), detail)
			}
			writeDetail(cmd.OutOrStdout(), detail)
			return nil
		},
	}
}

func (a *app) loadDetail(id uint64) (*taskDetail, error) {
	task, err := a.engine.Tasks.GetTask(id)
	if err != nil {
		return nil, err
	}

	views, err := a.engine.Query.Hydrate([]models.Task{*task})
	if err != nil {
		return nil, err
	}

	blockers, err := a.engine.Blocks.GetBlockers(id)
	if err != nil {
		return nil, err
	}
	blocked, err := a.engine.Blocks.GetBlocked(id)
	if err != nil {
		return nil, err
	}
	children, err := a.engine.Hierarchy.GetChildren(id)
	if err != nil {
		return nil, err
	}

	return &taskDetail{
		TaskView:  views[0],
		BlockedBy: idsOf(blockers),
		Blocks:    idsOf(blocked),
		Children:  idsOf(children),
	}, nil
}

func writeDetail(w io.Writer, detail *taskDetail) {
	fmt.Fprintln(w, ui.TaskLine(detail.TaskDTO))
	if detail.Parent != nil {
		fmt.Fprintf(w, "Parent:     %s %s\n", ui.RenderID(detail.Parent.ID), detail.Parent.Title)
	}
	writeIDList(w, "Blocked by: ", detail.BlockedBy)
	writeIDList(w, "Blocks:     ", detail.Blocks)
	writeIDList(w, "Children:   ", detail.Children)
	fmt.Fprintf(w, "Created:    %s\n", ui.RenderMuted(detail.CreatedAt.Format("2006-01-02 15:04")))

	if len(detail.Metadata) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ui.RenderCategory("Metadata"))
		for _, entry := range detail.Metadata {
			fmt.Fprintf(w, "  %s: %s\n", entry.Key, entry.Value)
		}
	}

	if detail.Body != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ui.RenderSeparator())
		fmt.Fprintln(w, strings.TrimRight(ui.RenderMarkdown(*detail.Body), "\n"))
	}
}

func writeIDList(w io.Writer, label string, ids []uint64) {
	if len(ids) == 0 {
		return
	}
	rendered := make([]string, len(ids))
	for i, id := range ids {
		rendered[i] = ui.RenderID(id)
	}
	fmt.Fprintf(w, "%s%s\n", label, strings.Join(rendered, ", "))
}

func idsOf(tasks []models.Task) []uint64 {
	ids := make([]uint64, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}
