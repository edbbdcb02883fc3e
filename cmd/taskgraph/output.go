package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskgraph/internal/dto"
	apierrors "github.com/yukikurage/taskgraph/internal/errors"
	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/ui"
)

// outputJSON writes v as indented JSON
func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// renderError reports err as a JSON envelope on stdout with --json, or as a
// red "Error:" line on stderr otherwise.
func (a *app) renderError(stdout, stderr io.Writer, err error) {
	if a.jsonOutput {
		if encodeErr := outputJSON(stdout, apierrors.FromError(err).Envelope()); encodeErr == nil {
			return
		}
	}
	fmt.Fprintf(stderr, "%s %v\n", ui.RenderFail("Error:"), err)
}

// printTask reports a single task, hydrated with its parent, tags and metadata
func (a *app) printTask(cmd *cobra.Command, task models.Task, message string) error {
	views, err := a.engine.Query.Hydrate([]models.Task{task})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.jsonOutput {
		return outputJSON(out, views[0])
	}

	fmt.Fprintf(out, "%s %s\n", ui.RenderPass("✓"), message)
	fmt.Fprintf(out, "  %s\n", viewLine(views[0]))
	return nil
}

// printTasks reports tasks under key, as {key: [...], count: n} with --json
func (a *app) printTasks(cmd *cobra.Command, key string, tasks []models.Task) error {
	views, err := a.engine.Query.Hydrate(tasks)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.jsonOutput {
		return outputJSON(out, map[string]interface{}{
			key:     views,
			"count": len(views),
		})
	}

	if len(views) == 0 {
		fmt.Fprintln(out, ui.RenderMuted("No tasks found"))
		return nil
	}
	for _, view := range views {
		fmt.Fprintln(out, viewLine(view))
	}
	return nil
}

// printResult reports a mutation that has no task to show
func (a *app) printResult(cmd *cobra.Command, payload map[string]interface{}, message string) error {
	out := cmd.OutOrStdout()
	if a.jsonOutput {
		payload["status"] = "success"
		return outputJSON(out, payload)
	}

	fmt.Fprintf(out, "%s %s\n", ui.RenderPass("✓"), message)
	return nil
}

// viewLine is TaskLine plus the parent reference shown in flat listings
func viewLine(view dto.TaskView) string {
	line := ui.TaskLine(view.TaskDTO)
	if view.Parent != nil {
		line += " " + ui.RenderMuted("(under "+ui.RenderID(view.Parent.ID)+")")
	}
	return line
}
