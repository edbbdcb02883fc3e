package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskgraph/internal/dto"
	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/services"
	"github.com/yukikurage/taskgraph/internal/ui"
)

type listOptions struct {
	status string
	author string
	tags   []string
	root   bool
	all    bool
	tree   bool
}

func newListCmd(a *app) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks in ascending ID order.

Tasks in icebox, done or closed are hidden unless --status or --all is given.
Several --tag flags select tasks carrying all of the tags.`,
		Args: requireArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := opts.toFilter(a.engine)
			if err != nil {
				return err
			}

			viewMode := dto.ViewModeFlat
			if opts.tree {
				viewMode = dto.ViewModeTree
			}

			response, err := a.engine.Query.Listing(filter, viewMode)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return outputJSON(out, response)
			}

			if response.Count == 0 {
				fmt.Fprintln(out, ui.RenderMuted("No tasks found"))
				return nil
			}
			switch tasks := response.Tasks.(type) {
			case []dto.TreeNode:
				fmt.Fprint(out, ui.RenderTree(tasks))
			case []dto.TaskView:
				for _, view := range tasks {
					fmt.Fprintln(out, viewLine(view))
				}
			}
			fmt.Fprintln(out, ui.RenderMuted(fmt.Sprintf("%d shown, %d total", response.Count, response.TotalCount)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.status, "status", "s", "", "Only tasks with this status")
	cmd.Flags().StringVar(&opts.author, "author", "", "Only tasks by this author")
	cmd.Flags().StringSliceVarP(&opts.tags, "tag", "t", nil, "Only tasks carrying this tag, by name or ID (repeatable)")
	cmd.Flags().BoolVar(&opts.root, "root", false, "Only tasks without a parent")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Include icebox, done and closed tasks")
	cmd.Flags().BoolVar(&opts.tree, "tree", false, "Nest tasks under their parents")

	return cmd
}

func (o *listOptions) toFilter(engine *services.Engine) (services.ListFilter, error) {
	filter := services.ListFilter{
		RootOnly:   o.root,
		IncludeAll: o.all,
	}
	if o.status != "" {
		status := models.TaskStatus(o.status)
		filter.Status = &status
	}
	if o.author != "" {
		filter.Author = &o.author
	}
	if len(o.tags) > 0 {
		tagIDs, err := engine.Tags.ResolveTagIDs(o.tags)
		if err != nil {
			return filter, err
		}
		filter.TagIDs = tagIDs
	}
	return filter, nil
}

func newChildrenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "children <id>",
		Short: "List the direct children of a task",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := services.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			children, err := a.engine.Hierarchy.GetChildren(id)
			if err != nil {
				return err
			}
			return a.printTasks(cmd, "children", children)
		},
	}
}
