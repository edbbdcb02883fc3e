package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskgraph/internal/dto"
	"github.com/yukikurage/taskgraph/internal/services"
	"github.com/yukikurage/taskgraph/internal/ui"
)

func newParentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parent",
		Short: "Move tasks within the hierarchy",
	}

	setCmd := &cobra.Command{
		Use:   "set <id> <parent-id>",
		Short: "Make a task a child of another task",
		Args:  requireArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDArgs(args)
			if err != nil {
				return err
			}
			return a.setParent(cmd, ids[0], &ids[1])
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear <id>",
		Short: "Make a task a root task",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := services.ParseTaskID(args[0])
			if err != nil {
				return err
			}
			return a.setParent(cmd, id, nil)
		},
	}

	cmd.AddCommand(setCmd, clearCmd)
	return cmd
}

func (a *app) setParent(cmd *cobra.Command, id uint64, parentID *uint64) error {
	if err := a.engine.Hierarchy.SetParent(id, parentID); err != nil {
		return err
	}

	task, err := a.engine.Tasks.GetTask(id)
	if err != nil {
		return err
	}
	return a.printTask(cmd, *task, "Moved task")
}

func newBlockCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Manage blocking relationships",
	}

	addCmd := &cobra.Command{
		Use:   "add <blocker-id> <blocked-id>",
		Short: "Record that one task blocks another",
		Args:  requireArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDArgs(args)
			if err != nil {
				return err
			}

			if err := a.engine.Blocks.AddBlock(ids[0], ids[1]); err != nil {
				return err
			}
			return a.printResult(cmd,
				map[string]interface{}{"blocker_id": ids[0], "blocked_id": ids[1]},
				fmt.Sprintf("%s now blocks %s", ui.RenderID(ids[0]), ui.RenderID(ids[1])))
		},
	}

	rmCmd := &cobra.Command{
		Use:     "rm <blocker-id> <blocked-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a blocking relationship",
		Args:    requireArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDArgs(args)
			if err != nil {
				return err
			}

			removed, err := a.engine.Blocks.RemoveBlock(ids[0], ids[1])
			if err != nil {
				return err
			}

			message := fmt.Sprintf("%s no longer blocks %s", ui.RenderID(ids[0]), ui.RenderID(ids[1]))
			if !removed {
				message = fmt.Sprintf("%s did not block %s", ui.RenderID(ids[0]), ui.RenderID(ids[1]))
			}
			return a.printResult(cmd,
				map[string]interface{}{"blocker_id": ids[0], "blocked_id": ids[1], "removed": removed},
				message)
		},
	}

	cmd.AddCommand(addCmd, rmCmd)
	return cmd
}

func newTagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}

	addCmd := &cobra.Command{
		Use:   "add <id> <tag>",
		Short: "Tag a task, creating the tag if needed",
		Args:  requireArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := services.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			err = a.engine.Transaction(func(tx *services.Engine) error {
				tag, err := tx.Tags.GetOrCreateTag(args[1])
				if err != nil {
					return err
				}
				return tx.Tags.TagTask(id, tag.ID)
			})
			if err != nil {
				return err
			}

			task, err := a.engine.Tasks.GetTask(id)
			if err != nil {
				return err
			}
			return a.printTask(cmd, *task, "Tagged task")
		},
	}

	rmCmd := &cobra.Command{
		Use:     "rm <id> <tag>",
		Aliases: []string{"remove"},
		Short:   "Remove a tag from a task",
		Args:    requireArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := services.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			tag, err := a.engine.Tags.ResolveTag(args[1])
			if err != nil {
				return err
			}

			removed, err := a.engine.Tags.UntagTask(id, tag.ID)
			if err != nil {
				return err
			}

			message := fmt.Sprintf("Removed %s from %s", tag.Name, ui.RenderID(id))
			if !removed {
				message = fmt.Sprintf("%s was not tagged %s", ui.RenderID(id), tag.Name)
			}
			return a.printResult(cmd,
				map[string]interface{}{"task_id": id, "tag": dto.TagDTO{ID: tag.ID, Name: tag.Name}, "removed": removed},
				message)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every tag",
		Args:  requireArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			tags, err := a.engine.Tags.ListTags()
			if err != nil {
				return err
			}

			items := dto.ToTagDTOs(tags)
			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return outputJSON(out, map[string]interface{}{"tags": items, "count": len(items)})
			}

			if len(items) == 0 {
				fmt.Fprintln(out, ui.RenderMuted("No tags"))
				return nil
			}
			for _, tag := range items {
				fmt.Fprintf(out, "%s %s\n", ui.RenderMuted(fmt.Sprintf("%4d", tag.ID)), tag.Name)
			}
			return nil
		},
	}

	cmd.AddCommand(addCmd, rmCmd, listCmd)
	return cmd
}

func newMetaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Manage task metadata",
	}

	setCmd := &cobra.Command{
		Use:   "set <id> <key> <value>",
		Short: "Set a metadata value, replacing any previous one",
		Args:  requireArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := services.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			if err := a.engine.Metadata.SetMetadata(id, args[1], args[2]); err != nil {
				return err
			}

			task, err := a.engine.Tasks.GetTask(id)
			if err != nil {
				return err
			}
			return a.printTask(cmd, *task, "Set metadata")
		},
	}

	rmCmd := &cobra.Command{
		Use:     "rm <id> <key>",
		Aliases: []string{"remove"},
		Short:   "Remove a metadata key",
		Args:    requireArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := services.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			removed, err := a.engine.Metadata.DeleteMetadata(id, args[1])
			if err != nil {
				return err
			}

			message := fmt.Sprintf("Removed %s from %s", args[1], ui.RenderID(id))
			if !removed {
				message = fmt.Sprintf("%s has no %s", ui.RenderID(id), args[1])
			}
			return a.printResult(cmd,
				map[string]interface{}{"task_id": id, "key": args[1], "removed": removed},
				message)
		},
	}

	cmd.AddCommand(setCmd, rmCmd)
	return cmd
}

func parseIDArgs(args []string) ([]uint64, error) {
	ids := make([]uint64, len(args))
	for i, arg := range args {
		id, err := services.ParseTaskID(arg)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
