package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/services"
)

func newUpdateCmd(a *app) *cobra.Command {
	var (
		title    string
		body     string
		bodyFile string
		author   string
		status   string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task's title, body, author or status",
		Long: `Update the fields given by flags. An empty --body or --author clears the field.
Relationships are changed with the parent, block, tag and meta commands.`,
		Example: `  taskgraph update 7 --status in_progress
  taskgraph update 7 --body-file notes.md`,
		Args: requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := services.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var input services.UpdateTaskInput
			if flags.Changed("title") {
				input.Title = &title
			}
			if flags.Changed("body") || flags.Changed("body-file") {
				content, err := readBody(body, bodyFile)
				if err != nil {
					return err
				}
				input.Body = &content
			}
			if flags.Changed("author") {
				input.Author = &author
			}
			if flags.Changed("status") {
				s := models.TaskStatus(status)
				input.Status = &s
			}

			if input.Title == nil && input.Body == nil && input.Author == nil && input.Status == nil {
				return &services.ValidationError{
					Field:   "flags",
					Message: "nothing to update; give --title, --body, --body-file, --author or --status",
				}
			}

			task, err := a.engine.Tasks.UpdateTask(id, input)
			if err != nil {
				return err
			}
			return a.printTask(cmd, *task, "Updated task")
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&body, "body", "", "New body (markdown)")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Read the new body from a markdown file")
	cmd.Flags().StringVar(&author, "author", "", "New author")
	cmd.Flags().StringVarP(&status, "status", "s", "", "New status")

	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Long: `Delete a task together with its blocking relationships, tags and metadata.
Its children stay and become root tasks.`,
		Args: requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := services.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			if err := a.engine.Tasks.DeleteTask(id); err != nil {
				return err
			}
			return a.printResult(cmd, map[string]interface{}{"deleted": id}, fmt.Sprintf("Deleted task #%d", id))
		},
	}
}
