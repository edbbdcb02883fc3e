package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskgraph/internal/models"
	"github.com/yukikurage/taskgraph/internal/services"
	"github.com/yukikurage/taskgraph/internal/utils"
)

type createOptions struct {
	body      string
	bodyFile  string
	author    string
	status    string
	parent    string
	blockedBy string
	blocks    string
	tags      []string
	meta      []string
}

func newCreateCmd(a *app) *cobra.Command {
	opts := &createOptions{}

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task with its parent, blockers, tags and metadata",
		Long: `Create a task. Every relationship given by flags is written in the same
transaction as the task: if any of them fails, nothing is created.`,
		Example: `  taskgraph create "Fix login bug" --status ready --tag bug --meta priority=high
  taskgraph create "Write docs" --parent 3 --blocked-by 4,5 --body-file notes.md`,
		Args: requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := opts.toInput(args[0])
			if err != nil {
				return err
			}

			task, err := a.engine.Tasks.CreateTask(input)
			if err != nil {
				return err
			}
			return a.printTask(cmd, *task, "Created task")
		},
	}

	cmd.Flags().StringVar(&opts.body, "body", "", "Task body (markdown)")
	cmd.Flags().StringVar(&opts.bodyFile, "body-file", "", "Read the task body from a markdown file")
	cmd.Flags().StringVar(&opts.author, "author", "", "Task author")
	cmd.Flags().StringVarP(&opts.status, "status", "s", "", "Initial status (default backlog)")
	cmd.Flags().StringVarP(&opts.parent, "parent", "p", "", "Parent task ID")
	cmd.Flags().StringVar(&opts.blockedBy, "blocked-by", "", "Comma separated IDs of tasks blocking this one")
	cmd.Flags().StringVar(&opts.blocks, "blocks", "", "Comma separated IDs of tasks this one blocks")
	cmd.Flags().StringSliceVarP(&opts.tags, "tag", "t", nil, "Tag name (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.meta, "meta", "m", nil, "Metadata entry as key=value (repeatable)")

	return cmd
}

func (o *createOptions) toInput(title string) (services.CreateTaskInput, error) {
	input := services.CreateTaskInput{
		Title:  title,
		Status: models.TaskStatus(o.status),
		Tags:   o.tags,
	}

	body, err := readBody(o.body, o.bodyFile)
	if err != nil {
		return input, err
	}
	if body != "" {
		input.Body = &body
	}
	if o.author != "" {
		input.Author = &o.author
	}

	if o.parent != "" {
		parentID, err := services.ParseTaskID(o.parent)
		if err != nil {
			return input, err
		}
		input.ParentID = &parentID
	}

	if input.BlockedBy, err = services.ParseTaskIDs(o.blockedBy); err != nil {
		return input, err
	}
	if input.Blocks, err = services.ParseTaskIDs(o.blocks); err != nil {
		return input, err
	}

	if input.Metadata, err = parseMetadata(o.meta); err != nil {
		return input, err
	}

	return input, nil
}

// readBody returns the inline body or the contents of bodyFile; giving both is an error
func readBody(body, bodyFile string) (string, error) {
	if bodyFile == "" {
		return body, nil
	}
	if body != "" {
		return "", &services.ValidationError{Field: "body", Message: "use either --body or --body-file, not both"}
	}

	content, err := utils.ReadBodyFile(bodyFile)
	if err != nil {
		return "", &services.ValidationError{Field: "body-file", Message: err.Error()}
	}
	return content, nil
}

// parseMetadata splits key=value entries; the value may itself contain '='
func parseMetadata(entries []string) ([]services.MetadataInput, error) {
	inputs := make([]services.MetadataInput, 0, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, &services.ValidationError{
				Field:   "meta",
				Message: fmt.Sprintf("%q is not in key=value form", entry),
			}
		}
		inputs = append(inputs, services.MetadataInput{Key: key, Value: value})
	}
	return inputs, nil
}
