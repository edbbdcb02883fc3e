package ui

import (
	"strings"

	"github.com/yukikurage/taskgraph/internal/dto"
)

// TaskLine renders the one-line summary of a task used by list and tree output
func TaskLine(task dto.TaskDTO) string {
	parts := []string{RenderID(task.ID), RenderStatus(task.Status), task.Title}

	names := make([]string, len(task.Tags))
	for i, tag := range task.Tags {
		names[i] = tag.Name
	}
	if tags := RenderTags(names); tags != "" {
		parts = append(parts, tags)
	}
	if task.Author != nil {
		parts = append(parts, RenderMuted("@"+*task.Author))
	}

	return strings.Join(parts, " ")
}

// RenderTree draws nodes with box-drawing connectors, one task per line
func RenderTree(nodes []dto.TreeNode) string {
	var b strings.Builder
	for _, node := range nodes {
		b.WriteString(TaskLine(node.TaskDTO))
		b.WriteString("\n")
		writeChildren(&b, node.Children, "")
	}
	return b.String()
}

func writeChildren(b *strings.Builder, children []dto.TreeNode, prefix string) {
	for i, child := range children {
		connector, indent := TreeBranch, TreePipe
		if i == len(children)-1 {
			connector, indent = TreeLast, TreeBlank
		}

		b.WriteString(prefix)
		b.WriteString(RenderMuted(connector))
		b.WriteString(TaskLine(child.TaskDTO))
		b.WriteString("\n")
		writeChildren(b, child.Children, prefix+RenderMuted(indent))
	}
}
