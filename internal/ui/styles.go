// Package ui provides terminal styling for taskgraph CLI output.
package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yukikurage/taskgraph/internal/models"
)

var (
	ColorPass   = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	ColorFail   = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	ColorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)

	// CategoryStyle for section headers
	CategoryStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	IDStyle       = lipgloss.NewStyle().Bold(true)
	TagStyle      = lipgloss.NewStyle().Foreground(ColorAccent).Italic(true)
)

// Tree characters for hierarchical display
const (
	TreeBranch = "├── "
	TreeLast   = "└── "
	TreePipe   = "│   "
	TreeBlank  = "    "
)

const SeparatorLight = "──────────────────────────────────────────"

var statusStyles = map[models.TaskStatus]lipgloss.Style{
	models.TaskStatusIcebox:     MutedStyle,
	models.TaskStatusBacklog:    MutedStyle,
	models.TaskStatusReady:      AccentStyle,
	models.TaskStatusInProgress: WarnStyle,
	models.TaskStatusReview:     WarnStyle,
	models.TaskStatusDone:       PassStyle,
	models.TaskStatusClosed:     FailStyle,
}

// RenderStatus renders a status in its colour
func RenderStatus(status models.TaskStatus) string {
	style, ok := statusStyles[status]
	if !ok || !ShouldUseColor() {
		return string(status)
	}
	return style.Render(string(status))
}

func render(style lipgloss.Style, s string) string {
	if !ShouldUseColor() {
		return s
	}
	return style.Render(s)
}

// RenderID renders a task ID as #n
func RenderID(id uint64) string {
	return render(IDStyle, "#"+strconv.FormatUint(id, 10))
}

// RenderTags renders tag names as [a, b]; no tags renders nothing
func RenderTags(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return render(TagStyle, "["+strings.Join(names, ", ")+"]")
}

// RenderMuted renders text with muted (gray) styling
func RenderMuted(s string) string {
	return render(MutedStyle, s)
}

// RenderPass renders text with pass (green) styling
func RenderPass(s string) string {
	return render(PassStyle, s)
}

// RenderFail renders text with fail (red) styling
func RenderFail(s string) string {
	return render(FailStyle, s)
}

// RenderCategory renders a section header in uppercase
func RenderCategory(s string) string {
	return render(CategoryStyle, strings.ToUpper(s))
}

// RenderSeparator renders the light separator line in muted color
func RenderSeparator() string {
	return RenderMuted(SeparatorLight)
}
