package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/brandkit/internal/reveal"
	"github.com/opencode-ai/brandkit/internal/tui/styles"
)

// RenderRunStatusBadge renders a wizard run status with icon and color.
func RenderRunStatusBadge(styleSet styles.Styles, status reveal.Status) string {
	icon, label, style := statusDescriptor(styleSet, status)
	return style.Render(fmt.Sprintf("%s %s", icon, label))
}

func statusDescriptor(styleSet styles.Styles, status reveal.Status) (string, string, lipgloss.Style) {
	switch status {
	case reveal.StatusIdle:
		return "-", "Idle", styleSet.StatusIdle
	case reveal.StatusRunning:
		return ">", "Generating", styleSet.StatusRunning
	case reveal.StatusCompleted:
		return "OK", "Ready", styleSet.StatusDone
	case reveal.StatusCancelled:
		return "X", "Cancelled", styleSet.StatusCancelled
	default:
		return "-", normalizeStatusLabel(status), styleSet.Muted
	}
}

func normalizeStatusLabel(status reveal.Status) string {
	value := strings.TrimSpace(strings.ReplaceAll(string(status), "_", " "))
	if value == "" {
		return "Unknown"
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
