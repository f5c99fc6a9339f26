package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/brandkit/internal/reveal"
	"github.com/opencode-ai/brandkit/internal/tui/styles"
)

// QuickAction represents a keyboard-triggered action.
type QuickAction struct {
	Key     string // Keyboard key (e.g., "s", "r")
	Label   string // Display label (e.g., "Save", "Restart")
	Enabled bool   // Whether the action is available
}

// RenderQuickActionBar renders a horizontal bar of available quick actions.
// Format: "s:Save  r:Restart  q:Quit"
func RenderQuickActionBar(styleSet styles.Styles, actions []QuickAction) string {
	if len(actions) == 0 {
		return ""
	}

	var parts []string
	for _, action := range actions {
		if !action.Enabled {
			continue
		}
		keyStyle := styleSet.Accent.Bold(true)
		labelStyle := styleSet.Muted
		part := fmt.Sprintf("%s:%s", keyStyle.Render(action.Key), labelStyle.Render(action.Label))
		parts = append(parts, part)
	}

	if len(parts) == 0 {
		return ""
	}

	return strings.Join(parts, "  ")
}

// WizardQuickActions returns the keys available for a run in status.
func WizardQuickActions(status reveal.Status, saved bool) []QuickAction {
	actions := []QuickAction{
		{Key: "s", Label: "Save", Enabled: status == reveal.StatusCompleted && !saved},
		{Key: "r", Label: "Restart", Enabled: status != reveal.StatusIdle},
	}
	if status == reveal.StatusRunning {
		actions = append(actions, QuickAction{Key: "x", Label: "Stop", Enabled: true})
	}
	return append(actions, QuickAction{Key: "q", Label: "Quit", Enabled: true})
}

// RenderStatusBar renders the badge and actions on one line.
func RenderStatusBar(styleSet styles.Styles, status reveal.Status, saved bool, note string, width int) string {
	left := RenderRunStatusBadge(styleSet, status)
	if note != "" {
		left += "  " + styleSet.Muted.Render(note)
	}
	right := RenderQuickActionBar(styleSet, WizardQuickActions(status, saved))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}
