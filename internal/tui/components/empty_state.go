// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/brandkit/internal/tui/styles"
)

// EmptyState represents an empty state message with optional suggestions.
type EmptyState struct {
	// Icon is an optional icon to display (e.g., "📭", "🔍", "🚀").
	Icon string
	// Title is the main empty state message.
	Title string
	// Subtitle is an optional secondary message.
	Subtitle string
	// Suggestions are actionable commands the user can run.
	Suggestions []Suggestion
}

// Suggestion represents a suggested command with description.
type Suggestion struct {
	// Command is the CLI command to run (e.g., "brandkit kb add <file>").
	Command string
	// Description explains what the command does.
	Description string
}

// Render renders the empty state with the given styles.
func (e EmptyState) Render(styleSet styles.Styles) string {
	var lines []string

	// Icon + Title
	titleLine := e.Title
	if e.Icon != "" {
		titleLine = e.Icon + "  " + titleLine
	}
	lines = append(lines, styleSet.Muted.Render(titleLine))

	// Subtitle
	if e.Subtitle != "" {
		lines = append(lines, styleSet.Muted.Render(e.Subtitle))
	}

	// Suggestions
	if len(e.Suggestions) > 0 {
		lines = append(lines, "")
		lines = append(lines, styleSet.Text.Render("Get started:"))
		for _, s := range e.Suggestions {
			cmdLine := fmt.Sprintf("  %s", styleSet.Accent.Render(s.Command))
			if s.Description != "" {
				cmdLine += styleSet.Muted.Render(fmt.Sprintf("  # %s", s.Description))
			}
			lines = append(lines, cmdLine)
		}
	}

	return strings.Join(lines, "\n")
}

// RenderCompact renders a compact single-line empty state.
func (e EmptyState) RenderCompact(styleSet styles.Styles) string {
	line := e.Title
	if e.Icon != "" {
		line = e.Icon + " " + line
	}
	if len(e.Suggestions) > 0 {
		line += fmt.Sprintf(" Try: %s", e.Suggestions[0].Command)
	}
	return styleSet.Muted.Render(line)
}

// Common empty states for reuse across views and list commands.

// EmptyBrandPacks returns an empty state for when no brand packs exist.
func EmptyBrandPacks() EmptyState {
	return EmptyState{
		Icon:     "🎨",
		Title:    "No brand packs yet",
		Subtitle: "Brand packs hold a brand's identity, voice, audience and visuals.",
		Suggestions: []Suggestion{
			{Command: "brandkit wizard --brand <name>", Description: "generate one with the assistant"},
		},
	}
}

// EmptyContentPacks returns an empty state for when no content packs exist.
func EmptyContentPacks() EmptyState {
	return EmptyState{
		Icon:     "📝",
		Title:    "No content packs yet",
		Subtitle: "Content packs group copy written for one brand and channel.",
		Suggestions: []Suggestion{
			{Command: "brandkit content create <brand> <name> --channel blog", Description: "start a content pack"},
		},
	}
}

// EmptyKnowledge returns an empty state for an empty knowledge base.
func EmptyKnowledge() EmptyState {
	return EmptyState{
		Icon:     "📚",
		Title:    "Knowledge base is empty",
		Subtitle: "Reference files give the assistant context about your business.",
		Suggestions: []Suggestion{
			{Command: "brandkit kb add <file>", Description: "add a reference file"},
		},
	}
}

// EmptyBrandPacksFiltered returns an empty state for when a status filter
// matches nothing.
func EmptyBrandPacksFiltered(filter string) EmptyState {
	return EmptyState{
		Icon:     "🔍",
		Title:    fmt.Sprintf("No brand packs with status '%s'", filter),
		Subtitle: "Run without --status to list every pack.",
	}
}

// EmptyTranscript is shown before the first chat bubble appears.
func EmptyTranscript() EmptyState {
	return EmptyState{
		Icon:  "💬",
		Title: "Waiting for the assistant...",
	}
}
