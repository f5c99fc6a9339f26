package components

import (
	"fmt"
	"strings"
	"testing"

	"github.com/opencode-ai/brandkit/internal/scripts"
	"github.com/opencode-ai/brandkit/internal/tui/styles"
	"github.com/opencode-ai/brandkit/internal/wizard"
)

func numberedLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return lines
}

func TestChatViewFollowsNewLines(t *testing.T) {
	view := NewChatView()
	view.Height = 4

	view.SetLines(numberedLines(10))
	if view.ScrollOffset != 7 {
		t.Fatalf("expected offset 7, got %d", view.ScrollOffset)
	}

	view.SetLines(numberedLines(12))
	if view.ScrollOffset != 9 {
		t.Fatalf("expected view to follow to 9, got %d", view.ScrollOffset)
	}
}

func TestChatViewScrollUpStopsFollowing(t *testing.T) {
	view := NewChatView()
	view.Height = 4
	view.SetLines(numberedLines(10))

	view.ScrollUp(2)
	if view.Follow {
		t.Fatal("expected follow to stop after scrolling up")
	}
	view.SetLines(numberedLines(15))
	if view.ScrollOffset != 5 {
		t.Fatalf("expected offset to stay at 5, got %d", view.ScrollOffset)
	}

	out := view.Render(styles.DefaultStyles())
	if !strings.Contains(out, "line 6") || strings.Contains(out, "line 15") {
		t.Fatalf("unexpected window: %s", out)
	}
	if !strings.Contains(out, "7 more below") {
		t.Fatalf("expected scroll indicator, got: %s", out)
	}

	view.ScrollDown(100)
	if !view.Follow || view.ScrollOffset != 12 {
		t.Fatalf("expected follow at bottom, got follow=%v offset=%d", view.Follow, view.ScrollOffset)
	}
}

func TestChatViewEmpty(t *testing.T) {
	out := NewChatView().Render(styles.DefaultStyles())
	if !strings.Contains(out, "Waiting for the assistant") {
		t.Fatalf("expected empty transcript hint, got: %s", out)
	}
}

func TestRenderMessage(t *testing.T) {
	styleSet := styles.DefaultStyles()

	user := RenderMessage(styleSet, wizard.Message{Speaker: scripts.SpeakerUser, Text: "Make it bold"}, 60, true)
	if !strings.Contains(user[0], "You") {
		t.Fatalf("expected user label, got %q", user[0])
	}
	if !strings.Contains(user[1], "Make it bold") || strings.Contains(user[1], cursorGlyph) {
		t.Fatalf("unexpected user body %q", user[1])
	}

	typing := RenderMessage(styleSet, wizard.Message{Speaker: scripts.SpeakerAssistant, Text: "Hel", Typing: true}, 60, true)
	if !strings.Contains(typing[0], "Assistant") {
		t.Fatalf("expected assistant label, got %q", typing[0])
	}
	if !strings.Contains(typing[len(typing)-1], "Hel"+cursorGlyph) {
		t.Fatalf("expected cursor after typed text, got %q", typing[len(typing)-1])
	}

	long := RenderMessage(styleSet, wizard.Message{Text: strings.Repeat("word ", 20)}, 22, false)
	if len(long) < 4 {
		t.Fatalf("expected wrapped body, got %d lines", len(long))
	}
}

func TestSetMessagesSeparatesBubbles(t *testing.T) {
	view := NewChatView()
	view.Height = 50
	view.SetMessages(styles.DefaultStyles(), []wizard.Message{
		{Speaker: scripts.SpeakerUser, Text: "one"},
		{Speaker: scripts.SpeakerAssistant, Text: "two"},
	}, false)

	if len(view.Lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %q", len(view.Lines), view.Lines)
	}
	if view.Lines[2] != "" {
		t.Fatalf("expected blank separator, got %q", view.Lines[2])
	}
}
