package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/brandkit/internal/scripts"
	"github.com/opencode-ai/brandkit/internal/tui/styles"
	"github.com/opencode-ai/brandkit/internal/wizard"
)

const cursorGlyph = "▌"

// ChatView displays a scrollable chat transcript. It follows the newest
// line until the user scrolls up.
type ChatView struct {
	Lines        []string
	ScrollOffset int
	Height       int
	Width        int
	// Follow pins the view to the bottom as lines arrive.
	Follow bool
}

// NewChatView creates a chat view that follows new messages.
func NewChatView() *ChatView {
	return &ChatView{
		Height: 20,
		Width:  60,
		Follow: true,
	}
}

// SetMessages renders messages into lines at the view's width.
func (v *ChatView) SetMessages(styleSet styles.Styles, messages []wizard.Message, cursorOn bool) {
	var lines []string
	for i, msg := range messages {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, RenderMessage(styleSet, msg, v.Width, cursorOn)...)
	}
	v.SetLines(lines)
}

// SetLines replaces the content.
func (v *ChatView) SetLines(lines []string) {
	v.Lines = lines
	if v.Follow {
		v.ScrollToBottom()
		return
	}
	v.clampScroll()
}

// ScrollUp scrolls the view up by n lines and stops following.
func (v *ChatView) ScrollUp(n int) {
	v.ScrollOffset -= n
	v.clampScroll()
	v.Follow = v.atBottom()
}

// ScrollDown scrolls the view down by n lines. Reaching the bottom resumes
// following.
func (v *ChatView) ScrollDown(n int) {
	v.ScrollOffset += n
	v.clampScroll()
	v.Follow = v.atBottom()
}

// ScrollToBottom scrolls to the newest line.
func (v *ChatView) ScrollToBottom() {
	v.ScrollOffset = v.maxOffset()
	v.Follow = true
}

func (v *ChatView) atBottom() bool {
	return v.ScrollOffset >= v.maxOffset()
}

func (v *ChatView) maxOffset() int {
	maxOffset := len(v.Lines) - v.visibleLines()
	if maxOffset < 0 {
		return 0
	}
	return maxOffset
}

func (v *ChatView) visibleLines() int {
	if v.Height <= 1 {
		return 1
	}
	return v.Height - 1 // Reserve a line for the scroll indicator
}

func (v *ChatView) clampScroll() {
	if v.ScrollOffset > v.maxOffset() {
		v.ScrollOffset = v.maxOffset()
	}
	if v.ScrollOffset < 0 {
		v.ScrollOffset = 0
	}
}

// Render renders the visible window of the chat.
func (v *ChatView) Render(styleSet styles.Styles) string {
	if len(v.Lines) == 0 {
		return EmptyTranscript().RenderCompact(styleSet)
	}

	end := v.ScrollOffset + v.visibleLines()
	if end > len(v.Lines) {
		end = len(v.Lines)
	}
	rendered := append([]string(nil), v.Lines[v.ScrollOffset:end]...)

	if indicator := v.scrollIndicator(styleSet); indicator != "" {
		rendered = append(rendered, indicator)
	}
	return strings.Join(rendered, "\n")
}

func (v *ChatView) scrollIndicator(styleSet styles.Styles) string {
	total := len(v.Lines)
	visible := v.visibleLines()
	if total <= visible {
		return ""
	}
	if v.Follow {
		return styleSet.Muted.Render("─── latest ───")
	}
	hidden := total - (v.ScrollOffset + visible)
	return styleSet.Muted.Render(fmt.Sprintf("─── %d more below ───", hidden))
}

// RenderMessage renders one chat bubble as wrapped lines: a speaker label
// followed by the indented text. Typing bubbles end in a cursor.
func RenderMessage(styleSet styles.Styles, msg wizard.Message, width int, cursorOn bool) []string {
	label := styleSet.BubbleAssistant.Render("Assistant")
	if msg.Speaker == scripts.SpeakerUser {
		label = styleSet.BubbleUser.Render("You")
	}

	bodyWidth := width - 2
	if bodyWidth < 10 {
		bodyWidth = 10
	}
	body := lipgloss.NewStyle().Width(bodyWidth).Render(msg.Text)

	lines := []string{label}
	bodyLines := strings.Split(body, "\n")
	for i, line := range bodyLines {
		line = strings.TrimRight(line, " ")
		if i == len(bodyLines)-1 && msg.Typing {
			if cursorOn {
				line += styleSet.Cursor.Render(cursorGlyph)
			} else {
				line += " "
			}
		}
		lines = append(lines, "  "+styleSet.Text.Render(line))
	}
	return lines
}

// RenderChatPanel renders a titled chat panel.
func RenderChatPanel(styleSet styles.Styles, view *ChatView, title string, width int) string {
	if view == nil {
		return styleSet.Muted.Render("No chat.")
	}

	header := styleSet.Title.Render(title)
	content := header + "\n" + view.Render(styleSet)
	return styleSet.Panel.Width(width).Padding(0, 1).Render(content)
}
