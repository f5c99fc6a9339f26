package wizard

import (
	"github.com/opencode-ai/brandkit/internal/models"
	"github.com/opencode-ai/brandkit/internal/reveal"
	"github.com/opencode-ai/brandkit/internal/scripts"
)

// Message is one chat bubble.
type Message struct {
	StepID  string
	Speaker scripts.Speaker
	Text    string
	// Typing is set while a typewriter bubble is still being written.
	Typing bool
}

// Transcript lists the chat bubbles visible in state, in script order.
func Transcript(script *scripts.Rendered, state reveal.State) []Message {
	if script == nil {
		return nil
	}

	var messages []Message
	for i, cue := range script.Cues {
		switch cue.Kind {
		case reveal.KindReveal:
			if cue.Text == "" || !state.Visible(cue.Flag) {
				continue
			}
			messages = append(messages, Message{StepID: cue.StepID, Speaker: speakerOf(cue), Text: cue.Text})

		case reveal.KindTypewriter:
			typed, ok := state.Typed(cue.StepID)
			if !ok {
				continue
			}
			full := script.Steps[i].Payload
			typing := typed != full
			if typing && state.Status == reveal.StatusCancelled {
				typing = false
			}
			messages = append(messages, Message{StepID: cue.StepID, Speaker: speakerOf(cue), Text: typed, Typing: typing})
		}
	}
	return messages
}

// Transcript lists the chat bubbles of the session's script in state.
func (s *Session) Transcript(state reveal.State) []Message {
	return Transcript(s.script, state)
}

// SectionReady reports whether a section's preview panel has finished
// loading.
func SectionReady(state reveal.State, section models.Section) bool {
	return state.Loaded(section.PanelFlag())
}

// Progress is the fraction of steps begun, in [0,1].
func Progress(script *scripts.Rendered, state reveal.State) float64 {
	if script == nil || len(script.Steps) == 0 {
		return 0
	}
	if state.Status == reveal.StatusCompleted {
		return 1
	}
	begun := state.CurrentStep + 1
	if begun < 0 {
		begun = 0
	}
	return float64(begun) / float64(len(script.Steps))
}

func speakerOf(cue scripts.Cue) scripts.Speaker {
	if cue.Speaker == "" {
		return scripts.SpeakerAssistant
	}
	return cue.Speaker
}
