// Package scripts loads and renders reveal scripts: the ordered chat and
// preview-panel choreography played by the brand wizard.
package scripts

import "github.com/opencode-ai/brandkit/internal/reveal"

// Script is a named, ordered list of reveal steps.
type Script struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Steps       []ScriptStep `yaml:"steps"`
	Variables   []ScriptVar  `yaml:"variables,omitempty"`
	Tags        []string     `yaml:"tags,omitempty"`
	Source      string       `yaml:"-"` // file path or "builtin"
}

// ScriptStep is the file form of a reveal.Step.
type ScriptStep struct {
	ID      string          `yaml:"id"`
	Kind    reveal.StepKind `yaml:"kind"`
	Delay   string          `yaml:"delay,omitempty"`
	Payload string          `yaml:"payload"`

	// Speaker attributes chat text to "assistant" or "user".
	Speaker Speaker `yaml:"speaker,omitempty"`

	// Text is the bubble body shown when a reveal step's flag is set.
	Text string `yaml:"text,omitempty"`
}

// ScriptVar describes a template variable used in a script.
type ScriptVar struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	Required    bool   `yaml:"required"`
}

// Speaker identifies who a chat bubble belongs to.
type Speaker string

const (
	SpeakerAssistant Speaker = "assistant"
	SpeakerUser      Speaker = "user"
)
