// Package reveal drives timed, ordered reveals of UI fragments: chat bubbles,
// typewriter text and side-panel loading flags.
package reveal

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// StepKind defines the effect a step applies.
type StepKind string

const (
	// KindReveal adds Payload to the visible flag set.
	KindReveal StepKind = "reveal"
	// KindTypewriter types Payload one rune per tick into TypedText[ID].
	KindTypewriter StepKind = "typewriter"
	// KindLoadingFlag marks the side panel named by Payload as loaded.
	KindLoadingFlag StepKind = "loadingFlag"
)

// Valid reports whether k is a known step kind.
func (k StepKind) Valid() bool {
	switch k {
	case KindReveal, KindTypewriter, KindLoadingFlag:
		return true
	}
	return false
}

// Step is one scripted unit of a reveal sequence.
type Step struct {
	// ID is unique within a script.
	ID string `json:"id"`

	// Kind selects the effect.
	Kind StepKind `json:"kind"`

	// Delay is waited after the previous step completes.
	Delay time.Duration `json:"delay"`

	// Payload is the text to type or the flag to flip.
	Payload string `json:"payload"`
}

// Status is the lifecycle position of a run.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ErrInvalidScript is wrapped by every validation failure returned from Start.
var ErrInvalidScript = errors.New("invalid reveal script")

// Validate checks a script before it is run.
func Validate(script []Step) error {
	if len(script) == 0 {
		return fmt.Errorf("%w: script is empty", ErrInvalidScript)
	}

	seen := make(map[string]struct{}, len(script))
	for i, step := range script {
		if strings.TrimSpace(step.ID) == "" {
			return fmt.Errorf("%w: step %d: id is required", ErrInvalidScript, i+1)
		}
		if _, dup := seen[step.ID]; dup {
			return fmt.Errorf("%w: step %d: duplicate id %q", ErrInvalidScript, i+1, step.ID)
		}
		seen[step.ID] = struct{}{}

		if !step.Kind.Valid() {
			return fmt.Errorf("%w: step %q: unknown kind %q", ErrInvalidScript, step.ID, step.Kind)
		}
		if step.Delay < 0 {
			return fmt.Errorf("%w: step %q: negative delay %s", ErrInvalidScript, step.ID, step.Delay)
		}
		if step.Payload == "" {
			return fmt.Errorf("%w: step %q: payload is required", ErrInvalidScript, step.ID)
		}
	}
	return nil
}

// State is a read-only snapshot of one run. Snapshots never alias the live
// run state.
type State struct {
	// CurrentStep is the index of the step that most recently began,
	// -1 before the first step fires and len(script) once completed.
	CurrentStep int

	Status Status

	// VisibleFlags holds flags flipped by reveal steps.
	VisibleFlags map[string]struct{}

	// LoadingDone holds flags flipped by loadingFlag steps.
	LoadingDone map[string]struct{}

	// TypedText maps typewriter step IDs to the prefix typed so far.
	TypedText map[string]string

	Cancelled bool

	// Version increases by one with every mutation.
	Version uint64
}

// Visible reports whether a reveal flag is set.
func (s State) Visible(flag string) bool {
	_, ok := s.VisibleFlags[flag]
	return ok
}

// Loaded reports whether a loading flag is set.
func (s State) Loaded(flag string) bool {
	_, ok := s.LoadingDone[flag]
	return ok
}

// Typed returns the typed prefix for a typewriter step.
func (s State) Typed(id string) (string, bool) {
	text, ok := s.TypedText[id]
	return text, ok
}

func (s State) clone() State {
	out := s
	out.VisibleFlags = make(map[string]struct{}, len(s.VisibleFlags))
	for k := range s.VisibleFlags {
		out.VisibleFlags[k] = struct{}{}
	}
	out.LoadingDone = make(map[string]struct{}, len(s.LoadingDone))
	for k := range s.LoadingDone {
		out.LoadingDone[k] = struct{}{}
	}
	out.TypedText = make(map[string]string, len(s.TypedText))
	for k, v := range s.TypedText {
		out.TypedText[k] = v
	}
	return out
}

func newState() State {
	return State{
		CurrentStep:  -1,
		Status:       StatusIdle,
		VisibleFlags: make(map[string]struct{}),
		LoadingDone:  make(map[string]struct{}),
		TypedText:    make(map[string]string),
	}
}
