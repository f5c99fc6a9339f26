package scripts

import (
	"fmt"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/opencode-ai/brandkit/internal/reveal"
)

// RenderOptions controls how a script is rendered.
type RenderOptions struct {
	// Speed divides every delay: 2 plays twice as fast.
	// Default: 1.
	Speed float64
}

// Cue carries the chat presentation of one rendered step.
type Cue struct {
	StepID  string
	Kind    reveal.StepKind
	Flag    string
	Speaker Speaker
	Text    string
}

// Rendered is a script with variables applied, ready for the sequencer.
type Rendered struct {
	Name  string
	Steps []reveal.Step
	// Cues is parallel to Steps.
	Cues []Cue
}

// Render applies vars to a script's text and scales its delays.
func Render(script *Script, vars map[string]string, opts RenderOptions) (*Rendered, error) {
	if script == nil {
		return nil, fmt.Errorf("script is required")
	}
	speed := opts.Speed
	if speed == 0 {
		speed = 1
	}
	if speed < 0 {
		return nil, fmt.Errorf("speed must be positive, got %g", speed)
	}

	data := make(map[string]string, len(vars))
	for key, value := range vars {
		data[key] = value
	}
	for _, variable := range script.Variables {
		if strings.TrimSpace(data[variable.Name]) != "" {
			continue
		}
		if variable.Default != "" {
			data[variable.Name] = variable.Default
			continue
		}
		if variable.Required {
			return nil, fmt.Errorf("missing required variable %q", variable.Name)
		}
	}

	out := &Rendered{
		Name:  script.Name,
		Steps: make([]reveal.Step, 0, len(script.Steps)),
		Cues:  make([]Cue, 0, len(script.Steps)),
	}

	for i, step := range script.Steps {
		delay, err := parseDelay(step.Delay)
		if err != nil {
			return nil, fmt.Errorf("render script %q step %d: %w", script.Name, i+1, err)
		}
		delay = time.Duration(float64(delay) / speed)

		cue := Cue{StepID: step.ID, Kind: step.Kind, Speaker: step.Speaker}
		payload := step.Payload

		switch step.Kind {
		case reveal.KindTypewriter:
			text, err := renderText(script.Name, step.Payload, data)
			if err != nil {
				return nil, fmt.Errorf("render script %q step %d: %w", script.Name, i+1, err)
			}
			if text == "" {
				return nil, fmt.Errorf("render script %q step %d: typewriter text rendered empty", script.Name, i+1)
			}
			payload = text
			cue.Text = text

		case reveal.KindReveal, reveal.KindLoadingFlag:
			cue.Flag = step.Payload
			if step.Text != "" {
				text, err := renderText(script.Name, step.Text, data)
				if err != nil {
					return nil, fmt.Errorf("render script %q step %d: %w", script.Name, i+1, err)
				}
				cue.Text = text
			}

		default:
			return nil, fmt.Errorf("render script %q step %d: unknown step kind %q", script.Name, i+1, step.Kind)
		}

		out.Steps = append(out.Steps, reveal.Step{
			ID:      step.ID,
			Kind:    step.Kind,
			Delay:   delay,
			Payload: payload,
		})
		out.Cues = append(out.Cues, cue)
	}

	return out, nil
}

// Duration estimates the wall time of an uninterrupted run.
func (r *Rendered) Duration(cfg reveal.Config) time.Duration {
	var total time.Duration
	for _, step := range r.Steps {
		total += step.Delay
		if step.Kind == reveal.KindTypewriter {
			total += time.Duration(utf8.RuneCountInString(step.Payload))*cfg.TypeTick + cfg.TypePause
		}
	}
	return total
}

// CueFor returns the cue of a step ID.
func (r *Rendered) CueFor(stepID string) (Cue, bool) {
	for _, cue := range r.Cues {
		if cue.StepID == stepID {
			return cue, true
		}
	}
	return Cue{}, false
}

func renderText(name, content string, data map[string]string) (string, error) {
	parsed, err := template.New(name).
		Funcs(template.FuncMap{"default": defaultValue}).
		Option("missingkey=zero").
		Parse(content)
	if err != nil {
		return "", fmt.Errorf("parse template %q: %w", name, err)
	}

	var out strings.Builder
	if err := parsed.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render template %q: %w", name, err)
	}
	return out.String(), nil
}

func defaultValue(def string, value any) string {
	if value == nil {
		return def
	}
	text := strings.TrimSpace(fmt.Sprint(value))
	if text == "" {
		return def
	}
	return text
}
