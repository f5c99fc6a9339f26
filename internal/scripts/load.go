package scripts

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/opencode-ai/brandkit/internal/reveal"
	"gopkg.in/yaml.v3"
)

// LoadScript reads a single script from disk.
func LoadScript(path string) (*Script, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("script path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}

	script, err := parseScript(data)
	if err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	script.Source = path
	return script, nil
}

// LoadScriptsFromDir loads every .yaml/.yml script in dir. A missing dir
// yields no scripts.
func LoadScriptsFromDir(dir string) ([]*Script, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Script{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Script{}, nil
		}
		return nil, fmt.Errorf("read scripts dir %s: %w", dir, err)
	}

	scripts := make([]*Script, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		script, err := LoadScript(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, script)
	}

	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].Name < scripts[j].Name
	})
	return scripts, nil
}

func parseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}

	script.Name = strings.TrimSpace(script.Name)
	if script.Name == "" {
		return nil, fmt.Errorf("script name is required")
	}
	script.Description = strings.TrimSpace(script.Description)

	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("script steps are required")
	}

	seenVars := make(map[string]struct{})
	for i := range script.Variables {
		name := strings.TrimSpace(script.Variables[i].Name)
		if name == "" {
			return nil, fmt.Errorf("script variable name is required")
		}
		if _, exists := seenVars[name]; exists {
			return nil, fmt.Errorf("duplicate script variable %q", name)
		}
		seenVars[name] = struct{}{}
		script.Variables[i].Name = name
	}

	seenSteps := make(map[string]struct{})
	for i := range script.Steps {
		step := &script.Steps[i]
		if err := normalizeStep(step); err != nil {
			return nil, fmt.Errorf("script step %d: %w", i+1, err)
		}
		if _, exists := seenSteps[step.ID]; exists {
			return nil, fmt.Errorf("script step %d: duplicate id %q", i+1, step.ID)
		}
		seenSteps[step.ID] = struct{}{}
	}

	return &script, nil
}

func normalizeStep(step *ScriptStep) error {
	step.ID = strings.TrimSpace(step.ID)
	step.Delay = strings.TrimSpace(step.Delay)
	step.Payload = strings.TrimSpace(step.Payload)
	step.Text = strings.TrimSpace(step.Text)
	step.Speaker = Speaker(strings.ToLower(strings.TrimSpace(string(step.Speaker))))
	step.Kind = normalizeKind(step.Kind)

	if step.ID == "" {
		return fmt.Errorf("step id is required")
	}
	if _, err := parseDelay(step.Delay); err != nil {
		return err
	}

	switch step.Speaker {
	case "":
		step.Speaker = SpeakerAssistant
	case SpeakerAssistant, SpeakerUser:
	default:
		return fmt.Errorf("unknown speaker %q", step.Speaker)
	}

	switch step.Kind {
	case reveal.KindReveal, reveal.KindLoadingFlag:
		if step.Payload == "" {
			return fmt.Errorf("flag name is required")
		}
	case reveal.KindTypewriter:
		if step.Payload == "" {
			return fmt.Errorf("typewriter text is required")
		}
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}

	return nil
}

func normalizeKind(kind reveal.StepKind) reveal.StepKind {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(string(kind))), "-", "_")
	switch normalized {
	case "reveal", "show":
		return reveal.KindReveal
	case "typewriter", "type":
		return reveal.KindTypewriter
	case "loadingflag", "loading_flag", "loading":
		return reveal.KindLoadingFlag
	}
	return reveal.StepKind(normalized)
}

const maxDelayMillis = math.MaxInt64 / int64(time.Millisecond)

// parseDelay accepts Go durations or bare integers as milliseconds.
func parseDelay(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}

	var d time.Duration
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		if ms > maxDelayMillis || ms < -maxDelayMillis {
			return 0, fmt.Errorf("delay %q is out of range", value)
		}
		d = time.Duration(ms) * time.Millisecond
	} else if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("delay %q is out of range", value)
	} else {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid delay %q: %w", value, err)
		}
		d = parsed
	}
	if d < 0 {
		return 0, fmt.Errorf("delay must not be negative")
	}
	return d, nil
}
