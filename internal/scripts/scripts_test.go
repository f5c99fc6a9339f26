package scripts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/opencode-ai/brandkit/internal/reveal"
)

func TestLoadScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "example.yaml")

	yaml := `name: example
description: Example script
steps:
  - id: hello
    kind: show
    delay: "250"
    speaker: USER
    payload: bubble.hello
    text: "Hi {{.name}}"
  - id: answer
    kind: type
    delay: 1s
    payload: "Hello {{.name | default \"there\"}}"
  - id: panel
    kind: loading-flag
    payload: panel.core_identity
`

	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	script, err := LoadScript(path)
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}

	if script.Name != "example" {
		t.Fatalf("expected name example, got %q", script.Name)
	}
	if script.Source != path {
		t.Fatalf("expected source %q, got %q", path, script.Source)
	}
	if script.Steps[0].Kind != reveal.KindReveal || script.Steps[0].Speaker != SpeakerUser {
		t.Fatalf("unexpected first step: %+v", script.Steps[0])
	}
	if script.Steps[1].Kind != reveal.KindTypewriter || script.Steps[1].Speaker != SpeakerAssistant {
		t.Fatalf("unexpected second step: %+v", script.Steps[1])
	}
	if script.Steps[2].Kind != reveal.KindLoadingFlag {
		t.Fatalf("unexpected third step kind: %s", script.Steps[2].Kind)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing name", "steps:\n  - {id: a, kind: reveal, payload: x}\n", "name is required"},
		{"no steps", "name: x\n", "steps are required"},
		{"negative delay", "name: x\nsteps:\n  - {id: a, kind: reveal, delay: -1s, payload: x}\n", "negative"},
		{"bad delay", "name: x\nsteps:\n  - {id: a, kind: reveal, delay: soon, payload: x}\n", "invalid delay"},
		{"huge delay", "name: x\nsteps:\n  - {id: a, kind: reveal, delay: \"20000000000000\", payload: x}\n", "out of range"},
		{"unknown kind", "name: x\nsteps:\n  - {id: a, kind: dance, payload: x}\n", "unknown step kind"},
		{"missing id", "name: x\nsteps:\n  - {kind: reveal, payload: x}\n", "id is required"},
		{"duplicate id", "name: x\nsteps:\n  - {id: a, kind: reveal, payload: x}\n  - {id: a, kind: reveal, payload: y}\n", "duplicate id"},
		{"missing payload", "name: x\nsteps:\n  - {id: a, kind: typewriter}\n", "text is required"},
		{"bad speaker", "name: x\nsteps:\n  - {id: a, kind: reveal, speaker: robot, payload: x}\n", "unknown speaker"},
		{"duplicate var", "name: x\nvariables:\n  - {name: a}\n  - {name: a}\nsteps:\n  - {id: a, kind: reveal, payload: x}\n", "duplicate script variable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScript([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseDelay(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Duration
		wantErr string
	}{
		{"", 0, ""},
		{"250", 250 * time.Millisecond, ""},
		{"1.5s", 1500 * time.Millisecond, ""},
		{"9223372036854", 9223372036854 * time.Millisecond, ""},
		{"9223372036855", 0, "out of range"},
		{"10000000000000", 0, "out of range"},
		{"20000000000000", 0, "out of range"},
		{"-10000000000000", 0, "out of range"},
		{"99999999999999999999", 0, "out of range"},
		{"-5", 0, "negative"},
		{"later", 0, "invalid delay"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseDelay(tt.value)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("parseDelay(%q) error = %v, want %q", tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDelay(%q): %v", tt.value, err)
			}
			if got != tt.want {
				t.Fatalf("parseDelay(%q) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestRenderScript(t *testing.T) {
	script := &Script{
		Name: "example",
		Variables: []ScriptVar{
			{Name: "brand", Required: true},
			{Name: "industry", Default: "retail"},
		},
		Steps: []ScriptStep{
			{ID: "brief", Kind: reveal.KindReveal, Delay: "1s", Payload: "bubble.brief", Speaker: SpeakerUser, Text: "{{.brand}} in {{.industry}}"},
			{ID: "intro", Kind: reveal.KindTypewriter, Delay: "500ms", Payload: "Hello {{.brand}}", Speaker: SpeakerAssistant},
			{ID: "panel", Kind: reveal.KindLoadingFlag, Delay: "2s", Payload: "panel.core_identity"},
		},
	}

	rendered, err := Render(script, map[string]string{"brand": "Acme"}, RenderOptions{Speed: 2})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(rendered.Steps) != 3 || len(rendered.Cues) != 3 {
		t.Fatalf("expected 3 steps and cues, got %d/%d", len(rendered.Steps), len(rendered.Cues))
	}
	if rendered.Steps[0].Delay != 500*time.Millisecond {
		t.Fatalf("expected halved delay, got %s", rendered.Steps[0].Delay)
	}
	if rendered.Steps[1].Payload != "Hello Acme" {
		t.Fatalf("unexpected typewriter payload: %q", rendered.Steps[1].Payload)
	}
	if rendered.Steps[2].Payload != "panel.core_identity" {
		t.Fatalf("flag payload must not be templated: %q", rendered.Steps[2].Payload)
	}

	cue, ok := rendered.CueFor("brief")
	if !ok {
		t.Fatal("expected cue for brief")
	}
	if cue.Text != "Acme in retail" || cue.Speaker != SpeakerUser || cue.Flag != "bubble.brief" {
		t.Fatalf("unexpected cue: %+v", cue)
	}

	if err := reveal.Validate(rendered.Steps); err != nil {
		t.Fatalf("rendered steps should be a valid reveal script: %v", err)
	}

	cfg := reveal.Config{TypeTick: 10 * time.Millisecond, TypePause: 100 * time.Millisecond}
	want := 500*time.Millisecond + 250*time.Millisecond + 10*10*time.Millisecond + 100*time.Millisecond + time.Second
	if got := rendered.Duration(cfg); got != want {
		t.Fatalf("Duration() = %s, want %s", got, want)
	}
}

func TestRenderScriptErrors(t *testing.T) {
	script := &Script{
		Name:      "required",
		Variables: []ScriptVar{{Name: "who", Required: true}},
		Steps:     []ScriptStep{{ID: "a", Kind: reveal.KindTypewriter, Payload: "Hi {{.who}}"}},
	}

	if _, err := Render(script, map[string]string{}, RenderOptions{}); err == nil {
		t.Fatal("expected missing variable error")
	}
	if _, err := Render(script, map[string]string{"who": "x"}, RenderOptions{Speed: -1}); err == nil {
		t.Fatal("expected negative speed error")
	}

	empty := &Script{
		Name:  "empty",
		Steps: []ScriptStep{{ID: "a", Kind: reveal.KindTypewriter, Payload: "{{.nothing}}"}},
	}
	if _, err := Render(empty, nil, RenderOptions{}); err == nil {
		t.Fatal("expected error for empty typewriter text")
	}
}

func TestBuiltinScripts(t *testing.T) {
	scripts, err := LoadBuiltinScripts()
	if err != nil {
		t.Fatalf("LoadBuiltinScripts: %v", err)
	}

	script := FindScript(scripts, "BRAND-GENERATION")
	if script == nil {
		t.Fatal("expected brand-generation builtin")
	}
	if script.Source != "builtin" {
		t.Fatalf("unexpected source %q", script.Source)
	}

	rendered, err := Render(script, map[string]string{"brand": "Northwind"}, RenderOptions{})
	if err != nil {
		t.Fatalf("Render builtin: %v", err)
	}
	if err := reveal.Validate(rendered.Steps); err != nil {
		t.Fatalf("builtin does not validate: %v", err)
	}

	panels := 0
	for _, step := range rendered.Steps {
		if step.Kind == reveal.KindLoadingFlag {
			panels++
		}
	}
	if panels != 4 {
		t.Fatalf("expected a loading flag per brand section, got %d", panels)
	}
}

func TestLoadScriptsFromDirsPrecedence(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	write := func(dir, file, desc string) {
		content := "name: brand-generation\ndescription: " + desc + "\nsteps:\n  - {id: a, kind: reveal, payload: x}\n"
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	write(first, "override.yaml", "project")
	write(second, "override.yml", "user")
	if err := os.WriteFile(filepath.Join(second, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	scripts, err := loadScriptsFromDirs([]string{first, second, filepath.Join(first, "missing")})
	if err != nil {
		t.Fatalf("loadScriptsFromDirs: %v", err)
	}

	script := FindScript(scripts, "brand-generation")
	if script == nil || script.Description != "project" {
		t.Fatalf("expected project override to win, got %+v", script)
	}
	if FindScript(scripts, "quick-preview") == nil {
		t.Fatal("expected builtin quick-preview to be included")
	}
}
