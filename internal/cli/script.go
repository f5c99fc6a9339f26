package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/brandkit/internal/reveal"
	"github.com/opencode-ai/brandkit/internal/scripts"
)

var (
	scriptListTags []string
	scriptVars     []string
	scriptSpeed    float64
	scriptNewUser  bool
	scriptNewForce bool
)

var scriptNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func init() {
	rootCmd.AddCommand(scriptCmd)
	scriptCmd.AddCommand(scriptListCmd)
	scriptCmd.AddCommand(scriptShowCmd)
	scriptCmd.AddCommand(scriptDryRunCmd)
	scriptCmd.AddCommand(scriptNewCmd)

	scriptListCmd.Flags().StringSliceVar(&scriptListTags, "tag", nil, "filter by tag (repeatable)")

	scriptDryRunCmd.Flags().StringSliceVar(&scriptVars, "var", nil, "template variable key=value (repeatable)")
	scriptDryRunCmd.Flags().Float64Var(&scriptSpeed, "speed", 0, "playback speed multiplier (default from config)")

	scriptNewCmd.Flags().BoolVar(&scriptNewUser, "user", false, "create in the user script directory instead of the project")
	scriptNewCmd.Flags().BoolVar(&scriptNewForce, "force", false, "overwrite an existing script")
}

var scriptCmd = &cobra.Command{
	Use:     "script",
	Aliases: []string{"scripts"},
	Short:   "Manage wizard reveal scripts",
	Long: `Manage the reveal scripts that choreograph the brand wizard.

Scripts are looked up in .brandkit/scripts of the project, then
~/.config/brandkit/scripts, then the built-ins. The first script with a
given name wins.`,
}

var scriptListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available scripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := loadScripts()
		if err != nil {
			return err
		}
		items = filterScripts(items, scriptListTags)

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, scriptSummaries(items))
		}
		if len(items) == 0 {
			fmt.Fprintln(out, "No scripts found.")
			return nil
		}

		userDir, projectDir := scriptDirs()
		rows := make([][]string, 0, len(items))
		for _, script := range items {
			rows = append(rows, []string{
				script.Name,
				fmt.Sprintf("%d", len(script.Steps)),
				scriptSourceLabel(script.Source, userDir, projectDir),
				strings.Join(script.Tags, ","),
				script.Description,
			})
		}
		return writeTable(out, []string{"NAME", "STEPS", "SOURCE", "TAGS", "DESCRIPTION"}, rows)
	},
}

var scriptShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a script's steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := findScript(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, script)
		}

		userDir, projectDir := scriptDirs()
		fmt.Fprintf(out, "Name:        %s\n", script.Name)
		if script.Description != "" {
			fmt.Fprintf(out, "Description: %s\n", script.Description)
		}
		fmt.Fprintf(out, "Source:      %s (%s)\n", scriptSourceLabel(script.Source, userDir, projectDir), script.Source)
		if len(script.Tags) > 0 {
			fmt.Fprintf(out, "Tags:        %s\n", strings.Join(script.Tags, ", "))
		}

		if len(script.Variables) > 0 {
			fmt.Fprintln(out, "\nVariables:")
			for _, variable := range script.Variables {
				line := "  " + variable.Name
				if variable.Required {
					line += " (required)"
				}
				if variable.Default != "" {
					line += fmt.Sprintf(" [default: %s]", variable.Default)
				}
				if variable.Description != "" {
					line += " - " + variable.Description
				}
				fmt.Fprintln(out, line)
			}
		}

		fmt.Fprintln(out, "\nSteps:")
		for i, step := range script.Steps {
			fmt.Fprintf(out, "  %2d. %-16s %s\n", i+1, step.ID, formatScriptStep(step))
		}
		return nil
	},
}

var scriptDryRunCmd = &cobra.Command{
	Use:   "dry-run <name>",
	Short: "Print a script's timeline without playing it",
	Args:  cobra.ExactArgs(1),
	Example: `  brandkit script dry-run brand-generation --var brand=Northwind
  brandkit script dry-run quick-preview --var brand=Acme --speed 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := findScript(args[0])
		if err != nil {
			return err
		}
		vars, err := parseScriptVars(scriptVars)
		if err != nil {
			return err
		}

		cfg := GetConfig()
		speed := scriptSpeed
		if speed == 0 {
			speed = cfg.Reveal.Speed
		}
		rendered, err := scripts.Render(script, vars, scripts.RenderOptions{Speed: speed})
		if err != nil {
			return err
		}

		timeline, total, err := scriptTimeline(cmd.Context(), rendered, reveal.New(cfg.Reveal.Sequencer()))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, timeline)
		}

		rows := make([][]string, 0, len(timeline))
		for _, entry := range timeline {
			rows = append(rows, []string{
				formatOffset(entry.At),
				entry.StepID,
				string(entry.Kind),
				entry.Detail,
			})
		}
		if err := writeTable(out, []string{"AT", "STEP", "KIND", "DETAIL"}, rows); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nTotal: %s\n", formatOffset(total))
		return nil
	},
}

var scriptNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a starter script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := normalizeScriptName(args[0])
		if err != nil {
			return err
		}

		userDir, projectDir := scriptDirs()
		dir := projectDir
		if scriptNewUser {
			dir = userDir
		}
		if dir == "" {
			return fmt.Errorf("no script directory available")
		}

		path := filepath.Join(dir, name+".yaml")
		if _, err := os.Stat(path); err == nil && !scriptNewForce {
			return &PreflightError{
				Message:  fmt.Sprintf("script already exists: %s", path),
				Hint:     "Use --force to overwrite",
				NextStep: "brandkit script show " + name,
			}
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create script directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(fmt.Sprintf(scriptTemplate, name)), 0o644); err != nil {
			return fmt.Errorf("failed to write script: %w", err)
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]string{"name": name, "path": path})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Preview it with: brandkit script dry-run %s --var brand=Example\n", name)
		return nil
	},
}

const scriptTemplate = `name: %s
description: Custom brand wizard script
tags: [custom]
variables:
  - name: brand
    description: Brand name being created
    required: true
steps:
  - id: brief
    kind: reveal
    delay: 300ms
    speaker: user
    payload: bubble.brief
    text: "Create a brand for {{.brand}}."
  - id: intro
    kind: typewriter
    delay: 400ms
    payload: "Working on {{.brand}}."
  - id: core-panel
    kind: loadingFlag
    delay: 600ms
    payload: panel.core_identity
  - id: voice-panel
    kind: loadingFlag
    delay: 600ms
    payload: panel.voice_tone
  - id: audience-panel
    kind: loadingFlag
    delay: 600ms
    payload: panel.audience
  - id: visual-panel
    kind: loadingFlag
    delay: 600ms
    payload: panel.visual_assets
`

type scriptSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Steps       int      `json:"steps"`
	Tags        []string `json:"tags,omitempty"`
	Source      string   `json:"source"`
}

func scriptSummaries(items []*scripts.Script) []scriptSummary {
	out := make([]scriptSummary, 0, len(items))
	for _, script := range items {
		out = append(out, scriptSummary{
			Name:        script.Name,
			Description: script.Description,
			Steps:       len(script.Steps),
			Tags:        script.Tags,
			Source:      script.Source,
		})
	}
	return out
}

// timelineEntry is one step of a dry run.
type timelineEntry struct {
	At     time.Duration   `json:"at"`
	StepID string          `json:"step_id"`
	Kind   reveal.StepKind `json:"kind"`
	Detail string          `json:"detail"`
}

// scriptTimeline plays rendered on a manual clock, jumping from deadline to
// deadline, and records when each step begins and when the run completes.
func scriptTimeline(ctx context.Context, rendered *scripts.Rendered, seq *reveal.Sequencer) ([]timelineEntry, time.Duration, error) {
	start := time.Unix(0, 0)
	clock := reveal.NewManualClock(start)
	handle, err := seq.Start(rendered.Steps, reveal.WithClock(clock))
	if err != nil {
		return nil, 0, err
	}

	entries := make([]timelineEntry, 0, len(rendered.Steps))
	for {
		next, ok := clock.NextDeadline()
		if !ok {
			break
		}
		clock.Advance(next.Sub(clock.Now()))

		state := handle.State()
		for i := len(entries); i <= state.CurrentStep && i < len(rendered.Steps); i++ {
			step := rendered.Steps[i]
			detail := step.Payload
			if cue := rendered.Cues[i]; step.Kind != reveal.KindTypewriter && cue.Text != "" {
				detail = fmt.Sprintf("%s: %s", step.Payload, cue.Text)
			}
			entries = append(entries, timelineEntry{
				At:     clock.Now().Sub(start),
				StepID: step.ID,
				Kind:   step.Kind,
				Detail: detail,
			})
		}
	}

	if err := handle.Wait(ctx); err != nil {
		return nil, 0, err
	}
	return entries, clock.Now().Sub(start), nil
}

func formatOffset(d time.Duration) string {
	return fmt.Sprintf("%6.2fs", d.Seconds())
}

func loadScripts() ([]*scripts.Script, error) {
	items, err := scripts.LoadScriptsFromSearchPaths(GetConfig().Scripts.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load scripts: %w", err)
	}
	return items, nil
}

func findScript(name string) (*scripts.Script, error) {
	items, err := loadScripts()
	if err != nil {
		return nil, err
	}
	script := scripts.FindScript(items, name)
	if script == nil {
		return nil, &PreflightError{
			Message:  fmt.Sprintf("script %q not found", name),
			NextStep: "brandkit script list",
		}
	}
	return script, nil
}

// scriptDirs returns the user and project script directories.
func scriptDirs() (string, string) {
	var userDir, projectDir string
	if project := GetConfig().Scripts.ProjectDir; project != "" {
		projectDir = filepath.Join(project, ".brandkit", "scripts")
	}
	for _, dir := range scripts.ScriptSearchPaths("") {
		userDir = dir
	}
	return userDir, projectDir
}

func filterScripts(items []*scripts.Script, tags []string) []*scripts.Script {
	if len(tags) == 0 {
		return items
	}
	wanted := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		wanted[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}

	filtered := make([]*scripts.Script, 0, len(items))
	for _, script := range items {
		for _, tag := range script.Tags {
			if _, ok := wanted[strings.ToLower(tag)]; ok {
				filtered = append(filtered, script)
				break
			}
		}
	}
	return filtered
}

// parseScriptVars parses key=value pairs, allowing comma-separated lists.
func parseScriptVars(values []string) (map[string]string, error) {
	vars := make(map[string]string)
	for _, value := range values {
		for _, pair := range strings.Split(value, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			key, val, ok := strings.Cut(pair, "=")
			if !ok {
				return nil, fmt.Errorf("invalid variable %q: expected key=value", pair)
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return nil, fmt.Errorf("invalid variable %q: key is empty", pair)
			}
			vars[key] = strings.TrimSpace(val)
		}
	}
	return vars, nil
}

func normalizeScriptName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
	if name == "" {
		return "", fmt.Errorf("script name is required")
	}
	if !scriptNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid script name %q: use letters, digits, '-' and '_'", name)
	}
	return name, nil
}

func scriptSourceLabel(source, userDir, projectDir string) string {
	if source == "builtin" {
		return "builtin"
	}
	if projectDir != "" && isWithinDir(source, projectDir) {
		return "project"
	}
	if userDir != "" && isWithinDir(source, userDir) {
		return "user"
	}
	return "file"
}

func isWithinDir(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func formatScriptStep(step scripts.ScriptStep) string {
	var b strings.Builder
	b.WriteString("[" + formatScriptStepShort(step) + "]")
	if step.Kind == reveal.KindTypewriter {
		b.WriteString(" " + step.Payload)
	} else if step.Text != "" {
		b.WriteString(" " + step.Text)
	}
	if step.Delay != "" {
		b.WriteString(" (after " + step.Delay + ")")
	}
	return b.String()
}

func formatScriptStepShort(step scripts.ScriptStep) string {
	switch step.Kind {
	case reveal.KindTypewriter:
		if step.Speaker == scripts.SpeakerUser {
			return "typewriter:user"
		}
		return "typewriter"
	default:
		return string(step.Kind) + ":" + step.Payload
	}
}
