package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/brandkit/internal/config"
	"github.com/opencode-ai/brandkit/internal/db"
	"github.com/opencode-ai/brandkit/internal/logging"
	"github.com/opencode-ai/brandkit/internal/models"
	"github.com/opencode-ai/brandkit/internal/reveal"
	"github.com/opencode-ai/brandkit/internal/scripts"
	"github.com/opencode-ai/brandkit/internal/tui"
	"github.com/opencode-ai/brandkit/internal/tui/styles"
	"github.com/opencode-ai/brandkit/internal/wizard"
)

var (
	wizardBrand       string
	wizardIndustry    string
	wizardDescription string
	wizardScript      string
	wizardSpeed       float64
	wizardVars        []string
	wizardSave        bool
)

func init() {
	rootCmd.AddCommand(wizardCmd)

	wizardCmd.Flags().StringVar(&wizardBrand, "brand", "", "brand name (required)")
	wizardCmd.Flags().StringVar(&wizardIndustry, "industry", "", "industry the brand operates in")
	wizardCmd.Flags().StringVar(&wizardDescription, "description", "", "one-line description of the business")
	wizardCmd.Flags().StringVar(&wizardScript, "script", "", "reveal script to play (default from config)")
	wizardCmd.Flags().Float64Var(&wizardSpeed, "speed", 0, "playback speed multiplier (default from config)")
	wizardCmd.Flags().StringSliceVar(&wizardVars, "var", nil, "extra script variable key=value (repeatable)")
	wizardCmd.Flags().BoolVar(&wizardSave, "save", false, "save the brand pack when the run completes (non-interactive)")
	_ = wizardCmd.MarkFlagRequired("brand")
}

var wizardCmd = &cobra.Command{
	Use:     "wizard",
	Aliases: []string{"new"},
	Short:   "Draft a brand pack with the assistant",
	Long: `Draft a brand pack in a guided chat with the brand assistant.

In a terminal the chat opens full screen: the assistant's messages type
out while the preview panels on the right fill in. Press s to save the
pack once it is ready, r to restart, x to stop and q to quit.

Without a terminal (or with --non-interactive) the transcript is streamed
as plain text; pass --save to store the result.`,
	Example: `  brandkit wizard --brand Northwind --industry logistics
  brandkit wizard --brand Acme --script quick-preview --speed 4 --non-interactive --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := GetConfig()

		brief := wizard.Brief{
			Brand:       strings.TrimSpace(wizardBrand),
			Industry:    strings.TrimSpace(wizardIndustry),
			Description: strings.TrimSpace(wizardDescription),
		}
		if err := brief.Validate(); err != nil {
			return err
		}

		rendered, err := renderWizardScript(cfg, brief)
		if err != nil {
			return err
		}

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		brands := db.NewBrandPackRepository(database)
		if existing, err := brands.GetByName(ctx, brief.Brand); err == nil {
			return &PreflightError{
				Message:  fmt.Sprintf("brand pack %q already exists (%s)", existing.Name, shortID(existing.ID)),
				Hint:     "Choose another --brand or delete the existing pack",
				NextStep: "brandkit brand show " + existing.Name,
			}
		} else if !errors.Is(err, db.ErrBrandPackNotFound) {
			return err
		}

		factory := newSessionFactory(sessionDeps{
			script:    rendered,
			brief:     brief,
			generator: wizard.NewGenerator(cfg.Expert),
			sequencer: reveal.New(cfg.Reveal.Sequencer()),
			brands:    brands,
			events:    db.NewEventRepository(database),
		})

		var result *tui.Result
		if IsInteractive() && !IsJSONOutput() && !IsJSONLOutput() {
			result, err = runWizardTUI(ctx, cfg, factory)
		} else {
			result, err = runWizardStream(ctx, cmd.OutOrStdout(), factory, wizardSave)
		}
		if err != nil {
			return err
		}
		return printWizardResult(cmd.OutOrStdout(), result)
	},
}

type sessionDeps struct {
	script    *scripts.Rendered
	brief     wizard.Brief
	generator *wizard.Generator
	sequencer *reveal.Sequencer
	brands    wizard.BrandStore
	events    *db.EventRepository
}

func newSessionFactory(deps sessionDeps) tui.SessionFactory {
	return func() (*wizard.Session, error) {
		return wizard.NewSession(wizard.SessionConfig{
			Script:    deps.script,
			Brief:     deps.brief,
			Generator: deps.generator,
			Sequencer: deps.sequencer,
			Brands:    deps.brands,
			Events:    deps.events,
		})
	}
}

// renderWizardScript resolves the script and applies the brief to it.
func renderWizardScript(cfg *config.Config, brief wizard.Brief) (*scripts.Rendered, error) {
	name := wizardScript
	if name == "" {
		name = cfg.Scripts.Default
	}
	script, err := findScript(name)
	if err != nil {
		return nil, err
	}

	vars, err := parseScriptVars(wizardVars)
	if err != nil {
		return nil, err
	}
	setDefaultVar(vars, "brand", brief.Brand)
	setDefaultVar(vars, "industry", brief.Industry)
	setDefaultVar(vars, "description", brief.Description)
	setDefaultVar(vars, "persona", cfg.Expert.Persona)

	speed := wizardSpeed
	if speed == 0 {
		speed = cfg.Reveal.Speed
	}
	return scripts.Render(script, vars, scripts.RenderOptions{Speed: speed})
}

func setDefaultVar(vars map[string]string, key, value string) {
	if _, ok := vars[key]; ok || value == "" {
		return
	}
	vars[key] = value
}

func runWizardTUI(ctx context.Context, cfg *config.Config, factory tui.SessionFactory) (*tui.Result, error) {
	theme, _ := styles.ThemeByName(cfg.TUI.Theme)

	// The TUI owns the terminal; send logs to the configured file or drop them.
	restore, err := redirectLogs(cfg)
	if err != nil {
		return nil, err
	}
	defer restore()

	return tui.Run(ctx, tui.Options{
		NewSession: factory,
		Styles:     styles.BuildStyles(theme),
	})
}

func redirectLogs(cfg *config.Config) (func(), error) {
	var out io.Writer = io.Discard
	var file *os.File
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		out = f
	}

	if err := logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: out}); err != nil {
		if file != nil {
			file.Close()
		}
		return nil, err
	}

	return func() {
		_ = logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: os.Stderr})
		if file != nil {
			file.Close()
		}
	}, nil
}

// runWizardStream plays one session without a TUI, printing each chat
// message once it has finished typing and each preview section once it is
// ready.
func runWizardStream(ctx context.Context, out io.Writer, factory tui.SessionFactory, save bool) (*tui.Result, error) {
	session, err := factory()
	if err != nil {
		return nil, err
	}
	if err := session.Start(ctx); err != nil {
		return nil, err
	}

	quiet := IsJSONOutput() || IsJSONLOutput()
	printer := newTranscriptPrinter(out, session)
	for state := range session.Updates() {
		if !quiet {
			printer.print(state)
		}
	}
	<-session.Done()

	state := session.State()
	if !quiet {
		printer.print(state)
	}

	result := &tui.Result{Status: state.Status}
	if !save || state.Status != reveal.StatusCompleted {
		return result, nil
	}

	pack, err := session.Save(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	result.Saved = pack
	return result, nil
}

type transcriptPrinter struct {
	out      io.Writer
	session  *wizard.Session
	messages map[string]bool
	sections map[models.Section]bool
}

func newTranscriptPrinter(out io.Writer, session *wizard.Session) *transcriptPrinter {
	return &transcriptPrinter{
		out:      out,
		session:  session,
		messages: make(map[string]bool),
		sections: make(map[models.Section]bool),
	}
}

func (p *transcriptPrinter) print(state reveal.State) {
	for _, message := range p.session.Transcript(state) {
		if message.Typing || p.messages[message.StepID] {
			continue
		}
		p.messages[message.StepID] = true
		fmt.Fprintf(p.out, "%s %s\n", speakerLabel(message.Speaker), message.Text)
	}
	for _, section := range models.Sections {
		if p.sections[section] || !wizard.SectionReady(state, section) {
			continue
		}
		p.sections[section] = true
		fmt.Fprintf(p.out, "%s %s ready\n", colorize("  ✓", colorGreen), section.Title())
	}
}

func speakerLabel(speaker scripts.Speaker) string {
	if speaker == scripts.SpeakerUser {
		return colorize("You:      ", colorCyan)
	}
	return colorize("Assistant:", colorMagenta)
}

type wizardResult struct {
	Status    reveal.Status     `json:"status"`
	BrandPack *models.BrandPack `json:"brand_pack,omitempty"`
}

func printWizardResult(out io.Writer, result *tui.Result) error {
	if IsJSONOutput() || IsJSONLOutput() {
		return WriteOutput(out, wizardResult{Status: result.Status, BrandPack: result.Saved})
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Wizard %s\n", formatRunStatus(result.Status))
	if result.Saved != nil {
		fmt.Fprintf(out, "Saved brand pack %s (%s)\n", result.Saved.Name, shortID(result.Saved.ID))
		fmt.Fprintf(out, "View it with: brandkit brand show %q\n", result.Saved.Name)
		return nil
	}
	if result.Status == reveal.StatusCompleted {
		fmt.Fprintln(out, "Brand pack not saved. Re-run with --save, or press s in the chat.")
	}
	return nil
}
