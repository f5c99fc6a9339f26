// Package cli implements the brandkit command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/opencode-ai/brandkit/internal/config"
	"github.com/opencode-ai/brandkit/internal/db"
	"github.com/opencode-ai/brandkit/internal/logging"
)

var (
	// Global flags
	configFile     string
	logLevel       string
	logFormat      string
	jsonOutput     bool
	jsonlOutput    bool
	nonInteractive bool
	noProgress     bool
	noColor        bool

	appConfig *config.Config
	version   = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "brandkit",
	Short: "Generate and manage brand packs from the terminal",
	Long: `brandkit drafts brand packs with a guided assistant chat and keeps them,
their content packs and your knowledge base in a local SQLite database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: $XDG_CONFIG_HOME/brandkit/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "log format: console, json")
	flags.BoolVar(&jsonOutput, "json", false, "output JSON")
	flags.BoolVar(&jsonlOutput, "jsonl", false, "output JSON lines")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never prompt or launch the TUI")
	flags.BoolVar(&noProgress, "no-progress", false, "hide progress output")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute(ctx context.Context, v string) error {
	if v != "" {
		version = v
	}
	rootCmd.Version = version

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var preflight *PreflightError
	if errors.As(err, &preflight) {
		fmt.Fprintln(os.Stderr, preflight.Detailed())
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func initApp(cmd *cobra.Command) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return &PreflightError{
			Message:  fmt.Sprintf("invalid configuration: %v", err),
			Hint:     "Fix the config file or the BRANDKIT_* environment overrides",
			NextStep: "brandkit init --force",
		}
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	appConfig = cfg

	return logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
}

// GetConfig returns the loaded configuration, or defaults before loading.
func GetConfig() *config.Config {
	if appConfig == nil {
		return config.DefaultConfig()
	}
	return appConfig
}

func logger() zerolog.Logger {
	return logging.Component("cli")
}

// openDatabase opens the configured database and applies migrations.
func openDatabase() (*db.DB, error) {
	cfg := GetConfig()
	database, err := db.Open(db.Config{Path: cfg.Database.Path})
	if err != nil {
		return nil, &PreflightError{
			Message:  fmt.Sprintf("cannot open database %s: %v", cfg.Database.Path, err),
			Hint:     "Check that the directory is writable or set database.path",
			NextStep: "brandkit init",
		}
	}

	applied, err := database.MigrateUp(context.Background())
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if applied > 0 {
		log := logger()
		log.Debug().Int("migrations", applied).Str("path", database.Path()).Msg("database migrated")
	}
	return database, nil
}

// PreflightError is a user-facing failure with remediation guidance.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	return e.Message
}

// Detailed renders the message with its hint and next step.
func (e *PreflightError) Detailed() string {
	var b strings.Builder
	b.WriteString("Error: " + e.Message)
	if e.Hint != "" {
		b.WriteString("\nHint: " + e.Hint)
	}
	if e.NextStep != "" {
		b.WriteString("\nNext: " + e.NextStep)
	}
	return b.String()
}

// IsJSONOutput reports whether --json is set.
func IsJSONOutput() bool {
	return jsonOutput
}

// IsJSONLOutput reports whether --jsonl is set.
func IsJSONLOutput() bool {
	return jsonlOutput
}

// WriteOutput writes value as indented JSON, or one compact line per slice
// element in JSONL mode.
func WriteOutput(out io.Writer, value any) error {
	if IsJSONLOutput() {
		return writeJSONL(out, value)
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func writeJSONL(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return encoder.Encode(value)
	}
	for _, item := range items {
		if err := encoder.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

func colorize(text, color string) string {
	if !colorEnabled() {
		return text
	}
	return color + text + colorReset
}

func colorEnabled() bool {
	if noColor || IsJSONOutput() || IsJSONLOutput() {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return hasTTY()
}
