// Package config loads brandkit configuration from file, environment and
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/opencode-ai/brandkit/internal/models"
	"github.com/opencode-ai/brandkit/internal/reveal"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BRANDKIT_REVEAL_SPEED.
const EnvPrefix = "BRANDKIT"

// Config is the full application configuration.
type Config struct {
	Database DatabaseConfig      `mapstructure:"database"`
	Logging  LoggingConfig       `mapstructure:"logging"`
	Reveal   RevealConfig        `mapstructure:"reveal"`
	TUI      TUIConfig           `mapstructure:"tui"`
	Scripts  ScriptsConfig       `mapstructure:"scripts"`
	Expert   models.ExpertConfig `mapstructure:"expert"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File receives logs while the TUI owns the terminal. Empty discards them.
	File string `mapstructure:"file"`
}

// RevealConfig tunes the wizard choreography.
type RevealConfig struct {
	TypeTick  time.Duration `mapstructure:"type_tick"`
	TypePause time.Duration `mapstructure:"type_pause"`
	// Speed divides every script delay.
	Speed float64 `mapstructure:"speed"`
}

// Sequencer converts the reveal settings for the sequencer.
func (r RevealConfig) Sequencer() reveal.Config {
	return reveal.Config{TypeTick: r.TypeTick, TypePause: r.TypePause}
}

// TUIConfig controls the terminal UI.
type TUIConfig struct {
	Theme string `mapstructure:"theme"`
}

// ScriptsConfig controls where custom reveal scripts are looked up.
type ScriptsConfig struct {
	ProjectDir string `mapstructure:"project_dir"`
	Default    string `mapstructure:"default"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	seq := reveal.DefaultConfig()
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(DataDir(), "brandkit.db")},
		Logging:  LoggingConfig{Level: "info", Format: "console"},
		Reveal: RevealConfig{
			TypeTick:  seq.TypeTick,
			TypePause: seq.TypePause,
			Speed:     1,
		},
		TUI:     TUIConfig{Theme: "default"},
		Scripts: ScriptsConfig{ProjectDir: ".", Default: "brand-generation"},
		Expert:  models.DefaultExpertConfig(),
	}
}

// ConfigDir is where config.yaml and user scripts live.
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "brandkit")
	}
	return filepath.Join(".", ".brandkit")
}

// DataDir is where the database lives.
func DataDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "share", "brandkit")
	}
	return filepath.Join(".", ".brandkit")
}

// Load reads configuration. An empty path searches ConfigDir for
// config.yaml; a missing file there is not an error, a missing explicit
// path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(ConfigDir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("reveal.type_tick", cfg.Reveal.TypeTick)
	v.SetDefault("reveal.type_pause", cfg.Reveal.TypePause)
	v.SetDefault("reveal.speed", cfg.Reveal.Speed)
	v.SetDefault("tui.theme", cfg.TUI.Theme)
	v.SetDefault("scripts.project_dir", cfg.Scripts.ProjectDir)
	v.SetDefault("scripts.default", cfg.Scripts.Default)
	v.SetDefault("expert.persona", cfg.Expert.Persona)
	v.SetDefault("expert.creativity", cfg.Expert.Creativity)
	v.SetDefault("expert.guidelines", cfg.Expert.Guidelines)
	v.SetDefault("expert.forbidden", cfg.Expert.Forbidden)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	validation := &models.ValidationErrors{}
	if strings.TrimSpace(c.Database.Path) == "" {
		validation.AddMessage("database.path", "database path is required")
	}
	if c.Reveal.TypeTick <= 0 {
		validation.AddMessage("reveal.type_tick", "type tick must be positive")
	}
	if c.Reveal.TypePause < 0 {
		validation.AddMessage("reveal.type_pause", "type pause must not be negative")
	}
	if c.Reveal.Speed <= 0 {
		validation.AddMessage("reveal.speed", "speed must be positive")
	}
	switch c.TUI.Theme {
	case "default", "high-contrast":
	default:
		validation.AddMessage("tui.theme", fmt.Sprintf("unknown theme %q", c.TUI.Theme))
	}
	validation.Merge("expert", c.Expert.Validate())
	return validation.Err()
}
