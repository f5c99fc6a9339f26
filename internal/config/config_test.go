package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `database:
  path: ` + filepath.Join(dir, "test.db") + `
reveal:
  type_tick: 10ms
  type_pause: 0s
  speed: 4
tui:
  theme: high-contrast
expert:
  persona: Copy Chief
  creativity: 0.9
  guidelines:
    - Lead with benefits
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "test.db"), cfg.Database.Path)
	require.Equal(t, 10*time.Millisecond, cfg.Reveal.TypeTick)
	require.Equal(t, time.Duration(0), cfg.Reveal.TypePause)
	require.Equal(t, 4.0, cfg.Reveal.Speed)
	require.Equal(t, "high-contrast", cfg.TUI.Theme)
	require.Equal(t, "Copy Chief", cfg.Expert.Persona)
	require.Equal(t, []string{"Lead with benefits"}, cfg.Expert.Guidelines)
	require.Equal(t, "info", cfg.Logging.Level)

	seq := cfg.Reveal.Sequencer()
	require.Equal(t, 10*time.Millisecond, seq.TypeTick)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reveal:\n  speed: 2\n"), 0644))

	t.Setenv("BRANDKIT_REVEAL_SPEED", "8")
	t.Setenv("BRANDKIT_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8.0, cfg.Reveal.Speed)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reveal:\n  speed: 0\ntui:\n  theme: neon\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "reveal.speed")
	require.Contains(t, err.Error(), "tui.theme")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
