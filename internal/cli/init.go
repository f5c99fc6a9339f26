package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/brandkit/internal/config"
	"github.com/opencode-ai/brandkit/internal/db"
	"github.com/opencode-ai/brandkit/internal/scripts"
)

var (
	initForce bool

	// configDirFunc locates the config directory; tests override it.
	configDirFunc = defaultConfigDir
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

type initResult struct {
	name    string
	status  string // done, skipped, failed
	message string
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up brandkit",
	Long: `Set up brandkit on this machine:

  - write a commented config file
  - create the database and apply migrations
  - create the user script directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		results := []initResult{
			checkPrerequisites(),
			createConfigFile(),
			initDatabase(cmd.Context(), GetConfig().Database.Path),
			createScriptDir(),
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			payload := make([]map[string]string, 0, len(results))
			for _, r := range results {
				payload = append(payload, map[string]string{"step": r.name, "status": r.status, "message": r.message})
			}
			if err := WriteOutput(out, payload); err != nil {
				return err
			}
		} else {
			for _, r := range results {
				fmt.Fprintf(out, "%s %-22s %s\n", initStatusMarker(r.status), r.name, r.message)
			}
		}

		for _, r := range results {
			if r.status == "failed" {
				return fmt.Errorf("init failed: %s", r.name)
			}
		}
		if !IsJSONOutput() && !IsJSONLOutput() {
			fmt.Fprintln(out, "\nReady. Try: brandkit wizard --brand \"Your Brand\"")
		}
		return nil
	},
}

func initStatusMarker(status string) string {
	switch status {
	case "done":
		return colorize("[ok]  ", colorGreen)
	case "skipped":
		return colorize("[skip]", colorYellow)
	default:
		return colorize("[fail]", colorRed)
	}
}

// checkPrerequisites reports whether the interactive wizard can run here.
func checkPrerequisites() initResult {
	result := initResult{name: "Terminal"}
	if hasTTY() {
		result.status = "done"
		result.message = "interactive terminal detected; the wizard opens the chat UI"
		return result
	}
	result.status = "skipped"
	result.message = "no terminal detected; the wizard streams plain text"
	return result
}

func createConfigFile() initResult {
	result := initResult{name: "Config file"}
	dir := configDirFunc()
	path := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(path); err == nil {
		if !initForce {
			result.status = "skipped"
			result.message = fmt.Sprintf("%s exists (use --force to overwrite)", path)
			return result
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		result.status = "failed"
		result.message = err.Error()
		return result
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.status = "failed"
		result.message = fmt.Sprintf("create %s: %v", dir, err)
		return result
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o644); err != nil {
		result.status = "failed"
		result.message = fmt.Sprintf("write %s: %v", path, err)
		return result
	}

	result.status = "done"
	result.message = path
	return result
}

func initDatabase(ctx context.Context, path string) initResult {
	result := initResult{name: "Database"}

	database, err := db.Open(db.Config{Path: path})
	if err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}
	defer database.Close()

	applied, err := database.MigrateUp(ctx)
	if err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}

	result.status = "done"
	if applied == 0 {
		result.status = "skipped"
		result.message = fmt.Sprintf("%s is up to date", path)
		return result
	}
	result.message = fmt.Sprintf("%s (%d migrations applied)", path, applied)
	return result
}

func createScriptDir() initResult {
	result := initResult{name: "Script directory"}
	paths := scripts.ScriptSearchPaths("")
	if len(paths) == 0 {
		result.status = "skipped"
		result.message = "no home directory"
		return result
	}
	dir := paths[len(paths)-1]
	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}
	result.status = "done"
	result.message = dir
	return result
}

func defaultConfigDir() string {
	return config.ConfigDir()
}

const configTemplate = `# brandkit Configuration File
# Values below are the defaults. Every key can be overridden with an
# environment variable, e.g. BRANDKIT_REVEAL_SPEED=2.

# SQLite file holding brand packs, content packs and the event log.
# database:
#   path: ~/.local/share/brandkit/brandkit.db

logging:
  level: info       # debug, info, warn, error
  format: console   # console, json
  # Logs are written here while the chat UI owns the terminal.
  # file: /tmp/brandkit.log

reveal:
  type_tick: 40ms   # interval between typed characters
  type_pause: 500ms # pause after a message finishes typing
  speed: 1          # divides every script delay

tui:
  theme: default    # default, high-contrast

scripts:
  project_dir: "."
  default: brand-generation

expert:
  persona: Brand Strategist
  creativity: 0.5   # 0 = most conventional, 1 = widest choices
  guidelines: []
  forbidden: []
`
