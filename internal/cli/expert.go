package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(expertCmd)
	expertCmd.AddCommand(expertShowCmd)
}

var expertCmd = &cobra.Command{
	Use:   "expert",
	Short: "Inspect the brand assistant settings",
	Long: `Inspect the settings that steer the brand assistant.

Edit the expert section of the config file to change them.`,
}

var expertShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active expert configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		expert := GetConfig().Expert

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, expert)
		}

		rows := [][]string{
			{"persona", expert.Persona},
			{"creativity", fmt.Sprintf("%.2f", expert.Creativity)},
			{"guidelines", listOrNone(expert.Guidelines)},
			{"forbidden", listOrNone(expert.Forbidden)},
		}
		return writeTable(out, []string{"SETTING", "VALUE"}, rows)
	},
}

func listOrNone(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, "; ")
}
