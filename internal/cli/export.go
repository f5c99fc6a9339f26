// Package cli provides export commands for brandkit data.
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/brandkit/internal/db"
	"github.com/opencode-ai/brandkit/internal/models"
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportAllCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export brandkit data",
	Long:  "Export stored brandkit data for automation or backups.",
}

var exportAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Export everything",
	Long:  "Export brand packs, content packs and knowledge files as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		snapshot, err := buildExportSnapshot(cmd, database)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, snapshot)
		}

		writer := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
		fmt.Fprintf(writer, "Brand packs:\t%d\n", len(snapshot.BrandPacks))
		fmt.Fprintf(writer, "Content packs:\t%d\n", len(snapshot.ContentPacks))
		fmt.Fprintf(writer, "Knowledge files:\t%d\n", len(snapshot.Knowledge))
		if err := writer.Flush(); err != nil {
			return err
		}

		fmt.Fprintln(out, "Use --json or --jsonl for full export output.")
		return nil
	},
}

// ExportSnapshot is the payload returned by `brandkit export all`.
type ExportSnapshot struct {
	BrandPacks   []*models.BrandPack     `json:"brand_packs"`
	ContentPacks []*models.ContentPack   `json:"content_packs"`
	Knowledge    []*models.KnowledgeFile `json:"knowledge"`
}

func buildExportSnapshot(cmd *cobra.Command, database *db.DB) (*ExportSnapshot, error) {
	ctx := cmd.Context()

	brands, err := db.NewBrandPackRepository(database).List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list brand packs: %w", err)
	}
	content, err := db.NewContentPackRepository(database).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list content packs: %w", err)
	}
	files, err := db.NewKnowledgeRepository(database).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge files: %w", err)
	}

	snapshot := &ExportSnapshot{
		BrandPacks:   brands,
		ContentPacks: content,
		Knowledge:    files,
	}
	if snapshot.BrandPacks == nil {
		snapshot.BrandPacks = []*models.BrandPack{}
	}
	if snapshot.ContentPacks == nil {
		snapshot.ContentPacks = []*models.ContentPack{}
	}
	if snapshot.Knowledge == nil {
		snapshot.Knowledge = []*models.KnowledgeFile{}
	}
	return snapshot, nil
}
