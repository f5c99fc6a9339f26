package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opencode-ai/brandkit/internal/db"
	"github.com/opencode-ai/brandkit/internal/events"
	"github.com/opencode-ai/brandkit/internal/models"
	"github.com/opencode-ai/brandkit/internal/tui/components"
	"github.com/opencode-ai/brandkit/internal/tui/styles"
)

var (
	// brand list flags
	brandListStatus string

	// brand show flags
	brandShowSections []string
	brandShowRaw      bool

	// brand export flags
	brandExportFormat string

	// brand delete flags
	brandDeleteForce bool
)

func init() {
	rootCmd.AddCommand(brandCmd)
	brandCmd.AddCommand(brandListCmd)
	brandCmd.AddCommand(brandShowCmd)
	brandCmd.AddCommand(brandStatusCmd)
	brandCmd.AddCommand(brandExportCmd)
	brandCmd.AddCommand(brandDeleteCmd)

	brandListCmd.Flags().StringVar(&brandListStatus, "status", "", "filter by status (draft, active, archived)")

	brandShowCmd.Flags().StringSliceVar(&brandShowSections, "section", nil, "only show these sections (repeatable)")
	brandShowCmd.Flags().BoolVar(&brandShowRaw, "raw", false, "print markdown without terminal styling")

	brandExportCmd.Flags().StringVar(&brandExportFormat, "format", "yaml", "export format: yaml, json, markdown")

	brandDeleteCmd.Flags().BoolVarP(&brandDeleteForce, "force", "f", false, "skip confirmation")
}

var brandCmd = &cobra.Command{
	Use:     "brand",
	Aliases: []string{"brands"},
	Short:   "Manage brand packs",
	Long: `Manage brand packs.

A brand pack holds four sections: core identity, voice & tone, audience and
visual assets. Create one with 'brandkit wizard'.`,
}

var brandListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List brand packs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var status *models.BrandPackStatus
		if brandListStatus != "" {
			parsed := models.BrandPackStatus(strings.ToLower(brandListStatus))
			if !parsed.Valid() {
				return fmt.Errorf("unknown status %q (use draft, active or archived)", brandListStatus)
			}
			status = &parsed
		}

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		packs, err := db.NewBrandPackRepository(database).List(ctx, status)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			if packs == nil {
				packs = []*models.BrandPack{}
			}
			return WriteOutput(out, packs)
		}

		if len(packs) == 0 {
			empty := components.EmptyBrandPacks()
			if status != nil {
				empty = components.EmptyBrandPacksFiltered(string(*status))
			}
			fmt.Fprintln(out, empty.Render(styles.DefaultStyles()))
			return nil
		}

		rows := make([][]string, 0, len(packs))
		for _, pack := range packs {
			rows = append(rows, []string{
				shortID(pack.ID),
				pack.Name,
				formatBrandStatus(pack.Status),
				string(pack.Source),
				sectionChecklist(pack),
				pack.UpdatedAt.Local().Format("2006-01-02 15:04"),
			})
		}
		return writeTable(out, []string{"ID", "NAME", "STATUS", "SOURCE", "SECTIONS", "UPDATED"}, rows)
	},
}

var brandShowCmd = &cobra.Command{
	Use:   "show <id-or-name>",
	Short: "Show a brand pack",
	Example: `  brandkit brand show Northwind
  brandkit brand show Northwind --section voice-tone --section audience
  brandkit brand show Northwind --raw > northwind.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sections, err := parseSections(brandShowSections)
		if err != nil {
			return err
		}

		pack, err := withBrand(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, pack)
		}

		rendered, err := renderMarkdown(brandMarkdown(pack, sections), brandShowRaw || !colorEnabled())
		if err != nil {
			return err
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

var brandStatusCmd = &cobra.Command{
	Use:   "status <id-or-name> <draft|active|archived>",
	Short: "Change a brand pack's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		status := models.BrandPackStatus(strings.ToLower(args[1]))
		if !status.Valid() {
			return fmt.Errorf("unknown status %q (use draft, active or archived)", args[1])
		}

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewBrandPackRepository(database)
		pack, err := resolveBrand(ctx, repo, args[0])
		if err != nil {
			return err
		}
		pack.Status = status
		if err := repo.Update(ctx, pack); err != nil {
			return fmt.Errorf("failed to update brand pack: %w", err)
		}
		recordEvent(ctx, database, models.EventTypeBrandPackUpdated, models.EntityTypeBrandPack, pack.ID)

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), pack)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Brand pack %s is now %s\n", pack.Name, formatBrandStatus(pack.Status))
		return nil
	},
}

var brandExportCmd = &cobra.Command{
	Use:   "export <id-or-name>",
	Short: "Export a brand pack as YAML, JSON or markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pack, err := withBrand(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch strings.ToLower(brandExportFormat) {
		case "yaml", "yml":
			data, err := yaml.Marshal(exportDocument(pack))
			if err != nil {
				return fmt.Errorf("failed to encode brand pack: %w", err)
			}
			_, err = out.Write(data)
			return err
		case "json":
			return WriteOutput(out, pack)
		case "markdown", "md":
			fmt.Fprint(out, brandMarkdown(pack, nil))
			return nil
		default:
			return fmt.Errorf("unknown format %q (use yaml, json or markdown)", brandExportFormat)
		}
	},
}

var brandDeleteCmd = &cobra.Command{
	Use:     "delete <id-or-name>",
	Aliases: []string{"rm"},
	Short:   "Delete a brand pack and its content packs",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewBrandPackRepository(database)
		pack, err := resolveBrand(ctx, repo, args[0])
		if err != nil {
			return err
		}

		if !brandDeleteForce {
			if IsNonInteractive() {
				return &PreflightError{
					Message:  fmt.Sprintf("refusing to delete %s without confirmation", pack.Name),
					Hint:     "Pass --force to delete in non-interactive mode",
					NextStep: fmt.Sprintf("brandkit brand delete %s --force", pack.ID),
				}
			}
			ok, err := confirm(cmd, fmt.Sprintf("Delete brand pack %q and its content packs?", pack.Name))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		if err := repo.Delete(ctx, pack.ID); err != nil {
			return err
		}
		recordEvent(ctx, database, models.EventTypeBrandPackDeleted, models.EntityTypeBrandPack, pack.ID)

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]string{"deleted": pack.ID})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted brand pack %s (%s)\n", pack.Name, shortID(pack.ID))
		return nil
	},
}

// brandDocument is the YAML export shape.
type brandDocument struct {
	Name         string                 `yaml:"name"`
	Industry     string                 `yaml:"industry,omitempty"`
	Description  string                 `yaml:"description,omitempty"`
	Status       models.BrandPackStatus `yaml:"status"`
	Source       models.BrandPackSource `yaml:"source"`
	CoreIdentity models.CoreIdentity    `yaml:"core_identity"`
	VoiceTone    models.VoiceTone       `yaml:"voice_tone"`
	Audience     models.Audience        `yaml:"audience"`
	VisualAssets models.VisualAssets    `yaml:"visual_assets"`
}

func exportDocument(pack *models.BrandPack) brandDocument {
	return brandDocument{
		Name:         pack.Name,
		Industry:     pack.Industry,
		Description:  pack.Description,
		Status:       pack.Status,
		Source:       pack.Source,
		CoreIdentity: pack.Core,
		VoiceTone:    pack.Voice,
		Audience:     pack.Audience,
		VisualAssets: pack.Visual,
	}
}

func parseSections(values []string) ([]models.Section, error) {
	var sections []models.Section
	for _, value := range splitCSV(values) {
		section, err := models.ParseSection(value)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, nil
}

// withBrand opens the database just long enough to resolve ref.
func withBrand(ctx context.Context, ref string) (*models.BrandPack, error) {
	database, err := openDatabase()
	if err != nil {
		return nil, err
	}
	defer database.Close()
	return resolveBrand(ctx, db.NewBrandPackRepository(database), ref)
}

func resolveBrand(ctx context.Context, repo *db.BrandPackRepository, ref string) (*models.BrandPack, error) {
	pack, err := repo.Resolve(ctx, ref)
	if err != nil {
		if errors.Is(err, db.ErrBrandPackNotFound) {
			return nil, &PreflightError{
				Message:  fmt.Sprintf("brand pack %q not found", ref),
				Hint:     "Refer to a brand pack by ID or exact name",
				NextStep: "brandkit brand list",
			}
		}
		return nil, err
	}
	return pack, nil
}

// recordEvent appends an audit event; failures only log.
func recordEvent(ctx context.Context, database *db.DB, eventType models.EventType, entityType models.EntityType, entityID string) {
	repo := db.NewEventRepository(database)
	if err := events.LogEntity(ctx, repo, eventType, entityType, entityID); err != nil {
		log := logger()
		log.Warn().Err(err).Str("type", string(eventType)).Msg("failed to record event")
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func splitCSV(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
