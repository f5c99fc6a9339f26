package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opencode-ai/brandkit/internal/db"
	"github.com/opencode-ai/brandkit/internal/models"
	"github.com/opencode-ai/brandkit/internal/tui/components"
	"github.com/opencode-ai/brandkit/internal/tui/styles"
)

var (
	// content create flags
	contentCreateChannel  string
	contentCreateItems    []string
	contentCreateFromFile string

	// content list flags
	contentListBrand string
)

func init() {
	rootCmd.AddCommand(contentCmd)
	contentCmd.AddCommand(contentCreateCmd)
	contentCmd.AddCommand(contentListCmd)
	contentCmd.AddCommand(contentShowCmd)
	contentCmd.AddCommand(contentDeleteCmd)

	contentCreateCmd.Flags().StringVar(&contentCreateChannel, "channel", "", "channel: blog, email, social, ads, landing (required)")
	contentCreateCmd.Flags().StringArrayVar(&contentCreateItems, "item", nil, `content item as "Title::Body" (repeatable)`)
	contentCreateCmd.Flags().StringVar(&contentCreateFromFile, "from-file", "", "read items from a YAML list of {title, body}")
	contentCreateCmd.MarkFlagRequired("channel")

	contentListCmd.Flags().StringVar(&contentListBrand, "brand", "", "only list packs of this brand")
}

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage content packs",
	Long: `Manage content packs.

A content pack groups copy written for one brand pack and channel.`,
}

var contentCreateCmd = &cobra.Command{
	Use:   "create <brand> <name>",
	Short: "Create a content pack",
	Example: `  brandkit content create Northwind "Launch emails" --channel email \
    --item "Welcome::Thanks for joining Northwind."

  brandkit content create Northwind "Q3 blog" --channel blog --from-file posts.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		channel, err := models.ParseChannel(contentCreateChannel)
		if err != nil {
			return err
		}
		items, err := parseContentItems(contentCreateItems)
		if err != nil {
			return err
		}
		if contentCreateFromFile != "" {
			fileItems, err := loadContentItems(contentCreateFromFile)
			if err != nil {
				return err
			}
			items = append(items, fileItems...)
		}

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		brand, err := resolveBrand(ctx, db.NewBrandPackRepository(database), args[0])
		if err != nil {
			return err
		}

		pack := &models.ContentPack{
			BrandPackID: brand.ID,
			Name:        args[1],
			Channel:     channel,
			Items:       items,
		}
		step := startProgress(cmd, "Creating content pack")
		if err := db.NewContentPackRepository(database).Create(ctx, pack); err != nil {
			step.Fail(err)
			if errors.Is(err, db.ErrContentPackAlreadyExists) {
				return fmt.Errorf("%s already has a content pack named %q", brand.Name, pack.Name)
			}
			return err
		}
		step.Done()
		recordEvent(ctx, database, models.EventTypeContentPackCreated, models.EntityTypeContentPack, pack.ID)

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), pack)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Content pack created:\n")
		fmt.Fprintf(out, "  ID:      %s\n", pack.ID)
		fmt.Fprintf(out, "  Brand:   %s\n", brand.Name)
		fmt.Fprintf(out, "  Channel: %s\n", pack.Channel)
		fmt.Fprintf(out, "  Items:   %d\n", len(pack.Items))
		return nil
	},
}

var contentListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List content packs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		brands := db.NewBrandPackRepository(database)
		contentRepo := db.NewContentPackRepository(database)

		var packs []*models.ContentPack
		if contentListBrand != "" {
			brand, err := resolveBrand(ctx, brands, contentListBrand)
			if err != nil {
				return err
			}
			packs, err = contentRepo.ListByBrand(ctx, brand.ID)
			if err != nil {
				return err
			}
		} else {
			packs, err = contentRepo.List(ctx)
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			if packs == nil {
				packs = []*models.ContentPack{}
			}
			return WriteOutput(out, packs)
		}
		if len(packs) == 0 {
			fmt.Fprintln(out, components.EmptyContentPacks().Render(styles.DefaultStyles()))
			return nil
		}

		names := map[string]string{}
		rows := make([][]string, 0, len(packs))
		for _, pack := range packs {
			brandName, ok := names[pack.BrandPackID]
			if !ok {
				brandName = shortID(pack.BrandPackID)
				if brand, err := brands.Get(ctx, pack.BrandPackID); err == nil {
					brandName = brand.Name
				}
				names[pack.BrandPackID] = brandName
			}
			rows = append(rows, []string{
				shortID(pack.ID),
				pack.Name,
				brandName,
				string(pack.Channel),
				fmt.Sprintf("%d", len(pack.Items)),
				pack.CreatedAt.Local().Format("2006-01-02 15:04"),
			})
		}
		return writeTable(out, []string{"ID", "NAME", "BRAND", "CHANNEL", "ITEMS", "CREATED"}, rows)
	},
}

var contentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a content pack's items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		pack, err := db.NewContentPackRepository(database).Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, pack)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n\n**Channel:** %s\n", pack.Name, pack.Channel)
		for _, item := range pack.Items {
			fmt.Fprintf(&b, "\n## %s\n\n%s\n", item.Title, item.Body)
		}
		rendered, err := renderMarkdown(b.String(), !colorEnabled())
		if err != nil {
			return err
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

var contentDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a content pack",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		if err := db.NewContentPackRepository(database).Delete(ctx, args[0]); err != nil {
			if errors.Is(err, db.ErrContentPackNotFound) {
				return &PreflightError{
					Message:  fmt.Sprintf("content pack %q not found", args[0]),
					NextStep: "brandkit content list",
				}
			}
			return err
		}
		recordEvent(ctx, database, models.EventTypeContentPackDeleted, models.EntityTypeContentPack, args[0])

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted content pack %s\n", args[0])
		return nil
	},
}

// parseContentItems parses "Title::Body" pairs. The body is optional.
func parseContentItems(values []string) ([]models.ContentItem, error) {
	items := make([]models.ContentItem, 0, len(values))
	for _, value := range values {
		title, body, _ := strings.Cut(value, "::")
		title = strings.TrimSpace(title)
		if title == "" {
			return nil, fmt.Errorf("invalid item %q: title is required (use \"Title::Body\")", value)
		}
		items = append(items, models.ContentItem{Title: title, Body: strings.TrimSpace(body)})
	}
	return items, nil
}

func loadContentItems(path string) ([]models.ContentItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	var raw []struct {
		Title string `yaml:"title"`
		Body  string `yaml:"body"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse items %s: %w", path, err)
	}
	items := make([]models.ContentItem, 0, len(raw))
	for _, item := range raw {
		items = append(items, models.ContentItem{Title: item.Title, Body: item.Body})
	}
	return items, nil
}
