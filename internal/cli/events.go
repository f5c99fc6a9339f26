package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/brandkit/internal/db"
	"github.com/opencode-ai/brandkit/internal/models"
)

var (
	eventsType   string
	eventsEntity string
	eventsSince  string
	eventsLimit  int
	eventsCursor string
)

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().StringVar(&eventsType, "type", "", "filter by event type (e.g. wizard.completed)")
	eventsCmd.Flags().StringVar(&eventsEntity, "entity", "", "filter by entity ID")
	eventsCmd.Flags().StringVar(&eventsSince, "since", "", "only events newer than a duration (1h) or RFC3339 time")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 50, "maximum events to show")
	eventsCmd.Flags().StringVar(&eventsCursor, "cursor", "", "continue after this event ID")
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the event log",
	Long:  "Show recorded wizard runs and changes to brand packs, content packs and knowledge files.",
	Example: `  brandkit events
  brandkit events --type wizard.cancelled --since 24h
  brandkit events --jsonl --limit 500`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := db.EventQuery{
			Cursor: strings.TrimSpace(eventsCursor),
			Limit:  eventsLimit,
		}
		if eventsType != "" {
			eventType := models.EventType(strings.TrimSpace(eventsType))
			query.Type = &eventType
		}
		if eventsEntity != "" {
			entity := strings.TrimSpace(eventsEntity)
			query.EntityID = &entity
		}
		if eventsSince != "" {
			since, err := parseSince(eventsSince, time.Now())
			if err != nil {
				return err
			}
			query.Since = &since
		}

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		page, err := db.NewEventRepository(database).Query(cmd.Context(), query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if IsJSONLOutput() {
			for _, event := range page.Events {
				if err := writeJSONL(out, event); err != nil {
					return err
				}
			}
			return nil
		}
		if IsJSONOutput() {
			events := page.Events
			if events == nil {
				events = []*models.Event{}
			}
			return WriteOutput(out, map[string]any{
				"events":      events,
				"next_cursor": page.NextCursor,
			})
		}

		if len(page.Events) == 0 {
			fmt.Fprintln(out, "No events found.")
			return nil
		}

		rows := make([][]string, 0, len(page.Events))
		for _, event := range page.Events {
			rows = append(rows, []string{
				event.Timestamp.Local().Format("2006-01-02 15:04:05"),
				string(event.Type),
				string(event.EntityType),
				shortID(event.EntityID),
			})
		}
		if err := writeTable(out, []string{"TIME", "TYPE", "ENTITY", "ID"}, rows); err != nil {
			return err
		}
		if page.NextCursor != "" {
			fmt.Fprintf(out, "\nMore events: brandkit events --cursor %s\n", page.NextCursor)
		}
		return nil
	},
}

// parseSince accepts a duration before now or an absolute RFC3339 time.
func parseSince(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		if d < 0 {
			return time.Time{}, fmt.Errorf("--since duration must be positive")
		}
		return now.Add(-d), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --since %q: use a duration like 2h or an RFC3339 time", value)
}
