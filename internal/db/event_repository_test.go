package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opencode-ai/brandkit/internal/models"
)

func TestEventRepositoryAppendAndQuery(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(openTestDB(t))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		event := &models.Event{
			Timestamp:  base.Add(time.Duration(i) * time.Second),
			Type:       models.EventTypeWizardStarted,
			EntityType: models.EntityTypeWizard,
			EntityID:   "run-1",
			Metadata:   map[string]string{"i": string(rune('a' + i))},
		}
		if err := repo.Append(ctx, event); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	if err := repo.Append(ctx, &models.Event{Type: models.EventTypeError}); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}

	page, err := repo.Query(ctx, EventQuery{Limit: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Events) != 2 || page.NextCursor == "" {
		t.Fatalf("expected first page of 2 with cursor, got %d (%q)", len(page.Events), page.NextCursor)
	}

	seen := len(page.Events)
	for page.NextCursor != "" {
		page, err = repo.Query(ctx, EventQuery{Limit: 2, Cursor: page.NextCursor})
		if err != nil {
			t.Fatalf("Query cursor: %v", err)
		}
		seen += len(page.Events)
	}
	if seen != 5 {
		t.Fatalf("expected 5 events across pages, got %d", seen)
	}

	since := base.Add(3 * time.Second)
	page, err = repo.Query(ctx, EventQuery{Since: &since})
	if err != nil {
		t.Fatalf("Query since: %v", err)
	}
	if len(page.Events) != 2 {
		t.Fatalf("expected 2 events since %s, got %d", since, len(page.Events))
	}
	if page.Events[0].Metadata["i"] != "d" {
		t.Fatalf("unexpected metadata: %v", page.Events[0].Metadata)
	}

	got, err := repo.Get(ctx, page.Events[1].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Timestamp.Equal(base.Add(4 * time.Second)) {
		t.Fatalf("unexpected timestamp %s", got.Timestamp)
	}
	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}
