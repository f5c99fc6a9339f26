package db

import (
	"context"
	"errors"
	"testing"

	"github.com/opencode-ai/brandkit/internal/models"
)

func TestContentPackRepository(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	brands := NewBrandPackRepository(database)
	repo := NewContentPackRepository(database)

	brand := testBrandPack("Northwind")
	if err := brands.Create(ctx, brand); err != nil {
		t.Fatalf("create brand: %v", err)
	}

	pack := &models.ContentPack{
		BrandPackID: brand.ID,
		Name:        "Spring launch",
		Channel:     models.ChannelEmail,
		Items: []models.ContentItem{
			{Title: "Teaser", Body: "Something is coming."},
		},
	}
	if err := repo.Create(ctx, pack); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Get(ctx, pack.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Channel != models.ChannelEmail || len(got.Items) != 1 || got.Items[0].Title != "Teaser" {
		t.Fatalf("unexpected content pack: %+v", got)
	}

	dup := &models.ContentPack{BrandPackID: brand.ID, Name: "Spring launch", Channel: models.ChannelBlog}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrContentPackAlreadyExists) {
		t.Fatalf("expected ErrContentPackAlreadyExists, got %v", err)
	}

	orphan := &models.ContentPack{BrandPackID: "missing", Name: "Orphan", Channel: models.ChannelBlog}
	if err := repo.Create(ctx, orphan); !errors.Is(err, ErrBrandPackNotFound) {
		t.Fatalf("expected ErrBrandPackNotFound, got %v", err)
	}

	list, err := repo.ListByBrand(ctx, brand.ID)
	if err != nil {
		t.Fatalf("ListByBrand: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 content pack, got %d", len(list))
	}

	if err := brands.Delete(ctx, brand.ID); err != nil {
		t.Fatalf("delete brand: %v", err)
	}
	if _, err := repo.Get(ctx, pack.ID); !errors.Is(err, ErrContentPackNotFound) {
		t.Fatalf("expected cascade delete, got %v", err)
	}
}
