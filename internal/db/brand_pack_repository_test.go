package db

import (
	"context"
	"errors"
	"testing"

	"github.com/opencode-ai/brandkit/internal/models"
)

func TestBrandPackRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewBrandPackRepository(openTestDB(t))

	pack := testBrandPack("Northwind")
	if err := repo.Create(ctx, pack); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if pack.ID == "" {
		t.Fatal("expected ID to be set")
	}
	if pack.Status != models.BrandPackStatusDraft {
		t.Fatalf("expected default status draft, got %s", pack.Status)
	}
	if pack.Source != models.BrandPackSourceManual {
		t.Fatalf("expected default source manual, got %s", pack.Source)
	}

	got, err := repo.Get(ctx, pack.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Northwind" || got.Industry != "logistics" {
		t.Fatalf("unexpected pack: %+v", got)
	}
	if len(got.Core.Values) != 2 || got.Core.Values[1] != "speed" {
		t.Fatalf("core identity not round-tripped: %+v", got.Core)
	}
	if got.Visual.Palette[0].Hex != "#1F4E79" {
		t.Fatalf("palette not round-tripped: %+v", got.Visual.Palette)
	}

	byName, err := repo.GetByName(ctx, "northwind")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if byName.ID != pack.ID {
		t.Fatalf("expected %s, got %s", pack.ID, byName.ID)
	}

	resolved, err := repo.Resolve(ctx, "NORTHWIND")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.ID != pack.ID {
		t.Fatalf("expected %s, got %s", pack.ID, resolved.ID)
	}
}

func TestBrandPackRepositoryRejects(t *testing.T) {
	ctx := context.Background()
	repo := NewBrandPackRepository(openTestDB(t))

	if err := repo.Create(ctx, testBrandPack("Acme")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Create(ctx, testBrandPack("ACME")); !errors.Is(err, ErrBrandPackAlreadyExists) {
		t.Fatalf("expected ErrBrandPackAlreadyExists, got %v", err)
	}

	invalid := testBrandPack("Broken")
	invalid.Visual.Palette = nil
	if err := repo.Create(ctx, invalid); !errors.Is(err, ErrInvalidBrandPack) {
		t.Fatalf("expected ErrInvalidBrandPack, got %v", err)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrBrandPackNotFound) {
		t.Fatalf("expected ErrBrandPackNotFound, got %v", err)
	}
}

func TestBrandPackRepositoryListUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewBrandPackRepository(openTestDB(t))

	for _, name := range []string{"zephyr", "Alpine", "meridian"} {
		if err := repo.Create(ctx, testBrandPack(name)); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	packs, err := repo.List(ctx, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(packs) != 3 || packs[0].Name != "Alpine" || packs[2].Name != "zephyr" {
		t.Fatalf("unexpected order: %v", names(packs))
	}

	packs[1].Status = models.BrandPackStatusActive
	packs[1].Voice.Tone = "playful"
	if err := repo.Update(ctx, packs[1]); err != nil {
		t.Fatalf("Update: %v", err)
	}

	active := models.BrandPackStatusActive
	filtered, err := repo.List(ctx, &active)
	if err != nil {
		t.Fatalf("List active: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Voice.Tone != "playful" {
		t.Fatalf("unexpected active packs: %v", names(filtered))
	}

	if err := repo.Delete(ctx, packs[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, packs[0].ID); !errors.Is(err, ErrBrandPackNotFound) {
		t.Fatalf("expected ErrBrandPackNotFound on second delete, got %v", err)
	}

	ghost := testBrandPack("ghost")
	ghost.ID = "does-not-exist"
	if err := repo.Update(ctx, ghost); !errors.Is(err, ErrBrandPackNotFound) {
		t.Fatalf("expected ErrBrandPackNotFound on update, got %v", err)
	}
}

func names(packs []*models.BrandPack) []string {
	out := make([]string, 0, len(packs))
	for _, p := range packs {
		out = append(out, p.Name)
	}
	return out
}
