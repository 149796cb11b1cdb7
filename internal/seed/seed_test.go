package seed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gamereview/backend/internal/models"
	"gamereview/backend/internal/repository"
)

const sample = `[
  {"title": "Hades", "description": "Escape the underworld.", "releaseDate": "2020-09-17", "genres": ["Roguelike", " Action ", "Roguelike"], "platforms": ["PC", "Switch"]},
  {"title": "Celeste", "genres": ["Platformer"], "platforms": ["PC"]},
  {"title": "   "},
  {"title": "Bad Date", "releaseDate": "17/09/2020"}
]`

func TestDecodeAndImport(t *testing.T) {
	ctx := context.Background()
	records, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	store := repository.NewMemoryGameStore()

	res, err := NewImporter(store, nil).Import(ctx, records)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res != (Result{Inserted: 2, Skipped: 2}) {
		t.Fatalf("unexpected result %+v", res)
	}

	hades, err := store.FindBySlug(ctx, "hades")
	if err != nil {
		t.Fatalf("find hades: %v", err)
	}
	if strings.Join(hades.Genres, ",") != "Roguelike,Action" {
		t.Fatalf("unexpected genres %v", hades.Genres)
	}
	if hades.ReleaseDate == nil || !hades.ReleaseDate.Equal(time.Date(2020, 9, 17, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected release date %v", hades.ReleaseDate)
	}

	celeste, err := store.FindBySlug(ctx, "celeste")
	if err != nil {
		t.Fatalf("find celeste: %v", err)
	}
	if celeste.ReleaseDate != nil {
		t.Fatalf("expected no release date, got %v", celeste.ReleaseDate)
	}
}

func TestReimportKeepsReviews(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryGameStore()
	im := NewImporter(store, nil)

	if _, err := im.Import(ctx, []Record{{Title: "Hades", Description: "old"}}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	g, _ := store.FindBySlug(ctx, "hades")
	g.AppendReview(models.Review{User: "1", Rating: 5})
	if err := store.Save(ctx, g); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := im.Import(ctx, []Record{{Title: "Hades", Description: "new"}})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if res.Updated != 1 || res.Inserted != 0 {
		t.Fatalf("unexpected result %+v", res)
	}

	g, _ = store.FindBySlug(ctx, "hades")
	if g.Description != "new" {
		t.Fatalf("metadata not updated: %q", g.Description)
	}
	if len(g.Reviews) != 1 || g.AverageRating != 5 {
		t.Fatalf("reviews lost on reimport: %+v", g.Reviews)
	}
}

type brokenStore struct{ *repository.MemoryGameStore }

func (brokenStore) FindBySlug(context.Context, string) (*models.Game, error) {
	return nil, errors.New("connection refused")
}

func TestImportAbortsOnStoreFailure(t *testing.T) {
	_, err := NewImporter(brokenStore{repository.NewMemoryGameStore()}, nil).Import(context.Background(), []Record{{Title: "Hades"}})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"title": "not an array"}`)); err == nil {
		t.Fatal("expected decode error")
	}
}
