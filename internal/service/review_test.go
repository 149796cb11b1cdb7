package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gamereview/backend/internal/apperr"
	"gamereview/backend/internal/models"
	"gamereview/backend/internal/repository"
)

func seedGame(t *testing.T, store *repository.MemoryGameStore, title string) *models.Game {
	t.Helper()
	g := &models.Game{Title: title, Genres: []string{"Action"}}
	if err := store.Create(context.Background(), g); err != nil {
		t.Fatalf("seed %s: %v", title, err)
	}
	return g
}

type failingGames struct{ err error }

func (f failingGames) List(context.Context) ([]models.Game, error) { return nil, f.err }

func (f failingGames) FindByID(context.Context, uint) (*models.Game, error) { return nil, f.err }

func (f failingGames) Save(context.Context, *models.Game) error { return f.err }

type failingSave struct {
	*repository.MemoryGameStore
}

func (failingSave) Save(context.Context, *models.Game) error { return errors.New("write failed") }

func TestListGamesEmpty(t *testing.T) {
	svc := NewReviewService(repository.NewMemoryGameStore())
	games, err := svc.ListGames(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if games == nil || len(games) != 0 {
		t.Fatalf("expected empty sequence, got %#v", games)
	}
}

func TestListGamesStoreFailure(t *testing.T) {
	svc := NewReviewService(failingGames{err: errors.New("down")})
	if _, err := svc.ListGames(context.Background()); apperr.KindOf(err) != apperr.KindInternal {
		t.Fatalf("expected internal, got %v", err)
	}
}

func TestGetGame(t *testing.T) {
	store := repository.NewMemoryGameStore()
	g := seedGame(t, store, "Hades")
	svc := NewReviewService(store)

	got, err := svc.GetGame(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Hades" {
		t.Fatalf("unexpected game %+v", got)
	}

	_, err = svc.GetGame(context.Background(), g.ID+100)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddReviewFirstReview(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryGameStore()
	g := seedGame(t, store, "Hades")
	svc := NewReviewService(store)
	fixed := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	updated, err := svc.AddReview(ctx, g.ID, "7", ReviewInput{Rating: 4, Subject: "Great", Description: "One more run"})
	if err != nil {
		t.Fatalf("add review: %v", err)
	}
	if len(updated.Reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(updated.Reviews))
	}
	r := updated.Reviews[0]
	if r.User != "7" || r.Rating != 4 || r.Subject != "Great" || r.Description != "One more run" || !r.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected review %+v", r)
	}
	if updated.AverageRating != 4 {
		t.Fatalf("expected average 4, got %v", updated.AverageRating)
	}

	persisted, err := store.FindByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(persisted.Reviews) != 1 || persisted.AverageRating != 4 {
		t.Fatalf("review not persisted: %+v", persisted)
	}
}

func TestAddReviewTwoUsersAverage(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryGameStore()
	g := seedGame(t, store, "Hades")
	svc := NewReviewService(store)

	if _, err := svc.AddReview(ctx, g.ID, "1", ReviewInput{Rating: 2}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	updated, err := svc.AddReview(ctx, g.ID, "2", ReviewInput{Rating: 4})
	if err != nil {
		t.Fatalf("second review: %v", err)
	}
	if updated.AverageRating != 3.0 {
		t.Fatalf("expected 3.0, got %v", updated.AverageRating)
	}
}

// A repeated review must be reported as a conflict, not as a missing game.
func TestAddReviewDuplicateIsConflictNotNotFound(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryGameStore()
	g := seedGame(t, store, "Hades")
	svc := NewReviewService(store)

	if _, err := svc.AddReview(ctx, g.ID, "7", ReviewInput{Rating: 5}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	_, err := svc.AddReview(ctx, g.ID, "7", ReviewInput{Rating: 1})
	if kind := apperr.KindOf(err); kind != apperr.KindConflict {
		t.Fatalf("expected conflict, got %s (%v)", kind, err)
	}

	persisted, err := store.FindByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	count := 0
	for _, r := range persisted.Reviews {
		if r.User == "7" {
			count++
		}
	}
	if count != 1 || persisted.AverageRating != 5 {
		t.Fatalf("expected single review with rating 5, got %d reviews avg %v", count, persisted.AverageRating)
	}
}

func TestAddReviewMissingUser(t *testing.T) {
	store := repository.NewMemoryGameStore()
	g := seedGame(t, store, "Hades")
	svc := NewReviewService(store)

	_, err := svc.AddReview(context.Background(), g.ID, "", ReviewInput{Rating: 3})
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
	if apperr.PublicMessage(err) != "invalid user" {
		t.Fatalf("unexpected message %q", apperr.PublicMessage(err))
	}
}

func TestAddReviewUnknownGame(t *testing.T) {
	svc := NewReviewService(repository.NewMemoryGameStore())
	_, err := svc.AddReview(context.Background(), 99, "1", ReviewInput{Rating: 3})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddReviewSaveFailure(t *testing.T) {
	store := repository.NewMemoryGameStore()
	g := seedGame(t, store, "Hades")
	svc := NewReviewService(failingSave{store})

	_, err := svc.AddReview(context.Background(), g.ID, "1", ReviewInput{Rating: 3})
	if apperr.KindOf(err) != apperr.KindInternal {
		t.Fatalf("expected internal, got %v", err)
	}
}

// Ratings are stored as given; no range check is applied.
func TestAddReviewAcceptsAnyRating(t *testing.T) {
	store := repository.NewMemoryGameStore()
	g := seedGame(t, store, "Hades")
	svc := NewReviewService(store)

	updated, err := svc.AddReview(context.Background(), g.ID, "1", ReviewInput{Rating: 0})
	if err != nil {
		t.Fatalf("add review: %v", err)
	}
	if updated.AverageRating != 0 || len(updated.Reviews) != 1 {
		t.Fatalf("unexpected game %+v", updated)
	}
}

// Two writers that both read the game before either saves: the second save
// overwrites the first, because the aggregate has no version check.
func TestAddReviewConcurrentWritersLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryGameStore()
	g := seedGame(t, store, "Hades")

	a, _ := store.FindByID(ctx, g.ID)
	b, _ := store.FindByID(ctx, g.ID)
	a.AppendReview(models.Review{User: "1", Rating: 2})
	b.AppendReview(models.Review{User: "2", Rating: 4})
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := store.Save(ctx, b); err != nil {
		t.Fatalf("save b: %v", err)
	}

	final, _ := store.FindByID(ctx, g.ID)
	if len(final.Reviews) != 1 || final.Reviews[0].User != "2" {
		t.Fatalf("expected last write to win, got %+v", final.Reviews)
	}
}
