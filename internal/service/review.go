package service

import (
	"context"
	"errors"
	"time"

	"gamereview/backend/internal/apperr"
	"gamereview/backend/internal/models"
	"gamereview/backend/internal/repository"
)

// GameRepository is the game storage the review service needs.
type GameRepository interface {
	List(ctx context.Context) ([]models.Game, error)
	FindByID(ctx context.Context, id uint) (*models.Game, error)
	Save(ctx context.Context, game *models.Game) error
}

// ReviewInput is the caller-supplied part of a review.
type ReviewInput struct {
	Rating      float64
	Subject     string
	Description string
}

type ReviewService struct {
	games GameRepository
	now   func() time.Time
}

func NewReviewService(games GameRepository) *ReviewService {
	return &ReviewService{games: games, now: time.Now}
}

func (s *ReviewService) ListGames(ctx context.Context) ([]models.Game, error) {
	games, err := s.games.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if games == nil {
		games = []models.Game{}
	}
	return games, nil
}

func (s *ReviewService) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	game, err := s.games.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("game not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return game, nil
}

// AddReview appends a review by userID to the game and recomputes its
// average rating. A user may review a game once; a second attempt is a
// conflict and leaves the game unchanged.
//
// The game is read, modified and written back without a version check, so
// two concurrent reviews of the same game can lose one of them.
func (s *ReviewService) AddReview(ctx context.Context, gameID uint, userID string, in ReviewInput) (*models.Game, error) {
	if userID == "" {
		return nil, apperr.BadRequest("invalid user")
	}

	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.HasReviewFrom(userID) {
		return nil, apperr.Conflict("game already reviewed")
	}

	game.AppendReview(models.Review{
		User:        userID,
		Rating:      in.Rating,
		Subject:     in.Subject,
		Description: in.Description,
		CreatedAt:   s.now().UTC(),
	})

	if err := s.games.Save(ctx, game); err != nil {
		return nil, apperr.Internal(err)
	}
	return game, nil
}
