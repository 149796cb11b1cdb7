// Package repository persists the User and Game aggregates.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gamereview/backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps gorm errors onto the package sentinels. The connection is
// opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// UserRepository stores users in the users table.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// GameRepository stores game aggregates in the games table.
type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) List(ctx context.Context) ([]models.Game, error) {
	games := []models.Game{}
	if err := r.db.WithContext(ctx).Order("id").Find(&games).Error; err != nil {
		return nil, translate(err)
	}
	return games, nil
}

func (r *GameRepository) FindByID(ctx context.Context, id uint) (*models.Game, error) {
	var game models.Game
	if err := r.db.WithContext(ctx).First(&game, id).Error; err != nil {
		return nil, translate(err)
	}
	return &game, nil
}

func (r *GameRepository) FindBySlug(ctx context.Context, slug string) (*models.Game, error) {
	var game models.Game
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&game).Error; err != nil {
		return nil, translate(err)
	}
	return &game, nil
}

func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	return translate(r.db.WithContext(ctx).Create(game).Error)
}

// Save writes every column of the aggregate. Concurrent writers to the same
// game race; the last write wins.
func (r *GameRepository) Save(ctx context.Context, game *models.Game) error {
	return translate(r.db.WithContext(ctx).Save(game).Error)
}
