package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"gamereview/backend/internal/models"
)

// MemoryUserStore is a thread-safe in-memory user store.
type MemoryUserStore struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[uint]models.User)}
}

func (s *MemoryUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return ErrDuplicate
		}
	}
	s.nextID++
	user.ID = s.nextID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.ID] = *user
	return nil
}

// MemoryGameStore is a thread-safe in-memory game store. Aggregates are
// copied on the way in and out, so callers see the same read-modify-write
// behaviour as with the database.
type MemoryGameStore struct {
	mu     sync.RWMutex
	nextID uint
	games  map[uint]*models.Game
}

func NewMemoryGameStore() *MemoryGameStore {
	return &MemoryGameStore{games: make(map[uint]*models.Game)}
}

func (s *MemoryGameStore) List(ctx context.Context) ([]models.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]models.Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, *g.Clone())
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, nil
}

func (s *MemoryGameStore) FindByID(ctx context.Context, id uint) (*models.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return g.Clone(), nil
}

func (s *MemoryGameStore) FindBySlug(ctx context.Context, slug string) (*models.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.games {
		if g.Slug == slug {
			return g.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryGameStore) Create(ctx context.Context, game *models.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	game.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.games {
		if g.Slug == game.Slug {
			return ErrDuplicate
		}
	}
	s.nextID++
	game.ID = s.nextID
	now := time.Now()
	game.CreatedAt, game.UpdatedAt = now, now
	s.games[game.ID] = game.Clone()
	return nil
}

func (s *MemoryGameStore) Save(ctx context.Context, game *models.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if game.ID == 0 {
		return s.Create(ctx, game)
	}
	game.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	game.UpdatedAt = time.Now()
	if game.CreatedAt.IsZero() {
		game.CreatedAt = game.UpdatedAt
	}
	if game.ID > s.nextID {
		s.nextID = game.ID
	}
	s.games[game.ID] = game.Clone()
	return nil
}
