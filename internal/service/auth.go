package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"gamereview/backend/internal/apperr"
	"gamereview/backend/internal/models"
	"gamereview/backend/internal/repository"
)

// UserRepository is the user storage the auth service needs.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// TokenIssuer signs identity tokens for a user.
type TokenIssuer interface {
	GenerateToken(userID uint) (string, error)
}

// UserSummary is the public view of a user. It never carries the hash.
type UserSummary struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"gamer42"`
}

// AuthResult is returned by both register and login.
type AuthResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

type AuthService struct {
	users   UserRepository
	tokens  TokenIssuer
	cost    int
	compare func(hash, password []byte) error

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(users UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		cost:    bcrypt.DefaultCost,
		compare: bcrypt.CompareHashAndPassword,
	}
}

// Register creates a user and returns a token for it. A taken username is a
// conflict and leaves the existing user untouched.
func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.BadRequest("username and password are required")
	}

	_, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, apperr.DuplicateUser()
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperr.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperr.BadRequest("password is too long")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// another request registered the same name after our lookup
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.DuplicateUser()
		}
		return nil, apperr.Internal(err)
	}

	return s.issue(user)
}

// Login verifies the password against the stored hash. Unknown users and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repository.ErrNotFound) {
		// spend the same bcrypt work as a real mismatch
		_ = s.compare(s.unknownUserHash(), []byte(password))
		return nil, apperr.InvalidCredentials()
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := s.compare([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.InvalidCredentials()
	}

	return s.issue(user)
}

// unknownUserHash is a hash at the service's cost that no password matches
// in practice. It is built on first use.
func (s *AuthService) unknownUserHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("unknown-user-placeholder"), s.cost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthResult{
		Token: token,
		User:  UserSummary{ID: user.ID, Username: user.Username},
	}, nil
}
