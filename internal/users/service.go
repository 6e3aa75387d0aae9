package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogapi/internal/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo   Repository
	tokens *auth.Tokens
}

func NewService(repo Repository, tokens *auth.Tokens) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) Signup(ctx context.Context, firstName, lastName, email, password string) (*User, *auth.TokenPair, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.tokens.Issue(created.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, pair, nil
}

// Login verifies credentials. Unknown email and wrong password both come
// back as ErrInvalidCredentials so the response does not reveal which.
func (s *Service) Login(ctx context.Context, email, password string) (*User, *auth.TokenPair, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Refresh trades a valid refresh token for a new pair. The user must still
// exist; a deleted account cannot keep refreshing.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return s.tokens.Issue(userID)
}
