package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/meenagpt/chat-service/internal/auth"
	"github.com/meenagpt/chat-service/internal/model"
	"github.com/meenagpt/chat-service/internal/store"
)

// AuthService handles registration and login.
type AuthService struct {
	store  store.Store
	issuer *auth.TokenIssuer
}

func NewAuthService(s store.Store, issuer *auth.TokenIssuer) *AuthService {
	return &AuthService{store: s, issuer: issuer}
}

// Register creates an account and issues a session token.
// Returns model.ErrConflict when the email is already registered.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	u, err := s.store.Users().Create(ctx, &model.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		return nil, "", err
	}
	tok, err := s.issuer.Issue(u.UserID, u.Name, u.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, tok, nil
}

// Login verifies credentials and issues a session token.
// Unknown email and wrong password both map to model.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, "", model.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", model.ErrInvalidCredentials
	}
	tok, err := s.issuer.Issue(u.UserID, u.Name, u.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, tok, nil
}
