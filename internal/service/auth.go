package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/voyage-planner/voyage/internal/auth"
	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/repo"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService struct {
	users      repo.UserRepo
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Session is the result of a successful login.
type Session struct {
	Token auth.Token
	User  domain.User
}

// Register creates an account. Email addresses are unique ignoring case.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	const op = "service.AuthService.Register"

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return domain.User{}, fmt.Errorf("%s: %w: name is required", op, domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w: email is invalid", op, domain.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, fmt.Errorf("%s: %w: password must be at least %d characters", op, domain.ErrValidation, MinPasswordLength)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	u, err := s.users.Create(ctx, domain.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Login verifies credentials and issues a token. An unknown email and a wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	const op = "service.AuthService.Login"

	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, fmt.Errorf("%s: %w: invalid email or password", op, domain.ErrUnauthorized)
	}
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if !auth.VerifyPassword(u.PasswordHash, password) {
		return Session{}, fmt.Errorf("%s: %w: invalid email or password", op, domain.ErrUnauthorized)
	}

	tok, err := s.tokens.Issue(u.ID, u.Email, u.Name)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return Session{Token: tok, User: u}, nil
}
