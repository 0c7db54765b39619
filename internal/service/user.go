package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/smarttrip/tripplanner/internal/auth"
	"github.com/smarttrip/tripplanner/internal/domain"
	"github.com/smarttrip/tripplanner/internal/repo"
)

const (
	minPasswordLen = 6
	maxFullNameLen = 120
	maxEmailLen    = 255
)

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// UserService implements account registration and login.
type UserService struct {
	repo   repo.UserRepo
	tokens TokenIssuer
}

// NewUserService constructs a UserService.
func NewUserService(r repo.UserRepo, tokens TokenIssuer) *UserService {
	return &UserService{repo: r, tokens: tokens}
}

// Register creates an account. The email is stored lower-cased.
// Returns domain.ErrValidation for bad input and domain.ErrConflict when the
// email is already registered.
func (s *UserService) Register(ctx context.Context, email, fullName, password string) (domain.User, error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)

	if err := validateRegistration(email, fullName, password); err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}

	u, err := s.repo.Create(ctx, domain.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}
	return u, nil
}

// Login checks credentials and returns an access token.
// Unknown email and wrong password both return domain.ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("service.UserService.Login: %w: invalid email or password", domain.ErrUnauthorized)
	}
	if err != nil {
		return "", fmt.Errorf("service.UserService.Login: %w", err)
	}

	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return "", fmt.Errorf("service.UserService.Login: %w: invalid email or password", domain.ErrUnauthorized)
		}
		return "", fmt.Errorf("service.UserService.Login: %w", err)
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", fmt.Errorf("service.UserService.Login: %w", err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(email, fullName, password string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if len(email) > maxEmailLen {
		return fmt.Errorf("%w: email must be at most %d characters", domain.ErrValidation, maxEmailLen)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fmt.Errorf("%w: email is not a valid address", domain.ErrValidation)
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	if len(password) > auth.MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, auth.MaxPasswordBytes)
	}
	if utf8.RuneCountInString(fullName) > maxFullNameLen {
		return fmt.Errorf("%w: full_name must be at most %d characters", domain.ErrValidation, maxFullNameLen)
	}
	return nil
}
