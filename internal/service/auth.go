package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/relief-supply/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// AuthService handles user registration, login, and token validation.
type AuthService struct {
	users      domain.UserRepository
	tokens     *TokenIssuer
	bcryptCost int
}

// NewAuthService creates a new AuthService. A bcryptCost of zero or less
// selects DefaultBcryptCost.
func NewAuthService(users domain.UserRepository, tokens *TokenIssuer, bcryptCost int) *AuthService {
	if bcryptCost <= 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user account. The email lookup is only an early
// exit; the store's unique index decides concurrent registrations.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrDuplicateEmail
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns a signed token. Unknown email and
// wrong password both yield domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

// ValidateToken parses a bearer token and returns the email it carries.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}
