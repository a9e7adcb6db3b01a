package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/relief-supply/internal/domain"
	"github.com/msomdec/relief-supply/internal/repository/sqlite"
	"github.com/msomdec/relief-supply/internal/service"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestAuthService(t *testing.T) (*service.AuthService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	// Use cost 4 for fast tests.
	auth := service.NewAuthService(db.Users(), service.NewTokenIssuer(testJWTSecret, time.Hour), 4)
	return auth, db
}

func TestAuthService_Register_Success(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "New User", "new@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.ID == "" {
		t.Fatal("expected user ID to be set")
	}
	if user.PasswordHash == "password123" || user.PasswordHash == "" {
		t.Fatal("expected password to be stored hashed")
	}

	stored, err := db.Users().GetByEmail(ctx, "new@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if stored.Name != "New User" {
		t.Fatalf("expected name New User, got %q", stored.Name)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()

	first, err := auth.Register(ctx, "User 1", "dup@example.com", "password123")
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err = auth.Register(ctx, "User 2", "dup@example.com", "password456")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	stored, err := db.Users().GetByEmail(ctx, "dup@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if stored.ID != first.ID || stored.Name != "User 1" {
		t.Fatalf("expected first user unchanged, got %+v", stored)
	}

	var count int
	if err := db.SqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", "dup@example.com").Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 user, got %d", count)
	}
}

func TestAuthService_Register_ConcurrentSameEmail(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = auth.Register(ctx, "Racer", "race@example.com", "password123")
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrDuplicateEmail):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one registration to succeed, got %d", succeeded)
	}

	var count int
	if err := db.SqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", "race@example.com").Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 user, got %d", count)
	}
}

func TestAuthService_Register_EmptyFields(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "password123"},
		{"empty password", "a@b.com", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Register(ctx, "Name", tc.email, tc.password)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_NoStrengthPolicy(t *testing.T) {
	auth, _ := newTestAuthService(t)

	if _, err := auth.Register(context.Background(), "", "short@example.com", "x"); err != nil {
		t.Fatalf("expected short password and empty name to be accepted, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "Login User", "login@example.com", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := auth.Login(ctx, "login@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	email, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if email != "login@example.com" {
		t.Fatalf("expected email login@example.com, got %s", email)
	}
}

func TestAuthService_Login_WrongPasswordAndUnknownEmailMatch(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "User", "wrongpw@example.com", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, errWrong := auth.Login(ctx, "wrongpw@example.com", "wrongpassword")
	_, errUnknown := auth.Login(ctx, "nobody@example.com", "password123")

	if !errors.Is(errWrong, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong password, got %v", errWrong)
	}
	if !errors.Is(errUnknown, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown email, got %v", errUnknown)
	}
	if errWrong.Error() != errUnknown.Error() {
		t.Fatalf("expected identical errors, got %q and %q", errWrong, errUnknown)
	}
}

func TestAuthService_ValidateToken_Invalid(t *testing.T) {
	auth, _ := newTestAuthService(t)

	_, err := auth.ValidateToken("not-a-valid-jwt")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	auth1, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth1.Register(ctx, "Secret", "secret@example.com", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := auth1.Login(ctx, "secret@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	db2 := newTestDB(t)
	auth2 := service.NewAuthService(db2.Users(), service.NewTokenIssuer("a-completely-different-secret-value", time.Hour), 4)

	if _, err := auth2.ValidateToken(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong secret, got %v", err)
	}
}

func TestNewAuthService_DefaultBcryptCost(t *testing.T) {
	db := newTestDB(t)
	auth := service.NewAuthService(db.Users(), service.NewTokenIssuer(testJWTSecret, time.Hour), 0)

	user, err := auth.Register(context.Background(), "Default", "default@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(user.PasswordHash))
	if err != nil {
		t.Fatalf("bcrypt.Cost: %v", err)
	}
	if cost != service.DefaultBcryptCost {
		t.Fatalf("expected cost %d, got %d", service.DefaultBcryptCost, cost)
	}
}
