package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/storage/sqlstore"
)

func setupAuthService(t *testing.T) (*AuthService, *auth.JWTManager) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "yatube-auth-service-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlstore.NewSQLite(context.Background(), filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	return NewAuthService(authenticator, jwtManager, discardLogger()), jwtManager
}

func TestRegisterAndLogin(t *testing.T) {
	svc, jwtManager := setupAuthService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, " leo ", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if session.User.Username != "leo" {
		t.Errorf("Username = %q, want trimmed %q", session.User.Username, "leo")
	}
	claims, err := jwtManager.Validate(session.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != session.User.ID {
		t.Errorf("claims user = %q, want %q", claims.UserID, session.User.ID)
	}

	if _, err := svc.Register(ctx, "leo", "password123"); !errors.Is(err, auth.ErrUsernameTaken) {
		t.Errorf("duplicate: expected ErrUsernameTaken, got %v", err)
	}

	login, err := svc.Login(ctx, "leo", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.User.ID != session.User.ID {
		t.Errorf("Login user = %q, want %q", login.User.ID, session.User.ID)
	}

	for _, tc := range []struct{ username, password string }{
		{"leo", "wrong-password"},
		{"", "password123"},
		{"leo", ""},
	} {
		if _, err := svc.Login(ctx, tc.username, tc.password); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q): expected ErrInvalidCredentials, got %v", tc.username, tc.password, err)
		}
	}
}
