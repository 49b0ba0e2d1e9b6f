package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/models"
)

// AuthService registers and logs in users and issues session tokens.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Session is a logged-in user and the token that proves it.
type Session struct {
	User  *models.User
	Token string
}

// Register creates a new user account and starts a session for it.
func (s *AuthService) Register(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	s.logger.Info("Register request", "username", username)

	user, err := s.authenticator.Register(ctx, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) || errors.Is(err, auth.ErrWeakPassword) || errors.Is(err, auth.ErrPasswordTooLong) || errors.Is(err, auth.ErrInvalidUsername) {
			s.logger.Warn("Registration rejected", "username", username, "error", err)
			return nil, err
		}
		s.logger.Error("Registration failed", "username", username, "error", err)
		return nil, err
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "username", user.Username)
	return session, nil
}

// Login authenticates a user and starts a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	s.logger.Info("Login request", "username", username)

	if username == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		s.logger.Warn("Login failed", "username", username, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "username", user.Username)
	return session, nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}
