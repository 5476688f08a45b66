package services

import (
	"context"

	"fabtech_dashboard/pkg/backend"

	"go.uber.org/zap"
)

// AuthService is a thin pass-through to the hosted auth service; sessions and
// passwords are never stored here.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*backend.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	SendResetEmail(ctx context.Context, email string) error
	ExchangeCodeForSession(ctx context.Context, code, codeVerifier string) (*backend.Session, error)
	UpdatePassword(ctx context.Context, accessToken, password string) (*backend.User, error)
	CurrentUser(ctx context.Context, accessToken string) (*backend.User, error)
}

type authService struct {
	backend       *backend.Client
	resetRedirect string
	logger        *zap.Logger
}

// NewAuthService builds the service. resetRedirect is where reset-password
// links land; empty leaves it to the backend's default.
func NewAuthService(backend *backend.Client, resetRedirect string, logger *zap.Logger) AuthService {
	return &authService{backend: backend, resetRedirect: resetRedirect, logger: logger}
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	session, err := s.backend.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User signed in", zap.String("user_id", session.User.ID))
	return session, nil
}

func (s *authService) SignOut(ctx context.Context, accessToken string) error {
	return s.backend.SignOut(ctx, accessToken)
}

func (s *authService) SendResetEmail(ctx context.Context, email string) error {
	return s.backend.SendResetEmail(ctx, email, s.resetRedirect)
}

func (s *authService) ExchangeCodeForSession(ctx context.Context, code, codeVerifier string) (*backend.Session, error) {
	return s.backend.ExchangeCodeForSession(ctx, code, codeVerifier)
}

func (s *authService) UpdatePassword(ctx context.Context, accessToken, password string) (*backend.User, error) {
	user, err := s.backend.UpdatePassword(ctx, accessToken, password)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Password updated", zap.String("user_id", user.ID))
	return user, nil
}

func (s *authService) CurrentUser(ctx context.Context, accessToken string) (*backend.User, error) {
	return s.backend.GetUser(ctx, accessToken)
}
