// Package auth orchestrates the sign-in, sign-up and recovery flows
// on top of the facade's auth endpoints and the session manager.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/quickbite/pkg/api"
	"github.com/example/quickbite/pkg/profile"
	"github.com/example/quickbite/pkg/session"
	"go.uber.org/zap"
)

type Service struct {
	api     *api.Client
	session *session.Manager
	profile *profile.Service
	logger  *zap.Logger
}

func NewService(apiClient *api.Client, sess *session.Manager, prof *profile.Service, logger *zap.Logger) *Service {
	return &Service{
		api:     apiClient,
		session: sess,
		profile: prof,
		logger:  logger,
	}
}

// SignIn opens a session from email and password and makes sure the
// profile row exists so order rows have a user to reference.
func (s *Service) SignIn(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}

	res, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		return errors.New(api.FriendlyAuthMessage(err))
	}
	if res.AccessToken == "" {
		return fmt.Errorf("sign in returned no session")
	}

	s.session.SetSession(ctx, res.AccessToken)
	s.profile.EnsureRow(ctx, email)
	s.logger.Info("Signed in", zap.String("user_id", s.session.UserID()))
	return nil
}

// SignUp creates an account, trying a sign-in first in case the
// account already exists; that avoids a duplicate-account round trip
// for returning users.
func (s *Service) SignUp(ctx context.Context, email, password string) error {
	if err := s.SignIn(ctx, email, password); err == nil {
		return nil
	}

	res, err := s.api.SignUp(ctx, email, password)
	if err != nil {
		return errors.New(api.FriendlyAuthMessage(err))
	}
	if res.AccessToken == "" {
		// Signup accepted but no session opened; confirmation pending.
		s.logger.Info("Signup accepted, awaiting confirmation", zap.String("email", email))
		return nil
	}

	s.session.SetSession(ctx, res.AccessToken)
	s.profile.EnsureRow(ctx, email)
	s.logger.Info("Signed up", zap.String("user_id", s.session.UserID()))
	return nil
}

// Recover requests a password-recovery email.
func (s *Service) Recover(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	if err := s.api.Recover(ctx, email); err != nil {
		return errors.New(api.FriendlyAuthMessage(err))
	}
	return nil
}

// SignOut clears the session.
func (s *Service) SignOut(ctx context.Context) {
	s.session.Clear(ctx)
}
