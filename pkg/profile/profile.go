// Package profile manages the user's server-owned profile row:
// email, wallet balance, loyalty points and default address. Writes go
// through the backend's merge-on-conflict upsert keyed by id.
package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/quickbite/pkg/api"
	"github.com/example/quickbite/pkg/models"
	"github.com/example/quickbite/pkg/session"
	"go.uber.org/zap"
)

type Service struct {
	api     *api.Client
	session *session.Manager
	logger  *zap.Logger
}

func NewService(apiClient *api.Client, sess *session.Manager, logger *zap.Logger) *Service {
	return &Service{
		api:     apiClient,
		session: sess,
		logger:  logger,
	}
}

// Get fetches the current user's profile row.
func (s *Service) Get(ctx context.Context) (*models.UserRow, error) {
	uid := s.session.UserID()
	if uid == "" {
		return nil, fmt.Errorf("not logged in")
	}
	return s.api.GetUser(ctx, uid)
}

// Save upserts the profile row, forcing the id to the session's user.
func (s *Service) Save(ctx context.Context, row models.UserRow) (*models.UserRow, error) {
	uid := s.session.UserID()
	if uid == "" {
		return nil, fmt.Errorf("not logged in")
	}
	if strings.TrimSpace(row.Email) == "" {
		return nil, fmt.Errorf("email is required")
	}
	row.ID = uid

	rows, err := s.api.UpsertUsers(ctx, []models.UserRow{row})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &row, nil
	}
	return &rows[0], nil
}

// EnsureRow upserts a minimal profile row after login so order rows
// have a user to reference. Failure is logged, not surfaced; the next
// profile write repairs it.
func (s *Service) EnsureRow(ctx context.Context, email string) {
	uid := s.session.UserID()
	if uid == "" {
		return
	}
	_, err := s.api.UpsertUsers(ctx, []models.UserRow{{ID: uid, Email: email}})
	if err != nil {
		s.logger.Warn("Failed to ensure profile row",
			zap.String("user_id", uid), zap.Error(err))
	}
}
