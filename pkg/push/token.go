package push

import (
	"context"

	"github.com/example/quickbite/pkg/api"
	"github.com/example/quickbite/pkg/models"
	"github.com/example/quickbite/pkg/session"
	"go.uber.org/zap"
)

// TokenManager stores the client's push token on the user's profile
// row so the backend can address push messages to this device.
type TokenManager struct {
	api     *api.Client
	session *session.Manager
	logger  *zap.Logger
}

func NewTokenManager(apiClient *api.Client, sess *session.Manager, logger *zap.Logger) *TokenManager {
	return &TokenManager{
		api:     apiClient,
		session: sess,
		logger:  logger,
	}
}

// Register upserts the token onto the profile row. The current row is
// read first so the merge preserves wallet, points and address fields.
// Without a session this is a logged no-op.
func (t *TokenManager) Register(ctx context.Context, token string) error {
	uid := t.session.UserID()
	if uid == "" {
		t.logger.Debug("Not logged in, skipping push token registration")
		return nil
	}

	row := models.UserRow{ID: uid, PushToken: &token}
	current, err := t.api.GetUser(ctx, uid)
	if err == nil {
		row.Email = current.Email
		row.WalletBalance = current.WalletBalance
		row.Points = current.Points
		row.DefaultAddress = current.DefaultAddress
	} else if err != api.ErrNotFound {
		t.logger.Warn("Failed to read profile before token registration", zap.Error(err))
	}

	if _, err := t.api.UpsertUsers(ctx, []models.UserRow{row}); err != nil {
		t.logger.Error("Failed to store push token", zap.Error(err))
		return err
	}
	t.logger.Info("Push token stored", zap.String("user_id", uid))
	return nil
}
