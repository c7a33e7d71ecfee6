// Package session holds the process-wide authentication session: the
// bearer token and the user identifier derived from it. The token is
// persisted to the key-value store; the identifier is re-derived on
// restore, never stored.
package session

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// TokenStore persists the bearer token across restarts.
type TokenStore interface {
	SaveToken(ctx context.Context, token string) error
	LoadToken(ctx context.Context) (string, error)
	DeleteToken(ctx context.Context) error
}

// Manager owns a single active session. Construct one instance and
// inject it; both fields are only ever written together under the
// lock, so a reader can never observe a token without its derived id.
type Manager struct {
	mu     sync.RWMutex
	token  string
	userID string
	store  TokenStore
	logger *zap.Logger
}

func NewManager(store TokenStore, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
	}
}

// SetSession stores the token, derives the user id from its payload
// and persists the token. A malformed token still opens a session, but
// with an empty user id, which keeps IsLoggedIn false.
func (m *Manager) SetSession(ctx context.Context, token string) {
	userID := DecodeUserID(token)

	m.mu.Lock()
	m.token = token
	m.userID = userID
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.SaveToken(ctx, token); err != nil {
			m.logger.Warn("Failed to persist session token", zap.Error(err))
		}
	}

	if userID == "" {
		m.logger.Warn("Session token carries no subject claim")
	} else {
		m.logger.Info("Session set", zap.String("user_id", userID))
	}
}

// Clear removes both fields and the persisted token.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	m.token = ""
	m.userID = ""
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.DeleteToken(ctx); err != nil {
			m.logger.Warn("Failed to delete persisted token", zap.Error(err))
		}
	}
	m.logger.Info("Session cleared")
}

// Restore reloads the persisted token, if any, and re-derives the user
// id. Called once at startup.
func (m *Manager) Restore(ctx context.Context) {
	if m.store == nil {
		return
	}
	token, err := m.store.LoadToken(ctx)
	if err != nil || token == "" {
		m.logger.Debug("No saved session to restore")
		return
	}
	m.SetSession(ctx, token)
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userID
}

// Snapshot returns both fields as one consistent pair.
func (m *Manager) Snapshot() (token, userID string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.userID
}

// IsLoggedIn is true iff both the token and the derived id are present.
func (m *Manager) IsLoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != "" && m.userID != ""
}

// DecodeUserID extracts the "sub" claim from a JWT's payload segment.
// No signature verification; malformed input yields "" rather than an
// error.
func DecodeUserID(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return ""
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return ""
	}
	sub := gjson.GetBytes(payload, "sub")
	if !sub.Exists() {
		return ""
	}
	return sub.String()
}
