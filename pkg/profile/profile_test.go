package profile

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/quickbite/pkg/api"
	"github.com/example/quickbite/pkg/config"
	"github.com/example/quickbite/pkg/models"
	"github.com/example/quickbite/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T, handler http.Handler, userID string) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sess := session.NewManager(nil, zap.NewNop())
	if userID != "" {
		sess.SetSession(context.Background(), sessionToken(userID))
	}
	apiClient, err := api.NewClient(&config.SupabaseConfig{
		ProjectURL: server.URL, AnonKey: "anon", Timeout: 5 * time.Second,
	}, sess, zap.NewNop())
	require.NoError(t, err)

	return NewService(apiClient, sess, zap.NewNop())
}

func sessionToken(sub string) string {
	// header.payload.signature with only the payload populated; the
	// decoder ignores the other segments.
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"` + sub + `"}`))
	return "e30." + payload + ".sig"
}

func TestGetFetchesByUserID(t *testing.T) {
	balance := 50.0
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/users", r.URL.Path)
		assert.Equal(t, "eq.u1", r.URL.Query().Get("id"))
		json.NewEncoder(w).Encode([]models.UserRow{{ID: "u1", Email: "a@b.c", WalletBalance: &balance}})
	}), "u1")

	row, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", row.Email)
	require.NotNil(t, row.WalletBalance)
	assert.Equal(t, 50.0, *row.WalletBalance)
}

func TestGetRequiresSession(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network expected")
	}), "")

	_, err := svc.Get(context.Background())
	assert.Error(t, err)
}

func TestSaveForcesSessionID(t *testing.T) {
	var sent []models.UserRow
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		json.NewEncoder(w).Encode(sent)
	}), "u1")

	row, err := svc.Save(context.Background(), models.UserRow{
		ID:    "someone-else",
		Email: "a@b.c",
	})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "u1", sent[0].ID)
	assert.Equal(t, "u1", row.ID)
}

func TestSaveRejectsBlankEmail(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network expected")
	}), "u1")

	_, err := svc.Save(context.Background(), models.UserRow{Email: "   "})
	assert.Error(t, err)
}

func TestEnsureRowSwallowsFailure(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), "u1")

	// Must not panic or propagate; the next profile write repairs it.
	svc.EnsureRow(context.Background(), "a@b.c")
}

func TestEnsureRowNoSessionIsNoOp(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network expected")
	}), "")

	svc.EnsureRow(context.Background(), "a@b.c")
}
