package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/quickbite/pkg/config"
	"github.com/example/quickbite/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Token() string { return s.token }

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.SupabaseConfig{
		ProjectURL: server.URL,
		AnonKey:    "anon-key",
		Timeout:    5 * time.Second,
	}, tokens, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestHeadersWithoutSession(t *testing.T) {
	var got http.Header
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("[]"))
	})
	client := newTestClient(t, handler, staticTokens{})

	_, err := client.ListRestaurants(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "anon-key", got.Get("apikey"))
	assert.Equal(t, "Bearer anon-key", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestHeadersWithSession(t *testing.T) {
	var got http.Header
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("[]"))
	})
	client := newTestClient(t, handler, staticTokens{token: "session-token"})

	_, err := client.ListRestaurants(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "anon-key", got.Get("apikey"))
	assert.Equal(t, "Bearer session-token", got.Get("Authorization"))
}

func TestListMenuFilter(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/menu", r.URL.Path)
		assert.Equal(t, "eq.r-42", r.URL.Query().Get("restaurant_id"))
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		json.NewEncoder(w).Encode([]models.MenuItem{
			{ID: "m1", RestaurantID: "r-42", Name: "Burger", Price: 50},
		})
	})
	client := newTestClient(t, handler, staticTokens{})

	items, err := client.ListMenu(context.Background(), "r-42")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Burger", items[0].Name)
}

func TestCreateOrderReturnsInsertedRow(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/orders", r.URL.Path)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var body models.OrderCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body.UID)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode([]models.OrderResponse{{
			ID:     "o1",
			UID:    body.UID,
			Items:  body.Items,
			Total:  body.Total,
			Status: "confirmed", // backend may answer lowercase
		}})
	})
	client := newTestClient(t, handler, staticTokens{token: "tok"})

	inserted, err := client.CreateOrder(context.Background(), models.OrderCreate{
		UID:    "u1",
		Items:  []models.OrderItem{{ID: "a", Name: "Burger", Price: 50, Quantity: 1}},
		Total:  70,
		Status: models.StatusConfirmed,
	})
	require.NoError(t, err)
	assert.Equal(t, "o1", inserted.ID)
	assert.Equal(t, models.StatusConfirmed, inserted.Status, "status normalized at the boundary")
}

func TestGetOrderNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})
	client := newTestClient(t, handler, staticTokens{})

	_, err := client.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersByUserQuery(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.u1", r.URL.Query().Get("uid"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		w.Write([]byte("[]"))
	})
	client := newTestClient(t, handler, staticTokens{})

	_, err := client.ListOrdersByUser(context.Background(), "u1")
	assert.NoError(t, err)
}

func TestUpsertUsersMergeHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "id", r.URL.Query().Get("on_conflict"))
		assert.Equal(t, "return=representation,resolution=merge-duplicates", r.Header.Get("Prefer"))
		w.Write([]byte(`[{"id":"u1","email":"a@b.c"}]`))
	})
	client := newTestClient(t, handler, staticTokens{})

	rows, err := client.UpsertUsers(context.Background(), []models.UserRow{{ID: "u1", Email: "a@b.c"}})
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", rows[0].Email)
}

func TestErrorCarriesStatusAndBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"duplicate"}`))
	})
	client := newTestClient(t, handler, staticTokens{})

	_, err := client.CreateOrder(context.Background(), models.OrderCreate{UID: "u1"})
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Contains(t, apiErr.Body, "duplicate")
}

func TestSignInQueryAndBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		var body models.EmailPassword
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body.Email)

		json.NewEncoder(w).Encode(models.SessionResponse{AccessToken: "tok", TokenType: "bearer"})
	})
	client := newTestClient(t, handler, staticTokens{})

	res, err := client.SignIn(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.AccessToken)
}

func TestFriendlyAuthMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "rate limited",
			err:  &Error{Status: http.StatusTooManyRequests, Body: "over_request_rate_limit"},
			want: "Too many attempts. Please wait a moment and try again.",
		},
		{
			name: "duplicate account",
			err:  &Error{Status: http.StatusUnprocessableEntity, Body: `{"msg":"User already registered"}`},
			want: "Email already registered. Please sign in instead.",
		},
		{
			name: "other backend error",
			err:  &Error{Status: http.StatusBadRequest, Body: "invalid login credentials"},
			want: "invalid login credentials",
		},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, FriendlyAuthMessage(testCase.err))
		})
	}
}
