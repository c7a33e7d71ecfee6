package session

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func makeToken(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return header + "." + body + ".signature"
}

func TestDecodeUserID(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"well-formed", makeToken(`{"sub":"abc-123"}`), "abc-123"},
		{"sub among other claims", makeToken(`{"exp":123,"sub":"u-9","iss":"auth"}`), "u-9"},
		{"no sub claim", makeToken(`{"exp":123}`), ""},
		{"two segments", "header.payload", ""},
		{"one segment", "garbage", ""},
		{"empty", "", ""},
		{"payload not base64", "a.!!!.c", ""},
		{"payload not json", makeToken("not json"), ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, DecodeUserID(testCase.token))
		})
	}
}

type fakeStore struct {
	token   string
	saveErr error
}

func (f *fakeStore) SaveToken(_ context.Context, token string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.token = token
	return nil
}

func (f *fakeStore) LoadToken(_ context.Context) (string, error) {
	return f.token, nil
}

func (f *fakeStore) DeleteToken(_ context.Context) error {
	f.token = ""
	return nil
}

func TestManagerSetSession(t *testing.T) {
	store := &fakeStore{}
	m := NewManager(store, zap.NewNop())
	ctx := context.Background()

	token := makeToken(`{"sub":"user-1"}`)
	m.SetSession(ctx, token)

	assert.Equal(t, token, m.Token())
	assert.Equal(t, "user-1", m.UserID())
	assert.True(t, m.IsLoggedIn())
	assert.Equal(t, token, store.token, "token should be persisted")

	gotToken, gotUID := m.Snapshot()
	assert.Equal(t, token, gotToken)
	assert.Equal(t, "user-1", gotUID)
}

func TestManagerMalformedTokenIsNotLoggedIn(t *testing.T) {
	m := NewManager(&fakeStore{}, zap.NewNop())
	m.SetSession(context.Background(), "not-a-jwt")

	assert.Equal(t, "not-a-jwt", m.Token())
	assert.Empty(t, m.UserID())
	assert.False(t, m.IsLoggedIn())
}

func TestManagerClear(t *testing.T) {
	store := &fakeStore{}
	m := NewManager(store, zap.NewNop())
	ctx := context.Background()

	m.SetSession(ctx, makeToken(`{"sub":"user-1"}`))
	m.Clear(ctx)

	assert.Empty(t, m.Token())
	assert.Empty(t, m.UserID())
	assert.False(t, m.IsLoggedIn())
	assert.Empty(t, store.token)
}

func TestManagerRestore(t *testing.T) {
	token := makeToken(`{"sub":"restored-user"}`)
	store := &fakeStore{token: token}
	m := NewManager(store, zap.NewNop())

	m.Restore(context.Background())

	assert.Equal(t, token, m.Token())
	assert.Equal(t, "restored-user", m.UserID())
	assert.True(t, m.IsLoggedIn())
}

func TestManagerRestoreNothingSaved(t *testing.T) {
	m := NewManager(&fakeStore{}, zap.NewNop())
	m.Restore(context.Background())
	assert.False(t, m.IsLoggedIn())
}

func TestManagerPersistFailureStillSetsSession(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	m := NewManager(store, zap.NewNop())

	m.SetSession(context.Background(), makeToken(`{"sub":"user-1"}`))

	assert.True(t, m.IsLoggedIn())
}
