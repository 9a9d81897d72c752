package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mknopf/vitrine/internal/folio"
	"github.com/mknopf/vitrine/internal/session"
)

func newClient(t *testing.T, handler http.Handler, tokens folio.TokenSource) *folio.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := folio.NewClient(folio.Options{
		BaseURL:    server.URL,
		Retries:    0,
		RetryDelay: time.Millisecond,
		Tokens:     tokens,
	})
	require.NoError(t, err)
	return client
}

func TestSession_Lifecycle(t *testing.T) {
	s := session.New()
	require.False(t, s.Authenticated())
	require.Empty(t, s.Token())
	_, ok := s.User()
	require.False(t, ok)

	s.Authenticate("tok", folio.User{ID: 1, Email: "a@b.c", Roles: []string{folio.RoleAdmin}})
	require.True(t, s.Authenticated())
	require.True(t, s.IsAdmin())
	require.Equal(t, "tok", s.Token())

	s.Clear()
	require.False(t, s.Authenticated())
	require.False(t, s.IsAdmin())
	require.Empty(t, s.Token())
}

func TestSession_UnresolvedTokenIsNotAuthenticated(t *testing.T) {
	s := session.NewWithToken("tok")
	require.Equal(t, "tok", s.Token(), "token still flows onto requests")
	require.False(t, s.Authenticated(), "no resolved user yet")
}

func TestSession_ResolvePromotes(t *testing.T) {
	s := session.NewWithToken("tok")
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(folio.User{ID: 4, Email: "me@example.com"})
	}), s)

	require.NoError(t, s.Resolve(context.Background(), client))
	require.True(t, s.Authenticated())
	user, ok := s.User()
	require.True(t, ok)
	require.Equal(t, folio.ID(4), user.ID)
}

func TestSession_ResolveUnauthorizedClearsToken(t *testing.T) {
	s := session.NewWithToken("expired")
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"token expired"}`, http.StatusUnauthorized)
	}), s)

	err := s.Resolve(context.Background(), client)
	require.Error(t, err)
	require.True(t, folio.IsUnauthorized(err))
	require.Empty(t, s.Token(), "dead token should be dropped")
	require.False(t, s.Authenticated())
}

func TestSession_ResolveWithoutTokenIsNoOp(t *testing.T) {
	s := session.New()
	require.NoError(t, s.Resolve(context.Background(), nil))
	require.False(t, s.Authenticated())
}
