// Package session holds the explicit session object shared by the client and
// the domain services. The lifecycle is anonymous → authenticated →
// anonymous; nothing reads ambient global state.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/mknopf/vitrine/internal/folio"
)

// Session carries the bearer token and the resolved user identity. A token
// without a user is "configured but unresolved": requests go out
// authenticated, but capability checks (admin, like toggles) treat the
// session as anonymous until /api/me confirms who the token belongs to.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *folio.User
}

// New returns an anonymous session.
func New() *Session {
	return &Session{}
}

// NewWithToken returns an unresolved session carrying token.
func NewWithToken(token string) *Session {
	return &Session{token: token}
}

// Token returns the bearer token, empty when anonymous. Implements
// folio.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the resolved identity.
func (s *Session) User() (folio.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return folio.User{}, false
	}
	return *s.user, true
}

// Authenticated reports whether the session holds a token with a resolved
// user.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// IsAdmin reports whether the resolved user carries the admin role.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin()
}

// Authenticate promotes the session to authenticated.
func (s *Session) Authenticate(token string, user folio.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
}

// Clear returns the session to anonymous.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// Resolve asks the backend who the configured token belongs to and promotes
// the session on success. A 401 means the token is dead: the session drops
// it and goes anonymous, which the caller treats as "logged out".
func (s *Session) Resolve(ctx context.Context, client *folio.Client) error {
	token := s.Token()
	if token == "" {
		return nil
	}
	user, err := client.FetchMe(ctx)
	if err != nil {
		if folio.IsUnauthorized(err) {
			s.Clear()
		}
		return fmt.Errorf("resolve session: %w", err)
	}
	s.Authenticate(token, user)
	return nil
}
