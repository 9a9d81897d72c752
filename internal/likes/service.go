// Package likes implements the like/bookmark reconciliation protocol: the
// sequence that keeps the independently fetched project and bookmark
// collections consistent after a like or unlike.
package likes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mknopf/vitrine/internal/folio"
	"github.com/mknopf/vitrine/internal/session"
	"github.com/mknopf/vitrine/internal/state"
)

var (
	// ErrAuthRequired means the toggle was attempted without an
	// authenticated session. No network call was made.
	ErrAuthRequired = errors.New("authentication required")
	// ErrToggleInFlight means a toggle for the same project has not finished
	// yet.
	ErrToggleInFlight = errors.New("like toggle already in progress")
)

// Action tags which direction a toggle went.
type Action string

const (
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

// Result reports a completed toggle. TotalLikes is the server's
// authoritative count at mutation time; the refetches that follow may move
// it again, and the refetched value wins.
type Result struct {
	Action     Action
	ProjectID  folio.ID
	TotalLikes int
}

// Service coordinates like toggles across the two collection stores.
type Service struct {
	client    *folio.Client
	projects  *state.Projects
	bookmarks *state.Bookmarks
	session   *session.Session
	logger    *slog.Logger

	mu       sync.Mutex
	inFlight map[folio.ID]struct{}
}

// NewService builds the reconciliation service.
func NewService(client *folio.Client, projects *state.Projects, bookmarks *state.Bookmarks, sess *session.Session, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		client:    client,
		projects:  projects,
		bookmarks: bookmarks,
		session:   sess,
		logger:    logger,
		inFlight:  make(map[folio.ID]struct{}),
	}
}

// InFlight reports whether a toggle for projectID is currently running.
func (s *Service) InFlight(projectID folio.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[projectID]
	return ok
}

// Toggle likes or unlikes a project. The steps run strictly in order: find
// the existing bookmark, issue the add or remove, patch the local like
// counter with the server total, then refetch bookmarks and projects so any
// concurrent mutation elsewhere is picked up. On a failed mutation nothing
// local changes and the liked state stays as it was.
//
// Only one toggle per project runs at a time from this client; overlapping
// calls get ErrToggleInFlight. That does not serialize against other
// sessions; the trailing refetches are what eventually correct any
// staleness they cause.
func (s *Service) Toggle(ctx context.Context, projectID folio.ID) (Result, error) {
	if !s.session.Authenticated() {
		return Result{}, ErrAuthRequired
	}
	if !s.acquire(projectID) {
		return Result{}, ErrToggleInFlight
	}
	defer s.release(projectID)

	var (
		toggle folio.BookmarkToggle
		action Action
		err    error
	)
	if bookmark, ok := s.bookmarks.BookmarkFor(projectID); ok {
		toggle, err = s.client.RemoveBookmark(ctx, bookmark.ID)
		action = ActionRemoved
	} else {
		toggle, err = s.client.AddBookmark(ctx, projectID)
		action = ActionAdded
	}
	if err != nil {
		s.logger.Warn("like toggle failed", "project", projectID, "action", action, "error", err)
		return Result{}, fmt.Errorf("toggle like for project %d: %w", projectID, err)
	}

	// Provisional count for immediate feedback; the refetches below replace
	// it with whatever the server says now.
	s.projects.PatchLikes(projectID, toggle.TotalLikes)

	if err := s.bookmarks.Refresh(ctx, true); err != nil {
		s.logger.Warn("bookmark refresh after toggle failed", "project", projectID, "error", err)
	}
	if err := s.projects.Refresh(ctx, true); err != nil {
		s.logger.Warn("project refresh after toggle failed", "project", projectID, "error", err)
	}

	s.logger.Debug("like toggle reconciled", "project", projectID, "action", action, "likes", toggle.TotalLikes)
	return Result{Action: action, ProjectID: projectID, TotalLikes: toggle.TotalLikes}, nil
}

func (s *Service) acquire(projectID folio.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inFlight[projectID]; ok {
		return false
	}
	s.inFlight[projectID] = struct{}{}
	return true
}

func (s *Service) release(projectID folio.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, projectID)
}
