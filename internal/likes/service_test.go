package likes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mknopf/vitrine/internal/folio"
	"github.com/mknopf/vitrine/internal/likes"
	"github.com/mknopf/vitrine/internal/session"
	"github.com/mknopf/vitrine/internal/state"
)

// fakeBackend is an in-memory folio API: projects with like counters and one
// user's bookmarks.
type fakeBackend struct {
	mu        sync.Mutex
	projects  map[folio.ID]folio.Project
	bookmarks map[folio.ID]folio.ID // bookmark id -> project id
	nextID    folio.ID
	failNext  bool
	gate      chan struct{} // when set, mutations block until it closes

	projectGate     chan struct{} // when set, project GETs block until it closes
	projectGateOnce sync.Once
	projectGateHit  chan struct{}
}

func newFakeBackend(projects ...folio.Project) *fakeBackend {
	b := &fakeBackend{
		projects:  make(map[folio.ID]folio.Project),
		bookmarks: make(map[folio.ID]folio.ID),
		nextID:    100,
	}
	for _, p := range projects {
		b.projects[p.ID] = p
	}
	return b
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/projects":
		if b.projectGate != nil {
			b.projectGateOnce.Do(func() { close(b.projectGateHit) })
			<-b.projectGate
		}
		b.mu.Lock()
		var items []folio.Project
		for _, p := range b.projects {
			items = append(items, p)
		}
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(items)

	case r.Method == http.MethodGet && r.URL.Path == "/api/bookmarks":
		b.mu.Lock()
		items := []folio.Bookmark{}
		for bmID, pID := range b.bookmarks {
			items = append(items, folio.Bookmark{ID: bmID, Project: b.projects[pID]})
		}
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(items)

	case r.Method == http.MethodPost && r.URL.Path == "/api/bookmarks":
		if b.gate != nil {
			<-b.gate
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failNext {
			b.failNext = false
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
			return
		}
		var req struct {
			ProjectID folio.ID `json:"projectId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		p := b.projects[req.ProjectID]
		p.Likes++
		b.projects[req.ProjectID] = p
		b.nextID++
		b.bookmarks[b.nextID] = req.ProjectID
		_ = json.NewEncoder(w).Encode(folio.BookmarkToggle{
			Action:     "added",
			Project:    folio.ProjectRef{ID: req.ProjectID},
			TotalLikes: p.Likes,
		})

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/bookmarks/"):
		b.mu.Lock()
		defer b.mu.Unlock()
		raw := strings.TrimPrefix(r.URL.Path, "/api/bookmarks/")
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, `{"error":"bad id"}`, http.StatusBadRequest)
			return
		}
		bmID := folio.ID(n)
		pID, ok := b.bookmarks[bmID]
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		delete(b.bookmarks, bmID)
		p := b.projects[pID]
		p.Likes--
		b.projects[pID] = p
		_ = json.NewEncoder(w).Encode(folio.BookmarkToggle{
			Action:     "removed",
			Project:    folio.ProjectRef{ID: pID},
			TotalLikes: p.Likes,
		})

	default:
		http.NotFound(w, r)
	}
}

func (b *fakeBackend) setLikes(id folio.ID, likes int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.projects[id]
	p.Likes = likes
	b.projects[id] = p
}

type harness struct {
	backend   *fakeBackend
	service   *likes.Service
	projects  *state.Projects
	bookmarks *state.Bookmarks
	session   *session.Session
}

func newHarness(t *testing.T, backend *fakeBackend) *harness {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	sess := session.New()
	sess.Authenticate("tok", folio.User{ID: 1, Email: "me@example.com"})

	client, err := folio.NewClient(folio.Options{
		BaseURL:    server.URL,
		Retries:    0,
		RetryDelay: time.Millisecond,
		Tokens:     sess,
	})
	require.NoError(t, err)

	projects := state.NewProjects(client)
	bookmarks := state.NewBookmarks(client)
	require.NoError(t, projects.Refresh(context.Background(), true))
	require.NoError(t, bookmarks.Refresh(context.Background(), true))

	return &harness{
		backend:   backend,
		service:   likes.NewService(client, projects, bookmarks, sess, nil),
		projects:  projects,
		bookmarks: bookmarks,
		session:   sess,
	}
}

func TestToggle_RoundTrip(t *testing.T) {
	h := newHarness(t, newFakeBackend(folio.Project{ID: 1, Title: "Alpha", Likes: 3}))

	res, err := h.service.Toggle(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, likes.ActionAdded, res.Action)
	require.Equal(t, 4, res.TotalLikes)

	require.True(t, h.bookmarks.Liked(1), "bookmark should exist after liking")
	p, ok := h.projects.Find(1)
	require.True(t, ok)
	require.Equal(t, 4, p.Likes, "refetched count should be server value + 1")

	// Second toggle removes the bookmark and restores the prior count.
	res, err = h.service.Toggle(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, likes.ActionRemoved, res.Action)
	require.Equal(t, 3, res.TotalLikes)

	require.False(t, h.bookmarks.Liked(1))
	p, _ = h.projects.Find(1)
	require.Equal(t, 3, p.Likes)
}

func TestToggle_RequiresAuthentication(t *testing.T) {
	h := newHarness(t, newFakeBackend(folio.Project{ID: 1, Likes: 0}))
	h.session.Clear()

	_, err := h.service.Toggle(context.Background(), 1)
	require.ErrorIs(t, err, likes.ErrAuthRequired)
	require.False(t, h.bookmarks.Liked(1))
}

func TestToggle_MutationFailureLeavesStateAlone(t *testing.T) {
	backend := newFakeBackend(folio.Project{ID: 1, Likes: 3})
	h := newHarness(t, backend)
	backend.failNext = true

	_, err := h.service.Toggle(context.Background(), 1)
	require.Error(t, err)

	require.False(t, h.bookmarks.Liked(1), "liked predicate unchanged after failure")
	p, _ := h.projects.Find(1)
	require.Equal(t, 3, p.Likes, "no local mutation on failure")
	require.False(t, h.service.InFlight(1), "guard must be released")
}

func TestToggle_RefetchWinsOverLocalPatch(t *testing.T) {
	backend := newFakeBackend(folio.Project{ID: 1, Likes: 3})
	h := newHarness(t, backend)

	// Another client moves the counter between our mutation and the project
	// refetch. The toggle patches 4 locally, then the refetch reads 42; the
	// refetched value must win.
	backend.projectGate = make(chan struct{})
	backend.projectGateHit = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := h.service.Toggle(context.Background(), 1)
		done <- err
	}()

	<-backend.projectGateHit // toggle + bookmark refresh done, project refetch pending
	p, _ := h.projects.Find(1)
	require.Equal(t, 4, p.Likes, "provisional patch should be visible before the refetch")

	backend.setLikes(1, 42)
	close(backend.projectGate)
	require.NoError(t, <-done)

	p, _ = h.projects.Find(1)
	require.Equal(t, 42, p.Likes, "refetched server value wins over the provisional patch")
}

func TestToggle_InFlightGuard(t *testing.T) {
	backend := newFakeBackend(folio.Project{ID: 1, Likes: 0})
	h := newHarness(t, backend)
	backend.gate = make(chan struct{})

	first := make(chan error, 1)
	go func() {
		_, err := h.service.Toggle(context.Background(), 1)
		first <- err
	}()

	// Wait for the first toggle to take the slot.
	require.Eventually(t, func() bool { return h.service.InFlight(1) },
		2*time.Second, time.Millisecond)

	_, err := h.service.Toggle(context.Background(), 1)
	require.ErrorIs(t, err, likes.ErrToggleInFlight)

	close(backend.gate)
	require.NoError(t, <-first)
	require.False(t, h.service.InFlight(1))
}
