package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mknopf/vitrine/internal/folio"
	"github.com/mknopf/vitrine/internal/session"
	"github.com/mknopf/vitrine/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	base := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{name: "no failures", failures: 0, want: 30 * time.Second},
		{name: "negative failures", failures: -1, want: 30 * time.Second},
		{name: "one failure", failures: 1, want: 60 * time.Second},
		{name: "two failures", failures: 2, want: 120 * time.Second},
		{name: "three failures", failures: 3, want: 240 * time.Second},
		{name: "caps at max", failures: 4, want: maxBackoff},
		{name: "stays capped", failures: 10, want: maxBackoff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, base)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d) = %v, want %v", tt.failures, got, tt.want)
			}
		})
	}
}

func TestPollerPopulatesProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "title": "Vitrine", "likes": 2}]`))
	}))
	defer srv.Close()

	client, err := folio.NewClient(folio.Options{BaseURL: srv.URL, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	projects := state.NewProjects(client)
	bookmarks := state.NewBookmarks(client)
	sess := session.New() // anonymous, bookmarks never polled

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartPoller(ctx, projects, bookmarks, sess, 5*time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := projects.Snapshot()
		if snap.Loaded {
			if len(snap.Items) != 1 || snap.Items[0].Title != "Vitrine" {
				t.Fatalf("unexpected snapshot items: %+v", snap.Items)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("poller never populated the project store")
		}
		time.Sleep(2 * time.Millisecond)
	}

	if bookmarks.Snapshot().Loaded {
		t.Error("bookmarks refreshed while anonymous")
	}
}
