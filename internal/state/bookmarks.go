package state

import (
	"context"

	"github.com/mknopf/vitrine/internal/folio"
)

// Bookmarks binds the session user's bookmark collection to the folio
// client. The like predicate for a project is "a bookmark exists whose
// embedded project id matches".
type Bookmarks struct {
	Collection[folio.Bookmark]
	client *folio.Client
}

// NewBookmarks builds an empty bookmark store backed by client.
func NewBookmarks(client *folio.Client) *Bookmarks {
	return &Bookmarks{
		Collection: Collection[folio.Bookmark]{id: func(b folio.Bookmark) folio.ID { return b.ID }},
		client:     client,
	}
}

// Refresh replaces items with the server state. force bypasses the client
// cache.
func (b *Bookmarks) Refresh(ctx context.Context, force bool) error {
	b.begin()
	items, err := b.client.FetchBookmarks(ctx, force)
	if err != nil {
		b.finishErr(err)
		return err
	}
	b.finishReplace(items)
	return nil
}

// BookmarkFor returns the bookmark whose project matches projectID.
func (b *Bookmarks) BookmarkFor(projectID folio.ID) (folio.Bookmark, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, bm := range b.items {
		if bm.Project.ID == projectID {
			return bm, true
		}
	}
	return folio.Bookmark{}, false
}

// Liked reports whether the session user has bookmarked the project.
func (b *Bookmarks) Liked(projectID folio.ID) bool {
	_, ok := b.BookmarkFor(projectID)
	return ok
}

// Reset drops all bookmarks, used when the session becomes anonymous.
func (b *Bookmarks) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = nil
	b.loading = false
	b.err = nil
	b.loaded = false
	b.failures = 0
}
