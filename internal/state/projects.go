package state

import (
	"context"
	"io"

	"github.com/mknopf/vitrine/internal/folio"
)

// Projects binds the project collection to the folio client. Every refresh
// replaces the whole list; mutations apply the confirmed server entity and
// never touch local state on failure.
type Projects struct {
	Collection[folio.Project]
	client *folio.Client
}

// NewProjects builds an empty project store backed by client.
func NewProjects(client *folio.Client) *Projects {
	return &Projects{
		Collection: Collection[folio.Project]{id: func(p folio.Project) folio.ID { return p.ID }},
		client:     client,
	}
}

// Refresh replaces items with the server state. force bypasses the client
// cache.
func (p *Projects) Refresh(ctx context.Context, force bool) error {
	p.begin()
	items, err := p.client.FetchProjects(ctx, force)
	if err != nil {
		p.finishErr(err)
		return err
	}
	p.finishReplace(items)
	return nil
}

// Create issues a create request and appends the server copy on success.
func (p *Projects) Create(ctx context.Context, draft folio.ProjectDraft) (folio.Project, error) {
	created, err := p.client.CreateProject(ctx, draft)
	if err != nil {
		p.setErr(err)
		return folio.Project{}, err
	}
	p.Append(created)
	return created, nil
}

// Update issues an update request and replaces the matching item with the
// server copy. A missing local match leaves items alone; the server-side
// update still happened.
func (p *Projects) Update(ctx context.Context, id folio.ID, draft folio.ProjectDraft) (folio.Project, error) {
	updated, err := p.client.UpdateProject(ctx, id, draft)
	if err != nil {
		p.setErr(err)
		return folio.Project{}, err
	}
	p.ReplaceByID(updated)
	return updated, nil
}

// Remove issues a delete request and drops the matching item on success.
func (p *Projects) Remove(ctx context.Context, id folio.ID) error {
	deleted, err := p.client.DeleteProject(ctx, id)
	if err != nil {
		p.setErr(err)
		return err
	}
	p.RemoveByID(deleted)
	return nil
}

// UploadImage appends an image to a project's gallery and installs the
// server-returned list, preserving display order.
func (p *Projects) UploadImage(ctx context.Context, id folio.ID, filename string, image io.Reader) error {
	images, err := p.client.UploadProjectImage(ctx, id, filename, image)
	if err != nil {
		p.setErr(err)
		return err
	}
	p.setImages(id, images)
	return nil
}

// RemoveImage deletes the image at the given display index and installs the
// remaining list.
func (p *Projects) RemoveImage(ctx context.Context, id folio.ID, index int) error {
	images, err := p.client.DeleteProjectImage(ctx, id, index)
	if err != nil {
		p.setErr(err)
		return err
	}
	p.setImages(id, images)
	return nil
}

// PatchLikes sets a project's like counter locally. Provisional display value
// only; the next refresh replaces it with the server's.
func (p *Projects) PatchLikes(id folio.ID, likes int) bool {
	if likes < 0 {
		likes = 0
	}
	return p.Patch(id, func(pr *folio.Project) { pr.Likes = likes })
}

func (p *Projects) setImages(id folio.ID, images []string) {
	p.Patch(id, func(pr *folio.Project) { pr.Images = images })
}
