package folio

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is the server-assigned integer identity shared by all folio resources.
// Some backend serializers emit ids as JSON numbers and others as numeric
// strings; ID accepts both on decode so the rest of the client only ever
// compares integers.
type ID int64

// UnmarshalJSON accepts a JSON number or a numeric string.
func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("parse id %q: %w", string(data), err)
	}
	*id = ID(n)
	return nil
}

// Status enumerates the lifecycle states a project can be in.
type Status string

const (
	StatusCompleted  Status = "COMPLETED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusAbandoned  Status = "ABANDONED"
)

// Statuses lists the known statuses in display order.
func Statuses() []Status {
	return []Status{StatusCompleted, StatusInProgress, StatusAbandoned}
}

// Known reports whether s is one of the defined statuses.
func (s Status) Known() bool {
	switch s {
	case StatusCompleted, StatusInProgress, StatusAbandoned:
		return true
	}
	return false
}

// Project mirrors a portfolio project as returned by the folio API.
// Categories and Images keep server order; image order is display order.
type Project struct {
	ID               ID        `json:"id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"shortDescription"`
	Description      string    `json:"description"`
	Status           Status    `json:"status"`
	Categories       []string  `json:"categories"`
	Images           []string  `json:"images"`
	GithubURL        string    `json:"githubUrl,omitempty"`
	WebsiteURL       string    `json:"websiteUrl,omitempty"`
	Likes            int       `json:"likes"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// normalize repairs fields the backend may omit or mangle. Likes defaults to
// zero and never goes negative.
func (p *Project) normalize() {
	if p.Likes < 0 {
		p.Likes = 0
	}
}

// HasCategory reports whether the project carries the given category.
func (p Project) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ProjectDraft carries the writable fields for project create/update calls.
// The server assigns id, likes, and timestamps.
type ProjectDraft struct {
	Title            string   `json:"title"`
	ShortDescription string   `json:"shortDescription"`
	Description      string   `json:"description"`
	Status           Status   `json:"status"`
	Categories       []string `json:"categories"`
	GithubURL        string   `json:"githubUrl,omitempty"`
	WebsiteURL       string   `json:"websiteUrl,omitempty"`
}

// Bookmark is a per-user like marker. The project relation is resolved
// server-side, so the full project rides along rather than a bare id.
type Bookmark struct {
	ID        ID        `json:"id"`
	Project   Project   `json:"project"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookmarkToggle is the response to adding or removing a bookmark. TotalLikes
// is the server's authoritative like count for the affected project after the
// mutation.
type BookmarkToggle struct {
	Action     string     `json:"action"`
	Project    ProjectRef `json:"project"`
	TotalLikes int        `json:"totalLikes"`
}

// ProjectRef is a bare project reference inside toggle responses.
type ProjectRef struct {
	ID ID `json:"id"`
}

// RoleAdmin gates the admin capabilities (project CRUD, image management).
const RoleAdmin = "ROLE_ADMIN"

// User mirrors the session identity returned by /api/me.
type User struct {
	ID        ID       `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// DisplayName returns "First Last", falling back to the email address.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// imageListResponse mirrors the payload of the image management endpoints.
type imageListResponse struct {
	Images []string `json:"images"`
}

// deleteResponse mirrors DELETE /api/projects/{id}.
type deleteResponse struct {
	ID ID `json:"id"`
}

var _ json.Unmarshaler = (*ID)(nil)
