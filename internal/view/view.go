// Package view computes the filtered, sorted, paginated projection of a
// project collection for display. Everything here is a pure function: given
// identical inputs the output is identical, nothing is mutated, and nothing
// touches the network. Malformed specifications degrade instead of failing:
// an unknown sort key means no sort, an empty filter field means no filter.
package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mknopf/vitrine/internal/folio"
)

// Filter selects the subset of projects to show. Empty fields pass
// everything. Search is a case-insensitive substring match against title and
// both description fields. OnlyLiked keeps projects the liked predicate
// holds for.
type Filter struct {
	Search    string
	Status    string
	Category  string
	OnlyLiked bool
}

// LikedFunc reports whether the session user has bookmarked a project. A nil
// predicate means nothing is liked.
type LikedFunc func(folio.ID) bool

// Matches reports whether p passes the filter.
func (f Filter) Matches(p folio.Project, liked LikedFunc) bool {
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		haystack := strings.ToLower(p.Title + " " + p.ShortDescription + " " + p.Description)
		if !strings.Contains(haystack, search) {
			return false
		}
	}
	if f.Status != "" && string(p.Status) != f.Status {
		return false
	}
	if f.Category != "" && !p.HasCategory(f.Category) {
		return false
	}
	if f.OnlyLiked {
		if liked == nil || !liked(p.ID) {
			return false
		}
	}
	return true
}

// Sort names a total order over projects.
type Sort string

const (
	SortNone        Sort = ""
	SortTitleAsc    Sort = "title_asc"
	SortTitleDesc   Sort = "title_desc"
	SortLikesAsc    Sort = "likes_asc"
	SortLikesDesc   Sort = "likes_desc"
	SortCreatedAsc  Sort = "created_asc"
	SortCreatedDesc Sort = "created_desc"
)

// Sorts lists the sort keys in UI cycle order.
func Sorts() []Sort {
	return []Sort{SortCreatedDesc, SortCreatedAsc, SortTitleAsc, SortTitleDesc, SortLikesDesc, SortLikesAsc}
}

// Known reports whether s is a defined sort key.
func (s Sort) Known() bool {
	switch s {
	case SortTitleAsc, SortTitleDesc, SortLikesAsc, SortLikesDesc, SortCreatedAsc, SortCreatedDesc:
		return true
	}
	return false
}

// Label returns a short human-readable name for the footer.
func (s Sort) Label() string {
	switch s {
	case SortTitleAsc:
		return "title ↑"
	case SortTitleDesc:
		return "title ↓"
	case SortLikesAsc:
		return "likes ↑"
	case SortLikesDesc:
		return "likes ↓"
	case SortCreatedAsc:
		return "created ↑"
	case SortCreatedDesc:
		return "created ↓"
	}
	return "unsorted"
}

// Page selects one slice of the derived list. Number is 1-based at this
// boundary; a Size of zero or less disables pagination.
type Page struct {
	Number int
	Size   int
}

// TotalPages returns how many pages the derived list spans under size.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Derive returns the projects to render: filtered, stably sorted, then
// sliced to the requested page. The result is a fresh slice; items is never
// reordered or mutated.
func Derive(items []folio.Project, liked LikedFunc, filter Filter, sortKey Sort, page Page) []folio.Project {
	out := make([]folio.Project, 0, len(items))
	for _, p := range items {
		if filter.Matches(p, liked) {
			out = append(out, p)
		}
	}
	sortItems(out, sortKey)
	return paginate(out, page)
}

// sortItems orders items in place. Equal keys keep their relative input
// order. Titles compare case-insensitively through a collator rather than
// byte order.
func sortItems(items []folio.Project, key Sort) {
	switch key {
	case SortTitleAsc, SortTitleDesc:
		c := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(items, func(i, j int) bool {
			cmp := c.CompareString(items[i].Title, items[j].Title)
			if key == SortTitleDesc {
				return cmp > 0
			}
			return cmp < 0
		})
	case SortLikesAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Likes < items[j].Likes })
	case SortLikesDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Likes > items[j].Likes })
	case SortCreatedAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	case SortCreatedDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	}
}

func paginate(items []folio.Project, page Page) []folio.Project {
	if page.Size <= 0 {
		return items
	}
	number := page.Number
	if number < 1 {
		number = 1
	}
	start := (number - 1) * page.Size
	if start >= len(items) {
		return nil
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Categories returns the distinct categories across items in first-seen
// order, for the UI's category filter cycle.
func Categories(items []folio.Project) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range items {
		for _, c := range p.Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
