package ui

import (
	"testing"
	"time"

	"github.com/mknopf/vitrine/internal/folio"
	"github.com/mknopf/vitrine/internal/prefs"
	"github.com/mknopf/vitrine/internal/state"
	"github.com/mknopf/vitrine/internal/view"
)

func galleryModel(t *testing.T, items []folio.Project) Model {
	t.Helper()
	m := New(Options{Prefs: prefs.Prefs{Theme: "Nightfox", PageSize: 2, Sort: "title_asc"}})
	m.projSnap = state.Snapshot[folio.Project]{
		Items:       items,
		Loaded:      true,
		LastUpdated: time.Now(),
	}
	return m
}

func sampleItems() []folio.Project {
	return []folio.Project{
		{ID: 1, Title: "Atlas", Status: folio.StatusCompleted, Categories: []string{"go"}, Likes: 4},
		{ID: 2, Title: "Beacon", Status: folio.StatusInProgress, Categories: []string{"web"}, Likes: 9},
		{ID: 3, Title: "Cairn", Status: folio.StatusCompleted, Categories: []string{"go", "cli"}, Likes: 1},
	}
}

func TestDerivedRespectsPrefs(t *testing.T) {
	m := galleryModel(t, sampleItems())

	rows := m.derived()
	if len(rows) != 2 {
		t.Fatalf("page size 2, got %d rows", len(rows))
	}
	if rows[0].Title != "Atlas" || rows[1].Title != "Beacon" {
		t.Errorf("title sort not applied: %q, %q", rows[0].Title, rows[1].Title)
	}

	m.pageNumber = 2
	rows = m.derived()
	if len(rows) != 1 || rows[0].Title != "Cairn" {
		t.Errorf("second page wrong: %+v", rows)
	}
}

func TestCycleSortWraps(t *testing.T) {
	m := galleryModel(t, nil)

	seen := map[view.Sort]bool{}
	for range view.Sorts() {
		seen[m.sortKey] = true
		m.cycleSort()
	}
	if len(seen) != len(view.Sorts()) {
		t.Errorf("sort cycle visited %d keys, want %d", len(seen), len(view.Sorts()))
	}
	if m.sortKey != view.SortTitleAsc {
		t.Errorf("cycle did not wrap back, got %q", m.sortKey)
	}
}

func TestCycleStatusReturnsToAll(t *testing.T) {
	m := galleryModel(t, nil)

	if m.filter.Status != "" {
		t.Fatal("expected no status filter initially")
	}
	steps := len(folio.Statuses()) + 1
	for i := 0; i < steps-1; i++ {
		m.cycleStatus()
		if m.filter.Status == "" {
			t.Fatalf("filter cleared too early at step %d", i)
		}
	}
	m.cycleStatus()
	if m.filter.Status != "" {
		t.Errorf("status cycle did not return to all, got %q", m.filter.Status)
	}
}

func TestCycleCategoryUsesLoadedProjects(t *testing.T) {
	m := galleryModel(t, sampleItems())

	var visited []string
	for i := 0; i < 4; i++ {
		m.cycleCategory()
		visited = append(visited, m.filter.Category)
	}
	want := []string{"go", "web", "cli", ""}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("category cycle = %v, want %v", visited, want)
		}
	}
}

func TestClampSelectionAfterShrink(t *testing.T) {
	m := galleryModel(t, sampleItems())
	m.pageNumber = 2
	m.selectedRow = 0

	// Shrink to a single project; page 2 no longer exists
	m.projSnap.Items = m.projSnap.Items[:1]
	m.clampSelection()

	if m.pageNumber != 1 {
		t.Errorf("page not clamped, got %d", m.pageNumber)
	}
	if m.selectedRow != 0 {
		t.Errorf("selection not clamped, got %d", m.selectedRow)
	}
}

func TestSelectedProject(t *testing.T) {
	m := galleryModel(t, sampleItems())

	p, ok := m.selectedProject()
	if !ok || p.Title != "Atlas" {
		t.Fatalf("selectedProject = %+v, %v", p, ok)
	}

	m.projSnap.Items = nil
	if _, ok := m.selectedProject(); ok {
		t.Error("selectedProject reported a project for an empty gallery")
	}
}
