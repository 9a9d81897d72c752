package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mknopf/vitrine/internal/folio"
	"github.com/mknopf/vitrine/internal/prefs"
	"github.com/mknopf/vitrine/internal/view"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// Search input captures everything except its exit keys
	if m.searching {
		return m.handleSearchKey(msg)
	}

	m.clearNotice()

	// Global keys
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "T":
		// Cycle theme
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case "r":
		// Force refresh, bypassing the cache
		return m, refreshCmd(m.ctx, m.projects, m.bookmarks, m.session != nil && m.session.Authenticated())

	case "esc":
		if m.currentScreen == ScreenDetail {
			m.currentScreen = ScreenGallery
			return m, nil
		}
		m.resetFilters()
		return m, nil
	}

	switch m.currentScreen {
	case ScreenDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleGalleryKey(msg)
	}
}

// handleGalleryKey processes keyboard input for the gallery screen.
func (m Model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.selectedRow < len(m.derived())-1 {
			m.selectedRow++
		}
	case "k", "up":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "g", "home":
		m.selectedRow = 0
	case "G", "end":
		if rows := len(m.derived()); rows > 0 {
			m.selectedRow = rows - 1
		}

	case "l", "right":
		// Next page
		if m.pageNumber < view.TotalPages(m.filteredCount(), m.pageSize) {
			m.pageNumber++
			m.selectedRow = 0
		}
	case "h", "left":
		if m.pageNumber > 1 {
			m.pageNumber--
			m.selectedRow = 0
		}

	case "enter":
		if p, ok := m.selectedProject(); ok {
			m.detailID = p.ID
			m.currentScreen = ScreenDetail
		}

	case "/":
		m.searching = true
		m.searchInput.SetValue(m.filter.Search)
		m.searchInput.Focus()
		return m, textinput.Blink

	case "s":
		m.cycleSort()
		m.savePrefs()
		m.resetCursor()

	case "f":
		m.cycleStatus()
		m.resetCursor()

	case "c":
		m.cycleCategory()
		m.resetCursor()

	case "L":
		m.filter.OnlyLiked = !m.filter.OnlyLiked
		m.resetCursor()

	case " ", "b":
		if p, ok := m.selectedProject(); ok {
			return m, toggleCmd(m.ctx, m.likes, p.ID)
		}

	case "d":
		// Admin only
		if p, ok := m.selectedProject(); ok && m.session != nil && m.session.IsAdmin() {
			return m, deleteCmd(m.ctx, m.projects, p.ID)
		}
	}

	return m, nil
}

// handleDetailKey processes keyboard input for the detail screen.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "backspace":
		m.currentScreen = ScreenGallery

	case " ", "b":
		return m, toggleCmd(m.ctx, m.likes, m.detailID)

	case "d":
		if m.session != nil && m.session.IsAdmin() {
			return m, deleteCmd(m.ctx, m.projects, m.detailID)
		}

	case "j", "down":
		// Move cursor in the underlying gallery so list position follows
		if m.selectedRow < len(m.derived())-1 {
			m.selectedRow++
			if p, ok := m.selectedProject(); ok {
				m.detailID = p.ID
			}
		}
	case "k", "up":
		if m.selectedRow > 0 {
			m.selectedRow--
			if p, ok := m.selectedProject(); ok {
				m.detailID = p.ID
			}
		}
	}

	return m, nil
}

// handleSearchKey processes keyboard input while the search field is focused.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filter.Search = m.searchInput.Value()
		m.searching = false
		m.searchInput.Blur()
		m.resetCursor()
		return m, nil

	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil

	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// Live filtering while typing
	m.filter.Search = m.searchInput.Value()
	m.resetCursor()
	return m, cmd
}

// cycleSort advances to the next sort key.
func (m *Model) cycleSort() {
	order := view.Sorts()
	for i, s := range order {
		if s == m.sortKey {
			m.sortKey = order[(i+1)%len(order)]
			return
		}
	}
	m.sortKey = order[0]
}

// cycleStatus advances the status filter: all, then each known status.
func (m *Model) cycleStatus() {
	statuses := folio.Statuses()
	if m.filter.Status == "" {
		m.filter.Status = string(statuses[0])
		return
	}
	for i, s := range statuses {
		if string(s) == m.filter.Status {
			if i == len(statuses)-1 {
				m.filter.Status = ""
			} else {
				m.filter.Status = string(statuses[i+1])
			}
			return
		}
	}
	m.filter.Status = ""
}

// cycleCategory advances the category filter over the categories present in
// the loaded projects.
func (m *Model) cycleCategory() {
	categories := view.Categories(m.projSnap.Items)
	if len(categories) == 0 {
		m.filter.Category = ""
		return
	}
	if m.filter.Category == "" {
		m.filter.Category = categories[0]
		return
	}
	for i, c := range categories {
		if c == m.filter.Category {
			if i == len(categories)-1 {
				m.filter.Category = ""
			} else {
				m.filter.Category = categories[i+1]
			}
			return
		}
	}
	m.filter.Category = ""
}

// resetFilters clears search and filters back to the full gallery.
func (m *Model) resetFilters() {
	m.filter = view.Filter{}
	m.searchInput.SetValue("")
	m.resetCursor()
}

// resetCursor snaps back to the first row of the first page after the
// visible set changes.
func (m *Model) resetCursor() {
	m.pageNumber = 1
	m.selectedRow = 0
	m.clampSelection()
}

// savePrefs persists the current theme, page size, and sort order.
func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	err := prefs.Save(m.prefsPath, prefs.Prefs{
		Theme:    m.theme.Name,
		PageSize: m.pageSize,
		Sort:     string(m.sortKey),
	})
	if err != nil {
		m.logger.Warn("save preferences failed", "error", err)
	}
}
