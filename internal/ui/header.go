package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mknopf/vitrine/internal/view"
)

// renderHeader renders the top bar: logo, session identity, and store
// freshness.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	left := styles.Logo.Render("vitrine")

	who := "anonymous"
	if m.session != nil {
		if user, ok := m.session.User(); ok {
			who = user.DisplayName()
			if user.IsAdmin() {
				who += " (admin)"
			}
		}
	}

	var status string
	switch {
	case m.projSnap.Loading && !m.projSnap.Loaded:
		status = styles.InfoText.Render("loading…")
	case m.projSnap.Stale():
		status = styles.WarningText.Render("stale")
	case m.projSnap.Err != nil:
		status = styles.DangerText.Render("offline")
	default:
		status = styles.SuccessText.Render("live")
	}

	right := fmt.Sprintf("%s · %s", who, status)
	if !m.projSnap.LastUpdated.IsZero() {
		right += styles.MutedText.Render("  " + m.projSnap.LastUpdated.Format("15:04:05"))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderFooter renders the bottom bar: notice or active filters plus key
// hints.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()

	if m.searching {
		return styles.Footer.Width(m.width).Render("/" + m.searchInput.View())
	}

	if m.notice != "" && m.noticeStyle != nil {
		return styles.Footer.Width(m.width).Render(m.noticeStyle(styles))
	}

	var parts []string

	parts = append(parts, "sort: "+m.sortKey.Label())
	if m.filter.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", m.filter.Search))
	}
	if m.filter.Status != "" {
		parts = append(parts, "status: "+m.filter.Status)
	}
	if m.filter.Category != "" {
		parts = append(parts, "category: "+m.filter.Category)
	}
	if m.filter.OnlyLiked {
		parts = append(parts, "liked only")
	}

	pages := view.TotalPages(m.filteredCount(), m.pageSize)
	if pages > 1 {
		parts = append(parts, fmt.Sprintf("page %d/%d", m.pageNumber, pages))
	}

	parts = append(parts, "? help")

	return styles.Footer.Width(m.width).Render(strings.Join(parts, "  ·  "))
}
