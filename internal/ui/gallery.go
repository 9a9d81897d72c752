package ui

import (
	"fmt"
	"strings"
)

// galleryColumns defines the fixed column widths of the project table. The
// title column absorbs the remaining width.
const (
	likesColWidth  = 7
	statusColWidth = 13
)

// renderGallery renders the project table for the current page.
func (m Model) renderGallery() string {
	styles := m.theme.Styles()
	rows := m.derived()

	if len(rows) == 0 {
		return m.renderEmptyGallery(styles)
	}

	titleWidth := m.width - likesColWidth - statusColWidth - 6
	if titleWidth < 12 {
		titleWidth = 12
	}

	var b strings.Builder

	header := fmt.Sprintf("  %s %s %s",
		padRight("TITLE", titleWidth),
		padRight("LIKES", likesColWidth),
		"STATUS")
	b.WriteString(styles.MutedText.Render(header))
	b.WriteString("\n")

	for i, p := range rows {
		title := truncate(p.Title, titleWidth)

		likesPlain := fmt.Sprintf("♥ %d", p.Likes)
		if m.likes != nil && m.likes.InFlight(p.ID) {
			likesPlain += " …"
		}
		likesPadded := padRight(likesPlain, likesColWidth)
		var likesCell string
		if m.bookmarks != nil && m.bookmarks.Liked(p.ID) {
			likesCell = styles.DangerText.Render(likesPadded)
		} else {
			likesCell = styles.MutedText.Render(likesPadded)
		}

		badge := styles.StatusStyle(string(p.Status)).Render(statusLabel(string(p.Status)))

		line := fmt.Sprintf("%s %s %s", padRight(title, titleWidth), likesCell, badge)

		if i == m.selectedRow {
			b.WriteString(styles.Selected.Render("> " + line))
		} else {
			b.WriteString(styles.Text.Render("  " + line))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderEmptyGallery explains why nothing is on screen.
func (m Model) renderEmptyGallery(styles Styles) string {
	switch {
	case m.projSnap.Loading && !m.projSnap.Loaded:
		return styles.MutedText.Render("  Fetching projects…")
	case m.projSnap.Err != nil && !m.projSnap.Loaded:
		return styles.DangerText.Render("  Could not reach the folio API: " + m.projSnap.Err.Error())
	case len(m.projSnap.Items) == 0:
		return styles.MutedText.Render("  No projects yet.")
	default:
		return styles.MutedText.Render("  No projects match the current filters. Press esc to clear them.")
	}
}
