package ui

import (
	"fmt"
	"strings"
)

// renderDetail renders the full record of the selected project.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()

	p, ok := m.projects.Find(m.detailID)
	if !ok {
		return styles.MutedText.Render("  Project no longer exists. Press esc to go back.")
	}

	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(styles.AccentText.Bold(true).Render(p.Title))
	b.WriteString("  ")
	b.WriteString(styles.StatusStyle(string(p.Status)).Render(statusLabel(string(p.Status))))
	b.WriteString("\n\n")

	if p.ShortDescription != "" {
		b.WriteString("  ")
		b.WriteString(styles.Text.Render(p.ShortDescription))
		b.WriteString("\n\n")
	}

	if p.Description != "" {
		for _, line := range wrap(p.Description, m.width-4) {
			b.WriteString("  ")
			b.WriteString(styles.MutedText.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	likesLine := fmt.Sprintf("♥ %d", p.Likes)
	if m.bookmarks != nil && m.bookmarks.Liked(p.ID) {
		likesLine += " · liked by you"
	}
	b.WriteString("  ")
	b.WriteString(styles.DangerText.Render(likesLine))
	b.WriteString("\n")

	if len(p.Categories) > 0 {
		b.WriteString("  ")
		b.WriteString(styles.InfoText.Render(strings.Join(p.Categories, ", ")))
		b.WriteString("\n")
	}

	if p.GithubURL != "" {
		b.WriteString(styles.MutedText.Render("  github:  " + p.GithubURL))
		b.WriteString("\n")
	}
	if p.WebsiteURL != "" {
		b.WriteString(styles.MutedText.Render("  website: " + p.WebsiteURL))
		b.WriteString("\n")
	}
	if len(p.Images) > 0 {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("  images:  %d attached", len(p.Images))))
		b.WriteString("\n")
	}

	if !p.CreatedAt.IsZero() {
		b.WriteString(styles.MutedText.Render("  created: " + p.CreatedAt.Format("2006-01-02")))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
