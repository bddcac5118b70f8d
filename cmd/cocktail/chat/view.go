package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// safeRenderMarkdown renders markdown with panic recovery
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return content
}

// refreshViewport re-renders the recommendation panel from the snapshot.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderResult())
	m.viewport.GotoTop()
}

func (m Model) renderResult() string {
	switch {
	case m.snap.Loading():
		return m.spinner.View() + " Mixing something up…"
	case m.snap.HasError():
		return m.styles.Error.Render(m.snap.ErrorMessage())
	}
	if rec := m.snap.Recommendation(); rec != nil {
		return m.styles.Recommendation.Render(m.safeRenderMarkdown(rec.Text))
	}
	return m.styles.Muted.Render("Pick a few tastes, describe the occasion and press Enter.")
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Header.Render("cocktail"),
		" ",
		m.renderHealth(),
	)

	result := m.viewport.View()
	if m.snap.Loading() {
		// The spinner animates independently of viewport content.
		result = m.spinner.View() + " Mixing something up…"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.styles.Title.Render("Tastes"),
		m.renderChips(),
		"",
		m.styles.Title.Render("Occasion"),
		m.input.View(),
		m.styles.RenderDivider(max(m.width-2, 0)),
		result,
		m.renderFooter(),
	)
}

func (m Model) renderHealth() string {
	switch m.health {
	case healthUp:
		return m.styles.Success.Render(m.backendStatus)
	case healthDown:
		return m.styles.Error.Render(m.backendStatus)
	}
	return m.styles.Muted.Render(m.backendStatus)
}

func (m Model) renderChips() string {
	categories := m.snap.Available().All()
	chips := make([]string, 0, len(categories))
	for i, c := range categories {
		selected := m.snap.IsSelected(c)
		onCursor := m.focus == focusChips && i == m.cursor

		style := m.styles.Chip
		switch {
		case selected && onCursor:
			style = m.styles.ChipSelected.Underline(true)
		case selected:
			style = m.styles.ChipSelected
		case onCursor:
			style = m.styles.ChipCursor
		}
		label := string(c)
		if selected {
			label = "✓ " + label
		}
		chips = append(chips, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m Model) renderFooter() string {
	help := "←/→ move  space select  tab switch  enter mix  ctrl+x cancel  esc quit"
	if m.notice != "" {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Info.Render(m.notice),
			m.styles.Footer.Render(help),
		)
	}
	return m.styles.Footer.Render(help)
}
