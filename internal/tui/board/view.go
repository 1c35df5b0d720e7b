package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stagehand-io/stagehand/internal/item"
	"github.com/stagehand-io/stagehand/internal/policy"
)

// View renders the board: stage lanes side by side, an optional prompt
// modal, the toast line, and the help bar.
func (m *Model) View() string {
	if m.showDetail {
		return m.detail.View() + "\n" + helpStyle.Render("d/esc close · ↑↓ scroll")
	}

	var b strings.Builder
	b.WriteString(m.renderColumns())
	b.WriteString("\n")

	if v := m.verdictForPrompt(); v != nil {
		b.WriteString(m.renderPrompt(v))
		b.WriteString("\n")
	}

	if m.toast != "" {
		style := toastOKStyle
		if m.toastErr {
			style = toastErrStyle
		}
		b.WriteString(style.Render(m.toast))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) renderColumns() string {
	cols := make([]string, 0, len(m.columns))
	for ci, c := range m.columns {
		cols = append(cols, m.renderColumn(ci, c))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m *Model) renderColumn(ci int, c column) string {
	width := m.columnWidth()

	header := columnHeaderStyle.
		Foreground(lipgloss.Color(c.stage.Color)).
		Render(c.stage.Label) +
		countStyle.Render(fmt.Sprintf(" %d", len(c.items)))

	parts := []string{header}
	for ri, it := range c.items {
		parts = append(parts, m.renderCard(ci, ri, it, width-4))
	}
	if len(c.items) == 0 {
		parts = append(parts, cardMetaStyle.Render("  —"))
	}

	return columnStyle.Width(width).Render(strings.Join(parts, "\n"))
}

func (m *Model) renderCard(ci, ri int, it *item.Item, width int) string {
	style := cardStyle
	switch {
	case m.grabbed != nil && m.grabbed.it.ID == it.ID:
		style = grabbedCardStyle
	case m.controller.Busy(it.ID):
		style = busyCardStyle
	case ci == m.col && ri == m.row:
		style = selectedCardStyle
	}

	title := truncate(it.Title, width)
	meta := fmt.Sprintf("P%d", it.Priority)
	if it.Deadline != nil {
		meta += " · due " + it.Deadline.Format("Jan 2")
	}
	if it.ChecklistDone {
		meta += " · ✓"
	}
	if m.controller.Busy(it.ID) && (m.grabbed == nil || m.grabbed.it.ID != it.ID) {
		meta += " · saving…"
	}

	return style.Width(width).Render(title + "\n" + cardMetaStyle.Render(truncate(meta, width)))
}

// renderPrompt shows the confirmation modal for the open verdict.
func (m *Model) renderPrompt(v *policy.Verdict) string {
	var b strings.Builder
	b.WriteString(promptTitleStyle.Render(v.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s → %s\n\n%s", v.FromLabel, v.ToLabel, v.Message)
	if len(v.Warnings) > 0 {
		b.WriteString("\n\n")
		b.WriteString(promptWarnStyle.Render(policy.FormatWarnings(v.Warnings)))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("[y] move · [n/esc] keep in place"))

	width := 60
	if m.width > 0 && m.width-4 < width {
		width = m.width - 4
	}
	return promptStyle.Width(width).Render(b.String())
}

func (m *Model) columnWidth() int {
	if m.width <= 0 || len(m.columns) == 0 {
		return 24
	}
	w := m.width/len(m.columns) - 2
	if w < 16 {
		w = 16
	}
	if w > 36 {
		w = 36
	}
	return w
}

func truncate(s string, width int) string {
	if width <= 1 || len(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
