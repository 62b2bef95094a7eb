package form

import (
	"strings"

	"github.com/adamavenir/recall/internal/host"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const keyHints = "tab next · ctrl+n add · ctrl+d remove · ctrl+r rewrite · ctrl+s submit · esc close"

func (m *Model) View() string {
	if m.done {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(sectionColor).Bold(true)

	lines := []string{titleStyle.Render(m.title), ""}
	for _, section := range m.doc.Root().Children() {
		if label := section.Label(); label != "" {
			lines = append(lines, sectionStyle.Render(label))
		}
		for _, node := range section.Children() {
			lines = append(lines, m.renderNode(node)...)
		}
		lines = append(lines, "")
	}
	lines = append(lines, m.renderStatus())

	return m.zoneManager.Scan(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderNode(node *host.Node) []string {
	labelStyle := lipgloss.NewStyle().Foreground(labelColor)
	hintStyle := lipgloss.NewStyle().Foreground(hintColor).Italic(true)

	if !node.Kind().IsTextEntry() {
		if node.Label() == "" {
			return nil
		}
		return []string{hintStyle.Render(node.Label())}
	}

	var lines []string
	if label := node.Label(); label != "" {
		lines = append(lines, labelStyle.Render(label))
	}
	w := m.widgetFor(node)
	lines = append(lines, m.zoneManager.Mark(fieldZoneID(node.ID()), w.view()))
	if node.ID() == m.focusID && m.overlay.Owner() == node.ID() {
		if suggestions := m.overlay.View(m.fieldWidth() + 2); suggestions != "" {
			lines = append(lines, suggestions)
		}
	}
	return lines
}

func (m *Model) renderStatus() string {
	style := lipgloss.NewStyle().Foreground(statusColor)
	text := keyHints
	if m.status != "" {
		text = m.status + " · " + keyHints
	}
	if m.width > 0 {
		text = ansi.Truncate(text, m.width, "…")
	}
	return style.Render(strings.TrimRight(text, " "))
}
