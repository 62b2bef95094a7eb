package form

import tea "github.com/charmbracelet/bubbletea"

func (m *Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.closing != closeNone {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if click, ok := m.overlay.HandleClick(msg); ok {
		ctl, attached := m.registry.Get(click.Owner)
		if !attached || !ctl.Click(click.Index) {
			return m, nil
		}
		var cmd tea.Cmd
		if m.focusID != click.Owner {
			if node := m.doc.FindByID(click.Owner); node != nil {
				cmd = m.focusNode(node)
			}
		}
		if w, ok := m.widgets[click.Owner]; ok {
			w.load()
		}
		return m, cmd
	}

	for _, node := range m.controls() {
		if m.zoneManager.Get(fieldZoneID(node.ID())).InBounds(msg) {
			if node.ID() == m.focusID {
				return m, nil
			}
			return m, m.focusNode(node)
		}
	}
	return m, nil
}

func fieldZoneID(id string) string {
	return "field-" + id
}
