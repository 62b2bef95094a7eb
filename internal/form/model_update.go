package form

import tea "github.com/charmbracelet/bubbletea"

// flushMsg delivers queued document mutations on a later update.
type flushMsg struct{}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	case flushMsg:
		return m.handleFlushMsg()
	default:
		if w := m.focused(); w != nil {
			return m, w.update(msg)
		}
		return m, nil
	}
}

func (m *Model) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	for _, w := range m.widgets {
		w.setWidth(m.fieldWidth())
	}
	return m, nil
}

// scheduleFlush returns a command delivering pending mutations, or nil when
// there are none.
func (m *Model) scheduleFlush() tea.Cmd {
	if m.doc.Pending() == 0 {
		return nil
	}
	return func() tea.Msg { return flushMsg{} }
}

func (m *Model) handleFlushMsg() (tea.Model, tea.Cmd) {
	if m.doc.Flush() {
		m.logger.Debug("flushed mutations", "controllers", m.registry.Len())
	}
	cmd := m.syncFocus()
	if m.closing != closeNone && m.doc.Pending() == 0 {
		m.done = true
		return m, tea.Quit
	}
	return m, tea.Batch(cmd, m.scheduleFlush())
}
