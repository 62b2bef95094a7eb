package form

import (
	"github.com/adamavenir/recall/internal/field"
	"github.com/adamavenir/recall/internal/host"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.closing != closeNone {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyCtrlC:
		m.done = true
		m.result = Result{Values: m.values()}
		return m, tea.Quit
	case tea.KeyCtrlS:
		return m, m.close(closeSubmit)
	case tea.KeyTab:
		return m, m.moveFocus(1)
	case tea.KeyShiftTab:
		return m, m.moveFocus(-1)
	case tea.KeyCtrlN:
		return m, m.addField()
	case tea.KeyCtrlD:
		return m, m.removeField()
	case tea.KeyCtrlR:
		return m, m.rewriteSection()
	}

	w := m.focused()
	key := field.KeyFromTea(msg)
	if w == nil {
		if key == field.KeyEscape {
			return m, m.close(closeCancel)
		}
		return m, nil
	}

	ctl, attached := m.registry.Get(w.node.ID())
	suppressed := false
	if attached {
		suppressed = ctl.KeyDown(key)
	}

	var cmd tea.Cmd
	if suppressed {
		w.load()
	} else {
		if key == field.KeyEscape {
			return m, m.close(closeCancel)
		}
		cmd = w.update(msg)
	}

	if attached {
		ctl.KeyUp(key)
	}
	return m, tea.Batch(cmd, m.scheduleFlush())
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	controls := m.controls()
	if len(controls) == 0 {
		return nil
	}
	idx := 0
	for i, node := range controls {
		if node.ID() == m.focusID {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(controls)) % len(controls)
	return m.focusNode(controls[idx])
}

// addField inserts a copy of the focused field right after it. The copy
// starts empty and shares the original's field key.
func (m *Model) addField() tea.Cmd {
	w := m.focused()
	if w == nil {
		return nil
	}
	node := w.node
	parent := node.Parent()
	if parent == nil {
		return nil
	}
	clone := m.doc.NewNode(node.Kind(), node.Name(), node.ElemID())
	clone.SetLabel(node.Label())
	m.doc.Insert(parent, clone, host.IndexOf(parent.Children(), node)+1)
	m.status = "added " + field.KeyFor(clone)
	return tea.Batch(m.focusNode(clone), m.scheduleFlush())
}

// removeField removes the focused field. Its controller detaches, and saves,
// once the removal is flushed.
func (m *Model) removeField() tea.Cmd {
	w := m.focused()
	if w == nil {
		return nil
	}
	node := w.node
	m.doc.Remove(node)
	m.status = "removed " + field.KeyFor(node)
	return m.scheduleFlush()
}

// rewriteSection replaces the focused field's section with a fresh copy of
// itself, as a page re-rendering part of a form would.
func (m *Model) rewriteSection() tea.Cmd {
	w := m.focused()
	if w == nil {
		return nil
	}
	section := w.node.Parent()
	if section == nil || section == m.doc.Root() {
		return nil
	}
	replacement := cloneNode(m.doc, section)
	m.doc.Replace(section, replacement)
	m.status = "rewrote " + section.Label()

	var focusCmd tea.Cmd
	if controls := host.Controls(replacement); len(controls) > 0 {
		focusCmd = m.focusNode(controls[0])
	}
	return tea.Batch(focusCmd, m.scheduleFlush())
}

// close captures the field values and removes every section, so each
// controller detaches through the normal removal path before the program
// quits.
func (m *Model) close(mode closeMode) tea.Cmd {
	m.closing = mode
	m.result = Result{
		Submitted: mode == closeSubmit,
		Cancelled: mode == closeCancel,
		Values:    m.values(),
	}
	for _, section := range m.doc.Root().Children() {
		m.doc.Remove(section)
	}
	if cmd := m.scheduleFlush(); cmd != nil {
		return cmd
	}
	m.done = true
	return tea.Quit
}
