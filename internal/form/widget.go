package form

import (
	"github.com/adamavenir/recall/internal/host"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultFieldWidth = 48
	areaHeight        = 3
)

// widget renders one text-entry node and keeps the node's value in step with
// the editor.
type widget struct {
	node  *host.Node
	input *textinput.Model
	area  *textarea.Model
}

func newWidget(node *host.Node, width int) *widget {
	w := &widget{node: node}
	switch node.Kind() {
	case host.KindTextArea:
		area := textarea.New()
		area.ShowLineNumbers = false
		area.Prompt = "┃ "
		area.SetWidth(width)
		area.SetHeight(areaHeight)
		applyAreaStyles(&area)
		area.Blur()
		w.area = &area
	default:
		input := textinput.New()
		input.Prompt = "› "
		input.Width = width
		applyInputStyles(&input, false)
		w.input = &input
	}
	w.load()
	return w
}

// load copies the node's value into the editor.
func (w *widget) load() {
	value := w.node.Value()
	if w.area != nil {
		if w.area.Value() != value {
			w.area.SetValue(value)
		}
		return
	}
	if w.input.Value() != value {
		w.input.SetValue(value)
		w.input.CursorEnd()
	}
}

// store copies the editor's value into the node.
func (w *widget) store() {
	w.node.SetValue(w.value())
}

func (w *widget) value() string {
	if w.area != nil {
		return w.area.Value()
	}
	return w.input.Value()
}

func (w *widget) focus() tea.Cmd {
	if w.area != nil {
		return w.area.Focus()
	}
	applyInputStyles(w.input, true)
	return w.input.Focus()
}

func (w *widget) blur() {
	if w.area != nil {
		w.area.Blur()
		return
	}
	applyInputStyles(w.input, false)
	w.input.Blur()
}

func (w *widget) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if w.area != nil {
		*w.area, cmd = w.area.Update(msg)
	} else {
		*w.input, cmd = w.input.Update(msg)
	}
	w.store()
	return cmd
}

func (w *widget) setWidth(width int) {
	if w.area != nil {
		w.area.SetWidth(width)
		return
	}
	w.input.Width = width
}

func (w *widget) view() string {
	if w.area != nil {
		return w.area.View()
	}
	return w.input.View()
}
