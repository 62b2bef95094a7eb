package field

import tea "github.com/charmbracelet/bubbletea"

// Key is a keyboard event as far as the controller cares.
type Key int

const (
	KeyOther Key = iota
	KeyEscape
	KeyUp
	KeyDown
	KeyDelete
	KeyEnter
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "escape"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyDelete:
		return "delete"
	case KeyEnter:
		return "enter"
	default:
		return "other"
	}
}

// KeyFromTea classifies a bubbletea key message.
func KeyFromTea(msg tea.KeyMsg) Key {
	switch msg.Type {
	case tea.KeyEsc:
		return KeyEscape
	case tea.KeyUp:
		return KeyUp
	case tea.KeyDown:
		return KeyDown
	case tea.KeyDelete:
		return KeyDelete
	case tea.KeyEnter:
		return KeyEnter
	}
	return KeyOther
}

func (k Key) navigational() bool {
	return k == KeyUp || k == KeyDown
}
