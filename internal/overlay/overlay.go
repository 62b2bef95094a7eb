package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
)

// Item is one rendered suggestion row.
type Item struct {
	// Text is the plain value committed when the row is chosen.
	Text string
	// Display is the styled row content.
	Display string
}

// Click reports a mouse press on a rendered row.
type Click struct {
	Owner string
	Text  string
	Index int // 1-indexed
}

// Overlay is the shared surface listing the current suggestions. One overlay
// exists per process; whichever field rendered last owns it.
type Overlay struct {
	zones    *zone.Manager
	prefix   string
	created  bool
	owner    string
	items    []Item
	selected int

	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	frameStyle    lipgloss.Style
}

// New creates an overlay. zones may be nil, in which case rows are not
// clickable.
func New(zones *zone.Manager) *Overlay {
	return &Overlay{
		zones:         zones,
		prefix:        "overlay-",
		normalStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("25")).Bold(true),
		frameStyle:    lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")),
	}
}

// Create makes the overlay available for rendering. Calling it again is a no-op.
func (o *Overlay) Create() {
	o.created = true
}

// Destroy clears the overlay and removes it.
func (o *Overlay) Destroy() {
	o.Clear()
	o.created = false
}

// Created reports whether the overlay exists.
func (o *Overlay) Created() bool {
	return o.created
}

// Clear removes every row and the highlight.
func (o *Overlay) Clear() {
	o.items = nil
	o.selected = 0
	o.owner = ""
}

// Set replaces the rows, owned by the control identified by owner.
func (o *Overlay) Set(owner string, items []Item) {
	o.Clear()
	o.Create()
	if len(items) == 0 {
		return
	}
	o.owner = owner
	o.items = append([]Item(nil), items...)
}

// Highlight marks row k (1-indexed). Zero or an out-of-range k removes the
// highlight.
func (o *Overlay) Highlight(k int) {
	if k <= 0 || k > len(o.items) {
		o.selected = 0
		return
	}
	o.selected = k
}

// Items returns the rendered rows.
func (o *Overlay) Items() []Item {
	return append([]Item(nil), o.items...)
}

// Len returns the number of rows.
func (o *Overlay) Len() int {
	return len(o.items)
}

// Selected returns the highlighted row, 0 when none.
func (o *Overlay) Selected() int {
	return o.selected
}

// Owner returns the control that rendered the rows, empty when cleared.
func (o *Overlay) Owner() string {
	return o.owner
}

// Height returns the number of terminal lines View occupies.
func (o *Overlay) Height(width int) int {
	if len(o.items) == 0 {
		return 0
	}
	return lipgloss.Height(o.View(width))
}

// View renders the rows. An empty or destroyed overlay renders nothing.
func (o *Overlay) View(width int) string {
	if !o.created || len(o.items) == 0 {
		return ""
	}

	inner := width - 2
	lines := make([]string, 0, len(o.items))
	for i, item := range o.items {
		prefix := "  "
		style := o.normalStyle
		if i+1 == o.selected {
			prefix = "> "
			style = o.selectedStyle
		}
		line := prefix + item.Display
		if inner > 0 {
			line = ansi.Truncate(line, inner, "…")
			style = style.Width(inner)
		}
		rendered := style.Render(line)
		if o.zones != nil {
			rendered = o.zones.Mark(o.zoneID(i+1), rendered)
		}
		lines = append(lines, rendered)
	}
	return o.frameStyle.Render(strings.Join(lines, "\n"))
}

// HandleClick resolves a left click to the row under the pointer.
func (o *Overlay) HandleClick(msg tea.MouseMsg) (Click, bool) {
	if o.zones == nil || len(o.items) == 0 {
		return Click{}, false
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return Click{}, false
	}
	for i, item := range o.items {
		if o.zones.Get(o.zoneID(i + 1)).InBounds(msg) {
			return Click{Owner: o.owner, Text: item.Text, Index: i + 1}, true
		}
	}
	return Click{}, false
}

func (o *Overlay) zoneID(k int) string {
	return fmt.Sprintf("%s%d", o.prefix, k)
}
