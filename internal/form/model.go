package form

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/adamavenir/recall/internal/field"
	"github.com/adamavenir/recall/internal/host"
	"github.com/adamavenir/recall/internal/overlay"
	"github.com/adamavenir/recall/internal/types"
	"github.com/adamavenir/recall/internal/watcher"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// Options configure the form.
type Options struct {
	Layout  Layout
	Store   field.HistoryStore
	Ranker  field.Ranker
	Exclude []string
	Logger  *slog.Logger
}

// Result reports how the form ended.
type Result struct {
	// Submitted is true when the form closed with Ctrl-S.
	Submitted bool
	// Cancelled is true when an unsuppressed Escape closed the form.
	Cancelled bool
	// Values holds every field's value at close, in document order.
	Values []types.FieldValue
}

type closeMode int

const (
	closeNone closeMode = iota
	closeSubmit
	closeCancel
)

// Run starts the form UI and blocks until it exits.
func Run(opts Options) (Result, error) {
	model, err := NewModel(opts)
	if err != nil {
		return Result{}, err
	}
	fmt.Printf("\033]0;%s\007", model.title)

	program := tea.NewProgram(model, tea.WithMouseCellMotion())
	_, err = program.Run()
	model.Close()
	return model.Result(), err
}

// Model implements the form UI.
type Model struct {
	title       string
	doc         *host.Document
	registry    *field.Registry
	overlay     *overlay.Overlay
	watcher     *watcher.Watcher
	zoneManager *zone.Manager
	logger      *slog.Logger
	widgets     map[string]*widget
	focusID     string
	width       int
	height      int
	status      string
	closing     closeMode
	done        bool
	result      Result
}

// NewModel builds the document from the layout and attaches controllers to
// every control in it.
func NewModel(opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	zones := zone.New()
	surface := overlay.New(zones)
	surface.Create()

	registry, err := field.NewRegistry(field.Deps{
		Store:   opts.Store,
		Ranker:  opts.Ranker,
		Overlay: surface,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	layout := opts.Layout
	if len(layout.Sections) == 0 {
		layout = DefaultLayout()
	}
	doc := host.NewDocument()
	Build(doc, layout)
	// Nothing observes the document yet; Start scans the built tree instead.
	doc.Flush()

	w, err := watcher.New(doc, registry, watcher.Options{Exclude: opts.Exclude, Logger: logger})
	if err != nil {
		return nil, err
	}

	m := &Model{
		title:       layout.Title,
		doc:         doc,
		registry:    registry,
		overlay:     surface,
		watcher:     w,
		zoneManager: zones,
		logger:      logger,
		widgets:     make(map[string]*widget),
		width:       80,
	}
	w.Start()
	m.syncFocus()
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	if w := m.focused(); w != nil {
		return w.focus()
	}
	return nil
}

// Close tears down the overlay and stops watching the document. Controllers
// still attached are left alone so nothing is saved.
func (m *Model) Close() {
	m.watcher.Stop()
	m.overlay.Destroy()
}

// Result returns the outcome once the program has exited.
func (m *Model) Result() Result {
	return m.result
}

// Document exposes the form's node tree.
func (m *Model) Document() *host.Document {
	return m.doc
}

// Registry exposes the attached controllers.
func (m *Model) Registry() *field.Registry {
	return m.registry
}

// Overlay exposes the suggestion overlay.
func (m *Model) Overlay() *overlay.Overlay {
	return m.overlay
}

// Focused returns the focused node, or nil when the form has no fields.
func (m *Model) Focused() *host.Node {
	if w := m.focused(); w != nil {
		return w.node
	}
	return nil
}

// Done reports whether the form has finished closing.
func (m *Model) Done() bool {
	return m.done
}

func (m *Model) focused() *widget {
	if m.focusID == "" {
		return nil
	}
	return m.widgets[m.focusID]
}

func (m *Model) widgetFor(node *host.Node) *widget {
	if w, ok := m.widgets[node.ID()]; ok {
		return w
	}
	w := newWidget(node, m.fieldWidth())
	m.widgets[node.ID()] = w
	return w
}

func (m *Model) fieldWidth() int {
	width := m.width - 4
	if width <= 0 || width > defaultFieldWidth {
		return defaultFieldWidth
	}
	return width
}

// controls returns the text-entry nodes currently in the document.
func (m *Model) controls() []*host.Node {
	return host.Controls(m.doc.Root())
}

// syncFocus drops widgets of removed nodes and keeps focus on a connected
// control.
func (m *Model) syncFocus() tea.Cmd {
	controls := m.controls()
	live := make(map[string]bool, len(controls))
	for _, node := range controls {
		live[node.ID()] = true
		m.widgetFor(node)
	}
	for id := range m.widgets {
		if !live[id] {
			delete(m.widgets, id)
		}
	}
	if live[m.focusID] {
		return nil
	}
	m.focusID = ""
	if len(controls) == 0 {
		return nil
	}
	return m.focusNode(controls[0])
}

func (m *Model) focusNode(node *host.Node) tea.Cmd {
	if prev := m.focused(); prev != nil {
		prev.blur()
	}
	if owner := m.overlay.Owner(); owner != "" && owner != node.ID() {
		m.overlay.Clear()
	}
	m.focusID = node.ID()
	return m.widgetFor(node).focus()
}

func (m *Model) values() []types.FieldValue {
	controls := m.controls()
	values := make([]types.FieldValue, 0, len(controls))
	for _, node := range controls {
		values = append(values, types.FieldValue{
			Key:   field.KeyFor(node),
			Label: node.Label(),
			Value: node.Value(),
		})
	}
	return values
}
