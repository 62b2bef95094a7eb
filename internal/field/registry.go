package field

import (
	"errors"
	"io"
	"log/slog"

	"github.com/adamavenir/recall/internal/overlay"
	"github.com/adamavenir/recall/internal/rank"
)

var (
	// ErrDuplicateAttachment is returned when a control already has a controller.
	ErrDuplicateAttachment = errors.New("control already has an autocomplete controller")
	// ErrRankerUnavailable is returned when no ranking collaborator was supplied.
	ErrRankerUnavailable = errors.New("ranking engine is not available")
	// ErrStoreUnavailable is returned when no history store was supplied.
	ErrStoreUnavailable = errors.New("history store is not available")
)

// FallbackKey is the field key shared by controls with neither a name nor an
// element id. Such controls share one history.
const FallbackKey = "___ANY___"

// Control is a text-entry element a controller can attach to.
type Control interface {
	ID() string
	Name() string
	ElemID() string
	Value() string
	SetValue(string)
}

// HistoryStore is the subset of the option store a controller uses.
type HistoryStore interface {
	Get(key string) []string
	Add(key, value string) error
	Remove(key, value string) error
	// Rename replaces from with to, leaving equal values untouched.
	Rename(key, from, to string) error
}

// Ranker ranks stored values against the typed text.
type Ranker interface {
	Search(candidates []string, query string) []rank.Result
}

// Surface is the shared suggestion overlay.
type Surface interface {
	Clear()
	Set(owner string, items []overlay.Item)
	Highlight(k int)
	Owner() string
}

// Deps are the collaborators shared by every controller.
type Deps struct {
	Store   HistoryStore
	Ranker  Ranker
	Overlay Surface
	Logger  *slog.Logger
}

// Registry maps control identity to its controller and enforces that a
// control has at most one.
type Registry struct {
	deps        Deps
	controllers map[string]*Controller
	order       []string
}

// NewRegistry validates deps and returns an empty registry.
func NewRegistry(deps Deps) (*Registry, error) {
	if deps.Ranker == nil {
		return nil, ErrRankerUnavailable
	}
	if deps.Store == nil {
		return nil, ErrStoreUnavailable
	}
	if deps.Overlay == nil {
		deps.Overlay = overlay.New(nil)
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		deps:        deps,
		controllers: make(map[string]*Controller),
	}, nil
}

// KeyFor derives the history key of a control: its name, else its element
// id, else FallbackKey.
func KeyFor(c Control) string {
	if name := c.Name(); name != "" {
		return name
	}
	if id := c.ElemID(); id != "" {
		return id
	}
	return FallbackKey
}

// Attach creates a controller for c. It fails with ErrDuplicateAttachment if
// c is already controlled.
func (r *Registry) Attach(c Control) (*Controller, error) {
	if _, ok := r.controllers[c.ID()]; ok {
		return nil, ErrDuplicateAttachment
	}
	ctl := &Controller{
		registry:  r,
		control:   c,
		id:        c.ID(),
		key:       KeyFor(c),
		startText: c.Value(),
	}
	r.controllers[ctl.id] = ctl
	r.order = append(r.order, ctl.id)
	r.deps.Logger.Debug("attached", "control", ctl.id, "key", ctl.key)
	return ctl, nil
}

// Get returns the controller attached to the control with the given id.
func (r *Registry) Get(id string) (*Controller, bool) {
	ctl, ok := r.controllers[id]
	return ctl, ok
}

// Detach runs the detach transition for the control with the given id and
// reports whether a controller was attached.
func (r *Registry) Detach(id string) bool {
	ctl, ok := r.controllers[id]
	if !ok {
		return false
	}
	ctl.Detach()
	return true
}

// Len returns the number of attached controllers.
func (r *Registry) Len() int {
	return len(r.controllers)
}

// Controllers returns attached controllers in attach order.
func (r *Registry) Controllers() []*Controller {
	out := make([]*Controller, 0, len(r.order))
	for _, id := range r.order {
		if ctl, ok := r.controllers[id]; ok {
			out = append(out, ctl)
		}
	}
	return out
}

func (r *Registry) release(ctl *Controller) {
	if current, ok := r.controllers[ctl.id]; !ok || current != ctl {
		return
	}
	delete(r.controllers, ctl.id)
	for i, id := range r.order {
		if id == ctl.id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
