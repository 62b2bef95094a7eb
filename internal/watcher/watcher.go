package watcher

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/adamavenir/recall/internal/field"
	"github.com/adamavenir/recall/internal/host"
	"github.com/gobwas/glob"
)

// Options configure a Watcher.
type Options struct {
	// Exclude lists glob patterns; controls whose field key matches any of
	// them are never attached.
	Exclude  []string
	Logger   *slog.Logger
	OnAttach func(*field.Controller)
	OnDetach func(*field.Controller)
}

// Watcher keeps a registry in step with the text-entry controls present in a
// document: controls that appear get a controller, controls that leave the
// tree are detached.
type Watcher struct {
	doc      *host.Document
	registry *field.Registry
	excludes []glob.Glob
	opts     Options
	logger   *slog.Logger
	observer *host.Observer
}

// New creates a watcher. It does nothing until Start.
func New(doc *host.Document, registry *field.Registry, opts Options) (*Watcher, error) {
	excludes := make([]glob.Glob, 0, len(opts.Exclude))
	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		excludes = append(excludes, g)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{
		doc:      doc,
		registry: registry,
		excludes: excludes,
		opts:     opts,
		logger:   logger,
	}, nil
}

// Start attaches to every control currently in the document and subscribes
// to later mutation batches. Starting twice is a no-op.
func (w *Watcher) Start() {
	if w.observer != nil {
		return
	}
	w.attachAll(w.doc.Root())
	w.observer = w.doc.Observe(w.handleBatch)
}

// Stop unsubscribes. Attached controllers are left alone.
func (w *Watcher) Stop() {
	if w.observer == nil {
		return
	}
	w.observer.Disconnect()
	w.observer = nil
}

// Excluded reports whether controls with this field key are skipped.
func (w *Watcher) Excluded(key string) bool {
	for _, g := range w.excludes {
		if g.Match(key) {
			return true
		}
	}
	return false
}

func (w *Watcher) handleBatch(batch []host.Mutation) {
	for _, mutation := range batch {
		for _, node := range mutation.Removed {
			w.detachRemoved(node)
		}
		for _, node := range mutation.Added {
			if node.Connected() {
				w.attachAll(node)
			}
		}
	}
}

// attachAll scans node's subtree only.
func (w *Watcher) attachAll(node *host.Node) {
	for _, control := range host.Controls(node) {
		if w.Excluded(field.KeyFor(control)) {
			continue
		}
		ctl, err := w.registry.Attach(control)
		if err != nil {
			if errors.Is(err, field.ErrDuplicateAttachment) {
				continue
			}
			w.logger.Warn("attach failed", "control", control.ID(), "err", err)
			continue
		}
		if w.opts.OnAttach != nil {
			w.opts.OnAttach(ctl)
		}
	}
}

func (w *Watcher) detachRemoved(node *host.Node) {
	for _, control := range host.Controls(node) {
		if control.Connected() {
			continue
		}
		ctl, ok := w.registry.Get(control.ID())
		if !ok {
			continue
		}
		ctl.Detach()
		if w.opts.OnDetach != nil {
			w.opts.OnDetach(ctl)
		}
	}
}
