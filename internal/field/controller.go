package field

import (
	"github.com/adamavenir/recall/internal/overlay"
	"github.com/adamavenir/recall/internal/rank"
)

// Controller drives autocomplete for one control.
//
// selection is 0 when nothing is highlighted and k (1-indexed) when the k-th
// suggestion is. It always stays within [0, len(suggestions)].
type Controller struct {
	registry *Registry
	control  Control
	id       string
	key      string

	startText   string
	results     []rank.Result
	suggestions []string
	selection   int
	lastQuery   string

	escapeArmed bool
	skipRefresh bool
	detached    bool
}

// Control returns the attached control.
func (c *Controller) Control() Control { return c.control }

// FieldKey returns the history key the controller reads and writes.
func (c *Controller) FieldKey() string { return c.key }

// StartText returns the value captured at attach time.
func (c *Controller) StartText() string { return c.startText }

// Selection returns the highlighted suggestion, 0 when none.
func (c *Controller) Selection() int { return c.selection }

// Suggestions returns the current ranked values.
func (c *Controller) Suggestions() []string {
	return append([]string(nil), c.suggestions...)
}

// EscapeArmed reports whether the last key was a suppressed Escape.
func (c *Controller) EscapeArmed() bool { return c.escapeArmed }

// Detached reports whether Detach has run.
func (c *Controller) Detached() bool { return c.detached }

// KeyDown handles a key press and reports whether the key's default handling
// must be suppressed.
func (c *Controller) KeyDown(k Key) bool {
	if c.detached {
		return false
	}
	if k == KeyEscape {
		c.dismiss()
		if c.escapeArmed {
			return false
		}
		c.escapeArmed = true
		return true
	}

	c.escapeArmed = false
	n := len(c.suggestions)
	switch {
	case k == KeyDown && n > 0:
		c.selection = (c.selection + 1) % (n + 1)
		c.highlight()
		return true
	case k == KeyUp && n > 0:
		c.selection = (c.selection - 1 + n + 1) % (n + 1)
		c.highlight()
		return true
	case k == KeyDelete && c.selection > 0:
		value := c.suggestions[c.selection-1]
		if err := c.registry.deps.Store.Remove(c.key, value); err != nil {
			c.registry.deps.Logger.Warn("remove suggestion failed", "key", c.key, "err", err)
		}
		c.selection = 0
		c.highlight()
		return true
	case k == KeyEnter && c.selection > 0:
		c.commit(c.selection)
		c.skipRefresh = true
		return true
	}

	if c.selection != 0 {
		c.selection = 0
		c.highlight()
	}
	return false
}

// KeyUp recomputes suggestions after the key's default handling ran.
func (c *Controller) KeyUp(k Key) {
	if c.detached || k == KeyEscape {
		return
	}
	if c.skipRefresh {
		c.skipRefresh = false
		return
	}
	value := c.control.Value()
	if value == "" {
		c.dismiss()
		return
	}
	if k.navigational() && value == c.lastQuery {
		c.highlight()
		return
	}
	c.refresh(value)
}

// Click commits the index-th (1-indexed) suggestion, as if it had been
// selected and Enter pressed.
func (c *Controller) Click(index int) bool {
	if c.detached || index < 1 || index > len(c.suggestions) {
		return false
	}
	c.escapeArmed = false
	c.selection = index
	c.commit(index)
	return true
}

// Detach tears the controller down. Unless the field was cancelled with
// Escape, the value captured at attach is renamed to the final value.
// Calling Detach more than once has no further effect.
func (c *Controller) Detach() {
	if c.detached {
		return
	}
	c.detached = true
	c.reset()
	surface := c.registry.deps.Overlay
	if owner := surface.Owner(); owner == "" || owner == c.id {
		surface.Clear()
	}

	if !c.escapeArmed {
		if err := c.registry.deps.Store.Rename(c.key, c.startText, c.control.Value()); err != nil {
			c.registry.deps.Logger.Warn("save value failed", "key", c.key, "err", err)
		}
	}
	c.registry.release(c)
	c.registry.deps.Logger.Debug("detached", "control", c.id, "key", c.key, "cancelled", c.escapeArmed)
}

func (c *Controller) refresh(value string) {
	defer func() {
		if r := recover(); r != nil {
			c.registry.deps.Logger.Warn("suggestion refresh failed", "control", c.id, "panic", r)
			c.results = nil
			c.suggestions = nil
			c.selection = 0
		}
	}()

	c.results = c.registry.deps.Ranker.Search(c.registry.deps.Store.Get(c.key), value)
	c.suggestions = rank.Strings(c.results)
	c.lastQuery = value
	if c.selection > len(c.suggestions) {
		c.selection = len(c.suggestions)
	}

	items := make([]overlay.Item, len(c.results))
	for i, r := range c.results {
		items[i] = overlay.Item{Text: r.Original, Display: r.Display}
	}
	surface := c.registry.deps.Overlay
	surface.Set(c.id, items)
	surface.Highlight(c.selection)
}

func (c *Controller) commit(k int) {
	c.control.SetValue(c.suggestions[k-1])
	c.selection = 0
	c.dismiss()
	c.lastQuery = ""
}

// dismiss drops the current suggestions and clears the overlay, whichever
// field rendered it.
func (c *Controller) dismiss() {
	c.reset()
	c.registry.deps.Overlay.Clear()
}

func (c *Controller) reset() {
	c.results = nil
	c.suggestions = nil
	c.selection = 0
	c.lastQuery = ""
}

func (c *Controller) highlight() {
	surface := c.registry.deps.Overlay
	if surface.Owner() == c.id {
		surface.Highlight(c.selection)
	}
}
