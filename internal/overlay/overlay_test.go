package overlay

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func sampleItems() []Item {
	return []Item{
		{Text: "hello", Display: "hello"},
		{Text: "help", Display: "help"},
		{Text: "held", Display: "held"},
	}
}

func TestSetReplacesRows(t *testing.T) {
	o := New(nil)
	o.Set("a", sampleItems())
	o.Highlight(2)
	o.Set("b", sampleItems()[:1])

	if o.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", o.Len())
	}
	if o.Selected() != 0 {
		t.Fatalf("highlight survived Set: %d", o.Selected())
	}
	if o.Owner() != "b" {
		t.Fatalf("owner = %q", o.Owner())
	}
}

func TestHighlightBounds(t *testing.T) {
	tests := []struct {
		k    int
		want int
	}{
		{0, 0},
		{1, 1},
		{3, 3},
		{4, 0},
		{-1, 0},
	}
	for _, tt := range tests {
		o := New(nil)
		o.Set("a", sampleItems())
		o.Highlight(tt.k)
		if got := o.Selected(); got != tt.want {
			t.Errorf("Highlight(%d) -> %d, want %d", tt.k, got, tt.want)
		}
	}
}

func TestClearRemovesEverything(t *testing.T) {
	o := New(nil)
	o.Set("a", sampleItems())
	o.Highlight(1)
	o.Clear()

	if o.Len() != 0 || o.Selected() != 0 || o.Owner() != "" {
		t.Fatalf("state survived clear: len=%d sel=%d owner=%q", o.Len(), o.Selected(), o.Owner())
	}
	if view := o.View(40); view != "" {
		t.Fatalf("expected empty view, got %q", view)
	}
}

func TestViewMarksSelectedRow(t *testing.T) {
	o := New(nil)
	o.Set("a", sampleItems())
	o.Highlight(2)

	view := o.View(40)
	lines := strings.Split(view, "\n")
	found := false
	for _, line := range lines {
		if strings.Contains(line, "> help") {
			found = true
		}
		if strings.Contains(line, "> hello") || strings.Contains(line, "> held") {
			t.Fatalf("wrong row selected: %q", line)
		}
	}
	if !found {
		t.Fatalf("selected row missing from view:\n%s", view)
	}
	if o.Height(40) != len(lines) {
		t.Fatalf("height %d != %d lines", o.Height(40), len(lines))
	}
}

func TestDestroyHidesOverlay(t *testing.T) {
	o := New(nil)
	o.Set("a", sampleItems())
	o.Destroy()
	if o.Created() {
		t.Fatal("overlay still created")
	}
	if o.View(40) != "" {
		t.Fatal("destroyed overlay rendered")
	}
}

func TestHandleClickWithoutZones(t *testing.T) {
	o := New(nil)
	o.Set("a", sampleItems())
	if _, ok := o.HandleClick(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}); ok {
		t.Fatal("click resolved without zones")
	}
}
