package form

import (
	"testing"

	"github.com/adamavenir/recall/internal/history"
	"github.com/adamavenir/recall/internal/rank"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T, store *history.Store, exclude ...string) *Model {
	t.Helper()
	m, err := NewModel(Options{
		Store:   store,
		Ranker:  rank.NewDefault(rank.DefaultLimit, nil),
		Exclude: exclude,
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func newTestStore() *history.Store {
	return history.NewStore(history.NewMemoryKV())
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func press(m *Model, keyType tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: keyType})
	return cmd
}

func flush(m *Model) {
	for i := 0; i < 4 && m.doc.Pending() > 0; i++ {
		m.Update(flushMsg{})
	}
	if m.closing != closeNone && !m.done {
		m.Update(flushMsg{})
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func TestNewModelAttachesDefaultLayout(t *testing.T) {
	m := newTestModel(t, newTestStore())
	if got := m.Registry().Len(); got != 5 {
		t.Fatalf("expected 5 controllers, got %d", got)
	}
	focused := m.Focused()
	if focused == nil || focused.Name() != "name" {
		t.Fatalf("expected focus on name field, got %v", focused)
	}
}

func TestExcludedFieldsAreNotAttached(t *testing.T) {
	m := newTestModel(t, newTestStore(), "e*")
	if got := m.Registry().Len(); got != 4 {
		t.Fatalf("expected 4 controllers, got %d", got)
	}
}

func TestTypingShowsSuggestionsAndEnterCommits(t *testing.T) {
	store := newTestStore()
	_ = store.Add("name", "alice")
	_ = store.Add("name", "alan")
	m := newTestModel(t, store)

	typeText(m, "al")
	focused := m.Focused()
	if m.Overlay().Len() != 2 {
		t.Fatalf("expected 2 suggestions, got %d", m.Overlay().Len())
	}
	if m.Overlay().Owner() != focused.ID() {
		t.Fatalf("overlay should belong to the focused field")
	}

	press(m, tea.KeyDown)
	if m.Overlay().Selected() != 1 {
		t.Fatalf("expected first row selected, got %d", m.Overlay().Selected())
	}
	press(m, tea.KeyEnter)

	value := focused.Value()
	if value != "alice" && value != "alan" {
		t.Fatalf("expected committed suggestion, got %q", value)
	}
	if got := m.widgets[focused.ID()].value(); got != value {
		t.Fatalf("widget shows %q, node holds %q", got, value)
	}
	if m.Overlay().Len() != 0 {
		t.Fatalf("overlay should close after commit")
	}
}

func TestSubmitSavesValues(t *testing.T) {
	store := newTestStore()
	m := newTestModel(t, store)

	typeText(m, "bob")
	if cmd := press(m, tea.KeyCtrlS); cmd == nil {
		t.Fatalf("submit should schedule a flush")
	}
	flush(m)

	if !m.Done() {
		t.Fatalf("form should be done after submit")
	}
	if !contains(store.Get("name"), "bob") {
		t.Fatalf("expected bob saved, got %v", store.Get("name"))
	}
	if m.Registry().Len() != 0 {
		t.Fatalf("all controllers should detach, %d left", m.Registry().Len())
	}
	result := m.Result()
	if !result.Submitted || len(result.Values) != 5 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Values[0].Key != "name" || result.Values[0].Value != "bob" {
		t.Fatalf("unexpected first value %+v", result.Values[0])
	}
}

func TestDoubleEscapeClosesWithoutSavingField(t *testing.T) {
	store := newTestStore()
	m := newTestModel(t, store)

	typeText(m, "zed")
	press(m, tea.KeyEsc)
	if m.closing != closeNone {
		t.Fatalf("first escape should only dismiss")
	}
	press(m, tea.KeyEsc)
	if m.closing != closeCancel {
		t.Fatalf("second escape should close the form")
	}
	flush(m)

	if contains(store.Get("name"), "zed") {
		t.Fatalf("escaped field must not be saved")
	}
	if !m.Result().Cancelled {
		t.Fatalf("result should be cancelled")
	}
}

func TestFocusChangeClearsOtherFieldSuggestions(t *testing.T) {
	store := newTestStore()
	_ = store.Add("name", "alice")
	_ = store.Add("name", "alan")
	m := newTestModel(t, store)

	typeText(m, "al")
	if m.Overlay().Len() != 2 {
		t.Fatalf("expected 2 suggestions, got %d", m.Overlay().Len())
	}
	press(m, tea.KeyTab)
	if m.Focused().Name() != "email" {
		t.Fatalf("expected focus on email, got %q", m.Focused().Name())
	}
	if m.Overlay().Len() != 0 {
		t.Fatalf("suggestions for name still shown after tab")
	}

	press(m, tea.KeyEsc)
	if m.Overlay().Len() != 0 {
		t.Fatalf("overlay should stay empty after escape, got %d rows", m.Overlay().Len())
	}
	if m.closing != closeNone {
		t.Fatalf("first escape on email should only dismiss")
	}
}

func TestRemoveFieldSavesOnFlush(t *testing.T) {
	store := newTestStore()
	m := newTestModel(t, store)

	typeText(m, "dora")
	press(m, tea.KeyCtrlD)
	if m.Registry().Len() != 5 {
		t.Fatalf("controller should stay attached until flush")
	}
	if contains(store.Get("name"), "dora") {
		t.Fatalf("value saved before flush")
	}
	flush(m)

	if m.Registry().Len() != 4 {
		t.Fatalf("expected 4 controllers, got %d", m.Registry().Len())
	}
	if !contains(store.Get("name"), "dora") {
		t.Fatalf("expected dora saved, got %v", store.Get("name"))
	}
	if focused := m.Focused(); focused == nil || focused.Name() == "name" {
		t.Fatalf("focus should move off the removed field")
	}
}

func TestAddFieldSharesKey(t *testing.T) {
	m := newTestModel(t, newTestStore())
	press(m, tea.KeyCtrlN)
	flush(m)

	if m.Registry().Len() != 6 {
		t.Fatalf("expected 6 controllers, got %d", m.Registry().Len())
	}
	focused := m.Focused()
	if focused.Name() != "name" || focused.Value() != "" {
		t.Fatalf("expected empty name field focused, got %q=%q", focused.Name(), focused.Value())
	}
}

func TestRewriteSectionReattaches(t *testing.T) {
	store := newTestStore()
	m := newTestModel(t, store)
	before := m.Focused()

	typeText(m, "carol")
	press(m, tea.KeyCtrlR)
	flush(m)

	if m.Registry().Len() != 5 {
		t.Fatalf("expected 5 controllers, got %d", m.Registry().Len())
	}
	if _, ok := m.Registry().Get(before.ID()); ok {
		t.Fatalf("old control should be detached")
	}
	if !contains(store.Get("name"), "carol") {
		t.Fatalf("expected carol saved, got %v", store.Get("name"))
	}
	after := m.Focused()
	ctl, ok := m.Registry().Get(after.ID())
	if !ok || ctl.StartText() != "carol" {
		t.Fatalf("rewritten field should start from carol")
	}
}

func TestCtrlCQuitsWithoutSaving(t *testing.T) {
	store := newTestStore()
	m := newTestModel(t, store)

	typeText(m, "eve")
	if cmd := press(m, tea.KeyCtrlC); cmd == nil {
		t.Fatalf("ctrl+c should quit")
	}
	if !m.Done() {
		t.Fatalf("form should be done")
	}
	if len(store.Get("name")) != 0 {
		t.Fatalf("nothing should be saved, got %v", store.Get("name"))
	}
}

func TestTabCyclesFocus(t *testing.T) {
	m := newTestModel(t, newTestStore())
	first := m.Focused()
	for i := 0; i < 5; i++ {
		press(m, tea.KeyTab)
	}
	if m.Focused() != first {
		t.Fatalf("tab should wrap back to the first field")
	}
	press(m, tea.KeyShiftTab)
	if m.Focused().Name() != "notes" {
		t.Fatalf("shift+tab should wrap to the last field, got %q", m.Focused().Name())
	}
}

func TestViewRendersSuggestions(t *testing.T) {
	store := newTestStore()
	_ = store.Add("name", "alice")
	m := newTestModel(t, store)
	typeText(m, "ali")

	view := m.View()
	if view == "" {
		t.Fatalf("expected view output")
	}
	if m.Overlay().View(40) == "" {
		t.Fatalf("expected overlay rows")
	}
}

func TestParseLayout(t *testing.T) {
	layout, err := ParseLayout([]byte(`
sections:
  - label: Login
    fields:
      - {kind: input, name: user, label: User}
      - {kind: textarea, id: bio}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if layout.Title != "recall" || len(layout.Sections[0].Fields) != 2 {
		t.Fatalf("unexpected layout %+v", layout)
	}

	bad := []string{
		"sections: []",
		"sections:\n  - fields:\n      - {kind: button}\n",
		"sections:\n  - fields:\n      - {kind: section}\n",
		"sections: [",
	}
	for _, input := range bad {
		if _, err := ParseLayout([]byte(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}
