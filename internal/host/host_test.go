package host

import "testing"

func TestMutationsAreBatchedUntilFlush(t *testing.T) {
	doc := NewDocument()
	var batches [][]Mutation
	doc.Observe(func(batch []Mutation) {
		batches = append(batches, batch)
	})

	section := doc.NewNode(KindContainer, "", "section")
	field := doc.NewNode(KindTextInput, "comment", "")
	doc.Append(section, field)
	doc.Append(doc.Root(), section)

	if len(batches) != 0 {
		t.Fatalf("delivered before flush: %d", len(batches))
	}
	if doc.Pending() != 2 {
		t.Fatalf("expected 2 pending, got %d", doc.Pending())
	}
	if !field.Connected() {
		t.Fatal("field should be connected before flush")
	}

	if !doc.Flush() {
		t.Fatal("flush reported nothing delivered")
	}
	if len(batches) != 1 || len(batches[0]) != 2 {
		t.Fatalf("unexpected batches: %+v", batches)
	}
	if doc.Flush() {
		t.Fatal("second flush should deliver nothing")
	}
}

func TestRemoveDisconnectsSubtree(t *testing.T) {
	doc := NewDocument()
	section := doc.NewNode(KindContainer, "", "")
	field := doc.NewNode(KindTextArea, "comment", "")
	doc.Append(section, field)
	doc.Append(doc.Root(), section)

	doc.Remove(section)
	if field.Connected() {
		t.Fatal("field still connected after ancestor removal")
	}
	doc.Remove(section)
	if doc.Pending() != 3 {
		t.Fatalf("removing a detached node should not queue, pending=%d", doc.Pending())
	}
}

func TestControlsFindsTextEntryNodes(t *testing.T) {
	doc := NewDocument()
	section := doc.NewNode(KindContainer, "", "")
	doc.Append(doc.Root(), section)
	doc.Append(section, doc.NewNode(KindLabel, "", ""))
	doc.Append(section, doc.NewNode(KindTextInput, "title", ""))
	doc.Append(section, doc.NewNode(KindTextArea, "comment", ""))

	controls := Controls(doc.Root())
	if len(controls) != 2 {
		t.Fatalf("expected 2 controls, got %d", len(controls))
	}
	if controls[0].Name() != "title" || controls[1].Name() != "comment" {
		t.Fatalf("unexpected order: %s, %s", controls[0].Name(), controls[1].Name())
	}
}

func TestReplaceKeepsPosition(t *testing.T) {
	doc := NewDocument()
	a := doc.NewNode(KindTextInput, "a", "")
	b := doc.NewNode(KindTextInput, "b", "")
	c := doc.NewNode(KindTextInput, "c", "")
	doc.Append(doc.Root(), a)
	doc.Append(doc.Root(), b)

	doc.Replace(a, c)
	children := doc.Root().Children()
	if len(children) != 2 || children[0] != c || children[1] != b {
		t.Fatalf("unexpected children after replace")
	}
	if a.Connected() {
		t.Fatal("replaced node still connected")
	}
}

func TestIndexOfMissingNodeIsLength(t *testing.T) {
	doc := NewDocument()
	a := doc.NewNode(KindTextInput, "a", "")
	b := doc.NewNode(KindTextInput, "b", "")
	doc.Append(doc.Root(), a)

	if got := IndexOf(doc.Root().Children(), a); got != 0 {
		t.Fatalf("IndexOf(a) = %d", got)
	}
	if got := IndexOf(doc.Root().Children(), b); got != 1 {
		t.Fatalf("IndexOf(missing) = %d, want 1", got)
	}
}

func TestDisconnectStopsDelivery(t *testing.T) {
	doc := NewDocument()
	calls := 0
	obs := doc.Observe(func([]Mutation) { calls++ })
	obs.Disconnect()
	obs.Disconnect()

	doc.Append(doc.Root(), doc.NewNode(KindTextInput, "a", ""))
	doc.Flush()
	if calls != 0 {
		t.Fatalf("disconnected observer called %d times", calls)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"textarea", KindTextArea, true},
		{"input", KindTextInput, true},
		{"section", KindContainer, true},
		{"checkbox", KindContainer, false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseKind(%q) = %v, %v", tt.in, got, ok)
		}
	}
}
