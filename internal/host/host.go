package host

import (
	"github.com/google/uuid"
)

// Kind classifies a node in the document tree.
type Kind int

const (
	KindContainer Kind = iota
	KindTextInput
	KindTextArea
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindTextInput:
		return "input"
	case KindTextArea:
		return "textarea"
	case KindLabel:
		return "label"
	default:
		return "unknown"
	}
}

// ParseKind maps a layout name to a Kind.
func ParseKind(value string) (Kind, bool) {
	switch value {
	case "container", "section", "group":
		return KindContainer, true
	case "input", "text":
		return KindTextInput, true
	case "textarea":
		return KindTextArea, true
	case "label":
		return KindLabel, true
	}
	return KindContainer, false
}

// IsTextEntry reports whether nodes of this kind accept typed text.
func (k Kind) IsTextEntry() bool {
	return k == KindTextInput || k == KindTextArea
}

// Node is an element of a Document.
type Node struct {
	id       string
	kind     Kind
	name     string
	elemID   string
	label    string
	value    string
	parent   *Node
	children []*Node
	doc      *Document
}

// ID returns the node's identity, unique for the life of the process.
func (n *Node) ID() string { return n.id }

func (n *Node) Kind() Kind { return n.kind }

// Name returns the declared name attribute.
func (n *Node) Name() string { return n.name }

// ElemID returns the declared element id attribute.
func (n *Node) ElemID() string { return n.elemID }

func (n *Node) Label() string { return n.label }

func (n *Node) SetLabel(label string) { n.label = label }

// Value returns the current text.
func (n *Node) Value() string { return n.value }

// SetValue replaces the current text. Value changes are not tree mutations
// and are not reported to observers.
func (n *Node) SetValue(value string) { n.value = value }

func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Connected reports whether the node is attached to its document's root.
func (n *Node) Connected() bool {
	if n.doc == nil {
		return false
	}
	return n.doc.Contains(n)
}

// Mutation records the children added to or removed from Target.
type Mutation struct {
	Target  *Node
	Added   []*Node
	Removed []*Node
}

// Observer receives mutation batches until disconnected.
type Observer struct {
	doc      *Document
	callback func([]Mutation)
	active   bool
}

// Disconnect stops delivery to the observer.
func (o *Observer) Disconnect() {
	if o == nil || !o.active {
		return
	}
	o.active = false
	o.doc.removeObserver(o)
}

// Document is a tree of nodes whose structural changes are reported to
// observers in batches. Changes are queued and delivered only by Flush, so
// code running between a change and the flush sees the new tree while the
// observers have not yet been told.
type Document struct {
	root      *Node
	observers []*Observer
	pending   []Mutation
}

// NewDocument creates a document with an empty root container.
func NewDocument() *Document {
	d := &Document{}
	d.root = d.NewNode(KindContainer, "", "root")
	return d
}

func (d *Document) Root() *Node { return d.root }

// NewNode creates a detached node owned by d.
func (d *Document) NewNode(kind Kind, name, elemID string) *Node {
	return &Node{
		id:     uuid.NewString(),
		kind:   kind,
		name:   name,
		elemID: elemID,
		doc:    d,
	}
}

// Append adds child as the last child of parent, detaching it from any
// previous parent first.
func (d *Document) Append(parent, child *Node) {
	d.Insert(parent, child, len(parent.children))
}

// Insert adds child at position idx among parent's children.
func (d *Document) Insert(parent, child *Node, idx int) {
	if child.parent != nil {
		d.Remove(child)
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(parent.children) {
		idx = len(parent.children)
	}
	parent.children = append(parent.children, nil)
	copy(parent.children[idx+1:], parent.children[idx:])
	parent.children[idx] = child
	child.parent = parent
	d.pending = append(d.pending, Mutation{Target: parent, Added: []*Node{child}})
}

// Remove detaches node from its parent. Removing a detached node is a no-op.
func (d *Document) Remove(node *Node) {
	parent := node.parent
	if parent == nil {
		return
	}
	for i, child := range parent.children {
		if child == node {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	node.parent = nil
	d.pending = append(d.pending, Mutation{Target: parent, Removed: []*Node{node}})
}

// Replace swaps old for replacement at the same position.
func (d *Document) Replace(old, replacement *Node) {
	parent := old.parent
	if parent == nil {
		return
	}
	idx := IndexOf(parent.children, old)
	d.Remove(old)
	d.Insert(parent, replacement, idx)
}

// Contains reports whether node is reachable from the root.
func (d *Document) Contains(node *Node) bool {
	for n := node; n != nil; n = n.parent {
		if n == d.root {
			return true
		}
	}
	return false
}

// Observe registers callback for future mutation batches.
func (d *Document) Observe(callback func([]Mutation)) *Observer {
	o := &Observer{doc: d, callback: callback, active: true}
	d.observers = append(d.observers, o)
	return o
}

// Pending returns the number of queued, undelivered mutations.
func (d *Document) Pending() int {
	return len(d.pending)
}

// Flush delivers the queued mutations to every observer as one batch and
// reports whether anything was delivered.
func (d *Document) Flush() bool {
	if len(d.pending) == 0 {
		return false
	}
	batch := d.pending
	d.pending = nil
	for _, o := range append([]*Observer(nil), d.observers...) {
		if o.active {
			o.callback(batch)
		}
	}
	return true
}

// Walk visits node and its descendants depth-first.
func Walk(node *Node, visit func(*Node)) {
	if node == nil {
		return
	}
	visit(node)
	for _, child := range node.children {
		Walk(child, visit)
	}
}

// Controls returns the text-entry nodes in node's subtree, node included.
func Controls(node *Node) []*Node {
	var controls []*Node
	Walk(node, func(n *Node) {
		if n.kind.IsTextEntry() {
			controls = append(controls, n)
		}
	})
	return controls
}

// FindByID returns the node with the given identity in d's tree.
func (d *Document) FindByID(id string) *Node {
	var found *Node
	Walk(d.root, func(n *Node) {
		if found == nil && n.id == id {
			found = n
		}
	})
	return found
}

func (d *Document) removeObserver(target *Observer) {
	for i, o := range d.observers {
		if o == target {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// IndexOf returns the position of target in nodes, or len(nodes) when absent.
func IndexOf(nodes []*Node, target *Node) int {
	for i, n := range nodes {
		if n == target {
			return i
		}
	}
	return len(nodes)
}
