package form

import (
	"fmt"
	"os"

	"github.com/adamavenir/recall/internal/host"
	"gopkg.in/yaml.v3"
)

// Layout describes the form a document is built from.
type Layout struct {
	Title    string    `yaml:"title"`
	Sections []Section `yaml:"sections"`
}

// Section groups fields. Ctrl-R rewrites a whole section.
type Section struct {
	Label  string        `yaml:"label"`
	Fields []FieldLayout `yaml:"fields"`
}

// FieldLayout is one node inside a section.
type FieldLayout struct {
	Kind  string `yaml:"kind"`
	Name  string `yaml:"name"`
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// DefaultLayout is used when no layout file is given.
func DefaultLayout() Layout {
	return Layout{
		Title: "recall",
		Sections: []Section{
			{
				Label: "Contact",
				Fields: []FieldLayout{
					{Kind: "input", Name: "name", Label: "Name"},
					{Kind: "input", Name: "email", Label: "Email"},
					{Kind: "input", ID: "city", Label: "City"},
				},
			},
			{
				Label: "Search",
				Fields: []FieldLayout{
					{Kind: "input", Name: "q", Label: "Query"},
					{Kind: "label", Label: "Ctrl-N adds another query field"},
				},
			},
			{
				Label: "Notes",
				Fields: []FieldLayout{
					{Kind: "textarea", Name: "notes", Label: "Notes"},
				},
			},
		},
	}
}

// LoadLayout reads a YAML layout file.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, err
	}
	return ParseLayout(data)
}

// ParseLayout decodes and validates a YAML layout.
func ParseLayout(data []byte) (Layout, error) {
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	if len(layout.Sections) == 0 {
		return Layout{}, fmt.Errorf("layout has no sections")
	}
	for i, section := range layout.Sections {
		for j, entry := range section.Fields {
			kind, ok := host.ParseKind(entry.Kind)
			if !ok {
				return Layout{}, fmt.Errorf("section %d field %d: unknown kind %q", i+1, j+1, entry.Kind)
			}
			if kind == host.KindContainer {
				return Layout{}, fmt.Errorf("section %d field %d: nested sections are not supported", i+1, j+1)
			}
		}
	}
	if layout.Title == "" {
		layout.Title = "recall"
	}
	return layout, nil
}

// Build appends one container per section to the document root. The
// mutations stay queued until the document is flushed.
func Build(doc *host.Document, layout Layout) []*host.Node {
	sections := make([]*host.Node, 0, len(layout.Sections))
	for _, section := range layout.Sections {
		container := doc.NewNode(host.KindContainer, "", "")
		container.SetLabel(section.Label)
		for _, entry := range section.Fields {
			kind, _ := host.ParseKind(entry.Kind)
			node := doc.NewNode(kind, entry.Name, entry.ID)
			node.SetLabel(entry.Label)
			node.SetValue(entry.Value)
			doc.Append(container, node)
		}
		doc.Append(doc.Root(), container)
		sections = append(sections, container)
	}
	return sections
}

// cloneNode copies node and its subtree into fresh, detached nodes carrying
// the current values.
func cloneNode(doc *host.Document, node *host.Node) *host.Node {
	clone := doc.NewNode(node.Kind(), node.Name(), node.ElemID())
	clone.SetLabel(node.Label())
	clone.SetValue(node.Value())
	for _, child := range node.Children() {
		doc.Append(clone, cloneNode(doc, child))
	}
	return clone
}
