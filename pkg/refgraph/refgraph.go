// Package refgraph links label references to their definitions.
//
// Build walks every tokenized section once and returns a Graph only after all
// sections have been processed. When a label is defined more than once the
// last definition wins; the overwritten ones are kept in Graph.Duplicates so
// callers can report them.
package refgraph

import (
	"github.com/LMascagni/simasm/pkg/token"
)

// Definition is the declared target of a label.
type Definition struct {
	Name    string `json:"name"`
	Section int    `json:"section"`
	Line    int    `json:"line"`
	// DocLine is the 0-based document line of the definition.
	DocLine int `json:"doc_line"`
	Col     int `json:"col"`
}

// AnchorKey identifies the definition token in rendered output.
func (d Definition) AnchorKey() string {
	return token.AnchorKey(token.LabelDef, d.Section, d.Line, d.Col)
}

// Reference is one use of a label, resolved or not.
type Reference struct {
	Name    string `json:"name"`
	Section int    `json:"section"`
	Line    int    `json:"line"`
	DocLine int    `json:"doc_line"`
	Col     int    `json:"col"`
	// Index is the position of this reference within its label's list.
	Index     int    `json:"index"`
	AnchorKey string `json:"anchor_key"`
}

// Graph is the reference graph of a document.
type Graph struct {
	Definitions map[string]Definition  `json:"definitions"`
	References  map[string][]Reference `json:"references"`
	// Order lists referenced label names in first-seen order.
	Order      []string     `json:"order"`
	Duplicates []Definition `json:"duplicates,omitempty"`
}

// Build constructs the graph from tokenized sections.
func Build(sections []token.Section) *Graph {
	g := &Graph{
		Definitions: make(map[string]Definition),
		References:  make(map[string][]Reference),
	}
	for _, s := range sections {
		for _, line := range s.Lines {
			for _, t := range line.Labels() {
				switch t.Kind {
				case token.LabelDef:
					g.define(Definition{
						Name:    t.Label,
						Section: s.Index,
						Line:    t.Line,
						DocLine: line.DocLine,
						Col:     t.Col,
					})
				case token.LabelRef:
					g.reference(t, s.Index, line.DocLine)
				}
			}
		}
	}
	return g
}

func (g *Graph) define(d Definition) {
	if prev, ok := g.Definitions[d.Name]; ok {
		g.Duplicates = append(g.Duplicates, prev)
	}
	g.Definitions[d.Name] = d
}

func (g *Graph) reference(t token.Token, section, docLine int) {
	refs, seen := g.References[t.Label]
	if !seen {
		g.Order = append(g.Order, t.Label)
	}
	g.References[t.Label] = append(refs, Reference{
		Name:      t.Label,
		Section:   section,
		Line:      t.Line,
		DocLine:   docLine,
		Col:       t.Col,
		Index:     len(refs),
		AnchorKey: token.AnchorKey(token.LabelRef, section, t.Line, t.Col),
	})
}

// Resolved reports whether name has a definition.
func (g *Graph) Resolved(name string) bool {
	_, ok := g.Definitions[name]
	return ok
}

// Lookup returns the document line on which name is defined.
func (g *Graph) Lookup(name string) (int, bool) {
	d, ok := g.Definitions[name]
	return d.DocLine, ok
}

// Routable counts references whose label has a definition.
func (g *Graph) Routable() int {
	n := 0
	for _, name := range g.Order {
		if g.Resolved(name) {
			n += len(g.References[name])
		}
	}
	return n
}

// Unresolved returns referenced names with no definition, in first-seen order.
func (g *Graph) Unresolved() []string {
	var out []string
	for _, name := range g.Order {
		if !g.Resolved(name) {
			out = append(out, name)
		}
	}
	return out
}
