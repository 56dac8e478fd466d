// Package outline lists the symbols of a SIMASM document: sections, labels
// and data declarations.
//
// Labels and data declarations that follow a section marker are children of
// that section; those before the first marker are top-level symbols.
package outline

import (
	"strings"

	"github.com/LMascagni/simasm/pkg/section"
	"github.com/LMascagni/simasm/pkg/source"
	"github.com/LMascagni/simasm/pkg/token"
)

// Kind classifies a symbol.
type Kind int

const (
	Section Kind = iota
	Label
	Data
)

func (k Kind) String() string {
	switch k {
	case Section:
		return "section"
	case Label:
		return "label"
	case Data:
		return "data"
	}
	return "unknown"
}

// Symbol is one outline entry. Line is the 0-based document line.
type Symbol struct {
	Name     string   `json:"name"`
	Kind     Kind     `json:"kind"`
	Line     int      `json:"line"`
	Children []Symbol `json:"children,omitempty"`
}

// Build scans src and returns its top-level symbols in document order.
func Build(src source.Lines) []Symbol {
	var (
		symbols []Symbol
		current = -1
	)
	add := func(s Symbol) {
		if current >= 0 {
			symbols[current].Children = append(symbols[current].Children, s)
		} else {
			symbols = append(symbols, s)
		}
	}

	for i := range src.LineCount() {
		raw := src.Line(i)
		if name, ok := section.ParseMarker(raw); ok {
			symbols = append(symbols, Symbol{Name: name, Kind: Section, Line: i})
			current = len(symbols) - 1
			continue
		}

		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		if name, ok := labelName(text); ok {
			add(Symbol{Name: name, Kind: Label, Line: i})
			continue
		}
		if kw, ok := dataKeyword(text); ok {
			add(Symbol{Name: kw, Kind: Data, Line: i})
		}
	}
	return symbols
}

// labelName matches an identifier followed by optional blanks and a colon.
func labelName(text string) (string, bool) {
	end := 0
	for end < len(text) && text[end] != ':' && text[end] != ' ' && text[end] != '\t' {
		end++
	}
	name := text[:end]
	if !token.IsLabelName(name) {
		return "", false
	}
	rest := strings.TrimLeft(text[end:], " \t")
	if !strings.HasPrefix(rest, ":") {
		return "", false
	}
	return name, true
}

// dataKeyword matches a WORD or BYTE directive followed by an operand.
func dataKeyword(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", false
	}
	kw := strings.ToUpper(fields[0])
	if kw != "WORD" && kw != "BYTE" {
		return "", false
	}
	return kw, true
}

// Entry is a symbol with its nesting depth.
type Entry struct {
	Symbol
	Depth int
}

// Flatten lists symbols depth-first.
func Flatten(symbols []Symbol) []Entry {
	var out []Entry
	var walk func([]Symbol, int)
	walk = func(ss []Symbol, depth int) {
		for _, s := range ss {
			out = append(out, Entry{Symbol: s, Depth: depth})
			walk(s.Children, depth+1)
		}
	}
	walk(symbols, 0)
	return out
}
