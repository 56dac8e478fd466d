// Package token classifies SIMASM source text for syntax highlighting.
//
// Each line is split into a comment (from the first unescaped ';' to the end
// of the line) and code. Code is split into whitespace runs, identifier runs
// and separator runs; identifier runs are classified with a fixed precedence:
//
//  1. followed by ':'                    → [LabelDef]
//  2. jump or call mnemonic              → [Instruction], next run becomes a reference
//  3. any other mnemonic                 → [Instruction]
//  4. data directive (word, byte)        → [Directive]
//  5. register (R + digits)              → [Register]
//  6. numeric literal                    → [Numeric]
//  7. pending reference or bare name     → [LabelRef]
//  8. anything else                      → [Text]
//
// A pending reference set by rule 2 takes precedence over rules 3 to 6, so
// "JMP R2" and "JMP 4" mark the operand as a reference; only a label
// definition keeps its own kind. Concatenating the token texts of a line reproduces the
// line byte for byte.
package token

import (
	"fmt"
	"strings"
)

// Kind is the syntactic class of a token.
type Kind uint8

const (
	Space Kind = iota
	Text
	Instruction
	LabelDef
	LabelRef
	Register
	Numeric
	Directive
	Comment
)

var kindNames = [...]string{
	Space:       "space",
	Text:        "text",
	Instruction: "instruction",
	LabelDef:    "label-def",
	LabelRef:    "label-ref",
	Register:    "register",
	Numeric:     "numeric",
	Directive:   "directive",
	Comment:     "comment",
}

// String returns the hyphenated kind name used in CSS classes and JSON.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// IsLabel reports whether the kind carries a label name.
func (k Kind) IsLabel() bool { return k == LabelDef || k == LabelRef }

// Token is a classified span of a source line.
type Token struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
	// Line is the line index within the section, counted from the marker
	// line: the first body line is 1.
	Line int `json:"line"`
	// Col is the byte offset of Text within the line.
	Col int `json:"col"`
	// Label is the label name for LabelDef and LabelRef tokens.
	Label string `json:"label,omitempty"`
}

// AnchorKey identifies a label token of section s in rendered output.
// It is empty for kinds that carry no label.
func AnchorKey(k Kind, s, line, col int) string {
	switch k {
	case LabelDef:
		return fmt.Sprintf("def-%d-%d-%d", s, line, col)
	case LabelRef:
		return fmt.Sprintf("ref-%d-%d-%d", s, line, col)
	}
	return ""
}

// Line is one tokenized source line.
type Line struct {
	Index   int     `json:"index"`
	DocLine int     `json:"doc_line"`
	Tokens  []Token `json:"tokens"`
}

// Text reconstructs the original line from its tokens.
func (l Line) Text() string {
	var b strings.Builder
	for _, t := range l.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Labels returns the label-carrying tokens of the line in order.
func (l Line) Labels() []Token {
	var out []Token
	for _, t := range l.Tokens {
		if t.Kind.IsLabel() {
			out = append(out, t)
		}
	}
	return out
}
