package token

import (
	"github.com/LMascagni/simasm/pkg/isa"
	"github.com/LMascagni/simasm/pkg/section"
)

// Section is the tokenized body of one section.
type Section struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	MarkerLine int    `json:"marker_line"`
	Lines      []Line `json:"lines"`
}

// TokenizeSection classifies every body line of s, the section at position
// index in document order.
func TokenizeSection(s section.Section, index int) Section {
	out := Section{Index: index, Name: s.Name, MarkerLine: s.MarkerLine}
	for i, text := range s.Lines() {
		line := i + 1
		out.Lines = append(out.Lines, Line{
			Index:   line,
			DocLine: s.MarkerLine + line,
			Tokens:  TokenizeLine(text, line),
		})
	}
	return out
}

// TokenizeAll tokenizes every section in order.
func TokenizeAll(sections []section.Section) []Section {
	out := make([]Section, len(sections))
	for i, s := range sections {
		out[i] = TokenizeSection(s, i)
	}
	return out
}

// TokenizeLine classifies a single line; line is stamped on every token.
func TokenizeLine(text string, line int) []Token {
	code, comment := SplitComment(text)

	var (
		toks    []Token
		pending bool
	)
	emit := func(k Kind, start, end int, label string) {
		toks = append(toks, Token{Kind: k, Text: code[start:end], Line: line, Col: start, Label: label})
	}

	for i := 0; i < len(code); {
		start := i
		switch c := code[i]; {
		case isSpace(c):
			for i < len(code) && isSpace(code[i]) {
				i++
			}
			emit(Space, start, i, "")
		case isIdent(c):
			for i < len(code) && isIdent(code[i]) {
				i++
			}
			word := code[start:i]
			colon := i < len(code) && code[i] == ':'
			kind := classify(word, colon, &pending)
			label := ""
			if kind.IsLabel() {
				label = word
			}
			emit(kind, start, i, label)
		default:
			for i < len(code) && !isSpace(code[i]) && !isIdent(code[i]) {
				i++
			}
			emit(Text, start, i, "")
		}
	}

	if comment != "" {
		toks = append(toks, Token{Kind: Comment, Text: comment, Line: line, Col: len(code)})
	}
	return toks
}

func classify(word string, colon bool, pending *bool) Kind {
	if colon && IsLabelName(word) {
		return LabelDef
	}
	if *pending {
		*pending = false
		return LabelRef
	}
	if in, ok := isa.Lookup(word); ok {
		*pending = in.Jump
		return Instruction
	}
	switch {
	case isa.IsDirective(word):
		return Directive
	case isRegister(word):
		return Register
	case isNumeric(word):
		return Numeric
	case IsLabelName(word):
		return LabelRef
	}
	return Text
}

// SplitComment splits text at the first unescaped comment introducer.
// A ';' preceded by a backslash or inside a quoted literal is not a comment.
func SplitComment(text string) (code, comment string) {
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == section.CommentIntroducer:
			return text[:i], text[i:]
		}
	}
	return text, ""
}

// IsLabelName reports whether s matches [A-Za-z_][A-Za-z0-9_]*.
func IsLabelName(s string) bool {
	if s == "" || isDigit(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdent(s[i]) {
			return false
		}
	}
	return true
}

func isRegister(s string) bool {
	if len(s) < 2 || (s[0] != 'R' && s[0] != 'r') {
		return false
	}
	return allDigits(s[1:])
}

func isNumeric(s string) bool {
	switch {
	case s == "":
		return false
	case len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		return allFunc(s[2:], isHex)
	case len(s) > 2 && s[0] == '0' && (s[1] == 'b' || s[1] == 'B'):
		return allFunc(s[2:], func(c byte) bool { return c == '0' || c == '1' })
	case len(s) > 1 && isDigit(s[0]) && (s[len(s)-1] == 'h' || s[len(s)-1] == 'H'):
		return allFunc(s[:len(s)-1], isHex)
	}
	return allDigits(s)
}

func allDigits(s string) bool { return s != "" && allFunc(s, isDigit) }

func allFunc(s string, f func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if !f(s[i]) {
			return false
		}
	}
	return true
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdent(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
