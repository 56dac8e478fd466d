package section

import (
	"strings"

	"github.com/LMascagni/simasm/pkg/source"
)

// CommentIntroducer starts a comment in SIMASM source.
const CommentIntroducer = ';'

// MinDelimiterRun is the shortest delimiter run accepted in a marker.
const MinDelimiterRun = 3

// MarkerExample is shown to users when a document has no sections.
const MarkerExample = "; --- SECTION NAME ---"

// Section is a named, contiguous run of source lines.
// Line numbers are 0-based document lines; the marker line itself is not part
// of the body.
type Section struct {
	Name       string
	MarkerLine int
	StartLine  int
	EndLine    int
	Content    string
}

// LineCount returns the number of body lines (0 when two markers are adjacent).
func (s Section) LineCount() int {
	return max(0, s.EndLine-s.StartLine+1)
}

// Lines returns the body split into lines.
func (s Section) Lines() []string {
	if s.LineCount() == 0 {
		return nil
	}
	return strings.Split(s.Content, "\n")
}

// Contains reports whether document line i lies in the section body.
func (s Section) Contains(i int) bool {
	return i >= s.StartLine && i <= s.EndLine
}

// Extract scans src for marker lines and returns the sections in document order.
func Extract(src source.Lines) []Section {
	n := src.LineCount()

	// Pass 1: markers and ranges.
	var sections []Section
	for i := range n {
		name, ok := ParseMarker(src.Line(i))
		if !ok {
			continue
		}
		if k := len(sections); k > 0 {
			sections[k-1].EndLine = i - 1
		}
		sections = append(sections, Section{
			Name:       name,
			MarkerLine: i,
			StartLine:  i + 1,
			EndLine:    n - 1,
		})
	}

	// Pass 2: content.
	for i := range sections {
		s := &sections[i]
		if s.LineCount() == 0 {
			continue
		}
		body := make([]string, 0, s.LineCount())
		for l := s.StartLine; l <= s.EndLine; l++ {
			body = append(body, src.Line(l))
		}
		s.Content = strings.Join(body, "\n")
	}
	return sections
}

// ParseMarker reports whether line is a section marker and returns its name.
// The opening and closing runs use the same character but may differ in
// length. The name is trimmed; a marker with an empty name (a plain rule such as
// "; ------") is not a section marker.
func ParseMarker(line string) (string, bool) {
	rest := strings.TrimLeft(line, " \t")
	if rest == "" || rest[0] != CommentIntroducer {
		return "", false
	}
	rest = strings.TrimLeft(rest[1:], " \t")
	if rest == "" || !isDelimiter(rest[0]) {
		return "", false
	}

	delim := rest[0]
	run := 0
	for run < len(rest) && rest[run] == delim {
		run++
	}
	if run < MinDelimiterRun {
		return "", false
	}

	body := strings.TrimRight(rest[run:], " \t")
	closing := len(body) - len(strings.TrimRight(body, string(delim)))
	if closing < MinDelimiterRun {
		return "", false
	}
	name := strings.TrimSpace(body[:len(body)-closing])
	if name == "" {
		return "", false
	}
	return name, true
}

func isDelimiter(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return false
	case c == '_' || c == ' ' || c == '\t' || c == CommentIntroducer:
		return false
	}
	return c > ' ' && c < 0x7f
}
