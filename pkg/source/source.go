// Package source provides line-addressable access to SIMASM documents.
//
// Every stage of the flowchart pipeline addresses text by 0-based line index.
// [Lines] is the minimal contract a hosting editor or file watcher has to
// satisfy; [Document] is the in-memory implementation used by the CLI and the
// live server.
package source

import (
	"os"
	"strings"

	"github.com/LMascagni/simasm/pkg/errors"
)

// Lines is a read-only, line-addressable view of a document.
type Lines interface {
	// LineCount returns the total number of lines.
	LineCount() int
	// Line returns the raw text of the 0-based line i, without its terminator.
	Line(i int) string
}

// Document is an immutable snapshot of a source file split into lines.
type Document struct {
	Path  string
	lines []string
}

// New splits text on "\n" and strips a trailing "\r" from each line.
// A trailing newline yields a final empty line, matching how editors count lines.
func New(path, text string) *Document {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &Document{Path: path, lines: lines}
}

// ReadFile loads a document from disk.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return New(path, string(data)), nil
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns line i, or "" when i is out of range.
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// Text joins all lines with "\n".
func (d *Document) Text() string { return strings.Join(d.lines, "\n") }

// CheckLine validates a 0-based line index against the document.
func (d *Document) CheckLine(i int) error {
	if i < 0 || i >= len(d.lines) {
		return errors.New(errors.ErrCodeLineOutOfRange, "line %d outside document (%d lines)", i, len(d.lines))
	}
	return nil
}

var _ Lines = (*Document)(nil)
