package org

import "regexp"

var lineBreak = regexp.MustCompile(`\r?\n`)

// Stream gives sequential, peekable access to the lines of a source text.
type Stream struct {
	lines      []string
	lineNumber int
	offset     int
}

// NewStream splits text into lines.
func NewStream(text string) *Stream {
	return &Stream{lines: lineBreak.Split(text, -1)}
}

// newStreamAt creates a stream whose line numbers start after offset.
// Nested parses use it so their tokens carry absolute line numbers.
func newStreamAt(text string, offset int) *Stream {
	s := NewStream(text)
	s.offset = offset
	return s
}

// LineNumber returns the number of lines consumed so far, including the
// stream's offset. After GetNextLine it is the 1-based number of the line
// just returned.
func (s *Stream) LineNumber() int {
	return s.offset + s.lineNumber
}

// PeekNextLine returns the next line without consuming it.
func (s *Stream) PeekNextLine() (string, bool) {
	if !s.HasNext() {
		return "", false
	}
	return s.lines[s.lineNumber], true
}

// GetNextLine consumes and returns the next line.
func (s *Stream) GetNextLine() (string, bool) {
	if !s.HasNext() {
		return "", false
	}
	line := s.lines[s.lineNumber]
	s.lineNumber++
	return line, true
}

// HasNext reports whether unread lines remain.
func (s *Stream) HasNext() bool {
	return s.lineNumber < len(s.lines)
}
