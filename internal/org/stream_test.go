package org

import "testing"

func TestStream_LinesAndNumbers(t *testing.T) {
	s := NewStream("a\r\nb\nc")

	if got := s.LineNumber(); got != 0 {
		t.Errorf("expected line number 0, got %d", got)
	}
	line, ok := s.PeekNextLine()
	if !ok || line != "a" {
		t.Fatalf("expected peek %q, got %q (ok=%v)", "a", line, ok)
	}
	if got := s.LineNumber(); got != 0 {
		t.Errorf("peek must not advance, got line number %d", got)
	}

	var lines []string
	for s.HasNext() {
		l, _ := s.GetNextLine()
		lines = append(lines, l)
	}
	if len(lines) != 3 || lines[0] != "a" || lines[1] != "b" || lines[2] != "c" {
		t.Errorf("unexpected lines: %q", lines)
	}
	if got := s.LineNumber(); got != 3 {
		t.Errorf("expected line number 3, got %d", got)
	}
	if _, ok := s.GetNextLine(); ok {
		t.Error("expected exhausted stream")
	}
}

func TestStream_Offset(t *testing.T) {
	s := newStreamAt("x\ny", 10)
	s.GetNextLine()
	if got := s.LineNumber(); got != 11 {
		t.Errorf("expected line number 11, got %d", got)
	}
}
