// Copyright © 2024 The scenelint authors

// Package document holds script text and converts between byte offsets and
// editor positions. Positions use 0-based lines and characters counted in
// UTF-16 code units, as the Language Server Protocol does.
package document

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Text is an immutable view of a script buffer with a line index.
type Text struct {
	content string
	starts  []int // byte offset of the first byte of each line
}

// New indexes content.
func New(content string) *Text {
	t := &Text{content: content}
	t.starts = append(t.starts, 0)
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			t.starts = append(t.starts, i+1)
		}
	}
	return t
}

// Content returns the full buffer.
func (t *Text) Content() string { return t.content }

// Len returns the buffer length in bytes.
func (t *Text) Len() int { return len(t.content) }

// LineCount returns the number of lines. An empty buffer has one line.
func (t *Text) LineCount() int { return len(t.starts) }

// Line returns the text of line i without its line terminator.
func (t *Text) Line(i int) string {
	if i < 0 || i >= len(t.starts) {
		return ""
	}
	end := len(t.content)
	if i+1 < len(t.starts) {
		end = t.starts[i+1] - 1
	}
	line := t.content[t.starts[i]:end]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}

// PositionAt converts a byte offset to a line and UTF-16 character. Offsets
// outside the buffer are clamped to it.
func (t *Text) PositionAt(offset int) (line, character int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(t.content) {
		offset = len(t.content)
	}
	line = sort.Search(len(t.starts), func(i int) bool { return t.starts[i] > offset }) - 1
	return line, utf16Len(t.content[t.starts[line]:offset])
}

// OffsetAt converts a line and UTF-16 character to a byte offset. Lines
// past the end map to the end of the buffer and characters past the end of
// a line map to the end of that line.
func (t *Text) OffsetAt(line, character int) int {
	if line < 0 {
		return 0
	}
	if line >= len(t.starts) {
		return len(t.content)
	}
	start := t.starts[line]
	text := t.Line(line)
	units := 0
	for i, r := range text {
		if units >= character {
			return start + i
		}
		units += runeUnits(r)
	}
	return start + len(text)
}

// Range converts a byte span to an LSP range.
func (t *Text) Range(start, end int) protocol.Range {
	sl, sc := t.PositionAt(start)
	el, ec := t.PositionAt(end)
	return protocol.Range{
		Start: Position(sl, sc),
		End:   Position(el, ec),
	}
}

// Position builds an LSP position, clamping negative values to zero.
func Position(line, character int) protocol.Position {
	return protocol.Position{Line: uinteger(line), Character: uinteger(character)}
}

func uinteger(n int) protocol.UInteger {
	u, err := safecast.Conv[protocol.UInteger](n)
	if err != nil {
		return 0
	}
	return u
}

// Apply returns a new Text with an LSP content change applied. A change
// without a range replaces the whole buffer.
func (t *Text) Apply(change any) (*Text, error) {
	switch c := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return New(c.Text), nil
	case protocol.TextDocumentContentChangeEvent:
		if c.Range == nil {
			return New(c.Text), nil
		}
		r := *c.Range
		if int(r.Start.Line) >= len(t.starts) {
			return nil, fmt.Errorf("start line %d out of range (0-%d)", r.Start.Line, len(t.starts)-1)
		}
		if int(r.End.Line) >= len(t.starts) {
			return nil, fmt.Errorf("end line %d out of range (0-%d)", r.End.Line, len(t.starts)-1)
		}
		start := t.OffsetAt(int(r.Start.Line), int(r.Start.Character))
		end := t.OffsetAt(int(r.End.Line), int(r.End.Character))
		if end < start {
			return nil, fmt.Errorf("range end %d:%d precedes start %d:%d",
				r.End.Line, r.End.Character, r.Start.Line, r.Start.Character)
		}
		return New(t.content[:start] + c.Text + t.content[end:]), nil
	default:
		return nil, fmt.Errorf("unsupported content change %T", change)
	}
}

func utf16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		n += runeUnits(r)
		s = s[size:]
	}
	return n
}

// runeUnits returns the number of UTF-16 code units r occupies.
func runeUnits(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}
