package editor

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"
)

// Cursor is a zero-based position: Line counts lines, Ch counts runes within the line.
type Cursor struct {
	Line int `json:"line"`
	Ch   int `json:"ch"`
}

// End is a cursor past the last line. Clipping moves it to the end of the document.
var End = Cursor{Line: math.MaxInt32}

// Sink receives formatted text at the caller's insertion point.
type Sink interface {
	Insert(ctx context.Context, text string, at Cursor) error
}

// Document is an in-memory text buffer split into lines.
type Document struct {
	lines []string
}

// NewDocument splits text on "\n". A trailing newline yields an empty last line.
func NewDocument(text string) *Document {
	return &Document{lines: strings.Split(text, "\n")}
}

// String joins the lines back together.
func (d *Document) String() string {
	return strings.Join(d.lines, "\n")
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Clip moves a cursor onto the nearest valid position.
func (d *Document) Clip(at Cursor) Cursor {
	last := len(d.lines) - 1
	if at.Line < 0 {
		return Cursor{Line: 0, Ch: 0}
	}
	if at.Line > last {
		return Cursor{Line: last, Ch: utf8.RuneCountInString(d.lines[last])}
	}
	n := utf8.RuneCountInString(d.lines[at.Line])
	switch {
	case at.Ch < 0:
		at.Ch = 0
	case at.Ch > n:
		at.Ch = n
	}
	return at
}

// ReplaceRange inserts text verbatim at the (clipped) cursor and returns the
// position it was inserted at.
func (d *Document) ReplaceRange(text string, at Cursor) Cursor {
	at = d.Clip(at)
	line := d.lines[at.Line]
	offset := byteOffset(line, at.Ch)
	joined := line[:offset] + text + line[offset:]

	inserted := strings.Split(joined, "\n")
	lines := make([]string, 0, len(d.lines)+len(inserted)-1)
	lines = append(lines, d.lines[:at.Line]...)
	lines = append(lines, inserted...)
	lines = append(lines, d.lines[at.Line+1:]...)
	d.lines = lines
	return at
}

// byteOffset converts a rune offset in s into a byte offset.
func byteOffset(s string, runes int) int {
	i := 0
	for pos := range s {
		if i == runes {
			return pos
		}
		i++
	}
	return len(s)
}
