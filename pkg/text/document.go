package text

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bastiangx/bufcomplete/internal/utils"
)

// ErrOutOfRange is returned when an edit addresses text outside the buffer.
var ErrOutOfRange = errors.New("position out of range")

// Document is the read-only view of a text buffer the engine scans.
// Implementations must behave as an immutable snapshot for the duration of a request.
type Document interface {
	// LineCount returns the number of lines, at least 1 for any document.
	LineCount() int
	// LineText returns the text of row without its line terminator.
	// Rows outside the document yield "".
	LineText(row int) string
	// TextInRange returns the text covered by r, joining rows with "\n".
	TextInRange(r Range) string
}

// Buffer is an immutable line snapshot. Edits produce a new Buffer.
type Buffer struct {
	lines []string
}

// NewBuffer splits s on "\n" (a trailing "\r" is dropped from every line).
func NewBuffer(s string) *Buffer {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &Buffer{lines: lines}
}

// LineCount implements Document.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// LineText implements Document.
func (b *Buffer) LineText(row int) string {
	if row < 0 || row >= len(b.lines) {
		return ""
	}
	return b.lines[row]
}

// TextInRange implements Document. Out of range coordinates are clamped.
func (b *Buffer) TextInRange(r Range) string {
	start, end := b.clamp(r.Start), b.clamp(r.End)
	if !start.Less(end) {
		return ""
	}
	if start.Row == end.Row {
		return b.lines[start.Row][start.Column:end.Column]
	}
	var sb strings.Builder
	sb.WriteString(b.lines[start.Row][start.Column:])
	for row := start.Row + 1; row < end.Row; row++ {
		sb.WriteByte('\n')
		sb.WriteString(b.lines[row])
	}
	sb.WriteByte('\n')
	sb.WriteString(b.lines[end.Row][:end.Column])
	return sb.String()
}

// Lines returns a copy of the buffer's lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// String joins the lines back with "\n".
func (b *Buffer) String() string {
	return strings.Join(b.lines, "\n")
}

// Replace returns a new buffer with the text in r replaced by s.
func (b *Buffer) Replace(r Range, s string) (*Buffer, error) {
	if !b.valid(r.Start) || !b.valid(r.End) {
		return nil, fmt.Errorf("replace %s: %w", r, ErrOutOfRange)
	}
	r = NewRange(r.Start, r.End)
	head := b.lines[r.Start.Row][:r.Start.Column]
	tail := b.lines[r.End.Row][r.End.Column:]
	inserted := strings.Split(head+s+tail, "\n")

	lines := make([]string, 0, len(b.lines)-(r.End.Row-r.Start.Row)+len(inserted)-1)
	lines = append(lines, b.lines[:r.Start.Row]...)
	lines = append(lines, inserted...)
	lines = append(lines, b.lines[r.End.Row+1:]...)
	return &Buffer{lines: lines}, nil
}

// Insert is Replace over an empty range at p.
func (b *Buffer) Insert(p Position, s string) (*Buffer, error) {
	return b.Replace(Range{Start: p, End: p}, s)
}

func (b *Buffer) valid(p Position) bool {
	return p.Row >= 0 && p.Row < len(b.lines) && p.Column >= 0 && p.Column <= len(b.lines[p.Row])
}

func (b *Buffer) clamp(p Position) Position {
	if p.Row < 0 {
		return Position{}
	}
	if p.Row >= len(b.lines) {
		last := len(b.lines) - 1
		return Position{Row: last, Column: len(b.lines[last])}
	}
	col := p.Column
	if col < 0 {
		col = 0
	}
	if n := len(b.lines[p.Row]); col > n {
		col = n
	}
	return Position{Row: p.Row, Column: col}
}

// PrefixAt returns the run of word characters ending at p.
func PrefixAt(doc Document, p Position) string {
	line := doc.LineText(p.Row)
	if p.Column > len(line) {
		p.Column = len(line)
	}
	if p.Column < 0 {
		return ""
	}
	before := line[:p.Column]
	return before[utils.TrailingWordStart(before):]
}

// SuffixAt returns the first token of the rest of the line after p when the
// line is split on runs of non-word characters. The rest of the line starting
// with a non-word character gives "".
func SuffixAt(doc Document, p Position) string {
	line := doc.LineText(p.Row)
	if p.Column < 0 || p.Column >= len(line) {
		return ""
	}
	rest := line[p.Column:]
	return rest[:utils.LeadingWordLen(rest)]
}
