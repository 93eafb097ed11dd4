// Package text holds the document coordinates the completion engine works in,
// the read-only Document contract a host has to provide, and a simple line
// snapshot implementation of it.
package text

import "fmt"

// Position is a zero-based (row, column) coordinate in a document.
// Columns are byte offsets into the line's UTF-8 text.
type Position struct {
	Row    int
	Column int
}

// Compare orders positions by row, then column.
func (p Position) Compare(o Position) int {
	switch {
	case p.Row < o.Row:
		return -1
	case p.Row > o.Row:
		return 1
	case p.Column < o.Column:
		return -1
	case p.Column > o.Column:
		return 1
	}
	return 0
}

// Less reports whether p comes before o in document order.
func (p Position) Less(o Position) bool {
	return p.Compare(o) < 0
}

// Advance returns the position n columns further on the same row.
func (p Position) Advance(n int) Position {
	return Position{Row: p.Row, Column: p.Column + n}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Column)
}

// ManhattanDistance is |Δrow| + |Δcolumn|. Rows and columns are not weighted.
func ManhattanDistance(a, b Position) int {
	return abs(a.Row-b.Row) + abs(a.Column-b.Column)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Range is a span from Start (inclusive) to End (exclusive).
type Range struct {
	Start Position
	End   Position
}

// NewRange builds a range, swapping the ends if they are given out of order.
func NewRange(a, b Position) Range {
	if b.Less(a) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// ContainsPoint reports whether Start <= p < End.
func (r Range) ContainsPoint(p Position) bool {
	return r.Start.Compare(p) <= 0 && p.Less(r.End)
}

// IsEmpty reports whether the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsSingleLine reports whether both ends lie on the same row.
func (r Range) IsSingleLine() bool {
	return r.Start.Row == r.End.Row
}

func (r Range) String() string {
	return fmt.Sprintf("[%s - %s]", r.Start, r.End)
}
