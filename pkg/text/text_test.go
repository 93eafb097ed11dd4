package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManhattanDistance(t *testing.T) {
	testCases := []struct {
		a, b     Position
		expected int
	}{
		{Position{0, 0}, Position{0, 0}, 0},
		{Position{2, 0}, Position{0, 0}, 2},
		{Position{2, 0}, Position{0, 7}, 9},
		{Position{1, 5}, Position{3, 2}, 5},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ManhattanDistance(tc.a, tc.b), "%s -> %s", tc.a, tc.b)
		assert.Equal(t, tc.expected, ManhattanDistance(tc.b, tc.a), "symmetry %s -> %s", tc.b, tc.a)
	}
}

func TestRangeContainsPoint(t *testing.T) {
	r := Range{Start: Position{1, 2}, End: Position{1, 6}}

	assert.True(t, r.ContainsPoint(Position{1, 2}), "start is inclusive")
	assert.True(t, r.ContainsPoint(Position{1, 5}))
	assert.False(t, r.ContainsPoint(Position{1, 6}), "end is exclusive")
	assert.False(t, r.ContainsPoint(Position{1, 1}))
	assert.False(t, r.ContainsPoint(Position{0, 4}))
	assert.False(t, r.ContainsPoint(Position{2, 3}))

	multi := Range{Start: Position{0, 8}, End: Position{2, 1}}
	assert.True(t, multi.ContainsPoint(Position{1, 40}))
	assert.False(t, multi.ContainsPoint(Position{2, 1}))
}

func TestNewRangeOrdersEnds(t *testing.T) {
	r := NewRange(Position{3, 1}, Position{1, 9})
	assert.Equal(t, Position{1, 9}, r.Start)
	assert.Equal(t, Position{3, 1}, r.End)
	assert.False(t, r.IsEmpty())
	assert.False(t, r.IsSingleLine())
}

func TestBufferTextInRange(t *testing.T) {
	buf := NewBuffer("console.log(1)\r\nconsole.log(2)\nco")

	require.Equal(t, 3, buf.LineCount())
	assert.Equal(t, "console.log(1)", buf.LineText(0))
	assert.Equal(t, "", buf.LineText(7))
	assert.Equal(t, "log", buf.TextInRange(Range{Position{1, 8}, Position{1, 11}}))
	assert.Equal(t, "(1)\nconsole", buf.TextInRange(Range{Position{0, 11}, Position{1, 7}}))
	assert.Equal(t, "co", buf.TextInRange(Range{Position{2, 0}, Position{9, 9}}), "clamped to the end")
	assert.Equal(t, "", buf.TextInRange(Range{Position{1, 3}, Position{1, 3}}))
}

func TestBufferReplace(t *testing.T) {
	buf := NewBuffer("fn foo\nco")

	next, err := buf.Replace(Range{Position{1, 0}, Position{1, 2}}, "fn foo")
	require.NoError(t, err)
	assert.Equal(t, "fn foo\nfn foo", next.String())
	assert.Equal(t, "fn foo\nco", buf.String(), "original snapshot is untouched")

	next, err = next.Insert(Position{0, 6}, "()\nbar")
	require.NoError(t, err)
	assert.Equal(t, []string{"fn foo()", "bar", "fn foo"}, next.Lines())

	_, err = buf.Replace(Range{Position{4, 0}, Position{4, 1}}, "x")
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestPrefixAndSuffixAt(t *testing.T) {
	buf := NewBuffer("  foo.barBaz(qux)")

	testCases := []struct {
		pos    Position
		prefix string
		suffix string
	}{
		{Position{0, 4}, "fo", "o"},
		{Position{0, 9}, "bar", "Baz"},
		{Position{0, 12}, "barBaz", ""},
		{Position{0, 0}, "", ""},
		{Position{0, 17}, "", ""},
		{Position{0, 13}, "", "qux"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.prefix, PrefixAt(buf, tc.pos), "prefix at %s", tc.pos)
		assert.Equal(t, tc.suffix, SuffixAt(buf, tc.pos), "suffix at %s", tc.pos)
	}
}
