package suggest

import (
	"testing"

	"github.com/bastiangx/bufcomplete/pkg/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedPrefix(t *testing.T) {
	testCases := []struct {
		a, b     string
		expected string
		desc     string
	}{
		{"console.log(1)", "console.log(2)", "console.log(", "ends on punctuation"},
		{"foo bar", "foo baz", "foo", "partial trailing word dropped"},
		{"foo  x", "foo  y", "foo", "trailing whitespace stripped"},
		{"abc", "abd", "", "nothing left after dropping the partial word"},
		{"same line", "same line", "same line", "identical tails"},
		{"foo bar", "foo barbaz", "foo", "other continues the word"},
		{"é", "è", "", "never split a rune"},
		{"", "anything", "", "empty side"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, sharedPrefix(tc.a, tc.b))
		})
	}
}

func TestExpandPairs(t *testing.T) {
	buf := text.NewBuffer("console.log(1)\nconsole.log(2)\nco")
	prefixStart := text.Position{Row: 2, Column: 0}
	raw := Extract(buf, BuildPattern("co", ""), prefixStart)

	got := Expand(buf, raw, prefixStart, DefaultMinGain, DefaultShortWordMax)

	require.Len(t, got, 1)
	assert.Equal(t, "console.log(", got[0].Text)
	assert.Equal(t, KindExpansion, got[0].Kind)
	// row 1 is closer to the prefix start than row 0
	assert.Equal(t, text.Range{Start: text.Position{Row: 1, Column: 0}, End: text.Position{Row: 1, Column: 12}}, got[0].Range)
	assert.Equal(t, got[0].Text, buf.TextInRange(got[0].Range))
}

func TestExpandMinimumGain(t *testing.T) {
	// "console." adds a single character to "console", below the default gain
	buf := text.NewBuffer("console.x\nconsole.y\nco")
	prefixStart := text.Position{Row: 2, Column: 0}
	raw := Extract(buf, BuildPattern("co", ""), prefixStart)

	assert.Empty(t, Expand(buf, raw, prefixStart, DefaultMinGain, DefaultShortWordMax))

	got := Expand(buf, raw, prefixStart, 1, DefaultShortWordMax)
	require.Len(t, got, 1)
	assert.Equal(t, "console.", got[0].Text)
}

func TestExpandAnchorTieFavorsBase(t *testing.T) {
	buf := text.NewBuffer("value = 1;\nval\nvalue = 2;")
	prefixStart := text.Position{Row: 1, Column: 0}
	raw := Extract(buf, BuildPattern("val", ""), prefixStart)
	require.Len(t, raw, 2)

	got := Expand(buf, raw, prefixStart, DefaultMinGain, DefaultShortWordMax)

	require.Len(t, got, 1)
	assert.Equal(t, "value =", got[0].Text)
	assert.Equal(t, text.Position{Row: 0, Column: 0}, got[0].Range.Start)
}

func TestExpandShortWord(t *testing.T) {
	buf := text.NewBuffer("fn foo\nf")
	prefixStart := text.Position{Row: 1, Column: 0}
	raw := Extract(buf, BuildPattern("f", ""), prefixStart)
	require.Len(t, raw, 2)

	got := Expand(buf, raw, prefixStart, DefaultMinGain, DefaultShortWordMax)

	var texts []string
	for _, c := range got {
		texts = append(texts, c.Text)
		assert.Equal(t, c.Text, buf.TextInRange(c.Range))
	}
	assert.Equal(t, []string{"fn foo"}, texts, "foo has nothing after it")
}

func TestExpandShortWordOnlyCandidate(t *testing.T) {
	buf := text.NewBuffer("if (ready) {\ni")
	prefixStart := text.Position{Row: 1, Column: 0}
	raw := Extract(buf, BuildPattern("i", ""), prefixStart)
	require.Len(t, raw, 1)

	got := Expand(buf, raw, prefixStart, DefaultMinGain, DefaultShortWordMax)

	require.Len(t, got, 1)
	assert.Equal(t, "if (ready", got[0].Text)
}

func TestExpandLongWordNotExtended(t *testing.T) {
	buf := text.NewBuffer("return value\nr")
	prefixStart := text.Position{Row: 1, Column: 0}
	raw := Extract(buf, BuildPattern("r", ""), prefixStart)

	assert.Empty(t, Expand(buf, raw, prefixStart, DefaultMinGain, DefaultShortWordMax))
	assert.Len(t, Expand(buf, raw, prefixStart, DefaultMinGain, 6), 1)
}
