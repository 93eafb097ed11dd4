package suggest

import (
	"regexp"
	"unicode/utf8"

	"github.com/bastiangx/bufcomplete/internal/utils"
	"github.com/bastiangx/bufcomplete/pkg/text"
)

var nextWord = regexp.MustCompile(`^\W*\w+`)

// Expand synthesizes phrase candidates from the raw candidates.
// It must only be called when the word under the cursor has no suffix.
//
// For every pair (base, other) in scan order, the common start of the two
// line tails is offered when it adds at least minGain characters to base.
// Independently, every match no longer than shortWordMax is extended with the
// next word on its line.
func Expand(doc text.Document, candidates []Candidate, prefixStart text.Position, minGain, shortWordMax int) []Candidate {
	var expanded []Candidate

	contexts := make([]string, len(candidates))
	for i, c := range candidates {
		contexts[i] = lineTail(doc, c.Range.Start)
	}

	for i, base := range candidates {
		baseContext := contexts[i]

		if len(base.Text) <= shortWordMax {
			if ext, ok := extendShort(base, baseContext); ok {
				expanded = append(expanded, ext)
			}
		}

		for j := i + 1; j < len(candidates); j++ {
			other := candidates[j]
			shared := sharedPrefix(baseContext, contexts[j])
			if len(shared) < len(base.Text)+minGain {
				continue
			}
			anchor := base.Range.Start
			if text.ManhattanDistance(prefixStart, other.Range.Start) < text.ManhattanDistance(prefixStart, anchor) {
				anchor = other.Range.Start
			}
			expanded = append(expanded, Candidate{
				Range: text.Range{Start: anchor, End: anchor.Advance(len(shared))},
				Text:  shared,
				Kind:  KindExpansion,
			})
		}
	}
	return expanded
}

// sharedPrefix returns the common start of a and b, trimmed so that it never
// ends in whitespace or in the middle of a word.
func sharedPrefix(a, b string) string {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	// back off to a rune boundary
	for n > 0 && n < len(a) && !utf8.RuneStart(a[n]) {
		n--
	}
	shared := utils.TrimRightSpace(a[:n])
	if shared == "" {
		return shared
	}
	if utils.StartsWithWordByte(a[len(shared):]) || utils.StartsWithWordByte(b[len(shared):]) {
		shared = utils.TrimRightSpace(shared[:utils.TrailingWordStart(shared)])
	}
	return shared
}

// extendShort offers match + next word on the same line.
func extendShort(base Candidate, baseContext string) (Candidate, bool) {
	if len(base.Text) > len(baseContext) {
		return Candidate{}, false
	}
	after := baseContext[len(base.Text):]
	loc := nextWord.FindStringIndex(after)
	if loc == nil {
		return Candidate{}, false
	}
	n := len(base.Text) + loc[1]
	return Candidate{
		Range: text.Range{Start: base.Range.Start, End: base.Range.Start.Advance(n)},
		Text:  baseContext[:n],
		Kind:  KindExpansion,
	}, true
}

func lineTail(doc text.Document, p text.Position) string {
	line := doc.LineText(p.Row)
	if p.Column >= len(line) {
		return ""
	}
	return line[p.Column:]
}
