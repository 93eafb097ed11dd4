package suggest

import (
	"regexp"

	"github.com/bastiangx/bufcomplete/pkg/text"
)

// Extract scans doc top to bottom, left to right and returns every match of
// pattern whose range does not contain prefixStart.
// The match at prefixStart is the word being typed, so it is excluded by
// position rather than by text: the same word elsewhere still qualifies.
func Extract(doc text.Document, pattern *regexp.Regexp, prefixStart text.Position) []Candidate {
	var candidates []Candidate
	for row := 0; row < doc.LineCount(); row++ {
		line := doc.LineText(row)
		for _, loc := range pattern.FindAllStringIndex(line, -1) {
			r := text.Range{
				Start: text.Position{Row: row, Column: loc[0]},
				End:   text.Position{Row: row, Column: loc[1]},
			}
			if r.ContainsPoint(prefixStart) {
				continue
			}
			candidates = append(candidates, Candidate{
				Range: r,
				Text:  line[loc[0]:loc[1]],
				Kind:  KindMatch,
			})
		}
	}
	return candidates
}
