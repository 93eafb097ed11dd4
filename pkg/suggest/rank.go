package suggest

import (
	"sort"

	"github.com/bastiangx/bufcomplete/pkg/text"
)

// Less orders candidates by distance from prefixStart to their start, closest
// first; equally close candidates put the longer text first.
func Less(prefixStart text.Position, a, b Candidate) bool {
	da := text.ManhattanDistance(prefixStart, a.Range.Start)
	db := text.ManhattanDistance(prefixStart, b.Range.Start)
	if da != db {
		return da < db
	}
	return len(a.Text) > len(b.Text)
}

// Rank sorts candidates in place. Fully tied candidates keep their input order.
func Rank(candidates []Candidate, prefixStart text.Position) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return Less(prefixStart, candidates[i], candidates[j])
	})
}
