package utils

import "math"

// CreateRankList numbers already ordered results 1..count for the wire.
// Ranks saturate at math.MaxUint16.
func CreateRankList(count int) []uint16 {
	ranks := make([]uint16, max(count, 0))
	for i := range ranks {
		ranks[i] = uint16(min(i+1, math.MaxUint16))
	}
	return ranks
}
