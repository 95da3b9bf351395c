// Package stats computes aggregate statistics over a revealed round's votes.
package stats

import (
	"math"
	"sort"
	"strconv"

	"github.com/bluedynamics/bdapoker/internal/deck"
)

// Stats holds the aggregates for one set of revealed votes. The numeric
// fields are nil when the deck is non-numeric or no numeric vote was cast.
type Stats struct {
	Average   *float64 `json:"average,omitempty"`
	Median    *float64 `json:"median,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Consensus bool     `json:"consensus"`
}

// Compute derives statistics from raw vote values. Abstention cards are
// excluded everywhere; unparseable values are excluded from the numeric
// aggregates but still count toward consensus.
func Compute(deckType deck.Type, values []string) Stats {
	var s Stats

	distinct := make(map[string]struct{})
	counted := 0
	for _, v := range values {
		if deck.Abstention(v) {
			continue
		}
		distinct[v] = struct{}{}
		counted++
	}
	s.Consensus = counted > 0 && len(distinct) == 1

	if !deckType.Numeric() {
		return s
	}

	var nums []float64
	for _, v := range values {
		if deck.Abstention(v) {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			continue
		}
		nums = append(nums, f)
	}
	if len(nums) == 0 {
		return s
	}

	sort.Float64s(nums)

	sum := 0.0
	for _, f := range nums {
		sum += f
	}
	avg := sum / float64(len(nums))
	med := median(nums)
	min := nums[0]
	max := nums[len(nums)-1]

	s.Average = &avg
	s.Median = &med
	s.Min = &min
	s.Max = &max
	return s
}

// median expects nums sorted ascending and non-empty.
func median(nums []float64) float64 {
	n := len(nums)
	if n%2 == 1 {
		return nums[n/2]
	}
	return (nums[n/2-1] + nums[n/2]) / 2
}
