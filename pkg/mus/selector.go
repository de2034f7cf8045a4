package mus

import (
	"math/rand"
	"sort"
	"time"
)

// SystematicSelector chooses which item indices enter the sample from a flat
// sequence of amounts. The two implementations share the same statistical
// intent but differ in whether high-value items are guaranteed inclusion and
// in their rounding and accumulation strategy, so their outputs diverge for
// the same inputs.
type SystematicSelector interface {
	// SelectIndices returns the chosen indices in ascending order, without
	// duplicates. The result may be shorter than n.
	SelectIndices(amounts []float64, n int) ([]int, error)
}

// ThresholdSelector implements plain interval-threshold PPS selection: one
// uniform offset, n ascending thresholds, a single sweep over the cumulative
// amounts, and first-occurrence deduplication of repeated hits. High-value
// items are not guaranteed inclusion.
type ThresholdSelector struct {
	// Seed makes the offset reproducible; nil draws a time-derived seed.
	Seed *int64
}

// SelectIndices implements SystematicSelector.
func (s ThresholdSelector) SelectIndices(amounts []float64, n int) ([]int, error) {
	return SelectPPS(amounts, n, s.Seed), nil
}

// IntervalSelector implements plan-driven systematic selection with
// guaranteed inclusion of items at or above the sampling interval. The n
// passed to SelectIndices covers high-value items and sampled items together.
type IntervalSelector struct {
	Options ExtractionOptions
}

// SelectIndices implements SystematicSelector. It derives a minimal plan from
// the amounts (threshold = total/n) and runs a full extraction.
func (s IntervalSelector) SelectIndices(amounts []float64, n int) ([]int, error) {
	if n <= 0 {
		return nil, invalidInputf("sample size must be positive, got %d", n)
	}
	bookValue := 0.0
	for _, v := range amounts {
		if v > 0 {
			bookValue += v
		}
	}
	plan := &Plan{
		BookValues:         amounts,
		BookValue:          bookValue,
		N:                  n,
		HighValueThreshold: bookValue / float64(n),
	}
	extraction, err := Extract(plan, s.Options)
	if err != nil {
		return nil, err
	}
	indices := make([]int, 0, len(extraction.HighValues)+len(extraction.Sample))
	for _, item := range extraction.HighValues {
		indices = append(indices, item.Index)
	}
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		seen[idx] = true
	}
	for _, item := range extraction.Sample {
		if !seen[item.Index] {
			seen[item.Index] = true
			indices = append(indices, item.Index)
		}
	}
	sort.Ints(indices)
	return indices, nil
}

// SelectPPS selects up to n item indices from amounts by systematic
// probability-proportional-to-size sampling: the total is split into n equal
// intervals, one uniform offset is drawn, and each resulting threshold is
// assigned to the item whose cumulative span covers it. Repeated hits on a
// single large item are deduplicated keeping the first occurrence, so the
// result may hold fewer than n indices. Negative amounts span no units and
// are never selected. A nil seed draws a time-derived one.
func SelectPPS(amounts []float64, n int, seed *int64) []int {
	if n <= 0 || len(amounts) == 0 {
		return nil
	}
	var total float64
	for _, v := range amounts {
		total += v
	}
	if total <= 0 {
		return nil
	}
	interval := total / float64(n)

	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}
	start := rand.New(rand.NewSource(s)).Float64() * interval

	thresholds := make([]float64, n)
	for i := range thresholds {
		thresholds[i] = start + float64(i)*interval
	}
	sort.Float64s(thresholds)

	var indices []int
	var cum float64
	t := 0
	for i, v := range amounts {
		prev := cum
		if v > 0 {
			cum += v
		}
		for t < len(thresholds) && thresholds[t] <= cum {
			if thresholds[t] > prev && (len(indices) == 0 || indices[len(indices)-1] != i) {
				indices = append(indices, i)
			}
			t++
		}
		if t >= len(thresholds) {
			break
		}
	}
	return indices
}
