package mus

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/PyBalance/Audit-Sampling/pkg/mathutil"
)

// intervalStabilizeMaxIterations caps the high-value partition fixed point.
const intervalStabilizeMaxIterations = 1000

// ExtractionOptions configures systematic selection against a Plan.
type ExtractionOptions struct {
	// StartPoint fixes the offset into the first sampling interval. Must lie
	// in [0, interval]. When nil, a start point is drawn uniformly using the
	// seeded generator.
	StartPoint *float64
	// Seed makes the drawn start point reproducible. When nil, a
	// time-derived seed is used and recorded on the Extraction.
	Seed *int64
	// ObeyNAsMin treats the planned sample size as a floor: the sampling
	// interval is re-derived over the non-high-value remainder and the
	// partition recomputed until the interval stabilizes.
	ObeyNAsMin bool
	// Combined marks the extraction for combined evaluation downstream.
	Combined bool
}

// Item is a population entry identified by its position in the plan's book
// values.
type Item struct {
	Index     int
	BookValue float64
}

// PopulationItem is a sampling-population entry with its cumulative
// monetary-unit position.
type PopulationItem struct {
	Index           int
	BookValue       float64
	CumulativeUnits uint64
}

// SampleItem is a selected item together with the monetary unit that hit it
// and the cumulative range it covers.
type SampleItem struct {
	Index            int
	BookValue        float64
	UnitHit          uint64
	CumulativeBefore uint64
	CumulativeAfter  uint64
}

// Extraction is the result of systematic MUS selection.
type Extraction struct {
	// Plan is the consumed plan.
	Plan *Plan
	// StartPoint is the resolved offset into the first sampling interval.
	StartPoint float64
	// Seed is the generator seed that was available for the draw, whether
	// supplied or time-derived; recorded for audit-trail re-verification.
	Seed int64
	// ObeyNAsMin records whether the interval was stabilized.
	ObeyNAsMin bool
	// HighValues are the items at or above the sampling interval, audited
	// with certainty.
	HighValues []Item
	// SamplePopulation is the remainder, paired with cumulative unit counts.
	SamplePopulation []PopulationItem
	// SamplingInterval is the interval reassessed after selection:
	// sampling-population total over realized sample size (advisory).
	SamplingInterval float64
	// Sample is the ordered list of selected items.
	Sample []SampleItem
	// Extensions counts interval-stabilization iterations performed.
	Extensions int
	// Combined carries the combined-evaluation flag.
	Combined bool
}

// Extract performs systematic PPS selection for a plan. Items at or above the
// sampling interval are always included; the remainder is sampled on a fixed
// monetary-unit grid anchored at the start point.
func Extract(plan *Plan, opts ExtractionOptions) (*Extraction, error) {
	if plan == nil {
		return nil, invalidInputf("plan must not be nil")
	}
	if plan.N == 0 {
		return nil, invalidInputf("plan sample size is 0; nothing to extract")
	}

	highValues, population := partition(plan.BookValues, plan.HighValueThreshold)
	interval := plan.HighValueThreshold
	extensions := 0
	if opts.ObeyNAsMin {
		for {
			old := interval
			slots := plan.N - len(highValues)
			if slots <= 0 {
				return nil, calculationf("no sampling slots remain after removing %d high-value items", len(highValues))
			}
			interval = rawSum(population) / float64(slots)
			if interval == old {
				break
			}
			extensions++
			if extensions > intervalStabilizeMaxIterations {
				return nil, calculationf("sampling interval did not stabilize after %d iterations", intervalStabilizeMaxIterations)
			}
			highValues, population = partition(plan.BookValues, interval)
		}
	}

	if opts.StartPoint != nil && !(*opts.StartPoint >= 0 && *opts.StartPoint <= interval) {
		return nil, invalidInputf("start point %v outside [0, %v]", *opts.StartPoint, interval)
	}
	seed := time.Now().UnixNano()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	var startPoint float64
	if opts.StartPoint != nil {
		startPoint = *opts.StartPoint
	} else {
		startPoint = rand.New(rand.NewSource(seed)).Float64() * interval
	}

	drawsNeeded := plan.N - len(highValues)
	if drawsNeeded < 0 {
		drawsNeeded = 0
	}

	// Sampling grid: hit positions rounded half-to-even on a two-decimal step.
	gridStep := mathutil.Round(interval)
	units := make([]uint64, 0, drawsNeeded+1)
	for j := 0; j <= drawsNeeded; j++ {
		units = append(units, mathutil.RoundToUnits(startPoint+float64(j)*gridStep))
	}

	cum := make([]uint64, len(population))
	var running uint64
	for i, item := range population {
		running += mathutil.RoundToUnits(item.BookValue)
		cum[i] = running
		population[i].CumulativeUnits = running
	}
	totalUnits := running

	var sample []SampleItem
	for _, u := range units {
		// Unit 0 covers no monetary units and would map to the first item
		// without drawing anything from it; a hit exactly at the final
		// cumulative sum is still inside the last item's span.
		if u == 0 || u > totalUnits {
			continue
		}
		idx := sort.Search(len(cum), func(i int) bool { return cum[i] >= u })
		if idx >= len(cum) {
			continue
		}
		var before uint64
		if idx > 0 {
			before = cum[idx-1]
		}
		sample = append(sample, SampleItem{
			Index:            population[idx].Index,
			BookValue:        population[idx].BookValue,
			UnitHit:          u,
			CumulativeBefore: before,
			CumulativeAfter:  cum[idx],
		})
	}

	samplingInterval := math.Inf(1)
	if len(sample) > 0 {
		samplingInterval = rawSum(population) / float64(len(sample))
	}

	return &Extraction{
		Plan:             plan,
		StartPoint:       startPoint,
		Seed:             seed,
		ObeyNAsMin:       opts.ObeyNAsMin,
		HighValues:       highValues,
		SamplePopulation: population,
		SamplingInterval: samplingInterval,
		Sample:           sample,
		Extensions:       extensions,
		Combined:         opts.Combined,
	}, nil
}

// partition splits book values at the threshold, keeping original indices.
// Values below the threshold, including zeros and negatives, form the
// sampling population.
func partition(bookValues []float64, threshold float64) ([]Item, []PopulationItem) {
	var high []Item
	var population []PopulationItem
	for i, v := range bookValues {
		if v >= threshold {
			high = append(high, Item{Index: i, BookValue: v})
		} else {
			population = append(population, PopulationItem{Index: i, BookValue: v})
		}
	}
	return high, population
}

func rawSum(population []PopulationItem) float64 {
	var sum float64
	for _, item := range population {
		sum += item.BookValue
	}
	return sum
}
