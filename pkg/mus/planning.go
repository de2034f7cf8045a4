// Package mus implements Monetary Unit Sampling planning and extraction.
//
// Planning computes the minimum sample size that bounds the risk of
// undetected material misstatement at the requested confidence level, using
// an exact hypergeometric model over the population's monetary units.
// Extraction performs probability-proportional-to-size systematic selection
// against a plan. The package is a pure library: it never reads files,
// formats output, or logs; advisory conditions are returned on the Plan.
package mus

import (
	"math"

	"github.com/PyBalance/Audit-Sampling/pkg/constants"
	"github.com/PyBalance/Audit-Sampling/pkg/mathutil"
)

// Advisory warning messages surfaced on a Plan. They never abort planning.
const (
	WarnNonFiniteValues = "book values contain missing or non-finite entries; they have no chance of selection"
	WarnZeroValues      = "book values contain zeros; they have no chance of selection"
	WarnNegativeValues  = "book values contain negative entries; they are treated as zero"
	WarnLargeSample     = "parameter combination leads to an impractically large sample"
	WarnNoSampling      = "tolerable error covers the whole book value; no sampling necessary"
	WarnAuditEverything = "required sample exceeds the population size; auditing everything"
)

// PlanningOptions configures MUS sample-size planning. The zero value is not
// usable; start from DefaultPlanningOptions and set the tolerable and
// expected errors.
type PlanningOptions struct {
	// ConfidenceLevel is the required confidence in (0,1) that the
	// population is not misstated beyond the tolerable error.
	ConfidenceLevel float64
	// TolerableError is the maximum tolerable misstatement, as an absolute
	// amount, or as a fraction of the book value when ErrorsAsPercent is set.
	TolerableError float64
	// ExpectedError is the anticipated misstatement, on the same scale as
	// TolerableError.
	ExpectedError float64
	// MinSampleSize is a floor on the computed sample size. Must be smaller
	// than the number of population items.
	MinSampleSize int
	// ErrorsAsPercent resolves TolerableError and ExpectedError as fractions
	// of the total book value.
	ErrorsAsPercent bool
	// Conservative additionally sizes the sample with the Gamma-quantile
	// confidence factor and takes the larger result.
	Conservative bool
	// Combined marks the plan for combined evaluation downstream.
	Combined bool
}

// DefaultPlanningOptions returns planning options with the default confidence
// level and unresolved error amounts.
func DefaultPlanningOptions() PlanningOptions {
	return PlanningOptions{
		ConfidenceLevel: constants.DefaultConfidenceLevel,
		TolerableError:  math.NaN(),
		ExpectedError:   math.NaN(),
	}
}

// Plan is the result of MUS planning and the input to extraction.
type Plan struct {
	// BookValues is the original population, in input order. Negative values
	// are kept but contribute nothing to the total and are never selected.
	BookValues []float64
	// ConfidenceLevel, TolerableError and ExpectedError are the resolved
	// planning parameters (absolute amounts).
	ConfidenceLevel float64
	TolerableError  float64
	ExpectedError   float64
	// BookValue is the total of the non-negative book values.
	BookValue float64
	// N is the computed sample size.
	N int
	// HighValueThreshold is BookValue/N; items at or above it are audited
	// with certainty. +Inf when N is zero.
	HighValueThreshold float64
	// TolerableTaintings bounds the sum of taintings acceptable in the sample.
	TolerableTaintings float64
	// Combined carries the combined-evaluation flag through to extraction.
	Combined bool
	// Warnings lists advisory conditions observed during planning.
	Warnings []string
}

// PlanSample computes the MUS sample size for a population of book values.
// It returns an InvalidInputError when the options violate preconditions and
// a CalculationError when the numeric search fails; advisory conditions are
// collected in Plan.Warnings instead of aborting.
func PlanSample(bookValues []float64, opts PlanningOptions) (*Plan, error) {
	if len(bookValues) == 0 {
		return nil, invalidInputf("book values must contain at least one item")
	}
	if !(opts.ConfidenceLevel > 0 && opts.ConfidenceLevel < 1) {
		return nil, invalidInputf("confidence level must be in (0,1), got %v", opts.ConfidenceLevel)
	}

	var warnings []string
	var hasNonFinite, hasZero, hasNegative bool
	for _, v := range bookValues {
		switch {
		case !mathutil.IsFinite(v):
			hasNonFinite = true
		case v == 0:
			hasZero = true
		case v < 0:
			hasNegative = true
		}
	}
	if hasNonFinite {
		warnings = append(warnings, WarnNonFiniteValues)
	}
	if hasZero {
		warnings = append(warnings, WarnZeroValues)
	}
	if hasNegative {
		warnings = append(warnings, WarnNegativeValues)
	}

	bookValue := mathutil.SumNonNegative(bookValues)
	numItems := len(bookValues)

	tolerable := opts.TolerableError
	expected := opts.ExpectedError
	if opts.ErrorsAsPercent && mathutil.IsFinite(tolerable) && mathutil.IsFinite(expected) {
		tolerable *= bookValue
		expected *= bookValue
	}
	if !mathutil.IsFinite(tolerable) || tolerable <= 0 {
		return nil, invalidInputf("tolerable error must be finite and > 0, got %v", tolerable)
	}
	if !mathutil.IsFinite(expected) || expected < 0 {
		return nil, invalidInputf("expected error must be finite and >= 0, got %v", expected)
	}
	if opts.MinSampleSize >= numItems {
		return nil, invalidInputf("minimum sample size %d must be smaller than the population size %d", opts.MinSampleSize, numItems)
	}
	// Heuristic from the reference planning routine; a NaN left side (expected
	// beyond tolerable) correctly fails the comparison.
	if (tolerable/bookValue)*(1-opts.ConfidenceLevel)*math.Sqrt(tolerable-expected) < 0.07 {
		warnings = append(warnings, WarnLargeSample)
	}

	alpha := 1 - opts.ConfidenceLevel
	nOptimal, moreWarnings, err := optimalSampleSize(alpha, tolerable, expected, bookValue, numItems)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, moreWarnings...)

	n := nOptimal
	if n < opts.MinSampleSize {
		n = opts.MinSampleSize
	}
	if opts.Conservative {
		nCons, err := conservativeSampleSize(opts.ConfidenceLevel, tolerable, expected, bookValue)
		if err != nil {
			return nil, err
		}
		if nCons > n {
			n = nCons
		}
	}

	threshold := math.Inf(1)
	if n > 0 {
		threshold = bookValue / float64(n)
	}
	taintings := 0.0
	if bookValue > 0 {
		taintings = expected / bookValue * float64(n)
	}

	data := make([]float64, len(bookValues))
	copy(data, bookValues)
	return &Plan{
		BookValues:         data,
		ConfidenceLevel:    opts.ConfidenceLevel,
		TolerableError:     tolerable,
		ExpectedError:      expected,
		BookValue:          bookValue,
		N:                  n,
		HighValueThreshold: threshold,
		TolerableTaintings: taintings,
		Combined:           opts.Combined,
		Warnings:           warnings,
	}, nil
}

// optimalSampleSize runs the hypergeometric sample-size search: evaluate the
// units needed for q assumed errors at increasing q until the expected error
// implied by the sample first exceeds q, then interpolate linearly between
// the bracketing solutions.
func optimalSampleSize(alpha, tolerable, expected, bookValue float64, numItems int) (int, []string, error) {
	if tolerable >= bookValue {
		return 0, []string{WarnNoSampling}, nil
	}

	nZero, err := sampleSizeForErrors(0, alpha, tolerable, bookValue)
	if err != nil {
		return 0, nil, err
	}
	if nZero < 1 {
		return 0, nil, calculationf("sample size for zero errors must be positive")
	}

	nAll, err := sampleSizeForErrors(uint64(numItems), alpha, tolerable, bookValue)
	if err != nil {
		return 0, nil, err
	}
	if float64(nAll)*expected/bookValue > float64(numItems) {
		return numItems, []string{WarnAuditEverything}, nil
	}

	if expected == 0 {
		return int(nZero), nil, nil
	}

	// Find the crossing point q where n(q)*expected/bookValue first drops to
	// or below q. Bounded by the population size per the check above.
	var q uint64
	for ; q <= uint64(numItems)+1; q++ {
		nq, err := sampleSizeForErrors(q, alpha, tolerable, bookValue)
		if err != nil {
			return 0, nil, err
		}
		if float64(nq)*expected/bookValue <= float64(q) {
			break
		}
	}
	if q > uint64(numItems)+1 {
		return 0, nil, calculationf("sample-size search did not cross within the population size")
	}
	if q == 0 {
		return int(nZero), nil, nil
	}

	nLowU, err := sampleSizeForErrors(q-1, alpha, tolerable, bookValue)
	if err != nil {
		return 0, nil, err
	}
	nHighU, err := sampleSizeForErrors(q, alpha, tolerable, bookValue)
	if err != nil {
		return 0, nil, err
	}
	nLow, nHigh := float64(nLowU), float64(nHighU)
	if nHigh <= nLow {
		return 0, nil, calculationf("interpolation brackets not increasing: n(%d)=%v n(%d)=%v", q-1, nLow, q, nHigh)
	}
	denom := 1/(nHigh-nLow) - expected/bookValue
	if denom <= 0 {
		return 0, nil, calculationf("non-positive denominator in sample-size interpolation")
	}
	nOptF := math.Ceil((nLow/(nHigh-nLow) - (float64(q) - 1)) / denom)
	if nOptF < 0 {
		nOptF = 0
	}
	nOpt := int(nOptF)
	switch {
	case nOpt > numItems:
		return numItems, []string{WarnAuditEverything}, nil
	case nOptF == nHigh+1:
		// Kept for compatibility with the reference implementation, which
		// steps one unit back when the interpolation lands exactly one above
		// the upper bracket. Flagged for domain-expert review.
		if nOpt > 0 {
			nOpt--
		}
	case nOptF < nLow || nOptF > nHigh:
		return 0, nil, calculationf("interpolated sample size %v outside bracket [%v, %v]", nOptF, nLow, nHigh)
	}
	return nOpt, nil, nil
}
