package mus

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/PyBalance/Audit-Sampling/pkg/constants"
	"github.com/PyBalance/Audit-Sampling/pkg/mathutil"
)

// gammaQuantile inverts the CDF of a Gamma(shape, rate=1) distribution by
// bracketed bisection. distuv provides the regularized incomplete gamma CDF
// but no quantile, so the inversion lives here with its iteration cap.
func gammaQuantile(shape, p float64) (float64, error) {
	if !(shape > 0) || !(p > 0 && p < 1) {
		return 0, calculationf("gamma quantile undefined for shape=%v p=%v", shape, p)
	}
	dist := distuv.Gamma{Alpha: shape, Beta: 1}

	// Expand the bracket until the CDF straddles p.
	hi := shape + 1
	for dist.CDF(hi) < p {
		hi *= 2
		if hi > 1e12 {
			return 0, calculationf("gamma quantile bracket expansion failed for shape=%v p=%v", shape, p)
		}
	}
	lo := 0.0
	var mid float64
	for i := 0; i < constants.GammaBisectionMaxIterations; i++ {
		mid = 0.5 * (lo + hi)
		if dist.CDF(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo <= 1e-12*(1+hi) {
			return 0.5 * (lo + hi), nil
		}
	}
	return 0, calculationf("gamma quantile bisection did not converge for shape=%v p=%v", shape, p)
}

// musFactor computes the MUS confidence factor for the given confidence level
// and expected-to-tolerable error ratio. For a positive ratio the Gamma shape
// parameter depends on the factor itself, so the factor is solved by
// fixed-point iteration seeded at shape 1.
func musFactor(confidenceLevel, ratio float64) (float64, error) {
	if !(confidenceLevel > 0 && confidenceLevel < 1) {
		return 0, invalidInputf("confidence level must be in (0,1)")
	}
	if !(ratio >= 0 && ratio < 1) {
		return 0, invalidInputf("expected/tolerable error ratio must be in [0,1)")
	}
	f, err := gammaQuantile(1, confidenceLevel)
	if err != nil {
		return 0, err
	}
	if ratio == 0 {
		return f, nil
	}
	for i := 0; i < constants.GammaFixedPointMaxIterations; i++ {
		fPrev := f
		shape := 1 + ratio*fPrev
		f, err = gammaQuantile(shape, confidenceLevel)
		if err != nil {
			return 0, err
		}
		if math.Abs(f-fPrev) <= constants.GammaFixedPointTolerance {
			return f, nil
		}
	}
	return 0, calculationf("confidence factor fixed point did not converge after %d iterations", constants.GammaFixedPointMaxIterations)
}

// conservativeSampleSize derives the sample size from the MUS confidence
// factor, rounding the factor up to two decimals as published factor tables
// do.
func conservativeSampleSize(confidenceLevel, tolerableError, expectedError, bookValue float64) (int, error) {
	f, err := musFactor(confidenceLevel, expectedError/tolerableError)
	if err != nil {
		return 0, err
	}
	factor := math.Ceil(f*100) / 100
	return mathutil.CeilToInt(factor / tolerableError * bookValue), nil
}
