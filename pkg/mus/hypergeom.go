package mus

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/PyBalance/Audit-Sampling/pkg/mathutil"
)

// hypergeomCDF returns P[X <= q] for X ~ Hypergeometric with m success units,
// nBlack failure units and k draws from the combined population. The sum runs
// over the support only; q is an assumed error count and stays small in
// practice, so direct summation in log space is exact enough and cheap.
func hypergeomCDF(q, m, nBlack, k uint64) float64 {
	n := m + nBlack
	lo := uint64(0)
	if k > nBlack {
		lo = k - nBlack
	}
	hi := mathutil.Min(q, mathutil.Min(k, m))
	if hi < lo {
		return 0
	}
	logDenom := combin.LogGeneralizedBinomial(float64(n), float64(k))
	var cdf float64
	for x := lo; x <= hi; x++ {
		logP := combin.LogGeneralizedBinomial(float64(m), float64(x)) +
			combin.LogGeneralizedBinomial(float64(nBlack), float64(k-x)) -
			logDenom
		cdf += math.Exp(logP)
	}
	if cdf > 1 {
		cdf = 1
	}
	return cdf
}

// minDrawsForErrors finds the smallest number of draws k in [0, kMax] for
// which P[X <= q] <= alpha. The CDF is non-increasing in k for fixed q, so a
// binary search applies. When even kMax draws cannot push the CDF below
// alpha, kMax is returned.
func minDrawsForErrors(q uint64, alpha float64, m, nBlack, kMax uint64) (uint64, error) {
	n := m + nBlack
	if n == 0 {
		return 0, calculationf("population size is zero in hypergeometric model")
	}
	if kMax > n {
		kMax = n
	}
	lo, hi := uint64(0), kMax
	found := false
	ans := kMax
	for lo <= hi {
		mid := lo + (hi-lo)/2
		if hypergeomCDF(q, m, nBlack, mid) <= alpha {
			ans = mid
			found = true
			if mid == 0 {
				break
			}
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	if !found {
		ans = kMax
	}
	return ans, nil
}

// sampleSizeForErrors computes the minimum sample size (in monetary units)
// that keeps the risk of accepting numErrors misstatements at or below alpha,
// for the given tolerable error and total account value.
func sampleSizeForErrors(numErrors uint64, alpha, tolerableError, accountValue float64) (uint64, error) {
	if !(mathutil.IsFinite(alpha) && alpha > 0 && alpha < 1) {
		return 0, invalidInputf("alpha must be in (0,1)")
	}
	if !mathutil.IsFinite(tolerableError) || !mathutil.IsFinite(accountValue) || accountValue <= 0 {
		return 0, invalidInputf("tolerable error and account value must be finite and > 0")
	}
	maxErrorRate := tolerableError / accountValue
	m := mathutil.RoundToUnits(maxErrorRate * accountValue)
	nBlack := mathutil.RoundToUnits((1 - maxErrorRate) * accountValue)
	kMax := mathutil.Min(nBlack+numErrors, mathutil.RoundToUnits(accountValue))
	return minDrawsForErrors(numErrors, alpha, m, nBlack, kMax)
}
