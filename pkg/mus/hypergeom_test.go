package mus

import (
	"math"
	"testing"
)

func TestHypergeomCDF_ExactSmallPopulation(t *testing.T) {
	// Population of 10 units with 3 error units, 5 draws. Exact CDF values
	// follow from C(3,x)*C(7,5-x)/C(10,5).
	tests := []struct {
		name     string
		q        uint64
		expected float64
	}{
		{"no errors", 0, 1.0 / 12.0},
		{"at most one", 1, 0.5},
		{"at most two", 2, 11.0 / 12.0},
		{"at most three", 3, 1.0},
		{"beyond support", 5, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hypergeomCDF(tt.q, 3, 7, 5)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("hypergeomCDF(%d, 3, 7, 5) = %v, expected %v", tt.q, got, tt.expected)
			}
		})
	}
}

func TestHypergeomCDF_EmptySupport(t *testing.T) {
	// Drawing 8 from 3+5 forces at least 3 error units, so P[X <= 2] = 0.
	if got := hypergeomCDF(2, 3, 5, 8); got != 0 {
		t.Errorf("expected CDF 0 below support, got %v", got)
	}
}

func TestMinDrawsForErrors_BoundaryProperty(t *testing.T) {
	tests := []struct {
		name   string
		q      uint64
		alpha  float64
		m      uint64
		nBlack uint64
	}{
		{"zero errors tight risk", 0, 0.05, 100, 900},
		{"zero errors loose risk", 0, 0.10, 100, 900},
		{"one error", 1, 0.10, 200, 1800},
		{"two errors", 2, 0.05, 500, 4500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kMax := tt.nBlack + tt.q
			k, err := minDrawsForErrors(tt.q, tt.alpha, tt.m, tt.nBlack, kMax)
			if err != nil {
				t.Fatalf("minDrawsForErrors() error: %v", err)
			}
			if k == 0 {
				t.Fatalf("expected a positive draw count")
			}
			if cdf := hypergeomCDF(tt.q, tt.m, tt.nBlack, k); cdf > tt.alpha {
				t.Errorf("CDF at k=%d is %v, above alpha %v", k, cdf, tt.alpha)
			}
			if cdf := hypergeomCDF(tt.q, tt.m, tt.nBlack, k-1); cdf <= tt.alpha {
				t.Errorf("k=%d is not minimal: CDF at k-1 is %v, already at or below alpha %v", k, cdf, tt.alpha)
			}
		})
	}
}

func TestMinDrawsForErrors_ZeroPopulation(t *testing.T) {
	if _, err := minDrawsForErrors(0, 0.05, 0, 0, 10); !IsCalculation(err) {
		t.Errorf("expected CalculationError for zero population, got %v", err)
	}
}

func TestSampleSizeForErrors_InvalidParameters(t *testing.T) {
	tests := []struct {
		name         string
		alpha        float64
		tolerable    float64
		accountValue float64
	}{
		{"alpha zero", 0, 1000, 10000},
		{"alpha one", 1, 1000, 10000},
		{"alpha NaN", math.NaN(), 1000, 10000},
		{"account value zero", 0.05, 1000, 0},
		{"tolerable infinite", 0.05, math.Inf(1), 10000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sampleSizeForErrors(0, tt.alpha, tt.tolerable, tt.accountValue); !IsInvalidInput(err) {
				t.Errorf("expected InvalidInputError, got %v", err)
			}
		})
	}
}

func TestSampleSizeForErrors_MonotoneInErrors(t *testing.T) {
	// Allowing more errors requires at least as many draws.
	var prev uint64
	for q := uint64(0); q <= 5; q++ {
		n, err := sampleSizeForErrors(q, 0.10, 10000, 100000)
		if err != nil {
			t.Fatalf("sampleSizeForErrors(%d) error: %v", q, err)
		}
		if n < prev {
			t.Errorf("draws decreased from %d to %d at q=%d", prev, n, q)
		}
		prev = n
	}
}
