package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{name: "already two decimals", input: 12.34, expected: 12.34},
		{name: "rounds up", input: 12.345, expected: 12.35},
		{name: "rounds down", input: 12.344, expected: 12.34},
		{name: "negative", input: -1.005, expected: -1.0},
		{name: "zero", input: 0, expected: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Round(test.input); math.Abs(got-test.expected) > 1e-12 {
				t.Errorf("Round(%v) = %v, expected %v", test.input, got, test.expected)
			}
		})
	}
}

func TestRoundToUnits(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected uint64
	}{
		{name: "half to even down", input: 0.5, expected: 0},
		{name: "half to even up", input: 1.5, expected: 2},
		{name: "two point five", input: 2.5, expected: 2},
		{name: "three point five", input: 3.5, expected: 4},
		{name: "plain value", input: 123.4, expected: 123},
		{name: "negative maps to zero", input: -1, expected: 0},
		{name: "nan maps to zero", input: math.NaN(), expected: 0},
		{name: "zero", input: 0, expected: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := RoundToUnits(test.input); got != test.expected {
				t.Errorf("RoundToUnits(%v) = %d, expected %d", test.input, got, test.expected)
			}
		})
	}
}

func TestCeilToInt(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected int
	}{
		{name: "fraction rounds up", input: 2.1, expected: 3},
		{name: "integer unchanged", input: 5.0, expected: 5},
		{name: "zero", input: 0, expected: 0},
		{name: "negative clamps to zero", input: -3.7, expected: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := CeilToInt(test.input); got != test.expected {
				t.Errorf("CeilToInt(%v) = %d, expected %d", test.input, got, test.expected)
			}
		})
	}
}

func TestSumNonNegative(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{name: "plain positives", input: []float64{1, 2, 3.5}, expected: 6.5},
		{name: "skips negatives", input: []float64{10, -4, 5}, expected: 15},
		{name: "skips zeros", input: []float64{0, 0, 7}, expected: 7},
		{name: "skips nan", input: []float64{math.NaN(), 3}, expected: 3},
		{name: "skips infinity", input: []float64{math.Inf(1), 3}, expected: 3},
		{name: "empty", input: nil, expected: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := SumNonNegative(test.input); got != test.expected {
				t.Errorf("SumNonNegative(%v) = %v, expected %v", test.input, got, test.expected)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) || IsFinite(math.NaN()) || IsFinite(math.Inf(-1)) {
		t.Errorf("IsFinite misclassified a value")
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(1.0, 1.0001, 0.001) {
		t.Errorf("values within tolerance reported as outside")
	}
	if WithinTolerance(1.0, 1.01, 0.001) {
		t.Errorf("values outside tolerance reported as within")
	}
}

func TestMin(t *testing.T) {
	if got := Min(3, 7); got != 3 {
		t.Errorf("Min(3, 7) = %d", got)
	}
	if got := Min(9, 2); got != 2 {
		t.Errorf("Min(9, 2) = %d", got)
	}
}
