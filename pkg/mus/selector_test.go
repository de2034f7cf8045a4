package mus

import (
	"sort"
	"testing"
)

func TestSelectPPS_Basic(t *testing.T) {
	amounts := []float64{100, 200, 300, 400, 500}
	got := SelectPPS(amounts, 3, int64Ptr(1))
	if len(got) == 0 || len(got) > 3 {
		t.Fatalf("selected %d indices, expected between 1 and 3", len(got))
	}
	if !sort.IntsAreSorted(got) {
		t.Errorf("indices not ascending: %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i] == got[i-1] {
			t.Errorf("duplicate index %d in %v", got[i], got)
		}
	}
	for _, idx := range got {
		if idx < 0 || idx >= len(amounts) {
			t.Errorf("index %d out of range", idx)
		}
	}
}

func TestSelectPPS_SeededDeterminism(t *testing.T) {
	amounts := []float64{12.5, 88, 940.25, 3.1, 55, 210, 77.7}
	first := SelectPPS(amounts, 4, int64Ptr(99))
	second := SelectPPS(amounts, 4, int64Ptr(99))
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("selections differ: %v vs %v", first, second)
		}
	}
}

func TestSelectPPS_DominantItemDeduplicated(t *testing.T) {
	// One item carries nearly the whole total, so most thresholds land on it.
	amounts := []float64{1000, 1, 1, 1}
	got := SelectPPS(amounts, 4, int64Ptr(5))
	if len(got) >= 4 {
		t.Fatalf("expected deduplication to shrink the selection, got %v", got)
	}
	if len(got) == 0 || got[0] != 0 {
		t.Fatalf("dominant item at index 0 must be selected, got %v", got)
	}
}

func TestSelectPPS_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name    string
		amounts []float64
		n       int
	}{
		{name: "zero sample size", amounts: []float64{1, 2, 3}, n: 0},
		{name: "negative sample size", amounts: []float64{1, 2, 3}, n: -2},
		{name: "empty amounts", amounts: nil, n: 3},
		{name: "non-positive total", amounts: []float64{-5, 0, 5}, n: 2},
		{name: "all negative", amounts: []float64{-1, -2}, n: 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := SelectPPS(test.amounts, test.n, int64Ptr(1)); got != nil {
				t.Errorf("expected nil selection, got %v", got)
			}
		})
	}
}

func TestSelectPPS_NegativeAmountsNeverSelected(t *testing.T) {
	amounts := []float64{50, -20, 50, 50, -10, 50, 50, 50}
	for seed := int64(0); seed < 20; seed++ {
		s := seed
		for _, idx := range SelectPPS(amounts, 4, &s) {
			if amounts[idx] < 0 {
				t.Fatalf("seed %d selected negative amount at index %d", seed, idx)
			}
		}
	}
}

func TestThresholdSelector_MatchesSelectPPS(t *testing.T) {
	amounts := []float64{10, 40, 90, 160, 250, 360}
	selector := ThresholdSelector{Seed: int64Ptr(11)}
	got, err := selector.SelectIndices(amounts, 3)
	if err != nil {
		t.Fatalf("SelectIndices() error: %v", err)
	}
	want := SelectPPS(amounts, 3, int64Ptr(11))
	if len(got) != len(want) {
		t.Fatalf("selections differ: %v vs %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("selections differ: %v vs %v", got, want)
		}
	}
}

func TestIntervalSelector_IncludesHighValues(t *testing.T) {
	// Index 4 holds 600 of the 1000 total; with n=5 the derived interval is
	// 200 and the item must enter with certainty.
	amounts := []float64{100, 100, 100, 100, 600}
	selector := IntervalSelector{Options: ExtractionOptions{Seed: int64Ptr(2)}}
	got, err := selector.SelectIndices(amounts, 5)
	if err != nil {
		t.Fatalf("SelectIndices() error: %v", err)
	}
	found := false
	for _, idx := range got {
		if idx == 4 {
			found = true
		}
	}
	if !found {
		t.Errorf("high-value index 4 missing from %v", got)
	}
	if !sort.IntsAreSorted(got) {
		t.Errorf("indices not ascending: %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i] == got[i-1] {
			t.Errorf("duplicate index in %v", got)
		}
	}
	if len(got) > 5 {
		t.Errorf("selected %d indices, expected at most 5", len(got))
	}
}

func TestIntervalSelector_InvalidSampleSize(t *testing.T) {
	selector := IntervalSelector{}
	if _, err := selector.SelectIndices([]float64{1, 2, 3}, 0); !IsInvalidInput(err) {
		t.Errorf("expected InvalidInputError, got %v", err)
	}
}
