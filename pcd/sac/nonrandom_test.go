package sac

import (
	"testing"
)

func TestMinInliers(t *testing.T) {
	for name, tt := range map[string]struct {
		n        int
		expected int
	}{
		// P(X > 2) = 0.070, P(X > 3) = 0.013 for Binomial(10, 0.1).
		"10": {n: 10, expected: 6},
		// P(X > 8) = 0.058, P(X > 9) = 0.025 for Binomial(50, 0.1).
		"50": {n: 50, expected: 12},
		// P(X > 14) = 0.073, P(X > 15) = 0.040 for Binomial(100, 0.1).
		"100": {n: 100, expected: 18},
	} {
		if k := minInliers(3, tt.n); k != tt.expected {
			t.Errorf("%s: expected %d, got %d", name, tt.expected, k)
		}
	}
	prev := minInliers(3, 4)
	for n := 5; n < 1000; n++ {
		k := minInliers(3, n)
		if k < prev {
			t.Fatalf("Minimum inliers must be non-decreasing, %d at n=%d, %d at n=%d", prev, n-1, k, n)
		}
		if k > n+3 {
			t.Fatalf("Minimum inliers %d exceeds n+m at n=%d", k, n)
		}
		prev = k
	}
}

func TestTrialBudget(t *testing.T) {
	for name, tt := range map[string]struct {
		eps      float32
		m        int
		expected int
	}{
		"AllInliers": {eps: 1, m: 3, expected: 6},
		"NoInliers":  {eps: 0, m: 3, expected: tN},
		"Half":       {eps: 0.5, m: 3, expected: 23},
		"Floor":      {eps: 0.99, m: 2, expected: 4},
	} {
		tt := tt
		t.Run(name, func(t *testing.T) {
			if k := trialBudget(tt.eps, tt.m); k != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, k)
			}
		})
	}
}

func TestNonRandomness(t *testing.T) {
	t.Run("QualityCliff", func(t *testing.T) {
		const k = 100
		r := newNonRandomness(3, 1000)
		ranks := make([]int, k)
		for i := range ranks {
			ranks[i] = i
		}
		if !r.update(ranks) {
			t.Fatal("n* should be updated")
		}
		if r.nStar != k {
			t.Errorf("Expected n*=%d, got %d", k, r.nStar)
		}
		if r.iStar != k {
			t.Errorf("Expected I_n*=%d, got %d", k, r.iStar)
		}
		if r.kStar >= tN {
			t.Errorf("Trial budget must be shrunk, got %d", r.kStar)
		}
		if r.kStar < 2*3 {
			t.Errorf("Trial budget must not be less than 2m, got %d", r.kStar)
		}
	})
	t.Run("NoisyCliff", func(t *testing.T) {
		// First 200 are inliers except one, the rest are sparse.
		r := newNonRandomness(3, 1000)
		ranks := []int{0}
		for i := 2; i < 200; i++ {
			ranks = append(ranks, i)
		}
		for i := 250; i < 1000; i += 97 {
			ranks = append(ranks, i)
		}
		if !r.update(ranks) {
			t.Fatal("n* should be updated")
		}
		if r.nStar != 200 {
			t.Errorf("Expected n*=200, got %d", r.nStar)
		}
		if r.iStar != 199 {
			t.Errorf("Expected I_n*=199, got %d", r.iStar)
		}
	})
	t.Run("RandomSupport", func(t *testing.T) {
		// Sparse support is indistinguishable from random.
		r := newNonRandomness(3, 1000)
		if !r.update([]int{10, 500, 999}) {
			t.Fatal("Initial ratio over whole observations should be accepted")
		}
		if r.nStar != 1000 {
			t.Errorf("Expected n*=1000, got %d", r.nStar)
		}
	})
	t.Run("NoImprovement", func(t *testing.T) {
		r := newNonRandomness(3, 100)
		ranks := make([]int, 50)
		for i := range ranks {
			ranks[i] = i
		}
		if !r.update(ranks) {
			t.Fatal("n* should be updated")
		}
		kStar := r.kStar
		if r.update(ranks[:40]) {
			t.Error("Smaller support must not update n*")
		}
		if r.kStar != kStar {
			t.Errorf("Trial budget must be kept, expected %d, got %d", kStar, r.kStar)
		}
	})
}
