package sac

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// Probability that a model is supported by outliers only.
	nonRandomPsi = 0.05
	// Probability that an outlier is consistent with a wrong model.
	nonRandomBeta = 0.1
	// Probability of missing a better solution.
	eta0 = 0.05
)

// nonRandomness tracks the prefix length n* minimizing the number of
// trials while keeping the support statistically non-random.
type nonRandomness struct {
	m     int
	bigN  int
	nStar int
	iStar int
	eps   float32
	kStar int
}

func newNonRandomness(m, bigN int) *nonRandomness {
	return &nonRandomness{
		m:     m,
		bigN:  bigN,
		nStar: bigN,
		kStar: tN,
	}
}

// minInliers returns the smallest support of a non-random model
// over the first n observations.
func minInliers(m, n int) int {
	b := distuv.Binomial{N: float64(n), P: nonRandomBeta}
	// Upper quantile: smallest k satisfying P(X > k) <= psi.
	k := int(math.Floor(b.Mean()))
	for k > 0 && b.Survival(float64(k-1)) <= nonRandomPsi {
		k--
	}
	for k < n && b.Survival(float64(k)) > nonRandomPsi {
		k++
	}
	return m + k
}

// update re-estimates n* from the ascending ranks of the inliers of
// a new best model. It returns true if n* has been updated.
func (r *nonRandomness) update(ranks []int) bool {
	nPossibleBest := r.bigN
	iPossibleBest := len(ranks)
	epsPossibleBest := float32(iPossibleBest) / float32(nPossibleBest)

	iPossible := len(ranks)
	for j := len(ranks) - 1; j >= 0; j, iPossible = j-1, iPossible-1 {
		nPossible := ranks[j] + 1
		if nPossible <= r.m {
			break
		}
		epsPossible := float32(iPossible) / float32(nPossible)
		if epsPossible > r.eps && epsPossible > epsPossibleBest {
			if iPossible < minInliers(r.m, nPossible) {
				break
			}
			nPossibleBest = nPossible
			iPossibleBest = iPossible
			epsPossibleBest = epsPossible
		}
	}

	if epsPossibleBest <= r.eps {
		return false
	}
	r.eps = epsPossibleBest
	r.nStar = nPossibleBest
	r.iStar = iPossibleBest
	r.kStar = trialBudget(r.eps, r.m)
	return true
}

// trialBudget returns the number of trials needed to draw an all-inlier
// sample at least once with probability 1-eta0.
func trialBudget(eps float32, m int) int {
	var k int
	bottomLog := 1 - float32(math.Pow(float64(eps), float64(m)))
	switch bottomLog {
	case 0:
		k = 1
	case 1:
		k = tN
	default:
		k = int(math.Ceil(math.Log(eta0) / math.Log(float64(bottomLog))))
	}
	if k < 2*m {
		k = 2 * m
	}
	return k
}
