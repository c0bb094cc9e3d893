package sac

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
)

// DefaultMaxIterations is the hard trial cap used if MaxIterations is zero.
const DefaultMaxIterations = 1000

// PROSAC is a progressive sample consensus estimator.
// Observations are assumed to be sorted by descending quality so that
// samples are drawn from a growing set of the most reliable ones.
//
// See O. Chum and J. Matas, "Matching with PROSAC - Progressive Sample
// Consensus", CVPR 2005.
type PROSAC struct {
	Model Model
	// Rand is the random source of sample selection.
	// If nil, a source seeded by 1 is used.
	Rand *rand.Rand
	// MaxIterations caps the number of trials regardless of
	// the adaptively estimated budget.
	MaxIterations int
	// Logger receives the per trial trace at debug level.
	Logger *slog.Logger

	threshold    float32
	thresholdSet bool

	iterations int
	nStar      int
	kStar      int
	poolLen    int

	bestCoeff ModelCoefficients
	inliers   []int
	selection []int
}

func NewPROSAC(m Model) *PROSAC {
	return &PROSAC{Model: m}
}

func (s *PROSAC) SetDistanceThreshold(th float32) {
	s.threshold = th
	s.thresholdSet = true
}

func (s *PROSAC) SetMaxIterations(n int) {
	s.MaxIterations = n
}

// Compute runs the estimation.
// order lists observation indices sorted by descending quality.
// If order is nil, observations are assumed to be already sorted.
func (s *PROSAC) Compute(order []int) error {
	s.iterations = 0
	s.bestCoeff, s.inliers, s.selection = nil, nil, nil
	if !s.thresholdSet {
		return ErrNoThreshold
	}

	bigN := s.Model.Len()
	m, _ := s.Model.NumRange()
	rank, err := ranks(order, bigN)
	if err != nil {
		return err
	}
	if order == nil {
		order = rank
	}

	rnd := s.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(1))
	}
	maxIterations := s.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	trace := logger.Enabled(context.Background(), slog.LevelDebug)

	sampler := newProgressiveSampler(order, m, rnd)
	nr := newNonRandomness(m, bigN)
	defer func() {
		s.nStar = nr.nStar
		s.kStar = nr.kStar
		s.poolLen = sampler.poolLen()
	}()

	var bestCoeff ModelCoefficients
	var bestInliers, bestSelection []int

	for s.iterations < nr.kStar {
		sampler.grow(s.iterations, nr.nStar)
		selection := sampler.sample(s.iterations)
		if len(selection) == 0 {
			logger.Error("No samples could be selected", "pool", sampler.poolLen(), "sampleSize", m)
			return ErrNoSamples
		}

		var nInliers int
		if coeff, ok := s.Model.Fit(selection); ok {
			inliers := coeff.Inliers(s.threshold)
			nInliers = len(inliers)

			if nInliers > len(bestInliers) {
				bestCoeff = coeff
				bestInliers = inliers
				bestSelection = selection

				r := make([]int, nInliers)
				for i, id := range inliers {
					r[i] = rank[id]
				}
				sort.Ints(r)
				nr.update(r)
			}
		}

		s.iterations++
		if trace {
			logger.Debug("PROSAC trial",
				"trial", s.iterations,
				"budget", nr.kStar,
				"inliers", nInliers,
				"best", len(bestInliers),
			)
		}
		if s.iterations > maxIterations {
			logger.Debug("PROSAC reached the maximum number of trials", "maxIterations", maxIterations)
			break
		}
	}

	logger.Debug("PROSAC finished",
		"iterations", s.iterations,
		"selection", len(bestSelection),
		"inliers", len(bestInliers),
	)
	if len(bestSelection) == 0 {
		return ErrModelNotFound
	}
	s.bestCoeff = bestCoeff
	s.inliers = bestInliers
	s.selection = bestSelection
	return nil
}

// ranks returns the position of each observation in order.
func ranks(order []int, n int) ([]int, error) {
	r := make([]int, n)
	if order == nil {
		for i := range r {
			r[i] = i
		}
		return r, nil
	}
	if len(order) != n {
		return nil, ErrInvalidIndices
	}
	for i := range r {
		r[i] = -1
	}
	for i, id := range order {
		if id < 0 || id >= n || r[id] != -1 {
			return nil, ErrInvalidIndices
		}
		r[id] = i
	}
	return r, nil
}

func (s *PROSAC) Coefficients() ModelCoefficients {
	return s.bestCoeff
}

// Inliers returns the observations supporting the best model.
func (s *PROSAC) Inliers() []int {
	return s.inliers
}

// Selection returns the sample subset the best model was fitted to.
func (s *PROSAC) Selection() []int {
	return s.selection
}

// Iterations returns the number of trials of the last Compute.
func (s *PROSAC) Iterations() int {
	return s.iterations
}

// NStar returns the estimated size of the non-random prefix.
func (s *PROSAC) NStar() int {
	return s.nStar
}

// KStar returns the last trial budget.
func (s *PROSAC) KStar() int {
	return s.kStar
}

// PoolLen returns the pool size at the end of the last Compute.
func (s *PROSAC) PoolLen() int {
	return s.poolLen
}
