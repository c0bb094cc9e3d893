package sac

import (
	"errors"
	"math"

	"github.com/seqsense/pcgol/mat"
)

var (
	// ErrNoThreshold is returned when Compute is called before setting
	// the distance threshold.
	ErrNoThreshold = errors.New("sac: no distance threshold set")
	// ErrNoSamples is returned when no sample subset can be selected.
	ErrNoSamples = errors.New("sac: no samples could be selected")
	// ErrModelNotFound is returned when the trial budget is exhausted
	// without any successful model fit.
	ErrModelNotFound = errors.New("sac: model not found")
	// ErrInvalidIndices is returned when the observation order is not
	// a permutation of the model observations.
	ErrInvalidIndices = errors.New("sac: invalid observation order")
)

type Sampler interface {
	Sample() int
}

// Model fits ModelCoefficients to a subset of observations.
// Observations are identified by the index 0 to Len()-1.
type Model interface {
	NumRange() (min, max int)
	Len() int
	Fit([]int) (ModelCoefficients, bool)
}

type ModelCoefficients interface {
	Inliers(float32) []int
	IsIn(mat.Vec3, float32) bool
	Values() []float32
}

const (
	defaultProbability = 0.99
	machineEpsilon     = 0x1p-52
)

// SAC is a plain random sample consensus estimator.
type SAC struct {
	Sampler Sampler
	Model   Model

	// Probability of choosing at least one outlier-free sample.
	// If zero, 0.99 is used.
	Probability float64

	threshold float32
	bestCoeff ModelCoefficients
	inliers   []int
	selection []int
}

func New(s Sampler, m Model) *SAC {
	return &SAC{Sampler: s, Model: m, threshold: float32(math.Inf(1))}
}

func (s *SAC) SetDistanceThreshold(th float32) {
	s.threshold = th
}

// Compute runs at most n trials. Trial count is reduced adaptively
// according to the best inlier ratio found so far.
func (s *SAC) Compute(n int) error {
	if math.IsInf(float64(s.threshold), 1) {
		return ErrNoThreshold
	}
	var bestCoeff ModelCoefficients
	var bestInliers, bestSelection []int

	num, _ := s.Model.NumRange()
	total := s.Model.Len()
	if total < num {
		return ErrNoSamples
	}
	p := s.Probability
	if p == 0 {
		p = defaultProbability
	}

	k := float64(n)
	for i := 0; i < n && float64(i) < k; i++ {
		ids := make([]int, num)
		for j := 0; j < num; j++ {
			ids[j] = s.Sampler.Sample()
		}
		coeff, ok := s.Model.Fit(ids)
		if !ok {
			continue
		}
		inliers := coeff.Inliers(s.threshold)
		if len(inliers) > len(bestInliers) {
			bestInliers = inliers
			bestCoeff = coeff
			bestSelection = ids

			w := float64(len(inliers)) / float64(total)
			pNoOutliers := 1 - math.Pow(w, float64(num))
			pNoOutliers = math.Max(machineEpsilon, pNoOutliers)
			pNoOutliers = math.Min(1-machineEpsilon, pNoOutliers)
			k = math.Log(1-p) / math.Log(pNoOutliers)
		}
	}
	if bestCoeff == nil {
		s.bestCoeff, s.inliers, s.selection = nil, nil, nil
		return ErrModelNotFound
	}
	s.bestCoeff = bestCoeff
	s.inliers = bestInliers
	s.selection = bestSelection
	return nil
}

func (s *SAC) Coefficients() ModelCoefficients {
	return s.bestCoeff
}

func (s *SAC) Inliers() []int {
	return s.inliers
}

func (s *SAC) Selection() []int {
	return s.selection
}
