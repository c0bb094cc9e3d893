package sac

import (
	"math"
	"math/rand"
)

// Worst case number of trials of the plain random sample consensus.
const tN = 200000

// progressiveSampler draws samples from a growing prefix of
// the quality-ordered observations.
type progressiveSampler struct {
	order []int
	m     int

	pool    []int
	n       int
	tn      float32
	tPrimeN float32

	rnd *rand.Rand
}

func newProgressiveSampler(order []int, m int, rnd *rand.Rand) *progressiveSampler {
	bigN := len(order)
	tn := float32(tN)
	for i := 0; i < m; i++ {
		tn *= float32(m-i) / float32(bigN-i)
	}
	n := m
	if n > bigN {
		n = bigN
	}
	pool := make([]int, n, bigN)
	copy(pool, order[:n])
	return &progressiveSampler{
		order:   order,
		m:       m,
		pool:    pool,
		n:       n,
		tn:      tn,
		tPrimeN: 1,
		rnd:     rnd,
	}
}

// grow extends the pool by one observation if the schedule requires.
// The pool never grows beyond nStar, which is at most the number of
// observations.
func (s *progressiveSampler) grow(iteration int, nStar int) {
	if float32(iteration) != s.tPrimeN || s.n >= nStar {
		return
	}
	s.n++
	s.pool = append(s.pool, s.order[s.n-1])

	tnPrev := s.tn
	s.tn *= float32(s.n+1) / float32(s.n+1-s.m)
	s.tPrimeN += float32(math.Ceil(float64(s.tn - tnPrev)))
}

// sample returns m observations drawn from the pool.
// The pool must have been grown for this iteration beforehand.
func (s *progressiveSampler) sample(iteration int) []int {
	selection := sampleSubset(s.rnd, s.pool, s.m)
	if selection == nil {
		return nil
	}
	if s.tPrimeN < float32(iteration) {
		// Make sure the newest observation is tested.
		newest := s.pool[s.n-1]
		last := len(selection) - 1
		for i, id := range selection[:last] {
			if id == newest {
				selection[i] = selection[last]
				break
			}
		}
		selection[last] = newest
	}
	return selection
}

func (s *progressiveSampler) poolLen() int {
	return s.n
}
