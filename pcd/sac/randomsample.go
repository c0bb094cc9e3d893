package sac

import (
	"math/rand"
)

// NewRandomSampler returns a Sampler drawing uniformly from [0, n).
// If rnd is nil, the global source is used.
func NewRandomSampler(n int, rnd *rand.Rand) Sampler {
	if rnd == nil {
		if n < 0x8000000 {
			return &randomSampler31{n: int32(n), int31n: rand.Int31n}
		}
		return &randomSampler63{n: int64(n), int63n: rand.Int63n}
	}
	if n < 0x8000000 {
		return &randomSampler31{n: int32(n), int31n: rnd.Int31n}
	}
	return &randomSampler63{n: int64(n), int63n: rnd.Int63n}
}

type randomSampler31 struct {
	n      int32
	int31n func(int32) int32
}

func (s *randomSampler31) Sample() int {
	return int(s.int31n(s.n))
}

type randomSampler63 struct {
	n      int64
	int63n func(int64) int64
}

func (s *randomSampler63) Sample() int {
	return int(s.int63n(s.n))
}

// sampleSubset draws m distinct elements of pool uniformly.
// nil is returned if pool has less than m elements.
func sampleSubset(rnd *rand.Rand, pool []int, m int) []int {
	n := len(pool)
	if m <= 0 || n < m {
		return nil
	}
	// Partial Fisher-Yates shuffle over positions without touching pool.
	swapped := make(map[int]int, m)
	at := func(i int) int {
		if j, ok := swapped[i]; ok {
			return j
		}
		return i
	}
	out := make([]int, m)
	for i := 0; i < m; i++ {
		j := i + rnd.Intn(n-i)
		vi, vj := at(i), at(j)
		swapped[j] = vi
		swapped[i] = vj
		out[i] = pool[vj]
	}
	return out
}
