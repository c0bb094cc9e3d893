package sac

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/seqsense/pcgol/mat"
)

type dummyPointCloud []mat.Vec3

func (p dummyPointCloud) Vec3At(i int) mat.Vec3 {
	return p[i]
}

func (p dummyPointCloud) Len() int {
	return len(p)
}

func (p dummyPointCloud) RawIndexAt(i int) int {
	return i
}

func TestSAC(t *testing.T) {
	pc := dummyPointCloud{
		mat.Vec3{0.0, 0.0, 0.0},
		mat.Vec3{0.1, 0.0, 0.1},
		mat.Vec3{0.2, 0.0, 0.2},
		mat.Vec3{0.2, 0.1, 0.6}, // outlier
		mat.Vec3{0.0, 0.1, 0.0},
		mat.Vec3{0.1, 0.1, 0.1},
		mat.Vec3{0.2, 0.1, 0.2},
		mat.Vec3{0.0, 0.2, 0.0},
		mat.Vec3{0.1, 0.2, 0.1},
		mat.Vec3{0.2, 0.2, 0.2},
		mat.Vec3{0.3, 0.7, 0.9},  // outlier
		mat.Vec3{0.6, 0.7, -0.5}, // outlier
		mat.Vec3{0.6, 0.3, 1.2},  // outlier
	}
	m := NewPlaneModel(pc)

	t.Run("NoThreshold", func(t *testing.T) {
		s := New(NewRandomSampler(len(pc), rand.New(rand.NewSource(1))), m)
		if err := s.Compute(30); !errors.Is(err, ErrNoThreshold) {
			t.Fatalf("Expected %v, got %v", ErrNoThreshold, err)
		}
	})

	s := New(NewRandomSampler(len(pc), rand.New(rand.NewSource(1))), m)
	s.SetDistanceThreshold(0.01)
	if err := s.Compute(100); err != nil {
		t.Fatalf("SAC.Compute should succeed: %v", err)
	}

	// Points 0-2 and 4-9 are on z=x. No other plane is supported by
	// more than 5 points within the threshold.
	indice := s.Coefficients().Inliers(0.01)
	expectedIndice := []int{0, 1, 2, 4, 5, 6, 7, 8, 9}
	if !reflect.DeepEqual(expectedIndice, indice) {
		t.Errorf("Expected inlier: %v, got: %v", expectedIndice, indice)
	}
	if !reflect.DeepEqual(indice, s.Inliers()) {
		t.Errorf("Inliers differs from the coefficients, expected: %v, got: %v", indice, s.Inliers())
	}
	if n := len(s.Selection()); n != 3 {
		t.Errorf("Expected 3 selected points, got %d", n)
	}
}

func TestRandomSampler(t *testing.T) {
	for name, n := range map[string]int{
		"Small": 10,
		"Large": 0x10000000,
	} {
		n := n
		t.Run(name, func(t *testing.T) {
			s0 := NewRandomSampler(n, rand.New(rand.NewSource(5)))
			s1 := NewRandomSampler(n, rand.New(rand.NewSource(5)))
			for i := 0; i < 100; i++ {
				a, b := s0.Sample(), s1.Sample()
				if a != b {
					t.Fatalf("Seeded samplers must be deterministic, %d != %d", a, b)
				}
				if a < 0 || a >= n {
					t.Fatalf("Sample %d out of range [0, %d)", a, n)
				}
			}
		})
	}
}

func TestSampleSubset(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	pool := []int{10, 11, 12, 13, 14}
	orig := append([]int{}, pool...)

	for i := 0; i < 100; i++ {
		s := sampleSubset(rnd, pool, 3)
		if len(s) != 3 {
			t.Fatalf("Expected 3 samples, got %v", s)
		}
		seen := map[int]bool{}
		for _, id := range s {
			if id < 10 || id > 14 {
				t.Fatalf("Sample %d is not in the pool", id)
			}
			if seen[id] {
				t.Fatalf("Samples must be unique: %v", s)
			}
			seen[id] = true
		}
	}
	if !reflect.DeepEqual(orig, pool) {
		t.Errorf("Pool must not be modified, expected: %v, got: %v", orig, pool)
	}
	if s := sampleSubset(rnd, pool[:2], 3); s != nil {
		t.Errorf("Sampling from too small pool must fail, got: %v", s)
	}
}
