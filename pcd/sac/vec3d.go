package sac

import (
	"math"

	"github.com/seqsense/pcgol/mat"
)

// vec3d is a double precision vector used to keep fitting residuals
// well below float32 resolution of the point coordinates.
type vec3d [3]float64

func toVec3d(v mat.Vec3) vec3d {
	return vec3d{float64(v[0]), float64(v[1]), float64(v[2])}
}

func (v vec3d) sub(a vec3d) vec3d {
	return vec3d{v[0] - a[0], v[1] - a[1], v[2] - a[2]}
}

func (v vec3d) mul(a float64) vec3d {
	return vec3d{v[0] * a, v[1] * a, v[2] * a}
}

func (v vec3d) dot(a vec3d) float64 {
	return v[0]*a[0] + v[1]*a[1] + v[2]*a[2]
}

func (v vec3d) cross(a vec3d) vec3d {
	return vec3d{
		v[1]*a[2] - v[2]*a[1],
		v[2]*a[0] - v[0]*a[2],
		v[0]*a[1] - v[1]*a[0],
	}
}

func (v vec3d) normSq() float64 {
	return v.dot(v)
}

func (v vec3d) norm() float64 {
	return math.Sqrt(v.normSq())
}
