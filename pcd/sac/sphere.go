package sac

import (
	"math"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
	gmat "gonum.org/v1/gonum/mat"
)

type sphereModel struct {
	ra                   pc.Vec3RandomAccessor
	radiusMin, radiusMax float64
}

// NewSphereModel returns a Model of the sphere.
// Coefficient values are [cx, cy, cz, r].
// Spheres with the radius out of [radiusMin, radiusMax] are rejected.
func NewSphereModel(ra pc.Vec3RandomAccessor, radiusMin, radiusMax float32) Model {
	return &sphereModel{
		ra:        ra,
		radiusMin: float64(radiusMin),
		radiusMax: float64(radiusMax),
	}
}

func (sphereModel) NumRange() (min, max int) {
	return 4, 4
}

func (m *sphereModel) Len() int {
	return m.ra.Len()
}

func (m *sphereModel) Fit(ids []int) (ModelCoefficients, bool) {
	if len(ids) != 4 {
		return nil, false
	}
	var p [4]vec3d
	for i, id := range ids {
		p[i] = toVec3d(m.ra.Vec3At(id))
	}

	// The center c satisfies 2(p[i]-p[0]).c = |p[i]|^2-|p[0]|^2.
	a := gmat.NewDense(3, 3, nil)
	b := gmat.NewVecDense(3, nil)
	for i := 1; i < 4; i++ {
		v := p[i].sub(p[0])
		a.SetRow(i-1, []float64{2 * v[0], 2 * v[1], 2 * v[2]})
		b.SetVec(i-1, p[i].normSq()-p[0].normSq())
	}
	if math.Abs(gmat.Det(a)) < epsilon {
		return nil, false
	}
	var x gmat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, false
	}
	center := vec3d{x.AtVec(0), x.AtVec(1), x.AtVec(2)}
	r := p[0].sub(center).norm()
	if r < m.radiusMin || m.radiusMax < r {
		return nil, false
	}
	return &sphereModelCoefficients{ra: m.ra, center: center, radius: r}, true
}

type sphereModelCoefficients struct {
	ra     pc.Vec3RandomAccessor
	center vec3d
	radius float64
}

func (c *sphereModelCoefficients) distance(p mat.Vec3) float64 {
	return math.Abs(toVec3d(p).sub(c.center).norm() - c.radius)
}

func (c *sphereModelCoefficients) Inliers(d float32) []int {
	n := c.ra.Len()
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if c.distance(c.ra.Vec3At(i)) < float64(d) {
			out = append(out, i)
		}
	}
	return out
}

func (c *sphereModelCoefficients) IsIn(p mat.Vec3, d float32) bool {
	return c.distance(p) < float64(d)
}

func (c *sphereModelCoefficients) Values() []float32 {
	return []float32{float32(c.center[0]), float32(c.center[1]), float32(c.center[2]), float32(c.radius)}
}
