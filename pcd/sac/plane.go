package sac

import (
	"math"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
)

const epsilon = 1e-6

type planeModel struct {
	ra pc.Vec3RandomAccessor
}

// NewPlaneModel returns a Model of the plane ax+by+cz+d=0.
// Coefficient values are [a, b, c, d] with unit normal (a, b, c).
func NewPlaneModel(ra pc.Vec3RandomAccessor) Model {
	return &planeModel{ra: ra}
}

func (planeModel) NumRange() (min, max int) {
	return 3, 3
}

func (m *planeModel) Len() int {
	return m.ra.Len()
}

func (m *planeModel) Fit(ids []int) (ModelCoefficients, bool) {
	if len(ids) != 3 {
		return nil, false
	}
	norm, d, ok := fitPlane(m.ra.Vec3At(ids[0]), m.ra.Vec3At(ids[1]), m.ra.Vec3At(ids[2]))
	if !ok {
		return nil, false
	}
	return &planeModelCoefficients{ra: m.ra, norm: norm, d: d}, true
}

type perpendicularPlaneModel struct {
	planeModel
	axis     vec3d
	epsAngle float64
}

// NewPerpendicularPlaneModel returns a plane Model accepting only planes
// perpendicular to the axis, i.e. whose normal is within epsAngle radians
// from the axis.
func NewPerpendicularPlaneModel(ra pc.Vec3RandomAccessor, axis mat.Vec3, epsAngle float32) Model {
	a := toVec3d(axis)
	if n := a.norm(); n > 0 {
		a = a.mul(1 / n)
	}
	return &perpendicularPlaneModel{
		planeModel: planeModel{ra: ra},
		axis:       a,
		epsAngle:   float64(epsAngle),
	}
}

func (m *perpendicularPlaneModel) Fit(ids []int) (ModelCoefficients, bool) {
	c, ok := m.planeModel.Fit(ids)
	if !ok {
		return nil, false
	}
	cos := math.Abs(c.(*planeModelCoefficients).norm.dot(m.axis))
	if cos > 1 {
		cos = 1
	}
	if math.Acos(cos) > m.epsAngle {
		return nil, false
	}
	return c, true
}

func fitPlane(p0, p1, p2 mat.Vec3) (vec3d, float64, bool) {
	q0 := toVec3d(p0)
	v1, v2 := toVec3d(p1).sub(q0), toVec3d(p2).sub(q0)

	norm := v1.cross(v2)
	l := norm.norm()
	if l < epsilon*epsilon {
		return vec3d{}, 0, false
	}
	norm = norm.mul(1 / l)
	return norm, -norm.dot(q0), true
}

type planeModelCoefficients struct {
	ra   pc.Vec3RandomAccessor
	norm vec3d
	d    float64
}

func (c *planeModelCoefficients) distance(p mat.Vec3) float64 {
	return math.Abs(c.norm.dot(toVec3d(p)) + c.d)
}

func (c *planeModelCoefficients) Inliers(d float32) []int {
	n := c.ra.Len()
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if c.distance(c.ra.Vec3At(i)) < float64(d) {
			out = append(out, i)
		}
	}
	return out
}

func (c *planeModelCoefficients) IsIn(p mat.Vec3, d float32) bool {
	return c.distance(p) < float64(d)
}

func (c *planeModelCoefficients) Values() []float32 {
	return []float32{float32(c.norm[0]), float32(c.norm[1]), float32(c.norm[2]), float32(c.d)}
}
