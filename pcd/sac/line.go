package sac

import (
	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
)

type lineModel struct {
	ra pc.Vec3RandomAccessor
}

// NewLineModel returns a Model of the 3D line.
// Coefficient values are [px, py, pz, dx, dy, dz]: a point on the line
// and the unit direction.
func NewLineModel(ra pc.Vec3RandomAccessor) Model {
	return &lineModel{ra: ra}
}

func (lineModel) NumRange() (min, max int) {
	return 2, 2
}

func (m *lineModel) Len() int {
	return m.ra.Len()
}

func (m *lineModel) Fit(ids []int) (ModelCoefficients, bool) {
	if len(ids) != 2 {
		return nil, false
	}
	p0, p1 := toVec3d(m.ra.Vec3At(ids[0])), toVec3d(m.ra.Vec3At(ids[1]))
	dir := p1.sub(p0)
	l := dir.norm()
	if l < epsilon {
		return nil, false
	}
	return &lineModelCoefficients{ra: m.ra, origin: p0, dir: dir.mul(1 / l)}, true
}

type lineModelCoefficients struct {
	ra     pc.Vec3RandomAccessor
	origin vec3d
	dir    vec3d
}

func (c *lineModelCoefficients) distanceSq(p mat.Vec3) float64 {
	return toVec3d(p).sub(c.origin).cross(c.dir).normSq()
}

func (c *lineModelCoefficients) Inliers(d float32) []int {
	dSq := float64(d) * float64(d)
	n := c.ra.Len()
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if c.distanceSq(c.ra.Vec3At(i)) < dSq {
			out = append(out, i)
		}
	}
	return out
}

func (c *lineModelCoefficients) IsIn(p mat.Vec3, d float32) bool {
	return c.distanceSq(p) < float64(d)*float64(d)
}

func (c *lineModelCoefficients) Values() []float32 {
	return []float32{
		float32(c.origin[0]), float32(c.origin[1]), float32(c.origin[2]),
		float32(c.dir[0]), float32(c.dir[1]), float32(c.dir[2]),
	}
}
