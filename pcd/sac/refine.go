package sac

import (
	"github.com/seqsense/pcgol/pc"
	gmat "gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Refiner is implemented by the Model supporting least-squares
// refinement of the coefficients over the inliers.
type Refiner interface {
	Refine(inliers []int) (ModelCoefficients, bool)
}

// principalAxes returns the centroid and the eigen vectors of
// the covariance of the points, sorted by ascending eigen values.
func principalAxes(ra pc.Vec3RandomAccessor, ids []int) (vec3d, [3]vec3d, bool) {
	x := gmat.NewDense(len(ids), 3, nil)
	for i, id := range ids {
		p := toVec3d(ra.Vec3At(id))
		x.SetRow(i, p[:])
	}
	var centroid vec3d
	for j := range centroid {
		centroid[j] = stat.Mean(gmat.Col(nil, j, x), nil)
	}

	var cov gmat.SymDense
	stat.CovarianceMatrix(&cov, x, nil)
	var eig gmat.EigenSym
	if ok := eig.Factorize(&cov, true); !ok {
		return vec3d{}, [3]vec3d{}, false
	}
	var vecs gmat.Dense
	eig.VectorsTo(&vecs)

	var axes [3]vec3d
	for j := range axes {
		axes[j] = vec3d{vecs.At(0, j), vecs.At(1, j), vecs.At(2, j)}
	}
	return centroid, axes, true
}

func (m *planeModel) Refine(inliers []int) (ModelCoefficients, bool) {
	if len(inliers) < 3 {
		return nil, false
	}
	centroid, axes, ok := principalAxes(m.ra, inliers)
	if !ok {
		return nil, false
	}
	norm := axes[0]
	l := norm.norm()
	if l < epsilon {
		return nil, false
	}
	norm = norm.mul(1 / l)
	return &planeModelCoefficients{ra: m.ra, norm: norm, d: -norm.dot(centroid)}, true
}

func (m *lineModel) Refine(inliers []int) (ModelCoefficients, bool) {
	if len(inliers) < 2 {
		return nil, false
	}
	centroid, axes, ok := principalAxes(m.ra, inliers)
	if !ok {
		return nil, false
	}
	dir := axes[2]
	l := dir.norm()
	if l < epsilon {
		return nil, false
	}
	return &lineModelCoefficients{ra: m.ra, origin: centroid, dir: dir.mul(1 / l)}, true
}
