package segmentation

import (
	"github.com/seqsense/pcgol/pc"
)

// Inlier and Outlier are the labels written by Label.
const (
	Outlier uint32 = 0
	Inlier  uint32 = 1
)

// Label returns a copy of the x, y and z fields of pp with a label field
// set to Inlier for the given indices and Outlier for the others.
func Label(pp *pc.PointCloud, inliers []int) (*pc.PointCloud, error) {
	it, err := pp.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	n := it.Len()
	h := pp.PointCloudHeader.Clone()
	h.Fields = []string{"x", "y", "z", "label"}
	h.Size = []int{4, 4, 4, 4}
	h.Type = []string{"F", "F", "F", "U"}
	h.Count = []int{1, 1, 1, 1}
	h.Width = n
	h.Height = 1
	pcNew := &pc.PointCloud{
		PointCloudHeader: h,
		Points:           n,
		Data:             make([]byte, 4*4*n),
	}
	itNew, err := pcNew.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	itL, err := pcNew.Uint32Iterator("label")
	if err != nil {
		return nil, err
	}

	in := make([]bool, n)
	for _, id := range inliers {
		in[id] = true
	}
	for i := 0; it.IsValid(); i++ {
		itNew.SetVec3(it.Vec3())
		if in[i] {
			itL.SetUint32(Inlier)
		} else {
			itL.SetUint32(Outlier)
		}
		it.Incr()
		itNew.Incr()
		itL.Incr()
	}
	return pcNew, nil
}
