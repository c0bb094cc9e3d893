package voxelgrid

import (
	"errors"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"

	"github.com/seqsense/pcsegment/pcd/filter"
)

var ErrInvalidLeafSize = errors.New("voxelgrid: leaf size must be positive")

type Options struct {
	LeafSize mat.Vec3
}

type voxelGrid struct {
	Options
}

type voxel struct {
	sum   mat.Vec3
	num   int
	index int
}

// New returns a Filter replacing points in each leaf by their centroid.
// Fields other than x, y and z are taken from the first point of the leaf.
func New(leafSize mat.Vec3) filter.Filter {
	return &voxelGrid{
		Options: Options{
			LeafSize: leafSize,
		},
	}
}

func (f *voxelGrid) Filter(pp *pc.PointCloud) (*pc.PointCloud, error) {
	if f.LeafSize[0] <= 0 || f.LeafSize[1] <= 0 || f.LeafSize[2] <= 0 {
		return nil, ErrInvalidLeafSize
	}
	it, err := pp.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	min, max, err := pc.MinMaxVec3(it)
	if err != nil {
		return nil, err
	}
	if it, err = pp.Vec3Iterator(); err != nil {
		return nil, err
	}

	size := max.Sub(min)
	xs := int(size[0]/f.LeafSize[0]) + 1
	ys := int(size[1]/f.LeafSize[1]) + 1
	zs := int(size[2]/f.LeafSize[2]) + 1
	voxels := make([]voxel, xs*ys*zs)

	var n int
	for i := 0; it.IsValid(); it.Incr() {
		p := it.Vec3().Sub(min)
		x, y, z := int(p[0]/f.LeafSize[0]), int(p[1]/f.LeafSize[1]), int(p[2]/f.LeafSize[2])
		v := &voxels[x+xs*(y+ys*z)]
		if v.num == 0 {
			v.index = i
			n++
		}
		v.num++
		v.sum = v.sum.Add(p)
		i++
	}

	stride := pp.Stride()
	newPc := &pc.PointCloud{
		PointCloudHeader: pp.PointCloudHeader.Clone(),
		Points:           n,
		Data:             make([]byte, stride*n),
	}
	newPc.Width = n
	newPc.Height = 1
	jt, err := newPc.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	var jStart int
	for i := range voxels {
		v := &voxels[i]
		if v.num == 0 {
			continue
		}
		iStart := v.index * stride
		copy(newPc.Data[jStart:jStart+stride], pp.Data[iStart:iStart+stride])
		if v.num > 1 {
			jt.SetVec3(v.sum.Mul(1.0 / float32(v.num)).Add(min))
		}
		jt.Incr()
		jStart += stride
	}

	return newPc, nil
}
