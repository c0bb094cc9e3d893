package segmentation

import (
	"sort"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"

	"github.com/seqsense/pcsegment/pcd/segmentation/voxelgrid"
	storage "github.com/seqsense/pcsegment/pcd/storage/voxelgrid"
)

func boundsOf(ra pc.Vec3RandomAccessor, ids []int) (min, max mat.Vec3, ok bool) {
	for i, id := range ids {
		p := ra.Vec3At(id)
		if i == 0 {
			min, max = p, p
			continue
		}
		for j := range p {
			if p[j] < min[j] {
				min[j] = p[j]
			}
			if p[j] > max[j] {
				max[j] = p[j]
			}
		}
	}
	return min, max, len(ids) > 0
}

func allIndices(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// spread maps the index to a pseudo-random key. It is a bijection on
// uint32 (Fibonacci hashing) so the order of the keys is total.
func spread(i int) uint32 {
	return uint32(i) * 2654435769
}

// DensityOrder returns point indices sorted by descending number of points
// in the voxel of the point. Points in the same density are ordered by
// spread(index) so that neighbours in a scan are not consecutive.
// Index order is kept if resolution is not positive.
func DensityOrder(ra pc.Vec3RandomAccessor, resolution float32) []int {
	ids := allIndices(ra.Len())
	min, max, ok := boundsOf(ra, ids)
	if !ok || resolution <= 0 {
		return ids
	}
	vg := storage.NewBounded(resolution, min, max)
	for _, id := range ids {
		vg.Add(ra.Vec3At(id), id)
	}
	density := make([]int, len(ids))
	for _, id := range ids {
		density[id] = len(vg.Get(ra.Vec3At(id)))
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if density[a] != density[b] {
			return density[a] > density[b]
		}
		return spread(a) < spread(b)
	})
	return ids
}

// ConnectedInliers returns the sorted inliers in the voxel cluster
// connected to seed.
func ConnectedInliers(ra pc.Vec3RandomAccessor, inliers []int, seed mat.Vec3, resolution float32) []int {
	if len(inliers) == 0 || resolution <= 0 {
		return inliers
	}
	return voxelgrid.NewFromPoints(ra, inliers, resolution).Segment(seed)
}
