package voxelgrid

import (
	"sort"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"

	storage "github.com/seqsense/pcsegment/pcd/storage/voxelgrid"
)

// neighbors are the offsets to the voxels sharing a face, an edge or
// a corner.
var neighbors [][3]int

func init() {
	for _, x := range []int{-1, 0, 1} {
		for _, y := range []int{-1, 0, 1} {
			for _, z := range []int{-1, 0, 1} {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				neighbors = append(neighbors, [3]int{x, y, z})
			}
		}
	}
}

// VoxelGrid extracts voxel-connected clusters of points.
type VoxelGrid struct {
	*storage.VoxelGrid
}

func New(resolution float32, size [3]int, origin mat.Vec3) *VoxelGrid {
	return &VoxelGrid{
		VoxelGrid: storage.New(resolution, size, origin),
	}
}

// NewBounded returns VoxelGrid covering the box from min to max.
func NewBounded(resolution float32, min, max mat.Vec3) *VoxelGrid {
	return &VoxelGrid{
		VoxelGrid: storage.NewBounded(resolution, min, max),
	}
}

// NewFromPoints returns VoxelGrid just covering the given points and
// holding them. nil is returned if ids is empty.
func NewFromPoints(ra pc.Vec3RandomAccessor, ids []int, resolution float32) *VoxelGrid {
	if len(ids) == 0 {
		return nil
	}
	min, max := ra.Vec3At(ids[0]), ra.Vec3At(ids[0])
	for _, id := range ids[1:] {
		p := ra.Vec3At(id)
		for i := range p {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	v := NewBounded(resolution, min, max)
	for _, id := range ids {
		v.Add(ra.Vec3At(id), id)
	}
	return v
}

// Segment returns sorted indices in the voxels connected to the voxel of p.
// Empty voxels break the connection.
func (v *VoxelGrid) Segment(p mat.Vec3) []int {
	start, ok := v.PosInt(p)
	if !ok {
		return nil
	}
	addr, _ := v.AddrByPosInt(start)
	if len(v.GetByAddr(addr)) == 0 {
		return nil
	}

	visited := make([]bool, v.Len())
	visited[addr] = true
	queue := [][3]int{start}
	var indice []int
	for head := 0; head < len(queue); head++ {
		pos := queue[head]
		a, _ := v.AddrByPosInt(pos)
		indice = append(indice, v.GetByAddr(a)...)

		for _, d := range neighbors {
			n := [3]int{pos[0] + d[0], pos[1] + d[1], pos[2] + d[2]}
			na, ok := v.AddrByPosInt(n)
			if !ok || visited[na] {
				continue
			}
			visited[na] = true
			if len(v.GetByAddr(na)) > 0 {
				queue = append(queue, n)
			}
		}
	}
	sort.Ints(indice)
	return indice
}
