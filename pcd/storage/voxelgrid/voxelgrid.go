package voxelgrid

import (
	"github.com/seqsense/pcgol/mat"
)

// VoxelGrid stores point indices per voxel.
type VoxelGrid struct {
	voxel         [][]int
	size          [3]int
	origin        mat.Vec3
	resolution    float32
	resolutionInv float32
}

func New(resolution float32, size [3]int, origin mat.Vec3) *VoxelGrid {
	return &VoxelGrid{
		voxel:         make([][]int, size[0]*size[1]*size[2]),
		size:          size,
		origin:        origin,
		resolution:    resolution,
		resolutionInv: 1 / resolution,
	}
}

// NewBounded returns VoxelGrid covering the box from min to max.
func NewBounded(resolution float32, min, max mat.Vec3) *VoxelGrid {
	// Same arithmetic as PosInt so that max is always inside.
	inv := 1 / resolution
	var size [3]int
	for i := range size {
		size[i] = int((max[i]-min[i])*inv) + 1
	}
	return New(resolution, size, min)
}

func (v *VoxelGrid) Add(p mat.Vec3, index int) bool {
	addr, ok := v.Addr(p)
	if !ok {
		return false
	}
	v.AddByAddr(addr, index)
	return true
}

func (v *VoxelGrid) AddByAddr(addr, index int) {
	ptr := &v.voxel[addr]
	*ptr = append(*ptr, index)
}

func (v *VoxelGrid) Get(p mat.Vec3) []int {
	addr, ok := v.Addr(p)
	if !ok {
		return nil
	}
	return v.voxel[addr]
}

func (v *VoxelGrid) GetByAddr(a int) []int {
	return v.voxel[a]
}

func (v *VoxelGrid) Addr(p mat.Vec3) (int, bool) {
	pos, ok := v.PosInt(p)
	if !ok {
		return 0, false
	}
	return v.AddrByPosInt(pos)
}

func (v *VoxelGrid) AddrByPosInt(p [3]int) (int, bool) {
	x, y, z := p[0], p[1], p[2]
	if x < 0 || y < 0 || z < 0 || x >= v.size[0] || y >= v.size[1] || z >= v.size[2] {
		return 0, false
	}
	return x + (y+z*v.size[1])*v.size[0], true
}

func (v *VoxelGrid) PosInt(p mat.Vec3) ([3]int, bool) {
	pos := p.Sub(v.origin)
	// Truncation toward zero maps (-1, 0) to 0, so reject negative first.
	if pos[0] < 0 || pos[1] < 0 || pos[2] < 0 {
		return [3]int{}, false
	}
	x := int(pos[0] * v.resolutionInv)
	y := int(pos[1] * v.resolutionInv)
	z := int(pos[2] * v.resolutionInv)
	if x >= v.size[0] || y >= v.size[1] || z >= v.size[2] {
		return [3]int{}, false
	}
	return [3]int{x, y, z}, true
}

func (v *VoxelGrid) Len() int {
	return v.size[0] * v.size[1] * v.size[2]
}

func (v *VoxelGrid) Resolution() float32 {
	return v.resolution
}

// Indice returns all stored indices in voxel order.
func (v *VoxelGrid) Indice() []int {
	var n int
	for _, c := range v.voxel {
		n += len(c)
	}
	out := make([]int, 0, n)
	for _, c := range v.voxel {
		out = append(out, c...)
	}
	return out
}

func (v *VoxelGrid) Reset() {
	for i := range v.voxel {
		v.voxel[i] = v.voxel[i][:0]
	}
}
