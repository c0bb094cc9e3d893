package filter

import (
	"github.com/seqsense/pcgol/pc"
)

// Filter converts a point cloud into a new one.
type Filter interface {
	Filter(*pc.PointCloud) (*pc.PointCloud, error)
}
