// Package segmentation finds a geometric model in a point cloud by
// sample consensus.
package segmentation

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"

	"github.com/seqsense/pcsegment/pcd/sac"
)

var (
	ErrUnknownModel  = errors.New("segmentation: unknown model type")
	ErrUnknownMethod = errors.New("segmentation: unknown method type")
	ErrNoAxis        = errors.New("segmentation: axis is required by the model")
)

type ModelType int

const (
	ModelPlane ModelType = iota
	ModelPerpendicularPlane
	ModelLine
	ModelSphere
)

var modelNames = map[ModelType]string{
	ModelPlane:              "plane",
	ModelPerpendicularPlane: "perpendicular_plane",
	ModelLine:               "line",
	ModelSphere:             "sphere",
}

func (t ModelType) String() string {
	if s, ok := modelNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ModelType(%d)", int(t))
}

func ParseModelType(s string) (ModelType, error) {
	for t, name := range modelNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

type MethodType int

const (
	MethodRANSAC MethodType = iota
	MethodPROSAC
)

var methodNames = map[MethodType]string{
	MethodRANSAC: "ransac",
	MethodPROSAC: "prosac",
}

func (t MethodType) String() string {
	if s, ok := methodNames[t]; ok {
		return s
	}
	return fmt.Sprintf("MethodType(%d)", int(t))
}

func ParseMethodType(s string) (MethodType, error) {
	for t, name := range methodNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

const (
	DefaultMaxIterations = sac.DefaultMaxIterations
	DefaultProbability   = 0.99
)

// Segmenter holds the parameters of the segmentation.
type Segmenter struct {
	ModelType  ModelType
	MethodType MethodType

	// DistanceThreshold is the maximum distance of the inliers from the model.
	// Segment fails if it is not positive.
	DistanceThreshold float32
	MaxIterations     int
	// Probability of choosing at least one sample free from outliers.
	// Used by RANSAC.
	Probability float64
	// OptimizeCoefficients enables least-squares refinement of the
	// coefficients over the inliers.
	OptimizeCoefficients bool

	// Radius limits of the sphere model.
	RadiusMin, RadiusMax float32
	// Axis and the maximum angle in radians between the model normal and it.
	Axis     mat.Vec3
	EpsAngle float32

	// ClusterResolution restricts the inliers to the voxel-connected
	// cluster containing the first sampled point if positive.
	ClusterResolution float32

	Seed   int64
	Logger *slog.Logger
}

// New returns Segmenter with the default parameters.
func New(modelType ModelType, methodType MethodType) *Segmenter {
	return &Segmenter{
		ModelType:     modelType,
		MethodType:    methodType,
		MaxIterations: DefaultMaxIterations,
		Probability:   DefaultProbability,
		RadiusMin:     -math.MaxFloat32,
		RadiusMax:     math.MaxFloat32,
	}
}

type Result struct {
	// Inliers are indices of the points supporting the model.
	Inliers []int
	// Coefficients of the model.
	Coefficients []float32
	// Selection is the sample subset the model was fitted to.
	Selection []int
}

func (s *Segmenter) model(ra pc.Vec3RandomAccessor) (sac.Model, error) {
	switch s.ModelType {
	case ModelPlane:
		return sac.NewPlaneModel(ra), nil
	case ModelPerpendicularPlane:
		if s.Axis == (mat.Vec3{}) {
			return nil, ErrNoAxis
		}
		return sac.NewPerpendicularPlaneModel(ra, s.Axis, s.EpsAngle), nil
	case ModelLine:
		return sac.NewLineModel(ra), nil
	case ModelSphere:
		return sac.NewSphereModel(ra, s.RadiusMin, s.RadiusMax), nil
	default:
		return nil, ErrUnknownModel
	}
}

// Segment finds the model supported by the largest number of points.
// order lists point indices sorted by descending quality and is used by
// MethodPROSAC. If nil, points are assumed to be sorted.
func (s *Segmenter) Segment(ra pc.Vec3RandomAccessor, order []int) (*Result, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	model, err := s.model(ra)
	if err != nil {
		return nil, err
	}
	rnd := rand.New(rand.NewSource(s.Seed))

	var coeff sac.ModelCoefficients
	var inliers, selection []int
	switch s.MethodType {
	case MethodRANSAC:
		e := sac.New(sac.NewRandomSampler(ra.Len(), rnd), model)
		e.Probability = s.Probability
		if s.DistanceThreshold > 0 {
			e.SetDistanceThreshold(s.DistanceThreshold)
		}
		if err := e.Compute(s.MaxIterations); err != nil {
			return nil, fmt.Errorf("segmentation: %s: %w", s.MethodType, err)
		}
		coeff, inliers, selection = e.Coefficients(), e.Inliers(), e.Selection()
	case MethodPROSAC:
		e := sac.NewPROSAC(model)
		e.Rand = rnd
		e.Logger = logger
		e.SetMaxIterations(s.MaxIterations)
		if s.DistanceThreshold > 0 {
			e.SetDistanceThreshold(s.DistanceThreshold)
		}
		if err := e.Compute(order); err != nil {
			return nil, fmt.Errorf("segmentation: %s: %w", s.MethodType, err)
		}
		coeff, inliers, selection = e.Coefficients(), e.Inliers(), e.Selection()
		logger.Info("Model found",
			"method", s.MethodType,
			"iterations", e.Iterations(),
			"nStar", e.NStar(),
			"budget", e.KStar(),
		)
	default:
		return nil, ErrUnknownMethod
	}

	if s.OptimizeCoefficients {
		if r, ok := model.(sac.Refiner); ok {
			if refined, ok := r.Refine(inliers); ok {
				coeff = refined
				inliers = refined.Inliers(s.DistanceThreshold)
			} else {
				logger.Warn("Failed to refine coefficients", "model", s.ModelType, "inliers", len(inliers))
			}
		}
	}

	if s.ClusterResolution > 0 && len(selection) > 0 {
		inliers = ConnectedInliers(ra, inliers, ra.Vec3At(selection[0]), s.ClusterResolution)
	}

	logger.Info("Segmented",
		"model", s.ModelType,
		"inliers", len(inliers),
		"points", ra.Len(),
	)
	return &Result{
		Inliers:      inliers,
		Coefficients: coeff.Values(),
		Selection:    selection,
	}, nil
}
