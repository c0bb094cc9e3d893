// Package config loads segmentation parameters from YAML.
package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/seqsense/pcgol/mat"
	"gopkg.in/yaml.v3"

	"github.com/seqsense/pcsegment/pcd/segmentation"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("modeltype", func(fl validator.FieldLevel) bool {
		_, err := segmentation.ParseModelType(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("methodtype", func(fl validator.FieldLevel) bool {
		_, err := segmentation.ParseMethodType(fl.Field().String())
		return err == nil
	})
}

// Config represents parameters of a segmentation run.
type Config struct {
	Model                string     `yaml:"model" validate:"required,modeltype"`
	Method               string     `yaml:"method" validate:"required,methodtype"`
	DistanceThreshold    float32    `yaml:"distance_threshold" validate:"gt=0"`
	MaxIterations        int        `yaml:"max_iterations" validate:"gt=0"`
	Probability          float64    `yaml:"probability" validate:"gt=0,lt=1"`
	OptimizeCoefficients bool       `yaml:"optimize_coefficients"`
	RadiusMin            float32    `yaml:"radius_min"`
	RadiusMax            float32    `yaml:"radius_max" validate:"gtefield=RadiusMin"`
	Axis                 [3]float32 `yaml:"axis,flow"`
	EpsAngle             float32    `yaml:"eps_angle" validate:"gte=0"`
	Seed                 int64      `yaml:"seed"`

	// Leaf size of the voxel grid downsampling. Disabled if zero.
	LeafSize float32 `yaml:"leaf_size" validate:"gte=0"`
	// Voxel size to rank the points by local density. Points are used
	// in the input order if zero.
	DensityResolution float32 `yaml:"density_resolution" validate:"gte=0"`
	// Voxel size to extract connected inliers. Disabled if zero.
	ClusterResolution float32 `yaml:"cluster_resolution" validate:"gte=0"`
}

// Default returns Config with the default parameters.
func Default() *Config {
	return &Config{
		Model:             segmentation.ModelPlane.String(),
		Method:            segmentation.MethodPROSAC.String(),
		DistanceThreshold: 0.05,
		MaxIterations:     segmentation.DefaultMaxIterations,
		Probability:       segmentation.DefaultProbability,
		RadiusMin:         0,
		RadiusMax:         math.MaxFloat32,
		DensityResolution: 0.2,
	}
}

// Load reads the YAML file. Parameters not in the file keep the default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Marshal returns the YAML representation.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Segmenter returns segmentation.Segmenter configured by c.
func (c *Config) Segmenter(logger *slog.Logger) (*segmentation.Segmenter, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	modelType, err := segmentation.ParseModelType(c.Model)
	if err != nil {
		return nil, err
	}
	methodType, err := segmentation.ParseMethodType(c.Method)
	if err != nil {
		return nil, err
	}
	s := segmentation.New(modelType, methodType)
	s.DistanceThreshold = c.DistanceThreshold
	s.MaxIterations = c.MaxIterations
	s.Probability = c.Probability
	s.OptimizeCoefficients = c.OptimizeCoefficients
	s.RadiusMin = c.RadiusMin
	s.RadiusMax = c.RadiusMax
	s.Axis = mat.Vec3(c.Axis)
	s.EpsAngle = c.EpsAngle
	s.ClusterResolution = c.ClusterResolution
	s.Seed = c.Seed
	s.Logger = logger
	return s, nil
}
