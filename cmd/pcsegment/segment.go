package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/seqsense/pcsegment/config"
	"github.com/seqsense/pcsegment/pcd/filter/voxelgrid"
	"github.com/seqsense/pcsegment/pcd/segmentation"
)

type segmentOptions struct {
	output    string
	model     string
	method    string
	threshold float32
	seed      int64
}

// report is printed after the segmentation.
type report struct {
	Model        string    `yaml:"model"`
	Method       string    `yaml:"method"`
	Points       int       `yaml:"points"`
	Inliers      int       `yaml:"inliers"`
	Coefficients []float32 `yaml:"coefficients,flow"`
}

func newSegmentCmd(root *rootOptions) *cobra.Command {
	opts := &segmentOptions{}
	cmd := &cobra.Command{
		Use:   "segment input.pcd",
		Short: "Find the model supported by the largest number of points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.override(cmd, cfg); err != nil {
				return err
			}
			return runSegment(cmd, root, opts, cfg, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the labeled point cloud to the PCD file")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model type overriding the configuration")
	cmd.Flags().StringVar(&opts.method, "method", "", "Method type overriding the configuration")
	cmd.Flags().Float32Var(&opts.threshold, "threshold", 0, "Distance threshold overriding the configuration")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Random seed overriding the configuration")
	return cmd
}

func (o *segmentOptions) override(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = o.model
	}
	if flags.Changed("method") {
		cfg.Method = o.method
	}
	if flags.Changed("threshold") {
		cfg.DistanceThreshold = o.threshold
	}
	if flags.Changed("seed") {
		cfg.Seed = o.seed
	}
	return cfg.Validate()
}

func runSegment(cmd *cobra.Command, root *rootOptions, opts *segmentOptions, cfg *config.Config, input string) error {
	logger := root.logger(cmd)

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()
	pp, err := pc.Unmarshal(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}
	logger.Info("Loaded", "path", input, "points", pp.Points)

	if cfg.LeafSize > 0 {
		vg := voxelgrid.New(mat.Vec3{cfg.LeafSize, cfg.LeafSize, cfg.LeafSize})
		if pp, err = vg.Filter(pp); err != nil {
			return err
		}
		logger.Info("Downsampled", "leafSize", cfg.LeafSize, "points", pp.Points)
	}

	it, err := pp.Vec3Iterator()
	if err != nil {
		return err
	}
	var order []int
	if cfg.DensityResolution > 0 {
		order = segmentation.DensityOrder(it, cfg.DensityResolution)
	}

	s, err := cfg.Segmenter(logger)
	if err != nil {
		return err
	}
	res, err := s.Segment(it, order)
	if err != nil {
		return err
	}

	if opts.output != "" {
		labeled, err := segmentation.Label(pp, res.Inliers)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := pc.Marshal(labeled, &buf); err != nil {
			return err
		}
		if err := os.WriteFile(opts.output, buf.Bytes(), 0644); err != nil {
			return err
		}
		logger.Info("Saved", "path", opts.output)
	}

	data, err := yaml.Marshal(&report{
		Model:        cfg.Model,
		Method:       cfg.Method,
		Points:       pp.Points,
		Inliers:      len(res.Inliers),
		Coefficients: res.Coefficients,
	})
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
