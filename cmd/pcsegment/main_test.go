package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seqsense/pcgol/pc"
	"gopkg.in/yaml.v3"

	"github.com/seqsense/pcsegment/config"
)

// writePCD writes a 10x10 grid on z=0 and outliers above it.
func writePCD(t *testing.T, path string) {
	t.Helper()
	var pts [][3]float32
	for j := 0; j < 10; j++ {
		for i := 0; i < 10; i++ {
			pts = append(pts, [3]float32{float32(i) * 0.1, float32(j) * 0.1, 0})
		}
	}
	for i := 0; i < 5; i++ {
		pts = append(pts, [3]float32{float32(i) * 0.2, 0.5, 1 + float32(i)*0.1})
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "VERSION .7\nFIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\n")
	fmt.Fprintf(&buf, "WIDTH %d\nHEIGHT 1\nVIEWPOINT 0 0 0 1 0 0 0\nPOINTS %d\nDATA binary\n", len(pts), len(pts))
	if err := binary.Write(&buf, binary.LittleEndian, pts); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func execute(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSegmentCmd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.pcd")
	output := filepath.Join(dir, "output.pcd")
	writePCD(t, input)

	for name, method := range map[string]string{
		"RANSAC": "ransac",
		"PROSAC": "prosac",
	} {
		method := method
		t.Run(name, func(t *testing.T) {
			stdout, stderr, err := execute("segment", input, "-o", output, "--method", method, "--threshold", "0.01", "-v")
			if err != nil {
				t.Fatalf("segment should succeed: %v\n%s", err, stderr)
			}

			var r report
			if err := yaml.Unmarshal([]byte(stdout), &r); err != nil {
				t.Fatalf("Failed to parse the report: %v\n%s", err, stdout)
			}
			if r.Points != 105 || r.Inliers != 100 || r.Method != method {
				t.Errorf("Unexpected report: %+v", r)
			}
			if len(r.Coefficients) != 4 {
				t.Errorf("Expected 4 coefficients, got %v", r.Coefficients)
			}
			if method == "prosac" && !strings.Contains(stderr, "PROSAC trial") {
				t.Errorf("Verbose output must contain the trace:\n%s", stderr)
			}

			f, err := os.Open(output)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			pp, err := pc.Unmarshal(f)
			if err != nil {
				t.Fatal(err)
			}
			lt, err := pp.Uint32Iterator("label")
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; lt.IsValid(); i++ {
				expected := uint32(0)
				if i < 100 {
					expected = 1
				}
				if l := lt.Uint32(); l != expected {
					t.Errorf("Point %d: expected label %d, got %d", i, expected, l)
				}
				lt.Incr()
			}
		})
	}

	t.Run("InvalidFlag", func(t *testing.T) {
		if _, _, err := execute("segment", input, "--model", "cylinder"); err == nil {
			t.Error("Expected error")
		}
	})
	t.Run("NotFound", func(t *testing.T) {
		if _, _, err := execute("segment", filepath.Join(dir, "none.pcd")); !os.IsNotExist(err) {
			t.Errorf("Expected not exist error, got %v", err)
		}
	})
}

func TestConfigCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("model: sphere\nradius_max: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	stdout, _, err := execute("config", "-c", path)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Parse([]byte(stdout))
	if err != nil {
		t.Fatalf("Printed config must be loadable: %v\n%s", err, stdout)
	}
	if cfg.Model != "sphere" || cfg.RadiusMax != 2 {
		t.Errorf("Unexpected config: %+v", cfg)
	}
}
