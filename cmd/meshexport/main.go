// Mesh export tool: extracts the boundary mesh of a geometry file and
// writes it as OBJ, optionally split into renderer-sized partitions.
//
// Usage: go run ./cmd/meshexport -geometry data/geometry.txt -out solid.obj.zst
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/seep/config"
	"github.com/pthm-cable/seep/lattice"
	"github.com/pthm-cable/seep/mesh"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	geometry := flag.String("geometry", "", "Geometry file (empty = use config)")
	velocity := flag.String("velocity", "", "Velocity file, required with -open-space (empty = use config)")
	openSpace := flag.Bool("open-space", false, "Extract the backward-flow pore space instead of the solid")
	maxVertices := flag.Int("max-vertices", 0, "Vertices per partition (0 = use config)")
	split := flag.Bool("split", false, "Write one file per partition")
	out := flag.String("out", "mesh.obj", "Output path; a .zst suffix compresses the output")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *geometry == "" {
		*geometry = cfg.Data.GeometryFile
	}
	if *velocity == "" {
		*velocity = cfg.Data.VelocityFile
	}
	if *maxVertices == 0 {
		*maxVertices = cfg.Mesh.MaxVertices
	}

	if err := run(cfg, *geometry, *velocity, *openSpace, *maxVertices, *split, *out); err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, geometry, velocity string, openSpace bool, maxVertices int, split bool, out string) error {
	occ, err := lattice.LoadOccupancyFile(geometry)
	if err != nil {
		return fmt.Errorf("loading geometry: %w", err)
	}
	occ.SetCutoff(cfg.Lattice.SolidCutoff)
	slog.Info("geometry_loaded", "extent", occ.Extent().String(), "solid", occ.CountSolid())

	var voxels mesh.Voxels = occ
	if openSpace {
		d := cfg.Derived.VelocityDims
		vel, err := lattice.LoadVelocityFile(velocity, lattice.Dims{I: d[0], J: d[1], K: d[2]})
		if err != nil {
			return fmt.Errorf("loading velocity: %w", err)
		}
		voxels = mesh.OpenSpace{Occupancy: occ, Velocity: vel}
	}

	m := mesh.ExtractBoundary(voxels)
	slog.Info("mesh_extracted",
		"open_space", openSpace,
		"vertices", len(m.Vertices),
		"triangles", m.TriangleCount(),
	)

	if !split {
		if err := mesh.SaveOBJ(out, m); err != nil {
			return err
		}
		slog.Info("mesh_exported", "path", out)
		return nil
	}

	n := 0
	err = mesh.Partition(m, maxVertices, mesh.SinkFunc(func(vertices []mesh.Coordinate, indices []int) error {
		path := partitionPath(out, n)
		if err := mesh.SaveOBJ(path, &mesh.Mesh{Vertices: vertices, Indices: indices}); err != nil {
			return err
		}
		slog.Info("partition_exported", "path", path, "vertices", len(vertices), "triangles", len(indices)/3)
		n++
		return nil
	}))
	if err != nil {
		return err
	}
	slog.Info("mesh_exported", "partitions", n, "max_vertices", maxVertices)
	return nil
}

// partitionPath inserts a zero-padded partition number before the OBJ
// extension: solid.obj.zst -> solid_003.obj.zst.
func partitionPath(out string, n int) string {
	dir, base := filepath.Split(out)
	ext := ""
	for _, suffix := range []string{".obj.zst", ".obj"} {
		if strings.HasSuffix(base, suffix) {
			ext = suffix
			base = strings.TrimSuffix(base, suffix)
			break
		}
	}
	if ext == "" {
		ext = ".obj"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%03d%s", base, n, ext))
}
