// Command synthgen writes a synthetic porous medium, a flow field through it
// and traced trajectories in the formats the loaders read, plus a config
// file pointing at them.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/config"
)

func main() {
	size := flag.Int("size", 48, "Geometry extent per axis")
	seed := flag.Int64("seed", 1, "Noise seed")
	freq := flag.Float64("frequency", 0.12, "Noise frequency per voxel")
	porosity := flag.Float64("porosity", 0.6, "Noise level below which voxels are open (0..1)")
	speed := flag.Float64("speed", 0.005, "Mean +x field sample")
	swirl := flag.Float64("swirl", 0.5, "Perturbation amplitude relative to speed")
	particles := flag.Int("particles", 200, "Trajectories to trace")
	frames := flag.Int("frames", 300, "Frames per trajectory")
	frameDT := flag.Float64("frame-dt", 20, "Field samples -> lattice units per frame")
	outDir := flag.String("out", "data/synth", "Output directory")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	p := Params{
		Seed:      *seed,
		Size:      *size,
		Frequency: *freq,
		Porosity:  *porosity,
		Speed:     *speed,
		Swirl:     *swirl,
		Particles: *particles,
		Frames:    *frames,
		FrameDT:   *frameDT,
	}
	if err := run(p, *outDir); err != nil {
		slog.Error("synthgen_failed", "error", err)
		os.Exit(1)
	}
}

func run(p Params, outDir string) error {
	if p.Size < 2 {
		return fmt.Errorf("size must be at least 2, got %d", p.Size)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	g := NewGenerator(p)
	occ := g.Occupancy()
	slog.Info("geometry_generated",
		"extent", occ.Extent().String(),
		"solid", occ.CountSolid(),
		"open_fraction", 1-float64(occ.CountSolid())/float64(occ.Extent().Len()),
	)

	paths := map[string]string{
		"geometry":     filepath.Join(outDir, "geometry.txt"),
		"velocity":     filepath.Join(outDir, "velocity.txt"),
		"trajectories": filepath.Join(outDir, "trajectories.txt"),
	}

	if err := writeFile(paths["geometry"], g.WriteGeometry); err != nil {
		return err
	}
	if err := writeFile(paths["velocity"], g.WriteVelocity); err != nil {
		return err
	}

	traced := g.Trace(startPositions(p))
	if err := writeFile(paths["trajectories"], func(w io.Writer) error {
		return WriteTrajectories(w, traced)
	}); err != nil {
		return err
	}

	cfgPath := filepath.Join(outDir, "config.yaml")
	cfg, err := synthConfig(p, g, paths)
	if err != nil {
		return err
	}
	if err := cfg.WriteYAML(cfgPath); err != nil {
		return err
	}

	slog.Info("synthgen_done",
		"dir", outDir,
		"config", cfgPath,
		"trajectories", len(traced),
	)
	return nil
}

// synthConfig returns the defaults adjusted to the generated data set.
func synthConfig(p Params, g *Generator, paths map[string]string) (*config.Config, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	ext := g.VelocityExtent()
	cfg.Data.GeometryFile = paths["geometry"]
	cfg.Data.VelocityFile = paths["velocity"]
	cfg.Data.TrajectoryFile = paths["trajectories"]
	cfg.Lattice.VelocityDims = [3]int{ext.I, ext.J, ext.K}
	cfg.Simulation.DomainSize = float64(p.Size)
	cfg.Spawn.Min = 1
	cfg.Spawn.Max = float64(p.Size - 1)
	cfg.Playback.ParticleCount = p.Particles
	if err := cfg.Refresh(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// startPositions scatters trace seeds on the x=1 plane.
func startPositions(p Params) []r3.Vec {
	rng := rand.New(rand.NewSource(p.Seed))
	span := float64(p.Size - 2)
	out := make([]r3.Vec, p.Particles)
	for i := range out {
		out[i] = r3.Vec{X: 1, Y: 1 + rng.Float64()*span, Z: 1 + rng.Float64()*span}
	}
	return out
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("file_written", "path", path)
	return f.Close()
}
