// Package sim drives the particle transport simulation: it owns the ECS
// world, spawns populations, runs the fixed step and restarts runs.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/seep/config"
	"github.com/pthm-cable/seep/lattice"
	"github.com/pthm-cable/seep/mesh"
	"github.com/pthm-cable/seep/systems"
)

// Context is the read-only lattice data every system shares. It is built
// once at startup and passed by pointer.
type Context struct {
	Occupancy  *lattice.Occupancy
	Velocity   *lattice.Velocity
	Quartiles  lattice.Quartiles
	Thresholds systems.Thresholds
	Domain     systems.Domain
}

// NewContext derives speed thresholds from vel and checks that the field
// covers the domain.
func NewContext(occ *lattice.Occupancy, vel *lattice.Velocity, domainSize float64) (*Context, error) {
	ctx := &Context{
		Occupancy: occ,
		Velocity:  vel,
		Quartiles: vel.Quartiles(),
		Domain:    systems.Domain{Size: domainSize},
	}
	ctx.Thresholds = systems.ThresholdsFromQuartiles(ctx.Quartiles)

	if err := systems.CheckCoverage(vel, ctx.Domain); err != nil {
		return nil, err
	}
	return ctx, nil
}

// LoadContext reads the geometry and velocity files named in cfg.
func LoadContext(cfg *config.Config) (*Context, error) {
	occ, err := loadOccupancy(cfg)
	if err != nil {
		return nil, err
	}

	d := cfg.Derived.VelocityDims
	vel, err := lattice.LoadVelocityFile(cfg.Data.VelocityFile, lattice.Dims{I: d[0], J: d[1], K: d[2]})
	if err != nil {
		return nil, fmt.Errorf("loading velocity: %w", err)
	}

	ctx, err := NewContext(occ, vel, cfg.Simulation.DomainSize)
	if err != nil {
		return nil, err
	}

	slog.Info("lattice_loaded",
		"geometry", occ.Extent().String(),
		"solid", occ.CountSolid(),
		"velocity", vel.Extent().String(),
		"velocity_records", len(vel.Magnitudes),
		"velocity_skipped", vel.Skipped,
		"q1", ctx.Quartiles.Q1,
		"median", ctx.Quartiles.Median,
		"q3", ctx.Quartiles.Q3,
	)
	return ctx, nil
}

// LoadGeometry reads only the geometry file named in cfg. The returned
// context has no velocity field, so it can back trajectory playback but
// not a simulation.
func LoadGeometry(cfg *config.Config) (*Context, error) {
	occ, err := loadOccupancy(cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("geometry_loaded", "extent", occ.Extent().String(), "solid", occ.CountSolid())
	return &Context{Occupancy: occ, Domain: systems.Domain{Size: cfg.Simulation.DomainSize}}, nil
}

func loadOccupancy(cfg *config.Config) (*lattice.Occupancy, error) {
	occ, err := lattice.LoadOccupancyFile(cfg.Data.GeometryFile)
	if err != nil {
		return nil, fmt.Errorf("loading geometry: %w", err)
	}
	occ.SetCutoff(cfg.Lattice.SolidCutoff)
	return occ, nil
}

// Mesh extracts the boundary faces of the solid geometry, or of the pore
// cells with backward flow when openSpace is set and a velocity field is
// loaded.
func (c *Context) Mesh(openSpace bool) *mesh.Mesh {
	if openSpace && c.Velocity != nil {
		return mesh.ExtractBoundary(mesh.OpenSpace{Occupancy: c.Occupancy, Velocity: c.Velocity})
	}
	return mesh.ExtractBoundary(c.Occupancy)
}

// MeshScale maps geometry lattice units onto the simulation domain.
func (c *Context) MeshScale() float64 {
	ext := c.Occupancy.Extent()
	if ext.I == 0 {
		return 1
	}
	return c.Domain.Size / float64(ext.I)
}
