package main

import (
	"github.com/pthm-cable/seep/config"
)

// Param is one calibrated config field with its search bounds.
type Param struct {
	Name     string
	Min, Max float64
	get      func(*config.Config) float64
	set      func(*config.Config, float64)
}

// Params is the ordered search space. Vectors passed to its methods follow
// this order.
type Params []Param

// DefaultParams returns the calibrated aggregation and transport knobs.
func DefaultParams() Params {
	return Params{
		{
			Name: "aggregation_rate", Min: 0.01, Max: 1,
			get: func(c *config.Config) float64 { return c.Simulation.AggregationRate },
			set: func(c *config.Config, v float64) { c.Simulation.AggregationRate = v },
		},
		{
			Name: "particle_radius", Min: 0.1, Max: 2,
			get: func(c *config.Config) float64 { return c.Simulation.ParticleRadius },
			set: func(c *config.Config, v float64) { c.Simulation.ParticleRadius = v },
		},
		{
			Name: "velocity_scale", Min: 50, Max: 400,
			get: func(c *config.Config) float64 { return c.Simulation.VelocityScale },
			set: func(c *config.Config, v float64) { c.Simulation.VelocityScale = v },
		},
		{
			Name: "linear_drag", Min: 0, Max: 1,
			get: func(c *config.Config) float64 { return c.Physics.LinearDrag },
			set: func(c *config.Config, v float64) { c.Physics.LinearDrag = v },
		},
	}
}

// Normalize maps raw values onto [0, 1] per parameter.
func (ps Params) Normalize(raw []float64) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = (raw[i] - p.Min) / (p.Max - p.Min)
	}
	return out
}

// Denormalize is the inverse of Normalize.
func (ps Params) Denormalize(unit []float64) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Min + unit[i]*(p.Max-p.Min)
	}
	return out
}

// Clamp limits every value to its bounds.
func (ps Params) Clamp(raw []float64) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = max(p.Min, min(raw[i], p.Max))
	}
	return out
}

// Apply writes the clamped values into cfg. Derived fields are not
// refreshed.
func (ps Params) Apply(cfg *config.Config, raw []float64) {
	for i, v := range ps.Clamp(raw) {
		ps[i].set(cfg, v)
	}
}

// Extract reads the current values from cfg.
func (ps Params) Extract(cfg *config.Config) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.get(cfg)
	}
	return out
}
