// Package components defines ECS components for the particle simulation.
package components

import "gonum.org/v1/gonum/spatial/r3"

// AggregationState is a particle's join status. Aggregated is terminal.
type AggregationState uint8

const (
	Free AggregationState = iota
	Aggregated
)

// SpeedClass buckets a particle by speed relative to the field's quartiles.
type SpeedClass uint8

const (
	SpeedSlow    SpeedClass = iota // below Q1
	SpeedMedium                    // Q1 to median
	SpeedFast                      // median to Q3
	SpeedFastest                   // Q3 and above
)

// NumSpeedClasses is the number of SpeedClass values.
const NumSpeedClasses = 4

// Particle holds per-particle bookkeeping.
type Particle struct {
	ID    uint32
	Spawn r3.Vec // position at spawn time
	State AggregationState
	Class SpeedClass

	// Destroyed marks the particle for removal after the current pass.
	Destroyed bool

	// SurvivalTicks counts fixed steps spent Free; frozen once Aggregated.
	SurvivalTicks int64

	// SurvivalDist is |position - Spawn| latched at first aggregation.
	SurvivalDist float64
	DistLatched  bool
}

// SurvivalTime converts SurvivalTicks to seconds.
func (p *Particle) SurvivalTime(dt float64) float64 {
	return float64(p.SurvivalTicks) * dt
}
