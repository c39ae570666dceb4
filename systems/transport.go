package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
)

// TransportStats summarizes one transport pass.
type TransportStats struct {
	OutOfBounds int
	Destroyed   int
	Classes     [components.NumSpeedClasses]int
}

// TransportSystem advances survival timers, applies the domain bounds,
// assigns each particle its target velocity from the field and classifies
// its speed.
type TransportSystem struct {
	filter     ecs.Filter3[components.Position, components.Velocity, components.Particle]
	field      VelocityField
	thresholds Thresholds
	domain     Domain
	policy     BoundsPolicy
	scale      float64
}

// NewTransportSystem creates a transport system over every particle in w.
func NewTransportSystem(w *ecs.World, field VelocityField, thresholds Thresholds, domain Domain, policy BoundsPolicy, scale float64) *TransportSystem {
	return &TransportSystem{
		filter:     *ecs.NewFilter3[components.Position, components.Velocity, components.Particle](w),
		field:      field,
		thresholds: thresholds,
		domain:     domain,
		policy:     policy,
		scale:      scale,
	}
}

// Update runs one fixed step. Destroyed particles are only flagged; the
// caller removes them once the query is done.
func (s *TransportSystem) Update() TransportStats {
	var stats TransportStats

	query := s.filter.Query()
	for query.Next() {
		pos, vel, p := query.Get()
		if p.Destroyed {
			continue
		}

		if p.State == components.Free {
			p.SurvivalTicks++
		}

		if s.domain.Apply(&pos.Vec, s.policy) {
			stats.OutOfBounds++
			if s.policy == Destroy {
				p.Destroyed = true
				stats.Destroyed++
				continue
			}
		}

		vel.Vec = r3.Scale(s.scale, SampleVelocity(s.field, pos.Vec))
		p.Class = s.thresholds.Classify(r3.Norm2(vel.Vec))
		stats.Classes[p.Class]++
	}

	return stats
}
