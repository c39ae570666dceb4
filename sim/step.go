package sim

import (
	"github.com/pthm-cable/seep/telemetry"
)

// Step runs one fixed-interval tick:
//  1. transport (bounds, field velocity, speed class)
//  2. cleanup of destroyed particles
//  3. physics integration
//  4. contact detection
//  5. aggregation of queued contacts
//  6. restart check
//  7. telemetry
//
// Step does nothing once Done reports true.
func (s *Simulation) Step() error {
	if s.done {
		return nil
	}
	dt := s.cfg.Simulation.DT

	s.perfCollector.StartTick()

	s.perfCollector.StartPhase(telemetry.PhaseTransport)
	s.lastTransport = s.transport.Update()
	s.collector.RecordOutOfBounds(s.lastTransport.OutOfBounds)

	s.perfCollector.StartPhase(telemetry.PhaseCleanup)
	s.cleanupDestroyed()

	s.perfCollector.StartPhase(telemetry.PhasePhysics)
	s.physics.Integrate(dt)

	s.perfCollector.StartPhase(telemetry.PhaseContacts)
	s.physics.DetectContacts(&s.contacts)

	s.perfCollector.StartPhase(telemetry.PhaseAggregation)
	events, stats := s.aggregator.Resolve(s.contacts.Drain(), s.byID)
	s.lastAggregation = stats
	s.recordAggregation(events, stats)

	s.tick++

	s.perfCollector.StartPhase(telemetry.PhaseLifecycle)
	err := s.checkRestart()

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.perfCollector.EndTick()
	return err
}

// Frame is the variable-rate render step. It records frame timing and runs
// as many fixed steps as the elapsed time allows, up to maxStepsPerFrame.
// It returns the number of steps taken.
func (s *Simulation) Frame(dt float64) (int, error) {
	s.perfCollector.RecordFrame()

	s.accumulator += dt
	steps := 0
	for s.accumulator >= s.cfg.Simulation.DT && steps < maxStepsPerFrame {
		if err := s.Step(); err != nil {
			return steps, err
		}
		s.accumulator -= s.cfg.Simulation.DT
		steps++
	}
	if steps == maxStepsPerFrame {
		// Drop the backlog instead of spiralling
		s.accumulator = 0
	}
	return steps, nil
}
