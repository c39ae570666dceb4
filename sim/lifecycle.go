package sim

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/seep/components"
	"github.com/pthm-cable/seep/telemetry"
)

// startRun spawns the full population for run with its aggregation rate.
func (s *Simulation) startRun(run int) error {
	s.run = run
	s.runRecorded = false
	s.aggregator.Rate = s.rates[run]
	s.spawner.Reset()
	s.physics.Reset()
	s.runs.Begin(run, s.rates[run], s.tick)

	n := s.cfg.Simulation.ParticleCount
	for i := 0; i < n; i++ {
		if _, err := s.spawnParticle(); err != nil {
			return fmt.Errorf("spawning particle %d of run %d: %w", i, run, err)
		}
	}
	s.collector.RecordSpawned(n)
	s.runs.RecordSpawned(n)

	slog.Info("particles_spawned",
		"run", run,
		"count", n,
		"aggregation_rate", s.aggregator.Rate,
		"spawn_rejections", s.spawner.Rejections,
		"claimed_cells", s.spawner.Claimed(),
	)
	return nil
}

// spawnParticle creates one Free particle at a spawner position with a
// random initial x velocity.
func (s *Simulation) spawnParticle() (ecs.Entity, error) {
	at, err := s.spawner.Position()
	if err != nil {
		return ecs.Entity{}, err
	}

	id := s.nextID
	s.nextID++

	sc := s.cfg.Simulation
	vx := s.rng.Float64()*(sc.InitialSpeedMax-sc.InitialSpeedMin) + sc.InitialSpeedMin

	pos := components.Position{Vec: at}
	vel := components.Velocity{Vec: r3.Vec{X: vx}}
	p := components.Particle{ID: id, Spawn: at}

	e := s.particleMap.NewEntity(&pos, &vel, &p)
	s.byID[id] = e
	return e, nil
}

// cleanupDestroyed removes particles flagged by the destroy bounds policy.
func (s *Simulation) cleanupDestroyed() int {
	type deadInfo struct {
		entity ecs.Entity
		record telemetry.DestroyedRecord
	}
	var toRemove []deadInfo

	// First pass: collect (the world must not change during a query)
	query := s.particleFilter.Query()
	for query.Next() {
		_, _, p := query.Get()
		if !p.Destroyed {
			continue
		}
		toRemove = append(toRemove, deadInfo{
			entity: query.Entity(),
			record: telemetry.DestroyedRecord{
				Tick:         s.tick,
				ID:           p.ID,
				SurvivalTime: p.SurvivalTime(s.cfg.Simulation.DT),
				Aggregated:   p.State == components.Aggregated,
			},
		})
	}

	// Second pass: remove
	for _, dead := range toRemove {
		dead.record.LogDestroyed()
		s.particleMap.Remove(dead.entity)
		delete(s.byID, dead.record.ID)
	}

	if n := len(toRemove); n > 0 {
		s.collector.RecordDestroyed(n)
		s.runs.RecordDestroyed(n)
	}
	return len(toRemove)
}

// checkRestart starts the next run once the population is gone, or marks
// the simulation done when no restarts remain.
func (s *Simulation) checkRestart() error {
	if s.done || len(s.byID) > 0 {
		return nil
	}

	s.recordRun()

	if s.run+1 >= len(s.rates) {
		s.done = true
		slog.Info("simulation_done", "tick", s.tick, "runs", len(s.rates))
		return nil
	}

	next := s.run + 1
	slog.Info("restart",
		"tick", s.tick,
		"run", next,
		"aggregation_rate", s.rates[next],
		"restarts_left", len(s.rates)-1-next,
	)
	return s.startRun(next)
}

// recordRun writes the current run's summary once.
func (s *Simulation) recordRun() {
	if s.runRecorded {
		return
	}
	s.runRecorded = true

	summary := s.runs.Summary(s.tick)
	summary.LogSummary()
	if err := s.outputManager.WriteRun(summary); err != nil {
		slog.Error("failed to write run summary", "error", err)
	}
	if s.runCallback != nil {
		s.runCallback(summary)
	}
}
