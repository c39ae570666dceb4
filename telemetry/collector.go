package telemetry

import "github.com/pthm-cable/seep/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	spawned     int
	destroyed   int
	outOfBounds int
	contacts    int
	joins       int
	rejected    int

	survival []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		windowStartTick:     0,
	}
}

// RecordSpawned records n spawned particles.
func (c *Collector) RecordSpawned(n int) {
	c.spawned += n
}

// RecordDestroyed records n particles removed by the destroy policy.
func (c *Collector) RecordDestroyed(n int) {
	c.destroyed += n
}

// RecordOutOfBounds records n bounds violations (wrapped or destroyed).
func (c *Collector) RecordOutOfBounds(n int) {
	c.outOfBounds += n
}

// RecordContacts records n contacts reported by the physics collaborator.
func (c *Collector) RecordContacts(n int) {
	c.contacts += n
}

// RecordRejected records n contacts whose join draw failed.
func (c *Collector) RecordRejected(n int) {
	c.rejected += n
}

// RecordJoin records a successful aggregation and both survival times.
func (c *Collector) RecordJoin(r AggregationRecord) {
	c.joins++
	c.survival = append(c.survival, r.Time1, r.Time2)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population describes the particle population at flush time.
type Population struct {
	Run        int
	Rate       float64
	Live       int
	Free       int
	Aggregated int
	Classes    [components.NumSpeedClasses]int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, pop Population) WindowStats {
	var joinRate float64
	if c.contacts > 0 {
		joinRate = float64(c.joins) / float64(c.contacts)
	}

	surv := Summarize(c.survival)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Run:  pop.Run,
		Rate: pop.Rate,

		Live:       pop.Live,
		Free:       pop.Free,
		Aggregated: pop.Aggregated,

		Spawned:     c.spawned,
		Destroyed:   c.destroyed,
		OutOfBounds: c.outOfBounds,

		Contacts: c.contacts,
		Joins:    c.joins,
		Rejected: c.rejected,
		JoinRate: joinRate,

		Slow:    pop.Classes[components.SpeedSlow],
		Medium:  pop.Classes[components.SpeedMedium],
		Fast:    pop.Classes[components.SpeedFast],
		Fastest: pop.Classes[components.SpeedFastest],

		SurvivalMean: surv.Mean,
		SurvivalP10:  surv.P10,
		SurvivalP50:  surv.P50,
		SurvivalP90:  surv.P90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawned = 0
	c.destroyed = 0
	c.outOfBounds = 0
	c.contacts = 0
	c.joins = 0
	c.rejected = 0
	c.survival = c.survival[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
