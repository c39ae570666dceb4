// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Data       DataConfig       `yaml:"data"`
	Lattice    LatticeConfig    `yaml:"lattice"`
	Mesh       MeshConfig       `yaml:"mesh"`
	Simulation SimulationConfig `yaml:"simulation"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Playback   PlaybackConfig   `yaml:"playback"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// DataConfig names the input files.
type DataConfig struct {
	GeometryFile   string `yaml:"geometry_file"`
	VelocityFile   string `yaml:"velocity_file"`
	TrajectoryFile string `yaml:"trajectory_file"`
}

// LatticeConfig holds lattice interpretation parameters.
type LatticeConfig struct {
	SolidCutoff  float64 `yaml:"solid_cutoff"`  // Intensity at or above this is solid
	VelocityDims [3]int  `yaml:"velocity_dims"` // Velocity lattice extent (x, y, z)
}

// MeshConfig holds mesh extraction parameters.
type MeshConfig struct {
	MaxVertices int    `yaml:"max_vertices"` // Partition ceiling per renderer mesh
	OpenSpace   bool   `yaml:"open_space"`   // Extract backward-flow pore space instead of solid
	ExportOBJ   string `yaml:"export_obj"`   // Optional .obj / .obj.zst path written at startup
}

// SimulationConfig holds particle transport parameters.
type SimulationConfig struct {
	DT                 float64   `yaml:"dt"`                    // Seconds per fixed step
	DomainSize         float64   `yaml:"domain_size"`           // Cubic domain edge in lattice units
	ParticleCount      int       `yaml:"particle_count"`        // Population per run
	ParticleRadius     float64   `yaml:"particle_radius"`       // Contact radius
	VelocityScale      float64   `yaml:"velocity_scale"`        // Field sample -> target velocity multiplier
	DestroyOutOfBounds bool      `yaml:"destroy_out_of_bounds"` // false = wrap to opposite face
	AggregationRate    float64   `yaml:"aggregation_rate"`      // Join probability for the first run
	RestartCount       int       `yaml:"restart_count"`         // Runs after the first
	AggregationRates   []float64 `yaml:"aggregation_rates"`     // One rate per restart
	InitialSpeedMin    float64   `yaml:"initial_speed_min"`     // Spawn x velocity lower bound
	InitialSpeedMax    float64   `yaml:"initial_speed_max"`     // Spawn x velocity upper bound (exclusive)
}

// SpawnConfig holds spawn placement parameters.
type SpawnConfig struct {
	X                   float64 `yaml:"x"`                     // Fixed spawn plane
	Min                 float64 `yaml:"min"`                   // y/z lower bound
	Max                 float64 `yaml:"max"`                   // y/z upper bound (exclusive)
	AvoidCollidingSpawn bool    `yaml:"avoid_colliding_spawn"` // Reject positions claimed by earlier spawns
	MaxAttempts         int     `yaml:"max_attempts"`          // 0 = retry until a free position is found
}

// PhysicsConfig holds rigid-body collaborator parameters.
type PhysicsConfig struct {
	LinearDrag  float64 `yaml:"linear_drag"`
	AngularDrag float64 `yaml:"angular_drag"`
}

// PlaybackConfig holds trajectory playback parameters.
type PlaybackConfig struct {
	ParticleCount int     `yaml:"particle_count"` // Trajectory ids 1..N are played
	FrameDuration float64 `yaml:"frame_duration"` // Seconds per recorded frame
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32            float32 // Simulation.DT as float32
	StatsWindowTick int32   // Telemetry.StatsWindow in ticks
	ContactDistSq   float64 // (2 * ParticleRadius)^2
	VelocityDims    [3]int  // Lattice.VelocityDims with defaults applied
}

// MismatchError reports a restart count that disagrees with the number of
// configured per-restart aggregation rates.
type MismatchError struct {
	Restarts int
	Rates    int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("config: restart_count is %d but %d aggregation_rates are configured", e.Restarts, e.Rates)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse layers an in-memory YAML document over the embedded defaults,
// computes derived values and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Only overwrites fields present in data
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if len(c.Simulation.AggregationRates) != c.Simulation.RestartCount {
		return &MismatchError{Restarts: c.Simulation.RestartCount, Rates: len(c.Simulation.AggregationRates)}
	}
	if c.Simulation.DT <= 0 {
		return fmt.Errorf("config: simulation.dt must be positive, got %g", c.Simulation.DT)
	}
	if c.Simulation.DomainSize <= 0 {
		return fmt.Errorf("config: simulation.domain_size must be positive, got %g", c.Simulation.DomainSize)
	}
	if c.Simulation.ParticleCount < 0 {
		return fmt.Errorf("config: simulation.particle_count must not be negative, got %d", c.Simulation.ParticleCount)
	}
	if c.Mesh.MaxVertices < 3 {
		return fmt.Errorf("config: mesh.max_vertices must be at least 3, got %d", c.Mesh.MaxVertices)
	}
	if c.Spawn.Max <= c.Spawn.Min {
		return fmt.Errorf("config: spawn.max (%g) must exceed spawn.min (%g)", c.Spawn.Max, c.Spawn.Min)
	}
	return nil
}

// Refresh recomputes derived values after fields were changed in code,
// such as a command-line override, and validates the result.
func (c *Config) Refresh() error {
	c.computeDerived()
	return c.Validate()
}

// RunRates returns the aggregation rate of every run, first run included.
func (c *Config) RunRates() []float64 {
	rates := make([]float64, 0, 1+len(c.Simulation.AggregationRates))
	rates = append(rates, c.Simulation.AggregationRate)
	return append(rates, c.Simulation.AggregationRates...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Simulation.DT)
	if c.Simulation.DT > 0 {
		c.Derived.StatsWindowTick = int32(math.Round(c.Telemetry.StatsWindow / c.Simulation.DT))
	}
	d := 2 * c.Simulation.ParticleRadius
	c.Derived.ContactDistSq = d * d

	c.Derived.VelocityDims = c.Lattice.VelocityDims
	for i, n := range c.Derived.VelocityDims {
		if n <= 0 {
			c.Derived.VelocityDims[i] = 201
		}
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
