package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/seep/config"
	"github.com/pthm-cable/seep/lattice"
	"github.com/pthm-cable/seep/mesh"
	"github.com/pthm-cable/seep/playback"
	"github.com/pthm-cable/seep/sim"
	"github.com/pthm-cable/seep/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	playbackMode := flag.Bool("playback", false, "Replay recorded trajectories instead of simulating")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
		if err := cfg.Refresh(); err != nil {
			slog.Error("invalid stats window", "error", err)
			os.Exit(1)
		}
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	load := sim.LoadContext
	if *playbackMode {
		load = sim.LoadGeometry
	}
	ctx, err := load(cfg)
	if err != nil {
		slog.Error("load_failed", "error", err)
		os.Exit(1)
	}

	if cfg.Mesh.ExportOBJ != "" {
		exportMesh(cfg, ctx)
	}

	if *playbackMode {
		runPlayback(cfg, ctx)
		return
	}

	opts := sim.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
		LogStats:  *logStats,
	}

	if *headless {
		runHeadless(cfg, ctx, opts, *maxTicks)
		return
	}
	runWindowed(cfg, ctx, opts, *maxTicks)
}

// exportMesh writes the extracted mesh to cfg.Mesh.ExportOBJ. Failures are
// logged and do not stop the run.
func exportMesh(cfg *config.Config, ctx *sim.Context) {
	m := ctx.Mesh(cfg.Mesh.OpenSpace)
	if err := mesh.SaveOBJ(cfg.Mesh.ExportOBJ, m); err != nil {
		slog.Warn("mesh_export_failed", "path", cfg.Mesh.ExportOBJ, "error", err)
		return
	}
	slog.Info("mesh_exported", "path", cfg.Mesh.ExportOBJ, "triangles", m.TriangleCount())
}

// runHeadless steps the simulation without graphics until it finishes or
// maxTicks is reached.
func runHeadless(cfg *config.Config, ctx *sim.Context, opts sim.Options, maxTicks int) {
	s, err := sim.New(cfg, ctx, opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}
	defer closeSim(s)

	slog.Info("starting headless simulation",
		"seed", s.Seed(),
		"max_ticks", maxTicks,
	)

	for !s.Done() {
		if err := s.Step(); err != nil {
			slog.Error("step failed", "tick", s.Tick(), "error", err)
			return
		}
		if maxTicks > 0 && int(s.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", s.Tick())
			return
		}
	}
}

// runWindowed opens a raylib window over the live simulation.
func runWindowed(cfg *config.Config, ctx *sim.Context, opts sim.Options, maxTicks int) {
	openWindow(cfg, "Seep")
	defer rl.CloseWindow()

	s, err := sim.New(cfg, ctx, opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		return
	}
	defer closeSim(s)

	v, err := viewer.New(cfg, ctx, viewer.Options{Title: "Seep", Sim: s})
	if err != nil {
		slog.Error("failed to start viewer", "error", err)
		return
	}
	defer v.Unload()

	for !rl.WindowShouldClose() {
		if err := v.Update(); err != nil {
			slog.Error("step failed", "tick", s.Tick(), "error", err)
			return
		}
		v.Draw()

		if maxTicks > 0 && int(s.Tick()) >= maxTicks {
			break
		}
	}
}

// runPlayback opens a raylib window replaying recorded trajectories.
func runPlayback(cfg *config.Config, ctx *sim.Context) {
	traj, err := lattice.LoadTrajectoriesFile(cfg.Data.TrajectoryFile)
	if err != nil {
		slog.Error("load_failed", "error", err)
		os.Exit(1)
	}
	player := playback.NewPlayer(traj, cfg.Playback.ParticleCount, cfg.Playback.FrameDuration)
	slog.Info("playback_loaded", "trajectories", traj.Len(), "playing", player.Len())

	openWindow(cfg, "Seep Playback")
	defer rl.CloseWindow()

	v, err := viewer.New(cfg, ctx, viewer.Options{Title: "Seep Playback", Player: player})
	if err != nil {
		slog.Error("failed to start viewer", "error", err)
		return
	}
	defer v.Unload()

	for !rl.WindowShouldClose() {
		if err := v.Update(); err != nil {
			slog.Error("playback failed", "error", err)
			return
		}
		v.Draw()
	}
}

func openWindow(cfg *config.Config, title string) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), title)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
}

func closeSim(s *sim.Simulation) {
	if err := s.Close(); err != nil {
		slog.Warn("closing output", "error", err)
	}
}
