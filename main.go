package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/cellarium/config"
	"github.com/pthm-cable/cellarium/runner"
	"github.com/pthm-cable/cellarium/server"
	"github.com/pthm-cable/cellarium/sim"
	"github.com/pthm-cable/cellarium/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without the websocket host")
	addr := flag.String("addr", "", "Listen address for the websocket host (empty = use config)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	paused := flag.Bool("paused", false, "Start paused (hosted mode only)")
	tps := flag.Int("tps", -1, "Target ticks per second, 0 = unthrottled (-1 = use config)")

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

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Use config values where the CLI did not override them
	windowTicks := cfg.Telemetry.WindowTicks
	if *statsWindow > 0 {
		windowTicks = *statsWindow
	}
	listenAddr := cfg.Server.Addr
	if *addr != "" {
		listenAddr = *addr
	}
	targetTPS := cfg.Runner.TargetTPS
	if *tps >= 0 {
		targetTPS = *tps
	}
	startPaused := cfg.Runner.StartPaused || *paused

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to set up output directory", "error", err)
		os.Exit(1)
	}
	defer om.Close()
	if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to snapshot config", "error", err)
			os.Exit(1)
		}
		slog.Info("writing telemetry", "dir", om.Dir())
	}

	s := sim.NewSimulation(cfg.Sim, rngSeed)
	collector := telemetry.NewCollector(windowTicks)
	s.SetHooks(collector)

	flush := func(s *sim.Simulation) {
		if !collector.ShouldFlush(s.Iterations()) {
			return
		}
		stats := collector.Flush(s.Iterations(), s.Grid())
		if *logStats {
			stats.LogStats()
		}
		if err := om.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
	}

	if *headless {
		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"size", cfg.Sim.Width*cfg.Sim.Height,
			"stats_window", windowTicks,
			"max_ticks", *maxTicks,
		)

		for {
			s.Step()
			flush(s)

			if *maxTicks > 0 && s.Iterations() >= *maxTicks {
				slog.Info("max ticks reached", "tick", s.Iterations())
				return
			}
		}
	}

	// Hosted mode: the runner owns the simulation, the server streams it.
	slog.Info("starting hosted simulation",
		"seed", rngSeed,
		"addr", listenAddr,
		"target_tps", targetTPS,
		"paused", startPaused,
	)

	handle := runner.Start(s, runner.Options{
		StartPaused: startPaused,
		TargetTPS:   targetTPS,
		AfterTick:   flush,
	})
	defer handle.Stop()

	srv := server.New(handle, listenAddr, cfg.Server.BroadcastMillis)
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
