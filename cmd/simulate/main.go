// Package main runs a headless simulation of a level: it loads the
// configuration, creature templates and scenario, then advances the world
// at a fixed frame interval and reports what the creatures do.
package main

import (
	"context"
	"flag"
	"log"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hostile/internal/config"
	"github.com/cory-johannsen/hostile/internal/content"
	"github.com/cory-johannsen/hostile/internal/game/cue"
	"github.com/cory-johannsen/hostile/internal/game/npc"
	"github.com/cory-johannsen/hostile/internal/game/random"
	"github.com/cory-johannsen/hostile/internal/host"
	"github.com/cory-johannsen/hostile/internal/observability"
	"github.com/cory-johannsen/hostile/internal/scripting"
	"github.com/cory-johannsen/hostile/internal/sim"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	scenarioPath := flag.String("scenario", "", "override content.scenario_path")
	duration := flag.Duration("duration", -1, "override simulation.duration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *scenarioPath != "" {
		cfg.Content.ScenarioPath = *scenarioPath
	}
	if *duration >= 0 {
		cfg.Simulation.Duration = *duration
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting simulation",
		zap.String("scenario", cfg.Content.ScenarioPath),
		zap.Duration("tick_interval", cfg.Simulation.TickInterval),
		zap.Duration("duration", cfg.Simulation.Duration),
		zap.Bool("real_time", cfg.Simulation.RealTime),
	)

	registry := npc.NewRegistry()
	reloader := content.NewReloader(registry, logger)
	n, err := reloader.LoadDir(cfg.Content.CreaturesDir)
	if err != nil {
		logger.Fatal("loading creatures", zap.Error(err))
	}
	logger.Info("creatures loaded", zap.Int("count", n), zap.Strings("ids", registry.IDs()))

	scenario, err := sim.LoadScenarioFromFile(cfg.Content.ScenarioPath)
	if err != nil {
		logger.Fatal("loading scenario", zap.Error(err))
	}

	scripts := scripting.NewManager(cfg.Scripting.InstructionLimit, logger)
	defer scripts.Close()

	var src random.Source
	if cfg.Simulation.Seed != 0 {
		src = random.NewSeededSource(cfg.Simulation.Seed)
	} else {
		src = random.NewCryptoSource()
	}

	world, err := sim.NewWorld(scenario, registry, sim.Options{
		Scripts: scripts,
		Cues:    cue.NewLogger(logger),
		Rand:    src,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("building world", zap.Error(err))
	}

	loop := sim.NewLoop(cfg.Simulation.TickInterval)
	loop.RegisterTick("0-world", world.Advance)
	if every := cfg.Simulation.StatusInterval; every > 0 {
		next := every
		loop.RegisterTick("1-status", func(time.Duration) {
			if world.Now() < next {
				return
			}
			next += every
			logStatus(logger, world)
		})
	}

	lifecycle := host.NewLifecycle(logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lifecycle.Add("simulation", simulationService(ctx, cfg.Simulation, loop, world))

	if cfg.Content.Watch {
		watcher, err := content.NewWatcher(cfg.Content.CreaturesDir)
		if err != nil {
			logger.Fatal("watching creatures", zap.Error(err))
		}
		watchCtx, stopWatch := context.WithCancel(ctx)
		lifecycle.Add("content-watch", &host.FuncService{
			StartFn: func() error {
				reloader.Run(watchCtx, watcher)
				return nil
			},
			StopFn: func() {
				stopWatch()
				_ = watcher.Close()
			},
		})
	}

	logger.Info("simulation initialized", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("simulation error", zap.Error(err))
	}

	logStatus(logger, world)
	for _, line := range world.Describe() {
		logger.Info("agent", zap.String("summary", line))
	}
	reloaded, failed := reloader.Stats()
	logger.Info("simulation finished",
		zap.Duration("simulated", world.Now()),
		zap.Duration("wall", time.Since(start)),
		zap.Int64("templates_reloaded", reloaded),
		zap.Int64("template_reload_failures", failed),
	)
}

// simulationService runs the loop for the configured duration, paced by the
// wall clock in real-time mode and back to back otherwise.
func simulationService(parent context.Context, cfg config.SimulationConfig, loop *sim.Loop, world *sim.World) host.Service {
	ctx, cancel := context.WithCancel(parent)
	frames := math.MaxInt
	if cfg.Duration > 0 {
		frames = int(cfg.Duration / cfg.TickInterval)
	}
	return &host.FuncService{
		StartFn: func() error {
			if !cfg.RealTime {
				loop.RunFor(ctx, frames)
				return nil
			}
			loop.RegisterTick("2-deadline", func(time.Duration) {
				if cfg.Duration > 0 && world.Now() >= cfg.Duration {
					cancel()
				}
			})
			<-loop.Start(ctx)
			return nil
		},
		StopFn: cancel,
	}
}

func logStatus(logger *zap.Logger, world *sim.World) {
	st := world.Status()
	logger.Info("status",
		zap.Duration("now", st.Now),
		zap.Int("frames", st.Frames),
		zap.Int("alive", st.Alive),
		zap.Int("dead", st.Dead),
		zap.Float64("player_hp", st.PlayerHP),
		zap.Float64("player_magic", st.PlayerMagic),
		zap.Int("pending_despawns", st.PendingDespawns),
		zap.Int("pending_respawns", st.PendingRespawns),
	)
}
