package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/emberworld/server/internal/config"
	coresys "github.com/emberworld/server/internal/core/system"
	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/handler"
	"github.com/emberworld/server/internal/metrics"
	gonet "github.com/emberworld/server/internal/net"
	"github.com/emberworld/server/internal/persist"
	"github.com/emberworld/server/internal/protocol"
	"github.com/emberworld/server/internal/scripting"
	"github.com/emberworld/server/internal/system"
	"github.com/emberworld/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Config
	cfgPath := "config/server.toml"
	if p := os.Getenv("EMBERWORLD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadOrDefaults(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting", zap.String("server", cfg.Server.Name))

	// 3. Storage and world
	stores, err := persist.Open(cfg.Data.Root, log)
	if err != nil {
		return fmt.Errorf("open data root: %w", err)
	}
	worldState := world.NewState(stores.Maps, log)
	if err := worldState.LoadMaps(); err != nil {
		return fmt.Errorf("load maps: %w", err)
	}

	// 4. Scripting
	luaEngine, err := scripting.NewEngine(cfg.Data.ScriptsPath, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()

	// 5. Message handlers
	registry := protocol.NewRegistry(log)
	deps := &handler.Deps{
		Config:    cfg,
		Log:       log,
		World:     worldState,
		Stores:    stores,
		Scripting: luaEngine,
		Now:       time.Now,
	}
	handler.RegisterAll(registry, deps)

	// 6. Transport
	m := metrics.New()
	netCfg := gonet.Config{
		Bind:           cfg.Network.BindAddress,
		InQueueSize:    cfg.Network.InQueueSize,
		OutQueueSize:   cfg.Network.OutQueueSize,
		MaxMessageSize: cfg.Network.MaxMessageSize,
	}
	if cfg.RateLimit.Enabled {
		netCfg.MessagesPerSecond = cfg.RateLimit.MessagesPerSecond
		netCfg.MessageBurst = cfg.RateLimit.MessageBurst
	}
	server := gonet.NewServer(netCfg, m.Handler(), log)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Error("listener stopped", zap.Error(err))
		}
	}()

	// 7. Systems
	store := system.NewSessionStore()
	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(server, registry, store, deps, cfg.Network.MaxMessagesPerTick, log))
	runner.Register(system.NewMovementSystem(deps, log))
	runner.Register(system.NewBroadcastSystem(deps, nil))
	runner.Register(system.NewOutputSystem(store))
	persistSys := system.NewPersistenceSystem(deps, cfg.Game.AutosaveTicks, log)
	runner.Register(persistSys)

	// 8. Game loop
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tickRate := float64(game.TickRate)
	tick := time.Duration(float64(time.Second) / tickRate)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	log.Info("server ready",
		zap.String("bind", cfg.Network.BindAddress),
		zap.Duration("tick", tick),
	)

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			runner.Tick(tick)
			m.Ticks.Inc()
			m.TickDuration.Observe(time.Since(start).Seconds())
			m.ConnectedSessions.Set(float64(store.Count()))
			m.PlayersOnline.Set(float64(worldState.Count()))
		case <-ctx.Done():
			log.Info("shutdown signal received")
			persistSys.SaveAll()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := server.Shutdown(shutdownCtx)
			cancel()
			if err != nil {
				log.Error("shutdown", zap.Error(err))
			}
			log.Info("stopped")
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
