package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/wtengine/wte/internal/audio"
	"github.com/wtengine/wte/internal/config"
	"github.com/wtengine/wte/internal/core/message"
	"github.com/wtengine/wte/internal/data"
	"github.com/wtengine/wte/internal/engine"
	"github.com/wtengine/wte/internal/game"
	"github.com/wtengine/wte/internal/persist"
	"github.com/wtengine/wte/internal/scripting"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(title string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Printf("\033[36;1m  │\033[0m %-41s \033[36;1m│\033[0m\n", title)
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main engine logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/engine.toml"
	if p := os.Getenv("WTE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Engine.Title)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Optional PostgreSQL store
	var store engine.Store
	if cfg.Database.Enabled {
		printSection("Database")
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		db, err := persist.Open(dbCtx, cfg.Database, log)
		cancel()
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		store = persist.NewStore(db)
		printOK("PostgreSQL connected, migrations applied")
		fmt.Println()
	}

	// 4. Scripts and data
	printSection("Content")
	scripts, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer scripts.Close()
	printOK(fmt.Sprintf("Lua scripts loaded from %s", cfg.Scripting.Dir))

	loader := data.NewLoader(cfg.Data.Encoding)
	if cfg.Data.ScriptFile != "" {
		s, err := loader.Script(cfg.Data.ScriptFile)
		if err != nil {
			return fmt.Errorf("message script: %w", err)
		}
		printStat("Scripted messages", s.Count())
	}
	if cfg.Data.SpawnFile != "" {
		spawns, err := loader.Spawns(cfg.Data.SpawnFile)
		if err != nil {
			return fmt.Errorf("spawn list: %w", err)
		}
		printStat("Spawn entries", len(spawns))
	}
	fmt.Println()

	// 5. Engine
	player := audio.LogPlayer{Log: log.Named("audio")}
	worker := audio.NewWorker(player, cfg.Audio.InboxSize, log)
	eng := engine.New(cfg, game.New(scripts, log), engine.Deps{
		Audio:  worker,
		Store:  store,
		Loader: loader,
		Log:    log,
	})
	if err := eng.Start(ctx); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	printStat("Systems", len(eng.Systems.Names()))
	eng.Bus.Post(message.New(engine.SysSubsystem, "new_game", ""))

	printSection("Running")
	printReady(fmt.Sprintf("Game loop started (tick: %s)", cfg.Engine.TickRate))
	fmt.Println()

	// 6. Loop and audio worker share one lifetime
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(loopCtx)
	g.Go(func() error {
		defer cancel()
		return eng.Loop(gctx)
	})
	g.Go(func() error {
		return worker.Run(gctx)
	})
	err = g.Wait()

	eng.Shutdown()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
