// Package engine hosts the simulation: it owns the world, the bus and the
// scheduler, runs ticks and interprets "system" messages.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wtengine/wte/internal/config"
	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
	"github.com/wtengine/wte/internal/core/system"
	"github.com/wtengine/wte/internal/data"
)

var ErrNotStarted = errors.New("engine not started")

const (
	SysSubsystem   = "system"
	AudioSubsystem = "audio"
)

// Game supplies the systems and content the engine runs.
type Game interface {
	// LoadSystems registers the game's systems. Called once by Start.
	LoadSystems(s *system.Scheduler) error
	// LoadGame populates the world for a new game.
	LoadGame(e *Engine) error
	// EndGame runs before the world is cleared at the end of a game.
	EndGame(e *Engine)
	// HandleSysMessage receives system commands the engine does not know.
	HandleSysMessage(e *Engine, msg message.Message)
}

// AudioSink receives a copy of each tick's audio batch.
type AudioSink interface {
	Transfer(batch []message.Message) bool
}

// Store persists game variables and session records.
type Store interface {
	SaveVar(ctx context.Context, key, value string) error
	LoadVars(ctx context.Context) (map[string]string, error)
	StartSession(ctx context.Context, scriptSum uint64) (string, error)
	EndSession(ctx context.Context, id string, finalTick int64, entities int) error
}

// Deps are the engine's optional collaborators. Nil fields are skipped.
type Deps struct {
	Audio  AudioSink
	Store  Store
	Loader *data.Loader
	Log    *zap.Logger
}

type Engine struct {
	World   *ecs.World
	Bus     *message.Bus
	Systems *system.Scheduler
	State   State
	Config  *config.Config

	game   Game
	audio  AudioSink
	store  Store
	loader *data.Loader
	log    *zap.Logger

	tick    int64
	session string
}

func New(cfg *config.Config, game Game, deps Deps) *Engine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	limit := cfg.Engine.MaxEntities
	if limit == 0 {
		limit = ecs.DefaultEntityLimit
	}
	loader := deps.Loader
	if loader == nil {
		loader = data.NewLoader(cfg.Data.Encoding)
	}
	return &Engine{
		World:   ecs.NewWorldWithLimit(limit),
		Bus:     message.NewBus(),
		Systems: system.NewScheduler(log),
		State:   State{DrawFPS: cfg.Engine.DrawFPS},
		Config:  cfg,
		game:    game,
		audio:   deps.Audio,
		store:   deps.Store,
		loader:  loader,
		log:     log,
	}
}

func (e *Engine) Log() *zap.Logger { return e.log }

// Loader returns the data loader shared with the game.
func (e *Engine) Loader() *data.Loader { return e.loader }

// CurrentTick returns the tick the next Step will run.
func (e *Engine) CurrentTick() int64 { return e.tick }

// Session returns the current session id, or "" when none is recorded.
func (e *Engine) Session() string { return e.session }

// Start registers the game's systems and locks the schedule. The loop must
// not run if Start fails.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.game.LoadSystems(e.Systems); err != nil {
		return fmt.Errorf("load systems: %w", err)
	}
	if err := e.Systems.Finalize(); err != nil {
		return fmt.Errorf("finalize systems: %w", err)
	}
	if e.store != nil {
		vars, err := e.store.LoadVars(ctx)
		if err != nil {
			return err
		}
		for k, v := range vars {
			e.Config.SetGame(k, v)
		}
	}
	e.State.Running = true
	e.log.Info("engine started", zap.Strings("systems", e.Systems.Names()))
	return nil
}

// Tick performs one simulation tick at now: systems, dispatch, the audio
// and system drains, then message pruning.
func (e *Engine) Tick(now int64) error {
	e.Bus.SetTime(now)
	if err := e.Systems.Run(e.World, e.Bus, now); err != nil {
		return err
	}
	if err := e.Systems.Dispatch(e.World, e.Bus); err != nil {
		return err
	}
	e.pump(now)
	if e.Config.Engine.PruneMessages {
		// new_game may have reset the clock during pump
		if n := e.Bus.Prune(e.Bus.Now()); n > 0 {
			e.log.Debug("pruned messages", zap.Int("count", n))
		}
	}
	return nil
}

// pump drains audio and system messages ready at now.
func (e *Engine) pump(now int64) {
	if batch := e.Bus.DrainFor(AudioSubsystem, now); len(batch) > 0 && e.audio != nil {
		e.audio.Transfer(batch)
	}
	for _, msg := range e.Bus.DrainFor(SysSubsystem, now) {
		e.handleSys(msg)
	}
}

// Step advances the host by one frame. While a game runs with no menu open
// it runs a tick; otherwise only audio and system messages are serviced.
func (e *Engine) Step() error {
	if !e.State.GameStarted || e.State.MenuOpened() {
		e.pump(e.Bus.Now())
		return nil
	}
	now := e.tick
	e.tick++
	return e.Tick(now)
}

// Loop steps the engine at the configured tick rate until an exit command
// or ctx is done. A changed tick rate takes effect on the next frame; a
// non-positive rate is ignored.
func (e *Engine) Loop(ctx context.Context) error {
	if !e.Systems.Finalized() || !e.State.Running {
		return ErrNotStarted
	}
	rate := e.Config.Engine.TickRate
	if rate <= 0 {
		rate = config.DefaultTickRate
	}
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	fps := newFPSCounter(time.Now())
	for e.State.Running {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			if err := e.Step(); err != nil {
				return err
			}
			if n, ok := fps.frame(t); ok && e.State.DrawFPS {
				e.log.Info("fps", zap.Int("frames", n), zap.Int("entities", e.World.Len()))
			}
			if r := e.Config.Engine.TickRate; r > 0 && r != rate {
				rate = r
				ticker.Reset(r)
			}
		}
	}
	e.log.Info("engine stopped")
	return nil
}

// NewGame ends any running game, resets the world, bus and tick counter,
// then loads the game content and its message script.
func (e *Engine) NewGame() error {
	if e.State.GameStarted {
		e.EndGame()
	}
	e.World.Clear()
	e.Bus.Clear()
	e.Bus.SetTime(0)
	e.tick = 0

	var script *data.Script
	if path := e.Config.Data.ScriptFile; path != "" {
		s, err := e.loader.Script(path)
		if err != nil {
			return fmt.Errorf("new game: %w", err)
		}
		script = s
	}
	if err := e.game.LoadGame(e); err != nil {
		e.World.Clear()
		return fmt.Errorf("new game: %w", err)
	}
	var sum uint64
	if script != nil {
		script.Post(e.Bus)
		sum = script.Checksum
	}
	e.State.GameStarted = true

	if e.store != nil {
		ctx, cancel := persistCtx()
		defer cancel()
		id, err := e.store.StartSession(ctx, sum)
		if err != nil {
			e.log.Warn("session not recorded", zap.Error(err))
		}
		e.session = id
	}
	e.log.Info("game started",
		zap.Int("entities", e.World.Len()),
		zap.Int("messages", e.Bus.Len()),
		zap.String("session", e.session),
	)
	return nil
}

// EndGame stops the running game and clears the world and bus.
func (e *Engine) EndGame() {
	if !e.State.GameStarted {
		return
	}
	e.game.EndGame(e)
	if e.store != nil && e.session != "" {
		ctx, cancel := persistCtx()
		defer cancel()
		if err := e.store.EndSession(ctx, e.session, e.tick, e.World.Len()); err != nil {
			e.log.Warn("session not closed", zap.Error(err))
		}
	}
	e.log.Info("game ended", zap.Int64("tick", e.tick), zap.String("session", e.session))
	e.session = ""
	e.World.Clear()
	e.Bus.Clear()
	e.State.GameStarted = false
}

// Shutdown ends the game and stops the loop.
func (e *Engine) Shutdown() {
	e.EndGame()
	e.State.Running = false
}

func persistCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

type fpsCounter struct {
	since  time.Time
	frames int
}

func newFPSCounter(now time.Time) *fpsCounter {
	return &fpsCounter{since: now}
}

// frame counts one frame and reports the count once a second has passed.
func (c *fpsCounter) frame(now time.Time) (int, bool) {
	c.frames++
	if now.Sub(c.since) < time.Second {
		return 0, false
	}
	n := c.frames
	c.frames = 0
	c.since = now
	return n, true
}
