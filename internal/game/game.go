// Package game is the demo game: a spawn list driven playfield with Lua
// behaviors, collision damage and a score overlay.
package game

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/wtengine/wte/internal/component"
	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
	coresys "github.com/wtengine/wte/internal/core/system"
	"github.com/wtengine/wte/internal/data"
	"github.com/wtengine/wte/internal/engine"
	"github.com/wtengine/wte/internal/system"
)

const (
	ScoreEntity = "score"
	playerVar   = "player" // game var naming the entity whose death ends the game
)

// SysHandler claims custom system commands. The Lua engine implements it.
type SysHandler interface {
	HandleSysMessage(w *ecs.World, bus *message.Bus, msg message.Message) bool
}

// Scripts resolves spawn list behaviors and handles custom commands.
type Scripts interface {
	data.Resolver
	SysHandler
}

type Game struct {
	scripts Scripts
	log     *zap.Logger

	movement *system.MovementSystem
	health   *system.HealthSystem
	cleanup  *system.CleanupSystem
	score    int
}

// New creates the demo game. scripts may be nil when no entity uses Lua.
func New(scripts Scripts, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	return &Game{scripts: scripts, log: log}
}

func (g *Game) Score() int { return g.score }

// LoadSystems registers logic, movement, collision, health and cleanup, in
// that order.
func (g *Game) LoadSystems(s *coresys.Scheduler) error {
	g.movement = system.NewMovementSystem(nil)
	g.health = system.NewHealthSystem(0, 0)
	g.cleanup = system.NewCleanupSystem()
	for _, sys := range []coresys.System{
		system.NewLogicSystem(),
		g.movement,
		system.NewCollisionSystem(),
		g.health,
		g.cleanup,
	} {
		if err := s.Register(sys); err != nil {
			return err
		}
	}
	return nil
}

// LoadGame spawns the configured entity list plus the score overlay.
func (g *Game) LoadGame(e *engine.Engine) error {
	g.score = 0
	g.configure(e)

	if path := e.Config.Data.SpawnFile; path != "" {
		entries, err := e.Loader().Spawns(path)
		if err != nil {
			return err
		}
		if _, err := data.Spawn(e.World, entries, g.resolver()); err != nil {
			return err
		}
	}
	return g.spawnScore(e.World)
}

// configure applies playfield bounds and regen settings from the engine
// config. They may change between games via set_engine_config.
func (g *Game) configure(e *engine.Engine) {
	cfg := e.Config.Engine
	var bounds *system.Bounds
	if cfg.Width > 0 && cfg.Height > 0 {
		bounds = &system.Bounds{MaxX: cfg.Width, MaxY: cfg.Height}
	}
	g.movement.SetBounds(bounds)
	g.health.SetRegen(cfg.RegenInterval, cfg.RegenAmount)
}

func (g *Game) resolver() data.Resolver {
	if g.scripts == nil {
		return nil
	}
	return g.scripts
}

func (g *Game) spawnScore(w *ecs.World) error {
	id, err := w.CreateEntity()
	if err != nil {
		return err
	}
	if err := ecs.AddComponent(w, id, component.Name{Value: ScoreEntity}); err != nil {
		return err
	}
	if err := ecs.AddComponent(w, id, component.NewVisible()); err != nil {
		return err
	}
	return ecs.AddComponent(w, id, component.Overlay{Layer: 10, X: 8, Y: 8, Text: "0"})
}

func (g *Game) EndGame(e *engine.Engine) {
	g.log.Info("final score", zap.Int("score", g.score), zap.Int("destroyed", g.cleanup.Destroyed()))
	if best, _ := strconv.Atoi(e.Config.Game["high_score"]); g.score > best {
		e.SetGameVar("high_score", strconv.Itoa(g.score))
	}
}

// HandleSysMessage handles entity_died and passes anything else to scripts.
func (g *Game) HandleSysMessage(e *engine.Engine, msg message.Message) {
	if msg.Command() == "entity_died" {
		g.entityDied(e, msg.Arg(0))
		return
	}
	if g.scripts != nil && g.scripts.HandleSysMessage(e.World, e.Bus, msg) {
		return
	}
	g.log.Warn("unknown system command", zap.String("cmd", msg.Command()), zap.String("args", msg.RawArgs()))
}

func (g *Game) entityDied(e *engine.Engine, name string) {
	player := e.Config.Game[playerVar]
	if player == "" {
		player = "player"
	}
	if name == player {
		e.Bus.Post(message.New(engine.SysSubsystem, "alert", "game over"))
		e.Bus.Post(message.New(engine.SysSubsystem, "end_game", ""))
		return
	}
	g.score++
	if id, ok := component.FindByName(e.World, ScoreEntity); ok {
		if o, ok := ecs.MutComponent[component.Overlay](e.World, id); ok {
			o.Text = strconv.Itoa(g.score)
		}
	}
}
