package game

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wtengine/wte/internal/component"
	"github.com/wtengine/wte/internal/config"
	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
	"github.com/wtengine/wte/internal/engine"
	"github.com/wtengine/wte/internal/scripting"
)

const spawnList = `
spawns:
  - name: player
    enabled: true
    team: 0
    location: {x: 0, y: 0}
    hitbox: {width: 10, height: 10}
    health: 3
    damage: 1
    dispatcher: {handler: on_collision}
  - name: rock
    enabled: true
    team: 1
    location: {x: 5, y: 0}
    hitbox: {width: 10, height: 10}
    health: 1
    damage: 5
    dispatcher: {handler: on_collision}
`

const handlerLua = `
function on_collision(ctx, msg)
  if msg.cmd == "collision" then
    damage(ctx.id, get_damage(tonumber(msg.args[2])))
  end
end
`

func setup(t *testing.T) (*engine.Engine, *Game) {
	t.Helper()
	dir := t.TempDir()
	spawnPath := filepath.Join(dir, "spawn.yaml")
	require.NoError(t, os.WriteFile(spawnPath, []byte(spawnList), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "collide.lua"), []byte(handlerLua), 0o644))

	log := zaptest.NewLogger(t)
	scripts, err := scripting.NewEngine(dir, log)
	require.NoError(t, err)
	t.Cleanup(scripts.Close)

	cfg := config.Defaults()
	cfg.Data.ScriptFile = ""
	cfg.Data.SpawnFile = spawnPath

	g := New(scripts, log)
	e := engine.New(cfg, g, engine.Deps{Log: log})
	require.NoError(t, e.Start(context.Background()))
	return e, g
}

func TestLoadGame(t *testing.T) {
	e, _ := setup(t)
	require.NoError(t, e.NewGame())
	require.Equal(t, 3, e.World.Len())

	id, ok := component.FindByName(e.World, ScoreEntity)
	require.True(t, ok)
	o, _ := ecs.GetComponent[component.Overlay](e.World, id)
	require.Equal(t, "0", o.Text)
	require.Equal(t, []string{"logic", "movement", "collision", "health", "cleanup"}, e.Systems.Names())
}

func TestCollisionEndsGame(t *testing.T) {
	e, g := setup(t)
	require.NoError(t, e.NewGame())

	// tick 0: collision and damage
	require.NoError(t, e.Step())
	player, _ := component.FindByName(e.World, "player")
	hp, _ := ecs.GetComponent[component.Health](e.World, player)
	require.Equal(t, 0, hp.HP)

	// tick 1: both die, rock scores
	require.NoError(t, e.Step())
	require.Equal(t, 1, g.Score())
	_, ok := component.FindByName(e.World, "rock")
	require.False(t, ok)

	// tick 2: game over
	require.NoError(t, e.Step())
	require.False(t, e.State.GameStarted)
	require.Equal(t, "game over", e.State.LastAlert)
	require.Equal(t, "1", e.Config.Game["high_score"])
}

func TestUnknownCommandGoesToScripts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hook.lua"), []byte(`
claimed = 0
function on_system_message(msg)
  if msg.cmd == "bonus" then
    claimed = claimed + 1
    return true
  end
  return false
end
`), 0o644))
	log := zaptest.NewLogger(t)
	scripts, err := scripting.NewEngine(dir, log)
	require.NoError(t, err)
	t.Cleanup(scripts.Close)

	cfg := config.Defaults()
	cfg.Data.ScriptFile = ""
	cfg.Data.SpawnFile = ""
	e := engine.New(cfg, New(scripts, log), engine.Deps{Log: log})
	require.NoError(t, e.Start(context.Background()))

	e.Bus.Post(message.New(engine.SysSubsystem, "bonus", ""))
	e.Bus.Post(message.New(engine.SysSubsystem, "unheard_of", ""))
	require.NoError(t, e.Step())
	require.NoError(t, e.NewGame())
	require.Equal(t, 1, e.World.Len()) // score overlay only
}

func TestNoScripts(t *testing.T) {
	cfg := config.Defaults()
	cfg.Data.ScriptFile = ""
	cfg.Data.SpawnFile = ""
	cfg.Engine.Width, cfg.Engine.Height = 100, 50
	g := New(nil, nil)
	e := engine.New(cfg, g, engine.Deps{})
	require.NoError(t, e.Start(context.Background()))
	require.NoError(t, e.NewGame())

	id, err := e.World.CreateEntity()
	require.NoError(t, err)
	require.NoError(t, ecs.AddComponent(e.World, id, component.Enabled{On: true}))
	require.NoError(t, ecs.AddComponent(e.World, id, component.Location{X: 95, Y: 10}))
	require.NoError(t, ecs.AddComponent(e.World, id, component.Velocity{X: 10}))
	require.NoError(t, e.Step())

	loc, _ := ecs.GetComponent[component.Location](e.World, id)
	require.Equal(t, 100.0, loc.X)

	e.Bus.Post(message.New(engine.SysSubsystem, "mystery", ""))
	require.NotPanics(t, func() { require.NoError(t, e.Step()) })
}
