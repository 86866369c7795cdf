package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wtengine/wte/internal/component"
	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
)

const behaviors = `
function drift(ctx)
  local x, y = get_location(ctx.id)
  set_location(ctx.id, x + 1, y)
  if ctx.now >= 3 then
    post{sys="audio", cmd="play_sound", args={"drift", ctx.name}}
  end
end

function broken(ctx)
  error("boom")
end

function check_ids(ctx)
  local results = {}
  for _, id in ipairs({ctx.id, 1.5, -1, 4294967296, 0/0}) do
    results[#results + 1] = tostring((pcall(name_of, id)))
  end
  post{sys="test", cmd="ids", args=results}
end
`

const handlers = `
function on_hit(ctx, msg)
  if msg.cmd == "hit" then
    local left = damage(ctx.id, tonumber(msg.args[1]))
    if left == 0 then
      destroy(ctx.id)
      post{sys="system", cmd="entity_died", args=ctx.name, from=ctx.name, time=ctx.now + 10}
    end
  end
end

function on_system_message(msg)
  return msg.cmd == "spawn_wave"
end
`

func newEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "handlers"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "behaviors.lua"), []byte(behaviors), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "handlers", "hit.lua"), []byte(handlers), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not lua"), 0o644))

	e, err := NewEngine(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func spawn(t *testing.T, w *ecs.World, name string) ecs.EntityID {
	t.Helper()
	id, err := w.CreateEntity()
	require.NoError(t, err)
	require.NoError(t, ecs.AddComponent(w, id, component.Name{Value: name}))
	require.NoError(t, ecs.AddComponent(w, id, component.Enabled{On: true}))
	require.NoError(t, ecs.AddComponent(w, id, component.Location{X: 0, Y: 5}))
	require.NoError(t, ecs.AddComponent(w, id, component.NewHealth(3)))
	return id
}

func TestNewEngine_BadScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("function ("), 0o644))
	_, err := NewEngine(dir, zaptest.NewLogger(t))
	require.Error(t, err)
}

func TestEngine_ResolveUnknown(t *testing.T) {
	e := newEngine(t)
	_, err := e.Behavior("teleport")
	require.ErrorContains(t, err, "teleport")
	_, err = e.Handler("on_nothing")
	require.Error(t, err)
}

func TestLuaBehavior(t *testing.T) {
	e := newEngine(t)
	w := ecs.NewWorld()
	bus := message.NewBus()
	id := spawn(t, w, "rock")

	b, err := e.Behavior("drift")
	require.NoError(t, err)

	b.Compute(id, w, bus, 1)
	loc, _ := ecs.GetComponent[component.Location](w, id)
	require.Equal(t, component.Location{X: 1, Y: 5}, loc)
	require.Zero(t, bus.Len())

	b.Compute(id, w, bus, 3)
	got := bus.DrainFor("audio", 3)
	require.Len(t, got, 1)
	require.Equal(t, "play_sound", got[0].Command())
	require.Equal(t, []string{"drift", "rock"}, got[0].Args())
}

func TestLuaBehavior_ErrorIsContained(t *testing.T) {
	e := newEngine(t)
	w := ecs.NewWorld()
	id := spawn(t, w, "rock")

	b, err := e.Behavior("broken")
	require.NoError(t, err)
	require.NotPanics(t, func() { b.Compute(id, w, message.NewBus(), 0) })

	// the VM stays usable after a failed call
	d, err := e.Behavior("drift")
	require.NoError(t, err)
	d.Compute(id, w, message.NewBus(), 0)
	loc, _ := ecs.GetComponent[component.Location](w, id)
	require.Equal(t, 1.0, loc.X)
}

func TestHostAPI_RejectsBadIDs(t *testing.T) {
	e := newEngine(t)
	w := ecs.NewWorld()
	bus := message.NewBus()
	id := spawn(t, w, "rock")

	b, err := e.Behavior("check_ids")
	require.NoError(t, err)
	b.Compute(id, w, bus, 0)

	got := bus.DrainFor("test", 0)
	require.Len(t, got, 1)
	require.Equal(t, []string{"true", "false", "false", "false", "false"}, got[0].Args())
}

func TestLuaHandler(t *testing.T) {
	e := newEngine(t)
	w := ecs.NewWorld()
	bus := message.NewBus()
	bus.SetTime(7)
	id := spawn(t, w, "player")

	h, err := e.Handler("on_hit")
	require.NoError(t, err)

	h.Handle(id, w, bus, message.NewTo("entities", "player", "rock", "hit", "2"))
	hp, _ := ecs.GetComponent[component.Health](w, id)
	require.Equal(t, 1, hp.HP)
	require.Zero(t, bus.Len())

	h.Handle(id, w, bus, message.NewTo("entities", "player", "rock", "hit", "5"))
	hp, _ = ecs.GetComponent[component.Health](w, id)
	require.Equal(t, 0, hp.HP)
	require.Equal(t, 1, w.FlushDestroyQueue())

	pending := bus.Pending()
	require.Len(t, pending, 1)
	require.Equal(t, int64(17), pending[0].FireTime())
	require.Equal(t, "player", pending[0].From())
	require.Equal(t, "entity_died", pending[0].Command())
}

func TestEngine_HandleSysMessage(t *testing.T) {
	e := newEngine(t)
	w := ecs.NewWorld()
	bus := message.NewBus()
	require.True(t, e.HandleSysMessage(w, bus, message.New("system", "spawn_wave", "")))
	require.False(t, e.HandleSysMessage(w, bus, message.New("system", "dance", "")))
}

func TestHostAPI_OutsideTick(t *testing.T) {
	e := newEngine(t)
	require.Error(t, e.vm.DoString(`name_of(0)`))
}
