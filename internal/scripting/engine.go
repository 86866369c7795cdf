package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/wtengine/wte/internal/component"
	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
)

// SysHook is the optional global called for system commands the engine does
// not know.
const SysHook = "on_system_message"

// Engine wraps a single gopher-lua VM for entity behaviors and handlers.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger

	// bound for the duration of one Lua call
	w   *ecs.World
	bus *message.Bus
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory, then its ai/ and handlers/ subdirectories.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	e.registerHostAPI()

	for _, dir := range []string{scriptsDir, filepath.Join(scriptsDir, "ai"), filepath.Join(scriptsDir, "handlers")} {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

func (e *Engine) function(name string) (*lua.LFunction, error) {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("lua function %q not found", name)
	}
	return fn, nil
}

// Behavior returns a component.Behavior backed by the global Lua function
// name. The function receives a context table {id, name, now, enabled}.
func (e *Engine) Behavior(name string) (component.Behavior, error) {
	if _, err := e.function(name); err != nil {
		return nil, err
	}
	return &LuaBehavior{engine: e, fn: name}, nil
}

// Handler returns a component.Handler backed by the global Lua function name.
// The function receives a context table and a message table.
func (e *Engine) Handler(name string) (component.Handler, error) {
	if _, err := e.function(name); err != nil {
		return nil, err
	}
	return &LuaHandler{engine: e, fn: name}, nil
}

// HandleSysMessage passes msg to the on_system_message global when a script
// defines one. Returns whether the script claimed the message.
func (e *Engine) HandleSysMessage(w *ecs.World, bus *message.Bus, msg message.Message) bool {
	fn, ok := e.vm.GetGlobal(SysHook).(*lua.LFunction)
	if !ok {
		return false
	}
	ret := e.call(w, bus, SysHook, fn, 1, e.msgTable(msg))
	return lua.LVAsBool(ret)
}

// call binds w and bus, runs fn in protected mode and returns its first
// result (LNil if nret is 0 or the call failed).
func (e *Engine) call(w *ecs.World, bus *message.Bus, name string, fn *lua.LFunction, nret int, args ...lua.LValue) lua.LValue {
	e.w, e.bus = w, bus
	defer func() { e.w, e.bus = nil, nil }()

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    nret,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua call failed", zap.String("fn", name), zap.Error(err))
		return lua.LNil
	}
	if nret == 0 {
		return lua.LNil
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(nret)
	return ret
}

func (e *Engine) ctxTable(id ecs.EntityID, w *ecs.World) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("id", lua.LNumber(id))
	t.RawSetString("name", lua.LString(component.NameOf(w, id)))
	t.RawSetString("enabled", lua.LBool(component.IsEnabled(w, id)))
	return t
}

func (e *Engine) msgTable(msg message.Message) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("sys", lua.LString(msg.Subsystem()))
	t.RawSetString("to", lua.LString(msg.To()))
	t.RawSetString("from", lua.LString(msg.From()))
	t.RawSetString("cmd", lua.LString(msg.Command()))
	t.RawSetString("time", lua.LNumber(msg.FireTime()))
	args := e.vm.NewTable()
	for _, a := range msg.Args() {
		args.Append(lua.LString(a))
	}
	t.RawSetString("args", args)
	return t
}

// LuaBehavior runs a Lua function as an entity's AI.
type LuaBehavior struct {
	engine *Engine
	fn     string
}

func (b *LuaBehavior) Name() string { return b.fn }

func (b *LuaBehavior) Compute(id ecs.EntityID, w *ecs.World, bus *message.Bus, now int64) {
	fn, err := b.engine.function(b.fn)
	if err != nil {
		b.engine.log.Error("behavior missing", zap.String("fn", b.fn))
		return
	}
	ctx := b.engine.ctxTable(id, w)
	ctx.RawSetString("now", lua.LNumber(now))
	b.engine.call(w, bus, b.fn, fn, 0, ctx)
}

// LuaHandler runs a Lua function for each message addressed to an entity.
type LuaHandler struct {
	engine *Engine
	fn     string
}

func (h *LuaHandler) Name() string { return h.fn }

func (h *LuaHandler) Handle(id ecs.EntityID, w *ecs.World, bus *message.Bus, msg message.Message) {
	fn, err := h.engine.function(h.fn)
	if err != nil {
		h.engine.log.Error("handler missing", zap.String("fn", h.fn))
		return
	}
	ctx := h.engine.ctxTable(id, w)
	ctx.RawSetString("now", lua.LNumber(bus.Now()))
	h.engine.call(w, bus, h.fn, fn, 0, ctx, h.engine.msgTable(msg))
}
