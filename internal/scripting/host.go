package scripting

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/wtengine/wte/internal/component"
	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
)

// Host functions exposed to scripts. Entity ids are plain numbers. Functions
// that read a missing component return nil.
func (e *Engine) registerHostAPI() {
	for name, fn := range map[string]lua.LGFunction{
		"post":         e.luaPost,
		"get_location": e.luaGetLocation,
		"set_location": e.luaSetLocation,
		"get_velocity": e.luaGetVelocity,
		"set_velocity": e.luaSetVelocity,
		"get_health":   e.luaGetHealth,
		"get_damage":   e.luaGetDamage,
		"damage":       e.luaDamage,
		"destroy":      e.luaDestroy,
		"name_of":      e.luaNameOf,
		"find":         e.luaFind,
	} {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
}

// bound raises a Lua error when called outside a behavior or handler.
func (e *Engine) bound(L *lua.LState) bool {
	if e.w == nil || e.bus == nil {
		L.RaiseError("host function called outside a game tick")
		return false
	}
	return true
}

// checkID accepts only whole numbers that fit an entity id.
func checkID(L *lua.LState, n int) ecs.EntityID {
	v := float64(L.CheckNumber(n))
	if v < 0 || v > math.MaxUint32 || v != math.Trunc(v) {
		L.ArgError(n, "entity id must be a whole number in uint32 range")
		return ecs.NoEntity
	}
	return ecs.EntityID(v)
}

// post{sys=, cmd=, args=, to=, from=, time=}; args may be a string or a list.
func (e *Engine) luaPost(L *lua.LState) int {
	if !e.bound(L) {
		return 0
	}
	t := L.CheckTable(1)
	sys := lua.LVAsString(t.RawGetString("sys"))
	cmd := lua.LVAsString(t.RawGetString("cmd"))
	if sys == "" || cmd == "" {
		L.ArgError(1, "post needs sys and cmd")
		return 0
	}
	var args string
	switch v := t.RawGetString("args").(type) {
	case lua.LString:
		args = string(v)
	case *lua.LTable:
		list := make([]string, 0, v.Len())
		v.ForEach(func(_, a lua.LValue) { list = append(list, lua.LVAsString(a)) })
		args = message.JoinArgs(list)
	}
	at := message.Immediate
	if v, ok := t.RawGetString("time").(lua.LNumber); ok {
		at = int64(v)
	}
	e.bus.Post(message.NewTimedTo(at, sys,
		lua.LVAsString(t.RawGetString("to")),
		lua.LVAsString(t.RawGetString("from")),
		cmd, args))
	return 0
}

func (e *Engine) luaGetLocation(L *lua.LState) int {
	if !e.bound(L) {
		return 0
	}
	loc, ok := ecs.GetComponent[component.Location](e.w, checkID(L, 1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(loc.X))
	L.Push(lua.LNumber(loc.Y))
	return 2
}

func (e *Engine) luaSetLocation(L *lua.LState) int {
	if !e.bound(L) {
		return 0
	}
	loc, ok := ecs.MutComponent[component.Location](e.w, checkID(L, 1))
	if ok {
		loc.X = float64(L.CheckNumber(2))
		loc.Y = float64(L.CheckNumber(3))
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (e *Engine) luaGetVelocity(L *lua.LState) int {
	if !e.bound(L) {
		return 0
	}
	v, ok := ecs.GetComponent[component.Velocity](e.w, checkID(L, 1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(v.X))
	L.Push(lua.LNumber(v.Y))
	return 2
}

func (e *Engine) luaSetVelocity(L *lua.LState) int {
	if !e.bound(L) {
		return 0
	}
	v, ok := ecs.MutComponent[component.Velocity](e.w, checkID(L, 1))
	if ok {
		v.X = float64(L.CheckNumber(2))
		v.Y = float64(L.CheckNumber(3))
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (e *Engine) luaGetHealth(L *lua.LState) int {
	if !e.bound(L) {
		return 0
	}
	h, ok := ecs.GetComponent[component.Health](e.w, checkID(L, 1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(h.HP))
	L.Push(lua.LNumber(h.MaxHP))
	return 2
}

func (e *Engine) luaGetDamage(L *lua.LState) int {
	if !e.bound(L) {
		return 0
	}
	d, ok := ecs.GetComponent[component.Damage](e.w, checkID(L, 1))
	if !ok {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(d.Amount))
	return 1
}

// damage(id, amount) returns the remaining hit points, floored at zero.
func (e *Engine) luaDamage(L *lua.LState) int {
	if !e.bound(L) {
		return 0
	}
	h, ok := ecs.MutComponent[component.Health](e.w, checkID(L, 1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	h.HP -= L.CheckInt(2)
	if h.HP < 0 {
		h.HP = 0
	}
	L.Push(lua.LNumber(h.HP))
	return 1
}

// destroy(id) queues the entity for end-of-tick cleanup.
func (e *Engine) luaDestroy(L *lua.LState) int {
	if !e.bound(L) {
		return 0
	}
	id := checkID(L, 1)
	alive := e.w.Alive(id)
	if alive {
		e.w.MarkForDestruction(id)
	}
	L.Push(lua.LBool(alive))
	return 1
}

func (e *Engine) luaNameOf(L *lua.LState) int {
	if !e.bound(L) {
		return 0
	}
	L.Push(lua.LString(component.NameOf(e.w, checkID(L, 1))))
	return 1
}

func (e *Engine) luaFind(L *lua.LState) int {
	if !e.bound(L) {
		return 0
	}
	id, ok := component.FindByName(e.w, L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(id))
	return 1
}
