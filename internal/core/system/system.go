package system

import (
	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
)

// System is the interface every ECS system implements. Run is the per-tick
// compute step; it reads and writes the world and may post messages.
type System interface {
	Name() string
	Run(w *ecs.World, bus *message.Bus, now int64)
}

// Func adapts a function to System under a fixed name.
type Func struct {
	SystemName string
	Fn         func(w *ecs.World, bus *message.Bus, now int64)
}

func (f Func) Name() string { return f.SystemName }

func (f Func) Run(w *ecs.World, bus *message.Bus, now int64) {
	f.Fn(w, bus, now)
}
