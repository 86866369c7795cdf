package component

import (
	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
)

// Behavior is per-entity logic run by the logic system once per tick.
type Behavior interface {
	Compute(id ecs.EntityID, w *ecs.World, bus *message.Bus, now int64)
}

// Handler receives the messages addressed to an entity during dispatch.
type Handler interface {
	Handle(id ecs.EntityID, w *ecs.World, bus *message.Bus, msg message.Message)
}

// BehaviorFunc adapts a function to Behavior.
type BehaviorFunc func(id ecs.EntityID, w *ecs.World, bus *message.Bus, now int64)

func (f BehaviorFunc) Compute(id ecs.EntityID, w *ecs.World, bus *message.Bus, now int64) {
	f(id, w, bus, now)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(id ecs.EntityID, w *ecs.World, bus *message.Bus, msg message.Message)

func (f HandlerFunc) Handle(id ecs.EntityID, w *ecs.World, bus *message.Bus, msg message.Message) {
	f(id, w, bus, msg)
}

// Idle does nothing.
type Idle struct{}

func (Idle) Compute(ecs.EntityID, *ecs.World, *message.Bus, int64) {}

// AI pairs the behavior run while the entity is enabled with the one run
// while it is disabled.
type AI struct {
	Enabled  Behavior
	Disabled Behavior
}

// NewAI returns an AI that idles while disabled.
func NewAI(enabled Behavior) AI {
	return AI{Enabled: enabled, Disabled: Idle{}}
}

// Run executes the behavior matching the enabled state. Nil behaviors idle.
func (a AI) Run(on bool, id ecs.EntityID, w *ecs.World, bus *message.Bus, now int64) {
	b := a.Disabled
	if on {
		b = a.Enabled
	}
	if b != nil {
		b.Compute(id, w, bus, now)
	}
}

// Dispatcher marks an entity as a message recipient.
type Dispatcher struct {
	Handler Handler
}

func (AI) Kind() ecs.Kind         { return KindAI }
func (Dispatcher) Kind() ecs.Kind { return KindDispatcher }
