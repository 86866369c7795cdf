package system

import (
	"github.com/wtengine/wte/internal/component"
	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
)

// HealthSystem retires entities whose hit points ran out and regenerates the
// rest. Dead entities are queued for CleanupSystem and announced with an
// "entity_died" system message carrying the entity's name, once per death
// even if cleanup is delayed.
//
// Regen is tick-counted: every regenInterval ticks each enabled, living
// entity below MaxHP gains regenAmount HP. An interval of 0 disables regen.
type HealthSystem struct {
	regenInterval int
	regenAmount   int
	tickCount     int
}

func NewHealthSystem(regenInterval, regenAmount int) *HealthSystem {
	return &HealthSystem{regenInterval: regenInterval, regenAmount: regenAmount}
}

func (s *HealthSystem) Name() string { return "health" }

// SetRegen changes the regen schedule and restarts the tick count.
func (s *HealthSystem) SetRegen(interval, amount int) {
	s.regenInterval, s.regenAmount, s.tickCount = interval, amount, 0
}

func (s *HealthSystem) Run(w *ecs.World, bus *message.Bus, _ int64) {
	s.tickCount++
	regen := s.regenInterval > 0 && s.tickCount%s.regenInterval == 0

	for _, e := range ecs.Query[component.Health](w) {
		h := e.C
		if !h.Alive() {
			if w.MarkedForDestruction(e.ID) {
				continue
			}
			w.MarkForDestruction(e.ID)
			bus.Post(message.New("system", "entity_died", component.NameOf(w, e.ID)))
			continue
		}
		if regen && h.HP < h.MaxHP && component.IsEnabled(w, e.ID) {
			h.HP = min(h.HP+s.regenAmount, h.MaxHP)
		}
	}
}
