package system

import (
	"github.com/wtengine/wte/internal/component"
	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
)

// LogicSystem runs AI behaviors. Entities with an Enabled component run
// their enabled or disabled behavior; entities without one are skipped.
type LogicSystem struct{}

func NewLogicSystem() *LogicSystem {
	return &LogicSystem{}
}

func (s *LogicSystem) Name() string { return "logic" }

func (s *LogicSystem) Run(w *ecs.World, bus *message.Bus, now int64) {
	for _, e := range ecs.Query[component.AI](w) {
		if !w.Alive(e.ID) {
			continue
		}
		en, ok := ecs.GetComponent[component.Enabled](w, e.ID)
		if !ok {
			continue
		}
		e.C.Run(en.On, e.ID, w, bus, now)
	}
}
