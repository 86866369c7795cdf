package system

import (
	"math"

	"github.com/wtengine/wte/internal/component"
	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
)

// Bounds is the playfield rectangle. Entities leaving it are clamped back.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// MovementSystem moves enabled entities by their Velocity and Motion.
type MovementSystem struct {
	bounds *Bounds
}

// NewMovementSystem creates the system. A nil bounds leaves movement
// unconstrained.
func NewMovementSystem(bounds *Bounds) *MovementSystem {
	return &MovementSystem{bounds: bounds}
}

func (s *MovementSystem) Name() string { return "movement" }

// SetBounds replaces the playfield. nil removes it.
func (s *MovementSystem) SetBounds(b *Bounds) { s.bounds = b }

func (s *MovementSystem) Run(w *ecs.World, _ *message.Bus, _ int64) {
	ecs.Each2(w, func(id ecs.EntityID, loc *component.Location, vel *component.Velocity) {
		if !component.IsEnabled(w, id) {
			return
		}
		loc.X += vel.X
		loc.Y += vel.Y
		s.clamp(loc)
	})

	ecs.Each2(w, func(id ecs.EntityID, loc *component.Location, m *component.Motion) {
		if !component.IsEnabled(w, id) {
			return
		}
		loc.X += m.XVel * math.Cos(m.Direction)
		loc.Y += m.YVel * math.Sin(m.Direction)
		s.clamp(loc)
	})
}

func (s *MovementSystem) clamp(loc *component.Location) {
	if s.bounds == nil {
		return
	}
	loc.X = math.Min(math.Max(loc.X, s.bounds.MinX), s.bounds.MaxX)
	loc.Y = math.Min(math.Max(loc.Y, s.bounds.MinY), s.bounds.MaxY)
}
