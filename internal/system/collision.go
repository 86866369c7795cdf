package system

import (
	"strconv"

	"github.com/wtengine/wte/internal/component"
	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
)

// CollisionSubsystem is the subsystem collision messages are posted to.
const CollisionSubsystem = "entities"

// CollisionSystem tests every pair of entities on different teams for an
// AABB overlap. Each hit is reported once per ordered pair, so A and B both
// receive a "collision" message naming the other.
//
// A pair is tested only when both entities have a location, hitbox and
// enabled component, both are enabled, and the second hitbox is solid.
// Entities missing any of these are skipped.
type CollisionSystem struct {
	grid       *spatialGrid
	candidates []int
}

func NewCollisionSystem() *CollisionSystem {
	return NewCollisionSystemWithCellSize(DefaultCellSize)
}

// NewCollisionSystemWithCellSize sets the broad-phase cell edge. Cells
// roughly the size of a typical hitbox work best.
func NewCollisionSystemWithCellSize(size float64) *CollisionSystem {
	return &CollisionSystem{grid: newSpatialGrid(size)}
}

func (s *CollisionSystem) Name() string { return "collision" }

type collider struct {
	id   ecs.EntityID
	team uint8
	loc  component.Location
	box  component.Hitbox
	name string
}

func (s *CollisionSystem) Run(w *ecs.World, bus *message.Bus, _ int64) {
	teams := ecs.Query[component.Team](w)
	cs := make([]collider, 0, len(teams))
	for _, t := range teams {
		loc, ok := ecs.GetComponent[component.Location](w, t.ID)
		if !ok {
			continue
		}
		box, ok := ecs.GetComponent[component.Hitbox](w, t.ID)
		if !ok {
			continue
		}
		if !component.IsEnabled(w, t.ID) {
			continue
		}
		cs = append(cs, collider{
			id:   t.ID,
			team: t.C.Value,
			loc:  loc,
			box:  box,
			name: component.NameOf(w, t.ID),
		})
	}

	s.grid.reset(len(cs))
	for i, c := range cs {
		s.grid.insert(i, c.loc, c.box)
	}

	for i, a := range cs {
		s.candidates = s.grid.nearby(i, a.loc, a.box, s.candidates)
		for _, j := range s.candidates {
			b := cs[j]
			if a.id == b.id || a.team == b.team || !b.box.Solid {
				continue
			}
			if !component.Overlaps(a.loc, a.box, b.loc, b.box) {
				continue
			}
			bus.Post(message.NewTo(CollisionSubsystem, a.name, b.name, "collision",
				message.JoinArgs([]string{
					strconv.FormatUint(uint64(a.id), 10),
					strconv.FormatUint(uint64(b.id), 10),
				})))
		}
	}
}
