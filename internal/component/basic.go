package component

import "github.com/wtengine/wte/internal/core/ecs"

// MaxTeam is the highest team index. Team values above it are clamped.
const MaxTeam uint8 = 3

// Name is the address other entities and systems use in messages.
type Name struct {
	Value string
}

// Enabled gates whether systems treat the entity as active.
type Enabled struct {
	On bool
}

// Visible gates presentation. Entities are visible unless hidden.
type Visible struct {
	On bool
}

// Location is the entity's position in world units.
type Location struct {
	X float64
	Y float64
}

// Team groups entities for collision. Use NewTeam or SetTeam to keep the
// value in range.
type Team struct {
	Value uint8
}

// Hitbox is an axis-aligned box anchored at the entity's Location.
type Hitbox struct {
	Width  float64
	Height float64
	Team   uint8
	Solid  bool
}

type Health struct {
	HP    int
	MaxHP int
}

type Damage struct {
	Amount int
}

// Direction is a heading in radians.
type Direction struct {
	Angle float64
}

type Velocity struct {
	X float64
	Y float64
}

// Motion combines a heading with per-axis speed.
type Motion struct {
	Direction float64
	XVel      float64
	YVel      float64
}

func (Name) Kind() ecs.Kind      { return KindName }
func (Enabled) Kind() ecs.Kind   { return KindEnabled }
func (Visible) Kind() ecs.Kind   { return KindVisible }
func (Location) Kind() ecs.Kind  { return KindLocation }
func (Team) Kind() ecs.Kind      { return KindTeam }
func (Hitbox) Kind() ecs.Kind    { return KindHitbox }
func (Health) Kind() ecs.Kind    { return KindHealth }
func (Damage) Kind() ecs.Kind    { return KindDamage }
func (Direction) Kind() ecs.Kind { return KindDirection }
func (Velocity) Kind() ecs.Kind  { return KindVelocity }
func (Motion) Kind() ecs.Kind    { return KindMotion }

func NewVisible() Visible { return Visible{On: true} }

func NewTeam(t uint8) Team {
	var team Team
	team.SetTeam(t)
	return team
}

func (t *Team) SetTeam(v uint8) {
	if v > MaxTeam {
		v = MaxTeam
	}
	t.Value = v
}

// NewHitbox returns a solid hitbox. Team is clamped like Team.
func NewHitbox(w, h float64, team uint8) Hitbox {
	return NewHitboxSolid(w, h, team, true)
}

func NewHitboxSolid(w, h float64, team uint8, solid bool) Hitbox {
	if team > MaxTeam {
		team = MaxTeam
	}
	return Hitbox{Width: w, Height: h, Team: team, Solid: solid}
}

// NewHealth returns full health.
func NewHealth(max int) Health { return Health{HP: max, MaxHP: max} }

// Alive reports whether hit points remain.
func (h Health) Alive() bool { return h.HP > 0 }

// Overlaps reports whether two hitboxes anchored at la and lb intersect.
// Touching edges do not count.
func Overlaps(la Location, ha Hitbox, lb Location, hb Hitbox) bool {
	return la.X < lb.X+hb.Width && la.X+ha.Width > lb.X &&
		la.Y < lb.Y+hb.Height && la.Y+ha.Height > lb.Y
}
