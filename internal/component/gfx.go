package component

import "github.com/wtengine/wte/internal/core/ecs"

// Presentation components are opaque to the core. They name an asset and
// carry layout hints for whatever renderer is attached.

type Sprite struct {
	Asset   string
	Layer   int
	Frame   int
	OffsetX float64
	OffsetY float64
}

type Overlay struct {
	Asset string
	Layer int
	X     float64
	Y     float64
	Text  string
}

type Background struct {
	Asset string
	Layer int
	Color uint32 // RGBA, used when Asset is empty
}

func (Sprite) Kind() ecs.Kind     { return KindSprite }
func (Overlay) Kind() ecs.Kind    { return KindOverlay }
func (Background) Kind() ecs.Kind { return KindBackground }
