// Package component defines the component records attached to entities.
// Components are pure data: all mutations happen in systems, behaviors and
// handlers.
package component

import (
	"fmt"

	"github.com/wtengine/wte/internal/core/ecs"
)

const (
	KindName ecs.Kind = iota + 1
	KindEnabled
	KindVisible
	KindLocation
	KindTeam
	KindHitbox
	KindHealth
	KindDamage
	KindDirection
	KindVelocity
	KindMotion
	KindAI
	KindDispatcher
	KindSprite
	KindOverlay
	KindBackground
)

var kindNames = map[ecs.Kind]string{
	KindName:       "name",
	KindEnabled:    "enabled",
	KindVisible:    "visible",
	KindLocation:   "location",
	KindTeam:       "team",
	KindHitbox:     "hitbox",
	KindHealth:     "health",
	KindDamage:     "damage",
	KindDirection:  "direction",
	KindVelocity:   "velocity",
	KindMotion:     "motion",
	KindAI:         "ai",
	KindDispatcher: "dispatcher",
	KindSprite:     "sprite",
	KindOverlay:    "overlay",
	KindBackground: "background",
}

// KindString returns a stable label for k.
func KindString(k ecs.Kind) string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", k)
}
