package system

import (
	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
)

// CleanupSystem flushes the deferred entity destruction queue. Register it
// last so every other system sees a stable entity set during the tick.
type CleanupSystem struct {
	destroyed int
}

func NewCleanupSystem() *CleanupSystem {
	return &CleanupSystem{}
}

func (s *CleanupSystem) Name() string { return "cleanup" }

func (s *CleanupSystem) Run(w *ecs.World, _ *message.Bus, _ int64) {
	s.destroyed += w.FlushDestroyQueue()
}

// Destroyed returns how many entities this system has removed.
func (s *CleanupSystem) Destroyed() int { return s.destroyed }
