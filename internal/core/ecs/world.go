package ecs

import (
	"errors"
	"sort"
)

var (
	ErrNoRoom             = errors.New("entity id space exhausted")
	ErrNoEntity           = errors.New("entity does not exist")
	ErrDuplicateComponent = errors.New("component kind already attached")
)

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and a deferred destruction queue flushed by CleanupSystem each tick.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
	queued       map[EntityID]struct{}
}

func NewWorld() *World {
	return NewWorldWithLimit(DefaultEntityLimit)
}

// NewWorldWithLimit creates a world whose id space is [0, limit).
func NewWorldWithLimit(limit uint32) *World {
	return &World{
		pool:         NewEntityPool(limit),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
		queued:       make(map[EntityID]struct{}),
	}
}

// CreateEntity allocates the next entity id. When the id space is exhausted
// it returns NoEntity and ErrNoRoom.
func (w *World) CreateEntity() (EntityID, error) {
	id, ok := w.pool.Create()
	if !ok {
		return NoEntity, ErrNoRoom
	}
	return id, nil
}

// DestroyEntity removes id and all of its components. Returns false if id
// does not exist.
func (w *World) DestroyEntity(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	w.registry.RemoveAll(id)
	return w.pool.Destroy(id)
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Entities returns a sorted snapshot of all live ids.
func (w *World) Entities() []EntityID {
	return w.pool.IDs()
}

func (w *World) Len() int {
	return w.pool.Len()
}

// Kinds returns the component kinds attached to id, in ascending order.
func (w *World) Kinds(id EntityID) []Kind {
	if !w.pool.Alive(id) {
		return nil
	}
	kinds := w.registry.Kinds(id)
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Marking an
// already queued entity is a no-op.
func (w *World) MarkForDestruction(id EntityID) {
	if _, ok := w.queued[id]; ok {
		return
	}
	w.queued[id] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, id)
}

// MarkedForDestruction reports whether id is queued for cleanup.
func (w *World) MarkedForDestruction(id EntityID) bool {
	_, ok := w.queued[id]
	return ok
}

// FlushDestroyQueue destroys all queued entities and clears their components.
// Called by CleanupSystem at the end of each tick. Returns how many entities
// were actually destroyed.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.destroyQueue {
		if w.DestroyEntity(id) {
			n++
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	clear(w.queued)
	return n
}

// Clear destroys every entity and component and resets the id counter.
func (w *World) Clear() {
	w.registry.Clear()
	w.pool.Reset()
	w.destroyQueue = w.destroyQueue[:0]
	clear(w.queued)
}
