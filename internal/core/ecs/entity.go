package ecs

import (
	"math"
	"sort"
)

// EntityID is an opaque entity identifier. IDs come from a monotonic counter
// and are never reused while alive.
type EntityID uint32

// NoEntity is the "no room" sentinel returned when the id space is exhausted.
const NoEntity EntityID = math.MaxUint32

// DefaultEntityLimit is the size of the id space used by NewWorld.
const DefaultEntityLimit = uint32(NoEntity)

// EntityPool allocates ids in [0, limit). Once the counter reaches the limit
// the live set is scanned for the lowest free id.
type EntityPool struct {
	live    map[EntityID]struct{}
	counter EntityID
	limit   EntityID
}

func NewEntityPool(limit uint32) *EntityPool {
	if limit == 0 || limit > DefaultEntityLimit {
		limit = DefaultEntityLimit
	}
	return &EntityPool{
		live:  make(map[EntityID]struct{}, 1024),
		limit: EntityID(limit),
	}
}

// Create returns the next free id, or NoEntity and false when every id in
// the pool is alive.
func (p *EntityPool) Create() (EntityID, bool) {
	if p.counter < p.limit {
		id := p.counter
		p.counter++
		p.live[id] = struct{}{}
		return id, true
	}
	if uint64(len(p.live)) >= uint64(p.limit) {
		return NoEntity, false
	}
	// Counter exhausted: reuse the lowest id not currently alive.
	for id := EntityID(0); id < p.limit; id++ {
		if _, ok := p.live[id]; !ok {
			p.live[id] = struct{}{}
			return id, true
		}
	}
	return NoEntity, false
}

func (p *EntityPool) Alive(id EntityID) bool {
	_, ok := p.live[id]
	return ok
}

// Destroy releases id. Returns false if it was not alive.
func (p *EntityPool) Destroy(id EntityID) bool {
	if _, ok := p.live[id]; !ok {
		return false
	}
	delete(p.live, id)
	return true
}

func (p *EntityPool) Len() int {
	return len(p.live)
}

// IDs returns the live ids in ascending order.
func (p *EntityPool) IDs() []EntityID {
	ids := make([]EntityID, 0, len(p.live))
	for id := range p.live {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Reset forgets every id and restarts the counter at zero.
func (p *EntityPool) Reset() {
	clear(p.live)
	p.counter = 0
}

func sortIDs(ids []EntityID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
