package ecs

// Registry is the kind-indexed table of component stores. It supports bulk
// cleanup on entity destroy.
type Registry struct {
	stores map[Kind]Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[Kind]Removable, 16),
	}
}

// Register adds a component store to the registry under kind k.
func (r *Registry) Register(k Kind, store Removable) {
	r.stores[k] = store
}

// Store looks up the store registered for kind k.
func (r *Registry) Store(k Kind) (Removable, bool) {
	s, ok := r.stores[k]
	return s, ok
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}

// Kinds returns the kinds id currently holds.
func (r *Registry) Kinds(id EntityID) []Kind {
	var out []Kind
	for k, s := range r.stores {
		if s.Has(id) {
			out = append(out, k)
		}
	}
	return out
}

// Clear empties every store. Stores stay registered.
func (r *Registry) Clear() {
	for _, s := range r.stores {
		s.Clear()
	}
}
