package ecs

import "fmt"

// Kind is the runtime discriminator of a component type. Each component
// type owns exactly one Kind.
type Kind uint16

// Component is implemented by every component record. Kind must be declared
// on the value receiver so the zero value of a component type can report it.
type Component interface {
	Kind() Kind
}

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID) bool
	Has(id EntityID) bool
	Len() int
	Clear()
}

// PtrComponentStore is a typed map store for one component kind.
// No reflect, no interface{} — pure generics.
type PtrComponentStore[T Component] struct {
	data map[EntityID]*T
}

func NewPtrComponentStore[T Component]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		data: make(map[EntityID]*T, 256),
	}
}

// Insert stores c for id. It refuses to replace an existing component.
func (s *PtrComponentStore[T]) Insert(id EntityID, c T) bool {
	if _, ok := s.data[id]; ok {
		return false
	}
	s.data[id] = &c
	return true
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *PtrComponentStore[T]) Remove(id EntityID) bool {
	if _, ok := s.data[id]; !ok {
		return false
	}
	delete(s.data, id)
	return true
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.data)
}

func (s *PtrComponentStore[T]) Clear() {
	clear(s.data)
}

// Entries returns a snapshot of the store ordered by entity id.
func (s *PtrComponentStore[T]) Entries() []Entry[T] {
	ids := idsOf(s)
	out := make([]Entry[T], len(ids))
	for i, id := range ids {
		out[i] = Entry[T]{ID: id, C: s.data[id]}
	}
	return out
}

// Entry pairs an entity with a write handle to one of its components.
type Entry[T Component] struct {
	ID EntityID
	C  *T
}

func kindOf[T Component]() Kind {
	var zero T
	return zero.Kind()
}

// storeFor returns the store for T's kind. With create=false a missing store
// yields nil. A kind claimed by two different types is a programming error.
func storeFor[T Component](w *World, create bool) *PtrComponentStore[T] {
	k := kindOf[T]()
	raw, ok := w.registry.Store(k)
	if !ok {
		if !create {
			return nil
		}
		s := NewPtrComponentStore[T]()
		w.registry.Register(k, s)
		return s
	}
	s, ok := raw.(*PtrComponentStore[T])
	if !ok {
		panic(fmt.Sprintf("ecs: kind %d already registered by %T", k, raw))
	}
	return s
}

// AddComponent attaches c to id. It fails with ErrNoEntity if id is not
// alive and ErrDuplicateComponent if id already holds a component of the
// same kind; the existing component is left untouched.
func AddComponent[T Component](w *World, id EntityID, c T) error {
	if !w.pool.Alive(id) {
		return fmt.Errorf("add %T to %d: %w", c, id, ErrNoEntity)
	}
	if !storeFor[T](w, true).Insert(id, c) {
		return fmt.Errorf("add %T to %d: %w", c, id, ErrDuplicateComponent)
	}
	return nil
}

// RemoveComponent removes id's component of kind T and reports whether
// anything was removed.
func RemoveComponent[T Component](w *World, id EntityID) bool {
	s := storeFor[T](w, false)
	if s == nil {
		return false
	}
	return s.Remove(id)
}

func HasComponent[T Component](w *World, id EntityID) bool {
	s := storeFor[T](w, false)
	return s != nil && s.Has(id)
}

// GetComponent returns a copy of id's component of kind T.
func GetComponent[T Component](w *World, id EntityID) (T, bool) {
	var zero T
	s := storeFor[T](w, false)
	if s == nil {
		return zero, false
	}
	c, ok := s.Get(id)
	if !ok {
		return zero, false
	}
	return *c, true
}

// MutComponent returns a pointer to id's stored component of kind T.
// Writes through it are visible to every later reader.
func MutComponent[T Component](w *World, id EntityID) (*T, bool) {
	s := storeFor[T](w, false)
	if s == nil {
		return nil, false
	}
	return s.Get(id)
}

// Query returns every entity holding a component of kind T, ordered by id.
// An empty or never-used kind yields an empty slice.
func Query[T Component](w *World) []Entry[T] {
	s := storeFor[T](w, false)
	if s == nil {
		return nil
	}
	return s.Entries()
}

// Count returns how many entities hold a component of kind T.
func Count[T Component](w *World) int {
	s := storeFor[T](w, false)
	if s == nil {
		return 0
	}
	return s.Len()
}
