package component

import "github.com/wtengine/wte/internal/core/ecs"

// NameOf returns id's Name, or "" if it has none.
func NameOf(w *ecs.World, id ecs.EntityID) string {
	n, ok := ecs.GetComponent[Name](w, id)
	if !ok {
		return ""
	}
	return n.Value
}

// FindByName returns the lowest-id entity named name.
func FindByName(w *ecs.World, name string) (ecs.EntityID, bool) {
	if name == "" {
		return ecs.NoEntity, false
	}
	for _, e := range ecs.Query[Name](w) {
		if e.C.Value == name {
			return e.ID, true
		}
	}
	return ecs.NoEntity, false
}

// IsEnabled reports whether id has an Enabled component that is on.
func IsEnabled(w *ecs.World, id ecs.EntityID) bool {
	e, ok := ecs.GetComponent[Enabled](w, id)
	return ok && e.On
}
