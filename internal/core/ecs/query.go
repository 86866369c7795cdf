package ecs

// Each2 iterates, in id order, over entities that have both component A and B.
// It walks the smaller store and checks the larger one. The id set is fixed
// when the call starts; entities losing a component mid-walk are skipped.
func Each2[A, B Component](w *World, fn func(EntityID, *A, *B)) {
	sa, sb := storeFor[A](w, false), storeFor[B](w, false)
	if sa == nil || sb == nil {
		return
	}
	var ids []EntityID
	if sa.Len() <= sb.Len() {
		ids = idsOf(sa)
	} else {
		ids = idsOf(sb)
	}
	for _, id := range ids {
		a, ok := sa.Get(id)
		if !ok {
			continue
		}
		b, ok := sb.Get(id)
		if !ok {
			continue
		}
		fn(id, a, b)
	}
}

// Each3 iterates, in id order, over entities that have components A, B, and C.
func Each3[A, B, C Component](w *World, fn func(EntityID, *A, *B, *C)) {
	sa, sb, sc := storeFor[A](w, false), storeFor[B](w, false), storeFor[C](w, false)
	if sa == nil || sb == nil || sc == nil {
		return
	}
	// Iterate the smallest store
	var ids []EntityID
	switch {
	case sa.Len() <= sb.Len() && sa.Len() <= sc.Len():
		ids = idsOf(sa)
	case sb.Len() <= sc.Len():
		ids = idsOf(sb)
	default:
		ids = idsOf(sc)
	}
	for _, id := range ids {
		a, ok := sa.Get(id)
		if !ok {
			continue
		}
		b, ok := sb.Get(id)
		if !ok {
			continue
		}
		c, ok := sc.Get(id)
		if !ok {
			continue
		}
		fn(id, a, b, c)
	}
}

func idsOf[T Component](s *PtrComponentStore[T]) []EntityID {
	ids := make([]EntityID, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}
