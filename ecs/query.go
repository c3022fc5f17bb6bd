package ecs

import "github.com/milk9111/autogodraw/ecs/component"

// ComponentKey is satisfied by every component.ComponentKind.
type ComponentKey interface {
	ID() component.ComponentID
}

// Query returns the live entities holding every listed kind.
func (w *World) Query(kinds ...ComponentKey) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		set := w.store(k.ID(), false)
		if set == nil {
			return nil
		}
		sets = append(sets, set)
	}
	// iterate smallest set
	smallest := 0
	for i, set := range sets {
		if set.Len() < sets[smallest].Len() {
			smallest = i
		}
	}
	out := make([]Entity, 0, sets[smallest].Len())
	for _, e := range sets[smallest].Entities() {
		if !w.IsAlive(e) {
			continue
		}
		match := true
		for i, set := range sets {
			if i != smallest && !set.Has(e) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	return out
}
