package ecs

// entityStore tracks entity generations and free ids.
type entityStore struct {
	nextID uint32
	gen    []uint32
	alive  []bool
	free   []uint32
}

func (s *entityStore) create() Entity {
	if s == nil {
		return 0
	}
	var id uint32
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.nextID++
		id = s.nextID
		s.gen = append(s.gen, 0)
		s.alive = append(s.alive, false)
	}
	s.alive[id-1] = true
	return makeEntity(entityID(id), generation(s.gen[id-1]))
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := uint32(e.id()) - 1
	s.gen[idx]++
	s.alive[idx] = false
	s.free = append(s.free, uint32(e.id()))
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	if s == nil || !e.Valid() {
		return false
	}
	idx := int(e.id()) - 1
	if idx >= len(s.gen) {
		return false
	}
	return s.alive[idx] && s.gen[idx] == uint32(e.generation())
}

func (s *entityStore) all() []Entity {
	if s == nil {
		return nil
	}
	out := make([]Entity, 0, len(s.gen)-len(s.free))
	for i, ok := range s.alive {
		if ok {
			out = append(out, makeEntity(entityID(i+1), generation(s.gen[i])))
		}
	}
	return out
}
