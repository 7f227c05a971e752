package ecs

// SparseSet is a dense arena of T keyed by Entity. Values are packed so
// iteration touches contiguous memory; removal swaps the last element into the
// hole. Pointers returned by Get are invalidated by Set or Remove.
type SparseSet[T any] struct {
	dense  []Entity
	values []T
	sparse []int32
}

func (s *SparseSet[T]) index(e Entity) (int, bool) {
	if s == nil {
		return 0, false
	}
	id := int(e.id())
	if id <= 0 || id-1 >= len(s.sparse) {
		return 0, false
	}
	idx := int(s.sparse[id-1])
	if idx < 0 || idx >= len(s.dense) || s.dense[idx] != e {
		return 0, false
	}
	return idx, true
}

// Has reports whether e, including its generation, is stored.
func (s *SparseSet[T]) Has(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

// Get returns a pointer to the stored value for e.
func (s *SparseSet[T]) Get(e Entity) (*T, bool) {
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return &s.values[idx], true
}

// Set inserts or replaces the value for e.
func (s *SparseSet[T]) Set(e Entity, v T) {
	if s == nil || !e.Valid() {
		return
	}
	if idx, ok := s.index(e); ok {
		s.values[idx] = v
		return
	}
	id := int(e.id())
	for len(s.sparse) < id {
		s.sparse = append(s.sparse, -1)
	}
	// A stale generation may still occupy the slot.
	if old := s.sparse[id-1]; old >= 0 && int(old) < len(s.dense) && s.dense[old].id() == e.id() {
		s.removeAt(int(old))
	}
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	s.sparse[id-1] = int32(len(s.dense) - 1)
}

// Remove deletes the value for e if present.
func (s *SparseSet[T]) Remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	s.removeAt(idx)
	return true
}

func (s *SparseSet[T]) removeAt(idx int) {
	last := len(s.dense) - 1
	removed := s.dense[idx]
	if idx != last {
		moved := s.dense[last]
		s.dense[idx] = moved
		s.values[idx] = s.values[last]
		s.sparse[moved.id()-1] = int32(idx)
	}
	var zero T
	s.values[last] = zero
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[removed.id()-1] = -1
}

func (s *SparseSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}

// Entities returns the dense entity list. Do not modify it.
func (s *SparseSet[T]) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.dense
}

// Values returns the dense value list, parallel to Entities.
func (s *SparseSet[T]) Values() []T {
	if s == nil {
		return nil
	}
	return s.values
}

func (s *SparseSet[T]) Clear() {
	if s == nil {
		return
	}
	for i := range s.sparse {
		s.sparse[i] = -1
	}
	clear(s.values)
	s.dense = s.dense[:0]
	s.values = s.values[:0]
}
