package ctf

// Slots is a sparse table addressed by small integer ids. Unset slots are
// empty; the table grows to id+1 on demand by copying into a fresh backing
// array.
type Slots[T any] struct {
	items []T
	used  []bool
	count int
}

// Len is one past the highest occupied id.
func (s *Slots[T]) Len() int { return len(s.items) }

// Count is the number of occupied slots.
func (s *Slots[T]) Count() int { return s.count }

// Get returns the value at id, if any.
func (s *Slots[T]) Get(id int) (T, bool) {
	var zero T
	if id < 0 || id >= len(s.items) || !s.used[id] {
		return zero, false
	}
	return s.items[id], true
}

// Put stores v at id. It reports false, leaving the table untouched, when
// the slot is already taken.
func (s *Slots[T]) Put(id int, v T) bool {
	if id < 0 {
		return false
	}
	if id >= len(s.items) {
		s.grow(id + 1)
	}
	if s.used[id] {
		return false
	}
	s.items[id] = v
	s.used[id] = true
	s.count++
	return true
}

func (s *Slots[T]) grow(n int) {
	items := make([]T, n)
	used := make([]bool, n)
	copy(items, s.items)
	copy(used, s.used)
	s.items, s.used = items, used
}

// Remove empties the slot at id and returns what it held. Trailing empty
// slots are trimmed so Len keeps tracking the highest occupied id.
func (s *Slots[T]) Remove(id int) (T, bool) {
	var zero T
	if id < 0 || id >= len(s.items) || !s.used[id] {
		return zero, false
	}
	v := s.items[id]
	s.items[id], s.used[id] = zero, false
	s.count--
	n := len(s.used)
	for n > 0 && !s.used[n-1] {
		n--
	}
	s.items, s.used = s.items[:n], s.used[:n]
	return v, true
}

// Each calls fn for occupied slots in id order until fn returns false.
func (s *Slots[T]) Each(fn func(id int, v T) bool) {
	for i, ok := range s.used {
		if ok && !fn(i, s.items[i]) {
			return
		}
	}
}

// Reverse is Each from the highest id down.
func (s *Slots[T]) Reverse(fn func(id int, v T) bool) {
	for i := len(s.used) - 1; i >= 0; i-- {
		if s.used[i] && !fn(i, s.items[i]) {
			return
		}
	}
}

// Reset empties the table.
func (s *Slots[T]) Reset() {
	s.items, s.used, s.count = nil, nil, 0
}
