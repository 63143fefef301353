package ecs

// Table holds at most one component of type T per entity.
//
// Iteration visits entries in insertion order; replacing an existing
// component keeps its position.
type Table[T any] struct {
	ids    []ID
	values []T
	index  map[ID]int
}

// NewTable creates an empty Table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{index: make(map[ID]int)}
}

// Insert sets id's component to v, replacing any existing value.
func (t *Table[T]) Insert(id ID, v T) {
	if i, ok := t.index[id]; ok {
		t.values[i] = v
		return
	}
	t.index[id] = len(t.ids)
	t.ids = append(t.ids, id)
	t.values = append(t.values, v)
}

// Get returns a copy of id's component.
func (t *Table[T]) Get(id ID) (T, bool) {
	i, ok := t.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.values[i], true
}

// Ptr returns a pointer to id's component for in-place mutation, or nil.
//
// The pointer is invalidated by the next Insert of a new id or any Remove.
func (t *Table[T]) Ptr(id ID) *T {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	return &t.values[i]
}

// Has reports whether id has a component in t.
func (t *Table[T]) Has(id ID) bool {
	_, ok := t.index[id]
	return ok
}

// Remove deletes id's component, preserving the order of the remaining entries.
func (t *Table[T]) Remove(id ID) {
	i, ok := t.index[id]
	if !ok {
		return
	}
	delete(t.index, id)
	t.ids = append(t.ids[:i], t.ids[i+1:]...)
	t.values = append(t.values[:i], t.values[i+1:]...)
	for j := i; j < len(t.ids); j++ {
		t.index[t.ids[j]] = j
	}
}

// Len returns the number of components stored.
func (t *Table[T]) Len() int {
	return len(t.ids)
}

// IDs returns a snapshot of the stored ids in insertion order.
func (t *Table[T]) IDs() []ID {
	out := make([]ID, len(t.ids))
	copy(out, t.ids)
	return out
}

// Each calls fn for every entry in insertion order. fn may mutate the
// component through the pointer but must not insert into or remove from t.
func (t *Table[T]) Each(fn func(id ID, v *T)) {
	for i := range t.ids {
		fn(t.ids[i], &t.values[i])
	}
}

// Clear removes every component.
func (t *Table[T]) Clear() {
	t.ids = t.ids[:0]
	t.values = t.values[:0]
	clear(t.index)
}
