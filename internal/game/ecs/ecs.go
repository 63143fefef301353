// Package ecs stores entity components in per-type tables keyed by stable IDs.
package ecs

// ID identifies an entity. The zero ID is never issued.
type ID uint32

// None is the reserved zero ID.
const None ID = 0

// Registry issues entity IDs and tracks which are alive.
//
// Invariant: IDs are never reused within a Registry's lifetime.
type Registry struct {
	next  ID
	alive map[ID]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{alive: make(map[ID]struct{})}
}

// Create issues a new, live ID.
//
// Postcondition: the returned ID is non-zero and distinct from every earlier ID.
func (r *Registry) Create() ID {
	r.next++
	r.alive[r.next] = struct{}{}
	return r.next
}

// Destroy marks id as no longer alive. Destroying an unknown id is a no-op.
func (r *Registry) Destroy(id ID) {
	delete(r.alive, id)
}

// Alive reports whether id was created and not yet destroyed.
func (r *Registry) Alive(id ID) bool {
	_, ok := r.alive[id]
	return ok
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return len(r.alive)
}
