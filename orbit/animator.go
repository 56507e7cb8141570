package orbit

import (
	"fmt"
	"reflect"
	"sort"
)

// Animator is the registry of orbiting bodies
// Not safe for concurrent use: register and tick from the frame goroutine
type Animator struct {
	bodies map[ID]*Body
	order  []ID // registration order, kept for stable iteration
}

// NewAnimator creates an empty animator
func NewAnimator() *Animator {
	return &Animator{
		bodies: make(map[ID]*Body),
	}
}

// Register adds or replaces a body
// Bodies may be registered at any time; the next Tick positions them
func (a *Animator) Register(id ID, body Body) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidBody)
	}
	if isNil(body.Target) {
		return fmt.Errorf("%w: %s has no target", ErrInvalidBody, id)
	}

	if _, exists := a.bodies[id]; !exists {
		a.order = append(a.order, id)
	}
	b := body
	a.bodies[id] = &b
	return nil
}

// Unregister removes a body, returns false if it was not registered
func (a *Animator) Unregister(id ID) bool {
	if _, ok := a.bodies[id]; !ok {
		return false
	}
	delete(a.bodies, id)
	for i, o := range a.order {
		if o == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a copy of a registered body
func (a *Animator) Get(id ID) (Body, bool) {
	b, ok := a.bodies[id]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// Len returns the number of registered bodies
func (a *Animator) Len() int {
	return len(a.bodies)
}

// IDs returns registered ids sorted lexically
func (a *Animator) IDs() []ID {
	ids := make([]ID, len(a.order))
	copy(ids, a.order)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Tick positions every registered body for elapsed time t (seconds)
func (a *Animator) Tick(t float64) {
	for _, id := range a.order {
		a.bodies[id].apply(t)
	}
}

// isNil catches both a nil interface and an interface holding a nil pointer
func isNil(t Target) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
