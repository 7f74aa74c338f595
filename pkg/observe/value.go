// Package observe provides the change-notification contract that makes
// component properties bindable. A property is a Value: a typed
// container that notifies registered listeners with the old and new
// value, synchronously, whenever it is assigned.
//
// Notification is unconditional. Set fires listeners even when the new
// value equals the old one, so the contract stays usable for element
// types that are not comparable; bindings rely on their own re-entrancy
// guards rather than equality suppression to bound feedback.
package observe

import "sort"

// Listener receives a property mutation. It runs synchronously, in
// line with the Set that caused it.
type Listener[T any] func(old, new T)

// Value is a bindable property holding a single value of type T.
// The zero value is ready to use, which keeps component declarations
// free of per-field constructors.
//
// Value is not safe for concurrent use. All property mutation happens
// on the goroutine driving the component tree's update loop.
type Value[T any] struct {
	value     T
	listeners map[int]Listener[T]
	nextID    int
}

// NewValue returns a Value initialized to initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

// Of returns a Value by value, for struct-literal field initialization.
func Of[T any](initial T) Value[T] {
	return Value[T]{value: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	return v.value
}

// Set assigns newValue and notifies listeners with the old and new
// value, in registration order.
func (v *Value[T]) Set(newValue T) {
	old := v.value
	v.value = newValue
	v.notify(old, newValue)
}

// Update applies fn to the current value and assigns the result.
func (v *Value[T]) Update(fn func(T) T) {
	v.Set(fn(v.value))
}

// AddListener registers fn and returns a closure that removes the
// registration. Removing twice is harmless.
func (v *Value[T]) AddListener(fn Listener[T]) func() {
	if v.listeners == nil {
		v.listeners = make(map[int]Listener[T])
	}
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	return func() {
		delete(v.listeners, id)
	}
}

// ListenerCount reports the number of registered listeners.
func (v *Value[T]) ListenerCount() int {
	return len(v.listeners)
}

func (v *Value[T]) notify(old, new T) {
	if len(v.listeners) == 0 {
		return
	}
	// Snapshot IDs so a listener that unsubscribes itself, or registers
	// another listener, does not disturb the iteration. IDs are handed
	// out monotonically, so the sort preserves registration order.
	ids := make([]int, 0, len(v.listeners))
	for id := range v.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := v.listeners[id]; ok {
			fn(old, new)
		}
	}
}
