package observe

import "sort"

// ChangeNotifier is the degraded change-notification contract for
// sources that cannot expose per-property values: a single signal that
// fires after any property mutation. Bindings fall back to it when the
// selected property carries no notification of its own. Prefer Value
// fields, which tell the binding exactly which property changed.
type ChangeNotifier interface {
	// OnChange registers fn to run after every mutation and returns a
	// closure that removes the registration.
	OnChange(fn func()) func()
}

// Notifier is an embeddable ChangeNotifier implementation. Components
// that mutate plain fields call Notify after each mutation to signal
// their subscribers.
type Notifier struct {
	listeners map[int]func()
	nextID    int
}

// OnChange implements ChangeNotifier.
func (n *Notifier) OnChange(fn func()) func() {
	if n.listeners == nil {
		n.listeners = make(map[int]func())
	}
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	return func() {
		delete(n.listeners, id)
	}
}

// Notify fires all registered listeners in registration order.
func (n *Notifier) Notify() {
	if len(n.listeners) == 0 {
		return
	}
	ids := make([]int, 0, len(n.listeners))
	for id := range n.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := n.listeners[id]; ok {
			fn()
		}
	}
}

// ListenerCount reports the number of registered listeners.
func (n *Notifier) ListenerCount() int {
	return len(n.listeners)
}
