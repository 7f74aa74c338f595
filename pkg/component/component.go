// Package component provides the runtime component tree: an ordered
// hierarchy of nodes with a load/activate/deactivate/update lifecycle.
// Nodes own their children for lifetime purposes; a child holds only a
// non-owning back-reference to its parent, assigned exactly once when
// the tree is constructed, so the parent graph is acyclic.
//
// Concrete components embed Node and pass themselves to Init:
//
//	type Player struct {
//		component.Node
//		Health observe.Value[float64]
//	}
//
//	func NewPlayer(name string) *Player {
//		p := &Player{Health: observe.Of(100.0)}
//		p.Init(p, name)
//		return p
//	}
//
// Lifecycle behavior is added through optional interfaces (Loader,
// Activator, Deactivator, Updater) probed on the concrete type, not
// through overriding.
package component

// LifecycleState describes where a component is in its lifecycle.
type LifecycleState int

const (
	// StateUnloaded is the initial state: the node exists but has not
	// been prepared. Bindings may only be added in this state.
	StateUnloaded LifecycleState = iota
	// StateLoaded means one-shot preparation ran and the binding
	// collection is sealed.
	StateLoaded
	// StateActive means the node participates in updates and its
	// bindings are live.
	StateActive
	// StateInactive means the node was deactivated; it can activate
	// again.
	StateInactive
)

func (s LifecycleState) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateActive:
		return "active"
	case StateInactive:
		return "inactive"
	default:
		return "invalid"
	}
}

// Component is a node in the runtime tree. It is implemented by
// embedding Node; the unexported method keeps foreign implementations
// out so the tree can rely on Node's bookkeeping.
type Component interface {
	// Name returns the node's name. Names need not be unique.
	Name() string
	// ID returns the stable instance identifier assigned at Init.
	ID() string
	// Parent returns the owning node, or nil at the root.
	Parent() Component
	// Children returns the ordered child collection. Callers must not
	// mutate the returned slice.
	Children() []Component
	// State returns the current lifecycle state.
	State() LifecycleState
	// Load runs one-shot preparation for the node and its children.
	Load()
	// Activate brings the node, its bindings, and its children live.
	Activate()
	// Deactivate tears down the subtree's runtime state.
	Deactivate()
	// Update advances the subtree by dt seconds while active.
	Update(dt float64)

	node() *Node
}

// Binding is the non-generic lifecycle surface of a configured
// property binding. Generic pipelines of every instantiation implement
// it, which lets a node store heterogeneous bindings in one ordered
// collection.
type Binding interface {
	// Activate resolves the binding's source against owner and wires
	// change delivery. Failures leave the binding inert.
	Activate(owner Component)
	// Deactivate removes subscriptions and drops runtime state. It is
	// a safe no-op when activation never happened.
	Deactivate()
}

// Loader is implemented by components that prepare state at Load.
// Bindings are declared here; the binding collection seals when Load
// completes.
type Loader interface {
	OnLoad()
}

// Activator is implemented by components that react to activation.
// It runs after the node's own bindings activate and before children.
type Activator interface {
	OnActivate()
}

// Deactivator is implemented by components that react to deactivation.
// It runs after children deactivate and before the node's own bindings
// tear down.
type Deactivator interface {
	OnDeactivate()
}

// Updater is implemented by components that advance per frame.
type Updater interface {
	OnUpdate(dt float64)
}
