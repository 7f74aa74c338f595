package component

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Node is the embeddable base of every component. It carries the tree
// links, the lifecycle state machine, and the node's ordered binding
// collection.
type Node struct {
	self     Component
	name     string
	id       string
	parent   Component
	children []Component
	bindings []Binding
	state    LifecycleState
}

// Init wires the embedding component's self-reference and assigns the
// instance ID. It must be called exactly once, in the component's
// constructor, before the node joins a tree.
func (n *Node) Init(self Component, name string) {
	if self == nil {
		panic("component: Init with nil self")
	}
	if n.self != nil {
		panic(fmt.Sprintf("component: %s already initialized", n.name))
	}
	n.self = self
	n.name = name
	n.id = uuid.NewString()
}

func (n *Node) node() *Node { return n }

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// ID returns the instance identifier assigned at Init.
func (n *Node) ID() string { return n.id }

// Parent returns the owning node, or nil at the root.
func (n *Node) Parent() Component { return n.parent }

// Children returns the ordered child collection.
func (n *Node) Children() []Component { return n.children }

// State returns the current lifecycle state.
func (n *Node) State() LifecycleState { return n.state }

// AddChild appends child to the ordered child collection and assigns
// its parent back-reference. The child must be initialized, parentless,
// and unloaded; the parent reference is never reassigned afterward,
// which is what keeps the parent graph acyclic.
func (n *Node) AddChild(child Component) {
	if child == nil {
		panic("component: AddChild with nil child")
	}
	cn := child.node()
	if cn.self == nil {
		panic("component: child not initialized; call Init in its constructor")
	}
	if cn == n {
		panic(fmt.Sprintf("component: %s cannot be its own child", n.name))
	}
	if cn.parent != nil {
		panic(fmt.Sprintf("component: %s already has a parent", cn.name))
	}
	if cn.state != StateUnloaded {
		panic(fmt.Sprintf("component: %s must be attached before it is loaded", cn.name))
	}
	if n.self == nil {
		panic("component: parent not initialized; call Init in its constructor")
	}
	cn.parent = n.self
	n.children = append(n.children, child)
}

// AddBinding appends a configured binding to the node's ordered
// collection. Legal only before Load completes; the collection is
// never mutated during iteration.
//
// The binding is probed for two optional interfaces: Validate reports
// configuration contradictions, which are developer mistakes and panic
// immediately, and Configured reports whether a terminal setter was
// ever supplied. An unconfigured binding is discarded here, so it is
// never partially activated and never fails later.
func (n *Node) AddBinding(b Binding) {
	if b == nil {
		panic("component: AddBinding with nil binding")
	}
	if n.state != StateUnloaded {
		panic(fmt.Sprintf("component: %s: bindings may only be added before Load completes", n.name))
	}
	if v, ok := b.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			panic(fmt.Sprintf("component: %s: invalid binding: %v", n.name, err))
		}
	}
	if c, ok := b.(interface{ Configured() bool }); ok && !c.Configured() {
		log.Debug().Str("component", n.name).Msg("discarding binding with no target setter")
		return
	}
	n.bindings = append(n.bindings, b)
}

// BindingCount reports how many bindings the node collected.
func (n *Node) BindingCount() int { return len(n.bindings) }

// Bindings returns the node's ordered binding collection. Callers must
// not mutate the returned slice.
func (n *Node) Bindings() []Binding { return n.bindings }

// Load runs the node's one-shot preparation: the OnLoad hook first,
// where bindings are declared, then the children. Loading twice is a
// no-op.
func (n *Node) Load() {
	if n.state != StateUnloaded {
		return
	}
	if n.self == nil {
		panic("component: Load before Init")
	}
	if l, ok := n.self.(Loader); ok {
		l.OnLoad()
	}
	for _, c := range n.children {
		c.Load()
	}
	n.state = StateLoaded
}

// Activate brings the node live: own bindings in list order, the
// OnActivate hook, then children in order. Legal from Loaded or
// Inactive; activating an active node is a no-op. Each activation
// re-resolves every binding from scratch.
func (n *Node) Activate() {
	switch n.state {
	case StateLoaded, StateInactive:
	case StateActive:
		return
	default:
		panic(fmt.Sprintf("component: %s: Activate before Load", n.name))
	}
	for _, b := range n.bindings {
		b.Activate(n.self)
	}
	if a, ok := n.self.(Activator); ok {
		a.OnActivate()
	}
	for _, c := range n.children {
		c.Activate()
	}
	n.state = StateActive
}

// Deactivate tears the subtree down in reverse order of activation:
// children first, then the OnDeactivate hook, then the node's own
// bindings. Every binding is deactivated, including ones whose
// activation never succeeded. Safe to call when not active.
func (n *Node) Deactivate() {
	if n.state != StateActive {
		return
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		n.children[i].Deactivate()
	}
	if d, ok := n.self.(Deactivator); ok {
		d.OnDeactivate()
	}
	for _, b := range n.bindings {
		b.Deactivate()
	}
	n.state = StateInactive
}

// Update advances the node and its children by dt seconds. Inactive
// subtrees do not update.
func (n *Node) Update(dt float64) {
	if n.state != StateActive {
		return
	}
	if u, ok := n.self.(Updater); ok {
		u.OnUpdate(dt)
	}
	for _, c := range n.children {
		c.Update(dt)
	}
}
