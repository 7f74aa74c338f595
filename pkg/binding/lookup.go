package binding

import (
	"fmt"
	"reflect"

	"github.com/jddutz/nexus/pkg/component"
)

// Lookup locates a binding's source component relative to the binding's
// owner. Strategies are stateless pure functions over the tree, so a
// single Lookup value can be shared across any number of pipelines.
//
// The zero value behaves like Parent, the dominant strategy.
type Lookup[S any] struct {
	desc  string
	named string
	find  func(owner component.Component) (S, bool)
}

// Find runs the strategy against owner. It reports false when nothing
// in scope satisfies S; a miss never panics and is never retried.
func (l Lookup[S]) Find(owner component.Component) (S, bool) {
	if l.find == nil {
		return findAncestor[S](owner)
	}
	return l.find(owner)
}

func (l Lookup[S]) String() string {
	if l.desc == "" {
		return "parent[" + capabilityName[S]() + "]"
	}
	return l.desc
}

// Parent walks the owner's ancestors and returns the nearest one that
// satisfies S. Cost grows with tree depth. This is the default strategy
// when a pipeline never selects one.
func Parent[S any]() Lookup[S] {
	return Lookup[S]{
		desc: "parent[" + capabilityName[S]() + "]",
		find: findAncestor[S],
	}
}

// Context is Parent under a name that reads better when the ancestor is
// a shared state holder rather than a structural container. The
// algorithm is identical.
func Context[S any]() Lookup[S] {
	return Lookup[S]{
		desc: "context[" + capabilityName[S]() + "]",
		find: findAncestor[S],
	}
}

// Sibling scans the owner's parent's other children, in order, and
// returns the first that satisfies S. The owner itself is never a
// candidate.
func Sibling[S any]() Lookup[S] {
	return Lookup[S]{
		desc: "sibling[" + capabilityName[S]() + "]",
		find: func(owner component.Component) (S, bool) {
			var zero S
			parent := owner.Parent()
			if parent == nil {
				return zero, false
			}
			for _, c := range parent.Children() {
				if c == owner {
					continue
				}
				if s, ok := c.(S); ok {
					return s, true
				}
			}
			return zero, false
		},
	}
}

// Child scans the owner's immediate children, in order, and returns the
// first that satisfies S. It does not descend further.
func Child[S any]() Lookup[S] {
	return Lookup[S]{
		desc: "child[" + capabilityName[S]() + "]",
		find: func(owner component.Component) (S, bool) {
			for _, c := range owner.Children() {
				if s, ok := c.(S); ok {
					return s, true
				}
			}
			var zero S
			return zero, false
		},
	}
}

// Named walks up to the tree root, then searches the whole tree in
// pre-order for a component with the given name that satisfies S. Cost
// grows with tree size, so reserve it for singleton-like components
// that locality-bound strategies cannot reach.
func Named[S any](name string) Lookup[S] {
	if name == "" {
		panic("binding: Named with empty name")
	}
	return Lookup[S]{
		desc:  fmt.Sprintf("named[%q]", name),
		named: name,
		find: func(owner component.Component) (S, bool) {
			var found S
			ok := false
			component.Walk(component.Root(owner), func(c component.Component) bool {
				if c.Name() != name {
					return true
				}
				if s, match := c.(S); match {
					found, ok = s, true
					return false
				}
				return true
			})
			return found, ok
		},
	}
}

func findAncestor[S any](owner component.Component) (S, bool) {
	for c := owner.Parent(); c != nil; c = c.Parent() {
		if s, ok := c.(S); ok {
			return s, true
		}
	}
	var zero S
	return zero, false
}

// capabilityName names the type S for diagnostics.
func capabilityName[S any]() string {
	return reflect.TypeOf((*S)(nil)).Elem().String()
}
