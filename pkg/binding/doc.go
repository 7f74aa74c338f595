// Package binding connects component properties across the tree so a
// change on one node propagates to another without either node knowing
// about the other.
//
// A binding is declared once, while its owning node loads, and comes
// alive every time the node activates. Activation resolves the source
// component through a lookup strategy, subscribes to its change
// notification, and pushes the current value through the conversion
// chain into the target. Deactivation removes every subscription, so
// nothing a binding touched outlives the node's active period.
//
// # Declaring a binding
//
// Pipelines are built fluently from a typed property selector and added
// to the owning node during OnLoad:
//
//	func (h *HealthLabel) OnLoad() {
//	    p := binding.Bind(func(p *Player) *observe.Value[float64] { return &p.Health })
//	    h.AddBinding(binding.Format(p, "Health: %.0f").Set(func(s string) { h.Text.Set(s) }))
//	}
//
// Bind compiles the selector into direct read, write, and subscribe
// calls at configuration time. Updates run those compiled calls; no
// name or reflection lookup happens after the pipeline is built.
//
// # Lookup strategies
//
// Via selects how the source component is found relative to the owner:
// Parent (the default) walks ancestors for the nearest match, Sibling
// and Child scan one level, Context is Parent under a clearer name for
// shared state holders, and Named searches the whole tree for a
// component by name. All five fail soft: an unresolved binding warns
// and stays inert until the next activation.
//
// # Value flow
//
// Convert and Format fix a new value type for the pipeline and return a
// new stage; ConvertTwoWay keeps the pipeline writable by pairing the
// transform with its inverse. TwoWay subscribes the target property in
// the reverse direction, and a per-binding guard absorbs the re-entrant
// notification each direction causes in the other, which bounds the
// feedback loop.
//
// # Dynamic bindings
//
// Scene templates cannot name Go types, so they declare bindings by
// property name instead. NewDynamic builds the equivalent binding from
// strings, resolving both endpoints through the PropertySource surface
// and coercing values to the target's type on every update.
package binding
