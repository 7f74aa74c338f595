package binding

import (
	"fmt"

	"github.com/jddutz/nexus/internal/suggest"
	"github.com/jddutz/nexus/pkg/component"
	"github.com/jddutz/nexus/pkg/convert"
	"github.com/jddutz/nexus/pkg/errors"
	"github.com/jddutz/nexus/pkg/observe"
)

// Pipeline is a property binding under construction and, once added to
// a node, the binding itself. S is the source capability the lookup
// resolves; V is the value type currently flowing through the pipeline.
//
// Configuration is one-shot and happens before the owning node loads.
// Calls that keep V mutate the pipeline in place; Convert, ConvertTwoWay
// and Format change V and therefore return a new pipeline, leaving the
// old stage behind.
//
// Pipeline implements component.Binding. All runtime state lives in a
// transient resolvedState whose lifetime is exactly one activation
// cycle.
type Pipeline[S any, V any] struct {
	lookup Lookup[S]
	read   func(S) (V, error)
	watch  func(S, func()) func()
	write  func(S, V) error
	setter func(V)
	target *observe.Value[V]
	twoWay bool
	owner  string
	state  *resolvedState[S]
}

// resolvedState exists only while the binding is active. Dropping it on
// Deactivate is what guarantees nothing outlives the active period.
type resolvedState[S any] struct {
	source        S
	unwatchSource func()
	unwatchTarget func()
	updating      bool
}

// Bind starts a pipeline on a source property selected by sel. The
// selector runs once per activation to locate the property; reads,
// writes and subscriptions compiled from it are direct calls with no
// per-update name resolution.
func Bind[S any, V any](sel func(S) *observe.Value[V]) *Pipeline[S, V] {
	if sel == nil {
		panic("binding: Bind with nil selector")
	}
	return &Pipeline[S, V]{
		read: func(src S) (V, error) {
			return sel(src).Get(), nil
		},
		watch: func(src S, fn func()) func() {
			return sel(src).AddListener(func(V, V) { fn() })
		},
		write: func(src S, v V) error {
			sel(src).Set(v)
			return nil
		},
	}
}

// BindGetter starts a pipeline on a plain getter for sources whose
// property is a computed value rather than an observe.Value field. The
// pipeline has no per-property notification; at activation it falls
// back to the source's ChangeNotifier, or degrades to initial sync
// only. Getter pipelines cannot be two-way.
func BindGetter[S any, V any](get func(S) V) *Pipeline[S, V] {
	if get == nil {
		panic("binding: BindGetter with nil getter")
	}
	return &Pipeline[S, V]{
		read: func(src S) (V, error) {
			return get(src), nil
		},
	}
}

// Via selects the lookup strategy. Without it the pipeline resolves
// against the nearest ancestor satisfying S.
func (p *Pipeline[S, V]) Via(l Lookup[S]) *Pipeline[S, V] {
	p.lookup = l
	return p
}

// Set supplies the target setter, completing the configuration. A
// pipeline that never receives a target is discarded when added to a
// node and never activates.
func (p *Pipeline[S, V]) Set(setter func(V)) *Pipeline[S, V] {
	if setter == nil {
		panic("binding: Set with nil setter")
	}
	p.setter = setter
	p.target = nil
	return p
}

// SetProperty supplies a bindable property as the target, completing
// the configuration. Two-way pipelines must use SetProperty: write-back
// subscribes to the target's own notification, which a plain setter
// cannot provide.
func (p *Pipeline[S, V]) SetProperty(target *observe.Value[V]) *Pipeline[S, V] {
	if target == nil {
		panic("binding: SetProperty with nil target")
	}
	p.target = target
	p.setter = nil
	return p
}

// TwoWay marks the binding bidirectional: mutations of the target
// property write back to the source through the inverse of the
// conversion chain. The pipeline must still be writable, so TwoWay
// panics on getter pipelines and after a one-way Convert.
func (p *Pipeline[S, V]) TwoWay() *Pipeline[S, V] {
	if p.write == nil {
		panic("binding: TwoWay on a pipeline with no writable source")
	}
	p.twoWay = true
	return p
}

// Convert appends a one-way transform, fixing the pipeline's value type
// to W. The source-side stage keeps its subscription wiring; the write
// path is dropped because fn has no inverse, so the result cannot be
// made two-way.
func Convert[S, V, W any](p *Pipeline[S, V], fn func(V) (W, error)) *Pipeline[S, W] {
	if fn == nil {
		panic("binding: Convert with nil converter")
	}
	if p.setter != nil || p.target != nil {
		panic("binding: Convert after the target was set")
	}
	if p.twoWay {
		panic("binding: Convert without an inverse on a two-way pipeline")
	}
	read := p.read
	return &Pipeline[S, W]{
		lookup: p.lookup,
		watch:  p.watch,
		read: func(src S) (W, error) {
			v, err := read(src)
			if err != nil {
				var zero W
				return zero, err
			}
			return fwdErr(fn(v))
		},
	}
}

// ConvertTwoWay appends a paired transform: fwd on the read path, inv
// on the write-back path. The result stays writable and may be marked
// TwoWay before or after this call.
func ConvertTwoWay[S, V, W any](p *Pipeline[S, V], fwd func(V) (W, error), inv func(W) (V, error)) *Pipeline[S, W] {
	if fwd == nil || inv == nil {
		panic("binding: ConvertTwoWay with nil converter")
	}
	if p.setter != nil || p.target != nil {
		panic("binding: ConvertTwoWay after the target was set")
	}
	read := p.read
	next := &Pipeline[S, W]{
		lookup: p.lookup,
		watch:  p.watch,
		twoWay: p.twoWay,
		read: func(src S) (W, error) {
			v, err := read(src)
			if err != nil {
				var zero W
				return zero, err
			}
			return fwdErr(fwd(v))
		},
	}
	if write := p.write; write != nil {
		next.write = func(src S, w W) error {
			v, err := inv(w)
			if err != nil {
				return err
			}
			return write(src, v)
		}
	}
	return next
}

// Format appends the built-in string-format converter, rendering the
// pipeline's value through the fmt layout. The result is one-way.
func Format[S, V any](p *Pipeline[S, V], layout string) *Pipeline[S, string] {
	return Convert(p, convert.Format[V](layout))
}

func fwdErr[W any](w W, err error) (W, error) { return w, err }

func (p *Pipeline[S, V]) String() string {
	arrow := "->"
	if p.twoWay {
		arrow = "<->"
	}
	return fmt.Sprintf("%s %s target", p.lookup, arrow)
}

// Configured reports whether a target setter was supplied. Nodes probe
// it from AddBinding and silently discard unconfigured pipelines.
func (p *Pipeline[S, V]) Configured() bool {
	return p.setter != nil || p.target != nil
}

// Validate reports configuration contradictions. Nodes probe it from
// AddBinding and panic on a non-nil result, so builder mistakes surface
// where the binding is declared instead of at activation.
func (p *Pipeline[S, V]) Validate() error {
	if !p.twoWay {
		return nil
	}
	if p.target == nil && p.setter != nil {
		return fmt.Errorf("two-way binding needs SetProperty, not Set")
	}
	if p.write == nil {
		return fmt.Errorf("two-way binding needs an invertible conversion chain")
	}
	return nil
}

// Activate implements component.Binding. It resolves the source via the
// lookup, subscribes to its change notification, performs the initial
// synchronization, and on two-way pipelines subscribes to the target.
// An unresolved lookup warns and leaves the binding inert until the
// next activation cycle.
func (p *Pipeline[S, V]) Activate(owner component.Component) {
	if p.state != nil || !p.Configured() {
		return
	}
	p.owner = owner.Name()

	source, ok := p.lookup.Find(owner)
	if !ok {
		p.warnUnresolved(owner)
		return
	}
	st := &resolvedState[S]{source: source}
	p.state = st

	if p.watch != nil {
		st.unwatchSource = p.watch(source, p.update)
	} else if n, ok := any(source).(observe.ChangeNotifier); ok {
		st.unwatchSource = n.OnChange(p.update)
	} else {
		errors.Report(&errors.Error{
			Op:        "binding.Activate",
			Kind:      errors.KindNotify,
			Err:       fmt.Errorf("source %s has no change notification, initial sync only", capabilityName[S]()),
			Component: p.owner,
		})
	}

	p.update()

	if p.twoWay && p.target != nil {
		st.unwatchTarget = p.target.AddListener(func(V, V) { p.writeBack() })
	}
}

// Deactivate implements component.Binding. It removes both
// subscriptions and drops the resolved state. Calling it again, or when
// activation never succeeded, is a no-op.
func (p *Pipeline[S, V]) Deactivate() {
	st := p.state
	if st == nil {
		return
	}
	p.state = nil
	if st.unwatchSource != nil {
		st.unwatchSource()
	}
	if st.unwatchTarget != nil {
		st.unwatchTarget()
	}
}

// update propagates source to target. It runs once at activation and
// then synchronously inside every source mutation. The updating flag
// absorbs re-entrant notifications, which bounds two-way feedback.
func (p *Pipeline[S, V]) update() {
	st := p.state
	if st == nil || st.updating {
		return
	}
	st.updating = true
	defer func() { st.updating = false }()

	v, err := p.read(st.source)
	if err != nil {
		errors.Report(&errors.Error{
			Op:        "binding.update",
			Kind:      errors.KindConvert,
			Err:       err,
			Component: p.owner,
		})
		return
	}
	if p.target != nil {
		p.target.Set(v)
		return
	}
	p.setter(v)
}

// writeBack propagates target to source on two-way pipelines, running
// synchronously inside every target mutation.
func (p *Pipeline[S, V]) writeBack() {
	st := p.state
	if st == nil || st.updating {
		return
	}
	st.updating = true
	defer func() { st.updating = false }()

	if err := p.write(st.source, p.target.Get()); err != nil {
		errors.Report(&errors.Error{
			Op:        "binding.update",
			Kind:      errors.KindConvert,
			Err:       err,
			Component: p.owner,
		})
	}
}

func (p *Pipeline[S, V]) warnUnresolved(owner component.Component) {
	err := fmt.Errorf("lookup %s found no source", p.lookup)
	if want := p.lookup.named; want != "" {
		if hint := suggest.Closest(want, component.Names(component.Root(owner))); hint != "" {
			err = fmt.Errorf("lookup %s found no source, did you mean %q", p.lookup, hint)
		}
	}
	errors.Report(&errors.Error{
		Op:        "binding.Activate",
		Kind:      errors.KindResolve,
		Err:       err,
		Component: p.owner,
	})
}
