package binding

import (
	"fmt"

	"github.com/jddutz/nexus/internal/suggest"
	"github.com/jddutz/nexus/pkg/component"
	"github.com/jddutz/nexus/pkg/convert"
	"github.com/jddutz/nexus/pkg/errors"
	"github.com/jddutz/nexus/pkg/observe"
)

// Modes accepted by DynamicConfig. The empty mode means parent.
const (
	ModeParent  = "parent"
	ModeSibling = "sibling"
	ModeChild   = "child"
	ModeContext = "context"
	ModeNamed   = "named"
)

// DynamicConfig declares a binding by property name, the form scene
// templates use. Source and Target name bindable properties; Target is
// looked up on the owning component, Source on the component the mode
// resolves.
type DynamicConfig struct {
	Source    string
	Target    string
	Mode      string
	Name      string
	Converter string
	TwoWay    bool
}

// Dynamic is a binding between two name-resolved properties. Unlike
// Pipeline it carries no compile-time types; values cross it as any and
// are coerced to the target's current type on each update.
//
// Dynamic implements component.Binding.
type Dynamic struct {
	cfg   DynamicConfig
	fn    convert.Func
	owner string
	state *dynamicState
}

type dynamicState struct {
	source        observe.Property
	target        observe.Property
	unwatchSource func()
	unwatchTarget func()
	updating      bool
}

// NewDynamic validates cfg and builds the binding. Configuration
// mistakes, a missing property name, an unknown mode, an unbuildable
// converter spec, surface here as errors rather than at activation.
func NewDynamic(cfg DynamicConfig) (*Dynamic, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("binding: source property is required")
	}
	if cfg.Target == "" {
		return nil, fmt.Errorf("binding: target property is required")
	}
	switch cfg.Mode {
	case "", ModeParent, ModeSibling, ModeChild, ModeContext:
		if cfg.Name != "" {
			return nil, fmt.Errorf("binding: name %q is only valid with mode %q", cfg.Name, ModeNamed)
		}
	case ModeNamed:
		if cfg.Name == "" {
			return nil, fmt.Errorf("binding: mode %q requires a component name", ModeNamed)
		}
	default:
		err := fmt.Errorf("binding: unknown lookup mode %q", cfg.Mode)
		modes := []string{ModeParent, ModeSibling, ModeChild, ModeContext, ModeNamed}
		if hint := suggest.Closest(cfg.Mode, modes); hint != "" {
			err = fmt.Errorf("binding: unknown lookup mode %q, did you mean %q", cfg.Mode, hint)
		}
		return nil, err
	}
	d := &Dynamic{cfg: cfg}
	if cfg.Converter != "" {
		if cfg.TwoWay {
			return nil, fmt.Errorf("binding: two-way binding cannot take a converter, converter specs have no inverse")
		}
		fn, err := convert.DefaultRegistry().Build(cfg.Converter)
		if err != nil {
			return nil, fmt.Errorf("binding: %w", err)
		}
		d.fn = fn
	}
	return d, nil
}

func (d *Dynamic) String() string {
	mode := d.cfg.Mode
	if mode == "" {
		mode = ModeParent
	}
	if mode == ModeNamed {
		mode = fmt.Sprintf("named[%q]", d.cfg.Name)
	}
	arrow := "->"
	if d.cfg.TwoWay {
		arrow = "<->"
	}
	return fmt.Sprintf("%s.%s %s %s", mode, d.cfg.Source, arrow, d.cfg.Target)
}

// Activate implements component.Binding. Both endpoints resolve by
// name; either one missing warns and leaves the binding inert for this
// activation cycle.
func (d *Dynamic) Activate(owner component.Component) {
	if d.state != nil {
		return
	}
	d.owner = owner.Name()

	source, err := d.findSource(owner)
	if err != nil {
		d.warn(errors.KindResolve, "binding.Activate", err)
		return
	}
	target, err := d.findTarget(owner)
	if err != nil {
		d.warn(errors.KindResolve, "binding.Activate", err)
		return
	}
	st := &dynamicState{source: source, target: target}
	d.state = st

	st.unwatchSource = source.Watch(d.update)
	d.update()
	if d.cfg.TwoWay {
		st.unwatchTarget = target.Watch(d.writeBack)
	}
}

// Deactivate implements component.Binding.
func (d *Dynamic) Deactivate() {
	st := d.state
	if st == nil {
		return
	}
	d.state = nil
	if st.unwatchSource != nil {
		st.unwatchSource()
	}
	if st.unwatchTarget != nil {
		st.unwatchTarget()
	}
}

func (d *Dynamic) update() {
	st := d.state
	if st == nil || st.updating {
		return
	}
	st.updating = true
	defer func() { st.updating = false }()

	v := st.source.Get()
	if d.fn != nil {
		out, err := d.fn(v)
		if err != nil {
			d.warn(errors.KindConvert, "binding.update", err)
			return
		}
		v = out
	}
	v, err := convert.Coerce(st.target.Get(), v)
	if err != nil {
		d.warn(errors.KindConvert, "binding.update", err)
		return
	}
	if err := st.target.Set(v); err != nil {
		d.warn(errors.KindConvert, "binding.update", err)
	}
}

func (d *Dynamic) writeBack() {
	st := d.state
	if st == nil || st.updating {
		return
	}
	st.updating = true
	defer func() { st.updating = false }()

	v, err := convert.Coerce(st.source.Get(), st.target.Get())
	if err != nil {
		d.warn(errors.KindConvert, "binding.update", err)
		return
	}
	if err := st.source.Set(v); err != nil {
		d.warn(errors.KindConvert, "binding.update", err)
	}
}

// findSource resolves the source property per the configured mode. The
// error carries a suggestion when a near-miss exists.
func (d *Dynamic) findSource(owner component.Component) (observe.Property, error) {
	var seen []string

	probe := func(c component.Component) (observe.Property, bool) {
		src, ok := c.(observe.PropertySource)
		if !ok {
			return nil, false
		}
		if p, ok := src.BindableProperty(d.cfg.Source); ok {
			return p, true
		}
		if n, ok := c.(interface{ PropertyNames() []string }); ok {
			seen = append(seen, n.PropertyNames()...)
		}
		return nil, false
	}

	switch d.cfg.Mode {
	case "", ModeParent, ModeContext:
		for c := owner.Parent(); c != nil; c = c.Parent() {
			if p, ok := probe(c); ok {
				return p, nil
			}
		}
		return nil, fmt.Errorf("no ancestor exposes property %q%s", d.cfg.Source, propertyHint(d.cfg.Source, seen))
	case ModeSibling:
		if parent := owner.Parent(); parent != nil {
			for _, c := range parent.Children() {
				if c == owner {
					continue
				}
				if p, ok := probe(c); ok {
					return p, nil
				}
			}
		}
		return nil, fmt.Errorf("no sibling exposes property %q%s", d.cfg.Source, propertyHint(d.cfg.Source, seen))
	case ModeChild:
		for _, c := range owner.Children() {
			if p, ok := probe(c); ok {
				return p, nil
			}
		}
		return nil, fmt.Errorf("no child exposes property %q%s", d.cfg.Source, propertyHint(d.cfg.Source, seen))
	case ModeNamed:
		root := component.Root(owner)
		var prop observe.Property
		found := false
		component.Walk(root, func(c component.Component) bool {
			if c.Name() != d.cfg.Name {
				return true
			}
			found = true
			if p, ok := probe(c); ok {
				prop = p
				return false
			}
			return true
		})
		if prop != nil {
			return prop, nil
		}
		if !found {
			err := fmt.Errorf("no component named %q", d.cfg.Name)
			if hint := suggest.Closest(d.cfg.Name, component.Names(root)); hint != "" {
				err = fmt.Errorf("no component named %q, did you mean %q", d.cfg.Name, hint)
			}
			return nil, err
		}
		return nil, fmt.Errorf("component %q does not expose property %q%s", d.cfg.Name, d.cfg.Source, propertyHint(d.cfg.Source, seen))
	}
	return nil, fmt.Errorf("unknown lookup mode %q", d.cfg.Mode)
}

func (d *Dynamic) findTarget(owner component.Component) (observe.Property, error) {
	src, ok := owner.(observe.PropertySource)
	if !ok {
		return nil, fmt.Errorf("component exposes no bindable properties")
	}
	p, ok := src.BindableProperty(d.cfg.Target)
	if !ok {
		var seen []string
		if n, ok := owner.(interface{ PropertyNames() []string }); ok {
			seen = n.PropertyNames()
		}
		return nil, fmt.Errorf("component does not expose property %q%s", d.cfg.Target, propertyHint(d.cfg.Target, seen))
	}
	return p, nil
}

func (d *Dynamic) warn(kind errors.Kind, op string, err error) {
	errors.Report(&errors.Error{
		Op:        op,
		Kind:      kind,
		Err:       err,
		Component: d.owner,
	})
}

func propertyHint(want string, seen []string) string {
	if hint := suggest.Closest(want, seen); hint != "" {
		return fmt.Sprintf(", did you mean %q", hint)
	}
	return ""
}
