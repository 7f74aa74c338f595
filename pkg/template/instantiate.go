package template

import (
	"fmt"
	"sort"

	"github.com/jddutz/nexus/internal/suggest"
	"github.com/jddutz/nexus/pkg/binding"
	"github.com/jddutz/nexus/pkg/component"
	"github.com/jddutz/nexus/pkg/convert"
	"github.com/jddutz/nexus/pkg/observe"
)

// Instantiate builds the template's component tree using factories
// from reg. Initial property values are applied and bindings attached
// before the tree is loaded, so the returned root is ready for
// Load/Activate or an engine.
//
// A template must declare exactly one root component; a forest has no
// single node to hand to the runtime.
func Instantiate(t *Template, reg *Registry) (component.Component, error) {
	if t == nil {
		return nil, templateErr("template.Instantiate", fmt.Errorf("nil template"))
	}
	if reg == nil {
		return nil, templateErr("template.Instantiate", fmt.Errorf("nil registry"))
	}
	if len(t.Components) != 1 {
		return nil, templateErr("template.Instantiate",
			fmt.Errorf("template must declare exactly one root component, got %d", len(t.Components)))
	}
	return build(&t.Components[0], reg)
}

func build(spec *ComponentSpec, reg *Registry) (component.Component, error) {
	// Anonymous components take their type as name so diagnostics and
	// named lookups have something to address.
	name := spec.Name
	if name == "" {
		name = spec.Type
	}
	c, err := reg.New(spec.Type, name)
	if err != nil {
		return nil, templateErr("template.Instantiate", err)
	}
	if err := applyProperties(c, spec); err != nil {
		return nil, err
	}
	if err := attachBindings(c, spec); err != nil {
		return nil, err
	}
	for i := range spec.Children {
		child, err := build(&spec.Children[i], reg)
		if err != nil {
			return nil, err
		}
		adder, ok := c.(interface{ AddChild(component.Component) })
		if !ok {
			return nil, templateErr("template.Instantiate",
				fmt.Errorf("component type %q cannot hold children", spec.Type))
		}
		adder.AddChild(child)
	}
	return c, nil
}

// applyProperties assigns the spec's initial values through the
// component's erased property surface. Values are coerced to each
// property's current type, so YAML's untyped scalars land correctly
// in int or float properties. Keys apply in sorted order to keep
// failures deterministic.
func applyProperties(c component.Component, spec *ComponentSpec) error {
	if len(spec.Properties) == 0 {
		return nil
	}
	src, ok := c.(observe.PropertySource)
	if !ok {
		return templateErr("template.Instantiate",
			fmt.Errorf("component %q exposes no bindable properties", displayName(spec)))
	}

	names := make([]string, 0, len(spec.Properties))
	for name := range spec.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop, ok := src.BindableProperty(name)
		if !ok {
			return templateErr("template.Instantiate",
				fmt.Errorf("component %q has no property %q%s",
					displayName(spec), name, specPropertyHint(c, name)))
		}
		v, err := convert.Coerce(prop.Get(), spec.Properties[name])
		if err != nil {
			return templateErr("template.Instantiate",
				fmt.Errorf("property %q of %q: %w", name, displayName(spec), err))
		}
		if err := prop.Set(v); err != nil {
			return templateErr("template.Instantiate",
				fmt.Errorf("property %q of %q: %w", name, displayName(spec), err))
		}
	}
	return nil
}

// attachBindings converts the spec's binding declarations to Dynamic
// bindings on the component. They are attached before Load, inside
// the one-shot configuration window, so activation wires them with
// any bindings the component declares itself.
func attachBindings(c component.Component, spec *ComponentSpec) error {
	if len(spec.Bindings) == 0 {
		return nil
	}
	adder, ok := c.(interface{ AddBinding(component.Binding) })
	if !ok {
		return templateErr("template.Instantiate",
			fmt.Errorf("component type %q cannot hold bindings", spec.Type))
	}
	for _, b := range spec.Bindings {
		d, err := binding.NewDynamic(binding.DynamicConfig{
			Source:    b.Source,
			Target:    b.Target,
			Mode:      b.Lookup,
			Name:      b.Name,
			Converter: b.Converter,
			TwoWay:    b.TwoWay,
		})
		if err != nil {
			return templateErr("template.Instantiate",
				fmt.Errorf("binding on %q: %w", displayName(spec), err))
		}
		adder.AddBinding(d)
	}
	return nil
}

func specPropertyHint(c component.Component, want string) string {
	lister, ok := c.(interface{ PropertyNames() []string })
	if !ok {
		return ""
	}
	if hint := suggest.Closest(want, lister.PropertyNames()); hint != "" {
		return fmt.Sprintf(", did you mean %q", hint)
	}
	return ""
}
