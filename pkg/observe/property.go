package observe

import (
	"fmt"
	"sort"
)

// Property is the type-erased view of a bindable property, used by
// string-keyed bindings (template scenes) where the concrete property
// type is not known at compile time.
type Property interface {
	// Get returns the current value.
	Get() any
	// Set assigns v, or returns an error when v is not assignable to
	// the property's type.
	Set(v any) error
	// Watch registers fn to run after every mutation and returns a
	// closure that removes the registration.
	Watch(fn func()) func()
}

// PropertySource is implemented by components that advertise bindable
// properties by name. Property names form the vocabulary of template
// bindings.
type PropertySource interface {
	// BindableProperty returns the named property, or false when the
	// component exposes nothing under that name.
	BindableProperty(name string) (Property, bool)
}

// AnyValue adapts a typed Value to the erased Property surface.
func AnyValue[T any](v *Value[T]) Property {
	if v == nil {
		panic("observe: AnyValue with nil value")
	}
	return anyValue[T]{v}
}

type anyValue[T any] struct {
	v *Value[T]
}

func (a anyValue[T]) Get() any {
	return a.v.Get()
}

func (a anyValue[T]) Set(val any) error {
	t, ok := val.(T)
	if !ok {
		var want T
		return fmt.Errorf("cannot assign %T to property of type %T", val, want)
	}
	a.v.Set(t)
	return nil
}

func (a anyValue[T]) Watch(fn func()) func() {
	return a.v.AddListener(func(T, T) { fn() })
}

// Properties is an embeddable name-to-property table satisfying
// PropertySource. Components expose fields in their constructor:
//
//	l := &Label{}
//	l.Init(l, name)
//	l.Expose("text", observe.AnyValue(&l.Text))
type Properties struct {
	props map[string]Property
}

// Expose registers prop under name, replacing any previous entry.
func (p *Properties) Expose(name string, prop Property) {
	if prop == nil {
		panic("observe: Expose with nil property")
	}
	if p.props == nil {
		p.props = make(map[string]Property)
	}
	p.props[name] = prop
}

// BindableProperty implements PropertySource.
func (p *Properties) BindableProperty(name string) (Property, bool) {
	prop, ok := p.props[name]
	return prop, ok
}

// PropertyNames lists the advertised names in sorted order.
func (p *Properties) PropertyNames() []string {
	names := make([]string, 0, len(p.props))
	for name := range p.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
