package convert

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cast"

	"github.com/jddutz/nexus/internal/suggest"
)

// Builder constructs an erased converter from the argument portion of
// a converter spec ("format:Health: %.0f" builds format with args
// "Health: %.0f").
type Builder func(args string) (Func, error)

// Registry maps converter names to builders for template-driven
// bindings.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Register adds a builder under name, replacing any previous entry.
func (r *Registry) Register(name string, b Builder) {
	if name == "" || b == nil {
		panic("convert: Register with empty name or nil builder")
	}
	r.mu.Lock()
	r.builders[name] = b
	r.mu.Unlock()
}

// Names lists the registered converter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Build resolves a converter spec of the form "name" or "name:args".
// An unknown name errors, with a closest-match hint when one exists.
func (r *Registry) Build(spec string) (Func, error) {
	name, args, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty converter spec")
	}
	r.mu.RLock()
	b, ok := r.builders[name]
	r.mu.RUnlock()
	if !ok {
		if hint := suggest.Closest(name, r.Names()); hint != "" {
			return nil, fmt.Errorf("unknown converter %q (did you mean %q?)", name, hint)
		}
		return nil, fmt.Errorf("unknown converter %q", name)
	}
	return b(args)
}

var defaultRegistry = func() *Registry {
	r := NewRegistry()
	r.Register("format", formatBuilder)
	r.Register("scale", scaleBuilder)
	r.Register("offset", offsetBuilder)
	r.Register("clamp", clampBuilder)
	r.Register("round", noArgBuilder("round", math.Round))
	r.Register("upper", stringBuilder("upper", strings.ToUpper))
	r.Register("lower", stringBuilder("lower", strings.ToLower))
	return r
}()

// DefaultRegistry returns the registry holding the built-in
// converters. Hosts may register additional converters on it before
// loading templates.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func formatBuilder(args string) (Func, error) {
	if args == "" {
		return nil, fmt.Errorf("format converter needs a layout, e.g. format:%%.0f")
	}
	return func(v any) (any, error) {
		return sprintfChecked(args, v)
	}, nil
}

func scaleBuilder(args string) (Func, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(args), 64)
	if err != nil {
		return nil, fmt.Errorf("scale converter needs a numeric factor, got %q", args)
	}
	return numericFunc(func(v float64) float64 { return v * f }), nil
}

func offsetBuilder(args string) (Func, error) {
	d, err := strconv.ParseFloat(strings.TrimSpace(args), 64)
	if err != nil {
		return nil, fmt.Errorf("offset converter needs a numeric delta, got %q", args)
	}
	return numericFunc(func(v float64) float64 { return v + d }), nil
}

func clampBuilder(args string) (Func, error) {
	lo, hi, ok := strings.Cut(args, ",")
	if !ok {
		return nil, fmt.Errorf("clamp converter needs bounds, e.g. clamp:0,100")
	}
	low, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return nil, fmt.Errorf("clamp converter: bad lower bound %q", lo)
	}
	high, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return nil, fmt.Errorf("clamp converter: bad upper bound %q", hi)
	}
	if low > high {
		return nil, fmt.Errorf("clamp converter: bounds inverted (%v > %v)", low, high)
	}
	clamp := Clamp(low, high)
	return numericFunc(func(v float64) float64 {
		out, _ := clamp(v)
		return out
	}), nil
}

func noArgBuilder(name string, fn func(float64) float64) Builder {
	return func(args string) (Func, error) {
		if strings.TrimSpace(args) != "" {
			return nil, fmt.Errorf("%s converter takes no arguments, got %q", name, args)
		}
		return numericFunc(fn), nil
	}
}

func stringBuilder(name string, fn func(string) string) Builder {
	return func(args string) (Func, error) {
		if strings.TrimSpace(args) != "" {
			return nil, fmt.Errorf("%s converter takes no arguments, got %q", name, args)
		}
		return func(v any) (any, error) {
			s, err := cast.ToStringE(v)
			if err != nil {
				return nil, fmt.Errorf("%s converter: %w", name, err)
			}
			return fn(s), nil
		}, nil
	}
}

// numericFunc lifts a float64 transform into the erased form,
// accepting any castable numeric input.
func numericFunc(fn func(float64) float64) Func {
	return func(v any) (any, error) {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("expected a numeric value, got %T", v)
		}
		return fn(f), nil
	}
}
