// Package convert provides the pure value transforms applied between
// reading a binding's source and writing its target. Converters are
// stateless and side-effect free; a failed conversion is reported by
// the binding and the update is skipped, never propagated to the
// caller that mutated the source.
package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Func is the type-erased converter form used by the registry and by
// string-keyed (template-driven) bindings.
type Func func(any) (any, error)

// Format renders a value with a fmt layout, for example
// "Health: %.0f". A layout whose verb does not match the value is a
// conversion error rather than a silently mangled string.
func Format[V any](layout string) func(V) (string, error) {
	return func(v V) (string, error) {
		return sprintfChecked(layout, v)
	}
}

// sprintfChecked formats v and rejects outputs carrying fmt's %! error
// markers, which is how a bad verb or extra operand surfaces.
func sprintfChecked(layout string, v any) (string, error) {
	s := fmt.Sprintf(layout, v)
	if strings.Contains(s, "%!") {
		return "", fmt.Errorf("format %q cannot render %T value", layout, v)
	}
	return s, nil
}

// Scale multiplies by factor. Scale(f) and Scale(1/f) form a
// forward/inverse pair for two-way bindings.
func Scale(factor float64) func(float64) (float64, error) {
	return func(v float64) (float64, error) {
		return v * factor, nil
	}
}

// Offset adds delta. Offset(d) and Offset(-d) form a forward/inverse
// pair.
func Offset(delta float64) func(float64) (float64, error) {
	return func(v float64) (float64, error) {
		return v + delta, nil
	}
}

// Clamp limits a value to [lo, hi].
func Clamp(lo, hi float64) func(float64) (float64, error) {
	if lo > hi {
		panic(fmt.Sprintf("convert: Clamp bounds inverted (%v > %v)", lo, hi))
	}
	return func(v float64) (float64, error) {
		return math.Min(hi, math.Max(lo, v)), nil
	}
}

// Round rounds to the nearest integer value.
func Round() func(float64) (float64, error) {
	return func(v float64) (float64, error) {
		return math.Round(v), nil
	}
}

// Upper uppercases a string.
func Upper() func(string) (string, error) {
	return func(s string) (string, error) {
		return strings.ToUpper(s), nil
	}
}

// Lower lowercases a string.
func Lower() func(string) (string, error) {
	return func(s string) (string, error) {
		return strings.ToLower(s), nil
	}
}

// ParseFloat parses a string as float64. Pairs with Format for
// string-backed numeric bindings.
func ParseFloat() func(string) (float64, error) {
	return func(s string) (float64, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as number", s)
		}
		return f, nil
	}
}
