// Package errors provides structured error handling for the Nexus
// engine. Errors carry an operation, a category, and the name of the
// component they concern, and are routed through a replaceable global
// handler so hosts can decide how engine failures surface.
package errors

import (
	"fmt"
	"time"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindConfig indicates an invalid binding or engine configuration.
	KindConfig
	// KindResolve indicates a binding source that could not be located
	// in the component tree. Expected and non-fatal.
	KindResolve
	// KindNotify indicates a binding source without usable change
	// notification; the binding degrades to initial sync only.
	KindNotify
	// KindConvert indicates a value conversion failure during a
	// binding update.
	KindConvert
	// KindTemplate indicates a scene template that failed to parse,
	// validate, or instantiate.
	KindTemplate
	// KindLifecycle indicates a component lifecycle violation.
	KindLifecycle
	// KindInspect indicates an inspector server error.
	KindInspect
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindResolve:
		return "resolve"
	case KindNotify:
		return "notify"
	case KindConvert:
		return "convert"
	case KindTemplate:
		return "template"
	case KindLifecycle:
		return "lifecycle"
	case KindInspect:
		return "inspect"
	default:
		return "unknown"
	}
}

// Expected reports whether the kind describes an anticipated runtime
// condition rather than a fault. Expected kinds log at warning level.
func (k Kind) Expected() bool {
	return k == KindResolve || k == KindNotify
}

// Error represents a structured error in the engine.
type Error struct {
	// Op is the operation that failed (e.g., "binding.Activate").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying error.
	Err error
	// Component is the name of the component the error concerns,
	// if applicable.
	Component string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s [%s] component=%s: %v", e.Op, e.Kind, e.Component, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "runtime.Engine.tick").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Handler receives errors reported by the engine.
type Handler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
