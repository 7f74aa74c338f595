package componenttest

import (
	"sync"
	"testing"

	"github.com/jddutz/nexus/pkg/errors"
)

// ErrorRecorder collects errors routed through the global handler.
type ErrorRecorder struct {
	mu     sync.Mutex
	errs   []*errors.Error
	panics []*errors.PanicError
}

// CaptureErrors installs a recorder as the global error handler for
// the duration of t, restoring the default handler afterwards.
func CaptureErrors(t *testing.T) *ErrorRecorder {
	t.Helper()
	r := &ErrorRecorder{}
	errors.SetHandler(r)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return r
}

// HandleError implements errors.Handler.
func (r *ErrorRecorder) HandleError(e *errors.Error) {
	r.mu.Lock()
	r.errs = append(r.errs, e)
	r.mu.Unlock()
}

// HandlePanic implements errors.Handler.
func (r *ErrorRecorder) HandlePanic(p *errors.PanicError) {
	r.mu.Lock()
	r.panics = append(r.panics, p)
	r.mu.Unlock()
}

// Errors returns the recorded errors in arrival order.
func (r *ErrorRecorder) Errors() []*errors.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.Error(nil), r.errs...)
}

// Panics returns the recorded panics in arrival order.
func (r *ErrorRecorder) Panics() []*errors.PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.PanicError(nil), r.panics...)
}

// ErrorsOfKind filters the recorded errors by kind.
func (r *ErrorRecorder) ErrorsOfKind(kind errors.Kind) []*errors.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*errors.Error
	for _, e := range r.errs {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears everything recorded so far.
func (r *ErrorRecorder) Reset() {
	r.mu.Lock()
	r.errs = nil
	r.panics = nil
	r.mu.Unlock()
}
