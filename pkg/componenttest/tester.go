package componenttest

import (
	"testing"

	"github.com/jddutz/nexus/internal/suggest"
	"github.com/jddutz/nexus/pkg/component"
	"github.com/jddutz/nexus/pkg/runtime"
)

// TreeTester drives a component tree through its lifecycle without an
// engine. It installs a manual clock for the runtime package and
// restores the previous one when the test finishes.
type TreeTester struct {
	t         *testing.T
	root      component.Component
	clock     *ManualClock
	prevClock runtime.Clock
}

// NewTester creates a tester bound to t. Cleanup is registered
// automatically: the mounted tree is deactivated and the runtime clock
// restored when the test ends.
func NewTester(t *testing.T) *TreeTester {
	t.Helper()
	clk := NewManualClock()
	tester := &TreeTester{
		t:         t,
		clock:     clk,
		prevClock: runtime.SetClock(clk),
	}
	t.Cleanup(tester.cleanup)
	return tester
}

func (tt *TreeTester) cleanup() {
	if tt.root != nil && tt.root.State() == component.StateActive {
		tt.root.Deactivate()
	}
	tt.root = nil
	runtime.SetClock(tt.prevClock)
}

// Clock returns the manual clock for advancing time in tests.
func (tt *TreeTester) Clock() *ManualClock {
	return tt.clock
}

// Root returns the mounted tree, or nil before Mount.
func (tt *TreeTester) Root() component.Component {
	return tt.root
}

// Mount loads and activates root, deactivating any previously mounted
// tree first.
func (tt *TreeTester) Mount(root component.Component) {
	tt.t.Helper()
	if root == nil {
		tt.t.Fatalf("Mount with nil root")
	}
	if tt.root != nil && tt.root.State() == component.StateActive {
		tt.root.Deactivate()
	}
	tt.root = root
	root.Load()
	root.Activate()
}

// Deactivate tears the mounted tree down, severing its bindings.
func (tt *TreeTester) Deactivate() {
	tt.t.Helper()
	if tt.root == nil {
		tt.t.Fatalf("Deactivate before Mount")
	}
	tt.root.Deactivate()
}

// Reactivate brings a deactivated tree back, re-resolving its
// bindings.
func (tt *TreeTester) Reactivate() {
	tt.t.Helper()
	if tt.root == nil {
		tt.t.Fatalf("Reactivate before Mount")
	}
	tt.root.Activate()
}

// Pump advances the mounted tree by dt seconds, like one engine tick.
func (tt *TreeTester) Pump(dt float64) {
	tt.t.Helper()
	if tt.root == nil {
		tt.t.Fatalf("Pump before Mount")
	}
	tt.root.Update(dt)
}

// FindByName returns the first component in the mounted tree with the
// given name, in pre-order. The test fails when nothing matches.
func (tt *TreeTester) FindByName(name string) component.Component {
	tt.t.Helper()
	if tt.root == nil {
		tt.t.Fatalf("FindByName before Mount")
	}
	var found component.Component
	component.Walk(tt.root, func(c component.Component) bool {
		if c.Name() == name {
			found = c
			return false
		}
		return true
	})
	if found == nil {
		if hint := suggest.Closest(name, component.Names(tt.root)); hint != "" {
			tt.t.Fatalf("no component named %q (did you mean %q?)", name, hint)
		}
		tt.t.Fatalf("no component named %q", name)
	}
	return found
}
