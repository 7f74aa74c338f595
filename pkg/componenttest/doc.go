// Package componenttest provides a harness for testing component
// trees without an engine.
//
// # Quick Start
//
// Create a tester, mount a tree, and make assertions:
//
//	func TestHealthLabel(t *testing.T) {
//	    tester := componenttest.NewTester(t)
//	    tester.Mount(buildHUD())
//
//	    label := tester.FindByName("HealthLabel").(*Label)
//	    if label.Text.Get() != "Health: 100" {
//	        t.Errorf("unexpected text %q", label.Text.Get())
//	    }
//
//	    tester.Clock().Advance(time.Second)
//	    tester.Pump(1.0)
//	}
//
// The tester swaps in a manual clock for the runtime package and
// restores it, along with the mounted tree's lifecycle, when the test
// ends.
//
// # Capturing engine errors
//
// CaptureErrors replaces the global error handler for one test:
//
//	rec := componenttest.CaptureErrors(t)
//	tester.Mount(treeWithBrokenBinding())
//	if len(rec.Errors()) == 0 {
//	    t.Fatal("expected a resolution warning")
//	}
package componenttest
