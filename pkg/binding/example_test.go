package binding_test

import (
	"fmt"

	"github.com/jddutz/nexus/pkg/binding"
	"github.com/jddutz/nexus/pkg/component"
	"github.com/jddutz/nexus/pkg/observe"
)

// hero is a binding source exposing a typed property.
type hero struct {
	component.Node
	Health observe.Value[float64]
}

// statusLabel is a binding target.
type statusLabel struct {
	component.Node
	Text observe.Value[string]
}

// This example shows the common case: a child binds to a property on
// its nearest matching ancestor and formats it for display.
func ExampleBind() {
	h := &hero{Health: observe.Of(100.0)}
	h.Init(h, "hero")
	lbl := &statusLabel{}
	lbl.Init(lbl, "health-label")
	h.AddChild(lbl)

	// Declare the binding before the tree loads. The selector compiles
	// into direct property access; no lookup happens per update.
	p := binding.Bind(func(h *hero) *observe.Value[float64] { return &h.Health })
	lbl.AddBinding(binding.Format(p, "Health: %.0f").
		Set(func(s string) { lbl.Text.Set(s) }))

	h.Load()
	h.Activate()
	fmt.Println(lbl.Text.Get())

	// A source mutation propagates within the same call.
	h.Health.Set(50)
	fmt.Println(lbl.Text.Get())

	// Output:
	// Health: 100
	// Health: 50
}

type thermostat struct {
	component.Node
	Celsius observe.Value[float64]
}

type thermostatDial struct {
	component.Node
	Fahrenheit observe.Value[float64]
}

// This example shows a two-way binding with a paired converter. The
// dial displays Fahrenheit; turning it writes Celsius back through the
// inverse conversion.
func ExampleConvertTwoWay() {
	th := &thermostat{Celsius: observe.Of(20.0)}
	th.Init(th, "thermostat")
	d := &thermostatDial{}
	d.Init(d, "dial")
	th.AddChild(d)

	p := binding.ConvertTwoWay(
		binding.Bind(func(t *thermostat) *observe.Value[float64] { return &t.Celsius }),
		func(c float64) (float64, error) { return c*9/5 + 32, nil },
		func(f float64) (float64, error) { return (f - 32) * 5 / 9, nil },
	)
	d.AddBinding(p.TwoWay().SetProperty(&d.Fahrenheit))

	th.Load()
	th.Activate()
	fmt.Printf("%.0fF\n", d.Fahrenheit.Get())

	d.Fahrenheit.Set(86)
	fmt.Printf("%.0fC\n", th.Celsius.Get())

	// Output:
	// 68F
	// 30C
}

type scoreFeed struct {
	component.Node
	observe.Properties
	Score observe.Value[int]
}

type scoreLabel struct {
	component.Node
	observe.Properties
	Text observe.Value[string]
}

// This example shows a dynamic binding, the form scene templates use.
// Both endpoints are property names resolved through the components'
// exposed property tables.
func ExampleNewDynamic() {
	feed := &scoreFeed{Score: observe.Of(1200)}
	feed.Init(feed, "feed")
	feed.Expose("score", observe.AnyValue(&feed.Score))

	lbl := &scoreLabel{}
	lbl.Init(lbl, "score-label")
	lbl.Expose("text", observe.AnyValue(&lbl.Text))
	feed.AddChild(lbl)

	b, err := binding.NewDynamic(binding.DynamicConfig{
		Source:    "score",
		Target:    "text",
		Converter: "format:Score: %d",
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	lbl.AddBinding(b)

	feed.Load()
	feed.Activate()
	fmt.Println(lbl.Text.Get())

	feed.Score.Set(1350)
	fmt.Println(lbl.Text.Get())

	// Output:
	// Score: 1200
	// Score: 1350
}
