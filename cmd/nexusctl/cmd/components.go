package cmd

import (
	"github.com/jddutz/nexus/pkg/component"
	"github.com/jddutz/nexus/pkg/logging"
	"github.com/jddutz/nexus/pkg/observe"
	"github.com/jddutz/nexus/pkg/template"
)

// stockRegistry returns the built-in component set templates can use
// without a host application: a container, a text label, a numeric
// gauge, and a ticker that feeds elapsed time into bindings.
func stockRegistry() *template.Registry {
	reg := template.NewRegistry()
	reg.Register("nexus.Group", newGroup)
	reg.Register("nexus.Label", newStockLabel)
	reg.Register("nexus.Gauge", newGauge)
	reg.Register("nexus.Ticker", newTicker)
	return reg
}

// group is a plain container.
type group struct {
	component.Node
}

func newGroup(name string) component.Component {
	g := &group{}
	g.Init(g, name)
	return g
}

// stockLabel holds a text property and logs every change, which makes
// scenes observable from the terminal during nexusctl run.
type stockLabel struct {
	component.Node
	observe.Properties
	Text observe.Value[string]

	unwatch func()
}

func newStockLabel(name string) component.Component {
	l := &stockLabel{}
	l.Init(l, name)
	l.Expose("text", observe.AnyValue(&l.Text))
	return l
}

func (l *stockLabel) OnActivate() {
	log := logging.Component(l.Name())
	l.unwatch = l.Text.AddListener(func(_, next string) {
		log.Info().Str("text", next).Msg("label updated")
	})
}

func (l *stockLabel) OnDeactivate() {
	if l.unwatch != nil {
		l.unwatch()
		l.unwatch = nil
	}
}

// gauge holds a bounded numeric value.
type gauge struct {
	component.Node
	observe.Properties
	Value observe.Value[float64]
	Max   observe.Value[float64]
}

func newGauge(name string) component.Component {
	g := &gauge{}
	g.Init(g, name)
	g.Max.Set(100)
	g.Expose("value", observe.AnyValue(&g.Value))
	g.Expose("max", observe.AnyValue(&g.Max))
	return g
}

// ticker accumulates elapsed scene time. Binding against its elapsed
// property animates anything downstream of it.
type ticker struct {
	component.Node
	observe.Properties
	Elapsed observe.Value[float64]
}

func newTicker(name string) component.Component {
	t := &ticker{}
	t.Init(t, name)
	t.Expose("elapsed", observe.AnyValue(&t.Elapsed))
	return t
}

func (t *ticker) OnUpdate(dt float64) {
	t.Elapsed.Set(t.Elapsed.Get() + dt)
}
