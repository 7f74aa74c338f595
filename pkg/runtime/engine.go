// Package runtime drives a component tree: it loads and activates the
// tree on start, advances it at a fixed update rate, and tears it down
// on stop. The loop is single-threaded; all component and binding work
// happens on the goroutine calling Run or Tick.
package runtime

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jddutz/nexus/pkg/component"
	"github.com/jddutz/nexus/pkg/config"
	"github.com/jddutz/nexus/pkg/errors"
	"github.com/jddutz/nexus/pkg/inspect"
	"github.com/jddutz/nexus/pkg/logging"
)

// Engine owns the update loop for one component tree.
type Engine struct {
	root component.Component
	cfg  config.Config
	log  zerolog.Logger

	mu          sync.Mutex
	running     bool
	started     time.Time
	inspectPort int

	frames atomic.Uint64
	lastDt atomic.Uint64
}

// NewEngine returns an engine for root. A zero update rate falls back
// to the built-in default.
func NewEngine(root component.Component, cfg config.Config) *Engine {
	if root == nil {
		panic("runtime: NewEngine with nil root")
	}
	if cfg.Runtime.UpdateRate <= 0 {
		cfg.Runtime.UpdateRate = config.Default().Runtime.UpdateRate
	}
	return &Engine{
		root: root,
		cfg:  cfg,
		log:  logging.Component("runtime"),
	}
}

// Start loads and activates the tree and, when configured, starts the
// inspector. Starting a started engine is an error. An inspector that
// fails to bind is reported and skipped; the engine still starts.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return fmt.Errorf("runtime: engine already started")
	}
	e.root.Load()
	e.root.Activate()
	e.running = true
	e.started = Now()
	e.mu.Unlock()

	if e.cfg.Inspector.Enabled {
		port, err := inspect.Start(e.cfg.Inspector.Port, engineSource{e})
		if err != nil {
			errors.Report(&errors.Error{
				Op:   "runtime.Engine.Start",
				Kind: errors.KindInspect,
				Err:  err,
			})
		} else {
			e.mu.Lock()
			e.inspectPort = port
			e.mu.Unlock()
			e.log.Info().Int("port", port).Msg("inspector listening")
		}
	}

	e.log.Info().
		Str("root", e.root.Name()).
		Int("update_rate", e.cfg.Runtime.UpdateRate).
		Msg("engine started")
	return nil
}

// Stop shuts the inspector down and deactivates the tree. Stopping a
// stopped engine is a no-op. The tree stays loaded, so a later Start
// reactivates it.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	hadInspector := e.inspectPort != 0
	e.inspectPort = 0
	started := e.started
	e.mu.Unlock()

	if hadInspector {
		inspect.Stop()
	}
	e.root.Deactivate()
	e.log.Info().Dur("uptime", Now().Sub(started)).Msg("engine stopped")
}

// Run starts the engine and blocks advancing the tree until ctx is
// cancelled, then stops it. The loop ticks at the configured update
// rate with deltas measured off the runtime clock.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Start(); err != nil {
		return err
	}
	defer e.Stop()

	interval := time.Second / time.Duration(e.cfg.Runtime.UpdateRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := Now()
			e.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Tick advances the tree by dt seconds. Hosts driving their own loop
// call it directly instead of Run. A panic from component update code
// is recovered and reported; the tree is skipped for that tick only.
func (e *Engine) Tick(dt float64) {
	defer errors.Recover("runtime.Engine.tick")
	e.root.Update(dt)
	e.frames.Add(1)
	e.lastDt.Store(math.Float64bits(dt))
}

// Running reports whether Start has been called without a matching
// Stop.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// InspectorPort returns the bound inspector port, or 0 when the
// inspector is disabled or failed to start.
func (e *Engine) InspectorPort() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inspectPort
}

// Root returns the tree the engine drives.
func (e *Engine) Root() component.Component { return e.root }

// Stats is a snapshot of loop counters.
type Stats struct {
	Frames    uint64
	LastDelta float64
	StartedAt time.Time
	Uptime    time.Duration
}

// Stats returns the current loop counters. Safe to call from any
// goroutine.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	started := e.started
	running := e.running
	e.mu.Unlock()

	s := Stats{
		Frames:    e.frames.Load(),
		LastDelta: math.Float64frombits(e.lastDt.Load()),
		StartedAt: started,
	}
	if running {
		s.Uptime = Now().Sub(started)
	}
	return s
}

// engineSource adapts Engine to the inspector's data interface.
type engineSource struct {
	e *Engine
}

func (s engineSource) Tree() component.Component { return s.e.root }

func (s engineSource) Stats() map[string]any {
	st := s.e.Stats()
	return map[string]any{
		"frames":      st.Frames,
		"last_delta":  st.LastDelta,
		"started_at":  st.StartedAt,
		"uptime":      st.Uptime.String(),
		"update_rate": s.e.cfg.Runtime.UpdateRate,
	}
}
