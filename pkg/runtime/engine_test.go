package runtime

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jddutz/nexus/pkg/binding"
	"github.com/jddutz/nexus/pkg/component"
	"github.com/jddutz/nexus/pkg/config"
	"github.com/jddutz/nexus/pkg/errors"
	"github.com/jddutz/nexus/pkg/observe"
)

// world is a root node that counts update ticks.
type world struct {
	component.Node
	Score observe.Value[int]

	updates int
	lastDt  float64
}

func newWorld() *world {
	w := &world{}
	w.Init(w, "world")
	return w
}

func (w *world) OnUpdate(dt float64) {
	w.updates++
	w.lastDt = dt
}

// scoreboard binds against the world's score.
type scoreboard struct {
	component.Node
	Text string
}

func newScoreboard() *scoreboard {
	s := &scoreboard{}
	s.Init(s, "scoreboard")
	s.AddBinding(binding.Format(
		binding.Bind(func(w *world) *observe.Value[int] { return &w.Score }), "Score: %d").
		Set(func(v string) { s.Text = v }))
	return s
}

// exploder panics on its first update only.
type exploder struct {
	component.Node
	armed bool
}

func newExploder() *exploder {
	e := &exploder{armed: true}
	e.Init(e, "exploder")
	return e
}

func (e *exploder) OnUpdate(dt float64) {
	if e.armed {
		e.armed = false
		panic("boom")
	}
}

// manualClock is a settable test clock.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// recorder captures reported errors for assertions.
type recorder struct {
	errs   []*errors.Error
	panics []*errors.PanicError
}

func (r *recorder) HandleError(e *errors.Error)      { r.errs = append(r.errs, e) }
func (r *recorder) HandlePanic(p *errors.PanicError) { r.panics = append(r.panics, p) }

func record(t *testing.T) *recorder {
	t.Helper()
	r := &recorder{}
	errors.SetHandler(r)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return r
}

func TestNewEngineNilRootPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil root")
		}
	}()
	NewEngine(nil, config.Default())
}

func TestNewEngineZeroRateUsesDefault(t *testing.T) {
	e := NewEngine(newWorld(), config.Config{})
	if got, want := e.cfg.Runtime.UpdateRate, config.Default().Runtime.UpdateRate; got != want {
		t.Errorf("update rate = %d, want default %d", got, want)
	}
}

func TestEngineStartActivatesTree(t *testing.T) {
	w := newWorld()
	w.Score.Set(7)
	w.AddChild(newScoreboard())

	e := NewEngine(w, config.Default())
	if e.Running() {
		t.Fatal("engine running before Start")
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop()

	if !e.Running() {
		t.Error("engine not running after Start")
	}
	if got := w.State(); got != component.StateActive {
		t.Errorf("root state = %v, want active", got)
	}

	// Bindings activated during Start performed their initial sync.
	sb := w.Children()[0].(*scoreboard)
	if sb.Text != "Score: 7" {
		t.Errorf("scoreboard = %q, want initial sync", sb.Text)
	}
}

func TestEngineStartTwiceFails(t *testing.T) {
	e := NewEngine(newWorld(), config.Default())
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop()

	if err := e.Start(); err == nil {
		t.Error("expected error from second Start")
	}
}

func TestEngineStopDeactivatesTree(t *testing.T) {
	w := newWorld()
	e := NewEngine(w, config.Default())
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	e.Stop()
	if e.Running() {
		t.Error("engine still running after Stop")
	}
	if got := w.State(); got != component.StateInactive {
		t.Errorf("root state = %v, want inactive", got)
	}

	// Stopping again is a no-op.
	e.Stop()
}

func TestEngineRestartRewiresBindings(t *testing.T) {
	w := newWorld()
	w.Score.Set(1)
	sb := newScoreboard()
	w.AddChild(sb)

	e := NewEngine(w, config.Default())
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	e.Stop()

	// Changes while stopped must not reach the severed binding.
	w.Score.Set(2)
	if sb.Text != "Score: 1" {
		t.Errorf("scoreboard = %q after stop, want stale value", sb.Text)
	}

	if err := e.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer e.Stop()

	if sb.Text != "Score: 2" {
		t.Errorf("scoreboard = %q after restart, want fresh sync", sb.Text)
	}
	w.Score.Set(3)
	if sb.Text != "Score: 3" {
		t.Errorf("scoreboard = %q, want live updates after restart", sb.Text)
	}
}

func TestEngineTick(t *testing.T) {
	w := newWorld()
	e := NewEngine(w, config.Default())
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop()

	e.Tick(0.25)
	e.Tick(0.5)

	if w.updates != 2 {
		t.Errorf("updates = %d, want 2", w.updates)
	}
	if w.lastDt != 0.5 {
		t.Errorf("lastDt = %v, want 0.5", w.lastDt)
	}

	st := e.Stats()
	if st.Frames != 2 {
		t.Errorf("Frames = %d, want 2", st.Frames)
	}
	if st.LastDelta != 0.5 {
		t.Errorf("LastDelta = %v, want 0.5", st.LastDelta)
	}
}

func TestEngineTickRecoversPanic(t *testing.T) {
	rec := record(t)

	w := newWorld()
	w.AddChild(newExploder())
	e := NewEngine(w, config.Default())
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop()

	e.Tick(0.1)
	e.Tick(0.1)

	if len(rec.panics) != 1 {
		t.Fatalf("recorded %d panics, want 1", len(rec.panics))
	}
	if rec.panics[0].Op != "runtime.Engine.tick" {
		t.Errorf("panic op = %q", rec.panics[0].Op)
	}
	// The loop survived: both ticks reached the root before the child
	// blew up, and only the aborted tick is missing from the counters.
	if w.updates != 2 {
		t.Errorf("updates = %d, want 2", w.updates)
	}
	if got := e.Stats().Frames; got != 1 {
		t.Errorf("Frames = %d, want 1 (panicked tick not counted)", got)
	}
}

func TestEngineStatsUptime(t *testing.T) {
	clk := &manualClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	prev := SetClock(clk)
	defer SetClock(prev)

	e := NewEngine(newWorld(), config.Default())
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop()

	clk.Advance(3 * time.Second)

	st := e.Stats()
	if st.Uptime != 3*time.Second {
		t.Errorf("Uptime = %v, want 3s", st.Uptime)
	}
	if !st.StartedAt.Equal(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("StartedAt = %v", st.StartedAt)
	}
}

func TestEngineRunStopsOnCancel(t *testing.T) {
	w := newWorld()
	cfg := config.Default()
	cfg.Runtime.UpdateRate = 200

	e := NewEngine(w, cfg)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for e.Stats().Frames == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if e.Stats().Frames == 0 {
		cancel()
		t.Fatal("no frames ticked within deadline")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if e.Running() {
		t.Error("engine still running after Run returned")
	}
}

func TestEngineInspector(t *testing.T) {
	w := newWorld()
	w.Score.Set(9)
	w.AddChild(newScoreboard())

	cfg := config.Default()
	cfg.Inspector.Enabled = true
	cfg.Inspector.Port = 0

	e := NewEngine(w, cfg)
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop()

	port := e.InspectorPort()
	if port == 0 {
		t.Fatal("inspector port not bound")
	}

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/stats", port))
	if err != nil {
		t.Fatalf("failed to reach stats endpoint: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("stats status = %d, want 200", resp.StatusCode)
	}

	e.Stop()
	if e.InspectorPort() != 0 {
		t.Error("inspector port kept after Stop")
	}
}

func TestEngineInspectorBindFailureIsNonFatal(t *testing.T) {
	rec := record(t)

	blocker, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("failed to create blocker listener: %v", err)
	}
	defer blocker.Close()

	cfg := config.Default()
	cfg.Inspector.Enabled = true
	cfg.Inspector.Port = blocker.Addr().(*net.TCPAddr).Port

	e := NewEngine(newWorld(), cfg)
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop()

	if !e.Running() {
		t.Error("engine not running despite inspector failure")
	}
	if e.InspectorPort() != 0 {
		t.Error("inspector port set despite bind failure")
	}
	if len(rec.errs) != 1 || rec.errs[0].Kind != errors.KindInspect {
		t.Errorf("recorded errors = %v, want one inspect error", rec.errs)
	}
}
