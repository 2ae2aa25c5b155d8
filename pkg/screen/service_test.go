package screen_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/meshscreen/internal/adapters/mono"
	"github.com/bft-labs/meshscreen/pkg/log"
	"github.com/bft-labs/meshscreen/pkg/screen"
)

// testLogger captures log messages.
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) Debug(msg string, fields ...log.Field) { l.log("DEBUG", msg) }
func (l *testLogger) Info(msg string, fields ...log.Field)  { l.log("INFO", msg) }
func (l *testLogger) Warn(msg string, fields ...log.Field)  { l.log("WARN", msg) }
func (l *testLogger) Error(msg string, fields ...log.Field) { l.log("ERROR", msg) }

func (l *testLogger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("[%s] %s", level, msg))
}

// trackingPlugin records the order of Initialize and Shutdown calls.
type trackingPlugin struct {
	name      string
	mu        *sync.Mutex
	order     *[]string
	initError error
	ctrl      screen.Controller
}

func (p *trackingPlugin) Name() string { return p.name }

func (p *trackingPlugin) Initialize(_ context.Context, cfg screen.PluginConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	*p.order = append(*p.order, "init:"+p.name)
	p.ctrl = cfg.Controller
	return p.initError
}

func (p *trackingPlugin) Shutdown(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	*p.order = append(*p.order, "shutdown:"+p.name)
	return nil
}

// recordingHandler collects events.
type recordingHandler struct {
	screen.BaseEventHandler
	mu     sync.Mutex
	states []screen.StateChangeEvent
	modes  []screen.ModeChangeEvent
}

func (h *recordingHandler) OnStateChange(ev screen.StateChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.states = append(h.states, ev)
}

func (h *recordingHandler) OnModeChange(ev screen.ModeChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.modes = append(h.modes, ev)
}

func (h *recordingHandler) sawMode(m screen.Mode) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ev := range h.modes {
		if ev.Current == m {
			return true
		}
	}
	return false
}

func testConfig() screen.Config {
	cfg := screen.DefaultConfig()
	cfg.Welcome = false
	cfg.TransitionTime = 10 * time.Millisecond
	cfg.BlinkDelay = time.Millisecond
	return cfg
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestNew_NoPanel(t *testing.T) {
	_, err := screen.New(testConfig())
	if !errors.Is(err, screen.ErrNoDisplay) {
		t.Errorf("New() error = %v, want ErrNoDisplay", err)
	}
}

func TestOpen_NoPanelReturnsNull(t *testing.T) {
	s, err := screen.Open(testConfig())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := s.(screen.Null); !ok {
		t.Errorf("Open() = %T, want screen.Null", s)
	}
	// Null must accept every call.
	s.OnPress()
	s.Print("hello")
	s.StartBluetoothPinScreen(1)
	if err := s.Setup(); err != nil {
		t.Errorf("Null.Setup() error = %v", err)
	}
}

func TestService_StartStop(t *testing.T) {
	handler := &recordingHandler{}
	s, err := screen.New(testConfig(),
		screen.WithPanel(mono.NewPanel(128, 64)),
		screen.WithEventHandler(handler),
		screen.WithLogger(&testLogger{}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Status() != screen.StateStopped {
		t.Fatalf("Status() = %v, want Stopped", s.Status())
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(context.Background()); !errors.Is(err, screen.ErrAlreadyRunning) {
		t.Errorf("second Start() error = %v, want ErrAlreadyRunning", err)
	}
	if s.Status() != screen.StateRunning {
		t.Errorf("Status() = %v, want Running", s.Status())
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if s.Status() != screen.StateStopped {
		t.Errorf("Status() = %v, want Stopped", s.Status())
	}
	if err := s.Stop(); !errors.Is(err, screen.ErrNotRunning) {
		t.Errorf("second Stop() error = %v, want ErrNotRunning", err)
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()
	want := []screen.State{screen.StateStarting, screen.StateRunning, screen.StateStopping, screen.StateStopped}
	if len(handler.states) != len(want) {
		t.Fatalf("got %d state events, want %d", len(handler.states), len(want))
	}
	for i, ev := range handler.states {
		if ev.Current != want[i] {
			t.Errorf("state event %d = %v, want %v", i, ev.Current, want[i])
		}
	}
}

func TestService_RequestsReachRenderLoop(t *testing.T) {
	handler := &recordingHandler{}
	panel := mono.NewPanel(128, 64)
	s, err := screen.New(testConfig(),
		screen.WithPanel(panel),
		screen.WithEventHandler(handler),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	if !panel.On() {
		t.Error("panel should be powered by Setup")
	}

	s.StopBootScreen()
	waitFor(t, "normal mode", func() bool { return s.Mode() == screen.ModeNormal })

	s.StartBluetoothPinScreen(123456)
	waitFor(t, "pairing mode", func() bool { return s.Mode() == screen.ModeBluetoothPairing })

	s.StopBluetoothPinScreen()
	waitFor(t, "back to normal", func() bool { return s.Mode() == screen.ModeNormal })

	s.SetOn(false)
	waitFor(t, "panel off", func() bool { return !panel.On() })
	s.SetOn(true)
	waitFor(t, "panel on", func() bool { return panel.On() })

	if !handler.sawMode(screen.ModeBluetoothPairing) {
		t.Error("expected a mode change event for pairing")
	}
	if s.Snapshot() == nil {
		t.Error("Snapshot() = nil, want the last frame")
	}
	if s.Stats().Ticks == 0 {
		t.Error("Stats().Ticks = 0, want render ticks")
	}
}

func TestService_Touch(t *testing.T) {
	panel := mono.NewPanel(128, 64)
	s, err := screen.NewTouch(testConfig(), screen.WithPanel(panel))
	if err != nil {
		t.Fatalf("NewTouch() error = %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	s.StopBootScreen()
	waitFor(t, "normal mode", func() bool { return s.Mode() == screen.ModeNormal })

	s.StartRebootScreen()
	waitFor(t, "reboot mode", func() bool { return s.Mode() == screen.ModeReboot })

	// Terminal modes do not return to the carousel.
	s.StopBluetoothPinScreen()
	time.Sleep(50 * time.Millisecond)
	if s.Mode() != screen.ModeReboot {
		t.Errorf("Mode() = %v, want Reboot", s.Mode())
	}
}

func TestService_PluginOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	a := &trackingPlugin{name: "a", mu: &mu, order: &order}
	b := &trackingPlugin{name: "b", mu: &mu, order: &order}

	s, err := screen.New(testConfig(),
		screen.WithPanel(mono.NewPanel(128, 64)),
		screen.WithPlugin(a),
		screen.WithPlugin(b),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"init:a", "init:b", "shutdown:b", "shutdown:a"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if a.ctrl == nil {
		t.Error("plugin did not receive a controller")
	}
}

func TestService_PluginInitFailure(t *testing.T) {
	var mu sync.Mutex
	var order []string
	initErr := errors.New("boom")
	p := &trackingPlugin{name: "bad", mu: &mu, order: &order, initError: initErr}

	s, err := screen.New(testConfig(),
		screen.WithPanel(mono.NewPanel(128, 64)),
		screen.WithPlugin(p),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Start(context.Background()); !errors.Is(err, initErr) {
		t.Fatalf("Start() error = %v, want %v", err, initErr)
	}
	if s.Status() != screen.StateCrashed {
		t.Errorf("Status() = %v, want Crashed", s.Status())
	}
}

func TestService_UpdateSettings(t *testing.T) {
	s, err := screen.New(testConfig(), screen.WithPanel(mono.NewPanel(128, 64)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.UpdateSettings(func(st *screen.Settings) {
		st.Region = "EU_868"
		st.Imperial = true
	})
	got := s.Settings()
	if got.Region != "EU_868" || !got.Imperial {
		t.Errorf("Settings() = %+v", got)
	}
}
