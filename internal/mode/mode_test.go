package mode

import (
	"errors"
	"sync"
	"testing"

	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (m *mockLogger) Debug(msg string, fields ...ports.Field) {}
func (m *mockLogger) Info(msg string, fields ...ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
}
func (m *mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (m *mockLogger) Error(msg string, fields ...ports.Field) {}

// mockEmitter tracks mode change events for testing.
type mockEmitter struct {
	mu     sync.Mutex
	events []modeChangeEvent
}

type modeChangeEvent struct {
	previous Mode
	current  Mode
	reason   string
}

func (m *mockEmitter) OnModeChange(previous, current Mode, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, modeChangeEvent{previous, current, reason})
}

func (m *mockEmitter) Events() []modeChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]modeChangeEvent{}, m.events...)
}

func TestNewMachine(t *testing.T) {
	m := NewMachine(&mockLogger{}, nil)

	if m.Mode() != Boot {
		t.Errorf("initial mode = %v, want Boot", m.Mode())
	}
}

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{Boot, "Boot"},
		{OEMBoot, "OEMBoot"},
		{Welcome, "Welcome"},
		{Normal, "Normal"},
		{BluetoothPairing, "BluetoothPairing"},
		{Shutdown, "Shutdown"},
		{Reboot, "Reboot"},
		{FirmwareUpdate, "FirmwareUpdate"},
		{SSLProvisioning, "SSLProvisioning"},
		{AsleepEink, "AsleepEink"},
		{Mode(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %s, want %s", tt.mode, got, tt.want)
		}
	}
}

func TestMode_Predicates(t *testing.T) {
	for _, m := range []Mode{BluetoothPairing, Shutdown, Reboot, FirmwareUpdate} {
		if !m.IsExclusive() {
			t.Errorf("%v.IsExclusive() = false", m)
		}
	}
	for _, m := range []Mode{Boot, OEMBoot, Welcome, Normal, SSLProvisioning, AsleepEink} {
		if m.IsExclusive() {
			t.Errorf("%v.IsExclusive() = true", m)
		}
	}
	if BluetoothPairing.IsTerminal() || !Shutdown.IsTerminal() || !FirmwareUpdate.IsTerminal() {
		t.Error("IsTerminal() mismatch")
	}
}

func TestMachine_TransitionTo_Valid(t *testing.T) {
	tests := []struct {
		name string
		path []Mode
	}{
		{"boot to normal", []Mode{Normal}},
		{"oem boot to normal", []Mode{OEMBoot, Normal}},
		{"boot to welcome and back", []Mode{Welcome, Normal, Welcome, Normal}},
		{"pairing and back", []Mode{Normal, BluetoothPairing, Normal}},
		{"pairing re-entered", []Mode{Normal, BluetoothPairing, BluetoothPairing}},
		{"pairing replaced by shutdown", []Mode{Normal, BluetoothPairing, Shutdown}},
		{"shutdown replaced by reboot", []Mode{Normal, Shutdown, Reboot}},
		{"firmware to sleep", []Mode{FirmwareUpdate, AsleepEink}},
		{"ssl during boot", []Mode{SSLProvisioning, Normal}},
		{"sleep and wake", []Mode{Normal, AsleepEink, Normal}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(&mockLogger{}, nil)
			for _, next := range tt.path {
				if err := m.TransitionTo(next, "test"); err != nil {
					t.Fatalf("TransitionTo(%v) from %v: %v", next, m.Mode(), err)
				}
			}
			if m.Mode() != tt.path[len(tt.path)-1] {
				t.Errorf("mode = %v, want %v", m.Mode(), tt.path[len(tt.path)-1])
			}
		})
	}
}

func TestMachine_TransitionTo_Invalid(t *testing.T) {
	tests := []struct {
		name string
		path []Mode
		bad  Mode
	}{
		{"boot to boot", nil, Boot},
		{"normal to boot", []Mode{Normal}, Boot},
		{"normal to normal", []Mode{Normal}, Normal},
		{"normal to oem", []Mode{Normal}, OEMBoot},
		{"shutdown to normal", []Mode{Shutdown}, Normal},
		{"reboot to welcome", []Mode{Reboot}, Welcome},
		{"firmware to ssl", []Mode{FirmwareUpdate}, SSLProvisioning},
		{"sleep to pairing", []Mode{AsleepEink}, BluetoothPairing},
		{"sleep to welcome", []Mode{AsleepEink}, Welcome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emitter := &mockEmitter{}
			m := NewMachine(&mockLogger{}, emitter)
			for _, next := range tt.path {
				if err := m.TransitionTo(next, "setup"); err != nil {
					t.Fatalf("setup TransitionTo(%v): %v", next, err)
				}
			}
			before := m.Mode()
			n := len(emitter.Events())

			err := m.TransitionTo(tt.bad, "test")
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Errorf("TransitionTo(%v) error = %v, want ErrInvalidTransition", tt.bad, err)
			}
			if m.Mode() != before {
				t.Errorf("mode changed to %v on invalid transition", m.Mode())
			}
			if len(emitter.Events()) != n {
				t.Error("event emitted for invalid transition")
			}
		})
	}
}

func TestMachine_ExclusiveModesLastWriterWins(t *testing.T) {
	m := NewMachine(&mockLogger{}, nil)
	_ = m.TransitionTo(Normal, "boot done")

	for _, next := range []Mode{Reboot, FirmwareUpdate, BluetoothPairing, Shutdown} {
		if err := m.TransitionTo(next, "test"); err != nil {
			t.Fatalf("TransitionTo(%v): %v", next, err)
		}
		if m.Mode() != next {
			t.Fatalf("mode = %v, want %v", m.Mode(), next)
		}
	}
}

func TestMachine_EmitsAndLogs(t *testing.T) {
	logger := &mockLogger{}
	emitter := &mockEmitter{}
	m := NewMachine(logger, emitter)

	_ = m.TransitionTo(Normal, "boot timeout")
	_ = m.TransitionTo(BluetoothPairing, "pairing requested")

	events := emitter.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].previous != Boot || events[0].current != Normal || events[0].reason != "boot timeout" {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].previous != Normal || events[1].current != BluetoothPairing {
		t.Errorf("events[1] = %+v", events[1])
	}

	logger.mu.Lock()
	defer logger.mu.Unlock()
	if len(logger.msgs) != 2 || logger.msgs[0] != "mode transition" {
		t.Errorf("logged %v", logger.msgs)
	}
}

func TestMachine_ConcurrentTransitions(t *testing.T) {
	m := NewMachine(&mockLogger{}, &mockEmitter{})
	_ = m.TransitionTo(Normal, "boot done")

	var wg sync.WaitGroup
	for _, next := range []Mode{BluetoothPairing, Shutdown, Reboot, FirmwareUpdate} {
		wg.Add(1)
		go func(next Mode) {
			defer wg.Done()
			_ = m.TransitionTo(next, "race")
			_ = m.Mode()
		}(next)
	}
	wg.Wait()

	if !m.Mode().IsExclusive() {
		t.Errorf("mode = %v, want an exclusive mode", m.Mode())
	}
}
