// Package mode holds the display mode state machine. Exactly one mode is
// active at a time; the normal carousel is one of them and every other
// mode shows a single static frame.
package mode

import (
	"sync"

	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/ports"
)

// Mode is what the display is currently showing.
type Mode int

const (
	Boot Mode = iota
	OEMBoot
	Welcome
	Normal
	BluetoothPairing
	Shutdown
	Reboot
	FirmwareUpdate
	SSLProvisioning
	AsleepEink
)

// String returns a human-readable representation of the mode.
func (m Mode) String() string {
	switch m {
	case Boot:
		return "Boot"
	case OEMBoot:
		return "OEMBoot"
	case Welcome:
		return "Welcome"
	case Normal:
		return "Normal"
	case BluetoothPairing:
		return "BluetoothPairing"
	case Shutdown:
		return "Shutdown"
	case Reboot:
		return "Reboot"
	case FirmwareUpdate:
		return "FirmwareUpdate"
	case SSLProvisioning:
		return "SSLProvisioning"
	case AsleepEink:
		return "AsleepEink"
	default:
		return "Unknown"
	}
}

// IsExclusive reports whether m is one of the modes that replace each
// other: pairing, shutdown, reboot and firmware update.
func (m Mode) IsExclusive() bool {
	switch m {
	case BluetoothPairing, Shutdown, Reboot, FirmwareUpdate:
		return true
	}
	return false
}

// IsTerminal reports whether m never returns to Normal.
func (m Mode) IsTerminal() bool {
	switch m {
	case Shutdown, Reboot, FirmwareUpdate:
		return true
	}
	return false
}

// IsBoot reports whether m is one of the boot screens.
func (m Mode) IsBoot() bool {
	return m == Boot || m == OEMBoot
}

// CanTransition reports whether from → to is allowed.
func CanTransition(from, to Mode) bool {
	if to.IsExclusive() {
		return from != AsleepEink
	}
	switch from {
	case Boot:
		switch to {
		case OEMBoot, Normal, Welcome, SSLProvisioning, AsleepEink:
			return true
		}
	case OEMBoot:
		switch to {
		case Normal, Welcome, SSLProvisioning, AsleepEink:
			return true
		}
	case Normal:
		switch to {
		case Welcome, SSLProvisioning, AsleepEink:
			return true
		}
	case Welcome:
		switch to {
		case Normal, SSLProvisioning, AsleepEink:
			return true
		}
	case BluetoothPairing, SSLProvisioning:
		return to == Normal || to == AsleepEink
	case Shutdown, Reboot, FirmwareUpdate:
		return to == AsleepEink
	case AsleepEink:
		return to == Normal
	}
	return false
}

// EventEmitter is called when the mode changes.
type EventEmitter interface {
	OnModeChange(previous, current Mode, reason string)
}

// Machine is the display mode state machine. It is safe for concurrent use.
type Machine struct {
	mu           sync.RWMutex
	mode         Mode
	logger       ports.Logger
	eventEmitter EventEmitter
}

// NewMachine creates a machine in Boot. emitter may be nil.
func NewMachine(logger ports.Logger, emitter EventEmitter) *Machine {
	return &Machine{
		mode:         Boot,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// Mode returns the active mode.
func (m *Machine) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// TransitionTo switches to next. It returns domain.ErrInvalidTransition
// if the move is not allowed from the active mode.
func (m *Machine) TransitionTo(next Mode, reason string) error {
	m.mu.Lock()
	prev := m.mode

	if !CanTransition(prev, next) {
		m.mu.Unlock()
		return domain.ErrInvalidTransition
	}

	m.mode = next
	m.mu.Unlock()

	// Emit event outside of lock
	if m.eventEmitter != nil {
		m.eventEmitter.OnModeChange(prev, next, reason)
	}

	m.logger.Info("mode transition",
		ports.String("from", prev.String()),
		ports.String("to", next.String()),
		ports.String("reason", reason),
	)

	return nil
}
