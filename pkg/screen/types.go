package screen

import (
	"github.com/bft-labs/meshscreen/internal/app"
	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/mode"
	"github.com/bft-labs/meshscreen/internal/ports"
)

// Configuration types. Use DefaultConfig to get sensible values.
type (
	Config   = app.EngineConfig
	Settings = app.Settings
	Stats    = app.Stats
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return app.DefaultEngineConfig()
}

// Display types implemented by panels and frame producers.
type (
	Surface       = ports.Surface
	Panel         = ports.Panel
	SlowRefresher = ports.SlowRefresher
	Clock         = ports.Clock
	Module        = ports.Module
	FrameState    = domain.FrameState
)

// Status source interfaces and the values they return.
type (
	PowerSource    = ports.PowerSource
	GPSSource      = ports.GPSSource
	NodeRoster     = ports.NodeRoster
	ChannelSource  = ports.ChannelSource
	WiFiSource     = ports.WiFiSource
	MessageSource  = ports.MessageSource
	FaultSource    = ports.FaultSource
	Identity       = ports.Identity
	Notifier       = ports.Notifier
	ModuleRegistry = ports.ModuleRegistry

	PowerStatus  = domain.PowerStatus
	GPSStatus    = domain.GPSStatus
	NodeStatus   = domain.NodeStatus
	NodeInfo     = domain.NodeInfo
	TextMessage  = domain.TextMessage
	UIFrameEvent = domain.UIFrameEvent
	WiFiStatus   = domain.WiFiStatus
	ModemPreset  = domain.ModemPreset
)

// Mode is the display mode.
type Mode = mode.Mode

const (
	ModeBoot             = mode.Boot
	ModeOEMBoot          = mode.OEMBoot
	ModeNormal           = mode.Normal
	ModeWelcome          = mode.Welcome
	ModeBluetoothPairing = mode.BluetoothPairing
	ModeShutdown         = mode.Shutdown
	ModeReboot           = mode.Reboot
	ModeFirmwareUpdate   = mode.FirmwareUpdate
	ModeSSLProvisioning  = mode.SSLProvisioning
	ModeAsleepEink       = mode.AsleepEink
)

// State is the run state of a Service.
type State = app.State

const (
	StateStopped  = app.StateStopped
	StateStarting = app.StateStarting
	StateRunning  = app.StateRunning
	StateStopping = app.StateStopping
	StateCrashed  = app.StateCrashed
)

// Errors returned by a Service.
var (
	ErrNoDisplay       = domain.ErrNoDisplay
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrChannelFull     = domain.ErrChannelFull
)
