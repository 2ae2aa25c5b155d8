package app

import (
	"time"

	"github.com/bft-labs/meshscreen/internal/domain"
)

// Frame rates, in frames per second.
const (
	IdleFramerate       = 1
	TransitionFramerate = 30
)

// Engine defaults.
const (
	DefaultBootTimeout    = 5 * time.Second
	DefaultTransitionTime = 250 * time.Millisecond
	DefaultBlinkDelay     = 50 * time.Millisecond
	DefaultBrightness     = 150
	MaxBrightness         = 254

	blinkCount = 10
)

// EngineConfig contains configuration for the display engine.
type EngineConfig struct {
	// BootTimeout is how long the boot screen stays up. It is doubled
	// when OEMText is set, the OEM screen taking the second half.
	BootTimeout time.Duration
	OEMText     string

	// TransitionTime is how long the carousel takes to slide to the
	// next frame.
	TransitionTime time.Duration

	// BlinkDelay is the pause between blink flashes.
	BlinkDelay time.Duration

	// QueueCapacity bounds the command channel.
	QueueCapacity int

	// EInk enables the deep sleep frame and full refreshes.
	EInk bool

	// Welcome shows the welcome screen while the region is unset.
	Welcome bool

	// Brightness is the initial panel brightness.
	Brightness uint8

	Settings Settings
}

// Settings are the options that can change while the engine runs.
type Settings struct {
	// Region is the radio region name, empty when unset.
	Region string

	// AutoCarousel advances the carousel on its own when positive.
	AutoCarousel time.Duration

	RangeTest       bool
	StoreForward    bool
	Imperial        bool
	CompassNorthTop bool
	GPSEnabled      bool
	FixedPosition   bool
	ModemPreset     domain.ModemPreset
}

// DefaultEngineConfig returns an EngineConfig with default values.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		BootTimeout:    DefaultBootTimeout,
		TransitionTime: DefaultTransitionTime,
		BlinkDelay:     DefaultBlinkDelay,
		Welcome:        true,
		Brightness:     DefaultBrightness,
		Settings: Settings{
			GPSEnabled: true,
		},
	}
}
