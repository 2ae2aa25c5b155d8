package button

import (
	"errors"

	"github.com/bft-labs/meshscreen/pkg/log"
)

// DefaultDeviceName is the power key found on many ARM boards.
const DefaultDeviceName = "rk805 pwrkey"

// ErrUnsupported is returned by Listen on platforms without evdev.
var ErrUnsupported = errors.New("button: key input needs linux evdev")

// ErrNoDevice is returned when no input device matches the config.
var ErrNoDevice = errors.New("button: input device not found")

// Config selects the input device and key.
type Config struct {
	// Path opens a device node directly. When empty the device is found
	// by Name.
	Path string
	Name string
	// Key is the evdev key code, KEY_POWER when zero.
	Key uint16
	// Grab takes the device exclusively so the system does not act on it.
	Grab bool
}

// Listener reads a key device and forwards decoded actions.
type Listener struct {
	cfg     Config
	handler Handler
	logger  log.Logger
	decoder *Decoder
	backoff *backoff
}

// NewListener creates a Listener. Call Run to start reading.
func NewListener(cfg Config, handler Handler, logger log.Logger) *Listener {
	if cfg.Name == "" && cfg.Path == "" {
		cfg.Name = DefaultDeviceName
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Listener{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		decoder: NewDecoder(),
		backoff: newBackoff(DefaultBackoffInitial, DefaultBackoffMax),
	}
}
