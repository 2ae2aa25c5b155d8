package domain

import "errors"

// Domain errors represent error conditions in the meshscreen domain.
// None of them is fatal; callers log and carry on.
var (
	// ErrChannelFull is returned when a command cannot be queued because the
	// bounded command channel is at capacity.
	ErrChannelFull = errors.New("meshscreen: command channel full")

	// ErrUnknownCommand is logged by the consumer for a command tag it does
	// not recognise.
	ErrUnknownCommand = errors.New("meshscreen: unknown command")

	// ErrInvalidTransition is returned when a display mode change is not
	// allowed from the current mode.
	ErrInvalidTransition = errors.New("meshscreen: invalid mode transition")

	// ErrNoDisplay is returned when an engine is built without a panel.
	ErrNoDisplay = errors.New("meshscreen: no display present")

	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("meshscreen: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("meshscreen: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("meshscreen: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("meshscreen: invalid configuration")
)
