package screen

import (
	"context"
	"image"

	"github.com/bft-labs/meshscreen/pkg/log"
)

// Plugin extends a Service. Plugins are initialized in registration order
// when the Service starts and shut down in reverse order when it stops.
type Plugin interface {
	Name() string
	Initialize(ctx context.Context, cfg PluginConfig) error
	Shutdown(ctx context.Context) error
}

// PluginConfig is handed to plugins at initialization.
type PluginConfig struct {
	Logger     log.Logger
	Controller Controller
	// ConfigPath is the configuration file the service was started
	// with, empty if none.
	ConfigPath string
}

// Controller is the part of a Service that plugins drive.
type Controller interface {
	Screen
	Mode() Mode
	Settings() Settings
	UpdateSettings(fn func(*Settings))
	Snapshot() image.Image
	Stats() Stats
}
