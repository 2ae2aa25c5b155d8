package screen

import (
	"github.com/bft-labs/meshscreen/pkg/log"
)

// Sources are the status getters the screen reads. Any of them may be
// nil; the matching frames are then left out or drawn as unknown.
type Sources struct {
	Power    PowerSource
	GPS      GPSSource
	Nodes    NodeRoster
	Channel  ChannelSource
	WiFi     WiFiSource
	Messages MessageSource
	Faults   FaultSource
	Identity Identity
}

// Option configures optional behavior of a Service.
type Option func(*options)

type options struct {
	logger       log.Logger
	panel        Panel
	sources      Sources
	modules      ModuleRegistry
	notifier     Notifier
	clock        Clock
	eventHandler EventHandler
	plugins      []Plugin
	configPath   string
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets the logger. If not provided, nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPanel sets the display panel. New fails without one.
func WithPanel(panel Panel) Option {
	return func(o *options) {
		o.panel = panel
	}
}

// WithSources sets the status getters.
func WithSources(src Sources) Option {
	return func(o *options) {
		o.sources = src
	}
}

// WithModules sets the registry of modules that draw their own frames.
func WithModules(modules ModuleRegistry) Option {
	return func(o *options) {
		o.modules = modules
	}
}

// WithNotifier sets the external notification a button press silences.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithEventHandler sets a handler for state and mode events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized when the Service starts.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithConfigPath records the configuration file for plugins that watch it.
func WithConfigPath(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}
