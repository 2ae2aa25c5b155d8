package configwatcher

import "github.com/bft-labs/meshscreen/pkg/screen"

// WithConfigWatcher returns a screen Option that reloads display settings
// when the file given with screen.WithConfigPath changes.
//
// Usage:
//
//	s, err := screen.New(cfg,
//	    screen.WithConfigPath(path),
//	    configwatcher.WithConfigWatcher(configwatcher.DefaultConfig()),
//	)
func WithConfigWatcher(cfg Config) screen.Option {
	return screen.WithPlugin(New(cfg))
}

// WithDefaultConfigWatcher returns a screen Option that enables config
// watching with default settings (debounce 100ms).
func WithDefaultConfigWatcher() screen.Option {
	return WithConfigWatcher(DefaultConfig())
}
