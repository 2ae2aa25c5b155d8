package cliconfig

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/meshscreen/internal/app"
	"github.com/bft-labs/meshscreen/internal/domain"
)

// Panel kinds accepted by --panel.
const (
	PanelMemory = "memory"
	PanelOLED   = "oled"
	PanelEInk   = "eink"
)

// Config holds CLI configuration for meshscreen.
type Config struct {
	LogLevel string

	Panel  string
	Touch  bool
	Bus    string
	Width  int
	Height int
	Flip   bool

	ButtonDevice string
	ButtonKey    int

	PreviewAddr string
	SimInterval time.Duration
	WatchConfig bool
	StateDir    string

	BootTimeout    time.Duration
	TransitionTime time.Duration
	BlinkDelay     time.Duration
	OEMText        string
	Brightness     int
	Welcome        bool

	Region          string
	AutoCarousel    time.Duration
	Imperial        bool
	GPSEnabled      bool
	FixedPosition   bool
	CompassNorthTop bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		LogLevel:       "info",
		Panel:          PanelMemory,
		Width:          128,
		Height:         64,
		ButtonKey:      116, // KEY_POWER
		PreviewAddr:    "127.0.0.1:8080",
		SimInterval:    time.Second,
		WatchConfig:    true,
		BootTimeout:    app.DefaultBootTimeout,
		TransitionTime: app.DefaultTransitionTime,
		BlinkDelay:     app.DefaultBlinkDelay,
		Brightness:     app.DefaultBrightness,
		Welcome:        true,
		GPSEnabled:     true,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	c.Panel = strings.ToLower(strings.TrimSpace(c.Panel))
	switch c.Panel {
	case "":
		c.Panel = PanelMemory
	case PanelMemory, PanelOLED, PanelEInk:
	default:
		return fmt.Errorf("%w: unknown panel %q", domain.ErrInvalidConfig, c.Panel)
	}

	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: panel size must be positive", domain.ErrInvalidConfig)
	}
	if c.Height%8 != 0 {
		return fmt.Errorf("%w: panel height must be a multiple of 8", domain.ErrInvalidConfig)
	}
	if c.Brightness < 0 || c.Brightness > app.MaxBrightness {
		return fmt.Errorf("%w: brightness must be between 0 and %d", domain.ErrInvalidConfig, app.MaxBrightness)
	}
	if c.SimInterval <= 0 {
		return fmt.Errorf("%w: sim interval must be positive", domain.ErrInvalidConfig)
	}
	if c.AutoCarousel < 0 {
		return fmt.Errorf("%w: auto carousel must not be negative", domain.ErrInvalidConfig)
	}

	if c.BootTimeout <= 0 {
		c.BootTimeout = app.DefaultBootTimeout
	}
	if c.TransitionTime <= 0 {
		c.TransitionTime = app.DefaultTransitionTime
	}
	if c.BlinkDelay <= 0 {
		c.BlinkDelay = app.DefaultBlinkDelay
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StateDir == "" {
		if p := DefaultConfigPath(); p != "" {
			c.StateDir = filepath.Dir(p)
		}
	}
	return nil
}

// EngineConfig converts c to the engine configuration.
func (c Config) EngineConfig() app.EngineConfig {
	return app.EngineConfig{
		BootTimeout:    c.BootTimeout,
		OEMText:        c.OEMText,
		TransitionTime: c.TransitionTime,
		BlinkDelay:     c.BlinkDelay,
		EInk:           c.Panel == PanelEInk,
		Welcome:        c.Welcome,
		Brightness:     uint8(c.Brightness),
		Settings:       c.Settings(),
	}
}

// Settings returns the runtime part of c.
func (c Config) Settings() app.Settings {
	return app.Settings{
		Region:          c.Region,
		AutoCarousel:    c.AutoCarousel,
		Imperial:        c.Imperial,
		GPSEnabled:      c.GPSEnabled,
		FixedPosition:   c.FixedPosition,
		CompassNorthTop: c.CompassNorthTop,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
