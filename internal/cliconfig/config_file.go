package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/meshscreen/internal/app"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	LogLevel     string `toml:"log_level"`
	Panel        string `toml:"panel"`
	Touch        *bool  `toml:"touch"`
	Bus          string `toml:"bus"`
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	Flip         *bool  `toml:"flip"`
	ButtonDevice string `toml:"button_device"`
	ButtonKey    int    `toml:"button_key"`
	PreviewAddr  string `toml:"preview_addr"`
	SimInterval  string `toml:"sim_interval"`
	WatchConfig  *bool  `toml:"watch_config"`
	StateDir     string `toml:"state_dir"`

	BootTimeout    string `toml:"boot_timeout"`
	TransitionTime string `toml:"transition_time"`
	BlinkDelay     string `toml:"blink_delay"`
	OEMText        string `toml:"oem_text"`
	Brightness     int    `toml:"brightness"`
	Welcome        *bool  `toml:"welcome"`

	Display DisplaySettings `toml:"display"`
}

// DisplaySettings is the [display] table. These values can change while
// the screen runs.
type DisplaySettings struct {
	Region          string `toml:"region"`
	AutoCarousel    string `toml:"auto_carousel"`
	Imperial        *bool  `toml:"imperial"`
	GPSEnabled      *bool  `toml:"gps_enabled"`
	FixedPosition   *bool  `toml:"fixed_position"`
	CompassNorthTop *bool  `toml:"compass_north_top"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.meshscreen/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".meshscreen", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("panel", fc.Panel, &cfg.Panel)
	s.setString("bus", fc.Bus, &cfg.Bus)
	s.setString("button-device", fc.ButtonDevice, &cfg.ButtonDevice)
	s.setString("preview-addr", fc.PreviewAddr, &cfg.PreviewAddr)
	s.setString("oem-text", fc.OEMText, &cfg.OEMText)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("region", fc.Display.Region, &cfg.Region)

	s.setInt("width", fc.Width, &cfg.Width)
	s.setInt("height", fc.Height, &cfg.Height)
	s.setInt("button-key", fc.ButtonKey, &cfg.ButtonKey)
	s.setInt("brightness", fc.Brightness, &cfg.Brightness)

	if err := s.setDuration("sim-interval", fc.SimInterval, &cfg.SimInterval); err != nil {
		return err
	}
	if err := s.setDuration("boot-timeout", fc.BootTimeout, &cfg.BootTimeout); err != nil {
		return err
	}
	if err := s.setDuration("transition-time", fc.TransitionTime, &cfg.TransitionTime); err != nil {
		return err
	}
	if err := s.setDuration("blink-delay", fc.BlinkDelay, &cfg.BlinkDelay); err != nil {
		return err
	}
	if err := s.setDuration("auto-carousel", fc.Display.AutoCarousel, &cfg.AutoCarousel); err != nil {
		return err
	}

	s.setBool("touch", fc.Touch, &cfg.Touch)
	s.setBool("flip", fc.Flip, &cfg.Flip)
	s.setBool("watch-config", fc.WatchConfig, &cfg.WatchConfig)
	s.setBool("welcome", fc.Welcome, &cfg.Welcome)
	s.setBool("imperial", fc.Display.Imperial, &cfg.Imperial)
	s.setBool("gps", fc.Display.GPSEnabled, &cfg.GPSEnabled)
	s.setBool("fixed-position", fc.Display.FixedPosition, &cfg.FixedPosition)
	s.setBool("compass-north-top", fc.Display.CompassNorthTop, &cfg.CompassNorthTop)

	return nil
}

// ApplyDisplaySettings applies the [display] table to running settings.
// Values absent from the file are left alone.
func ApplyDisplaySettings(st *app.Settings, ds DisplaySettings) error {
	s := newConfigSetter(nil)

	s.setString("region", ds.Region, &st.Region)
	if err := s.setDuration("auto-carousel", ds.AutoCarousel, &st.AutoCarousel); err != nil {
		return err
	}
	s.setBool("imperial", ds.Imperial, &st.Imperial)
	s.setBool("gps", ds.GPSEnabled, &st.GPSEnabled)
	s.setBool("fixed-position", ds.FixedPosition, &st.FixedPosition)
	s.setBool("compass-north-top", ds.CompassNorthTop, &st.CompassNorthTop)
	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
