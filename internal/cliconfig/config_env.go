package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (MESHSCREEN_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-level", os.Getenv("MESHSCREEN_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("panel", os.Getenv("MESHSCREEN_PANEL"), &cfg.Panel)
	s.setString("bus", os.Getenv("MESHSCREEN_BUS"), &cfg.Bus)
	s.setString("button-device", os.Getenv("MESHSCREEN_BUTTON_DEVICE"), &cfg.ButtonDevice)
	s.setString("preview-addr", os.Getenv("MESHSCREEN_PREVIEW_ADDR"), &cfg.PreviewAddr)
	s.setString("oem-text", os.Getenv("MESHSCREEN_OEM_TEXT"), &cfg.OEMText)
	s.setString("region", os.Getenv("MESHSCREEN_REGION"), &cfg.Region)
	s.setString("state-dir", os.Getenv("MESHSCREEN_STATE_DIR"), &cfg.StateDir)

	if err := s.setIntFromString("width", os.Getenv("MESHSCREEN_WIDTH"), &cfg.Width); err != nil {
		return err
	}
	if err := s.setIntFromString("height", os.Getenv("MESHSCREEN_HEIGHT"), &cfg.Height); err != nil {
		return err
	}
	if err := s.setIntFromString("button-key", os.Getenv("MESHSCREEN_BUTTON_KEY"), &cfg.ButtonKey); err != nil {
		return err
	}
	if err := s.setIntFromString("brightness", os.Getenv("MESHSCREEN_BRIGHTNESS"), &cfg.Brightness); err != nil {
		return err
	}

	if err := s.setDuration("sim-interval", os.Getenv("MESHSCREEN_SIM_INTERVAL"), &cfg.SimInterval); err != nil {
		return err
	}
	if err := s.setDuration("boot-timeout", os.Getenv("MESHSCREEN_BOOT_TIMEOUT"), &cfg.BootTimeout); err != nil {
		return err
	}
	if err := s.setDuration("transition-time", os.Getenv("MESHSCREEN_TRANSITION_TIME"), &cfg.TransitionTime); err != nil {
		return err
	}
	if err := s.setDuration("blink-delay", os.Getenv("MESHSCREEN_BLINK_DELAY"), &cfg.BlinkDelay); err != nil {
		return err
	}
	if err := s.setDuration("auto-carousel", os.Getenv("MESHSCREEN_AUTO_CAROUSEL"), &cfg.AutoCarousel); err != nil {
		return err
	}

	s.setBoolFromString("touch", os.Getenv("MESHSCREEN_TOUCH"), &cfg.Touch)
	s.setBoolFromString("flip", os.Getenv("MESHSCREEN_FLIP"), &cfg.Flip)
	s.setBoolFromString("watch-config", os.Getenv("MESHSCREEN_WATCH_CONFIG"), &cfg.WatchConfig)
	s.setBoolFromString("welcome", os.Getenv("MESHSCREEN_WELCOME"), &cfg.Welcome)
	s.setBoolFromString("imperial", os.Getenv("MESHSCREEN_IMPERIAL"), &cfg.Imperial)
	s.setBoolFromString("gps", os.Getenv("MESHSCREEN_GPS"), &cfg.GPSEnabled)
	s.setBoolFromString("fixed-position", os.Getenv("MESHSCREEN_FIXED_POSITION"), &cfg.FixedPosition)
	s.setBoolFromString("compass-north-top", os.Getenv("MESHSCREEN_COMPASS_NORTH_TOP"), &cfg.CompassNorthTop)

	return nil
}
