package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/meshscreen/internal/adapters/button"
	"github.com/bft-labs/meshscreen/internal/adapters/fs"
	"github.com/bft-labs/meshscreen/internal/cliconfig"
	"github.com/bft-labs/meshscreen/internal/sim"
	"github.com/bft-labs/meshscreen/pkg/log"
	"github.com/bft-labs/meshscreen/pkg/screen"
	"github.com/bft-labs/meshscreen/pkg/status"
	"github.com/bft-labs/meshscreen/plugins/configwatcher"
	"github.com/bft-labs/meshscreen/plugins/preview"
)

const helpDescription = `
Drive a mesh radio status screen from a simulated node.

The screen runs the same boot, carousel, pairing and shutdown logic as on
the device. Use the memory panel with the preview server to watch it in a
browser, or the oled panel on a board with an SSD1306 on I2C.

Configuration comes from ~/.meshscreen/config.toml, then MESHSCREEN_*
environment variables, then flags.
`

var exampleUsage = strings.TrimSpace(`
  meshscreen --preview-addr 127.0.0.1:8080
  meshscreen --panel oled --bus /dev/i2c-1 --button-device /dev/input/event0
  meshscreen snapshot --presses 2 --out frame.png
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// loadConfig layers the config file and environment under the flags that
// were set on the command line.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) (string, map[string]bool, error) {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return "", nil, fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return "", nil, err
		}
	} else {
		cfgFile = ""
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return "", nil, err
	}
	if err := cfg.Validate(); err != nil {
		return "", nil, err
	}
	return cfgFile, changed, nil
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:     "meshscreen",
		Short:   "Run a mesh radio status screen against a simulated node",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, changed, err := loadConfig(cmd, &cfg, cfgPath)
			if err != nil {
				return err
			}
			logger := log.NewZerologAdapter(os.Stderr, cfg.LogLevel)
			store := fs.NewStateFile(cfg.StateDir)
			if !changed["brightness"] {
				restoreBrightness(cmd.Context(), store, &cfg, logger)
			}
			logger.Info("configuration",
				log.String("panel", cfg.Panel),
				log.Bool("touch", cfg.Touch),
				log.String("config_file", cfgFile),
				log.String("preview_addr", cfg.PreviewAddr),
			)
			return run(cfg, cfgFile, store, logger)
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.meshscreen/config.toml)")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	f := root.PersistentFlags()
	f.StringVar(&cfg.Panel, "panel", cfg.Panel, "panel kind: memory, eink or oled")
	f.BoolVar(&cfg.Touch, "touch", cfg.Touch, "use the touch screen variant")
	f.StringVar(&cfg.Bus, "bus", cfg.Bus, "I2C bus for the oled panel (default: first found)")
	f.IntVar(&cfg.Width, "width", cfg.Width, "panel width in pixels")
	f.IntVar(&cfg.Height, "height", cfg.Height, "panel height in pixels")
	f.BoolVar(&cfg.Flip, "flip", cfg.Flip, "rotate the panel by 180 degrees")
	f.DurationVar(&cfg.BootTimeout, "boot-timeout", cfg.BootTimeout, "how long the boot screen stays up")
	f.DurationVar(&cfg.TransitionTime, "transition-time", cfg.TransitionTime, "carousel slide duration")
	f.DurationVar(&cfg.BlinkDelay, "blink-delay", cfg.BlinkDelay, "pause between blink flashes")
	f.StringVar(&cfg.OEMText, "oem-text", cfg.OEMText, "text for the OEM boot screen (doubles the boot time)")
	f.IntVar(&cfg.Brightness, "brightness", cfg.Brightness, "initial panel brightness")
	f.BoolVar(&cfg.Welcome, "welcome", cfg.Welcome, "show the welcome screen while the region is unset")
	f.StringVar(&cfg.Region, "region", cfg.Region, "radio region; empty shows the welcome screen")
	f.DurationVar(&cfg.AutoCarousel, "auto-carousel", cfg.AutoCarousel, "advance the carousel on its own (0 disables)")
	f.BoolVar(&cfg.Imperial, "imperial", cfg.Imperial, "show distances in imperial units")
	f.BoolVar(&cfg.GPSEnabled, "gps", cfg.GPSEnabled, "GPS is enabled")
	f.BoolVar(&cfg.FixedPosition, "fixed-position", cfg.FixedPosition, "the node has a fixed position")
	f.BoolVar(&cfg.CompassNorthTop, "compass-north-top", cfg.CompassNorthTop, "draw the compass with north up")

	root.Flags().StringVar(&cfg.ButtonDevice, "button-device", cfg.ButtonDevice, "evdev node of the user button (disabled when empty)")
	root.Flags().IntVar(&cfg.ButtonKey, "button-key", cfg.ButtonKey, "evdev key code of the user button")
	root.Flags().StringVar(&cfg.PreviewAddr, "preview-addr", cfg.PreviewAddr, "preview HTTP listen address (disabled when empty)")
	root.Flags().DurationVar(&cfg.SimInterval, "sim-interval", cfg.SimInterval, "simulated node update interval")
	root.Flags().BoolVar(&cfg.WatchConfig, "watch-config", cfg.WatchConfig, "reload display settings when the config file changes")
	root.Flags().StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for state.json (default: $HOME/.meshscreen)")

	root.AddCommand(newSnapshotCmd(&cfg, &cfgPath))

	if err := root.Execute(); err != nil {
		log.NewZerologAdapter(os.Stderr, "error").Error("meshscreen", log.Err(err))
		os.Exit(1)
	}
}

func run(cfg cliconfig.Config, cfgFile string, store *fs.StateFile, logger *log.ZerologAdapter) error {
	panel, closePanel, err := openPanel(cfg, logger.With("panel"))
	if err != nil {
		return err
	}
	defer closePanel()

	hub := status.NewHub()
	device := newDevice(cfg, hub, logger.With("sim"))

	opts := []screen.Option{
		screen.WithLogger(logger.With("screen")),
		screen.WithPanel(panel),
		screen.WithSources(sources(device)),
		screen.WithModules(sim.NewModules(sim.ClockModule{})),
		screen.WithNotifier(device),
	}
	if cfg.PreviewAddr != "" {
		opts = append(opts, preview.WithPreview(preview.Config{Addr: cfg.PreviewAddr}))
	}
	if cfg.WatchConfig && cfgFile != "" {
		opts = append(opts,
			screen.WithConfigPath(cfgFile),
			configwatcher.WithDefaultConfigWatcher(),
		)
	}

	s, err := newScreen(cfg, opts)
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	stopObserving := s.Observe(hub)
	defer stopObserving()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("start screen: %w", err)
	}

	go device.Run(ctx, cfg.SimInterval)

	if cfg.ButtonDevice != "" {
		l := button.NewListener(button.Config{
			Path: cfg.ButtonDevice,
			Key:  uint16(cfg.ButtonKey),
		}, s, logger.With("button"))
		go func() {
			if err := l.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("button listener stopped", log.Err(err))
			}
		}()
	}

	doneCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.Status() == screen.StateCrashed {
					close(doneCh)
					return
				}
			}
		}
	}()

	select {
	case sig := <-sigCh:
		logger.Info("received signal, stopping", log.String("signal", sig.String()))
		// Show the shutdown frame while the loop winds down.
		s.StartShutdownScreen()
		time.Sleep(cfg.TransitionTime)
	case <-doneCh:
		logger.Error("screen crashed")
	}

	if err := store.Save(context.Background(), fs.State{Brightness: s.Stats().Brightness}); err != nil {
		logger.Warn("save state failed", log.String("path", store.Path()), log.Err(err))
	}

	if err := s.Stop(); err != nil {
		return fmt.Errorf("stop screen: %w", err)
	}
	return nil
}

// restoreBrightness applies the brightness saved by the previous run.
func restoreBrightness(ctx context.Context, store *fs.StateFile, cfg *cliconfig.Config, logger log.Logger) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Load(ctx)
	if err != nil {
		logger.Warn("load state failed", log.String("path", store.Path()), log.Err(err))
		return
	}
	if st.Brightness > 0 {
		cfg.Brightness = int(st.Brightness)
	}
}

func newScreen(cfg cliconfig.Config, opts []screen.Option) (*screen.Service, error) {
	if cfg.Touch {
		return screen.NewTouch(cfg.EngineConfig(), opts...)
	}
	return screen.New(cfg.EngineConfig(), opts...)
}

func newDevice(cfg cliconfig.Config, hub *status.Hub, logger log.Logger) *sim.Device {
	simCfg := sim.DefaultConfig()
	simCfg.Region = cfg.Region
	return sim.New(simCfg, hub, logger)
}

func sources(d *sim.Device) screen.Sources {
	return screen.Sources{
		Power:    d,
		GPS:      d,
		Nodes:    d,
		Channel:  d,
		WiFi:     d,
		Messages: d,
		Faults:   d,
		Identity: d,
	}
}
