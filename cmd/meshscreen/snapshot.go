package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bft-labs/meshscreen/internal/adapters/mono"
	"github.com/bft-labs/meshscreen/internal/cliconfig"
	"github.com/bft-labs/meshscreen/internal/sim"
	"github.com/bft-labs/meshscreen/pkg/log"
	"github.com/bft-labs/meshscreen/pkg/screen"
	"github.com/bft-labs/meshscreen/pkg/status"
)

type snapshotOptions struct {
	out     string
	steps   int
	presses int
	pin     uint32
}

// newSnapshotCmd renders the screen headless and writes one frame as PNG.
func newSnapshotCmd(cfg *cliconfig.Config, cfgPath *string) *cobra.Command {
	o := snapshotOptions{out: "frame.png", steps: 5}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the screen off-device and write the frame to a PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := loadConfig(cmd, cfg, *cfgPath); err != nil {
				return err
			}
			logger := log.NewZerologAdapter(os.Stderr, cfg.LogLevel)
			return snapshot(cmd.Context(), *cfg, o, logger)
		},
	}

	cmd.Flags().StringVarP(&o.out, "out", "o", o.out, "output PNG file")
	cmd.Flags().IntVar(&o.steps, "steps", o.steps, "simulated node updates before rendering")
	cmd.Flags().IntVar(&o.presses, "presses", o.presses, "button presses after boot")
	cmd.Flags().Uint32Var(&o.pin, "pin", o.pin, "show the Bluetooth pairing screen with this pin")
	return cmd
}

func snapshot(ctx context.Context, cfg cliconfig.Config, o snapshotOptions, logger *log.ZerologAdapter) error {
	if ctx == nil {
		ctx = context.Background()
	}
	panel := mono.NewPanel(cfg.Width, cfg.Height, mono.WithFlip(cfg.Flip))

	hub := status.NewHub()
	device := newDevice(cfg, hub, logger.With("sim"))
	now := time.Now()
	for i := 0; i < o.steps; i++ {
		device.Step(now.Add(time.Duration(i) * time.Second))
	}

	s, err := screen.New(cfg.EngineConfig(),
		screen.WithLogger(logger.With("screen")),
		screen.WithPanel(panel),
		screen.WithSources(sources(device)),
		screen.WithModules(sim.NewModules(sim.ClockModule{})),
		screen.WithNotifier(device),
	)
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("start screen: %w", err)
	}
	defer s.Stop()

	// Each request needs the render loop to pick it up and any slide to
	// finish before the next one.
	settle := 2*cfg.TransitionTime + 50*time.Millisecond

	s.StopBootScreen()
	time.Sleep(settle)
	for i := 0; i < o.presses; i++ {
		s.OnPress()
		time.Sleep(settle)
	}
	if o.pin != 0 {
		s.StartBluetoothPinScreen(o.pin)
		time.Sleep(settle)
	}

	img := panel.Snapshot()
	f, err := os.Create(o.out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("snapshot written",
		log.String("file", o.out),
		log.String("mode", s.Mode().String()),
	)
	return nil
}
