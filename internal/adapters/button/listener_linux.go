//go:build linux

package button

import (
	"context"
	"fmt"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"github.com/bft-labs/meshscreen/pkg/log"
)

// Run reads key events until ctx is canceled. A device that fails to open
// or read is reopened with backoff.
func (l *Listener) Run(ctx context.Context) error {
	key := evdev.EvCode(l.cfg.Key)
	if key == 0 {
		key = evdev.KEY_POWER
	}

	for {
		dev, err := l.open()
		if err != nil {
			l.logger.Warn("key device unavailable", log.Err(err))
			if !l.backoff.Wait(ctx) {
				return ctx.Err()
			}
			continue
		}
		l.backoff.Reset()

		err = l.read(ctx, dev, key)
		_ = dev.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.logger.Warn("key device read failed", log.Err(err))
		if !l.backoff.Wait(ctx) {
			return ctx.Err()
		}
	}
}

func (l *Listener) open() (*evdev.InputDevice, error) {
	path := l.cfg.Path
	if path == "" {
		paths, err := evdev.ListDevicePaths()
		if err != nil {
			return nil, fmt.Errorf("list input devices: %w", err)
		}
		for _, p := range paths {
			if p.Name == l.cfg.Name {
				path = p.Path
				break
			}
		}
		if path == "" {
			return nil, fmt.Errorf("%w: %q", ErrNoDevice, l.cfg.Name)
		}
	}

	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if l.cfg.Grab {
		if err := dev.Grab(); err != nil {
			l.logger.Warn("failed to grab key device", log.String("path", path), log.Err(err))
		}
	}
	name, _ := dev.Name()
	l.logger.Info("using key device", log.String("path", path), log.String("name", name))
	return dev, nil
}

func (l *Listener) read(ctx context.Context, dev *evdev.InputDevice, key evdev.EvCode) error {
	// Closing the device unblocks ReadOne.
	stop := context.AfterFunc(ctx, func() { _ = dev.Close() })
	defer stop()

	for {
		ev, err := dev.ReadOne()
		if err != nil {
			return err
		}
		if ev.Type != evdev.EV_KEY || ev.Code != key {
			continue
		}
		a := l.decoder.Decode(ev.Value, time.Unix(ev.Time.Unix()))
		if a != ActionNone {
			l.logger.Debug("key action", log.Stringer("action", a))
			Dispatch(a, l.handler)
		}
	}
}
