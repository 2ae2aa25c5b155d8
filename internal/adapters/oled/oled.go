// Package oled drives an SSD1306 OLED panel on an I²C bus.
package oled

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/bft-labs/meshscreen/internal/adapters/mono"
	"github.com/bft-labs/meshscreen/internal/ports"
	"github.com/bft-labs/meshscreen/pkg/log"
)

// Config selects the bus and panel geometry.
type Config struct {
	// Bus is the I²C bus name, empty for the first one found.
	Bus    string
	Width  int
	Height int
	// Flip rotates the panel by 180 degrees.
	Flip bool
}

// Panel is an SSD1306 behind ports.Panel.
type Panel struct {
	cfg    Config
	logger log.Logger
	bus    i2c.BusCloser
	opts   ssd1306.Opts

	surface *mono.Surface

	mu  sync.Mutex
	dev *ssd1306.Dev
}

// Open initialises the host drivers and opens the bus. The panel stays off
// until SetPower(true).
func Open(cfg Config, logger log.Logger) (*Panel, error) {
	if cfg.Width <= 0 {
		cfg.Width = mono.DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = mono.DefaultHeight
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.Bus, err)
	}

	opts := ssd1306.DefaultOpts
	opts.W = cfg.Width
	opts.H = cfg.Height
	opts.Rotated = cfg.Flip

	return &Panel{
		cfg:     cfg,
		logger:  logger,
		bus:     bus,
		opts:    opts,
		surface: mono.NewSurface(cfg.Width, cfg.Height),
	}, nil
}

// Surface returns the buffer sent to the controller by Flush.
func (p *Panel) Surface() ports.Surface { return p.surface }

// Flush sends the surface to the controller. It is a no-op while off.
func (p *Panel) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev == nil {
		return nil
	}
	img := p.surface.Image()
	if err := p.dev.Draw(img.Bounds(), img, img.Bounds().Min); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}

// SetPower runs the controller init sequence to turn on and halts it to
// turn off.
func (p *Panel) SetPower(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !on {
		if p.dev == nil {
			return nil
		}
		err := p.dev.Halt()
		p.dev = nil
		if err != nil {
			return fmt.Errorf("halt: %w", err)
		}
		return nil
	}

	if p.dev != nil {
		return nil
	}
	dev, err := ssd1306.NewI2C(p.bus, &p.opts)
	if err != nil {
		return fmt.Errorf("init ssd1306: %w", err)
	}
	p.dev = dev
	p.logger.Debug("oled panel initialised",
		log.String("bus", p.cfg.Bus),
		log.Int("width", p.cfg.Width),
		log.Int("height", p.cfg.Height),
	)
	return nil
}

// SetBrightness maps the level onto the contrast register.
func (p *Panel) SetBrightness(level uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev == nil {
		return nil
	}
	if err := p.dev.SetContrast(level); err != nil {
		return fmt.Errorf("set contrast: %w", err)
	}
	return nil
}

// Close halts the panel and releases the bus.
func (p *Panel) Close() error {
	if err := p.SetPower(false); err != nil {
		p.logger.Warn("halt on close failed", log.Err(err))
	}
	return p.bus.Close()
}

var _ ports.Panel = (*Panel)(nil)
