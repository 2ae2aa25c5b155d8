package main

import (
	"github.com/bft-labs/meshscreen/internal/adapters/mono"
	"github.com/bft-labs/meshscreen/internal/adapters/oled"
	"github.com/bft-labs/meshscreen/internal/cliconfig"
	"github.com/bft-labs/meshscreen/pkg/log"
	"github.com/bft-labs/meshscreen/pkg/screen"
)

// openPanel returns the configured panel and a function that releases it.
func openPanel(cfg cliconfig.Config, logger log.Logger) (screen.Panel, func(), error) {
	switch cfg.Panel {
	case cliconfig.PanelOLED:
		p, err := oled.Open(oled.Config{
			Bus:    cfg.Bus,
			Width:  cfg.Width,
			Height: cfg.Height,
			Flip:   cfg.Flip,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return p, func() {
			if err := p.Close(); err != nil {
				logger.Warn("close panel", log.Err(err))
			}
		}, nil
	case cliconfig.PanelEInk:
		return mono.NewEInk(cfg.Width, cfg.Height, mono.WithFlip(cfg.Flip)), func() {}, nil
	default:
		return mono.NewPanel(cfg.Width, cfg.Height, mono.WithFlip(cfg.Flip)), func() {}, nil
	}
}
