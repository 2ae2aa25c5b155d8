// Package preview serves the current screen contents and a few remote
// controls over HTTP. It is meant for development on hosts without a
// physical panel.
package preview

import (
	"bytes"
	"context"
	"image/png"
	"net"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/bft-labs/meshscreen/pkg/log"
	"github.com/bft-labs/meshscreen/pkg/screen"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = "127.0.0.1:8080"

// Config holds configuration options for the preview plugin.
type Config struct {
	// Addr is the TCP listen address.
	// Default: 127.0.0.1:8080
	Addr string
}

// Plugin runs the preview HTTP server.
type Plugin struct {
	addr string

	mu     sync.Mutex
	app    *fiber.App
	ln     net.Listener
	logger log.Logger
	wg     sync.WaitGroup
}

// New creates a preview plugin.
func New(cfg Config) *Plugin {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Plugin{addr: cfg.Addr}
}

// WithPreview returns a screen Option that enables the preview server.
func WithPreview(cfg Config) screen.Option {
	return screen.WithPlugin(New(cfg))
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "preview"
}

// Initialize binds the listen address and starts serving.
func (p *Plugin) Initialize(_ context.Context, cfg screen.PluginConfig) error {
	ln, err := net.Listen("tcp", p.addr)
	if err != nil {
		return err
	}

	app := newApp(cfg.Controller, cfg.Logger)

	p.mu.Lock()
	p.app = app
	p.ln = ln
	p.logger = cfg.Logger
	p.mu.Unlock()

	cfg.Logger.Info("preview server listening", log.String("addr", ln.Addr().String()))

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := app.Listener(ln); err != nil {
			cfg.Logger.Error("preview server stopped", log.Err(err))
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Initialize.
func (p *Plugin) Addr() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ln == nil {
		return ""
	}
	return p.ln.Addr().String()
}

// Shutdown stops the server.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	app := p.app
	p.mu.Unlock()
	if app == nil {
		return nil
	}
	err := app.ShutdownWithContext(ctx)
	p.wg.Wait()
	return err
}

type statusResponse struct {
	Mode       string `json:"mode"`
	ScreenOn   bool   `json:"screen_on"`
	Frame      int    `json:"frame"`
	FrameCount int    `json:"frame_count"`
	TargetFPS  int    `json:"target_fps"`
	Brightness uint8  `json:"brightness"`
	Ticks      uint64 `json:"ticks"`
	Dropped    uint64 `json:"dropped"`
	Region     string `json:"region"`
}

type printRequest struct {
	Text string `json:"text"`
}

type bluetoothRequest struct {
	Pin uint32 `json:"pin"`
}

// newApp builds the routes. It is separate from Initialize so tests can
// drive it with app.Test.
func newApp(ctrl screen.Controller, logger log.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "meshscreen preview",
	})

	app.Get("/frame", func(c *fiber.Ctx) error {
		img := ctrl.Snapshot()
		if img == nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("No frame available")
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Failed to encode image")
		}
		c.Set(fiber.HeaderContentType, "image/png")
		c.Set(fiber.HeaderContentLength, strconv.Itoa(buf.Len()))
		return c.Send(buf.Bytes())
	})

	app.Get("/status", func(c *fiber.Ctx) error {
		st := ctrl.Stats()
		return c.JSON(statusResponse{
			Mode:       ctrl.Mode().String(),
			ScreenOn:   st.ScreenOn,
			Frame:      st.Frame,
			FrameCount: st.FrameCount,
			TargetFPS:  st.TargetFPS,
			Brightness: st.Brightness,
			Ticks:      st.Ticks,
			Dropped:    st.Dropped,
			Region:     ctrl.Settings().Region,
		})
	})

	app.Post("/press", accepted(ctrl.OnPress))
	app.Post("/blink", accepted(ctrl.Blink))
	app.Post("/brightness", accepted(ctrl.AdjustBrightness))
	app.Post("/shutdown", accepted(ctrl.StartShutdownScreen))
	app.Post("/reboot", accepted(ctrl.StartRebootScreen))
	app.Delete("/bluetooth", accepted(ctrl.StopBluetoothPinScreen))

	app.Post("/power/:state", func(c *fiber.Ctx) error {
		switch c.Params("state") {
		case "on":
			ctrl.SetOn(true)
		case "off":
			ctrl.SetOn(false)
		default:
			return c.Status(fiber.StatusBadRequest).SendString("state must be on or off")
		}
		return c.SendStatus(fiber.StatusAccepted)
	})

	app.Post("/print", func(c *fiber.Ctx) error {
		var req printRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid JSON")
		}
		logger.Debug("preview print", log.Int("bytes", len(req.Text)))
		ctrl.Print(req.Text)
		return c.SendStatus(fiber.StatusAccepted)
	})

	app.Post("/bluetooth", func(c *fiber.Ctx) error {
		var req bluetoothRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid JSON")
		}
		if req.Pin > 999999 {
			return c.Status(fiber.StatusBadRequest).SendString("pin must have at most six digits")
		}
		ctrl.StartBluetoothPinScreen(req.Pin)
		return c.SendStatus(fiber.StatusAccepted)
	})

	return app
}

func accepted(fn func()) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fn()
		return c.SendStatus(fiber.StatusAccepted)
	}
}
