package mono

import (
	"image"
	"sync"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/bft-labs/meshscreen/internal/ports"
)

// Panel is an in-memory display. Flush copies the surface to a front
// buffer that Snapshot returns, so it can stand in for hardware in
// headless runs and tests.
type Panel struct {
	surface *Surface
	flip    bool

	mu         sync.Mutex
	front      *image1bit.VerticalLSB
	on         bool
	brightness uint8
	flushes    int
}

// Option configures a Panel.
type Option func(*Panel)

// WithFlip rotates the flushed image by 180 degrees.
func WithFlip(flip bool) Option {
	return func(p *Panel) { p.flip = flip }
}

// NewPanel creates a w×h panel. It starts powered off.
func NewPanel(w, h int, opts ...Option) *Panel {
	p := &Panel{
		surface: NewSurface(w, h),
		front:   image1bit.NewVerticalLSB(image.Rect(0, 0, w, h)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Surface returns the back buffer the engine draws into.
func (p *Panel) Surface() ports.Surface { return p.surface }

// Flush publishes the drawn frame.
func (p *Panel) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	Present(p.front, p.surface.Image(), p.flip)
	p.flushes++
	return nil
}

// SetPower records the power state.
func (p *Panel) SetPower(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.on = on
	return nil
}

// SetBrightness records the brightness level.
func (p *Panel) SetBrightness(level uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.brightness = level
	return nil
}

// Snapshot returns a copy of the last flushed frame.
func (p *Panel) Snapshot() image.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := image1bit.NewVerticalLSB(p.front.Rect)
	copy(out.Pix, p.front.Pix)
	return out
}

// On reports the power state.
func (p *Panel) On() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

// Brightness returns the last level set.
func (p *Panel) Brightness() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.brightness
}

// Flushes returns how many frames were published.
func (p *Panel) Flushes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushes
}

// EInk is a Panel that also takes full refresh requests, the way slow
// e-paper controllers do.
type EInk struct {
	*Panel

	refreshMu sync.Mutex
	refreshes int
}

// NewEInk creates a w×h slow-refresh panel.
func NewEInk(w, h int, opts ...Option) *EInk {
	return &EInk{Panel: NewPanel(w, h, opts...)}
}

// ForceDisplay records a full refresh.
func (e *EInk) ForceDisplay() error {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()
	e.refreshes++
	return nil
}

// Refreshes returns the number of full refreshes requested.
func (e *EInk) Refreshes() int {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()
	return e.refreshes
}

// Present copies src into dst, rotating by 180 degrees when flip is set.
// Both images must have the same bounds.
func Present(dst, src *image1bit.VerticalLSB, flip bool) {
	if !flip {
		copy(dst.Pix, src.Pix)
		return
	}
	r := src.Rect
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetBit(r.Max.X-1-(x-r.Min.X), r.Max.Y-1-(y-r.Min.Y), src.BitAt(x, y))
		}
	}
}

var (
	_ ports.Panel         = (*Panel)(nil)
	_ ports.Snapshotter   = (*Panel)(nil)
	_ ports.SlowRefresher = (*EInk)(nil)
)
