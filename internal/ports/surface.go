package ports

import "image"

// Surface is the drawing capability a frame renders onto. Coordinates are
// pixels from the top-left corner; text is positioned by its top edge.
type Surface interface {
	Width() int
	Height() int

	// Clear blanks the whole surface.
	Clear()

	// SetInverted switches drawing to the background color until reset.
	SetInverted(inverted bool)

	SetPixel(x, y int)
	DrawString(x, y int, text string)
	StringWidth(text string) int
	LineHeight() int
	FillRect(x, y, w, h int)
	DrawRect(x, y, w, h int)
	DrawLine(x0, y0, x1, y1 int)
	DrawCircle(cx, cy, r int)
}

// Panel is the physical display behind a Surface.
type Panel interface {
	Surface() Surface

	// Flush pushes the surface contents to the hardware.
	Flush() error

	SetPower(on bool) error
	SetBrightness(level uint8) error
}

// SlowRefresher is implemented by panels, such as e-ink, that only refresh
// fully when asked.
type SlowRefresher interface {
	ForceDisplay() error
}

// Snapshotter is implemented by panels that can return a copy of the
// last flushed image.
type Snapshotter interface {
	Snapshot() image.Image
}
