// Package mono implements the drawing surface on a 1-bit frame buffer
// laid out the way SSD1306 controllers expect it, and an in-memory panel
// used for headless runs and previews.
package mono

import (
	"image"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Default panel size of the common 0.96" modules.
const (
	DefaultWidth  = 128
	DefaultHeight = 64
)

// Surface draws into a VerticalLSB buffer. Coordinates outside the buffer
// are clipped. It is not safe for concurrent use; the display owner
// serialises access.
type Surface struct {
	img      *image1bit.VerticalLSB
	face     font.Face
	ascent   int
	height   int
	inverted bool
}

// NewSurface creates a blank surface of w×h pixels using the 7x13 fixed
// font.
func NewSurface(w, h int) *Surface {
	face := basicfont.Face7x13
	m := face.Metrics()
	return &Surface{
		img:    image1bit.NewVerticalLSB(image.Rect(0, 0, w, h)),
		face:   face,
		ascent: m.Ascent.Ceil(),
		height: m.Height.Ceil(),
	}
}

// Image returns the backing buffer. Callers must not keep it across
// frames.
func (s *Surface) Image() *image1bit.VerticalLSB { return s.img }

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Clear turns every pixel off.
func (s *Surface) Clear() {
	for i := range s.img.Pix {
		s.img.Pix[i] = 0
	}
}

// SetInverted makes later drawing erase pixels instead of lighting them.
func (s *Surface) SetInverted(inverted bool) { s.inverted = inverted }

func (s *Surface) ink() image1bit.Bit {
	return image1bit.Bit(!s.inverted)
}

// SetPixel draws one pixel. Points outside the surface are ignored.
func (s *Surface) SetPixel(x, y int) {
	if !(image.Point{x, y}).In(s.img.Rect) {
		return
	}
	s.img.SetBit(x, y, s.ink())
}

// DrawString draws text with its top left corner at (x, y).
func (s *Surface) DrawString(x, y int, text string) {
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(s.ink()),
		Face: s.face,
		Dot:  fixed.P(x, y+s.ascent),
	}
	d.DrawString(Fold(text))
}

// StringWidth returns the advance of text in pixels.
func (s *Surface) StringWidth(text string) int {
	return font.MeasureString(s.face, Fold(text)).Ceil()
}

// LineHeight returns the font line height in pixels.
func (s *Surface) LineHeight() int { return s.height }

// FillRect fills a w×h rectangle with its top left corner at (x, y).
func (s *Surface) FillRect(x, y, w, h int) {
	r := image.Rect(x, y, x+w, y+h).Intersect(s.img.Rect)
	c := s.ink()
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			s.img.SetBit(px, py, c)
		}
	}
}

// DrawRect draws the outline of a w×h rectangle.
func (s *Surface) DrawRect(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	s.DrawLine(x, y, x+w-1, y)
	s.DrawLine(x, y+h-1, x+w-1, y+h-1)
	s.DrawLine(x, y, x, y+h-1)
	s.DrawLine(x+w-1, y, x+w-1, y+h-1)
}

// DrawLine uses Bresenham's algorithm.
func (s *Surface) DrawLine(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		s.SetPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle draws the outline of a circle with the midpoint algorithm.
func (s *Surface) DrawCircle(cx, cy, r int) {
	if r <= 0 {
		s.SetPixel(cx, cy)
		return
	}
	x, y := r, 0
	err := 1 - r
	for x >= y {
		s.SetPixel(cx+x, cy+y)
		s.SetPixel(cx+y, cy+x)
		s.SetPixel(cx-y, cy+x)
		s.SetPixel(cx-x, cy+y)
		s.SetPixel(cx-x, cy-y)
		s.SetPixel(cx-y, cy-x)
		s.SetPixel(cx+y, cy-x)
		s.SetPixel(cx+x, cy-y)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

// Fold replaces every rune the 7x13 font cannot draw with a single '?'.
// An invalid UTF-8 byte counts as one rune.
func Fold(text string) string {
	ascii := true
	for i := 0; i < len(text); i++ {
		if c := text[i]; c >= utf8.RuneSelf || c < ' ' || c > '~' {
			ascii = false
			break
		}
	}
	if ascii {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= ' ' && r <= '~' {
			b.WriteRune(r)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
