package frames

import "github.com/bft-labs/meshscreen/internal/ports"

const indicatorSpacing = 6

// DrawIndicators draws one dot per frame along the bottom edge with the
// current frame filled. Nothing is drawn for a single frame.
func DrawIndicators(s ports.Surface, current, count int) {
	if count <= 1 {
		return
	}
	total := (count - 1) * indicatorSpacing
	x0 := (s.Width() - total) / 2
	y := s.Height() - 2
	for i := 0; i < count; i++ {
		x := x0 + i*indicatorSpacing
		if i == current {
			s.FillRect(x-1, y-1, 3, 3)
		} else {
			s.SetPixel(x, y)
		}
	}
}
