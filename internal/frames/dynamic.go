package frames

import (
	"fmt"
	"math"
	"time"

	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/ports"
	"github.com/bft-labs/meshscreen/pkg/geo"
)

// HeadingSource supplies our own estimated heading in radians.
type HeadingSource interface {
	Bearing() (float64, bool)
}

// FaultFrame shows a critical fault code.
func FaultFrame(code uint32) Renderable {
	return RenderFunc(func(s ports.Surface, _ domain.FrameState, x, y int) {
		lh := s.LineHeight()
		s.DrawString(x, y, fmt.Sprintf("Critical fault #%d", code))
		s.DrawString(x, y+lh, "For help, please visit")
		s.DrawString(x, y+2*lh, "meshtastic.org")
	})
}

// MessageFrame shows the last received text message and its sender.
func MessageFrame(msg domain.TextMessage, roster ports.NodeRoster) Renderable {
	return RenderFunc(func(s ports.Surface, _ domain.FrameState, x, y int) {
		from := "???"
		if roster != nil {
			if n, ok := roster.Node(msg.From); ok && n.HasUser {
				from = n.ShortName
			}
		}
		s.DrawString(x, y, "From: "+from)
		drawWrapped(s, x, y+s.LineHeight(), msg.Text)
	})
}

// ModuleFrame delegates drawing to a module.
func ModuleFrame(m ports.Module) Renderable {
	return RenderFunc(func(s ports.Surface, st domain.FrameState, x, y int) {
		m.DrawFrame(s, st, x, y)
	})
}

// NodeFrame shows one remote node with a compass pointing at it.
type NodeFrame struct {
	Roster   ports.NodeRoster
	Rotator  *Rotator
	Heading  HeadingSource
	Geo      ports.Geodesy
	Clock    ports.Clock
	Imperial bool
	// NorthTop keeps north at the top of the compass instead of rotating
	// it with our heading.
	NorthTop bool
}

// Draw implements Renderable.
func (f *NodeFrame) Draw(s ports.Surface, st domain.FrameState, x, y int) {
	var node domain.NodeInfo
	var ok bool
	if st.InTransition && st.Incoming {
		// Shown once the slide lands, one step from now.
		node, ok = f.Rotator.Peek(st.Step+1, f.Roster)
	} else {
		node, ok = f.Rotator.Select(st.Step, f.Roster)
	}
	if !ok {
		return
	}

	name := "Unknown Name"
	if node.HasUser {
		name = node.LongName
	}
	dist := "? km"

	diam := compassDiam(s)
	cx := x + s.Width() - diam/2 - 5
	cy := y + s.Height()/2

	hasNodeHeading := false
	if me, ok := f.Roster.Node(f.Roster.LocalNum()); ok && hasPosition(me) {
		myHeading := 0.0
		if f.Heading != nil {
			myHeading, _ = f.Heading.Bearing()
		}
		north := myHeading
		if f.NorthTop {
			north = 0
		}
		drawCompassNorth(s, cx, cy, diam, north)

		if hasPosition(node) {
			hasNodeHeading = true
			myLat, myLon := geo.DegD(me.Latitude), geo.DegD(me.Longitude)
			lat, lon := geo.DegD(node.Latitude), geo.DegD(node.Longitude)

			dist = geo.FormatDistance(f.Geo.DistanceMeters(lat, lon, myLat, myLon), f.Imperial)

			toOther := f.Geo.Bearing(myLat, myLon, lat, lon)
			if !f.NorthTop {
				toOther -= myHeading
			}
			drawNodeHeading(s, cx, cy, diam, toOther)
		}
	}
	if !hasNodeHeading {
		lh := s.LineHeight()
		s.DrawString(cx-lh/4, cy-lh/2, "?")
	}
	s.DrawCircle(cx, cy, diam/2)

	drawColumns(s, x, y, []string{
		name,
		dist,
		SignalText(node.SNR),
		LastHeardText(node.LastHeard, f.Clock.Now()),
	})
}

// SignalText maps an SNR to a rough percentage.
func SignalText(snr float32) string {
	pct := int((snr + 10) * 5)
	pct = max(0, min(100, pct))
	return fmt.Sprintf("Signal: %d%%", pct)
}

// LastHeardText describes how long ago a node was heard.
func LastHeardText(lastHeard, now time.Time) string {
	if lastHeard.IsZero() {
		return "unknown age"
	}
	ago := now.Sub(lastHeard)
	if ago < 0 {
		ago = 0
	}
	secs := int64(ago / time.Second)
	switch {
	case secs < 120:
		return fmt.Sprintf("%d seconds ago", secs)
	case secs < 120*60:
		return fmt.Sprintf("%d minutes ago", secs/60)
	case secs/3600 < 730*6:
		return fmt.Sprintf("%d hours ago", secs/3600)
	default:
		// Anything older than six months is treated as bad data.
		return "unknown age"
	}
}

func hasPosition(n domain.NodeInfo) bool {
	return n.HasPosition && (n.Latitude != 0 || n.Longitude != 0)
}

func compassDiam(s ports.Surface) int {
	w, h := s.Width(), s.Height()
	var d int
	if w > h {
		d = min(h, w*2/3)
	} else {
		d = min(w, h*2/3)
	}
	return d - 20
}

type point struct{ x, y float64 }

// place rotates p by rad, scales it by f with the y axis flipped for the
// screen, then moves it to (cx, cy).
func (p point) place(rad, f float64, cx, cy int) point {
	sin, cos := math.Sincos(rad)
	rx := p.x*cos + p.y*sin
	ry := -p.x*sin + p.y*cos
	return point{rx*f + float64(cx), -ry*f + float64(cy)}
}

func line(s ports.Surface, a, b point) {
	s.DrawLine(int(a.x), int(a.y), int(b.x), int(b.y))
}

func drawNodeHeading(s ports.Surface, cx, cy, diam int, rad float64) {
	f := float64(diam) * 0.6
	tip := point{0, 0.5}.place(rad, f, cx, cy)
	tail := point{0, -0.5}.place(rad, f, cx, cy)
	left := point{-0.2, 0.3}.place(rad, f, cx, cy)
	right := point{0.2, 0.3}.place(rad, f, cx, cy)

	line(s, tip, tail)
	line(s, left, tip)
	line(s, right, tip)
}

func drawCompassNorth(s ports.Surface, cx, cy, diam int, heading float64) {
	f := float64(diam)
	n1 := point{-0.04, 0.65}.place(-heading, f, cx, cy)
	n2 := point{0.04, 0.65}.place(-heading, f, cx, cy)
	n3 := point{-0.04, 0.55}.place(-heading, f, cx, cy)
	n4 := point{0.04, 0.55}.place(-heading, f, cx, cy)

	line(s, n1, n3)
	line(s, n2, n4)
	line(s, n1, n4)
}
