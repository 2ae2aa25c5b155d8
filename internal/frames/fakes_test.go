package frames

import (
	"net"
	"strings"
	"sync"
	"time"

	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/ports"
)

// recordingSurface is a 128x64 surface with a 7x13 fixed-width font that
// records every string drawn.
type recordingSurface struct {
	mu      sync.Mutex
	strings []drawnString
	lines   int
	circles int
	pixels  int
	fills   int
}

type drawnString struct {
	x, y int
	text string
}

func (s *recordingSurface) Width() int       { return 128 }
func (s *recordingSurface) Height() int      { return 64 }
func (s *recordingSurface) Clear()           {}
func (s *recordingSurface) SetInverted(bool) {}
func (s *recordingSurface) SetPixel(int, int) {
	s.mu.Lock()
	s.pixels++
	s.mu.Unlock()
}
func (s *recordingSurface) DrawString(x, y int, text string) {
	s.mu.Lock()
	s.strings = append(s.strings, drawnString{x, y, text})
	s.mu.Unlock()
}
func (s *recordingSurface) StringWidth(text string) int { return 7 * len([]rune(text)) }
func (s *recordingSurface) LineHeight() int             { return 13 }
func (s *recordingSurface) FillRect(int, int, int, int) {
	s.mu.Lock()
	s.fills++
	s.mu.Unlock()
}
func (s *recordingSurface) DrawRect(int, int, int, int) {}
func (s *recordingSurface) DrawLine(int, int, int, int) {
	s.mu.Lock()
	s.lines++
	s.mu.Unlock()
}
func (s *recordingSurface) DrawCircle(int, int, int) {
	s.mu.Lock()
	s.circles++
	s.mu.Unlock()
}

func (s *recordingSurface) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.strings))
	for i, d := range s.strings {
		out[i] = d.text
	}
	return out
}

func (s *recordingSurface) has(text string) bool {
	for _, t := range s.texts() {
		if t == text {
			return true
		}
	}
	return false
}

func (s *recordingSurface) joined() string {
	return strings.Join(s.texts(), "|")
}

var _ ports.Surface = (*recordingSurface)(nil)

type fakeRoster struct {
	local uint32
	nodes []domain.NodeInfo
}

func (r *fakeRoster) NodeStatus() domain.NodeStatus {
	return domain.NodeStatus{NumOnline: len(r.nodes), NumTotal: len(r.nodes)}
}
func (r *fakeRoster) NumNodes() int { return len(r.nodes) }
func (r *fakeRoster) NodeByIndex(i int) (domain.NodeInfo, bool) {
	if i < 0 || i >= len(r.nodes) {
		return domain.NodeInfo{}, false
	}
	return r.nodes[i], true
}
func (r *fakeRoster) Node(num uint32) (domain.NodeInfo, bool) {
	for _, n := range r.nodes {
		if n.Num == num {
			return n, true
		}
	}
	return domain.NodeInfo{}, false
}
func (r *fakeRoster) LocalNum() uint32 { return r.local }

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeIdentity struct{ region string }

func (fakeIdentity) HardwareAddr() net.HardwareAddr { return nil }
func (fakeIdentity) DeviceName() string             { return "Meshtastic ab12" }
func (i fakeIdentity) Region() string               { return i.region }
func (fakeIdentity) FirmwareVersion() string        { return "2.1.0" }

type fakeModule struct{ name string }

func (m *fakeModule) Name() string { return m.name }
func (m *fakeModule) DrawFrame(s ports.Surface, _ domain.FrameState, x, y int) {
	s.DrawString(x, y, m.name)
}

type fakeHeading struct{ b float64 }

func (h fakeHeading) Bearing() (float64, bool) { return h.b, true }
