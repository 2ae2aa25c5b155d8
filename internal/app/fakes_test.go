package app

import (
	"image"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/ports"
)

// recordingLogger keeps every message with its level.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	level string
	msg   string
}

func newRecordingLogger() *recordingLogger { return &recordingLogger{} }

func (l *recordingLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level, msg})
}

func (l *recordingLogger) Debug(msg string, _ ...ports.Field) { l.add("debug", msg) }
func (l *recordingLogger) Info(msg string, _ ...ports.Field)  { l.add("info", msg) }
func (l *recordingLogger) Warn(msg string, _ ...ports.Field)  { l.add("warn", msg) }
func (l *recordingLogger) Error(msg string, _ ...ports.Field) { l.add("error", msg) }

func (l *recordingLogger) count(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.msg == msg {
			n++
		}
	}
	return n
}

// fakePanel is a 128x64 panel that records drawing and hardware calls.
type fakePanel struct {
	mu         sync.Mutex
	strings    []string
	fills      int
	rects      int
	flushes    int
	powerCalls []bool
	brightness []uint8
	forced     int
	flushErr   error
}

func (p *fakePanel) Surface() ports.Surface { return p }

func (p *fakePanel) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushes++
	return p.flushErr
}

func (p *fakePanel) SetPower(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.powerCalls = append(p.powerCalls, on)
	return nil
}

func (p *fakePanel) SetBrightness(level uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.brightness = append(p.brightness, level)
	return nil
}

func (p *fakePanel) ForceDisplay() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forced++
	return nil
}

func (p *fakePanel) Width() int  { return 128 }
func (p *fakePanel) Height() int { return 64 }
func (p *fakePanel) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strings = nil
}
func (p *fakePanel) SetInverted(bool)   {}
func (p *fakePanel) SetPixel(int, int)  {}
func (p *fakePanel) LineHeight() int    { return 13 }
func (p *fakePanel) StringWidth(s string) int {
	return 7 * len([]rune(s))
}
func (p *fakePanel) DrawString(_, _ int, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strings = append(p.strings, text)
}
func (p *fakePanel) FillRect(int, int, int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fills++
}
func (p *fakePanel) DrawRect(int, int, int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rects++
}
func (p *fakePanel) DrawLine(int, int, int, int) {}
func (p *fakePanel) DrawCircle(int, int, int)    {}

// drawn returns the strings drawn since the last Clear.
func (p *fakePanel) drawn() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return strings.Join(p.strings, "|")
}

func (p *fakePanel) offCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, on := range p.powerCalls {
		if !on {
			n++
		}
	}
	return n
}

func (p *fakePanel) lastBrightness() (uint8, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.brightness) == 0 {
		return 0, false
	}
	return p.brightness[len(p.brightness)-1], true
}

func (p *fakePanel) counts() (fills, flushes, forced int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fills, p.flushes, p.forced
}

// snapshotPanel also implements ports.Snapshotter.
type snapshotPanel struct {
	fakePanel
}

func (p *snapshotPanel) Surface() ports.Surface { return &p.fakePanel }

func (p *snapshotPanel) Snapshot() image.Image {
	return image.NewGray(image.Rect(0, 0, 128, 64))
}

// manualClock only moves when told to.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeIdentity struct{ region string }

func (fakeIdentity) HardwareAddr() net.HardwareAddr {
	return net.HardwareAddr{0x24, 0x0a, 0xc4, 0x00, 0xab, 0x12}
}
func (fakeIdentity) DeviceName() string      { return "Meshtastic ab12" }
func (i fakeIdentity) Region() string        { return i.region }
func (fakeIdentity) FirmwareVersion() string { return "2.3.0" }

type fakeMessages struct{ msg domain.TextMessage }

func (m fakeMessages) LastMessage() (domain.TextMessage, bool) {
	return m.msg, m.msg.Text != ""
}

type fakeRoster struct {
	mu    sync.Mutex
	nodes []domain.NodeInfo
}

func (r *fakeRoster) NodeStatus() domain.NodeStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.NodeStatus{NumOnline: len(r.nodes), NumTotal: len(r.nodes)}
}
func (r *fakeRoster) NumNodes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nodes)
}
func (r *fakeRoster) NodeByIndex(i int) (domain.NodeInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.nodes) {
		return domain.NodeInfo{}, false
	}
	return r.nodes[i], true
}
func (r *fakeRoster) Node(num uint32) (domain.NodeInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.nodes {
		if n.Num == num {
			return n, true
		}
	}
	return domain.NodeInfo{}, false
}
func (r *fakeRoster) LocalNum() uint32 { return 1 }

func (r *fakeRoster) add(n domain.NodeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = append(r.nodes, n)
}

type fakeNotifier struct {
	mu      sync.Mutex
	active  bool
	stopped int
}

func (n *fakeNotifier) NagActive() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}

func (n *fakeNotifier) StopNag() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.active = false
	n.stopped++
}

// countingWaker counts wake hints.
type countingWaker struct {
	mu sync.Mutex
	n  int
}

func (w *countingWaker) Wake() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.n++
}

func (w *countingWaker) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}
