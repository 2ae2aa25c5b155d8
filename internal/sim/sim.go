// Package sim is a simulated mesh device. It serves every status getter
// the screen reads and publishes changes to a status hub, so the display
// can run without a radio.
package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/ports"
	"github.com/bft-labs/meshscreen/pkg/log"
	"github.com/bft-labs/meshscreen/pkg/status"
)

// Config shapes the simulated device.
type Config struct {
	Name     string
	Region   string
	Firmware string
	Channel  string

	// Nodes is how many remote nodes eventually join.
	Nodes int
	// JoinEvery and MessageEvery count steps between events. Zero
	// disables them.
	JoinEvery    int
	MessageEvery int

	Latitude  float64
	Longitude float64
	// StepMeters is how far the device walks per step.
	StepMeters float64

	WiFi bool
	Seed int64
}

// DefaultConfig returns a small mesh around Berlin.
func DefaultConfig() Config {
	return Config{
		Name:         "Meshtastic 7c3a",
		Region:       "EU_868",
		Firmware:     "2.3.0-sim",
		Channel:      "LongFast",
		Nodes:        4,
		JoinEvery:    3,
		MessageEvery: 10,
		Latitude:     52.5200,
		Longitude:    13.4050,
		StepMeters:   15,
		Seed:         1,
	}
}

const localNum = 0x7c3a

// Device implements the screen's status sources.
type Device struct {
	cfg    Config
	hub    *status.Hub
	logger log.Logger
	rng    *rand.Rand

	mu       sync.RWMutex
	steps    int
	power    domain.PowerStatus
	gps      domain.GPSStatus
	nodes    []domain.NodeInfo
	message  domain.TextMessage
	hasMsg   bool
	fault    uint32
	chUtil   float64
	wifi     domain.WiFiStatus
	region   string
	nag      bool
	heading  float64
	lat, lon float64
}

// New creates a Device publishing to hub. The local node is the first
// roster entry.
func New(cfg Config, hub *status.Hub, logger log.Logger) *Device {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	d := &Device{
		cfg:    cfg,
		hub:    hub,
		logger: logger,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		region: cfg.Region,
		lat:    cfg.Latitude,
		lon:    cfg.Longitude,
		power: domain.PowerStatus{
			HasBattery:    true,
			BatteryMv:     4100,
			ChargePercent: 90,
			KnowsUSB:      true,
		},
	}
	d.nodes = []domain.NodeInfo{{
		Num:       localNum,
		HasUser:   true,
		LongName:  cfg.Name,
		ShortName: "7c3a",
	}}
	if cfg.WiFi {
		d.wifi = domain.WiFiStatus{
			Available: true,
			State:     domain.WiFiConnected,
			RSSI:      -61,
			IP:        "192.168.1.40",
			SSID:      "meshnet",
		}
	}
	return d
}

// Run steps the device every interval until ctx is canceled.
func (d *Device) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			d.Step(now)
		}
	}
}

// Step advances the simulation once and publishes what changed.
func (d *Device) Step(now time.Time) {
	d.mu.Lock()
	d.steps++
	step := d.steps

	d.power.BatteryMv = max(3300, d.power.BatteryMv-d.rng.Intn(5))
	d.power.ChargePercent = clamp((d.power.BatteryMv-3300)*100/(4200-3300), 0, 100)
	power := d.power

	d.walk()
	gps := d.gps

	d.chUtil = math.Round(d.rng.Float64()*30*10) / 10

	lastTotal := len(d.nodes)
	if d.cfg.JoinEvery > 0 && step%d.cfg.JoinEvery == 0 && len(d.nodes) <= d.cfg.Nodes {
		d.nodes = append(d.nodes, d.newNode(len(d.nodes), now))
	}
	for i := 1; i < len(d.nodes); i++ {
		if d.rng.Intn(3) == 0 {
			d.nodes[i].LastHeard = now
			d.nodes[i].SNR = float32(d.rng.Intn(200)-100) / 10
		}
	}
	nodes := domain.NodeStatus{
		NumOnline:    d.online(now),
		NumTotal:     len(d.nodes),
		LastNumTotal: lastTotal,
	}

	var msg *domain.TextMessage
	if d.cfg.MessageEvery > 0 && step%d.cfg.MessageEvery == 0 && len(d.nodes) > 1 {
		from := d.nodes[1+d.rng.Intn(len(d.nodes)-1)]
		d.message = domain.TextMessage{From: from.Num, Text: messages[d.rng.Intn(len(messages))]}
		d.hasMsg = true
		m := d.message
		msg = &m
	}
	d.mu.Unlock()

	d.hub.Power.Notify(power)
	d.hub.GPS.Notify(gps)
	d.hub.Nodes.Notify(nodes)
	if msg != nil {
		d.logger.Debug("simulated message", log.Uint32("from", msg.From), log.String("text", msg.Text))
		d.hub.Messages.Notify(*msg)
	}
}

var messages = []string{
	"Anyone on the hill tonight?",
	"Signal check from the north relay",
	"Battery swap done, back online",
	"Heading to the trailhead now",
}

// walk moves the device StepMeters along a slowly turning heading.
func (d *Device) walk() {
	d.heading += (d.rng.Float64() - 0.5) * 0.3
	const metersPerDegree = 111_320.0
	dLat := d.cfg.StepMeters * math.Cos(d.heading) / metersPerDegree
	dLon := d.cfg.StepMeters * math.Sin(d.heading) / (metersPerDegree * math.Cos(d.lat*math.Pi/180))
	d.lat += dLat
	d.lon += dLon
	d.gps = domain.GPSStatus{
		IsConnected:   true,
		HasLock:       true,
		Latitude:      int32(d.lat * 1e7),
		Longitude:     int32(d.lon * 1e7),
		Altitude:      34 + int32(d.rng.Intn(5)),
		NumSatellites: uint32(6 + d.rng.Intn(5)),
		DOP:           uint32(90 + d.rng.Intn(60)),
	}
}

func (d *Device) newNode(i int, now time.Time) domain.NodeInfo {
	angle := d.rng.Float64() * 2 * math.Pi
	dist := 200 + d.rng.Float64()*3000
	lat := d.lat + dist*math.Cos(angle)/111_320
	lon := d.lon + dist*math.Sin(angle)/(111_320*math.Cos(d.lat*math.Pi/180))
	num := uint32(0x1000 + i*0x111)
	return domain.NodeInfo{
		Num:         num,
		HasUser:     true,
		LongName:    fmt.Sprintf("Relay %d", i),
		ShortName:   fmt.Sprintf("R%d", i),
		SNR:         float32(d.rng.Intn(200)-100) / 10,
		LastHeard:   now,
		HasPosition: true,
		Latitude:    int32(lat * 1e7),
		Longitude:   int32(lon * 1e7),
	}
}

func (d *Device) online(now time.Time) int {
	n := 0
	for _, node := range d.nodes[1:] {
		if now.Sub(node.LastHeard) < 2*time.Hour {
			n++
		}
	}
	return n
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// SetFault raises a critical fault code. Zero clears it.
func (d *Device) SetFault(code uint32) {
	d.mu.Lock()
	d.fault = code
	d.mu.Unlock()
	d.hub.UIEvents.Notify(domain.UIFrameEvent{FrameChanged: true})
}

// SetNag turns the external notification nag on or off.
func (d *Device) SetNag(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nag = on
}

// SetRegion changes the configured region.
func (d *Device) SetRegion(region string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.region = region
}

// PowerStatus returns the simulated battery state.
func (d *Device) PowerStatus() domain.PowerStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.power
}

// GPSStatus returns the simulated fix.
func (d *Device) GPSStatus() domain.GPSStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.gps
}

// NodeStatus counts every remote node as online.
func (d *Device) NodeStatus() domain.NodeStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return domain.NodeStatus{NumOnline: len(d.nodes) - 1, NumTotal: len(d.nodes), LastNumTotal: len(d.nodes)}
}

// NumNodes returns the roster size, the local node included.
func (d *Device) NumNodes() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.nodes)
}

// NodeByIndex returns the i-th roster entry.
func (d *Device) NodeByIndex(i int) (domain.NodeInfo, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i < 0 || i >= len(d.nodes) {
		return domain.NodeInfo{}, false
	}
	return d.nodes[i], true
}

// Node looks a node up by number.
func (d *Device) Node(num uint32) (domain.NodeInfo, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, n := range d.nodes {
		if n.Num == num {
			return n, true
		}
	}
	return domain.NodeInfo{}, false
}

// LocalNum returns the number of the simulated local node.
func (d *Device) LocalNum() uint32 { return localNum }

// PrimaryChannelName returns the configured channel name.
func (d *Device) PrimaryChannelName() string { return d.cfg.Channel }

// ChannelUtilization returns the simulated airtime use in percent.
func (d *Device) ChannelUtilization() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.chUtil
}

// WiFiStatus returns the simulated network state.
func (d *Device) WiFiStatus() domain.WiFiStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.wifi
}

// LastMessage returns the most recent text message, if any.
func (d *Device) LastMessage() (domain.TextMessage, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.message, d.hasMsg
}

// FaultCode returns the fault set by SetFault, zero when healthy.
func (d *Device) FaultCode() uint32 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fault
}

// HardwareAddr returns a fixed MAC address.
func (d *Device) HardwareAddr() net.HardwareAddr {
	return net.HardwareAddr{0x24, 0x0a, 0xc4, 0x1f, 0x7c, 0x3a}
}

// DeviceName returns the configured long name.
func (d *Device) DeviceName() string { return d.cfg.Name }

// FirmwareVersion returns the configured firmware string.
func (d *Device) FirmwareVersion() string { return d.cfg.Firmware }

// Region returns the radio region, empty when unset.
func (d *Device) Region() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.region
}

// NagActive reports whether the notification set by SetNag is still on.
func (d *Device) NagActive() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.nag
}

// StopNag silences the notification.
func (d *Device) StopNag() {
	d.mu.Lock()
	d.nag = false
	d.mu.Unlock()
	d.logger.Debug("notification nag silenced")
}

var (
	_ ports.PowerSource   = (*Device)(nil)
	_ ports.GPSSource     = (*Device)(nil)
	_ ports.NodeRoster    = (*Device)(nil)
	_ ports.ChannelSource = (*Device)(nil)
	_ ports.WiFiSource    = (*Device)(nil)
	_ ports.MessageSource = (*Device)(nil)
	_ ports.FaultSource   = (*Device)(nil)
	_ ports.Identity      = (*Device)(nil)
	_ ports.Notifier      = (*Device)(nil)
)
