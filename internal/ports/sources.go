package ports

import (
	"net"
	"time"

	"github.com/bft-labs/meshscreen/internal/domain"
)

// PowerSource reports battery and supply state.
type PowerSource interface {
	PowerStatus() domain.PowerStatus
}

// GPSSource reports the current GPS fix.
type GPSSource interface {
	GPSStatus() domain.GPSStatus
}

// NodeRoster is the set of known mesh nodes, including the local one.
type NodeRoster interface {
	NodeStatus() domain.NodeStatus
	NumNodes() int
	NodeByIndex(i int) (domain.NodeInfo, bool)
	Node(num uint32) (domain.NodeInfo, bool)
	LocalNum() uint32
}

// ChannelSource reports the primary channel and its airtime.
type ChannelSource interface {
	PrimaryChannelName() string
	// ChannelUtilization is a percentage in [0, 100].
	ChannelUtilization() float64
}

// WiFiSource reports the WiFi station state.
type WiFiSource interface {
	WiFiStatus() domain.WiFiStatus
}

// MessageSource returns the last received text message, if any.
type MessageSource interface {
	LastMessage() (domain.TextMessage, bool)
}

// FaultSource returns the current critical fault code, zero when healthy.
type FaultSource interface {
	FaultCode() uint32
}

// Identity describes the device itself.
type Identity interface {
	HardwareAddr() net.HardwareAddr
	DeviceName() string
	// Region is the configured radio region name, empty when unset.
	Region() string
	FirmwareVersion() string
}

// Notifier is an external notification that keeps nagging the user until
// a button press silences it.
type Notifier interface {
	NagActive() bool
	StopNag()
}

// Module is a pluggable content provider that draws one carousel frame.
type Module interface {
	Name() string
	DrawFrame(s Surface, st domain.FrameState, x, y int)
}

// ModuleRegistry returns the modules that currently want a frame, in
// registration order.
type ModuleRegistry interface {
	ModuleFrames() []Module
}

// Geodesy computes bearings (radians, clockwise from north) and distances
// (meters) between coordinates in degrees.
type Geodesy interface {
	Bearing(lat1, lon1, lat2, lon2 float64) float64
	DistanceMeters(lat1, lon1, lat2, lon2 float64) float64
}

// Clock is the engine's time source.
type Clock interface {
	Now() time.Time
}
