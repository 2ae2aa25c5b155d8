// Package debuginfo draws the device status panels at the end of the
// carousel: the main status panel, the settings panel and the WiFi panel.
package debuginfo

import (
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/ports"
)

// Sources are the status getters the panels read from. Nil sources are
// drawn as absent.
type Sources struct {
	Power    ports.PowerSource
	GPS      ports.GPSSource
	Nodes    ports.NodeRoster
	Channel  ports.ChannelSource
	WiFi     ports.WiFiSource
	Identity ports.Identity
	Clock    ports.Clock
}

// Settings are the runtime options that change what the panels show.
type Settings struct {
	ModemPreset   domain.ModemPreset
	GPSEnabled    bool
	FixedPosition bool
	Imperial      bool
}

// Info renders the status panels and owns the on-screen log buffer.
type Info struct {
	src     Sources
	started time.Time

	mu       sync.Mutex
	settings Settings
	log      *logBuffer
}

// New creates an Info. Uptime is counted from the clock's current time.
func New(src Sources) *Info {
	if src.Clock == nil {
		src.Clock = systemClock{}
	}
	return &Info{
		src:      src,
		started:  src.Clock.Now(),
		settings: Settings{GPSEnabled: true},
		log:      newLogBuffer(LogLines, LogLineChars),
	}
}

// SetSettings replaces the runtime options.
func (i *Info) SetSettings(s Settings) {
	i.mu.Lock()
	i.settings = s
	i.mu.Unlock()
}

// Print appends text to the log buffer shown on the main panel.
func (i *Info) Print(text string) {
	i.mu.Lock()
	i.log.write(text)
	i.mu.Unlock()
}

// LogLines returns the visible log lines, oldest first.
func (i *Info) LogLines() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.log.lines()
}

func (i *Info) snapshot() (Settings, []string, string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	ch := ""
	if i.src.Channel != nil {
		ch = i.src.Channel.PrimaryChannelName()
	}
	return i.settings, i.log.lines(), ch
}

// OurID returns the last two bytes of the hardware address as hex.
func (i *Info) OurID() string {
	if i.src.Identity == nil {
		return ""
	}
	mac := i.src.Identity.HardwareAddr()
	if len(mac) < 2 {
		return ""
	}
	return fmt.Sprintf("%02x%02x", mac[len(mac)-2], mac[len(mac)-1])
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
