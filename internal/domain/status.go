package domain

import "time"

// PowerStatus describes the battery and external supply.
type PowerStatus struct {
	HasBattery    bool
	BatteryMv     int
	ChargePercent int
	IsCharging    bool
	HasUSB        bool
	KnowsUSB      bool
}

// GPSStatus is a GPS fix. Coordinates are in 1e-7 degrees, altitude in meters.
type GPSStatus struct {
	IsConnected   bool
	HasLock       bool
	Latitude      int32
	Longitude     int32
	Altitude      int32
	NumSatellites uint32
	// DOP is the dilution of precision scaled by 100.
	DOP uint32
}

// NodeStatus summarises the node roster.
type NodeStatus struct {
	NumOnline    int
	NumTotal     int
	LastNumTotal int
}

// TotalChanged reports whether the roster size differs from the previous update.
func (s NodeStatus) TotalChanged() bool {
	return s.NumTotal != s.LastNumTotal
}

// NodeInfo is one entry of the node roster.
type NodeInfo struct {
	Num         uint32
	HasUser     bool
	LongName    string
	ShortName   string
	SNR         float32
	LastHeard   time.Time
	HasPosition bool
	Latitude    int32
	Longitude   int32
}

// TextMessage is the last received text message. From is zero for
// messages that originated locally.
type TextMessage struct {
	From uint32
	Text string
}

// UIFrameEvent is emitted by modules that draw frames.
type UIFrameEvent struct {
	// FrameChanged asks for the frame list to be rebuilt.
	FrameChanged bool
	// NeedRedraw asks for a fast redraw of the current frame.
	NeedRedraw bool
}

// WiFiState mirrors the station states a WiFi stack reports.
type WiFiState int

const (
	WiFiIdle WiFiState = iota
	WiFiNoSSID
	WiFiConnected
	WiFiConnectFailed
	WiFiConnectionLost
	WiFiDisconnected
)

// WiFiStatus is the network state shown on the WiFi panel.
type WiFiStatus struct {
	Available        bool
	State            WiFiState
	RSSI             int
	IP               string
	SSID             string
	DisconnectReason int
}

// ModemPreset names the radio modem preset shown on the settings panel.
type ModemPreset int

const (
	PresetLongFast ModemPreset = iota
	PresetLongSlow
	PresetVeryLongSlow
	PresetMediumSlow
	PresetMediumFast
	PresetShortSlow
	PresetShortFast
	PresetCustom
)

// ShortName returns the abbreviation drawn on the settings panel.
func (p ModemPreset) ShortName() string {
	switch p {
	case PresetShortSlow:
		return "ShortS"
	case PresetShortFast:
		return "ShortF"
	case PresetMediumSlow:
		return "MedS"
	case PresetMediumFast:
		return "MedF"
	case PresetLongSlow:
		return "LongS"
	case PresetLongFast:
		return "LongF"
	case PresetVeryLongSlow:
		return "VeryL"
	default:
		return "Custom"
	}
}

// ParseModemPreset maps a config name such as "LONG_FAST" to a preset.
// Unknown names map to PresetCustom.
func ParseModemPreset(name string) ModemPreset {
	switch name {
	case "LONG_FAST", "":
		return PresetLongFast
	case "LONG_SLOW":
		return PresetLongSlow
	case "VERY_LONG_SLOW":
		return PresetVeryLongSlow
	case "MEDIUM_SLOW":
		return PresetMediumSlow
	case "MEDIUM_FAST":
		return PresetMediumFast
	case "SHORT_SLOW":
		return PresetShortSlow
	case "SHORT_FAST":
		return PresetShortFast
	default:
		return PresetCustom
	}
}
