package debuginfo

import (
	"fmt"
	"strings"
	"time"

	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/ports"
	"github.com/bft-labs/meshscreen/pkg/geo"
)

const metersToFeet = 3.28

// DrawMain draws power, node count, GPS, channel, our id and the log buffer.
func (i *Info) DrawMain(s ports.Surface, _ domain.FrameState, x, y int) {
	settings, logLines, channel := i.snapshot()
	lh := s.LineHeight()

	if p := i.powerText(); p != "" {
		s.DrawString(x, y, p)
	}
	if settings.GPSEnabled {
		g := gpsText(i.gps(), settings.FixedPosition)
		s.DrawString(x+s.Width()-s.StringWidth(g), y, g)
	}

	s.DrawString(x, y+lh, channel)
	if i.src.Nodes != nil {
		st := i.src.Nodes.NodeStatus()
		nodes := fmt.Sprintf("%d/%d", st.NumOnline, st.NumTotal)
		s.DrawString(x+(s.Width()-s.StringWidth(nodes))*5/8, y+lh, nodes)
	}
	id := i.OurID()
	s.DrawString(x+s.Width()-s.StringWidth(id), y+lh, id)

	for n, l := range logLines {
		s.DrawString(x, y+lh*(2+n), l)
	}
}

// DrawSettings draws battery, modem preset, uptime, channel utilization
// and the GPS position.
func (i *Info) DrawSettings(s ports.Surface, _ domain.FrameState, x, y int) {
	settings, _, _ := i.snapshot()
	lh := s.LineHeight()

	bat := "USB"
	if p := i.power(); p.HasBattery {
		charging, usb := ' ', ' '
		if p.IsCharging {
			charging = '+'
		}
		if p.HasUSB {
			usb = 'U'
		}
		bat = fmt.Sprintf("B %01d.%02dV %3d%% %c%c",
			p.BatteryMv/1000, (p.BatteryMv%1000)/10, p.ChargePercent, charging, usb)
	}
	s.DrawString(x, y, strings.TrimRight(bat, " "))

	preset := settings.ModemPreset.ShortName()
	s.DrawString(x+s.Width()-s.StringWidth(preset), y, preset)

	s.DrawString(x, y+lh, i.uptimeText())

	util := 0.0
	if i.src.Channel != nil {
		util = i.src.Channel.ChannelUtilization()
	}
	chUtil := fmt.Sprintf("ChUtil %2.0f%%", util)
	s.DrawString(x+s.Width()-s.StringWidth(chUtil), y+lh, chUtil)

	if !settings.GPSEnabled {
		const off = "GPS disabled"
		s.DrawString(x+(s.Width()-s.StringWidth(off))/2, y+lh*2, off)
		return
	}

	g := i.gps()
	if alt, ok := altitudeText(g, settings); ok {
		s.DrawString(x+(s.Width()-s.StringWidth(alt))/2, y+lh*2, alt)
	}
	coords := coordinatesText(g, settings.FixedPosition)
	s.DrawString(x+(s.Width()-s.StringWidth(coords))/2, y+lh*3, coords)
}

// DrawWiFi draws the WiFi connection state.
func (i *Info) DrawWiFi(s ports.Surface, _ domain.FrameState, x, y int) {
	var w domain.WiFiStatus
	if i.src.WiFi != nil {
		w = i.src.WiFi.WiFiStatus()
	}
	lh := s.LineHeight()

	if w.State == domain.WiFiConnected {
		s.DrawString(x, y, "WiFi: Connected")
		rssi := fmt.Sprintf("RSSI %d", w.RSSI)
		s.DrawString(x+s.Width()-s.StringWidth(rssi), y, rssi)
	} else {
		s.DrawString(x, y, "WiFi: Not Connected")
	}

	s.DrawString(x, y+lh, WiFiStatusText(w))
	s.DrawString(x, y+lh*2, "SSID: "+w.SSID)
	s.DrawString(x, y+lh*3, "http://meshtastic.local")
}

func (i *Info) power() domain.PowerStatus {
	if i.src.Power == nil {
		return domain.PowerStatus{}
	}
	return i.src.Power.PowerStatus()
}

func (i *Info) gps() domain.GPSStatus {
	if i.src.GPS == nil {
		return domain.GPSStatus{}
	}
	return i.src.GPS.GPSStatus()
}

func (i *Info) powerText() string {
	p := i.power()
	switch {
	case p.HasBattery:
		return fmt.Sprintf("B %d.%02dV %d%%", p.BatteryMv/1000, (p.BatteryMv%1000)/10, p.ChargePercent)
	case p.KnowsUSB && p.HasUSB:
		return "USB"
	case p.KnowsUSB:
		return "PWR"
	default:
		return ""
	}
}

func gpsText(g domain.GPSStatus, fixed bool) string {
	switch {
	case fixed:
		return "Fixed GPS"
	case !g.IsConnected:
		return "No GPS"
	case !g.HasLock:
		return "No sats"
	default:
		return fmt.Sprintf("%d sats", g.NumSatellites)
	}
}

func altitudeText(g domain.GPSStatus, st Settings) (string, bool) {
	if !st.FixedPosition && (!g.IsConnected || !g.HasLock) {
		return "", false
	}
	if st.Imperial {
		return fmt.Sprintf("Altitude: %.0fft", float64(g.Altitude)*metersToFeet), true
	}
	return fmt.Sprintf("Altitude: %dm", g.Altitude), true
}

func coordinatesText(g domain.GPSStatus, fixed bool) string {
	switch {
	case !fixed && !g.IsConnected:
		return "No GPS Module"
	case !fixed && !g.HasLock:
		return "No GPS Lock"
	default:
		return fmt.Sprintf("%.4f %.4f", geo.DegD(g.Latitude), geo.DegD(g.Longitude))
	}
}

// uptimeText shows the largest sensible unit of uptime, followed by the
// time of day when the wall clock has been set.
func (i *Info) uptimeText() string {
	now := i.src.Clock.Now()
	up := now.Sub(i.started)
	if up < 0 {
		up = 0
	}
	secs := int64(up / time.Second)
	mins, hours, days := secs/60, secs/3600, secs/86400

	var b strings.Builder
	switch {
	case days >= 2:
		fmt.Fprintf(&b, "%dd ", days)
	case hours >= 2:
		fmt.Fprintf(&b, "%dh ", hours)
	case mins >= 1:
		fmt.Fprintf(&b, "%dm ", mins)
	default:
		fmt.Fprintf(&b, "%ds ", secs)
	}

	if wallClockValid(now) {
		hms := now.Unix() % 86400
		if hms < 0 {
			hms += 86400
		}
		fmt.Fprintf(&b, "%02d:%02d:%02d", hms/3600, (hms%3600)/60, hms%60)
	}
	return strings.TrimRight(b.String(), " ")
}

// wallClockValid is false for clocks that have not been set since boot.
func wallClockValid(t time.Time) bool {
	return t.Year() >= 2020
}

var wifiReasons = map[int]string{
	2:   "Authentication Invalid",
	3:   "De-authenticated",
	4:   "Disassociated Expired",
	5:   "AP - Too Many Clients",
	6:   "NOT_AUTHED",
	7:   "NOT_ASSOCED",
	8:   "Disassociated",
	9:   "ASSOC_NOT_AUTHED",
	10:  "DISASSOC_PWRCAP_BAD",
	11:  "DISASSOC_SUPCHAN_BAD",
	13:  "IE_INVALID",
	14:  "MIC_FAILURE",
	15:  "AP Handshake Timeout",
	16:  "GROUP_KEY_UPDATE_TIMEOUT",
	17:  "IE_IN_4WAY_DIFFERS",
	18:  "Invalid Group Cipher",
	19:  "Invalid Pairwise Cipher",
	20:  "AKMP_INVALID",
	21:  "UNSUPP_RSN_IE_VERSION",
	22:  "INVALID_RSN_IE_CAP",
	23:  "802_1X_AUTH_FAILED",
	24:  "CIPHER_SUITE_REJECTED",
	200: "BEACON_TIMEOUT",
	201: "AP Not Found",
	202: "AUTH_FAIL",
	203: "ASSOC_FAIL",
	204: "HANDSHAKE_TIMEOUT",
	205: "Connection Failed",
}

// WiFiStatusText is the second line of the WiFi panel.
func WiFiStatusText(w domain.WiFiStatus) string {
	switch w.State {
	case domain.WiFiConnected:
		return "IP: " + w.IP
	case domain.WiFiNoSSID:
		return "SSID Not Found"
	case domain.WiFiConnectionLost:
		return "Connection Lost"
	case domain.WiFiConnectFailed:
		return "Connection Failed"
	case domain.WiFiIdle:
		return "Idle ... Reconnecting"
	}
	if text, ok := wifiReasons[w.DisconnectReason]; ok {
		return text
	}
	return "Unknown Status"
}
