package frames

import (
	"time"

	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/ports"
)

const (
	siteTitle   = "meshtastic.org"
	welcomeLogo = `//\ E S H T /\ S T / C`

	// welcomePage is how long each welcome page stays up.
	welcomePage = 10 * time.Second
)

// Static renders the single-frame screens shown outside the normal
// carousel.
type Static struct {
	Identity ports.Identity
	Clock    ports.Clock
	// Refresher, if set, is asked for a full refresh after icon screens.
	Refresher ports.SlowRefresher
	// OEMText replaces the site title on the OEM boot screen.
	OEMText string
}

// Boot shows the logo with the region and firmware version.
func (f Static) Boot() Renderable {
	return RenderFunc(func(s ports.Surface, _ domain.FrameState, x, y int) {
		f.drawIcon(s, x, y, f.Identity.Region(), siteTitle)
	})
}

// OEMBoot shows the logo with the OEM text as its title.
func (f Static) OEMBoot() Renderable {
	return RenderFunc(func(s ports.Surface, _ domain.FrameState, x, y int) {
		f.drawIcon(s, x, y, f.Identity.Region(), f.OEMText)
	})
}

// Sleep is drawn on slow-refresh panels before deep sleep.
func (f Static) Sleep() Renderable {
	return RenderFunc(func(s ports.Surface, _ domain.FrameState, x, y int) {
		f.drawIcon(s, x, y, "Sleeping...", siteTitle)
	})
}

// Welcome is shown while the radio region is unset. The lower lines
// alternate every 10 seconds.
func (f Static) Welcome() Renderable {
	return RenderFunc(func(s ports.Surface, _ domain.FrameState, x, y int) {
		lh := s.LineHeight()
		name := f.Identity.DeviceName()
		s.DrawString(x+CenterX(s, welcomeLogo), y, welcomeLogo)
		s.DrawString(x+CenterX(s, name), y+lh, name)

		lines := []string{"Visit meshtastic.org", "for more information."}
		if (f.Clock.Now().UnixNano()/int64(welcomePage))%2 == 1 {
			lines = []string{"Set the region using the", "Meshtastic Android, iOS,", "Flasher or CLI client."}
		}
		for i, l := range lines {
			s.DrawString(x, y+lh*(i+2)-3, l)
		}
	})
}

// Bluetooth shows the pairing pin, already formatted with FormatPin.
func (f Static) Bluetooth(pin string) Renderable {
	return RenderFunc(func(s ports.Surface, _ domain.FrameState, x, y int) {
		lh := s.LineHeight()
		name := "Name: " + f.Identity.DeviceName()

		s.DrawString(x+CenterX(s, "Bluetooth"), y, "Bluetooth")
		s.DrawString(x+CenterX(s, "Enter this code"), y+lh, "Enter this code")
		// Bold by overdrawing one pixel to the right.
		px := x + CenterX(s, pin)
		s.DrawString(px, y+2*lh, pin)
		s.DrawString(px+1, y+2*lh, pin)
		s.DrawString(x+CenterX(s, name), y+3*lh+2, name)
	})
}

// Shutdown is shown while the device powers down.
func (f Static) Shutdown() Renderable {
	return centeredMessage("Shutting down...")
}

// Reboot is shown while the device restarts.
func (f Static) Reboot() Renderable {
	return centeredMessage("Rebooting...")
}

// Firmware is shown during a firmware update.
func (f Static) Firmware() Renderable {
	return RenderFunc(func(s ports.Surface, _ domain.FrameState, x, y int) {
		s.DrawString(x+CenterX(s, "Updating"), y, "Updating")
		drawWrapped(s, x, y+2+s.LineHeight()*2, "Please be patient and do not power off.")
	})
}

// SSL is shown while a TLS certificate is generated. The trailing dots
// blink once a second.
func (f Static) SSL() Renderable {
	return RenderFunc(func(s ports.Surface, _ domain.FrameState, x, y int) {
		const title = "Creating SSL certificate"
		s.DrawString(x+CenterX(s, title), y, title)

		wait := "Please wait . .  "
		if f.Clock.Now().Unix()%2 == 1 {
			wait = "Please wait . . ."
		}
		s.DrawString(x+CenterX(s, wait), y+s.LineHeight()+2, wait)
	})
}

func centeredMessage(msg string) Renderable {
	return RenderFunc(func(s ports.Surface, _ domain.FrameState, x, y int) {
		s.DrawString(x+CenterX(s, msg), y+(s.Height()-s.LineHeight())/2, msg)
	})
}

// drawIcon draws the logo centered above a title, with upper in the top
// left corner and the firmware version in the top right.
func (f Static) drawIcon(s ports.Surface, x, y int, upper, title string) {
	lh := s.LineHeight()
	drawLogo(s, x+s.Width()/2, y+(s.Height()-lh)/2+2, s.Height()-2*lh-4)

	s.DrawString(x+CenterX(s, title), y+s.Height()-lh, title)
	if upper != "" {
		s.DrawString(x, y, upper)
	}
	version := f.Identity.FirmwareVersion()
	s.DrawString(x+RightX(s, version), y, version)

	if f.Refresher != nil {
		_ = f.Refresher.ForceDisplay()
	}
}

// drawLogo draws two interleaved peaks of height h centered on (cx, cy).
func drawLogo(s ports.Surface, cx, cy, h int) {
	if h < 4 {
		return
	}
	top, bottom := cy-h/2, cy+h/2
	half := h / 2
	// Left stroke and first peak.
	s.DrawLine(cx-2*half, bottom, cx-half, top)
	s.DrawLine(cx-half, top, cx, bottom)
	// Second peak.
	s.DrawLine(cx-half/2, bottom, cx+half/2, top)
	s.DrawLine(cx+half/2, top, cx+3*half/2, bottom)
}
