package app

import (
	"time"

	"github.com/bft-labs/meshscreen/internal/command"
	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/frames"
	"github.com/bft-labs/meshscreen/internal/mode"
	"github.com/bft-labs/meshscreen/pkg/log"
)

// Apply executes one command. It runs on the render goroutine, either from
// RunOnce draining the channel or from a screen that queues its own events.
func (e *Engine) Apply(cmd command.Command) {
	switch cmd.Kind {
	case command.KindSetOn:
		e.panelMu.Lock()
		changed := e.setPowerLocked(true)
		e.panelMu.Unlock()
		if changed {
			e.setFastFramerate()
		}
		if e.machine.Mode() == mode.AsleepEink {
			e.enter(mode.Normal, "wake")
		}
	case command.KindSetOff:
		e.SetOff()
	case command.KindButtonPress:
		if e.deps.Notifier != nil && e.deps.Notifier.NagActive() {
			// The first press only silences the notification.
			e.deps.Notifier.StopNag()
			return
		}
		e.onPress(e.clock.Now())
	case command.KindStartBtPinScreen:
		e.pin = frames.FormatPin(cmd.Pin)
		e.logger.Info("showing bluetooth pin", log.String("pin", e.pin))
		e.enter(mode.BluetoothPairing, "bluetooth pairing")
	case command.KindStopBtPinScreen:
		e.enter(mode.Normal, "bluetooth paired")
	case command.KindStopBootScreen:
		// Also ends certificate generation, which stands in for the boot
		// screen while it runs.
		m := e.machine.Mode()
		if m == mode.SSLProvisioning {
			e.enter(mode.Normal, "ssl provisioning done")
			return
		}
		if !e.showingBoot && !m.IsBoot() {
			return
		}
		e.showingBoot = false
		e.oemPending = false
		if m.IsBoot() {
			e.enter(mode.Normal, "boot screen stopped")
		}
	case command.KindStartShutdown:
		e.enter(mode.Shutdown, "shutdown")
	case command.KindStartReboot:
		e.enter(mode.Reboot, "reboot")
	case command.KindStartFirmwareUpdate:
		e.enter(mode.FirmwareUpdate, "firmware update")
	case command.KindPrint:
		e.print(cmd)
	default:
		e.logger.Warn("unknown command",
			log.Err(domain.ErrUnknownCommand),
			log.Stringer("kind", cmd.Kind),
		)
	}
}

// onPress starts a slide to the next frame. Presses during a slide or
// outside the normal carousel are ignored.
func (e *Engine) onPress(now time.Time) {
	if e.applied != mode.Normal {
		return
	}
	if !e.carousel.next(now) {
		return
	}
	e.lastTransition = now
	e.setFastFramerate()
}

func (e *Engine) print(cmd command.Command) {
	if cmd.Text == nil {
		return
	}
	text := trimNewline(cmd.Text.String())
	e.logger.Debug("screen print", log.String("text", text))
	if e.applied != mode.Normal {
		return
	}
	e.debug.Print(cmd.Text.String())
	e.setFastFramerate()
}
