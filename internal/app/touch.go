package app

import (
	"time"

	"github.com/bft-labs/meshscreen/internal/command"
	"github.com/bft-labs/meshscreen/pkg/log"
)

// TouchQueueCapacity bounds each of the touch event queues.
const TouchQueueCapacity = 10

// TouchEvent is a request accepted by the touch engine.
type TouchEvent int

const (
	// Navigation events.
	TouchBluetoothEnter TouchEvent = iota
	TouchBluetoothExit
	TouchShutdown
	TouchFirmwareUpdate
	TouchReboot
	TouchSSL

	// Input events.
	TouchPress
	TouchBrightness

	// Screen events.
	TouchBlink
	TouchDeepSleep
	TouchOn
	TouchOff
	TouchFlush
)

var touchEventNames = [...]string{
	TouchBluetoothEnter: "BluetoothEnter",
	TouchBluetoothExit:  "BluetoothExit",
	TouchShutdown:       "Shutdown",
	TouchFirmwareUpdate: "FirmwareUpdate",
	TouchReboot:         "Reboot",
	TouchSSL:            "SSL",
	TouchPress:          "Press",
	TouchBrightness:     "Brightness",
	TouchBlink:          "Blink",
	TouchDeepSleep:      "DeepSleep",
	TouchOn:             "On",
	TouchOff:            "Off",
	TouchFlush:          "Flush",
}

func (ev TouchEvent) String() string {
	if ev >= 0 && int(ev) < len(touchEventNames) {
		return touchEventNames[ev]
	}
	return "Unknown"
}

type touchRequest struct {
	event TouchEvent
	pin   uint32
}

// Touch feeds an Engine from three bounded queues. Screen events are
// handled first, then navigation, then input.
type Touch struct {
	engine *Engine
	logger log.Logger
	waker  command.Waker

	screen     chan touchRequest
	navigation chan touchRequest
	input      chan touchRequest
}

// NewTouch wraps engine. waker is told whenever an event is queued.
func NewTouch(engine *Engine, logger log.Logger, waker command.Waker) *Touch {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Touch{
		engine:     engine,
		logger:     logger,
		waker:      waker,
		screen:     make(chan touchRequest, TouchQueueCapacity),
		navigation: make(chan touchRequest, TouchQueueCapacity),
		input:      make(chan touchRequest, TouchQueueCapacity),
	}
}

// Send queues ev. It never blocks and returns false if the queue for ev
// is full.
func (t *Touch) Send(ev TouchEvent) bool {
	return t.send(touchRequest{event: ev})
}

// SendBluetoothPin queues the pairing screen for pin.
func (t *Touch) SendBluetoothPin(pin uint32) bool {
	return t.send(touchRequest{event: TouchBluetoothEnter, pin: pin})
}

func (t *Touch) send(req touchRequest) bool {
	q := t.queueFor(req.event)
	select {
	case q <- req:
	default:
		t.logger.Warn("touch event dropped, queue full",
			log.Stringer("event", req.event),
		)
		return false
	}
	if t.waker != nil {
		t.waker.Wake()
	}
	return true
}

func (t *Touch) queueFor(ev TouchEvent) chan touchRequest {
	switch {
	case ev <= TouchSSL:
		return t.navigation
	case ev <= TouchBrightness:
		return t.input
	default:
		return t.screen
	}
}

// Enabled reports whether RunOnce has work to do.
func (t *Touch) Enabled() bool {
	return t.engine.Enabled() || t.pending() > 0
}

func (t *Touch) pending() int {
	return len(t.screen) + len(t.navigation) + len(t.input)
}

// RunOnce drains the queues into the engine and runs one engine tick.
func (t *Touch) RunOnce() time.Duration {
	t.drain(t.screen)
	t.drain(t.navigation)
	t.drain(t.input)
	return t.engine.RunOnce()
}

func (t *Touch) drain(q chan touchRequest) {
	for {
		select {
		case req := <-q:
			t.handle(req)
		default:
			return
		}
	}
}

func (t *Touch) handle(req touchRequest) {
	e := t.engine
	switch req.event {
	case TouchBluetoothEnter:
		e.Apply(command.StartBtPinScreen(req.pin))
	case TouchBluetoothExit:
		e.Apply(command.StopBtPinScreen())
	case TouchShutdown:
		e.Apply(command.StartShutdown())
	case TouchFirmwareUpdate:
		e.Apply(command.StartFirmwareUpdate())
	case TouchReboot:
		e.Apply(command.StartReboot())
	case TouchSSL:
		e.SetSSLProvisioningFrames()
	case TouchPress:
		e.Apply(command.ButtonPress())
	case TouchBrightness:
		e.AdjustBrightness()
	case TouchBlink:
		e.Blink()
	case TouchDeepSleep:
		e.RequestDeepSleep()
	case TouchOn:
		e.Apply(command.SetOn())
	case TouchOff:
		e.SetOff()
	case TouchFlush:
		e.ForceDisplay()
	}
}
