package screen

import (
	"github.com/bft-labs/meshscreen/internal/app"
	"github.com/bft-labs/meshscreen/internal/command"
)

// Out-of-band requests that do not travel as commands on the carousel
// engine.
const (
	touchOn         = app.TouchOn
	touchOff        = app.TouchOff
	touchBrightness = app.TouchBrightness
	touchDeepSleep  = app.TouchDeepSleep
	touchFlush      = app.TouchFlush
	touchBlink      = app.TouchBlink
	touchSSL        = app.TouchSSL
)

// intake routes Screen calls to the engine variant.
type intake interface {
	enqueue(cmd command.Command)
	screen(ev app.TouchEvent)
	print(text string)
}

type carouselIntake struct {
	engine *app.Engine
}

func (c carouselIntake) enqueue(cmd command.Command) {
	c.engine.Enqueue(cmd)
}

func (c carouselIntake) screen(ev app.TouchEvent) {
	e := c.engine
	switch ev {
	case app.TouchOn:
		e.Enqueue(command.SetOn())
	case app.TouchOff:
		e.SetOff()
	case app.TouchBrightness:
		e.AdjustBrightness()
	case app.TouchDeepSleep:
		e.RequestDeepSleep()
	case app.TouchFlush:
		e.ForceDisplay()
	case app.TouchBlink:
		e.Blink()
	case app.TouchSSL:
		e.SetSSLProvisioningFrames()
	}
}

func (c carouselIntake) print(text string) {
	c.engine.Enqueue(command.Print(text, nil))
}

type touchIntake struct {
	touch  *app.Touch
	engine *app.Engine
}

func (t touchIntake) enqueue(cmd command.Command) {
	switch cmd.Kind {
	case command.KindButtonPress:
		t.touch.Send(app.TouchPress)
	case command.KindStartBtPinScreen:
		t.touch.SendBluetoothPin(cmd.Pin)
	case command.KindStopBtPinScreen:
		t.touch.Send(app.TouchBluetoothExit)
	case command.KindStartReboot:
		t.touch.Send(app.TouchReboot)
	case command.KindStartShutdown:
		t.touch.Send(app.TouchShutdown)
	case command.KindStartFirmwareUpdate:
		t.touch.Send(app.TouchFirmwareUpdate)
	default:
		t.engine.Enqueue(cmd)
	}
}

func (t touchIntake) screen(ev app.TouchEvent) {
	t.touch.Send(ev)
}

func (touchIntake) print(string) {}
