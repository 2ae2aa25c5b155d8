// Package command implements the bounded hand-off between producer
// goroutines and the single goroutine that owns the display.
package command

import (
	"fmt"
	"sync/atomic"
)

// Kind tags a Command.
type Kind int

const (
	KindSetOn Kind = iota
	KindSetOff
	KindButtonPress
	KindStartBtPinScreen
	KindStopBtPinScreen
	KindStartFirmwareUpdate
	KindStartShutdown
	KindStartReboot
	KindStopBootScreen
	KindPrint
)

var kindNames = [...]string{
	KindSetOn:               "SetOn",
	KindSetOff:              "SetOff",
	KindButtonPress:         "ButtonPress",
	KindStartBtPinScreen:    "StartBtPinScreen",
	KindStopBtPinScreen:     "StopBtPinScreen",
	KindStartFirmwareUpdate: "StartFirmwareUpdate",
	KindStartShutdown:       "StartShutdown",
	KindStartReboot:         "StartReboot",
	KindStopBootScreen:      "StopBootScreen",
	KindPrint:               "Print",
}

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Unknown(%d)", int(k))
}

// Text is an owned string payload. Ownership moves with the Command that
// carries it and Release runs its hook exactly once, however many times it
// is called.
type Text struct {
	s         string
	released  atomic.Bool
	onRelease func(string)
}

// NewText wraps s. onRelease may be nil.
func NewText(s string, onRelease func(string)) *Text {
	return &Text{s: s, onRelease: onRelease}
}

// String returns the text.
func (t *Text) String() string {
	if t == nil {
		return ""
	}
	return t.s
}

// Release gives the payload back to its owner.
func (t *Text) Release() {
	if t == nil || !t.released.CompareAndSwap(false, true) {
		return
	}
	if t.onRelease != nil {
		t.onRelease(t.s)
	}
}

// Released reports whether Release has run.
func (t *Text) Released() bool {
	return t != nil && t.released.Load()
}

// Command is a request from a producer to the display owner.
type Command struct {
	Kind Kind
	// Pin is set for KindStartBtPinScreen.
	Pin uint32
	// Text is set for KindPrint.
	Text *Text
}

// Release releases any payload the command owns.
func (c Command) Release() {
	c.Text.Release()
}

// SetOn asks for the panel to be powered on.
func SetOn() Command { return Command{Kind: KindSetOn} }

// SetOff asks for the panel to be powered off.
func SetOff() Command { return Command{Kind: KindSetOff} }

// ButtonPress is a short press of the user button.
func ButtonPress() Command { return Command{Kind: KindButtonPress} }

// StopBtPinScreen leaves the Bluetooth pairing screen.
func StopBtPinScreen() Command { return Command{Kind: KindStopBtPinScreen} }

// StartFirmwareUpdate shows the firmware update screen.
func StartFirmwareUpdate() Command { return Command{Kind: KindStartFirmwareUpdate} }

// StartShutdown shows the shutdown screen.
func StartShutdown() Command { return Command{Kind: KindStartShutdown} }

// StartReboot shows the reboot screen.
func StartReboot() Command { return Command{Kind: KindStartReboot} }

// StopBootScreen ends the boot screen early.
func StopBootScreen() Command { return Command{Kind: KindStopBootScreen} }

// StartBtPinScreen asks for the Bluetooth pairing screen showing pin.
func StartBtPinScreen(pin uint32) Command {
	return Command{Kind: KindStartBtPinScreen, Pin: pin}
}

// Print carries text for the debug log buffer. onRelease may be nil.
func Print(text string, onRelease func(string)) Command {
	return Command{Kind: KindPrint, Text: NewText(text, onRelease)}
}
