package screen

// Screen is what the rest of the firmware talks to. Every method returns
// quickly and is safe to call from any goroutine.
type Screen interface {
	// Setup turns the panel on and shows the boot screen.
	Setup() error
	SetOn(on bool)
	OnPress()
	Print(text string)
	AdjustBrightness()
	DoDeepSleep()
	ForceDisplay()
	StartBluetoothPinScreen(pin uint32)
	StopBluetoothPinScreen()
	StartRebootScreen()
	StartShutdownScreen()
	StartFirmwareUpdateScreen()
	Blink()
	SetSSLFrames()
}

// Null is the Screen of a device without a display. Every call does
// nothing.
type Null struct{}

func (Null) Setup() error                   { return nil }
func (Null) SetOn(bool)                     {}
func (Null) OnPress()                       {}
func (Null) Print(string)                   {}
func (Null) AdjustBrightness()              {}
func (Null) DoDeepSleep()                   {}
func (Null) ForceDisplay()                  {}
func (Null) StartBluetoothPinScreen(uint32) {}
func (Null) StopBluetoothPinScreen()        {}
func (Null) StartRebootScreen()             {}
func (Null) StartShutdownScreen()           {}
func (Null) StartFirmwareUpdateScreen()     {}
func (Null) Blink()                         {}
func (Null) SetSSLFrames()                  {}

var (
	_ Screen = Null{}
	_ Screen = (*Service)(nil)
)
