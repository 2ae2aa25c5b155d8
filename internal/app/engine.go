package app

import (
	"image"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bft-labs/meshscreen/internal/command"
	"github.com/bft-labs/meshscreen/internal/debuginfo"
	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/frames"
	"github.com/bft-labs/meshscreen/internal/heading"
	"github.com/bft-labs/meshscreen/internal/mode"
	"github.com/bft-labs/meshscreen/internal/ports"
	"github.com/bft-labs/meshscreen/pkg/log"
)

// Deps are the collaborators of an Engine. Only Panel is required.
type Deps struct {
	Panel    ports.Panel
	Identity ports.Identity
	Roster   ports.NodeRoster
	Messages ports.MessageSource
	Faults   ports.FaultSource
	WiFi     ports.WiFiSource
	Modules  ports.ModuleRegistry
	Notifier ports.Notifier
	Debug    *debuginfo.Info
	Heading  *heading.Estimator
	Clock    ports.Clock
	Logger   ports.Logger

	// ModeEmitter is told about every mode change.
	ModeEmitter mode.EventEmitter
	// Waker is told when the engine wants to run soon.
	Waker command.Waker
}

// Stats is a point-in-time view of the engine for status reporting.
type Stats struct {
	Mode       mode.Mode
	ScreenOn   bool
	Frame      int
	FrameCount int
	TargetFPS  int
	Brightness uint8
	Ticks      uint64
	Rebuilds   uint64
	Dropped    uint64
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Engine owns the display. Producers hand it work through Enqueue and the
// out-of-band methods; a single goroutine calls RunOnce to apply that work
// and redraw.
type Engine struct {
	cfg      EngineConfig
	panel    ports.Panel
	deps     Deps
	clock    ports.Clock
	logger   ports.Logger
	machine  *mode.Machine
	intake   *command.Channel
	registry *frames.Registry
	static   frames.Static
	debug    *debuginfo.Info
	heading  *heading.Estimator
	sleep    func(time.Duration)

	enabled atomic.Bool

	// panelMu guards the panel and screenOn. Off requests and deep sleep
	// arrive from other goroutines.
	panelMu  sync.Mutex
	screenOn bool

	// mu guards settings and brightness.
	mu         sync.RWMutex
	settings   Settings
	brightness uint8

	rebuild           atomic.Bool
	redraw            atomic.Bool
	statusRedraw      atomic.Bool
	brightnessPending atomic.Bool
	blinkPending      atomic.Bool

	statsMu sync.RWMutex
	stats   Stats

	// Owned by the goroutine calling RunOnce.
	list           frames.List
	applied        mode.Mode
	pin            string
	carousel       carousel
	targetFPS      int
	lastTransition time.Time
	serialSince    time.Time
	showingBoot    bool
	oemPending     bool
	ticks          uint64
	rebuilds       uint64
}

// NewEngine creates an engine. It returns domain.ErrNoDisplay when no
// panel is given.
func NewEngine(cfg EngineConfig, deps Deps) (*Engine, error) {
	if deps.Panel == nil {
		return nil, domain.ErrNoDisplay
	}
	if deps.Clock == nil {
		deps.Clock = systemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = log.NewNoopLogger()
	}
	if deps.Heading == nil {
		deps.Heading = heading.New(heading.WithClock(deps.Clock))
	}
	if deps.Identity == nil {
		deps.Identity = anonymous{}
	}
	if cfg.BootTimeout <= 0 {
		cfg.BootTimeout = DefaultBootTimeout
	}
	if cfg.OEMText != "" {
		cfg.BootTimeout *= 2
	}
	if cfg.Settings.Region == "" {
		cfg.Settings.Region = deps.Identity.Region()
	}

	e := &Engine{
		cfg:        cfg,
		panel:      deps.Panel,
		deps:       deps,
		clock:      deps.Clock,
		logger:     deps.Logger,
		heading:    deps.Heading,
		sleep:      time.Sleep,
		settings:   cfg.Settings,
		brightness: cfg.Brightness,
		targetFPS:  IdleFramerate,
		applied:    mode.Boot,
	}
	e.carousel.duration = cfg.TransitionTime
	e.machine = mode.NewMachine(deps.Logger, deps.ModeEmitter)
	e.intake = command.NewChannel(cfg.QueueCapacity, deps.Waker)

	e.debug = deps.Debug
	if e.debug == nil {
		e.debug = debuginfo.New(debuginfo.Sources{
			Nodes:    deps.Roster,
			WiFi:     deps.WiFi,
			Identity: deps.Identity,
			Clock:    deps.Clock,
		})
	}
	e.debug.SetSettings(debugSettings(cfg.Settings))

	e.registry = frames.NewRegistry(frames.Deps{
		Roster:   deps.Roster,
		Heading:  deps.Heading,
		Clock:    deps.Clock,
		Debug:    frames.RenderFunc(e.debug.DrawMain),
		Settings: frames.RenderFunc(e.debug.DrawSettings),
		WiFi:     frames.RenderFunc(e.debug.DrawWiFi),
		Logger:   deps.Logger,
	})

	refresher, _ := deps.Panel.(ports.SlowRefresher)
	e.static = frames.Static{
		Identity:  regionIdentity{Identity: deps.Identity, engine: e},
		Clock:     deps.Clock,
		Refresher: refresher,
		OEMText:   cfg.OEMText,
	}

	return e, nil
}

// Setup turns the panel on and shows the boot screen.
func (e *Engine) Setup() error {
	e.oemPending = e.cfg.OEMText != ""
	e.showStatic("boot", e.static.Boot())
	e.applied = mode.Boot

	e.panelMu.Lock()
	e.setPowerLocked(true)
	if err := e.panel.SetBrightness(e.Brightness()); err != nil {
		e.logger.Warn("set display brightness failed", log.Err(err))
	}
	e.panelMu.Unlock()

	now := e.clock.Now()
	// Some controllers drop the first frame after power on.
	e.render(now)
	if !e.cfg.EInk {
		e.render(now)
	}
	e.serialSince = now
	e.lastTransition = now
	e.showingBoot = true
	e.publishStats()
	return nil
}

// Enabled reports whether RunOnce has work to do.
func (e *Engine) Enabled() bool {
	return e.enabled.Load()
}

// Enqueue hands a command to the render goroutine. It never blocks and
// returns false if the command was dropped because the channel is full.
func (e *Engine) Enqueue(cmd command.Command) bool {
	// A command arriving while the screen is off still needs a tick.
	e.enabled.Store(true)
	kind := cmd.Kind
	if !e.intake.TryEnqueue(cmd) {
		e.logger.Warn("command dropped",
			log.Err(domain.ErrChannelFull),
			log.Stringer("kind", kind),
		)
		return false
	}
	return true
}

// RunOnce performs one scheduler tick and returns how long to wait before
// the next one. It returns zero when the screen is off.
func (e *Engine) RunOnce() time.Duration {
	now := e.clock.Now()
	e.ticks++
	defer e.publishStats()

	e.checkBootTimeout(now)
	e.checkWelcome()

	e.intake.DrainAll(e.Apply)
	e.syncMode()
	e.applyFlags()

	e.panelMu.Lock()
	on := e.screenOn
	e.panelMu.Unlock()
	if !on {
		e.enabled.Store(false)
		return 0
	}

	e.render(now)

	// Only drop the frame rate once a slide has finished, so animations
	// keep their speed.
	if e.targetFPS != IdleFramerate && e.carousel.fixed() {
		e.targetFPS = IdleFramerate
		e.ForceDisplay()
	}

	if e.applied == mode.Normal {
		if auto := e.Settings().AutoCarousel; auto > 0 && now.Sub(e.lastTransition) > auto {
			e.logger.Debug("auto carousel advance",
				log.Duration("since_last", now.Sub(e.lastTransition)),
			)
			e.onPress(now)
		}
	}

	return time.Second / time.Duration(e.targetFPS)
}

func (e *Engine) checkBootTimeout(now time.Time) {
	if e.showingBoot && now.Sub(e.serialSince) > e.cfg.BootTimeout {
		e.showingBoot = false
		e.oemPending = false
		e.logger.Info("done with boot screen")
		// Another mode may have taken over while booting.
		if e.machine.Mode().IsBoot() {
			e.enter(mode.Normal, "boot timeout")
		}
		return
	}

	if e.oemPending && now.Sub(e.serialSince) > e.cfg.BootTimeout/2 {
		e.oemPending = false
		if e.machine.Mode() == mode.Boot {
			e.logger.Info("switching to OEM boot screen")
			e.enter(mode.OEMBoot, "oem boot screen")
		}
	}
}

func (e *Engine) checkWelcome() {
	if !e.cfg.Welcome {
		return
	}
	regionSet := e.Settings().Region != ""
	switch m := e.machine.Mode(); {
	case m == mode.Normal && !regionSet:
		e.enter(mode.Welcome, "region unset")
	case m == mode.Welcome && regionSet:
		e.enter(mode.Normal, "region set")
	}
}

// syncMode applies mode changes made from other goroutines.
func (e *Engine) syncMode() {
	if m := e.machine.Mode(); m != e.applied {
		e.applyMode(m)
	}
}

func (e *Engine) applyFlags() {
	if e.rebuild.Swap(false) && e.applied == mode.Normal {
		e.setFrames()
	}
	if e.redraw.Swap(false) {
		e.setFastFramerate()
	}
	if e.statusRedraw.Swap(false) && e.showingStatusPanel() {
		e.setFastFramerate()
	}
	if e.blinkPending.Swap(false) {
		e.blink()
	}
}

func (e *Engine) showingStatusPanel() bool {
	if e.applied != mode.Normal || e.list.Len() == 0 {
		return false
	}
	switch e.list.At(e.carousel.current).Kind {
	case frames.SlotDebug, frames.SlotSettings:
		return true
	}
	return false
}

// enter switches the machine to next and shows its frames. Entering
// Normal while already there rebuilds the list.
func (e *Engine) enter(next mode.Mode, reason string) bool {
	if next == mode.Normal && e.machine.Mode() == mode.Normal {
		e.setFrames()
		return true
	}
	if err := e.machine.TransitionTo(next, reason); err != nil {
		e.logger.Warn("mode change rejected",
			log.Err(err),
			log.Stringer("from", e.machine.Mode()),
			log.Stringer("to", next),
		)
		return false
	}
	e.applyMode(next)
	return true
}

func (e *Engine) applyMode(m mode.Mode) {
	switch m {
	case mode.Normal:
		e.setFrames()
	case mode.Boot:
		e.showStatic("boot", e.static.Boot())
	case mode.OEMBoot:
		e.showStatic("oem boot", e.static.OEMBoot())
	case mode.Welcome:
		e.showStatic("welcome", e.static.Welcome())
	case mode.BluetoothPairing:
		e.showStatic("bluetooth", e.static.Bluetooth(e.pin))
	case mode.Shutdown:
		e.showStatic("shutdown", e.static.Shutdown())
	case mode.Reboot:
		e.showStatic("reboot", e.static.Reboot())
	case mode.FirmwareUpdate:
		e.showStatic("firmware", e.static.Firmware())
	case mode.SSLProvisioning:
		e.showStatic("ssl", e.static.SSL())
	case mode.AsleepEink:
		e.showStatic("sleep", e.static.Sleep())
	}
	e.applied = m
}

func (e *Engine) showStatic(name string, r frames.Renderable) {
	e.logger.Debug("showing static frame", log.String("frame", name))
	e.list = frames.Single(name, r)
	e.carousel.reset(1)
	e.setFastFramerate()
}

// setFrames rebuilds the normal frame list.
func (e *Engine) setFrames() {
	e.list = e.registry.Build(e.inputs())
	e.carousel.reset(e.list.Len())
	e.lastTransition = e.clock.Now()
	e.rebuilds++
	e.setFastFramerate()
}

func (e *Engine) inputs() frames.Inputs {
	s := e.Settings()
	in := frames.Inputs{
		RangeTestEnabled:    s.RangeTest,
		StoreForwardEnabled: s.StoreForward,
		Imperial:            s.Imperial,
		CompassNorthTop:     s.CompassNorthTop,
	}
	if e.deps.Modules != nil {
		in.Modules = e.deps.Modules.ModuleFrames()
	}
	if e.deps.Faults != nil {
		in.FaultCode = e.deps.Faults.FaultCode()
	}
	if e.deps.Messages != nil {
		if msg, ok := e.deps.Messages.LastMessage(); ok {
			in.Message = &msg
		}
	}
	if e.deps.Roster != nil {
		in.TotalNodes = e.deps.Roster.NodeStatus().NumTotal
	}
	if e.deps.WiFi != nil {
		in.WiFiAvailable = e.deps.WiFi.WiFiStatus().Available
	}
	return in
}

func (e *Engine) setFastFramerate() {
	e.targetFPS = TransitionFramerate
}

func (e *Engine) render(now time.Time) {
	e.panelMu.Lock()
	defer e.panelMu.Unlock()
	if !e.screenOn {
		return
	}

	s := e.panel.Surface()
	s.Clear()
	e.carousel.advance(now)
	e.drawSlots(s)

	if e.applied == mode.Normal {
		frames.DrawIndicators(s, e.carousel.current, e.list.Len())
	}
	if e.brightnessPending.Swap(false) {
		e.drawBrightnessLocked(s)
	}

	if err := e.panel.Flush(); err != nil {
		e.logger.Warn("display flush failed", log.Err(err))
	}
}

func (e *Engine) drawSlots(s ports.Surface) {
	if e.list.Len() == 0 {
		return
	}
	c := &e.carousel
	if c.fixed() {
		e.list.At(c.current).Render.Draw(s, c.frameState(false), 0, 0)
		return
	}
	off := int(c.progress * float64(s.Width()))
	e.list.At(c.current).Render.Draw(s, c.frameState(false), -off, 0)
	e.list.At(c.target).Render.Draw(s, c.frameState(true), s.Width()-off, 0)
}

func (e *Engine) drawBrightnessLocked(s ports.Surface) {
	b := e.Brightness()
	w := s.Width()
	bar := int(float64(b) / (float64(MaxBrightness) / float64(w)))
	s.DrawRect(0, 30, w, 4)
	s.FillRect(0, 31, bar, 2)
	if err := e.panel.SetBrightness(b); err != nil {
		e.logger.Warn("set brightness failed", log.Err(err))
	}
}

func (e *Engine) blink() {
	e.setFastFramerate()

	e.panelMu.Lock()
	defer e.panelMu.Unlock()
	if !e.screenOn {
		return
	}
	s := e.panel.Surface()
	if err := e.panel.SetBrightness(MaxBrightness); err != nil {
		e.logger.Warn("set brightness failed", log.Err(err))
	}
	flush := func() bool {
		if err := e.panel.Flush(); err != nil {
			e.logger.Warn("blink flush failed", log.Err(err))
			return false
		}
		e.sleep(e.cfg.BlinkDelay)
		return true
	}
	for i := 0; i < blinkCount; i++ {
		s.FillRect(0, 0, s.Width(), s.Height())
		if !flush() {
			break
		}
		s.Clear()
		if !flush() {
			break
		}
	}
	if err := e.panel.SetBrightness(e.Brightness()); err != nil {
		e.logger.Warn("restore brightness failed", log.Err(err))
	}
}

// setPowerLocked must be called with panelMu held. It reports whether the
// power state changed.
func (e *Engine) setPowerLocked(on bool) bool {
	if on == e.screenOn {
		return false
	}
	if on {
		e.logger.Info("turning on screen")
	} else {
		e.logger.Info("turning off screen")
	}
	if err := e.panel.SetPower(on); err != nil {
		e.logger.Warn("set display power failed", log.Err(err), log.Bool("on", on))
	}
	e.enabled.Store(on)
	e.screenOn = on
	return true
}

// SetOff turns the screen off immediately. It is safe to call from any
// goroutine and more than once.
func (e *Engine) SetOff() {
	e.panelMu.Lock()
	defer e.panelMu.Unlock()
	e.setPowerLocked(false)
}

// ForceDisplay asks slow-refresh panels for a full refresh.
func (e *Engine) ForceDisplay() {
	r, ok := e.panel.(ports.SlowRefresher)
	if !ok {
		return
	}
	e.panelMu.Lock()
	defer e.panelMu.Unlock()
	if err := r.ForceDisplay(); err != nil {
		e.logger.Warn("force display failed", log.Err(err))
	}
}

// SetSSLProvisioningFrames shows the certificate generation screen.
func (e *Engine) SetSSLProvisioningFrames() {
	if e.machine.Mode() == mode.SSLProvisioning {
		return
	}
	if err := e.machine.TransitionTo(mode.SSLProvisioning, "ssl provisioning"); err != nil {
		e.logger.Warn("mode change rejected", log.Err(err), log.Stringer("to", mode.SSLProvisioning))
		return
	}
	e.wake()
}

// RequestDeepSleep prepares the panel for the lowest power state. E-ink
// panels keep showing the sleep frame, which is drawn before power off.
func (e *Engine) RequestDeepSleep() {
	if e.cfg.EInk {
		if err := e.machine.TransitionTo(mode.AsleepEink, "deep sleep"); err != nil {
			e.logger.Warn("mode change rejected", log.Err(err), log.Stringer("to", mode.AsleepEink))
		} else {
			e.drawSleepFrame()
		}
	}
	e.SetOff()
}

func (e *Engine) drawSleepFrame() {
	e.panelMu.Lock()
	defer e.panelMu.Unlock()
	if !e.screenOn {
		return
	}
	s := e.panel.Surface()
	s.Clear()
	e.static.Sleep().Draw(s, domain.FrameState{Count: 1}, 0, 0)
	if err := e.panel.Flush(); err != nil {
		e.logger.Warn("display flush failed", log.Err(err))
	}
}

// AdjustBrightness steps the brightness up by one, wrapping to zero after
// the maximum. The next frame shows a level bar.
func (e *Engine) AdjustBrightness() {
	e.mu.Lock()
	if e.brightness >= MaxBrightness {
		e.brightness = 0
	} else {
		e.brightness++
	}
	e.mu.Unlock()
	e.brightnessPending.Store(true)
	e.wake()
}

// Brightness returns the current brightness level.
func (e *Engine) Brightness() uint8 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.brightness
}

// Blink flashes the whole screen on the next tick.
func (e *Engine) Blink() {
	e.blinkPending.Store(true)
	e.wake()
}

// Settings returns the current runtime settings.
func (e *Engine) Settings() Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}

// UpdateSettings changes the runtime settings and rebuilds the frame list.
func (e *Engine) UpdateSettings(fn func(*Settings)) {
	e.mu.Lock()
	fn(&e.settings)
	s := e.settings
	e.mu.Unlock()

	e.debug.SetSettings(debugSettings(s))
	e.rebuild.Store(true)
	e.wake()
}

// Mode returns the active display mode.
func (e *Engine) Mode() mode.Mode {
	return e.machine.Mode()
}

// Stats returns the counters published after the last tick.
func (e *Engine) Stats() Stats {
	e.statsMu.RLock()
	defer e.statsMu.RUnlock()
	st := e.stats
	st.Mode = e.machine.Mode()
	st.Brightness = e.Brightness()
	st.Dropped = e.intake.Dropped()
	e.panelMu.Lock()
	st.ScreenOn = e.screenOn
	e.panelMu.Unlock()
	return st
}

func (e *Engine) publishStats() {
	e.statsMu.Lock()
	e.stats.Frame = e.carousel.current
	e.stats.FrameCount = e.list.Len()
	e.stats.TargetFPS = e.targetFPS
	e.stats.Ticks = e.ticks
	e.stats.Rebuilds = e.rebuilds
	e.statsMu.Unlock()
}

// Snapshot returns a copy of the last flushed image, or nil if the panel
// cannot provide one.
func (e *Engine) Snapshot() image.Image {
	snap, ok := e.panel.(ports.Snapshotter)
	if !ok {
		return nil
	}
	e.panelMu.Lock()
	defer e.panelMu.Unlock()
	return snap.Snapshot()
}

// Debug returns the status panel renderer.
func (e *Engine) Debug() *debuginfo.Info {
	return e.debug
}

func (e *Engine) wake() {
	e.enabled.Store(e.isOn())
	if e.deps.Waker != nil {
		e.deps.Waker.Wake()
	}
}

func (e *Engine) isOn() bool {
	e.panelMu.Lock()
	defer e.panelMu.Unlock()
	return e.screenOn
}

func debugSettings(s Settings) debuginfo.Settings {
	return debuginfo.Settings{
		ModemPreset:   s.ModemPreset,
		GPSEnabled:    s.GPSEnabled,
		FixedPosition: s.FixedPosition,
		Imperial:      s.Imperial,
	}
}

// regionIdentity reports the runtime region instead of the one the
// identity was created with.
type regionIdentity struct {
	ports.Identity
	engine *Engine
}

func (r regionIdentity) Region() string {
	return r.engine.Settings().Region
}

type anonymous struct{}

func (anonymous) HardwareAddr() net.HardwareAddr { return nil }
func (anonymous) DeviceName() string             { return "" }
func (anonymous) Region() string                 { return "" }
func (anonymous) FirmwareVersion() string        { return "" }

func trimNewline(s string) string {
	return strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r")
}
