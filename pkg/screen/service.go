package screen

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/bft-labs/meshscreen/internal/app"
	"github.com/bft-labs/meshscreen/internal/command"
	"github.com/bft-labs/meshscreen/internal/debuginfo"
	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/heading"
	"github.com/bft-labs/meshscreen/internal/ports"
	"github.com/bft-labs/meshscreen/pkg/status"
)

// Service owns a display panel. Producers call the Screen methods from any
// goroutine; a single render goroutine started by Start applies them and
// redraws.
type Service struct {
	opts      options
	engine    *app.Engine
	runner    *app.Runner
	task      app.Task
	intake    intake
	lifecycle *app.Lifecycle
	logger    ports.Logger

	mu        sync.Mutex
	setupDone bool
	cancel    context.CancelFunc
	observers []func()
}

// New creates a Service that drives the frame carousel from the command
// channel. It returns ErrNoDisplay if no panel was given. The Service is
// created in StateStopped; call Start to begin rendering.
func New(cfg Config, opts ...Option) (*Service, error) {
	s, err := newService(cfg, opts)
	if err != nil {
		return nil, err
	}
	s.task = s.engine
	s.intake = carouselIntake{engine: s.engine}
	return s, nil
}

// NewTouch creates a Service whose requests go through the touch event
// queues. Print is ignored on touch screens.
func NewTouch(cfg Config, opts ...Option) (*Service, error) {
	s, err := newService(cfg, opts)
	if err != nil {
		return nil, err
	}
	touch := app.NewTouch(s.engine, s.logger, s.runner)
	s.task = touch
	s.intake = touchIntake{touch: touch, engine: s.engine}
	return s, nil
}

// Open returns a carousel Service, or Null when no panel was given.
func Open(cfg Config, opts ...Option) (Screen, error) {
	s, err := New(cfg, opts...)
	if errors.Is(err, domain.ErrNoDisplay) {
		return Null{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newService(cfg Config, opts []Option) (*Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.panel == nil {
		return nil, domain.ErrNoDisplay
	}
	logger := o.logger

	emitter := &eventEmitterWrapper{handler: o.eventHandler}
	runner := app.NewRunner(logger)

	src := o.sources
	debug := debuginfo.New(debuginfo.Sources{
		Power:    src.Power,
		GPS:      src.GPS,
		Nodes:    src.Nodes,
		Channel:  src.Channel,
		WiFi:     src.WiFi,
		Identity: src.Identity,
		Clock:    o.clock,
	})

	var headingOpts []heading.Option
	if o.clock != nil {
		headingOpts = append(headingOpts, heading.WithClock(o.clock))
	}

	engine, err := app.NewEngine(cfg, app.Deps{
		Panel:       o.panel,
		Identity:    src.Identity,
		Roster:      src.Nodes,
		Messages:    src.Messages,
		Faults:      src.Faults,
		WiFi:        src.WiFi,
		Modules:     o.modules,
		Notifier:    o.notifier,
		Debug:       debug,
		Heading:     heading.New(headingOpts...),
		Clock:       o.clock,
		Logger:      logger,
		ModeEmitter: emitter,
		Waker:       runner,
	})
	if err != nil {
		return nil, err
	}

	return &Service{
		opts:      o,
		engine:    engine,
		runner:    runner,
		lifecycle: app.NewLifecycle(logger, emitter),
		logger:    logger,
	}, nil
}

// Setup powers the panel and draws the boot screen. Start calls it if it
// has not run yet.
func (s *Service) Setup() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setupLocked()
}

func (s *Service) setupLocked() error {
	if s.setupDone {
		return nil
	}
	if err := s.engine.Setup(); err != nil {
		return err
	}
	s.setupDone = true
	return nil
}

// Start begins rendering in the background and returns once the render
// goroutine is started. It returns ErrAlreadyRunning if the Service is
// already running.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := s.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.lifecycle.SetCancel(cancel)

	if err := s.setupLocked(); err != nil {
		cancel()
		_ = s.lifecycle.TransitionTo(app.StateCrashed, "setup failed")
		return err
	}

	pluginCfg := PluginConfig{
		Logger:     s.logger,
		Controller: s,
		ConfigPath: s.opts.configPath,
	}
	for _, p := range s.opts.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			s.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			cancel()
			_ = s.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
		s.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
	}

	if err := s.lifecycle.TransitionTo(app.StateRunning, "render loop starting"); err != nil {
		cancel()
		return err
	}
	s.lifecycle.Go(func() {
		err := s.runner.Run(runCtx, s.task)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("render loop error", ports.Err(err))
			_ = s.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		}
	})
	return nil
}

// Stop stops the render goroutine and shuts plugins down. It waits up to
// 30 seconds and returns ErrShutdownTimeout if the loop did not exit.
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.lifecycle.CanStop() {
		s.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := s.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	err := s.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	shutdownCtx := context.Background()
	for i := len(s.opts.plugins) - 1; i >= 0; i-- {
		p := s.opts.plugins[i]
		if shutdownErr := p.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(shutdownErr))
		} else {
			s.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
		}
	}

	if err != nil {
		_ = s.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = s.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// Status returns the run state.
func (s *Service) Status() State {
	return s.lifecycle.State()
}

// Mode returns the display mode.
func (s *Service) Mode() Mode {
	return s.engine.Mode()
}

// Stats returns render counters.
func (s *Service) Stats() Stats {
	return s.engine.Stats()
}

// Snapshot returns the last flushed frame, or nil if the panel cannot
// provide one.
func (s *Service) Snapshot() image.Image {
	return s.engine.Snapshot()
}

// Settings returns the runtime settings.
func (s *Service) Settings() Settings {
	return s.engine.Settings()
}

// UpdateSettings changes runtime settings. The frame list is rebuilt on
// the next tick.
func (s *Service) UpdateSettings(fn func(*Settings)) {
	s.engine.UpdateSettings(fn)
}

// Observe subscribes the screen to hub. Subscriptions end when the
// returned function is called.
func (s *Service) Observe(hub *status.Hub) (cancel func()) {
	return s.engine.Observe(hub)
}

// StopBootScreen leaves the boot screen before its timeout.
func (s *Service) StopBootScreen() {
	s.intake.enqueue(command.StopBootScreen())
}

// SetOn powers the panel on or off.
func (s *Service) SetOn(on bool) {
	if on {
		s.intake.screen(touchOn)
		return
	}
	s.intake.screen(touchOff)
}

// OnPress advances the carousel as a short button press would.
func (s *Service) OnPress() { s.intake.enqueue(command.ButtonPress()) }

// AdjustBrightness steps the brightness and shows the level bar.
func (s *Service) AdjustBrightness() { s.intake.screen(touchBrightness) }

// DoDeepSleep draws the sleep frame on e-ink panels and powers off.
func (s *Service) DoDeepSleep() { s.intake.screen(touchDeepSleep) }

// ForceDisplay requests a full refresh on slow panels.
func (s *Service) ForceDisplay() { s.intake.screen(touchFlush) }

// Blink flashes the whole panel a few times.
func (s *Service) Blink() { s.intake.screen(touchBlink) }

// SetSSLFrames shows the certificate generation screen.
func (s *Service) SetSSLFrames() { s.intake.screen(touchSSL) }

// StopBluetoothPinScreen leaves the pairing screen.
func (s *Service) StopBluetoothPinScreen() { s.intake.enqueue(command.StopBtPinScreen()) }

// StartRebootScreen shows the reboot screen.
func (s *Service) StartRebootScreen() { s.intake.enqueue(command.StartReboot()) }

// StartShutdownScreen shows the shutdown screen.
func (s *Service) StartShutdownScreen() { s.intake.enqueue(command.StartShutdown()) }

// StartFirmwareUpdateScreen shows the firmware update screen.
func (s *Service) StartFirmwareUpdateScreen() {
	s.intake.enqueue(command.StartFirmwareUpdate())
}

// StartBluetoothPinScreen shows the pairing screen with pin.
func (s *Service) StartBluetoothPinScreen(pin uint32) {
	s.intake.enqueue(command.StartBtPinScreen(pin))
}

// Print adds text to the log shown on the debug panel.
func (s *Service) Print(text string) {
	s.intake.print(text)
}
