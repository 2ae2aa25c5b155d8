// Package screen drives a small status display for a mesh radio node.
//
// A [Service] owns one panel. Producers anywhere in the firmware ask for
// screen changes through the [Screen] methods; those calls never block. A
// single render goroutine started by [Service.Start] applies the requests,
// runs the display mode state machine and redraws the frame carousel.
//
// # Basic Usage
//
//	panel := mono.NewPanel(128, 64)
//	s, err := screen.New(screen.DefaultConfig(),
//	    screen.WithPanel(panel),
//	    screen.WithSources(screen.Sources{Nodes: roster, GPS: gps}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := s.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Stop()
//
//	s.OnPress()
//	s.StartBluetoothPinScreen(123456)
//
// Devices without a display use [Null], which [Open] returns when no panel
// is given.
//
// # Variants
//
// [New] builds the button-driven carousel. [NewTouch] builds the variant
// for touch screens, where requests are split into screen, navigation and
// input queues of ten events each and the debug log is not shown.
//
// # Status Updates
//
// The screen pulls state from the [Sources] when it draws. To redraw as
// soon as something changes, publish updates on a [status.Hub] and pass
// it to [Service.Observe].
//
// # Lifecycle States
//
// A Service is created in [StateStopped]. [Service.Start] moves it through
// [StateStarting] to [StateRunning]; [Service.Stop] moves it through
// [StateStopping] back to [StateStopped]. A render loop error or a plugin
// that fails to initialize leaves it in [StateCrashed], from which it can
// be started again.
//
// # Plugins
//
// A [Plugin] is initialized when the Service starts, in registration
// order, and receives a [Controller] to drive the screen. Plugins are shut
// down in reverse order.
package screen
