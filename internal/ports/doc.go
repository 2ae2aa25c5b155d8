// Package ports defines the interfaces that connect the display engine to
// the outside world.
//
// # Port Interfaces
//
//   - [Surface], [Panel]: the drawing surface and the physical display
//   - [PowerSource], [GPSSource], [NodeRoster], [ChannelSource],
//     [WiFiSource], [MessageSource], [FaultSource]: pull-style status getters
//   - [Identity]: hardware id, device name and region
//   - [Module], [ModuleRegistry]: pluggable frame providers
//   - [Notifier]: the external "nag" notification a button press can silence
//   - [Geodesy]: bearing and distance between coordinates
//   - [Clock]: time source, replaced by a fake clock in tests
//   - [Logger]: structured logging abstraction
//
// The engine in internal/app depends only on these interfaces. Adapters in
// internal/adapters implement them with periph.io, x/image and evdev.
package ports
