// Package domain contains the value types shared by every layer of
// meshscreen: device status snapshots, the state handed to frame renderers
// and the sentinel errors.
//
// The package has no dependencies on drawing, logging or the scheduler so
// that status producers can import it without pulling in the engine.
//
// # Entities
//
//   - [PowerStatus], [GPSStatus], [NodeStatus]: pull-style status snapshots
//   - [NodeInfo]: one entry of the node roster
//   - [TextMessage]: the last received text message
//   - [UIFrameEvent]: a module's request to rebuild or redraw
//   - [WiFiStatus]: network state for the WiFi panel
//   - [FrameState]: what a renderer needs to know about the carousel
package domain
