package screen

import "github.com/bft-labs/meshscreen/internal/app"

// StateChangeEvent is emitted when a Service changes run state.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// ModeChangeEvent is emitted when the display mode changes.
type ModeChangeEvent struct {
	Previous Mode
	Current  Mode
	Reason   string
}

// EventHandler receives Service events. Calls are synchronous, from the
// goroutine that caused the change, and must return quickly.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnModeChange(event ModeChangeEvent)
}

// BaseEventHandler implements EventHandler with no-ops. Embed it to handle
// only some events.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent) {}
func (BaseEventHandler) OnModeChange(ModeChangeEvent)   {}

// eventEmitterWrapper adapts EventHandler to the internal emitter
// interfaces.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{Previous: previous, Current: current, Reason: reason})
}

func (e *eventEmitterWrapper) OnModeChange(previous, current Mode, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnModeChange(ModeChangeEvent{Previous: previous, Current: current, Reason: reason})
}
