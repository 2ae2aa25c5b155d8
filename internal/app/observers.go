package app

import (
	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/pkg/status"
)

// OnNodeStatus rebuilds the frame list when the roster size changes.
func (e *Engine) OnNodeStatus(st domain.NodeStatus) {
	if st.TotalChanged() {
		e.rebuild.Store(true)
	}
	e.wake()
}

// OnTextMessage shows a newly received message.
func (e *Engine) OnTextMessage(domain.TextMessage) {
	e.rebuild.Store(true)
	e.wake()
}

// OnUIFrameEvent handles a module asking for a new list or a redraw.
func (e *Engine) OnUIFrameEvent(ev domain.UIFrameEvent) {
	switch {
	case ev.FrameChanged:
		e.rebuild.Store(true)
	case ev.NeedRedraw:
		e.redraw.Store(true)
	}
	e.wake()
}

// OnPowerStatus redraws the status panels.
func (e *Engine) OnPowerStatus(domain.PowerStatus) {
	e.statusRedraw.Store(true)
	e.wake()
}

// OnGPSStatus feeds the heading estimator and redraws the status panels.
func (e *Engine) OnGPSStatus(st domain.GPSStatus) {
	e.heading.OnGPS(st)
	e.statusRedraw.Store(true)
	e.wake()
}

// Observe subscribes the engine to hub. The returned function removes
// every subscription.
func (e *Engine) Observe(hub *status.Hub) (cancel func()) {
	cancels := []func(){
		hub.Power.Subscribe(e.OnPowerStatus),
		hub.GPS.Subscribe(e.OnGPSStatus),
		hub.Nodes.Subscribe(e.OnNodeStatus),
		hub.Messages.Subscribe(e.OnTextMessage),
		hub.UIEvents.Subscribe(e.OnUIFrameEvent),
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}
