package frames

import (
	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/ports"
	"github.com/bft-labs/meshscreen/pkg/geo"
	"github.com/bft-labs/meshscreen/pkg/log"
)

// MaxNodeFrames caps how many node slots a list carries.
const MaxNodeFrames = 4

// Inputs is everything the normal frame list depends on.
type Inputs struct {
	Modules   []ports.Module
	FaultCode uint32
	// Message is the last received text message, nil if none.
	Message             *domain.TextMessage
	RangeTestEnabled    bool
	StoreForwardEnabled bool
	// TotalNodes includes the local node.
	TotalNodes      int
	WiFiAvailable   bool
	Imperial        bool
	CompassNorthTop bool
}

// ShowMessage reports whether the message slot belongs in the list.
// Messages sent from the local client are skipped unless a module that
// echoes them is active.
func (in Inputs) ShowMessage() bool {
	return in.Message != nil &&
		in.Message.From != 0 &&
		!in.RangeTestEnabled &&
		!in.StoreForwardEnabled
}

// NodeSlots returns how many node slots the list carries.
func (in Inputs) NodeSlots() int {
	if in.TotalNodes <= 1 {
		return 0
	}
	return min(in.TotalNodes-1, MaxNodeFrames)
}

// Deps are the collaborators shared by every list a Registry builds.
type Deps struct {
	Roster  ports.NodeRoster
	Heading HeadingSource
	Geo     ports.Geodesy
	Clock   ports.Clock
	Rotator *Rotator

	Debug    Renderable
	Settings Renderable
	WiFi     Renderable

	Logger log.Logger
}

// Registry builds the normal-mode frame list.
type Registry struct {
	deps Deps
}

// NewRegistry creates a Registry. A nil Geo defaults to the spherical
// model and a nil Rotator or Logger is replaced by a fresh one.
func NewRegistry(deps Deps) *Registry {
	if deps.Geo == nil {
		deps.Geo = geo.Spherical{}
	}
	if deps.Rotator == nil {
		deps.Rotator = NewRotator()
	}
	if deps.Logger == nil {
		deps.Logger = log.NewNoopLogger()
	}
	return &Registry{deps: deps}
}

// Rotator returns the node rotator shared by node slots.
func (r *Registry) Rotator() *Rotator {
	return r.deps.Rotator
}

// Build returns the frame list for in. The order is modules, fault,
// message, nodes, debug, settings and, when available, WiFi. The same
// inputs always give the same list. Building resets the node rotation.
func (r *Registry) Build(in Inputs) List {
	slots := make([]Slot, 0, len(in.Modules)+MaxNodeFrames+5)

	for _, m := range in.Modules {
		slots = append(slots, Slot{Kind: SlotModule, Render: ModuleFrame(m), Owner: m})
	}

	if in.FaultCode != 0 {
		slots = append(slots, Slot{Kind: SlotFault, Render: FaultFrame(in.FaultCode)})
	}

	if in.ShowMessage() {
		slots = append(slots, Slot{Kind: SlotMessage, Render: MessageFrame(*in.Message, r.deps.Roster)})
	}

	if n := in.NodeSlots(); n > 0 {
		node := &NodeFrame{
			Roster:   r.deps.Roster,
			Rotator:  r.deps.Rotator,
			Heading:  r.deps.Heading,
			Geo:      r.deps.Geo,
			Clock:    r.deps.Clock,
			Imperial: in.Imperial,
			NorthTop: in.CompassNorthTop,
		}
		for i := 0; i < n; i++ {
			slots = append(slots, Slot{Kind: SlotNode, Render: node})
		}
	}

	slots = append(slots,
		Slot{Kind: SlotDebug, Render: orBlank(r.deps.Debug)},
		Slot{Kind: SlotSettings, Render: orBlank(r.deps.Settings)},
	)
	if in.WiFiAvailable {
		slots = append(slots, Slot{Kind: SlotWiFi, Render: orBlank(r.deps.WiFi)})
	}

	r.deps.Rotator.Reset()
	r.deps.Logger.Debug("built frame list",
		log.Int("frames", len(slots)),
		log.Int("modules", len(in.Modules)),
	)
	return List{slots: slots}
}

var blank = RenderFunc(func(ports.Surface, domain.FrameState, int, int) {})

func orBlank(r Renderable) Renderable {
	if r == nil {
		return blank
	}
	return r
}
