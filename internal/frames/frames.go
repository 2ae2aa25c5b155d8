// Package frames builds the ordered list of frames the carousel cycles
// through and provides the renderers for every frame the device can show.
package frames

import (
	"fmt"

	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/ports"
)

// Renderable draws one frame at an x/y offset. The offset is non-zero
// while the carousel slides between frames.
type Renderable interface {
	Draw(s ports.Surface, st domain.FrameState, x, y int)
}

// RenderFunc adapts a function to Renderable.
type RenderFunc func(s ports.Surface, st domain.FrameState, x, y int)

// Draw calls f.
func (f RenderFunc) Draw(s ports.Surface, st domain.FrameState, x, y int) {
	f(s, st, x, y)
}

// SlotKind identifies what a slot shows.
type SlotKind int

const (
	SlotStatic SlotKind = iota
	SlotModule
	SlotFault
	SlotMessage
	SlotNode
	SlotDebug
	SlotSettings
	SlotWiFi
)

// String returns a human-readable representation of the kind.
func (k SlotKind) String() string {
	switch k {
	case SlotStatic:
		return "static"
	case SlotModule:
		return "module"
	case SlotFault:
		return "fault"
	case SlotMessage:
		return "message"
	case SlotNode:
		return "node"
	case SlotDebug:
		return "debug"
	case SlotSettings:
		return "settings"
	case SlotWiFi:
		return "wifi"
	default:
		return fmt.Sprintf("SlotKind(%d)", int(k))
	}
}

// Slot is one entry of a frame list.
type Slot struct {
	Kind   SlotKind
	Render Renderable
	// Owner is the module for module slots and the static frame name for
	// static slots. It is nil otherwise.
	Owner any
}

// List is an immutable ordered frame list. A new list replaces the old one
// wholesale.
type List struct {
	slots []Slot
}

// NewList copies slots into a list.
func NewList(slots ...Slot) List {
	return List{slots: append([]Slot(nil), slots...)}
}

// Single returns a one-slot static list.
func Single(name string, r Renderable) List {
	return NewList(Slot{Kind: SlotStatic, Render: r, Owner: name})
}

// Len returns the number of slots.
func (l List) Len() int { return len(l.slots) }

// At returns slot i.
func (l List) At(i int) Slot { return l.slots[i] }

// Kinds returns the slot kinds in order.
func (l List) Kinds() []SlotKind {
	kinds := make([]SlotKind, len(l.slots))
	for i, s := range l.slots {
		kinds[i] = s.Kind
	}
	return kinds
}
