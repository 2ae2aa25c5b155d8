// Package button turns a hardware key into screen presses. A short press
// advances the carousel and holding the key steps the brightness.
package button

import "time"

// Key event values as reported by the kernel input layer.
const (
	ValueRelease = 0
	ValuePress   = 1
	ValueRepeat  = 2
)

// Defaults for Decoder.
const (
	DefaultDebounce  = 50 * time.Millisecond
	DefaultLongPress = 500 * time.Millisecond
)

// Action is what a key event asks the screen to do.
type Action int

const (
	ActionNone Action = iota
	ActionPress
	ActionBrightness
)

func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionBrightness:
		return "brightness"
	default:
		return "none"
	}
}

// Handler receives decoded actions.
type Handler interface {
	OnPress()
	AdjustBrightness()
}

// Decoder turns press, repeat and release values into actions. Releasing
// a key held shorter than LongPress is a press. Auto-repeat events after
// LongPress each step the brightness, and the release that follows is
// swallowed.
type Decoder struct {
	Debounce  time.Duration
	LongPress time.Duration

	down      bool
	downAt    time.Time
	adjusted  bool
	lastPress time.Time
}

// NewDecoder creates a Decoder with the default timings.
func NewDecoder() *Decoder {
	return &Decoder{Debounce: DefaultDebounce, LongPress: DefaultLongPress}
}

// Decode handles one key event.
func (d *Decoder) Decode(value int32, at time.Time) Action {
	switch value {
	case ValuePress:
		d.down = true
		d.downAt = at
		d.adjusted = false
	case ValueRepeat:
		if d.down && at.Sub(d.downAt) >= d.LongPress {
			d.adjusted = true
			return ActionBrightness
		}
	case ValueRelease:
		if !d.down {
			return ActionNone
		}
		d.down = false
		if d.adjusted {
			return ActionNone
		}
		if !d.lastPress.IsZero() && at.Sub(d.lastPress) < d.Debounce {
			return ActionNone
		}
		d.lastPress = at
		return ActionPress
	}
	return ActionNone
}

// Dispatch sends a to h.
func Dispatch(a Action, h Handler) {
	switch a {
	case ActionPress:
		h.OnPress()
	case ActionBrightness:
		h.AdjustBrightness()
	}
}
