package domain

// FrameState is the carousel state handed to a renderer.
type FrameState struct {
	// Current is the index of the frame the carousel is settled on, or
	// leaving while a transition runs.
	Current int
	// Count is the length of the active frame list.
	Count int
	// InTransition is true while the carousel slides between two frames.
	InTransition bool
	// Incoming is true when the slot being drawn is the transition target.
	Incoming bool
	// Target is the index the carousel is sliding to.
	Target int
	// Step counts the slides the carousel has completed. It grows by one
	// each time a slide lands, even when the list wraps to the same index.
	Step int
}

// Index returns the frame index that the slot being drawn occupies.
func (s FrameState) Index() int {
	if s.InTransition && s.Incoming {
		return s.Target
	}
	return s.Current
}
