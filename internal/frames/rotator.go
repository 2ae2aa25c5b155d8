package frames

import (
	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/ports"
)

// Rotator picks which roster node a node frame shows. Every node slot
// shares one Rotator, which moves to the next remote node once per
// carousel step that lands on a node slot. It is owned by the render
// goroutine and is not safe for concurrent use.
type Rotator struct {
	prevStep int
	index    int
}

// NewRotator returns a rotator that advances on its first Select.
func NewRotator() *Rotator {
	return &Rotator{prevStep: -1}
}

// Reset forces the next Select to pick a new node.
func (r *Rotator) Reset() {
	r.prevStep = -1
}

// Index returns the roster index last selected.
func (r *Rotator) Index() int {
	return r.index
}

// Select returns the node to draw at the given carousel step, moving to the
// next remote node when step differs from the last one selected.
func (r *Rotator) Select(step int, roster ports.NodeRoster) (domain.NodeInfo, bool) {
	n := roster.NumNodes()
	if n == 0 {
		return domain.NodeInfo{}, false
	}
	// The roster may have shrunk since the last pick.
	if r.index >= n {
		r.index %= n
	}

	if step != r.prevStep {
		r.prevStep = step
		r.index = following(r.index, n, roster)
	}
	return roster.NodeByIndex(r.index)
}

// Peek returns the node Select would return for step without moving the
// rotator. A slot sliding into view uses it so the node does not change
// when the slide lands.
func (r *Rotator) Peek(step int, roster ports.NodeRoster) (domain.NodeInfo, bool) {
	n := roster.NumNodes()
	if n == 0 {
		return domain.NodeInfo{}, false
	}
	i := r.index % n
	if step != r.prevStep {
		i = following(i, n, roster)
	}
	return roster.NodeByIndex(i)
}

// following returns the roster index after i, skipping the local node.
func following(i, n int, roster ports.NodeRoster) int {
	i = (i + 1) % n
	if node, ok := roster.NodeByIndex(i); ok && node.Num == roster.LocalNum() {
		i = (i + 1) % n
	}
	return i
}
