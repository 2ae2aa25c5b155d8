// Package status carries push-style status notifications from producers
// (power, GPS, node roster, text messages, module UI events) to the screen.
//
// Producers call Notify on the matching [Observable] of a [Hub]; the screen
// subscribes once at setup. Subscribers run on the producer's goroutine and
// must not block.
package status

import (
	"sync"

	"github.com/bft-labs/meshscreen/internal/domain"
)

// Observable fans a value out to every subscriber.
type Observable[T any] struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(T)
}

// Subscribe registers fn and returns a function that removes it.
func (o *Observable[T]) Subscribe(fn func(T)) (cancel func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.subs == nil {
		o.subs = make(map[int]func(T))
	}
	id := o.nextID
	o.nextID++
	o.subs[id] = fn

	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}

// Notify calls every subscriber with v. Subscribers are called outside the lock.
func (o *Observable[T]) Notify(v T) {
	o.mu.RLock()
	fns := make([]func(T), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len returns the number of subscribers.
func (o *Observable[T]) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subs)
}

// Hub groups the status notifications a screen listens to.
type Hub struct {
	Power    Observable[domain.PowerStatus]
	GPS      Observable[domain.GPSStatus]
	Nodes    Observable[domain.NodeStatus]
	Messages Observable[domain.TextMessage]
	UIEvents Observable[domain.UIFrameEvent]
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}
