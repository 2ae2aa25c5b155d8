package command

import "sync/atomic"

// DefaultCapacity is the channel size used when none is configured.
const DefaultCapacity = 32

// Waker is told about every accepted command so the consumer can run soon.
type Waker interface {
	Wake()
}

// Channel is a bounded multi-producer, single-consumer FIFO of commands.
// Producers never block: a full channel rejects the command.
type Channel struct {
	ch      chan Command
	waker   Waker
	dropped atomic.Uint64
}

// NewChannel creates a channel. A capacity <= 0 selects DefaultCapacity.
// waker may be nil.
func NewChannel(capacity int, waker Waker) *Channel {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Channel{
		ch:    make(chan Command, capacity),
		waker: waker,
	}
}

// TryEnqueue takes ownership of cmd and queues it without waiting.
// It returns false if the channel is full; the payload of a rejected
// command is released before returning.
func (c *Channel) TryEnqueue(cmd Command) bool {
	select {
	case c.ch <- cmd:
	default:
		c.dropped.Add(1)
		cmd.Release()
		return false
	}
	if c.waker != nil {
		c.waker.Wake()
	}
	return true
}

// DrainAll pops every queued command in FIFO order and hands it to handler.
// Only the consumer may call it. Each payload is released after its
// handler returns, including when the handler panics.
func (c *Channel) DrainAll(handler func(Command)) int {
	n := 0
	for {
		select {
		case cmd := <-c.ch:
			n++
			dispatch(cmd, handler)
		default:
			return n
		}
	}
}

func dispatch(cmd Command, handler func(Command)) {
	defer cmd.Release()
	handler(cmd)
}

// Len returns the number of queued commands.
func (c *Channel) Len() int { return len(c.ch) }

// Cap returns the channel capacity.
func (c *Channel) Cap() int { return cap(c.ch) }

// Dropped returns how many commands were rejected because the channel was full.
func (c *Channel) Dropped() uint64 { return c.dropped.Load() }
