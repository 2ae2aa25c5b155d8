package app

import (
	"time"

	"github.com/bft-labs/meshscreen/internal/domain"
)

type carouselState int

const (
	carouselFixed carouselState = iota
	carouselInTransition
)

// carousel tracks which frame is shown and the slide to the next one.
// It is owned by the render goroutine.
type carousel struct {
	current  int
	target   int
	count    int
	steps    int
	state    carouselState
	started  time.Time
	duration time.Duration
	progress float64
}

func (c *carousel) reset(count int) {
	c.current, c.target = 0, 0
	c.count = count
	c.state = carouselFixed
	c.progress = 0
}

func (c *carousel) fixed() bool {
	return c.state == carouselFixed
}

// next starts a slide to the following frame, wrapping at the end.
// It does nothing while a slide is running.
func (c *carousel) next(now time.Time) bool {
	if c.state != carouselFixed || c.count == 0 {
		return false
	}
	c.target = (c.current + 1) % c.count
	c.state = carouselInTransition
	c.started = now
	c.progress = 0
	return true
}

// advance moves a running slide forward to now.
func (c *carousel) advance(now time.Time) {
	if c.state != carouselInTransition {
		return
	}
	if c.duration <= 0 {
		c.progress = 1
	} else {
		c.progress = float64(now.Sub(c.started)) / float64(c.duration)
	}
	if c.progress >= 1 {
		c.current = c.target
		c.steps++
		c.state = carouselFixed
		c.progress = 0
	}
}

func (c *carousel) frameState(incoming bool) domain.FrameState {
	return domain.FrameState{
		Current:      c.current,
		Count:        c.count,
		InTransition: c.state == carouselInTransition,
		Incoming:     incoming,
		Target:       c.target,
		Step:         c.steps,
	}
}
