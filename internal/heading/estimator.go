// Package heading estimates the device's own heading from successive
// position fixes, or from a real compass when one reports.
package heading

import (
	"math"
	"sync"
	"time"

	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/ports"
	"github.com/bft-labs/meshscreen/pkg/geo"
)

const (
	// MinMoveMeters is the smallest move that produces a new bearing.
	MinMoveMeters = 10.0

	// DefaultRealHeadingTimeout is how long a real heading suppresses
	// position-derived ones.
	DefaultRealHeadingTimeout = 10 * time.Second
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures an Estimator.
type Option func(*Estimator)

// WithGeodesy replaces the spherical earth model.
func WithGeodesy(g ports.Geodesy) Option {
	return func(e *Estimator) { e.geo = g }
}

// WithClock sets the time source.
func WithClock(c ports.Clock) Option {
	return func(e *Estimator) { e.clock = c }
}

// WithRealHeadingTimeout sets how long a real heading wins over positions.
func WithRealHeadingTimeout(d time.Duration) Option {
	return func(e *Estimator) { e.realTimeout = d }
}

// Estimator derives a heading in radians, clockwise from north, in [0, 2π).
type Estimator struct {
	geo         ports.Geodesy
	clock       ports.Clock
	realTimeout time.Duration

	mu              sync.Mutex
	lastLat         float64
	lastLon         float64
	lastBearing     float64
	hasLastPosition bool
	hasBearing      bool
	realHeadingAt   time.Time

	subMu  sync.RWMutex
	nextID int
	subs   map[int]func(float64)
}

// New creates an Estimator.
func New(opts ...Option) *Estimator {
	e := &Estimator{
		geo:         geo.Spherical{},
		clock:       systemClock{},
		realTimeout: DefaultRealHeadingTimeout,
		subs:        make(map[int]func(float64)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OfferPosition feeds a position in degrees. It returns the current bearing
// and whether one is known.
//
// The first sample only records the position. Moves shorter than
// MinMoveMeters keep the previous bearing and leave the recorded position
// alone, so slow drift accumulates until it crosses the threshold.
func (e *Estimator) OfferPosition(lat, lon float64) (float64, bool) {
	e.mu.Lock()
	if e.realHeadingActive() {
		b, ok := e.lastBearing, e.hasBearing
		e.mu.Unlock()
		return b, ok
	}
	if !e.hasLastPosition {
		e.lastLat, e.lastLon = lat, lon
		e.hasLastPosition = true
		e.mu.Unlock()
		return 0, false
	}
	if e.geo.DistanceMeters(e.lastLat, e.lastLon, lat, lon) < MinMoveMeters {
		b, ok := e.lastBearing, e.hasBearing
		e.mu.Unlock()
		return b, ok
	}

	b := e.geo.Bearing(e.lastLat, e.lastLon, lat, lon)
	e.lastLat, e.lastLon = lat, lon
	e.lastBearing = b
	e.hasBearing = true
	e.mu.Unlock()

	e.notify(b)
	return b, true
}

// OfferHeading records a heading from a real sensor, in radians.
func (e *Estimator) OfferHeading(h float64) {
	h = normalize(h)

	e.mu.Lock()
	e.lastBearing = h
	e.hasBearing = true
	e.realHeadingAt = e.clock.Now()
	e.mu.Unlock()

	e.notify(h)
}

// OnGPS adapts a GPS update. Fixes without a lock are ignored.
func (e *Estimator) OnGPS(st domain.GPSStatus) {
	if !st.HasLock {
		return
	}
	e.OfferPosition(geo.DegD(st.Latitude), geo.DegD(st.Longitude))
}

// Bearing returns the last known bearing.
func (e *Estimator) Bearing() (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastBearing, e.hasBearing
}

// Subscribe registers fn for bearing changes and returns a function that
// removes it. fn runs on the caller of OfferPosition or OfferHeading.
func (e *Estimator) Subscribe(fn func(bearing float64)) (cancel func()) {
	e.subMu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.subMu.Unlock()

	return func() {
		e.subMu.Lock()
		delete(e.subs, id)
		e.subMu.Unlock()
	}
}

// realHeadingActive must be called with mu held.
func (e *Estimator) realHeadingActive() bool {
	if e.realHeadingAt.IsZero() {
		return false
	}
	return e.clock.Now().Sub(e.realHeadingAt) < e.realTimeout
}

func (e *Estimator) notify(b float64) {
	e.subMu.RLock()
	fns := make([]func(float64), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subMu.RUnlock()

	for _, fn := range fns {
		fn(b)
	}
}

func normalize(h float64) float64 {
	h = math.Mod(h, 2*math.Pi)
	if h < 0 {
		h += 2 * math.Pi
	}
	return h
}
