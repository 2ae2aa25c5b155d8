package sim

import (
	"sync"
	"time"

	"github.com/bft-labs/meshscreen/internal/domain"
	"github.com/bft-labs/meshscreen/internal/frames"
	"github.com/bft-labs/meshscreen/internal/ports"
)

// ClockModule is a module frame showing the wall clock. A nil Clock reads
// the system time.
type ClockModule struct {
	Clock ports.Clock
}

func (ClockModule) Name() string { return "clock" }

func (m ClockModule) DrawFrame(s ports.Surface, _ domain.FrameState, x, y int) {
	now := time.Now()
	if m.Clock != nil {
		now = m.Clock.Now()
	}
	hm := now.Format("15:04:05")
	date := now.Format("Mon 02 Jan")
	lh := s.LineHeight()
	s.DrawString(x+frames.CenterX(s, hm), y+(s.Height()-2*lh)/2, hm)
	s.DrawString(x+frames.CenterX(s, date), y+(s.Height()-2*lh)/2+lh, date)
}

// Modules is a fixed module registry.
type Modules struct {
	mu      sync.RWMutex
	modules []ports.Module
}

// NewModules creates a registry holding ms.
func NewModules(ms ...ports.Module) *Modules {
	return &Modules{modules: ms}
}

func (r *Modules) ModuleFrames() []ports.Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ports.Module(nil), r.modules...)
}

var _ ports.ModuleRegistry = (*Modules)(nil)
