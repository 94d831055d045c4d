package overlay

import (
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-overlay/internal/event"
	"github.com/joeblew999/plat-overlay/internal/geom"
)

// stubSource is a minimal Source with the anchor capability for tests.
type stubSource struct {
	pos    orb.Point
	noPos  bool
	anchor geom.Point
	ev     *event.Emitter
}

func (s *stubSource) Events() *event.Emitter {
	if s.ev == nil {
		s.ev = event.NewEmitter(s)
	}
	return s.ev
}

func (s *stubSource) Position() (orb.Point, bool) {
	if s.noPos {
		return orb.Point{}, false
	}
	return s.pos, true
}

func (s *stubSource) TooltipAnchor() geom.Point {
	return s.anchor
}
