package overlay

import (
	"github.com/joeblew999/plat-overlay/internal/event"
	"github.com/joeblew999/plat-overlay/internal/geom"
)

// adjustPan pans the map so the tooltip container stays inside the
// viewport. It runs only when auto-pan is enabled and the container has
// a measured size; an unmeasured container is a no-op, not an error.
//
// The overflow tests are ordered right then left, bottom then top, with
// the left and top tests observing the tentative correction from their
// counterpart. The ordering is load-bearing and must not be normalized.
func (t *Tooltip) adjustPan() {
	if !t.opts.AutoPan || t.mapRef == nil {
		return
	}
	m := t.mapRef

	// A stale pan animation must not fight the fresh correction.
	if m.Panning() {
		m.StopPan()
	}

	// One-shot latch: this call is the reposition pass triggered by our
	// own pan, so swallow it instead of recomputing.
	if t.autopanning {
		t.autopanning = false
		return
	}

	if t.size.IsZero() {
		return
	}

	layerPos := geom.Pt(t.containerLeft, -t.size.H-t.containerBottom).Add(t.position)
	containerPos := m.LayerPointToContainerPoint(layerPos)

	padTL := t.opts.AutoPanPadding
	if t.opts.AutoPanPaddingTopLeft != nil {
		padTL = *t.opts.AutoPanPaddingTopLeft
	}
	padBR := t.opts.AutoPanPadding
	if t.opts.AutoPanPaddingBottomRight != nil {
		padBR = *t.opts.AutoPanPaddingBottomRight
	}

	size := m.Size()
	var dx, dy float64

	if containerPos.X+t.size.W+padBR.X > size.W { // right overflow
		dx = containerPos.X + t.size.W - size.W + padBR.X + placementPad
	}
	if containerPos.X-dx-padTL.X < 0 { // left overflow
		dx = containerPos.X - padTL.X
	}
	if containerPos.Y+t.size.H+padBR.Y > size.H { // bottom overflow
		dy = containerPos.Y + t.size.H - size.H + padBR.Y
	}
	if containerPos.Y-dy-padTL.Y < 0 { // top overflow
		dy = containerPos.Y - padTL.Y
	}

	if dx != 0 || dy != 0 {
		if t.opts.KeepInView {
			t.autopanning = true
		}
		delta := geom.Pt(dx, dy)
		m.Events.Fire(event.Event{Type: event.AutoPanStart, Target: t, Delta: delta})
		m.PanBy(delta)
	}
}
