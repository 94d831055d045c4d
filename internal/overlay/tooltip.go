package overlay

import (
	"strings"

	"github.com/joeblew999/plat-overlay/internal/geom"
)

// placementPad is the fixed visual clearance applied to top placement
// and to the horizontal overflow correction. It is an implementation
// constant, not a configuration option.
const placementPad = 6

// computePlacement returns the (subX, subY) offset for a direction
// preference and the resolved direction, which is never DirAuto. The
// final position is projected - sub + offset + anchor.
//
// For DirAuto the tooltip goes right of anchors left of the viewport
// center and left otherwise; left placement doubles the anchor's x
// component to compensate for anchor-driven asymmetry.
func computePlacement(size geom.Size, dir Direction, anchor, projected, center geom.Point) (geom.Point, Direction) {
	w, h := size.W, size.H
	switch dir {
	case DirTop:
		return geom.Pt(0, placementPad), dir
	case DirBottom:
		return geom.Pt(0, -h-placementPad), dir
	case DirCenter:
		return geom.Pt(0, -h/2), dir
	case DirRight:
		return geom.Pt(-w/2, -h/2), dir
	case DirLeft:
		return geom.Pt(w/2, -h/2), dir
	}
	if projected.X < center.X {
		return geom.Pt(-w/2, -h/2), DirRight
	}
	return geom.Pt(w/2+2*anchor.X, -h/2), DirLeft
}

// anchor returns the source layer's placement anchor. Sticky tooltips
// always contribute a zero anchor and never consult the capability.
func (t *Tooltip) anchor() geom.Point {
	if t.opts.Sticky {
		return geom.Point{}
	}
	if a, ok := t.source.(Anchorer); ok {
		return a.TooltipAnchor()
	}
	return geom.Point{}
}

// updatePosition runs the placement engine: it resolves the direction,
// swaps the direction class token, and stores the final layer-space
// position. A tooltip without an anchor or a map is left untouched.
func (t *Tooltip) updatePosition() {
	if t.mapRef == nil || t.latlng == nil {
		return
	}
	m := t.mapRef

	pos := m.LatLngToLayerPoint(*t.latlng)
	projected := m.LayerPointToContainerPoint(pos)
	center := m.CenterContainerPoint()
	anchor := t.anchor()

	sub, dir := computePlacement(t.size, t.opts.Direction, anchor, projected, center)

	t.setDirectionClass(dir)
	t.direction = dir
	t.position = pos.Sub(sub).Add(t.opts.Offset).Add(anchor)
}

// setDirectionClass replaces any previous direction token with the one
// for dir. Direction tokens are mutually exclusive, never combined.
func (t *Tooltip) setDirectionClass(dir Direction) {
	kept := t.classes[:0]
	for _, c := range t.classes {
		if strings.HasPrefix(c, "overlay-tooltip-") {
			continue
		}
		kept = append(kept, c)
	}
	t.classes = append(kept, dir.ClassToken())
}
