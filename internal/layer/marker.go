package layer

import (
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-overlay/internal/event"
	"github.com/joeblew999/plat-overlay/internal/geom"
)

// Marker is a point feature with an icon. Its tooltip anchor biases
// placement toward the icon tip.
type Marker struct {
	Base
	latlng orb.Point
	anchor geom.Point
	el     *Element
}

// NewMarker creates a marker at ll.
func NewMarker(id string, ll orb.Point) *Marker {
	m := &Marker{latlng: ll, el: NewElement("marker-" + id)}
	m.Base = newBase(id, m)
	return m
}

// Element returns the marker's rendered element model.
func (m *Marker) Element() *Element { return m.el }

// Position returns the marker's location.
func (m *Marker) Position() (orb.Point, bool) {
	return m.latlng, true
}

// LatLng returns the marker's location.
func (m *Marker) LatLng() orb.Point { return m.latlng }

// SetLatLng moves the marker and fires its move event, which drags any
// bound tooltip along.
func (m *Marker) SetLatLng(ll orb.Point) {
	m.latlng = ll
	m.ev.Fire(event.Event{Type: event.Move, LatLng: ll, HasLatLng: true})
}

// SetTooltipAnchor sets the icon-relative placement bias.
func (m *Marker) SetTooltipAnchor(p geom.Point) {
	m.anchor = p
}

// TooltipAnchor implements the anchor capability consulted by non-sticky
// tooltip placement.
func (m *Marker) TooltipAnchor() geom.Point {
	return m.anchor
}
