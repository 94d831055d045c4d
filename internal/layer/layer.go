// Package layer implements the host-layer side of the overlay engine:
// marker, path, and group layer variants, their rendered-element model,
// and the tooltip binding state machine that decides when an overlay
// opens, closes, or repositions in response to layer and map events.
package layer

import (
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-overlay/internal/event"
	"github.com/joeblew999/plat-overlay/internal/mapview"
)

// Layer is any map-renderable feature a tooltip can bind to.
type Layer interface {
	ID() string
	Events() *event.Emitter

	// Map returns the map the layer is attached to, or nil.
	Map() *mapview.Map
	AddTo(m *mapview.Map)
	Remove()

	// Element returns the layer's rendered element model, or nil when
	// the layer has no single rendered representation (groups).
	Element() *Element

	// Position returns the layer's anchor position, or false when the
	// layer has no single position of its own.
	Position() (orb.Point, bool)
}

// ChildIterator is the capability a group-type layer implements to let
// operations delegate across its children.
type ChildIterator interface {
	Children() []Layer
}

// Base carries the state shared by all layer variants. self is the
// concrete layer, set at construction, so the binding machine can hand
// the right variant to the tooltip as its source.
type Base struct {
	id   string
	self Layer
	ev   *event.Emitter

	mapRef *mapview.Map

	binding *tooltipBinding
}

func newBase(id string, self Layer) Base {
	return Base{id: id, self: self, ev: event.NewEmitter(self)}
}

// ID returns the layer identifier.
func (b *Base) ID() string { return b.id }

// Events returns the layer's emitter.
func (b *Base) Events() *event.Emitter { return b.ev }

// Map returns the map the layer is attached to, or nil.
func (b *Base) Map() *mapview.Map { return b.mapRef }

// AddTo attaches the layer to m and fires its add event.
func (b *Base) AddTo(m *mapview.Map) {
	if b.mapRef == m {
		return
	}
	b.mapRef = m
	m.AddLayer(b.self)
	b.ev.Fire(event.Event{Type: event.Add})
}

// Remove detaches the layer from its map and fires its remove event.
// Removing a detached layer is a no-op.
func (b *Base) Remove() {
	if b.mapRef == nil {
		return
	}
	b.ev.Fire(event.Event{Type: event.Remove})
	b.mapRef.RemoveLayer(b.self)
	b.mapRef = nil
}
