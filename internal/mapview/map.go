// Package mapview implements the viewport side of the overlay engine: a
// map with a center, zoom, and container size, pixel conversions between
// geographic, layer, and container space, and pan/zoom operations that
// notify listeners through a synchronous emitter.
package mapview

import (
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-overlay/internal/event"
	"github.com/joeblew999/plat-overlay/internal/geom"
)

// Closer is anything the map can close when a new transient tooltip
// replaces it.
type Closer interface {
	Close()
}

// MouseEvent carries the raw client coordinates of a pointer event as
// reported by the embedding client.
type MouseEvent struct {
	ClientX float64 `json:"clientX" doc:"Pointer X in client coordinates"`
	ClientY float64 `json:"clientY" doc:"Pointer Y in client coordinates"`
}

// PanAnim is a handle for an in-flight corrective pan. Stopping it
// prevents the moveend notification of the pan it belongs to.
type PanAnim struct {
	stopped bool
}

// Stop cancels the animation.
func (a *PanAnim) Stop() {
	a.stopped = true
}

// Map holds the viewport state. It is not internally locked: the owning
// session serializes all access, matching the single-threaded event
// dispatch model of the original system.
type Map struct {
	Events *event.Emitter

	center      orb.Point
	zoom        float64
	size        geom.Size
	pixelOrigin geom.Point
	panePos     geom.Point

	// containerOrigin is the screen position of the map container,
	// subtracted when converting raw mouse events.
	containerOrigin geom.Point

	layers  map[any]struct{}
	panAnim *PanAnim

	transient Closer
}

// New creates a map centered on ll at the given zoom with a container size.
func New(ll orb.Point, zoom float64, size geom.Size) *Map {
	m := &Map{
		center: ll,
		zoom:   zoom,
		size:   size,
		layers: make(map[any]struct{}),
	}
	m.Events = event.NewEmitter(m)
	m.resetPixelOrigin()
	return m
}

func (m *Map) resetPixelOrigin() {
	half := geom.Pt(m.size.W/2, m.size.H/2)
	m.pixelOrigin = projectPoint(m.center, m.zoom).Sub(half).Round()
}

// Center returns the geographic center.
func (m *Map) Center() orb.Point { return m.center }

// Zoom returns the current zoom level.
func (m *Map) Zoom() float64 { return m.zoom }

// Size returns the container size in pixels.
func (m *Map) Size() geom.Size { return m.size }

// LatLngToLayerPoint converts a geographic point to layer-space pixels.
func (m *Map) LatLngToLayerPoint(ll orb.Point) geom.Point {
	return projectPoint(ll, m.zoom).Sub(m.pixelOrigin)
}

// LayerPointToLatLng converts layer-space pixels back to geographic.
func (m *Map) LayerPointToLatLng(p geom.Point) orb.Point {
	return unprojectPoint(p.Add(m.pixelOrigin), m.zoom)
}

// LayerPointToContainerPoint converts layer space to container space.
// The pane offset collapses to zero here because the pixel origin is
// reset on every move, but the conversion is kept distinct so callers
// never mix the two spaces.
func (m *Map) LayerPointToContainerPoint(p geom.Point) geom.Point {
	return p.Add(m.panePos)
}

// ContainerPointToLayerPoint converts container space to layer space.
func (m *Map) ContainerPointToLayerPoint(p geom.Point) geom.Point {
	return p.Sub(m.panePos)
}

// LatLngToContainerPoint converts geographic to container space.
func (m *Map) LatLngToContainerPoint(ll orb.Point) geom.Point {
	return m.LayerPointToContainerPoint(m.LatLngToLayerPoint(ll))
}

// ContainerPointToLatLng converts container space to geographic.
func (m *Map) ContainerPointToLatLng(p geom.Point) orb.Point {
	return m.LayerPointToLatLng(m.ContainerPointToLayerPoint(p))
}

// MouseEventToContainerPoint converts raw client coordinates to a
// container-relative point.
func (m *Map) MouseEventToContainerPoint(ev MouseEvent) geom.Point {
	return geom.Pt(ev.ClientX, ev.ClientY).Sub(m.containerOrigin)
}

// SetContainerOrigin sets the screen position of the map container.
func (m *Map) SetContainerOrigin(p geom.Point) {
	m.containerOrigin = p
}

// CenterContainerPoint returns the container-space position of the map
// center, used by auto direction resolution.
func (m *Map) CenterContainerPoint() geom.Point {
	return m.LatLngToContainerPoint(m.center)
}

// PanBy shifts the view by a pixel delta and fires move, then moveend.
// Listeners run synchronously within this call; stopping the returned
// animation handle from a move listener suppresses the moveend.
func (m *Map) PanBy(delta geom.Point) *PanAnim {
	anim := &PanAnim{}
	if delta.Round().IsZero() {
		return anim
	}
	m.panAnim = anim

	m.center = unprojectPoint(projectPoint(m.center, m.zoom).Add(delta), m.zoom)
	m.resetPixelOrigin()

	m.Events.Fire(event.Event{Type: event.Move})
	if anim.stopped {
		m.panAnim = nil
		return anim
	}
	m.Events.Fire(event.Event{Type: event.MoveEnd})
	m.panAnim = nil
	return anim
}

// StopPan cancels any in-flight pan animation.
func (m *Map) StopPan() {
	if m.panAnim != nil {
		m.panAnim.Stop()
		m.panAnim = nil
	}
}

// Panning reports whether a pan animation is in flight.
func (m *Map) Panning() bool {
	return m.panAnim != nil
}

// SetView moves the map to a new center and zoom. Zoom listeners fire
// before viewreset so overlays can hook the zoom animation.
func (m *Map) SetView(ll orb.Point, zoom float64) {
	zoomChanged := zoom != m.zoom
	m.center = ll
	m.zoom = zoom
	m.resetPixelOrigin()

	if zoomChanged {
		m.Events.Fire(event.Event{Type: event.Zoom})
	}
	m.Events.Fire(event.Event{Type: event.ViewReset})
	if zoomChanged {
		m.Events.Fire(event.Event{Type: event.ZoomEnd})
	}
	m.Events.Fire(event.Event{Type: event.MoveEnd})
}

// SetSize updates the container size after a client resize.
func (m *Map) SetSize(size geom.Size) {
	m.size = size
	m.resetPixelOrigin()
	m.Events.Fire(event.Event{Type: event.ViewReset})
	m.Events.Fire(event.Event{Type: event.MoveEnd})
}

// AddLayer records a layer as attached to this map.
func (m *Map) AddLayer(l any) {
	m.layers[l] = struct{}{}
}

// RemoveLayer removes a layer from the map's membership set.
func (m *Map) RemoveLayer(l any) {
	delete(m.layers, l)
}

// HasLayer reports whether l is attached to this map.
func (m *Map) HasLayer(l any) bool {
	_, ok := m.layers[l]
	return ok
}

// SetTransientTooltip closes any previously open non-permanent tooltip
// and records c as the one currently open.
func (m *Map) SetTransientTooltip(c Closer) {
	if m.transient != nil && m.transient != c {
		m.transient.Close()
	}
	m.transient = c
}

// ClearTransientTooltip forgets c if it is the currently open transient
// tooltip.
func (m *Map) ClearTransientTooltip(c Closer) {
	if m.transient == c {
		m.transient = nil
	}
}

// CloseTransientTooltip closes the currently open non-permanent tooltip,
// if any.
func (m *Map) CloseTransientTooltip() {
	if m.transient != nil {
		m.transient.Close()
	}
}
