// Package event provides the publish/subscribe plumbing for maps, layers,
// and overlays. Each map and layer owns an Emitter whose handlers fire
// synchronously in registration order; the Bus fans events out to SSE
// subscribers on buffered channels.
package event

import (
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-overlay/internal/geom"
)

// Type identifies an event kind.
type Type string

// Layer lifecycle and interaction events.
const (
	Add       Type = "add"
	Remove    Type = "remove"
	Move      Type = "move"
	MouseOver Type = "mouseover"
	MouseOut  Type = "mouseout"
	MouseMove Type = "mousemove"
	Click     Type = "click"
	Focus     Type = "focus"
	Blur      Type = "blur"
)

// Map viewport events.
const (
	ViewReset Type = "viewreset"
	Zoom      Type = "zoom"
	ZoomEnd   Type = "zoomend"
	MoveEnd   Type = "moveend"
)

// Overlay notifications.
const (
	TooltipOpen  Type = "tooltipopen"
	TooltipClose Type = "tooltipclose"
	AutoPanStart Type = "autopanstart"
)

// Event is the payload delivered to handlers. Target is the emitter's
// owner; PropagatedFrom is set when a child layer's event is re-fired on
// its group.
type Event struct {
	Type           Type
	Target         any
	PropagatedFrom any

	// LatLng carries the geographic position for mouse and move events.
	// HasLatLng distinguishes a real zero coordinate from an absent one.
	LatLng    orb.Point
	HasLatLng bool

	// ContainerPoint is the viewport-relative pixel position for mouse
	// events, used by sticky tooltips to follow the cursor.
	ContainerPoint geom.Point

	// Delta carries the pan delta for autopanstart notifications.
	Delta geom.Point
}

// Handler consumes one event.
type Handler func(Event)

// Listener is the handle returned by On, used to deregister.
type Listener struct {
	typ Type
	fn  Handler
}

// Emitter dispatches events to handlers synchronously, in registration
// order. It is not internally locked: all mutation of one map's state is
// serialized by the owning session.
type Emitter struct {
	owner    any
	handlers map[Type][]*Listener
	parents  []*Emitter
}

// NewEmitter creates an emitter whose fired events default Target to owner.
func NewEmitter(owner any) *Emitter {
	return &Emitter{owner: owner}
}

// On registers a handler for an event type and returns its listener handle.
func (e *Emitter) On(t Type, fn Handler) *Listener {
	if e.handlers == nil {
		e.handlers = make(map[Type][]*Listener)
	}
	l := &Listener{typ: t, fn: fn}
	e.handlers[t] = append(e.handlers[t], l)
	return l
}

// Off removes a previously registered listener. Removing a listener twice
// is a no-op.
func (e *Emitter) Off(l *Listener) {
	if l == nil || e.handlers == nil {
		return
	}
	list := e.handlers[l.typ]
	for i, cand := range list {
		if cand == l {
			e.handlers[l.typ] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// AddParent makes p receive every event fired on e, with PropagatedFrom
// set to e's owner. Used by group layers to observe their children.
func (e *Emitter) AddParent(p *Emitter) {
	e.parents = append(e.parents, p)
}

// RemoveParent stops propagation to p.
func (e *Emitter) RemoveParent(p *Emitter) {
	for i, cand := range e.parents {
		if cand == p {
			e.parents = append(e.parents[:i:i], e.parents[i+1:]...)
			return
		}
	}
}

// Fire dispatches ev to all handlers registered for its type, then
// propagates it to parent emitters. Handlers registered during dispatch
// do not receive the current event.
func (e *Emitter) Fire(ev Event) {
	if ev.Target == nil {
		ev.Target = e.owner
	}
	if list := e.handlers[ev.Type]; len(list) > 0 {
		snapshot := make([]*Listener, len(list))
		copy(snapshot, list)
		for _, l := range snapshot {
			l.fn(ev)
		}
	}
	for _, p := range e.parents {
		pev := ev
		if pev.PropagatedFrom == nil {
			pev.PropagatedFrom = e.owner
		}
		p.Fire(pev)
	}
}

// ListenerCount returns the number of handlers registered for t.
func (e *Emitter) ListenerCount(t Type) int {
	return len(e.handlers[t])
}

// TotalListeners returns the number of handlers across all event types.
func (e *Emitter) TotalListeners() int {
	n := 0
	for _, list := range e.handlers {
		n += len(list)
	}
	return n
}
