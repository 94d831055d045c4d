// Package overlay implements positioned map overlays: the tooltip
// container lifecycle, the placement engine that turns an anchor and a
// direction preference into a screen position, and the auto-pan
// controller that keeps an open tooltip inside the viewport.
package overlay

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-overlay/internal/event"
	"github.com/joeblew999/plat-overlay/internal/geom"
	"github.com/joeblew999/plat-overlay/internal/mapview"
)

// Source is the host layer a tooltip is bound to. The tooltip keeps a
// back reference only; it never owns the layer's lifecycle.
type Source interface {
	Events() *event.Emitter
	// Position returns the layer's representative anchor position, or
	// false when the layer has no single position (for example a group).
	Position() (orb.Point, bool)
}

// Anchorer is an optional capability a source layer may implement to
// bias tooltip placement toward a visual feature such as an icon tip.
type Anchorer interface {
	TooltipAnchor() geom.Point
}

// Tooltip is a transient positioned overlay anchored to a geographic
// coordinate or to a movable source layer.
type Tooltip struct {
	id      string
	opts    Options
	content string

	mapRef *mapview.Map
	source Source
	latlng *orb.Point

	open bool

	// Measured container geometry. reported is a client-supplied DOM
	// measurement that overrides the server-side estimate when present.
	size       geom.Size
	scrollable bool
	reported   *geom.Size

	// Layer-space offsets of the container box relative to the rendered
	// position, used by the auto-pan overflow computation.
	containerLeft   float64
	containerBottom float64

	position  geom.Point
	direction Direction
	classes   []string

	// autopanning suppresses the reposition pass triggered by our own
	// corrective pan.
	autopanning bool

	listeners []*event.Listener
}

// NewTooltip creates a closed tooltip with the given options. A zero
// Direction defaults to auto; zero size bounds get the stock clamps.
func NewTooltip(opts Options) *Tooltip {
	def := DefaultOptions()
	if opts.Pane == "" {
		opts.Pane = def.Pane
	}
	if opts.Direction == "" {
		opts.Direction = def.Direction
	}
	if opts.Opacity == 0 {
		opts.Opacity = def.Opacity
	}
	if opts.AutoPanPadding.IsZero() {
		opts.AutoPanPadding = def.AutoPanPadding
	}
	if opts.MinWidth == 0 {
		opts.MinWidth = def.MinWidth
	}
	if opts.MaxWidth == 0 {
		opts.MaxWidth = def.MaxWidth
	}
	return &Tooltip{
		id:      "overlay-tooltip-" + uuid.NewString(),
		opts:    opts,
		classes: []string{"overlay-tooltip"},
	}
}

// ID returns the tooltip container's unique element id, referenced by
// bound layers through aria-describedby.
func (t *Tooltip) ID() string { return t.id }

// Options returns the tooltip configuration.
func (t *Tooltip) Options() Options { return t.opts }

// IsOpen reports whether the tooltip is currently rendered on a map.
func (t *Tooltip) IsOpen() bool { return t.open }

// Content returns the current content.
func (t *Tooltip) Content() string { return t.content }

// Position returns the last rendered layer-space position.
func (t *Tooltip) Position() geom.Point { return t.position }

// ResolvedDirection returns the direction of the last placement pass,
// never DirAuto once placed.
func (t *Tooltip) ResolvedDirection() Direction { return t.direction }

// Size returns the measured container size.
func (t *Tooltip) Size() geom.Size { return t.size }

// Scrollable reports whether the content was pinned to MaxHeight.
func (t *Tooltip) Scrollable() bool { return t.scrollable }

// Classes returns the container style-class tokens.
func (t *Tooltip) Classes() []string { return t.classes }

// SetSource sets the bound source layer back reference.
func (t *Tooltip) SetSource(s Source) { t.source = s }

// SourceRef returns the bound source layer, if any.
func (t *Tooltip) SourceRef() Source { return t.source }

// LatLng returns the geographic anchor, or false if not yet set.
func (t *Tooltip) LatLng() (orb.Point, bool) {
	if t.latlng == nil {
		return orb.Point{}, false
	}
	return *t.latlng, true
}

// SetContent replaces the tooltip content and, when open, re-runs the
// layout and placement pipeline.
func (t *Tooltip) SetContent(content string) {
	t.content = content
	if t.open {
		t.Update()
	}
}

// SetLatLng moves the geographic anchor. An open tooltip is repositioned
// immediately and overflow-corrected.
func (t *Tooltip) SetLatLng(ll orb.Point) {
	t.latlng = &ll
	if t.open && t.mapRef != nil {
		t.updatePosition()
		t.adjustPan()
	}
}

// SetOpacity updates the container opacity.
func (t *Tooltip) SetOpacity(o float64) {
	t.opts.Opacity = o
}

// ReportLayout installs a client-measured container box, overriding the
// server-side size estimate on the next update.
func (t *Tooltip) ReportLayout(size geom.Size, left, bottom float64) {
	t.reported = &size
	t.containerLeft = left
	t.containerBottom = bottom
	if t.open {
		t.Update()
	}
}

// PrepareOpen resolves the anchor position before rendering. It returns
// false when no position can be determined, in which case the open is
// silently abandoned.
func (t *Tooltip) PrepareOpen(ll *orb.Point) bool {
	if ll != nil {
		t.latlng = ll
		return true
	}
	// Re-resolve from the source on every open so a shared tooltip
	// anchors at whichever layer triggered it, not a stale position.
	if t.source != nil {
		if pos, ok := t.source.Position(); ok {
			t.latlng = &pos
			return true
		}
		return false
	}
	return t.latlng != nil
}

// OpenOn renders the tooltip on m. Opening a non-permanent tooltip
// closes any other transient tooltip on the same map. Opening an already
// open tooltip is a no-op.
func (t *Tooltip) OpenOn(m *mapview.Map) {
	if t.open || m == nil || t.latlng == nil {
		return
	}
	t.mapRef = m
	t.open = true

	if !t.opts.Permanent {
		m.SetTransientTooltip(t)
	}

	t.listeners = append(t.listeners,
		m.Events.On(event.Zoom, func(event.Event) { t.updatePosition() }),
		m.Events.On(event.ViewReset, func(event.Event) { t.updatePosition() }),
		m.Events.On(event.Move, func(event.Event) { t.updatePosition() }),
		m.Events.On(event.ZoomEnd, func(event.Event) { t.Update() }),
	)
	if t.opts.KeepInView {
		t.listeners = append(t.listeners,
			m.Events.On(event.MoveEnd, func(event.Event) { t.adjustPan() }))
	}

	t.Update()

	m.Events.Fire(event.Event{Type: event.TooltipOpen, Target: t})
	if t.source != nil {
		t.source.Events().Fire(event.Event{Type: event.TooltipOpen, Target: t})
	}
}

// Close removes the tooltip from its map. Closing a closed tooltip is a
// no-op.
func (t *Tooltip) Close() {
	if !t.open {
		return
	}
	m := t.mapRef
	t.open = false

	for _, l := range t.listeners {
		m.Events.Off(l)
	}
	t.listeners = nil
	m.ClearTransientTooltip(t)

	m.Events.Fire(event.Event{Type: event.TooltipClose, Target: t})
	if t.source != nil {
		t.source.Events().Fire(event.Event{Type: event.TooltipClose, Target: t})
	}
}

// Toggle opens the tooltip on m if closed, closes it if open.
func (t *Tooltip) Toggle(m *mapview.Map) {
	if t.open {
		t.Close()
		return
	}
	if t.PrepareOpen(nil) {
		t.OpenOn(m)
	}
}

// Update runs the full pipeline: layout measurement, placement, and
// overflow correction.
func (t *Tooltip) Update() {
	if !t.open {
		return
	}
	t.updateLayout()
	t.updatePosition()
	t.adjustPan()
}

func (t *Tooltip) updateLayout() {
	if t.reported != nil {
		t.size = *t.reported
		t.scrollable = t.opts.MaxHeight > 0 && t.size.H >= t.opts.MaxHeight
		return
	}
	t.size, t.scrollable = MeasureContent(t.content, t.opts.MinWidth, t.opts.MaxWidth, t.opts.MaxHeight)
}
