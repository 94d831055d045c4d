package layer

import (
	"errors"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-overlay/internal/event"
	"github.com/joeblew999/plat-overlay/internal/overlay"
)

// ErrNoTooltip is returned by TooltipOpen when no tooltip is bound.
// Callers must check binding state first; the accessor fails fast
// instead of guessing.
var ErrNoTooltip = errors.New("layer: no tooltip bound")

// Binding states, exposed for observers and the HTTP surface.
const (
	StateUnbound       = "unbound"
	StateIdle          = "idle"
	StateOpen          = "open"
	StatePermanentOpen = "permanent-open"
)

// ariaDescribedBy is the accessibility attribute set on a bound layer's
// element while its tooltip is open.
const ariaDescribedBy = "aria-describedby"

type boundListener struct {
	em *event.Emitter
	l  *event.Listener
}

// tooltipBinding is the per-layer association with a tooltip instance.
// At most one binding exists per layer; rebinding replaces it.
type tooltipBinding struct {
	tooltip       *overlay.Tooltip
	handlersAdded bool
	listeners     []boundListener
}

// BindTooltip associates a tooltip with the layer, replacing and closing
// any prior binding. A permanent tooltip on a layer already attached to
// a map opens immediately.
func (b *Base) BindTooltip(content string, opts overlay.Options) *overlay.Tooltip {
	b.UnbindTooltip()

	t := overlay.NewTooltip(opts)
	t.SetContent(content)
	if _, isGroup := b.self.(ChildIterator); !isGroup {
		t.SetSource(b.self)
	}

	b.binding = &tooltipBinding{tooltip: t}
	b.addTooltipInteractions()

	if opts.Permanent && b.mapRef != nil && b.mapRef.HasLayer(b.self) {
		b.openTooltip(nil)
	}
	return t
}

// UnbindTooltip removes the tooltip association: listeners are
// deregistered, an open tooltip is closed, and the layer returns to the
// unbound state. Unbinding an unbound layer is a no-op.
func (b *Base) UnbindTooltip() {
	if b.binding == nil {
		return
	}
	b.removeTooltipInteractions()
	b.CloseTooltip()
	b.binding = nil
}

// Tooltip returns the bound tooltip, or nil.
func (b *Base) Tooltip() *overlay.Tooltip {
	if b.binding == nil {
		return nil
	}
	return b.binding.tooltip
}

// TooltipState returns the binding state constant for this layer.
func (b *Base) TooltipState() string {
	if b.binding == nil {
		return StateUnbound
	}
	t := b.binding.tooltip
	switch {
	case !t.IsOpen():
		return StateIdle
	case t.Options().Permanent:
		return StatePermanentOpen
	default:
		return StateOpen
	}
}

// OpenTooltip opens the bound tooltip. A no-op when unbound, detached,
// or when no anchor position can be resolved.
func (b *Base) OpenTooltip() {
	b.openTooltip(nil)
}

// CloseTooltip closes the bound tooltip and clears the accessibility
// tagging. A no-op when unbound or already closed.
func (b *Base) CloseTooltip() {
	if b.binding == nil {
		return
	}
	b.binding.tooltip.Close()
	b.eachElement(func(el *Element) {
		el.RemoveAttr(ariaDescribedBy)
	})
}

// ToggleTooltip flips the bound tooltip between open and idle.
func (b *Base) ToggleTooltip() {
	if b.binding == nil {
		return
	}
	if b.binding.tooltip.IsOpen() {
		b.CloseTooltip()
	} else {
		b.openTooltip(nil)
	}
}

// TooltipOpen reports whether the bound tooltip is open. Unlike the
// other operations it fails fast with ErrNoTooltip when the layer is
// unbound.
func (b *Base) TooltipOpen() (bool, error) {
	if b.binding == nil {
		return false, ErrNoTooltip
	}
	return b.binding.tooltip.IsOpen(), nil
}

// SetTooltipContent replaces the bound tooltip's content. A no-op when
// unbound.
func (b *Base) SetTooltipContent(content string) {
	if b.binding == nil {
		return
	}
	b.binding.tooltip.SetContent(content)
}

// onBound registers a handler and remembers it for removal on unbind.
func (b *Base) onBound(em *event.Emitter, typ event.Type, h event.Handler) {
	b.binding.listeners = append(b.binding.listeners, boundListener{em: em, l: em.On(typ, h)})
}

// addTooltipInteractions installs the interaction listeners the resolved
// configuration calls for. Focus wiring needs the layer's rendered
// element and is deferred to the add event when the layer is not yet on
// a map.
func (b *Base) addTooltipInteractions() {
	if b.binding == nil || b.binding.handlersAdded {
		return
	}
	t := b.binding.tooltip

	b.onBound(b.ev, event.Remove, func(event.Event) { b.CloseTooltip() })
	b.onBound(b.ev, event.Move, b.moveTooltip)

	if !t.Options().Permanent {
		b.onBound(b.ev, event.MouseOver, b.openTooltipEvent)
		b.onBound(b.ev, event.MouseOut, func(event.Event) { b.CloseTooltip() })
		b.onBound(b.ev, event.Click, b.openTooltipEvent)
		if b.mapRef != nil {
			b.addFocusInteractions()
		} else {
			b.onBound(b.ev, event.Add, func(event.Event) { b.addFocusInteractions() })
		}
	} else {
		b.onBound(b.ev, event.Add, b.openTooltipEvent)
	}

	if t.Options().Sticky {
		b.onBound(b.ev, event.MouseMove, b.moveTooltip)
	}

	b.binding.handlersAdded = true
}

func (b *Base) removeTooltipInteractions() {
	if b.binding == nil {
		return
	}
	for _, bl := range b.binding.listeners {
		bl.em.Off(bl.l)
	}
	b.binding.listeners = nil
	b.binding.handlersAdded = false
}

// addFocusInteractions wires keyboard parity: focus opens, blur closes.
// A layer (or group child) without a rendered element is skipped, never
// an error.
func (b *Base) addFocusInteractions() {
	if b.binding == nil {
		return
	}
	targets := []Layer{b.self}
	if g, ok := b.self.(ChildIterator); ok {
		targets = g.Children()
	}
	for _, l := range targets {
		if l.Element() == nil {
			continue
		}
		l := l
		b.onBound(l.Events(), event.Focus, func(event.Event) {
			b.binding.tooltip.SetSource(l)
			b.openTooltip(nil)
		})
		b.onBound(l.Events(), event.Blur, func(event.Event) { b.CloseTooltip() })
	}
}

// openTooltipEvent handles mouseover, click, and the permanent add
// trigger. The tooltip's source resolves to the propagated child when
// the event bubbled up from a group member.
func (b *Base) openTooltipEvent(ev event.Event) {
	if b.binding == nil || b.mapRef == nil {
		return
	}
	t := b.binding.tooltip
	if child, ok := ev.PropagatedFrom.(Layer); ok {
		t.SetSource(child)
	}
	var ll *orb.Point
	if t.Options().Sticky && ev.HasLatLng {
		ll = &ev.LatLng
	}
	b.openTooltip(ll)
}

// openTooltip runs the open side effects: source resolution (skipped for
// groups), the prepare-open validity check, rendering, and accessibility
// tagging of the rendered element(s).
func (b *Base) openTooltip(ll *orb.Point) {
	if b.binding == nil || b.mapRef == nil {
		return
	}
	t := b.binding.tooltip
	if _, isGroup := b.self.(ChildIterator); !isGroup {
		t.SetSource(b.self)
	}
	if !t.PrepareOpen(ll) {
		return
	}
	t.OpenOn(b.mapRef)
	b.eachElement(func(el *Element) {
		el.SetAttr(ariaDescribedBy, t.ID())
	})
}

// eachElement applies fn to the layer's rendered element, or to each
// child's element for groups. Missing elements are skipped.
func (b *Base) eachElement(fn func(*Element)) {
	if g, ok := b.self.(ChildIterator); ok {
		for _, c := range g.Children() {
			if el := c.Element(); el != nil {
				fn(el)
			}
		}
		return
	}
	if el := b.self.Element(); el != nil {
		fn(el)
	}
}

// moveTooltip repositions the bound tooltip when its layer moves, and
// follows the cursor for sticky tooltips. Open/closed state never
// changes here.
func (b *Base) moveTooltip(ev event.Event) {
	if b.binding == nil {
		return
	}
	t := b.binding.tooltip
	switch {
	case t.Options().Sticky && ev.Type == event.MouseMove && b.mapRef != nil:
		t.SetLatLng(b.mapRef.ContainerPointToLatLng(ev.ContainerPoint))
	case ev.HasLatLng:
		t.SetLatLng(ev.LatLng)
	}
}
