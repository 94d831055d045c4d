package mapview

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-overlay/internal/event"
	"github.com/joeblew999/plat-overlay/internal/geom"
)

func testMap() *Map {
	return New(orb.Point{13.4, 52.5}, 10, geom.Size{W: 1000, H: 600})
}

func TestProjectRoundTrip(t *testing.T) {
	ll := orb.Point{13.4, 52.5}
	for _, zoom := range []float64{0, 5, 12, 18} {
		back := unprojectPoint(projectPoint(ll, zoom), zoom)
		if math.Abs(back[0]-ll[0]) > 1e-6 || math.Abs(back[1]-ll[1]) > 1e-6 {
			t.Fatalf("zoom %v: roundtrip=%v, want %v", zoom, back, ll)
		}
	}
}

func TestCenterContainerPoint(t *testing.T) {
	m := testMap()
	c := m.CenterContainerPoint()
	// Pixel origin is rounded, so the center lands within a pixel of the
	// container midpoint.
	if math.Abs(c.X-500) > 1 || math.Abs(c.Y-300) > 1 {
		t.Fatalf("center=%v, want ~ (500, 300)", c)
	}
}

func TestConversionsConsistent(t *testing.T) {
	m := testMap()
	ll := orb.Point{13.41, 52.49}
	cp := m.LatLngToContainerPoint(ll)
	back := m.ContainerPointToLatLng(cp)
	if math.Abs(back[0]-ll[0]) > 1e-6 || math.Abs(back[1]-ll[1]) > 1e-6 {
		t.Fatalf("roundtrip=%v, want %v", back, ll)
	}
}

func TestPanByShiftsView(t *testing.T) {
	m := testMap()

	var fired []event.Type
	m.Events.On(event.Move, func(ev event.Event) { fired = append(fired, ev.Type) })
	m.Events.On(event.MoveEnd, func(ev event.Event) { fired = append(fired, ev.Type) })

	target := orb.Point{13.41, 52.49}
	want := m.LatLngToContainerPoint(target)
	m.PanBy(geom.Pt(100, 50))

	after := m.LatLngToContainerPoint(target)
	if math.Abs(after.X-(want.X-100)) > 1 || math.Abs(after.Y-(want.Y-50)) > 1 {
		t.Fatalf("after pan point=%v, want ~%v", after, want.Sub(geom.Pt(100, 50)))
	}
	if len(fired) != 2 || fired[0] != event.Move || fired[1] != event.MoveEnd {
		t.Fatalf("events=%v, want [move moveend]", fired)
	}
}

func TestStopPanFromMoveListenerSuppressesMoveEnd(t *testing.T) {
	m := testMap()
	moveEnds := 0
	m.Events.On(event.Move, func(event.Event) { m.StopPan() })
	m.Events.On(event.MoveEnd, func(event.Event) { moveEnds++ })
	m.PanBy(geom.Pt(10, 0))
	if moveEnds != 0 {
		t.Fatalf("moveend fired %d times after stop, want 0", moveEnds)
	}
}

func TestPanningObservableDuringDispatch(t *testing.T) {
	m := testMap()
	var during bool
	m.Events.On(event.Move, func(event.Event) { during = m.Panning() })
	m.PanBy(geom.Pt(10, 0))
	if !during {
		t.Fatal("Panning reported false inside move dispatch")
	}
	if m.Panning() {
		t.Fatal("Panning reported true after the pan completed")
	}
}

func TestPanByZeroDeltaIsNoOp(t *testing.T) {
	m := testMap()
	fired := 0
	m.Events.On(event.Move, func(event.Event) { fired++ })
	m.PanBy(geom.Pt(0.2, -0.3)) // rounds to zero
	if fired != 0 {
		t.Fatalf("move fired %d times for zero delta", fired)
	}
}

func TestSetViewEventOrder(t *testing.T) {
	m := testMap()
	var fired []event.Type
	for _, typ := range []event.Type{event.Zoom, event.ViewReset, event.ZoomEnd, event.MoveEnd} {
		typ := typ
		m.Events.On(typ, func(event.Event) { fired = append(fired, typ) })
	}
	m.SetView(orb.Point{2.35, 48.85}, 12)
	want := []event.Type{event.Zoom, event.ViewReset, event.ZoomEnd, event.MoveEnd}
	if len(fired) != len(want) {
		t.Fatalf("events=%v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Fatalf("events=%v, want %v", fired, want)
		}
	}
}

func TestMouseEventToContainerPoint(t *testing.T) {
	m := testMap()
	m.SetContainerOrigin(geom.Pt(40, 60))
	got := m.MouseEventToContainerPoint(MouseEvent{ClientX: 140, ClientY: 100})
	if got != geom.Pt(100, 40) {
		t.Fatalf("point=%v, want (100, 40)", got)
	}
}

func TestLayerMembership(t *testing.T) {
	m := testMap()
	l := &struct{}{}
	if m.HasLayer(l) {
		t.Fatal("layer present before add")
	}
	m.AddLayer(l)
	if !m.HasLayer(l) {
		t.Fatal("layer missing after add")
	}
	m.RemoveLayer(l)
	if m.HasLayer(l) {
		t.Fatal("layer present after remove")
	}
}
