package overlay

import (
	"math"
	"testing"

	"github.com/joeblew999/plat-overlay/internal/event"
	"github.com/joeblew999/plat-overlay/internal/geom"
	"github.com/joeblew999/plat-overlay/internal/mapview"
)

// openMeasured opens a tooltip at the container point cp with a
// client-reported box so overflow positions are exact.
func openMeasured(t *testing.T, m *mapview.Map, opts Options, size geom.Size) *Tooltip {
	t.Helper()
	if opts.Direction == "" {
		opts.Direction = DirCenter
	}
	tip := openAt(t, m, opts, geom.Pt(500, 300))
	tip.ReportLayout(size, 0, 0)
	return tip
}

func pans(m *mapview.Map) (*int, *geom.Point) {
	count := new(int)
	delta := new(geom.Point)
	m.Events.On(event.AutoPanStart, func(ev event.Event) {
		*count++
		*delta = ev.Delta
	})
	return count, delta
}

func TestAutoPanRightOverflow(t *testing.T) {
	m := newTestMap()
	tip := openMeasured(t, m, Options{AutoPan: true}, geom.Size{W: 200, H: 40})
	count, delta := pans(m)

	// Center placement puts the box top-left at (x, y-20); x=950 leaves
	// the right edge 150px past the 1000px viewport.
	tip.SetLatLng(m.ContainerPointToLatLng(geom.Pt(950, 300)))

	if *count != 1 {
		t.Fatalf("autopanstart fired %d times, want 1", *count)
	}
	// 950 + 200 - 1000 + 5 padding + 6 fixed clearance.
	if math.Abs(delta.X-161) > 1e-6 || math.Abs(delta.Y) > 1e-6 {
		t.Fatalf("delta=%v, want (161, 0)", *delta)
	}
}

func TestAutoPanNoOverflowNoPan(t *testing.T) {
	m := newTestMap()
	tip := openMeasured(t, m, Options{AutoPan: true}, geom.Size{W: 200, H: 40})
	count, _ := pans(m)

	before := m.Center()
	tip.SetLatLng(m.ContainerPointToLatLng(geom.Pt(480, 310)))

	if *count != 0 {
		t.Fatalf("autopanstart fired %d times, want 0", *count)
	}
	if m.Center() != before {
		t.Fatalf("map center moved to %v without overflow", m.Center())
	}
}

func TestAutoPanDisabledIsNoOp(t *testing.T) {
	m := newTestMap()
	tip := openMeasured(t, m, Options{}, geom.Size{W: 200, H: 40})
	count, _ := pans(m)
	tip.SetLatLng(m.ContainerPointToLatLng(geom.Pt(990, 300)))
	if *count != 0 {
		t.Fatalf("autopanstart fired %d times with autoPan off", *count)
	}
}

func TestAutoPanUnmeasuredContainerIsNoOp(t *testing.T) {
	m := newTestMap()
	tip := openMeasured(t, m, Options{AutoPan: true}, geom.Size{})
	count, _ := pans(m)
	tip.SetLatLng(m.ContainerPointToLatLng(geom.Pt(990, 300)))
	if *count != 0 {
		t.Fatalf("autopanstart fired %d times for an unmeasured container", *count)
	}
}

func TestAutoPanLeftTestOverridesRightCorrection(t *testing.T) {
	m := newTestMap()
	tip := openMeasured(t, m, Options{AutoPan: true}, geom.Size{W: 1100, H: 40})
	count, delta := pans(m)

	// Box left edge at -50 with width 1100: the right test yields a
	// tentative dx of 61, then the left test, observing that dx,
	// overrides with -55. The sequential dependency is intentional.
	tip.SetLatLng(m.ContainerPointToLatLng(geom.Pt(-50, 300)))

	if *count != 1 {
		t.Fatalf("autopanstart fired %d times, want 1", *count)
	}
	if math.Abs(delta.X-(-55)) > 1e-6 {
		t.Fatalf("dx=%v, want -55", delta.X)
	}
}

func TestAutoPanVerticalOmitsFixedClearance(t *testing.T) {
	m := newTestMap()
	tip := openMeasured(t, m, Options{AutoPan: true}, geom.Size{W: 100, H: 40})
	count, delta := pans(m)

	// Box spans y in [580, 620]: 20px past the 600px viewport plus the
	// 5px padding, with no fixed clearance on the vertical axis.
	tip.SetLatLng(m.ContainerPointToLatLng(geom.Pt(500, 600)))

	if *count != 1 {
		t.Fatalf("autopanstart fired %d times, want 1", *count)
	}
	if math.Abs(delta.Y-25) > 1e-6 || math.Abs(delta.X) > 1e-6 {
		t.Fatalf("delta=%v, want (0, 25)", *delta)
	}
}

func TestAutoPanReentrancyGuard(t *testing.T) {
	m := newTestMap()
	tip := openMeasured(t, m, Options{AutoPan: true, KeepInView: true}, geom.Size{W: 200, H: 40})
	count, _ := pans(m)

	// With KeepInView the corrective pan's moveend re-enters adjustPan
	// synchronously; the latch must swallow exactly that one pass.
	tip.SetLatLng(m.ContainerPointToLatLng(geom.Pt(950, 300)))

	if *count != 1 {
		t.Fatalf("autopanstart fired %d times, want exactly 1", *count)
	}
	if tip.autopanning {
		t.Fatal("latch still armed after the suppressed pass")
	}
}

func TestAutoPanPaddingOverrides(t *testing.T) {
	m := newTestMap()
	br := geom.Pt(20, 0)
	tip := openMeasured(t, m, Options{
		AutoPan:                   true,
		AutoPanPaddingBottomRight: &br,
	}, geom.Size{W: 200, H: 40})
	count, delta := pans(m)

	tip.SetLatLng(m.ContainerPointToLatLng(geom.Pt(950, 300)))

	if *count != 1 {
		t.Fatalf("autopanstart fired %d times, want 1", *count)
	}
	// 950 + 200 - 1000 + 20 override + 6 fixed clearance.
	if math.Abs(delta.X-176) > 1e-6 {
		t.Fatalf("dx=%v, want 176", delta.X)
	}
}
