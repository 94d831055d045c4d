package overlay

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-overlay/internal/geom"
	"github.com/joeblew999/plat-overlay/internal/mapview"
)

func TestComputePlacementFixedTable(t *testing.T) {
	size := geom.Size{W: 100, H: 40}
	anchor := geom.Pt(3, -7)

	tests := []struct {
		dir  Direction
		want geom.Point
	}{
		{DirTop, geom.Pt(0, 6)},
		{DirBottom, geom.Pt(0, -46)},
		{DirCenter, geom.Pt(0, -20)},
		{DirRight, geom.Pt(-50, -20)},
		{DirLeft, geom.Pt(50, -20)},
	}
	for _, tc := range tests {
		t.Run(string(tc.dir), func(t *testing.T) {
			// Explicit directions must not depend on the viewport center.
			for _, center := range []geom.Point{geom.Pt(0, 0), geom.Pt(500, 300)} {
				sub, dir := computePlacement(size, tc.dir, anchor, geom.Pt(50, 50), center)
				if sub != tc.want {
					t.Fatalf("sub=%v, want %v", sub, tc.want)
				}
				if dir != tc.dir {
					t.Fatalf("dir=%q, want %q", dir, tc.dir)
				}
			}
		})
	}
}

func TestComputePlacementAutoResolvesRight(t *testing.T) {
	// A 100x40 tooltip anchored left of the viewport center resolves
	// right with sub=(-50, -20).
	sub, dir := computePlacement(geom.Size{W: 100, H: 40}, DirAuto, geom.Point{}, geom.Pt(50, 0), geom.Pt(100, 0))
	if dir != DirRight {
		t.Fatalf("dir=%q, want right", dir)
	}
	if sub != geom.Pt(-50, -20) {
		t.Fatalf("sub=%v, want (-50, -20)", sub)
	}
}

func TestComputePlacementAutoResolvesLeft(t *testing.T) {
	anchor := geom.Pt(12, 0)
	sub, dir := computePlacement(geom.Size{W: 100, H: 40}, DirAuto, anchor, geom.Pt(150, 0), geom.Pt(100, 0))
	if dir != DirLeft {
		t.Fatalf("dir=%q, want left", dir)
	}
	// Half width plus twice the anchor x component.
	if sub != geom.Pt(50+24, -20) {
		t.Fatalf("sub=%v, want (74, -20)", sub)
	}
}

func TestComputePlacementNeverEmitsAuto(t *testing.T) {
	for _, projX := range []float64{0, 99.9, 100, 500} {
		_, dir := computePlacement(geom.Size{W: 10, H: 10}, DirAuto, geom.Point{}, geom.Pt(projX, 0), geom.Pt(100, 0))
		if dir == DirAuto {
			t.Fatalf("projected x=%v resolved to auto", projX)
		}
		want := DirLeft
		if projX < 100 {
			want = DirRight
		}
		if dir != want {
			t.Fatalf("projected x=%v: dir=%q, want %q", projX, dir, want)
		}
	}
}

func TestComputePlacementIdempotent(t *testing.T) {
	size := geom.Size{W: 80, H: 30}
	a1, d1 := computePlacement(size, DirAuto, geom.Pt(4, 2), geom.Pt(10, 10), geom.Pt(100, 50))
	a2, d2 := computePlacement(size, DirAuto, geom.Pt(4, 2), geom.Pt(10, 10), geom.Pt(100, 50))
	if a1 != a2 || d1 != d2 {
		t.Fatalf("placement not idempotent: (%v,%q) vs (%v,%q)", a1, d1, a2, d2)
	}
}

func newTestMap() *mapview.Map {
	return mapview.New(orb.Point{0, 0}, 10, geom.Size{W: 1000, H: 600})
}

func openAt(t *testing.T, m *mapview.Map, opts Options, cp geom.Point) *Tooltip {
	t.Helper()
	tip := NewTooltip(opts)
	tip.SetContent("hello")
	ll := m.ContainerPointToLatLng(cp)
	if !tip.PrepareOpen(&ll) {
		t.Fatal("PrepareOpen failed")
	}
	tip.OpenOn(m)
	if !tip.IsOpen() {
		t.Fatal("tooltip did not open")
	}
	return tip
}

func TestDirectionClassExclusive(t *testing.T) {
	m := newTestMap()
	tip := openAt(t, m, Options{Direction: DirAuto}, geom.Pt(100, 300))
	if tip.ResolvedDirection() != DirRight {
		t.Fatalf("dir=%q, want right", tip.ResolvedDirection())
	}

	// Move the anchor to the other side of the center: class flips,
	// never stacks.
	tip.SetLatLng(m.ContainerPointToLatLng(geom.Pt(900, 300)))
	if tip.ResolvedDirection() != DirLeft {
		t.Fatalf("dir=%q, want left", tip.ResolvedDirection())
	}
	dirTokens := 0
	for _, c := range tip.Classes() {
		switch c {
		case "overlay-tooltip-left":
			dirTokens++
		case "overlay-tooltip-right", "overlay-tooltip-top", "overlay-tooltip-bottom", "overlay-tooltip-center":
			t.Fatalf("stale direction token %q in %v", c, tip.Classes())
		}
	}
	if dirTokens != 1 {
		t.Fatalf("left tokens=%d in %v, want 1", dirTokens, tip.Classes())
	}
}

func TestUpdatePositionIdempotent(t *testing.T) {
	m := newTestMap()
	tip := openAt(t, m, Options{Direction: DirTop}, geom.Pt(400, 300))
	p1, d1 := tip.Position(), tip.ResolvedDirection()
	tip.updatePosition()
	if tip.Position() != p1 || tip.ResolvedDirection() != d1 {
		t.Fatalf("position drifted: (%v,%q) vs (%v,%q)", p1, d1, tip.Position(), tip.ResolvedDirection())
	}
}

func TestStickyIgnoresAnchorCapability(t *testing.T) {
	m := newTestMap()

	src := &stubSource{pos: m.ContainerPointToLatLng(geom.Pt(400, 300)), anchor: geom.Pt(25, -10)}

	plain := NewTooltip(Options{Direction: DirCenter})
	plain.SetSource(src)
	plain.SetContent("x")
	if !plain.PrepareOpen(nil) {
		t.Fatal("PrepareOpen failed")
	}
	plain.OpenOn(m)

	sticky := NewTooltip(Options{Direction: DirCenter, Sticky: true})
	sticky.SetSource(src)
	sticky.SetContent("x")
	if !sticky.PrepareOpen(nil) {
		t.Fatal("PrepareOpen failed")
	}
	sticky.OpenOn(m)

	diff := plain.Position().Sub(sticky.Position())
	if diff != src.anchor {
		t.Fatalf("anchor contribution=%v, want %v", diff, src.anchor)
	}
}

func TestPrepareOpenWithoutPosition(t *testing.T) {
	tip := NewTooltip(Options{})
	if tip.PrepareOpen(nil) {
		t.Fatal("PrepareOpen succeeded with no anchor and no source")
	}
	tip.SetSource(&stubSource{noPos: true})
	if tip.PrepareOpen(nil) {
		t.Fatal("PrepareOpen succeeded for a positionless source")
	}
}

func TestTransientReplacedOnMap(t *testing.T) {
	m := newTestMap()
	first := openAt(t, m, Options{}, geom.Pt(200, 200))
	second := openAt(t, m, Options{}, geom.Pt(600, 200))
	if first.IsOpen() {
		t.Fatal("first transient tooltip still open after second opened")
	}
	if !second.IsOpen() {
		t.Fatal("second tooltip not open")
	}
}

func TestPermanentDoesNotReplaceTransient(t *testing.T) {
	m := newTestMap()
	transient := openAt(t, m, Options{}, geom.Pt(200, 200))
	permanent := openAt(t, m, Options{Permanent: true}, geom.Pt(600, 200))
	if !transient.IsOpen() || !permanent.IsOpen() {
		t.Fatal("permanent open closed the transient tooltip")
	}
}
