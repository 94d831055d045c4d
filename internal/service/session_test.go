package service

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/joeblew999/plat-overlay/internal/event"
	"github.com/joeblew999/plat-overlay/internal/geom"
	"github.com/joeblew999/plat-overlay/internal/layer"
	"github.com/joeblew999/plat-overlay/internal/overlay"
)

func newTestService(t *testing.T) (*SessionService, *event.Bus) {
	t.Helper()
	bus := event.NewBus()
	svc := NewSessionService(map[string]overlay.Options{}, nil, bus, log.New(io.Discard))
	return svc, bus
}

func drain(ch chan event.Notice) []event.Notice {
	var out []event.Notice
	for {
		select {
		case n := <-ch:
			out = append(out, n)
		default:
			return out
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	svc, bus := newTestService(t)
	sess := svc.Create(SessionSpec{Zoom: 10, Width: 1000, Height: 600})

	if _, ok := svc.Get(sess.ID); !ok {
		t.Fatal("created session not found")
	}

	st, err := sess.AddLayer(LayerSpec{Kind: "marker", Lng: 0, Lat: 0})
	if err != nil {
		t.Fatal(err)
	}
	if st.Kind != "marker" || st.Binding != layer.StateUnbound {
		t.Fatalf("layer state = %+v", st)
	}

	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	st, err = sess.BindTooltip(st.ID, TooltipConfig{Content: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if st.Binding != layer.StateIdle {
		t.Fatalf("binding after bind = %q, want %q", st.Binding, layer.StateIdle)
	}

	if err := sess.OpenTooltip(st.ID); err != nil {
		t.Fatal(err)
	}
	open, err := sess.TooltipOpen(st.ID)
	if err != nil || !open {
		t.Fatalf("TooltipOpen = %v, %v; want true, nil", open, err)
	}

	notices := drain(ch)
	var sawOpen bool
	for _, n := range notices {
		if n.Type == "tooltipopen" && n.Session == sess.ID && n.LayerID == st.ID {
			sawOpen = true
			if n.Position == nil || n.Direction == "" {
				t.Fatalf("tooltipopen notice incomplete: %+v", n)
			}
		}
	}
	if !sawOpen {
		t.Fatalf("no tooltipopen notice in %+v", notices)
	}

	if err := svc.Delete(sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := svc.Get(sess.ID); ok {
		t.Fatal("deleted session still present")
	}
}

func TestPointerEventOpensTooltip(t *testing.T) {
	svc, _ := newTestService(t)
	sess := svc.Create(SessionSpec{Zoom: 10})

	st, err := sess.AddLayer(LayerSpec{Kind: "marker"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sess.BindTooltip(st.ID, TooltipConfig{Content: "hi"}); err != nil {
		t.Fatal(err)
	}

	err = sess.HandleEvent(PointerEvent{Type: "mouseover", LayerID: st.ID, ClientX: 500, ClientY: 300})
	if err != nil {
		t.Fatal(err)
	}
	if open, _ := sess.TooltipOpen(st.ID); !open {
		t.Fatal("mouseover did not open the tooltip")
	}

	if err := sess.HandleEvent(PointerEvent{Type: "mouseout", LayerID: st.ID}); err != nil {
		t.Fatal(err)
	}
	if open, _ := sess.TooltipOpen(st.ID); open {
		t.Fatal("mouseout did not close the tooltip")
	}
}

func TestHandleEventUnknownType(t *testing.T) {
	svc, _ := newTestService(t)
	sess := svc.Create(SessionSpec{})
	st, _ := sess.AddLayer(LayerSpec{Kind: "marker"})

	if err := sess.HandleEvent(PointerEvent{Type: "dblclick", LayerID: st.ID}); err == nil {
		t.Fatal("expected error for unknown event type")
	}
}

func TestTooltipOpenUnbound(t *testing.T) {
	svc, _ := newTestService(t)
	sess := svc.Create(SessionSpec{})
	st, _ := sess.AddLayer(LayerSpec{Kind: "marker"})

	if _, err := sess.TooltipOpen(st.ID); !errors.Is(err, layer.ErrNoTooltip) {
		t.Fatalf("err = %v, want ErrNoTooltip", err)
	}
}

func TestBindUnknownPreset(t *testing.T) {
	svc, _ := newTestService(t)
	sess := svc.Create(SessionSpec{})
	st, _ := sess.AddLayer(LayerSpec{Kind: "marker"})

	if _, err := sess.BindTooltip(st.ID, TooltipConfig{Content: "x", Preset: "nope"}); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestBindWithPreset(t *testing.T) {
	bus := event.NewBus()
	presets := map[string]overlay.Options{}
	label := overlay.DefaultOptions()
	label.Permanent = true
	label.Direction = overlay.DirTop
	presets["label"] = label

	svc := NewSessionService(presets, nil, bus, log.New(io.Discard))
	sess := svc.Create(SessionSpec{})
	st, _ := sess.AddLayer(LayerSpec{Kind: "marker"})

	st, err := sess.BindTooltip(st.ID, TooltipConfig{Content: "x", Preset: "label"})
	if err != nil {
		t.Fatal(err)
	}
	// Permanent preset on an attached layer opens immediately.
	if st.Binding != layer.StatePermanentOpen {
		t.Fatalf("binding = %q, want %q", st.Binding, layer.StatePermanentOpen)
	}
	if st.Tooltip == nil || st.Tooltip.Direction != "top" {
		t.Fatalf("tooltip view = %+v", st.Tooltip)
	}
}

func TestGroupLayer(t *testing.T) {
	svc, _ := newTestService(t)
	sess := svc.Create(SessionSpec{})

	a, _ := sess.AddLayer(LayerSpec{ID: "a", Kind: "marker"})
	b, _ := sess.AddLayer(LayerSpec{ID: "b", Kind: "marker", Lng: 0.01, Lat: 0.01})

	g, err := sess.AddLayer(LayerSpec{Kind: "group", Children: []string{a.ID, b.ID}})
	if err != nil {
		t.Fatal(err)
	}
	if g.Kind != "group" || len(g.Children) != 2 {
		t.Fatalf("group state = %+v", g)
	}

	if _, err := sess.AddLayer(LayerSpec{Kind: "group", Children: []string{"missing"}}); err == nil {
		t.Fatal("expected error for missing child")
	}
}

func TestApplyView(t *testing.T) {
	svc, _ := newTestService(t)
	sess := svc.Create(SessionSpec{Zoom: 10})

	if err := sess.ApplyView(ViewChange{Op: "pan", DX: 100, DY: 0}); err != nil {
		t.Fatal(err)
	}
	st := sess.State()
	if st.Lng <= 0 {
		t.Fatalf("center lng after eastward pan = %v, want > 0", st.Lng)
	}

	if err := sess.ApplyView(ViewChange{Op: "resize", Width: 800, Height: 400}); err != nil {
		t.Fatal(err)
	}
	st = sess.State()
	if st.Width != 800 || st.Height != 400 {
		t.Fatalf("size = %vx%v, want 800x400", st.Width, st.Height)
	}

	if err := sess.ApplyView(ViewChange{Op: "spin"}); err == nil {
		t.Fatal("expected error for unknown view op")
	}
}

func TestTooltipOpacityObservable(t *testing.T) {
	svc, bus := newTestService(t)
	sess := svc.Create(SessionSpec{Zoom: 10})
	st, _ := sess.AddLayer(LayerSpec{Kind: "marker"})

	if _, err := sess.BindTooltip(st.ID, TooltipConfig{Content: "hi", Opacity: 0.42}); err != nil {
		t.Fatal(err)
	}

	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)
	if err := sess.OpenTooltip(st.ID); err != nil {
		t.Fatal(err)
	}

	view := sess.State().Layers[0].Tooltip
	if view == nil || view.Opacity != 0.42 {
		t.Fatalf("tooltip view = %+v, want opacity 0.42", view)
	}

	var sawOpen bool
	for _, n := range drain(ch) {
		if n.Type == "tooltipopen" {
			sawOpen = true
			if n.Opacity != 0.42 || n.Content != "hi" {
				t.Fatalf("tooltipopen notice = %+v, want opacity 0.42 and content", n)
			}
		}
	}
	if !sawOpen {
		t.Fatal("no tooltipopen notice")
	}

	if err := sess.SetTooltipOpacity(st.ID, 0.8); err != nil {
		t.Fatal(err)
	}
	if got := sess.State().Layers[0].Tooltip.Opacity; got != 0.8 {
		t.Fatalf("opacity after set = %v, want 0.8", got)
	}
}

func TestSetTooltipOpacityUnbound(t *testing.T) {
	svc, _ := newTestService(t)
	sess := svc.Create(SessionSpec{})
	st, _ := sess.AddLayer(LayerSpec{Kind: "marker"})

	if err := sess.SetTooltipOpacity(st.ID, 0.5); !errors.Is(err, layer.ErrNoTooltip) {
		t.Fatalf("err = %v, want ErrNoTooltip", err)
	}
}

func TestCloseTooltipsViewOp(t *testing.T) {
	svc, _ := newTestService(t)
	sess := svc.Create(SessionSpec{Zoom: 10})
	st, _ := sess.AddLayer(LayerSpec{Kind: "marker"})
	if _, err := sess.BindTooltip(st.ID, TooltipConfig{Content: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := sess.OpenTooltip(st.ID); err != nil {
		t.Fatal(err)
	}

	if err := sess.ApplyView(ViewChange{Op: "closetooltips"}); err != nil {
		t.Fatal(err)
	}
	if open, _ := sess.TooltipOpen(st.ID); open {
		t.Fatal("closetooltips left the transient tooltip open")
	}
}

func TestBindPerCornerAutoPanPadding(t *testing.T) {
	svc, _ := newTestService(t)
	sess := svc.Create(SessionSpec{})
	st, _ := sess.AddLayer(LayerSpec{Kind: "marker"})

	st, err := sess.BindTooltip(st.ID, TooltipConfig{
		Content:                    "x",
		AutoPan:                    true,
		AutoPanPaddingTopLeftX:     10,
		AutoPanPaddingTopLeftY:     20,
		AutoPanPaddingBottomRightX: 30,
		AutoPanPaddingBottomRightY: 40,
	})
	if err != nil {
		t.Fatal(err)
	}

	var opts overlay.Options
	if err := sess.withLayer(st.ID, func(l mapLayer) error {
		opts = l.Tooltip().Options()
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if opts.AutoPanPaddingTopLeft == nil || *opts.AutoPanPaddingTopLeft != (geom.Point{X: 10, Y: 20}) {
		t.Fatalf("top-left override = %v", opts.AutoPanPaddingTopLeft)
	}
	if opts.AutoPanPaddingBottomRight == nil || *opts.AutoPanPaddingBottomRight != (geom.Point{X: 30, Y: 40}) {
		t.Fatalf("bottom-right override = %v", opts.AutoPanPaddingBottomRight)
	}
}

func TestRemoveLayerClosesTooltip(t *testing.T) {
	svc, _ := newTestService(t)
	sess := svc.Create(SessionSpec{})
	st, _ := sess.AddLayer(LayerSpec{Kind: "marker"})
	if _, err := sess.BindTooltip(st.ID, TooltipConfig{Content: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := sess.OpenTooltip(st.ID); err != nil {
		t.Fatal(err)
	}

	if err := sess.RemoveLayer(st.ID); err != nil {
		t.Fatal(err)
	}
	if err := sess.RemoveLayer(st.ID); err == nil {
		t.Fatal("expected error removing an unknown layer")
	}
	if got := len(sess.State().Layers); got != 0 {
		t.Fatalf("layers after remove = %d, want 0", got)
	}
}
