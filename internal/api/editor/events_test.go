package editor

import (
	"strings"
	"testing"

	"github.com/joeblew999/plat-overlay/internal/event"
)

func TestNoticeSignalsOpen(t *testing.T) {
	n := event.Notice{
		Session:   "s1",
		Type:      "tooltipopen",
		LayerID:   "m1",
		Direction: "right",
		Content:   "hi",
		Opacity:   0.42,
		Position:  &struct{ X, Y float64 }{120, 80},
	}
	signals := noticeSignals(n)
	if signals["tooltipvisible"] != true || signals["tooltipdirection"] != "right" {
		t.Fatalf("signals = %v", signals)
	}
	if signals["tooltipopacity"] != 0.42 {
		t.Fatalf("tooltipopacity = %v, want 0.42", signals["tooltipopacity"])
	}
	if signals["tooltipx"] != 120.0 || signals["tooltipy"] != 80.0 {
		t.Fatalf("position signals = %v", signals)
	}
}

func TestNoticeSignalsClose(t *testing.T) {
	signals := noticeSignals(event.Notice{Type: "tooltipclose", LayerID: "m1"})
	if signals["tooltipvisible"] != false {
		t.Fatalf("signals = %v", signals)
	}
}

func TestTooltipFragment(t *testing.T) {
	open := event.Notice{
		Type:      "tooltipopen",
		Direction: "left",
		Content:   "<b>station</b>",
		Opacity:   0.9,
		Position:  &struct{ X, Y float64 }{10, 20},
	}
	html, ok := tooltipFragment(open)
	if !ok {
		t.Fatal("no fragment for tooltipopen")
	}
	if !strings.Contains(html, "overlay-tooltip-left") || !strings.Contains(html, "opacity:0.9") {
		t.Fatalf("fragment = %q", html)
	}
	// Content is escaped, never raw HTML.
	if strings.Contains(html, "<b>") || !strings.Contains(html, "&lt;b&gt;station&lt;/b&gt;") {
		t.Fatalf("fragment = %q", html)
	}

	closed, ok := tooltipFragment(event.Notice{Type: "tooltipclose"})
	if !ok || !strings.Contains(closed, "hidden") {
		t.Fatalf("close fragment = %q, ok=%v", closed, ok)
	}

	if _, ok := tooltipFragment(event.Notice{Type: "autopanstart"}); ok {
		t.Fatal("autopanstart produced a fragment")
	}
}
