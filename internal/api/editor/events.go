// Package editor contains Datastar SSE handlers for the browser client:
// the overlay event stream and pointer-signal ingestion.
package editor

import (
	"context"
	"fmt"
	"html"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-overlay/internal/event"
	"github.com/joeblew999/plat-overlay/internal/humastar"
	"github.com/joeblew999/plat-overlay/internal/service"
)

// EventHandler streams overlay notices to the Datastar UI via SSE.
type EventHandler struct {
	humastar.Handler
	sessions *service.SessionService
	bus      *event.Bus
}

// NewEventHandler creates a new event handler.
func NewEventHandler(sessions *service.SessionService, bus *event.Bus) *EventHandler {
	return &EventHandler{sessions: sessions, bus: bus}
}

func (h *EventHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/editor/events", h.Events,
		huma.OperationTags("editor"),
	)
	huma.Post(api, "/api/v1/editor/pointer", h.Pointer,
		huma.OperationTags("editor"),
	)
}

// EventsInput filters the stream to one session when set.
type EventsInput struct {
	Session string `query:"session" doc:"Only stream notices for this session"`
}

// Events streams overlay notices as Datastar signal patches. Tooltip
// opens carry position and direction so the client can place the
// container without recomputing anything.
func (h *EventHandler) Events(ctx context.Context, input *EventsInput) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := humastar.NewSSE(humaCtx)
			ch := h.bus.Subscribe()
			defer h.bus.Unsubscribe(ch)

			for {
				select {
				case <-ctx.Done():
					return
				case n := <-ch:
					if input.Session != "" && n.Session != input.Session {
						continue
					}
					sse.Signals(noticeSignals(n))
					if html, ok := tooltipFragment(n); ok {
						sse.Replace(html, "#overlay-tooltip")
					}
					sse.DispatchCustomEvent("overlay-"+n.Type, map[string]any{
						"session": n.Session,
						"layer":   n.LayerID,
					})
				}
			}
		},
	}, nil
}

// noticeSignals flattens a notice into the signal names the client
// binds to.
func noticeSignals(n event.Notice) map[string]any {
	signals := map[string]any{
		"overlayevent": n.Type,
		"overlaylayer": n.LayerID,
	}
	switch n.Type {
	case "tooltipopen":
		signals["tooltipvisible"] = true
		signals["tooltipdirection"] = n.Direction
		signals["tooltipopacity"] = n.Opacity
		if n.Position != nil {
			signals["tooltipx"] = n.Position.X
			signals["tooltipy"] = n.Position.Y
		}
	case "tooltipclose":
		signals["tooltipvisible"] = false
	case "autopanstart":
		if n.Delta != nil {
			signals["pandx"] = n.Delta.X
			signals["pandy"] = n.Delta.Y
		}
	}
	return signals
}

// tooltipFragment renders the tooltip container element for a notice.
// Opens produce a positioned, styled container; closes an empty hidden
// one. Other notice types patch nothing.
func tooltipFragment(n event.Notice) (string, bool) {
	switch n.Type {
	case "tooltipopen":
		var pos string
		if n.Position != nil {
			pos = fmt.Sprintf("left:%gpx;top:%gpx;", n.Position.X, n.Position.Y)
		}
		return fmt.Sprintf(
			`<div id="overlay-tooltip" class="overlay-tooltip overlay-tooltip-%s" style="%sopacity:%g">%s</div>`,
			n.Direction, pos, n.Opacity, html.EscapeString(n.Content)), true
	case "tooltipclose":
		return `<div id="overlay-tooltip" hidden></div>`, true
	}
	return "", false
}

// Pointer ingests a forwarded browser interaction sent as Datastar
// signals and answers with the target layer's tooltip state.
func (h *EventHandler) Pointer(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	pe, sessionID := ParsePointerSignals(signals)

	return h.Stream(func(sse humastar.SSE) {
		sess, ok := h.sessions.Get(sessionID)
		if !ok {
			sse.Error("session not found")
			return
		}
		if err := sess.HandleEvent(pe); err != nil {
			sse.Error(err.Error())
			return
		}
		sse.Signals(tooltipSignals(sess, pe.LayerID))
	}), nil
}

// tooltipSignals reports the layer's tooltip state after an event.
func tooltipSignals(sess *service.Session, layerID string) map[string]any {
	for _, st := range sess.State().Layers {
		if st.ID != layerID {
			continue
		}
		signals := map[string]any{"binding": st.Binding}
		if st.Tooltip != nil {
			signals["tooltipvisible"] = st.Tooltip.Open
			signals["tooltipdirection"] = st.Tooltip.Direction
			signals["tooltipx"] = st.Tooltip.X
			signals["tooltipy"] = st.Tooltip.Y
		}
		return signals
	}
	return map[string]any{"error": "layer not found"}
}
