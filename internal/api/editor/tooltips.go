package editor

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-overlay/internal/humastar"
	"github.com/joeblew999/plat-overlay/internal/service"
)

// TooltipHandler binds and unbinds tooltips from the editor form.
type TooltipHandler struct {
	humastar.Handler
	sessions *service.SessionService
}

// NewTooltipHandler creates a new tooltip handler.
func NewTooltipHandler(sessions *service.SessionService) *TooltipHandler {
	return &TooltipHandler{sessions: sessions}
}

func (h *TooltipHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/api/v1/editor/tooltips", h.Bind, huma.OperationTags("editor"))
	huma.Delete(api, "/api/v1/editor/tooltips", h.Unbind, huma.OperationTags("editor"))
}

func (h *TooltipHandler) Bind(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	config := ParseTooltipConfigSignals(signals)
	sessionID := signals.String("sessionid")
	layerID := signals.String("layerid")

	if config.Content == "" {
		return nil, huma.Error400BadRequest("Tooltip content is required")
	}
	if layerID == "" {
		return nil, huma.Error400BadRequest("Layer ID is required")
	}

	return h.Stream(func(sse humastar.SSE) {
		sess, ok := h.sessions.Get(sessionID)
		if !ok {
			sse.Error("session not found")
			return
		}

		st, err := sess.BindTooltip(layerID, config)
		if err != nil {
			sse.Error(err.Error())
			return
		}

		resetSignals := ResetTooltipConfigSignals()
		resetSignals["success"] = fmt.Sprintf("Tooltip bound to '%s'", layerID)
		sse.Signals(resetSignals)
		sse.Patch(fmt.Sprintf("Tooltip bound to %s (%s)", layerID, st.Binding), "#tooltip-status")

		sse.DispatchCustomEvent("tooltip-changed", map[string]any{
			"action": "bound", "layer": layerID, "binding": st.Binding,
		})
	}), nil
}

func (h *TooltipHandler) Unbind(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	sessionID := signals.String("sessionid")
	layerID := signals.String("layerid")

	return h.Stream(func(sse humastar.SSE) {
		sess, ok := h.sessions.Get(sessionID)
		if !ok {
			sse.Error("session not found")
			return
		}
		if err := sess.UnbindTooltip(layerID); err != nil {
			sse.Error(err.Error())
			return
		}
		sse.Success(fmt.Sprintf("Tooltip unbound from '%s'", layerID))
		sse.Patch(fmt.Sprintf("Tooltip unbound from %s", layerID), "#tooltip-status")
		sse.DispatchCustomEvent("tooltip-changed", map[string]any{
			"action": "unbound", "layer": layerID,
		})
	}), nil
}
