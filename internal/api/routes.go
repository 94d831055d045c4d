// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-overlay/internal/layer"
	"github.com/joeblew999/plat-overlay/internal/service"
)

// Types

type SessionIDInput struct {
	Session string `path:"session" doc:"Session ID"`
}

type LayerIDInput struct {
	SessionIDInput
	Layer string `path:"layer" doc:"Layer ID"`
}

type SessionOutput struct {
	Body service.SessionState
}

type SessionsOutput struct {
	Body []service.SessionState
}

type LayerOutput struct {
	Body service.LayerState
}

type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

type TooltipStatusBody struct {
	Open    bool   `json:"open" doc:"Whether the tooltip is open"`
	Binding string `json:"binding" doc:"Binding state"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	sessions *service.SessionService
}

func NewAPIHandler(sessions *service.SessionService) *APIHandler {
	return &APIHandler{sessions: sessions}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterSessions registers session lifecycle routes.
func (h *APIHandler) RegisterSessions(api huma.API) {
	huma.Get(api, "/api/v1/sessions", h.ListSessions, huma.OperationTags("sessions"))
	huma.Post(api, "/api/v1/sessions", h.CreateSession, huma.OperationTags("sessions"))
	huma.Get(api, "/api/v1/sessions/{session}", h.GetSession, huma.OperationTags("sessions"))
	huma.Delete(api, "/api/v1/sessions/{session}", h.DeleteSession, huma.OperationTags("sessions"))
	huma.Post(api, "/api/v1/sessions/{session}/view", h.ApplyView, huma.OperationTags("sessions"))
	huma.Post(api, "/api/v1/sessions/{session}/events", h.PostEvent, huma.OperationTags("events"))
}

// RegisterLayers registers layer and tooltip routes.
func (h *APIHandler) RegisterLayers(api huma.API) {
	huma.Post(api, "/api/v1/sessions/{session}/layers", h.CreateLayer, huma.OperationTags("layers"))
	huma.Delete(api, "/api/v1/sessions/{session}/layers/{layer}", h.DeleteLayer, huma.OperationTags("layers"))

	huma.Post(api, "/api/v1/sessions/{session}/layers/{layer}/tooltip", h.BindTooltip, huma.OperationTags("tooltips"))
	huma.Delete(api, "/api/v1/sessions/{session}/layers/{layer}/tooltip", h.UnbindTooltip, huma.OperationTags("tooltips"))
	huma.Get(api, "/api/v1/sessions/{session}/layers/{layer}/tooltip", h.GetTooltip, huma.OperationTags("tooltips"))
	huma.Post(api, "/api/v1/sessions/{session}/layers/{layer}/tooltip/open", h.OpenTooltip, huma.OperationTags("tooltips"))
	huma.Post(api, "/api/v1/sessions/{session}/layers/{layer}/tooltip/close", h.CloseTooltip, huma.OperationTags("tooltips"))
	huma.Post(api, "/api/v1/sessions/{session}/layers/{layer}/tooltip/toggle", h.ToggleTooltip, huma.OperationTags("tooltips"))
	huma.Put(api, "/api/v1/sessions/{session}/layers/{layer}/tooltip/content", h.SetTooltipContent, huma.OperationTags("tooltips"))
	huma.Put(api, "/api/v1/sessions/{session}/layers/{layer}/tooltip/opacity", h.SetTooltipOpacity, huma.OperationTags("tooltips"))
	huma.Put(api, "/api/v1/sessions/{session}/layers/{layer}/tooltip/layout", h.ReportTooltipLayout, huma.OperationTags("tooltips"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) ListSessions(ctx context.Context, input *struct{}) (*SessionsOutput, error) {
	states := h.sessions.List()
	if states == nil {
		states = []service.SessionState{}
	}
	return &SessionsOutput{Body: states}, nil
}

func (h *APIHandler) CreateSession(ctx context.Context, input *struct{ Body service.SessionSpec }) (*SessionOutput, error) {
	sess := h.sessions.Create(input.Body)
	return &SessionOutput{Body: sess.State()}, nil
}

func (h *APIHandler) GetSession(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
	sess, ok := h.sessions.Get(input.Session)
	if !ok {
		return nil, huma.Error404NotFound("session not found")
	}
	return &SessionOutput{Body: sess.State()}, nil
}

func (h *APIHandler) DeleteSession(ctx context.Context, input *SessionIDInput) (*struct{ Body MessageBody }, error) {
	if err := h.sessions.Delete(input.Session); err != nil {
		return nil, huma.Error404NotFound(err.Error())
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Session deleted"}}, nil
}

func (h *APIHandler) ApplyView(ctx context.Context, input *struct {
	SessionIDInput
	Body service.ViewChange
}) (*SessionOutput, error) {
	sess, ok := h.sessions.Get(input.Session)
	if !ok {
		return nil, huma.Error404NotFound("session not found")
	}
	if err := sess.ApplyView(input.Body); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &SessionOutput{Body: sess.State()}, nil
}

func (h *APIHandler) PostEvent(ctx context.Context, input *struct {
	SessionIDInput
	Body service.PointerEvent
}) (*SessionOutput, error) {
	sess, ok := h.sessions.Get(input.Session)
	if !ok {
		return nil, huma.Error404NotFound("session not found")
	}
	if err := sess.HandleEvent(input.Body); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &SessionOutput{Body: sess.State()}, nil
}

func (h *APIHandler) CreateLayer(ctx context.Context, input *struct {
	SessionIDInput
	Body service.LayerSpec
}) (*LayerOutput, error) {
	sess, ok := h.sessions.Get(input.Session)
	if !ok {
		return nil, huma.Error404NotFound("session not found")
	}
	st, err := sess.AddLayer(input.Body)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &LayerOutput{Body: st}, nil
}

func (h *APIHandler) DeleteLayer(ctx context.Context, input *LayerIDInput) (*struct{ Body MessageBody }, error) {
	sess, ok := h.sessions.Get(input.Session)
	if !ok {
		return nil, huma.Error404NotFound("session not found")
	}
	if err := sess.RemoveLayer(input.Layer); err != nil {
		return nil, huma.Error404NotFound(err.Error())
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Layer deleted"}}, nil
}

func (h *APIHandler) BindTooltip(ctx context.Context, input *struct {
	LayerIDInput
	Body service.TooltipConfig
}) (*LayerOutput, error) {
	sess, ok := h.sessions.Get(input.Session)
	if !ok {
		return nil, huma.Error404NotFound("session not found")
	}
	st, err := sess.BindTooltip(input.Layer, input.Body)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &LayerOutput{Body: st}, nil
}

func (h *APIHandler) UnbindTooltip(ctx context.Context, input *LayerIDInput) (*struct{ Body MessageBody }, error) {
	if err := h.tooltipOp(input, func(sess *service.Session) error {
		return sess.UnbindTooltip(input.Layer)
	}); err != nil {
		return nil, err
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Tooltip unbound"}}, nil
}

func (h *APIHandler) GetTooltip(ctx context.Context, input *LayerIDInput) (*struct{ Body TooltipStatusBody }, error) {
	sess, ok := h.sessions.Get(input.Session)
	if !ok {
		return nil, huma.Error404NotFound("session not found")
	}
	open, err := sess.TooltipOpen(input.Layer)
	if err != nil {
		if errors.Is(err, layer.ErrNoTooltip) {
			return nil, huma.Error409Conflict("no tooltip bound")
		}
		return nil, huma.Error404NotFound(err.Error())
	}

	binding := layer.StateOpen
	if !open {
		binding = layer.StateIdle
	}
	return &struct{ Body TooltipStatusBody }{Body: TooltipStatusBody{Open: open, Binding: binding}}, nil
}

func (h *APIHandler) OpenTooltip(ctx context.Context, input *LayerIDInput) (*LayerOutput, error) {
	return h.tooltipStateOp(input, func(sess *service.Session) error {
		return sess.OpenTooltip(input.Layer)
	})
}

func (h *APIHandler) CloseTooltip(ctx context.Context, input *LayerIDInput) (*LayerOutput, error) {
	return h.tooltipStateOp(input, func(sess *service.Session) error {
		return sess.CloseTooltip(input.Layer)
	})
}

func (h *APIHandler) ToggleTooltip(ctx context.Context, input *LayerIDInput) (*LayerOutput, error) {
	return h.tooltipStateOp(input, func(sess *service.Session) error {
		return sess.ToggleTooltip(input.Layer)
	})
}

func (h *APIHandler) SetTooltipContent(ctx context.Context, input *struct {
	LayerIDInput
	Body struct {
		Content string `json:"content" required:"true" doc:"New tooltip content"`
	}
}) (*LayerOutput, error) {
	return h.tooltipStateOp(&input.LayerIDInput, func(sess *service.Session) error {
		return sess.SetTooltipContent(input.Layer, input.Body.Content)
	})
}

func (h *APIHandler) SetTooltipOpacity(ctx context.Context, input *struct {
	LayerIDInput
	Body struct {
		Opacity float64 `json:"opacity" required:"true" minimum:"0" maximum:"1" doc:"New container opacity"`
	}
}) (*LayerOutput, error) {
	return h.tooltipStateOp(&input.LayerIDInput, func(sess *service.Session) error {
		return sess.SetTooltipOpacity(input.Layer, input.Body.Opacity)
	})
}

func (h *APIHandler) ReportTooltipLayout(ctx context.Context, input *struct {
	LayerIDInput
	Body service.TooltipLayout
}) (*LayerOutput, error) {
	return h.tooltipStateOp(&input.LayerIDInput, func(sess *service.Session) error {
		return sess.ReportTooltipLayout(input.Layer, input.Body)
	})
}

// tooltipOp runs fn against the session, translating service errors.
func (h *APIHandler) tooltipOp(input *LayerIDInput, fn func(*service.Session) error) error {
	sess, ok := h.sessions.Get(input.Session)
	if !ok {
		return huma.Error404NotFound("session not found")
	}
	if err := fn(sess); err != nil {
		if errors.Is(err, layer.ErrNoTooltip) {
			return huma.Error409Conflict("no tooltip bound")
		}
		return huma.Error404NotFound(err.Error())
	}
	return nil
}

// tooltipStateOp is tooltipOp plus the layer's state in the response.
func (h *APIHandler) tooltipStateOp(input *LayerIDInput, fn func(*service.Session) error) (*LayerOutput, error) {
	if err := h.tooltipOp(input, fn); err != nil {
		return nil, err
	}
	sess, _ := h.sessions.Get(input.Session)
	for _, st := range sess.State().Layers {
		if st.ID == input.Layer {
			return &LayerOutput{Body: st}, nil
		}
	}
	return nil, huma.Error404NotFound("layer not found")
}
