package service

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/plat-overlay/internal/event"
	"github.com/joeblew999/plat-overlay/internal/geom"
	"github.com/joeblew999/plat-overlay/internal/layer"
	"github.com/joeblew999/plat-overlay/internal/mapview"
	"github.com/joeblew999/plat-overlay/internal/overlay"
	"github.com/joeblew999/plat-overlay/internal/store"
)

// mapLayer is what the session requires of a layer: the layer surface
// plus the promoted tooltip-binding methods.
type mapLayer interface {
	layer.Layer
	BindTooltip(content string, opts overlay.Options) *overlay.Tooltip
	UnbindTooltip()
	OpenTooltip()
	CloseTooltip()
	ToggleTooltip()
	TooltipOpen() (bool, error)
	SetTooltipContent(content string)
	Tooltip() *overlay.Tooltip
	TooltipState() string
}

// Session owns one map and its layers. All mutation goes through the
// session lock; the map and layer types underneath are not locked.
type Session struct {
	ID string

	mu     sync.Mutex
	m      *mapview.Map
	layers map[string]mapLayer
	order  []string

	svc *SessionService
}

// SessionService manages sessions and their shared dependencies.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	presets map[string]overlay.Options
	store   *store.Store // nil when persistence is unavailable
	bus     *event.Bus
	logger  *log.Logger
}

// NewSessionService creates a session service. store may be nil; bus
// and logger must not be.
func NewSessionService(presets map[string]overlay.Options, st *store.Store, bus *event.Bus, logger *log.Logger) *SessionService {
	return &SessionService{
		sessions: make(map[string]*Session),
		presets:  presets,
		store:    st,
		bus:      bus,
		logger:   logger,
	}
}

// Create starts a new session with the given viewport.
func (s *SessionService) Create(spec SessionSpec) *Session {
	if spec.Width <= 0 {
		spec.Width = 1000
	}
	if spec.Height <= 0 {
		spec.Height = 600
	}

	sess := &Session{
		ID:     uuid.NewString(),
		m:      mapview.New(orb.Point{spec.Lng, spec.Lat}, spec.Zoom, geom.Size{W: spec.Width, H: spec.Height}),
		layers: make(map[string]mapLayer),
		svc:    s,
	}
	s.forwardNotices(sess)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("session created", "id", sess.ID, "zoom", spec.Zoom)
	s.bus.Publish(event.Notice{Session: sess.ID, Type: "session-created"})
	return sess
}

// Get returns a session by ID.
func (s *SessionService) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete ends a session and drops its persisted layers.
func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("session %q not found", id)
	}

	if s.store != nil {
		if err := s.store.DeleteSession(id); err != nil {
			s.logger.Warn("dropping persisted session failed", "id", id, "err", err)
		}
	}
	s.logger.Info("session deleted", "id", id)
	s.bus.Publish(event.Notice{Session: sess.ID, Type: "session-deleted"})
	return nil
}

// List returns the state of every session.
func (s *SessionService) List() []SessionState {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	states := make([]SessionState, 0, len(sessions))
	for _, sess := range sessions {
		states = append(states, sess.State())
	}
	return states
}

// forwardNotices republishes overlay events from the session's map onto
// the bus for SSE delivery.
func (s *SessionService) forwardNotices(sess *Session) {
	sess.m.Events.On(event.TooltipOpen, func(ev event.Event) {
		s.bus.Publish(tooltipNotice(sess.ID, "tooltipopen", ev))
	})
	sess.m.Events.On(event.TooltipClose, func(ev event.Event) {
		s.bus.Publish(tooltipNotice(sess.ID, "tooltipclose", ev))
	})
	sess.m.Events.On(event.AutoPanStart, func(ev event.Event) {
		n := tooltipNotice(sess.ID, "autopanstart", ev)
		n.Delta = &struct{ X, Y float64 }{ev.Delta.X, ev.Delta.Y}
		s.bus.Publish(n)
	})
}

func tooltipNotice(session, typ string, ev event.Event) event.Notice {
	n := event.Notice{Session: session, Type: typ}
	t, ok := ev.Target.(*overlay.Tooltip)
	if !ok {
		return n
	}
	if src, ok := t.SourceRef().(layer.Layer); ok {
		n.LayerID = src.ID()
	}
	if typ == "tooltipopen" {
		n.Direction = string(t.ResolvedDirection())
		n.Content = t.Content()
		n.Opacity = t.Options().Opacity
		pos := t.Position()
		n.Position = &struct{ X, Y float64 }{pos.X, pos.Y}
	}
	return n
}

// presetOptions resolves a named preset, or the stock defaults for "".
func (s *SessionService) presetOptions(name string) (overlay.Options, error) {
	if name == "" {
		return overlay.DefaultOptions(), nil
	}
	opts, ok := s.presets[name]
	if !ok {
		return overlay.Options{}, fmt.Errorf("preset %q not found", name)
	}
	return opts, nil
}

// AddLayer creates a layer in the session from its spec.
func (sess *Session) AddLayer(spec LayerSpec) (LayerState, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if spec.ID == "" {
		spec.ID = spec.Kind + "-" + uuid.NewString()[:8]
	}
	if _, exists := sess.layers[spec.ID]; exists {
		return LayerState{}, fmt.Errorf("layer %q already exists", spec.ID)
	}

	var l mapLayer
	switch spec.Kind {
	case "marker":
		mk := layer.NewMarker(spec.ID, orb.Point{spec.Lng, spec.Lat})
		if spec.AnchorX != 0 || spec.AnchorY != 0 {
			mk.SetTooltipAnchor(geom.Pt(spec.AnchorX, spec.AnchorY))
		}
		l = mk
	case "path":
		pts := make([]orb.Point, len(spec.Points))
		for i, p := range spec.Points {
			pts[i] = orb.Point{p[0], p[1]}
		}
		l = layer.NewPath(spec.ID, pts, spec.Closed)
	case "group":
		children := make([]layer.Layer, 0, len(spec.Children))
		for _, cid := range spec.Children {
			c, ok := sess.layers[cid]
			if !ok {
				return LayerState{}, fmt.Errorf("child layer %q not found", cid)
			}
			children = append(children, c)
		}
		l = layer.NewGroup(spec.ID, children...)
	default:
		return LayerState{}, fmt.Errorf("unknown layer kind %q", spec.Kind)
	}

	l.AddTo(sess.m)
	sess.layers[spec.ID] = l
	sess.order = append(sess.order, spec.ID)

	sess.persistLayer(spec, l)
	sess.svc.logger.Debug("layer added", "session", sess.ID, "layer", spec.ID, "kind", spec.Kind)
	sess.svc.bus.Publish(event.Notice{Session: sess.ID, Type: "layer-created", LayerID: spec.ID})
	return sess.layerState(spec.ID, l), nil
}

// RemoveLayer detaches and deletes a layer.
func (sess *Session) RemoveLayer(id string) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	l, ok := sess.layers[id]
	if !ok {
		return fmt.Errorf("layer %q not found", id)
	}
	l.Remove()
	delete(sess.layers, id)
	for i, lid := range sess.order {
		if lid == id {
			sess.order = append(sess.order[:i], sess.order[i+1:]...)
			break
		}
	}

	if sess.svc.store != nil {
		if err := sess.svc.store.DeleteLayer(sess.ID, id); err != nil {
			sess.svc.logger.Warn("dropping persisted layer failed", "layer", id, "err", err)
		}
	}
	sess.svc.bus.Publish(event.Notice{Session: sess.ID, Type: "layer-deleted", LayerID: id})
	return nil
}

// BindTooltip binds a tooltip to a layer, replacing any prior binding.
func (sess *Session) BindTooltip(layerID string, cfg TooltipConfig) (LayerState, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	l, ok := sess.layers[layerID]
	if !ok {
		return LayerState{}, fmt.Errorf("layer %q not found", layerID)
	}
	base, err := sess.svc.presetOptions(cfg.Preset)
	if err != nil {
		return LayerState{}, err
	}
	opts := cfg.Options(base)
	if !opts.Direction.Valid() {
		return LayerState{}, fmt.Errorf("invalid direction %q", opts.Direction)
	}
	l.BindTooltip(cfg.Content, opts)
	return sess.layerState(layerID, l), nil
}

// UnbindTooltip removes a layer's tooltip binding.
func (sess *Session) UnbindTooltip(layerID string) error {
	return sess.withLayer(layerID, func(l mapLayer) error {
		l.UnbindTooltip()
		return nil
	})
}

// OpenTooltip opens a layer's bound tooltip.
func (sess *Session) OpenTooltip(layerID string) error {
	return sess.withLayer(layerID, func(l mapLayer) error {
		l.OpenTooltip()
		return nil
	})
}

// CloseTooltip closes a layer's bound tooltip.
func (sess *Session) CloseTooltip(layerID string) error {
	return sess.withLayer(layerID, func(l mapLayer) error {
		l.CloseTooltip()
		return nil
	})
}

// ToggleTooltip toggles a layer's bound tooltip.
func (sess *Session) ToggleTooltip(layerID string) error {
	return sess.withLayer(layerID, func(l mapLayer) error {
		l.ToggleTooltip()
		return nil
	})
}

// TooltipOpen reports whether a layer's tooltip is open. Returns
// layer.ErrNoTooltip when the layer has no binding.
func (sess *Session) TooltipOpen(layerID string) (bool, error) {
	var open bool
	err := sess.withLayer(layerID, func(l mapLayer) error {
		var err error
		open, err = l.TooltipOpen()
		return err
	})
	return open, err
}

// SetTooltipContent replaces a layer's tooltip content.
func (sess *Session) SetTooltipContent(layerID, content string) error {
	return sess.withLayer(layerID, func(l mapLayer) error {
		l.SetTooltipContent(content)
		return nil
	})
}

// SetTooltipOpacity changes a layer's tooltip container opacity.
func (sess *Session) SetTooltipOpacity(layerID string, opacity float64) error {
	return sess.withLayer(layerID, func(l mapLayer) error {
		t := l.Tooltip()
		if t == nil {
			return layer.ErrNoTooltip
		}
		t.SetOpacity(opacity)
		return nil
	})
}

// ReportTooltipLayout feeds a client-measured container size back into
// the placement engine.
func (sess *Session) ReportTooltipLayout(layerID string, layout TooltipLayout) error {
	return sess.withLayer(layerID, func(l mapLayer) error {
		t := l.Tooltip()
		if t == nil {
			return layer.ErrNoTooltip
		}
		t.ReportLayout(geom.Size{W: layout.Width, H: layout.Height}, layout.Left, layout.Bottom)
		return nil
	})
}

// HandleEvent forwards a browser interaction to its target layer.
func (sess *Session) HandleEvent(pe PointerEvent) error {
	return sess.withLayer(pe.LayerID, func(l mapLayer) error {
		ev := event.Event{}
		switch pe.Type {
		case "mouseover":
			ev.Type = event.MouseOver
		case "mouseout":
			ev.Type = event.MouseOut
		case "mousemove":
			ev.Type = event.MouseMove
		case "click":
			ev.Type = event.Click
		case "focus":
			ev.Type = event.Focus
		case "blur":
			ev.Type = event.Blur
		default:
			return fmt.Errorf("unknown event type %q", pe.Type)
		}

		switch ev.Type {
		case event.MouseOver, event.MouseOut, event.MouseMove, event.Click:
			cp := sess.m.MouseEventToContainerPoint(mapview.MouseEvent{ClientX: pe.ClientX, ClientY: pe.ClientY})
			ev.ContainerPoint = cp
			ev.LatLng = sess.m.ContainerPointToLatLng(cp)
			ev.HasLatLng = true
		}
		l.Events().Fire(ev)
		return nil
	})
}

// ApplyView mutates the session viewport.
func (sess *Session) ApplyView(v ViewChange) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch v.Op {
	case "pan":
		sess.m.PanBy(geom.Pt(v.DX, v.DY))
	case "setview":
		sess.m.SetView(orb.Point{v.Lng, v.Lat}, v.Zoom)
	case "resize":
		sess.m.SetSize(geom.Size{W: v.Width, H: v.Height})
	case "closetooltips":
		sess.m.CloseTransientTooltip()
	default:
		return fmt.Errorf("unknown view op %q", v.Op)
	}
	return nil
}

// State returns the session's observable state.
func (sess *Session) State() SessionState {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	center := sess.m.Center()
	size := sess.m.Size()
	st := SessionState{
		ID:     sess.ID,
		Lng:    center[0],
		Lat:    center[1],
		Zoom:   sess.m.Zoom(),
		Width:  size.W,
		Height: size.H,
		Layers: make([]LayerState, 0, len(sess.order)),
	}
	for _, id := range sess.order {
		st.Layers = append(st.Layers, sess.layerState(id, sess.layers[id]))
	}
	return st
}

func (sess *Session) withLayer(id string, fn func(mapLayer) error) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	l, ok := sess.layers[id]
	if !ok {
		return fmt.Errorf("layer %q not found", id)
	}
	return fn(l)
}

func (sess *Session) layerState(id string, l mapLayer) LayerState {
	st := LayerState{ID: id, Binding: l.TooltipState()}
	switch v := l.(type) {
	case *layer.Marker:
		st.Kind = "marker"
	case *layer.Path:
		st.Kind = "path"
	case *layer.Group:
		st.Kind = "group"
		for _, c := range v.Children() {
			st.Children = append(st.Children, c.ID())
		}
	}
	if t := l.Tooltip(); t != nil {
		pos := t.Position()
		sz := t.Size()
		st.Tooltip = &TooltipView{
			Open:       t.IsOpen(),
			Content:    t.Content(),
			Opacity:    t.Options().Opacity,
			Direction:  string(t.ResolvedDirection()),
			Classes:    t.Classes(),
			X:          pos.X,
			Y:          pos.Y,
			Width:      sz.W,
			Height:     sz.H,
			Scrollable: t.Scrollable(),
		}
	}
	return st
}

// persistLayer writes the layer definition through the store, with its
// geometry as GeoJSON for spatial queries.
func (sess *Session) persistLayer(spec LayerSpec, l mapLayer) {
	if sess.svc.store == nil {
		return
	}

	specJSON, err := json.Marshal(spec)
	if err != nil {
		return
	}
	rec := store.LayerRecord{
		Session: sess.ID,
		ID:      spec.ID,
		Kind:    spec.Kind,
		Spec:    string(specJSON),
	}
	if g := layerGeometry(l); g != nil {
		if data, err := geojson.NewGeometry(g).MarshalJSON(); err == nil {
			rec.Geometry = string(data)
		}
	}
	if err := sess.svc.store.SaveLayer(rec); err != nil {
		sess.svc.logger.Warn("persisting layer failed", "layer", spec.ID, "err", err)
	}
}

func layerGeometry(l mapLayer) orb.Geometry {
	switch v := l.(type) {
	case *layer.Marker:
		return v.LatLng()
	case *layer.Path:
		ls := orb.LineString(v.Points())
		if v.Closed() {
			return orb.Polygon{orb.Ring(ls)}
		}
		return ls
	}
	return nil
}
