// Package service contains the session-scoped business logic of the
// overlay platform: each session owns a map, its layers, and their
// tooltip bindings, mutated one request at a time under the session
// lock.
package service

import (
	"github.com/joeblew999/plat-overlay/internal/geom"
	"github.com/joeblew999/plat-overlay/internal/overlay"
)

// SessionSpec configures a new session's viewport.
type SessionSpec struct {
	Lng    float64 `json:"lng" doc:"Initial center longitude" example:"13.4"`
	Lat    float64 `json:"lat" doc:"Initial center latitude" example:"52.52"`
	Zoom   float64 `json:"zoom" minimum:"0" maximum:"22" default:"10" doc:"Initial zoom level"`
	Width  float64 `json:"width" minimum:"0" default:"1000" doc:"Container width in pixels"`
	Height float64 `json:"height" minimum:"0" default:"600" doc:"Container height in pixels"`
}

// LayerSpec describes a layer to create within a session.
type LayerSpec struct {
	ID   string `json:"id,omitempty" doc:"Layer identifier, generated when empty" example:"station-a"`
	Kind string `json:"kind" required:"true" enum:"marker,path,group" doc:"Layer kind" example:"marker"`

	// Marker fields.
	Lng     float64 `json:"lng,omitempty" doc:"Marker longitude"`
	Lat     float64 `json:"lat,omitempty" doc:"Marker latitude"`
	AnchorX float64 `json:"anchorX,omitempty" doc:"Tooltip anchor X offset in pixels"`
	AnchorY float64 `json:"anchorY,omitempty" doc:"Tooltip anchor Y offset in pixels"`

	// Path fields. Points are [lng, lat] pairs.
	Points [][2]float64 `json:"points,omitempty" doc:"Path vertices as [lng, lat] pairs"`
	Closed bool         `json:"closed,omitempty" doc:"Whether the path is a closed ring"`

	// Group fields: IDs of existing session layers to adopt as children.
	Children []string `json:"children,omitempty" doc:"Child layer IDs for a group"`
}

// TooltipConfig is the wire form of a tooltip binding.
type TooltipConfig struct {
	Content string `json:"content" required:"true" doc:"Tooltip text content" example:"Station A"`
	Preset  string `json:"preset,omitempty" doc:"Named preset to base the configuration on"`

	Pane      string  `json:"pane,omitempty" default:"tooltip" doc:"Render pane"`
	Direction string  `json:"direction,omitempty" enum:"auto,top,bottom,center,right,left" default:"auto" doc:"Placement preference"`
	Permanent bool    `json:"permanent,omitempty" doc:"Open on layer add, ignore hover"`
	Sticky    bool    `json:"sticky,omitempty" doc:"Follow the cursor instead of the layer anchor"`
	Opacity   float64 `json:"opacity,omitempty" minimum:"0" maximum:"1" default:"0.9" doc:"Container opacity"`
	OffsetX   float64 `json:"offsetX,omitempty" doc:"Extra placement offset X"`
	OffsetY   float64 `json:"offsetY,omitempty" doc:"Extra placement offset Y"`

	AutoPan         bool    `json:"autoPan,omitempty" doc:"Pan the map to keep the tooltip visible"`
	AutoPanPaddingX float64 `json:"autoPanPaddingX,omitempty" default:"5" doc:"Auto-pan viewport padding X"`
	AutoPanPaddingY float64 `json:"autoPanPaddingY,omitempty" default:"5" doc:"Auto-pan viewport padding Y"`

	// Per-corner overrides of the symmetric padding.
	AutoPanPaddingTopLeftX     float64 `json:"autoPanPaddingTopLeftX,omitempty" doc:"Top-left padding override X"`
	AutoPanPaddingTopLeftY     float64 `json:"autoPanPaddingTopLeftY,omitempty" doc:"Top-left padding override Y"`
	AutoPanPaddingBottomRightX float64 `json:"autoPanPaddingBottomRightX,omitempty" doc:"Bottom-right padding override X"`
	AutoPanPaddingBottomRightY float64 `json:"autoPanPaddingBottomRightY,omitempty" doc:"Bottom-right padding override Y"`

	KeepInView bool    `json:"keepInView,omitempty" doc:"Re-check overflow after every map move"`
	MinWidth   float64 `json:"minWidth,omitempty" default:"50" doc:"Minimum measured width"`
	MaxWidth   float64 `json:"maxWidth,omitempty" default:"300" doc:"Maximum measured width"`
	MaxHeight  float64 `json:"maxHeight,omitempty" doc:"Height pin, 0 for unbounded"`
}

// Options converts the wire form into engine options, layered over base
// (a preset or the stock defaults). Zero-valued numeric fields keep the
// base value so presets survive partial configs.
func (c TooltipConfig) Options(base overlay.Options) overlay.Options {
	o := base
	if c.Pane != "" {
		o.Pane = c.Pane
	}
	if c.Direction != "" {
		o.Direction = overlay.Direction(c.Direction)
	}
	o.Permanent = o.Permanent || c.Permanent
	o.Sticky = o.Sticky || c.Sticky
	if c.Opacity != 0 {
		o.Opacity = c.Opacity
	}
	if c.OffsetX != 0 || c.OffsetY != 0 {
		o.Offset = geom.Pt(c.OffsetX, c.OffsetY)
	}
	o.AutoPan = o.AutoPan || c.AutoPan
	if c.AutoPanPaddingX != 0 || c.AutoPanPaddingY != 0 {
		o.AutoPanPadding = geom.Pt(c.AutoPanPaddingX, c.AutoPanPaddingY)
	}
	if c.AutoPanPaddingTopLeftX != 0 || c.AutoPanPaddingTopLeftY != 0 {
		tl := geom.Pt(c.AutoPanPaddingTopLeftX, c.AutoPanPaddingTopLeftY)
		o.AutoPanPaddingTopLeft = &tl
	}
	if c.AutoPanPaddingBottomRightX != 0 || c.AutoPanPaddingBottomRightY != 0 {
		br := geom.Pt(c.AutoPanPaddingBottomRightX, c.AutoPanPaddingBottomRightY)
		o.AutoPanPaddingBottomRight = &br
	}
	o.KeepInView = o.KeepInView || c.KeepInView
	if c.MinWidth != 0 {
		o.MinWidth = c.MinWidth
	}
	if c.MaxWidth != 0 {
		o.MaxWidth = c.MaxWidth
	}
	if c.MaxHeight != 0 {
		o.MaxHeight = c.MaxHeight
	}
	return o
}

// PointerEvent is a forwarded browser interaction.
type PointerEvent struct {
	Type    string  `json:"type" required:"true" enum:"mouseover,mouseout,mousemove,click,focus,blur" doc:"Event type"`
	LayerID string  `json:"layerId" required:"true" doc:"Target layer ID"`
	ClientX float64 `json:"clientX,omitempty" doc:"Pointer X in client coordinates"`
	ClientY float64 `json:"clientY,omitempty" doc:"Pointer Y in client coordinates"`
}

// ViewChange mutates a session's viewport, or closes the map's transient
// tooltip via the closetooltips op.
type ViewChange struct {
	Op string `json:"op" required:"true" enum:"pan,setview,resize,closetooltips" doc:"Viewport operation"`

	DX float64 `json:"dx,omitempty" doc:"Pan delta X in pixels"`
	DY float64 `json:"dy,omitempty" doc:"Pan delta Y in pixels"`

	Lng  float64 `json:"lng,omitempty" doc:"New center longitude"`
	Lat  float64 `json:"lat,omitempty" doc:"New center latitude"`
	Zoom float64 `json:"zoom,omitempty" doc:"New zoom level"`

	Width  float64 `json:"width,omitempty" doc:"New container width"`
	Height float64 `json:"height,omitempty" doc:"New container height"`
}

// TooltipLayout is a client-reported rendered measurement.
type TooltipLayout struct {
	Width  float64 `json:"width" required:"true" minimum:"0" doc:"Rendered container width"`
	Height float64 `json:"height" required:"true" minimum:"0" doc:"Rendered container height"`
	Left   float64 `json:"left,omitempty" doc:"Container left offset within its pane"`
	Bottom float64 `json:"bottom,omitempty" doc:"Container bottom offset within its pane"`
}

// TooltipView is the observable state of a bound tooltip.
type TooltipView struct {
	Open       bool     `json:"open" doc:"Whether the tooltip is open"`
	Content    string   `json:"content" doc:"Tooltip content"`
	Opacity    float64  `json:"opacity" doc:"Container opacity"`
	Direction  string   `json:"direction,omitempty" doc:"Resolved placement direction"`
	Classes    []string `json:"classes,omitempty" doc:"Style class tokens"`
	X          float64  `json:"x" doc:"Layer-space pixel position X"`
	Y          float64  `json:"y" doc:"Layer-space pixel position Y"`
	Width      float64  `json:"width" doc:"Measured width"`
	Height     float64  `json:"height" doc:"Measured height"`
	Scrollable bool     `json:"scrollable" doc:"Whether content exceeds the height pin"`
}

// LayerState is a layer's observable state within a session.
type LayerState struct {
	ID       string       `json:"id" doc:"Layer ID"`
	Kind     string       `json:"kind" doc:"Layer kind"`
	Binding  string       `json:"binding" doc:"Tooltip binding state"`
	Children []string     `json:"children,omitempty" doc:"Child layer IDs for groups"`
	Tooltip  *TooltipView `json:"tooltip,omitempty" doc:"Bound tooltip state"`
}

// SessionState is the full observable state of a session.
type SessionState struct {
	ID     string       `json:"id" doc:"Session ID"`
	Lng    float64      `json:"lng" doc:"Center longitude"`
	Lat    float64      `json:"lat" doc:"Center latitude"`
	Zoom   float64      `json:"zoom" doc:"Zoom level"`
	Width  float64      `json:"width" doc:"Container width"`
	Height float64      `json:"height" doc:"Container height"`
	Layers []LayerState `json:"layers" doc:"Session layers in creation order"`
}
