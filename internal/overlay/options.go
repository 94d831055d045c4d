package overlay

import "github.com/joeblew999/plat-overlay/internal/geom"

// Direction is a tooltip placement preference relative to its anchor.
type Direction string

const (
	DirAuto   Direction = "auto"
	DirTop    Direction = "top"
	DirBottom Direction = "bottom"
	DirCenter Direction = "center"
	DirRight  Direction = "right"
	DirLeft   Direction = "left"
)

// Valid reports whether d is a recognized direction.
func (d Direction) Valid() bool {
	switch d {
	case DirAuto, DirTop, DirBottom, DirCenter, DirRight, DirLeft:
		return true
	}
	return false
}

// ClassToken returns the style-class token for a resolved direction,
// e.g. "overlay-tooltip-right". Tokens are mutually exclusive on a
// tooltip container.
func (d Direction) ClassToken() string {
	return "overlay-tooltip-" + string(d)
}

// Options configures a tooltip overlay.
type Options struct {
	// Pane is the render layer the tooltip container is appended to.
	Pane string

	// Offset is an extra pixel offset applied after placement.
	Offset geom.Point

	// Direction is the placement preference; DirAuto resolves to left or
	// right based on the anchor's position relative to the map center.
	Direction Direction

	// Permanent tooltips open when their layer is added to the map and
	// ignore hover and click.
	Permanent bool

	// Sticky tooltips follow the cursor instead of the layer anchor.
	Sticky bool

	// Opacity of the tooltip container, 0-1.
	Opacity float64

	// AutoPan pans the map to keep the tooltip visible after placement.
	AutoPan bool

	// AutoPanPadding is the symmetric viewport padding for auto-pan.
	AutoPanPadding geom.Point

	// AutoPanPaddingTopLeft / BottomRight override the symmetric padding
	// per corner when set.
	AutoPanPaddingTopLeft     *geom.Point
	AutoPanPaddingBottomRight *geom.Point

	// KeepInView re-runs the overflow check after every map move.
	KeepInView bool

	// MinWidth / MaxWidth clamp the measured container width.
	MinWidth float64
	MaxWidth float64

	// MaxHeight pins the container height and enables scrolling when the
	// content is taller. Zero means unbounded.
	MaxHeight float64
}

// DefaultOptions returns the stock tooltip configuration.
func DefaultOptions() Options {
	return Options{
		Pane:           "tooltip",
		Direction:      DirAuto,
		Opacity:        0.9,
		AutoPanPadding: geom.Pt(5, 5),
		MinWidth:       50,
		MaxWidth:       300,
	}
}
