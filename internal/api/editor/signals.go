package editor

import (
	"github.com/joeblew999/plat-overlay/internal/humastar"
	"github.com/joeblew999/plat-overlay/internal/service"
)

// Signal names are lowercase due to data-bind behavior.

// ParsePointerSignals extracts a pointer event and its session ID from
// Datastar signals.
func ParsePointerSignals(s humastar.Signals) (service.PointerEvent, string) {
	return service.PointerEvent{
		Type:    s.String("eventtype"),
		LayerID: s.String("layerid"),
		ClientX: s.Float("clientx"),
		ClientY: s.Float("clienty"),
	}, s.String("sessionid")
}

// ParseTooltipConfigSignals builds a tooltip config from editor form
// signals. Unset numeric signals keep the engine defaults.
func ParseTooltipConfigSignals(s humastar.Signals) service.TooltipConfig {
	return service.TooltipConfig{
		Content:         s.String("tooltipcontent"),
		Preset:          s.String("tooltippreset"),
		Direction:       s.String("tooltipdirection"),
		Permanent:       s.Bool("tooltippermanent"),
		Sticky:          s.Bool("tooltipsticky"),
		Opacity:         s.Float("tooltipopacity"),
		OffsetX:         s.Float("tooltipoffsetx"),
		OffsetY:         s.Float("tooltipoffsety"),
		AutoPan:         s.Bool("tooltipautopan"),
		AutoPanPaddingX: s.Float("tooltipautopanpadx"),
		AutoPanPaddingY: s.Float("tooltipautopanpady"),
		KeepInView:      s.Bool("tooltipkeepinview"),
		MinWidth:        s.Float("tooltipminwidth"),
		MaxWidth:        s.Float("tooltipmaxwidth"),
		MaxHeight:       s.Float("tooltipmaxheight"),
	}
}

// ResetTooltipConfigSignals clears the editor form after a bind.
func ResetTooltipConfigSignals() map[string]any {
	return map[string]any{
		"tooltipcontent":   "",
		"tooltippreset":    "",
		"tooltipdirection": "auto",
		"tooltippermanent": false,
		"tooltipsticky":    false,
	}
}
