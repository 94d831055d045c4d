// Package config loads named tooltip presets from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-overlay/internal/geom"
	"github.com/joeblew999/plat-overlay/internal/overlay"
)

// Preset is the YAML form of a tooltip configuration.
type Preset struct {
	Pane      string  `yaml:"pane"`
	Direction string  `yaml:"direction"`
	Permanent bool    `yaml:"permanent"`
	Sticky    bool    `yaml:"sticky"`
	Opacity   float64 `yaml:"opacity"`
	OffsetX   float64 `yaml:"offsetX"`
	OffsetY   float64 `yaml:"offsetY"`

	AutoPan         bool    `yaml:"autoPan"`
	AutoPanPaddingX float64 `yaml:"autoPanPaddingX"`
	AutoPanPaddingY float64 `yaml:"autoPanPaddingY"`

	// Per-corner overrides of the symmetric padding.
	AutoPanPaddingTopLeftX     float64 `yaml:"autoPanPaddingTopLeftX"`
	AutoPanPaddingTopLeftY     float64 `yaml:"autoPanPaddingTopLeftY"`
	AutoPanPaddingBottomRightX float64 `yaml:"autoPanPaddingBottomRightX"`
	AutoPanPaddingBottomRightY float64 `yaml:"autoPanPaddingBottomRightY"`

	KeepInView bool `yaml:"keepInView"`

	MinWidth  float64 `yaml:"minWidth"`
	MaxWidth  float64 `yaml:"maxWidth"`
	MaxHeight float64 `yaml:"maxHeight"`
}

// Options layers the preset over the stock defaults.
func (p Preset) Options() overlay.Options {
	o := overlay.DefaultOptions()
	if p.Pane != "" {
		o.Pane = p.Pane
	}
	if p.Direction != "" {
		o.Direction = overlay.Direction(p.Direction)
	}
	o.Permanent = p.Permanent
	o.Sticky = p.Sticky
	if p.Opacity != 0 {
		o.Opacity = p.Opacity
	}
	if p.OffsetX != 0 || p.OffsetY != 0 {
		o.Offset = geom.Pt(p.OffsetX, p.OffsetY)
	}
	o.AutoPan = p.AutoPan
	if p.AutoPanPaddingX != 0 || p.AutoPanPaddingY != 0 {
		o.AutoPanPadding = geom.Pt(p.AutoPanPaddingX, p.AutoPanPaddingY)
	}
	if p.AutoPanPaddingTopLeftX != 0 || p.AutoPanPaddingTopLeftY != 0 {
		tl := geom.Pt(p.AutoPanPaddingTopLeftX, p.AutoPanPaddingTopLeftY)
		o.AutoPanPaddingTopLeft = &tl
	}
	if p.AutoPanPaddingBottomRightX != 0 || p.AutoPanPaddingBottomRightY != 0 {
		br := geom.Pt(p.AutoPanPaddingBottomRightX, p.AutoPanPaddingBottomRightY)
		o.AutoPanPaddingBottomRight = &br
	}
	o.KeepInView = p.KeepInView
	if p.MinWidth != 0 {
		o.MinWidth = p.MinWidth
	}
	if p.MaxWidth != 0 {
		o.MaxWidth = p.MaxWidth
	}
	if p.MaxHeight != 0 {
		o.MaxHeight = p.MaxHeight
	}
	return o
}

// LoadPresets reads a presets file and converts each entry to engine
// options. A missing file yields an empty map, not an error.
func LoadPresets(path string) (map[string]overlay.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]overlay.Options{}, nil
		}
		return nil, fmt.Errorf("config: read presets: %w", err)
	}

	var raw map[string]Preset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse presets: %w", err)
	}

	presets := make(map[string]overlay.Options, len(raw))
	for name, p := range raw {
		opts := p.Options()
		if !opts.Direction.Valid() {
			return nil, fmt.Errorf("config: preset %q: invalid direction %q", name, opts.Direction)
		}
		presets[name] = opts
	}
	return presets, nil
}
