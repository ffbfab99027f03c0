package config

import "time"

// RawConfig mirrors one config file. A nil field was not set in that file
// or, after merging, in any file. "include" is handled by the loader.
type RawConfig struct {
	Display *string  `yaml:"display"`
	Backend *Backend `yaml:"backend"`
	Font    *string  `yaml:"font"`
	Lines   *int     `yaml:"lines"`

	Colour        *string `yaml:"colour"`
	ShadowColour  *string `yaml:"shadow_colour"`
	OutlineColour *string `yaml:"outline_colour"`

	Timeout *time.Duration `yaml:"timeout"`

	Position         *string `yaml:"position"`
	Align            *string `yaml:"align"`
	VerticalOffset   *int    `yaml:"vertical_offset"`
	HorizontalOffset *int    `yaml:"horizontal_offset"`
	ShadowOffset     *int    `yaml:"shadow_offset"`
	OutlineOffset    *int    `yaml:"outline_offset"`
	BarLength        *int    `yaml:"bar_length"`

	HideHotkey *string `yaml:"hide_hotkey"`

	LogLevel *string `yaml:"log_level"`
}

func (r RawConfig) merge(overlay RawConfig) RawConfig {
	out := r

	setIf(&out.Display, overlay.Display)
	setIf(&out.Backend, overlay.Backend)
	setIf(&out.Font, overlay.Font)
	setIf(&out.Lines, overlay.Lines)
	setIf(&out.Colour, overlay.Colour)
	setIf(&out.ShadowColour, overlay.ShadowColour)
	setIf(&out.OutlineColour, overlay.OutlineColour)
	setIf(&out.Timeout, overlay.Timeout)
	setIf(&out.Position, overlay.Position)
	setIf(&out.Align, overlay.Align)
	setIf(&out.VerticalOffset, overlay.VerticalOffset)
	setIf(&out.HorizontalOffset, overlay.HorizontalOffset)
	setIf(&out.ShadowOffset, overlay.ShadowOffset)
	setIf(&out.OutlineOffset, overlay.OutlineOffset)
	setIf(&out.BarLength, overlay.BarLength)
	setIf(&out.HideHotkey, overlay.HideHotkey)
	setIf(&out.LogLevel, overlay.LogLevel)

	return out
}

func setIf[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}
