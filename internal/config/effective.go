package config

import (
	"fmt"
	"strings"
)

// ValidationError reports a bad setting by its key. Source is set when the
// key came from a file.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		fmt.Fprintf(&b, "%s:%d:%d: ", e.Source.File, e.Source.Line, e.Source.Column)
	}
	if e.Path != "" {
		b.WriteString(e.Path + ": ")
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	apply(&cfg.Display, raw.Display)
	apply(&cfg.Backend, raw.Backend)
	apply(&cfg.Font, raw.Font)
	apply(&cfg.Lines, raw.Lines)
	apply(&cfg.Colour, raw.Colour)
	apply(&cfg.ShadowColour, raw.ShadowColour)
	apply(&cfg.OutlineColour, raw.OutlineColour)
	apply(&cfg.Timeout, raw.Timeout)
	apply(&cfg.Position, raw.Position)
	apply(&cfg.Align, raw.Align)
	apply(&cfg.VerticalOffset, raw.VerticalOffset)
	apply(&cfg.HorizontalOffset, raw.HorizontalOffset)
	apply(&cfg.ShadowOffset, raw.ShadowOffset)
	apply(&cfg.OutlineOffset, raw.OutlineOffset)
	apply(&cfg.BarLength, raw.BarLength)
	apply(&cfg.HideHotkey, raw.HideHotkey)
	apply(&cfg.LogLevel, raw.LogLevel)

	return cfg
}

func apply[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
