package config

import (
	"fmt"
	"slices"
)

// Explain returns the effective value at the given key and its source.
//
// Supported keys are the top-level YAML keys, for example:
//
//	backend
//	font
//	timeout
//	bar_length
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := Value(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

var keys = []string{
	"display", "backend", "font", "lines",
	"colour", "shadow_colour", "outline_colour",
	"timeout",
	"position", "align", "vertical_offset", "horizontal_offset",
	"shadow_offset", "outline_offset", "bar_length",
	"hide_hotkey", "log_level",
}

// Keys lists the settings a config file may set, in file order.
func Keys() []string { return slices.Clone(keys) }

func isKey(key string) bool { return slices.Contains(keys, key) }

// Value returns the value of one top-level key of cfg.
func Value(cfg *Config, path string) (any, error) {
	switch path {
	case "display":
		return cfg.Display, nil
	case "backend":
		return cfg.Backend, nil
	case "font":
		return cfg.Font, nil
	case "lines":
		return cfg.Lines, nil
	case "colour":
		return cfg.Colour, nil
	case "shadow_colour":
		return cfg.ShadowColour, nil
	case "outline_colour":
		return cfg.OutlineColour, nil
	case "timeout":
		return cfg.Timeout, nil
	case "position":
		return cfg.Position, nil
	case "align":
		return cfg.Align, nil
	case "vertical_offset":
		return cfg.VerticalOffset, nil
	case "horizontal_offset":
		return cfg.HorizontalOffset, nil
	case "shadow_offset":
		return cfg.ShadowOffset, nil
	case "outline_offset":
		return cfg.OutlineOffset, nil
	case "bar_length":
		return cfg.BarLength, nil
	case "hide_hotkey":
		return cfg.HideHotkey, nil
	case "log_level":
		return cfg.LogLevel, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
