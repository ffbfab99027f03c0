package main

import (
	"fmt"

	"github.com/1broseidon/termosd/internal/config"
	"github.com/1broseidon/termosd/internal/x11osd"
	"github.com/1broseidon/termosd/internal/xosd"
	"github.com/1broseidon/termosd/osd"
)

// nativeFor returns the display service selected by backend.
func nativeFor(backend config.Backend) (osd.Native, error) {
	switch backend {
	case config.BackendX11:
		return x11osd.New(), nil
	case config.BackendXOSD:
		return xosd.New()
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// availableBackends lists the backends compiled into this binary.
func availableBackends() []config.Backend {
	out := []config.Backend{config.BackendX11}
	if xosd.Available() {
		out = append(out, config.BackendXOSD)
	}
	return out
}

// openSession opens a display session configured from cfg.
func openSession(cfg *config.Config) (*osd.Session, error) {
	native, err := nativeFor(cfg.Backend)
	if err != nil {
		return nil, err
	}
	oc, err := cfg.OSD()
	if err != nil {
		return nil, err
	}
	return oc.Open(native)
}
