// Package xosd binds libxosd as an osd.Native.
//
// The binding is only compiled with cgo and the "xosd" build tag:
//
//	go build -tags xosd ./cmd/termosd
//
// Without the tag New reports ErrUnavailable and callers fall back to the
// X11 backend.
package xosd

import "errors"

// ErrUnavailable is returned by New when the binary was built without
// libxosd support.
var ErrUnavailable = errors.New("xosd: built without libxosd support (rebuild with -tags xosd)")
