//go:build !(cgo && xosd)

package xosd

import "github.com/1broseidon/termosd/osd"

// New reports ErrUnavailable in builds without libxosd.
func New() (osd.Native, error) {
	return nil, ErrUnavailable
}

// Available reports whether libxosd support was compiled in.
func Available() bool { return false }
