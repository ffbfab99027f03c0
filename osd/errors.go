package osd

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against the typed errors below.
var (
	ErrOpenFailed     = errors.New("osd: open failed")
	ErrCommandFailed  = errors.New("osd: command failed")
	ErrInvalidState   = errors.New("osd: invalid state")
	ErrEncodingFailed = errors.New("osd: encoding failed")
)

// OpenError is returned when the native open call yields a null handle.
type OpenError struct {
	Reason string
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("osd: open failed: %s", e.Reason)
}

func (e *OpenError) Is(target error) bool { return target == ErrOpenFailed }

// CommandError is returned when a native mutator reports failure.
// Reason holds the service's last-error text, read right after the call.
type CommandError struct {
	Command CommandKind
	Reason  string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("osd: %s failed: %s", e.Command, e.Reason)
}

func (e *CommandError) Is(target error) bool { return target == ErrCommandFailed }

// StateError is raised inside the wrapper, without any native call, when a
// command is not legal for the session's current state or its arguments are
// out of range.
type StateError struct {
	Command CommandKind
	State   State
	Reason  string
}

func (e *StateError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("osd: %s not allowed on %s session", e.Command, e.State)
	}
	return fmt.Sprintf("osd: %s not allowed on %s session: %s", e.Command, e.State, e.Reason)
}

func (e *StateError) Is(target error) bool { return target == ErrInvalidState }

// EncodingError reports a string argument that cannot be represented in the
// native text convention. No native call is made when it is returned.
type EncodingError struct {
	Field string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("osd: cannot encode %s: %v", e.Field, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

func (e *EncodingError) Is(target error) bool { return target == ErrEncodingFailed }

var (
	errNulByte     = errors.New("contains NUL byte")
	errInvalidUTF8 = errors.New("invalid UTF-8")
)
