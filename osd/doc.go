// Package osd wraps an on-screen-display service behind a single-owner
// session.
//
// The service is reached through the C-style [Native] contract: open returns
// a handle or a null sentinel, mutators return a negative status on failure,
// and the reason for the most recent failure is read from a shared last-error
// channel. The package translates that convention into typed errors and
// enforces the handle lifecycle:
//
//	s, err := osd.NewConfig().WithLines(2).WithFont("fixed").Open(lib)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	if err := s.SetText(0, "Volume"); err != nil {
//		return err
//	}
//
// A [Session] is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access themselves.
package osd
