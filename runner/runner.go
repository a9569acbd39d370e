// This file declares the Runner interface and the embeddable State.
package runner

import (
	"sync/atomic"
	"time"
)

// Runner is a long-running, restartable computation with cooperative
// cancellation. Every method except Run is non-blocking.
type Runner interface {
	// Run performs the computation until it finishes, dies, or observes a
	// stop request. It may be called again after a stop to resume.
	Run() error

	// Finished reports whether the computation ran to a conclusive end
	// (not merely returned).
	Finished() bool

	// Dead reports whether the computation failed and cannot continue.
	Dead() bool

	// TimedOut reports whether a deadline stopped the last Run.
	TimedOut() bool

	// RequestStop asks the computation to return at its next poll point.
	// Idempotent.
	RequestStop()

	// ClearStop rearms a stopped runner so it can be resumed.
	ClearStop()

	// SetDeadline sets an absolute time after which the stop flag reads as
	// set. The zero time removes the deadline.
	SetDeadline(t time.Time)

	// SetMaxThreads hints how many workers the computation may use
	// internally.
	SetMaxThreads(n int)
}

// State implements every Runner capability except Run. Engines embed a
// State and poll Stopped at batch boundaries.
//
// The zero value is ready to use and must not be copied after first use.
type State struct {
	stop     atomic.Bool
	finished atomic.Bool
	dead     atomic.Bool
	timedOut atomic.Bool
	deadline atomic.Int64 // unix nanoseconds; 0 = none
	threads  atomic.Int32
}

// Stopped reports whether a stop was requested or the deadline has passed.
// This is the poll point for cooperative cancellation.
func (s *State) Stopped() bool {
	if s.stop.Load() {
		return true
	}
	if d := s.deadline.Load(); d != 0 && time.Now().UnixNano() >= d {
		s.timedOut.Store(true)
		s.stop.Store(true)
		return true
	}
	return false
}

// RequestStop sets the stop flag.
func (s *State) RequestStop() { s.stop.Store(true) }

// ClearStop rearms the runner after a stop, preserving Finished and Dead.
func (s *State) ClearStop() {
	s.stop.Store(false)
	s.timedOut.Store(false)
}

// Finished reports a conclusive end.
func (s *State) Finished() bool { return s.finished.Load() }

// SetFinished marks a conclusive end.
func (s *State) SetFinished() { s.finished.Store(true) }

// Dead reports an unrecoverable failure.
func (s *State) Dead() bool { return s.dead.Load() }

// MarkDead records an unrecoverable failure.
func (s *State) MarkDead() { s.dead.Store(true) }

// TimedOut reports whether the deadline fired during the last Run.
func (s *State) TimedOut() bool { return s.timedOut.Load() }

// SetDeadline sets or clears the absolute deadline.
func (s *State) SetDeadline(t time.Time) {
	if t.IsZero() {
		s.deadline.Store(0)
		return
	}
	s.deadline.Store(t.UnixNano())
}

// SetMaxThreads stores the worker-count hint.
func (s *State) SetMaxThreads(n int) {
	if n < 1 {
		n = 1
	}
	s.threads.Store(int32(n))
}

// MaxThreads returns the worker-count hint, at least 1.
func (s *State) MaxThreads() int {
	if n := s.threads.Load(); n > 1 {
		return int(n)
	}
	return 1
}
