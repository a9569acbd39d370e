// This file declares the congruence direction, the prefill policy, tunable
// options, and error definitions for the coset enumerator.
//
// Errors:
//
//	ErrInvalidOperation - operation illegal in the current state.
//	ErrInfinite         - exact count requested on an obviously infinite
//	                      congruence.
//	ErrIncompatible     - mismatched direction or parent when copying.
//	ErrOverflow         - the coset count exceeded the index type.
//	ErrOptionViolation  - an invalid Option was supplied.
package toddcoxeter

import (
	"errors"
	"fmt"
	"log/slog"
)

// Side is the direction of a congruence.
type Side uint8

// The three congruence directions.
const (
	Right Side = iota
	Left
	TwoSided
)

// String returns the conventional name of the direction.
func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "twosided"
	}
}

// Policy selects how a parent semigroup seeds the enumeration.
type Policy uint8

const (
	// PolicyUseRelations derives a presentation from the parent's defining
	// rules and traces it.
	PolicyUseRelations Policy = iota

	// PolicyUseCayleyGraph prefills the coset table from the parent's right
	// (or left) Cayley graph, so only the generating pairs remain to trace.
	PolicyUseCayleyGraph
)

// Sentinel errors for the coset enumerator.
var (
	// ErrInvalidOperation indicates an operation illegal in the current
	// state, e.g. a quotient of a one-sided congruence or a class word
	// before Run has finished.
	ErrInvalidOperation = errors.New("toddcoxeter: invalid operation")

	// ErrInfinite indicates an exact count requested on an obviously
	// infinite congruence.
	ErrInfinite = errors.New("toddcoxeter: congruence is obviously infinite")

	// ErrIncompatible indicates a mismatched direction or parent.
	ErrIncompatible = errors.New("toddcoxeter: incompatible congruence types")

	// ErrOverflow indicates the coset count exceeded the index type.
	ErrOverflow = errors.New("toddcoxeter: coset count overflow")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("toddcoxeter: invalid option supplied")
)

// defaultPackThreshold is the active-coset count that triggers the first
// lookahead phase.
const defaultPackThreshold = 120000

// defaultReportInterval is the number of traces between progress reports
// and packing-progress checks.
const defaultReportInterval = 2000000

// Option configures the enumerator via functional arguments. An invalid
// Option is recorded and surfaced by the constructors.
type Option func(*options)

type options struct {
	pack           uint64
	reportInterval uint64
	policy         Policy
	logger         *slog.Logger

	err error
}

func defaultOptions() options {
	return options{
		pack:           defaultPackThreshold,
		reportInterval: defaultReportInterval,
		policy:         PolicyUseCayleyGraph,
		logger:         slog.New(slog.DiscardHandler),
	}
}

// WithPackThreshold sets the active-coset count at which lookahead starts.
// n must be positive.
func WithPackThreshold(n int) Option {
	return func(o *options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: PackThreshold must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.pack = uint64(n)
	}
}

// WithReportInterval sets the trace count between progress reports. n must
// be positive.
func WithReportInterval(n int) Option {
	return func(o *options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: ReportInterval must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.reportInterval = uint64(n)
	}
}

// WithPolicy selects the parent-seeding policy. It has no effect on
// presentation-sourced enumerations.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		if p != PolicyUseRelations && p != PolicyUseCayleyGraph {
			o.err = fmt.Errorf("%w: unknown policy %d", ErrOptionViolation, p)
			return
		}
		o.policy = p
	}
}

// WithLogger sets the structured logger for progress reporting.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
