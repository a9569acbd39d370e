// This file declares tunable options and error definitions for the
// Froidure–Pin enumerator.
//
// Errors:
//
//	ErrNoGenerators       - an empty generating set was supplied.
//	ErrDegreeMismatch     - generators of unequal degree.
//	ErrIndexOutOfRange    - an index query beyond the number of elements.
//	ErrEnumerationStarted - AddGenerators after enumeration has begun.
//	ErrOptionViolation    - an invalid Option was supplied.
package froidurepin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Sentinel errors for enumerator construction and queries.
var (
	// ErrNoGenerators is returned when no generators are supplied.
	ErrNoGenerators = errors.New("froidurepin: no generators")

	// ErrDegreeMismatch is returned when generators have unequal degrees.
	ErrDegreeMismatch = errors.New("froidurepin: generator degree mismatch")

	// ErrIndexOutOfRange is returned for index queries at or beyond Size.
	ErrIndexOutOfRange = errors.New("froidurepin: index out of range")

	// ErrEnumerationStarted is returned by AddGenerators once Enumerate has
	// processed any element.
	ErrEnumerationStarted = errors.New("froidurepin: enumeration already started")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("froidurepin: invalid option supplied")
)

// defaultBatchSize is the number of element insertions between context
// polls, matching the historical default.
const defaultBatchSize = 8192

// Option configures enumerator behavior via functional arguments. An
// invalid Option is recorded internally and surfaced as ErrOptionViolation
// by New.
type Option func(*options)

type options struct {
	ctx        context.Context
	batchSize  uint32
	maxThreads int
	logger     *slog.Logger

	err error
}

func defaultOptions() options {
	return options{
		ctx:        context.Background(),
		batchSize:  defaultBatchSize,
		maxThreads: 1,
		logger:     slog.New(slog.DiscardHandler),
	}
}

// WithContext sets the context polled between enumeration batches.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithBatchSize sets the number of element insertions between context
// polls. n must be positive.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: BatchSize must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.batchSize = uint32(n)
	}
}

// WithMaxThreads bounds the workers used by the parallel idempotent scan.
// n must be positive; 1 disables parallelism.
func WithMaxThreads(n int) Option {
	return func(o *options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MaxThreads must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.maxThreads = n
	}
}

// WithLogger sets the structured logger for progress reporting. Reporting
// is off by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
