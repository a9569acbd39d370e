// This file implements the Race: bounded concurrent execution with an
// atomic winner slot and loser cancellation.
//
// Errors:
//
//	ErrNoRunners  - Run called on an empty race.
//	ErrNoSolution - every started runner died without finishing.
//	ErrTimedOut   - no runner finished and at least one hit its deadline.
//	ErrCancelled  - the race context was cancelled before a winner.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Sentinel errors for race outcomes.
var (
	// ErrNoRunners is returned when Run is called with no runners added.
	ErrNoRunners = errors.New("runner: race has no runners")

	// ErrNoSolution is returned when every started runner died.
	ErrNoSolution = errors.New("runner: all runners died without finishing")

	// ErrTimedOut is returned when no runner finished before its deadline.
	ErrTimedOut = errors.New("runner: race timed out")

	// ErrCancelled is returned when the race context was cancelled first.
	ErrCancelled = errors.New("runner: race cancelled")
)

// RaceOption configures a Race.
type RaceOption func(*Race)

// WithMaxThreads bounds how many runners execute concurrently. Runners
// beyond the bound are not started at all: a queued diverging runner could
// otherwise hold its slot forever. Defaults to the number of runners.
func WithMaxThreads(n int) RaceOption {
	return func(r *Race) {
		if n > 0 {
			r.maxThreads = n
		}
	}
}

// WithContext sets a context whose cancellation broadcasts a stop request
// to every runner.
func WithContext(ctx context.Context) RaceOption {
	return func(r *Race) {
		if ctx != nil {
			r.ctx = ctx
		}
	}
}

// WithLogger sets the structured logger for race progress.
func WithLogger(l *slog.Logger) RaceOption {
	return func(r *Race) {
		if l != nil {
			r.logger = l
		}
	}
}

// Race runs a set of runners concurrently and keeps the first finisher.
type Race struct {
	runners    []Runner
	labels     []string
	maxThreads int
	ctx        context.Context
	logger     *slog.Logger

	// winner holds the index of the winning runner, or -1.
	winner atomic.Int32
}

// NewRace returns an empty race.
func NewRace(opts ...RaceOption) *Race {
	r := &Race{
		ctx:    context.Background(),
		logger: slog.New(slog.DiscardHandler),
	}
	r.winner.Store(-1)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers a runner. Runners added after Run has found a winner are
// ignored by later runs.
func (r *Race) Add(rn Runner) {
	r.runners = append(r.runners, rn)
	r.labels = append(r.labels, uuid.NewString())
}

// NrRunners returns the number of registered runners.
func (r *Race) NrRunners() int { return len(r.runners) }

// Winner returns the winning runner, or nil if the race has not been won.
func (r *Race) Winner() Runner {
	if w := r.winner.Load(); w >= 0 {
		return r.runners[w]
	}
	return nil
}

// Run executes the race: one goroutine per started runner, first finisher
// wins, losers receive a stop request, and all goroutines are joined before
// returning. Restartable: runners keep their partial state, so a timed-out
// race may be run again after extending deadlines.
func (r *Race) Run() (Runner, error) {
	if w := r.Winner(); w != nil {
		return w, nil
	}
	if len(r.runners) == 0 {
		return nil, ErrNoRunners
	}
	n := len(r.runners)
	if r.maxThreads > 0 && r.maxThreads < n {
		n = r.maxThreads
	}
	for i := 0; i < n; i++ {
		r.runners[i].ClearStop()
	}

	// Broadcast stop on context cancellation until the race settles.
	settled := make(chan struct{})
	go func() {
		select {
		case <-r.ctx.Done():
			for i := 0; i < n; i++ {
				r.runners[i].RequestStop()
			}
		case <-settled:
		}
	}()

	var g errgroup.Group
	for i := 0; i < n; i++ {
		rn, label := r.runners[i], r.labels[i]
		idx := int32(i)
		g.Go(func() error {
			err := rn.Run()
			if err != nil {
				r.logger.Warn("runner: died", "id", label, "err", err)
				return nil
			}
			if rn.Finished() && r.winner.CompareAndSwap(-1, idx) {
				r.logger.Info("runner: winner", "id", label)
				for j := 0; j < n; j++ {
					if int32(j) != idx {
						r.runners[j].RequestStop()
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	close(settled)

	if w := r.Winner(); w != nil {
		return w, nil
	}
	if r.ctx.Err() != nil {
		return nil, ErrCancelled
	}
	for i := 0; i < n; i++ {
		if r.runners[i].TimedOut() {
			return nil, ErrTimedOut
		}
	}
	return nil, ErrNoSolution
}
