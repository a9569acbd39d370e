package runner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlsemi/runner"
)

// worker is a test runner that finishes after a fixed number of polled
// batches, or never when batches < 0.
type worker struct {
	runner.State
	batches int
	delay   time.Duration
	fail    error

	ran int
}

func (w *worker) Run() error {
	if w.fail != nil {
		w.MarkDead()
		return w.fail
	}
	for i := 0; w.batches < 0 || i < w.batches; i++ {
		if w.Stopped() {
			return nil
		}
		time.Sleep(w.delay)
		w.ran++
	}
	w.SetFinished()
	return nil
}

func TestStateLifecycle(t *testing.T) {
	var s runner.State
	require.False(t, s.Stopped())
	require.False(t, s.Finished())
	require.False(t, s.Dead())
	require.False(t, s.TimedOut())

	s.RequestStop()
	require.True(t, s.Stopped())
	s.ClearStop()
	require.False(t, s.Stopped())

	s.SetDeadline(time.Now().Add(-time.Millisecond))
	require.True(t, s.Stopped())
	require.True(t, s.TimedOut())
	s.SetDeadline(time.Time{})
	s.ClearStop()
	require.False(t, s.Stopped())

	s.SetMaxThreads(0)
	require.Equal(t, 1, s.MaxThreads())
	s.SetMaxThreads(4)
	require.Equal(t, 4, s.MaxThreads())
}

func TestRaceEmptiness(t *testing.T) {
	race := runner.NewRace()
	_, err := race.Run()
	require.True(t, errors.Is(err, runner.ErrNoRunners))
}

func TestFastestWins(t *testing.T) {
	fast := &worker{batches: 2, delay: time.Millisecond}
	slow := &worker{batches: -1, delay: time.Millisecond}
	race := runner.NewRace()
	race.Add(fast)
	race.Add(slow)

	w, err := race.Run()
	require.NoError(t, err)
	require.Same(t, runner.Runner(fast), w)
	require.True(t, fast.Finished())
	// The loser observed its stop flag and returned unfinished.
	require.False(t, slow.Finished())
	require.False(t, slow.Dead())

	// A won race is settled: Run returns the cached winner.
	w2, err := race.Run()
	require.NoError(t, err)
	require.Same(t, w, w2)
	require.Same(t, w, race.Winner())
}

func TestAllDead(t *testing.T) {
	boom := errors.New("boom")
	race := runner.NewRace()
	race.Add(&worker{fail: boom})
	race.Add(&worker{fail: boom})
	_, err := race.Run()
	require.True(t, errors.Is(err, runner.ErrNoSolution))
}

func TestDeadWinnerStillLoses(t *testing.T) {
	// One runner dies, the other finishes: the survivor wins.
	ok := &worker{batches: 1}
	race := runner.NewRace()
	race.Add(&worker{fail: errors.New("boom")})
	race.Add(ok)
	w, err := race.Run()
	require.NoError(t, err)
	require.Same(t, runner.Runner(ok), w)
}

func TestDeadlineTimesOut(t *testing.T) {
	slow := &worker{batches: -1, delay: time.Millisecond}
	slow.SetDeadline(time.Now().Add(5 * time.Millisecond))
	race := runner.NewRace()
	race.Add(slow)
	_, err := race.Run()
	require.True(t, errors.Is(err, runner.ErrTimedOut))
	require.True(t, slow.TimedOut())
}

func TestContextCancelsRace(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	race := runner.NewRace(runner.WithContext(ctx))
	race.Add(&worker{batches: -1, delay: time.Millisecond})
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	_, err := race.Run()
	require.True(t, errors.Is(err, runner.ErrCancelled))
}

func TestMaxThreadsStartsPrefix(t *testing.T) {
	// With the bound at 1, only the first runner starts.
	first := &worker{batches: 1}
	second := &worker{batches: 1}
	race := runner.NewRace(runner.WithMaxThreads(1))
	race.Add(first)
	race.Add(second)
	w, err := race.Run()
	require.NoError(t, err)
	require.Same(t, runner.Runner(first), w)
	require.Zero(t, second.ran)
}

func TestRestartAfterTimeout(t *testing.T) {
	// A timed-out race can be rerun after extending the deadline; the
	// runner keeps its partial progress.
	slow := &worker{batches: 20, delay: time.Millisecond}
	slow.SetDeadline(time.Now().Add(3 * time.Millisecond))
	race := runner.NewRace()
	race.Add(slow)
	_, err := race.Run()
	require.True(t, errors.Is(err, runner.ErrTimedOut))
	progress := slow.ran
	require.Less(t, progress, 20)

	slow.SetDeadline(time.Time{})
	w, err := race.Run()
	require.NoError(t, err)
	require.Same(t, runner.Runner(slow), w)
	require.GreaterOrEqual(t, slow.ran, 20)
}
