// Package runner provides the uniform lifecycle shared by every congruence
// engine, and the race harness that runs several of them concurrently and
// keeps the first to finish.
//
// What
//
//   - Runner is the capability set of a long-running, restartable
//     computation: Run, Finished, Dead, TimedOut, stop requests, deadlines,
//     and a worker-count hint.
//   - State is an embeddable implementation of everything except Run; the
//     engines embed it and poll Stopped at their natural batch boundaries.
//   - Race owns a set of runners, starts one goroutine per runner bounded
//     by MaxThreads, installs the first finisher in an atomic winner slot,
//     and requests a stop from every loser.
//
// Why
//
//   - Coset enumeration and Knuth–Bendix completion have incomparable
//     running times: on some inputs one diverges while the other finishes
//     in milliseconds. Racing them and cancelling the losers gives the
//     minimum of the two costs, at the price of a stop-flag poll per batch.
//
// Cancellation
//
//	Cooperative only. RequestStop sets an atomic flag that the runner polls
//	between relation traces, coset operations, or enumeration batches —
//	never mid-operation — so a stopped runner's state stays consistent and
//	a later Run resumes where it left off. Deadlines set the same flag.
//
// Ordering
//
//	The winner slot is a compare-and-swap: at most one runner wins, losers
//	observe their stop flag after the swap, and no other state is shared
//	between runners.
//
// Usage
//
//	race := runner.NewRace(runner.WithMaxThreads(2))
//	race.Add(tc)
//	race.Add(kb)
//	winner, err := race.Run()
package runner
