// This file implements the Knuth–Bendix method: complete a rewriting
// system over the relations and pairs, then enumerate the rewritten
// semigroup so classes get indices.
package congruence

import (
	"log/slog"
	"time"

	"github.com/katalvlaran/lvlsemi/froidurepin"
	"github.com/katalvlaran/lvlsemi/knuthbendix"
	"github.com/katalvlaran/lvlsemi/runner"
	"github.com/katalvlaran/lvlsemi/toddcoxeter"
	"github.com/katalvlaran/lvlsemi/word"
)

// kbfp races Knuth–Bendix completion followed by Froidure–Pin enumeration
// of the rewritten semigroup. Two-sided congruences only: the generating
// pairs join the rewriting rules.
type kbfp struct {
	runner.State
	kb *knuthbendix.KnuthBendix
	sg *froidurepin.FroidurePin
}

func newKBFP(alphabet int, relations, extra []word.Relation, logger *slog.Logger) (*kbfp, error) {
	kb, err := knuthbendix.New(alphabet, relations, knuthbendix.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	for _, pair := range extra {
		if err := kb.AddRule(pair.LHS, pair.RHS); err != nil {
			return nil, err
		}
	}
	return &kbfp{kb: kb}, nil
}

// RequestStop forwards the stop request to the completion phase.
func (m *kbfp) RequestStop() {
	m.State.RequestStop()
	m.kb.RequestStop()
}

// ClearStop rearms both phases.
func (m *kbfp) ClearStop() {
	m.State.ClearStop()
	m.kb.ClearStop()
}

// SetDeadline forwards the deadline to the completion phase.
func (m *kbfp) SetDeadline(t time.Time) {
	m.State.SetDeadline(t)
	m.kb.SetDeadline(t)
}

// Run completes the rewriting system, then enumerates the rewritten
// semigroup batch by batch, polling the stop flag between batches.
func (m *kbfp) Run() error {
	if m.Finished() {
		return nil
	}
	if err := m.kb.Run(); err != nil {
		m.MarkDead()
		return err
	}
	if !m.kb.IsDone() {
		return nil // stopped during completion
	}
	if m.sg == nil {
		sg, err := m.kb.Semigroup()
		if err != nil {
			m.MarkDead()
			return err
		}
		m.sg = sg
	}
	for !m.Stopped() {
		if m.sg.IsDone() {
			m.SetFinished()
			return nil
		}
		if err := m.sg.Enumerate(m.sg.CurrentSize() + 1); err != nil {
			m.MarkDead()
			return err
		}
	}
	return nil
}

func (m *kbfp) NrClasses() (int, error) {
	if m.sg == nil {
		return 0, knuthbendix.ErrNotConfluent
	}
	return m.sg.Size()
}

func (m *kbfp) WordToClassIndex(w word.Word) (uint32, error) {
	if m.sg == nil {
		return 0, knuthbendix.ErrNotConfluent
	}
	el, err := m.kb.WordElement(w)
	if err != nil {
		return 0, err
	}
	pos, ok := m.sg.Position(el)
	if !ok {
		return 0, froidurepin.ErrIndexOutOfRange
	}
	return pos, nil
}

func (m *kbfp) ClassIndexToWord(c uint32) (word.Word, error) {
	if m.sg == nil {
		return nil, knuthbendix.ErrNotConfluent
	}
	return m.sg.MinimalFactorisation(c)
}

func (m *kbfp) Contains(u, v word.Word) (bool, error) {
	return m.kb.Equal(u, v)
}

// QuotientSemigroup returns the rewritten semigroup itself: its elements
// are exactly the congruence classes.
func (m *kbfp) QuotientSemigroup() (*froidurepin.FroidurePin, error) {
	if m.sg == nil {
		return nil, knuthbendix.ErrNotConfluent
	}
	return m.sg, nil
}

// Compile-time interface checks for the method set.
var (
	_ Method = (*kbfp)(nil)
	_ Method = (*pairOrbit)(nil)
	_ Method = (*toddcoxeter.ToddCoxeter)(nil)
)
