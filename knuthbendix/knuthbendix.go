// This file implements the rewriting system and the completion loop.
//
// Errors:
//
//	ErrNotConfluent    - a query needing confluence before Run finished.
//	ErrOptionViolation - an invalid Option was supplied.
package knuthbendix

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/lvlsemi/runner"
	"github.com/katalvlaran/lvlsemi/word"
)

// Sentinel errors for the rewriting engine.
var (
	// ErrNotConfluent is returned by queries that need a confluent system
	// before completion has finished.
	ErrNotConfluent = errors.New("knuthbendix: system is not confluent yet")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("knuthbendix: invalid option supplied")
)

// Option configures the engine via functional arguments.
type Option func(*options)

type options struct {
	logger *slog.Logger
	err    error
}

func defaultOptions() options {
	return options{logger: slog.New(slog.DiscardHandler)}
}

// WithLogger sets the structured logger for progress reporting.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// rule is a single oriented rewriting rule: lhs rewrites to rhs, and rhs is
// short-lex smaller than lhs.
type rule struct {
	lhs word.Word
	rhs word.Word
}

// KnuthBendix is a rewriting system under completion. It implements
// runner.Runner and is restartable.
type KnuthBendix struct {
	runner.State

	nrgens int
	opts   options

	rules []rule
	// stack holds pending, unoriented pairs awaiting normalisation.
	stack []word.Relation

	initDone bool
	done     bool
}

// New builds a rewriting system over alphabetSize letters seeded with the
// given relations.
func New(alphabetSize int, relations []word.Relation, opts ...Option) (*KnuthBendix, error) {
	if alphabetSize <= 0 {
		return nil, fmt.Errorf("%w: alphabet size %d", ErrOptionViolation, alphabetSize)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	kb := &KnuthBendix{nrgens: alphabetSize, opts: o}
	for _, rel := range relations {
		if err := kb.AddRule(rel.LHS, rel.RHS); err != nil {
			return nil, err
		}
	}
	return kb, nil
}

// NrGenerators returns the alphabet size.
func (kb *KnuthBendix) NrGenerators() int { return kb.nrgens }

// AddRule queues the pair (u, v) for orientation. Legal until the first
// Run.
func (kb *KnuthBendix) AddRule(u, v word.Word) error {
	if kb.initDone {
		return ErrNotConfluent
	}
	if len(u) == 0 || len(v) == 0 {
		return word.ErrInvalidWord
	}
	if err := u.Validate(kb.nrgens); err != nil {
		return err
	}
	if err := v.Validate(kb.nrgens); err != nil {
		return err
	}
	kb.stack = append(kb.stack, word.Relation{LHS: u.Clone(), RHS: v.Clone()})
	return nil
}

// NrActiveRules returns the number of rules in the current system.
func (kb *KnuthBendix) NrActiveRules() int { return len(kb.rules) }

// IsDone reports whether the system is confluent.
func (kb *KnuthBendix) IsDone() bool { return kb.done }

// shortlexLess orders words by length, then lexicographically.
func shortlexLess(u, v word.Word) bool {
	if len(u) != len(v) {
		return len(u) < len(v)
	}
	for i := range u {
		if u[i] != v[i] {
			return u[i] < v[i]
		}
	}
	return false
}

// indexOf returns the first position of pattern in w, or -1.
func indexOf(w, pattern word.Word) int {
	if len(pattern) == 0 || len(pattern) > len(w) {
		return -1
	}
	for i := 0; i+len(pattern) <= len(w); i++ {
		match := true
		for j := range pattern {
			if w[i+j] != pattern[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// rewrite returns the normal form of w under the current rules. The rules
// strictly decrease the short-lex order, so this terminates.
func (kb *KnuthBendix) rewrite(w word.Word) word.Word {
	out := w.Clone()
	for changed := true; changed; {
		changed = false
		for i := range kb.rules {
			r := &kb.rules[i]
			if idx := indexOf(out, r.lhs); idx >= 0 {
				next := make(word.Word, 0, len(out)-len(r.lhs)+len(r.rhs))
				next = append(next, out[:idx]...)
				next = append(next, r.rhs...)
				next = append(next, out[idx+len(r.lhs):]...)
				out = next
				changed = true
			}
		}
	}
	return out
}

// clearStack drains the pending pairs: normalise each, orient the unequal
// ones into new rules, and requeue any existing rule whose left side the
// new rule rewrites.
func (kb *KnuthBendix) clearStack() {
	for len(kb.stack) > 0 && !kb.Stopped() {
		pair := kb.stack[len(kb.stack)-1]
		kb.stack = kb.stack[:len(kb.stack)-1]

		u := kb.rewrite(pair.LHS)
		v := kb.rewrite(pair.RHS)
		if u.Equal(v) {
			continue
		}
		if shortlexLess(u, v) {
			u, v = v, u
		}
		newRule := rule{lhs: u, rhs: v}

		// Requeue rules the new rule can rewrite, and reduce the rest.
		kept := kb.rules[:0]
		for _, r := range kb.rules {
			if indexOf(r.lhs, newRule.lhs) >= 0 {
				kb.stack = append(kb.stack, word.Relation{LHS: r.lhs, RHS: r.rhs})
				continue
			}
			kept = append(kept, r)
		}
		kb.rules = append(kept, newRule)
		for i := range kb.rules[:len(kb.rules)-1] {
			kb.rules[i].rhs = kb.rewrite(kb.rules[i].rhs)
		}
	}
}

// pushOverlaps superposes r1's left side over r2's: for every non-trivial
// suffix of r1.lhs that is a prefix of r2.lhs, the two rewrites of the
// overlap word form a critical pair.
func (kb *KnuthBendix) pushOverlaps(r1, r2 rule) {
	max := len(r1.lhs)
	if len(r2.lhs) < max {
		max = len(r2.lhs)
	}
	for k := 1; k <= max; k++ {
		if k == len(r1.lhs) && k == len(r2.lhs) {
			// Full overlap is the rule pair itself.
			continue
		}
		suffix := r1.lhs[len(r1.lhs)-k:]
		prefix := r2.lhs[:k]
		if !word.Word(suffix).Equal(word.Word(prefix)) {
			continue
		}
		// Overlap word: r1.lhs followed by the tail of r2.lhs.
		lhs := make(word.Word, 0, len(r1.rhs)+len(r2.lhs)-k)
		lhs = append(lhs, r1.rhs...)
		lhs = append(lhs, r2.lhs[k:]...)
		rhs := make(word.Word, 0, len(r1.lhs)-k+len(r2.rhs))
		rhs = append(rhs, r1.lhs[:len(r1.lhs)-k]...)
		rhs = append(rhs, r2.rhs...)
		if !kb.rewrite(lhs).Equal(kb.rewrite(rhs)) {
			kb.stack = append(kb.stack, word.Relation{LHS: lhs, RHS: rhs})
		}
	}
}

// Run completes the system: drain the stack, scan every rule pair for
// unresolved critical pairs, and repeat until a full scan finds none. The
// stop flag is polled once per round and while draining.
func (kb *KnuthBendix) Run() error {
	if kb.done {
		return nil
	}
	kb.initDone = true
	for !kb.Stopped() {
		kb.clearStack()
		if kb.Stopped() {
			return nil
		}
		for i := range kb.rules {
			for j := range kb.rules {
				kb.pushOverlaps(kb.rules[i], kb.rules[j])
			}
		}
		if len(kb.stack) == 0 {
			kb.done = true
			kb.SetFinished()
			kb.opts.logger.Info("knuthbendix: confluent", "rules", len(kb.rules))
			return nil
		}
		kb.opts.logger.Debug("knuthbendix: round",
			"rules", len(kb.rules),
			"pending", len(kb.stack))
	}
	return nil
}

// NormalForm returns the normal form of w. Unique only once the system is
// confluent.
func (kb *KnuthBendix) NormalForm(w word.Word) (word.Word, error) {
	if len(w) == 0 {
		return nil, word.ErrInvalidWord
	}
	if err := w.Validate(kb.nrgens); err != nil {
		return nil, err
	}
	return kb.rewrite(w), nil
}

// Equal reports whether u and v represent the same element. Before
// completion has finished, pending pairs are first oriented into rules,
// and only a positive answer is conclusive; a negative one returns
// ErrNotConfluent.
func (kb *KnuthBendix) Equal(u, v word.Word) (bool, error) {
	if u.Equal(v) {
		return true, nil
	}
	if !kb.done {
		kb.clearStack()
	}
	nu, err := kb.NormalForm(u)
	if err != nil {
		return false, err
	}
	nv, err := kb.NormalForm(v)
	if err != nil {
		return false, err
	}
	if nu.Equal(nv) {
		return true, nil
	}
	if !kb.done {
		return false, ErrNotConfluent
	}
	return false, nil
}
