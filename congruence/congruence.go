// This file implements the driver: construction, the standard method set,
// race triggering, and query dispatch.
//
// Errors:
//
//	ErrIncompatibleTypes - source and direction cannot be combined.
//	ErrNoParent          - a parent-only query on a presentation source.
package congruence

import (
	"context"
	"errors"
	"log/slog"

	"github.com/katalvlaran/lvlsemi/froidurepin"
	"github.com/katalvlaran/lvlsemi/runner"
	"github.com/katalvlaran/lvlsemi/toddcoxeter"
	"github.com/katalvlaran/lvlsemi/word"
)

// Direction of a congruence; re-exported from the coset enumerator so the
// two packages share one vocabulary.
type Direction = toddcoxeter.Side

// The three congruence directions.
const (
	Right    = toddcoxeter.Right
	Left     = toddcoxeter.Left
	TwoSided = toddcoxeter.TwoSided
)

// Sentinel errors for the driver.
var (
	// ErrIncompatibleTypes indicates a source/direction combination the
	// driver cannot serve.
	ErrIncompatibleTypes = errors.New("congruence: incompatible types")

	// ErrNoParent indicates a query that needs a parent semigroup on a
	// presentation-sourced congruence.
	ErrNoParent = errors.New("congruence: no parent semigroup")
)

// Presentation is a finitely presented semigroup: an alphabet size and
// defining relations.
type Presentation struct {
	AlphabetSize int
	Relations    []word.Relation
}

// Method is a congruence-computing runner the race can dispatch queries
// to. toddcoxeter.ToddCoxeter satisfies it natively.
type Method interface {
	runner.Runner
	NrClasses() (int, error)
	WordToClassIndex(w word.Word) (uint32, error)
	ClassIndexToWord(c uint32) (word.Word, error)
	Contains(u, v word.Word) (bool, error)
	QuotientSemigroup() (*froidurepin.FroidurePin, error)
}

// MethodPolicy selects how the race is populated.
type MethodPolicy uint8

const (
	// PolicyStandard installs the standard method set for the source.
	PolicyStandard MethodPolicy = iota

	// PolicyNone installs nothing; the caller supplies methods with
	// AddMethod.
	PolicyNone
)

// CongOption configures a Congruence.
type CongOption func(*Congruence)

// WithMethodPolicy selects the race population policy.
func WithMethodPolicy(p MethodPolicy) CongOption {
	return func(c *Congruence) { c.policy = p }
}

// WithMaxThreads bounds how many methods race concurrently. Defaults to
// the size of the method set.
func WithMaxThreads(n int) CongOption {
	return func(c *Congruence) {
		if n > 0 {
			c.maxThreads = n
		}
	}
}

// WithContext sets a context whose cancellation stops the race.
func WithContext(ctx context.Context) CongOption {
	return func(c *Congruence) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithLogger sets the structured logger shared by the race and the
// standard methods.
func WithLogger(l *slog.Logger) CongOption {
	return func(c *Congruence) {
		if l != nil {
			c.logger = l
		}
	}
}

// Congruence is a left, right, or two-sided congruence on a semigroup,
// computed by the first of several racing methods to finish.
type Congruence struct {
	dir      Direction
	alphabet int

	relations []word.Relation
	extra     []word.Relation
	parent    *froidurepin.FroidurePin

	policy     MethodPolicy
	maxThreads int
	ctx        context.Context
	logger     *slog.Logger

	methods []Method
	race    *runner.Race
	winner  Method
}

// NewFromPresentation builds a congruence on the finitely presented
// semigroup p. The congruence is the least one of the given direction
// containing the pairs later supplied with AddPair.
func NewFromPresentation(dir Direction, p Presentation, opts ...CongOption) (*Congruence, error) {
	if p.AlphabetSize <= 0 {
		return nil, ErrIncompatibleTypes
	}
	rels := make([]word.Relation, 0, len(p.Relations))
	for _, rel := range p.Relations {
		if len(rel.LHS) == 0 || len(rel.RHS) == 0 {
			return nil, word.ErrInvalidWord
		}
		if err := rel.LHS.Validate(p.AlphabetSize); err != nil {
			return nil, err
		}
		if err := rel.RHS.Validate(p.AlphabetSize); err != nil {
			return nil, err
		}
		rels = append(rels, rel.Clone())
	}
	c := &Congruence{
		dir:       dir,
		alphabet:  p.AlphabetSize,
		relations: rels,
		ctx:       context.Background(),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromSemigroup builds a congruence on a concrete parent semigroup. The
// parent is fully enumerated before the race starts, so every racing
// method shares it read-only.
func NewFromSemigroup(dir Direction, parent *froidurepin.FroidurePin, opts ...CongOption) (*Congruence, error) {
	if parent == nil {
		return nil, ErrIncompatibleTypes
	}
	c := &Congruence{
		dir:      dir,
		alphabet: parent.NrGenerators(),
		parent:   parent,
		ctx:      context.Background(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Direction returns the congruence direction.
func (c *Congruence) Direction() Direction { return c.dir }

// Parent returns the parent semigroup, or nil for presentation sources.
func (c *Congruence) Parent() *froidurepin.FroidurePin { return c.parent }

// AddPair adds a generating pair of the congruence. Pairs may only be
// added before the first query triggers the race.
func (c *Congruence) AddPair(u, v word.Word) error {
	if c.race != nil {
		return toddcoxeter.ErrInvalidOperation
	}
	if len(u) == 0 || len(v) == 0 {
		return word.ErrInvalidWord
	}
	if err := u.Validate(c.alphabet); err != nil {
		return err
	}
	if err := v.Validate(c.alphabet); err != nil {
		return err
	}
	c.extra = append(c.extra, word.Relation{LHS: u.Clone(), RHS: v.Clone()})
	return nil
}

// AddMethod registers a caller-supplied method. Most useful with
// PolicyNone.
func (c *Congruence) AddMethod(m Method) error {
	if c.race != nil {
		return toddcoxeter.ErrInvalidOperation
	}
	c.methods = append(c.methods, m)
	return nil
}

// IsObviouslyInfinite reports a cheap sufficient condition for the
// congruence to have infinitely many classes.
func (c *Congruence) IsObviouslyInfinite() bool {
	if c.parent != nil {
		return false
	}
	if c.alphabet > len(c.relations)+len(c.extra) {
		return true
	}
	occurs := make([]bool, c.alphabet)
	mark := func(w word.Word) {
		for _, a := range w {
			occurs[a] = true
		}
	}
	for _, rel := range c.relations {
		mark(rel.LHS)
		mark(rel.RHS)
	}
	for _, rel := range c.extra {
		mark(rel.LHS)
		mark(rel.RHS)
	}
	for _, seen := range occurs {
		if !seen {
			return true
		}
	}
	return false
}

// IsObviouslyFinite reports whether the congruence is known finite without
// computation: true exactly when it has a (finite) parent semigroup.
func (c *Congruence) IsObviouslyFinite() bool { return c.parent != nil }

// standardMethods builds the standard method set for the source.
func (c *Congruence) standardMethods() ([]Method, error) {
	var out []Method
	if c.parent != nil {
		if _, err := c.parent.Size(); err != nil {
			return nil, err
		}
		tcRel, err := toddcoxeter.NewFromSemigroup(c.dir, c.parent,
			toddcoxeter.WithPolicy(toddcoxeter.PolicyUseRelations),
			toddcoxeter.WithLogger(c.logger))
		if err != nil {
			return nil, err
		}
		tcCayley, err := toddcoxeter.NewFromSemigroup(c.dir, c.parent,
			toddcoxeter.WithPolicy(toddcoxeter.PolicyUseCayleyGraph),
			toddcoxeter.WithLogger(c.logger))
		if err != nil {
			return nil, err
		}
		orbit, err := newPairOrbit(c.dir, c.parent, c.extra)
		if err != nil {
			return nil, err
		}
		out = append(out, tcRel, tcCayley, orbit)
		for _, m := range out[:2] {
			tc := m.(*toddcoxeter.ToddCoxeter)
			for _, pair := range c.extra {
				if err := tc.AddPair(pair.LHS, pair.RHS); err != nil {
					return nil, err
				}
			}
		}
		return out, nil
	}

	if !c.IsObviouslyInfinite() {
		tc, err := toddcoxeter.New(c.dir, c.alphabet, c.relations,
			toddcoxeter.WithLogger(c.logger))
		if err != nil {
			return nil, err
		}
		for _, pair := range c.extra {
			if err := tc.AddPair(pair.LHS, pair.RHS); err != nil {
				return nil, err
			}
		}
		out = append(out, tc)
	}
	if c.dir == TwoSided {
		kbfp, err := newKBFP(c.alphabet, c.relations, c.extra, c.logger)
		if err != nil {
			return nil, err
		}
		out = append(out, kbfp)
	}
	if len(out) == 0 {
		return nil, toddcoxeter.ErrInfinite
	}
	return out, nil
}

// ensureWinner triggers the race on first use and caches the winner.
func (c *Congruence) ensureWinner() (Method, error) {
	if c.winner != nil {
		return c.winner, nil
	}
	if c.race == nil {
		if c.policy == PolicyStandard {
			std, err := c.standardMethods()
			if err != nil {
				return nil, err
			}
			c.methods = append(c.methods, std...)
		}
		c.race = runner.NewRace(
			runner.WithMaxThreads(c.maxThreads),
			runner.WithContext(c.ctx),
			runner.WithLogger(c.logger))
		for _, m := range c.methods {
			c.race.Add(m)
		}
	}
	w, err := c.race.Run()
	if err != nil {
		return nil, err
	}
	c.winner = w.(Method)
	return c.winner, nil
}

// Winner returns the winning method, or nil before the race has settled.
func (c *Congruence) Winner() Method { return c.winner }

// NrClasses triggers the race and returns the number of congruence
// classes.
func (c *Congruence) NrClasses() (int, error) {
	if c.IsObviouslyInfinite() {
		return 0, toddcoxeter.ErrInfinite
	}
	w, err := c.ensureWinner()
	if err != nil {
		return 0, err
	}
	return w.NrClasses()
}

// WordToClassIndex triggers the race and returns the class index of w.
func (c *Congruence) WordToClassIndex(w word.Word) (uint32, error) {
	m, err := c.ensureWinner()
	if err != nil {
		return 0, err
	}
	return m.WordToClassIndex(w)
}

// ClassIndexToWord triggers the race and returns a canonical word in
// class i.
func (c *Congruence) ClassIndexToWord(i uint32) (word.Word, error) {
	m, err := c.ensureWinner()
	if err != nil {
		return nil, err
	}
	return m.ClassIndexToWord(i)
}

// Contains triggers the race and reports whether the pair (u, v) belongs
// to the congruence.
func (c *Congruence) Contains(u, v word.Word) (bool, error) {
	if u.Equal(v) {
		return true, nil
	}
	m, err := c.ensureWinner()
	if err != nil {
		return false, err
	}
	return m.Contains(u, v)
}

// QuotientSemigroup triggers the race and materializes the quotient of a
// two-sided congruence. When the winning method cannot build a quotient
// itself, a prefilled coset enumeration over the parent supplies it.
func (c *Congruence) QuotientSemigroup() (*froidurepin.FroidurePin, error) {
	if c.dir != TwoSided {
		return nil, toddcoxeter.ErrInvalidOperation
	}
	m, err := c.ensureWinner()
	if err != nil {
		return nil, err
	}
	q, err := m.QuotientSemigroup()
	if err == nil || c.parent == nil {
		return q, err
	}
	// Winner has no quotient of its own: one deterministic prefilled
	// enumeration over the finite parent always terminates.
	tc, err := toddcoxeter.NewFromSemigroup(TwoSided, c.parent,
		toddcoxeter.WithPolicy(toddcoxeter.PolicyUseCayleyGraph),
		toddcoxeter.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}
	for _, pair := range c.extra {
		if err := tc.AddPair(pair.LHS, pair.RHS); err != nil {
			return nil, err
		}
	}
	return tc.QuotientSemigroup()
}

// NontrivialClasses sweeps every element of the parent semigroup, buckets
// the elements by class index, and returns the classes with at least two
// elements, each as a list of factorisation words.
func (c *Congruence) NontrivialClasses() ([][]word.Word, error) {
	if c.parent == nil {
		return nil, ErrNoParent
	}
	m, err := c.ensureWinner()
	if err != nil {
		return nil, err
	}
	n, err := c.parent.Size()
	if err != nil {
		return nil, err
	}
	nc, err := m.NrClasses()
	if err != nil {
		return nil, err
	}
	buckets := make([][]word.Word, nc)
	for pos := uint32(0); int(pos) < n; pos++ {
		w, err := c.parent.Factorisation(pos)
		if err != nil {
			return nil, err
		}
		i, err := m.WordToClassIndex(w)
		if err != nil {
			return nil, err
		}
		buckets[i] = append(buckets[i], w)
	}
	var out [][]word.Word
	for _, class := range buckets {
		if len(class) > 1 {
			out = append(out, class)
		}
	}
	return out, nil
}
