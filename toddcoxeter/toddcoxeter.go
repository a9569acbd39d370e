// This file implements the coset enumerator: construction, the main loop
// with lookahead packing, coset creation, identification with forwarding
// addresses, and table compression.
package toddcoxeter

import (
	"github.com/katalvlaran/lvlsemi/froidurepin"
	"github.com/katalvlaran/lvlsemi/runner"
	"github.com/katalvlaran/lvlsemi/word"
)

// ToddCoxeter enumerates the cosets of a congruence. It implements
// runner.Runner and is restartable: a stopped enumeration keeps its tables
// and pending identification stacks.
type ToddCoxeter struct {
	runner.State

	side   Side
	nrgens int
	opts   options

	// srcRelations/srcExtra are as supplied; relations/extra are the
	// direction-adjusted working copies built on first Run.
	srcRelations []word.Relation
	srcExtra     []word.Relation
	relations    []word.Relation
	extra        []word.Relation

	parent *froidurepin.FroidurePin

	active       uint32
	bckwd        []int64
	cosetsKilled uint64
	current      uint32
	currentNoAdd uint32
	defined      uint64
	forwd        []uint32
	last         uint32
	next         uint32
	pack         uint64
	prefilled    bool
	preimInit    *cosetTable
	preimNext    *cosetTable
	table        *cosetTable

	lhsStack []uint32
	rhsStack []uint32

	initDone      bool
	relationsDone bool
	stopPacking   bool
	done          bool
	reportNext    uint64
	err           error

	// classWords[c] is a canonical word for compressed coset c+1, built
	// lazily after completion.
	classWords []word.Word
}

// New builds an enumerator for a congruence on the finitely presented
// semigroup with alphabetSize generators and the given defining relations.
func New(side Side, alphabetSize int, relations []word.Relation, opts ...Option) (*ToddCoxeter, error) {
	if alphabetSize <= 0 {
		return nil, ErrIncompatible
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	rels := make([]word.Relation, 0, len(relations))
	for _, rel := range relations {
		if len(rel.LHS) == 0 || len(rel.RHS) == 0 {
			return nil, word.ErrInvalidWord
		}
		if err := rel.LHS.Validate(alphabetSize); err != nil {
			return nil, err
		}
		if err := rel.RHS.Validate(alphabetSize); err != nil {
			return nil, err
		}
		rels = append(rels, rel.Clone())
	}
	return newEngine(side, alphabetSize, rels, nil, o), nil
}

// NewFromSemigroup builds an enumerator for a congruence on a parent
// semigroup. Depending on the policy, the parent contributes either its
// Cayley graph (as a prefilled table) or its defining rules.
func NewFromSemigroup(side Side, parent *froidurepin.FroidurePin, opts ...Option) (*ToddCoxeter, error) {
	if parent == nil {
		return nil, ErrIncompatible
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	return newEngine(side, parent.NrGenerators(), nil, parent, o), nil
}

func newEngine(side Side, nrgens int, relations []word.Relation,
	parent *froidurepin.FroidurePin, o options) *ToddCoxeter {
	return &ToddCoxeter{
		side:         side,
		nrgens:       nrgens,
		opts:         o,
		srcRelations: relations,
		parent:       parent,
		active:       1,
		bckwd:        []int64{0},
		currentNoAdd: undefined,
		defined:      1,
		forwd:        []uint32{undefined},
		next:         undefined,
		pack:         o.pack,
		preimInit:    newCosetTable(nrgens, 1),
		preimNext:    newCosetTable(nrgens, 1),
		table:        newCosetTable(nrgens, 1),
	}
}

// Side returns the congruence direction.
func (tc *ToddCoxeter) Side() Side { return tc.side }

// NrGenerators returns the alphabet size.
func (tc *ToddCoxeter) NrGenerators() int { return tc.nrgens }

// AddPair adds a generating pair of the congruence. Pairs may only be
// added before the first Run.
func (tc *ToddCoxeter) AddPair(u, v word.Word) error {
	if tc.initDone || tc.relationsDone {
		return ErrInvalidOperation
	}
	if len(u) == 0 || len(v) == 0 {
		return word.ErrInvalidWord
	}
	if err := u.Validate(tc.nrgens); err != nil {
		return err
	}
	if err := v.Validate(tc.nrgens); err != nil {
		return err
	}
	tc.srcExtra = append(tc.srcExtra, word.Relation{LHS: u.Clone(), RHS: v.Clone()})
	return nil
}

// Prefill installs a complete coset table, typically a Cayley graph: row 0
// maps each generator to its coset, and every entry must be a valid row
// index (undefined entries are rejected). Only legal before the first Run.
func (tc *ToddCoxeter) Prefill(rows [][]uint32) error {
	if tc.initDone || tc.prefilled || len(rows) == 0 {
		return ErrInvalidOperation
	}
	t := newCosetTable(tc.nrgens, 0)
	for _, row := range rows {
		if len(row) != tc.nrgens {
			return ErrIncompatible
		}
		for _, v := range row {
			if int(v) >= len(rows) {
				return ErrIncompatible
			}
		}
		t.data = append(t.data, row...)
	}
	tc.table = t
	tc.initAfterPrefill()
	return nil
}

// IsObviouslyInfinite reports a cheap sufficient condition for the
// congruence to have infinitely many classes: no parent, no prefill, and
// either more generators than relations and pairs together, or a generator
// occurring in none of them.
func (tc *ToddCoxeter) IsObviouslyInfinite() bool {
	if tc.parent != nil || tc.prefilled {
		return false
	}
	rels, extra := tc.srcRelations, tc.srcExtra
	if tc.relationsDone {
		rels, extra = tc.relations, tc.extra
	}
	if tc.nrgens > len(rels)+len(extra) {
		return true
	}
	occurs := make([]bool, tc.nrgens)
	mark := func(w word.Word) {
		for _, a := range w {
			occurs[a] = true
		}
	}
	for _, rel := range rels {
		mark(rel.LHS)
		mark(rel.RHS)
	}
	for _, rel := range extra {
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

// IsObviouslyFinite reports a cheap sufficient condition for finiteness:
// the congruence is defined over a finite parent or a prefilled table.
func (tc *ToddCoxeter) IsObviouslyFinite() bool {
	return tc.parent != nil || tc.prefilled
}

// IsDone reports whether the enumeration has completed.
func (tc *ToddCoxeter) IsDone() bool { return tc.done }

// Run enumerates until completion or until the stop flag is observed.
// It returns ErrInfinite without running when the congruence is obviously
// infinite, and ErrOverflow if the coset count exhausts the index type.
func (tc *ToddCoxeter) Run() error {
	if tc.done {
		return nil
	}
	if tc.IsObviouslyInfinite() {
		tc.MarkDead()
		return ErrInfinite
	}
	if err := tc.init(); err != nil {
		tc.MarkDead()
		return err
	}
	tc.step()
	if tc.err != nil {
		tc.MarkDead()
		return tc.err
	}
	if tc.done {
		tc.SetFinished()
	}
	return nil
}

// init installs the direction-adjusted relations and traces the generating
// pairs from the identity coset. Run once.
func (tc *ToddCoxeter) init() error {
	if tc.initDone {
		return nil
	}
	if tc.parent != nil && !tc.prefilled && tc.opts.policy == PolicyUseCayleyGraph {
		if err := tc.prefillFromParent(); err != nil {
			// A parent whose Cayley graph cannot be snapshotted falls back
			// to tracing its defining rules.
			tc.opts.logger.Warn("toddcoxeter: prefill failed, tracing relations",
				"err", err)
			tc.opts.policy = PolicyUseRelations
		}
	}
	if !tc.relationsDone {
		if err := tc.initRelations(); err != nil {
			return err
		}
		tc.relationsDone = true
	}
	// Tracing a pair twice is harmless, so a stop mid-trace just means the
	// whole batch reruns on resume.
	for _, rel := range tc.extra {
		tc.trace(0, rel, true)
		if tc.Stopped() || tc.err != nil {
			return nil
		}
	}
	tc.initDone = true
	return nil
}

// initRelations builds the working relation and pair lists: pairs are
// reversed for left congruences and folded into the relations for
// two-sided ones; the semigroup's own relations come from the presentation
// or from the parent's rules, reversed for left congruences.
func (tc *ToddCoxeter) initRelations() error {
	switch tc.side {
	case Left:
		for _, rel := range tc.srcExtra {
			tc.extra = append(tc.extra, rel.Reversed())
		}
	case Right:
		tc.extra = append(tc.extra, tc.srcExtra...)
	case TwoSided:
		tc.relations = append(tc.relations, tc.srcExtra...)
	}

	if tc.prefilled {
		// The semigroup relations are already embodied in the table.
		return nil
	}

	rels := tc.srcRelations
	if tc.parent != nil {
		parentRules, err := tc.parent.Rules()
		if err != nil {
			return err
		}
		rels = parentRules
	}
	if tc.side == Left {
		for _, rel := range rels {
			tc.relations = append(tc.relations, rel.Reversed())
		}
	} else {
		tc.relations = append(tc.relations, rels...)
	}
	return nil
}

// prefillFromParent copies the parent's right (or left) Cayley graph into
// the coset table, shifted by one row for the identity coset. The table is
// built aside and only installed on success, so a failed prefill leaves
// the enumerator untouched.
func (tc *ToddCoxeter) prefillFromParent() error {
	n, err := tc.parent.Size()
	if err != nil {
		return err
	}
	t := newCosetTable(tc.nrgens, n+1)
	for a := 0; a < tc.nrgens; a++ {
		t.set(0, word.Letter(a), tc.parent.LetterToPos(word.Letter(a))+1)
	}
	for row := uint32(0); int(row) < n; row++ {
		for a := 0; a < tc.nrgens; a++ {
			var img uint32
			if tc.side == Left {
				img, err = tc.parent.Left(row, word.Letter(a))
			} else {
				img, err = tc.parent.Right(row, word.Letter(a))
			}
			if err != nil {
				return err
			}
			t.set(row+1, word.Letter(a), img+1)
		}
	}
	tc.table = t
	tc.initAfterPrefill()
	return nil
}

// initAfterPrefill links every row into the active list and fills the
// preimage tables from the table's columns.
func (tc *ToddCoxeter) initAfterPrefill() {
	tc.prefilled = true
	tc.active = uint32(tc.table.nrRows())

	tc.forwd = make([]uint32, tc.active)
	tc.bckwd = make([]int64, tc.active)
	for i := uint32(0); i < tc.active; i++ {
		tc.forwd[i] = i + 1
		tc.bckwd[i] = int64(i) - 1
	}
	tc.bckwd[0] = 0
	tc.forwd[tc.active-1] = undefined
	tc.last = tc.active - 1

	tc.preimInit.addRows(tc.table.nrRows() - 1)
	tc.preimNext.addRows(tc.table.nrRows() - 1)
	for c := uint32(0); c < tc.active; c++ {
		for a := 0; a < tc.nrgens; a++ {
			b := tc.table.get(c, word.Letter(a))
			tc.preimNext.set(c, word.Letter(a), tc.preimInit.get(b, word.Letter(a)))
			tc.preimInit.set(b, word.Letter(a), c)
		}
	}
	tc.defined = uint64(tc.active)
}

// step runs the main loop until completion or a stop request: apply every
// relation to the current coset, enter a lookahead phase when the active
// count passes the packing threshold, advance along the active list.
func (tc *ToddCoxeter) step() {
	// Drain identifications left pending by an interrupted run.
	if len(tc.lhsStack) > 0 && !tc.Stopped() {
		lhs := tc.lhsStack[len(tc.lhsStack)-1]
		tc.lhsStack = tc.lhsStack[:len(tc.lhsStack)-1]
		rhs := tc.rhsStack[len(tc.rhsStack)-1]
		tc.rhsStack = tc.rhsStack[:len(tc.rhsStack)-1]
		tc.identify(lhs, rhs)
	}
	for tc.current != tc.next {
		if tc.Stopped() || tc.err != nil {
			return
		}
		for i := range tc.relations {
			tc.trace(tc.current, tc.relations[i], true)
			if tc.err != nil {
				return
			}
		}

		if uint64(tc.active) > tc.pack {
			tc.opts.logger.Info("toddcoxeter: lookahead",
				"defined", tc.defined,
				"active", tc.active)
			tc.cosetsKilled = tc.defined - uint64(tc.active)
			oldActive := tc.active
			tc.currentNoAdd = tc.forwd[tc.current]

			for tc.currentNoAdd != tc.next && !tc.stopPacking && !tc.Stopped() {
				for i := range tc.relations {
					tc.trace(tc.currentNoAdd, tc.relations[i], false)
				}
				tc.currentNoAdd = tc.forwd[tc.currentNoAdd]
			}

			tc.opts.logger.Info("toddcoxeter: lookahead complete",
				"killed", oldActive-tc.active)
			tc.pack += tc.pack / 10
			tc.stopPacking = false
			tc.currentNoAdd = undefined
			if tc.Stopped() {
				return
			}
		}

		tc.current = tc.forwd[tc.current]
	}
	tc.done = true
	tc.compress()
	tc.opts.logger.Info("toddcoxeter: finished",
		"defined", tc.defined,
		"classes", tc.active-1)
}

// newCoset activates a coset as the image of c under a, recycling the free
// list when possible.
func (tc *ToddCoxeter) newCoset(c uint32, a word.Letter) {
	if tc.defined >= uint64(undefined)-1 {
		tc.err = ErrOverflow
		return
	}
	tc.active++
	tc.defined++
	tc.reportNext++

	if tc.next == undefined {
		// No free cosets to recycle: make a new one.
		tc.next = uint32(len(tc.forwd))
		tc.forwd[tc.last] = tc.next
		tc.forwd = append(tc.forwd, undefined)
		tc.bckwd = append(tc.bckwd, int64(tc.last))
		tc.table.addRows(1)
		tc.preimInit.addRows(1)
		tc.preimNext.addRows(1)
	} else {
		tc.bckwd[tc.next] = int64(tc.last)
	}

	// Mark one more coset as active.
	tc.last = tc.next
	tc.next = tc.forwd[tc.last]

	for i := 0; i < tc.nrgens; i++ {
		tc.table.set(tc.last, word.Letter(i), undefined)
		tc.preimInit.set(tc.last, word.Letter(i), undefined)
	}

	tc.table.set(c, a, tc.last)
	tc.preimInit.set(tc.last, a, c)
	tc.preimNext.set(c, a, undefined)
}

// identify merges the classes of lhs and rhs, always keeping the lower
// index, and drains the pending stack of induced identifications. The
// stacks survive a stop request so a resumed run completes the merge.
func (tc *ToddCoxeter) identify(lhs, rhs uint32) {
	if lhs == rhs {
		return
	}
	if rhs < lhs {
		lhs, rhs = rhs, lhs
	}

	for !tc.Stopped() {
		// Chase forwarding addresses to the live representatives.
		for tc.bckwd[lhs] < 0 {
			lhs = uint32(-tc.bckwd[lhs])
		}
		for tc.bckwd[rhs] < 0 {
			rhs = uint32(-tc.bckwd[rhs])
		}

		if lhs != rhs {
			if rhs < lhs {
				lhs, rhs = rhs, lhs
			}
			tc.active--
			// Step back any cursor pointing at the dying coset.
			if rhs == tc.current {
				tc.current = uint32(tc.bckwd[tc.current])
			}
			if rhs == tc.currentNoAdd {
				tc.currentNoAdd = uint32(tc.bckwd[tc.currentNoAdd])
			}

			if rhs == tc.last {
				// Simply move the start of the free list back by one.
				tc.last = uint32(tc.bckwd[tc.last])
			} else {
				// Splice rhs out of the active list into the free list.
				tc.bckwd[tc.forwd[rhs]] = tc.bckwd[rhs]
				tc.forwd[uint32(tc.bckwd[rhs])] = tc.forwd[rhs]
				tc.forwd[rhs] = tc.next
				tc.forwd[tc.last] = rhs
			}
			tc.next = rhs

			// Leave a forwarding address recording the merge.
			tc.bckwd[rhs] = -int64(lhs)

			for i := 0; i < tc.nrgens; i++ {
				a := word.Letter(i)
				// Rewrite every preimage of rhs to point at lhs, splicing
				// it into lhs's preimage list.
				v := tc.preimInit.get(rhs, a)
				for v != undefined {
					tc.table.set(v, a, lhs)
					u := tc.preimNext.get(v, a)
					tc.preimNext.set(v, a, tc.preimInit.get(lhs, a))
					tc.preimInit.set(lhs, a, v)
					v = u
				}

				// Remove rhs from the preimage list of its image, then
				// reconcile lhs's image with it.
				v = tc.table.get(rhs, a)
				if v == undefined {
					continue
				}
				u := tc.preimInit.get(v, a)
				if u == rhs {
					tc.preimInit.set(v, a, tc.preimNext.get(rhs, a))
				} else {
					for tc.preimNext.get(u, a) != rhs {
						u = tc.preimNext.get(u, a)
					}
					tc.preimNext.set(u, a, tc.preimNext.get(rhs, a))
				}

				u = tc.table.get(lhs, a)
				if u == undefined {
					tc.table.set(lhs, a, v)
					tc.preimNext.set(lhs, a, tc.preimInit.get(v, a))
					tc.preimInit.set(v, a, lhs)
				} else {
					// Images disagree: queue them for identification.
					if u < v {
						tc.lhsStack = append(tc.lhsStack, u)
						tc.rhsStack = append(tc.rhsStack, v)
					} else {
						tc.lhsStack = append(tc.lhsStack, v)
						tc.rhsStack = append(tc.rhsStack, u)
					}
				}
			}
		}
		if len(tc.lhsStack) == 0 {
			return
		}
		lhs = tc.lhsStack[len(tc.lhsStack)-1]
		tc.lhsStack = tc.lhsStack[:len(tc.lhsStack)-1]
		rhs = tc.rhsStack[len(tc.rhsStack)-1]
		tc.rhsStack = tc.rhsStack[:len(tc.rhsStack)-1]
	}
}

// trace applies a relation at coset c. With add set, undefined transitions
// define new cosets; without it (lookahead) the trace abandons the
// relation at the first gap.
func (tc *ToddCoxeter) trace(c uint32, rel word.Relation, add bool) {
	lhs := c
	for i := 0; i+1 < len(rel.LHS); i++ {
		a := rel.LHS[i]
		if img := tc.table.get(lhs, a); img != undefined {
			lhs = img
		} else if add {
			tc.newCoset(lhs, a)
			if tc.err != nil {
				return
			}
			lhs = tc.last
		} else {
			return
		}
	}

	rhs := c
	for i := 0; i+1 < len(rel.RHS); i++ {
		a := rel.RHS[i]
		if img := tc.table.get(rhs, a); img != undefined {
			rhs = img
		} else if add {
			tc.newCoset(rhs, a)
			if tc.err != nil {
				return
			}
			rhs = tc.last
		} else {
			return
		}
	}

	tc.reportNext++
	if tc.reportNext > tc.opts.reportInterval {
		tc.opts.logger.Info("toddcoxeter: progress",
			"defined", tc.defined,
			"active", tc.active)
		// Killing cosets too slowly: stop the lookahead phase.
		if tc.defined-uint64(tc.active)-tc.cosetsKilled < 100 {
			tc.stopPacking = true
		}
		tc.reportNext = 0
		tc.cosetsKilled = tc.defined - uint64(tc.active)
	}

	a := rel.LHS[len(rel.LHS)-1]
	b := rel.RHS[len(rel.RHS)-1]
	u := tc.table.get(lhs, a)
	v := tc.table.get(rhs, b)

	switch {
	case u == undefined && v == undefined:
		if !add {
			return
		}
		// Create one new coset and set both images to it, sharing the
		// preimage list.
		tc.newCoset(lhs, a)
		if tc.err != nil {
			return
		}
		tc.table.set(rhs, b, tc.last)
		if a == b {
			tc.preimNext.set(lhs, a, rhs)
			tc.preimNext.set(rhs, a, undefined)
		} else {
			tc.preimInit.set(tc.last, b, rhs)
			tc.preimNext.set(rhs, b, undefined)
		}
	case u == undefined:
		tc.table.set(lhs, a, v)
		tc.preimNext.set(lhs, a, tc.preimInit.get(v, a))
		tc.preimInit.set(v, a, lhs)
	case v == undefined:
		tc.table.set(rhs, b, u)
		tc.preimNext.set(rhs, b, tc.preimInit.get(u, b))
		tc.preimInit.set(u, b, rhs)
	default:
		tc.identify(u, v)
	}
}

// compress renumbers the active cosets densely from 0 in active-list
// order, dropping the free list. The preimage tables are not renumbered;
// nothing reads them once the enumeration is done.
func (tc *ToddCoxeter) compress() {
	if int(tc.active) == tc.table.nrRows() {
		return
	}
	out := newCosetTable(tc.nrgens, int(tc.active))
	lookup := make(map[uint32]uint32, tc.active)
	nextIndex := uint32(0)
	renumber := func(c uint32) uint32 {
		if n, ok := lookup[c]; ok {
			return n
		}
		lookup[c] = nextIndex
		nextIndex++
		return nextIndex - 1
	}

	for pos := uint32(0); pos != tc.next; pos = tc.forwd[pos] {
		row := renumber(pos)
		for i := 0; i < tc.nrgens; i++ {
			a := word.Letter(i)
			out.set(row, a, renumber(tc.table.get(pos, a)))
		}
	}
	tc.table = out
}
