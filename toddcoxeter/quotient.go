// This file materializes the quotient of a two-sided congruence as a
// froidurepin semigroup over lightweight coset pseudo-elements.
package toddcoxeter

import (
	"encoding/binary"
	"math"

	"github.com/katalvlaran/lvlsemi/element"
	"github.com/katalvlaran/lvlsemi/froidurepin"
	"github.com/katalvlaran/lvlsemi/word"
)

// noLetter marks a coset element that is not a generator.
const noLetter = ^word.Letter(0)

// quotientTable is the shared read-only view of a completed enumeration
// that every coset element of one quotient points at.
type quotientTable struct {
	table *cosetTable
	// words[c-1] is a canonical word for coset c, used to multiply by a
	// non-generator.
	words []word.Word
}

// cosetElement wraps a coset index as an element of the quotient
// semigroup. Multiplying by a generator coset is one table lookup;
// multiplying by anything else walks the canonical word of the right
// operand through the table.
type cosetElement struct {
	q      *quotientTable
	idx    uint32
	letter word.Letter
	hash   uint64
	hashOK bool
}

// Degree is zero: coset elements carry no point set.
func (e *cosetElement) Degree() int { return 0 }

// Complexity is effectively infinite so that enumerators always prefer
// Cayley-graph walks over direct products.
func (e *cosetElement) Complexity() int { return math.MaxInt32 }

// Hash returns the cached fingerprint of the coset index.
func (e *cosetElement) Hash() uint64 {
	if !e.hashOK {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], e.idx)
		e.hash = element.FingerprintBytes(buf[:])
		e.hashOK = true
	}
	return e.hash
}

// Equals compares coset indices; the generator letter is presentation
// bookkeeping, not identity.
func (e *cosetElement) Equals(other element.Element) bool {
	o, ok := other.(*cosetElement)
	return ok && o.q == e.q && o.idx == e.idx
}

// Less orders coset elements by index.
func (e *cosetElement) Less(other element.Element) bool {
	return e.idx < other.(*cosetElement).idx
}

// Product sets e to x·y in the quotient.
func (e *cosetElement) Product(x, y element.Element, _ *element.Scratch) {
	xx := x.(*cosetElement)
	yy := y.(*cosetElement)
	if yy.letter != noLetter {
		e.idx = e.q.table.get(xx.idx, yy.letter)
	} else {
		c := xx.idx
		for _, a := range e.q.words[yy.idx-1] {
			c = e.q.table.get(c, a)
		}
		e.idx = c
	}
	e.letter = noLetter
	e.hashOK = false
}

// Identity returns the identity coset (the class of the empty word).
func (e *cosetElement) Identity() element.Element {
	return &cosetElement{q: e.q, letter: noLetter}
}

// Clone returns an independent copy.
func (e *cosetElement) Clone() element.Element {
	c := *e
	return &c
}

// QuotientSemigroup enumerates the quotient of a two-sided congruence as a
// fresh froidurepin semigroup whose elements are the congruence classes.
// One-sided congruences have no quotient semigroup.
func (tc *ToddCoxeter) QuotientSemigroup() (*froidurepin.FroidurePin, error) {
	if tc.side != TwoSided {
		return nil, ErrInvalidOperation
	}
	if err := tc.ensureRun(); err != nil {
		return nil, err
	}
	if err := tc.initClassWords(); err != nil {
		return nil, err
	}
	q := &quotientTable{table: tc.table, words: tc.classWords}
	gens := make([]element.Element, tc.nrgens)
	for a := 0; a < tc.nrgens; a++ {
		idx := tc.table.get(0, word.Letter(a))
		if idx == undefined {
			return nil, ErrInvalidOperation
		}
		gens[a] = &cosetElement{q: q, idx: idx, letter: word.Letter(a)}
	}
	return froidurepin.New(gens)
}
