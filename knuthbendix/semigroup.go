// This file materializes the rewritten semigroup: normal-form
// pseudo-elements enumerated by froidurepin.
package knuthbendix

import (
	"encoding/binary"
	"math"

	"github.com/katalvlaran/lvlsemi/element"
	"github.com/katalvlaran/lvlsemi/froidurepin"
	"github.com/katalvlaran/lvlsemi/word"
)

// rewrittenWord wraps a normal form as an element of the rewritten
// semigroup. Two rewritten words are equal exactly when their normal forms
// coincide, which for a confluent system decides the word problem.
type rewrittenWord struct {
	kb     *KnuthBendix
	w      word.Word
	hash   uint64
	hashOK bool
}

// Degree is zero: rewritten words carry no point set.
func (e *rewrittenWord) Degree() int { return 0 }

// Complexity is effectively infinite so that enumerators always prefer
// Cayley-graph walks over direct products.
func (e *rewrittenWord) Complexity() int { return math.MaxInt32 }

// Word returns the normal form; the caller must not mutate it.
func (e *rewrittenWord) Word() word.Word { return e.w }

// Hash returns the cached fingerprint of the normal form.
func (e *rewrittenWord) Hash() uint64 {
	if !e.hashOK {
		buf := make([]byte, 4*len(e.w))
		for i, a := range e.w {
			binary.LittleEndian.PutUint32(buf[4*i:], a)
		}
		e.hash = element.FingerprintBytes(buf)
		e.hashOK = true
	}
	return e.hash
}

// Equals compares normal forms.
func (e *rewrittenWord) Equals(other element.Element) bool {
	o, ok := other.(*rewrittenWord)
	return ok && o.kb == e.kb && e.w.Equal(o.w)
}

// Less is the short-lex order on normal forms.
func (e *rewrittenWord) Less(other element.Element) bool {
	return shortlexLess(e.w, other.(*rewrittenWord).w)
}

// Product sets e to the normal form of the concatenation of x and y.
func (e *rewrittenWord) Product(x, y element.Element, _ *element.Scratch) {
	xx := x.(*rewrittenWord)
	yy := y.(*rewrittenWord)
	cat := make(word.Word, 0, len(xx.w)+len(yy.w))
	cat = append(cat, xx.w...)
	cat = append(cat, yy.w...)
	e.w = e.kb.rewrite(cat)
	e.hashOK = false
}

// Identity returns the empty rewritten word. It is never equal to any
// element of the rewritten semigroup, whose normal forms are non-empty.
func (e *rewrittenWord) Identity() element.Element {
	return &rewrittenWord{kb: e.kb}
}

// Clone returns an independent copy.
func (e *rewrittenWord) Clone() element.Element {
	return &rewrittenWord{kb: e.kb, w: e.w.Clone(), hash: e.hash, hashOK: e.hashOK}
}

// WordElement returns w, rewritten, as an element of the rewritten
// semigroup, suitable for froidurepin position lookups.
func (kb *KnuthBendix) WordElement(w word.Word) (element.Element, error) {
	if len(w) == 0 {
		return nil, word.ErrInvalidWord
	}
	if err := w.Validate(kb.nrgens); err != nil {
		return nil, err
	}
	return &rewrittenWord{kb: kb, w: kb.rewrite(w)}, nil
}

// Semigroup enumerates the semigroup presented by the completed system:
// one generator per letter, multiplication by concatenate-and-rewrite.
// The system must be confluent.
func (kb *KnuthBendix) Semigroup(opts ...froidurepin.Option) (*froidurepin.FroidurePin, error) {
	if !kb.done {
		return nil, ErrNotConfluent
	}
	gens := make([]element.Element, kb.nrgens)
	for a := 0; a < kb.nrgens; a++ {
		gens[a] = &rewrittenWord{kb: kb, w: kb.rewrite(word.Word{word.Letter(a)})}
	}
	return froidurepin.New(gens, opts...)
}

// Size enumerates the rewritten semigroup and returns its cardinality.
// Diverges when the semigroup is infinite; pair with a context or race.
func (kb *KnuthBendix) Size() (int, error) {
	s, err := kb.Semigroup()
	if err != nil {
		return 0, err
	}
	return s.Size()
}
