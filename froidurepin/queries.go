// This file implements the read side of the enumerator: positions,
// factorisations, Cayley lookups, products, rules, and the sorted view.
package froidurepin

import (
	"sort"

	"github.com/katalvlaran/lvlsemi/element"
	"github.com/katalvlaran/lvlsemi/word"
)

// Position returns the index of x, enumerating as needed. The second return
// is false when x is not an element of the semigroup.
func (s *FroidurePin) Position(x element.Element) (uint32, bool) {
	if x.Degree() != s.degree {
		return 0, false
	}
	for {
		if p, ok := s.find(x); ok {
			return p, true
		}
		if s.IsDone() {
			return 0, false
		}
		// Enumerate one more batch.
		if err := s.enumerate(s.nr + 1); err != nil {
			return 0, false
		}
	}
}

// TestMembership reports whether x belongs to the semigroup.
func (s *FroidurePin) TestMembership(x element.Element) bool {
	_, ok := s.Position(x)
	return ok
}

// At returns the element with index pos, enumerating as needed.
func (s *FroidurePin) At(pos uint32) (element.Element, error) {
	if err := s.enumerate(pos + 1); err != nil {
		return nil, err
	}
	if pos >= s.nr {
		return nil, ErrIndexOutOfRange
	}
	return s.elements[pos], nil
}

// Right returns the right Cayley transition pos·gens[a]. The enumeration is
// completed first so the graph is total.
func (s *FroidurePin) Right(pos uint32, a word.Letter) (uint32, error) {
	if err := s.enumerate(limitMax); err != nil {
		return 0, err
	}
	if pos >= s.nr || int(a) >= len(s.letterToPos) {
		return 0, ErrIndexOutOfRange
	}
	return s.right.get(pos, a), nil
}

// Left returns the left Cayley transition gens[a]·pos.
func (s *FroidurePin) Left(pos uint32, a word.Letter) (uint32, error) {
	if err := s.enumerate(limitMax); err != nil {
		return 0, err
	}
	if pos >= s.nr || int(a) >= len(s.letterToPos) {
		return 0, ErrIndexOutOfRange
	}
	return s.left.get(pos, a), nil
}

// productByReduction multiplies by tracing the Cayley graphs along the
// shorter factorisation, never touching the elements themselves.
func (s *FroidurePin) productByReduction(i, j uint32) uint32 {
	if s.length[i] <= s.length[j] {
		for i != undefined {
			j = s.left.get(j, s.final[i])
			i = s.prefix[i]
		}
		return j
	}
	for j != undefined {
		i = s.right.get(i, s.first[j])
		j = s.suffix[j]
	}
	return i
}

// FastProduct returns the index of element i times element j, choosing
// between a direct product and Cayley-graph walks, whichever is estimated
// cheaper.
func (s *FroidurePin) FastProduct(i, j uint32) (uint32, error) {
	if err := s.enumerate(limitMax); err != nil {
		return 0, err
	}
	if i >= s.nr || j >= s.nr {
		return 0, ErrIndexOutOfRange
	}
	c := uint32(s.tmp.Complexity())
	if s.length[i] < 2*c || s.length[j] < 2*c {
		return s.productByReduction(i, j), nil
	}
	s.tmp.Product(s.elements[i], s.elements[j], s.scratch)
	p, _ := s.find(s.tmp)
	return p, nil
}

// MinimalFactorisation returns the unique shortest-length, lex-smallest
// word evaluating to element pos, read off the first-letter/suffix chain.
func (s *FroidurePin) MinimalFactorisation(pos uint32) (word.Word, error) {
	if pos >= s.nr && !s.IsDone() {
		if err := s.enumerate(pos + 1); err != nil {
			return nil, err
		}
	}
	if pos >= s.nr {
		return nil, ErrIndexOutOfRange
	}
	var w word.Word
	for pos != undefined {
		w = append(w, s.first[pos])
		pos = s.suffix[pos]
	}
	return w, nil
}

// Factorisation returns a word evaluating to element pos; for this
// enumerator it is always the minimal factorisation.
func (s *FroidurePin) Factorisation(pos uint32) (word.Word, error) {
	return s.MinimalFactorisation(pos)
}

// WordToPos evaluates w in the semigroup and returns the index of the
// resulting element.
func (s *FroidurePin) WordToPos(w word.Word) (uint32, error) {
	if len(w) == 0 {
		return 0, word.ErrInvalidWord
	}
	if err := w.Validate(s.NrGenerators()); err != nil {
		return 0, err
	}
	out := s.letterToPos[w[0]]
	for _, a := range w[1:] {
		next, err := s.FastProduct(out, s.letterToPos[a])
		if err != nil {
			return 0, err
		}
		out = next
	}
	return out, nil
}

// WordToElement evaluates w directly on the elements, without requiring the
// enumeration to have run.
func (s *FroidurePin) WordToElement(w word.Word) (element.Element, error) {
	if len(w) == 0 {
		return nil, word.ErrInvalidWord
	}
	if err := w.Validate(s.NrGenerators()); err != nil {
		return nil, err
	}
	out := s.gens[w[0]].Clone()
	if len(w) == 1 {
		return out, nil
	}
	tmp := s.id.Clone()
	for _, a := range w[1:] {
		tmp.Product(out, s.gens[a], s.scratch)
		out, tmp = tmp, out
	}
	return out, nil
}

// NrRules enumerates to completion and returns the number of defining
// rules.
func (s *FroidurePin) NrRules() (int, error) {
	if err := s.enumerate(limitMax); err != nil {
		return s.nrRules, err
	}
	return s.nrRules, nil
}

// nextRelation advances the rule cursor and fills rel with either a letter
// pair (duplicate generator) or a triple (element, letter, product).
// An empty rel signals exhaustion. The cursor is caller-owned so that
// concurrent readers never contend.
func (s *FroidurePin) nextRelation(relPos, relGen *uint32, rel *[]uint32) {
	*rel = (*rel)[:0]
	if *relPos == s.nr {
		return
	}
	ngens := uint32(len(s.gens))
	if *relPos != undefined {
		for *relPos < s.nr {
			for *relGen < ngens {
				i := s.enumOrder[*relPos]
				a := word.Letter(*relGen)
				if !s.reduced.get(i, a) &&
					(*relPos < s.lenindex[1] || s.reduced.get(s.suffix[i], a)) {
					*rel = append(*rel, i, *relGen, s.right.get(i, a))
					break
				}
				*relGen++
			}
			if *relGen == ngens {
				*relGen = 0
				*relPos++
			} else {
				break
			}
		}
		*relGen++
	} else {
		if int(*relGen) < len(s.duplicateGens) {
			pair := s.duplicateGens[*relGen]
			*rel = append(*rel, uint32(pair[0]), uint32(pair[1]))
			*relGen++
		} else {
			*relGen = 0
			*relPos = 0
			s.nextRelation(relPos, relGen, rel)
		}
	}
}

// Rules enumerates to completion and returns every defining rule of the
// semigroup as a pair of words. Duplicate generators contribute one-letter
// rules; every other rule has the form (word(i)·a, word(k)). Safe for
// concurrent use once enumeration is complete.
func (s *FroidurePin) Rules() ([]word.Relation, error) {
	if err := s.enumerate(limitMax); err != nil {
		return nil, err
	}
	relPos := undefined
	relGen := uint32(0)
	var out []word.Relation
	var rel []uint32
	for {
		s.nextRelation(&relPos, &relGen, &rel)
		if len(rel) == 0 {
			return out, nil
		}
		if len(rel) == 2 {
			out = append(out, word.Relation{
				LHS: word.Word{word.Letter(rel[0])},
				RHS: word.Word{word.Letter(rel[1])},
			})
			continue
		}
		lhs, err := s.MinimalFactorisation(rel[0])
		if err != nil {
			return nil, err
		}
		lhs = append(lhs, word.Letter(rel[1]))
		rhs, err := s.MinimalFactorisation(rel[2])
		if err != nil {
			return nil, err
		}
		out = append(out, word.Relation{LHS: lhs, RHS: rhs})
	}
}

// initSorted builds the sorted view lazily.
func (s *FroidurePin) initSorted() error {
	if err := s.enumerate(limitMax); err != nil {
		return err
	}
	if len(s.sortedElems) == int(s.nr) {
		return nil
	}
	n := int(s.nr)
	s.sortedElems = make([]uint32, n)
	for i := range s.sortedElems {
		s.sortedElems[i] = uint32(i)
	}
	sort.SliceStable(s.sortedElems, func(a, b int) bool {
		return s.elements[s.sortedElems[a]].Less(s.elements[s.sortedElems[b]])
	})
	s.sortedPos = make([]uint32, n)
	for rank, p := range s.sortedElems {
		s.sortedPos[p] = uint32(rank)
	}
	return nil
}

// SortedPosition returns the rank of element pos under the element order.
func (s *FroidurePin) SortedPosition(pos uint32) (uint32, error) {
	if err := s.initSorted(); err != nil {
		return 0, err
	}
	if pos >= s.nr {
		return 0, ErrIndexOutOfRange
	}
	return s.sortedPos[pos], nil
}

// SortedAt returns the element with the given rank under the element order.
func (s *FroidurePin) SortedAt(rank uint32) (element.Element, error) {
	if err := s.initSorted(); err != nil {
		return nil, err
	}
	if int(rank) >= len(s.sortedElems) {
		return nil, ErrIndexOutOfRange
	}
	return s.elements[s.sortedElems[rank]], nil
}
