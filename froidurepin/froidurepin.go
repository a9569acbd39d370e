// This file implements the breadth-first closure itself: construction,
// AddGenerators, Enumerate, and the position index.
package froidurepin

import (
	"sync"

	"github.com/katalvlaran/lvlsemi/element"
	"github.com/katalvlaran/lvlsemi/word"
)

// limitMax requests enumeration to completion.
const limitMax = ^uint32(0)

// FroidurePin enumerates the semigroup generated by a fixed set of elements.
//
// Indices are insertion order: the distinct generators occupy indices
// 0…k-1 in input order, and every later element k has unique j < k and
// letter a with right[j][a] = k witnessing its shortest factorisation.
//
// All methods are safe for sequential use; enumeration itself is guarded by
// an internal mutex so concurrent enumerating queries serialize.
type FroidurePin struct {
	opts options
	mu   sync.Mutex

	degree  int
	gens    []element.Element
	id      element.Element
	tmp     element.Element
	scratch *element.Scratch

	// duplicateGens records (duplicate letter, first letter) pairs for
	// generators equal to an earlier generator.
	duplicateGens [][2]word.Letter
	letterToPos   []uint32

	elements []element.Element
	index    map[uint64][]uint32

	first  []word.Letter
	final  []word.Letter
	prefix []uint32
	suffix []uint32
	length []uint32

	enumOrder []uint32
	lenindex  []uint32
	reduced   *bitTable
	right     *rowTable
	left      *rowTable

	nr      uint32
	nrRules int
	pos     uint32
	wordlen int

	foundOne bool
	posOne   uint32
	started  bool

	sortedElems []uint32 // rank → position
	sortedPos   []uint32 // position → rank

	idemDone     bool
	idempotents  []uint32
	isIdempotent []bool
}

// New builds an enumerator over gens. All generators must share a degree.
func New(gens []element.Element, opts ...Option) (*FroidurePin, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if len(gens) == 0 {
		return nil, ErrNoGenerators
	}
	s := &FroidurePin{opts: o}
	if err := s.init(gens); err != nil {
		return nil, err
	}
	return s, nil
}

// AddGenerators extends the generating set. It is only legal before
// enumeration has begun; all derived state is rebuilt from scratch.
func (s *FroidurePin) AddGenerators(gens ...element.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrEnumerationStarted
	}
	if len(gens) == 0 {
		return nil
	}
	all := make([]element.Element, 0, len(s.gens)+len(gens))
	all = append(all, s.gens...)
	all = append(all, gens...)
	return s.init(all)
}

// init resets every derived structure and seeds the generators.
func (s *FroidurePin) init(gens []element.Element) error {
	deg := gens[0].Degree()
	for _, g := range gens {
		if g.Degree() != deg {
			return ErrDegreeMismatch
		}
	}
	g := len(gens)
	s.degree = deg
	s.gens = make([]element.Element, 0, g)
	for _, x := range gens {
		s.gens = append(s.gens, x.Clone())
	}
	s.id = s.gens[0].Identity()
	s.tmp = s.id.Clone()
	s.scratch = element.NewScratch()

	s.duplicateGens = nil
	s.letterToPos = nil
	s.elements = nil
	s.index = make(map[uint64][]uint32)
	s.first = nil
	s.final = nil
	s.prefix = nil
	s.suffix = nil
	s.length = nil
	s.enumOrder = nil
	s.lenindex = []uint32{0}
	s.reduced = newBitTable(g)
	s.right = newRowTable(g)
	s.left = newRowTable(g)
	s.nr = 0
	s.nrRules = 0
	s.pos = 0
	s.wordlen = 0
	s.foundOne = false
	s.posOne = 0
	s.sortedElems = nil
	s.sortedPos = nil
	s.idemDone = false
	s.idempotents = nil
	s.isIdempotent = nil

	for i, x := range s.gens {
		if p, ok := s.find(x); ok {
			// duplicate generator
			s.letterToPos = append(s.letterToPos, p)
			s.nrRules++
			s.duplicateGens = append(s.duplicateGens,
				[2]word.Letter{word.Letter(i), s.first[p]})
		} else {
			s.isOne(x, s.nr)
			s.elements = append(s.elements, x)
			s.first = append(s.first, word.Letter(i))
			s.final = append(s.final, word.Letter(i))
			s.enumOrder = append(s.enumOrder, s.nr)
			s.letterToPos = append(s.letterToPos, s.nr)
			s.length = append(s.length, 1)
			s.insert(x, s.nr)
			s.prefix = append(s.prefix, undefined)
			s.suffix = append(s.suffix, undefined)
			s.nr++
		}
	}
	s.expand(int(s.nr))
	s.lenindex = append(s.lenindex, uint32(len(s.enumOrder)))
	return nil
}

// find looks x up in the position index, confirming fingerprint hits with
// Equals.
func (s *FroidurePin) find(x element.Element) (uint32, bool) {
	for _, p := range s.index[x.Hash()] {
		if s.elements[p].Equals(x) {
			return p, true
		}
	}
	return 0, false
}

func (s *FroidurePin) insert(x element.Element, pos uint32) {
	h := x.Hash()
	s.index[h] = append(s.index[h], pos)
}

// isOne records the position of the identity element, if present.
func (s *FroidurePin) isOne(x element.Element, pos uint32) {
	if !s.foundOne && x.Equals(s.id) {
		s.posOne = pos
		s.foundOne = true
	}
}

// expand grows the Cayley and reduction tables by n rows.
func (s *FroidurePin) expand(n int) {
	s.right.addRows(n)
	s.left.addRows(n)
	s.reduced.addRows(n)
}

func (s *FroidurePin) cancelled() bool {
	return s.opts.ctx.Err() != nil
}

// IsDone reports whether the closure is complete: every known element has
// been multiplied by every generator.
func (s *FroidurePin) IsDone() bool {
	return s.pos >= s.nr
}

// CurrentSize returns the number of elements found so far, without
// enumerating further.
func (s *FroidurePin) CurrentSize() int { return int(s.nr) }

// CurrentNrRules returns the number of rules found so far.
func (s *FroidurePin) CurrentNrRules() int { return s.nrRules }

// NrGenerators returns the number of generators, counting duplicates.
func (s *FroidurePin) NrGenerators() int { return len(s.letterToPos) }

// Degree returns the common degree of the generators.
func (s *FroidurePin) Degree() int { return s.degree }

// Generator returns the a-th generator.
func (s *FroidurePin) Generator(a word.Letter) element.Element {
	return s.gens[a]
}

// LetterToPos returns the index of the a-th generator among the elements.
func (s *FroidurePin) LetterToPos(a word.Letter) uint32 {
	return s.letterToPos[a]
}

// Size enumerates to completion and returns the number of elements. The
// error is non-nil only when the configured context was cancelled first.
func (s *FroidurePin) Size() (int, error) {
	if err := s.Enumerate(int(limitMax)); err != nil {
		return int(s.nr), err
	}
	return int(s.nr), nil
}

// Enumerate extends the enumeration until every element is known or at
// least limit elements are, whichever comes first. It is a no-op once
// complete or when limit elements are already known, and is resumable after
// cancellation.
func (s *FroidurePin) Enumerate(limit int) error {
	lim := limitMax
	if limit >= 0 && uint64(limit) < uint64(limitMax) {
		lim = uint32(limit)
	}
	return s.enumerate(lim)
}

func (s *FroidurePin) enumerate(limit uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos >= s.nr || limit <= s.nr {
		return nil
	}
	if s.cancelled() {
		return s.opts.ctx.Err()
	}
	// Extend small limits to a whole batch.
	if limitMax-s.opts.batchSize > s.nr {
		if limit < s.nr+s.opts.batchSize {
			limit = s.nr + s.opts.batchSize
		}
	} else {
		limit = limitMax
	}
	s.started = true
	ngens := len(s.gens)

	// Multiply the generators by every generator.
	if s.pos < s.lenindex[1] {
		nrShorter := s.nr
		for s.pos < s.lenindex[1] {
			i := s.enumOrder[s.pos]
			for j := 0; j < ngens; j++ {
				a := word.Letter(j)
				s.tmp.Product(s.elements[i], s.gens[j], s.scratch)
				if k, ok := s.find(s.tmp); ok {
					s.right.set(i, a, k)
					s.nrRules++
				} else {
					x := s.tmp.Clone()
					s.isOne(x, s.nr)
					s.elements = append(s.elements, x)
					s.first = append(s.first, s.first[i])
					s.final = append(s.final, a)
					s.enumOrder = append(s.enumOrder, s.nr)
					s.length = append(s.length, 2)
					s.insert(x, s.nr)
					s.prefix = append(s.prefix, i)
					s.reduced.set(i, a, true)
					s.right.set(i, a, s.nr)
					s.suffix = append(s.suffix, s.letterToPos[j])
					s.nr++
				}
			}
			s.pos++
		}
		for i := uint32(0); i != s.pos; i++ {
			b := s.final[s.enumOrder[i]]
			for j := 0; j < ngens; j++ {
				a := word.Letter(j)
				s.left.set(s.enumOrder[i], a, s.right.get(s.letterToPos[j], b))
			}
		}
		s.wordlen++
		s.expand(int(s.nr - nrShorter))
		s.lenindex = append(s.lenindex, uint32(len(s.enumOrder)))
	}

	// Multiply the words of length > 1 by every generator.
	stop := s.nr >= limit || s.cancelled()

	for s.pos != s.nr && !stop {
		nrShorter := s.nr
		for s.pos != s.lenindex[s.wordlen+1] && !stop {
			i := s.enumOrder[s.pos]
			b := s.first[i]
			sfx := s.suffix[i]
			for j := 0; j < ngens; j++ {
				a := word.Letter(j)
				if !s.reduced.get(sfx, a) {
					r := s.right.get(sfx, a)
					switch {
					case s.foundOne && r == s.posOne:
						s.right.set(i, a, s.letterToPos[b])
					case s.prefix[r] != undefined: // r is not a generator
						s.right.set(i, a,
							s.right.get(s.left.get(s.prefix[r], b), s.final[r]))
					default:
						s.right.set(i, a,
							s.right.get(s.letterToPos[b], s.final[r]))
					}
				} else {
					s.tmp.Product(s.elements[i], s.gens[j], s.scratch)
					if k, ok := s.find(s.tmp); ok {
						s.right.set(i, a, k)
						s.nrRules++
					} else {
						x := s.tmp.Clone()
						s.isOne(x, s.nr)
						s.elements = append(s.elements, x)
						s.first = append(s.first, b)
						s.final = append(s.final, a)
						s.length = append(s.length, uint32(s.wordlen)+2)
						s.insert(x, s.nr)
						s.prefix = append(s.prefix, i)
						s.reduced.set(i, a, true)
						s.right.set(i, a, s.nr)
						s.suffix = append(s.suffix, s.right.get(sfx, a))
						s.enumOrder = append(s.enumOrder, s.nr)
						s.nr++
						stop = s.nr >= limit ||
							(s.nr%s.opts.batchSize == 0 && s.cancelled())
					}
				}
			}
			s.pos++
		}
		s.expand(int(s.nr - nrShorter))

		if s.pos == s.lenindex[s.wordlen+1] {
			for i := s.lenindex[s.wordlen]; i != s.pos; i++ {
				p := s.prefix[s.enumOrder[i]]
				b := s.final[s.enumOrder[i]]
				for j := 0; j < ngens; j++ {
					a := word.Letter(j)
					s.left.set(s.enumOrder[i], a,
						s.right.get(s.left.get(p, a), b))
				}
			}
			s.wordlen++
			s.lenindex = append(s.lenindex, uint32(len(s.enumOrder)))
		}

		s.opts.logger.Debug("froidurepin: progress",
			"elements", s.nr,
			"rules", s.nrRules,
			"wordlen", s.wordlen,
			"done", s.IsDone())
	}
	if !s.IsDone() && s.cancelled() {
		return s.opts.ctx.Err()
	}
	return nil
}
