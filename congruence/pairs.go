// This file implements the pairs-orbit method for congruences on a finite
// parent semigroup: close the generating pairs under left and/or right
// translation by generators, merging classes in a union-find as pairs are
// found. Effective exactly when few pairs are related.
package congruence

import (
	"github.com/katalvlaran/lvlsemi/froidurepin"
	"github.com/katalvlaran/lvlsemi/runner"
	"github.com/katalvlaran/lvlsemi/toddcoxeter"
	"github.com/katalvlaran/lvlsemi/word"
)

// unionFind is a disjoint-set forest over element positions, with path
// halving and union by rank.
type unionFind struct {
	parent []uint32
	rank   []uint8
	blocks int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{
		parent: make([]uint32, n),
		rank:   make([]uint8, n),
		blocks: n,
	}
	for i := range u.parent {
		u.parent[i] = uint32(i)
	}
	return u
}

func (u *unionFind) find(x uint32) uint32 {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union merges the blocks of x and y, reporting whether they were
// distinct.
func (u *unionFind) union(x, y uint32) bool {
	rx, ry := u.find(x), u.find(y)
	if rx == ry {
		return false
	}
	if u.rank[rx] < u.rank[ry] {
		rx, ry = ry, rx
	}
	u.parent[ry] = rx
	if u.rank[rx] == u.rank[ry] {
		u.rank[rx]++
	}
	u.blocks--
	return true
}

// pairOrbit closes the generating pairs under translation. It implements
// runner.Runner; the parent is finite, so the orbit always terminates.
type pairOrbit struct {
	runner.State

	dir    Direction
	parent *froidurepin.FroidurePin
	size   int

	lookup *unionFind
	queue  [][2]uint32
	found  map[[2]uint32]struct{}

	done bool
	// classLookup maps element position to class index, numbered by first
	// occurrence; built on completion.
	classLookup []uint32
	classRep    []uint32
}

func newPairOrbit(dir Direction, parent *froidurepin.FroidurePin, extra []word.Relation) (*pairOrbit, error) {
	n, err := parent.Size()
	if err != nil {
		return nil, err
	}
	p := &pairOrbit{
		dir:    dir,
		parent: parent,
		size:   n,
		lookup: newUnionFind(n),
		found:  make(map[[2]uint32]struct{}),
	}
	for _, pair := range extra {
		x, err := parent.WordToPos(pair.LHS)
		if err != nil {
			return nil, err
		}
		y, err := parent.WordToPos(pair.RHS)
		if err != nil {
			return nil, err
		}
		p.addPair(x, y)
	}
	return p, nil
}

// addPair records and queues an unordered pair of distinct positions.
func (p *pairOrbit) addPair(x, y uint32) {
	if x == y {
		return
	}
	if y < x {
		x, y = y, x
	}
	key := [2]uint32{x, y}
	if _, seen := p.found[key]; seen {
		return
	}
	p.found[key] = struct{}{}
	p.queue = append(p.queue, key)
	p.lookup.union(x, y)
}

// Run drains the queue: each pair spawns its left and/or right translates
// by every generator. The stop flag is polled once per pair.
func (p *pairOrbit) Run() error {
	if p.done {
		return nil
	}
	ngens := p.parent.NrGenerators()
	for len(p.queue) > 0 && !p.Stopped() {
		pair := p.queue[len(p.queue)-1]
		p.queue = p.queue[:len(p.queue)-1]
		for g := 0; g < ngens; g++ {
			a := word.Letter(g)
			if p.dir == Left || p.dir == TwoSided {
				x, err := p.parent.Left(pair[0], a)
				if err != nil {
					p.MarkDead()
					return err
				}
				y, err := p.parent.Left(pair[1], a)
				if err != nil {
					p.MarkDead()
					return err
				}
				p.addPair(x, y)
			}
			if p.dir == Right || p.dir == TwoSided {
				x, err := p.parent.Right(pair[0], a)
				if err != nil {
					p.MarkDead()
					return err
				}
				y, err := p.parent.Right(pair[1], a)
				if err != nil {
					p.MarkDead()
					return err
				}
				p.addPair(x, y)
			}
		}
	}
	if len(p.queue) > 0 {
		return nil // stopped
	}
	p.initClassLookup()
	p.done = true
	p.SetFinished()
	return nil
}

// initClassLookup numbers the classes by first element occurrence and
// records one representative per class.
func (p *pairOrbit) initClassLookup() {
	p.classLookup = make([]uint32, p.size)
	rootToClass := make(map[uint32]uint32, p.size)
	for pos := uint32(0); int(pos) < p.size; pos++ {
		root := p.lookup.find(pos)
		cls, ok := rootToClass[root]
		if !ok {
			cls = uint32(len(rootToClass))
			rootToClass[root] = cls
			p.classRep = append(p.classRep, pos)
		}
		p.classLookup[pos] = cls
	}
}

func (p *pairOrbit) ensureDone() error {
	if p.done {
		return nil
	}
	if err := p.Run(); err != nil {
		return err
	}
	if !p.done {
		return runner.ErrCancelled
	}
	return nil
}

func (p *pairOrbit) NrClasses() (int, error) {
	if err := p.ensureDone(); err != nil {
		return 0, err
	}
	return p.lookup.blocks, nil
}

func (p *pairOrbit) WordToClassIndex(w word.Word) (uint32, error) {
	if err := p.ensureDone(); err != nil {
		return 0, err
	}
	pos, err := p.parent.WordToPos(w)
	if err != nil {
		return 0, err
	}
	return p.classLookup[pos], nil
}

func (p *pairOrbit) ClassIndexToWord(c uint32) (word.Word, error) {
	if err := p.ensureDone(); err != nil {
		return nil, err
	}
	if int(c) >= len(p.classRep) {
		return nil, froidurepin.ErrIndexOutOfRange
	}
	return p.parent.MinimalFactorisation(p.classRep[c])
}

func (p *pairOrbit) Contains(u, v word.Word) (bool, error) {
	cu, err := p.WordToClassIndex(u)
	if err != nil {
		return false, err
	}
	cv, err := p.WordToClassIndex(v)
	if err != nil {
		return false, err
	}
	return cu == cv, nil
}

// QuotientSemigroup is not provided by this method; the driver falls back
// to a prefilled coset enumeration.
func (p *pairOrbit) QuotientSemigroup() (*froidurepin.FroidurePin, error) {
	return nil, toddcoxeter.ErrInvalidOperation
}
