// This file implements the read side of the enumerator: class counts,
// word/class conversions, and pair membership.
package toddcoxeter

import (
	"github.com/katalvlaran/lvlsemi/runner"
	"github.com/katalvlaran/lvlsemi/word"
)

// ensureRun completes the enumeration, translating a cooperative stop into
// an error.
func (tc *ToddCoxeter) ensureRun() error {
	if tc.done {
		return nil
	}
	if err := tc.Run(); err != nil {
		return err
	}
	if !tc.done {
		return runner.ErrCancelled
	}
	return nil
}

// NrClasses enumerates to completion and returns the number of congruence
// classes. The identity coset does not count as a class.
func (tc *ToddCoxeter) NrClasses() (int, error) {
	if tc.IsObviouslyInfinite() {
		return 0, ErrInfinite
	}
	if err := tc.ensureRun(); err != nil {
		return 0, err
	}
	return int(tc.active) - 1, nil
}

// WordToClassIndex enumerates to completion and returns the class index of
// w, in [0, NrClasses).
func (tc *ToddCoxeter) WordToClassIndex(w word.Word) (uint32, error) {
	if len(w) == 0 {
		return 0, word.ErrInvalidWord
	}
	if err := w.Validate(tc.nrgens); err != nil {
		return 0, err
	}
	if err := tc.ensureRun(); err != nil {
		return 0, err
	}
	c := uint32(0)
	if tc.side == Left {
		// Left congruences act by prepending: walk the word backwards.
		for i := len(w) - 1; i >= 0 && c != undefined; i-- {
			c = tc.table.get(c, w[i])
		}
	} else {
		for i := 0; i < len(w) && c != undefined; i++ {
			c = tc.table.get(c, w[i])
		}
	}
	if c == undefined {
		return 0, ErrInvalidOperation
	}
	// Cosets are {1 .. n}; classes are {0 .. n-1}.
	return c - 1, nil
}

// ClassIndexToWord returns a canonical (shortest) word in class c.
// It is an error to call this before Run has finished.
func (tc *ToddCoxeter) ClassIndexToWord(c uint32) (word.Word, error) {
	if !tc.done {
		return nil, ErrInvalidOperation
	}
	if int(c) >= int(tc.active)-1 {
		return nil, ErrInvalidOperation
	}
	if err := tc.initClassWords(); err != nil {
		return nil, err
	}
	w := tc.classWords[c]
	if w == nil {
		return nil, ErrInvalidOperation
	}
	return w.Clone(), nil
}

// initClassWords breadth-first searches the compressed table from the
// identity coset, recording the shortest word reaching each coset. For
// left congruences the recorded path is reversed, matching the reversed
// walk of WordToClassIndex.
func (tc *ToddCoxeter) initClassWords() error {
	if tc.classWords != nil {
		return nil
	}
	n := int(tc.active)
	parent := make([]uint32, n)
	via := make([]word.Letter, n)
	seen := make([]bool, n)
	for i := range parent {
		parent[i] = undefined
	}
	queue := []uint32{0}
	seen[0] = true
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for a := 0; a < tc.nrgens; a++ {
			img := tc.table.get(c, word.Letter(a))
			if img == undefined || seen[img] {
				continue
			}
			seen[img] = true
			parent[img] = c
			via[img] = word.Letter(a)
			queue = append(queue, img)
		}
	}

	tc.classWords = make([]word.Word, n-1)
	for c := uint32(1); int(c) < n; c++ {
		if !seen[c] {
			continue
		}
		var w word.Word
		for at := c; at != 0; at = parent[at] {
			w = append(w, via[at])
		}
		// The path was collected leaf-to-root.
		for i, j := 0, len(w)-1; i < j; i, j = i+1, j-1 {
			w[i], w[j] = w[j], w[i]
		}
		if tc.side == Left {
			w = w.Reversed()
		}
		tc.classWords[c-1] = w
	}
	return nil
}

// Contains enumerates to completion and reports whether the pair (u, v)
// belongs to the congruence.
func (tc *ToddCoxeter) Contains(u, v word.Word) (bool, error) {
	if u.Equal(v) {
		return true, nil
	}
	cu, err := tc.WordToClassIndex(u)
	if err != nil {
		return false, err
	}
	cv, err := tc.WordToClassIndex(v)
	if err != nil {
		return false, err
	}
	return cu == cv, nil
}
