// This file implements the idempotent scan. Short factorisations are
// checked by walking the right Cayley graph; long ones by squaring the
// element, split across workers when the semigroup is large enough.
package froidurepin

import (
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lvlsemi/element"
)

// concurrencyThreshold is the semigroup size below which the scan stays
// sequential regardless of MaxThreads.
const concurrencyThreshold = 823543

// NrIdempotents enumerates to completion and returns the number of
// idempotent elements.
func (s *FroidurePin) NrIdempotents() (int, error) {
	if err := s.initIdempotents(); err != nil {
		return 0, err
	}
	return len(s.idempotents), nil
}

// IsIdempotent reports whether element pos satisfies e·e = e.
func (s *FroidurePin) IsIdempotent(pos uint32) (bool, error) {
	if err := s.initIdempotents(); err != nil {
		return false, err
	}
	if pos >= s.nr {
		return false, ErrIndexOutOfRange
	}
	return s.isIdempotent[pos], nil
}

// Idempotents returns the indices of every idempotent, in enumeration
// order.
func (s *FroidurePin) Idempotents() ([]uint32, error) {
	if err := s.initIdempotents(); err != nil {
		return nil, err
	}
	out := make([]uint32, len(s.idempotents))
	copy(out, s.idempotents)
	return out, nil
}

func (s *FroidurePin) initIdempotents() error {
	if s.idemDone {
		return nil
	}
	if err := s.enumerate(limitMax); err != nil {
		return err
	}
	s.isIdempotent = make([]bool, s.nr)

	// Elements with factorisations shorter than the product cost are
	// squared by walking the Cayley graph; the rest by one real product.
	complexity := s.tmp.Complexity()
	thresholdLength := len(s.lenindex) - 2
	if complexity-1 < thresholdLength {
		thresholdLength = complexity - 1
	}
	if thresholdLength < 0 {
		thresholdLength = 0
	}
	threshold := s.lenindex[thresholdLength]

	workers := s.opts.maxThreads
	if workers <= 1 || int(s.nr) < concurrencyThreshold {
		found := make([]uint32, 0)
		s.idempotentScan(0, s.nr, threshold, s.tmp.Clone(), s.scratch, &found)
		s.idempotents = found
		s.idemDone = true
		return nil
	}

	chunk := (int(s.nr) + workers - 1) / workers
	results := make([][]uint32, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		first := uint32(w * chunk)
		last := first + uint32(chunk)
		if last > s.nr {
			last = s.nr
		}
		if first >= last {
			break
		}
		g.Go(func() error {
			s.idempotentScan(first, last, threshold,
				s.tmp.Clone(), element.NewScratch(), &results[w])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, part := range results {
		s.idempotents = append(s.idempotents, part...)
	}
	s.idemDone = true
	return nil
}

// idempotentScan checks the enumeration-order range [first, last). Writes
// to isIdempotent are index-disjoint across workers, so no lock is needed.
func (s *FroidurePin) idempotentScan(first, last, threshold uint32,
	tmp element.Element, scratch *element.Scratch, found *[]uint32) {
	pos := first
	for ; pos < last && pos < threshold; pos++ {
		k := s.enumOrder[pos]
		// Square by reduction: both factors have equal length.
		i, j := k, k
		for j != undefined {
			i = s.right.get(i, s.first[j])
			j = s.suffix[j]
		}
		if i == k {
			*found = append(*found, k)
			s.isIdempotent[k] = true
		}
	}
	for ; pos < last; pos++ {
		k := s.enumOrder[pos]
		tmp.Product(s.elements[k], s.elements[k], scratch)
		if tmp.Equals(s.elements[k]) {
			*found = append(*found, k)
			s.isIdempotent[k] = true
		}
	}
}
