package element

// Bipartition is a partition of {0, …, 2n-1} into blocks, stored as the
// block index of each point. Points 0…n-1 are the top row, n…2n-1 the
// bottom row. Block indices are normalised: block k appears before block
// k+1 in point order.
type Bipartition struct {
	blocks []uint32
	degree int
	hash   uint64
	hashOK bool
}

// NewBipartition validates that blocks has even length, that block indices
// are normalised (each new block index is exactly one more than the largest
// seen so far, starting at 0), and returns the bipartition of degree
// len(blocks)/2.
func NewBipartition(blocks []uint32) (*Bipartition, error) {
	if len(blocks)%2 != 0 {
		return nil, ErrInvalidElement
	}
	next := uint32(0)
	for _, b := range blocks {
		if b > next {
			return nil, ErrInvalidElement
		}
		if b == next {
			next++
		}
	}
	out := make([]uint32, len(blocks))
	copy(out, blocks)
	return &Bipartition{blocks: out, degree: len(blocks) / 2}, nil
}

// Blocks returns the block index of each of the 2n points; the caller must
// not mutate it.
func (b *Bipartition) Blocks() []uint32 { return b.blocks }

// Degree returns n for a bipartition of {0, …, 2n-1}.
func (b *Bipartition) Degree() int { return b.degree }

// Complexity is quadratic in the degree.
func (b *Bipartition) Complexity() int { return b.degree * b.degree }

// NrBlocks returns the number of blocks.
func (b *Bipartition) NrBlocks() uint32 {
	if len(b.blocks) == 0 {
		return 0
	}
	max := uint32(0)
	for _, v := range b.blocks {
		if v > max {
			max = v
		}
	}
	return max + 1
}

// Hash returns the cached payload fingerprint.
func (b *Bipartition) Hash() uint64 {
	if !b.hashOK {
		b.hash = fingerprint(tagBipartition, b.blocks)
		b.hashOK = true
	}
	return b.hash
}

// Equals reports pointwise block equality with another Bipartition.
func (b *Bipartition) Equals(other Element) bool {
	o, ok := other.(*Bipartition)
	if !ok || o.degree != b.degree {
		return false
	}
	for i, v := range b.blocks {
		if o.blocks[i] != v {
			return false
		}
	}
	return true
}

// Less is lexicographic on block lists, smaller degrees first.
func (b *Bipartition) Less(other Element) bool {
	o := other.(*Bipartition)
	if b.degree != o.degree {
		return b.degree < o.degree
	}
	for i, v := range b.blocks {
		if v != o.blocks[i] {
			return v < o.blocks[i]
		}
	}
	return false
}

// fuseit chases the fusion table until pos is its own representative.
func fuseit(fuse []uint32, pos uint32) uint32 {
	for fuse[pos] < pos {
		pos = fuse[pos]
	}
	return pos
}

// Product sets b := x·y by fusing the bottom blocks of x with the top
// blocks of y, then renumbering the surviving blocks in point order. The
// fusion tables come from the scratch arena.
func (b *Bipartition) Product(x, y Element, s *Scratch) {
	xx := x.(*Bipartition)
	yy := y.(*Bipartition)
	n := b.degree

	nrx := xx.NrBlocks()
	nry := yy.NrBlocks()
	fuse, lookup := s.pair(int(nrx + nry))

	for i := 0; i < n; i++ {
		j := fuseit(fuse, xx.blocks[i+n])
		k := fuseit(fuse, yy.blocks[i]+nrx)
		if j != k {
			if j < k {
				fuse[k] = j
			} else {
				fuse[j] = k
			}
		}
	}

	next := uint32(0)
	for i := 0; i < n; i++ {
		j := fuseit(fuse, xx.blocks[i])
		if lookup[j] == undefined {
			lookup[j] = next
			next++
		}
		b.blocks[i] = lookup[j]
	}
	for i := n; i < 2*n; i++ {
		j := fuseit(fuse, yy.blocks[i]+nrx)
		if lookup[j] == undefined {
			lookup[j] = next
			next++
		}
		b.blocks[i] = lookup[j]
	}
	b.hashOK = false
}

// Identity returns the identity bipartition of the same degree: point i and
// point i+n share block i.
func (b *Bipartition) Identity() Element {
	n := b.degree
	blocks := make([]uint32, 2*n)
	for i := 0; i < n; i++ {
		blocks[i] = uint32(i)
		blocks[i+n] = uint32(i)
	}
	return &Bipartition{blocks: blocks, degree: n}
}

// Clone returns an independent copy.
func (b *Bipartition) Clone() Element {
	blocks := make([]uint32, len(b.blocks))
	copy(blocks, b.blocks)
	return &Bipartition{blocks: blocks, degree: b.degree, hash: b.hash, hashOK: b.hashOK}
}
