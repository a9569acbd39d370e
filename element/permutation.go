package element

// Permutation is a bijection on {0, …, n-1}, stored as its image list.
type Permutation struct {
	images []uint32
	hash   uint64
	hashOK bool
}

// NewPermutation validates that images is a bijection on [0, len(images))
// and returns the permutation.
func NewPermutation(images []uint32) (*Permutation, error) {
	n := len(images)
	seen := make([]bool, n)
	for _, v := range images {
		if int(v) >= n || seen[v] {
			return nil, ErrInvalidElement
		}
		seen[v] = true
	}
	out := make([]uint32, n)
	copy(out, images)
	return &Permutation{images: out}, nil
}

// Images returns the image list; the caller must not mutate it.
func (p *Permutation) Images() []uint32 { return p.images }

// Degree returns the number of points acted on.
func (p *Permutation) Degree() int { return len(p.images) }

// Complexity is linear in the degree.
func (p *Permutation) Complexity() int { return len(p.images) }

// Inverse returns the inverse permutation.
func (p *Permutation) Inverse() *Permutation {
	images := make([]uint32, len(p.images))
	for i, v := range p.images {
		images[v] = uint32(i)
	}
	return &Permutation{images: images}
}

// Hash returns the cached payload fingerprint.
func (p *Permutation) Hash() uint64 {
	if !p.hashOK {
		p.hash = fingerprint(tagPermutation, p.images)
		p.hashOK = true
	}
	return p.hash
}

// Equals reports pointwise equality with another Permutation.
func (p *Permutation) Equals(other Element) bool {
	o, ok := other.(*Permutation)
	if !ok || len(o.images) != len(p.images) {
		return false
	}
	for i, v := range p.images {
		if o.images[i] != v {
			return false
		}
	}
	return true
}

// Less is lexicographic on image lists, shorter degrees first.
func (p *Permutation) Less(other Element) bool {
	o := other.(*Permutation)
	if len(p.images) != len(o.images) {
		return len(p.images) < len(o.images)
	}
	for i, v := range p.images {
		if v != o.images[i] {
			return v < o.images[i]
		}
	}
	return false
}

// Product sets p := x·y, i.e. p(i) = y(x(i)).
func (p *Permutation) Product(x, y Element, _ *Scratch) {
	xx := x.(*Permutation)
	yy := y.(*Permutation)
	for i, v := range xx.images {
		p.images[i] = yy.images[v]
	}
	p.hashOK = false
}

// Identity returns the identity permutation of the same degree.
func (p *Permutation) Identity() Element {
	images := make([]uint32, len(p.images))
	for i := range images {
		images[i] = uint32(i)
	}
	return &Permutation{images: images}
}

// Clone returns an independent copy.
func (p *Permutation) Clone() Element {
	images := make([]uint32, len(p.images))
	copy(images, p.images)
	return &Permutation{images: images, hash: p.hash, hashOK: p.hashOK}
}
