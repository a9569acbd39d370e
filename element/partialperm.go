package element

// Undefined marks the absent image of a point under a partial permutation.
const Undefined = ^uint32(0)

// PartialPerm is an injective partial function on {0, …, n-1}, stored as its
// image list with Undefined for points outside the domain.
type PartialPerm struct {
	images []uint32
	hash   uint64
	hashOK bool
}

// NewPartialPerm validates images (each defined image in [0, len(images)),
// no two defined images equal) and returns the partial permutation.
func NewPartialPerm(images []uint32) (*PartialPerm, error) {
	n := len(images)
	seen := make(map[uint32]struct{}, n)
	for _, v := range images {
		if v == Undefined {
			continue
		}
		if int(v) >= n {
			return nil, ErrInvalidElement
		}
		if _, dup := seen[v]; dup {
			return nil, ErrInvalidElement
		}
		seen[v] = struct{}{}
	}
	out := make([]uint32, n)
	copy(out, images)
	return &PartialPerm{images: out}, nil
}

// Images returns the image list; the caller must not mutate it.
func (p *PartialPerm) Images() []uint32 { return p.images }

// Degree returns the number of points acted on.
func (p *PartialPerm) Degree() int { return len(p.images) }

// Complexity is linear in the degree.
func (p *PartialPerm) Complexity() int { return len(p.images) }

// Rank returns the number of defined images.
func (p *PartialPerm) Rank() int {
	r := 0
	for _, v := range p.images {
		if v != Undefined {
			r++
		}
	}
	return r
}

// Hash returns the cached payload fingerprint.
func (p *PartialPerm) Hash() uint64 {
	if !p.hashOK {
		p.hash = fingerprint(tagPartialPerm, p.images)
		p.hashOK = true
	}
	return p.hash
}

// Equals reports pointwise equality with another PartialPerm.
func (p *PartialPerm) Equals(other Element) bool {
	o, ok := other.(*PartialPerm)
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

// Less is short-lex on image lists: degree first, then pointwise with
// Undefined sorting above every defined image.
func (p *PartialPerm) Less(other Element) bool {
	o := other.(*PartialPerm)
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

// PartialPermGAPLess is the historical ordering used by GAP, which is not
// short-lex on images: partial permutations compare first by effective
// degree (the degree after trailing undefined images are trimmed), then
// pointwise with Undefined sorting below every defined image.
func PartialPermGAPLess(a, b *PartialPerm) bool {
	degA := len(a.images)
	for degA > 0 && a.images[degA-1] == Undefined {
		degA--
	}
	degB := len(b.images)
	for degB > 0 && degB >= degA && b.images[degB-1] == Undefined {
		degB--
	}
	if degA != degB {
		return degA < degB
	}
	for i := 0; i < degA; i++ {
		if a.images[i] != b.images[i] {
			return a.images[i] == Undefined ||
				(b.images[i] != Undefined && a.images[i] < b.images[i])
		}
	}
	return false
}

// Product sets p := x·y, i.e. p(i) = y(x(i)) where either application may be
// undefined.
func (p *PartialPerm) Product(x, y Element, _ *Scratch) {
	xx := x.(*PartialPerm)
	yy := y.(*PartialPerm)
	for i, v := range xx.images {
		if v == Undefined {
			p.images[i] = Undefined
		} else {
			p.images[i] = yy.images[v]
		}
	}
	p.hashOK = false
}

// Identity returns the identity partial permutation of the same degree.
func (p *PartialPerm) Identity() Element {
	images := make([]uint32, len(p.images))
	for i := range images {
		images[i] = uint32(i)
	}
	return &PartialPerm{images: images}
}

// Clone returns an independent copy.
func (p *PartialPerm) Clone() Element {
	images := make([]uint32, len(p.images))
	copy(images, p.images)
	return &PartialPerm{images: images, hash: p.hash, hashOK: p.hashOK}
}
