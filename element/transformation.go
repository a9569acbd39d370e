package element

// Transformation is a total function on {0, …, n-1}, stored as its image
// list: t maps point i to t.images[i].
//
// The product is composition left-to-right: (x·y)(i) = y(x(i)).
type Transformation struct {
	images []uint32
	hash   uint64
	hashOK bool
}

// NewTransformation validates images and returns the transformation with
// degree len(images). Every image must lie in [0, len(images)).
func NewTransformation(images []uint32) (*Transformation, error) {
	n := len(images)
	for _, v := range images {
		if int(v) >= n {
			return nil, ErrInvalidElement
		}
	}
	out := make([]uint32, n)
	copy(out, images)
	return &Transformation{images: out}, nil
}

// Images returns the image list; the caller must not mutate it.
func (t *Transformation) Images() []uint32 { return t.images }

// Degree returns the number of points acted on.
func (t *Transformation) Degree() int { return len(t.images) }

// Complexity is linear: one product touches every point once.
func (t *Transformation) Complexity() int { return len(t.images) }

// Rank returns the number of distinct images.
func (t *Transformation) Rank() int {
	seen := make(map[uint32]struct{}, len(t.images))
	for _, v := range t.images {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Hash returns the cached payload fingerprint.
func (t *Transformation) Hash() uint64 {
	if !t.hashOK {
		t.hash = fingerprint(tagTransformation, t.images)
		t.hashOK = true
	}
	return t.hash
}

// Equals reports pointwise equality with another Transformation.
func (t *Transformation) Equals(other Element) bool {
	o, ok := other.(*Transformation)
	if !ok || len(o.images) != len(t.images) {
		return false
	}
	for i, v := range t.images {
		if o.images[i] != v {
			return false
		}
	}
	return true
}

// Less is lexicographic on image lists, shorter degrees first.
func (t *Transformation) Less(other Element) bool {
	o := other.(*Transformation)
	if len(t.images) != len(o.images) {
		return len(t.images) < len(o.images)
	}
	for i, v := range t.images {
		if v != o.images[i] {
			return v < o.images[i]
		}
	}
	return false
}

// Product sets t := x·y, i.e. t(i) = y(x(i)).
func (t *Transformation) Product(x, y Element, _ *Scratch) {
	xx := x.(*Transformation)
	yy := y.(*Transformation)
	for i, v := range xx.images {
		t.images[i] = yy.images[v]
	}
	t.hashOK = false
}

// Identity returns the identity transformation of the same degree.
func (t *Transformation) Identity() Element {
	images := make([]uint32, len(t.images))
	for i := range images {
		images[i] = uint32(i)
	}
	return &Transformation{images: images}
}

// Clone returns an independent copy.
func (t *Transformation) Clone() Element {
	images := make([]uint32, len(t.images))
	copy(images, t.images)
	return &Transformation{images: images, hash: t.hash, hashOK: t.hashOK}
}
