package element

// BooleanMat is a square matrix over the boolean semiring, stored row-major
// as uint32 zeros and ones.
type BooleanMat struct {
	rows   []uint32
	dim    int
	hash   uint64
	hashOK bool
}

// NewBooleanMat validates that rows is square with entries in {0, 1} and
// returns the matrix. rows[i][j] is the entry in row i, column j.
func NewBooleanMat(rows [][]uint32) (*BooleanMat, error) {
	n := len(rows)
	flat := make([]uint32, 0, n*n)
	for _, row := range rows {
		if len(row) != n {
			return nil, ErrInvalidElement
		}
		for _, v := range row {
			if v > 1 {
				return nil, ErrInvalidElement
			}
			flat = append(flat, v)
		}
	}
	return &BooleanMat{rows: flat, dim: n}, nil
}

// At returns the entry in row i, column j.
func (m *BooleanMat) At(i, j int) uint32 { return m.rows[i*m.dim+j] }

// Degree returns the dimension of the matrix.
func (m *BooleanMat) Degree() int { return m.dim }

// Complexity is cubic: the product is a full boolean matrix multiply.
func (m *BooleanMat) Complexity() int { return m.dim * m.dim * m.dim }

// Hash returns the cached payload fingerprint.
func (m *BooleanMat) Hash() uint64 {
	if !m.hashOK {
		m.hash = fingerprint(tagBooleanMat, m.rows)
		m.hashOK = true
	}
	return m.hash
}

// Equals reports entrywise equality with another BooleanMat.
func (m *BooleanMat) Equals(other Element) bool {
	o, ok := other.(*BooleanMat)
	if !ok || o.dim != m.dim {
		return false
	}
	for i, v := range m.rows {
		if o.rows[i] != v {
			return false
		}
	}
	return true
}

// Less is lexicographic on the row-major entries, smaller dimensions first.
func (m *BooleanMat) Less(other Element) bool {
	o := other.(*BooleanMat)
	if m.dim != o.dim {
		return m.dim < o.dim
	}
	for i, v := range m.rows {
		if v != o.rows[i] {
			return v < o.rows[i]
		}
	}
	return false
}

// Product sets m := x·y over the boolean semiring, short-circuiting each
// entry on the first witness.
func (m *BooleanMat) Product(x, y Element, _ *Scratch) {
	xx := x.(*BooleanMat)
	yy := y.(*BooleanMat)
	n := m.dim
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var entry uint32
			for k := 0; k < n; k++ {
				if xx.rows[i*n+k] == 1 && yy.rows[k*n+j] == 1 {
					entry = 1
					break
				}
			}
			m.rows[i*n+j] = entry
		}
	}
	m.hashOK = false
}

// Identity returns the identity matrix of the same dimension.
func (m *BooleanMat) Identity() Element {
	n := m.dim
	rows := make([]uint32, n*n)
	for i := 0; i < n; i++ {
		rows[i*n+i] = 1
	}
	return &BooleanMat{rows: rows, dim: n}
}

// Clone returns an independent copy.
func (m *BooleanMat) Clone() Element {
	rows := make([]uint32, len(m.rows))
	copy(rows, m.rows)
	return &BooleanMat{rows: rows, dim: m.dim, hash: m.hash, hashOK: m.hashOK}
}
