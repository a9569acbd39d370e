package toddcoxeter

import "github.com/katalvlaran/lvlsemi/word"

// undefined marks an absent table entry, link, or cursor.
const undefined = ^uint32(0)

// cosetTable is a dense row-major table with one row per coset and one
// column per generator: the coset table itself and both preimage tables
// share this shape.
type cosetTable struct {
	cols int
	data []uint32
}

func newCosetTable(cols, rows int) *cosetTable {
	t := &cosetTable{cols: cols}
	t.addRows(rows)
	return t
}

// addRows appends n rows filled with the undefined marker.
func (t *cosetTable) addRows(n int) {
	old := len(t.data)
	t.data = append(t.data, make([]uint32, n*t.cols)...)
	for i := old; i < len(t.data); i++ {
		t.data[i] = undefined
	}
}

func (t *cosetTable) nrRows() int { return len(t.data) / t.cols }

func (t *cosetTable) get(r uint32, c word.Letter) uint32 {
	return t.data[int(r)*t.cols+int(c)]
}

func (t *cosetTable) set(r uint32, c word.Letter, v uint32) {
	t.data[int(r)*t.cols+int(c)] = v
}
