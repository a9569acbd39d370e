package element_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlsemi/element"
)

func TestTransformationValidation(t *testing.T) {
	_, err := element.NewTransformation([]uint32{0, 5, 1})
	require.True(t, errors.Is(err, element.ErrInvalidElement))

	x, err := element.NewTransformation([]uint32{1, 0, 2})
	require.NoError(t, err)
	require.Equal(t, 3, x.Degree())
	require.Equal(t, 3, x.Complexity())
	require.Equal(t, 3, x.Rank())
}

func TestTransformationProduct(t *testing.T) {
	x, _ := element.NewTransformation([]uint32{1, 3, 4, 2, 3})
	y, _ := element.NewTransformation([]uint32{3, 2, 1, 3, 3})
	z := x.Identity().(*element.Transformation)
	z.Product(x, y, element.NewScratch())
	// (x·y)(i) = y(x(i))
	require.Equal(t, []uint32{2, 3, 3, 1, 3}, z.Images())

	id := x.Identity().(*element.Transformation)
	w := x.Identity().(*element.Transformation)
	w.Product(id, x, element.NewScratch())
	require.True(t, w.Equals(x))
	w.Product(x, id, element.NewScratch())
	require.True(t, w.Equals(x))
}

func TestHashConsistency(t *testing.T) {
	x, _ := element.NewTransformation([]uint32{1, 0})
	y, _ := element.NewTransformation([]uint32{1, 0})
	z, _ := element.NewTransformation([]uint32{0, 1})
	require.Equal(t, x.Hash(), y.Hash())
	require.True(t, x.Equals(y))
	require.False(t, x.Equals(z))

	// The cached hash follows an in-place product.
	p := x.Identity().(*element.Transformation)
	p.Product(x, x, element.NewScratch())
	q, _ := element.NewTransformation([]uint32{0, 1})
	require.Equal(t, q.Hash(), p.Hash())
	require.True(t, p.Equals(q))
}

func TestPartialPermValidation(t *testing.T) {
	// Image out of range.
	_, err := element.NewPartialPerm([]uint32{7, element.Undefined})
	require.True(t, errors.Is(err, element.ErrInvalidElement))
	// Not injective.
	_, err = element.NewPartialPerm([]uint32{1, 1})
	require.True(t, errors.Is(err, element.ErrInvalidElement))

	p, err := element.NewPartialPerm([]uint32{1, element.Undefined, 0})
	require.NoError(t, err)
	require.Equal(t, 2, p.Rank())
}

func TestPartialPermProduct(t *testing.T) {
	x, _ := element.NewPartialPerm([]uint32{1, element.Undefined, 0})
	y, _ := element.NewPartialPerm([]uint32{element.Undefined, 2, 1})
	z := x.Identity().(*element.PartialPerm)
	z.Product(x, y, element.NewScratch())
	// z(i) = y(x(i)), undefined where either is undefined.
	require.Equal(t, []uint32{2, element.Undefined, element.Undefined}, z.Images())
}

func TestPartialPermGAPLess(t *testing.T) {
	// Effective degree compares first: [0,undef] has effective degree 1,
	// [undef,1] has effective degree 2.
	a, _ := element.NewPartialPerm([]uint32{0, element.Undefined})
	b, _ := element.NewPartialPerm([]uint32{element.Undefined, 1})
	require.True(t, element.PartialPermGAPLess(a, b))
	require.False(t, element.PartialPermGAPLess(b, a))

	// Equal effective degree: undefined sorts below defined images.
	c, _ := element.NewPartialPerm([]uint32{element.Undefined, 0})
	d, _ := element.NewPartialPerm([]uint32{1, 0})
	require.True(t, element.PartialPermGAPLess(c, d))
	require.False(t, element.PartialPermGAPLess(d, c))

	// Short-lex Less agrees on the first pair ([0,undef] < [undef,1] since
	// 0 < undef) but disagrees on c vs d: Undefined is the maximum value,
	// so [undef,0] sorts above [1,0].
	require.False(t, c.Less(d))
}

func TestPermutation(t *testing.T) {
	_, err := element.NewPermutation([]uint32{0, 0, 1})
	require.True(t, errors.Is(err, element.ErrInvalidElement))

	p, err := element.NewPermutation([]uint32{1, 2, 0})
	require.NoError(t, err)
	inv := p.Inverse()
	z := p.Identity().(*element.Permutation)
	z.Product(p, inv, element.NewScratch())
	require.True(t, z.Equals(p.Identity()))
}

func TestBooleanMat(t *testing.T) {
	_, err := element.NewBooleanMat([][]uint32{{1, 0}, {1}})
	require.True(t, errors.Is(err, element.ErrInvalidElement))
	_, err = element.NewBooleanMat([][]uint32{{2, 0}, {0, 1}})
	require.True(t, errors.Is(err, element.ErrInvalidElement))

	x, _ := element.NewBooleanMat([][]uint32{{1, 1}, {0, 0}})
	y, _ := element.NewBooleanMat([][]uint32{{0, 0}, {1, 0}})
	z := x.Identity().(*element.BooleanMat)
	z.Product(x, y, element.NewScratch())
	require.Equal(t, uint32(1), z.At(0, 0))
	require.Equal(t, uint32(0), z.At(0, 1))
	require.Equal(t, uint32(0), z.At(1, 0))
	require.Equal(t, uint32(0), z.At(1, 1))

	id := x.Identity().(*element.BooleanMat)
	w := x.Identity().(*element.BooleanMat)
	w.Product(id, x, element.NewScratch())
	require.True(t, w.Equals(x))
}

func TestBipartition(t *testing.T) {
	// Block indices must be normalised.
	_, err := element.NewBipartition([]uint32{1, 0, 0, 1})
	require.True(t, errors.Is(err, element.ErrInvalidElement))
	_, err = element.NewBipartition([]uint32{0, 1, 2})
	require.True(t, errors.Is(err, element.ErrInvalidElement))

	x, err := element.NewBipartition([]uint32{0, 1, 1, 0})
	require.NoError(t, err)
	require.Equal(t, 2, x.Degree())
	require.Equal(t, uint32(2), x.NrBlocks())

	// The identity is neutral on both sides; its product exercises the
	// scratch fusion tables.
	s := element.NewScratch()
	id := x.Identity().(*element.Bipartition)
	z := x.Identity().(*element.Bipartition)
	z.Product(id, x, s)
	require.True(t, z.Equals(x))
	z.Product(x, id, s)
	require.True(t, z.Equals(x))

	// Scratch buffers are reusable across products.
	z.Product(x, x, s)
	z.Product(z.Clone(), x, s)
}

func TestCloneIndependence(t *testing.T) {
	x, _ := element.NewTransformation([]uint32{1, 0})
	c := x.Clone().(*element.Transformation)
	c.Product(x, x, element.NewScratch())
	require.Equal(t, []uint32{1, 0}, x.Images())
	require.Equal(t, []uint32{0, 1}, c.Images())
}
