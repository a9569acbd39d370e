package congruence_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlsemi/congruence"
	"github.com/katalvlaran/lvlsemi/element"
	"github.com/katalvlaran/lvlsemi/froidurepin"
	"github.com/katalvlaran/lvlsemi/toddcoxeter"
	"github.com/katalvlaran/lvlsemi/word"
)

// smallPresentation is ⟨a,b | a³=a, a=b²⟩, a five-element semigroup.
func smallPresentation() congruence.Presentation {
	return congruence.Presentation{
		AlphabetSize: 2,
		Relations: []word.Relation{
			{LHS: word.Word{0, 0, 0}, RHS: word.Word{0}},
			{LHS: word.Word{0}, RHS: word.Word{1, 1}},
		},
	}
}

// transformationSemigroup builds the 88-element transformation semigroup
// and the factorisations of the two transformations generating the tested
// congruences.
func transformationSemigroup(t *testing.T) (*froidurepin.FroidurePin, word.Word, word.Word) {
	t.Helper()
	a, err := element.NewTransformation([]uint32{1, 3, 4, 2, 3})
	require.NoError(t, err)
	b, err := element.NewTransformation([]uint32{3, 2, 1, 3, 3})
	require.NoError(t, err)
	s, err := froidurepin.New([]element.Element{a, b})
	require.NoError(t, err)

	t1, err := element.NewTransformation([]uint32{3, 4, 4, 4, 4})
	require.NoError(t, err)
	t2, err := element.NewTransformation([]uint32{3, 1, 3, 3, 3})
	require.NoError(t, err)
	p1, ok := s.Position(t1)
	require.True(t, ok)
	p2, ok := s.Position(t2)
	require.True(t, ok)
	w1, err := s.Factorisation(p1)
	require.NoError(t, err)
	w2, err := s.Factorisation(p2)
	require.NoError(t, err)
	return s, w1, w2
}

func TestTwoSidedPresentation(t *testing.T) {
	cong, err := congruence.NewFromPresentation(congruence.TwoSided, smallPresentation())
	require.NoError(t, err)

	n, err := cong.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 5, n)

	aab, err := cong.WordToClassIndex(word.Word{0, 0, 1})
	require.NoError(t, err)
	aaaab, err := cong.WordToClassIndex(word.Word{0, 0, 0, 0, 1})
	require.NoError(t, err)
	require.Equal(t, aab, aaaab)

	aaa, err := cong.WordToClassIndex(word.Word{0, 0, 0})
	require.NoError(t, err)
	require.NotEqual(t, aaa, aab)

	eq, err := cong.Contains(word.Word{0, 0, 1}, word.Word{0, 0, 0, 0, 1})
	require.NoError(t, err)
	require.True(t, eq)
}

func TestLeftPresentation(t *testing.T) {
	cong, err := congruence.NewFromPresentation(congruence.Left, smallPresentation())
	require.NoError(t, err)

	n, err := cong.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 5, n)

	eq, err := cong.Contains(word.Word{0, 1, 1, 0, 0, 1}, word.Word{0, 0, 1})
	require.NoError(t, err)
	require.True(t, eq)
}

func TestRightPresentation(t *testing.T) {
	cong, err := congruence.NewFromPresentation(congruence.Right, smallPresentation())
	require.NoError(t, err)
	n, err := cong.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestTwoSidedOnSemigroup(t *testing.T) {
	s, w1, w2 := transformationSemigroup(t)
	cong, err := congruence.NewFromSemigroup(congruence.TwoSided, s)
	require.NoError(t, err)
	require.NoError(t, cong.AddPair(w1, w2))
	require.True(t, cong.IsObviouslyFinite())

	n, err := cong.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 21, n)

	// Two further elements known to fall in one class.
	t3, _ := element.NewTransformation([]uint32{1, 3, 1, 3, 3})
	t4, _ := element.NewTransformation([]uint32{4, 2, 4, 4, 2})
	p3, ok := s.Position(t3)
	require.True(t, ok)
	p4, ok := s.Position(t4)
	require.True(t, ok)
	w3, err := s.Factorisation(p3)
	require.NoError(t, err)
	w4, err := s.Factorisation(p4)
	require.NoError(t, err)
	eq, err := cong.Contains(w3, w4)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestRightOnSemigroup(t *testing.T) {
	s, w1, w2 := transformationSemigroup(t)
	cong, err := congruence.NewFromSemigroup(congruence.Right, s)
	require.NoError(t, err)
	require.NoError(t, cong.AddPair(w1, w2))

	n, err := cong.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 72, n)
}

func TestLeftOnSemigroup(t *testing.T) {
	s, w1, w2 := transformationSemigroup(t)
	cong, err := congruence.NewFromSemigroup(congruence.Left, s)
	require.NoError(t, err)
	require.NoError(t, cong.AddPair(w1, w2))

	n, err := cong.NrClasses()
	require.NoError(t, err)
	// A left congruence refines the two-sided one and is refined by the
	// trivial one.
	require.GreaterOrEqual(t, n, 21)
	require.LessOrEqual(t, n, 88)
}

func TestTrivialCongruenceHasNoNontrivialClasses(t *testing.T) {
	s, _, _ := transformationSemigroup(t)
	cong, err := congruence.NewFromSemigroup(congruence.TwoSided, s)
	require.NoError(t, err)

	n, err := cong.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 88, n)

	ntc, err := cong.NontrivialClasses()
	require.NoError(t, err)
	require.Empty(t, ntc)
}

func TestNontrivialClasses(t *testing.T) {
	s, w1, w2 := transformationSemigroup(t)
	cong, err := congruence.NewFromSemigroup(congruence.TwoSided, s)
	require.NoError(t, err)
	require.NoError(t, cong.AddPair(w1, w2))

	ntc, err := cong.NontrivialClasses()
	require.NoError(t, err)
	require.NotEmpty(t, ntc)

	// Nontrivial classes plus singletons partition all 88 elements into
	// 21 classes.
	elements := 0
	for _, class := range ntc {
		require.Greater(t, len(class), 1)
		elements += len(class)
	}
	singletons := 21 - len(ntc)
	require.Equal(t, 88, elements+singletons)

	// Members of one class are congruent.
	for _, class := range ntc {
		for _, w := range class[1:] {
			eq, err := cong.Contains(class[0], w)
			require.NoError(t, err)
			require.True(t, eq)
		}
	}
}

func TestConvergesOnInfiniteSemigroup(t *testing.T) {
	p := congruence.Presentation{
		AlphabetSize: 3,
		Relations: []word.Relation{
			{LHS: word.Word{0, 1}, RHS: word.Word{1, 0}},
			{LHS: word.Word{0, 2}, RHS: word.Word{2, 2}},
			{LHS: word.Word{0, 2}, RHS: word.Word{0}},
			{LHS: word.Word{2, 2}, RHS: word.Word{0}},
			{LHS: word.Word{1, 2}, RHS: word.Word{1, 2}},
			{LHS: word.Word{1, 2}, RHS: word.Word{2, 2}},
			{LHS: word.Word{1, 2, 2}, RHS: word.Word{1}},
			{LHS: word.Word{1, 2}, RHS: word.Word{1}},
			{LHS: word.Word{2, 2}, RHS: word.Word{1}},
		},
	}
	cong, err := congruence.NewFromPresentation(congruence.TwoSided, p)
	require.NoError(t, err)
	require.NoError(t, cong.AddPair(word.Word{0}, word.Word{1}))
	require.False(t, cong.IsObviouslyInfinite())

	eq, err := cong.Contains(word.Word{0}, word.Word{0, 1})
	require.NoError(t, err)
	require.True(t, eq)
}

func TestBicyclicStyleQuotient(t *testing.T) {
	p := congruence.Presentation{
		AlphabetSize: 3,
		Relations: []word.Relation{
			{LHS: word.Word{0, 1}, RHS: word.Word{1}},
			{LHS: word.Word{1, 0}, RHS: word.Word{1}},
			{LHS: word.Word{0, 0}, RHS: word.Word{0}},
			{LHS: word.Word{0, 2}, RHS: word.Word{2}},
			{LHS: word.Word{2, 0}, RHS: word.Word{2}},
			{LHS: word.Word{1, 2}, RHS: word.Word{0}},
		},
	}
	cong, err := congruence.NewFromPresentation(congruence.TwoSided, p)
	require.NoError(t, err)
	require.NoError(t, cong.AddPair(word.Word{1, 1, 1}, word.Word{0}))

	n, err := cong.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestObviouslyInfinitePresentation(t *testing.T) {
	cong, err := congruence.NewFromPresentation(congruence.TwoSided, congruence.Presentation{
		AlphabetSize: 2,
		Relations: []word.Relation{
			{LHS: word.Word{0, 0}, RHS: word.Word{0}},
		},
	})
	require.NoError(t, err)
	require.True(t, cong.IsObviouslyInfinite())
	_, err = cong.NrClasses()
	require.True(t, errors.Is(err, toddcoxeter.ErrInfinite))
}

func TestQuotientSemigroupFromPresentation(t *testing.T) {
	cong, err := congruence.NewFromPresentation(congruence.TwoSided, smallPresentation())
	require.NoError(t, err)
	q, err := cong.QuotientSemigroup()
	require.NoError(t, err)
	n, err := q.Size()
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestQuotientSemigroupFromParent(t *testing.T) {
	s, w1, w2 := transformationSemigroup(t)
	cong, err := congruence.NewFromSemigroup(congruence.TwoSided, s)
	require.NoError(t, err)
	require.NoError(t, cong.AddPair(w1, w2))

	q, err := cong.QuotientSemigroup()
	require.NoError(t, err)
	n, err := q.Size()
	require.NoError(t, err)
	require.Equal(t, 21, n)
}

func TestQuotientOfOneSided(t *testing.T) {
	cong, err := congruence.NewFromPresentation(congruence.Left, smallPresentation())
	require.NoError(t, err)
	_, err = cong.QuotientSemigroup()
	require.True(t, errors.Is(err, toddcoxeter.ErrInvalidOperation))
}

func TestClassWordRoundTrip(t *testing.T) {
	cong, err := congruence.NewFromPresentation(congruence.TwoSided, smallPresentation())
	require.NoError(t, err)
	n, err := cong.NrClasses()
	require.NoError(t, err)
	for c := uint32(0); int(c) < n; c++ {
		w, err := cong.ClassIndexToWord(c)
		require.NoError(t, err)
		got, err := cong.WordToClassIndex(w)
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
}

func TestMethodAgreement(t *testing.T) {
	// Every standard method that finishes on this input reports the same
	// class count (the race winner is not deterministic; the answer is).
	s, w1, w2 := transformationSemigroup(t)

	for _, policy := range []toddcoxeter.Policy{
		toddcoxeter.PolicyUseRelations,
		toddcoxeter.PolicyUseCayleyGraph,
	} {
		tc, err := toddcoxeter.NewFromSemigroup(toddcoxeter.TwoSided, s,
			toddcoxeter.WithPolicy(policy))
		require.NoError(t, err)
		require.NoError(t, tc.AddPair(w1, w2))
		n, err := tc.NrClasses()
		require.NoError(t, err)
		require.Equal(t, 21, n)
	}

	cong, err := congruence.NewFromSemigroup(congruence.TwoSided, s)
	require.NoError(t, err)
	require.NoError(t, cong.AddPair(w1, w2))
	n, err := cong.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 21, n)
}

func TestPolicyNoneWithCustomMethod(t *testing.T) {
	cong, err := congruence.NewFromPresentation(congruence.TwoSided, smallPresentation(),
		congruence.WithMethodPolicy(congruence.PolicyNone))
	require.NoError(t, err)

	tc, err := toddcoxeter.New(toddcoxeter.TwoSided, 2, smallPresentation().Relations)
	require.NoError(t, err)
	require.NoError(t, cong.AddMethod(tc))

	n, err := cong.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Same(t, congruence.Method(tc), cong.Winner())
}

func TestAddPairAfterRace(t *testing.T) {
	cong, err := congruence.NewFromPresentation(congruence.TwoSided, smallPresentation())
	require.NoError(t, err)
	_, err = cong.NrClasses()
	require.NoError(t, err)
	err = cong.AddPair(word.Word{0}, word.Word{1})
	require.True(t, errors.Is(err, toddcoxeter.ErrInvalidOperation))
}

func TestNontrivialClassesNeedParent(t *testing.T) {
	cong, err := congruence.NewFromPresentation(congruence.TwoSided, smallPresentation())
	require.NoError(t, err)
	_, err = cong.NontrivialClasses()
	require.True(t, errors.Is(err, congruence.ErrNoParent))
}
