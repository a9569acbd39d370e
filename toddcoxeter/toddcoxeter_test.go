package toddcoxeter_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlsemi/element"
	"github.com/katalvlaran/lvlsemi/froidurepin"
	"github.com/katalvlaran/lvlsemi/toddcoxeter"
	"github.com/katalvlaran/lvlsemi/word"
)

// smallPresentation is ⟨a,b | a³=a, a=b²⟩, a five-element semigroup.
func smallPresentation() []word.Relation {
	return []word.Relation{
		{LHS: word.Word{0, 0, 0}, RHS: word.Word{0}},
		{LHS: word.Word{0}, RHS: word.Word{1, 1}},
	}
}

func TestTwoSidedSmall(t *testing.T) {
	tc, err := toddcoxeter.New(toddcoxeter.TwoSided, 2, smallPresentation())
	require.NoError(t, err)
	require.NoError(t, tc.Run())
	require.True(t, tc.Finished())
	require.True(t, tc.IsDone())

	n, err := tc.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 5, n)

	aab, err := tc.WordToClassIndex(word.Word{0, 0, 1})
	require.NoError(t, err)
	aaaab, err := tc.WordToClassIndex(word.Word{0, 0, 0, 0, 1})
	require.NoError(t, err)
	require.Equal(t, aab, aaaab)

	aaa, err := tc.WordToClassIndex(word.Word{0, 0, 0})
	require.NoError(t, err)
	require.NotEqual(t, aaa, aab)
}

func TestLeftSmall(t *testing.T) {
	tc, err := toddcoxeter.New(toddcoxeter.Left, 2, smallPresentation())
	require.NoError(t, err)

	n, err := tc.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 5, n)

	abbaab, err := tc.WordToClassIndex(word.Word{0, 1, 1, 0, 0, 1})
	require.NoError(t, err)
	aab, err := tc.WordToClassIndex(word.Word{0, 0, 1})
	require.NoError(t, err)
	require.Equal(t, abbaab, aab)
}

func TestRightSmall(t *testing.T) {
	tc, err := toddcoxeter.New(toddcoxeter.Right, 2, smallPresentation())
	require.NoError(t, err)
	n, err := tc.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestClassWordRoundTrip(t *testing.T) {
	for _, side := range []toddcoxeter.Side{toddcoxeter.TwoSided, toddcoxeter.Left, toddcoxeter.Right} {
		tc, err := toddcoxeter.New(side, 2, smallPresentation())
		require.NoError(t, err)

		// Class words are unavailable before Run finishes.
		_, err = tc.ClassIndexToWord(0)
		require.True(t, errors.Is(err, toddcoxeter.ErrInvalidOperation))

		n, err := tc.NrClasses()
		require.NoError(t, err)
		for c := uint32(0); int(c) < n; c++ {
			w, err := tc.ClassIndexToWord(c)
			require.NoError(t, err)
			got, err := tc.WordToClassIndex(w)
			require.NoError(t, err)
			require.Equal(t, c, got, "side %v class %d", side, c)
		}
	}
}

func TestClosureInvariant(t *testing.T) {
	// After completion, every relation holds at every class word.
	rels := smallPresentation()
	tc, err := toddcoxeter.New(toddcoxeter.TwoSided, 2, rels)
	require.NoError(t, err)
	n, err := tc.NrClasses()
	require.NoError(t, err)

	for c := uint32(0); int(c) < n; c++ {
		w, err := tc.ClassIndexToWord(c)
		require.NoError(t, err)
		for _, rel := range rels {
			lhs := append(w.Clone(), rel.LHS...)
			rhs := append(w.Clone(), rel.RHS...)
			eq, err := tc.Contains(lhs, rhs)
			require.NoError(t, err)
			require.True(t, eq, "relation broken at class %d", c)
		}
	}
}

func TestObviouslyInfinite(t *testing.T) {
	// A free generator: no relation mentions letter 1.
	tc, err := toddcoxeter.New(toddcoxeter.TwoSided, 2, []word.Relation{
		{LHS: word.Word{0, 0}, RHS: word.Word{0}},
	})
	require.NoError(t, err)
	require.True(t, tc.IsObviouslyInfinite())
	require.False(t, tc.IsObviouslyFinite())

	_, err = tc.NrClasses()
	require.True(t, errors.Is(err, toddcoxeter.ErrInfinite))
	require.True(t, errors.Is(tc.Run(), toddcoxeter.ErrInfinite))
	require.True(t, tc.Dead())
}

func TestConvergentOnInfiniteSemigroup(t *testing.T) {
	// The underlying semigroup is infinite but the two-sided congruence
	// generated by a=b has finitely many classes.
	rels := []word.Relation{
		{LHS: word.Word{0, 1}, RHS: word.Word{1, 0}},
		{LHS: word.Word{0, 2}, RHS: word.Word{2, 2}},
		{LHS: word.Word{0, 2}, RHS: word.Word{0}},
		{LHS: word.Word{2, 2}, RHS: word.Word{0}},
		{LHS: word.Word{1, 2}, RHS: word.Word{1, 2}},
		{LHS: word.Word{1, 2}, RHS: word.Word{2, 2}},
		{LHS: word.Word{1, 2, 2}, RHS: word.Word{1}},
		{LHS: word.Word{1, 2}, RHS: word.Word{1}},
		{LHS: word.Word{2, 2}, RHS: word.Word{1}},
	}
	tc, err := toddcoxeter.New(toddcoxeter.TwoSided, 3, rels)
	require.NoError(t, err)
	require.NoError(t, tc.AddPair(word.Word{0}, word.Word{1}))
	require.False(t, tc.IsObviouslyInfinite())

	require.NoError(t, tc.Run())
	require.True(t, tc.Finished())

	a, err := tc.WordToClassIndex(word.Word{0})
	require.NoError(t, err)
	ab, err := tc.WordToClassIndex(word.Word{0, 1})
	require.NoError(t, err)
	require.Equal(t, a, ab)
}

func TestBicyclicQuotient(t *testing.T) {
	// A monoid-style presentation with a neutral letter a, plus the pair
	// b³ = a, collapses to three classes.
	rels := []word.Relation{
		{LHS: word.Word{0, 1}, RHS: word.Word{1}},
		{LHS: word.Word{1, 0}, RHS: word.Word{1}},
		{LHS: word.Word{0, 0}, RHS: word.Word{0}},
		{LHS: word.Word{0, 2}, RHS: word.Word{2}},
		{LHS: word.Word{2, 0}, RHS: word.Word{2}},
		{LHS: word.Word{1, 2}, RHS: word.Word{0}},
	}
	tc, err := toddcoxeter.New(toddcoxeter.TwoSided, 3, rels)
	require.NoError(t, err)
	require.NoError(t, tc.AddPair(word.Word{1, 1, 1}, word.Word{0}))

	n, err := tc.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestAddPairAfterRun(t *testing.T) {
	tc, err := toddcoxeter.New(toddcoxeter.TwoSided, 2, smallPresentation())
	require.NoError(t, err)
	require.NoError(t, tc.Run())
	err = tc.AddPair(word.Word{0}, word.Word{1})
	require.True(t, errors.Is(err, toddcoxeter.ErrInvalidOperation))
}

func TestRunIdempotent(t *testing.T) {
	tc, err := toddcoxeter.New(toddcoxeter.TwoSided, 2, smallPresentation())
	require.NoError(t, err)
	require.NoError(t, tc.Run())
	n1, err := tc.NrClasses()
	require.NoError(t, err)
	require.NoError(t, tc.Run())
	n2, err := tc.NrClasses()
	require.NoError(t, err)
	require.Equal(t, n1, n2)
}

func TestStopAndResume(t *testing.T) {
	tc, err := toddcoxeter.New(toddcoxeter.TwoSided, 2, smallPresentation())
	require.NoError(t, err)
	tc.RequestStop()
	require.NoError(t, tc.Run())
	require.False(t, tc.Finished())

	tc.ClearStop()
	require.NoError(t, tc.Run())
	require.True(t, tc.Finished())
	n, err := tc.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestDeadlineAlreadyPassed(t *testing.T) {
	tc, err := toddcoxeter.New(toddcoxeter.TwoSided, 2, smallPresentation())
	require.NoError(t, err)
	tc.SetDeadline(time.Now().Add(-time.Second))
	require.NoError(t, tc.Run())
	require.False(t, tc.Finished())
	require.True(t, tc.TimedOut())
}

func TestQuotientOfOneSided(t *testing.T) {
	tc, err := toddcoxeter.New(toddcoxeter.Left, 2, smallPresentation())
	require.NoError(t, err)
	_, err = tc.QuotientSemigroup()
	require.True(t, errors.Is(err, toddcoxeter.ErrInvalidOperation))
}

func TestQuotientSemigroup(t *testing.T) {
	tc, err := toddcoxeter.New(toddcoxeter.TwoSided, 2, smallPresentation())
	require.NoError(t, err)
	q, err := tc.QuotientSemigroup()
	require.NoError(t, err)

	n, err := q.Size()
	require.NoError(t, err)
	require.Equal(t, 5, n)

	// The quotient's Cayley structure agrees with the coset table: the
	// product of the classes of u and v is the class of uv.
	u := word.Word{0, 0, 1}
	v := word.Word{1, 0}
	pu, err := q.WordToPos(u)
	require.NoError(t, err)
	pv, err := q.WordToPos(v)
	require.NoError(t, err)
	puv, err := q.FastProduct(pu, pv)
	require.NoError(t, err)
	want, err := q.WordToPos(append(u.Clone(), v...))
	require.NoError(t, err)
	require.Equal(t, want, puv)
}

func TestPrefillFromSemigroup(t *testing.T) {
	a, _ := element.NewTransformation([]uint32{1, 3, 4, 2, 3})
	b, _ := element.NewTransformation([]uint32{3, 2, 1, 3, 3})
	s, err := froidurepin.New([]element.Element{a, b})
	require.NoError(t, err)

	// The generating pair relates two concrete transformations of S.
	t1, _ := element.NewTransformation([]uint32{3, 4, 4, 4, 4})
	t2, _ := element.NewTransformation([]uint32{3, 1, 3, 3, 3})
	p1, ok := s.Position(t1)
	require.True(t, ok)
	p2, ok := s.Position(t2)
	require.True(t, ok)
	w1, err := s.Factorisation(p1)
	require.NoError(t, err)
	w2, err := s.Factorisation(p2)
	require.NoError(t, err)

	for _, tt := range []struct {
		name   string
		side   toddcoxeter.Side
		want   int
		policy toddcoxeter.Policy
	}{
		{"twosided/cayley", toddcoxeter.TwoSided, 21, toddcoxeter.PolicyUseCayleyGraph},
		{"twosided/relations", toddcoxeter.TwoSided, 21, toddcoxeter.PolicyUseRelations},
		{"right/cayley", toddcoxeter.Right, 72, toddcoxeter.PolicyUseCayleyGraph},
		{"right/relations", toddcoxeter.Right, 72, toddcoxeter.PolicyUseRelations},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tc, err := toddcoxeter.NewFromSemigroup(tt.side, s,
				toddcoxeter.WithPolicy(tt.policy))
			require.NoError(t, err)
			require.True(t, tc.IsObviouslyFinite())
			require.NoError(t, tc.AddPair(w1, w2))

			n, err := tc.NrClasses()
			require.NoError(t, err)
			require.Equal(t, tt.want, n)
		})
	}
}

func TestTrivialCongruenceOnSemigroup(t *testing.T) {
	// No generating pairs: every element is its own class.
	a, _ := element.NewTransformation([]uint32{1, 3, 4, 2, 3})
	b, _ := element.NewTransformation([]uint32{3, 2, 1, 3, 3})
	s, err := froidurepin.New([]element.Element{a, b})
	require.NoError(t, err)

	tc, err := toddcoxeter.NewFromSemigroup(toddcoxeter.TwoSided, s)
	require.NoError(t, err)
	n, err := tc.NrClasses()
	require.NoError(t, err)
	require.Equal(t, 88, n)
}
