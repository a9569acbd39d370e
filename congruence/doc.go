// Package congruence provides the high-level driver for computing a
// congruence on a finitely presented or concretely enumerated semigroup by
// racing several methods and dispatching queries to the winner.
//
// What
//
//   - A Congruence is built from a direction (Left, Right, TwoSided) and a
//     source: either a Presentation or a froidurepin semigroup.
//   - The driver populates a race with a standard set of methods: coset
//     enumeration tracing relations, coset enumeration prefilled from the
//     parent's Cayley graph, a pairs-orbit scan (parent sources), and
//     Knuth–Bendix followed by enumeration (two-sided presentations).
//   - Every query — NrClasses, WordToClassIndex, ClassIndexToWord,
//     Contains, QuotientSemigroup, NontrivialClasses — triggers the race on
//     first use and then delegates to whichever method finished first.
//
// Why
//
//	No single congruence method dominates: coset enumeration excels on
//	finite-index congruences, rewriting on well-behaved presentations, and
//	the pairs orbit on congruences with few related pairs. Racing them
//	yields the best of all, with cooperative cancellation of the losers.
//
// Determinism
//
//	Class counts and membership answers are method-independent; class
//	numberings are not, but are stable for a given winning method.
//
// Usage
//
//	cong, _ := congruence.NewFromPresentation(congruence.TwoSided,
//	    congruence.Presentation{
//	        AlphabetSize: 2,
//	        Relations: []word.Relation{
//	            {LHS: word.Word{0, 0, 0}, RHS: word.Word{0}},
//	            {LHS: word.Word{0}, RHS: word.Word{1, 1}},
//	        },
//	    })
//	n, _ := cong.NrClasses() // 5
package congruence
