// Package toddcoxeter provides coset enumeration for one- and two-sided
// congruences on finitely presented semigroups and on pre-enumerated
// semigroups.
//
// What
//
//   - Enumerate the classes ("cosets") of the least congruence containing a
//     set of generating pairs, over a semigroup given either by a
//     presentation or by a froidurepin enumeration.
//   - Answer: the number of classes, the class of any word, a canonical
//     word for any class, and membership of a pair.
//   - For two-sided congruences, materialize the quotient as a new
//     froidurepin semigroup over lightweight coset pseudo-elements.
//
// Algorithm
//
//	Coset enumeration in the style of the GAP implementation: a coset table
//	with per-generator preimage lists, a doubly-linked active list whose
//	dead entries carry negative "forwarding addresses" to the coset they
//	were merged into, and a stack-driven identification routine. When the
//	active count passes the packing threshold, a lookahead phase applies
//	every relation without defining new cosets to force identifications;
//	the threshold then grows by 10%. On completion the table is compressed
//	to dense indices.
//
// Direction
//
//	Left congruences are computed by reversing every relation and pair;
//	two-sided congruences move the generating pairs into the relation set
//	so they are traced at every coset.
//
// Cancellation
//
//	The engine embeds runner.State and polls the stop flag at the top of
//	the main loop, the lookahead loop, and the identification loop. A
//	stopped enumeration keeps its tables and pending stacks and resumes on
//	the next Run.
//
// Complexity
//
//	Not bounded by any function of the input (the word problem is
//	undecidable); memory is O(active · generators) plus the free list.
//
// Usage
//
//	tc, _ := toddcoxeter.New(toddcoxeter.TwoSided, 2, []word.Relation{
//	    {LHS: word.Word{0, 0, 0}, RHS: word.Word{0}},
//	    {LHS: word.Word{0}, RHS: word.Word{1, 1}},
//	})
//	_ = tc.Run()
//	n, _ := tc.NrClasses() // 5
package toddcoxeter
