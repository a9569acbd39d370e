// Package knuthbendix provides string rewriting systems over a generating
// alphabet and Knuth–Bendix completion.
//
// What
//
//   - Maintain a set of rewriting rules oriented by the short-lex order
//     (longer words rewrite to shorter, ties broken lexicographically).
//   - Complete the system by resolving overlaps between rule left-hand
//     sides until it is confluent, so that every word has a unique normal
//     form and word equality is decidable by rewriting.
//   - Materialize the rewritten semigroup as a froidurepin enumeration over
//     normal-form pseudo-elements, giving class counts and indices for
//     two-sided congruence queries.
//
// Why
//
//	Knuth–Bendix and Todd–Coxeter have incomparable behavior: each finishes
//	on inputs where the other diverges. The congruence driver races this
//	engine against coset enumeration for presentation-sourced congruences.
//
// Cancellation
//
//	The engine embeds runner.State and polls the stop flag once per
//	completion round and while draining the pending-rule stack. A stopped
//	completion keeps its rules and pending stack and resumes on the next
//	Run.
//
// Termination
//
//	Completion may never terminate (the word problem is undecidable); pair
//	it with a deadline or a race.
//
// Usage
//
//	kb, _ := knuthbendix.New(2, []word.Relation{
//	    {LHS: word.Word{0, 0, 0}, RHS: word.Word{0}},
//	    {LHS: word.Word{0}, RHS: word.Word{1, 1}},
//	})
//	_ = kb.Run()
//	eq, _ := kb.Equal(word.Word{0, 0}, word.Word{1, 1, 1, 1}) // true
package knuthbendix
