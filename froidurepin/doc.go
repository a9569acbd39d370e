// Package froidurepin provides the Froidure–Pin enumeration of a finite
// semigroup from a generating set satisfying the element contract.
//
// What
//
//   - Enumerate every element of ⟨g₀, …, g₋₁⟩, assigning each a dense index
//     in insertion (short-lex) order.
//   - Maintain, for every element: the right and left Cayley graphs, the
//     first and final letter, the prefix and suffix links of its shortest
//     factorisation, and its word length.
//   - Collect the defining rules of the semigroup (one per rejected
//     product), the idempotents, and a sorted view under the element order.
//
// Why
//
//   - The Cayley graphs and rules feed the coset enumerator: Todd–Coxeter
//     either prefills its coset table from a Cayley graph or traces the
//     rules as relations.
//   - Shortest factorisations let products be computed by two graph walks
//     instead of one (possibly expensive) element multiplication; see
//     FastProduct.
//
// Algorithm
//
//	The classical breadth-first closure: multiply each known element on the
//	right by every generator in order. A hash-miss appends a new element
//	whose prefix is the multiplicand; a hit records a defining rule. When a
//	length-class is exhausted, the left Cayley graph of the class is filled
//	in using already-known factorisations, so at most one real product is
//	performed per (element, generator) pair.
//
// Determinism
//
//	Indices are insertion order, which depends only on the generator order;
//	the enumeration is fully reproducible.
//
// Cancellation
//
//	Enumerate polls the configured context between batches of BatchSize
//	element insertions; a cancelled enumeration keeps all progress and may
//	be resumed by any enumerating call.
//
// Complexity (n = |S|, g = generators, c = product cost)
//
//   - Time:   O(n·g·c) products worst case, usually far fewer
//   - Memory: O(n·g) for the two Cayley graphs
//
// Usage
//
//	a, _ := element.NewTransformation([]uint32{1, 3, 4, 2, 3})
//	b, _ := element.NewTransformation([]uint32{3, 2, 1, 3, 3})
//	s, err := froidurepin.New([]element.Element{a, b})
//	if err != nil { ... }
//	n, err := s.Size() // 88
package froidurepin
