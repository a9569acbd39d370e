// Package word provides the value types shared by every engine in lvlsemi:
// words over a generating alphabet and relations between them.
//
// What
//
//   - A Word is a finite sequence of generator indices (letters).
//   - A Relation is an ordered pair of words asserted to evaluate to equal
//     elements of a semigroup.
//   - Validation helpers check every letter against an alphabet size and
//     report ErrInvalidWord otherwise.
//
// Why
//
//   - Presentations, defining rules, factorisations and congruence pairs are
//     all words; a single value type keeps the engines interoperable.
//
// Determinism
//
//	Words are plain slices: value semantics are the caller's responsibility.
//	Reversed and Clone always allocate, so an engine may retain its argument
//	without aliasing surprises.
//
// Complexity
//
//   - Validate: O(len(w))
//   - Reversed, Clone: O(len(w)) time and memory
package word
