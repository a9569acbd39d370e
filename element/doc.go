// Package element defines the element contract consumed by the enumeration
// engines, and concrete algebras satisfying it: transformations, partial
// permutations, permutations, boolean matrices, and bipartitions.
//
// What
//
//   - Element is the capability set an enumerable value must provide:
//     degree, a product-cost estimate, a cached fingerprint, equality, a
//     strict total order, an in-place product, and an identity of the same
//     degree.
//   - Products are in-place: z.Product(x, y, scratch) sets z := x·y without
//     allocating. The receiver must be distinct from both operands, and all
//     three must share a degree.
//   - Scratch is an explicit per-worker arena. Algebras whose product needs
//     workspace (bipartitions fuse block tables) draw buffers from it; the
//     caller keeps one Scratch per concurrent worker and never shares it.
//
// Why
//
//   - The Froidure–Pin enumerator performs millions of products and lookups;
//     in-place products plus cached fingerprints keep that allocation-free.
//   - An explicit scratch argument replaces hidden thread-local storage: two
//     workers can never trample each other's buffers by accident.
//
// Fingerprints
//
//	Hash returns a 64-bit digest of the element's payload, computed with
//	BLAKE3 and cached until the next in-place product. Equal elements hash
//	equal; unequal elements may collide, so every index keyed by fingerprint
//	confirms with Equals.
//
// Ordering
//
//	Less is a strict total order on same-degree elements of one algebra.
//	PartialPerm deliberately ships two orders: Less (short-lex on images)
//	and the named comparator PartialPermGAPLess replicating the historical
//	ordering used by GAP.
//
// Complexity (n = degree)
//
//   - Transformation, PartialPerm, Permutation product: O(n)
//   - BooleanMat product: O(n³) worst case
//   - Bipartition product: O(n α(n)) via block fusion
//
// Usage
//
//	x, err := element.NewTransformation([]uint32{1, 3, 4, 2, 3})
//	if err != nil { ... }
//	z := x.Identity()
//	z.Product(x, x, element.NewScratch()) // z = x²
package element
