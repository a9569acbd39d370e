// Package lvlsemi is your in-memory toolkit for computing with finitely
// generated semigroups, monoids, and congruences on them — from concrete
// element algebras to coset enumeration and racing solvers.
//
// 🚀 What is lvlsemi?
//
//	A modern algorithmic library that brings together:
//		• Element algebras: transformations, partial permutations,
//		  boolean matrices, permutations
//		• Froidure–Pin enumeration: elements, Cayley graphs, shortest
//		  factorisations, defining rules, idempotents
//		• Todd–Coxeter coset enumeration: left, right and two-sided
//		  congruences, quotient semigroups
//		• Knuth–Bendix completion: confluent rewriting systems and
//		  word-equality testing
//		• A race harness that runs several solvers concurrently and
//		  returns the first to finish
//
// ✨ Why choose lvlsemi?
//
//   - Minimal API, clear, intuitive naming
//   - Cooperative cancellation – every long loop honors its context
//   - Resumable engines – a cancelled enumeration picks up where it left off
//   - Extensible – any type satisfying the element contract enumerates
//
// Under the hood, everything is organized under these subpackages:
//
//	element/     — the element contract + concrete algebras
//	word/        — words over a generating alphabet, relations
//	froidurepin/ — the Froidure–Pin enumerator
//	toddcoxeter/ — the Todd–Coxeter coset enumerator
//	knuthbendix/ — string rewriting and Knuth–Bendix completion
//	runner/      — runner lifecycle and the race harness
//	congruence/  — the high-level congruence driver
//
// Quick ASCII example:
//
//	    ⟨a,b │ a³=a, a=b²⟩
//
//	a five-element semigroup, enumerated by froidurepin or presented to
//	toddcoxeter — both agree on its multiplication table.
//
// Dive into the package docs for full examples and the algorithm notes.
//
//	go get github.com/katalvlaran/lvlsemi
package lvlsemi
