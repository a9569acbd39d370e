// This file declares the Element interface, the Scratch arena, sentinel
// errors, and the shared fingerprint helper.
//
// Errors:
//
//	ErrInvalidElement  - payload fails the algebra's construction checks.
//	ErrDegreeMismatch  - operands of an operation have unequal degrees.
package element

import (
	"encoding/binary"
	"errors"

	"lukechampine.com/blake3"
)

// Sentinel errors for element construction and combination.
var (
	// ErrInvalidElement indicates a payload violating the algebra's checks,
	// e.g. a transformation image outside [0, degree).
	ErrInvalidElement = errors.New("element: invalid element")

	// ErrDegreeMismatch indicates operands of unequal degree.
	ErrDegreeMismatch = errors.New("element: degree mismatch")
)

// Element is the contract every enumerable value satisfies.
//
// Implementations are mutable only through Product; all other methods are
// read-only. Engines treat two elements as interchangeable exactly when
// Equals reports true.
type Element interface {
	// Degree returns the size of the underlying carrier. Products of
	// same-degree operands have the same degree.
	Degree() int

	// Complexity estimates the cost of one Product call, in the same units
	// as one Cayley-graph edge traversal. Enumerators compare it against
	// factorisation lengths to choose between multiplying and walking.
	Complexity() int

	// Hash returns the cached 64-bit BLAKE3 fingerprint of the payload.
	Hash() uint64

	// Equals reports payload equality. Arguments of a different concrete
	// type or degree are never equal.
	Equals(other Element) bool

	// Less is a strict total order on same-degree elements of one algebra,
	// used only for the sorted-positions view.
	Less(other Element) bool

	// Product sets the receiver to x·y. The receiver must be distinct from
	// x and y, and all three must have equal degree. The scratch arena must
	// not be shared between concurrent Product calls.
	Product(x, y Element, s *Scratch)

	// Identity returns a fresh identity element of the same degree:
	// Identity()·e == e·Identity() == e for every same-degree e.
	Identity() Element

	// Clone returns an independent deep copy.
	Clone() Element
}

// Scratch is a per-worker arena for product workspace. One Scratch serves
// any number of sequential Product calls; concurrent workers each own one.
type Scratch struct {
	fuse   []uint32
	lookup []uint32
}

// NewScratch returns an empty arena. Buffers grow on demand and are reused.
func NewScratch() *Scratch {
	return &Scratch{}
}

// pair returns two uint32 buffers of length n, reusing capacity. The first
// buffer holds the identity map (entry i is i); the second is filled with
// the undefined marker.
func (s *Scratch) pair(n int) (fuse, lookup []uint32) {
	if cap(s.fuse) < n {
		s.fuse = make([]uint32, n)
		s.lookup = make([]uint32, n)
	}
	fuse = s.fuse[:n]
	lookup = s.lookup[:n]
	for i := 0; i < n; i++ {
		fuse[i] = uint32(i)
		lookup[i] = undefined
	}
	return fuse, lookup
}

// undefined marks an absent image or an unassigned block.
const undefined = ^uint32(0)

// fingerprint digests a payload of uint32 values, domain-separated by a
// per-algebra tag so equal payloads of different algebras never collide by
// construction.
func fingerprint(tag byte, payload []uint32) uint64 {
	buf := make([]byte, 1+4*len(payload))
	buf[0] = tag
	for i, v := range payload {
		binary.LittleEndian.PutUint32(buf[1+4*i:], v)
	}
	sum := blake3.Sum256(buf)
	return binary.LittleEndian.Uint64(sum[:8])
}

// Algebra tags for fingerprint domain separation.
const (
	tagTransformation byte = iota + 1
	tagPartialPerm
	tagPermutation
	tagBooleanMat
	tagBipartition
	tagExternal
)

// FingerprintBytes digests an arbitrary payload for Element implementations
// outside this package. The engines only require that equal payloads digest
// equal.
func FingerprintBytes(payload []byte) uint64 {
	buf := make([]byte, 1+len(payload))
	buf[0] = tagExternal
	copy(buf[1:], payload)
	sum := blake3.Sum256(buf)
	return binary.LittleEndian.Uint64(sum[:8])
}
