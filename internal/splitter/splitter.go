// Package splitter provides non-aliasing split access into a slice: an
// exclusive pointer to one element together with read access to every
// other element, addressed by their original indices.
//
// Batch object creation walks a slice of in-progress objects in ascending
// order; the object being created at index i may need to read handles from
// objects at earlier indices (a view reading its buffer) while mutating its
// own slot. Split makes the aliasing rule explicit: the current slot is
// handed out exactly once, and asking the remainder for the current index
// is a programming error that fails fast.
package splitter

import "fmt"

// Rest is a view over all elements of the split slice except the current
// one. Elements keep their original indices. Rest must be treated as
// read-only; callers must not mutate elements reached through Get.
type Rest[T any] struct {
	s       []T
	current int
}

// Split returns an exclusive pointer to s[i] and a Rest covering every
// other element of s.
//
// Split panics if i is outside [0, len(s)).
func Split[T any](s []T, i int) (*T, *Rest[T]) {
	if i < 0 || i >= len(s) {
		panic(fmt.Sprintf("splitter: index %d out of range [0, %d)", i, len(s)))
	}
	return &s[i], &Rest[T]{s: s, current: i}
}

// Len returns the length of the underlying slice, including the current
// element.
func (r *Rest[T]) Len() int { return len(r.s) }

// Get returns the element at index j of the original slice.
//
// Get panics if j is the current index (that element is exclusively held
// by the Split caller) or outside [0, Len()).
func (r *Rest[T]) Get(j int) *T {
	if j == r.current {
		panic(fmt.Sprintf("splitter: index %d is exclusively held", j))
	}
	if j < 0 || j >= len(r.s) {
		panic(fmt.Sprintf("splitter: index %d out of range [0, %d)", j, len(r.s)))
	}
	return &r.s[j]
}
