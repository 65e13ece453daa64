// Package mobj implements the dynamic map-object system: allocation, the
// state machine, the global registry and the weak-reference discipline
// used for source/target/tracer/supportobj pointers (spec.md component C).
//
// Cyclic pointer graphs among mobjs are represented as arena indices with a
// per-index generation counter (spec.md §9): a Ref is {index, generation}
// and resolves to nil once the generation no longer matches, rather than
// dangling.
package mobj

// Ref is a weak reference to a Mobj slot in an Arena.
type Ref struct {
	index      int
	generation uint32
}

// Nil is the zero-value "no reference" Ref. It never matches a live slot
// because generations start at 1.
var Nil = Ref{}

// valid reports whether the Ref was ever assigned.
func (r Ref) valid() bool {
	return r.generation != 0
}
