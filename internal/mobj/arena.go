package mobj

// slot holds one arena entry: the mobj (nil if the slot is free) and the
// generation counter that invalidates old Refs once the slot is reused.
type slot struct {
	m          *Mobj
	generation uint32
}

// Arena is the global mobj registry (spec.md §3.2 item 1): every live mobj
// lives in exactly one slot, addressed by a generation-checked Ref so
// cyclic source/target/tracer/supportobj graphs never dangle.
type Arena struct {
	slots []slot
	free  []int
	// order is the iteration order for P_Ticker's thinker pass: Spawn
	// appends the new index, and RunRemoveQueue drops freed indices while
	// keeping the rest in order.
	order []int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Spawn installs m into a free slot and returns its Ref. The caller is
// responsible for the rest of spawning (subsector/blockmap/touch graph,
// spec.md §3.2's Spawn contract lives in internal/engine's SpawnMobj,
// which calls this first and then spatial.PlaceAt).
func (a *Arena) Spawn(m *Mobj) Ref {
	var idx int
	if len(a.free) > 0 {
		idx = a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
		a.slots[idx].generation++
	} else {
		idx = len(a.slots)
		a.slots = append(a.slots, slot{generation: 1})
	}
	a.slots[idx].m = m
	m.self = Ref{index: idx, generation: a.slots[idx].generation}
	m.generation = a.slots[idx].generation
	a.order = append(a.order, idx)
	return m.self
}

// Resolve dereferences a Ref, returning nil if the slot has been reused or
// freed since the Ref was taken.
func (a *Arena) Resolve(r Ref) *Mobj {
	if !r.valid() || r.index < 0 || r.index >= len(a.slots) {
		return nil
	}
	s := &a.slots[r.index]
	if s.generation != r.generation || s.m == nil {
		return nil
	}
	return s.m
}

// RequestRemove begins the two-phase removal (spec.md §3.2): it flags the
// mobj REMOVED immediately but does not free the slot until the refcount
// drops to zero, which RunRemoveQueue checks at the end of each tic.
func (a *Arena) RequestRemove(m *Mobj) {
	m.removed = true
	m.Flags |= FlagRemoved
}

// RunRemoveQueue is step 6 of the per-tic ordering (spec.md §4.5): unlink
// and free every REMOVED mobj whose refcount is zero. Mobjs with a
// positive refcount are retried on a later tic.
func (a *Arena) RunRemoveQueue(unlink func(*Mobj)) {
	kept := a.order[:0]
	for _, idx := range a.order {
		s := &a.slots[idx]
		if s.m == nil {
			continue
		}
		if s.m.removed && s.m.refcount == 0 {
			unlink(s.m)
			s.m = nil
			a.free = append(a.free, idx)
			continue
		}
		kept = append(kept, idx)
	}
	a.order = kept
}

// Each calls fn for every live mobj, in registry order.
func (a *Arena) Each(fn func(*Mobj)) {
	for _, idx := range a.order {
		if s := &a.slots[idx]; s.m != nil {
			fn(s.m)
		}
	}
}

// Count returns the number of live mobjs.
func (a *Arena) Count() int {
	return len(a.order)
}

// setRef is the shared implementation for the four weak-reference setters:
// clearing the old referent decrements its refcount (and may allow a
// pending removal to finalize at the next RunRemoveQueue), setting the
// new one increments it.
func (a *Arena) setRef(old *Ref, r Ref) {
	if old.valid() {
		if prev := a.Resolve(*old); prev != nil {
			prev.refcount--
		}
	}
	*old = r
	if r.valid() {
		if next := a.Resolve(r); next != nil {
			next.refcount++
		}
	}
}

// SetSource sets m.source to target, following the refcount discipline.
func (a *Arena) SetSource(m *Mobj, target Ref) { a.setRef(&m.source, target) }

// SetTarget sets m.target to target.
func (a *Arena) SetTarget(m *Mobj, target Ref) { a.setRef(&m.target, target) }

// SetTracer sets m.tracer to target.
func (a *Arena) SetTracer(m *Mobj, target Ref) { a.setRef(&m.tracer, target) }

// SetSupportObj sets m.supportobj to target.
func (a *Arena) SetSupportObj(m *Mobj, target Ref) { a.setRef(&m.supportobj, target) }

// Source/Target/Tracer/SupportObj resolve the corresponding weak
// reference, returning nil if it points at nothing or at a freed slot.
func (a *Arena) Source(m *Mobj) *Mobj      { return a.Resolve(m.source) }
func (a *Arena) Target(m *Mobj) *Mobj      { return a.Resolve(m.target) }
func (a *Arena) Tracer(m *Mobj) *Mobj      { return a.Resolve(m.tracer) }
func (a *Arena) SupportObj(m *Mobj) *Mobj  { return a.Resolve(m.supportobj) }

// SweepStaleRefs is the "every other tic" pass (spec.md §3.2) that nulls
// any of the four weak references pointing at a REMOVED mobj, bounding how
// long a dangling-but-not-yet-freed reference can be observed.
func (a *Arena) SweepStaleRefs() {
	clear := func(r *Ref) {
		if !r.valid() {
			return
		}
		target := a.Resolve(*r)
		if target == nil || target.removed {
			if target != nil {
				target.refcount--
			}
			*r = Nil
		}
	}
	a.Each(func(m *Mobj) {
		clear(&m.source)
		clear(&m.target)
		clear(&m.tracer)
		clear(&m.supportobj)
	})
}

// RefCount exposes a mobj's current weak-reference refcount, used by the
// §8 testable-property check (sum over all mobjs of "m appears as
// source/target/tracer/supportobj" equals m.refcount).
func RefCount(m *Mobj) int {
	return m.refcount
}
