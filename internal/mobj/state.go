package mobj

// StateTable is the content-defined array of states, addressed by StateID.
// It is read-only after content load (spec.md §1: DDF tables are external
// collaborators the core only consults).
type StateTable []State

// Lookup resolves a StateID, returning (state, ok).
func (t StateTable) Lookup(id StateID) (*State, bool) {
	if id <= 0 || int(id) >= len(t) {
		return nil, false
	}
	return &t[id], true
}

// ActionFunc is the signature every dispatched state action must satisfy.
// The sim package supplies the registry (action id -> ActionFunc); mobj
// itself only stores and invokes ids, per spec.md §9.
type ActionFunc func(m *Mobj)

// Actions is the global action-id -> function table, installed once by the
// sim package at startup. A package-level table keeps P_SetState free of
// an extra parameter threaded through every caller, mirroring the
// teacher's convention of package-level dispatch tables for opcode-style
// lookups (cpu_x86_ops.go's instruction table).
var Actions []ActionFunc

// SetState installs state stnum onto m, sets m.Tics to the state's tic
// count, and runs its action immediately (spec.md §4.5: "Actions run
// immediately on state entry"); Advance does the per-tic decrement. Returns false if stnum does not resolve, which the caller
// should treat as a request to remove the mobj (state 0 conventionally
// means "disappear").
func SetState(table StateTable, m *Mobj, stnum StateID) bool {
	st, ok := table.Lookup(stnum)
	if !ok {
		return false
	}
	m.State = st
	m.StateID = stnum
	m.Tics = st.Tics
	if st.Action != ActionNone && int(st.Action) < len(Actions) && Actions[st.Action] != nil {
		Actions[st.Action](m)
	}
	return true
}

// Advance decrements a mobj's tic counter and follows Next when it reaches
// zero. A negative Tics value means "permanent", never advancing (spec.md
// §4.5). Returns false if the chain ended at state 0, meaning the caller
// should remove the mobj.
func Advance(table StateTable, m *Mobj) bool {
	if m.State == nil || m.Tics < 0 {
		return true
	}
	if m.Tics > 0 {
		m.Tics--
		if m.Tics != 0 {
			return true
		}
	}
	if m.State.Next == 0 {
		return false
	}
	return SetState(table, m, m.State.Next)
}

// StateGroup is one of the content-defined labels the engine transitions
// by instead of numeric id, so content can extend the state table freely
// (spec.md §4.5).
type StateGroup string

const (
	GroupSpawn   StateGroup = "SPAWN"
	GroupSee     StateGroup = "SEE"
	GroupMelee   StateGroup = "MELEE"
	GroupMissile StateGroup = "MISSILE"
	GroupPain    StateGroup = "PAIN"
	GroupDeath   StateGroup = "DEATH"
	GroupXDeath  StateGroup = "XDEATH"
	GroupRaise   StateGroup = "RAISE"
)

// FindGroupStart returns the StateID of the first state in the table
// carrying the given label, or 0 if the content has no such group.
func (t StateTable) FindGroupStart(label StateGroup) StateID {
	for i, s := range t {
		if s.Label == string(label) {
			return StateID(i)
		}
	}
	return 0
}

// SetStateGroup transitions m to the first state of the named group, if
// the content defines one. Returns false (and leaves m unchanged) if the
// group does not exist, matching the classic engine's "missing state group
// is a no-op" tolerance for partial content packs.
func SetStateGroup(table StateTable, m *Mobj, label StateGroup) bool {
	id := table.FindGroupStart(label)
	if id == 0 {
		return false
	}
	return SetState(table, m, id)
}
