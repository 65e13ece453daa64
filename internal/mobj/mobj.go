package mobj

import "github.com/brackenfall/doomcore/internal/worldmap"

// Flags are the classic mobj behavior bits.
type Flags uint32

const (
	FlagSolid Flags = 1 << iota
	FlagShootable
	FlagNoBlockmap
	FlagNoSector
	FlagNoGravity
	FlagDropoff
	FlagPickup
	FlagMissile
	FlagFloat
	FlagSkullFly
	FlagCorpse
	FlagRemoved
)

// ExtendedFlags and HyperFlags are separate bit-spaces (MBF21-style
// extensions); kept as distinct types so a content pack can define new
// bits in either without colliding with the base set.
type ExtendedFlags uint32
type HyperFlags uint32

const (
	// ExtNoDropoff marks a mobj (typically a flying or tethered monster)
	// that must never step down a ledge taller than the stricter monster
	// step limit, even though it otherwise has normal ground clearance.
	ExtNoDropoff ExtendedFlags = 1 << iota
)

// Info is the (read-only, content-table) definition a Mobj is spawned
// from. Action functions are looked up by name from the content's DDF
// tables; the core only stores the looked-up ActionID (spec.md §9: "do
// not reuse host-language inheritance").
type Info struct {
	Name          string
	SpawnState    StateID
	SeeState      StateID
	PainState     StateID
	MeleeState    StateID
	MissileState  StateID
	DeathState    StateID
	XDeathState   StateID
	RaiseState    StateID
	SpawnHealth   int
	Radius        float32
	Height        float32
	Speed         float32
	Mass          float32
	Flags         Flags
	ExtendedFlags ExtendedFlags
	HyperFlags    HyperFlags
}

// Mobj is a dynamic in-world entity: monster, projectile, pickup, or a
// player's avatar (spec.md §3.2).
type Mobj struct {
	self Ref // this mobj's own slot, for TouchID()

	X, Y, Z          float32
	MomX, MomY, MomZ float32
	Radius, Height   float32
	Angle, VAngle    uint32 // BAM; vertical angle for mlook

	Def     *Info
	State   *State
	StateID StateID
	Tics    int

	Health int
	Flags  Flags
	ExtendedFlags ExtendedFlags
	HyperFlags    HyperFlags

	Player int // index into the player array, or -1

	// Weak references, each with explicit refcount discipline (spec.md
	// §3.2): setting increments the referent's refcount, clearing
	// decrements it and may finalize a REMOVED mobj.
	source, target, tracer, supportobj Ref

	refcount int

	Subsector *worldmap.Subsector
	OnGround  bool
	FloorZ, CeilZ float32

	removed     bool // request phase of the two-phase removal
	generation  uint32
}

// TouchID satisfies worldmap.MobjRef: a stable identity for touch-list
// membership, independent of slice reallocation.
func (m *Mobj) TouchID() uint64 {
	return uint64(m.self.generation)<<32 | uint64(m.self.index)
}

// Self returns this mobj's own arena Ref, for callers that need to point
// another mobj's weak reference back at it (e.g. a save/load pass
// reconnecting source/target/tracer/supportobj by index).
func (m *Mobj) Self() Ref {
	return m.self
}

// StateID names a state by content-table index. Zero means "no state" /
// permanent removal trigger.
type StateID int

// State is one frame of a mobj's animation plus the action that runs on
// entry (spec.md §4.5).
type State struct {
	Sprite int
	Frame  int
	Tics   int // negative means permanent, no advance
	Action ActionID
	Next   StateID
	Label  string // state-group label: SPAWN, SEE, MELEE, MISSILE, PAIN, DEATH, XDEATH, RAISE
}

// ActionID is a tagged-variant action identifier dispatched by the sim's
// action table, per spec.md §9 ("tagged-variant action ids dispatched by a
// switch ... Do not reuse host-language inheritance").
type ActionID int

const ActionNone ActionID = 0
