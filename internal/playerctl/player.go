// Package playerctl implements ticcmd-driven player movement, the
// weapon-slot state machine, and ammo/inventory/counter stock accounting
// (spec.md component F).
package playerctl

import (
	"github.com/brackenfall/doomcore/internal/mobj"
)

// Sentinel weapon-slot values (spec.md §4.6).
const (
	WeaponNoChange = -2
	WeaponNone     = -1
)

// MaxPlayers is the classic slot count; empty slots are nil in the
// containing array (spec.md §3.3).
const MaxPlayers = 16

// MaxWeaponSlots bounds ReadyWeapon/PendingWeapon and the weapon array.
const MaxWeaponSlots = 10

// Ticcmd is one tic's worth of player input (spec.md §6 wire layout; the
// codec lives in internal/netio, this is the decoded in-memory form).
type Ticcmd struct {
	AngleTurn  int16
	MlookTurn  int16
	PlayerIdx  int16
	Forward    int8
	Side       int8
	Up         int8
	Buttons    uint8
	ExtButtons uint16
	ChatChar   uint8
}

// Button bits (spec.md §6).
const (
	ButtonAttack uint8 = 1 << iota
	ButtonUse
	ButtonChangeWeapon
	_weaponSlotBit3
	_weaponSlotBit4
	_weaponSlotBit5
	_weaponSlotBit6
)

// WeaponSlotFromButtons extracts the 4-bit weapon-slot field (bits 3..6).
func WeaponSlotFromButtons(buttons uint8) int {
	return int((buttons >> 3) & 0x0F)
}

// Stock is a bounded resource: ammo, an inventory item, or a counter
// (spec.md §3.3, "each being {count, maximum}").
type Stock struct {
	Count, Max int
}

// Add increments Count, clamped to Max. Returns the amount actually added.
func (s *Stock) Add(n int) int {
	before := s.Count
	s.Count += n
	if s.Count > s.Max {
		s.Count = s.Max
	}
	return s.Count - before
}

// Spend decrements Count by n if there's enough, returning false (and
// leaving Count unchanged) otherwise.
func (s *Stock) Spend(n int) bool {
	if s.Count < n {
		return false
	}
	s.Count -= n
	return true
}

// WeaponState is the lower/ready/raise animation phase a weapon passes
// through on a pending switch (spec.md §4.6).
type WeaponState int

const (
	WeaponReady WeaponState = iota
	WeaponLowering
	WeaponRaising
)

// AttackDef describes one of a weapon's up to 4 attack buttons: which
// ammo it spends, how much per shot, and an optional clip. An attack with
// a clip fires only from the clip; Reload refills it from the reserve.
type AttackDef struct {
	AmmoType  int
	Cost      int
	ClipSize  int // 0 = no clip, spend directly from reserve
	SharedClip bool
}

// Weapon is one entry in a player's weapon array.
type Weapon struct {
	Name    string
	Attacks [4]*AttackDef
	// clip holds the current round count per attack slot, or a single
	// shared value at index 0 when any attack has SharedClip set.
	clip [4]int
	Owned bool
}

// Player holds the per-slot state spec.md §3.3 names.
type Player struct {
	Mobj mobj.Ref

	ViewHeight float32
	BobPhase   float32

	Weapons       [MaxWeaponSlots]*Weapon
	ReadyWeapon   int
	PendingWeapon int
	weaponState   WeaponState
	lowerFrame    int

	Ammo      map[int]*Stock
	Armor     map[int]*Stock
	Inventory map[int]*Stock
	Counters  map[int]*Stock

	Cards  uint32
	Powers map[int]int
	Frags  int

	DamageFlash int

	AttackButtonDown [4]bool

	Cmd Ticcmd
}

// NewPlayer creates an empty player with no weapon and empty stocks.
func NewPlayer() *Player {
	return &Player{
		ReadyWeapon:   WeaponNone,
		PendingWeapon: WeaponNoChange,
		Ammo:          make(map[int]*Stock),
		Armor:         make(map[int]*Stock),
		Inventory:     make(map[int]*Stock),
		Counters:      make(map[int]*Stock),
		Powers:        make(map[int]int),
	}
}

// SelectWeapon requests a switch to slot, which only takes effect once the
// current weapon's lower sequence completes (spec.md §4.6). A request
// naming the already-ready weapon is ignored.
func (p *Player) SelectWeapon(slot int) {
	if slot == p.ReadyWeapon || slot < 0 || slot >= MaxWeaponSlots || p.Weapons[slot] == nil || !p.Weapons[slot].Owned {
		return
	}
	p.PendingWeapon = slot
	if p.weaponState == WeaponReady {
		p.weaponState = WeaponLowering
		p.lowerFrame = 0
	}
}

// AdvanceWeaponState steps the lower/raise sequence by one tic. lowerFrames
// and raiseFrames are the content-defined sprite counts for the current
// and pending weapons respectively. The switch commits — ReadyWeapon
// becomes PendingWeapon — only when the lower sequence reaches its last
// frame (spec.md §4.6).
func (p *Player) AdvanceWeaponState(lowerFrames, raiseFrames int) {
	switch p.weaponState {
	case WeaponLowering:
		p.lowerFrame++
		if p.lowerFrame >= lowerFrames {
			p.ReadyWeapon = p.PendingWeapon
			p.PendingWeapon = WeaponNoChange
			p.weaponState = WeaponRaising
			p.lowerFrame = 0
		}
	case WeaponRaising:
		p.lowerFrame++
		if p.lowerFrame >= raiseFrames {
			p.weaponState = WeaponReady
			p.lowerFrame = 0
		}
	}
}

// clipIndex resolves which clip counter an attack slot draws from: shared
// clip weapons always use index 0.
func clipIndex(w *Weapon, attack int) int {
	if w.Attacks[attack] != nil && w.Attacks[attack].SharedClip {
		return 0
	}
	return attack
}

// Fire attempts to spend one shot from attack slot idx of the ready
// weapon: from its clip if the attack has one, otherwise from the ammo
// reserve. Returns false if there isn't enough ammo to fire; an empty
// clip is not refilled from the reserve here (see Reload).
func (p *Player) Fire(idx int) bool {
	if p.ReadyWeapon < 0 || p.ReadyWeapon >= MaxWeaponSlots {
		return false
	}
	w := p.Weapons[p.ReadyWeapon]
	if w == nil || idx < 0 || idx >= 4 || w.Attacks[idx] == nil {
		return false
	}
	atk := w.Attacks[idx]
	ci := clipIndex(w, idx)

	if atk.ClipSize > 0 {
		if w.clip[ci] <= 0 {
			return false
		}
		w.clip[ci] -= atk.Cost
		if w.clip[ci] < 0 {
			w.clip[ci] = 0
		}
		return true
	}

	stock, ok := p.Ammo[atk.AmmoType]
	if !ok {
		return false
	}
	return stock.Spend(atk.Cost)
}

// Reload refills attack slot idx's clip from the reserve ammo stock, up to
// ClipSize, consuming the corresponding reserve units.
func (p *Player) Reload(idx int) bool {
	if p.ReadyWeapon < 0 || p.ReadyWeapon >= MaxWeaponSlots {
		return false
	}
	w := p.Weapons[p.ReadyWeapon]
	if w == nil || idx < 0 || idx >= 4 || w.Attacks[idx] == nil || w.Attacks[idx].ClipSize == 0 {
		return false
	}
	atk := w.Attacks[idx]
	ci := clipIndex(w, idx)
	need := atk.ClipSize - w.clip[ci]
	if need <= 0 {
		return false
	}
	stock, ok := p.Ammo[atk.AmmoType]
	if !ok || stock.Count == 0 {
		return false
	}
	take := need
	if take > stock.Count {
		take = stock.Count
	}
	stock.Count -= take
	w.clip[ci] += take
	return true
}
