// Package specials implements sector thinkers (doors, lifts, plats,
// scrollers, sector damage) and the line trigger/activation model (spec.md
// component E). Thinkers are plain structs with a Tick method, appended to
// one shared Ring the same way the teacher's chip threads are stepped
// once per tic from a central driver rather than given their own
// goroutine.
package specials

import (
	"github.com/brackenfall/doomcore/internal/mobj"
	"github.com/brackenfall/doomcore/internal/worldmap"
)

// Thinker is one active sector special. Tick advances it by one tic and
// reports whether it is finished and should be detached from its sector.
type Thinker interface {
	Tick() (done bool)
}

// Ring holds every active thinker, ticked in insertion order each tic
// (spec.md §4.5 step 4, run after mobj thinkers).
type Ring struct {
	thinkers []Thinker
}

// Add attaches a thinker to the ring and to its sector's Special slot so
// later triggers can detect "already has an active special" (classic
// "busy" gating for doors/plats).
func Add(r *Ring, sec *worldmap.Sector, t Thinker) {
	r.thinkers = append(r.thinkers, t)
	sec.Special = t
}

// Tick advances every thinker, removing the ones that finish.
func (r *Ring) Tick() {
	kept := r.thinkers[:0]
	for _, t := range r.thinkers {
		if !t.Tick() {
			kept = append(kept, t)
		}
	}
	r.thinkers = kept
}

// DoorState is one of the four phases a vertical door cycles through.
type DoorState int

const (
	DoorWaiting DoorState = iota
	DoorOpening
	DoorOpen
	DoorClosing
)

// Door is a ceiling-height thinker: raises to TopHeight, waits, lowers
// back to BottomHeight, repeating unless OneShot (spec.md §4.4).
type Door struct {
	Sector               *worldmap.Sector
	State                DoorState
	Speed                float32
	TopHeight, BottomHeight float32
	WaitTics, waitLeft   int
	OneShot              bool
}

// Tick advances the door one tic. Returns true when a one-shot door has
// finished closing, detaching it from the ring.
func (d *Door) Tick() bool {
	switch d.State {
	case DoorOpening:
		h := d.Sector.Ceiling.Height + d.Speed
		if h >= d.TopHeight {
			h = d.TopHeight
			d.State = DoorWaiting
			d.waitLeft = d.WaitTics
		}
		d.Sector.Ceiling.Height = h
	case DoorWaiting:
		d.waitLeft--
		if d.waitLeft <= 0 {
			d.State = DoorClosing
		}
	case DoorClosing:
		h := d.Sector.Ceiling.Height - d.Speed
		if h <= d.BottomHeight {
			h = d.BottomHeight
			d.Sector.Ceiling.Height = h
			if d.OneShot {
				return true
			}
			d.State = DoorOpening
			return false
		}
		d.Sector.Ceiling.Height = h
	}
	return false
}

// PlatState mirrors DoorState but for floor-height thinkers (lifts/plats).
type PlatState int

const (
	PlatUp PlatState = iota
	PlatDown
	PlatWaitingHigh
	PlatWaitingLow
)

// Plat raises and lowers a sector's floor between LowHeight and
// HighHeight, pausing WaitTics at each end (spec.md §4.4, "analogous" to
// Door).
type Plat struct {
	Sector              *worldmap.Sector
	State                PlatState
	Speed                float32
	LowHeight, HighHeight float32
	WaitTics, waitLeft   int
	OneShot              bool
	done                 bool
}

// Tick advances the plat one tic. Returns true once a one-shot plat has
// completed its single down-then-stop cycle.
func (p *Plat) Tick() bool {
	switch p.State {
	case PlatUp:
		h := p.Sector.Floor.Height + p.Speed
		if h >= p.HighHeight {
			h = p.HighHeight
			p.State = PlatWaitingHigh
			p.waitLeft = p.WaitTics
		}
		p.Sector.Floor.Height = h
	case PlatWaitingHigh:
		p.waitLeft--
		if p.waitLeft <= 0 {
			p.State = PlatDown
		}
	case PlatDown:
		h := p.Sector.Floor.Height - p.Speed
		if h <= p.LowHeight {
			h = p.LowHeight
			p.Sector.Floor.Height = h
			if p.OneShot {
				return true
			}
			p.State = PlatWaitingLow
			p.waitLeft = p.WaitTics
			return false
		}
		p.Sector.Floor.Height = h
	case PlatWaitingLow:
		p.waitLeft--
		if p.waitLeft <= 0 {
			p.State = PlatUp
		}
	}
	return false
}

// Scroller mutates a side's texture offset or a sector's floor/ceiling
// scroll vector every tic (spec.md §4.4). Exactly one of Side or Sector
// should be set.
type Scroller struct {
	Side        *worldmap.Side
	Sector      *worldmap.Sector
	OnCeiling   bool
	DX, DY      float32
}

// Tick applies one tic of scroll offset. Scrollers never finish on their
// own; they are removed only when their owning sector/line is torn down,
// which this package does not model.
func (s *Scroller) Tick() bool {
	if s.Side != nil {
		s.Side.ScrollX += s.DX
		s.Side.ScrollY += s.DY
		return false
	}
	if s.Sector != nil {
		if s.OnCeiling {
			s.Sector.Ceiling.ScrollX += s.DX
			s.Sector.Ceiling.ScrollY += s.DY
		} else {
			s.Sector.Floor.ScrollX += s.DX
			s.Sector.Floor.ScrollY += s.DY
		}
	}
	return false
}

// DamageCooldown is the per-mobj, per-sector damage-tic tracker: classic
// sector damage only hurts once every few tics, not every tic (spec.md
// §4.4 "per-mobj cooldown").
type DamageCooldown struct {
	left map[uint64]int
}

// NewDamageCooldown creates an empty cooldown tracker.
func NewDamageCooldown() *DamageCooldown {
	return &DamageCooldown{left: make(map[uint64]int)}
}

// ApplyDamage checks every mobj touching sec; for each one whose cooldown
// has expired, it calls damage with sec.Props.Damage and resets the
// cooldown to period tics. Mobjs immune to floor damage (flying, or
// carrying a radiation suit — a content-defined predicate) are skipped via
// the immune callback.
func (dc *DamageCooldown) ApplyDamage(sec *worldmap.Sector, period int, damage func(m *mobj.Mobj, amount int), immune func(m *mobj.Mobj) bool) {
	if sec.Props.Damage == 0 {
		return
	}
	for _, ref := range sec.Things {
		m, ok := ref.(*mobj.Mobj)
		if !ok {
			continue
		}
		if immune != nil && immune(m) {
			continue
		}
		id := m.TouchID()
		if left, tracked := dc.left[id]; tracked && left > 0 {
			dc.left[id] = left - 1
			continue
		}
		damage(m, sec.Props.Damage)
		dc.left[id] = period
	}
}
