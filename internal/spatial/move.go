// Package spatial implements BSP-guided spatial queries and the movement/
// collision model: PointInSubsector, line-of-sight, projectile/hitscan
// traces, TryMove, SlideMove and Z movement (spec.md component D).
package spatial

import (
	"math"

	"github.com/brackenfall/doomcore/internal/mobj"
	"github.com/brackenfall/doomcore/internal/worldmap"
)

// MaxStepHeight is the default step-up allowance for most mobjs; monsters
// not permitted to drop off use MaxStepHeightMonster instead (spec.md
// §4.3).
const (
	MaxStepHeight        = 24.0
	MaxStepHeightMonster = 16.0
)

// World bundles the map data and the live mobj arena that movement needs,
// so the collision routines don't take five separate parameters.
type World struct {
	Map   *worldmap.World
	Arena *mobj.Arena
}

// opening is the vertical gap a line presents at a given (x,y), after
// extrafloors and slopes are folded in (spec.md §4.3 step 2).
type opening struct {
	floor, ceiling float32
	stepHeight     float32 // floor minus the mover's current floor
}

// lineOpening computes the passable opening through a two-sided line,
// taking the higher of the two floors and the lower of the two ceilings,
// then narrowing further for any extrafloor whose footprint covers the
// crossing point.
func lineOpening(l *worldmap.Line, x, y float32) opening {
	if !l.TwoSided() {
		return opening{floor: 1e9, ceiling: -1e9} // impassable: inverted range
	}
	ff := l.FrontSector.Floor.HeightAt(x, y)
	bf := l.BackSector.Floor.HeightAt(x, y)
	fc := l.FrontSector.Ceiling.HeightAt(x, y)
	bc := l.BackSector.Ceiling.HeightAt(x, y)

	floor := ff
	if bf > floor {
		floor = bf
	}
	ceil := fc
	if bc < ceil {
		ceil = bc
	}

	floor = narrowForExtrafloors(l.FrontSector, floor, ceil)
	floor = narrowForExtrafloors(l.BackSector, floor, ceil)

	return opening{floor: floor, ceiling: ceil}
}

// narrowForExtrafloors raises floor to the top of any solid extrafloor
// whose band falls within [floor, ceil), which is how 3D floors narrow a
// line's opening (spec.md §4.3).
func narrowForExtrafloors(s *worldmap.Sector, floor, ceil float32) float32 {
	for _, ef := range s.Extrafloors {
		if ef.Liquid {
			continue
		}
		if ef.Bottom >= floor && ef.Top <= ceil {
			if ef.Top > floor {
				floor = ef.Top
			}
		}
	}
	return floor
}

// BBoxAt returns the axis-aligned bounding box a mobj's radius would
// occupy centered at (x,y).
func BBoxAt(m *mobj.Mobj, x, y float32) worldmap.BBox {
	return worldmap.BBox{
		Top: y + m.Radius, Bottom: y - m.Radius,
		Left: x - m.Radius, Right: x + m.Radius,
	}
}

// TryMove attempts to relocate m to (newx, newy), applying the full
// collision contract of spec.md §4.3: line openings (incl. extrafloors and
// slopes), step height, and solid-thing overlap, modified by whether m is
// a passable projectile. On success it relinks m into its new
// subsector/blockmap/touch lists and returns true; on failure it leaves m
// untouched and returns false.
func (w *World) TryMove(m *mobj.Mobj, newx, newy float32) bool {
	box := BBoxAt(m, newx, newy)

	maxStep := MaxStepHeight
	if m.ExtendedFlags&mobj.ExtNoDropoff != 0 {
		maxStep = MaxStepHeightMonster
	}

	for _, l := range w.Map.Blockmap.LinesNear(box) {
		if !lineCrossesBox(l, box) {
			continue
		}
		op := lineOpening(l, newx, newy)
		if op.ceiling-op.floor < m.Height {
			return false
		}
		if op.floor-m.FloorZ > maxStep {
			return false
		}
	}

	for _, t := range w.Map.Blockmap.ThingsNear(box) {
		other, ok := t.(*mobj.Mobj)
		if !ok || other == m {
			continue
		}
		if other.Flags&mobj.FlagSolid == 0 {
			continue
		}
		if !boxesOverlap(box, BBoxAt(other, other.X, other.Y)) {
			continue
		}
		if m.Flags&mobj.FlagMissile != 0 && passMissile(m, other) {
			continue
		}
		return false
	}

	w.relink(m, newx, newy)
	return true
}

// passMissile reports whether a projectile is allowed to pass through a
// solid thing (e.g. same-species projectiles, per content "pass_missile"
// rules). The core only exposes the hook point; the actual rule table is
// content-defined, so this defaults to false (blocking) unless a caller
// installs PassMissileFunc.
var PassMissileFunc func(missile, other *mobj.Mobj) bool

func passMissile(missile, other *mobj.Mobj) bool {
	if PassMissileFunc == nil {
		return false
	}
	return PassMissileFunc(missile, other)
}

func lineCrossesBox(l *worldmap.Line, box worldmap.BBox) bool {
	lineBox := worldmap.BBox{
		Top:    maxf(l.V1.Y, l.V2.Y),
		Bottom: minf(l.V1.Y, l.V2.Y),
		Left:   minf(l.V1.X, l.V2.X),
		Right:  maxf(l.V1.X, l.V2.X),
	}
	return box.Overlaps(lineBox)
}

func boxesOverlap(a, b worldmap.BBox) bool {
	return a.Overlaps(b)
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// relink moves m's position and updates its subsector/blockmap membership.
// Sector-special activation on newly entered sectors and line-crossing
// triggers are not fired here; internal/engine's tickPlayer fires
// Walk-class triggers after a successful TryMove.
func (w *World) relink(m *mobj.Mobj, newx, newy float32) {
	if m.Subsector != nil {
		w.Map.Blockmap.UnlinkThing(m.X, m.Y, m)
		removeFromSlice(&m.Subsector.Things, m)
	}
	m.X, m.Y = newx, newy
	ss := w.Map.BSP.PointInSubsector(newx, newy)
	m.Subsector = ss
	if ss != nil {
		ss.Things = append(ss.Things, m)
		m.FloorZ = ss.Sector.Floor.HeightAt(newx, newy)
		m.CeilZ = ss.Sector.Ceiling.HeightAt(newx, newy)
	}
	w.Map.Blockmap.LinkThing(newx, newy, m)
}

// PlaceAt links a freshly spawned mobj (one with no prior subsector) into
// the subsector/blockmap it belongs in at (x,y,z) — the placement half of
// spec.md §3.2's Spawn contract, shared with TryMove/SlideMove's relink.
func (w *World) PlaceAt(m *mobj.Mobj, x, y, z float32) {
	w.relink(m, x, y)
	m.Z = z
}

func removeFromSlice(list *[]worldmap.MobjRef, m *mobj.Mobj) {
	s := *list
	for i, t := range s {
		if t.TouchID() == m.TouchID() {
			s[i] = s[len(s)-1]
			*list = s[:len(s)-1]
			return
		}
	}
}

// SlideMove decomposes velocity along a blocking line's tangent and
// retries with the tangential remainder, up to 3 iterations (spec.md §4.3
// / §8 scenario 3).
func (w *World) SlideMove(m *mobj.Mobj) {
	vx, vy := m.MomX, m.MomY
	for i := 0; i < 3; i++ {
		nx, ny := m.X+vx, m.Y+vy
		if w.TryMove(m, nx, ny) {
			m.MomX, m.MomY = vx, vy
			return
		}
		blocker := w.firstBlockingLine(m, nx, ny)
		if blocker == nil {
			vx, vy = 0, 0
			break
		}
		vx, vy = projectOntoTangent(vx, vy, blocker)
	}
	m.MomX, m.MomY = vx, vy
}

func (w *World) firstBlockingLine(m *mobj.Mobj, newx, newy float32) *worldmap.Line {
	box := BBoxAt(m, newx, newy)
	for _, l := range w.Map.Blockmap.LinesNear(box) {
		if !lineCrossesBox(l, box) {
			continue
		}
		op := lineOpening(l, newx, newy)
		if op.ceiling-op.floor < m.Height || op.floor-m.FloorZ > MaxStepHeight {
			return l
		}
	}
	return nil
}

// projectOntoTangent decomposes (vx,vy) onto the tangent of line l,
// discarding the component into the wall.
func projectOntoTangent(vx, vy float32, l *worldmap.Line) (float32, float32) {
	dx := l.V2.X - l.V1.X
	dy := l.V2.Y - l.V1.Y
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return 0, 0
	}
	tx, ty := dx/length, dy/length
	dot := vx*tx + vy*ty
	return tx * dot, ty * dot
}

// ZMovement advances z by momz and applies gravity scaled by the current
// region's properties, then handles floor/ceiling contact (spec.md §4.3).
func ZMovement(m *mobj.Mobj, region worldmap.RegionProps) {
	m.Z += m.MomZ
	if m.Flags&mobj.FlagNoGravity == 0 {
		m.MomZ -= 1.0 * region.Gravity
	}
	if m.Z <= m.FloorZ && m.MomZ <= 0 {
		if m.Z < m.FloorZ {
			m.Z = m.FloorZ
		}
		m.MomZ = 0
		m.OnGround = true
	} else {
		m.OnGround = false
	}
	if m.Z+m.Height > m.CeilZ {
		m.Z = m.CeilZ - m.Height
		if m.MomZ > 0 {
			m.MomZ = 0
		}
	}
}
