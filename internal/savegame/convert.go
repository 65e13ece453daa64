package savegame

import (
	"github.com/brackenfall/doomcore/internal/mobj"
	"github.com/brackenfall/doomcore/internal/worldmap"
)

// SaveSectors extracts the mutable portion of every sector into records,
// mirroring the teacher's savePPUState/saveAPUState style of one
// extraction function per subsystem.
func SaveSectors(sectors []*worldmap.Sector) []SectorRecord {
	out := make([]SectorRecord, len(sectors))
	for i, s := range sectors {
		out[i] = SectorRecord{
			FloorHeight: s.Floor.Height,
			CeilHeight:  s.Ceiling.Height,
			FloorTex:    s.Floor.Texture,
			CeilTex:     s.Ceiling.Texture,
			Light:       s.Floor.Light,
		}
	}
	return out
}

// LoadSectors restores sector state from records. Lengths must match;
// mismatched lengths mean the save targets a different map and the caller
// should have already rejected it via Verify.
func LoadSectors(sectors []*worldmap.Sector, recs []SectorRecord) {
	for i, r := range recs {
		if i >= len(sectors) {
			return
		}
		sectors[i].Floor.Height = r.FloorHeight
		sectors[i].Ceiling.Height = r.CeilHeight
		sectors[i].Floor.Texture = r.FloorTex
		sectors[i].Ceiling.Texture = r.CeilTex
		sectors[i].Floor.Light = r.Light
	}
}

// SaveLines extracts the once-only activation flag of every line.
func SaveLines(lines []*worldmap.Line) []LineRecord {
	out := make([]LineRecord, len(lines))
	for i, l := range lines {
		out[i] = LineRecord{Activated: l.Activated()}
	}
	return out
}

// LoadLines restores each line's activation flag.
func LoadLines(lines []*worldmap.Line, recs []LineRecord) {
	for i, r := range recs {
		if i >= len(lines) {
			return
		}
		if r.Activated {
			lines[i].MarkActivated()
		}
	}
}

// SaveMobjs extracts every live mobj in arena a into records, in registry
// iteration order. nameOf resolves a mobj's content definition to its
// saved name; indexOf resolves a mobj to its position in that same
// iteration order, used to record weak references as plain indices rather
// than arena generations (which are meaningless once reloaded).
func SaveMobjs(a *mobj.Arena, nameOf func(*mobj.Mobj) string, indexOf func(*mobj.Mobj) int32) []MobjRecord {
	var out []MobjRecord
	a.Each(func(m *mobj.Mobj) {
		out = append(out, MobjRecord{
			DefName: nameOf(m),
			X:       m.X, Y: m.Y, Z: m.Z,
			MomX: m.MomX, MomY: m.MomY, MomZ: m.MomZ,
			Angle: m.Angle, VAngle: m.VAngle,
			Health:        m.Health,
			Flags:         uint32(m.Flags),
			ExtendedFlags: uint32(m.ExtendedFlags),
			HyperFlags:    uint32(m.HyperFlags),
			StateID:       int(m.StateID),
			Tics:       m.Tics,
			SourceIdx:  refIndex(a.Source(m), indexOf),
			TargetIdx:  refIndex(a.Target(m), indexOf),
			TracerIdx:  refIndex(a.Tracer(m), indexOf),
			SupportIdx: refIndex(a.SupportObj(m), indexOf),
		})
	})
	return out
}

func refIndex(m *mobj.Mobj, indexOf func(*mobj.Mobj) int32) int32 {
	if m == nil {
		return -1
	}
	return indexOf(m)
}

// LoadMobjs respawns every record via spawn (which should look up
// DefName's content definition, call a.Spawn and SetState to StateID, and
// return the new Ref), then makes a second pass reconnecting the four weak
// references by index — the classic two-pass approach to cyclic
// references that can't otherwise survive serialization.
func LoadMobjs(a *mobj.Arena, recs []MobjRecord, spawn func(rec MobjRecord) mobj.Ref) {
	refs := make([]mobj.Ref, len(recs))
	for i, rec := range recs {
		refs[i] = spawn(rec)
	}
	resolve := func(idx int32) mobj.Ref {
		if idx < 0 || int(idx) >= len(refs) {
			return mobj.Nil
		}
		return refs[idx]
	}
	for i, rec := range recs {
		m := a.Resolve(refs[i])
		if m == nil {
			continue
		}
		a.SetSource(m, resolve(rec.SourceIdx))
		a.SetTarget(m, resolve(rec.TargetIdx))
		a.SetTracer(m, resolve(rec.TracerIdx))
		a.SetSupportObj(m, resolve(rec.SupportIdx))
	}
}
