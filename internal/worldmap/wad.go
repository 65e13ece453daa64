// wad.go - Doom-format WAD lump loading.
//
// Grounded on the teacher's file_io.go load-and-validate pattern (length
// checks, explicit error returns rather than panics) and on
// original_source/source_files/edge/p_setup.h for which lumps a level
// needs. Concurrent lump parsing uses golang.org/x/sync/errgroup, the way
// a loader that already pulls in the errgroup package for other IO would.
package worldmap

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// LumpSet is the raw byte slices for one map's required lumps, keyed by
// name (spec.md §6).
type LumpSet struct {
	Things, Linedefs, Sidedefs, Vertexes, Segs, SSectors, Nodes, Sectors, Reject, Blockmap []byte
}

const (
	vertexRecordSize  = 4 // two int16
	linedefRecordSize = 14
	sidedefRecordSize = 30
	sectorRecordSize  = 26
	thingRecordSize   = 10
)

// ThingFlag bits are the low byte-and-a-bit of a THINGS record's flags
// word: the three skill bits (spec.md §6's "initial mobj population"),
// ambush, and multiplayer-only.
type ThingFlag uint16

const (
	ThingSkillEasy ThingFlag = 1 << iota
	ThingSkillNormal
	ThingSkillHard
	ThingAmbush
	ThingNotSingle
)

// rawVertex, rawLinedef etc. mirror the on-disk Doom lump layouts.
type rawVertex struct{ X, Y int16 }

type rawLinedef struct {
	V1, V2          uint16
	Flags           uint16
	Special, Tag    uint16
	SideFront, SideBack uint16
}

type rawSidedef struct {
	OffX, OffY             int16
	UpperTex, LowerTex, MidTex [8]byte
	Sector                 uint16
}

type rawSector struct {
	FloorHeight, CeilHeight int16
	FloorTex, CeilTex       [8]byte
	Light                   int16
	Special, Tag            int16
}

type rawThing struct {
	X, Y        int16
	Angle       uint16
	Type        uint16
	Flags       uint16
}

// ThingRecord is one decoded THINGS entry: a map-editor placed monster,
// pickup, obstacle, or player start (spec.md §6). DoomEdNum is the
// content-defined type number a loader maps to a mobj.Info; the core
// itself has no type table (spec.md §1 keeps content definitions out of
// this package).
type ThingRecord struct {
	X, Y      float32
	Angle     float32 // degrees, 0..360
	DoomEdNum uint16
	Flags     ThingFlag
}

// ParseErr wraps a malformed-lump condition; the spec treats these as
// fatal load-time errors (spec.md §7).
type ParseErr struct {
	Lump string
	Msg  string
}

func (e *ParseErr) Error() string {
	return fmt.Sprintf("malformed %s lump: %s", e.Lump, e.Msg)
}

// LoadLevel parses a LumpSet into a fully cross-referenced World. Vertex,
// linedef, sidedef and sector lumps are decoded concurrently with an
// errgroup since they have no cross-dependencies; linking (sides to
// sectors, lines to sides) happens afterward in a second, serial pass
// because it needs all four decoded first.
func LoadLevel(lumps LumpSet) (*World, error) {
	var (
		vertexes []Vertex
		linedefsRaw []rawLinedef
		sidedefsRaw []rawSidedef
		sectors  []*Sector
		things   []ThingRecord
	)

	var g errgroup.Group
	g.Go(func() error {
		v, err := decodeVertexes(lumps.Vertexes)
		vertexes = v
		return err
	})
	g.Go(func() error {
		l, err := decodeLinedefs(lumps.Linedefs)
		linedefsRaw = l
		return err
	})
	g.Go(func() error {
		s, err := decodeSidedefs(lumps.Sidedefs)
		sidedefsRaw = s
		return err
	})
	g.Go(func() error {
		s, err := decodeSectors(lumps.Sectors)
		sectors = s
		return err
	})
	g.Go(func() error {
		t, err := decodeThings(lumps.Things)
		things = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sides := make([]*Side, len(sidedefsRaw))
	for i, rs := range sidedefsRaw {
		if int(rs.Sector) >= len(sectors) {
			return nil, &ParseErr{Lump: "SIDEDEFS", Msg: fmt.Sprintf("side %d references out-of-range sector %d", i, rs.Sector)}
		}
		sides[i] = &Side{
			OffsetX: float32(rs.OffX),
			OffsetY: float32(rs.OffY),
			Sector:  sectors[rs.Sector],
		}
	}

	lines := make([]*Line, len(linedefsRaw))
	for i, rl := range linedefsRaw {
		if int(rl.V1) >= len(vertexes) || int(rl.V2) >= len(vertexes) {
			return nil, &ParseErr{Lump: "LINEDEFS", Msg: fmt.Sprintf("line %d references out-of-range vertex", i)}
		}
		l := &Line{
			V1:      &vertexes[rl.V1],
			V2:      &vertexes[rl.V2],
			Flags:   LineFlag(rl.Flags),
			Special: int(rl.Special),
			Tag:     int(rl.Tag),
		}
		if rl.SideFront == 0xFFFF {
			return nil, &ParseErr{Lump: "LINEDEFS", Msg: fmt.Sprintf("line %d has no front side", i)}
		}
		if int(rl.SideFront) >= len(sides) {
			return nil, &ParseErr{Lump: "LINEDEFS", Msg: fmt.Sprintf("line %d front side out of range", i)}
		}
		l.Front = sides[rl.SideFront]
		l.FrontSector = l.Front.Sector
		if rl.SideBack != 0xFFFF {
			if int(rl.SideBack) >= len(sides) {
				return nil, &ParseErr{Lump: "LINEDEFS", Msg: fmt.Sprintf("line %d back side out of range", i)}
			}
			l.Back = sides[rl.SideBack]
			l.BackSector = l.Back.Sector
			l.Flags |= LineTwoSided
		}
		lines[i] = l
	}

	for secIdx, sec := range sectors {
		for _, l := range lines {
			if l.FrontSector == sec || l.BackSector == sec {
				sec.Lines = append(sec.Lines, l)
			}
		}
		sec.Index = secIdx
	}

	tree, err := BuildTree(lumps.Nodes, lumps.SSectors, lumps.Segs, vertexes, lines)
	if err != nil {
		return nil, err
	}

	blockmap := buildBlockmap(vertexes, lines)

	w := &World{
		Vertexes: vertexes,
		Lines:    lines,
		Sides:    sides,
		Sectors:  sectors,
		Things:   things,
		BSP:      tree,
		Blockmap: blockmap,
	}
	return w, nil
}

// buildBlockmap computes a fresh blockmap from the level's own geometry
// rather than decoding the on-disk BLOCKMAP lump, which is only ever a
// precomputed acceleration structure for the same lines: building it at
// load time is simpler and avoids trusting a lump whose layout varies
// across WAD-building tools.
func buildBlockmap(vertexes []Vertex, lines []*Line) *Blockmap {
	if len(vertexes) == 0 {
		return NewBlockmap(0, 0, 0, 0)
	}
	minX, maxX := vertexes[0].X, vertexes[0].X
	minY, maxY := vertexes[0].Y, vertexes[0].Y
	for _, v := range vertexes[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	bm := NewBlockmap(minX, minY, maxX, maxY)
	for _, l := range lines {
		bm.AddLine(l)
	}
	return bm
}

func decodeVertexes(data []byte) ([]Vertex, error) {
	if len(data)%vertexRecordSize != 0 {
		return nil, &ParseErr{Lump: "VERTEXES", Msg: "size not a multiple of 4"}
	}
	r := bytes.NewReader(data)
	out := make([]Vertex, len(data)/vertexRecordSize)
	for i := range out {
		var rv rawVertex
		if err := binary.Read(r, binary.LittleEndian, &rv); err != nil {
			return nil, &ParseErr{Lump: "VERTEXES", Msg: err.Error()}
		}
		out[i] = Vertex{X: float32(rv.X), Y: float32(rv.Y)}
	}
	return out, nil
}

func decodeLinedefs(data []byte) ([]rawLinedef, error) {
	if len(data)%linedefRecordSize != 0 {
		return nil, &ParseErr{Lump: "LINEDEFS", Msg: "size not a multiple of 14"}
	}
	r := bytes.NewReader(data)
	out := make([]rawLinedef, len(data)/linedefRecordSize)
	for i := range out {
		if err := binary.Read(r, binary.LittleEndian, &out[i]); err != nil {
			return nil, &ParseErr{Lump: "LINEDEFS", Msg: err.Error()}
		}
	}
	return out, nil
}

func decodeSidedefs(data []byte) ([]rawSidedef, error) {
	if len(data)%sidedefRecordSize != 0 {
		return nil, &ParseErr{Lump: "SIDEDEFS", Msg: "size not a multiple of 30"}
	}
	r := bytes.NewReader(data)
	out := make([]rawSidedef, len(data)/sidedefRecordSize)
	for i := range out {
		if err := binary.Read(r, binary.LittleEndian, &out[i]); err != nil {
			return nil, &ParseErr{Lump: "SIDEDEFS", Msg: err.Error()}
		}
	}
	return out, nil
}

func decodeSectors(data []byte) ([]*Sector, error) {
	if len(data)%sectorRecordSize != 0 {
		return nil, &ParseErr{Lump: "SECTORS", Msg: "size not a multiple of 26"}
	}
	r := bytes.NewReader(data)
	out := make([]*Sector, len(data)/sectorRecordSize)
	for i := range out {
		var rs rawSector
		if err := binary.Read(r, binary.LittleEndian, &rs); err != nil {
			return nil, &ParseErr{Lump: "SECTORS", Msg: err.Error()}
		}
		out[i] = &Sector{
			Floor:   SurfaceProps{Height: float32(rs.FloorHeight), Light: int(rs.Light)},
			Ceiling: SurfaceProps{Height: float32(rs.CeilHeight), Light: int(rs.Light)},
			Props:   DefaultRegionProps(),
			Tag:     int(rs.Tag),
		}
	}
	return out, nil
}

func decodeThings(data []byte) ([]ThingRecord, error) {
	if len(data)%thingRecordSize != 0 {
		return nil, &ParseErr{Lump: "THINGS", Msg: "size not a multiple of 10"}
	}
	r := bytes.NewReader(data)
	out := make([]ThingRecord, len(data)/thingRecordSize)
	for i := range out {
		var rt rawThing
		if err := binary.Read(r, binary.LittleEndian, &rt); err != nil {
			return nil, &ParseErr{Lump: "THINGS", Msg: err.Error()}
		}
		out[i] = ThingRecord{
			X: float32(rt.X), Y: float32(rt.Y),
			Angle:     float32(rt.Angle),
			DoomEdNum: rt.Type,
			Flags:     ThingFlag(rt.Flags),
		}
	}
	return out, nil
}

// World is the fully loaded, immutable-after-load map.
type World struct {
	Vertexes []Vertex
	Lines    []*Line
	Sides    []*Side
	Sectors  []*Sector
	Things   []ThingRecord
	BSP      *Tree
	Blockmap *Blockmap
}
