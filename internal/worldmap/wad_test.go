package worldmap

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildSquareRoomLumps encodes a minimal one-sector, four-line square room
// as real WAD-format lump bytes, including SEGS/SSECTORS (one subsector,
// no NODES needed) so LoadLevel exercises the full SEGS->SSECTORS->Tree
// path rather than a hand-built Tree.
func buildSquareRoomLumps(t *testing.T) LumpSet {
	t.Helper()

	var vertexes bytes.Buffer
	coords := [4][2]int16{{0, 0}, {64, 0}, {64, 64}, {0, 64}}
	for _, c := range coords {
		binary.Write(&vertexes, binary.LittleEndian, c[0])
		binary.Write(&vertexes, binary.LittleEndian, c[1])
	}

	var sidedefs bytes.Buffer
	for i := 0; i < 4; i++ {
		var rs rawSidedef
		rs.Sector = 0
		binary.Write(&sidedefs, binary.LittleEndian, rs)
	}

	var linedefs bytes.Buffer
	for i := 0; i < 4; i++ {
		rl := rawLinedef{
			V1: uint16(i), V2: uint16((i + 1) % 4),
			SideFront: uint16(i), SideBack: 0xFFFF,
		}
		binary.Write(&linedefs, binary.LittleEndian, rl)
	}

	var sectors bytes.Buffer
	var rs rawSector
	rs.FloorHeight, rs.CeilHeight = 0, 128
	binary.Write(&sectors, binary.LittleEndian, rs)

	var segs bytes.Buffer
	for i := 0; i < 4; i++ {
		s := rawSeg{V1: uint16(i), V2: uint16((i + 1) % 4), Linedef: uint16(i), SegSide: 0}
		binary.Write(&segs, binary.LittleEndian, s)
	}

	var ssectors bytes.Buffer
	binary.Write(&ssectors, binary.LittleEndian, rawSubsector{NumSegs: 4, FirstSeg: 0})

	var things bytes.Buffer
	binary.Write(&things, binary.LittleEndian, rawThing{X: 32, Y: 32, Angle: 90, Type: 1, Flags: uint16(ThingSkillEasy | ThingSkillNormal | ThingSkillHard)})

	return LumpSet{
		Vertexes: vertexes.Bytes(),
		Linedefs: linedefs.Bytes(),
		Sidedefs: sidedefs.Bytes(),
		Sectors:  sectors.Bytes(),
		Segs:     segs.Bytes(),
		SSectors: ssectors.Bytes(),
		Things:   things.Bytes(),
		Nodes:    nil,
	}
}

func TestLoadLevelBuildsTreeAndBlockmap(t *testing.T) {
	lumps := buildSquareRoomLumps(t)
	w, err := LoadLevel(lumps)
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	if w.BSP == nil || len(w.BSP.Subsectors) != 1 {
		t.Fatalf("expected one subsector, got %+v", w.BSP)
	}
	if w.BSP.Subsectors[0].Sector != w.Sectors[0] {
		t.Fatalf("subsector sector not wired to the map's only sector")
	}
	if got := w.BSP.PointInSubsector(32, 32); got != w.BSP.Subsectors[0] {
		t.Fatalf("PointInSubsector inside the room returned %+v", got)
	}
	if w.Blockmap == nil || w.Blockmap.Columns < 1 || w.Blockmap.Rows < 1 {
		t.Fatalf("expected a populated blockmap, got %+v", w.Blockmap)
	}
	near := w.Blockmap.LinesNear(BBox{Left: 0, Right: 64, Bottom: 0, Top: 64})
	if len(near) != 4 {
		t.Fatalf("LinesNear = %d lines, want 4", len(near))
	}
	if len(w.Things) != 1 {
		t.Fatalf("len(w.Things) = %d, want 1", len(w.Things))
	}
	if got := w.Things[0]; got.X != 32 || got.Y != 32 || got.Angle != 90 || got.DoomEdNum != 1 {
		t.Fatalf("decoded thing = %+v, want X=32 Y=32 Angle=90 DoomEdNum=1", got)
	}
}

func TestDecodeThingsRejectsBadSize(t *testing.T) {
	if _, err := decodeThings([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected a size error for a THINGS lump not a multiple of 10 bytes")
	}
}

func TestDecodeSegsRejectsBadVertexRef(t *testing.T) {
	lumps := buildSquareRoomLumps(t)
	var bad bytes.Buffer
	binary.Write(&bad, binary.LittleEndian, rawSeg{V1: 99, V2: 0, Linedef: 0})
	if _, err := DecodeSegs(bad.Bytes(), []Vertex{{}}, nil); err == nil {
		t.Fatalf("expected out-of-range vertex error")
	}
	_ = lumps
}

func TestDecodeSubsectorsRejectsOutOfRangeRun(t *testing.T) {
	var bad bytes.Buffer
	binary.Write(&bad, binary.LittleEndian, rawSubsector{NumSegs: 5, FirstSeg: 0})
	if _, err := DecodeSubsectors(bad.Bytes(), make([]Seg, 2)); err == nil {
		t.Fatalf("expected out-of-range seg run error")
	}
}
