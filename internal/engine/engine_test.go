package engine

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/brackenfall/doomcore/internal/elog"
	"github.com/brackenfall/doomcore/internal/mobj"
	"github.com/brackenfall/doomcore/internal/spatial"
	"github.com/brackenfall/doomcore/internal/worldmap"
)

// encodeThing packs one THINGS record in the classic 10-byte layout:
// x, y int16; angle, doomednum, flags uint16.
func encodeThing(x, y int16, angle, doomEdNum uint16, flags worldmap.ThingFlag) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, x)
	binary.Write(&buf, binary.LittleEndian, y)
	binary.Write(&buf, binary.LittleEndian, angle)
	binary.Write(&buf, binary.LittleEndian, doomEdNum)
	binary.Write(&buf, binary.LittleEndian, uint16(flags))
	return buf.Bytes()
}

// squareRoomLumps builds a minimal one-sector, four-line square room (the
// same shape wad_test.go exercises) plus a THINGS lump, as raw lump bytes
// LoadLevel can decode directly without going through the WAD container.
func squareRoomLumps(thingsLump []byte) worldmap.LumpSet {
	var vertexes bytes.Buffer
	coords := [4][2]int16{{0, 0}, {64, 0}, {64, 64}, {0, 64}}
	for _, c := range coords {
		binary.Write(&vertexes, binary.LittleEndian, c[0])
		binary.Write(&vertexes, binary.LittleEndian, c[1])
	}

	var sidedefs bytes.Buffer
	for i := 0; i < 4; i++ {
		sidedefs.Write(make([]byte, 28))
		binary.Write(&sidedefs, binary.LittleEndian, uint16(0)) // Sector
	}

	type rawLinedef struct {
		V1, V2              uint16
		Flags               uint16
		Special, Tag        uint16
		SideFront, SideBack uint16
	}
	var linedefs bytes.Buffer
	for i := 0; i < 4; i++ {
		binary.Write(&linedefs, binary.LittleEndian, rawLinedef{
			V1: uint16(i), V2: uint16((i + 1) % 4),
			SideFront: uint16(i), SideBack: 0xFFFF,
		})
	}

	var sectors bytes.Buffer
	sectors.Write(make([]byte, 26))

	type rawSeg struct {
		V1, V2  uint16
		Angle   uint16
		Linedef uint16
		SegSide uint16
		Offset  uint16
	}
	var segs bytes.Buffer
	for i := 0; i < 4; i++ {
		binary.Write(&segs, binary.LittleEndian, rawSeg{V1: uint16(i), V2: uint16((i + 1) % 4), Linedef: uint16(i)})
	}

	type rawSubsector struct{ NumSegs, FirstSeg uint16 }
	var ssectors bytes.Buffer
	binary.Write(&ssectors, binary.LittleEndian, rawSubsector{NumSegs: 4, FirstSeg: 0})

	return worldmap.LumpSet{
		Vertexes: vertexes.Bytes(),
		Linedefs: linedefs.Bytes(),
		Sidedefs: sidedefs.Bytes(),
		Sectors:  sectors.Bytes(),
		Segs:     segs.Bytes(),
		SSectors: ssectors.Bytes(),
		Things:   thingsLump,
	}
}

func TestSpawnThingsSkipsWithoutSpawner(t *testing.T) {
	e := NewEngine(nil, elog.New(16), 35.0)
	world, err := worldmap.LoadLevel(squareRoomLumps(encodeThing(32, 32, 90, 1, worldmap.ThingSkillEasy|worldmap.ThingSkillNormal|worldmap.ThingSkillHard)))
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	e.World = world
	e.spawnThings(world)
	if e.Arena.Count() != 0 {
		t.Fatalf("Arena.Count() = %d, want 0 with no SpawnThing hook installed", e.Arena.Count())
	}
}

func TestSpawnThingsSpawnsMatchingSkill(t *testing.T) {
	e := NewEngine(nil, elog.New(16), 35.0)
	e.Skill = 3
	info := &mobj.Info{Name: "imp", SpawnHealth: 60, Radius: 20, Height: 56}
	e.SpawnThing = func(t worldmap.ThingRecord) *mobj.Info {
		if t.DoomEdNum != 1 {
			return nil
		}
		return info
	}
	world, err := worldmap.LoadLevel(squareRoomLumps(encodeThing(32, 32, 90, 1, worldmap.ThingSkillNormal)))
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	e.World = world
	e.Spatial = &spatial.World{Map: world, Arena: e.Arena}
	e.spawnThings(world)
	if e.Arena.Count() != 1 {
		t.Fatalf("Arena.Count() = %d, want 1", e.Arena.Count())
	}
	var spawned *mobj.Mobj
	e.Arena.Each(func(m *mobj.Mobj) { spawned = m })
	if spawned.X != 32 || spawned.Y != 32 {
		t.Fatalf("spawned at (%v,%v), want (32,32)", spawned.X, spawned.Y)
	}
	if spawned.Health != 60 {
		t.Fatalf("Health = %d, want 60 from def.SpawnHealth", spawned.Health)
	}
}

func TestSpawnThingsSkipsWrongSkill(t *testing.T) {
	e := NewEngine(nil, elog.New(16), 35.0)
	e.Skill = 3
	e.SpawnThing = func(t worldmap.ThingRecord) *mobj.Info {
		return &mobj.Info{Name: "easy-only"}
	}
	world, err := worldmap.LoadLevel(squareRoomLumps(encodeThing(0, 0, 0, 2, worldmap.ThingSkillEasy)))
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	e.World = world
	e.spawnThings(world)
	if e.Arena.Count() != 0 {
		t.Fatalf("Arena.Count() = %d, want 0: thing is flagged easy-only but skill is normal", e.Arena.Count())
	}
}

// TestTickSweepsStaleRefsEveryOtherTic confirms Tick wires Arena's "every
// other tic" stale-reference sweep into production rather than leaving it
// exercised only by arena_test.go.
func TestTickSweepsStaleRefsEveryOtherTic(t *testing.T) {
	e := NewEngine(nil, elog.New(16), 35.0)
	target := &mobj.Mobj{}
	shooter := &mobj.Mobj{}
	e.Arena.Spawn(target)
	e.Arena.Spawn(shooter)
	e.Arena.SetTarget(shooter, target.Self())
	e.Arena.RequestRemove(target)

	e.Tick() // LevelTime 0 -> 1: sweep runs on this even tic
	if mobj.RefCount(target) != 0 {
		t.Fatalf("target refcount = %d after Tick, want 0: SweepStaleRefs should have nulled shooter's dangling target ref", mobj.RefCount(target))
	}
	if e.Arena.Resolve(target.Self()) != nil {
		t.Fatal("target should have been freed by the same tic's remove queue once its refcount reached 0")
	}
}
