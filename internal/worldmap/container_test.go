package worldmap

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildTestWAD(t *testing.T, lumps []struct {
	name string
	data []byte
}) []byte {
	t.Helper()
	var body bytes.Buffer
	type dirEnt struct {
		pos, size int
		name      string
	}
	var dir []dirEnt
	for _, l := range lumps {
		dir = append(dir, dirEnt{pos: wadHeaderSize + body.Len(), size: len(l.data), name: l.name})
		body.Write(l.data)
	}

	var buf bytes.Buffer
	buf.WriteString("PWAD")
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(len(lumps)))
	buf.Write(tmp[:])
	dirOfs := wadHeaderSize + body.Len()
	binary.LittleEndian.PutUint32(tmp[:], uint32(dirOfs))
	buf.Write(tmp[:])
	buf.Write(body.Bytes())

	for _, e := range dir {
		var entry [lumpEntrySize]byte
		binary.LittleEndian.PutUint32(entry[0:4], uint32(e.pos))
		binary.LittleEndian.PutUint32(entry[4:8], uint32(e.size))
		copy(entry[8:16], e.name)
		buf.Write(entry[:])
	}
	return buf.Bytes()
}

func TestReadWADAndFindMap(t *testing.T) {
	raw := buildTestWAD(t, []struct {
		name string
		data []byte
	}{
		{"E1M1", nil},
		{"THINGS", []byte{1, 2}},
		{"LINEDEFS", []byte{3, 4}},
		{"SIDEDEFS", []byte{5, 6}},
		{"VERTEXES", []byte{7, 8}},
		{"SEGS", nil},
		{"SSECTORS", nil},
		{"NODES", nil},
		{"SECTORS", []byte{9, 10}},
		{"REJECT", nil},
		{"BLOCKMAP", nil},
	})

	dir, err := ReadWAD(raw)
	if err != nil {
		t.Fatalf("ReadWAD: %v", err)
	}
	if dir.Type != "PWAD" {
		t.Fatalf("Type = %q", dir.Type)
	}

	lumps, err := FindMap(dir, "E1M1")
	if err != nil {
		t.Fatalf("FindMap: %v", err)
	}
	if !bytes.Equal(lumps.Things, []byte{1, 2}) {
		t.Fatalf("Things = %v", lumps.Things)
	}
	if !bytes.Equal(lumps.Sectors, []byte{9, 10}) {
		t.Fatalf("Sectors = %v", lumps.Sectors)
	}
}

func TestReadWADRejectsBadSignature(t *testing.T) {
	if _, err := ReadWAD([]byte("GARBAGEHEADERBYTES")); err == nil {
		t.Fatalf("expected error for bad signature")
	}
}

func TestFindMapRejectsUnknownMarker(t *testing.T) {
	raw := buildTestWAD(t, []struct {
		name string
		data []byte
	}{{"E1M1", nil}})
	dir, err := ReadWAD(raw)
	if err != nil {
		t.Fatalf("ReadWAD: %v", err)
	}
	if _, err := FindMap(dir, "E1M2"); err == nil {
		t.Fatalf("expected error for missing map marker")
	}
}
