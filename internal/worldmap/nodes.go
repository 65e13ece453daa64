package worldmap

import (
	"bytes"
	"encoding/binary"
)

// Classic NODES lumps use 16-bit signed children; the extended "V5" format
// (ZDoom/UDMF-family) uses 32-bit children and sets the high bit of the
// 32-bit value to mark a subsector, rather than the 16-bit high bit. Both
// are folded into the same leafBit=1<<31 convention internally (spec.md
// §6: "Node types: both classic 16-bit and extended ... must be
// supported").
const (
	classicNodeRecordSize  = 28
	extendedNodeRecordSize = 32
)

const classicLeafBit16 = 1 << 15

type rawNodeClassic struct {
	X, Y, DX, DY           int16
	FrontBBox, BackBBox    [4]int16
	FrontChild, BackChild  uint16
}

type rawNodeExtended struct {
	X, Y, DX, DY          int16
	FrontBBox, BackBBox   [4]int16
	FrontChild, BackChild uint32
}

// DecodeNodes parses a NODES lump, auto-detecting classic vs. extended
// record size, and normalizes child references to the leafBit=1<<31
// convention used by Tree.
func DecodeNodes(data []byte) ([]Node, uint32, error) {
	if len(data) == 0 {
		return nil, 0, nil
	}
	if len(data)%extendedNodeRecordSize == 0 && len(data)%classicNodeRecordSize != 0 {
		return decodeExtendedNodes(data)
	}
	return decodeClassicNodes(data)
}

func decodeClassicNodes(data []byte) ([]Node, uint32, error) {
	if len(data)%classicNodeRecordSize != 0 {
		return nil, 0, &ParseErr{Lump: "NODES", Msg: "size not a multiple of 28"}
	}
	r := bytes.NewReader(data)
	count := len(data) / classicNodeRecordSize
	out := make([]Node, count)
	for i := 0; i < count; i++ {
		var rn rawNodeClassic
		if err := binary.Read(r, binary.LittleEndian, &rn); err != nil {
			return nil, 0, &ParseErr{Lump: "NODES", Msg: err.Error()}
		}
		out[i] = Node{
			X: float32(rn.X), Y: float32(rn.Y), DX: float32(rn.DX), DY: float32(rn.DY),
			BBox: [2]BBox{bboxFromInts(rn.FrontBBox), bboxFromInts(rn.BackBBox)},
			Child: [2]uint32{
				normalizeChild16(rn.FrontChild),
				normalizeChild16(rn.BackChild),
			},
		}
	}
	return out, uint32(count - 1), nil
}

func decodeExtendedNodes(data []byte) ([]Node, uint32, error) {
	r := bytes.NewReader(data)
	count := len(data) / extendedNodeRecordSize
	out := make([]Node, count)
	for i := 0; i < count; i++ {
		var rn rawNodeExtended
		if err := binary.Read(r, binary.LittleEndian, &rn); err != nil {
			return nil, 0, &ParseErr{Lump: "NODES", Msg: err.Error()}
		}
		out[i] = Node{
			X: float32(rn.X), Y: float32(rn.Y), DX: float32(rn.DX), DY: float32(rn.DY),
			BBox: [2]BBox{bboxFromInts(rn.FrontBBox), bboxFromInts(rn.BackBBox)},
			Child: [2]uint32{
				normalizeChild32(rn.FrontChild),
				normalizeChild32(rn.BackChild),
			},
		}
	}
	return out, uint32(count - 1), nil
}

func bboxFromInts(b [4]int16) BBox {
	// Doom NODES bbox order is {top, bottom, left, right}.
	return BBox{Top: float32(b[0]), Bottom: float32(b[1]), Left: float32(b[2]), Right: float32(b[3])}
}

func normalizeChild16(c uint16) uint32 {
	if c&classicLeafBit16 != 0 {
		return leafBit | uint32(c&^classicLeafBit16)
	}
	return uint32(c)
}

func normalizeChild32(c uint32) uint32 {
	// Extended format already uses the top bit (bit 31) as the leaf marker.
	return c
}
