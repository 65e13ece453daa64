// SEGS/SSECTORS decoding, completing the BSP Tree that bsp.go's
// PointInSubsector/CheckBBox walk (spec.md §6: "NODES, SSECTORS, SEGS").
// Grounded on the same bytes.Reader/encoding.binary.Read per-record style
// as nodes.go and wad.go's other lump decoders.
package worldmap

import (
	"bytes"
	"encoding/binary"
)

const (
	segRecordSize       = 12
	subsectorRecordSize = 4
)

type rawSeg struct {
	V1, V2  uint16
	Angle   int16
	Linedef uint16
	SegSide int16
	Offset  int16
}

type rawSubsector struct {
	NumSegs  uint16
	FirstSeg uint16
}

// DecodeSegs parses a SEGS lump against already-decoded vertexes and
// lines.
func DecodeSegs(data []byte, vertexes []Vertex, lines []*Line) ([]Seg, error) {
	if len(data)%segRecordSize != 0 {
		return nil, &ParseErr{Lump: "SEGS", Msg: "size not a multiple of 12"}
	}
	r := bytes.NewReader(data)
	count := len(data) / segRecordSize
	out := make([]Seg, count)
	for i := 0; i < count; i++ {
		var rs rawSeg
		if err := binary.Read(r, binary.LittleEndian, &rs); err != nil {
			return nil, &ParseErr{Lump: "SEGS", Msg: err.Error()}
		}
		if int(rs.V1) >= len(vertexes) || int(rs.V2) >= len(vertexes) {
			return nil, &ParseErr{Lump: "SEGS", Msg: "seg references out-of-range vertex"}
		}
		if int(rs.Linedef) >= len(lines) {
			return nil, &ParseErr{Lump: "SEGS", Msg: "seg references out-of-range linedef"}
		}
		out[i] = Seg{
			V1:   vertexes[rs.V1],
			V2:   vertexes[rs.V2],
			Line: lines[rs.Linedef],
			Side: int(rs.SegSide),
		}
	}
	return out, nil
}

// DecodeSubsectors parses an SSECTORS lump, slicing the decoded Segs into
// each subsector's run. A subsector's sector comes from its first seg's
// side of that seg's linedef (front if Side==0, back otherwise) — every
// seg in a convex leaf borders the same sector by construction.
func DecodeSubsectors(data []byte, segs []Seg) ([]*Subsector, error) {
	if len(data)%subsectorRecordSize != 0 {
		return nil, &ParseErr{Lump: "SSECTORS", Msg: "size not a multiple of 4"}
	}
	r := bytes.NewReader(data)
	count := len(data) / subsectorRecordSize
	out := make([]*Subsector, count)
	for i := 0; i < count; i++ {
		var rs rawSubsector
		if err := binary.Read(r, binary.LittleEndian, &rs); err != nil {
			return nil, &ParseErr{Lump: "SSECTORS", Msg: err.Error()}
		}
		first, num := int(rs.FirstSeg), int(rs.NumSegs)
		if first < 0 || num < 0 || first+num > len(segs) {
			return nil, &ParseErr{Lump: "SSECTORS", Msg: "subsector seg range out of bounds"}
		}
		ss := &Subsector{Index: i, Segs: segs[first : first+num]}
		if num > 0 {
			seg := segs[first]
			if seg.Side == 0 {
				ss.Sector = seg.Line.FrontSector
			} else {
				ss.Sector = seg.Line.BackSector
			}
		}
		out[i] = ss
	}
	return out, nil
}

// BuildTree decodes NODES, SSECTORS and SEGS into a usable Tree. A map
// shipping no NODES lump (single-subsector degenerate case) still yields a
// working Tree: PointInSubsector and CheckBBox both fall back to the lone
// subsector when Nodes is empty.
func BuildTree(nodesData, ssectorsData, segsData []byte, vertexes []Vertex, lines []*Line) (*Tree, error) {
	segs, err := DecodeSegs(segsData, vertexes, lines)
	if err != nil {
		return nil, err
	}
	subs, err := DecodeSubsectors(ssectorsData, segs)
	if err != nil {
		return nil, err
	}
	nodes, root, err := DecodeNodes(nodesData)
	if err != nil {
		return nil, err
	}
	return &Tree{Nodes: nodes, Subsectors: subs, Root: root}, nil
}
