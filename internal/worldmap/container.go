// Container-format (WAD file) reading: the header/lump-directory layer
// beneath LoadLevel's per-lump decoders (spec.md §6: "accepts Doom-format
// WAD lumps"). Grounded on the same file_io.go load-and-validate style as
// wad.go's per-lump decoders — fixed-size header/record structs read with
// encoding/binary, errors returned rather than panicked.
package worldmap

import (
	"encoding/binary"
	"fmt"
)

const (
	wadHeaderSize = 12
	lumpEntrySize = 16
)

// Directory is a WAD file's lump directory as a name->bytes lookup, in
// file order. Names repeat across maps (every map has its own LINEDEFS),
// so FindMap must be used to select one map's 10 standard lumps rather
// than looking names up globally.
type Directory struct {
	Type    string // "IWAD" or "PWAD"
	names   []string
	offsets []int
	sizes   []int
	data    []byte
}

// ReadWAD parses a whole WAD file's header and lump directory. Lump
// bytes are not copied; Directory keeps slicing into data.
func ReadWAD(data []byte) (*Directory, error) {
	if len(data) < wadHeaderSize {
		return nil, &ParseErr{Lump: "WAD header", Msg: "file shorter than 12-byte header"}
	}
	typ := string(data[0:4])
	if typ != "IWAD" && typ != "PWAD" {
		return nil, &ParseErr{Lump: "WAD header", Msg: fmt.Sprintf("bad signature %q, want IWAD or PWAD", typ)}
	}
	numLumps := int(int32(binary.LittleEndian.Uint32(data[4:8])))
	dirOfs := int(int32(binary.LittleEndian.Uint32(data[8:12])))
	if numLumps < 0 || dirOfs < 0 || dirOfs+numLumps*lumpEntrySize > len(data) {
		return nil, &ParseErr{Lump: "WAD header", Msg: "lump directory extends past end of file"}
	}

	d := &Directory{
		Type:    typ,
		names:   make([]string, numLumps),
		offsets: make([]int, numLumps),
		sizes:   make([]int, numLumps),
		data:    data,
	}
	for i := 0; i < numLumps; i++ {
		entry := data[dirOfs+i*lumpEntrySize : dirOfs+(i+1)*lumpEntrySize]
		pos := int(int32(binary.LittleEndian.Uint32(entry[0:4])))
		size := int(int32(binary.LittleEndian.Uint32(entry[4:8])))
		if pos < 0 || size < 0 || pos+size > len(data) {
			return nil, &ParseErr{Lump: "WAD directory", Msg: fmt.Sprintf("entry %d out of range", i)}
		}
		d.offsets[i] = pos
		d.sizes[i] = size
		d.names[i] = trimLumpName(entry[8:16])
	}
	return d, nil
}

func trimLumpName(raw []byte) string {
	n := 0
	for n < len(raw) && raw[n] != 0 {
		n++
	}
	return string(raw[:n])
}

// Lump returns the bytes of the lump at directory index i.
func (d *Directory) Lump(i int) []byte {
	return d.data[d.offsets[i] : d.offsets[i]+d.sizes[i]]
}

// standardMapLumps is the fixed order a classic map's lumps follow
// immediately after its name marker (spec.md §6's lump list, minus the
// marker itself).
var standardMapLumps = [...]string{
	"THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES", "SEGS",
	"SSECTORS", "NODES", "SECTORS", "REJECT", "BLOCKMAP",
}

// FindMap locates mapName's marker lump and returns the LumpSet built
// from the 10 lumps that classically follow it in fixed order. Extra or
// reordered lumps between the marker and the next map (e.g. UDMF's
// TEXTMAP/ENDMAP, GL-node lumps) are skipped by name rather than assumed
// absent, so this keeps working on WADs with interleaved extension lumps.
func FindMap(d *Directory, mapName string) (LumpSet, error) {
	markerIdx := -1
	for i, name := range d.names {
		if name == mapName {
			markerIdx = i
			break
		}
	}
	if markerIdx < 0 {
		return LumpSet{}, fmt.Errorf("worldmap: map marker %q not found", mapName)
	}

	var lumps LumpSet
	found := 0
	for i := markerIdx + 1; i < len(d.names) && found < len(standardMapLumps); i++ {
		switch d.names[i] {
		case "THINGS":
			lumps.Things = d.Lump(i)
		case "LINEDEFS":
			lumps.Linedefs = d.Lump(i)
		case "SIDEDEFS":
			lumps.Sidedefs = d.Lump(i)
		case "VERTEXES":
			lumps.Vertexes = d.Lump(i)
		case "SEGS":
			lumps.Segs = d.Lump(i)
		case "SSECTORS":
			lumps.SSectors = d.Lump(i)
		case "NODES":
			lumps.Nodes = d.Lump(i)
		case "SECTORS":
			lumps.Sectors = d.Lump(i)
		case "REJECT":
			lumps.Reject = d.Lump(i)
		case "BLOCKMAP":
			lumps.Blockmap = d.Lump(i)
		default:
			continue
		}
		found++
	}
	if lumps.Linedefs == nil || lumps.Vertexes == nil || lumps.Sectors == nil || lumps.Sidedefs == nil {
		return LumpSet{}, fmt.Errorf("worldmap: map %q is missing required lumps", mapName)
	}
	return lumps, nil
}
