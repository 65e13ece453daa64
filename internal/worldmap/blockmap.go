package worldmap

// blockSize is the uniform blockmap cell size in map units (spec.md §3.1).
const blockSize = 128

// Blockmap accelerates line and thing queries with a uniform grid.
type Blockmap struct {
	OriginX, OriginY float32
	Columns, Rows    int
	cells            [][]*Line
	// things mirrors cells but for dynamic mobjs; populated/maintained by
	// the sim via LinkThing/UnlinkThing, not at load time.
	things [][]MobjRef
}

// NewBlockmap builds an empty blockmap covering [minX,maxX] x [minY,maxY].
func NewBlockmap(minX, minY, maxX, maxY float32) *Blockmap {
	cols := int((maxX-minX)/blockSize) + 1
	rows := int((maxY-minY)/blockSize) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Blockmap{
		OriginX: minX, OriginY: minY,
		Columns: cols, Rows: rows,
		cells:  make([][]*Line, cols*rows),
		things: make([][]MobjRef, cols*rows),
	}
}

// CellOf returns the column/row of the cell containing (x,y), clamped to
// the grid bounds.
func (b *Blockmap) CellOf(x, y float32) (col, row int) {
	col = int((x - b.OriginX) / blockSize)
	row = int((y - b.OriginY) / blockSize)
	if col < 0 {
		col = 0
	}
	if col >= b.Columns {
		col = b.Columns - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= b.Rows {
		row = b.Rows - 1
	}
	return col, row
}

func (b *Blockmap) index(col, row int) int {
	return row*b.Columns + col
}

// AddLine inserts a line into every cell its bounding box overlaps. Good
// enough fidelity for the query patterns this core needs; the original's
// exact Bresenham-walked cell list trades a little query precision for
// build simplicity here.
func (b *Blockmap) AddLine(l *Line) {
	minX, maxX := l.V1.X, l.V2.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := l.V1.Y, l.V2.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	c0, r0 := b.CellOf(minX, minY)
	c1, r1 := b.CellOf(maxX, maxY)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			idx := b.index(c, r)
			b.cells[idx] = append(b.cells[idx], l)
		}
	}
}

// LinesInCell returns the lines registered against the cell at (col,row).
func (b *Blockmap) LinesInCell(col, row int) []*Line {
	if col < 0 || col >= b.Columns || row < 0 || row >= b.Rows {
		return nil
	}
	return b.cells[b.index(col, row)]
}

// LinesNear returns the de-duplicated union of lines in every cell
// overlapping the given box, for TryMove candidate collection (spec.md
// §4.3).
func (b *Blockmap) LinesNear(box BBox) []*Line {
	c0, r0 := b.CellOf(box.Left, box.Bottom)
	c1, r1 := b.CellOf(box.Right, box.Top)
	seen := make(map[*Line]bool)
	var out []*Line
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			for _, l := range b.LinesInCell(c, r) {
				if !seen[l] {
					seen[l] = true
					out = append(out, l)
				}
			}
		}
	}
	return out
}

// LinkThing adds a thing reference to the cell at (x,y).
func (b *Blockmap) LinkThing(x, y float32, m MobjRef) {
	col, row := b.CellOf(x, y)
	idx := b.index(col, row)
	b.things[idx] = append(b.things[idx], m)
}

// UnlinkThing removes a thing reference from the cell at (x,y).
func (b *Blockmap) UnlinkThing(x, y float32, m MobjRef) {
	col, row := b.CellOf(x, y)
	idx := b.index(col, row)
	list := b.things[idx]
	for i, t := range list {
		if t.TouchID() == m.TouchID() {
			list[i] = list[len(list)-1]
			b.things[idx] = list[:len(list)-1]
			return
		}
	}
}

// ThingsNear returns the de-duplicated union of thing references in every
// cell overlapping the given box.
func (b *Blockmap) ThingsNear(box BBox) []MobjRef {
	c0, r0 := b.CellOf(box.Left, box.Bottom)
	c1, r1 := b.CellOf(box.Right, box.Top)
	seen := make(map[uint64]bool)
	var out []MobjRef
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			idx := b.index(c, r)
			for _, m := range b.things[idx] {
				if !seen[m.TouchID()] {
					seen[m.TouchID()] = true
					out = append(out, m)
				}
			}
		}
	}
	return out
}
