package worldmap

// leafBit marks a BSP child index as a subsector reference rather than a
// node reference (spec.md §3.1).
const leafBit = 1 << 31

// BBox is an axis-aligned bounding box in map units.
type BBox struct {
	Top, Bottom, Left, Right float32
}

// Overlaps reports whether two boxes intersect.
func (b BBox) Overlaps(o BBox) bool {
	return b.Left <= o.Right && b.Right >= o.Left && b.Bottom <= o.Top && b.Top >= o.Bottom
}

// Node is one BSP splitting plane with two children. A child index with
// leafBit set names a subsector; otherwise it names another node.
type Node struct {
	X, Y, DX, DY   float32 // the partition line
	BBox           [2]BBox
	Child          [2]uint32
}

// ChildIsLeaf reports whether side (0 or 1) of the node is a subsector.
func (n *Node) ChildIsLeaf(side int) bool {
	return n.Child[side]&leafBit != 0
}

// ChildIndex strips the leaf bit from a child reference.
func ChildIndex(child uint32) int {
	return int(child &^ leafBit)
}

// Tree is the full BSP: interior nodes plus the leaf subsectors they
// eventually resolve to. Root is the index of the topmost Node, unless the
// whole map is a single subsector, in which case Nodes is empty and Root
// is unused.
type Tree struct {
	Nodes      []Node
	Subsectors []*Subsector
	Root       uint32
}

// side returns which side of the node's partition line the point (x,y)
// falls on: the sign of (py-y0)*dx - (px-x0)*dy (spec.md §4.2).
func (n *Node) side(x, y float32) int {
	dx := x - n.X
	dy := y - n.Y
	left := dy * n.DX
	right := n.DY * dx
	if left < right {
		return 0
	}
	return 1
}

// PointInSubsector descends the BSP from the root, placing the query point
// on one side of each interior node's partition line, until it reaches a
// leaf. Worst case O(log n) (spec.md §4.2).
func (t *Tree) PointInSubsector(x, y float32) *Subsector {
	if len(t.Nodes) == 0 {
		if len(t.Subsectors) == 1 {
			return t.Subsectors[0]
		}
		return nil
	}
	child := t.Root
	for child&leafBit == 0 {
		n := &t.Nodes[child]
		side := n.side(x, y)
		child = n.Child[side]
	}
	idx := ChildIndex(child)
	if idx < 0 || idx >= len(t.Subsectors) {
		return nil
	}
	return t.Subsectors[idx]
}

// CheckBBox walks the tree collecting the leaf subsectors whose bounding
// box overlaps clip, used by the visible-subsector and automap walks
// (spec.md §4.2). visit is called once per qualifying subsector; it may
// return false to stop the walk early.
func (t *Tree) CheckBBox(clip BBox, visit func(*Subsector) bool) {
	if len(t.Nodes) == 0 {
		if len(t.Subsectors) == 1 {
			visit(t.Subsectors[0])
		}
		return
	}
	var walk func(child uint32) bool
	walk = func(child uint32) bool {
		if child&leafBit != 0 {
			idx := ChildIndex(child)
			if idx >= 0 && idx < len(t.Subsectors) {
				return visit(t.Subsectors[idx])
			}
			return true
		}
		n := &t.Nodes[child]
		for side := 0; side < 2; side++ {
			if n.BBox[side].Overlaps(clip) {
				if !walk(n.Child[side]) {
					return false
				}
			}
		}
		return true
	}
	walk(t.Root)
}

// RegionForPoint walks a subsector's sector's extrafloor list bottom to
// top, selecting the innermost region whose [Bottom, Top] contains z
// (spec.md §4.2). Returns the sector's own base properties if no
// extrafloor contains z.
func RegionForPoint(ss *Subsector, z float32) RegionProps {
	sec := ss.Sector
	best := sec.Props
	for ef := firstExtrafloor(sec); ef != nil; ef = ef.Next {
		if z >= ef.Bottom && z <= ef.Top {
			best = ef.Props
		}
	}
	return best
}

func firstExtrafloor(s *Sector) *Extrafloor {
	var first *Extrafloor
	for _, ef := range s.Extrafloors {
		if ef.Prev == nil {
			first = ef
			break
		}
	}
	return first
}
