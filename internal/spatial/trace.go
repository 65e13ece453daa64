package spatial

import "github.com/brackenfall/doomcore/internal/worldmap"

// SightCheck reports whether there is an unobstructed line of sight
// between (x1,y1,z1) and (x2,y2,z2): no one-sided line crosses the
// segment, and no two-sided line's opening excludes the sightline's height
// at the crossing point (spec.md §4.2).
func SightCheck(w *worldmap.World, x1, y1, z1, x2, y2, z2 float32) bool {
	blocked := false
	walkLineIntercepts(w, x1, y1, x2, y2, func(l *worldmap.Line, frac float32) bool {
		if !l.TwoSided() {
			blocked = true
			return false
		}
		zAt := lerp(z1, z2, frac)
		op := lineOpening(l, lerp(x1, x2, frac), lerp(y1, y2, frac))
		if zAt < op.floor || zAt > op.ceiling {
			blocked = true
			return false
		}
		return true
	})
	return !blocked
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

// PathTraverse walks every line and thing whose segment-distance from
// (x1,y1) is within the segment to (x2,y2), visiting lines in increasing
// distance order (spec.md §4.2; used by hitscan attacks and use-line
// activation). visitLine returning false stops the line walk; things are
// unordered since most callers only need "does any solid thing occupy the
// segment", not strict ordering against lines.
func PathTraverse(w *worldmap.World, x1, y1, x2, y2 float32, visitLine func(l *worldmap.Line, frac float32) bool, visitThing func(t worldmap.MobjRef) bool) {
	walkLineIntercepts(w, x1, y1, x2, y2, visitLine)

	if visitThing == nil {
		return
	}
	box := worldmap.BBox{
		Top: maxf(y1, y2), Bottom: minf(y1, y2),
		Left: minf(x1, x2), Right: maxf(x1, x2),
	}
	for _, t := range w.Blockmap.ThingsNear(box) {
		if !visitThing(t) {
			return
		}
	}
}

// walkLineIntercepts finds every line crossing the segment (x1,y1)-(x2,y2),
// sorts the hits by distance from the start, and calls visit for each in
// order until visit returns false.
func walkLineIntercepts(w *worldmap.World, x1, y1, x2, y2 float32, visit func(*worldmap.Line, float32) bool) {
	box := worldmap.BBox{
		Top: maxf(y1, y2), Bottom: minf(y1, y2),
		Left: minf(x1, x2), Right: maxf(x1, x2),
	}
	type hit struct {
		l    *worldmap.Line
		frac float32
	}
	var hits []hit
	for _, l := range w.Blockmap.LinesNear(box) {
		if frac, ok := segmentIntersect(x1, y1, x2, y2, l.V1.X, l.V1.Y, l.V2.X, l.V2.Y); ok {
			hits = append(hits, hit{l, frac})
		}
	}
	// Insertion sort: candidate counts per trace are small enough that this
	// beats pulling in sort.Slice for a one-off closure.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].frac < hits[j-1].frac; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	for _, h := range hits {
		if !visit(h.l, h.frac) {
			return
		}
	}
}

// segmentIntersect returns the fraction along (x1,y1)-(x2,y2) at which it
// crosses (x3,y3)-(x4,y4), or ok=false if the segments don't cross within
// both their bounds.
func segmentIntersect(x1, y1, x2, y2, x3, y3, x4, y4 float32) (float32, bool) {
	d1x, d1y := x2-x1, y2-y1
	d2x, d2y := x4-x3, y4-y3
	denom := d1x*d2y - d1y*d2x
	if denom == 0 {
		return 0, false
	}
	t := ((x3-x1)*d2y - (y3-y1)*d2x) / denom
	u := ((x3-x1)*d1y - (y3-y1)*d1x) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}
