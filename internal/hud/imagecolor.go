package hud

// PixelSource is the minimal read surface an Image needs to support the
// query API's region color analysis (hud.get_average_color/
// get_lightest_color/get_darkest_color/get_average_hue — vm_hud.cc's
// image_data_c::AverageColor/LightestColor/DarkestColor/AverageHue,
// operating on an already-palette-resolved RGB buffer per
// R_PalettisedToRGB). Decoupled from any particular image/decoder type
// so this package never needs golang.org/x/image (SPEC_FULL.md §9: that
// decoder has no in-scope wiring site).
type PixelSource interface {
	Size() (w, h int)
	// At returns the RGB color at (x, y); out-of-range coordinates
	// return zero.
	At(x, y int) (r, g, b uint8)
}

// clampRegion clips [fromX,toX) x [fromY,toY) to the image bounds,
// matching the lua_hud.cc default of an enormous to_x/to_y (1000000)
// meaning "to the edge".
func clampRegion(w, h int, fromX, toX, fromY, toY int) (x0, x1, y0, y1 int) {
	x0, y0 = max(fromX, 0), max(fromY, 0)
	x1, y1 = min(toX, w), min(toY, h)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return
}

// AverageColor implements hud.get_average_color.
func AverageColor(img PixelSource, fromX, toX, fromY, toY int) (r, g, b uint8) {
	w, h := img.Size()
	x0, x1, y0, y1 := clampRegion(w, h, fromX, toX, fromY, toY)

	var sumR, sumG, sumB, n int64
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			pr, pg, pb := img.At(x, y)
			sumR += int64(pr)
			sumG += int64(pg)
			sumB += int64(pb)
			n++
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	return uint8(sumR / n), uint8(sumG / n), uint8(sumB / n)
}

// luma is the perceptual brightness used to rank lightest/darkest
// pixels (standard Rec. 601 luma weights).
func luma(r, g, b uint8) int {
	return 299*int(r) + 587*int(g) + 114*int(b)
}

// LightestColor implements hud.get_lightest_color.
func LightestColor(img PixelSource, fromX, toX, fromY, toY int) (r, g, b uint8) {
	return extremeColor(img, fromX, toX, fromY, toY, true)
}

// DarkestColor implements hud.get_darkest_color.
func DarkestColor(img PixelSource, fromX, toX, fromY, toY int) (r, g, b uint8) {
	return extremeColor(img, fromX, toX, fromY, toY, false)
}

func extremeColor(img PixelSource, fromX, toX, fromY, toY int, lightest bool) (r, g, b uint8) {
	w, h := img.Size()
	x0, x1, y0, y1 := clampRegion(w, h, fromX, toX, fromY, toY)

	found := false
	var best int
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			pr, pg, pb := img.At(x, y)
			l := luma(pr, pg, pb)
			if !found || (lightest && l > best) || (!lightest && l < best) {
				found, best = true, l
				r, g, b = pr, pg, pb
			}
		}
	}
	return
}

// AverageHue implements hud.get_average_hue: the average color with its
// saturation pushed to maximum, i.e. the region's dominant hue rather
// than its average brightness (vm_hud.cc passes a null saturation-boost
// argument; this keeps the simpler single-return form used here).
func AverageHue(img PixelSource, fromX, toX, fromY, toY int) (r, g, b uint8) {
	ar, ag, ab := AverageColor(img, fromX, toX, fromY, toY)
	return saturate(ar, ag, ab)
}

// saturate rescales r,g,b so the channel spread is maximized while
// preserving hue and relative luma ordering — a cheap HSV round-trip
// avoided by scaling directly off min/max.
func saturate(r, g, b uint8) (uint8, uint8, uint8) {
	lo := min(r, min(g, b))
	hi := max(r, max(g, b))
	if hi == lo {
		return r, g, b
	}
	scale := func(c uint8) uint8 {
		return uint8((int(c) - int(lo)) * 255 / (int(hi) - int(lo)))
	}
	return scale(r), scale(g), scale(b)
}
