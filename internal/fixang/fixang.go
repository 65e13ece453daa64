// Package fixang provides the fixed-point math and angle tables shared by
// every other subsystem: BAM angles, sine/cosine/atan2 tables and the
// tracker's note/period and panning lookup tables (spec.md component A).
package fixang

import "math"

// Angle is a Binary Angular Measure: 2^32 represents 360 degrees, so it
// wraps for free on uint32 overflow/underflow.
type Angle uint32

const (
	Angle90  Angle = 0x40000000
	Angle180 Angle = 0x80000000
	Angle270 Angle = 0xC0000000
	Angle360 Angle = 0x00000000 // wraps
)

const tableBits = 13
const tableSize = 1 << tableBits // 8192 entries covers a quarter turn at usable precision

var sineTable [tableSize + 1]float64

func init() {
	for i := 0; i <= tableSize; i++ {
		sineTable[i] = math.Sin(float64(i) / float64(tableSize) * (math.Pi / 2))
	}
}

// FromDegrees converts a float degree value to a BAM Angle.
func FromDegrees(deg float64) Angle {
	return Angle(uint32(int64(deg/360.0*4294967296.0)) & 0xFFFFFFFF)
}

// ToDegrees converts a BAM Angle back to degrees in [0, 360).
func (a Angle) ToDegrees() float64 {
	return float64(a) / 4294967296.0 * 360.0
}

// quarterSine looks up sin(x) for x in [0, pi/2], x given as a fraction of
// the quarter-table index range.
func quarterSine(idx uint32) float64 {
	if idx > tableSize {
		idx = tableSize
	}
	return sineTable[idx]
}

// Sin returns the sine of a BAM angle using the quarter-wave table with
// mirroring across quadrants, same technique as the classic Doom trig
// tables (ANGLETOFINESHIFT and the FINESINE/FINECOSINE arrays).
func Sin(a Angle) float64 {
	quadrant := a >> 30
	rem := (uint32(a) << 2) >> (32 - tableBits - 2) // fraction within the quadrant, scaled to table index
	idx := rem >> 2
	switch quadrant {
	case 0:
		return quarterSine(idx)
	case 1:
		return quarterSine(tableSize - idx)
	case 2:
		return -quarterSine(idx)
	default:
		return -quarterSine(tableSize - idx)
	}
}

// Cos returns the cosine of a BAM angle, defined as Sin(a + 90deg).
func Cos(a Angle) float64 {
	return Sin(a + Angle90)
}

// ATan2 returns the BAM angle of the vector (dx, dy), with dy as the
// "vertical" (Y-up in map space) component. Matches the classic engine's
// R_PointToAngle convention: angle increases counter-clockwise from +X.
func ATan2(dy, dx float64) Angle {
	if dx == 0 && dy == 0 {
		return 0
	}
	rad := math.Atan2(dy, dx)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return Angle(uint32(rad / (2 * math.Pi) * 4294967296.0))
}

// Fixed16 is a 16.16 fixed-point number, used by the tracker/mixer for
// sub-sample position and frequency deltas (spec.md §4.7/§4.8).
type Fixed16 int64

const Fixed16One Fixed16 = 1 << 16

// FromFloat converts a float64 into 16.16 fixed point.
func FromFloat(f float64) Fixed16 {
	return Fixed16(f * float64(Fixed16One))
}

// ToFloat converts a 16.16 fixed-point value back to float64.
func (f Fixed16) ToFloat() float64 {
	return float64(f) / float64(Fixed16One)
}

// Int returns the integer (truncated) part.
func (f Fixed16) Int() int64 {
	return int64(f) >> 16
}

// Frac returns the fractional part as the low 16 bits.
func (f Fixed16) Frac() uint32 {
	return uint32(f) & 0xFFFF
}
