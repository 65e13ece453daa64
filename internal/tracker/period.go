package tracker

import "math"

// logTab is the 768-entry logarithmic period table behind linear-frequency
// conversion: logTab[i] encodes 2^(i/768) in the same fixed-point scale
// FT2-family players use so that frequenceMulFactor*logTab[i]>>24 lands in
// 16.16 Hz. Built at init time rather than baked in as a literal table,
// since what matters for correctness is the formula spec.md §4.7 names,
// not a specific compiler's rounding of a 768-entry constant array.
var logTab [768]uint32

func init() {
	for i := range logTab {
		logTab[i] = uint32(math.Round(math.Pow(2.0, float64(i)/768.0) * 65536.0 * 256.0))
	}
}

// frequenceDivFactor and frequenceMulFactor are derived from the replay
// rate exactly as original_source/libraries/m4p/pmplay.c computes them
// (pmplay.c:1133-1134): round(65536*1712/rate*8363) and
// round(256*65536/rate*8363).
var frequenceDivFactor, frequenceMulFactor uint32

// SetReplayRate (re)derives the two rate-dependent frequency factors.
// Must be called once before any PeriodToDelta conversion.
func SetReplayRate(rate float64) {
	frequenceDivFactor = uint32(math.Round(65536.0 * 1712.0 / rate * 8363.0))
	frequenceMulFactor = uint32(math.Round(256.0 * 65536.0 / rate * 8363.0))
}

func init() {
	SetReplayRate(48000)
}

// PeriodToDelta converts a period to a 16.16 fixed-point mixer frequency
// delta, in either linear or Amiga mode (spec.md §4.7).
func PeriodToDelta(period float64, linear bool) uint32 {
	if period <= 0 {
		return 0
	}
	if !linear {
		return uint32(float64(frequenceDivFactor) / period)
	}

	p := uint32(int64(period)) // truncate to the integer period FT2 effects operate on
	inv := uint16(12*192*4) - uint16(p)
	oct := 14 - int(inv)/768
	delta := (uint64(logTab[int(inv)%768]) * uint64(frequenceMulFactor)) >> 24
	shift := uint(oct) & 31
	return uint32(delta >> shift)
}

// amigaPeriodTable is the classic Amiga period-per-note table, one octave
// repeating across the supported note range via halving, matching the
// period the Amiga paula hardware would program for semitone n relative to
// C-1 at finetune 0.
var amigaPeriodTable = [12]float64{
	1712, 1616, 1525, 1440, 1357, 1281, 1209, 1141, 1077, 1017, 961, 907,
}

// NoteToAmigaPeriod returns the Amiga-mode period for note n (1-based,
// C-1=1), halving per octave above the base table's octave.
func NoteToAmigaPeriod(note int) float64 {
	if note < 1 {
		note = 1
	}
	n := note - 1
	octave := n / 12
	semitone := n % 12
	p := amigaPeriodTable[semitone]
	for ; octave > 0; octave-- {
		p /= 2
	}
	return p
}

// NoteToLinearPeriod returns the linear-mode period for note n, using the
// FT2 formula period = 7680 - n*64 - finetune/2 (finetune in 1/128
// semitone units, spec.md §3.4 sample field).
func NoteToLinearPeriod(note int, finetune int) float64 {
	return float64(7680 - note*64 - finetune/2)
}

// relocateTon converts a period back to the nearest note index via bounded
// binary search against the period table, adds arpNote semitones, and
// returns the resulting period (spec.md §4.7). The upper bound
// (8*12*16 = 1536 half-steps of precision) deliberately caps notes above
// B-7, preserving the original engine's documented bug rather than fixing
// it, since save-compatible playback depends on matching its output.
func relocateTon(period float64, arpNote int, linear bool) float64 {
	const upperBound = 8 * 12 * 16

	lo, hi := 0, upperBound
	for lo < hi {
		mid := (lo + hi) / 2
		var p float64
		if linear {
			p = NoteToLinearPeriod(mid/16+1, 0)
		} else {
			p = NoteToAmigaPeriod(mid/16 + 1)
		}
		if p > period {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	note := lo/16 + 1 + arpNote
	if linear {
		return NoteToLinearPeriod(note, 0)
	}
	return NoteToAmigaPeriod(note)
}
