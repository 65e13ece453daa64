package mixer

// mixVoice mixes up to numSamples frames of v into the stereo accumulator
// out (interleaved L,R int32), starting at out[0]. It returns the number
// of samples actually mixed before the voice went silent or ran out of
// loop/sample data — the caller advances its own cursor into out by that
// count (spec.md §4.8 steps 1-9).
//
// Position is tracked as a single Q16.16 fixed-point value rather than
// the original's separate integer position plus carry-out-of-fraction
// scheme; the two are arithmetically identical, this is just fewer
// fields. End-of-sample is handled with an explicit bounds check instead
// of the original's guaranteed-+2-trailing-sample branchless tap, per the
// "MAY choose consistent semantics" allowance for re-implementations that
// aren't targeting bit-exact output (spec.md §9).
func mixVoice(v *Voice, out []int32, numSamples int, interpolate bool) int {
	if !v.active() || v.Freq == 0 {
		return 0
	}
	n := 0
	for n < numSamples {
		frame := v.Pos >> fixedShift
		if voiceNeedsWrap(v, frame) {
			if !loopVoice(v) {
				v.stop()
				break
			}
			continue
		}

		s1 := v.Base[frame]
		sample := int32(s1)
		if interpolate {
			var s2 int16
			if frame+1 < int64(len(v.Base)) {
				s2 = v.Base[frame+1]
			} else if v.RepL > 0 {
				s2 = v.Base[v.RepS]
			} else {
				s2 = s1
			}
			frac := int32(v.Pos & 0xFFFF)
			sample = int32(s1) + (((int32(s2) - int32(s1)) * frac) >> fixedShift)
		}

		out[n*2] += (sample * v.LVolCur) >> fixedShift
		out[n*2+1] += (sample * v.RVolCur) >> fixedShift
		v.advanceRamp()

		v.Pos += v.Freq
		n++
	}
	return n
}

// voiceNeedsWrap reports whether the voice has run off either end of its
// playable region: the whole sample (no loop), the loop end (forward), or
// the loop start while traveling backward (pingpong).
func voiceNeedsWrap(v *Voice, frame int64) bool {
	if frame < 0 || frame >= int64(len(v.Base)) {
		return true
	}
	if v.RepL <= 0 {
		return false
	}
	if v.Freq >= 0 {
		return frame >= v.RepS+v.RepL
	}
	return frame < v.RepS
}

// loopVoice handles end-of-buffer: wraps into the loop region (forward or
// pingpong) or reports the voice has nothing left to play.
func loopVoice(v *Voice) bool {
	if v.RepL <= 0 {
		return false
	}
	end := v.RepS + v.RepL
	if v.Pingpong {
		// Reflect position at whichever boundary was crossed and flip
		// direction by negating the step; simplest correct pingpong
		// without needing a mirrored reverse buffer, since Base is
		// already a full PCM slice.
		frac := v.Pos & 0xFFFF
		if v.Freq >= 0 {
			over := (v.Pos >> fixedShift) - end
			if over < 0 {
				over = 0
			}
			v.Pos = (end-over)<<fixedShift | frac
		} else {
			under := v.RepS - (v.Pos >> fixedShift)
			if under < 0 {
				under = 0
			}
			v.Pos = (v.RepS+under)<<fixedShift | frac
		}
		v.Freq = -v.Freq
		v.Type ^= sTypeRevDir
		return true
	}
	loopFrames := v.RepL
	for v.Pos>>fixedShift >= end {
		v.Pos -= loopFrames << fixedShift
	}
	return true
}

// clampSample saturates a 32-bit accumulator value to a signed 16-bit PCM
// sample (spec.md §4.8 step: "final output stage clamps to 16-bit").
func clampSample(v int32) int16 {
	const max16 = 1<<15 - 1
	const min16 = -(1 << 15)
	if v > max16 {
		return max16
	}
	if v < min16 {
		return min16
	}
	return int16(v)
}
