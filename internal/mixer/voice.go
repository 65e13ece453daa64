// Package mixer implements the fixed-point stereo sample mixer (spec.md
// component J): up to two voices per tracker channel (primary plus a
// fade-out neighbor), ramped volume/pan, linear interpolation, and
// forward/pingpong loop playback, drained into an oto.v3 output sink.
//
// Grounded on original_source/libraries/m4p/src/pmp_mix.c (the CIType
// voice record and its mix_UpdateChannel/mix_UpdateBuffer inner loops) for
// the mixing algorithm itself, and the teacher's audio_backend_oto.go
// (OtoPlayer) for the io.Reader-based output sink shape.
package mixer

// SType bits select a voice's playback mode (pmp_mix.h Status_*/SType_*).
// Samples are normalized to 16-bit in memory by the loader (internal/
// tracker.Sample.Data is always []int16), so the "is16bit" axis of the
// original's 16-way inner-loop dispatch collapses away here; Ramp and
// Interpolate remain genuine per-mixer choices (Mixer.Ramp,
// Mixer.Interpolate) and are applied uniformly
// by mixVoice rather than as sixteen hand-specialized loops (see
// DESIGN.md — consistent semantics chosen over bit-exact dispatch, as
// spec.md §9 allows).
const (
	sTypeFwd     = 1 << iota // playing forward
	sTypeRev                 // playing in reverse (pingpong)
	sTypeRevDir              // reverse-direction latch, flips at loop turnaround
	sTypeOff                 // voice inactive, not mixed
	sTypeFadeout             // this voice is a dying note's fade-out neighbor
)

const fixedShift = 16
const fixedOne = 1 << fixedShift

// Voice is one mixer channel slot (pmp_mix.c's CIType). Two voices back
// every tracker.Channel: chnReloc[i] selects which of the pair is the
// "live" voice, so a new note can start on the idle neighbor while the
// old one fades out without a click.
type Voice struct {
	Base     []int16 // forward sample data (tracker.Sample.Data)
	Len      int64   // sample length in frames
	RepS     int64   // loop start, frames
	RepL     int64   // loop length, frames; 0 = no loop
	Pingpong bool

	Type uint8 // sType* bits

	Pos  int64 // 16.16 fixed-point frame position into Base
	Freq int64 // 16.16 step per output sample; negative while playing a pingpong loop backward

	Vol, Pan uint8 // 0..64, 0..255 — last commanded values, for ramp target recompute

	LVolCur, RVolCur int32 // current L/R volume, Q16 fixed point
	LVolTgt, RVolTgt int32 // ramp target
	LVolIP, RVolIP   int32 // per-sample ramp delta
	VolIPLen         int32 // remaining ramp samples

	// FadeoutAmp/FadeoutSpeed mirror tracker.Channel's fields of the same
	// names. Nothing in this package reads or writes them; a fade-out
	// neighbor fades only through its volume ramp.
	FadeoutAmp, FadeoutSpeed float64
}

// active reports whether the voice should be mixed at all.
func (v *Voice) active() bool {
	return v.Type&sTypeOff == 0 && v.Base != nil
}

// stop marks the voice inactive; it no longer advances or mixes.
func (v *Voice) stop() {
	v.Type |= sTypeOff
	v.Base = nil
}

// setVolPan recomputes L/R volume targets from a 0..64 volume and 0..255
// panning value, scaling by master volume. When ramp is disabled the
// current volume snaps straight to the target (pmp_mix.c's Status_QuickVol
// path); otherwise it's approached linearly over rampSamples.
func (v *Voice) setVolPan(vol, pan uint8, master float64, ramp bool, rampSamples int32) {
	v.Vol, v.Pan = vol, pan

	// pan 0 = full left, 128 = center, 255 = full right.
	l := float64(255-int(pan)) / 255.0
	r := float64(pan) / 255.0
	amp := float64(vol) / 64.0 * master

	target := func(side float64) int32 {
		return int32(amp * side * fixedOne)
	}
	v.LVolTgt = target(l)
	v.RVolTgt = target(r)

	if !ramp || rampSamples <= 0 {
		v.LVolCur, v.RVolCur = v.LVolTgt, v.RVolTgt
		v.LVolIP, v.RVolIP, v.VolIPLen = 0, 0, 0
		return
	}
	v.LVolIP = (v.LVolTgt - v.LVolCur) / rampSamples
	v.RVolIP = (v.RVolTgt - v.RVolCur) / rampSamples
	v.VolIPLen = rampSamples
}

// advanceRamp steps current volume one sample toward target; call once
// per mixed sample while VolIPLen > 0.
func (v *Voice) advanceRamp() {
	if v.VolIPLen <= 0 {
		return
	}
	v.LVolCur += v.LVolIP
	v.RVolCur += v.RVolIP
	v.VolIPLen--
	if v.VolIPLen == 0 {
		v.LVolCur, v.RVolCur = v.LVolTgt, v.RVolTgt
	}
}
