package mixer

import (
	"github.com/brackenfall/doomcore/internal/tracker"
)

// rampSamples is how many output samples a volume/pan change takes to
// reach its target when ramping is enabled — short enough to track fast
// effect changes, long enough to kill zipper noise (pmp_mix.c ties this
// to SVolIPLen; a fixed constant here is the idiomatic equivalent since
// nothing in spec.md calls for it to vary per voice).
const rampSamples = 64

// Mixer drives a tracker.Replayer one row-tick chunk at a time and mixes
// its channels' live voices into an interleaved 16-bit stereo buffer
// (spec.md §4.7 "each audio callback requests N samples" / §4.8). Two
// Voice slots back every tracker channel so a new note can start on the
// idle neighbor while the old one rings out (spec.md §3.4's chnReloc
// invariant).
type Mixer struct {
	Replayer *tracker.Replayer

	SampleRate   float64
	MasterVolume float64 // 0..1
	Ramp         bool
	Interpolate  bool

	voices   []Voice
	chnReloc []int

	Queue   *SoundQueue
	pending []SoundRequest

	chunkLeft float64
	mixBuf    []int32
}

// New creates a Mixer for song, sized for sampleRate output and queued to
// accept up to soundQueueCap pending StartFX requests from the sim side.
func New(song *tracker.Song, sampleRate float64, soundQueueCap int) *Mixer {
	tracker.SetReplayRate(sampleRate)

	m := &Mixer{
		SampleRate:   sampleRate,
		MasterVolume: 1.0,
		Ramp:         true,
		Interpolate:  true,
		voices:       make([]Voice, song.Channels*2),
		chnReloc:     make([]int, song.Channels),
		Queue:        NewSoundQueue(soundQueueCap),
	}
	for ch := range m.chnReloc {
		m.chnReloc[ch] = ch * 2
	}
	m.Replayer = tracker.NewReplayer(song, sampleRate)
	m.Replayer.NewNote = m.onNewNote
	return m
}

// onNewNote is the tracker.Replayer.NewNote hook: it swaps the channel's
// live voice to the idle neighbor and binds it to the freshly triggered
// sample, letting the previous voice fade out on its own (spec.md §3.4
// invariant on chnReloc).
func (m *Mixer) onNewNote(ch int, c *tracker.Channel) {
	old := &m.voices[m.chnReloc[ch]]
	if old.active() {
		if m.Ramp {
			old.Type |= sTypeFadeout
			old.LVolTgt, old.RVolTgt = 0, 0
			old.LVolIP = (0 - old.LVolCur) / rampSamples
			old.RVolIP = (0 - old.RVolCur) / rampSamples
			old.VolIPLen = rampSamples
		} else {
			old.stop()
		}
	}

	m.chnReloc[ch] = otherVoice(m.chnReloc[ch], ch)
	nv := &m.voices[m.chnReloc[ch]]

	*nv = Voice{}
	if c.Sample == nil {
		nv.Type = sTypeOff
		return
	}
	nv.Base = c.Sample.Data
	nv.Len = int64(len(c.Sample.Data))
	nv.RepS = int64(c.Sample.LoopStart)
	nv.RepL = int64(c.Sample.LoopLength)
	nv.Pingpong = c.Sample.Pingpong
	nv.Type = sTypeFwd
	nv.Pos = 0
}

// otherVoice returns the neighbor slot of ch's current live voice: the
// pair is {2ch, 2ch+1}.
func otherVoice(current, ch int) int {
	if current == ch*2 {
		return ch*2 + 1
	}
	return ch * 2
}

// syncVoices copies each channel's current period/volume/panning onto its
// live voice. Called once per row-tick chunk, right after Replayer.Advance.
func (m *Mixer) syncVoices() {
	linear := m.Replayer.Song.LinearFreq
	for ch := range m.Replayer.Channels {
		c := &m.Replayer.Channels[ch]
		v := &m.voices[m.chnReloc[ch]]
		if !v.active() {
			continue
		}
		v.Freq = int64(tracker.PeriodToDelta(c.OutPeriod, linear))
		v.setVolPan(uint8(c.FinalVolume), uint8(c.FinalPanning), m.MasterVolume, m.Ramp, rampSamples)
	}
}

// UpdateBuffer fills out (interleaved int16 L,R) with exactly len(out)/2
// mixed stereo frames, advancing the replayer by however many row-tick
// chunks that spans (spec.md §4.7/§4.8).
func (m *Mixer) UpdateBuffer(out []int16) {
	numFrames := len(out) / 2
	if numFrames == 0 {
		return
	}
	if cap(m.mixBuf) < numFrames*2 {
		m.mixBuf = make([]int32, numFrames*2)
	}
	mixBuf := m.mixBuf[:numFrames*2]
	for i := range mixBuf {
		mixBuf[i] = 0
	}

	m.pending = m.Queue.DrainInto(m.pending[:0])

	filled := 0
	for filled < numFrames {
		if m.chunkLeft < 1 {
			m.Replayer.Advance()
			m.syncVoices()
			m.chunkLeft += m.Replayer.SpeedValSamples()
		}

		chunk := numFrames - filled
		if remaining := int(m.chunkLeft); remaining < chunk {
			chunk = remaining
		}
		if chunk < 1 {
			chunk = 1
		}

		for vi := range m.voices {
			v := &m.voices[vi]
			if v.active() {
				mixVoice(v, mixBuf[filled*2:], chunk, m.Interpolate)
			}
		}

		filled += chunk
		m.chunkLeft -= float64(chunk)
	}

	for i, s := range mixBuf {
		out[i] = clampSample(s)
	}
}

// Pending returns the SoundRequests drained from Queue during the most
// recent UpdateBuffer call, for a caller (the engine) that wants to start
// positional sound-effect playback — the mixer package itself only
// carries the request across the thread boundary (spec.md §5).
func (m *Mixer) Pending() []SoundRequest {
	return m.pending
}
