package mixer

import (
	"testing"

	"github.com/brackenfall/doomcore/internal/tracker"
)

func TestSoundQueuePushDrain(t *testing.T) {
	q := NewSoundQueue(2)
	if !q.Push(SoundRequest{SfxID: 1}) {
		t.Fatalf("expected push 1 to succeed")
	}
	if !q.Push(SoundRequest{SfxID: 2}) {
		t.Fatalf("expected push 2 to succeed")
	}
	if q.Push(SoundRequest{SfxID: 3}) {
		t.Fatalf("expected push 3 to fail, queue is full")
	}

	got := q.DrainInto(nil)
	if len(got) != 2 || got[0].SfxID != 1 || got[1].SfxID != 2 {
		t.Fatalf("unexpected drain result: %+v", got)
	}

	if !q.Push(SoundRequest{SfxID: 4}) {
		t.Fatalf("expected push after drain to succeed")
	}
}

func TestVoiceSetVolPanSnapsWithoutRamp(t *testing.T) {
	v := &Voice{}
	v.setVolPan(64, 128, 1.0, false, 64)
	if v.LVolCur != v.LVolTgt || v.RVolCur != v.RVolTgt {
		t.Fatalf("expected immediate snap to target, got cur=(%d,%d) tgt=(%d,%d)", v.LVolCur, v.RVolCur, v.LVolTgt, v.RVolTgt)
	}
	if v.VolIPLen != 0 {
		t.Fatalf("expected no pending ramp, got VolIPLen=%d", v.VolIPLen)
	}
}

func TestVoiceSetVolPanRampsGradually(t *testing.T) {
	v := &Voice{}
	v.setVolPan(64, 128, 1.0, true, 64)
	if v.LVolCur == v.LVolTgt {
		t.Fatalf("expected ramp to not have reached target immediately")
	}
	if v.VolIPLen != 64 {
		t.Fatalf("expected VolIPLen=64, got %d", v.VolIPLen)
	}
	for i := 0; i < 64; i++ {
		v.advanceRamp()
	}
	if v.LVolCur != v.LVolTgt || v.RVolCur != v.RVolTgt {
		t.Fatalf("expected ramp to reach target after 64 samples, got cur=(%d,%d) tgt=(%d,%d)", v.LVolCur, v.RVolCur, v.LVolTgt, v.RVolTgt)
	}
}

func TestMixVoiceSilentVoiceOnlyAdvancesPosition(t *testing.T) {
	v := &Voice{
		Base: []int16{100, 200, 300, 400, 500, 600, 700, 800},
		Len:  8,
		Type: sTypeFwd,
		Freq: 2 << fixedShift, // step 2 frames per output sample
	}
	out := make([]int32, 8) // 4 frames stereo
	n := mixVoice(v, out, 4, false)
	if n != 4 {
		t.Fatalf("expected 4 samples mixed, got %d", n)
	}
	for i, s := range out {
		if s != 0 {
			t.Fatalf("expected zero output with zero volume, got out[%d]=%d", i, s)
		}
	}
	if v.Pos>>fixedShift != 8 {
		t.Fatalf("expected position advanced by freq*numSamples = 8 frames, got %d", v.Pos>>fixedShift)
	}
}

func TestMixVoiceStopsAtEndOfNonLoopingSample(t *testing.T) {
	v := &Voice{
		Base:    []int16{1000, 1000, 1000},
		Len:     3,
		Type:    sTypeFwd,
		Freq:    1 << fixedShift,
		LVolCur: 1 << fixedShift,
		RVolCur: 1 << fixedShift,
	}
	out := make([]int32, 20)
	n := mixVoice(v, out, 10, false)
	if n != 3 {
		t.Fatalf("expected exactly 3 samples mixed before running off the end, got %d", n)
	}
	if v.active() {
		t.Fatalf("expected voice to stop after exhausting a non-looping sample")
	}
}

func TestMixVoiceLoopsForward(t *testing.T) {
	v := &Voice{
		Base:    []int16{0, 1000, 2000, 3000},
		Len:     4,
		RepS:    1,
		RepL:    2,
		Type:    sTypeFwd,
		Freq:    1 << fixedShift,
		LVolCur: 1 << fixedShift,
		RVolCur: 1 << fixedShift,
	}
	out := make([]int32, 20)
	n := mixVoice(v, out, 10, false)
	if n != 10 {
		t.Fatalf("expected looping voice to keep mixing all 10 requested samples, got %d", n)
	}
	if !v.active() {
		t.Fatalf("expected looping voice to remain active")
	}
}

func buildTestSong() *tracker.Song {
	s := &tracker.Song{
		Name:         "t",
		Length:       1,
		Channels:     1,
		DefaultTempo: 2,
		DefaultSpeed: 125,
		GlobalVolume: 64,
		Patterns: []tracker.Pattern{{
			Rows: 1, Channels: 1, Cells: make([]tracker.Cell, 1),
		}},
		Instruments: []tracker.Instrument{{
			Samples:    []tracker.Sample{{Data: []int16{1000, 2000, 3000, 4000, 3000, 2000, 1000, 0}, Volume: 64, Panning: 128}},
			NoteSample: [96]int{0: 0},
		}},
	}
	s.Patterns[0].At(0, 0).Note = 1
	s.Patterns[0].At(0, 0).Instrument = 1
	return s
}

func TestMixerUpdateBufferProducesNonSilentAudio(t *testing.T) {
	song := buildTestSong()
	m := New(song, 48000, 8)
	out := make([]int16, 256)
	m.UpdateBuffer(out)

	nonZero := false
	for _, s := range out {
		if s != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatalf("expected some non-silent output after triggering a note")
	}
}

func TestMixerPendingDrainsSoundQueue(t *testing.T) {
	song := buildTestSong()
	m := New(song, 48000, 8)
	m.Queue.Push(SoundRequest{SfxID: 7})

	out := make([]int16, 64)
	m.UpdateBuffer(out)

	pending := m.Pending()
	if len(pending) != 1 || pending[0].SfxID != 7 {
		t.Fatalf("expected the pushed request to be drained, got %+v", pending)
	}
}
