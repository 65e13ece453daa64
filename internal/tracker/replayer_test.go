package tracker

import "testing"

func simpleSong(rows, channels int) *Song {
	s := &Song{
		Name:         "test",
		Length:       1,
		Channels:     channels,
		DefaultTempo: 6,
		DefaultSpeed: 125,
		GlobalVolume: 64,
		Patterns:     []Pattern{{Rows: rows, Channels: channels, Cells: make([]Cell, rows*channels)}},
	}
	s.OrderTable[0] = 0
	return s
}

func TestAdvanceTickZeroTriggersNote(t *testing.T) {
	s := simpleSong(4, 2)
	s.Instruments = []Instrument{{
		Samples:    []Sample{{Volume: 64}},
		NoteSample: [96]int{0: 0},
	}}
	s.Patterns[0].At(0, 0).Note = 1
	s.Patterns[0].At(0, 0).Instrument = 1

	r := NewReplayer(s, 48000)
	r.Advance()

	c := &r.Channels[0]
	if c.Note != 1 {
		t.Fatalf("expected note 1 triggered, got %d", c.Note)
	}
	if c.Sample == nil {
		t.Fatalf("expected sample bound to channel")
	}
	if c.RealVolume != 64 {
		t.Fatalf("expected volume 64, got %d", c.RealVolume)
	}
}

func TestAdvanceAdvancesRowAfterTempoTicks(t *testing.T) {
	s := simpleSong(2, 1)
	r := NewReplayer(s, 48000)
	r.Tempo = 3

	for i := 0; i < 3; i++ {
		r.Advance()
	}
	if r.PattPos != 1 {
		t.Fatalf("expected pattpos 1 after one full row of ticks, got %d", r.PattPos)
	}
}

func TestAdvanceWrapsSongAtEnd(t *testing.T) {
	s := simpleSong(1, 1)
	s.Length = 1
	s.RestartPos = 0
	r := NewReplayer(s, 48000)
	r.Tempo = 1

	r.Advance() // consumes the only row, wraps songpos back to 0
	if r.SongPos != 0 {
		t.Fatalf("expected songpos wrapped to restart pos 0, got %d", r.SongPos)
	}
	if r.PattPos != 0 {
		t.Fatalf("expected pattpos reset to 0, got %d", r.PattPos)
	}
}

func TestPositionJumpEffectSetsSongPos(t *testing.T) {
	s := simpleSong(4, 1)
	s.Length = 2
	s.Patterns = append(s.Patterns, Pattern{Rows: 4, Channels: 1, Cells: make([]Cell, 4)})
	s.OrderTable[1] = 1
	s.Patterns[0].At(0, 0).EffType = effPositionJump
	s.Patterns[0].At(0, 0).EffParam = 1

	r := NewReplayer(s, 48000)
	r.Tempo = 1
	r.Advance()

	if r.SongPos != 1 {
		t.Fatalf("expected songpos jumped to 1, got %d", r.SongPos)
	}
	if r.PattPos != 0 {
		t.Fatalf("expected pattpos reset to 0 after bare jump, got %d", r.PattPos)
	}
}

func TestPatternBreakAdvancesSongPosAndSetsRow(t *testing.T) {
	s := simpleSong(4, 1)
	s.Length = 2
	s.Patterns = append(s.Patterns, Pattern{Rows: 4, Channels: 1, Cells: make([]Cell, 4)})
	s.OrderTable[1] = 1
	s.Patterns[0].At(0, 0).EffType = effPatternBreak
	s.Patterns[0].At(0, 0).EffParam = 0x12 // row 12 (decimal-ish: 1*10+2)

	r := NewReplayer(s, 48000)
	r.Tempo = 1
	r.Advance()

	if r.SongPos != 1 {
		t.Fatalf("expected songpos advanced to 1, got %d", r.SongPos)
	}
	if r.PattPos != 12 {
		t.Fatalf("expected pattpos set to 12, got %d", r.PattPos)
	}
}

func TestRelocateTonZeroSemitonesRoundTripsPeriod(t *testing.T) {
	s := simpleSong(1, 1)
	r := NewReplayer(s, 48000)
	r.Channels[0].Period = NoteToAmigaPeriod(49) // C-5 reference period (C-1 = note 1)
	got := relocateTon(r.Channels[0].Period, 0, false)
	if got != r.Channels[0].Period {
		t.Fatalf("relocateTon with 0 semitones should round-trip period, got %v want %v", got, r.Channels[0].Period)
	}
}

func TestVolumeSlideClampsToZero(t *testing.T) {
	s := simpleSong(1, 1)
	r := NewReplayer(s, 48000)
	c := &r.Channels[0]
	c.RealVolume = 2
	r.effectVolumeSlide(c, 0x05) // slide down by 5
	if c.RealVolume != 0 {
		t.Fatalf("expected volume clamped to 0, got %d", c.RealVolume)
	}
}

func TestEnvelopeInterpolatesBetweenNodes(t *testing.T) {
	e := Envelope{
		Enabled: true,
		Nodes:   []EnvelopeNode{{X: 0, Y: 0}, {X: 10, Y: 64}},
	}
	var nodeIdx, cnt, ip int
	var amp float64
	for i := 0; i < 5; i++ {
		advanceEnvelope(&e, &nodeIdx, &cnt, &ip, &amp, false)
	}
	if amp <= 0 || amp >= 1 {
		t.Fatalf("expected amp partway through ramp, got %v", amp)
	}
}

func TestEnvelopeHoldsAtSustainUntilKeyOff(t *testing.T) {
	e := Envelope{
		Enabled:    true,
		SustainOn:  true,
		SustainIdx: 1,
		Nodes:      []EnvelopeNode{{X: 0, Y: 0}, {X: 5, Y: 64}, {X: 20, Y: 0}},
	}
	var nodeIdx, cnt, ip int
	var amp float64
	for i := 0; i < 30; i++ {
		advanceEnvelope(&e, &nodeIdx, &cnt, &ip, &amp, false)
	}
	if nodeIdx != 1 {
		t.Fatalf("expected envelope held at sustain node 1, got %d", nodeIdx)
	}
}
