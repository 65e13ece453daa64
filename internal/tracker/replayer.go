package tracker

// Replayer holds the song-position state spec.md §4.7 names and drives
// the row/tick scheduler. One Replayer per playing song; channel state
// lives in the Channels slice alongside it.
type Replayer struct {
	Song *Song

	SongPos, PattPos int
	Timer            int
	Tempo            int // ticks per row
	Speed            int // BPM-like

	PBreakPos      int
	PBreakFlag     bool
	PosJumpFlag    bool
	PosJumpTarget  int
	PattDelTime    int
	PattDelTime2   int
	GlobVol        int

	Channels []Channel

	// samplesLeftInRow tracks how many mixer samples remain in the current
	// row-tick chunk; NextChunk decrements it and reports when a new chunk
	// boundary (tick) begins.
	samplesLeftInRow float64
	replayRate       float64

	// NewNote is called once per channel whenever GetNewNote starts or
	// changes an instrument, so the mixer layer can (re)point a voice at
	// the new sample. Optional.
	NewNote func(ch int, c *Channel)
}

// NewReplayer creates a Replayer positioned at the start of song.
func NewReplayer(song *Song, replayRate float64) *Replayer {
	r := &Replayer{
		Song:       song,
		Tempo:      song.DefaultTempo,
		Speed:      song.DefaultSpeed,
		GlobVol:    song.GlobalVolume,
		Channels:   make([]Channel, song.Channels),
		replayRate: replayRate,
	}
	// Timer starts at 0 so the first Advance call lands on tick zero and
	// triggers row 0 immediately, rather than waiting a full row.
	return r
}

// SpeedValSamples returns the number of mixer samples in one row-tick
// chunk (spec.md §4.7): (replay_rate * 5 / 2) / speed.
func (r *Replayer) SpeedValSamples() float64 {
	if r.Speed == 0 {
		return r.replayRate * 5 / 2
	}
	return (r.replayRate * 5 / 2) / float64(r.Speed)
}

// Advance runs exactly one row-tick chunk boundary: decide tick-zero vs.
// effect-tick, dispatch to GetNewNote or DoEffects, advance envelopes, and
// step the row pointer (spec.md §4.7 steps 1-4). Callers drive this once
// per SpeedValSamples() worth of mixed audio.
func (r *Replayer) Advance() {
	r.Timer--
	tickZero := false
	if r.Timer <= 0 {
		r.Timer = r.Tempo
		tickZero = true
	}

	for i := range r.Channels {
		r.Channels[i].OutPeriod = r.Channels[i].Period
		r.Channels[i].OutVolume = r.Channels[i].RealVolume
	}

	if tickZero && r.PattDelTime2 == 0 {
		r.getNewNoteAllChannels()
	} else {
		r.doEffectsAllChannels()
	}

	r.fixaEnvelopeVibrato()

	if tickZero {
		r.getNextPos()
	}
}

func (r *Replayer) currentPattern() *Pattern {
	if r.Song == nil || r.SongPos >= r.Song.Length {
		return nil
	}
	idx := r.Song.OrderTable[r.SongPos]
	if idx < 0 || idx >= len(r.Song.Patterns) {
		return nil
	}
	return &r.Song.Patterns[idx]
}

func (r *Replayer) getNewNoteAllChannels() {
	pat := r.currentPattern()
	if pat == nil {
		return
	}
	for ch := range r.Channels {
		if r.PattPos >= pat.Rows {
			continue
		}
		r.getNewNote(ch, pat.At(r.PattPos, ch))
	}
}

func (r *Replayer) doEffectsAllChannels() {
	pat := r.currentPattern()
	for ch := range r.Channels {
		var cell *Cell
		if pat != nil && r.PattPos < pat.Rows {
			cell = pat.At(r.PattPos, ch)
		} else {
			cell = &Cell{}
		}
		r.doEffects(ch, cell)
	}
}

// getNextPos advances PattPos (or processes a pattern-delay, break, or
// position jump) and wraps SongPos at the end of the song (spec.md §4.7
// step 4, the §8 testable property on pattpos/songpos advance).
func (r *Replayer) getNextPos() {
	if r.PattDelTime2 > 0 {
		r.PattDelTime2--
		if r.PattDelTime2 > 0 {
			return
		}
	}
	if r.PattDelTime > 0 {
		r.PattDelTime2 = r.PattDelTime
		r.PattDelTime = 0
	}

	switch {
	case r.PosJumpFlag:
		// Bxx sets songpos directly; a combined Dxx on the same row still
		// supplies the destination row via pBreakPos, else row 0.
		r.SongPos = r.PosJumpTarget
		r.PosJumpFlag = false
		if r.PBreakFlag {
			r.PattPos = r.PBreakPos
			r.PBreakFlag = false
			r.PBreakPos = 0
		} else {
			r.PattPos = 0
		}
	case r.PBreakFlag:
		r.PattPos = r.PBreakPos
		r.PBreakFlag = false
		r.PBreakPos = 0
		r.SongPos++
	default:
		r.PattPos++
		pat := r.currentPattern()
		if pat == nil || r.PattPos >= pat.Rows {
			r.PattPos = 0
			r.SongPos++
		}
	}

	if r.Song != nil && r.SongPos >= r.Song.Length {
		r.SongPos = r.Song.RestartPos
	}
}
