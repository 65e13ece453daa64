package tracker

// Channel is the per-voice replay state (spec.md §3.4 "stm"): current
// period, envelope cursors, effect memories, and the handful of counters
// every FT2-family effect needs between ticks. One Channel per song
// channel, mirroring the teacher's one-AHXVoice-per-voice layout.
type Channel struct {
	Instrument *Instrument
	Sample     *Sample
	Note       int

	Period    float64 // current pitch period
	OutPeriod float64 // period after vibrato/arpeggio modulation
	WantPeriod float64 // tone-portamento target

	RealVolume, OutVolume, FinalVolume int
	Panning, FinalPanning              int

	EnvVolCnt, EnvVolIPValue int
	EnvVolAmp                float64
	EnvPanCnt, EnvPanIPValue int
	EnvPanAmp                float64
	envVolNodeIdx, envPanNodeIdx int

	FadeoutAmp, FadeoutSpeed float64
	KeyOff                   bool

	VibratoPos, VibratoDepth, VibratoSpeed int
	WaveCtrl                                int // low nibble = vibrato waveform, high nibble = tremolo waveform
	TremoloPos, TremoloDepth, TremoloSpeed  int
	TremorOn, TremorCount                   int
	AutoVibratoPos, AutoVibratoSweepCnt      int

	PortaUpMem, PortaDownMem   int
	TonePortaMem               int
	TonePortaDir               int // 0 = none, 1 = up, 2 = down
	Glissando                  bool
	VolSlideMem                int
	GlobalVolSlideMem          int
	PanSlideMem                int
	RetrigMem                  int
	SampleOffsetMem            int
	FinePortaUpMem             int
	FinePortaDownMem           int
	ExtraFinePortaUpMem        int
	ExtraFinePortaDownMem      int

	PatternLoopRow   int
	PatternLoopCount int

	noteCutTick   int
	noteDelayTick int

	SamplePos float64

	Muted bool
}

// reloadEnvelopeState resets the envelope cursors when a new note starts.
func (c *Channel) reloadEnvelopeState() {
	c.EnvVolCnt, c.EnvVolIPValue, c.EnvVolAmp = 0, 0, 0
	c.EnvPanCnt, c.EnvPanIPValue, c.EnvPanAmp = 0, 0, 0
	c.envVolNodeIdx, c.envPanNodeIdx = 0, 0
	c.FadeoutAmp = 1.0
	c.KeyOff = false
}
