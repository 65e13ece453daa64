package mixer

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// OtoSink is the platform audio device the mixer drains into, one-to-one
// with the teacher's audio_backend_oto.go OtoPlayer: an io.Reader pulled
// by oto's own playback goroutine, with the hot path reading an
// atomic.Pointer so Read never blocks on a lock held by the setup/control
// side.
type OtoSink struct {
	ctx    *oto.Context
	player *oto.Player

	mix       atomic.Pointer[Mixer]
	sampleBuf []int16 // pre-allocated int16 scratch, reused across Read calls

	started bool
	mutex   sync.Mutex // setup/Start/Stop/Close only, never the hot path
}

// NewOtoSink opens the platform audio device at sampleRate, 16-bit
// stereo.
func NewOtoSink(sampleRate int) (*OtoSink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   0, // let oto pick a platform default
	})
	if err != nil {
		return nil, err
	}
	<-ready

	return &OtoSink{ctx: ctx}, nil
}

// SetupPlayer binds the mixer this sink drains and creates the oto
// player. Call once before Start.
func (s *OtoSink) SetupPlayer(m *Mixer) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.mix.Store(m)
	s.player = s.ctx.NewPlayer(s)
	s.sampleBuf = make([]int16, 4096)
}

// Read implements io.Reader for oto's player goroutine: fills p with
// mixed PCM, or silence if no mixer has been set up yet.
func (s *OtoSink) Read(p []byte) (int, error) {
	m := s.mix.Load()
	if m == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	numSamples := len(p) / 2 // bytes per int16
	if len(s.sampleBuf) < numSamples {
		s.sampleBuf = make([]int16, numSamples)
	}
	samples := s.sampleBuf[:numSamples]

	m.UpdateBuffer(samples)

	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:len(p)])
	return len(p), nil
}

// Start begins playback. No-op if already started or SetupPlayer wasn't
// called.
func (s *OtoSink) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.started && s.player != nil {
		s.player.Play()
		s.started = true
	}
}

// Stop halts playback without releasing the player.
func (s *OtoSink) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.started && s.player != nil {
		s.player.Pause()
		s.started = false
	}
}

// Close releases the oto player.
func (s *OtoSink) Close() {
	s.Stop()
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.player != nil {
		s.player.Close()
		s.player = nil
	}
}

// IsStarted reports whether playback is active.
func (s *OtoSink) IsStarted() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.started
}
