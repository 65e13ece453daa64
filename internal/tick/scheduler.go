// Package tick implements the maketic/gametic command scheduler (spec.md
// component G): BuildTiccmds, GrabTiccmds, and TryRunTics, preserving the
// invariant gametic <= maketic <= gametic + BACKUPTICS.
//
// Grounded on the teacher's internal/clock scheduler (fixed-rate tic
// accounting, realtime-driven catch-up bounded per frame) generalized from
// a single hardware clock to the two-cursor maketic/gametic buffer this
// engine's net/replay model requires.
package tick

import "time"

// BackupTics is the maximum number of tics the local input pipeline may
// run ahead of the simulation (spec.md §4.1).
const BackupTics = 12

// MaxPlayers bounds the per-tic ticcmd batch.
const MaxPlayers = 16

// Ticcmd is the scheduler's opaque payload type; callers substitute their
// own concrete command type via the generic Scheduler.
type Ticcmd = interface{}

// Scheduler owns the maketic/gametic cursors and the ring buffer of
// per-tic command batches.
type Scheduler struct {
	gametic int
	maketic int

	buf [BackupTics][MaxPlayers]Ticcmd

	// tickRate is ticks per second; 35 classic, 70 under r_doubleframes'
	// parent full-rate mode.
	tickRate   float64
	lastPoll   time.Time
	accumulated float64

	paused bool
}

// NewScheduler creates a scheduler ticking at tickRate Hz (35 or 70).
func NewScheduler(tickRate float64) *Scheduler {
	return &Scheduler{tickRate: tickRate, lastPoll: time.Time{}}
}

// Gametic returns the simulation's current tic counter.
func (s *Scheduler) Gametic() int { return s.gametic }

// Maketic returns the input pipeline's current tic counter.
func (s *Scheduler) Maketic() int { return s.maketic }

// SetPaused short-circuits TryRunTics to zero without advancing gametic
// (spec.md §4.1: "pause/erraticism/time-stop/menu-open conditions
// short-circuit P_Ticker but never advance gametic").
func (s *Scheduler) SetPaused(p bool) { s.paused = p }

// Paused reports the current pause state.
func (s *Scheduler) Paused() bool { return s.paused }

// BuildTiccmds reads build(playerIdx) for every local player slot that
// returns ok, writes the result into the maketic slot, and advances
// maketic. Returns false (without advancing) if the buffer is full, i.e.
// maketic has already run BackupTics ahead of gametic.
func (s *Scheduler) BuildTiccmds(localPlayers []int, build func(playerIdx int) (Ticcmd, bool)) bool {
	if s.maketic-s.gametic >= BackupTics {
		return false
	}
	slot := s.maketic % BackupTics
	for _, p := range localPlayers {
		if p < 0 || p >= MaxPlayers {
			continue // non-existent player index: dropped, spec.md §4.1
		}
		if cmd, ok := build(p); ok {
			s.buf[slot][p] = cmd
		}
	}
	s.maketic++
	return true
}

// GrabTiccmds copies the gametic slot into each player's live command via
// apply(playerIdx, cmd), then advances gametic. This is the only function
// in the package allowed to advance gametic (spec.md §4.1).
func (s *Scheduler) GrabTiccmds(apply func(playerIdx int, cmd Ticcmd)) {
	slot := s.gametic % BackupTics
	for p := 0; p < MaxPlayers; p++ {
		if cmd := s.buf[slot][p]; cmd != nil {
			apply(p, cmd)
		}
	}
	s.gametic++
}

// TryRunTics polls realtime since the last call, pumps input via poll,
// and returns how many tics the caller should run this frame — bounded by
// min(max(maketic-gametic, realtics), realtics+1) (spec.md §4.1). It does
// not wait for a tic to become available: the result is zero when no
// command is queued and less than one tic of realtime has passed. If
// paused, it still pumps input (so BuildTiccmds keeps filling the buffer)
// but returns zero tics to run.
func (s *Scheduler) TryRunTics(now time.Time, poll func()) int {
	if poll != nil {
		poll()
	}
	if s.lastPoll.IsZero() {
		s.lastPoll = now
	}
	elapsed := now.Sub(s.lastPoll).Seconds()
	s.accumulated += elapsed
	s.lastPoll = now

	realtics := int(s.accumulated * s.tickRate)
	if realtics > 0 {
		s.accumulated -= float64(realtics) / s.tickRate
	}

	if s.paused {
		return 0
	}

	available := s.maketic - s.gametic
	want := available
	if realtics > want {
		want = realtics
	}
	if want > realtics+1 {
		want = realtics + 1
	}
	if want < 0 {
		want = 0
	}
	return want
}
