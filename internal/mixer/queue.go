package mixer

import (
	"sync/atomic"

	"github.com/brackenfall/doomcore/internal/mobj"
)

// SoundRequest is one "play this sound effect" message crossing from the
// sim thread to the audio thread (spec.md §5): the mobj that originated
// it (for future positional attenuation) and a content-defined sound
// effect id. The mixer package does not interpret sfx ids itself — that's
// a content-table lookup owned by whatever registers the sample data —
// it only carries the request across the thread boundary.
type SoundRequest struct {
	Origin mobj.Ref
	SfxID  int
}

// SoundQueue is a fixed-capacity lock-free single-producer/single-consumer
// ring buffer of SoundRequest. The sim thread (producer) calls Push from
// P_Ticker; the audio thread (consumer) calls DrainInto once per mixer
// callback, per spec.md §5's "audio side dequeues at callback start."
//
// Grounded on the teacher's audio_backend_oto.go lock-free hot path
// (atomic.Pointer read in Read() with no lock): here the same
// single-writer/single-reader discipline is expressed with a pair of
// atomic cursors over a fixed slice instead of swapping a whole struct,
// since this queue carries a stream of small messages rather than one
// mutable config blob.
type SoundQueue struct {
	buf        []SoundRequest
	head, tail atomic.Uint64 // head: next write slot; tail: next read slot
}

// NewSoundQueue creates a queue holding up to capacity pending requests.
func NewSoundQueue(capacity int) *SoundQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &SoundQueue{buf: make([]SoundRequest, capacity)}
}

// Push enqueues a request. Returns false if the queue is full — per
// spec.md §7 this is a dropped (not blocking) failure; the caller should
// treat a dropped StartFX the same as a no-op audio device.
func (q *SoundQueue) Push(req SoundRequest) bool {
	head := q.head.Load()
	tail := q.tail.Load()
	if head-tail >= uint64(len(q.buf)) {
		return false
	}
	q.buf[head%uint64(len(q.buf))] = req
	q.head.Store(head + 1)
	return true
}

// DrainInto appends every currently pending request to dst and returns
// the extended slice. Call once per mixer callback before mixing.
func (q *SoundQueue) DrainInto(dst []SoundRequest) []SoundRequest {
	head := q.head.Load()
	tail := q.tail.Load()
	for tail < head {
		dst = append(dst, q.buf[tail%uint64(len(q.buf))])
		tail++
	}
	q.tail.Store(tail)
	return dst
}
