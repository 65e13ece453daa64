// Loopback recording/playback: spec.md §1's Non-goal excludes "networked
// multiplayer beyond loopback replay of local commands", so the only
// transport this package needs is a local stream of per-tic ticcmds, not
// an actual socket. Grounded on internal/savegame's stream-of-fixed-
// records framing idiom (magic + count-prefixed fixed-size entries)
// rather than the teacher's runtime_ipc.go JSON request/response framing,
// since a demo stream has no request/response shape to model.
package netio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/brackenfall/doomcore/internal/playerctl"
)

// DemoMagic identifies a recorded loopback ticcmd stream.
const DemoMagic = "DOOMCOREDEMO1"

// Recorder appends encoded ticcmds to an underlying stream, one tic's
// commands per call to WriteTic, framed as a 4-byte little-endian player
// count followed by that many PayloadSize-byte ticcmds - the per-tic
// shape GrabTiccmds delivers.
type Recorder struct {
	w       io.Writer
	started bool
}

// NewRecorder wraps w, writing the demo header on the first Write.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

func (r *Recorder) writeHeader() error {
	if r.started {
		return nil
	}
	r.started = true
	if _, err := io.WriteString(r.w, DemoMagic); err != nil {
		return fmt.Errorf("netio: recorder: write header: %w", err)
	}
	return nil
}

// WriteTic appends one tic's worth of per-player ticcmds in player-index
// order.
func (r *Recorder) WriteTic(cmds []playerctl.Ticcmd) error {
	if err := r.writeHeader(); err != nil {
		return err
	}
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(cmds)))
	if _, err := r.w.Write(countBuf[:]); err != nil {
		return fmt.Errorf("netio: recorder: write tic count: %w", err)
	}
	for _, cmd := range cmds {
		payload := Encode(cmd)
		if _, err := r.w.Write(payload[:]); err != nil {
			return fmt.Errorf("netio: recorder: write ticcmd: %w", err)
		}
	}
	return nil
}

// Player reads back a stream written by Recorder, one tic at a time.
type Player struct {
	r            io.Reader
	headerChecked bool
}

// NewPlayer wraps r; the demo header is checked on the first ReadTic.
func NewPlayer(r io.Reader) *Player {
	return &Player{r: r}
}

func (p *Player) checkHeader() error {
	if p.headerChecked {
		return nil
	}
	p.headerChecked = true
	got := make([]byte, len(DemoMagic))
	if _, err := io.ReadFull(p.r, got); err != nil {
		return fmt.Errorf("netio: player: read header: %w", err)
	}
	if string(got) != DemoMagic {
		return fmt.Errorf("netio: player: bad demo magic %q, want %q", got, DemoMagic)
	}
	return nil
}

// ReadTic returns the next tic's per-player ticcmds, or io.EOF once the
// stream is exhausted.
func (p *Player) ReadTic() ([]playerctl.Ticcmd, error) {
	if err := p.checkHeader(); err != nil {
		return nil, err
	}
	var countBuf [4]byte
	if _, err := io.ReadFull(p.r, countBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("netio: player: truncated tic count")
		}
		return nil, err
	}
	count := binary.LittleEndian.Uint32(countBuf[:])
	cmds := make([]playerctl.Ticcmd, count)
	payload := make([]byte, PayloadSize)
	for i := range cmds {
		if _, err := io.ReadFull(p.r, payload); err != nil {
			return nil, fmt.Errorf("netio: player: truncated ticcmd %d: %w", i, err)
		}
		cmd, err := Decode(payload)
		if err != nil {
			return nil, err
		}
		cmds[i] = cmd
	}
	return cmds, nil
}
