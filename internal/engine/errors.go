// Error kinds and the fatal/recoverable split (spec.md §7), wired to
// internal/elog so a recoverable Warning becomes a logged entry while a
// FatalError is the single-line message main prints before exiting.
//
// Grounded on the teacher's fmt.Errorf("...: %w", err) wrapping style
// (LoadROM-style helpers) and Nitro-Core-DX's internal/emulator error
// handling, per SPEC_FULL.md §8.2.
package engine

import (
	"fmt"
	"strings"
	"sync"

	"golang.design/x/clipboard"

	"github.com/brackenfall/doomcore/internal/elog"
)

// Kind classifies an error per spec.md §7's five cases.
type Kind int

const (
	KindMalformedData Kind = iota
	KindContentBug
	KindSaveMismatch
	KindAudioDevice
	KindOutOfMemory
)

func (k Kind) String() string {
	switch k {
	case KindMalformedData:
		return "malformed data"
	case KindContentBug:
		return "content bug"
	case KindSaveMismatch:
		return "save mismatch"
	case KindAudioDevice:
		return "audio device"
	case KindOutOfMemory:
		return "out of memory"
	default:
		return "unknown"
	}
}

// FatalError aborts the run: load-time malformed data, a savegame CRC
// mismatch, or out-of-memory (spec.md §7). main prints its Error() as the
// single user-visible line and sets a non-zero exit code.
type FatalError struct {
	Kind Kind
	Err  error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// NewFatal wraps err as a FatalError of the given kind.
func NewFatal(k Kind, err error) *FatalError {
	return &FatalError{Kind: k, Err: err}
}

// Warning is a recoverable condition (a runtime content bug, or an audio
// device failure). It is a plain error value: nothing in this module
// promotes a Warning to a FatalError, whatever the strict setting.
type Warning struct {
	Kind Kind
	Err  error
}

func (w *Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Kind, w.Err)
}

func (w *Warning) Unwrap() error { return w.Err }

// NewWarning wraps err as a Warning of the given kind.
func NewWarning(k Kind, err error) *Warning {
	return &Warning{Kind: k, Err: err}
}

var clipboardInit = sync.OnceValue(func() error { return clipboard.Init() })

// Report prints err's single-line user-visible message (spec.md §7:
// "LOAD-GAME: Level data does not match !  Check WADs") and copies it,
// plus the log's most recent entries, to the system clipboard so a user
// can paste a bug report without scraping the terminal. A clipboard
// failure (e.g. no display server) is silent — the terminal message is
// still the authoritative user-visible output.
func (e *FatalError) Report(log *elog.Logger) {
	msg := e.Error()
	fmt.Println(msg)
	if clipboardInit() != nil {
		return
	}
	var b strings.Builder
	b.WriteString(msg)
	b.WriteByte('\n')
	for _, entry := range log.Recent(20) {
		b.WriteString(entry.String())
		b.WriteByte('\n')
	}
	clipboard.Write(clipboard.FmtText, []byte(b.String()))
}
