// In-game/debug console (spec.md §7: "recoverable warnings accumulate
// in the in-game console and a debug file"): a raw-mode stdin reader
// that line-buffers typed commands and dispatches them through
// config.Config.Command, the same registry commands.go registers
// show_mobjs/show_sectors into.
//
// Grounded on the teacher's terminal_host.go (TerminalHost: raw mode via
// golang.org/x/term, non-blocking syscall.Read polling loop, Stop
// restores the terminal), generalized from single MMIO-byte routing to
// line-buffered command dispatch.
package engine

import (
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/brackenfall/doomcore/internal/elog"
)

// Console reads stdin in raw mode and executes each completed line as a
// console command against Engine.Config. Only meaningful for an
// interactive run; never started in tests.
type Console struct {
	engine  *Engine
	fd      int
	oldState *term.State
	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once
	line    []byte
}

// NewConsole creates a console bound to e. Start begins reading.
func NewConsole(e *Engine) *Console {
	return &Console{engine: e, stopCh: make(chan struct{}), done: make(chan struct{})}
}

// Start puts stdin into raw, non-blocking mode and begins reading typed
// lines on a goroutine. Failing to set raw mode is logged and leaves
// the console inert rather than aborting the run.
func (c *Console) Start() {
	c.fd = int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(c.fd)
	if err != nil {
		c.engine.Log.Logf(elog.ComponentSystem, elog.LevelWarning, "console: raw mode unavailable: %v", err)
		close(c.done)
		return
	}
	c.oldState = oldState
	if err := syscall.SetNonblock(c.fd, true); err != nil {
		c.engine.Log.Logf(elog.ComponentSystem, elog.LevelWarning, "console: non-blocking stdin unavailable: %v", err)
		_ = term.Restore(c.fd, c.oldState)
		close(c.done)
		return
	}

	go c.run()
}

func (c *Console) run() {
	defer close(c.done)
	buf := make([]byte, 1)
	for {
		select {
		case <-c.stopCh:
			return
		default:
		}
		n, err := syscall.Read(c.fd, buf)
		if n > 0 {
			c.feed(buf[0])
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
	}
}

// feed accumulates one byte into the current line; CR/LF (raw mode
// sends CR for Enter) dispatches and clears it, matching terminal_host's
// CR->LF translation.
func (c *Console) feed(b byte) {
	if b == '\r' || b == '\n' {
		line := string(c.line)
		c.line = c.line[:0]
		c.dispatch(line)
		return
	}
	if b == 0x7F || b == 0x08 { // DEL/BS
		if len(c.line) > 0 {
			c.line = c.line[:len(c.line)-1]
		}
		return
	}
	c.line = append(c.line, b)
}

func (c *Console) dispatch(line string) {
	if line == "" || c.engine.Config == nil {
		return
	}
	fields := splitFields(line)
	name, args := fields[0], fields[1:]
	out, err := c.engine.Config.Command(name, args)
	if err != nil {
		c.engine.Log.Logf(elog.ComponentSystem, elog.LevelWarning, "console: %v", err)
		return
	}
	if out != "" {
		c.engine.Log.Logf(elog.ComponentSystem, elog.LevelInfo, "%s", out)
	}
}

func splitFields(line string) []string {
	var out []string
	start := -1
	for i := 0; i <= len(line); i++ {
		if i < len(line) && line[i] != ' ' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, line[start:i])
			start = -1
		}
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

// Stop restores the terminal and waits for the reader goroutine to exit.
func (c *Console) Stop() {
	c.stopped.Do(func() { close(c.stopCh) })
	<-c.done
	if c.oldState != nil {
		_ = term.Restore(c.fd, c.oldState)
		c.oldState = nil
	}
}
