// Console command wiring (spec.md §6/§7's debug console): show_mobjs
// and show_sectors report live Arena/World state through
// config.Config's Handler registry, the seam config.Register's doc
// comment reserves for exactly this ("internal/engine calls this once
// to wire show_mobjs/show_sectors against live world/arena state this
// package has no business depending on directly").
package engine

import (
	"fmt"
	"strings"

	"github.com/brackenfall/doomcore/internal/config"
	"github.com/brackenfall/doomcore/internal/mobj"
)

// registerConsoleCommands installs show_mobjs/show_sectors against e's
// current Arena/World. Safe to call before a level is loaded; both
// handlers report an empty table rather than erroring.
func registerConsoleCommands(cfg *config.Config, e *Engine) {
	cfg.Register("show_mobjs", func(args []string) (string, error) {
		if e.Arena == nil {
			return "no mobjs", nil
		}
		var b strings.Builder
		n := 0
		e.Arena.Each(func(m *mobj.Mobj) {
			fmt.Fprintf(&b, "%d: (%.1f, %.1f, %.1f) health=%d\n", n, m.X, m.Y, m.Z, m.Health)
			n++
		})
		fmt.Fprintf(&b, "%d mobjs total", n)
		return b.String(), nil
	})

	cfg.Register("show_sectors", func(args []string) (string, error) {
		if e.World == nil {
			return "no level loaded", nil
		}
		var b strings.Builder
		for _, s := range e.World.Sectors {
			fmt.Fprintf(&b, "%d: floor=%.1f ceil=%.1f tag=%d\n", s.Index, s.Floor.Height, s.Ceiling.Height, s.Tag)
		}
		fmt.Fprintf(&b, "%d sectors total", len(e.World.Sectors))
		return b.String(), nil
	})
}
