// Command doomcore drives the simulation core: load an IWAD, warp to a
// map, and run the tick scheduler against one local player, either
// headlessly (the default) or with an ebiten window rendering the HUD
// overlay under -gui. There is no textured 3D renderer here (spec.md §1
// leaves the OpenGL display and platform windowing out of this core's
// scope) — this is the same "dedicated server vs. real window" split
// the teacher draws between its headless and ebiten video backends,
// generalized to a running simulation instead of a pixel framebuffer.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/brackenfall/doomcore/internal/config"
	"github.com/brackenfall/doomcore/internal/elog"
	"github.com/brackenfall/doomcore/internal/engine"
	"github.com/brackenfall/doomcore/internal/hud"
	"github.com/brackenfall/doomcore/internal/playerctl"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: doomcore -iwad <file> [options]\n\nRuns the simulation core against an IWAD.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	f, err := config.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(1) // flag already printed its own message
	}
	if f.IWAD == "" {
		flag.Usage()
		os.Exit(1)
	}

	log := elog.New(1024)
	log.SetStrict(f.Strict)
	if f.Lax {
		log.SetMinLevel(elog.LevelError)
	} else if f.Warn {
		log.SetMinLevel(elog.LevelWarning)
	}

	cfg := config.New()

	tickRate := 35.0
	e := engine.NewEngine(cfg, log, tickRate)

	data, err := os.ReadFile(f.IWAD)
	if err != nil {
		fmt.Fprintf(os.Stderr, "doomcore: reading IWAD: %v\n", err)
		os.Exit(1)
	}

	mapName := f.Warp
	if mapName == "" {
		mapName = "E1M1"
	}
	if err := e.LoadWAD(data, mapName); err != nil {
		reportFatal(err, log)
		os.Exit(1)
	}

	if err := e.JoinPlayer(0); err != nil {
		fmt.Fprintf(os.Stderr, "doomcore: %v\n", err)
		os.Exit(1)
	}

	console := engine.NewConsole(e)
	console.Start()
	defer console.Stop()

	if f.GUI {
		runGUI(e, f.Width, f.Height, f.Fullscreen)
		return
	}
	runHeadless(e)
}

// reportFatal prints and clipboard-reports a load-time FatalError
// (spec.md §7's single-line "LOAD-GAME: Level data does not match !
// Check WADs" message), falling back to a plain message for any other
// error shape.
func reportFatal(err error, log *elog.Logger) {
	if fe, ok := err.(*engine.FatalError); ok {
		fe.Report(log)
		return
	}
	fmt.Fprintf(os.Stderr, "doomcore: %v\n", err)
}

// runGUI opens an ebiten window rendering the HUD overlay (module K) as
// the outer frame loop, width/height defaulting to the classic 320x200
// virtual canvas scaled to 640x400 when unset.
func runGUI(e *engine.Engine, width, height int, fullscreen bool) {
	if width == 0 {
		width = 640
	}
	if height == 0 {
		height = 400
	}
	e.HUD = &hud.Binding{
		Canvas:    hud.NewCanvas(float64(width), float64(height)),
		Query:     &hud.Query{},
		Automap:   &hud.Automap{},
		RTS:       hud.NewRTSTags(),
		RenderWho: 0,
	}

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("doomcore")
	ebiten.SetWindowResizable(true)
	if fullscreen {
		ebiten.SetFullscreen(true)
	}
	if err := ebiten.RunGame(engine.NewGame(e, width, height)); err != nil {
		fmt.Fprintf(os.Stderr, "doomcore: %v\n", err)
		os.Exit(1)
	}
}

// runHeadless drives the scheduler/engine loop at tick rate with no
// input source attached: BuildTiccmds feeds a neutral ticcmd for the
// local player every tic so the simulation advances deterministically,
// the way a dedicated server with no human input still runs.
func runHeadless(e *engine.Engine) {
	localPlayers := []int{0}
	now := time.Now()
	for {
		n := e.Scheduler.TryRunTics(now, func() {
			e.Scheduler.BuildTiccmds(localPlayers, func(playerIdx int) (interface{}, bool) {
				return playerctl.Ticcmd{PlayerIdx: int16(playerIdx)}, true
			})
		})
		for i := 0; i < n; i++ {
			e.Tick()
		}
		time.Sleep(time.Second / 35)
		now = time.Now()
	}
}
