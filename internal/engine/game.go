// Package engine's ebiten.Game adapter: the outer frame loop that ticks
// the simulation and draws the HUD overlay (spec.md §4.9, module K) —
// NOT the out-of-scope textured 3D view: CmdRenderWorld/CmdRenderAutomap
// commands are queued by the HUD, but nothing in this module executes
// them and Draw skips them.
//
// Grounded on the teacher's video_backend_ebiten.go (EbitenOutput's
// Update/Draw/Layout split and window setup calls) generalized from a
// pixel-framebuffer blit to a vector/text HUD overlay replay.
package engine

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/brackenfall/doomcore/internal/hud"
	"github.com/brackenfall/doomcore/internal/playerctl"
)

// Game wraps an Engine as an ebiten.Game: Update advances the
// simulation by whatever tic count the scheduler allows this frame,
// Draw replays the HUD binding's queued Canvas commands.
type Game struct {
	Engine *Engine

	Width, Height int
}

// NewGame returns a Game driving e, rendering at width x height.
func NewGame(e *Engine, width, height int) *Game {
	return &Game{Engine: e, Width: width, Height: height}
}

// Update runs TryRunTics' returned tic count through Engine.Tick, with
// no real input device wired in yet (spec.md §1 scopes the input
// backend as a content/platform concern): BuildTiccmds feeds a neutral
// command for every joined player so the simulation still advances.
func (g *Game) Update() error {
	e := g.Engine
	n := e.Scheduler.TryRunTics(time.Now(), func() {
		e.Scheduler.BuildTiccmds(g.localPlayers(), func(playerIdx int) (interface{}, bool) {
			return playerctl.Ticcmd{PlayerIdx: int16(playerIdx)}, true
		})
	})
	for i := 0; i < n; i++ {
		e.Tick()
	}
	return nil
}

func (g *Game) localPlayers() []int {
	var out []int
	for i, p := range g.Engine.Players {
		if p != nil {
			out = append(out, i)
		}
	}
	return out
}

// Draw replays the HUD canvas's queued commands onto screen, then
// resets the canvas for the next frame (lua_hud.cc's per-frame
// coord_sys/draw-call/flush cycle).
func (g *Game) Draw(screen *ebiten.Image) {
	if g.Engine.HUD == nil || g.Engine.HUD.Canvas == nil {
		return
	}
	c := g.Engine.HUD.Canvas
	for _, cmd := range c.Commands() {
		g.drawCommand(screen, cmd)
	}
	c.Reset()
}

func (g *Game) drawCommand(screen *ebiten.Image, cmd hud.Command) {
	switch cmd.Kind {
	case hud.CmdSolidBox, hud.CmdThinBox:
		vector.DrawFilledRect(screen, float32(cmd.X), float32(cmd.Y), float32(cmd.W), float32(cmd.H), toRGBA(cmd.Colors[0]), false)
	case hud.CmdSolidLine:
		vector.StrokeLine(screen, float32(cmd.X), float32(cmd.Y), float32(cmd.W), float32(cmd.H), 1, toRGBA(cmd.Colors[0]), false)
	case hud.CmdGradientBox:
		// No built-in four-corner gradient primitive in ebiten/vector;
		// approximate with the average of the four corner colors rather
		// than adding a custom shader for one HUD primitive.
		vector.DrawFilledRect(screen, float32(cmd.X), float32(cmd.Y), float32(cmd.W), float32(cmd.H), averageColor(cmd.Colors), false)
	case hud.CmdDrawImage, hud.CmdStretchImage, hud.CmdScrollImage, hud.CmdTileImage:
		if cmd.Image == nil {
			return
		}
		img, ok := cmd.Image.Tex.(*ebiten.Image)
		if !ok || img == nil {
			return
		}
		opts := &ebiten.DrawImageOptions{}
		opts.GeoM.Translate(cmd.X, cmd.Y)
		screen.DrawImage(img, opts)
	case hud.CmdDrawText:
		ebitenutil.DebugPrintAt(screen, cmd.Text, int(cmd.X), int(cmd.Y))
	case hud.CmdRenderWorld, hud.CmdRenderAutomap:
		// Out of scope (spec.md §1): the 3D/automap renderer is a stub.
	}
}

// Layout reports the fixed logical screen size; the HUD canvas already
// handles virtual->real scaling itself (Canvas.CoordSys/Resize).
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Width, g.Height
}

func toRGBA(c hud.Color) color.RGBA {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
}

func averageColor(cs [4]hud.Color) color.RGBA {
	var r, g, b int
	for _, c := range cs {
		r += int(uint8(c >> 16))
		g += int(uint8(c >> 8))
		b += int(uint8(c))
	}
	return color.RGBA{R: uint8(r / 4), G: uint8(g / 4), B: uint8(b / 4), A: 255}
}
