// Package hud implements the HUD/script drawing bridge (spec.md
// component K): a single-threaded immediate-mode drawing API, consumed
// by an embedded scripting VM, that queues primitives against a virtual
// coordinate system and replays them onto an ebiten.Image once per
// frame.
//
// Grounded on original_source/source_files/edge/vm_hud.cc and
// script/compat/lua_hud.cc for the primitive set and call shape, and on
// the teacher's debug_overlay.go (MonitorOverlay) for the Go idiom of an
// accumulated draw list against a packed-color pixel/command buffer
// replayed onto an ebiten.Image each frame.
package hud

import "github.com/brackenfall/doomcore/internal/mobj"

// Align selects text/number alignment along one axis, matching
// lua_hud.cc's hud.draw_num2 HUD_SetAlignment(+1, -1) convention.
type Align int

const (
	AlignNear   Align = -1
	AlignCenter Align = 0
	AlignFar    Align = 1
)

// Color is a packed 0xRRGGBB value. HD_VectorToColor's "negative vector
// means no color" convention becomes a bool return from the scripting
// binding instead of a sentinel value here.
type Color uint32

// Image is the opaque, already-decoded drawing handle module K consumes
// (SPEC_FULL.md §9: the out-of-scope content loader owns decoding;
// golang.org/x/image is not wired here for that reason).
type Image struct {
	Name             string
	W, H             int
	OffsetX, OffsetY float64
	Tex              interface{} // *ebiten.Image, opaque to keep this package import-light
}

// state is the drawing context carried between primitive calls
// (spec.md §4.9: "font, text color, scale, alpha, alignment").
type state struct {
	Font       string
	TextColor  Color
	Scale      float64
	Alpha      float64
	AlignX     Align
	AlignY     Align
}

func defaultState() state {
	return state{Scale: 1, Alpha: 1, AlignX: AlignNear, AlignY: AlignNear}
}

// Command is one queued drawing primitive, replayed in submission order
// by the renderer each frame. X, Y, W and H are in real output
// coordinates: push scales them from the virtual coordinate system.
type Command struct {
	Kind  CommandKind
	X, Y, W, H float64
	Colors     [4]Color // solid_box/solid_line/thin_box use Colors[0]; gradient_box uses all four (TL,BL,TR,BR)
	Image      *Image
	SX, SY     float64 // scroll_image UV offsets, tile_image tile offsets
	Text       string
	Size       float64
	NoOffset   bool
	Camera     mobj.Ref
	Flags      int
	State      state
}

type CommandKind int

const (
	CmdSolidBox CommandKind = iota
	CmdSolidLine
	CmdThinBox
	CmdGradientBox
	CmdDrawImage
	CmdScrollImage
	CmdStretchImage
	CmdTileImage
	CmdDrawText
	// CmdRenderWorld/CmdRenderAutomap are queued the same as every other
	// primitive; this package only records the request and its camera
	// reference (vm_hud.cc's HD_render_world/HD_render_automap), and
	// nothing in this module executes them (the 3D renderer is out of
	// scope, spec.md §1).
	CmdRenderWorld
	CmdRenderAutomap
)

// Canvas accumulates one frame's worth of drawing commands against a
// caller-chosen virtual coordinate system (spec.md §4.9: "virtual
// 320x200, or caller-chosen WxH >= 64x64; all primitives auto-scale").
type Canvas struct {
	vw, vh   float64 // virtual coordinate system size
	scaleX, scaleY float64 // virtual -> real scale factors, recomputed on CoordSys/Resize

	realW, realH float64

	st   state
	cmds []Command
}

// NewCanvas creates a canvas targeting a real output surface realW x
// realH, starting with the classic 320x200 virtual coordinate system.
func NewCanvas(realW, realH float64) *Canvas {
	c := &Canvas{realW: realW, realH: realH, st: defaultState()}
	c.CoordSys(320, 200)
	return c
}

// CoordSys sets the virtual coordinate system (hud.coord_sys(w, h)).
// Both dimensions must be at least 64; the original raises a fatal
// script error on a smaller request, here reported to the caller
// instead of panicking so it can be turned into a recoverable warning
// per spec.md §7.
func (c *Canvas) CoordSys(w, h float64) error {
	if w < 64 || h < 64 {
		return errBadCoordSys(w, h)
	}
	c.vw, c.vh = w, h
	if c.realW > 0 {
		c.scaleX = c.realW / w
	}
	if c.realH > 0 {
		c.scaleY = c.realH / h
	}
	return nil
}

// Resize updates the real output surface size (e.g. on a window
// resize), recomputing the virtual-to-real scale factors.
func (c *Canvas) Resize(realW, realH float64) {
	c.realW, c.realH = realW, realH
	if c.vw > 0 {
		c.scaleX = realW / c.vw
	}
	if c.vh > 0 {
		c.scaleY = realH / c.vh
	}
}

// XLeft/XRight mirror the original's hud_x_left/hud_x_right globals,
// exposed to scripts after a coord_sys call so content can letterbox
// against non-4:3 aspect ratios.
func (c *Canvas) XLeft() float64  { return 0 }
func (c *Canvas) XRight() float64 { return c.vw }

// Reset clears the command queue and resets per-frame state (lua_hud.cc
// LUA_RunHud calling HUD_Reset() both before and after draw_all).
func (c *Canvas) Reset() {
	c.cmds = c.cmds[:0]
	c.st = defaultState()
}

// Commands returns the queued commands for this frame, in submission
// order, for the renderer to replay.
func (c *Canvas) Commands() []Command { return c.cmds }

// --- state setters ---

func (c *Canvas) SetFont(name string)        { c.st.Font = name }
func (c *Canvas) SetTextColor(col Color)     { c.st.TextColor = col }
func (c *Canvas) SetScale(scale float64) error {
	if scale <= 0 {
		return errBadScale(scale)
	}
	c.st.Scale = scale
	return nil
}
func (c *Canvas) SetAlpha(alpha float64) { c.st.Alpha = alpha }

// SetAlignment sets text/number alignment. DrawNum2/DrawNumber use it to
// switch to (AlignFar, AlignNear) for a right-aligned field and then
// restore the previous horizontal alignment, leaving vertical alignment
// at AlignNear.
func (c *Canvas) SetAlignment(x, y Align) { c.st.AlignX, c.st.AlignY = x, y }

// --- primitives ---

func (c *Canvas) push(cmd Command) {
	if c.scaleX > 0 {
		cmd.X *= c.scaleX
		cmd.W *= c.scaleX
	}
	if c.scaleY > 0 {
		cmd.Y *= c.scaleY
		cmd.H *= c.scaleY
	}
	cmd.State = c.st
	c.cmds = append(c.cmds, cmd)
}

func (c *Canvas) SolidBox(x, y, w, h float64, col Color) {
	c.push(Command{Kind: CmdSolidBox, X: x, Y: y, W: w, H: h, Colors: [4]Color{col}})
}

func (c *Canvas) SolidLine(x1, y1, x2, y2 float64, col Color) {
	c.push(Command{Kind: CmdSolidLine, X: x1, Y: y1, W: x2, H: y2, Colors: [4]Color{col}})
}

func (c *Canvas) ThinBox(x, y, w, h float64, col Color) {
	c.push(Command{Kind: CmdThinBox, X: x, Y: y, W: w, H: h, Colors: [4]Color{col}})
}

// GradientBox draws a box with four independently colored corners
// (top-left, bottom-left, top-right, bottom-right — lua_hud.cc's
// argument order).
func (c *Canvas) GradientBox(x, y, w, h float64, tl, bl, tr, br Color) {
	c.push(Command{Kind: CmdGradientBox, X: x, Y: y, W: w, H: h, Colors: [4]Color{tl, bl, tr, br}})
}

func (c *Canvas) DrawImage(x, y float64, img *Image, noOffset bool) {
	c.push(Command{Kind: CmdDrawImage, X: x, Y: y, Image: img, NoOffset: noOffset})
}

// ScrollImage draws img with a UV scroll offset; sx/sy are inverted on
// the way in so positive values scroll right/up, matching lua_hud.cc's
// HD_scroll_image comment.
func (c *Canvas) ScrollImage(x, y float64, img *Image, sx, sy float64, noOffset bool) {
	c.push(Command{Kind: CmdScrollImage, X: x, Y: y, Image: img, SX: -sx, SY: -sy, NoOffset: noOffset})
}

func (c *Canvas) StretchImage(x, y, w, h float64, img *Image, noOffset bool) {
	c.push(Command{Kind: CmdStretchImage, X: x, Y: y, W: w, H: h, Image: img, NoOffset: noOffset})
}

func (c *Canvas) TileImage(x, y, w, h float64, img *Image, offsetX, offsetY float64) {
	c.push(Command{Kind: CmdTileImage, X: x, Y: y, W: w, H: h, Image: img, SX: offsetX, SY: offsetY})
}

func (c *Canvas) DrawText(x, y float64, text string, size float64) {
	c.push(Command{Kind: CmdDrawText, X: x, Y: y, Text: text, Size: size})
}

// DrawNum2 formats num right-aligned into a fixed field width (lua_hud.cc
// HD_draw_num2: always right-aligned). Afterwards the previous horizontal
// alignment is restored; vertical alignment is left at AlignNear.
func (c *Canvas) DrawNum2(x, y float64, fieldLen, num int, size float64) error {
	s, err := formatField(fieldLen, num)
	if err != nil {
		return err
	}
	saved := c.st.AlignX
	c.SetAlignment(AlignFar, AlignNear)
	c.DrawText(x, y, s, size)
	c.SetAlignment(saved, c.st.AlignY)
	return nil
}

// DrawNumber formats num into a fixed field width, aligned as requested
// (lua_hud.cc HD_draw_number's alignRight parameter).
func (c *Canvas) DrawNumber(x, y float64, fieldLen, num int, alignRight bool, size float64) error {
	s, err := formatField(fieldLen, num)
	if err != nil {
		return err
	}
	if !alignRight {
		c.DrawText(x, y, s, size)
		return nil
	}
	saved := c.st.AlignX
	c.SetAlignment(AlignFar, AlignNear)
	c.DrawText(x, y, s, size)
	c.SetAlignment(saved, c.st.AlignY)
	return nil
}

// RenderWorld queues a render_world(x,y,w,h,camera,flags) request; the
// out-of-scope 3D renderer consumes Commands() to actually draw it.
func (c *Canvas) RenderWorld(x, y, w, h float64, camera mobj.Ref, flags int) {
	c.push(Command{Kind: CmdRenderWorld, X: x, Y: y, W: w, H: h, Camera: camera, Flags: flags})
}

// RenderAutomap queues a render_automap(x,y,w,h,focus,flags) request.
func (c *Canvas) RenderAutomap(x, y, w, h float64, focus mobj.Ref, flags int) {
	c.push(Command{Kind: CmdRenderAutomap, X: x, Y: y, W: w, H: h, Camera: focus, Flags: flags})
}

// formatField renders num into a zero-padded-free, sign-aware field of
// at most fieldLen characters (no padding; high digits that do not fit
// are dropped), the same backwards-digit-build algorithm
// lua_hud.cc's HD_draw_num2/HD_draw_number use (1..20 digits, a leading
// '-' eats one digit slot for negative numbers with fieldLen > 1).
func formatField(fieldLen, num int) (string, error) {
	if fieldLen < 1 || fieldLen > 20 {
		return "", errBadFieldLength(fieldLen)
	}
	// The original only reserves a sign slot (and only then negates num
	// for the digit loop) when fieldLen > 1; with fieldLen == 1 it drops
	// the sign and still shows the magnitude's digits rather than
	// nothing, which is the sane reading of an edge case content never
	// actually exercises (health/ammo/armor are always non-negative).
	isNeg := false
	if num < 0 {
		if fieldLen > 1 {
			isNeg = true
			fieldLen--
		}
		num = -num
	}
	if num == 0 {
		if isNeg {
			return "-0", nil
		}
		return "0", nil
	}
	digits := make([]byte, 0, fieldLen+1)
	for ; num > 0 && fieldLen > 0; num, fieldLen = num/10, fieldLen-1 {
		digits = append(digits, byte('0'+num%10))
	}
	if isNeg {
		digits = append(digits, '-')
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits), nil
}
