package hud

import (
	"github.com/brackenfall/doomcore/internal/mobj"
	"github.com/brackenfall/doomcore/internal/playerctl"
	lua "github.com/yuin/gopher-lua"
)

// ImageLookup resolves a content image name to the decoded handle
// primitives operate on (the out-of-scope content loader owns
// decoding; see SPEC_FULL.md §9).
type ImageLookup func(name string) *Image

// Binding wires a Canvas/Query/Automap/RTSTags bundle into a
// gopher-lua state as the "hud" global table, one function per
// lua_hud.cc entry in hudlib[] — registered as idiomatic
// L.SetFuncs/lua.LGFunction closures rather than a transliteration of
// the C++ luaL_Reg binder (SPEC_FULL.md §9).
type Binding struct {
	Canvas  *Canvas
	Query   *Query
	Automap *Automap
	RTS     *RTSTags
	Images  ImageLookup

	// RenderWho is the player index render_world/render_automap target
	// (hud.set_render_who), defaulting to the display player (index 0).
	RenderWho int

	// PlaySound is called by hud.play_sound(name) when it is non-nil.
	// Nothing in this module sets it, so play_sound does nothing unless a
	// caller installs one.
	// No content sfx-name table lives in this package — see
	// internal/mixer's DESIGN.md entry on why that lookup stays outside
	// the mixer too.
	PlaySound func(name string)

	Paused            func() bool
	GameTics          func() int
	WhichHUD          func() int
	ErraticismActive  func() bool
	TimeStopActive    func() bool
	ScreenAspect      func() float64
}

// Register installs the hud.* function table as a Lua global, mirroring
// lua_hud.cc's LUA_RegisterHudLibrary.
func (b *Binding) Register(L *lua.LState) {
	tbl := L.NewTable()
	fns := map[string]lua.LGFunction{
		"game_mode":          b.luaGameMode,
		"game_name":          b.luaGameName,
		"game_skill":         b.luaGameSkill,
		"map_name":           b.luaMapName,
		"map_title":          b.luaMapTitle,
		"map_author":         b.luaMapAuthor,
		"which_hud":          b.luaWhichHUD,
		"check_automap":      b.luaCheckAutomap,
		"get_time":           b.luaGetTime,
		"coord_sys":          b.luaCoordSys,
		"text_font":          b.luaTextFont,
		"text_color":         b.luaTextColor,
		"set_scale":          b.luaSetScale,
		"set_alpha":          b.luaSetAlpha,
		"set_render_who":     b.luaSetRenderWho,
		"automap_color":      b.luaAutomapColor,
		"automap_option":     b.luaAutomapOption,
		"automap_zoom":       b.luaAutomapZoom,
		"automap_player_arrow": b.luaAutomapPlayerArrow,
		"solid_box":          b.luaSolidBox,
		"solid_line":         b.luaSolidLine,
		"thin_box":           b.luaThinBox,
		"gradient_box":       b.luaGradientBox,
		"draw_image":         b.luaDrawImage,
		"stretch_image":      b.luaStretchImage,
		"scroll_image":       b.luaScrollImage,
		"tile_image":         b.luaTileImage,
		"draw_text":          b.luaDrawText,
		"draw_num2":          b.luaDrawNum2,
		"draw_number":        b.luaDrawNumber,
		"game_paused":        b.luaGamePaused,
		"erraticism_active":  b.luaErraticismActive,
		"time_stop_active":   b.luaTimeStopActive,
		"screen_aspect":      b.luaScreenAspect,
		"render_world":       b.luaRenderWorld,
		"render_automap":     b.luaRenderAutomap,
		"play_sound":         b.luaPlaySound,
		"get_average_color":  b.luaAverageColor,
		"get_lightest_color": b.luaLightestColor,
		"get_darkest_color":  b.luaDarkestColor,
		"get_average_hue":    b.luaAverageHue,
		"rts_enable":         b.luaRTSEnable,
		"rts_disable":        b.luaRTSDisable,
		"rts_isactive":       b.luaRTSIsActive,
		"get_image_width":    b.luaImageWidth,
		"get_image_height":   b.luaImageHeight,
	}
	L.SetFuncs(tbl, fns)
	L.SetGlobal("hud", tbl)
}

func (b *Binding) renderWho() *playerctl.Player {
	return b.Query.Player(b.RenderWho)
}

func (b *Binding) luaGameMode(L *lua.LState) int {
	// Non-goal per spec.md §1: networked multiplayer beyond loopback
	// replay is out of scope, so only single-player mode is ever
	// reported; kept as a string return for content compatibility.
	L.Push(lua.LString("sp"))
	return 1
}

func (b *Binding) luaGameName(L *lua.LState) int {
	L.Push(lua.LString(b.Query.Map.GameName))
	return 1
}

func (b *Binding) luaGameSkill(L *lua.LState) int {
	L.Push(lua.LNumber(b.Query.Map.Skill))
	return 1
}

func (b *Binding) luaMapName(L *lua.LState) int {
	L.Push(lua.LString(b.Query.Map.Name))
	return 1
}

func (b *Binding) luaMapTitle(L *lua.LState) int {
	L.Push(lua.LString(b.Query.Map.Title))
	return 1
}

func (b *Binding) luaMapAuthor(L *lua.LState) int {
	L.Push(lua.LString(b.Query.Map.Author))
	return 1
}

func (b *Binding) luaWhichHUD(L *lua.LState) int {
	n := 0
	if b.WhichHUD != nil {
		n = b.WhichHUD()
	}
	L.Push(lua.LNumber(n))
	return 1
}

func (b *Binding) luaCheckAutomap(L *lua.LState) int {
	L.Push(lua.LBool(b.Automap.Active))
	return 1
}

func (b *Binding) luaGetTime(L *lua.LState) int {
	t := 0
	if b.GameTics != nil {
		t = b.GameTics()
	}
	L.Push(lua.LNumber(t))
	return 1
}

func (b *Binding) luaCoordSys(L *lua.LState) int {
	w := L.CheckNumber(1)
	h := L.CheckNumber(2)
	if err := b.Canvas.CoordSys(float64(w), float64(h)); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	return 0
}

func (b *Binding) luaTextFont(L *lua.LState) int {
	b.Canvas.SetFont(L.CheckString(1))
	return 0
}

func (b *Binding) luaTextColor(L *lua.LState) int {
	b.Canvas.SetTextColor(checkColor(L, 1))
	return 0
}

func (b *Binding) luaSetScale(L *lua.LState) int {
	if err := b.Canvas.SetScale(float64(L.CheckNumber(1))); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (b *Binding) luaSetAlpha(L *lua.LState) int {
	b.Canvas.SetAlpha(float64(L.CheckNumber(1)))
	return 0
}

func (b *Binding) luaSetRenderWho(L *lua.LState) int {
	b.RenderWho = L.CheckInt(1)
	return 0
}

func (b *Binding) luaAutomapColor(L *lua.LState) int {
	which := L.CheckInt(1)
	col := checkColor(L, 2)
	if err := b.Automap.SetColor(which, col); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (b *Binding) luaAutomapOption(L *lua.LState) int {
	which := AutomapOption(L.CheckInt(1))
	value := L.CheckInt(2)
	if err := b.Automap.SetOption(which, value); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (b *Binding) luaAutomapZoom(L *lua.LState) int {
	b.Automap.SetZoom(float64(L.CheckNumber(1)))
	return 0
}

func (b *Binding) luaAutomapPlayerArrow(L *lua.LState) int {
	b.Automap.SetArrow(PlayerArrow(L.CheckInt(1)))
	return 0
}

func (b *Binding) luaSolidBox(L *lua.LState) int {
	x, y, w, h := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3), L.CheckNumber(4)
	b.Canvas.SolidBox(float64(x), float64(y), float64(w), float64(h), checkColor(L, 5))
	return 0
}

func (b *Binding) luaSolidLine(L *lua.LState) int {
	x1, y1, x2, y2 := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3), L.CheckNumber(4)
	b.Canvas.SolidLine(float64(x1), float64(y1), float64(x2), float64(y2), checkColor(L, 5))
	return 0
}

func (b *Binding) luaThinBox(L *lua.LState) int {
	x, y, w, h := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3), L.CheckNumber(4)
	b.Canvas.ThinBox(float64(x), float64(y), float64(w), float64(h), checkColor(L, 5))
	return 0
}

func (b *Binding) luaGradientBox(L *lua.LState) int {
	x, y, w, h := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3), L.CheckNumber(4)
	tl, bl, tr, br := checkColor(L, 5), checkColor(L, 6), checkColor(L, 7), checkColor(L, 8)
	b.Canvas.GradientBox(float64(x), float64(y), float64(w), float64(h), tl, bl, tr, br)
	return 0
}

func (b *Binding) luaDrawImage(L *lua.LState) int {
	x, y := L.CheckNumber(1), L.CheckNumber(2)
	name := L.CheckString(3)
	noOffset := L.OptInt(4, 0) != 0
	if img := b.Images(name); img != nil {
		b.Canvas.DrawImage(float64(x), float64(y), img, noOffset)
	}
	return 0
}

func (b *Binding) luaStretchImage(L *lua.LState) int {
	x, y, w, h := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3), L.CheckNumber(4)
	name := L.CheckString(5)
	noOffset := L.OptInt(6, 0) != 0
	if img := b.Images(name); img != nil {
		b.Canvas.StretchImage(float64(x), float64(y), float64(w), float64(h), img, noOffset)
	}
	return 0
}

func (b *Binding) luaScrollImage(L *lua.LState) int {
	x, y := L.CheckNumber(1), L.CheckNumber(2)
	name := L.CheckString(3)
	sx, sy := L.CheckNumber(4), L.CheckNumber(5)
	noOffset := L.OptInt(6, 0) != 0
	if img := b.Images(name); img != nil {
		b.Canvas.ScrollImage(float64(x), float64(y), img, float64(sx), float64(sy), noOffset)
	}
	return 0
}

func (b *Binding) luaTileImage(L *lua.LState) int {
	x, y, w, h := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3), L.CheckNumber(4)
	name := L.CheckString(5)
	ox, oy := L.CheckNumber(6), L.CheckNumber(7)
	if img := b.Images(name); img != nil {
		b.Canvas.TileImage(float64(x), float64(y), float64(w), float64(h), img, float64(ox), float64(oy))
	}
	return 0
}

func (b *Binding) luaDrawText(L *lua.LState) int {
	x, y := L.CheckNumber(1), L.CheckNumber(2)
	str := L.CheckString(3)
	size := L.OptNumber(4, 0)
	b.Canvas.DrawText(float64(x), float64(y), str, float64(size))
	return 0
}

func (b *Binding) luaDrawNum2(L *lua.LState) int {
	x, y := L.CheckNumber(1), L.CheckNumber(2)
	fieldLen, num := L.CheckInt(3), L.CheckInt(4)
	size := L.OptNumber(5, 0)
	if err := b.Canvas.DrawNum2(float64(x), float64(y), fieldLen, num, float64(size)); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (b *Binding) luaDrawNumber(L *lua.LState) int {
	x, y := L.CheckNumber(1), L.CheckNumber(2)
	fieldLen, num := L.CheckInt(3), L.CheckInt(4)
	alignRight := L.CheckInt(5) != 0
	size := L.OptNumber(6, 0)
	if err := b.Canvas.DrawNumber(float64(x), float64(y), fieldLen, num, alignRight, float64(size)); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (b *Binding) luaGamePaused(L *lua.LState) int {
	p := false
	if b.Paused != nil {
		p = b.Paused()
	}
	L.Push(lua.LBool(p))
	return 1
}

func (b *Binding) luaErraticismActive(L *lua.LState) int {
	v := false
	if b.ErraticismActive != nil {
		v = b.ErraticismActive()
	}
	L.Push(lua.LBool(v))
	return 1
}

func (b *Binding) luaTimeStopActive(L *lua.LState) int {
	v := false
	if b.TimeStopActive != nil {
		v = b.TimeStopActive()
	}
	L.Push(lua.LBool(v))
	return 1
}

func (b *Binding) luaScreenAspect(L *lua.LState) int {
	v := 1.0
	if b.ScreenAspect != nil {
		v = b.ScreenAspect()
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (b *Binding) luaRenderWorld(L *lua.LState) int {
	x, y, w, h := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3), L.CheckNumber(4)
	flags := L.OptInt(5, 0)
	who := b.renderWho()
	var camera mobj.Ref
	if who != nil {
		camera = who.Mobj
	}
	b.Canvas.RenderWorld(float64(x), float64(y), float64(w), float64(h), camera, flags)
	return 0
}

func (b *Binding) luaRenderAutomap(L *lua.LState) int {
	x, y, w, h := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3), L.CheckNumber(4)
	flags := L.OptInt(5, 0)
	who := b.renderWho()
	var camera mobj.Ref
	if who != nil {
		camera = who.Mobj
	}
	b.Canvas.RenderAutomap(float64(x), float64(y), float64(w), float64(h), camera, flags)
	return 0
}

func (b *Binding) luaPlaySound(L *lua.LState) int {
	name := L.CheckString(1)
	if b.PlaySound != nil {
		b.PlaySound(name)
	}
	return 0
}

func (b *Binding) imageOrNil(L *lua.LState, idx int) PixelSource {
	name := L.CheckString(idx)
	img := b.Images(name)
	if img == nil {
		return nil
	}
	src, _ := img.Tex.(PixelSource)
	return src
}

func (b *Binding) regionArgs(L *lua.LState) (fromX, toX, fromY, toY int) {
	return int(L.OptNumber(2, -1)), int(L.OptNumber(3, 1000000)), int(L.OptNumber(4, -1)), int(L.OptNumber(5, 1000000))
}

func (b *Binding) luaAverageColor(L *lua.LState) int {
	src := b.imageOrNil(L, 1)
	fromX, toX, fromY, toY := b.regionArgs(L)
	if src == nil {
		return pushVec3(L, 0, 0, 0)
	}
	r, g, bb := AverageColor(src, fromX, toX, fromY, toY)
	return pushVec3(L, r, g, bb)
}

func (b *Binding) luaLightestColor(L *lua.LState) int {
	src := b.imageOrNil(L, 1)
	fromX, toX, fromY, toY := b.regionArgs(L)
	if src == nil {
		return pushVec3(L, 0, 0, 0)
	}
	r, g, bb := LightestColor(src, fromX, toX, fromY, toY)
	return pushVec3(L, r, g, bb)
}

func (b *Binding) luaDarkestColor(L *lua.LState) int {
	src := b.imageOrNil(L, 1)
	fromX, toX, fromY, toY := b.regionArgs(L)
	if src == nil {
		return pushVec3(L, 0, 0, 0)
	}
	r, g, bb := DarkestColor(src, fromX, toX, fromY, toY)
	return pushVec3(L, r, g, bb)
}

func (b *Binding) luaAverageHue(L *lua.LState) int {
	src := b.imageOrNil(L, 1)
	fromX, toX, fromY, toY := b.regionArgs(L)
	if src == nil {
		return pushVec3(L, 0, 0, 0)
	}
	r, g, bb := AverageHue(src, fromX, toX, fromY, toY)
	return pushVec3(L, r, g, bb)
}

func (b *Binding) luaRTSEnable(L *lua.LState) int {
	b.RTS.Enable(L.CheckString(1))
	return 0
}

func (b *Binding) luaRTSDisable(L *lua.LState) int {
	b.RTS.Disable(L.CheckString(1))
	return 0
}

func (b *Binding) luaRTSIsActive(L *lua.LState) int {
	L.Push(lua.LBool(b.RTS.IsActive(L.CheckString(1))))
	return 1
}

func (b *Binding) luaImageWidth(L *lua.LState) int {
	name := L.CheckString(1)
	w := 0
	if img := b.Images(name); img != nil {
		w = img.W
	}
	L.Push(lua.LNumber(w))
	return 1
}

func (b *Binding) luaImageHeight(L *lua.LState) int {
	name := L.CheckString(1)
	h := 0
	if img := b.Images(name); img != nil {
		h = img.H
	}
	L.Push(lua.LNumber(h))
	return 1
}

// checkColor reads a {x,y,z} Lua table as an RGB color (HD_VectorToColor's
// vector-of-three-channels convention, without the "negative means no
// color" sentinel since gopher-lua tables have no implicit default).
func checkColor(L *lua.LState, idx int) Color {
	t := L.CheckTable(idx)
	r := clamp8(L.GetField(t, "x"))
	g := clamp8(L.GetField(t, "y"))
	bl := clamp8(L.GetField(t, "z"))
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(bl))
}

func clamp8(v lua.LValue) uint8 {
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0
	}
	f := float64(n)
	switch {
	case f < 0:
		return 0
	case f > 255:
		return 255
	default:
		return uint8(f)
	}
}

func pushVec3(L *lua.LState, r, g, b uint8) int {
	t := L.NewTable()
	L.SetField(t, "x", lua.LNumber(r))
	L.SetField(t, "y", lua.LNumber(g))
	L.SetField(t, "z", lua.LNumber(b))
	L.Push(t)
	return 1
}
