package hud

// Automap carries the reveal/rotate/follow/zoom state consulted by
// render_automap, and the per-color overrides scripts may set (spec.md
// §4.9's query/option API; grounded on original_source's am_map.cc
// state flags and lua_hud.cc's HD_render_automap/HD_automap_color/
// HD_automap_option/HD_automap_zoom/HD_automap_player_arrow).
type Automap struct {
	Active bool

	Follow  bool
	Rotate  bool
	Overlay bool
	// RevealSpecials toggles the "sector special colours" reveal layer
	// named in SPEC_FULL.md §10.
	RevealSpecials bool

	Zoom float64

	ArrowStyle PlayerArrow

	colors [NumAutomapColors]Color
}

// AutomapOption numbers (1-based from Lua, like lua_hud.cc) select a
// single boolean flag each.
type AutomapOption int

const (
	OptionFollow AutomapOption = iota + 1
	OptionRotate
	OptionOverlay
	OptionRevealSpecials
	optionReserved5
	optionReserved6
	optionReserved7
)

const maxAutomapOption = int(optionReserved7)

// NumAutomapColors bounds AutomapColor/SetColor (am_map.cc's AM_NUM_COLORS).
const NumAutomapColors = 16

func NewAutomap() *Automap {
	return &Automap{Zoom: 1, ArrowStyle: ArrowClassic}
}

// PlayerArrow selects the automap arrow glyph drawn at the player's
// position (am_map.cc's automap_arrow_e).
type PlayerArrow int

const (
	ArrowClassic PlayerArrow = iota
	ArrowAngled
)

// SetArrow implements hud.automap_player_arrow(type).
func (a *Automap) SetArrow(style PlayerArrow) { a.ArrowStyle = style }

// SetColor implements hud.automap_color(which, color); which is
// 1-based, matching the Lua binding.
func (a *Automap) SetColor(which int, col Color) error {
	if which < 1 || which > NumAutomapColors {
		return errBadAutomapColor(which)
	}
	a.colors[which-1] = col
	return nil
}

// Color returns the 1-based automap color slot's current value.
func (a *Automap) Color(which int) Color {
	if which < 1 || which > NumAutomapColors {
		return 0
	}
	return a.colors[which-1]
}

// SetOption implements hud.automap_option(which, value): value <= 0
// clears the flag, value > 0 sets it. which is 1-based.
func (a *Automap) SetOption(which AutomapOption, value int) error {
	if which < OptionFollow || int(which) > maxAutomapOption {
		return errBadAutomapOption(int(which))
	}
	on := value > 0
	switch which {
	case OptionFollow:
		a.Follow = on
	case OptionRotate:
		a.Rotate = on
	case OptionOverlay:
		a.Overlay = on
	case OptionRevealSpecials:
		a.RevealSpecials = on
	}
	return nil
}

// SetZoom implements hud.automap_zoom(value), clamped to the original's
// "very broad limit" of [0.2, 100.0].
func (a *Automap) SetZoom(zoom float64) {
	switch {
	case zoom < 0.2:
		zoom = 0.2
	case zoom > 100.0:
		zoom = 100.0
	}
	a.Zoom = zoom
}
