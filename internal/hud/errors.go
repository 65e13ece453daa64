package hud

import "fmt"

// These mirror the I_Error-on-bad-argument calls in lua_hud.cc
// (HD_coord_sys, HD_set_scale, hud.draw_number's field-length check) as
// plain Go errors instead of a fatal abort — spec.md §7's "library-style
// helpers return booleans or null" propagation policy leaves the
// fatal-vs-recoverable decision to the caller.
func errBadCoordSys(w, h float64) error {
	return fmt.Errorf("hud: bad coord_sys size: %gx%g", w, h)
}

func errBadScale(scale float64) error {
	return fmt.Errorf("hud: bad scale value: %g", scale)
}

func errBadFieldLength(n int) error {
	return fmt.Errorf("hud: bad field length: %d", n)
}

func errBadAutomapColor(which int) error {
	return fmt.Errorf("hud: bad automap color number: %d", which)
}

func errBadAutomapOption(which int) error {
	return fmt.Errorf("hud: bad automap option number: %d", which)
}
