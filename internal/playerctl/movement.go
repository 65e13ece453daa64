package playerctl

import (
	"github.com/brackenfall/doomcore/internal/fixang"
	"github.com/brackenfall/doomcore/internal/mobj"
)

// TurnScale converts a ticcmd's AngleTurn field into BAM units per tic.
// Classic engines shift the raw 16-bit turn value left into the high bits
// of a 32-bit angle; kept as a named constant since it's the one "magic
// number" this conversion needs.
const TurnScale = 16

// ApplyTurn rotates m.Angle/m.VAngle by the ticcmd's turn fields.
func ApplyTurn(m *mobj.Mobj, cmd Ticcmd) {
	m.Angle += uint32(cmd.AngleTurn) << TurnScale
	m.VAngle += uint32(cmd.MlookTurn) << TurnScale
}

// ApplyThrust sets m's horizontal momentum from the ticcmd's forward/side
// fields, scaled by speed, resolved against m's current facing angle.
// Diagonal movement is not renormalized here; callers wanting classic
// "can't outrun by strafing diagonally" behavior should pre-scale forward
// and side before calling.
func ApplyThrust(m *mobj.Mobj, cmd Ticcmd, speed float32) {
	fwd := float32(cmd.Forward) / 127.0 * speed
	strafe := float32(cmd.Side) / 127.0 * speed

	angle := fixang.Angle(m.Angle)
	fx, fy := float32(fixang.Cos(angle)), float32(fixang.Sin(angle))
	// Strafe direction is 90 degrees clockwise from facing.
	sx, sy := float32(fixang.Cos(angle-fixang.Angle90)), float32(fixang.Sin(angle-fixang.Angle90))

	m.MomX += fx*fwd + sx*strafe
	m.MomY += fy*fwd + sy*strafe
}
