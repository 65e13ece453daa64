// Package netio implements the wire codec for the single-host loopback
// ticcmd protocol (spec.md §6): a fixed 17-byte little-endian payload
// per tic, per player.
//
// Grounded on the teacher's ay_z80_parser.go/vgm_parser.go style of
// hand-rolled encoding/binary field extraction at fixed byte offsets
// (rather than reflection-based struct marshaling), applied here to
// encode instead of decode since this module originates the wire
// format rather than reading someone else's.
package netio

import (
	"encoding/binary"
	"fmt"

	"github.com/brackenfall/doomcore/internal/playerctl"
)

// PayloadSize is the fixed wire size of one ticcmd (spec.md §6).
const PayloadSize = 17

// Button bits, mirrored from internal/playerctl for callers that only
// import netio.
const (
	ButtonAttack       = playerctl.ButtonAttack
	ButtonUse          = playerctl.ButtonUse
	ButtonChangeWeapon = playerctl.ButtonChangeWeapon
)

// Extended button bits (spec.md §6: "center, secondary attack, zoom,
// reload, two user actions, inventory prev/use/next, third/fourth
// attack").
const (
	ExtButtonCenter uint16 = 1 << iota
	ExtButtonSecondaryAttack
	ExtButtonZoom
	ExtButtonReload
	ExtButtonUser1
	ExtButtonUser2
	ExtButtonInventoryPrev
	ExtButtonInventoryUse
	ExtButtonInventoryNext
	ExtButtonThirdAttack
	ExtButtonFourthAttack
)

// Encode serializes a ticcmd into its 17-byte wire form. The three
// reserved bytes are always written zero.
func Encode(cmd playerctl.Ticcmd) [PayloadSize]byte {
	var buf [PayloadSize]byte
	binary.LittleEndian.PutUint16(buf[0:2], uint16(cmd.AngleTurn))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(cmd.MlookTurn))
	// buf[4:6] is the reserved u16.
	binary.LittleEndian.PutUint16(buf[6:8], uint16(cmd.PlayerIdx))
	buf[8] = byte(cmd.Forward)
	buf[9] = byte(cmd.Side)
	buf[10] = byte(cmd.Up)
	buf[11] = cmd.Buttons
	binary.LittleEndian.PutUint16(buf[12:14], cmd.ExtButtons)
	buf[14] = cmd.ChatChar
	// buf[15], buf[16] are reserved.
	return buf
}

// Decode parses a 17-byte wire payload into a ticcmd. Returns an error
// if data is the wrong length — a malformed wire payload is load-time
// malformed data per spec.md §7, not a panic.
func Decode(data []byte) (playerctl.Ticcmd, error) {
	var cmd playerctl.Ticcmd
	if len(data) != PayloadSize {
		return cmd, fmt.Errorf("netio: ticcmd payload is %d bytes, want %d", len(data), PayloadSize)
	}
	cmd.AngleTurn = int16(binary.LittleEndian.Uint16(data[0:2]))
	cmd.MlookTurn = int16(binary.LittleEndian.Uint16(data[2:4]))
	cmd.PlayerIdx = int16(binary.LittleEndian.Uint16(data[6:8]))
	cmd.Forward = int8(data[8])
	cmd.Side = int8(data[9])
	cmd.Up = int8(data[10])
	cmd.Buttons = data[11]
	cmd.ExtButtons = binary.LittleEndian.Uint16(data[12:14])
	cmd.ChatChar = data[14]
	return cmd, nil
}
