package netio

import (
	"bytes"
	"io"
	"testing"

	"github.com/brackenfall/doomcore/internal/playerctl"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cmd := playerctl.Ticcmd{
		AngleTurn:  -1234,
		MlookTurn:  5678,
		PlayerIdx:  2,
		Forward:    -100,
		Side:       50,
		Up:         -10,
		Buttons:    ButtonAttack | ButtonUse,
		ExtButtons: ExtButtonZoom | ExtButtonInventoryNext,
		ChatChar:   'k',
	}
	payload := Encode(cmd)
	if len(payload) != PayloadSize {
		t.Fatalf("Encode produced %d bytes, want %d", len(payload), PayloadSize)
	}
	got, err := Decode(payload[:])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != cmd {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, cmd)
	}
}

func TestEncodeReservedBytesAreZero(t *testing.T) {
	payload := Encode(playerctl.Ticcmd{})
	if payload[4] != 0 || payload[5] != 0 || payload[15] != 0 || payload[16] != 0 {
		t.Fatalf("expected reserved bytes zero, got %v", payload)
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	if _, err := Decode(make([]byte, PayloadSize-1)); err == nil {
		t.Fatalf("expected error for short payload")
	}
	if _, err := Decode(make([]byte, PayloadSize+1)); err == nil {
		t.Fatalf("expected error for long payload")
	}
}

func TestRecorderPlayerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	tic0 := []playerctl.Ticcmd{
		{AngleTurn: 1, PlayerIdx: 0, Forward: 10},
		{AngleTurn: -1, PlayerIdx: 1, Side: -5},
	}
	tic1 := []playerctl.Ticcmd{
		{PlayerIdx: 0, Buttons: ButtonAttack},
	}
	if err := rec.WriteTic(tic0); err != nil {
		t.Fatalf("WriteTic tic0: %v", err)
	}
	if err := rec.WriteTic(tic1); err != nil {
		t.Fatalf("WriteTic tic1: %v", err)
	}

	pl := NewPlayer(&buf)
	got0, err := pl.ReadTic()
	if err != nil {
		t.Fatalf("ReadTic 0: %v", err)
	}
	if len(got0) != len(tic0) || got0[0] != tic0[0] || got0[1] != tic0[1] {
		t.Fatalf("tic0 mismatch: got %+v, want %+v", got0, tic0)
	}
	got1, err := pl.ReadTic()
	if err != nil {
		t.Fatalf("ReadTic 1: %v", err)
	}
	if len(got1) != 1 || got1[0] != tic1[0] {
		t.Fatalf("tic1 mismatch: got %+v, want %+v", got1, tic1)
	}
	if _, err := pl.ReadTic(); err != io.EOF {
		t.Fatalf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestPlayerRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("not a demo stream header")
	pl := NewPlayer(buf)
	if _, err := pl.ReadTic(); err == nil {
		t.Fatalf("expected error for bad demo magic")
	}
}
