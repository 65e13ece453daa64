package hud

import (
	"testing"

	"github.com/brackenfall/doomcore/internal/mobj"
	"github.com/brackenfall/doomcore/internal/playerctl"
)

func TestCanvasCoordSysRejectsSmallSize(t *testing.T) {
	c := NewCanvas(640, 400)
	if err := c.CoordSys(32, 32); err == nil {
		t.Fatalf("expected error for coord_sys smaller than 64x64")
	}
}

func TestCanvasCoordSysScalesPrimitives(t *testing.T) {
	c := NewCanvas(640, 400)
	if err := c.CoordSys(320, 200); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.scaleX != 2 || c.scaleY != 2 {
		t.Fatalf("expected 2x scale factors, got (%v,%v)", c.scaleX, c.scaleY)
	}
}

func TestCanvasQueuesCommandsInOrder(t *testing.T) {
	c := NewCanvas(320, 200)
	c.SolidBox(0, 0, 10, 10, 0xFF0000)
	c.DrawText(0, 0, "hi", 0)
	cmds := c.Commands()
	if len(cmds) != 2 {
		t.Fatalf("expected 2 queued commands, got %d", len(cmds))
	}
	if cmds[0].Kind != CmdSolidBox || cmds[1].Kind != CmdDrawText {
		t.Fatalf("unexpected command order: %+v", cmds)
	}
}

func TestCanvasResetClearsQueueAndState(t *testing.T) {
	c := NewCanvas(320, 200)
	c.SetScale(2)
	c.SolidBox(0, 0, 1, 1, 0)
	c.Reset()
	if len(c.Commands()) != 0 {
		t.Fatalf("expected empty command queue after Reset")
	}
	if c.st.Scale != 1 {
		t.Fatalf("expected scale reset to default 1, got %v", c.st.Scale)
	}
}

func TestDrawNumberFieldFormatting(t *testing.T) {
	cases := []struct {
		fieldLen, num int
		want          string
	}{
		{3, 7, "7"},
		{3, 42, "42"},
		{2, -5, "-5"},
		{1, -5, "5"}, // field too small to hold a sign: the original drops it
		{4, 0, "0"},
	}
	for _, tc := range cases {
		got, err := formatField(tc.fieldLen, tc.num)
		if err != nil {
			t.Fatalf("formatField(%d,%d) error: %v", tc.fieldLen, tc.num, err)
		}
		if got != tc.want {
			t.Fatalf("formatField(%d,%d) = %q, want %q", tc.fieldLen, tc.num, got, tc.want)
		}
	}
}

func TestDrawNumberRejectsBadFieldLength(t *testing.T) {
	if _, err := formatField(0, 5); err == nil {
		t.Fatalf("expected error for field length 0")
	}
	if _, err := formatField(21, 5); err == nil {
		t.Fatalf("expected error for field length 21")
	}
}

func TestAutomapOptionTogglesExpectedFlag(t *testing.T) {
	a := NewAutomap()
	if err := a.SetOption(OptionRotate, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Rotate {
		t.Fatalf("expected Rotate set true")
	}
	if err := a.SetOption(OptionRotate, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Rotate {
		t.Fatalf("expected Rotate cleared")
	}
}

func TestAutomapZoomClampsToBroadLimit(t *testing.T) {
	a := NewAutomap()
	a.SetZoom(1000)
	if a.Zoom != 100 {
		t.Fatalf("expected zoom clamped to 100, got %v", a.Zoom)
	}
	a.SetZoom(0.01)
	if a.Zoom != 0.2 {
		t.Fatalf("expected zoom clamped to 0.2, got %v", a.Zoom)
	}
}

func TestAutomapColorRejectsOutOfRange(t *testing.T) {
	a := NewAutomap()
	if err := a.SetColor(0, 1); err == nil {
		t.Fatalf("expected error for color index 0")
	}
	if err := a.SetColor(NumAutomapColors+1, 1); err == nil {
		t.Fatalf("expected error for color index past the end")
	}
	if err := a.SetColor(1, 0xABCDEF); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Color(1) != 0xABCDEF {
		t.Fatalf("expected color round-trip")
	}
}

func TestRTSTagsAreIdempotent(t *testing.T) {
	r := NewRTSTags()
	r.Enable("tag1")
	r.Enable("tag1")
	if !r.IsActive("tag1") {
		t.Fatalf("expected tag1 active after double-enable")
	}
	r.Disable("tag1")
	r.Disable("tag1")
	if r.IsActive("tag1") {
		t.Fatalf("expected tag1 inactive after double-disable")
	}
}

func TestQueryHealthReturnsIntegerHealth(t *testing.T) {
	q := &Query{}
	m := &mobj.Mobj{Health: 0}
	m.Health = 1
	if got := q.Health(nil, m); got != 1 {
		t.Fatalf("Health = %d, want 1", got)
	}
}

func TestQueryAmmoAndArmor(t *testing.T) {
	q := &Query{}
	p := playerctl.NewPlayer()
	p.Armor[1] = &playerctl.Stock{Count: 50, Max: 100}
	p.Ammo[0] = &playerctl.Stock{Count: 20, Max: 200}

	if got := q.Armor(p, 1); got != 50 {
		t.Fatalf("Armor = %d, want 50", got)
	}
	if got := q.TotalArmor(p); got != 50 {
		t.Fatalf("TotalArmor = %d, want 50", got)
	}
	count, max := q.Ammo(p, 0)
	if count != 20 || max != 200 {
		t.Fatalf("Ammo = (%d,%d), want (20,200)", count, max)
	}
}

func TestQueryHasKeyBitTest(t *testing.T) {
	q := &Query{}
	p := playerctl.NewPlayer()
	p.Cards = 1 << 2
	if !q.HasKey(p, 2) {
		t.Fatalf("expected key bit 2 set")
	}
	if q.HasKey(p, 1) {
		t.Fatalf("expected key bit 1 clear")
	}
}

func TestFinaleAdvancesThroughPhases(t *testing.T) {
	f := NewFinale("hi", 1, nil, 2, nil, 0)
	if f.Phase != FinaleTextScroll {
		t.Fatalf("expected to start in text scroll")
	}
	f.Tick() // 'h'
	f.Tick() // 'i', fully revealed
	if f.VisibleText() != "hi" {
		t.Fatalf("VisibleText = %q, want full text once revealed", f.VisibleText())
	}
	f.Tick() // text hold is 0, so this tic advances to Done
	f.Tick() // already Done: no-op
	if f.Phase != FinaleDone {
		t.Fatalf("expected FinaleDone with no image/cast configured, got %v", f.Phase)
	}
}

func TestAverageColorOfUniformImage(t *testing.T) {
	src := uniformPixels{w: 4, h: 4, r: 10, g: 20, b: 30}
	r, g, b := AverageColor(src, -1, 1000000, -1, 1000000)
	if r != 10 || g != 20 || b != 30 {
		t.Fatalf("AverageColor = (%d,%d,%d), want (10,20,30)", r, g, b)
	}
}

type uniformPixels struct {
	w, h    int
	r, g, b uint8
}

func (u uniformPixels) Size() (int, int)             { return u.w, u.h }
func (u uniformPixels) At(x, y int) (uint8, uint8, uint8) { return u.r, u.g, u.b }
