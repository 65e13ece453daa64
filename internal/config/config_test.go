package config

import (
	"flag"
	"strings"
	"testing"
)

func TestParseFlagsBasics(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f, err := ParseFlags(fs, []string{
		"-iwad", "doom2.wad",
		"-file", "mod1.wad",
		"-file", "mod2.wad",
		"-skill", "4",
		"-deathmatch=2",
		"-warp", "e1m1",
		"-strict",
	})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if f.IWAD != "doom2.wad" {
		t.Fatalf("IWAD = %q", f.IWAD)
	}
	if len(f.Files) != 2 || f.Files[0] != "mod1.wad" || f.Files[1] != "mod2.wad" {
		t.Fatalf("Files = %v", f.Files)
	}
	if f.Skill != 4 {
		t.Fatalf("Skill = %d", f.Skill)
	}
	if f.Deathmatch != 2 {
		t.Fatalf("Deathmatch = %d", f.Deathmatch)
	}
	if f.Warp != "e1m1" {
		t.Fatalf("Warp = %q", f.Warp)
	}
	if !f.Strict {
		t.Fatalf("expected Strict true")
	}
	if f.LoadGame != -1 {
		t.Fatalf("expected default LoadGame -1, got %d", f.LoadGame)
	}
}

func TestParseFlagsBareDeathmatch(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f, err := ParseFlags(fs, []string{"-deathmatch"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if f.Deathmatch != 1 {
		t.Fatalf("expected bare -deathmatch to set mode 1, got %d", f.Deathmatch)
	}
}

func TestConfigParseKeyValue(t *testing.T) {
	input := `
# a comment
sfx_volume=80
use_joystick=1
player_name=Doomguy
border_flash=0x0F
not a valid line
`
	var warnings []string
	c, err := Parse(strings.NewReader(input), func(msg string) { warnings = append(warnings, msg) })
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := c.Int("sfx_volume", -1); got != 80 {
		t.Fatalf("sfx_volume = %d", got)
	}
	if got := c.Bool("use_joystick", false); !got {
		t.Fatalf("expected use_joystick true")
	}
	if got := c.String("player_name", ""); got != "Doomguy" {
		t.Fatalf("player_name = %q", got)
	}
	v, ok := c.Get("border_flash")
	if !ok || v.Kind != KindKeycode || v.Int != 0x0F {
		t.Fatalf("border_flash = %+v, ok=%v", v, ok)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected exactly one warning for the malformed line, got %v", warnings)
	}
}

func TestConfigUnsetKeyReturnsCallerDefault(t *testing.T) {
	c := New()
	if got := c.Int("missing", 42); got != 42 {
		t.Fatalf("expected default 42 for unset key, got %d", got)
	}
}

func TestDdfcvarCommandMutatesConfig(t *testing.T) {
	c := New()
	out, err := c.Command("ddfcvar", []string{"sfx_volume", "55"})
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if out != "sfx_volume = 55" {
		t.Fatalf("unexpected output %q", out)
	}
	if got := c.Int("sfx_volume", -1); got != 55 {
		t.Fatalf("sfx_volume = %d after ddfcvar", got)
	}
}

func TestDdfcvarRejectsWrongArgCount(t *testing.T) {
	c := New()
	if _, err := c.Command("ddfcvar", []string{"onlyone"}); err == nil {
		t.Fatalf("expected error for wrong arg count")
	}
}

func TestRegisteredCommandDispatch(t *testing.T) {
	c := New()
	called := false
	c.Register("show_mobjs", func(args []string) (string, error) {
		called = true
		return "0 mobjs", nil
	})
	out, err := c.Command("show_mobjs", nil)
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if !called || out != "0 mobjs" {
		t.Fatalf("handler not invoked as expected: called=%v out=%q", called, out)
	}
}

func TestUnknownCommandErrors(t *testing.T) {
	c := New()
	if _, err := c.Command("nonexistent", nil); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}
