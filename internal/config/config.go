// Package config parses the CLI flag set (spec.md §6) into a Flags
// struct and the key=value config file into a Config key->Value map, and
// backs the one-form console command registry (original_source's
// con_con.cc, SPEC_FULL.md §10) that mutates that map at runtime.
//
// Grounded on the teacher's cmd/ie32to64/main.go and Nitro-Core-DX's
// cmd/emulator/main.go, both of which parse args with the standard
// library flag package directly rather than a CLI framework
// (SPEC_FULL.md §8.3: "never a CLI framework").
package config

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ValueKind tags how a config value should be interpreted, per spec.md
// §6's "values are typed as int, bool (0/1), string, or keycode (hex, 0x
// prefix)".
type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindBool
	KindKeycode
)

// Value is one parsed config entry.
type Value struct {
	Kind ValueKind
	Str  string
	Int  int  // also holds the keycode for KindKeycode
	Bool bool
}

// Flags is the parsed CLI flag set (spec.md §6's flag list).
type Flags struct {
	IWAD        string
	Files       []string
	Dehacked    []string
	Scripts     []string
	Dirs        []string
	Warp        string
	Skill       int
	Deathmatch  int // 0 = off, otherwise the mode number from -deathmatch[=mode]
	AltDeath    bool
	LoadGame    int // -1 = not requested
	Bots        int
	Port        int
	Width       int
	Height      int
	Res         string
	Fullscreen  bool
	Windowed    bool
	Borderless  bool
	NoSound     bool
	NoMusic     bool
	Strict      bool
	Lax         bool
	Warn        bool
	Home        string
	NoLog       bool
	GUI         bool
}

// multiFlag accumulates repeated -flag <path> occurrences into a slice,
// the stdlib flag package's documented pattern for "flag may repeat".
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

// ParseFlags parses args (excluding the program name, i.e. os.Args[1:])
// into a Flags struct. fs lets callers pass their own *flag.FlagSet in
// tests instead of the global flag.CommandLine.
func ParseFlags(fs *flag.FlagSet, args []string) (Flags, error) {
	var f Flags
	var files, dehs, scripts, dirs multiFlag
	var deathmatch string

	fs.StringVar(&f.IWAD, "iwad", "", "path to the IWAD file")
	fs.Var(&files, "file", "additional WAD file (repeatable)")
	fs.Var(&dehs, "deh", "DeHackEd patch file (repeatable)")
	fs.Var(&scripts, "script", "script file (repeatable)")
	fs.Var(&dirs, "dir", "content search directory (repeatable)")
	fs.StringVar(&f.Warp, "warp", "", "map name or number to start on")
	fs.IntVar(&f.Skill, "skill", 0, "skill level 1..5 (0 = use map default)")
	fs.StringVar(&deathmatch, "deathmatch", "", "enable deathmatch, optionally =mode")
	fs.BoolVar(&f.AltDeath, "altdeath", false, "enable altdeath rules")
	fs.IntVar(&f.LoadGame, "loadgame", -1, "load the save in this slot at startup")
	fs.IntVar(&f.Bots, "bots", 0, "number of bot players to add")
	fs.IntVar(&f.Port, "port", 0, "loopback port override")
	fs.IntVar(&f.Width, "width", 0, "display width override")
	fs.IntVar(&f.Height, "height", 0, "display height override")
	fs.StringVar(&f.Res, "res", "", "display resolution as WxH")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "run fullscreen")
	fs.BoolVar(&f.Windowed, "windowed", false, "run windowed")
	fs.BoolVar(&f.Borderless, "borderless", false, "run borderless windowed")
	fs.BoolVar(&f.NoSound, "nosound", false, "disable sound effects")
	fs.BoolVar(&f.NoMusic, "nomusic", false, "disable music")
	fs.BoolVar(&f.Strict, "strict", false, "record strict mode in the logger (no warning is promoted to fatal)")
	fs.BoolVar(&f.Lax, "lax", false, "suppress warnings entirely")
	fs.BoolVar(&f.Warn, "warn", false, "log warnings without promoting them")
	fs.StringVar(&f.Home, "home", "", "user data directory override")
	fs.BoolVar(&f.NoLog, "nolog", false, "disable the debug log file")
	fs.BoolVar(&f.GUI, "gui", false, "open an ebiten window and render the HUD overlay instead of running headless")

	// A string flag needs a value, so a bare -deathmatch is rewritten to
	// -deathmatch=1 before parsing. Flag parsing stops at "--".
	args = append([]string(nil), args...)
	for i, a := range args {
		if a == "--" {
			break
		}
		if a == "-deathmatch" || a == "--deathmatch" {
			args[i] = "-deathmatch=1"
		}
	}
	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	f.Files = []string(files)
	f.Dehacked = []string(dehs)
	f.Scripts = []string(scripts)
	f.Dirs = []string(dirs)

	if deathmatch != "" {
		mode, err := strconv.Atoi(deathmatch)
		if err != nil {
			mode = 1 // non-numeric "=mode" value
		}
		f.Deathmatch = mode
	}
	return f, nil
}

// Config is the runtime configuration: the parsed config file plus later
// ddfcvar console commands, sharing one flat key->Value map (spec.md §6:
// "keys are flat identifiers"). CLI flags are parsed separately into
// Flags and are not merged into this map.
type Config struct {
	values   map[string]Value
	commands map[string]Handler
}

// New returns an empty Config.
func New() *Config {
	return &Config{values: make(map[string]Value)}
}

// Parse reads key=value lines from r into a new Config. Blank lines and
// lines starting with # are skipped. Unknown syntax on a line is reported
// through warn rather than failing the whole parse (spec.md §6: "unknown
// keys ignored with warning"). There is no list of known keys: every
// well-formed key=value line is stored, and only a line without "=" is
// warned about and skipped.
func Parse(r io.Reader, warn func(msg string)) (*Config, error) {
	c := New()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			if warn != nil {
				warn(fmt.Sprintf("config: line %d: expected key=value, got %q", lineNo, line))
			}
			continue
		}
		c.Set(strings.TrimSpace(key), strings.TrimSpace(val))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	return c, nil
}

// Set stores raw, inferring its ValueKind: 0x-prefixed is a keycode,
// 0/1 is bool, a plain integer is int, anything else is a string.
func (c *Config) Set(key, raw string) {
	c.values[key] = parseValue(raw)
}

func parseValue(raw string) Value {
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		if n, err := strconv.ParseInt(raw[2:], 16, 64); err == nil {
			return Value{Kind: KindKeycode, Int: int(n), Str: raw}
		}
	}
	if raw == "0" || raw == "1" {
		return Value{Kind: KindBool, Bool: raw == "1", Str: raw}
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return Value{Kind: KindInt, Int: n, Str: raw}
	}
	return Value{Kind: KindString, Str: raw}
}

// Get returns the raw value for key and whether it was set.
func (c *Config) Get(key string) (Value, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Int, Bool, String read a key with a fallback default, for callers that
// don't care whether it was actually set.
func (c *Config) Int(key string, def int) int {
	if v, ok := c.values[key]; ok {
		return v.Int
	}
	return def
}

func (c *Config) Bool(key string, def bool) bool {
	if v, ok := c.values[key]; ok {
		return v.Bool
	}
	return def
}

func (c *Config) String(key string, def string) string {
	if v, ok := c.values[key]; ok {
		return v.Str
	}
	return def
}

// Keys returns every key currently set, for the show_* introspection
// commands.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	return keys
}
