// Package engine bundles every subsystem into one live run and drives it
// one tic at a time (spec.md §9's recommended decomposition:
// "Engine { World world; PlaySim sim; AudioMixer mix; Tracker song;
// HudState hud; }", generalized here to this core's actual package set).
// Subsystems stay the thin, independently-testable packages they already
// are; Engine only owns the wiring and the fixed per-tic order spec.md
// §4.5 requires for deterministic replay.
package engine

import (
	"fmt"

	"github.com/brackenfall/doomcore/internal/config"
	"github.com/brackenfall/doomcore/internal/elog"
	"github.com/brackenfall/doomcore/internal/fixang"
	"github.com/brackenfall/doomcore/internal/hud"
	"github.com/brackenfall/doomcore/internal/mixer"
	"github.com/brackenfall/doomcore/internal/mobj"
	"github.com/brackenfall/doomcore/internal/playerctl"
	"github.com/brackenfall/doomcore/internal/savegame"
	"github.com/brackenfall/doomcore/internal/spatial"
	"github.com/brackenfall/doomcore/internal/specials"
	"github.com/brackenfall/doomcore/internal/tick"
	"github.com/brackenfall/doomcore/internal/tracker"
	"github.com/brackenfall/doomcore/internal/worldmap"
)

// Engine is the live run: every subsystem's state plus the glue between
// them. Nothing outside this package reaches across subsystems directly —
// e.g. specials.Registry entries that move mobjs go through Spatial, never
// straight at Arena.
type Engine struct {
	Config    *config.Config
	Log       *elog.Logger
	Scheduler *tick.Scheduler

	World   *worldmap.World
	Spatial *spatial.World
	Arena   *mobj.Arena
	States  mobj.StateTable

	Players [playerctl.MaxPlayers]*playerctl.Player

	Specials *specials.Ring
	Triggers specials.Registry

	Mixer  *mixer.Mixer
	Cheats *CheatTable

	HUD    *hud.Binding
	Finale *hud.Finale

	// TickScripts is step 5's RTS-script advance hook. The core carries
	// no script bytecode of its own (DDF/RTS script bodies are a content
	// concern, spec.md §1), so this is nil until a content loader installs
	// one; Tick skips the step entirely while it's nil.
	TickScripts func()

	// SpawnThing resolves one decoded THINGS entry (spec.md §6) to the
	// mobj.Info it spawns, or nil to skip it (unknown DoomEdNum, a
	// non-spawning editor marker, etc.) — the type-number-to-content-def
	// table is content data (spec.md §1), the same split TickScripts and
	// spatial.PassMissileFunc draw. LoadWAD calls this once per decoded
	// thing that passes skill filtering; while nil, the level's initial
	// mobj population is never spawned, and LoadWAD logs a warning saying
	// so rather than failing silently.
	SpawnThing func(t worldmap.ThingRecord) *mobj.Info

	Episode, Level int
	Skill          int
	RandomSeed     uint32
	LevelTime      int

	KillCount, ItemCount, SecretCount int
}

// NewEngine wires an Engine with empty world/player state, ready for
// LoadWAD and player spawns. tickRate is 35 or 70 (spec.md §4.1).
func NewEngine(cfg *config.Config, log *elog.Logger, tickRate float64) *Engine {
	e := &Engine{
		Config:    cfg,
		Log:       log,
		Scheduler: tick.NewScheduler(tickRate),
		Arena:     mobj.NewArena(),
		Specials:  &specials.Ring{},
		Triggers:  make(specials.Registry),
		Cheats:    NewCheatTable(),
	}
	registerClassicCheats(e.Cheats)
	if cfg != nil {
		registerConsoleCommands(cfg, e)
	}
	return e
}

// registerClassicCheats installs the classic cheat-code set
// (original_source's m_cheat.cc InitCheats), matched on the lowercase
// ASCII bytes a keyboard handler would feed Cheats.Feed.
func registerClassicCheats(t *CheatTable) {
	t.Register("god", "iddqd")
	t.Register("ammo_and_keys", "idkfa")
	t.Register("ammo", "idfa")
	t.Register("noclip", "idspispopd")
	t.Register("noclip2", "idclip")
	t.Register("choppers", "idchoppers")
	t.Register("my_position", "idmypos")
	t.Register("kill_all", "idkillall")
	t.Register("suicide", "idsuicide")
}

// LoadWAD reads a whole WAD file's bytes and loads mapName from it,
// replacing World/Spatial and resetting the BSP-derived blockmap/tree
// (spec.md §6: "accepts Doom-format WAD lumps"). A malformed WAD or
// missing map is a load-time FatalError (spec.md §7).
func (e *Engine) LoadWAD(data []byte, mapName string) error {
	dir, err := worldmap.ReadWAD(data)
	if err != nil {
		return NewFatal(KindMalformedData, err)
	}
	lumps, err := worldmap.FindMap(dir, mapName)
	if err != nil {
		return NewFatal(KindMalformedData, err)
	}
	world, err := worldmap.LoadLevel(lumps)
	if err != nil {
		return NewFatal(KindMalformedData, err)
	}
	e.World = world
	e.Spatial = &spatial.World{Map: world, Arena: e.Arena}
	e.Specials = &specials.Ring{}
	e.Cheats.Reset()
	e.spawnThings(world)
	return nil
}

// spawnThings spawns the level's initial mobj population from its decoded
// THINGS lump (spec.md §6), filtering by the current skill's bit
// (ThingSkillEasy/Normal/Hard) the way classic engines do at load time
// rather than deferring skill filtering to content. A thing whose
// DoomEdNum SpawnThing doesn't recognize is skipped, not fatal — unknown
// editor markers (e.g. camera/path nodes) are ordinary in real WADs.
func (e *Engine) spawnThings(world *worldmap.World) {
	if e.SpawnThing == nil {
		if len(world.Things) > 0 {
			e.Log.Logf(elog.ComponentWorld, elog.LevelWarning, "no thing spawner installed: %d things not spawned", len(world.Things))
		}
		return
	}
	for _, t := range world.Things {
		if !e.thingMatchesSkill(t) {
			continue
		}
		def := e.SpawnThing(t)
		if def == nil {
			continue
		}
		e.SpawnMobj(def, t.X, t.Y, t.Angle)
	}
}

// thingMatchesSkill reports whether a THINGS entry's skill bits include
// the engine's current skill level (spec.md §6: skill 1-2 map to the easy
// bit, 3 to normal, 4-5 to hard).
func (e *Engine) thingMatchesSkill(t worldmap.ThingRecord) bool {
	switch {
	case e.Skill <= 2:
		return t.Flags&worldmap.ThingSkillEasy != 0
	case e.Skill == 3:
		return t.Flags&worldmap.ThingSkillNormal != 0
	default:
		return t.Flags&worldmap.ThingSkillHard != 0
	}
}

// SpawnMobj installs a new mobj of def into the world at (x,y), facing
// angleDeg degrees, on the floor beneath it: Spawn(def, x, y, z)'s
// contract (spec.md §3.2) of installing into the subsector, blockmap and
// touch graph and setting the spawn state, composed from Arena.Spawn,
// spatial.World.PlaceAt and mobj.SetState.
func (e *Engine) SpawnMobj(def *mobj.Info, x, y, angleDeg float32) mobj.Ref {
	m := &mobj.Mobj{
		Def:           def,
		Radius:        def.Radius,
		Height:        def.Height,
		Health:        def.SpawnHealth,
		Flags:         def.Flags,
		ExtendedFlags: def.ExtendedFlags,
		HyperFlags:    def.HyperFlags,
		Angle:         uint32(fixang.FromDegrees(float64(angleDeg))),
		Player:        -1,
	}
	ref := e.Arena.Spawn(m)
	if e.Spatial != nil {
		e.Spatial.PlaceAt(m, x, y, 0)
		m.Z = m.FloorZ
	}
	mobj.SetState(e.States, m, def.SpawnState)
	return ref
}

// LoadSong loads an XM or MOD module and attaches a fresh Mixer sized for
// sampleRate output (spec.md component I/J). Passing a zero sampleRate is
// a caller bug, not a recoverable condition, so it isn't guarded here.
func (e *Engine) LoadSong(data []byte, sampleRate float64, soundQueueCap int) error {
	song, err := tracker.Load(data)
	if err != nil {
		return NewFatal(KindMalformedData, err)
	}
	e.Mixer = mixer.New(song, sampleRate, soundQueueCap)
	return nil
}

// JoinPlayer creates an empty player in slot idx, returning an error if
// the slot is already occupied or out of range.
func (e *Engine) JoinPlayer(idx int) error {
	if idx < 0 || idx >= playerctl.MaxPlayers {
		return fmt.Errorf("engine: player index %d out of range", idx)
	}
	if e.Players[idx] != nil {
		return fmt.Errorf("engine: player slot %d already in use", idx)
	}
	e.Players[idx] = playerctl.NewPlayer()
	return nil
}

// Tick runs exactly one simulation step in the fixed order spec.md §4.5
// requires for deterministic replay:
//  1. copy every player's ticcmd for this tic
//  2. per player: movement, weapon state, status effects
//  3. per thinker (mobj): move, think, action
//  4. sector specials
//  5. active RTS scripts
//  6. the mobj remove queue
//
// Tick has no pause check of its own; it runs one full step, ticcmd grab
// included, whenever it is called. Pausing is handled by the scheduler:
// TryRunTics returns zero while paused, so Game.Update calls Tick zero
// times and gametic is held (spec.md §4.1's "pause ... short-circuits
// P_Ticker but never advances gametic").
func (e *Engine) Tick() {
	// Step 1: copy ticcmds.
	e.Scheduler.GrabTiccmds(func(idx int, cmd tick.Ticcmd) {
		p := e.Players[idx]
		if p == nil {
			return
		}
		tc, ok := cmd.(playerctl.Ticcmd)
		if !ok {
			return
		}
		p.Cmd = tc
	})

	// Step 2: per-player movement, weapon state, status effects.
	for _, p := range e.Players {
		if p == nil {
			continue
		}
		e.tickPlayer(p)
	}

	// Step 3: per-thinker move/think/action.
	if e.Arena != nil {
		e.Arena.Each(func(m *mobj.Mobj) {
			e.tickMobj(m)
		})
	}

	// Step 4: sector specials.
	if e.Specials != nil {
		e.Specials.Tick()
	}

	// Step 5: active RTS scripts, if a content loader installed a hook.
	if e.TickScripts != nil {
		e.TickScripts()
	}
	if e.Finale != nil {
		e.Finale.Tick()
	}

	// Step 6: remove queue.
	if e.Arena != nil {
		if e.LevelTime%2 == 0 {
			e.Arena.SweepStaleRefs()
		}
		e.Arena.RunRemoveQueue(e.unlinkMobj)
	}

	e.LevelTime++
}

// tickPlayer applies one player's ticcmd for this tic: view turning,
// movement thrust against the player's mobj, and weapon-state advance
// (spec.md §4.6). Content supplies the actual lower/raise frame counts
// via the current weapon's def, so a player with no ready weapon just
// skips that part.
func (e *Engine) tickPlayer(p *playerctl.Player) {
	m := e.Arena.Resolve(p.Mobj)
	if m == nil {
		return
	}
	playerctl.ApplyTurn(m, p.Cmd)
	speed := float32(0)
	if m.Def != nil {
		speed = m.Def.Speed
	}
	playerctl.ApplyThrust(m, p.Cmd, speed)
	if e.Spatial != nil {
		oldX, oldY := m.X, m.Y
		if e.Spatial.TryMove(m, m.X+m.MomX, m.Y+m.MomY) {
			e.fireWalkTriggers(oldX, oldY, m.X, m.Y)
		}
	}

	if idx := playerctl.WeaponSlotFromButtons(p.Cmd.Buttons); idx != 0 {
		p.SelectWeapon(idx)
	}
	// Lower/raise frame counts are content-table data (per-weapon sprite
	// sequences); without a content loader wired in, advance with the
	// vanilla defaults rather than stalling forever mid-switch.
	p.AdvanceWeaponState(defaultLowerFrames, defaultRaiseFrames)

	if p.Cmd.ChatChar != 0 {
		for _, name := range e.Cheats.Feed(p.Cmd.ChatChar) {
			e.Log.Logf(elog.ComponentSim, elog.LevelInfo, "cheat activated: %s", name)
		}
	}
}

// fireWalkTriggers runs every Walk-class line special crossed between
// (x1,y1) and (x2,y2), the line-crossing half of spec.md §4.4 that
// internal/spatial's doc comment defers to internal/specials rather than
// duplicating its own blockmap walk for. Only player crossings are wired
// here; a content loader driving monster thinkers through the same path
// would call this with ActivatorMonster instead.
func (e *Engine) fireWalkTriggers(x1, y1, x2, y2 float32) {
	if e.World == nil {
		return
	}
	spatial.PathTraverse(e.World, x1, y1, x2, y2, func(l *worldmap.Line, frac float32) bool {
		specials.Activate(e.Triggers, l, specials.ActivatorPlayer, specials.TriggerWalk)
		return true
	}, nil)
}

// defaultLowerFrames/defaultRaiseFrames are the vanilla Doom weapon
// lower/raise sprite counts, used when no content table overrides them.
const (
	defaultLowerFrames = 6
	defaultRaiseFrames = 6
)

// tickMobj advances one mobj's physics and animation state (spec.md
// §4.5's "move, think, action" per thinker). Action dispatch itself is
// content's action table (mobj.Advance calls into it); this just drives
// Z movement, region lookup and the state clock.
func (e *Engine) tickMobj(m *mobj.Mobj) {
	if m.Flags&mobj.FlagRemoved != 0 {
		return
	}
	if e.Spatial != nil && m.Subsector != nil {
		region := worldmap.RegionForPoint(m.Subsector, m.Z)
		spatial.ZMovement(m, region)
		if m.MomX != 0 || m.MomY != 0 {
			e.Spatial.SlideMove(m)
		}
	}
	if !mobj.Advance(e.States, m) {
		e.Arena.RequestRemove(m)
	}
}

// unlinkMobj detaches m from its subsector's touch list and the blockmap
// before the arena frees its slot (spec.md §4.5 step 6). spatial.World
// has no exported Remove — relink's unlink half is private to that
// package's TryMove/SlideMove flow — so the equivalent detach is inlined
// here against the same exported Blockmap/Subsector fields.
func (e *Engine) unlinkMobj(m *mobj.Mobj) {
	if e.World == nil || m.Subsector == nil {
		return
	}
	e.World.Blockmap.UnlinkThing(m.X, m.Y, m)
	things := m.Subsector.Things
	for i, t := range things {
		if t.TouchID() == m.TouchID() {
			things[i] = things[len(things)-1]
			m.Subsector.Things = things[:len(things)-1]
			break
		}
	}
}

// Pause toggles the scheduler's pause state (spec.md §4.1).
func (e *Engine) Pause(p bool) { e.Scheduler.SetPaused(p) }

// Save captures the current run into a savegame.SaveState (spec.md
// component H). nameOf/indexOf resolve content identity and save-order
// indices for mobjs, mirroring savegame.SaveMobjs' contract.
func (e *Engine) Save(nameOf func(*mobj.Mobj) string, indexOf func(*mobj.Mobj) int32) *savegame.SaveState {
	s := &savegame.SaveState{
		Header: savegame.Header{Magic: savegame.Magic, Version: savegame.Version},
		Glob: savegame.GlobChunk{
			Episode: e.Episode, Level: e.Level, Skill: e.Skill,
			RandomSeed:  e.RandomSeed,
			LevelTime:   e.LevelTime,
			KillTotal:   e.KillCount,
			ItemTotal:   e.ItemCount,
			SecretTotal: e.SecretCount,
		},
	}
	if e.World != nil {
		s.Sectors = savegame.SaveSectors(e.World.Sectors)
		s.Lines = savegame.SaveLines(e.World.Lines)
	}
	s.Mobjs = savegame.SaveMobjs(e.Arena, nameOf, indexOf)
	for i, p := range e.Players {
		if p == nil {
			continue
		}
		mobjIdx := int32(-1)
		if m := e.Arena.Resolve(p.Mobj); m != nil {
			mobjIdx = indexOf(m)
		}
		rec := savegame.PlayerRecord{
			InUse: true, MobjIdx: mobjIdx,
			ViewHeight: p.ViewHeight, ReadyWeapon: p.ReadyWeapon, PendingWeapon: p.PendingWeapon,
			Cards: p.Cards, Powers: map[int]int{},
		}
		for k, v := range p.Powers {
			rec.Powers[k] = v
		}
		s.Players[i] = rec
	}
	return s
}

// Load restores a previously captured SaveState against the currently
// loaded World, verifying the level CRC first (spec.md §7: a mismatch is
// fatal, not recoverable). spawn must look up DefName's content
// definition, spawn and SetState it, matching savegame.LoadMobjs' contract.
func (e *Engine) Load(s *savegame.SaveState, sectorCRC, lineCRC, thingCRC uint32, spawn func(rec savegame.MobjRecord) mobj.Ref) error {
	if err := savegame.Verify(s.Glob, sectorCRC, lineCRC, thingCRC); err != nil {
		return NewFatal(KindSaveMismatch, err)
	}
	e.Episode, e.Level, e.Skill = s.Glob.Episode, s.Glob.Level, s.Glob.Skill
	e.RandomSeed = s.Glob.RandomSeed
	e.LevelTime = s.Glob.LevelTime
	e.KillCount, e.ItemCount, e.SecretCount = s.Glob.KillTotal, s.Glob.ItemTotal, s.Glob.SecretTotal

	if e.World != nil {
		savegame.LoadSectors(e.World.Sectors, s.Sectors)
		savegame.LoadLines(e.World.Lines, s.Lines)
	}
	e.Arena = mobj.NewArena()
	if e.Spatial != nil {
		e.Spatial.Arena = e.Arena
	}
	spawnedRefs := make([]mobj.Ref, len(s.Mobjs))
	next := 0
	savegame.LoadMobjs(e.Arena, s.Mobjs, func(rec savegame.MobjRecord) mobj.Ref {
		r := spawn(rec)
		spawnedRefs[next] = r
		next++
		return r
	})

	for i, rec := range s.Players {
		if !rec.InUse {
			e.Players[i] = nil
			continue
		}
		p := playerctl.NewPlayer()
		p.ViewHeight, p.ReadyWeapon, p.PendingWeapon = rec.ViewHeight, rec.ReadyWeapon, rec.PendingWeapon
		p.Cards = rec.Cards
		for k, v := range rec.Powers {
			p.Powers[k] = v
		}
		if rec.MobjIdx >= 0 && int(rec.MobjIdx) < len(spawnedRefs) {
			p.Mobj = spawnedRefs[rec.MobjIdx]
		}
		e.Players[i] = p
	}
	return nil
}
