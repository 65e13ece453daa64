package hud

import (
	"github.com/brackenfall/doomcore/internal/mobj"
	"github.com/brackenfall/doomcore/internal/playerctl"
	"github.com/brackenfall/doomcore/internal/worldmap"
)

// MapInfo is the static map metadata the query API exposes
// (hud.map_name/map_title/map_author/game_name/game_skill/game_mode —
// vm_hud.cc/lua_hud.cc's currmap/gamedef_c fields).
type MapInfo struct {
	Name     string
	Title    string
	Author   string
	GameName string
	Skill    int
	// Mode is "sp", "coop", or "dm", matching HD_game_mode's three string
	// literals exactly so content written against the original scripting
	// API keeps working unmodified.
	Mode string
}

// Query answers the read-only HUD query API (spec.md §4.9) against a
// live world/player/tree, without owning or mutating any of it — it is
// a thin read accessor, not a subsystem.
type Query struct {
	World   *worldmap.Tree
	Arena   *mobj.Arena
	Players []*playerctl.Player
	Map     MapInfo

	// Paused/GameTics are polled once per frame by the engine context
	// rather than recomputed here (hud.game_paused/hud.get_time).
	Paused   bool
	GameTics int
}

// Player returns the player slot at index, or nil if empty/out of
// range — query calls against it become no-ops rather than panics.
func (q *Query) Player(index int) *playerctl.Player {
	if index < 0 || index >= len(q.Players) {
		return nil
	}
	return q.Players[index]
}

// Health reports mob's current health, with branches mirroring
// PL_health's cosmetic rounding (vm_player.cc: a health in (0,1)
// displays as 1, and one in (99,100) displays as 100). Mobj.Health is an
// int, so neither range can occur and the value is returned unchanged.
func (q *Query) Health(p *playerctl.Player, mob *mobj.Mobj) int {
	if mob == nil {
		return 0
	}
	h := mob.Health
	if h > 0 && h < 1 {
		return 1
	}
	if h > 99 && h < 100 {
		return 100
	}
	return h
}

// Armor implements player.armor(type): current count for an armor
// type, 0 if the player has none of it.
func (q *Query) Armor(p *playerctl.Player, armorType int) int {
	if p == nil || p.Armor == nil {
		return 0
	}
	if s, ok := p.Armor[armorType]; ok {
		return s.Count
	}
	return 0
}

// TotalArmor sums every armor type's current count.
func (q *Query) TotalArmor(p *playerctl.Player) int {
	if p == nil {
		return 0
	}
	total := 0
	for _, s := range p.Armor {
		total += s.Count
	}
	return total
}

// Ammo implements player.ammo(type)/player.ammomax(type).
func (q *Query) Ammo(p *playerctl.Player, ammoType int) (count, max int) {
	if p == nil {
		return 0, 0
	}
	if s, ok := p.Ammo[ammoType]; ok {
		return s.Count, s.Max
	}
	return 0, 0
}

// HasKey implements player.cards(key): a bit test against the Cards
// bitmask (vm_player.cc: `cards_ & (1 << key)`).
func (q *Query) HasKey(p *playerctl.Player, key int) bool {
	if p == nil || key < 0 || key >= 32 {
		return false
	}
	return p.Cards&(1<<uint(key)) != 0
}

// HasPower implements player.has_power(power): ticks remaining > 0.
func (q *Query) HasPower(p *playerctl.Player, power int) bool {
	if p == nil {
		return false
	}
	return p.Powers[power] > 0
}

// PowerLeft implements player.power_left(power): remaining ticks, for
// content that draws a countdown or fade.
func (q *Query) PowerLeft(p *playerctl.Player, power int) int {
	if p == nil {
		return 0
	}
	return p.Powers[power]
}

// Frags implements player.frags().
func (q *Query) Frags(p *playerctl.Player) int {
	if p == nil {
		return 0
	}
	return p.Frags
}

// ReadyWeapon implements player.readyweapon().
func (q *Query) ReadyWeapon(p *playerctl.Player) int {
	if p == nil {
		return playerctl.WeaponNone
	}
	return p.ReadyWeapon
}

// DamageFlash implements the damage-flash query named in spec.md §4.9.
func (q *Query) DamageFlash(p *playerctl.Player) int {
	if p == nil {
		return 0
	}
	return p.DamageFlash
}

// SectorAt implements the "sector/floor at camera" query: BSP-locates
// the subsector under (x, y) and returns its region properties at
// height z, exactly as worldmap.RegionForPoint already does for the
// sim side (spec.md §4.2's component directly answers §4.9's query,
// rather than duplicating the traversal).
func (q *Query) SectorAt(x, y, z float32) (*worldmap.Subsector, worldmap.RegionProps) {
	if q.World == nil {
		return nil, worldmap.DefaultRegionProps()
	}
	ss := q.World.PointInSubsector(x, y)
	if ss == nil {
		return nil, worldmap.DefaultRegionProps()
	}
	return ss, worldmap.RegionForPoint(ss, z)
}
