package specials

import (
	"testing"

	"github.com/brackenfall/doomcore/internal/mobj"
	"github.com/brackenfall/doomcore/internal/worldmap"
)

func TestDoorOpensWaitsAndCloses(t *testing.T) {
	sec := &worldmap.Sector{Ceiling: worldmap.SurfaceProps{Height: 0}}
	d := &Door{Sector: sec, State: DoorOpening, Speed: 8, TopHeight: 64, BottomHeight: 0, WaitTics: 2}

	for sec.Ceiling.Height < 64 {
		if done := d.Tick(); done {
			t.Fatal("door should not finish while still opening")
		}
	}
	if d.State != DoorWaiting {
		t.Fatalf("state = %v, want DoorWaiting", d.State)
	}

	d.Tick()
	d.Tick()
	if d.State != DoorClosing {
		t.Fatalf("state = %v, want DoorClosing after wait elapses", d.State)
	}

	for sec.Ceiling.Height > 0 {
		d.Tick()
	}
	if d.State != DoorOpening {
		t.Fatalf("a repeating door should cycle back to opening, got %v", d.State)
	}
}

func TestOneShotDoorFinishes(t *testing.T) {
	sec := &worldmap.Sector{Ceiling: worldmap.SurfaceProps{Height: 64}}
	d := &Door{Sector: sec, State: DoorClosing, Speed: 64, TopHeight: 64, BottomHeight: 0, OneShot: true}
	if !d.Tick() {
		t.Fatal("one-shot door should report done after reaching bottom")
	}
}

func TestPlatCyclesBetweenHeights(t *testing.T) {
	sec := &worldmap.Sector{Floor: worldmap.SurfaceProps{Height: 0}}
	p := &Plat{Sector: sec, State: PlatUp, Speed: 10, LowHeight: 0, HighHeight: 50, WaitTics: 1}
	// 5 tics to rise to 50, 1 to clear the high wait, 5 to fall back to 0,
	// and the 11th tic lands exactly on the low-wait transition.
	for i := 0; i < 11; i++ {
		p.Tick()
	}
	if p.State != PlatWaitingLow {
		t.Fatalf("state after one full up-down cycle = %v, want PlatWaitingLow", p.State)
	}
	if sec.Floor.Height != 0 {
		t.Fatalf("floor height = %v, want 0 at the bottom of the cycle", sec.Floor.Height)
	}
}

func TestScrollerAccumulatesSideOffset(t *testing.T) {
	side := &worldmap.Side{}
	s := &Scroller{Side: side, DX: 1, DY: 0.5}
	for i := 0; i < 4; i++ {
		s.Tick()
	}
	if side.ScrollX != 4 || side.ScrollY != 2 {
		t.Fatalf("scroll offset = (%v,%v), want (4,2)", side.ScrollX, side.ScrollY)
	}
}

func TestDamageCooldownAppliesOncePerPeriod(t *testing.T) {
	sec := &worldmap.Sector{Props: worldmap.RegionProps{Damage: 5}}
	m := &mobj.Mobj{}
	arena := mobj.NewArena()
	arena.Spawn(m)
	sec.Things = []worldmap.MobjRef{m}

	dc := NewDamageCooldown()
	hits := 0
	for i := 0; i < 6; i++ {
		dc.ApplyDamage(sec, 3, func(*mobj.Mobj, int) { hits++ }, nil)
	}
	if hits != 2 {
		t.Fatalf("hits = %d, want 2 for a period-3 cooldown over 6 tics", hits)
	}
}

func TestDamageCooldownSkipsImmuneMobj(t *testing.T) {
	sec := &worldmap.Sector{Props: worldmap.RegionProps{Damage: 5}}
	m := &mobj.Mobj{}
	arena := mobj.NewArena()
	arena.Spawn(m)
	sec.Things = []worldmap.MobjRef{m}

	dc := NewDamageCooldown()
	hits := 0
	dc.ApplyDamage(sec, 1, func(*mobj.Mobj, int) { hits++ }, func(*mobj.Mobj) bool { return true })
	if hits != 0 {
		t.Fatal("immune mobj should never be damaged")
	}
}

func TestActivateWalkOnceFiresOnlyOnce(t *testing.T) {
	line := &worldmap.Line{Special: 1, Class: worldmap.ActivateWalkOnce}

	fires := 0
	countingReg := Registry{1: func(*worldmap.Line, ActivatorKind) { fires++ }}

	if !Activate(countingReg, line, ActivatorPlayer, TriggerWalk) {
		t.Fatal("first walk-once activation should fire")
	}
	if Activate(countingReg, line, ActivatorPlayer, TriggerWalk) {
		t.Fatal("second walk-once activation should not fire")
	}
	if fires != 1 {
		t.Fatalf("fires = %d, want 1", fires)
	}
}

func TestActivateMonsterCannotUseSwitch(t *testing.T) {
	line := &worldmap.Line{Special: 1, Class: worldmap.ActivateSwitchRepeat}
	reg := Registry{1: func(*worldmap.Line, ActivatorKind) {}}
	if Activate(reg, line, ActivatorMonster, TriggerUse) {
		t.Fatal("monsters must not be able to trigger switch-class lines")
	}
}

func TestActivateProjectileOnlyTriggersGunClass(t *testing.T) {
	walkLine := &worldmap.Line{Special: 1, Class: worldmap.ActivateWalkRepeat}
	gunLine := &worldmap.Line{Special: 1, Class: worldmap.ActivateGunRepeat}
	reg := Registry{1: func(*worldmap.Line, ActivatorKind) {}}

	if Activate(reg, walkLine, ActivatorProjectile, TriggerWalk) {
		t.Fatal("projectiles must not trigger walk-class lines")
	}
	if !Activate(reg, gunLine, ActivatorProjectile, TriggerShoot) {
		t.Fatal("projectiles should trigger gun-class lines")
	}
}
