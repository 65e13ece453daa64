package playerctl

import (
	"testing"

	"github.com/brackenfall/doomcore/internal/mobj"
)

func TestStockAddClampsToMax(t *testing.T) {
	s := &Stock{Count: 90, Max: 100}
	added := s.Add(50)
	if s.Count != 100 {
		t.Fatalf("Count = %d, want 100", s.Count)
	}
	if added != 10 {
		t.Fatalf("added = %d, want 10", added)
	}
}

func TestStockSpendInsufficient(t *testing.T) {
	s := &Stock{Count: 2, Max: 50}
	if s.Spend(5) {
		t.Fatal("Spend should fail when count is insufficient")
	}
	if s.Count != 2 {
		t.Fatal("Count must be unchanged after a failed Spend")
	}
}

func TestSelectWeaponStartsLowering(t *testing.T) {
	p := NewPlayer()
	p.Weapons[0] = &Weapon{Name: "fist", Owned: true}
	p.Weapons[1] = &Weapon{Name: "pistol", Owned: true}
	p.ReadyWeapon = 0
	p.weaponState = WeaponReady

	p.SelectWeapon(1)
	if p.PendingWeapon != 1 {
		t.Fatalf("PendingWeapon = %d, want 1", p.PendingWeapon)
	}
	if p.weaponState != WeaponLowering {
		t.Fatalf("weaponState = %v, want WeaponLowering", p.weaponState)
	}
}

func TestSelectWeaponIgnoresUnowned(t *testing.T) {
	p := NewPlayer()
	p.ReadyWeapon = 0
	p.Weapons[0] = &Weapon{Owned: true}
	p.SelectWeapon(3) // slot 3 has no weapon installed
	if p.PendingWeapon != WeaponNoChange {
		t.Fatalf("PendingWeapon = %d, want WeaponNoChange", p.PendingWeapon)
	}
}

func TestAdvanceWeaponStateCommitsSwitch(t *testing.T) {
	p := NewPlayer()
	p.Weapons[0] = &Weapon{Owned: true}
	p.Weapons[1] = &Weapon{Owned: true}
	p.ReadyWeapon = 0
	p.weaponState = WeaponReady
	p.SelectWeapon(1)

	for i := 0; i < 5; i++ {
		p.AdvanceWeaponState(5, 5)
	}
	if p.ReadyWeapon != 1 {
		t.Fatalf("ReadyWeapon = %d, want 1 after lower sequence completes", p.ReadyWeapon)
	}
	if p.weaponState != WeaponRaising {
		t.Fatalf("weaponState = %v, want WeaponRaising", p.weaponState)
	}

	for i := 0; i < 5; i++ {
		p.AdvanceWeaponState(5, 5)
	}
	if p.weaponState != WeaponReady {
		t.Fatalf("weaponState = %v, want WeaponReady after raise sequence completes", p.weaponState)
	}
}

func TestFireSpendsClipBeforeReserve(t *testing.T) {
	p := NewPlayer()
	p.Ammo[0] = &Stock{Count: 50, Max: 50}
	p.Weapons[0] = &Weapon{
		Owned: true,
		Attacks: [4]*AttackDef{
			0: {AmmoType: 0, Cost: 1, ClipSize: 8},
		},
	}
	p.ReadyWeapon = 0
	p.Reload(0)
	if p.Weapons[0].clip[0] != 8 {
		t.Fatalf("clip = %d, want 8 after reload", p.Weapons[0].clip[0])
	}
	if p.Ammo[0].Count != 42 {
		t.Fatalf("reserve = %d, want 42 after reload", p.Ammo[0].Count)
	}

	if !p.Fire(0) {
		t.Fatal("Fire should succeed with a loaded clip")
	}
	if p.Weapons[0].clip[0] != 7 {
		t.Fatalf("clip after firing = %d, want 7", p.Weapons[0].clip[0])
	}
	if p.Ammo[0].Count != 42 {
		t.Fatal("reserve should not change while the clip has rounds")
	}
}

func TestFireNoClipSpendsReserveDirectly(t *testing.T) {
	p := NewPlayer()
	p.Ammo[1] = &Stock{Count: 20, Max: 50}
	p.Weapons[0] = &Weapon{Owned: true, Attacks: [4]*AttackDef{0: {AmmoType: 1, Cost: 2}}}
	p.ReadyWeapon = 0

	if !p.Fire(0) {
		t.Fatal("Fire should succeed")
	}
	if p.Ammo[1].Count != 18 {
		t.Fatalf("reserve = %d, want 18", p.Ammo[1].Count)
	}
}

func TestSharedClipDeductsFromOneCounter(t *testing.T) {
	p := NewPlayer()
	p.Ammo[0] = &Stock{Count: 50, Max: 50}
	p.Weapons[0] = &Weapon{
		Owned: true,
		Attacks: [4]*AttackDef{
			0: {AmmoType: 0, Cost: 1, ClipSize: 10, SharedClip: true},
			1: {AmmoType: 0, Cost: 1, ClipSize: 10, SharedClip: true},
		},
	}
	p.ReadyWeapon = 0
	p.Reload(0)
	p.Fire(1)
	if p.Weapons[0].clip[0] != 9 {
		t.Fatalf("shared clip = %d, want 9 after firing attack 1", p.Weapons[0].clip[0])
	}
}

func TestApplyThrustMovesAlongFacingAngle(t *testing.T) {
	m := &mobj.Mobj{Angle: 0} // facing +X
	cmd := Ticcmd{Forward: 127}
	ApplyThrust(m, cmd, 10)
	if m.MomX <= 9 || m.MomY > 0.01 || m.MomY < -0.01 {
		t.Fatalf("momentum = (%v,%v), want roughly (10,0)", m.MomX, m.MomY)
	}
}
