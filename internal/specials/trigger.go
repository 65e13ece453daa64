package specials

import "github.com/brackenfall/doomcore/internal/worldmap"

// ActivatorKind classifies what crossed, used, or shot the line, for the
// cooperative/monster/projectile gating spec.md §4.4 requires.
type ActivatorKind int

const (
	ActivatorPlayer ActivatorKind = iota
	ActivatorMonster
	ActivatorProjectile
)

// ActionFunc runs a line special's effect (open a door, start a plat, ...).
// The content/sim layer supplies the registry; this package only handles
// the W1/WR/S1/SR/G1/GR gating around the call.
type ActionFunc func(line *worldmap.Line, kind ActivatorKind)

// Registry maps a line's Special id to the function that executes it.
type Registry map[int]ActionFunc

// Activate runs line's special, if any, subject to its ActivationClass
// gating (spec.md §4.4): "once" classes (W1/S1/G1) fire only the first
// time; monsters may trigger Walk/Gun classes but never Switch classes
// (matching the classic "monsters can't flip switches" rule); projectiles
// only trigger Gun classes. Returns true if the action ran.
func Activate(reg Registry, line *worldmap.Line, kind ActivatorKind, method TriggerMethod) bool {
	if !classAllows(line.Class, method, kind) {
		return false
	}
	if isOnce(line.Class) {
		if line.Activated() {
			return false
		}
	}
	fn, ok := reg[line.Special]
	if !ok {
		return false
	}
	fn(line, kind)
	if isOnce(line.Class) {
		line.MarkActivated()
	}
	return true
}

// TriggerMethod is how the activator interacted with the line: walking
// across it, pressing use on it, or shooting it.
type TriggerMethod int

const (
	TriggerWalk TriggerMethod = iota
	TriggerUse
	TriggerShoot
)

func isOnce(c worldmap.ActivationClass) bool {
	switch c {
	case worldmap.ActivateWalkOnce, worldmap.ActivateSwitchOnce, worldmap.ActivateGunOnce:
		return true
	}
	return false
}

func classAllows(c worldmap.ActivationClass, method TriggerMethod, kind ActivatorKind) bool {
	var classMethod TriggerMethod
	switch c {
	case worldmap.ActivateWalkOnce, worldmap.ActivateWalkRepeat:
		classMethod = TriggerWalk
	case worldmap.ActivateSwitchOnce, worldmap.ActivateSwitchRepeat:
		classMethod = TriggerUse
	case worldmap.ActivateGunOnce, worldmap.ActivateGunRepeat:
		classMethod = TriggerShoot
	}
	if method != classMethod {
		return false
	}
	switch kind {
	case ActivatorMonster:
		return classMethod == TriggerWalk || classMethod == TriggerShoot
	case ActivatorProjectile:
		return classMethod == TriggerShoot
	default:
		return true
	}
}
