package component

import "github.com/jakecoffman/cp"

// DamageSource tells the host what hurt the player.
type DamageSource uint8

const (
	DamageRam DamageSource = iota
	DamageContact
	DamageWeapon
)

func (s DamageSource) String() string {
	switch s {
	case DamageRam:
		return "ram"
	case DamageContact:
		return "contact"
	case DamageWeapon:
		return "weapon"
	}
	return "unknown"
}

// PlayerDamageFunc receives damage dealt to the player.
type PlayerDamageFunc func(amount float64, src DamageSource)

// Player is the host-owned view of the player that the simulation reads.
type Player struct {
	Position  cp.Vector
	Elevation float64
	OnDamage  PlayerDamageFunc
}

// Grounded reports whether the player is low enough to be hit by melee.
func (p *Player) Grounded(tolerance float64) bool {
	return p.Elevation <= tolerance
}
