package component

// Health is the hit-point ledger of an agent.
type Health struct {
	Max     float64
	Current float64
	Dead    bool
	// DeathTimer counts down after death; the agent is pruned at zero.
	DeathTimer float64
	// HitFlash is a cosmetic countdown restarted on every hit.
	HitFlash float64
}

// NewHealth creates a Health with max/current initialized.
func NewHealth(max float64) Health {
	if max <= 0 {
		max = 1
	}
	return Health{Max: max, Current: max}
}

// IsAlive reports whether the entity is alive.
func (h *Health) IsAlive() bool {
	return h != nil && !h.Dead && h.Current > 0
}

// ApplyDamage subtracts amount and starts the hit flash. When hp reaches zero
// the ledger latches Dead and starts the death timer. Damage to a dead agent or
// a non-positive amount is ignored.
func (h *Health) ApplyDamage(amount, flash, deathDuration float64) (applied, killed bool) {
	if h == nil || h.Dead || amount <= 0 {
		return false, false
	}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	h.HitFlash = flash
	if h.Current <= 0 {
		h.Dead = true
		h.DeathTimer = deathDuration
		return true, true
	}
	return true, false
}

// Tick decays the hit flash and, for dead agents, the death timer. It returns
// true once a dead agent's timer has run out.
func (h *Health) Tick(dt float64) bool {
	if h == nil || dt <= 0 {
		return false
	}
	if h.HitFlash > 0 {
		h.HitFlash -= dt
		if h.HitFlash < 0 {
			h.HitFlash = 0
		}
	}
	if !h.Dead {
		return false
	}
	h.DeathTimer -= dt
	if h.DeathTimer <= 0 {
		h.DeathTimer = 0
		return true
	}
	return false
}
