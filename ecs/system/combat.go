package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/common"
	"github.com/milk9111/mazehorde/ecs"
	"github.com/milk9111/mazehorde/ecs/component"
)

// DamageSystem applies passive contact damage: every living agent within
// AttackRadius of a grounded player deals AttackDPS per second, whatever its
// mode.
type DamageSystem struct{}

func NewDamageSystem() *DamageSystem { return &DamageSystem{} }

func (s *DamageSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	f := w.Frame()
	if !f.CanDealDamage || f.DT <= 0 || !w.PlayerGrounded() {
		return
	}
	t := w.Tuning()
	player := w.Player().Position
	radiusSq := t.AttackRadius * t.AttackRadius
	w.ForEachAgent(func(e ecs.Entity, a *component.Agent) {
		if a.Health.Dead {
			return
		}
		if a.Position.DistanceSq(player) <= radiusSq {
			w.DamagePlayer(t.AttackDPS*f.DT, component.DamageContact, e)
		}
	})
}

// ApplyDamage is the external damage entry point. Stale handles and dead
// agents are a no-op.
func ApplyDamage(w *ecs.World, e ecs.Entity, amount float64) (applied, killed bool) {
	a, ok := w.Agent(e)
	if !ok {
		return false, false
	}
	t := w.Tuning()
	applied, killed = a.Health.ApplyDamage(amount, t.HitFlashDuration, t.DeathDuration)
	if !applied {
		return false, false
	}
	w.Emit(ecs.Event{Kind: ecs.EventAgentDamaged, Entity: e, Amount: amount, Position: a.Position})
	if killed {
		a.Intent = component.Steering{}
		a.Path.Clear()
		w.Emit(ecs.Event{Kind: ecs.EventAgentKilled, Entity: e, Position: a.Position})
		w.Logger().Debug("killed", "system", "combat", "entity", e)
	}
	return applied, killed
}

// AttackResult describes what a hitscan attack struck.
type AttackResult struct {
	Entity   ecs.Entity
	Hit      bool
	Killed   bool
	Distance float64
}

// PerformAttack casts a ray and damages the nearest living agent it meets
// within maxRange, unless a wall box is closer.
func PerformAttack(w *ecs.World, origin, direction cp.Vector, maxRange float64) AttackResult {
	dir, ok := common.SafeNormalize(direction)
	if w == nil || !ok || maxRange <= 0 {
		return AttackResult{}
	}
	t := w.Tuning()

	var best AttackResult
	bestDist := math.Inf(1)
	w.ForEachAgent(func(e ecs.Entity, a *component.Agent) {
		if a.Health.Dead {
			return
		}
		d, ok := rayCircle(origin, dir, a.Position, t.AgentRadius)
		if !ok || d > maxRange || d >= bestDist {
			return
		}
		best = AttackResult{Entity: e, Hit: true, Distance: d}
		bestDist = d
	})
	if !best.Hit {
		return AttackResult{}
	}
	for _, bb := range w.Walls() {
		if d, ok := rayBox(origin, dir, bb); ok && d < best.Distance {
			return AttackResult{}
		}
	}
	_, best.Killed = ApplyDamage(w, best.Entity, t.AttackDamage)
	return best
}

// rayCircle returns the distance along a unit ray to a circle, zero when the
// origin is inside it.
func rayCircle(origin, dir, center cp.Vector, r float64) (float64, bool) {
	m := origin.Sub(center)
	b := m.Dot(dir)
	c := m.LengthSq() - r*r
	if c <= 0 {
		return 0, true
	}
	if b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	return -b - math.Sqrt(disc), true
}

// rayBox is a slab test returning the entry distance of a unit ray into bb.
func rayBox(origin, dir cp.Vector, bb cp.BB) (float64, bool) {
	tMin, tMax := 0.0, math.Inf(1)
	axes := [2]struct{ o, d, lo, hi float64 }{
		{origin.X, dir.X, bb.L, bb.R},
		{origin.Y, dir.Y, bb.B, bb.T},
	}
	for _, ax := range axes {
		if math.Abs(ax.d) < common.Epsilon {
			if ax.o < ax.lo || ax.o > ax.hi {
				return 0, false
			}
			continue
		}
		t1 := (ax.lo - ax.o) / ax.d
		t2 := (ax.hi - ax.o) / ax.d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}
