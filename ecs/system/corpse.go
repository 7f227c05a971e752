package system

import (
	"github.com/milk9111/mazehorde/ecs"
	"github.com/milk9111/mazehorde/ecs/component"
)

// CorpseSystem decays hit flashes and death timers and removes agents whose
// death timer has run out. It keeps running while the world is frozen.
type CorpseSystem struct {
	expired []ecs.Entity
}

func NewCorpseSystem() *CorpseSystem {
	return &CorpseSystem{}
}

func (s *CorpseSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Frame().DT
	s.expired = s.expired[:0]
	w.ForEachAgent(func(e ecs.Entity, a *component.Agent) {
		if a.Health.Tick(dt) {
			s.expired = append(s.expired, e)
		}
	})
	for _, e := range s.expired {
		a, ok := w.Agent(e)
		if !ok {
			continue
		}
		pos := a.Position
		if w.DestroyEntity(e) {
			w.Emit(ecs.Event{Kind: ecs.EventAgentRemoved, Entity: e, Position: pos})
			w.Logger().Debug("pruned", "system", "corpse", "entity", e)
		}
	}
}
