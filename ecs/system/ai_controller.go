package system

import (
	"github.com/milk9111/mazehorde/ecs"
	"github.com/milk9111/mazehorde/ecs/component"
)

// AISystem runs the agent state machine. Per living agent and tick it runs the
// current mode's While actions, then fires the first matching transition.
type AISystem struct {
	fsm    *FSMDef
	script *WanderScript
}

func NewAISystem(fsm *FSMDef, script *WanderScript) *AISystem {
	if fsm == nil {
		fsm = DefaultRamFSM()
	}
	return &AISystem{fsm: fsm, script: script}
}

// SetScript swaps the wander script; nil falls back to the built-in roll.
func (s *AISystem) SetScript(script *WanderScript) {
	s.script = script
}

func (s *AISystem) SetFSM(fsm *FSMDef) {
	if fsm != nil {
		s.fsm = fsm
	}
}

func (s *AISystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	t := w.Tuning()
	player := w.Player().Position

	ctx := &AIActionContext{
		World:  w,
		Tuning: t,
		DT:     w.Frame().DT,
		Script: s.script,
	}

	w.ForEachAgent(func(e ecs.Entity, a *component.Agent) {
		if a.Health.Dead {
			a.Intent = component.Steering{}
			return
		}
		ctx.Entity = e
		ctx.Agent = a
		ctx.ToPlayer = player.Sub(a.Position)
		ctx.Distance = ctx.ToPlayer.Length()

		if _, ok := s.fsm.States[a.AI.Mode]; a.AI.Entered && !ok {
			// A swapped machine can drop the mode the agent is in.
			w.Logger().Warn("mode missing from state machine, restarting agent", "system", "ai", "entity", e, "mode", a.AI.Mode)
			a.AI.Entered = false
		}
		if !a.AI.Entered {
			a.AI.Entered = true
			a.AI.Mode = s.fsm.Initial
			a.AI.Elapsed = 0
			applyActions(s.fsm.States[a.AI.Mode].OnEnter, ctx)
		}

		applyActions(s.fsm.States[a.AI.Mode].While, ctx)

		for _, ch := range s.fsm.Checkers {
			if ch.From != a.AI.Mode || ch.Check == nil || !ch.Check(ctx) {
				continue
			}
			if ch.To != a.AI.Mode {
				s.transition(ctx, ch.To)
			}
			break
		}
	})
}

func (s *AISystem) transition(ctx *AIActionContext, next component.Mode) {
	a := ctx.Agent
	prev := a.AI.Mode
	applyActions(s.fsm.States[prev].OnExit, ctx)
	a.AI.Mode = next
	a.AI.Elapsed = 0
	applyActions(s.fsm.States[next].OnEnter, ctx)
	ctx.World.Logger().Debug("transition", "system", "ai", "entity", ctx.Entity, "from", prev, "to", next, "distance", ctx.Distance)
}

func applyActions(actions []Action, ctx *AIActionContext) {
	for _, a := range actions {
		if a != nil {
			a(ctx)
		}
	}
}
