package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/common"
	"github.com/milk9111/mazehorde/ecs"
	"github.com/milk9111/mazehorde/ecs/component"
)

// SteeringSystem turns each agent's intent into a displacement: wall
// avoidance, integration, then wall correction for every living agent.
type SteeringSystem struct{}

func NewSteeringSystem() *SteeringSystem {
	return &SteeringSystem{}
}

func (s *SteeringSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	t := w.Tuning()
	dt := w.Frame().DT
	walls := w.Walls()

	w.ForEachAgent(func(e ecs.Entity, a *component.Agent) {
		if a.Health.Dead {
			return
		}
		dir, ok := common.SafeNormalize(a.Intent.Direction)
		if ok && a.Intent.Speed > 0 {
			final, ok := avoidWalls(a.Position, dir, t.AgentRadius, t.FeelerLength, t.AvoidStrength, walls)
			if ok {
				a.Position = a.Position.Add(final.Mult(a.Intent.Speed * dt))
				face(a, final, t.TurnRate*dt)
			}
		}
		a.Position = ResolveWalls(a.Position, t.AgentRadius, walls)
	})
}

// face rotates the cosmetic heading toward the intent's look direction, or
// the travel direction when none is set.
func face(a *component.Agent, travel cp.Vector, step float64) {
	look, ok := common.SafeNormalize(a.Intent.Face)
	if !ok {
		look = travel
	}
	a.Facing = common.ApproachAngle(a.Facing, common.Angle(look), step)
}
