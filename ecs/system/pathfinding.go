package system

import (
	"github.com/milk9111/mazehorde/ecs"
	"github.com/milk9111/mazehorde/ecs/component"
	"github.com/milk9111/mazehorde/nav"
)

// PathfindingSystem replans chasing agents whose repath timer has run out.
// Agents in a ram phase or dead never replan.
type PathfindingSystem struct{}

func NewPathfindingSystem() *PathfindingSystem {
	return &PathfindingSystem{}
}

func (ps *PathfindingSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	dt := w.Frame().DT
	w.ForEachAgent(func(e ecs.Entity, a *component.Agent) {
		if a.Health.Dead || a.AI.Mode != component.ModeChase || !a.AI.Entered {
			return
		}
		a.Path.RepathTimer -= dt
		if a.Path.RepathTimer > 0 {
			return
		}
		Replan(w, e, a)
	})
}

// Replan searches from the agent's cell to the walkable cell nearest the
// player. An agent already standing in the goal cell gets an exhausted
// one-cell path so it heads straight for the player; an unreachable goal
// leaves the path empty and the agent wanders.
func Replan(w *ecs.World, e ecs.Entity, a *component.Agent) {
	t := w.Tuning()
	a.Path.RepathTimer = t.RepathInterval
	a.Path.Clear()

	grid := w.Grid()
	goal, ok := grid.NearestWalkable(w.Player().Position)
	if !ok {
		return
	}
	a.Path.Goal = goal
	start := a.Cell
	if start == goal {
		a.Path.Path = append(a.Path.Path, start)
		a.Path.Cursor = 1
		return
	}

	path := nav.FindPath(grid, start, goal)
	if path == nil {
		w.Logger().Debug("unreachable", "system", "pathfinding", "entity", e, "from", start, "to", goal)
		return
	}
	a.Path.Path = append(a.Path.Path, path...)
	a.Path.Cursor = 1
}
