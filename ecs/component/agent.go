package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/nav"
)

// Agent is one hostile. All of its components live together so the world can
// keep agents in a single dense arena.
type Agent struct {
	Transform
	Cell   nav.Cell
	Path   Pathfinding
	Wander Wander
	AI     AIState
	Intent Steering
	Health Health
	// SeparationSeed is a stable angle used only to split coincident agents.
	SeparationSeed float64
}

// NewAgent builds an agent standing at the centre of cell.
func NewAgent(g *nav.Grid, cell nav.Cell, t Tuning, seed float64) Agent {
	return Agent{
		Transform: Transform{
			Position:  g.CellToWorld(cell),
			Elevation: t.AgentElevation,
		},
		Cell:           cell,
		Health:         NewHealth(t.MaxHP),
		SeparationSeed: seed,
	}
}

// SeedDirection is the unit vector of SeparationSeed.
func (a *Agent) SeedDirection() cp.Vector {
	return cp.ForAngle(a.SeparationSeed)
}
