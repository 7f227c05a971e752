package system

import (
	"math"

	"github.com/milk9111/mazehorde/ecs"
	"github.com/milk9111/mazehorde/ecs/component"
	"github.com/milk9111/mazehorde/nav"
)

// SpawnSystem keeps the population at its quota. Dying agents count toward
// the quota until they are pruned.
type SpawnSystem struct{}

func NewSpawnSystem() *SpawnSystem {
	return &SpawnSystem{}
}

func (s *SpawnSystem) Update(w *ecs.World) {
	EnsureQuota(w)
}

// SpawnOne tries up to SpawnAttempts random walkable cells and places an
// agent on the first one the player can be reached from, far enough from the
// player and from every existing agent. It fails silently when the budget
// runs out.
func SpawnOne(w *ecs.World) (ecs.Entity, bool) {
	if w == nil {
		return 0, false
	}
	t := w.Tuning()
	grid := w.Grid()
	cells := grid.WalkableCells()
	if len(cells) == 0 {
		return 0, false
	}
	rng := w.Rand()
	player := w.Player().Position
	minPlayerSq := t.SpawnMinPlayerDistance * t.SpawnMinPlayerDistance
	minAgentSq := t.SpawnMinAgentDistance * t.SpawnMinAgentDistance
	reach := reachableFromPlayer(w)

	for attempt := 0; attempt < t.SpawnAttempts; attempt++ {
		cell := cells[rng.Intn(len(cells))]
		if reach != nil && reach[cell.Y*grid.Width+cell.X] < 0 {
			continue
		}
		p := grid.CellToWorld(cell)
		if p.DistanceSq(player) < minPlayerSq {
			continue
		}
		crowded := false
		for _, other := range w.Agents().Values() {
			if other.Position.DistanceSq(p) < minAgentSq {
				crowded = true
				break
			}
		}
		if crowded {
			continue
		}
		return SpawnAt(w, cell)
	}
	w.Logger().Debug("spawn failed", "system", "spawn", "attempts", t.SpawnAttempts, "population", w.AgentCount())
	return 0, false
}

// reachableFromPlayer is the step field from the floor cell nearest the
// player. Sealed pockets read -1. It is nil when the grid has no floor.
func reachableFromPlayer(w *ecs.World) []int {
	grid := w.Grid()
	c, ok := grid.NearestWalkable(w.Player().Position)
	if !ok {
		return nil
	}
	return nav.DistanceField(grid, c)
}

// SpawnAt places an agent at the centre of cell without distance checks.
func SpawnAt(w *ecs.World, cell nav.Cell) (ecs.Entity, bool) {
	grid := w.Grid()
	if !grid.Walkable(cell) {
		return 0, false
	}
	seed := w.Rand().Float64() * 2 * math.Pi
	a := component.NewAgent(grid, cell, *w.Tuning(), seed)
	a.Facing = seed
	e := w.CreateAgent(a)
	w.Emit(ecs.Event{Kind: ecs.EventAgentSpawned, Entity: e, Position: a.Position})
	w.Logger().Debug("spawned", "system", "spawn", "entity", e, "cell", cell)
	return e, true
}

// EnsureQuota spawns until the population reaches its target, stopping at the
// first failed spawn. It returns how many agents were added.
func EnsureQuota(w *ecs.World) int {
	if w == nil {
		return 0
	}
	target := w.Tuning().Population
	spawned := 0
	for w.AgentCount() < target {
		if _, ok := SpawnOne(w); !ok {
			break
		}
		spawned++
	}
	return spawned
}

// ResetPopulation clears every agent and makes exactly Population spawn
// attempts, ignoring failures.
func ResetPopulation(w *ecs.World) int {
	if w == nil {
		return 0
	}
	w.Clear()
	spawned := 0
	for i := 0; i < w.Tuning().Population; i++ {
		if _, ok := SpawnOne(w); ok {
			spawned++
		}
	}
	return spawned
}
