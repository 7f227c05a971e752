package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/common"
	"github.com/milk9111/mazehorde/ecs"
	"github.com/milk9111/mazehorde/ecs/component"
)

// ClusterRepulsionSystem relaxes overlap between living agents, keeps them out
// of the player's bubble and resyncs their grid cells.
//
// Each iteration snapshots positions, pushes every overlapping pair apart by
// half the penetration each, then corrects against walls. An isolated chain
// keeps at most overlap/2^SeparationIterations after one tick. Agents queued
// in a corridor behind walls or the player bubble can keep more, about 0.3 of
// the minimum distance in dense runs, which later ticks work off.
type ClusterRepulsionSystem struct {
	idx      []int
	snapshot []cp.Vector
	pushes   []cp.Vector
}

func NewClusterRepulsionSystem() *ClusterRepulsionSystem {
	return &ClusterRepulsionSystem{}
}

func (cr *ClusterRepulsionSystem) Update(w *ecs.World) {
	if cr == nil || w == nil {
		return
	}
	t := w.Tuning()
	walls := w.Walls()
	agents := w.Agents().Values()

	cr.idx = cr.idx[:0]
	for i := range agents {
		if !agents[i].Health.Dead {
			cr.idx = append(cr.idx, i)
		}
	}

	minDist := 2 * t.AgentRadius
	for iter := 0; iter < t.SeparationIterations; iter++ {
		if !cr.relax(agents, minDist) {
			break
		}
		for _, i := range cr.idx {
			agents[i].Position = ResolveWalls(agents[i].Position, t.AgentRadius, walls)
		}
	}

	player := w.Player().Position
	grid := w.Grid()
	for _, i := range cr.idx {
		a := &agents[i]
		a.Position = settleOutsideBubble(a, player, t.PlayerBubble, t.AgentRadius, walls)
		if c, ok := grid.NearestWalkable(a.Position); ok {
			a.Cell = c
		}
	}
}

// relax runs one snapshot pass and reports whether anything moved.
func (cr *ClusterRepulsionSystem) relax(agents []component.Agent, minDist float64) bool {
	n := len(cr.idx)
	if n < 2 {
		return false
	}
	cr.snapshot = cr.snapshot[:0]
	cr.pushes = cr.pushes[:0]
	for _, i := range cr.idx {
		cr.snapshot = append(cr.snapshot, agents[i].Position)
		cr.pushes = append(cr.pushes, cp.Vector{})
	}

	moved := false
	minSq := minDist * minDist
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := cr.snapshot[i].Sub(cr.snapshot[j])
			distSq := d.LengthSq()
			if distSq >= minSq {
				continue
			}
			axis, ok := common.SafeNormalize(d)
			if !ok {
				axis = coincidentAxis(&agents[cr.idx[i]], &agents[cr.idx[j]])
			}
			half := axis.Mult((minDist - d.Length()) * 0.5)
			cr.pushes[i] = cr.pushes[i].Add(half)
			cr.pushes[j] = cr.pushes[j].Sub(half)
			moved = true
		}
	}
	if !moved {
		return false
	}
	for k, i := range cr.idx {
		agents[i].Position = cr.snapshot[k].Add(cr.pushes[k])
	}
	return true
}

// coincidentAxis splits two agents sharing a position using their seeds.
func coincidentAxis(a, b *component.Agent) cp.Vector {
	if axis, ok := common.SafeNormalize(a.SeedDirection().Sub(b.SeedDirection())); ok {
		return axis
	}
	return a.SeedDirection()
}

func keepOutOfBubble(a *component.Agent, player cp.Vector, bubble float64) cp.Vector {
	d := a.Position.Sub(player)
	if d.LengthSq() >= bubble*bubble {
		return a.Position
	}
	axis, ok := common.SafeNormalize(d)
	if !ok {
		axis = a.SeedDirection()
	}
	return player.Add(axis.Mult(bubble + common.Epsilon))
}

// bubbleSamples is how many points on the bubble circle are tried when the
// direct push ends in a wall.
const bubbleSamples = 48

// settleOutsideBubble pushes a out of the bubble along the player axis and
// then out of the walls. If the wall push lands back inside the bubble, the
// agent moves to the closest wall-free point on the bubble circle that the
// player can see. Only a bubble with no such point leaves the agent inside.
func settleOutsideBubble(a *component.Agent, player cp.Vector, bubble, radius float64, walls []cp.BB) cp.Vector {
	p := ResolveWalls(keepOutOfBubble(a, player, bubble), radius, walls)
	if outsideBubble(p, player, bubble) {
		return p
	}

	best, bestDist := p, math.Inf(1)
	for k := 0; k < bubbleSamples; k++ {
		dir := cp.ForAngle(2 * math.Pi * float64(k) / bubbleSamples)
		q := ResolveWalls(player.Add(dir.Mult(bubble+common.Epsilon)), radius, walls)
		if !outsideBubble(q, player, bubble) || WallClearance(q, walls) < radius-1e-6 {
			continue
		}
		if !clearLine(player, q, walls) {
			continue
		}
		if d := q.DistanceSq(a.Position); d < bestDist {
			best, bestDist = q, d
		}
	}
	return best
}

func outsideBubble(p, player cp.Vector, bubble float64) bool {
	return p.DistanceSq(player) >= bubble*bubble
}

// clearLine reports whether the segment from a to b misses every wall.
func clearLine(a, b cp.Vector, walls []cp.BB) bool {
	dir, ok := common.SafeNormalize(b.Sub(a))
	if !ok {
		return true
	}
	length := a.Distance(b)
	for _, bb := range walls {
		if t, hit := rayBox(a, dir, bb); hit && t < length {
			return false
		}
	}
	return true
}
