package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/common"
)

// wallPasses bounds how often ResolveWalls sweeps the box list. Merged wall
// boxes meet at corners, so one push can land a circle in a neighbour.
const wallPasses = 4

func closestPointOnBox(p cp.Vector, bb cp.BB) cp.Vector {
	return cp.Vector{
		X: common.Clamp(p.X, bb.L, bb.R),
		Y: common.Clamp(p.Y, bb.B, bb.T),
	}
}

func boxCenter(bb cp.BB) cp.Vector {
	return cp.Vector{X: (bb.L + bb.R) * 0.5, Y: (bb.B + bb.T) * 0.5}
}

// ResolveWalls moves a circle of radius r at p out of every overlapping box by
// the minimal translation. A centre inside a box leaves through the nearest
// face.
func ResolveWalls(p cp.Vector, r float64, walls []cp.BB) cp.Vector {
	for pass := 0; pass < wallPasses; pass++ {
		moved := false
		for _, bb := range walls {
			q := closestPointOnBox(p, bb)
			d := p.Sub(q)
			distSq := d.LengthSq()
			if distSq >= r*r {
				continue
			}
			dist := math.Sqrt(distSq)
			if dist > common.Epsilon {
				p = q.Add(d.Mult(r / dist))
			} else {
				p = pushThroughNearestFace(p, r, bb)
			}
			moved = true
		}
		if !moved {
			break
		}
	}
	return p
}

func pushThroughNearestFace(p cp.Vector, r float64, bb cp.BB) cp.Vector {
	left := p.X - bb.L
	right := bb.R - p.X
	bottom := p.Y - bb.B
	top := bb.T - p.Y

	best := left
	out := cp.Vector{X: bb.L - r, Y: p.Y}
	if right < best {
		best = right
		out = cp.Vector{X: bb.R + r, Y: p.Y}
	}
	if bottom < best {
		best = bottom
		out = cp.Vector{X: p.X, Y: bb.B - r}
	}
	if top < best {
		out = cp.Vector{X: p.X, Y: bb.T + r}
	}
	return out
}

// WallClearance returns the distance from p to the nearest box surface, zero
// when p is inside a box.
func WallClearance(p cp.Vector, walls []cp.BB) float64 {
	best := math.Inf(1)
	for _, bb := range walls {
		d := p.Distance(closestPointOnBox(p, bb))
		if d < best {
			best = d
		}
	}
	return best
}

// avoidWalls bends dir away from walls near a feeler cast ahead of p. It
// returns false when the push cancels the desired direction.
func avoidWalls(p, dir cp.Vector, radius, feelerLength, strength float64, walls []cp.BB) (cp.Vector, bool) {
	feeler := p.Add(dir.Mult(feelerLength))
	push := cp.Vector{}
	for _, bb := range walls {
		q := closestPointOnBox(feeler, bb)
		d := feeler.Sub(q)
		dist := d.Length()
		if dist >= radius {
			continue
		}
		if dist > common.Epsilon {
			push = push.Add(d.Mult((radius - dist) / (radius * dist)))
			continue
		}
		away, ok := common.SafeNormalize(feeler.Sub(boxCenter(bb)))
		if !ok {
			continue
		}
		push = push.Add(away)
	}
	return common.SafeNormalize(dir.Add(push.Mult(strength)))
}
