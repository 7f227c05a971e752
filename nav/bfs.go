package nav

// neighborOffsets is the fixed expansion order: +x, -x, +y, -y. Ties between
// equally short paths are broken by this order.
var neighborOffsets = [4]Cell{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}

// FindPath runs a breadth-first search on a 4-way grid and returns the cells
// from start to goal inclusive. It returns nil when start equals goal, when
// either endpoint is out of bounds or blocked, or when goal is unreachable.
func FindPath(g *Grid, start, goal Cell) []Cell {
	if g == nil || g.Width <= 0 || g.Height <= 0 {
		return nil
	}
	if start == goal {
		return nil
	}
	if !g.Walkable(start) || !g.Walkable(goal) {
		return nil
	}

	w := g.Width
	startIdx := start.Y*w + start.X
	goalIdx := goal.Y*w + goal.X

	cameFrom := make([]int32, w*g.Height)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	cameFrom[startIdx] = int32(startIdx)

	queue := make([]int32, 0, 64)
	queue = append(queue, int32(startIdx))
	for head := 0; head < len(queue); head++ {
		cur := int(queue[head])
		if cur == goalIdx {
			return reconstructPath(cameFrom, w, startIdx, goalIdx)
		}
		cx, cy := cur%w, cur/w
		for _, d := range neighborOffsets {
			n := Cell{X: cx + d.X, Y: cy + d.Y}
			if !g.Walkable(n) {
				continue
			}
			idx := n.Y*w + n.X
			if cameFrom[idx] != -1 {
				continue
			}
			cameFrom[idx] = int32(cur)
			queue = append(queue, int32(idx))
		}
	}
	return nil
}

func reconstructPath(cameFrom []int32, w, startIdx, goalIdx int) []Cell {
	path := make([]Cell, 0, 32)
	cur := goalIdx
	for {
		path = append(path, Cell{X: cur % w, Y: cur / w})
		if cur == startIdx {
			break
		}
		cur = int(cameFrom[cur])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// DistanceField returns the BFS step count from origin to every cell, -1 for
// unreachable or blocked cells. Spawning uses it to skip sealed pockets.
func DistanceField(g *Grid, origin Cell) []int {
	if g == nil {
		return nil
	}
	dist := make([]int, g.Width*g.Height)
	for i := range dist {
		dist[i] = -1
	}
	if !g.Walkable(origin) {
		return dist
	}
	w := g.Width
	dist[origin.Y*w+origin.X] = 0
	queue := []Cell{origin}
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, d := range neighborOffsets {
			n := Cell{X: cur.X + d.X, Y: cur.Y + d.Y}
			if !g.Walkable(n) || dist[n.Y*w+n.X] != -1 {
				continue
			}
			dist[n.Y*w+n.X] = dist[cur.Y*w+cur.X] + 1
			queue = append(queue, n)
		}
	}
	return dist
}
