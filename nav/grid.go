package nav

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Cell is a discrete grid coordinate.
type Cell struct {
	X int
	Y int
}

// Grid is a static walkability matrix with an affine mapping to world space.
// Cell (0,0) covers [Origin, Origin+CellSize) on both axes.
type Grid struct {
	Width    int
	Height   int
	CellSize float64
	Origin   cp.Vector

	walkable []bool
	open     []Cell
}

// NewGrid creates a grid with every cell blocked.
func NewGrid(width, height int, cellSize float64, origin cp.Vector) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		Origin:   origin,
		walkable: make([]bool, width*height),
	}
}

// GridFromRows builds a grid from text rows where '#' marks a blocked cell and
// anything else is walkable. Short rows are padded with blocked cells.
func GridFromRows(rows []string, cellSize float64, origin cp.Vector) *Grid {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	g := NewGrid(width, len(rows), cellSize, origin)
	for y, r := range rows {
		for x := 0; x < len(r); x++ {
			if r[x] != '#' {
				g.walkable[y*width+x] = true
			}
		}
	}
	return g
}

func (g *Grid) InBounds(c Cell) bool {
	return g != nil && c.X >= 0 && c.Y >= 0 && c.X < g.Width && c.Y < g.Height
}

// Walkable reports whether c is inside the grid and open.
func (g *Grid) Walkable(c Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	return g.walkable[c.Y*g.Width+c.X]
}

// SetWalkable marks a cell open or blocked. It is meant for grid construction;
// the simulation treats the grid as immutable once handed over.
func (g *Grid) SetWalkable(c Cell, open bool) {
	if !g.InBounds(c) {
		return
	}
	g.walkable[c.Y*g.Width+c.X] = open
	g.open = nil
}

// WalkableCells returns every open cell in row-major order. The slice is
// cached and must not be modified.
func (g *Grid) WalkableCells() []Cell {
	if g == nil {
		return nil
	}
	if g.open != nil {
		return g.open
	}
	open := make([]Cell, 0, len(g.walkable))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.walkable[y*g.Width+x] {
				open = append(open, Cell{X: x, Y: y})
			}
		}
	}
	g.open = open
	return open
}

// CellToWorld returns the world-space centre of c.
func (g *Grid) CellToWorld(c Cell) cp.Vector {
	half := g.CellSize * 0.5
	return cp.Vector{
		X: g.Origin.X + float64(c.X)*g.CellSize + half,
		Y: g.Origin.Y + float64(c.Y)*g.CellSize + half,
	}
}

// WorldToCell returns the cell containing p, clamped into the grid bounds.
func (g *Grid) WorldToCell(p cp.Vector) Cell {
	cx := int(math.Floor((p.X - g.Origin.X) / g.CellSize))
	cy := int(math.Floor((p.Y - g.Origin.Y) / g.CellSize))
	if cx < 0 {
		cx = 0
	}
	if cy < 0 {
		cy = 0
	}
	if cx >= g.Width {
		cx = g.Width - 1
	}
	if cy >= g.Height {
		cy = g.Height - 1
	}
	return Cell{X: cx, Y: cy}
}

// NearestWalkable returns the walkable cell whose centre is closest to p. The
// containing cell wins when it is open. Returns false if nothing is walkable.
func (g *Grid) NearestWalkable(p cp.Vector) (Cell, bool) {
	if g == nil || g.Width == 0 || g.Height == 0 {
		return Cell{}, false
	}
	home := g.WorldToCell(p)
	if g.Walkable(home) {
		return home, true
	}

	maxRing := g.Width
	if g.Height > maxRing {
		maxRing = g.Height
	}

	best := Cell{}
	bestDist := math.Inf(1)
	found := false
	for ring := 1; ring <= maxRing; ring++ {
		for dy := -ring; dy <= ring; dy++ {
			for dx := -ring; dx <= ring; dx++ {
				if abs(dx) != ring && abs(dy) != ring {
					continue
				}
				c := Cell{X: home.X + dx, Y: home.Y + dy}
				if !g.Walkable(c) {
					continue
				}
				d := g.CellToWorld(c).DistanceSq(p)
				if d < bestDist {
					best, bestDist, found = c, d, true
				}
			}
		}
		// Cells on the next ring are at least this far from p.
		if found {
			edge := (float64(ring) + 0.5) * g.CellSize
			if edge*edge > bestDist {
				break
			}
		}
	}
	return best, found
}

// WallBoxes returns the blocked cells as world-space boxes, merging horizontal
// runs of blocked cells in each row.
func (g *Grid) WallBoxes() []cp.BB {
	if g == nil {
		return nil
	}
	boxes := make([]cp.BB, 0, g.Height)
	for y := 0; y < g.Height; y++ {
		x := 0
		for x < g.Width {
			if g.walkable[y*g.Width+x] {
				x++
				continue
			}
			start := x
			for x < g.Width && !g.walkable[y*g.Width+x] {
				x++
			}
			boxes = append(boxes, cp.BB{
				L: g.Origin.X + float64(start)*g.CellSize,
				B: g.Origin.Y + float64(y)*g.CellSize,
				R: g.Origin.X + float64(x)*g.CellSize,
				T: g.Origin.Y + float64(y+1)*g.CellSize,
			})
		}
	}
	return boxes
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
