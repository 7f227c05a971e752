package nav

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridWorldMapping(t *testing.T) {
	g := NewGrid(4, 3, 2, cp.Vector{X: 10, Y: -4})

	cases := []struct {
		name string
		p    cp.Vector
		want Cell
	}{
		{"origin_corner", cp.Vector{X: 10, Y: -4}, Cell{0, 0}},
		{"inside_second", cp.Vector{X: 12.5, Y: -1.5}, Cell{1, 1}},
		{"clamped_low", cp.Vector{X: -100, Y: -100}, Cell{0, 0}},
		{"clamped_high", cp.Vector{X: 100, Y: 100}, Cell{3, 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, g.WorldToCell(c.p))
		})
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := Cell{x, y}
			assert.Equal(t, c, g.WorldToCell(g.CellToWorld(c)))
		}
	}
	assert.Equal(t, cp.Vector{X: 11, Y: -3}, g.CellToWorld(Cell{0, 0}))
}

func TestGridFromRowsWalkable(t *testing.T) {
	g := GridFromRows([]string{
		"#.#",
		"..",
	}, 1, cp.Vector{})
	assert.Equal(t, 3, g.Width)
	assert.Equal(t, 2, g.Height)
	assert.False(t, g.Walkable(Cell{0, 0}))
	assert.True(t, g.Walkable(Cell{1, 0}))
	assert.True(t, g.Walkable(Cell{0, 1}))
	assert.False(t, g.Walkable(Cell{2, 1}), "short rows pad with walls")
	assert.False(t, g.Walkable(Cell{-1, 0}))
	assert.Equal(t, []Cell{{1, 0}, {0, 1}, {1, 1}}, g.WalkableCells())

	g.SetWalkable(Cell{2, 1}, true)
	assert.Len(t, g.WalkableCells(), 4)
}

func TestNearestWalkable(t *testing.T) {
	g := GridFromRows([]string{
		"#####",
		"#...#",
		"#####",
	}, 1, cp.Vector{})

	c, ok := g.NearestWalkable(cp.Vector{X: 2.5, Y: 1.5})
	require.True(t, ok)
	assert.Equal(t, Cell{2, 1}, c)

	// Inside the top wall above cell (3,1).
	c, ok = g.NearestWalkable(cp.Vector{X: 3.4, Y: 0.2})
	require.True(t, ok)
	assert.Equal(t, Cell{3, 1}, c)

	// Far corner wall picks the closest open centre.
	c, ok = g.NearestWalkable(cp.Vector{X: 0.1, Y: 0.1})
	require.True(t, ok)
	assert.Equal(t, Cell{1, 1}, c)

	_, ok = GridFromRows([]string{"###"}, 1, cp.Vector{}).NearestWalkable(cp.Vector{})
	assert.False(t, ok)
}

func TestNearestWalkableMatchesBruteForce(t *testing.T) {
	g := GridFromRows(testMaze, 1.5, cp.Vector{X: -3, Y: 2})
	for i := 0; i < 400; i++ {
		p := cp.Vector{
			X: g.Origin.X + math.Mod(float64(i)*0.731, float64(g.Width)*g.CellSize),
			Y: g.Origin.Y + math.Mod(float64(i)*1.379, float64(g.Height)*g.CellSize),
		}
		got, ok := g.NearestWalkable(p)
		require.True(t, ok)
		if g.Walkable(g.WorldToCell(p)) {
			assert.Equal(t, g.WorldToCell(p), got)
			continue
		}
		best := math.Inf(1)
		for _, c := range g.WalkableCells() {
			best = math.Min(best, g.CellToWorld(c).DistanceSq(p))
		}
		assert.InDelta(t, best, g.CellToWorld(got).DistanceSq(p), 1e-9, "point %v", p)
	}
}

func TestWallBoxesMergeRuns(t *testing.T) {
	g := GridFromRows([]string{
		"###",
		"#.#",
	}, 2, cp.Vector{})
	boxes := g.WallBoxes()
	require.Len(t, boxes, 3)
	assert.Equal(t, cp.BB{L: 0, B: 0, R: 6, T: 2}, boxes[0])
	assert.Equal(t, cp.BB{L: 0, B: 2, R: 2, T: 4}, boxes[1])
	assert.Equal(t, cp.BB{L: 4, B: 2, R: 6, T: 4}, boxes[2])
}
