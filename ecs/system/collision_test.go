package system

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/ecs/component"
	"github.com/milk9111/mazehorde/nav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corridorMaze = []string{
	"#########",
	"#...#...#",
	"#.#.#.#.#",
	"#.#...#.#",
	"#.#####.#",
	"#.......#",
	"#########",
}

func TestResolveWallsClearance(t *testing.T) {
	g := nav.GridFromRows(corridorMaze, 1, cp.Vector{})
	walls := g.WallBoxes()
	const r = 0.45
	rng := rand.New(rand.NewSource(3))

	for _, c := range g.WalkableCells() {
		for i := 0; i < 25; i++ {
			p := cp.Vector{
				X: float64(c.X) + rng.Float64(),
				Y: float64(c.Y) + rng.Float64(),
			}
			got := ResolveWalls(p, r, walls)
			assert.GreaterOrEqual(t, WallClearance(got, walls), r-1e-6, "start %v ended at %v", p, got)
		}
	}
}

func TestResolveWallsCases(t *testing.T) {
	wall := []cp.BB{{L: 0, B: 0, R: 2, T: 2}}
	cases := []struct {
		name string
		p    cp.Vector
		want cp.Vector
	}{
		{"clear", cp.Vector{X: 3, Y: 1}, cp.Vector{X: 3, Y: 1}},
		{"touching_right_face", cp.Vector{X: 2.2, Y: 1}, cp.Vector{X: 2.5, Y: 1}},
		{"centre_inside_near_top", cp.Vector{X: 1, Y: 1.9}, cp.Vector{X: 1, Y: 2.5}},
		{"centre_inside_near_left", cp.Vector{X: 0.1, Y: 1}, cp.Vector{X: -0.5, Y: 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ResolveWalls(c.p, 0.5, wall)
			assert.InDelta(t, c.want.X, got.X, 1e-9)
			assert.InDelta(t, c.want.Y, got.Y, 1e-9)
		})
	}
}

func TestAvoidWalls(t *testing.T) {
	t.Run("open_space_keeps_direction", func(t *testing.T) {
		got, ok := avoidWalls(cp.Vector{}, cp.Vector{X: 1}, 0.5, 0.8, 1.5, nil)
		require.True(t, ok)
		assert.Equal(t, cp.Vector{X: 1}, got)
	})

	t.Run("bends_away_from_side_wall", func(t *testing.T) {
		dir := cp.Vector{X: 1, Y: 1}.Mult(1 / math.Sqrt2)
		walls := []cp.BB{{L: 0.9, B: -5, R: 2, T: 5}}
		got, ok := avoidWalls(cp.Vector{}, dir, 0.5, 0.8, 1.5, walls)
		require.True(t, ok)
		assert.Less(t, got.X, dir.X)
		assert.InDelta(t, 1, got.Length(), 1e-9)
	})

	t.Run("cancelled_movement_stops", func(t *testing.T) {
		walls := []cp.BB{{L: 1, B: -1, R: 2, T: 1}}
		_, ok := avoidWalls(cp.Vector{}, cp.Vector{X: 1}, 0.5, 0.75, 2, walls)
		assert.False(t, ok)
	})
}

func TestSteeringSystem(t *testing.T) {
	g := openRoom(8, 8, 1)
	w := newTestWorld(g, nil)
	w.SetFrame(frame(testDT))

	mover := placeAgent(w, cp.Vector{X: 4, Y: 4})
	corpse := placeAgent(w, cp.Vector{X: 2.5, Y: 2.5})
	drifted := placeAgent(w, cp.Vector{X: 6.8, Y: 3.5})

	a, _ := w.Agent(mover)
	a.Intent = component.Steering{Direction: cp.Vector{X: 0, Y: 2}, Speed: 3}
	c, _ := w.Agent(corpse)
	c.Health.ApplyDamage(1000, 0, 1)
	c.Intent = component.Steering{Direction: cp.Vector{X: 1}, Speed: 3}

	NewSteeringSystem().Update(w)

	a, _ = w.Agent(mover)
	assert.InDelta(t, 4, a.Position.X, 1e-9)
	assert.InDelta(t, 4+3*testDT, a.Position.Y, 1e-9)

	c, _ = w.Agent(corpse)
	assert.Equal(t, cp.Vector{X: 2.5, Y: 2.5}, c.Position)

	d, _ := w.Agent(drifted)
	assert.InDelta(t, 7-w.Tuning().AgentRadius, d.Position.X, 1e-9, "idle agents still get wall correction")
}
