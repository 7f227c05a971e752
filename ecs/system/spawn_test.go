package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/ecs"
	"github.com/milk9111/mazehorde/ecs/component"
	"github.com/milk9111/mazehorde/nav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureQuotaRespectsDistances(t *testing.T) {
	w := newTestWorld(openRoom(30, 30, 1), func(tn *component.Tuning) {
		tn.Population = 12
	})
	player := cp.Vector{X: 15, Y: 15}
	w.Player().Position = player

	spawned := EnsureQuota(w)
	assert.Equal(t, 12, spawned)
	assert.Equal(t, 12, w.AgentCount())

	tn := w.Tuning()
	agents := w.Agents().Values()
	for i := range agents {
		assert.GreaterOrEqual(t, agents[i].Position.Distance(player), tn.SpawnMinPlayerDistance)
		assert.True(t, w.Grid().Walkable(agents[i].Cell))
		assert.Equal(t, w.Grid().CellToWorld(agents[i].Cell), agents[i].Position)
		assert.Equal(t, tn.MaxHP, agents[i].Health.Current)
		for j := i + 1; j < len(agents); j++ {
			assert.GreaterOrEqual(t, agents[i].Position.Distance(agents[j].Position), tn.SpawnMinAgentDistance)
		}
	}
	assert.Zero(t, EnsureQuota(w), "quota already met")
}

func TestEnsureQuotaStopsWhenSpaceRunsOut(t *testing.T) {
	// Only the two end cells are far enough from the player.
	g := nav.GridFromRows([]string{
		"###########",
		"#.........#",
		"###########",
	}, 1, cp.Vector{})
	w := newTestWorld(g, func(tn *component.Tuning) {
		tn.Population = 5
		tn.SpawnMinPlayerDistance = 4
		tn.SpawnMinAgentDistance = 1
		tn.SpawnAttempts = 50
	})
	w.Player().Position = cp.Vector{X: 5.5, Y: 1.5}

	spawned := EnsureQuota(w)
	assert.LessOrEqual(t, spawned, 2)
	assert.Equal(t, spawned, w.AgentCount())
	w.ForEachAgent(func(_ ecs.Entity, a *component.Agent) {
		assert.Contains(t, []nav.Cell{{X: 1, Y: 1}, {X: 9, Y: 1}}, a.Cell)
	})
}

func TestSpawnOneFailsWithoutSpace(t *testing.T) {
	g := nav.GridFromRows([]string{
		"#####",
		"#...#",
		"#####",
	}, 1, cp.Vector{})
	w := newTestWorld(g, nil)
	w.Player().Position = cp.Vector{X: 2.5, Y: 1.5}

	_, ok := SpawnOne(w)
	assert.False(t, ok)
	assert.Zero(t, w.AgentCount())

	empty := newTestWorld(nav.GridFromRows([]string{"###"}, 1, cp.Vector{}), nil)
	_, ok = SpawnOne(empty)
	assert.False(t, ok)
}

func TestResetPopulation(t *testing.T) {
	w := newTestWorld(openRoom(30, 30, 1), func(tn *component.Tuning) {
		tn.Population = 6
	})
	w.Player().Position = cp.Vector{X: 15, Y: 15}
	old := placeAgent(w, cp.Vector{X: 15.5, Y: 15.5})

	n := ResetPopulation(w)
	assert.Equal(t, 6, n)
	assert.Equal(t, 6, w.AgentCount())
	assert.False(t, w.IsAlive(old))

	events := w.Events().Drain()
	spawnedEvents := 0
	for _, ev := range events {
		if ev.Kind == ecs.EventAgentSpawned {
			spawnedEvents++
		}
	}
	assert.Equal(t, 7, spawnedEvents)
}

func TestSpawnAtRejectsWalls(t *testing.T) {
	w := newTestWorld(openRoom(5, 5, 1), nil)
	_, ok := SpawnAt(w, nav.Cell{X: 0, Y: 0})
	assert.False(t, ok)
	e, ok := SpawnAt(w, nav.Cell{X: 2, Y: 2})
	require.True(t, ok)
	a, _ := w.Agent(e)
	assert.Equal(t, cp.Vector{X: 2.5, Y: 2.5}, a.Position)
	assert.Equal(t, w.Tuning().AgentElevation, a.Elevation)
}

func TestSpawnSkipsSealedPockets(t *testing.T) {
	g := nav.GridFromRows([]string{
		"##########",
		"#....#...#",
		"#....#...#",
		"##########",
	}, 1, cp.Vector{})
	w := newTestWorld(g, func(tn *component.Tuning) {
		tn.Population = 20
		tn.SpawnMinPlayerDistance = 0
		tn.SpawnMinAgentDistance = 0.5
		tn.SpawnAttempts = 200
	})
	w.Player().Position = cp.Vector{X: 1.5, Y: 1.5}

	spawned := EnsureQuota(w)
	require.Positive(t, spawned)
	assert.LessOrEqual(t, spawned, 8)
	w.ForEachAgent(func(_ ecs.Entity, a *component.Agent) {
		assert.Less(t, a.Cell.X, 5, "spawned in the sealed room at %v", a.Cell)
	})
}
