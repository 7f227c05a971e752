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

// runAIUntil ticks only the state machine, so the agent never moves.
func runAIUntil(t *testing.T, w *ecs.World, ai *AISystem, e ecs.Entity, maxTicks int, stop func(a *component.Agent) bool) []component.Mode {
	t.Helper()
	a, ok := w.Agent(e)
	require.True(t, ok)
	modes := []component.Mode{a.AI.Mode}
	for i := 0; i < maxTicks; i++ {
		ai.Update(w)
		a, _ = w.Agent(e)
		if a.AI.Mode != modes[len(modes)-1] {
			modes = append(modes, a.AI.Mode)
		}
		if stop(a) {
			return modes
		}
	}
	t.Fatalf("stop condition not reached in %d ticks, modes=%v", maxTicks, modes)
	return nil
}

func TestRamHitsAtMostOncePerCharge(t *testing.T) {
	w := newTestWorld(openRoom(11, 11, 1), nil)
	w.SetFrame(frame(testDT))
	w.Player().Position = cp.Vector{X: 5.5, Y: 5.5}
	hits := recordDamage(w)
	e := placeAgent(w, cp.Vector{X: 6.5, Y: 5.5})
	ai := NewAISystem(nil, nil)

	modes := runAIUntil(t, w, ai, e, 400, func(a *component.Agent) bool {
		return a.AI.Mode == component.ModeRamBackoff
	})
	assert.Equal(t, []component.Mode{
		component.ModeChase,
		component.ModeRamWindup,
		component.ModeRamCharge,
		component.ModeRamBackoff,
	}, modes)
	assert.Equal(t, 1, hits.count(component.DamageRam))
	assert.Equal(t, w.Tuning().RamDamage, hits.total[component.DamageRam])

	// Cooldown expires with the player still close, so the next charge may
	// hit exactly once more.
	modes = runAIUntil(t, w, ai, e, 400, func(a *component.Agent) bool {
		return a.AI.Mode == component.ModeRamBackoff
	})
	assert.Equal(t, []component.Mode{
		component.ModeRamBackoff,
		component.ModeRamCooldown,
		component.ModeRamWindup,
		component.ModeRamCharge,
		component.ModeRamBackoff,
	}, modes)
	assert.Equal(t, 2, hits.count(component.DamageRam))
}

func TestRamHitGating(t *testing.T) {
	cases := []struct {
		name      string
		elevation float64
		canDeal   bool
		distance  float64
	}{
		{"airborne", 2, true, 1},
		{"damage_disabled", 0, false, 1},
		{"out_of_hit_radius", 0, true, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(openRoom(11, 11, 1), nil)
			w.SetFrame(ecs.Frame{DT: testDT, CanDealDamage: c.canDeal})
			w.Player().Position = cp.Vector{X: 5.5, Y: 5.5}
			w.Player().Elevation = c.elevation
			hits := recordDamage(w)
			e := placeAgent(w, cp.Vector{X: 5.5 + c.distance, Y: 5.5})

			runAIUntil(t, w, NewAISystem(nil, nil), e, 400, func(a *component.Agent) bool {
				return a.AI.Mode == component.ModeRamBackoff
			})
			assert.Zero(t, hits.count(component.DamageRam))
		})
	}
}

func TestCooldownReturnsToChaseWhenPlayerLeft(t *testing.T) {
	w := newTestWorld(openRoom(20, 20, 1), nil)
	w.SetFrame(frame(testDT))
	w.Player().Position = cp.Vector{X: 5.5, Y: 5.5}
	e := placeAgent(w, cp.Vector{X: 6.5, Y: 5.5})
	ai := NewAISystem(nil, nil)

	runAIUntil(t, w, ai, e, 400, func(a *component.Agent) bool {
		return a.AI.Mode == component.ModeRamCooldown
	})
	w.Player().Position = cp.Vector{X: 15.5, Y: 15.5}
	modes := runAIUntil(t, w, ai, e, 400, func(a *component.Agent) bool {
		return a.AI.Mode == component.ModeChase
	})
	assert.Equal(t, []component.Mode{component.ModeRamCooldown, component.ModeChase}, modes)

	a, _ := w.Agent(e)
	assert.False(t, a.AI.RamHasHit)
	assert.True(t, a.Path.HasPath(), "entering chase replans")
}

func TestChaseFollowsPath(t *testing.T) {
	w := newTestWorld(openRoom(12, 5, 1), nil)
	w.SetFrame(frame(testDT))
	w.Player().Position = cp.Vector{X: 9.5, Y: 2.5}
	e := placeAgent(w, cp.Vector{X: 1.5, Y: 2.5})

	NewAISystem(nil, nil).Update(w)

	a, _ := w.Agent(e)
	assert.Equal(t, component.ModeChase, a.AI.Mode)
	require.True(t, a.Path.HasPath())
	assert.Equal(t, nav.Cell{X: 1, Y: 2}, a.Path.Path[0])
	assert.Equal(t, nav.Cell{X: 9, Y: 2}, a.Path.Path[len(a.Path.Path)-1])
	assert.Equal(t, w.Tuning().ChaseSpeed, a.Intent.Speed)
	assert.InDelta(t, 1, a.Intent.Direction.X, 1e-9)
}

func TestChaseWandersWithoutPath(t *testing.T) {
	g := nav.GridFromRows([]string{
		"#########",
		"#...#...#",
		"#########",
	}, 1, cp.Vector{})
	w := newTestWorld(g, nil)
	w.SetFrame(frame(testDT))
	w.Player().Position = cp.Vector{X: 7.5, Y: 1.5}
	e := placeAgent(w, cp.Vector{X: 1.5, Y: 1.5})

	NewAISystem(nil, nil).Update(w)

	a, _ := w.Agent(e)
	assert.Equal(t, component.ModeChase, a.AI.Mode)
	assert.Empty(t, a.Path.Path)
	assert.Equal(t, w.Tuning().WanderSpeed, a.Intent.Speed)
	assert.InDelta(t, 1, a.Intent.Direction.Length(), 1e-9)
	assert.Greater(t, a.Wander.Timer, 0.0)
	assert.LessOrEqual(t, a.Wander.Timer, w.Tuning().WanderIntervalMax)
}

func TestDeadAgentsAreInert(t *testing.T) {
	w := newTestWorld(openRoom(11, 11, 1), nil)
	w.SetFrame(frame(testDT))
	w.Player().Position = cp.Vector{X: 5.5, Y: 5.5}
	hits := recordDamage(w)
	e := placeAgent(w, cp.Vector{X: 6.5, Y: 5.5})
	a, _ := w.Agent(e)
	a.Health.ApplyDamage(1000, 0, 5)

	ai := NewAISystem(nil, nil)
	for i := 0; i < 120; i++ {
		ai.Update(w)
	}
	a, _ = w.Agent(e)
	assert.Equal(t, component.ModeChase, a.AI.Mode)
	assert.False(t, a.AI.Entered)
	assert.Zero(t, a.Intent.Speed)
	assert.Empty(t, hits.calls)
}

func TestCompileFSM(t *testing.T) {
	raw := RawFSM{
		Initial: "chase",
		States: map[string]RawState{
			"chase":      {While: []map[string]any{{"chase": nil}}},
			"ram_windup": {OnEnter: []map[string]any{{"start_timer": 0.5}}, While: []map[string]any{{"tick_timer": nil}}},
		},
		Transitions: map[string][]map[string]any{
			"chase":      {{"player_within": map[string]any{"to": "ram_windup", "arg": 2.0}}},
			"ram_windup": {{"timer_expired": "chase"}},
		},
	}
	fsm, err := CompileFSM(raw)
	require.NoError(t, err)
	assert.Equal(t, component.ModeChase, fsm.Initial)
	require.Len(t, fsm.Checkers, 2)
	assert.Equal(t, component.ModeChase, fsm.Checkers[0].From)
	assert.Equal(t, component.ModeRamWindup, fsm.Checkers[0].To)

	ctx := &AIActionContext{Agent: &component.Agent{}, Tuning: &component.Tuning{}, Distance: 1.5}
	assert.True(t, fsm.Checkers[0].Check(ctx))
	ctx.Distance = 2.5
	assert.False(t, fsm.Checkers[0].Check(ctx))

	bad := []struct {
		name string
		raw  RawFSM
	}{
		{"missing_initial", RawFSM{}},
		{"unknown_mode", RawFSM{Initial: "sleep", States: map[string]RawState{"sleep": {}}}},
		{"unknown_action", RawFSM{Initial: "chase", States: map[string]RawState{"chase": {While: []map[string]any{{"dance": nil}}}}}},
		{"unknown_transition", RawFSM{
			Initial:     "chase",
			States:      map[string]RawState{"chase": {}},
			Transitions: map[string][]map[string]any{"chase": {{"bored": "ram_windup"}}},
		}},
		{"missing_to", RawFSM{
			Initial:     "chase",
			States:      map[string]RawState{"chase": {}},
			Transitions: map[string][]map[string]any{"chase": {{"always": map[string]any{"arg": 1}}}},
		}},
		{"undefined_initial", RawFSM{Initial: "ram_charge", States: map[string]RawState{"chase": {}}}},
		{"undefined_target", RawFSM{
			Initial:     "chase",
			States:      map[string]RawState{"chase": {}},
			Transitions: map[string][]map[string]any{"chase": {{"always": "ram_charge"}}},
		}},
	}
	for _, c := range bad {
		t.Run(c.name, func(t *testing.T) {
			_, err := CompileFSM(c.raw)
			assert.Error(t, err)
		})
	}
}

func TestSwappedFSMRestartsDroppedModes(t *testing.T) {
	w := newTestWorld(openRoom(21, 21, 1), nil)
	w.SetFrame(frame(testDT))
	w.Player().Position = cp.Vector{X: 15.5, Y: 10.5}
	e := placeAgent(w, cp.Vector{X: 5.5, Y: 10.5})
	ai := NewAISystem(nil, nil)
	ai.Update(w)

	a, _ := w.Agent(e)
	a.AI.Mode = component.ModeRamCharge
	a.AI.Timer = 0.2
	a.Intent = component.Steering{}

	chaseOnly, err := CompileFSM(RawFSM{
		Initial: "chase",
		States: map[string]RawState{
			"chase": {OnEnter: []map[string]any{{"replan": nil}}, While: []map[string]any{{"chase": nil}}},
		},
	})
	require.NoError(t, err)
	ai.SetFSM(chaseOnly)
	ai.Update(w)

	a, _ = w.Agent(e)
	assert.Equal(t, component.ModeChase, a.AI.Mode)
	assert.True(t, a.AI.Entered)
	assert.Positive(t, a.Intent.Speed, "agent moves again after the swap")
}
