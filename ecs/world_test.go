package ecs

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/ecs/component"
	"github.com/milk9111/mazehorde/nav"
)

func newTestWorld() *World {
	g := nav.GridFromRows([]string{
		"#####",
		"#...#",
		"#...#",
		"#####",
	}, 1, cp.Vector{})
	w := NewWorld(g, nil, component.DefaultTuning(), 1)
	w.SetLogger(nil)
	return w
}

func agentAt(x float64) component.Agent {
	return component.Agent{Transform: component.Transform{Position: cp.Vector{X: x}}}
}

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateAgent(agentAt(float64(i))))
			}
			if w.AgentCount() != c.create {
				t.Fatalf("expected %d agents, got %d", c.create, w.AgentCount())
			}
			if c.destroyIndex >= 0 {
				if !w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("second DestroyEntity should be a no-op")
				}
				if w.AgentCount() != c.create-1 {
					t.Fatalf("expected %d agents after destroy, got %d", c.create-1, w.AgentCount())
				}
			}
			for i, e := range ents {
				if i == c.destroyIndex {
					continue
				}
				a, ok := w.Agent(e)
				if !ok {
					t.Fatalf("agent %d missing", i)
				}
				if a.Position.X != float64(i) {
					t.Fatalf("agent %d moved to %v after swap-remove", i, a.Position)
				}
			}
		})
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	w := newTestWorld()
	old := w.CreateAgent(agentAt(1))
	w.DestroyEntity(old)
	fresh := w.CreateAgent(agentAt(2))

	if old.id() != fresh.id() {
		t.Fatalf("expected slot reuse, got ids %d and %d", old.id(), fresh.id())
	}
	if old == fresh {
		t.Fatalf("reused slot must carry a new generation")
	}
	if _, ok := w.Agent(old); ok {
		t.Fatalf("stale handle resolved to the new agent")
	}
	a, ok := w.Agent(fresh)
	if !ok || a.Position.X != 2 {
		t.Fatalf("fresh handle should resolve, got %v ok=%v", a, ok)
	}
}

func TestWorldClearInvalidatesHandles(t *testing.T) {
	w := newTestWorld()
	a := w.CreateAgent(agentAt(1))
	b := w.CreateAgent(agentAt(2))
	w.Clear()

	if w.AgentCount() != 0 {
		t.Fatalf("expected empty world, got %d", w.AgentCount())
	}
	if w.IsAlive(a) || w.IsAlive(b) {
		t.Fatalf("handles must be stale after Clear")
	}
	c := w.CreateAgent(agentAt(3))
	if c == a || c == b {
		t.Fatalf("new handle %v collides with a cleared one", c)
	}
}

func TestSparseSetSwapRemove(t *testing.T) {
	var s SparseSet[int]
	e1 := makeEntity(1, 0)
	e2 := makeEntity(2, 0)
	e3 := makeEntity(3, 0)
	s.Set(e1, 10)
	s.Set(e2, 20)
	s.Set(e3, 30)

	if !s.Remove(e1) {
		t.Fatalf("remove should succeed")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 values, got %d", s.Len())
	}
	if s.Entities()[0] != e3 {
		t.Fatalf("last element should fill the hole, got %v", s.Entities())
	}
	if v, ok := s.Get(e3); !ok || *v != 30 {
		t.Fatalf("expected 30 for e3, got %v ok=%v", v, ok)
	}
	if s.Has(makeEntity(2, 1)) {
		t.Fatalf("different generation must not match")
	}

	s.Set(makeEntity(2, 1), 21)
	if s.Has(e2) {
		t.Fatalf("newer generation should replace the stale one")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 values after replace, got %d", s.Len())
	}
}

func TestForEachAgentOrder(t *testing.T) {
	w := newTestWorld()
	var want []Entity
	for i := 0; i < 4; i++ {
		want = append(want, w.CreateAgent(agentAt(float64(i))))
	}
	var got []Entity
	w.ForEachAgent(func(e Entity, _ *component.Agent) { got = append(got, e) })
	if len(got) != len(want) {
		t.Fatalf("expected %d agents, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch at %d: %v vs %v", i, got, want)
		}
	}
}

type countingSystem struct{ n int }

func (c *countingSystem) Update(*World) { c.n++ }

func TestSchedulerStages(t *testing.T) {
	cases := []struct {
		name       string
		dt         float64
		frozen     bool
		wantAlways int
		wantActive int
		wantDecay  int
	}{
		{"running", 0.016, false, 1, 1, 1},
		{"frozen", 0.016, true, 1, 0, 1},
		{"zero_dt", 0, false, 1, 0, 0},
		{"negative_dt", -1, false, 1, 0, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld()
			always, active, decay := &countingSystem{}, &countingSystem{}, &countingSystem{}
			s := NewScheduler()
			s.Add(StageAlways, always)
			s.Add(StageActive, active)
			s.Add(StageDecay, decay)
			s.Add(StageActive, nil)

			w.SetFrame(Frame{DT: c.dt})
			w.SetFrozen(c.frozen)
			s.Update(w)

			if always.n != c.wantAlways || active.n != c.wantActive || decay.n != c.wantDecay {
				t.Fatalf("got always=%d active=%d decay=%d", always.n, active.n, decay.n)
			}
			if len(s.Systems()) != 3 {
				t.Fatalf("nil system should not be scheduled")
			}
		})
	}
}

func TestDamagePlayerEmitsEvent(t *testing.T) {
	w := newTestWorld()
	var got float64
	var gotSrc component.DamageSource
	w.Player().OnDamage = func(amount float64, src component.DamageSource) {
		got += amount
		gotSrc = src
	}
	w.DamagePlayer(5, component.DamageRam, 0)
	w.DamagePlayer(0, component.DamageContact, 0)

	if got != 5 || gotSrc != component.DamageRam {
		t.Fatalf("expected one ram hit of 5, got %v from %v", got, gotSrc)
	}
	evts := w.Events().Drain()
	if len(evts) != 1 || evts[0].Kind != EventPlayerDamaged {
		t.Fatalf("expected one player_damaged event, got %v", evts)
	}
	if w.Events().Drain() != nil {
		t.Fatalf("drain should empty the queue")
	}
}
