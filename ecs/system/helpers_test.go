package system

import (
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/ecs"
	"github.com/milk9111/mazehorde/ecs/component"
	"github.com/milk9111/mazehorde/nav"
)

const testDT = 1.0 / 60

// openRoom is a w×h grid with a one-cell wall border.
func openRoom(w, h int, cellSize float64) *nav.Grid {
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		if y == 0 || y == h-1 {
			rows[y] = strings.Repeat("#", w)
			continue
		}
		rows[y] = "#" + strings.Repeat(".", w-2) + "#"
	}
	return nav.GridFromRows(rows, cellSize, cp.Vector{})
}

func newTestWorld(g *nav.Grid, mutate func(t *component.Tuning)) *ecs.World {
	t := component.DefaultTuning()
	if mutate != nil {
		mutate(&t)
	}
	w := ecs.NewWorld(g, nil, t, 7)
	w.SetLogger(nil)
	return w
}

// placeAgent spawns at cell and then moves the agent to p.
func placeAgent(w *ecs.World, p cp.Vector) ecs.Entity {
	e, ok := SpawnAt(w, w.Grid().WorldToCell(p))
	if !ok {
		panic("placeAgent: cell not walkable")
	}
	a, _ := w.Agent(e)
	a.Position = p
	return e
}

type damageLog struct {
	calls []component.DamageSource
	total map[component.DamageSource]float64
}

func recordDamage(w *ecs.World) *damageLog {
	l := &damageLog{total: map[component.DamageSource]float64{}}
	w.Player().OnDamage = func(amount float64, src component.DamageSource) {
		l.calls = append(l.calls, src)
		l.total[src] += amount
	}
	return l
}

func (l *damageLog) count(src component.DamageSource) int {
	n := 0
	for _, s := range l.calls {
		if s == src {
			n++
		}
	}
	return n
}

func frame(dt float64) ecs.Frame {
	return ecs.Frame{DT: dt, CanDealDamage: true}
}
