package ecs

import (
	"io"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/ecs/component"
	"github.com/milk9111/mazehorde/nav"
)

// Frame is the per-tick input handed to systems.
type Frame struct {
	DT            float64
	CanDealDamage bool
}

// World owns the agent arena, the static maze geometry and the player view.
type World struct {
	entities entityStore
	agents   SparseSet[component.Agent]
	events   EventQueue

	grid  *nav.Grid
	walls []cp.BB

	player component.Player
	tuning component.Tuning
	frame  Frame
	frozen bool

	rng    *rand.Rand
	logger *log.Logger
}

// NewWorld creates an empty world over a static maze. walls may be nil, in
// which case the grid's blocked cells are used.
func NewWorld(grid *nav.Grid, walls []cp.BB, tuning component.Tuning, seed int64) *World {
	if grid == nil {
		grid = nav.NewGrid(0, 0, 1, cp.Vector{})
	}
	if walls == nil {
		walls = grid.WallBoxes()
	}
	return &World{
		grid:   grid,
		walls:  walls,
		tuning: tuning,
		rng:    rand.New(rand.NewSource(seed)),
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "horde", Level: log.InfoLevel}),
	}
}

// CreateAgent allocates an entity and stores a.
func (w *World) CreateAgent(a component.Agent) Entity {
	e := w.entities.create()
	w.agents.Set(e, a)
	return e
}

// DestroyEntity removes e and invalidates its handle. Stale handles are a
// no-op and return false.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.destroy(e) {
		return false
	}
	w.agents.Remove(e)
	return true
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Agent returns the agent behind e. The pointer is valid until the next
// create or destroy.
func (w *World) Agent(e Entity) (*component.Agent, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	return w.agents.Get(e)
}

// ForEachAgent visits agents in arena order. fn must not create or destroy
// entities.
func (w *World) ForEachAgent(fn func(e Entity, a *component.Agent)) {
	if w == nil || fn == nil {
		return
	}
	ents := w.agents.Entities()
	vals := w.agents.Values()
	for i := range ents {
		fn(ents[i], &vals[i])
	}
}

// Agents exposes the arena for systems that need index access.
func (w *World) Agents() *SparseSet[component.Agent] {
	if w == nil {
		return nil
	}
	return &w.agents
}

func (w *World) AgentCount() int {
	if w == nil {
		return 0
	}
	return w.agents.Len()
}

// Clear removes every agent and invalidates all handles.
func (w *World) Clear() {
	if w == nil {
		return
	}
	w.agents.Clear()
	w.entities.reset()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Emit queues an event.
func (w *World) Emit(evt Event) {
	if w == nil {
		return
	}
	w.events.Push(evt)
}

// FlushEvents drops events nobody drained.
func (w *World) FlushEvents() {
	if w == nil {
		return
	}
	w.events.flush()
}

func (w *World) Grid() *nav.Grid {
	return w.grid
}

func (w *World) Walls() []cp.BB {
	return w.walls
}

func (w *World) Player() *component.Player {
	return &w.player
}

func (w *World) Tuning() *component.Tuning {
	return &w.tuning
}

func (w *World) SetTuning(t component.Tuning) {
	w.tuning = t
}

func (w *World) Frame() Frame {
	return w.frame
}

func (w *World) SetFrame(f Frame) {
	w.frame = f
}

func (w *World) Frozen() bool {
	return w.frozen
}

func (w *World) SetFrozen(frozen bool) {
	w.frozen = frozen
}

func (w *World) Rand() *rand.Rand {
	return w.rng
}

func (w *World) Logger() *log.Logger {
	return w.logger
}

// SetLogger replaces the logger; nil discards all output.
func (w *World) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	w.logger = l
}

// PlayerGrounded reports whether melee can reach the player this tick.
func (w *World) PlayerGrounded() bool {
	return w.player.Grounded(w.tuning.AirborneTolerance)
}

// DamagePlayer forwards damage to the host callback and records an event.
func (w *World) DamagePlayer(amount float64, src component.DamageSource, from Entity) {
	if w == nil || amount <= 0 {
		return
	}
	if w.player.OnDamage != nil {
		w.player.OnDamage(amount, src)
	}
	w.events.Push(Event{Kind: EventPlayerDamaged, Entity: from, Amount: amount, Position: w.player.Position, Source: src})
}
