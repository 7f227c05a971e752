package horde

import (
	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/ecs"
	"github.com/milk9111/mazehorde/ecs/component"
	"github.com/milk9111/mazehorde/ecs/system"
	"github.com/milk9111/mazehorde/nav"
)

// AgentView is the read-only projection of an agent handed to presentation
// layers.
type AgentView struct {
	Entity    ecs.Entity
	Position  cp.Vector
	Elevation float64
	Facing    float64
	HP        float64
	MaxHP     float64
	Dead      bool
	HitFlash  float64
	Mode      component.Mode
	Cell      nav.Cell
}

type options struct {
	tuning component.Tuning
	seed   int64
	logger *log.Logger
	quiet  bool
	script *system.WanderScript
	fsm    *system.FSMDef
}

type Option func(*options)

func WithTuning(t component.Tuning) Option {
	return func(o *options) { o.tuning = t }
}

func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithLogger sets the simulation logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
		o.quiet = l == nil
	}
}

func WithWanderScript(ws *system.WanderScript) Option {
	return func(o *options) { o.script = ws }
}

func WithFSM(fsm *system.FSMDef) Option {
	return func(o *options) { o.fsm = fsm }
}

// Simulation owns the horde. It is single-threaded: every method must be
// called from the goroutine that calls Update.
type Simulation struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	ai        *system.AISystem
}

// New builds a simulation over a static maze. walls may be nil, in which case
// the grid's blocked cells are used. The population is empty until Reset or
// the first Update.
func New(grid *nav.Grid, walls []cp.BB, opts ...Option) *Simulation {
	o := options{tuning: component.DefaultTuning(), seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	w := ecs.NewWorld(grid, walls, o.tuning, o.seed)
	if o.logger != nil || o.quiet {
		w.SetLogger(o.logger)
	}

	s := &Simulation{
		world: w,
		ai:    system.NewAISystem(o.fsm, o.script),
	}

	spawn := system.NewSpawnSystem()
	sched := ecs.NewScheduler()
	sched.Add(ecs.StageAlways, spawn)
	sched.Add(ecs.StageActive, system.NewPathfindingSystem())
	sched.Add(ecs.StageActive, s.ai)
	sched.Add(ecs.StageActive, system.NewSteeringSystem())
	sched.Add(ecs.StageActive, system.NewClusterRepulsionSystem())
	sched.Add(ecs.StageActive, system.NewDamageSystem())
	sched.Add(ecs.StageDecay, system.NewCorpseSystem())
	sched.Add(ecs.StageAlways, spawn)
	s.scheduler = sched

	return s
}

// Reset clears every agent and makes one spawn attempt per quota slot.
func (s *Simulation) Reset() int {
	n := system.ResetPopulation(s.world)
	s.world.Logger().Info("population reset", "spawned", n, "target", s.world.Tuning().Population)
	return n
}

// Update advances the simulation by dt seconds. Events from the previous
// update that were not drained are dropped. dt <= 0 only tops up the quota.
func (s *Simulation) Update(dt float64, canDealDamage bool) {
	s.world.FlushEvents()
	s.world.SetFrame(ecs.Frame{DT: dt, CanDealDamage: canDealDamage})
	s.scheduler.Update(s.world)
}

// PerformAttack fires a hitscan ray and damages the nearest living agent it
// reaches within maxRange. It reports whether the hit killed the agent.
func (s *Simulation) PerformAttack(origin, direction cp.Vector, maxRange float64) bool {
	res := system.PerformAttack(s.world, origin, direction, maxRange)
	if res.Hit {
		s.world.Logger().Debug("attack hit", "entity", res.Entity, "distance", res.Distance, "killed", res.Killed)
	}
	return res.Killed
}

// Attack is PerformAttack with the full result.
func (s *Simulation) Attack(origin, direction cp.Vector, maxRange float64) system.AttackResult {
	return system.PerformAttack(s.world, origin, direction, maxRange)
}

// ApplyDamage damages a single agent. Stale or dead targets are ignored and
// report false.
func (s *Simulation) ApplyDamage(e ecs.Entity, amount float64) bool {
	applied, _ := system.ApplyDamage(s.world, e, amount)
	return applied
}

// SetFrozen halts the state machine, steering and contact damage. Spawning,
// corpse pruning and timer decay keep running.
func (s *Simulation) SetFrozen(frozen bool) {
	if s.world.Frozen() != frozen {
		s.world.Logger().Info("freeze", "frozen", frozen)
	}
	s.world.SetFrozen(frozen)
}

func (s *Simulation) Frozen() bool {
	return s.world.Frozen()
}

// SetPlayer updates the player position and elevation read by the next
// Update.
func (s *Simulation) SetPlayer(position cp.Vector, elevation float64) {
	p := s.world.Player()
	p.Position = position
	p.Elevation = elevation
}

// OnPlayerDamage registers the callback receiving every hit on the player.
func (s *Simulation) OnPlayerDamage(fn component.PlayerDamageFunc) {
	s.world.Player().OnDamage = fn
}

// Agents returns a snapshot of every agent, dying ones included, in arena
// order.
func (s *Simulation) Agents() []AgentView {
	views := make([]AgentView, 0, s.world.AgentCount())
	s.world.ForEachAgent(func(e ecs.Entity, a *component.Agent) {
		views = append(views, viewOf(e, a))
	})
	return views
}

func (s *Simulation) Agent(e ecs.Entity) (AgentView, bool) {
	a, ok := s.world.Agent(e)
	if !ok {
		return AgentView{}, false
	}
	return viewOf(e, a), true
}

func (s *Simulation) Len() int {
	return s.world.AgentCount()
}

// Events drains the events emitted since the last Update began.
func (s *Simulation) Events() []ecs.Event {
	return s.world.Events().Drain()
}

// SpawnAt places an agent at a walkable cell, bypassing spawn distance
// rules.
func (s *Simulation) SpawnAt(cell nav.Cell) (ecs.Entity, bool) {
	return system.SpawnAt(s.world, cell)
}

// SetTuning swaps the tuning. Existing agents keep their current hp and
// timers; new values apply from the next Update.
func (s *Simulation) SetTuning(t component.Tuning) {
	s.world.SetTuning(t)
}

func (s *Simulation) Tuning() component.Tuning {
	return *s.world.Tuning()
}

// SetWanderScript swaps the wander script; nil restores the built-in roll.
func (s *Simulation) SetWanderScript(ws *system.WanderScript) {
	s.ai.SetScript(ws)
}

// SetFSM swaps the agent state machine. Agents keep their current mode; those
// whose mode the new machine lacks restart in its initial state.
func (s *Simulation) SetFSM(fsm *system.FSMDef) {
	s.ai.SetFSM(fsm)
}

func (s *Simulation) Grid() *nav.Grid {
	return s.world.Grid()
}

func (s *Simulation) Walls() []cp.BB {
	return s.world.Walls()
}

// World exposes the underlying world for debugging tools.
func (s *Simulation) World() *ecs.World {
	return s.world
}

func viewOf(e ecs.Entity, a *component.Agent) AgentView {
	return AgentView{
		Entity:    e,
		Position:  a.Position,
		Elevation: a.Elevation,
		Facing:    a.Facing,
		HP:        a.Health.Current,
		MaxHP:     a.Health.Max,
		Dead:      a.Health.Dead,
		HitFlash:  a.Health.HitFlash,
		Mode:      a.AI.Mode,
		Cell:      a.Cell,
	}
}
