package main

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/common"
	"github.com/milk9111/mazehorde/ecs"
	"github.com/milk9111/mazehorde/horde"
	"github.com/milk9111/mazehorde/levels"
	"github.com/milk9111/mazehorde/prefabs"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// maxDT bounds a single simulation step after a stall.
	maxDT       = 0.05
	attackRange = 12.0
	tracerTime  = 0.08
	specFile    = "horde.yaml"
)

type tracer struct {
	from, to cp.Vector
	ttl      float64
}

type Game struct {
	frames int

	sim     *horde.Simulation
	level   *levels.Level
	player  *Player
	view    view
	maze    *mazeLayer
	palette palette
	logger  *log.Logger
	watcher *prefabs.Watcher

	ui     *ebitenui.UI
	paused bool
	frozen bool
	debug  bool
	quit   bool

	tracers []tracer
	kills   int
	status  string
}

type gameConfig struct {
	levelName string
	seed      int64
	debug     bool
	frozen    bool
	watch     bool
}

func NewGame(cfg gameConfig, logger *log.Logger) (*Game, error) {
	lvl, err := levels.LoadLevelFromFS(cfg.levelName)
	if err != nil {
		return nil, err
	}
	spec, err := prefabs.LoadHordeSpec(specFile)
	if err != nil {
		return nil, err
	}
	opts, err := horde.OptionsFromSpec(spec)
	if err != nil {
		return nil, err
	}

	grid := lvl.Grid()
	sim := horde.New(grid, nil, append(opts,
		horde.WithSeed(cfg.seed),
		horde.WithLogger(logger.WithPrefix("horde")),
	)...)

	g := &Game{
		sim:     sim,
		level:   lvl,
		player:  NewPlayer(lvl.PlayerStart(grid)),
		view:    fitView(grid, baseWidth, baseHeight),
		palette: newPalette(&spec.Render),
		logger:  logger,
		frozen:  cfg.frozen,
		debug:   cfg.debug,
	}
	g.maze = newMazeLayer(sim.Walls(), g.view, g.palette.walls)
	g.ui = NewPauseUI(g)
	sim.OnPlayerDamage(g.player.TakeDamage)
	sim.SetPlayer(g.player.Pos, g.player.Elevation)
	sim.SetFrozen(cfg.frozen)
	sim.Reset()

	if cfg.watch {
		w, err := prefabs.WatchPrefabs()
		if err != nil {
			logger.Warn("hot reload disabled", "err", err)
		} else {
			g.watcher = w
		}
	}

	logger.Info("level loaded", "level", lvl.Name, "size", fmt.Sprintf("%dx%d", grid.Width, grid.Height), "agents", sim.Len())
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	if g.quit {
		return ebiten.Termination
	}

	dt := 1.0 / float64(ebiten.TPS())
	if dt > maxDT {
		dt = maxDT
	}

	g.pollReload()
	in := readInput()

	if in.PausePressed {
		g.setPaused(!g.paused)
	}
	if in.DebugPressed {
		g.debug = !g.debug
	}
	if in.CopyPressed {
		g.copySnapshot()
	}
	if in.FreezePressed && !g.paused {
		g.frozen = !g.frozen
		g.sim.SetFrozen(g.frozen)
	}
	if in.ResetPressed {
		g.reset()
	}

	if g.paused {
		g.ui.Update()
		// Frozen horde: corpses still decay and the quota still refills.
		g.sim.Update(dt, false)
		g.drainEvents()
		return nil
	}

	g.player.Update(in, dt, g.sim.Walls())
	g.sim.SetPlayer(g.player.Pos, g.player.Elevation)
	g.sim.Update(dt, g.player.Alive())
	// Update flushes undrained events, so attack after it.
	if in.AttackPressed && g.player.Alive() {
		g.attack(in)
	}
	g.drainEvents()
	g.tickTracers(dt)
	return nil
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	g.sim.SetFrozen(paused || g.frozen)
}

func (g *Game) reset() {
	g.player.Respawn()
	g.sim.SetPlayer(g.player.Pos, g.player.Elevation)
	g.sim.Reset()
	g.kills = 0
	g.tracers = g.tracers[:0]
	g.status = "reset"
}

func (g *Game) attack(in Input) {
	dir := g.view.toWorld(in.CursorX, in.CursorY).Sub(g.player.Pos)
	if in.AimX != 0 || in.AimY != 0 {
		dir = cp.Vector{X: in.AimX, Y: in.AimY}
	}
	dir, ok := common.SafeNormalize(dir)
	if !ok {
		dir = g.player.Facing
	}
	res := g.sim.Attack(g.player.Pos, dir, attackRange)
	end := g.player.Pos.Add(dir.Mult(attackRange))
	if res.Hit {
		end = g.player.Pos.Add(dir.Mult(res.Distance))
	}
	g.tracers = append(g.tracers, tracer{from: g.player.Pos, to: end, ttl: tracerTime})
}

func (g *Game) tickTracers(dt float64) {
	kept := g.tracers[:0]
	for _, t := range g.tracers {
		t.ttl -= dt
		if t.ttl > 0 {
			kept = append(kept, t)
		}
	}
	g.tracers = kept
}

func (g *Game) drainEvents() {
	for _, ev := range g.sim.Events() {
		switch ev.Kind {
		case ecs.EventAgentKilled:
			g.kills++
		case ecs.EventPlayerDamaged:
			if !g.player.Alive() {
				g.status = fmt.Sprintf("killed by %s, press R", ev.Source)
			}
		}
		g.logger.Debug("event", "kind", ev.Kind, "entity", ev.Entity, "amount", ev.Amount)
	}
}

// pollReload applies pending prefab edits without blocking the frame.
func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case ch, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(ch)
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn("watch", "err", err)
			}
		default:
			return
		}
	}
}

func (g *Game) reload(ch prefabs.Change) {
	if !ch.Script && filepath.Base(ch.Path) != specFile {
		return
	}
	spec, err := prefabs.LoadHordeSpec(specFile)
	if err == nil {
		err = g.sim.ApplySpec(spec)
	}
	if err != nil {
		g.logger.Error("reload failed", "file", ch.Path, "err", err)
		g.status = "reload failed: " + filepath.Base(ch.Path)
		return
	}
	g.palette = newPalette(&spec.Render)
	g.maze.Invalidate(g.palette.walls)
	g.status = "reloaded " + filepath.Base(ch.Path)
	g.logger.Info("reloaded", "file", ch.Path)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	g.maze.Draw(screen)

	t := g.sim.Tuning()
	agentR := g.view.length(t.AgentRadius)
	for _, a := range g.sim.Agents() {
		x, y := g.view.toScreen(a.Position)
		vector.FillCircle(screen, x, y, agentR, g.palette.agent(a.Mode, a.Dead, a.HitFlash), true)
		if a.Dead {
			continue
		}
		fx, fy := g.view.toScreen(a.Position.Add(cp.ForAngle(a.Facing).Mult(t.AgentRadius)))
		vector.StrokeLine(screen, x, y, fx, fy, 2, colornames.Black, true)
		if g.debug {
			hp := float32(a.HP / a.MaxHP)
			vector.FillRect(screen, x-agentR, y-agentR-6, 2*agentR*hp, 3, colornames.Limegreen, false)
			ebitenutil.DebugPrintAt(screen, a.Mode.String(), int(x+agentR), int(y-agentR))
		}
	}

	for _, tr := range g.tracers {
		x0, y0 := g.view.toScreen(tr.from)
		x1, y1 := g.view.toScreen(tr.to)
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, colornames.Lightyellow, true)
	}

	g.drawPlayer(screen, t.PlayerBubble)
	g.drawHUD(screen)

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image, bubble float64) {
	p := g.player
	x, y := g.view.toScreen(p.Pos)
	r := g.view.length(playerRadius)
	// The shadow stays on the floor while the body rises with elevation.
	vector.FillCircle(screen, x, y, r, colornames.Darkslategray, true)
	lift := g.view.length(p.Elevation * 0.5)
	c := g.palette.player
	if !p.Alive() {
		c = g.palette.dead
	}
	vector.FillCircle(screen, x, y-lift, r*float32(1+0.2*math.Min(p.Elevation, 1)), c, true)
	if g.debug {
		vector.StrokeCircle(screen, x, y, g.view.length(bubble), 1, colornames.Gray, true)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	mode := "running"
	switch {
	case g.paused:
		mode = "paused"
	case g.frozen:
		mode = "frozen"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"%s  FPS: %.1f  hp: %.0f  agents: %d  kills: %d  [%s]\nWASD move  Space jump  click attack  F freeze  P pause  R reset  F1 debug  F2 copy",
		g.level.Name, ebiten.ActualFPS(), g.player.HP, g.sim.Len(), g.kills, mode,
	))
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, 0, baseHeight-16)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
