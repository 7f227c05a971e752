package main

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/common"
	"github.com/milk9111/mazehorde/ecs"
	"github.com/milk9111/mazehorde/ecs/component"
	"github.com/milk9111/mazehorde/horde"
	"github.com/milk9111/mazehorde/levels"
	"github.com/milk9111/mazehorde/prefabs"
)

type config struct {
	level       string
	spec        string
	seed        int64
	seconds     float64
	tps         int
	fire        float64
	attackRange float64
}

type report struct {
	Level      string             `yaml:"level"`
	Seed       int64              `yaml:"seed"`
	Ticks      int                `yaml:"ticks"`
	Spawned    int                `yaml:"spawned"`
	Killed     int                `yaml:"killed"`
	Removed    int                `yaml:"removed"`
	Rams       int                `yaml:"rams"`
	Shots      int                `yaml:"shots"`
	Damage     map[string]float64 `yaml:"damage_taken"`
	Population int                `yaml:"population"`
	Modes      map[string]int     `yaml:"modes"`
}

func run(cfg config, logger *log.Logger) (*report, error) {
	if cfg.tps <= 0 {
		return nil, fmt.Errorf("tps must be positive, got %d", cfg.tps)
	}
	lvl, err := levels.LoadLevelFromFS(cfg.level)
	if err != nil {
		return nil, err
	}
	spec, err := prefabs.LoadHordeSpec(cfg.spec)
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

	rep := &report{
		Level:  lvl.Name,
		Seed:   cfg.seed,
		Damage: map[string]float64{},
		Modes:  map[string]int{},
	}
	sim.OnPlayerDamage(func(amount float64, src component.DamageSource) {
		rep.Damage[src.String()] += amount
	})

	player := lvl.PlayerStart(grid)
	sim.SetPlayer(player, 0)
	sim.Reset()
	rep.tally(sim.Events())

	dt := 1.0 / float64(cfg.tps)
	steps := int(math.Round(cfg.seconds * float64(cfg.tps)))
	cooldown := cfg.fire
	for i := 0; i < steps; i++ {
		sim.Update(dt, true)
		// Attack events land in the same drain as the step's own events.
		if cfg.fire > 0 {
			cooldown -= dt
			if cooldown <= 0 {
				cooldown += cfg.fire
				if dir, ok := nearest(sim.Agents(), player); ok {
					sim.PerformAttack(player, dir, cfg.attackRange)
					rep.Shots++
				}
			}
		}
		rep.tally(sim.Events())
		rep.Ticks++
	}

	for _, a := range sim.Agents() {
		key := a.Mode.String()
		if a.Dead {
			key = "dead"
		}
		rep.Modes[key]++
	}
	rep.Population = sim.Len()
	logger.Info("done", "ticks", rep.Ticks, "killed", rep.Killed)
	return rep, nil
}

func (r *report) tally(events []ecs.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case ecs.EventAgentSpawned:
			r.Spawned++
		case ecs.EventAgentKilled:
			r.Killed++
		case ecs.EventAgentRemoved:
			r.Removed++
		case ecs.EventRamStarted:
			r.Rams++
		}
	}
}

// nearest aims at the closest living agent.
func nearest(agents []horde.AgentView, from cp.Vector) (cp.Vector, bool) {
	best := math.Inf(1)
	var target cp.Vector
	for _, a := range agents {
		if a.Dead {
			continue
		}
		if d := a.Position.DistanceSq(from); d < best {
			best = d
			target = a.Position
		}
	}
	if math.IsInf(best, 1) {
		return cp.Vector{}, false
	}
	return common.SafeNormalize(target.Sub(from))
}
