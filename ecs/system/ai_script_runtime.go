package system

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/mazehorde/nav"
)

// WanderRoll is one re-roll of an agent's undirected motion.
type WanderRoll struct {
	Angle    float64
	Interval float64
}

// WanderScript evaluates a tengo script that chooses the next wander heading
// and interval. The script reads rand_angle, rand, interval_min,
// interval_max, cell_x and cell_y, and must define angle and interval.
type WanderScript struct {
	name     string
	compiled *tengo.Compiled
}

var wanderInputs = []string{"rand_angle", "rand", "interval_min", "interval_max", "cell_x", "cell_y"}

// CompileWanderScript compiles src once; Roll reuses the compiled program.
func CompileWanderScript(name string, src []byte) (*WanderScript, error) {
	script := tengo.NewScript(src)
	for _, in := range wanderInputs {
		if err := script.Add(in, 0.0); err != nil {
			return nil, fmt.Errorf("wander script %s: %w", name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap("math", "rand"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("wander script %s: compile: %w", name, err)
	}
	return &WanderScript{name: name, compiled: compiled}, nil
}

func (ws *WanderScript) Name() string {
	if ws == nil {
		return ""
	}
	return ws.name
}

// Roll runs the script with fresh random inputs drawn from rng.
func (ws *WanderScript) Roll(rng *rand.Rand, cell nav.Cell, intervalMin, intervalMax float64) (WanderRoll, error) {
	if ws == nil || ws.compiled == nil {
		return WanderRoll{}, fmt.Errorf("nil wander script")
	}
	inputs := map[string]any{
		"rand_angle":   rng.Float64() * 2 * math.Pi,
		"rand":         rng.Float64(),
		"interval_min": intervalMin,
		"interval_max": intervalMax,
		"cell_x":       cell.X,
		"cell_y":       cell.Y,
	}
	for _, in := range wanderInputs {
		if err := ws.compiled.Set(in, inputs[in]); err != nil {
			return WanderRoll{}, err
		}
	}
	if err := ws.compiled.Run(); err != nil {
		return WanderRoll{}, fmt.Errorf("wander script %s: %w", ws.name, err)
	}
	if !ws.compiled.IsDefined("angle") || !ws.compiled.IsDefined("interval") {
		return WanderRoll{}, fmt.Errorf("wander script %s: angle and interval must be defined", ws.name)
	}
	roll := WanderRoll{
		Angle:    ws.compiled.Get("angle").Float(),
		Interval: ws.compiled.Get("interval").Float(),
	}
	if math.IsNaN(roll.Angle) || math.IsInf(roll.Angle, 0) || math.IsNaN(roll.Interval) || roll.Interval <= 0 {
		return WanderRoll{}, fmt.Errorf("wander script %s: bad roll %+v", ws.name, roll)
	}
	return roll, nil
}

// builtinWanderRoll is used when no script is configured or the script fails.
func builtinWanderRoll(rng *rand.Rand, intervalMin, intervalMax float64) WanderRoll {
	if intervalMax < intervalMin {
		intervalMax = intervalMin
	}
	interval := intervalMin + rng.Float64()*(intervalMax-intervalMin)
	if interval <= 0 {
		interval = 1
	}
	return WanderRoll{
		Angle:    rng.Float64() * 2 * math.Pi,
		Interval: interval,
	}
}
