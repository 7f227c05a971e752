package system

import (
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/common"
	"github.com/milk9111/mazehorde/ecs"
	"github.com/milk9111/mazehorde/ecs/component"
)

type Action func(ctx *AIActionContext)

// AIActionContext is what actions and transition checkers see of one agent
// during one tick.
type AIActionContext struct {
	World  *ecs.World
	Entity ecs.Entity
	Agent  *component.Agent
	Tuning *component.Tuning
	DT     float64

	// ToPlayer and Distance are measured once, before any action runs.
	ToPlayer cp.Vector
	Distance float64

	Script *WanderScript
}

type StateDef struct {
	OnEnter []Action
	While   []Action
	OnExit  []Action
}

type TransitionChecker func(ctx *AIActionContext) bool

type TransitionCheckerDef struct {
	From  component.Mode
	To    component.Mode
	Check TransitionChecker
}

// FSMDef is a compiled state machine. Checkers are evaluated in order and the
// first one that fires for the current mode wins.
type FSMDef struct {
	Initial  component.Mode
	States   map[component.Mode]StateDef
	Checkers []TransitionCheckerDef
}

// RawFSM is the YAML shape of a state machine. Actions and transitions are
// lists of single-key maps naming a registry entry and its argument.
type RawFSM struct {
	Initial     string                      `yaml:"initial"`
	States      map[string]RawState         `yaml:"states"`
	Transitions map[string][]map[string]any `yaml:"transitions"`
}

type RawState struct {
	OnEnter []map[string]any `yaml:"on_enter"`
	While   []map[string]any `yaml:"while"`
	OnExit  []map[string]any `yaml:"on_exit"`
}

var actionRegistry = map[string]func(any) Action{
	"reset_ram": func(_ any) Action {
		return func(ctx *AIActionContext) {
			ai := &ctx.Agent.AI
			ai.Timer = 0
			ai.RamDirection = cp.Vector{}
			ai.RamHasHit = false
		}
	},
	"replan": func(_ any) Action {
		return func(ctx *AIActionContext) {
			Replan(ctx.World, ctx.Entity, ctx.Agent)
		}
	},
	"start_timer": func(arg any) Action {
		return func(ctx *AIActionContext) {
			ctx.Agent.AI.Timer = durationArg(arg, ctx.Tuning)
		}
	},
	"tick_timer": func(_ any) Action {
		return func(ctx *AIActionContext) {
			ctx.Agent.AI.Timer -= ctx.DT
			ctx.Agent.AI.Elapsed += ctx.DT
		}
	},
	"capture_ram_direction": func(_ any) Action {
		return func(ctx *AIActionContext) {
			ai := &ctx.Agent.AI
			dir, ok := common.SafeNormalize(ctx.ToPlayer)
			if !ok {
				dir = cp.ForAngle(ctx.Agent.Facing)
			}
			ai.RamDirection = dir
			ai.RamHasHit = false
		}
	},
	"emit_ram_started": func(_ any) Action {
		return func(ctx *AIActionContext) {
			ctx.World.Emit(ecs.Event{Kind: ecs.EventRamStarted, Entity: ctx.Entity, Position: ctx.Agent.Position})
		}
	},
	"chase": func(_ any) Action {
		return chase
	},
	"wander": func(_ any) Action {
		return wander
	},
	"move_ram": func(arg any) Action {
		sign, speed := ramMotion(arg)
		return func(ctx *AIActionContext) {
			ai := &ctx.Agent.AI
			ctx.Agent.Intent = component.Steering{
				Direction: ai.RamDirection.Mult(sign),
				Speed:     speed(ctx),
				Face:      ai.RamDirection,
			}
		}
	},
	"approach_player": func(arg any) Action {
		return func(ctx *AIActionContext) {
			dir, _ := common.SafeNormalize(ctx.ToPlayer)
			ctx.Agent.Intent = component.Steering{Direction: dir, Speed: tuningArg(arg, ctx.Tuning)}
		}
	},
	"ram_hit": func(_ any) Action {
		return func(ctx *AIActionContext) {
			ai := &ctx.Agent.AI
			if ai.RamHasHit || !ctx.World.Frame().CanDealDamage {
				return
			}
			if ctx.Distance > ctx.Tuning.RamHitRadius || !ctx.World.PlayerGrounded() {
				return
			}
			ai.RamHasHit = true
			ctx.World.DamagePlayer(ctx.Tuning.RamDamage, component.DamageRam, ctx.Entity)
			ctx.World.Logger().Debug("ram hit", "system", "ai", "entity", ctx.Entity, "distance", ctx.Distance)
		}
	},
}

var transitionRegistry = map[string]func(any) TransitionChecker{
	"always": func(_ any) TransitionChecker {
		return func(ctx *AIActionContext) bool { return true }
	},
	"player_within": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool {
			return ctx.Distance < tuningArg(arg, ctx.Tuning)
		}
	},
	"timer_expired": func(_ any) TransitionChecker {
		return func(ctx *AIActionContext) bool {
			return ctx.Agent.AI.Timer <= 0
		}
	},
	// timer_expired_within fires on expiry only while the player is still close.
	"timer_expired_within": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool {
			return ctx.Agent.AI.Timer <= 0 && ctx.Distance < tuningArg(arg, ctx.Tuning)
		}
	},
}

// chase follows the current path, steers straight at the player once the path
// is used up, and wanders when there is no path at all.
func chase(ctx *AIActionContext) {
	a := ctx.Agent
	t := ctx.Tuning
	if len(a.Path.Path) == 0 {
		wander(ctx)
		return
	}
	grid := ctx.World.Grid()
	for a.Path.HasPath() {
		wp := grid.CellToWorld(a.Path.Path[a.Path.Cursor])
		to := wp.Sub(a.Position)
		if to.LengthSq() > t.WaypointRadius*t.WaypointRadius {
			dir, _ := common.SafeNormalize(to)
			a.Intent = component.Steering{Direction: dir, Speed: t.ChaseSpeed}
			return
		}
		a.Path.Cursor++
	}
	dir, _ := common.SafeNormalize(ctx.ToPlayer)
	a.Intent = component.Steering{Direction: dir, Speed: t.ChaseSpeed}
}

func wander(ctx *AIActionContext) {
	a := ctx.Agent
	t := ctx.Tuning
	a.Wander.Timer -= ctx.DT
	if a.Wander.Timer <= 0 {
		roll := rollWander(ctx)
		a.Wander.Direction = cp.ForAngle(roll.Angle)
		a.Wander.Interval = roll.Interval
		a.Wander.Timer = roll.Interval
	}
	a.Intent = component.Steering{Direction: a.Wander.Direction, Speed: t.WanderSpeed}
}

func rollWander(ctx *AIActionContext) WanderRoll {
	t := ctx.Tuning
	rng := ctx.World.Rand()
	if ctx.Script != nil {
		roll, err := ctx.Script.Roll(rng, ctx.Agent.Cell, t.WanderIntervalMin, t.WanderIntervalMax)
		if err == nil {
			return roll
		}
		ctx.World.Logger().Error("wander script failed", "system", "ai", "entity", ctx.Entity, "script", ctx.Script.Name(), "err", err)
	}
	return builtinWanderRoll(rng, t.WanderIntervalMin, t.WanderIntervalMax)
}

// ramMotion maps a ram phase name to its travel sign and speed.
func ramMotion(arg any) (float64, func(ctx *AIActionContext) float64) {
	switch fmt.Sprint(arg) {
	case "windup":
		return -1, func(ctx *AIActionContext) float64 { return ctx.Tuning.WindupSpeed }
	case "charge":
		return 1, chargeSpeed
	case "backoff":
		return -1, func(ctx *AIActionContext) float64 { return ctx.Tuning.BackoffSpeed }
	}
	return 0, func(*AIActionContext) float64 { return 0 }
}

// chargeSpeed ramps from a quarter of ChargeSpeed to full over ChargeAccelTime.
func chargeSpeed(ctx *AIActionContext) float64 {
	t := ctx.Tuning
	ramp := 1.0
	if t.ChargeAccelTime > 0 {
		ramp = common.Clamp(ctx.Agent.AI.Elapsed/t.ChargeAccelTime, 0, 1)
	}
	return t.ChargeSpeed * common.Lerp(0.25, 1, ramp)
}

// durationArg resolves a phase name or literal seconds.
func durationArg(arg any, t *component.Tuning) float64 {
	switch fmt.Sprint(arg) {
	case "windup":
		return t.WindupDuration
	case "charge":
		return t.ChargeDuration
	case "backoff":
		return t.BackoffDuration
	case "cooldown":
		return t.CooldownDuration
	}
	return asFloat(arg)
}

// tuningArg resolves a named tuning distance or speed, or a literal.
func tuningArg(arg any, t *component.Tuning) float64 {
	switch fmt.Sprint(arg) {
	case "trigger":
		return t.RamTriggerDistance
	case "retrigger":
		return t.RamRetriggerDistance
	case "hit":
		return t.RamHitRadius
	case "cooldown":
		return t.CooldownSpeed
	case "chase":
		return t.ChaseSpeed
	}
	return asFloat(arg)
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	case float32:
		return float64(t)
	default:
		return 0
	}
}

func modeArg(name string) (component.Mode, error) {
	m, ok := component.ParseMode(name)
	if !ok {
		return 0, fmt.Errorf("fsm: unknown mode %q", name)
	}
	return m, nil
}

// CompileFSM builds an FSMDef from its YAML form.
func CompileFSM(raw RawFSM) (*FSMDef, error) {
	if raw.Initial == "" {
		return nil, fmt.Errorf("fsm: missing initial state")
	}
	initial, err := modeArg(raw.Initial)
	if err != nil {
		return nil, err
	}

	build := func(list []map[string]any) ([]Action, error) {
		if len(list) == 0 {
			return nil, nil
		}
		out := make([]Action, 0, len(list))
		for _, e := range list {
			if len(e) != 1 {
				return nil, fmt.Errorf("fsm: action entry must have exactly one key, got %v", e)
			}
			for k, v := range e {
				makeAction, ok := actionRegistry[k]
				if !ok {
					return nil, fmt.Errorf("fsm: unknown action %q", k)
				}
				out = append(out, makeAction(v))
			}
		}
		return out, nil
	}

	states := map[component.Mode]StateDef{}
	for name, s := range raw.States {
		mode, err := modeArg(name)
		if err != nil {
			return nil, err
		}
		onEnter, err := build(s.OnEnter)
		if err != nil {
			return nil, err
		}
		while, err := build(s.While)
		if err != nil {
			return nil, err
		}
		onExit, err := build(s.OnExit)
		if err != nil {
			return nil, err
		}
		states[mode] = StateDef{OnEnter: onEnter, While: while, OnExit: onExit}
	}
	if _, ok := states[initial]; !ok {
		return nil, fmt.Errorf("fsm: initial state %q has no definition", raw.Initial)
	}

	// Checker order only matters within one source state; sort sources so the
	// compiled list is stable.
	froms := make([]string, 0, len(raw.Transitions))
	for from := range raw.Transitions {
		froms = append(froms, from)
	}
	sort.Strings(froms)

	var checkers []TransitionCheckerDef
	for _, from := range froms {
		fromMode, err := modeArg(from)
		if err != nil {
			return nil, err
		}
		for _, entry := range raw.Transitions[from] {
			if len(entry) != 1 {
				return nil, fmt.Errorf("fsm: transition entry for %s must have exactly one key, got %v", from, entry)
			}
			for key, val := range entry {
				maker, ok := transitionRegistry[key]
				if !ok {
					return nil, fmt.Errorf("fsm: unknown transition %q", key)
				}
				var toState string
				var arg any
				switch v := val.(type) {
				case string:
					toState = v
				case map[string]any:
					toState, _ = v["to"].(string)
					arg = v["arg"]
				}
				if toState == "" {
					return nil, fmt.Errorf("fsm: missing to state for transition %s.%s", from, key)
				}
				toMode, err := modeArg(toState)
				if err != nil {
					return nil, err
				}
				if _, ok := states[toMode]; !ok {
					return nil, fmt.Errorf("fsm: transition %s.%s targets undefined state %q", from, key, toState)
				}
				checkers = append(checkers, TransitionCheckerDef{From: fromMode, To: toMode, Check: maker(arg)})
			}
		}
	}

	return &FSMDef{Initial: initial, States: states, Checkers: checkers}, nil
}

// DefaultRamFSM is the chase and four-phase ram machine.
func DefaultRamFSM() *FSMDef {
	act := func(name string, arg any) Action { return actionRegistry[name](arg) }
	check := func(name string, arg any) TransitionChecker { return transitionRegistry[name](arg) }

	return &FSMDef{
		Initial: component.ModeChase,
		States: map[component.Mode]StateDef{
			component.ModeChase: {
				OnEnter: []Action{act("reset_ram", nil), act("replan", nil)},
				While:   []Action{act("chase", nil)},
			},
			component.ModeRamWindup: {
				OnEnter: []Action{act("capture_ram_direction", nil), act("start_timer", "windup"), act("emit_ram_started", nil)},
				While:   []Action{act("tick_timer", nil), act("move_ram", "windup")},
			},
			component.ModeRamCharge: {
				OnEnter: []Action{act("start_timer", "charge")},
				While:   []Action{act("tick_timer", nil), act("ram_hit", nil), act("move_ram", "charge")},
			},
			component.ModeRamBackoff: {
				OnEnter: []Action{act("start_timer", "backoff")},
				While:   []Action{act("tick_timer", nil), act("move_ram", "backoff")},
			},
			component.ModeRamCooldown: {
				OnEnter: []Action{act("start_timer", "cooldown")},
				While:   []Action{act("tick_timer", nil), act("approach_player", "cooldown")},
			},
		},
		Checkers: []TransitionCheckerDef{
			{From: component.ModeChase, To: component.ModeRamWindup, Check: check("player_within", "trigger")},
			{From: component.ModeRamWindup, To: component.ModeRamCharge, Check: check("timer_expired", nil)},
			{From: component.ModeRamCharge, To: component.ModeRamBackoff, Check: check("timer_expired", nil)},
			{From: component.ModeRamBackoff, To: component.ModeRamCooldown, Check: check("timer_expired", nil)},
			{From: component.ModeRamCooldown, To: component.ModeRamWindup, Check: check("timer_expired_within", "retrigger")},
			{From: component.ModeRamCooldown, To: component.ModeChase, Check: check("timer_expired", nil)},
		},
	}
}
