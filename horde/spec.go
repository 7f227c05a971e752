package horde

import (
	"fmt"

	"github.com/milk9111/mazehorde/ecs/component"
	"github.com/milk9111/mazehorde/ecs/system"
	"github.com/milk9111/mazehorde/prefabs"
)

// TuningFromSpec converts a horde spec into simulation tuning. Zero or
// negative fields keep the default value.
func TuningFromSpec(spec *prefabs.HordeSpec) component.Tuning {
	t := component.DefaultTuning()
	if spec == nil {
		return t
	}

	set(&t.AgentRadius, spec.Agent.Radius)
	set(&t.AgentElevation, spec.Agent.Elevation)
	set(&t.MaxHP, spec.Agent.Health)
	set(&t.DeathDuration, spec.Agent.DeathDuration)
	set(&t.HitFlashDuration, spec.Agent.HitFlashDuration)
	set(&t.TurnRate, spec.Agent.TurnRate)

	set(&t.ChaseSpeed, spec.Chase.Speed)
	set(&t.WanderSpeed, spec.Chase.WanderSpeed)
	set(&t.WanderIntervalMin, spec.Chase.WanderIntervalMin)
	set(&t.WanderIntervalMax, spec.Chase.WanderIntervalMax)
	set(&t.RepathInterval, spec.Chase.RepathInterval)
	set(&t.WaypointRadius, spec.Chase.WaypointRadius)

	set(&t.RamTriggerDistance, spec.Ram.TriggerDistance)
	set(&t.RamRetriggerDistance, spec.Ram.RetriggerDistance)
	set(&t.RamHitRadius, spec.Ram.HitRadius)
	set(&t.RamDamage, spec.Ram.Damage)
	set(&t.WindupDuration, spec.Ram.Windup.Duration)
	set(&t.WindupSpeed, spec.Ram.Windup.Speed)
	set(&t.ChargeDuration, spec.Ram.Charge.Duration)
	set(&t.ChargeSpeed, spec.Ram.Charge.Speed)
	set(&t.ChargeAccelTime, spec.Ram.Charge.AccelTime)
	set(&t.BackoffDuration, spec.Ram.Backoff.Duration)
	set(&t.BackoffSpeed, spec.Ram.Backoff.Speed)
	set(&t.CooldownDuration, spec.Ram.Cooldown.Duration)
	set(&t.CooldownSpeed, spec.Ram.Cooldown.Speed)

	set(&t.AttackRadius, spec.Contact.Radius)
	set(&t.AttackDPS, spec.Contact.DPS)
	set(&t.AttackDamage, spec.Contact.AttackDamage)
	set(&t.AirborneTolerance, spec.Contact.AirborneTolerance)

	set(&t.FeelerLength, spec.Collision.FeelerLength)
	set(&t.AvoidStrength, spec.Collision.AvoidStrength)
	setInt(&t.SeparationIterations, spec.Collision.SeparationIterations)
	set(&t.PlayerBubble, spec.Collision.PlayerBubble)

	setInt(&t.Population, spec.Population.Target)
	set(&t.SpawnMinPlayerDistance, spec.Population.MinPlayerDistance)
	set(&t.SpawnMinAgentDistance, spec.Population.MinAgentDistance)
	setInt(&t.SpawnAttempts, spec.Population.Attempts)

	if t.WanderIntervalMax < t.WanderIntervalMin {
		t.WanderIntervalMax = t.WanderIntervalMin
	}
	if t.RamRetriggerDistance < t.RamTriggerDistance {
		t.RamRetriggerDistance = t.RamTriggerDistance
	}
	return t
}

func set(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

// FSMFromSpec compiles the spec's state machine. A spec without one yields
// the built-in ram machine.
func FSMFromSpec(spec *prefabs.HordeSpec) (*system.FSMDef, error) {
	if spec == nil || spec.FSM == nil {
		return system.DefaultRamFSM(), nil
	}
	raw := system.RawFSM{
		Initial:     spec.FSM.Initial,
		States:      make(map[string]system.RawState, len(spec.FSM.States)),
		Transitions: spec.FSM.Transitions,
	}
	for name, st := range spec.FSM.States {
		raw.States[name] = system.RawState{OnEnter: st.OnEnter, While: st.While, OnExit: st.OnExit}
	}
	fsm, err := system.CompileFSM(raw)
	if err != nil {
		return nil, fmt.Errorf("horde %s: %w", spec.Name, err)
	}
	return fsm, nil
}

// ScriptFromSpec loads and compiles the spec's wander script. An empty script
// name yields nil, which selects the built-in roll.
func ScriptFromSpec(spec *prefabs.HordeSpec) (*system.WanderScript, error) {
	if spec == nil || spec.Script == "" {
		return nil, nil
	}
	src, err := prefabs.LoadScript(spec.Script)
	if err != nil {
		return nil, fmt.Errorf("horde %s: load script %s: %w", spec.Name, spec.Script, err)
	}
	return system.CompileWanderScript(spec.Script, src)
}

// OptionsFromSpec turns a spec into simulation options.
func OptionsFromSpec(spec *prefabs.HordeSpec) ([]Option, error) {
	fsm, err := FSMFromSpec(spec)
	if err != nil {
		return nil, err
	}
	script, err := ScriptFromSpec(spec)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithTuning(TuningFromSpec(spec)),
		WithFSM(fsm),
		WithWanderScript(script),
	}, nil
}

// ApplySpec hot-swaps tuning, state machine and script from a reloaded spec.
// Nothing changes when any part fails to load.
func (s *Simulation) ApplySpec(spec *prefabs.HordeSpec) error {
	if spec == nil {
		return fmt.Errorf("horde: nil spec")
	}
	fsm, err := FSMFromSpec(spec)
	if err != nil {
		return err
	}
	script, err := ScriptFromSpec(spec)
	if err != nil {
		return err
	}
	s.SetTuning(TuningFromSpec(spec))
	s.SetFSM(fsm)
	s.SetWanderScript(script)
	s.world.Logger().Info("spec applied", "name", spec.Name, "script", script.Name())
	return nil
}
