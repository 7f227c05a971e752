package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// HordeSpec is the on-disk horde configuration. Zero values mean "use the
// default" when converted to simulation tuning.
type HordeSpec struct {
	Name       string         `yaml:"name"`
	Agent      AgentSpec      `yaml:"agent"`
	Chase      ChaseSpec      `yaml:"chase"`
	Ram        RamSpec        `yaml:"ram"`
	Contact    ContactSpec    `yaml:"contact"`
	Collision  CollisionSpec  `yaml:"collision"`
	Population PopulationSpec `yaml:"population"`
	Script     string         `yaml:"script"`
	FSM        *FSMSpec       `yaml:"fsm"`
	Render     RenderSpec     `yaml:"render"`
}

type AgentSpec struct {
	Radius           float64 `yaml:"radius"`
	Elevation        float64 `yaml:"elevation"`
	Health           float64 `yaml:"health"`
	DeathDuration    float64 `yaml:"death_duration"`
	HitFlashDuration float64 `yaml:"hit_flash_duration"`
	TurnRate         float64 `yaml:"turn_rate"`
}

type ChaseSpec struct {
	Speed             float64 `yaml:"speed"`
	WanderSpeed       float64 `yaml:"wander_speed"`
	WanderIntervalMin float64 `yaml:"wander_interval_min"`
	WanderIntervalMax float64 `yaml:"wander_interval_max"`
	RepathInterval    float64 `yaml:"repath_interval"`
	WaypointRadius    float64 `yaml:"waypoint_radius"`
}

type RamSpec struct {
	TriggerDistance   float64    `yaml:"trigger_distance"`
	RetriggerDistance float64    `yaml:"retrigger_distance"`
	HitRadius         float64    `yaml:"hit_radius"`
	Damage            float64    `yaml:"damage"`
	Windup            PhaseSpec  `yaml:"windup"`
	Charge            ChargeSpec `yaml:"charge"`
	Backoff           PhaseSpec  `yaml:"backoff"`
	Cooldown          PhaseSpec  `yaml:"cooldown"`
}

type PhaseSpec struct {
	Duration float64 `yaml:"duration"`
	Speed    float64 `yaml:"speed"`
}

type ChargeSpec struct {
	Duration  float64 `yaml:"duration"`
	Speed     float64 `yaml:"speed"`
	AccelTime float64 `yaml:"accel_time"`
}

type ContactSpec struct {
	Radius            float64 `yaml:"radius"`
	DPS               float64 `yaml:"dps"`
	AttackDamage      float64 `yaml:"attack_damage"`
	AirborneTolerance float64 `yaml:"airborne_tolerance"`
}

type CollisionSpec struct {
	FeelerLength         float64 `yaml:"feeler_length"`
	AvoidStrength        float64 `yaml:"avoid_strength"`
	SeparationIterations int     `yaml:"separation_iterations"`
	PlayerBubble         float64 `yaml:"player_bubble"`
}

type PopulationSpec struct {
	Target            int     `yaml:"target"`
	MinPlayerDistance float64 `yaml:"min_player_distance"`
	MinAgentDistance  float64 `yaml:"min_agent_distance"`
	Attempts          int     `yaml:"attempts"`
}

// FSMSpec describes the agent state machine. Each action or transition entry
// is a single-key map: `- start_timer: windup` or
// `- player_within: {to: ram_windup, arg: trigger}`.
type FSMSpec struct {
	Initial     string                      `yaml:"initial"`
	States      map[string]FSMStateSpec     `yaml:"states"`
	Transitions map[string][]map[string]any `yaml:"transitions"`
}

type FSMStateSpec struct {
	OnEnter []map[string]any `yaml:"on_enter"`
	While   []map[string]any `yaml:"while"`
	OnExit  []map[string]any `yaml:"on_exit"`
}

// RenderSpec holds presentation colours keyed by mode name.
type RenderSpec struct {
	Modes  map[string]*YAMLColor `yaml:"modes"`
	Dead   *YAMLColor            `yaml:"dead"`
	Flash  *YAMLColor            `yaml:"flash"`
	Walls  *YAMLColor            `yaml:"walls"`
	Player *YAMLColor            `yaml:"player"`
}

func LoadHordeSpec(filename string) (*HordeSpec, error) {
	if filename == "" {
		filename = "horde.yaml"
	}
	spec, err := LoadSpec[HordeSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns c, or fallback when c is unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
