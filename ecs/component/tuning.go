package component

// Tuning holds every constant the simulation reads. Distances are in world
// units, durations in seconds and speeds in units per second.
type Tuning struct {
	AgentRadius    float64
	AgentElevation float64
	MaxHP          float64

	ChaseSpeed        float64
	WanderSpeed       float64
	WanderIntervalMin float64
	WanderIntervalMax float64
	RepathInterval    float64
	WaypointRadius    float64
	TurnRate          float64

	RamTriggerDistance   float64
	RamRetriggerDistance float64
	WindupDuration       float64
	WindupSpeed          float64
	ChargeDuration       float64
	ChargeSpeed          float64
	ChargeAccelTime      float64
	BackoffDuration      float64
	BackoffSpeed         float64
	CooldownDuration     float64
	CooldownSpeed        float64
	RamHitRadius         float64
	RamDamage            float64

	AttackRadius      float64
	AttackDPS         float64
	AttackDamage      float64
	AirborneTolerance float64

	FeelerLength         float64
	AvoidStrength        float64
	SeparationIterations int
	PlayerBubble         float64

	DeathDuration    float64
	HitFlashDuration float64

	Population             int
	SpawnMinPlayerDistance float64
	SpawnMinAgentDistance  float64
	SpawnAttempts          int
}

// DefaultTuning returns the stock horde configuration.
func DefaultTuning() Tuning {
	return Tuning{
		AgentRadius:    0.45,
		AgentElevation: 0.5,
		MaxHP:          100,

		ChaseSpeed:        2.2,
		WanderSpeed:       1.0,
		WanderIntervalMin: 1,
		WanderIntervalMax: 3,
		RepathInterval:    0.5,
		WaypointRadius:    0.3,
		TurnRate:          6,

		RamTriggerDistance:   3.0,
		RamRetriggerDistance: 3.6,
		WindupDuration:       0.45,
		WindupSpeed:          0.8,
		ChargeDuration:       0.45,
		ChargeSpeed:          7.0,
		ChargeAccelTime:      0.1,
		BackoffDuration:      0.4,
		BackoffSpeed:         2.0,
		CooldownDuration:     0.8,
		CooldownSpeed:        0.6,
		RamHitRadius:         1.2,
		RamDamage:            15,

		AttackRadius:      1.0,
		AttackDPS:         8,
		AttackDamage:      50,
		AirborneTolerance: 0.5,

		FeelerLength:         0.8,
		AvoidStrength:        1.5,
		SeparationIterations: 4,
		PlayerBubble:         0.9,

		DeathDuration:    1.2,
		HitFlashDuration: 0.15,

		Population:             8,
		SpawnMinPlayerDistance: 8,
		SpawnMinAgentDistance:  2,
		SpawnAttempts:          30,
	}
}
