package component

import "github.com/jakecoffman/cp"

// AIState is the per-agent state machine record.
type AIState struct {
	Mode Mode
	// Timer counts down within the current mode.
	Timer float64
	// Elapsed counts up from mode entry.
	Elapsed      float64
	RamDirection cp.Vector
	RamHasHit    bool
	// Entered is set once the initial mode's entry actions have run.
	Entered bool
}

// Steering is the movement intent the state machine hands to the steering
// resolver for the current tick. A zero Direction means hold position.
type Steering struct {
	Direction cp.Vector
	Speed     float64
	// Face is the cosmetic look direction; zero means face the travel direction.
	Face cp.Vector
}
