package component

import "github.com/jakecoffman/cp"

// Wander drives undirected motion while an agent has no path.
type Wander struct {
	Direction cp.Vector
	Timer     float64
	Interval  float64
}
