package component

import "github.com/jakecoffman/cp"

// Transform is an agent's horizontal placement. Elevation is fixed per agent
// and only matters to presentation.
type Transform struct {
	Position  cp.Vector
	Elevation float64
	// Facing is a cosmetic heading in radians.
	Facing float64
}
