package component

import "github.com/milk9111/mazehorde/nav"

// Pathfinding stores the result of the last successful search. Cursor is the
// index of the next unreached waypoint; Path[0] is the cell the search
// started from.
type Pathfinding struct {
	Path        []nav.Cell
	Cursor      int
	RepathTimer float64
	Goal        nav.Cell
}

// HasPath reports whether there are unreached waypoints left.
func (p *Pathfinding) HasPath() bool {
	return p != nil && p.Cursor < len(p.Path)
}

// Clear drops the current path.
func (p *Pathfinding) Clear() {
	if p == nil {
		return
	}
	p.Path = p.Path[:0]
	p.Cursor = 0
}
