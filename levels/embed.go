package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/nav"
)

//go:embed *.json
var LevelsFS embed.FS

// DefaultLevel is loaded when the host names none.
const DefaultLevel = "crossroads"

// Level is a maze: rows of '#' (wall) and '.' (floor), top row first.
type Level struct {
	Name     string   `json:"name"`
	CellSize float64  `json:"cell_size"`
	OriginX  float64  `json:"origin_x,omitempty"`
	OriginY  float64  `json:"origin_y,omitempty"`
	Rows     []string `json:"rows"`
	Spawn    Spawn    `json:"player_spawn"`
}

// Spawn is the player's starting cell.
type Spawn struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid builds the walkability grid of the level.
func (l *Level) Grid() *nav.Grid {
	cs := l.CellSize
	if cs <= 0 {
		cs = 1
	}
	return nav.GridFromRows(l.Rows, cs, cp.Vector{X: l.OriginX, Y: l.OriginY})
}

// PlayerStart returns the player spawn in world space, moved onto the nearest
// floor cell when the configured cell is a wall.
func (l *Level) PlayerStart(g *nav.Grid) cp.Vector {
	p := g.CellToWorld(nav.Cell{X: l.Spawn.X, Y: l.Spawn.Y})
	if c, ok := g.NearestWalkable(p); ok {
		return g.CellToWorld(c)
	}
	return p
}

// validate requires a rectangular maze closed by a wall border. Cells past
// the edge have no wall boxes, so an open edge would let bodies walk off the
// grid.
func (l *Level) validate() error {
	if len(l.Rows) == 0 {
		return fmt.Errorf("level %s: no rows", l.Name)
	}
	width := len(l.Rows[0])
	last := len(l.Rows) - 1
	floor := false
	for y, row := range l.Rows {
		if len(row) != width {
			return fmt.Errorf("level %s: row %d has width %d, want %d", l.Name, y, len(row), width)
		}
		for x := 0; x < width; x++ {
			edge := y == 0 || y == last || x == 0 || x == width-1
			switch {
			case row[x] == '#':
			case edge:
				return fmt.Errorf("level %s: open border at cell (%d,%d)", l.Name, x, y)
			default:
				floor = true
			}
		}
	}
	if !floor {
		return fmt.Errorf("level %s: no floor cells", l.Name)
	}
	return nil
}

func LoadLevelFromFS(name string) (*Level, error) {
	if name == "" {
		name = DefaultLevel
	}
	file := path.Base(name)
	if !strings.HasSuffix(file, ".json") {
		file += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, file)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(file, ".json")
	}
	if err := lvl.validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Names lists the embedded levels.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if n, ok := strings.CutSuffix(e.Name(), ".json"); ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}
