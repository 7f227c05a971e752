package main

import (
	"fmt"
	"sync"

	"github.com/milk9111/mazehorde/horde"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"
)

type playerSnapshot struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Elevation float64 `yaml:"elevation"`
	HP        float64 `yaml:"hp"`
	State     string  `yaml:"state"`
}

type agentSnapshot struct {
	Entity string  `yaml:"entity"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	HP     float64 `yaml:"hp"`
	Dead   bool    `yaml:"dead,omitempty"`
	Mode   string  `yaml:"mode"`
	Cell   [2]int  `yaml:"cell,flow"`
}

type snapshot struct {
	Level  string          `yaml:"level"`
	Frame  int             `yaml:"frame"`
	Frozen bool            `yaml:"frozen"`
	Player playerSnapshot  `yaml:"player"`
	Agents []agentSnapshot `yaml:"agents"`
}

func newSnapshot(level string, frame int, frozen bool, p *Player, agents []horde.AgentView) snapshot {
	s := snapshot{
		Level:  level,
		Frame:  frame,
		Frozen: frozen,
		Player: playerSnapshot{
			X:         p.Pos.X,
			Y:         p.Pos.Y,
			Elevation: p.Elevation,
			HP:        p.HP,
			State:     p.StateName(),
		},
		Agents: make([]agentSnapshot, 0, len(agents)),
	}
	for _, a := range agents {
		s.Agents = append(s.Agents, agentSnapshot{
			Entity: a.Entity.String(),
			X:      a.Position.X,
			Y:      a.Position.Y,
			HP:     a.HP,
			Dead:   a.Dead,
			Mode:   a.Mode.String(),
			Cell:   [2]int{a.Cell.X, a.Cell.Y},
		})
	}
	return s
}

func buildSnapshot(g *Game) ([]byte, error) {
	s := newSnapshot(g.level.Name, g.frames, g.sim.Frozen(), g.player, g.sim.Agents())
	return yaml.Marshal(&s)
}

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// copySnapshot puts a YAML dump of the horde on the system clipboard so a
// bad frame can be pasted into a bug report.
func (g *Game) copySnapshot() {
	clipboardOnce.Do(func() {
		clipboardErr = clipboard.Init()
	})
	if clipboardErr != nil {
		g.logger.Warn("clipboard unavailable", "err", clipboardErr)
		g.status = "clipboard unavailable"
		return
	}

	data, err := buildSnapshot(g)
	if err != nil {
		g.logger.Error("snapshot", "err", err)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.status = fmt.Sprintf("copied %d agents", g.sim.Len())
	g.logger.Debug("snapshot copied", "bytes", len(data))
}
