package main

import (
	"image/color"

	"github.com/milk9111/mazehorde/ecs/component"
	"github.com/milk9111/mazehorde/prefabs"
	"golang.org/x/image/colornames"
)

type palette struct {
	modes  map[component.Mode]color.Color
	dead   color.Color
	flash  color.Color
	walls  color.Color
	player color.Color
}

var defaultModeColors = map[component.Mode]color.Color{
	component.ModeChase:       colornames.Firebrick,
	component.ModeRamWindup:   colornames.Darkorange,
	component.ModeRamCharge:   colornames.Gold,
	component.ModeRamBackoff:  colornames.Mediumpurple,
	component.ModeRamCooldown: colornames.Steelblue,
}

func newPalette(spec *prefabs.RenderSpec) palette {
	p := palette{
		modes:  make(map[component.Mode]color.Color, len(defaultModeColors)),
		dead:   colornames.Dimgray,
		flash:  colornames.White,
		walls:  colornames.Darkslategray,
		player: colornames.Seagreen,
	}
	for m, c := range defaultModeColors {
		p.modes[m] = c
	}
	if spec == nil {
		return p
	}
	for name, c := range spec.Modes {
		if m, ok := component.ParseMode(name); ok {
			p.modes[m] = c.Or(p.modes[m])
		}
	}
	p.dead = spec.Dead.Or(p.dead)
	p.flash = spec.Flash.Or(p.flash)
	p.walls = spec.Walls.Or(p.walls)
	p.player = spec.Player.Or(p.player)
	return p
}

func (p palette) agent(mode component.Mode, dead bool, flash float64) color.Color {
	switch {
	case dead:
		return p.dead
	case flash > 0:
		return p.flash
	}
	if c, ok := p.modes[mode]; ok {
		return c
	}
	return colornames.Magenta
}
