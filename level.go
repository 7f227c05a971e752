package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/mazehorde/nav"
)

const viewMargin = 24.0

// view maps world units onto the screen, fitting the whole maze.
type view struct {
	scale float64
	offX  float64
	offY  float64
}

func fitView(g *nav.Grid, screenW, screenH float64) view {
	worldW := float64(g.Width) * g.CellSize
	worldH := float64(g.Height) * g.CellSize
	if worldW <= 0 || worldH <= 0 {
		return view{scale: 1}
	}
	s := math.Min((screenW-2*viewMargin)/worldW, (screenH-2*viewMargin)/worldH)
	if s <= 0 {
		s = 1
	}
	return view{
		scale: s,
		offX:  (screenW-worldW*s)/2 - g.Origin.X*s,
		offY:  (screenH-worldH*s)/2 - g.Origin.Y*s,
	}
}

func (v view) toScreen(p cp.Vector) (float32, float32) {
	return float32(p.X*v.scale + v.offX), float32(p.Y*v.scale + v.offY)
}

func (v view) toWorld(x, y int) cp.Vector {
	return cp.Vector{X: (float64(x) - v.offX) / v.scale, Y: (float64(y) - v.offY) / v.scale}
}

func (v view) length(d float64) float32 {
	return float32(d * v.scale)
}

// mazeLayer fills every wall box. The walls never change, so they are
// rendered once into a cached image.
type mazeLayer struct {
	img   *ebiten.Image
	walls []cp.BB
	v     view
	color color.Color
}

func newMazeLayer(walls []cp.BB, v view, c color.Color) *mazeLayer {
	return &mazeLayer{walls: walls, v: v, color: c}
}

func (m *mazeLayer) Draw(screen *ebiten.Image) {
	if m.img == nil {
		b := screen.Bounds()
		m.img = ebiten.NewImage(b.Dx(), b.Dy())
		for _, bb := range m.walls {
			x0, y0 := m.v.toScreen(cp.Vector{X: bb.L, Y: bb.B})
			x1, y1 := m.v.toScreen(cp.Vector{X: bb.R, Y: bb.T})
			vector.FillRect(m.img, x0, y0, x1-x0, y1-y0, m.color, false)
		}
	}
	screen.DrawImage(m.img, nil)
}

// Invalidate drops the cached image so the next Draw re-renders it.
func (m *mazeLayer) Invalidate(c color.Color) {
	m.color = c
	if m.img != nil {
		m.img.Deallocate()
		m.img = nil
	}
}
