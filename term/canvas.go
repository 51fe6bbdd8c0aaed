// Package term renders the heartfall particle engine into a terminal with
// tcell. It is an immediate-mode backend: every frame clears the screen and
// redraws each live particle, so destroyed particles leave no remnant.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/heartfall"
)

// Default virtual pixel size of one terminal cell. The engine simulates in
// virtual pixels so the same profiles tune both backends.
const (
	DefaultCellWidth  = 10
	DefaultCellHeight = 20
)

const heartRune = '♥'

// Canvas draws particles as heart glyphs. Each live particle owns one glyph
// resource; the canvas draws the attached glyphs every frame.
type Canvas struct {
	screen       tcell.Screen
	cellW, cellH float64
	bg           tcell.Color
	attached     []*glyph
}

// NewCanvas creates a canvas drawing to screen.
func NewCanvas(screen tcell.Screen, cellW, cellH float64) *Canvas {
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = DefaultCellHeight
	}
	return &Canvas{screen: screen, cellW: cellW, cellH: cellH, bg: tcell.ColorReset}
}

// Viewport reports the terminal size in virtual pixels.
func (c *Canvas) Viewport() (float64, float64) {
	w, h := c.screen.Size()
	return float64(w) * c.cellW, float64(h) * c.cellH
}

// ToVirtual converts a cell coordinate to the virtual pixel at its center.
func (c *Canvas) ToVirtual(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * c.cellW, (float64(row) + 0.5) * c.cellH
}

// Allocator returns an Allocator producing glyph resources for this canvas.
func (c *Canvas) Allocator() heartfall.Allocator {
	return func() (heartfall.Resource, error) {
		return &glyph{canvas: c}, nil
	}
}

// Attached returns the number of glyphs currently on the canvas.
func (c *Canvas) Attached() int {
	return len(c.attached)
}

// Draw clears the screen and draws every attached glyph. The caller shows
// the screen once any chrome is drawn on top.
func (c *Canvas) Draw() {
	c.screen.Clear()
	w, h := c.screen.Size()
	for _, g := range c.attached {
		if g.opacity <= 0 {
			continue
		}
		col := int(math.Floor(g.cx / c.cellW))
		row := int(math.Floor(g.cy / c.cellH))
		if col < 0 || row < 0 || col >= w || row >= h {
			continue
		}
		c.screen.SetContent(col, row, heartRune, nil, glyphStyle(g.opacity, c.bg))
	}
}

// glyphStyle fades the heart toward a dim red as opacity drops.
func glyphStyle(opacity float64, bg tcell.Color) tcell.Style {
	o := math.Max(0, math.Min(opacity, 1))
	r := int32(80 + 175*o)
	g := int32(20 + 31*o)
	b := int32(40 + 50*o)
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(r, g, b)).Background(bg)
}

// glyph is the drawing resource for one particle: a snapshot of its center
// and opacity taken on every engine update.
type glyph struct {
	canvas  *Canvas
	index   int
	cx, cy  float64
	opacity float64
}

func (g *glyph) Attach() {
	g.index = len(g.canvas.attached)
	g.canvas.attached = append(g.canvas.attached, g)
}

func (g *glyph) Update(p *heartfall.Particle) {
	size := p.Size()
	g.cx = p.X + size/2
	g.cy = p.Y + size/2
	g.opacity = p.Opacity
}

// Detach swap-removes the glyph from the attached list.
func (g *glyph) Detach() {
	list := g.canvas.attached
	last := len(list) - 1
	if g.index < 0 || g.index > last || list[g.index] != g {
		return
	}
	list[g.index] = list[last]
	list[g.index].index = g.index
	list[last] = nil
	g.canvas.attached = list[:last]
	g.index = -1
	g.opacity = 0
}
