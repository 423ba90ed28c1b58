// Package render draws the domain overlay on a terminal screen
package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/domain"
	"github.com/lixenwraith/celldomain/parameter"
)

// Overlay palette
var (
	RgbBackground   = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbBlockedBg    = tcell.NewRGBColor(70, 30, 30)    // Dark red for blocked domains
	RgbBoundary     = tcell.NewRGBColor(255, 165, 0)   // Orange boundary lines
	RgbStatusText   = tcell.NewRGBColor(0, 0, 0)       // Dark text for status
	RgbStatusBg     = tcell.NewRGBColor(135, 206, 250) // Light sky blue
	RgbCursor       = tcell.NewRGBColor(255, 255, 255) // White cursor
	RgbDomainColors = []tcell.Color{
		tcell.NewRGBColor(100, 150, 255), // Blue
		tcell.NewRGBColor(0, 200, 0),     // Green
		tcell.NewRGBColor(255, 255, 0),   // Yellow
		tcell.NewRGBColor(0, 200, 200),   // Cyan
		tcell.NewRGBColor(255, 120, 120), // Red
		tcell.NewRGBColor(200, 200, 200), // Light gray
	}
)

// Glyphs used by the overlay
const (
	GlyphBoundary = '│'
	GlyphSpacer   = ' '
)

// Status is the line drawn under the grid
type Status struct {
	Tick    uint64
	Cursor  core.Point
	Muted   bool
	Message string
}

// OverlayRenderer draws each cell as its domain glyph followed by a spacer column
// Vertical boundaries occupy the spacer, horizontal boundaries underline the row above
type OverlayRenderer struct {
	screen   tcell.Screen
	cellSize int
	originX  int
	originY  int
}

// NewOverlayRenderer creates a renderer with the grid at the top-left corner
func NewOverlayRenderer(screen tcell.Screen, cellSize int) *OverlayRenderer {
	return &OverlayRenderer{screen: screen, cellSize: cellSize}
}

// Glyph returns the character for a domain id
func Glyph(id domain.DomainID) rune {
	g := []rune(parameter.OverlayDomainGlyphs)
	return g[int(id)%len(g)]
}

// ScreenPos returns the screen position of a cell's glyph
func (r *OverlayRenderer) ScreenPos(p core.Point) (int, int) {
	return r.originX + 2*p.X, r.originY + p.Y
}

// CellAt maps a screen position back to a cell, spacer columns belong to the cell on their left
func (r *OverlayRenderer) CellAt(sx, sy int, width, height int) (core.Point, bool) {
	p := core.Point{X: (sx - r.originX) / 2, Y: sy - r.originY}
	if sx < r.originX || sy < r.originY || p.X >= width || p.Y >= height {
		return core.Point{}, false
	}
	return p, true
}

// Draw renders a full frame
func (r *OverlayRenderer) Draw(ov domain.Overlay, st Status) {
	r.screen.Clear()
	base := tcell.StyleDefault.Background(RgbBackground)

	heads := make(map[core.Point]bool, len(ov.Heads))
	for _, h := range ov.Heads {
		heads[h.Root] = true
	}

	for _, c := range ov.Cells {
		style := base.Foreground(RgbDomainColors[int(c.Domain)%len(RgbDomainColors)])
		if c.Blocked {
			style = style.Background(RgbBlockedBg)
		}
		if heads[c.Cell] {
			style = style.Bold(true)
		}
		if c.Cell == st.Cursor {
			style = style.Reverse(true)
		}
		x, y := r.ScreenPos(c.Cell)
		r.screen.SetContent(x, y, Glyph(c.Domain), nil, style)
		r.screen.SetContent(x+1, y, GlyphSpacer, nil, base)
	}

	r.drawBoundaries(ov, base.Foreground(RgbBoundary))
	r.drawStatus(ov, st)
	r.screen.Show()
}

func (r *OverlayRenderer) drawBoundaries(ov domain.Overlay, style tcell.Style) {
	for _, s := range ov.Boundaries {
		switch {
		case s.Vertical():
			col := s.A.X / r.cellSize
			for row := s.A.Y / r.cellSize; row < s.B.Y/r.cellSize; row++ {
				x, y := r.ScreenPos(core.Point{X: col - 1, Y: row})
				r.screen.SetContent(x+1, y, GlyphBoundary, nil, style)
			}
		case s.Horizontal():
			row := s.A.Y/r.cellSize - 1
			for col := s.A.X / r.cellSize; col < s.B.X/r.cellSize; col++ {
				x, y := r.ScreenPos(core.Point{X: col, Y: row})
				mainc, comb, cur, _ := r.screen.GetContent(x, y)
				r.screen.SetContent(x, y, mainc, comb, cur.Underline(true))
			}
		}
	}
}

func (r *OverlayRenderer) drawStatus(ov domain.Overlay, st Status) {
	style := tcell.StyleDefault.Foreground(RgbStatusText).Background(RgbStatusBg)
	cursor := "-"
	if c, ok := ov.At(st.Cursor); ok {
		state := "open"
		if c.Blocked {
			state = "blocked"
		}
		cursor = fmt.Sprintf("%v domain %d %s", c.Cell, c.Domain, state)
	}
	sound := "on"
	if st.Muted {
		sound = "off"
	}
	line := fmt.Sprintf(" tick %d | domains %d | edges %d | %s | sound %s ", st.Tick, len(ov.Heads), ov.RawEdges, cursor, sound)
	if st.Message != "" {
		line += "| " + st.Message + " "
	}

	_, y := r.ScreenPos(core.Point{Y: ov.Height + 1})
	for i, ch := range []rune(line) {
		r.screen.SetContent(r.originX+i, y, ch, nil, style)
	}
}
