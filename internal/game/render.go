package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/pohlkotter/multiselect/internal/sim"
)

// Role and event colours on the dark theme.
var (
	colCooperator = color.RGBA{R: 80, G: 200, B: 100, A: 255}
	colPunisher   = color.RGBA{R: 168, G: 110, B: 240, A: 255}
	colDefector   = color.RGBA{R: 220, G: 70, B: 60, A: 255}

	colPunishLine  = color.RGBA{R: 235, G: 64, B: 52, A: 230}
	colLearnLine   = color.RGBA{R: 240, G: 210, B: 60, A: 230}
	colCompeteLine = color.RGBA{R: 245, G: 140, B: 40, A: 230}

	colText    = color.RGBA{R: 210, G: 214, B: 220, A: 255}
	colTextDim = color.RGBA{R: 140, G: 146, B: 154, A: 255}
)

func roleColor(r sim.Role) color.RGBA {
	switch r {
	case sim.RoleCooperator:
		return colCooperator
	case sim.RolePunisher:
		return colPunisher
	case sim.RoleDefector:
		return colDefector
	}
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}

func eventColor(k sim.EventKind) color.RGBA {
	switch k {
	case sim.EventPunish:
		return colPunishLine
	case sim.EventLearn:
		return colLearnLine
	case sim.EventCompete:
		return colCompeteLine
	}
	return color.RGBA{R: 200, G: 200, B: 200, A: 230}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 15, G: 16, B: 20, A: 255})

	// World content renders at 1x into worldBuf, then blits scaled.
	g.worldBuf.Clear()
	g.drawWorld(g.worldBuf)
	g.drawEventLines(g.worldBuf)

	scale, offX, offY := g.viewTransform()
	var blit ebiten.DrawImageOptions
	blit.GeoM.Scale(scale, scale)
	blit.GeoM.Translate(offX, offY)
	screen.DrawImage(g.worldBuf, &blit)

	g.drawHUD(screen)
	g.drawInspector(screen)
}

// drawWorld draws the group boxes and individual cells from the
// current snapshot. Groups come pre-order, so parents paint first and
// children sit on top.
func (g *Game) drawWorld(dst *ebiten.Image) {
	dst.Fill(color.RGBA{R: 22, G: 24, B: 30, A: 255})

	for _, gb := range g.lay.groups {
		col := color.RGBA{R: 70, G: 76, B: 88, A: 255}
		if gb.leaf {
			col = color.RGBA{R: 105, G: 112, B: 126, A: 255}
		}
		if g.isSelectedGroup(gb.path) {
			col = color.RGBA{R: 230, G: 230, B: 240, A: 255}
		}
		r := gb.rect
		vector.StrokeRect(dst, float32(r.x)+0.5, float32(r.y)+0.5, float32(r.w)-1, float32(r.h)-1, 1.0, col, false)
	}

	for _, ib := range g.lay.inds {
		leaf := g.snap.ChildAt(ib.path)
		if leaf == nil || ib.index >= len(leaf.Individuals) {
			continue
		}
		selected := g.isSelectedIndividual(ib.path, ib.index)
		drawIndividual(dst, ib.rect, leaf.Individuals[ib.index], selected)
	}
}

func (g *Game) isSelectedGroup(path []int) bool {
	sel := g.inspector.selected
	if sel == nil || sel.isIndividual() {
		return false
	}
	return pathsEqual(sel.path, path)
}

func (g *Game) isSelectedIndividual(path []int, index int) bool {
	sel := g.inspector.selected
	if sel == nil || !sel.isIndividual() {
		return false
	}
	return sel.index == index && pathsEqual(sel.path, path)
}

func pathsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// drawIndividual draws one member cell: role-coloured outline, payoff
// filling the cell bottom-up, and a checkmark when the current
// decision is cooperate.
func drawIndividual(dst *ebiten.Image, r rect, in sim.IndividualSnapshot, selected bool) {
	col := roleColor(in.Role)
	x := float32(r.x)
	y := float32(r.y)
	w := float32(r.w)
	h := float32(r.h)

	fillH := h * float32(in.Payoff)
	if fillH > 0 {
		fill := col
		fill.A = 100
		vector.FillRect(dst, x, y+h-fillH, w, fillH, fill, false)
	}

	thickness := float32(1.5)
	if selected {
		thickness = 3.0
	}
	vector.StrokeRect(dst, x, y, w, h, thickness, col, false)

	if in.Decision == sim.DecisionCooperate {
		white := color.RGBA{R: 240, G: 240, B: 240, A: 255}
		vector.StrokeLine(dst, x+w*0.22, y+h*0.55, x+w*0.42, y+h*0.75, 2.0, white, false)
		vector.StrokeLine(dst, x+w*0.42, y+h*0.75, x+w*0.80, y+h*0.28, 2.0, white, false)
	}
}

// drawEventLines draws the last stage's interactions as dashed lines.
// In auto mode they fade out after eventLineFrames; in single-step
// mode they stay until the next step.
func (g *Game) drawEventLines(dst *ebiten.Image) {
	if len(g.lines) == 0 {
		return
	}
	if !g.stepMode && g.lineAge >= eventLineFrames {
		return
	}
	for _, ln := range g.lines {
		drawDashedLine(dst, ln.x1, ln.y1, ln.x2, ln.y2, eventColor(ln.kind))
	}
}

func drawDashedLine(dst *ebiten.Image, x1, y1, x2, y2 float32, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	total := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if total < 1 {
		return
	}
	ndx := dx / total
	ndy := dy / total
	dashLen := float32(5)
	gapLen := float32(5)
	drawn := float32(0)
	for drawn < total {
		segEnd := drawn + dashLen
		if segEnd > total {
			segEnd = total
		}
		vector.StrokeLine(dst, x1+ndx*drawn, y1+ndy*drawn, x1+ndx*segEnd, y1+ndy*segEnd, 1.5, col, false)
		drawn = segEnd + gapLen
	}
}

// drawHUD draws the top strip: stage and turn, speed, role counts,
// mean payoff, the role legend, and the key help line.
func (g *Game) drawHUD(screen *ebiten.Image) {
	face := basicfont.Face7x13

	speedStr := fmt.Sprintf("Speed %.1f", g.simSpeed)
	if g.stepMode {
		speedStr = "Single Step Mode"
	}
	header := fmt.Sprintf("Stage %s   Turn %d   %s", g.sim.Stage().Label(), g.sim.Turn(), speedStr)
	text.Draw(screen, header, face, worldPad, 8+face.Ascent, colText)

	c, p, d := sim.RoleCounts(g.sim.Root())
	stats := fmt.Sprintf("C=%d  P=%d  D=%d   mean payoff %.3f   cooperation %.0f%%",
		c, p, d, sim.MeanPayoff(g.sim.Root()), sim.CooperationRate(g.sim.Root())*100)
	text.Draw(screen, stats, face, worldPad, 26+face.Ascent, colText)

	// Legend. The punisher entry disappears when the run excludes
	// punishers.
	lx := worldPad
	lx = drawLegendEntry(screen, face, lx, 46, colCooperator, "cooperator")
	if !g.sim.Params().DisablePunishers {
		lx = drawLegendEntry(screen, face, lx, 46, colPunisher, "punisher")
	}
	lx = drawLegendEntry(screen, face, lx, 46, colDefector, "defector")
	lx = drawLegendEntry(screen, face, lx, 46, colPunishLine, "punish")
	lx = drawLegendEntry(screen, face, lx, 46, colLearnLine, "learn")
	drawLegendEntry(screen, face, lx, 46, colCompeteLine, "compete")

	help := "SPACE: step stage   UP/DOWN: speed   S: single step   CLICK: inspect   I: raw view   R: copy report   ESC: quit"
	text.Draw(screen, help, face, worldPad, 66+face.Ascent, colTextDim)

	if g.note != "" && g.noteAge < 180 {
		nx := screenW - worldPad - len(g.note)*face.Advance
		text.Draw(screen, g.note, face, nx, 8+face.Ascent, colLearnLine)
	}

	vector.StrokeLine(screen, 0, hudH-6, screenW, hudH-6, 1.0, color.RGBA{R: 60, G: 66, B: 76, A: 255}, false)
}

// drawLegendEntry draws a colour swatch plus label at (x, y) and
// returns the x where the next entry starts.
func drawLegendEntry(screen *ebiten.Image, face *basicfont.Face, x, y int, col color.RGBA, label string) int {
	vector.FillRect(screen, float32(x), float32(y), 10, 10, col, false)
	text.Draw(screen, label, face, x+14, y+face.Ascent-1, colText)
	return x + 14 + len(label)*face.Advance + 18
}
