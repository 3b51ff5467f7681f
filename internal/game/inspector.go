package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/pohlkotter/multiselect/internal/sim"
)

// Inspector panel geometry. The panel renders into an offscreen
// buffer at 1x and is blitted at inspScale.
const (
	inspScale = 2   // scale factor for inspector text rendering
	inspBufW  = 230 // buffer width in pixels (~38 chars at debug font)
	inspBufH  = 300 // buffer height in pixels
	inspPad   = 6   // padding in buffer-space pixels
	inspLineH = 13  // line height in buffer-space pixels
)

// Inspector holds the selected box and view toggle state.
type Inspector struct {
	selected *selection
	rawView  bool // false = curated, true = raw dump
}

// drawInspector renders the panel into an offscreen buffer at 1x, then
// blits it onto the screen at inspScale for readability.
func (g *Game) drawInspector(screen *ebiten.Image) {
	sel := g.inspector.selected
	if sel == nil {
		return
	}
	if g.inspBuf == nil {
		g.inspBuf = ebiten.NewImage(inspBufW, inspBufH)
	}
	g.inspBuf.Clear()

	buf := g.inspBuf
	bw := float32(inspBufW)
	bh := float32(inspBufH)

	// Panel background.
	panelBg := color.RGBA{R: 14, G: 15, B: 19, A: 235}
	panelBorder := color.RGBA{R: 80, G: 88, B: 100, A: 255}
	vector.FillRect(buf, 0, 0, bw, bh, panelBg, false)
	vector.StrokeRect(buf, 0, 0, bw, bh, 1.0, panelBorder, false)
	vector.StrokeLine(buf, 1, 1, bw-1, 1, 1.0, color.RGBA{R: 110, G: 120, B: 135, A: 70}, false)

	lx := inspPad
	ly := inspPad

	kindStr := "GROUP"
	if sel.isIndividual() {
		kindStr = "INDIVIDUAL"
	}
	title := fmt.Sprintf("[ %s %s ]", kindStr, sel.ref())
	ebitenutil.DebugPrintAt(buf, title, lx, ly)
	ly += inspLineH + 2

	viewName := "CURATED"
	if g.inspector.rawView {
		viewName = "RAW"
	}
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("view: %s  [I] toggle", viewName), lx, ly)
	ly += inspLineH + 4

	vector.StrokeLine(buf, float32(lx), float32(ly), bw-float32(inspPad), float32(ly), 1.0, panelBorder, false)
	ly += 4

	if g.inspector.rawView {
		g.drawInspectorRaw(buf, *sel, lx, ly)
	} else {
		g.drawInspectorCurated(buf, *sel, lx, ly)
	}

	// Bottom-right, clear of the HUD strip.
	px := screenW - inspBufW*inspScale - 12
	py := screenH - inspBufH*inspScale - 12
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(inspScale), float64(inspScale))
	opts.GeoM.Translate(float64(px), float64(py))
	screen.DrawImage(buf, opts)
}

// drawInspectorCurated draws the organised, human-readable view.
func (g *Game) drawInspectorCurated(buf *ebiten.Image, sel selection, lx, ly int) {
	line := func(text string) {
		ebitenutil.DebugPrintAt(buf, text, lx, ly)
		ly += inspLineH
	}
	section := func(title string) {
		ly += 3
		ebitenutil.DebugPrintAt(buf, "-- "+title+" --", lx, ly)
		ly += inspLineH
	}
	bar := func(label string, v float64) {
		filled := int(v * 14)
		if filled < 0 {
			filled = 0
		}
		if filled > 14 {
			filled = 14
		}
		rest := 14 - filled
		b := ""
		for i := 0; i < filled; i++ {
			b += "█"
		}
		for i := 0; i < rest; i++ {
			b += "░"
		}
		ebitenutil.DebugPrintAt(buf, fmt.Sprintf("%-8s %s %.2f", label, b, v), lx, ly)
		ly += inspLineH
	}

	if sel.isIndividual() {
		in, ok := g.individualAt(sel)
		if !ok {
			line("selection out of range")
			return
		}
		section("MEMBER")
		line(fmt.Sprintf("role:     %s", in.Role))
		line(fmt.Sprintf("decision: %s", in.Decision))
		bar("payoff", in.Payoff)

		leaf := g.snap.ChildAt(sel.path)
		if leaf != nil {
			c, p, d := snapshotRoleCounts(leaf)
			section("HOME GROUP")
			line(fmt.Sprintf("members: %d  C=%d P=%d D=%d", len(leaf.Individuals), c, p, d))
			bar("mean", snapshotMeanPayoff(leaf))
		}
	} else {
		node := g.snap.ChildAt(sel.path)
		if node == nil {
			line("selection out of range")
			return
		}
		c, p, d := snapshotRoleCounts(node)
		section("GROUP")
		line(fmt.Sprintf("order: %d  members: %d", node.Order, node.NumIndividuals()))
		if !node.IsLeaf() {
			line(fmt.Sprintf("children: %d", len(node.Children)))
		}
		line(fmt.Sprintf("C=%d  P=%d  D=%d", c, p, d))
		bar("mean", snapshotMeanPayoff(node))
		bar("coop", snapshotCooperativeFraction(node))
	}

	section("RECENT EVENTS")
	shown := 0
	for i := len(g.lastEvents) - 1; i >= 0 && shown < 6; i-- {
		ev := g.lastEvents[i]
		if !sel.matches(ev.Source) && !sel.matches(ev.Target) {
			continue
		}
		line(ev.String())
		shown++
	}
	if shown == 0 {
		line("(none this stage)")
	}
}

// drawInspectorRaw dumps the selection's snapshot fields verbatim.
func (g *Game) drawInspectorRaw(buf *ebiten.Image, sel selection, lx, ly int) {
	line := func(text string) {
		ebitenutil.DebugPrintAt(buf, text, lx, ly)
		ly += inspLineH
	}

	line(fmt.Sprintf("ref=%s ind=%v", sel.ref(), sel.isIndividual()))
	line(fmt.Sprintf("turn=%d stage=%s", g.sim.Turn(), g.sim.Stage()))

	if sel.isIndividual() {
		in, ok := g.individualAt(sel)
		if !ok {
			line("out of range")
			return
		}
		line(fmt.Sprintf("role=%s payoff=%.4f", in.Role, in.Payoff))
		line(fmt.Sprintf("decision=%s", in.Decision))
		return
	}

	node := g.snap.ChildAt(sel.path)
	if node == nil {
		line("out of range")
		return
	}
	c, p, d := snapshotRoleCounts(node)
	line(fmt.Sprintf("order=%d leaf=%v n=%d", node.Order, node.IsLeaf(), node.NumIndividuals()))
	line(fmt.Sprintf("C=%d P=%d D=%d", c, p, d))
	line(fmt.Sprintf("mean=%.4f coop=%.4f", snapshotMeanPayoff(node), snapshotCooperativeFraction(node)))
	if !node.IsLeaf() {
		line("-- children --")
		for i, ch := range node.Children {
			if i >= 8 {
				line(fmt.Sprintf("  +%d more", len(node.Children)-8))
				break
			}
			cc, cp, cd := snapshotRoleCounts(ch)
			line(fmt.Sprintf("  %d: n=%d C=%d P=%d D=%d", i, ch.NumIndividuals(), cc, cp, cd))
		}
		return
	}
	line("-- members --")
	for i, in := range node.Individuals {
		if i >= 10 {
			line(fmt.Sprintf("  +%d more", len(node.Individuals)-10))
			break
		}
		mark := " "
		if in.Decision == sim.DecisionCooperate {
			mark = "*"
		}
		line(fmt.Sprintf("  %d%s %s %.3f", i, mark, in.Role.Letter(), in.Payoff))
	}
}

// individualAt fetches the selected member from the current snapshot.
func (g *Game) individualAt(sel selection) (sim.IndividualSnapshot, bool) {
	leaf := g.snap.ChildAt(sel.path)
	if leaf == nil || !leaf.IsLeaf() || sel.index < 0 || sel.index >= len(leaf.Individuals) {
		return sim.IndividualSnapshot{}, false
	}
	return leaf.Individuals[sel.index], true
}

func snapshotRoleCounts(s *sim.GroupSnapshot) (c, p, d int) {
	if s.IsLeaf() {
		for _, in := range s.Individuals {
			switch in.Role {
			case sim.RoleCooperator:
				c++
			case sim.RolePunisher:
				p++
			case sim.RoleDefector:
				d++
			}
		}
		return c, p, d
	}
	for _, ch := range s.Children {
		cc, pp, dd := snapshotRoleCounts(ch)
		c += cc
		p += pp
		d += dd
	}
	return c, p, d
}

func snapshotMeanPayoff(s *sim.GroupSnapshot) float64 {
	sum := 0.0
	n := 0
	var walk func(*sim.GroupSnapshot)
	walk = func(g *sim.GroupSnapshot) {
		for _, in := range g.Individuals {
			sum += in.Payoff
			n++
		}
		for _, ch := range g.Children {
			walk(ch)
		}
	}
	walk(s)
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func snapshotCooperativeFraction(s *sim.GroupSnapshot) float64 {
	coop := 0
	n := 0
	var walk func(*sim.GroupSnapshot)
	walk = func(g *sim.GroupSnapshot) {
		for _, in := range g.Individuals {
			if in.Role.IsCooperative() {
				coop++
			}
			n++
		}
		for _, ch := range g.Children {
			walk(ch)
		}
	}
	walk(s)
	if n == 0 {
		return 0
	}
	return float64(coop) / float64(n)
}
