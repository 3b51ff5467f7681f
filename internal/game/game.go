// Package game renders a running multi-level selection simulation with
// Ebitengine: the group hierarchy as nested boxes, individuals as
// role-coloured cells, and each stage's interactions as dashed overlay
// lines.
package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/pohlkotter/multiselect/internal/sim"
)

const (
	screenW = 1280
	screenH = 800

	// hudH reserves the top strip for stage, counts, legend, and keys.
	hudH     = 96
	worldPad = 12

	// eventLineFrames is how long a stage's lines stay visible while
	// the simulation is auto-advancing. Single-step mode keeps them
	// until the next step.
	eventLineFrames = 30

	minSpeed = 0.1
	maxSpeed = 100.0
)

// eventLine is one dashed overlay line in world coordinates.
type eventLine struct {
	kind           sim.EventKind
	x1, y1, x2, y2 float32
}

// Game drives one interactive run. It owns the engine, advances stages
// on a frame accumulator, and renders the hierarchy with overlays.
type Game struct {
	sim  *sim.Simulation
	rep  *sim.Reporter
	lay  *layout
	snap *sim.GroupSnapshot

	// simSpeed is stages per second at 60 TPS: the accumulator gains
	// simSpeed per frame and one stage runs per 60 accumulated.
	simSpeed  float64
	tickAccum float64
	stepMode  bool

	// Overlay lines and raw events from the most recent stage.
	lines      []eventLine
	lineAge    int
	lastEvents []sim.InteractionEvent

	// Events gathered across the current turn for the reporter.
	turnEvents []sim.InteractionEvent

	inspector Inspector

	worldBuf *ebiten.Image
	inspBuf  *ebiten.Image

	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool

	// Transient HUD note, e.g. report copy feedback.
	note    string
	noteAge int

	err  error
	quit bool
}

// New builds a viewer around an existing simulation. The layout is
// computed once from the initial snapshot; competition and migration
// swap contents, never shape.
func New(s *sim.Simulation) *Game {
	snap := s.Snapshot()
	lay := newLayout(snap)
	return &Game{
		sim:      s,
		rep:      sim.NewReporter(s),
		lay:      lay,
		snap:     snap,
		simSpeed: 5.0,
		worldBuf: ebiten.NewImage(lay.w, lay.h),
		prevKeys: make(map[ebiten.Key]bool),
	}
}

func (g *Game) Update() error {
	g.handleInput()
	if g.quit {
		return ebiten.Termination
	}
	if g.err != nil {
		return g.err
	}

	g.lineAge++
	g.noteAge++
	if g.stepMode {
		return nil
	}

	// One stage per 60/simSpeed frames; fractions accumulate.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 60 {
		g.tickAccum -= 60
		g.stepStage()
	}
	return nil
}

// stepStage advances the engine one stage and refreshes everything
// derived from it: snapshot, overlay lines, and on turn end the
// reporter history.
func (g *Game) stepStage() {
	report, err := g.sim.AdvanceStage()
	if err != nil {
		g.err = err
		return
	}
	g.snap = g.sim.Snapshot()
	g.lines = eventLines(g.lay, report.Events)
	g.lastEvents = report.Events
	g.lineAge = 0

	g.turnEvents = append(g.turnEvents, report.Events...)
	if report.TurnDone {
		events := make([]sim.InteractionEvent, len(g.turnEvents))
		copy(events, g.turnEvents)
		g.rep.Collect(&sim.TurnReport{Turn: report.Turn, Events: events})
		g.turnEvents = g.turnEvents[:0]
	}
}

// eventLines maps a stage's events onto drawable lines. Refs that
// resolve to no box are skipped.
func eventLines(lay *layout, events []sim.InteractionEvent) []eventLine {
	lines := make([]eventLine, 0, len(events))
	for _, ev := range events {
		x1, y1, ok1 := lay.centerOf(ev.Source)
		x2, y2, ok2 := lay.centerOf(ev.Target)
		if !ok1 || !ok2 {
			continue
		}
		lines = append(lines, eventLine{kind: ev.Kind, x1: x1, y1: y1, x2: x2, y2: y2})
	}
	return lines
}

// stepSpeed moves a speed one notch up or down on the 1.5x ladder and
// clamps it to [minSpeed, maxSpeed].
func stepSpeed(cur float64, up bool) float64 {
	if up {
		cur *= 1.5
	} else {
		cur /= 1.5
	}
	if cur < minSpeed {
		cur = minSpeed
	}
	if cur > maxSpeed {
		cur = maxSpeed
	}
	return cur
}

// setNote shows a short-lived message in the HUD.
func (g *Game) setNote(s string) {
	g.note = s
	g.noteAge = 0
}

// handleInput processes edge-triggered keys and mouse clicks.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	currentKeys[ebiten.KeySpace] = ebiten.IsKeyPressed(ebiten.KeySpace)
	if currentKeys[ebiten.KeySpace] && !g.prevKeys[ebiten.KeySpace] {
		g.stepStage()
	}

	currentKeys[ebiten.KeyArrowUp] = ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	if currentKeys[ebiten.KeyArrowUp] && !g.prevKeys[ebiten.KeyArrowUp] {
		g.simSpeed = stepSpeed(g.simSpeed, true)
	}

	currentKeys[ebiten.KeyArrowDown] = ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	if currentKeys[ebiten.KeyArrowDown] && !g.prevKeys[ebiten.KeyArrowDown] {
		g.simSpeed = stepSpeed(g.simSpeed, false)
	}

	currentKeys[ebiten.KeyS] = ebiten.IsKeyPressed(ebiten.KeyS)
	if currentKeys[ebiten.KeyS] && !g.prevKeys[ebiten.KeyS] {
		g.stepMode = !g.stepMode
		g.tickAccum = 0
	}

	currentKeys[ebiten.KeyI] = ebiten.IsKeyPressed(ebiten.KeyI)
	if currentKeys[ebiten.KeyI] && !g.prevKeys[ebiten.KeyI] {
		g.inspector.rawView = !g.inspector.rawView
	}

	currentKeys[ebiten.KeyR] = ebiten.IsKeyPressed(ebiten.KeyR)
	if currentKeys[ebiten.KeyR] && !g.prevKeys[ebiten.KeyR] {
		g.copyRunReport()
	}

	currentKeys[ebiten.KeyEscape] = ebiten.IsKeyPressed(ebiten.KeyEscape)
	if currentKeys[ebiten.KeyEscape] && !g.prevKeys[ebiten.KeyEscape] {
		g.quit = true
	}

	// Mouse click: select the deepest box under the cursor. Empty
	// space deselects.
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && !g.prevMouseLeft {
		mx, my := ebiten.CursorPosition()
		g.handleClick(mx, my)
	}
	g.prevMouseLeft = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	g.prevKeys = currentKeys
}

// handleClick maps a screen point back into world space and updates
// the selection.
func (g *Game) handleClick(mx, my int) {
	scale, offX, offY := g.viewTransform()
	wx := (float64(mx) - offX) / scale
	wy := (float64(my) - offY) / scale
	g.inspector.selected = g.lay.hit(int(wx), int(wy))
}

// viewTransform returns the scale and offset that fit the world buffer
// under the HUD. Worlds smaller than the viewport render at 1x and
// are centred; larger ones shrink to fit.
func (g *Game) viewTransform() (scale, offX, offY float64) {
	availW := float64(screenW - 2*worldPad)
	availH := float64(screenH - hudH - 2*worldPad)
	scale = 1.0
	if s := availW / float64(g.lay.w); s < scale {
		scale = s
	}
	if s := availH / float64(g.lay.h); s < scale {
		scale = s
	}
	offX = (float64(screenW) - float64(g.lay.w)*scale) / 2
	offY = float64(hudH+worldPad) + (availH-float64(g.lay.h)*scale)/2
	return scale, offX, offY
}

func (g *Game) Layout(_, _ int) (int, int) {
	return screenW, screenH
}
