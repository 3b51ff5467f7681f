package game

import (
	"github.com/pohlkotter/multiselect/internal/sim"
)

// World layout constants (pixels at 1x in worldBuf space).
const (
	indCell   = 26 // side of one individual cell
	boxMargin = 5  // gap between nested boxes and cells
	leafCols  = 5  // max individuals per row inside a leaf
	gridCols  = 3  // max child columns below the top level
)

// rect is an axis-aligned box in world pixels.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(px, py int) bool {
	return px >= r.x && px < r.x+r.w && py >= r.y && py < r.y+r.h
}

func (r rect) center() (float32, float32) {
	return float32(r.x) + float32(r.w)/2, float32(r.y) + float32(r.h)/2
}

// groupBox is one placed group rectangle. Path is the index path from
// the root; the root's path is empty.
type groupBox struct {
	path []int
	rect rect
	leaf bool
}

// indBox is one placed individual cell inside its leaf group.
type indBox struct {
	path  []int // leaf group path
	index int   // member index within the leaf
	rect  rect
}

// selection names what the user clicked: an individual when index is
// zero or more, otherwise the group at path.
type selection struct {
	path  []int
	index int
}

func (s selection) isIndividual() bool { return s.index >= 0 }

func (s selection) ref() sim.Ref {
	if s.isIndividual() {
		return sim.Ref{Path: append(s.path[:len(s.path):len(s.path)], s.index)}
	}
	return sim.Ref{Path: s.path}
}

// matches reports whether an event ref touches the selection: exact
// for an individual, subtree prefix for a group.
func (s selection) matches(r sim.Ref) bool {
	p := s.ref().Path
	if s.isIndividual() {
		return pathsEqual(r.Path, p)
	}
	if len(r.Path) < len(p) {
		return false
	}
	return pathsEqual(r.Path[:len(p)], p)
}

// layout holds the world-space geometry for one population shape. The
// hierarchy keeps its shape for the whole run, so the layout is
// computed once and reused every frame.
type layout struct {
	w, h   int
	groups []groupBox // pre-order, parents before children
	inds   []indBox

	groupRects map[string]rect // keyed by ref string
	indRects   map[string]rect
}

// measured carries the computed size of one subtree before placing.
type measured struct {
	w, h         int
	cellW, cellH int
	cols         int
	children     []*measured
}

func newLayout(root *sim.GroupSnapshot) *layout {
	lay := &layout{
		groupRects: map[string]rect{},
		indRects:   map[string]rect{},
	}
	m := measure(root, 0)
	lay.place(root, m, nil, 0, 0)
	lay.w = m.w
	lay.h = m.h
	return lay
}

// measure sizes a subtree bottom-up. Leaves pack members into rows of
// at most leafCols; composites pack children into a uniform grid, one
// row at the top level and at most gridCols columns below it.
func measure(g *sim.GroupSnapshot, depth int) *measured {
	if g.IsLeaf() {
		n := len(g.Individuals)
		cols := n
		if cols > leafCols {
			cols = leafCols
		}
		if cols < 1 {
			cols = 1
		}
		rows := (n + cols - 1) / cols
		if rows < 1 {
			rows = 1
		}
		return &measured{
			w:    cols*indCell + (cols+1)*boxMargin,
			h:    rows*indCell + (rows+1)*boxMargin,
			cols: cols,
		}
	}

	m := &measured{children: make([]*measured, len(g.Children))}
	for i, c := range g.Children {
		cm := measure(c, depth+1)
		m.children[i] = cm
		if cm.w > m.cellW {
			m.cellW = cm.w
		}
		if cm.h > m.cellH {
			m.cellH = cm.h
		}
	}
	cols := len(g.Children)
	if depth > 0 && cols > gridCols {
		cols = gridCols
	}
	if cols < 1 {
		cols = 1
	}
	rows := (len(g.Children) + cols - 1) / cols
	if rows < 1 {
		rows = 1
	}
	m.cols = cols
	m.w = cols*m.cellW + (cols+1)*boxMargin
	m.h = rows*m.cellH + (rows+1)*boxMargin
	return m
}

// place positions a measured subtree with its top-left corner at
// (x, y) and records every box. Children sit top-left inside uniform
// grid cells, so siblings of different sizes stay aligned.
func (lay *layout) place(g *sim.GroupSnapshot, m *measured, path []int, x, y int) {
	box := groupBox{path: path, rect: rect{x: x, y: y, w: m.w, h: m.h}, leaf: g.IsLeaf()}
	lay.groups = append(lay.groups, box)
	lay.groupRects[sim.Ref{Path: path}.String()] = box.rect

	if g.IsLeaf() {
		for i := range g.Individuals {
			col := i % m.cols
			row := i / m.cols
			r := rect{
				x: x + boxMargin + col*(indCell+boxMargin),
				y: y + boxMargin + row*(indCell+boxMargin),
				w: indCell,
				h: indCell,
			}
			lay.inds = append(lay.inds, indBox{path: path, index: i, rect: r})
			ip := append(path[:len(path):len(path)], i)
			lay.indRects[sim.Ref{Path: ip}.String()] = r
		}
		return
	}

	for i, c := range g.Children {
		col := i % m.cols
		row := i / m.cols
		cx := x + boxMargin + col*(m.cellW+boxMargin)
		cy := y + boxMargin + row*(m.cellH+boxMargin)
		lay.place(c, m.children[i], append(path[:len(path):len(path)], i), cx, cy)
	}
}

// hit resolves a world-space point to the deepest element under it.
// Individual cells win over their leaf box. Groups are stored parents
// before children, so the reverse scan returns the deepest group.
func (lay *layout) hit(px, py int) *selection {
	for _, ib := range lay.inds {
		if ib.rect.contains(px, py) {
			return &selection{path: ib.path, index: ib.index}
		}
	}
	for i := len(lay.groups) - 1; i >= 0; i-- {
		if lay.groups[i].rect.contains(px, py) {
			return &selection{path: lay.groups[i].path, index: -1}
		}
	}
	return nil
}

// centerOf resolves an event ref to the center of its drawn box. An
// individual ref is one element longer than its leaf's path, so the
// individual map is checked first.
func (lay *layout) centerOf(ref sim.Ref) (float32, float32, bool) {
	key := ref.String()
	if r, ok := lay.indRects[key]; ok {
		cx, cy := r.center()
		return cx, cy, true
	}
	if r, ok := lay.groupRects[key]; ok {
		cx, cy := r.center()
		return cx, cy, true
	}
	return 0, 0, false
}
