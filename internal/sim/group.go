package sim

// Group is one node of the population hierarchy. Order-1 groups are
// leaves holding individuals; an order-n group holds children of order
// n-1. A group owns its subtree exclusively: no individual or child is
// ever shared between groups.
type Group struct {
	order       int
	individuals []*Individual // order 1 only
	children    []*Group      // order > 1 only
}

// NewLeaf creates an order-1 group owning the given individuals.
func NewLeaf(individuals []*Individual) *Group {
	return &Group{order: 1, individuals: individuals}
}

// NewComposite creates a group one order above its children. Children
// are assumed to share an order; Config validation guards the public
// construction path.
func NewComposite(children []*Group) *Group {
	order := 2
	if len(children) > 0 {
		order = children[0].order + 1
	}
	return &Group{order: order, children: children}
}

// IsLeaf reports whether the group holds individuals directly.
func (g *Group) IsLeaf() bool { return g.order == 1 }

// Order is the nesting order: 1 for leaves, parent = child + 1.
func (g *Group) Order() int { return g.order }

// Size is the number of direct members: individuals for a leaf,
// children otherwise.
func (g *Group) Size() int {
	if g.IsLeaf() {
		return len(g.individuals)
	}
	return len(g.children)
}

// Individuals returns a leaf's members. Nil for composites.
func (g *Group) Individuals() []*Individual { return g.individuals }

// Children returns a composite's members. Nil for leaves.
func (g *Group) Children() []*Group { return g.children }

// Leaves returns every order-1 group of the subtree in tree order.
func (g *Group) Leaves() []*Group {
	if g.IsLeaf() {
		return []*Group{g}
	}
	var leaves []*Group
	for _, child := range g.children {
		leaves = append(leaves, child.Leaves()...)
	}
	return leaves
}

// AllIndividuals returns every individual of the subtree in tree order.
func (g *Group) AllIndividuals() []*Individual {
	if g.IsLeaf() {
		return append([]*Individual(nil), g.individuals...)
	}
	var all []*Individual
	for _, child := range g.children {
		all = append(all, child.AllIndividuals()...)
	}
	return all
}

// NumIndividuals counts the subtree's individuals without allocating.
func (g *Group) NumIndividuals() int {
	if g.IsLeaf() {
		return len(g.individuals)
	}
	n := 0
	for _, child := range g.children {
		n += child.NumIndividuals()
	}
	return n
}
