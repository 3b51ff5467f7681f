package sim

// IndividualSnapshot is a detached copy of one individual's observable
// state.
type IndividualSnapshot struct {
	Role     Role
	Payoff   float64
	Decision Decision
}

// GroupSnapshot mirrors one group and its subtree. It shares nothing
// with the live hierarchy, so renderers and tests can hold it across
// turns.
type GroupSnapshot struct {
	Order       int
	Individuals []IndividualSnapshot
	Children    []*GroupSnapshot
}

// Snapshot deep-copies the subtree rooted at g.
func (g *Group) Snapshot() *GroupSnapshot {
	s := &GroupSnapshot{Order: g.order}
	if g.IsLeaf() {
		s.Individuals = make([]IndividualSnapshot, len(g.individuals))
		for i, in := range g.individuals {
			s.Individuals[i] = IndividualSnapshot{Role: in.role, Payoff: in.payoff, Decision: in.decision}
		}
		return s
	}
	s.Children = make([]*GroupSnapshot, len(g.children))
	for i, child := range g.children {
		s.Children[i] = child.Snapshot()
	}
	return s
}

// IsLeaf reports whether the node mirrors a leaf group.
func (s *GroupSnapshot) IsLeaf() bool { return s.Order == 1 }

// NumIndividuals counts the snapshot subtree's individuals.
func (s *GroupSnapshot) NumIndividuals() int {
	if s.IsLeaf() {
		return len(s.Individuals)
	}
	n := 0
	for _, c := range s.Children {
		n += c.NumIndividuals()
	}
	return n
}

// ChildAt resolves an index path of group steps from this node. Nil
// when the path walks off the tree; an individual ref resolves its
// leading elements here and its last element against the resulting
// leaf's Individuals.
func (s *GroupSnapshot) ChildAt(path []int) *GroupSnapshot {
	node := s
	for _, i := range path {
		if i < 0 || i >= len(node.Children) {
			return nil
		}
		node = node.Children[i]
	}
	return node
}
