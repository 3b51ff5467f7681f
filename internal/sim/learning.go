package sim

// learnedRole is one buffered adoption, applied only after every
// individual below the composite has taken its learning turn.
type learnedRole struct {
	target *Individual
	role   Role
}

// Learn runs the learning stage on the composite g. Every member of
// every leaf child samples a model whose role it may adopt: usually a
// groupmate, with the migration chance a member of another leaf child.
// Roles and payoffs are read from a snapshot taken before any
// learning, and adopted roles are buffered and applied at the end, so
// within one stage nobody learns from an already updated neighbor.
// Emits a learn event for every sampling, adopted or not. Returns a
// ScopeError when g is a leaf.
//
// Only leaf children learn. A composite of composites contributes
// nothing at its own level; the orchestrator calls Learn once per
// composite, so learning happens where the leaves live.
func Learn(g *Group, params ParameterSet, rng RandomSource, events *EventList) error {
	if g.IsLeaf() {
		return &ScopeError{Stage: StageLearning, Order: g.order}
	}
	snap := make(map[*Individual]IndividualSnapshot)
	for _, in := range g.AllIndividuals() {
		snap[in] = IndividualSnapshot{Role: in.role, Payoff: in.payoff, Decision: in.decision}
	}
	var pending []learnedRole
	for gi, child := range g.children {
		if !child.IsLeaf() {
			continue
		}
		for i, learner := range child.individuals {
			model, modelRef, ok := pickModel(g, gi, i, params, rng)
			if !ok {
				continue
			}
			pi := snap[learner].Payoff
			pc := snap[model].Payoff
			adoption := 0.5
			if pi+pc > 0 {
				adoption = pc / (pc + pi)
			}
			if rng.Float64() < adoption {
				pending = append(pending, learnedRole{target: learner, role: snap[model].Role})
			}
			events.Add(InteractionEvent{
				Kind:   EventLearn,
				Source: Ref{Path: []int{gi, i}},
				Target: modelRef,
			})
		}
	}
	for _, p := range pending {
		p.target.role = p.role
	}
	return nil
}

// pickModel chooses the learning model for individual i of leaf child
// gi: with probability 1-m a uniformly drawn groupmate, otherwise a
// uniform member of a uniformly drawn other leaf child. The migration
// draw is always consumed; an individual with nobody to sample (alone
// in its group, or no sibling leaf to migrate from) is skipped without
// further draws and without an event.
func pickModel(g *Group, gi, i int, params ParameterSet, rng RandomSource) (*Individual, Ref, bool) {
	child := g.children[gi]
	if rng.Float64() >= params.MigrationChance {
		if len(child.individuals) < 2 {
			return nil, Ref{}, false
		}
		idx := rng.Intn(len(child.individuals) - 1)
		if idx >= i {
			idx++
		}
		return child.individuals[idx], Ref{Path: []int{gi, idx}}, true
	}
	var others []int
	for j, sib := range g.children {
		if j != gi && sib.IsLeaf() && len(sib.individuals) > 0 {
			others = append(others, j)
		}
	}
	if len(others) == 0 {
		return nil, Ref{}, false
	}
	oj := others[rng.Intn(len(others))]
	other := g.children[oj]
	mi := rng.Intn(len(other.individuals))
	return other.individuals[mi], Ref{Path: []int{oj, mi}}, true
}
