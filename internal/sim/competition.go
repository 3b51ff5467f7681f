package sim

// capturedState is the winner's side of one decided contest: deep
// copies of its individuals in tree order, taken when the contest was
// decided.
type capturedState struct {
	loser  *Group
	states []*Individual
}

// Compete runs the competition stage between the direct children of g.
// Each child draws once against the competition chance; an entrant
// picks a uniform opponent and contests it, the more cooperative side
// winning with probability 0.5 + (c1-c2)/2, clamped. Outcomes are
// decided against pre-stage states: winner states are captured at
// contest time and applied only after every child has drawn.
// Replacement is positional: the loser keeps its group structure and
// every individual in it becomes a fresh copy of the winner's
// corresponding individual. A group losing twice ends with the later
// contest's states. Emits a compete event per contest, won or lost.
// Returns a ScopeError when g is a leaf; a single child has nobody to
// contest and the stage is a silent no-op.
func Compete(g *Group, params ParameterSet, rng RandomSource, events *EventList) error {
	if g.IsLeaf() {
		return &ScopeError{Stage: StageCompetition, Order: g.order}
	}
	if len(g.children) < 2 {
		return nil
	}
	var results []capturedState
	for i, child := range g.children {
		if rng.Float64() >= params.CompetitionChance {
			continue
		}
		oi := rng.Intn(len(g.children) - 1)
		if oi >= i {
			oi++
		}
		opponent := g.children[oi]
		c1 := CooperativeFraction(child)
		c2 := CooperativeFraction(opponent)
		winChance := clamp01(0.5 + (c1-c2)/2)
		if rng.Float64() < winChance {
			results = append(results, capturedState{loser: opponent, states: captureIndividuals(child)})
		} else {
			results = append(results, capturedState{loser: child, states: captureIndividuals(opponent)})
		}
		events.Add(InteractionEvent{
			Kind:   EventCompete,
			Source: Ref{Path: []int{i}},
			Target: Ref{Path: []int{oi}},
		})
	}
	for _, r := range results {
		restoreIndividuals(r.loser, r.states)
	}
	return nil
}

// captureIndividuals deep-copies the subtree's individuals in tree
// order.
func captureIndividuals(g *Group) []*Individual {
	inds := g.AllIndividuals()
	states := make([]*Individual, len(inds))
	for i, in := range inds {
		states[i] = in.clone()
	}
	return states
}

// restoreIndividuals overwrites the subtree's individuals position by
// position with fresh copies of the captured states. Group objects
// stay where they are; only the individuals are replaced.
func restoreIndividuals(g *Group, states []*Individual) {
	if g.IsLeaf() {
		for i := range g.individuals {
			g.individuals[i] = states[i].clone()
		}
		return
	}
	offset := 0
	for _, child := range g.children {
		n := child.NumIndividuals()
		restoreIndividuals(child, states[offset:offset+n])
		offset += n
	}
}
