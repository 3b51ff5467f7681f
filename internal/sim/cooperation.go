package sim

// Cooperate runs the cooperation stage on every leaf below g in tree
// order. Each cooperative-role member draws once and cooperates unless
// the draw falls inside the error rate; defectors never draw.
// Decisions across a leaf are simultaneous: all are fixed before any
// payoff moves. Each member then pays the cooperation cost if it
// cooperated and receives half the leaf's cooperating fraction, with a
// single clamp into [0,1] at the end.
func Cooperate(g *Group, params ParameterSet, rng RandomSource) {
	if !g.IsLeaf() {
		for _, child := range g.children {
			Cooperate(child, params, rng)
		}
		return
	}
	cooperators := 0
	for _, in := range g.individuals {
		if !in.role.IsCooperative() {
			in.decision = DecisionDefect
			continue
		}
		if rng.Float64() > params.ErrorRate {
			in.decision = DecisionCooperate
			cooperators++
		} else {
			in.decision = DecisionDefect
		}
	}
	if len(g.individuals) == 0 {
		return
	}
	share := 0.5 * float64(cooperators) / float64(len(g.individuals))
	for _, in := range g.individuals {
		v := in.payoff + share
		if in.decision.Cooperated() {
			v -= params.CooperationCost
		}
		in.payoff = clamp01(v)
	}
}
