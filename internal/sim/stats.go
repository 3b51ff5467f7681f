package sim

// --- Population aggregates ---

// RoleCounts tallies the subtree's individuals by role.
func RoleCounts(g *Group) (cooperators, punishers, defectors int) {
	for _, in := range g.AllIndividuals() {
		switch in.role {
		case RoleCooperator:
			cooperators++
		case RolePunisher:
			punishers++
		case RoleDefector:
			defectors++
		}
	}
	return
}

// MeanPayoff averages payoff over the subtree. Zero for an empty
// group.
func MeanPayoff(g *Group) float64 {
	inds := g.AllIndividuals()
	if len(inds) == 0 {
		return 0
	}
	sum := 0.0
	for _, in := range inds {
		sum += in.payoff
	}
	return sum / float64(len(inds))
}

// CooperationRate is the fraction of individuals whose current
// decision is an act of cooperation. Pending decisions count as not
// cooperating.
func CooperationRate(g *Group) float64 {
	inds := g.AllIndividuals()
	if len(inds) == 0 {
		return 0
	}
	n := 0
	for _, in := range inds {
		if in.decision.Cooperated() {
			n++
		}
	}
	return float64(n) / float64(len(inds))
}

// CooperativeFraction is the fraction of cooperative roles
// (cooperators and punishers) in the subtree. Competition strength
// derives from it.
func CooperativeFraction(g *Group) float64 {
	inds := g.AllIndividuals()
	if len(inds) == 0 {
		return 0
	}
	n := 0
	for _, in := range inds {
		if in.role.IsCooperative() {
			n++
		}
	}
	return float64(n) / float64(len(inds))
}

// --- Helpers ---

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
