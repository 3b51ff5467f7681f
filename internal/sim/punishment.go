package sim

// Punish runs the punishment stage on every leaf below g in tree
// order. Within a leaf every punisher fines every member that did not
// cooperate: the penalty and the punisher's own cost are both split
// evenly over the defectors, and each transfer clamps on its own. A
// punisher that failed to cooperate is a defector too and gets fined
// like any other, including by itself. Emits one punish event per
// punisher/defector pair. Punishment is deterministic; it consumes no
// draws.
func Punish(g *Group, params ParameterSet, events *EventList) {
	punishWalk(g, params, events, nil)
}

func punishWalk(g *Group, params ParameterSet, events *EventList, path []int) {
	if !g.IsLeaf() {
		for i, child := range g.children {
			punishWalk(child, params, events, append(path[:len(path):len(path)], i))
		}
		return
	}
	var defectors []int
	for i, in := range g.individuals {
		if !in.decision.Cooperated() {
			defectors = append(defectors, i)
		}
	}
	if len(defectors) == 0 {
		return
	}
	penalty := params.PunishmentPenalty / float64(len(defectors))
	cost := params.PunisherCost / float64(len(defectors))
	for u, punisher := range g.individuals {
		if punisher.role != RolePunisher {
			continue
		}
		for _, d := range defectors {
			target := g.individuals[d]
			target.payoff = clamp01(target.payoff - penalty)
			punisher.payoff = clamp01(punisher.payoff - cost)
			events.Add(InteractionEvent{
				Kind:   EventPunish,
				Source: refAt(path, u),
				Target: refAt(path, d),
			})
		}
	}
}
