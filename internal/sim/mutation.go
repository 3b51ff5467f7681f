package sim

// Mutate runs the mutation stage over every individual below g in tree
// order. Each individual draws once; on a hit its role is redrawn
// uniformly among the other roles, so a mutation always changes the
// role. Payoff and decision are untouched. With punishers disabled the
// punisher role is never a target. Returns the number of mutated
// individuals.
func Mutate(g *Group, params ParameterSet, rng RandomSource) int {
	mutated := 0
	for _, in := range g.AllIndividuals() {
		if rng.Float64() >= params.MutationChance {
			continue
		}
		var candidates []Role
		for _, r := range Roles() {
			if r == in.role {
				continue
			}
			if params.DisablePunishers && r == RolePunisher {
				continue
			}
			candidates = append(candidates, r)
		}
		if len(candidates) == 0 {
			continue
		}
		in.role = candidates[rng.Intn(len(candidates))]
		mutated++
	}
	return mutated
}
