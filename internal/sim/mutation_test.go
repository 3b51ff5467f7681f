package sim

import (
	"math"
	"testing"
)

func TestMutateAlwaysChangesRole(t *testing.T) {
	params := DefaultParameters()
	params.MutationChance = 1.0

	inds := make([]*Individual, 99)
	for i := range inds {
		inds[i] = NewIndividual(Roles()[i%3])
	}
	g := NewLeaf(inds)
	before := make([]Role, len(inds))
	for i, in := range inds {
		before[i] = in.Role()
	}

	n := Mutate(g, params, NewRandomSource(7))
	if n != len(inds) {
		t.Fatalf("mutated = %d, want all %d", n, len(inds))
	}
	for i, in := range inds {
		if in.Role() == before[i] {
			t.Errorf("individual %d kept role %v through a mutation", i, before[i])
		}
	}
}

func TestMutateRateMatchesChance(t *testing.T) {
	params := DefaultParameters()
	params.MutationChance = 0.05

	inds := make([]*Individual, 10000)
	for i := range inds {
		inds[i] = NewIndividual(RoleCooperator)
	}
	g := NewLeaf(inds)

	n := Mutate(g, params, NewRandomSource(99))
	rate := float64(n) / float64(len(inds))
	if math.Abs(rate-0.05) > 0.015 {
		t.Errorf("mutation rate = %v, want about 0.05", rate)
	}
}

func TestMutateZeroChanceIsNoOp(t *testing.T) {
	params := DefaultParameters()
	params.MutationChance = 0

	inds := []*Individual{NewIndividual(RoleCooperator), NewIndividual(RoleDefector)}
	g := NewLeaf(inds)
	if n := Mutate(g, params, NewRandomSource(3)); n != 0 {
		t.Errorf("mutated = %d, want 0", n)
	}
	if inds[0].Role() != RoleCooperator || inds[1].Role() != RoleDefector {
		t.Errorf("roles changed at zero chance")
	}
}

func TestMutateDisabledPunishersAreNeverTargets(t *testing.T) {
	params := DefaultParameters()
	params.MutationChance = 1.0
	params.DisablePunishers = true

	c := NewIndividual(RoleCooperator)
	d := NewIndividual(RoleDefector)
	g := NewLeaf([]*Individual{c, d})

	// with the punisher excluded there is exactly one candidate each
	Mutate(g, params, NewRandomSource(5))
	if c.Role() != RoleDefector {
		t.Errorf("cooperator mutated to %v, want defector", c.Role())
	}
	if d.Role() != RoleCooperator {
		t.Errorf("defector mutated to %v, want cooperator", d.Role())
	}
}

func TestMutateDisabledPunisherStillMutatesAway(t *testing.T) {
	params := DefaultParameters()
	params.MutationChance = 1.0
	params.DisablePunishers = true

	p := NewIndividual(RolePunisher)
	g := NewLeaf([]*Individual{p})
	Mutate(g, params, NewRandomSource(5))
	if p.Role() == RolePunisher {
		t.Errorf("punisher kept its role through a mutation")
	}
}

func TestMutateKeepsPayoffAndDecision(t *testing.T) {
	params := DefaultParameters()
	params.MutationChance = 1.0

	in := NewIndividual(RoleCooperator)
	in.payoff = 0.42
	in.decision = DecisionCooperate
	g := NewLeaf([]*Individual{in})

	Mutate(g, params, NewRandomSource(11))
	if !almostEqual(in.Payoff(), 0.42) {
		t.Errorf("payoff = %v, want untouched 0.42", in.Payoff())
	}
	if in.Decision() != DecisionCooperate {
		t.Errorf("decision = %v, want untouched cooperate", in.Decision())
	}
}

func TestMutateScriptedTargetPick(t *testing.T) {
	params := DefaultParameters()
	params.MutationChance = 0.5

	a := NewIndividual(RoleCooperator)
	b := NewIndividual(RoleCooperator)
	g := NewLeaf([]*Individual{a, b})

	src := &scriptSource{
		t:      t,
		floats: []float64{0.1, 0.9}, // a mutates, b does not
		ints:   []int{1},            // candidates for a cooperator are [punisher, defector]
	}
	Mutate(g, params, src)
	src.drained()

	if a.Role() != RoleDefector {
		t.Errorf("a role = %v, want defector from candidate index 1", a.Role())
	}
	if b.Role() != RoleCooperator {
		t.Errorf("b role = %v, want unchanged", b.Role())
	}
}
