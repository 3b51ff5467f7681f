package sim

import "testing"

// TestCooperationThenPunishmentLadder walks a single leaf of one
// cooperator, one punisher and two defectors through the first two
// stages with a zero error rate and checks the resulting payoffs
// individual by individual.
func TestCooperationThenPunishmentLadder(t *testing.T) {
	params := DefaultParameters()
	params.ErrorRate = 0
	ts := NewTestSim(
		WithLeafGroup(RoleCooperator, RolePunisher, RoleDefector, RoleDefector),
		WithParams(params),
	)

	coop := ts.RunStage()
	if coop.Stage != StageCooperation {
		t.Fatalf("first stage = %v, want cooperation", coop.Stage)
	}
	punish := ts.RunStage()
	if punish.Stage != StagePunishment {
		t.Fatalf("second stage = %v, want punishment", punish.Stage)
	}

	// both cooperative roles cooperate and clamp back to 1.0; the
	// punisher then pays 0.1 per defector, each defector loses 0.4
	want := []float64{1.0, 0.8, 0.6, 0.6}
	for i, in := range ts.Root().Individuals() {
		if !almostEqual(in.Payoff(), want[i]) {
			t.Errorf("individual %d payoff = %v, want %v", i, in.Payoff(), want[i])
		}
	}
	if len(punish.Events) != 2 {
		t.Fatalf("punish events = %d, want 2", len(punish.Events))
	}
	for i, wantTarget := range []string{"2", "3"} {
		ev := punish.Events[i]
		if ev.Kind != EventPunish || ev.Source.String() != "1" || ev.Target.String() != wantTarget {
			t.Errorf("event %d = %v, want punish 1 -> %s", i, ev, wantTarget)
		}
	}
}

func TestPunishWithoutDefectorsIsNoOp(t *testing.T) {
	params := DefaultParameters()
	params.ErrorRate = 0
	ts := NewTestSim(
		WithLeafGroup(RoleCooperator, RoleCooperator, RolePunisher),
		WithParams(params),
	)
	ts.RunStage() // cooperation; everyone cooperates

	before := make([]float64, 0, 3)
	for _, in := range ts.Root().Individuals() {
		before = append(before, in.Payoff())
	}

	punish := ts.RunStage()
	if len(punish.Events) != 0 {
		t.Errorf("punish events = %d, want none", len(punish.Events))
	}
	for i, in := range ts.Root().Individuals() {
		if in.Payoff() != before[i] {
			t.Errorf("individual %d payoff changed %v -> %v", i, before[i], in.Payoff())
		}
	}
}

func TestPunishSplitsPenaltyOverDefectors(t *testing.T) {
	p := NewIndividual(RolePunisher)
	d1 := NewIndividual(RoleDefector)
	d2 := NewIndividual(RoleDefector)
	p.decision = DecisionCooperate
	d1.decision = DecisionDefect
	d2.decision = DecisionDefect
	g := NewLeaf([]*Individual{p, d1, d2})

	events := &EventList{}
	Punish(g, DefaultParameters(), events)

	// n=2: each defector loses 0.8/2, the punisher pays 0.2/2 per act
	if !almostEqual(p.Payoff(), 0.8) {
		t.Errorf("punisher payoff = %v, want 0.8", p.Payoff())
	}
	if !almostEqual(d1.Payoff(), 0.6) || !almostEqual(d2.Payoff(), 0.6) {
		t.Errorf("defector payoffs = %v, %v, want 0.6 each", d1.Payoff(), d2.Payoff())
	}
	if events.Len() != 2 {
		t.Errorf("events = %d, want 2", events.Len())
	}
}

func TestPunishTotalsAreConserved(t *testing.T) {
	params := DefaultParameters()
	params.PunishmentPenalty = 0.3
	params.PunisherCost = 0.15

	mk := func(role Role, decision Decision) *Individual {
		in := NewIndividual(role)
		in.payoff = 0.9
		in.decision = decision
		return in
	}
	punishers := []*Individual{mk(RolePunisher, DecisionCooperate), mk(RolePunisher, DecisionCooperate)}
	defectors := []*Individual{mk(RoleDefector, DecisionDefect), mk(RoleDefector, DecisionDefect), mk(RoleDefector, DecisionDefect)}
	g := NewLeaf(append(append([]*Individual{}, punishers...), defectors...))

	Punish(g, params, nil)

	// away from the clamp, each punisher drains exactly p in total and
	// pays exactly k in total
	for i, in := range defectors {
		if !almostEqual(in.Payoff(), 0.9-0.3*2/3) {
			t.Errorf("defector %d payoff = %v, want %v", i, in.Payoff(), 0.9-0.3*2/3)
		}
	}
	for i, in := range punishers {
		if !almostEqual(in.Payoff(), 0.9-0.15) {
			t.Errorf("punisher %d payoff = %v, want %v", i, in.Payoff(), 0.9-0.15)
		}
	}
}

func TestPunisherFinesItselfWhenItDefected(t *testing.T) {
	p := NewIndividual(RolePunisher)
	p.decision = DecisionDefect
	g := NewLeaf([]*Individual{p})

	events := &EventList{}
	Punish(g, DefaultParameters(), events)

	// sole defector: takes the full 0.8 penalty and pays the full 0.2 cost
	if !almostEqual(p.Payoff(), 0.0) {
		t.Errorf("payoff = %v, want 0.0", p.Payoff())
	}
	if events.Len() != 1 {
		t.Fatalf("events = %d, want the self-punishment", events.Len())
	}
	ev := events.Events()[0]
	if ev.Source.String() != "0" || ev.Target.String() != "0" {
		t.Errorf("event = %v, want 0 -> 0", ev)
	}
}

func TestPunishClampsAtZero(t *testing.T) {
	p := NewIndividual(RolePunisher)
	p.decision = DecisionCooperate
	d := NewIndividual(RoleDefector)
	d.decision = DecisionDefect
	d.payoff = 0.1
	g := NewLeaf([]*Individual{p, d})

	Punish(g, DefaultParameters(), nil)

	if d.Payoff() != 0 {
		t.Errorf("defector payoff = %v, want clamp to 0", d.Payoff())
	}
}

func TestPunishEventRefsAreNestedPaths(t *testing.T) {
	calm := NewLeaf([]*Individual{NewIndividual(RoleCooperator)})
	calm.individuals[0].decision = DecisionCooperate

	p := NewIndividual(RolePunisher)
	p.decision = DecisionCooperate
	d := NewIndividual(RoleDefector)
	d.decision = DecisionDefect
	root := NewComposite([]*Group{calm, NewLeaf([]*Individual{p, d})})

	events := &EventList{}
	Punish(root, DefaultParameters(), events)

	if events.Len() != 1 {
		t.Fatalf("events = %d, want 1", events.Len())
	}
	ev := events.Events()[0]
	if ev.Source.String() != "1/0" || ev.Target.String() != "1/1" {
		t.Errorf("event = %v, want 1/0 -> 1/1", ev)
	}
}

func TestPunishPairOrdering(t *testing.T) {
	mk := func(role Role, decision Decision) *Individual {
		in := NewIndividual(role)
		in.decision = decision
		return in
	}
	g := NewLeaf([]*Individual{
		mk(RolePunisher, DecisionCooperate),
		mk(RolePunisher, DecisionCooperate),
		mk(RoleDefector, DecisionDefect),
		mk(RoleDefector, DecisionDefect),
	})

	events := &EventList{}
	Punish(g, DefaultParameters(), events)

	want := [][2]string{{"0", "2"}, {"0", "3"}, {"1", "2"}, {"1", "3"}}
	if events.Len() != len(want) {
		t.Fatalf("events = %d, want %d", events.Len(), len(want))
	}
	for i, ev := range events.Events() {
		if ev.Source.String() != want[i][0] || ev.Target.String() != want[i][1] {
			t.Errorf("event %d = %v, want %s -> %s", i, ev, want[i][0], want[i][1])
		}
	}
}
