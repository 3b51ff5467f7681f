package sim

import "testing"

func buildStatsFixture() *Group {
	mk := func(role Role, payoff float64, decision Decision) *Individual {
		in := NewIndividual(role)
		in.payoff = payoff
		in.decision = decision
		return in
	}
	return NewComposite([]*Group{
		NewLeaf([]*Individual{
			mk(RoleCooperator, 1.0, DecisionCooperate),
			mk(RolePunisher, 0.5, DecisionCooperate),
		}),
		NewLeaf([]*Individual{
			mk(RoleDefector, 0.25, DecisionDefect),
			mk(RoleDefector, 0.25, DecisionPending),
		}),
	})
}

func TestRoleCounts(t *testing.T) {
	c, p, d := RoleCounts(buildStatsFixture())
	if c != 1 || p != 1 || d != 2 {
		t.Errorf("RoleCounts = %d,%d,%d, want 1,1,2", c, p, d)
	}
}

func TestMeanPayoff(t *testing.T) {
	if got := MeanPayoff(buildStatsFixture()); !almostEqual(got, 0.5) {
		t.Errorf("MeanPayoff = %v, want 0.5", got)
	}
	if got := MeanPayoff(NewLeaf(nil)); got != 0 {
		t.Errorf("MeanPayoff of empty = %v, want 0", got)
	}
}

func TestCooperationRateCountsDecisionsOnly(t *testing.T) {
	// two of four cooperated; the pending decision counts as not
	if got := CooperationRate(buildStatsFixture()); !almostEqual(got, 0.5) {
		t.Errorf("CooperationRate = %v, want 0.5", got)
	}
}

func TestCooperativeFractionCountsRoles(t *testing.T) {
	if got := CooperativeFraction(buildStatsFixture()); !almostEqual(got, 0.5) {
		t.Errorf("CooperativeFraction = %v, want 0.5", got)
	}
}

func TestClamp01(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.7, 1},
	}
	for _, tc := range cases {
		if got := clamp01(tc.in); got != tc.want {
			t.Errorf("clamp01(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
