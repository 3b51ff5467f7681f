package sim

// TestSim wires a Simulation with convenient defaults for tests and
// batch runs. Options are applied in fixed passes regardless of
// argument order: infrastructure first (seed, verbosity), then
// population shape, then rule tweaks.

type simOptionKind int

const (
	optInfra simOptionKind = iota
	optShape
	optRules
)

// SimOption configures a TestSim.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// TestSim is an option-built simulation. Regular code may use it too;
// the batch runner does.
type TestSim struct {
	Sim *Simulation

	seed    int64
	verbose bool
	sizes   []int
	roles   RoleDistribution
	params  ParameterSet
	leaves  [][]Role
}

// WithSeed fixes the random seed. The default is 1.
func WithSeed(seed int64) SimOption {
	return SimOption{kind: optInfra, fn: func(ts *TestSim) { ts.seed = seed }}
}

// WithVerbose turns on per-individual sim log entries.
func WithVerbose() SimOption {
	return SimOption{kind: optInfra, fn: func(ts *TestSim) { ts.verbose = true }}
}

// WithGroupSizes sets the hierarchy shape, innermost first; the level
// count follows from the number of sizes.
func WithGroupSizes(sizes ...int) SimOption {
	return SimOption{kind: optShape, fn: func(ts *TestSim) {
		ts.sizes = append([]int(nil), sizes...)
	}}
}

// WithRoles sets the initial cooperator and punisher ratios; defectors
// fill the remainder.
func WithRoles(cooperator, punisher float64) SimOption {
	return SimOption{kind: optShape, fn: func(ts *TestSim) {
		ts.roles = RoleDistribution{Cooperator: cooperator, Punisher: punisher}
	}}
}

// WithLeafGroup adds one leaf with exactly these roles, bypassing
// random construction. One call makes the root that leaf; several
// calls nest the leaves under a shared composite root.
func WithLeafGroup(roles ...Role) SimOption {
	return SimOption{kind: optShape, fn: func(ts *TestSim) {
		ts.leaves = append(ts.leaves, roles)
	}}
}

// WithParams replaces the whole parameter set.
func WithParams(params ParameterSet) SimOption {
	return SimOption{kind: optRules, fn: func(ts *TestSim) { ts.params = params }}
}

// NewTestSim builds a simulation from options. Defaults: seed 1,
// three leaves of four individuals, half cooperators and a quarter
// punishers, canonical parameters. Panics on an invalid combination;
// harness misuse should fail loudly.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		seed:   1,
		sizes:  []int{4, 3},
		roles:  RoleDistribution{Cooperator: 0.5, Punisher: 0.25},
		params: DefaultParameters(),
	}
	for _, pass := range []simOptionKind{optInfra, optShape, optRules} {
		for _, o := range opts {
			if o.kind == pass {
				o.fn(ts)
			}
		}
	}
	if len(ts.leaves) > 0 {
		ts.Sim = newExplicitSim(ts)
	} else {
		sim, err := New(Config{
			Levels:     len(ts.sizes),
			GroupSizes: ts.sizes,
			Roles:      ts.roles,
			Params:     ts.params,
			Seed:       ts.seed,
		})
		if err != nil {
			panic(err)
		}
		ts.Sim = sim
	}
	ts.Sim.log.SetVerbose(ts.verbose)
	return ts
}

// newExplicitSim builds the hierarchy from hand-given leaves.
func newExplicitSim(ts *TestSim) *Simulation {
	groups := make([]*Group, len(ts.leaves))
	for i, roles := range ts.leaves {
		inds := make([]*Individual, len(roles))
		for j, r := range roles {
			inds[j] = NewIndividual(r)
		}
		groups[i] = NewLeaf(inds)
	}
	root := groups[0]
	if len(groups) > 1 {
		root = NewComposite(groups)
	}
	return &Simulation{
		root:   root,
		params: ts.params,
		rng:    NewRandomSource(ts.seed),
		events: &EventList{},
		log:    NewSimLog(),
	}
}

// Root is shorthand for ts.Sim.Root().
func (ts *TestSim) Root() *Group { return ts.Sim.Root() }

// Log is shorthand for ts.Sim.Log().
func (ts *TestSim) Log() *SimLog { return ts.Sim.Log() }

// RunTurns advances n full turns.
func (ts *TestSim) RunTurns(n int) {
	for i := 0; i < n; i++ {
		if _, err := ts.Sim.AdvanceTurn(); err != nil {
			panic(err)
		}
	}
}

// RunStage advances one stage and returns its report.
func (ts *TestSim) RunStage() *StageReport {
	report, err := ts.Sim.AdvanceStage()
	if err != nil {
		panic(err)
	}
	return report
}

// RunUntil advances whole turns until pred holds, up to maxTurns, and
// returns the number of turns run.
func (ts *TestSim) RunUntil(pred func(*TestSim) bool, maxTurns int) int {
	for i := 0; i < maxTurns; i++ {
		ts.RunTurns(1)
		if pred(ts) {
			return i + 1
		}
	}
	return maxTurns
}
