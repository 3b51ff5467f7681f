// Package sim implements a multi-level selection simulation: nested
// groups of individuals play a public-goods game with punishment, then
// payoff-biased learning, group competition, and mutation reshape the
// population each turn.
//
// The engine is deterministic. A population built from a Config and
// stepped with its own RandomSource produces bit-identical snapshots
// and event sequences for the same seed. It is also inert: nothing
// advances between AdvanceTurn or AdvanceStage calls, no goroutines
// are spawned, and stepping is not safe for concurrent use.
package sim

import "fmt"

// Stage identifies one phase of the turn pipeline.
type Stage int

const (
	StageCooperation Stage = iota
	StagePunishment
	StageLearning
	StageCompetition
	StageMutation

	stageCount = 5
)

func (s Stage) String() string {
	switch s {
	case StageCooperation:
		return "cooperation"
	case StagePunishment:
		return "punishment"
	case StageLearning:
		return "learning"
	case StageCompetition:
		return "competition"
	case StageMutation:
		return "mutation"
	}
	return "unknown"
}

// Label returns the numbered display form, e.g. "1: Cooperation".
func (s Stage) Label() string {
	names := [...]string{"Cooperation", "Punishment", "Learning", "Competition", "Mutation"}
	if s < 0 || int(s) >= len(names) {
		return "?"
	}
	return fmt.Sprintf("%d: %s", int(s)+1, names[s])
}

// Simulation owns one population hierarchy and steps it through turns:
// cooperation, punishment, learning, competition, mutation, in that
// order, every turn.
type Simulation struct {
	root   *Group
	params ParameterSet
	rng    RandomSource
	turn   int
	stage  Stage
	events *EventList
	log    *SimLog
}

// New builds a simulation from cfg. The population is complete and the
// first turn ready before it returns; invalid input fails with a
// *ConfigError and no simulation.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := NewRandomSource(cfg.Seed)
	return &Simulation{
		root:   buildGroup(cfg.Levels, cfg.GroupSizes, cfg.Roles, rng),
		params: cfg.Params,
		rng:    rng,
		events: &EventList{},
		log:    NewSimLog(),
	}, nil
}

// buildGroup grows the hierarchy depth-first. sizes is innermost
// first; each individual's role is one draw against the distribution.
func buildGroup(level int, sizes []int, roles RoleDistribution, rng RandomSource) *Group {
	if level == 1 {
		inds := make([]*Individual, sizes[0])
		for i := range inds {
			inds[i] = NewIndividual(drawRole(roles, rng))
		}
		return NewLeaf(inds)
	}
	children := make([]*Group, sizes[level-1])
	for i := range children {
		children[i] = buildGroup(level-1, sizes, roles, rng)
	}
	return NewComposite(children)
}

func drawRole(roles RoleDistribution, rng RandomSource) Role {
	r := rng.Float64()
	switch {
	case r < roles.Cooperator:
		return RoleCooperator
	case r < roles.Cooperator+roles.Punisher:
		return RolePunisher
	default:
		return RoleDefector
	}
}

// Root exposes the live hierarchy. Callers must not mutate it; use
// Snapshot for anything held across steps.
func (s *Simulation) Root() *Group { return s.root }

// Turn is the number of completed turns.
func (s *Simulation) Turn() int { return s.turn }

// Stage is the next stage AdvanceStage will run.
func (s *Simulation) Stage() Stage { return s.stage }

func (s *Simulation) Params() ParameterSet { return s.params }

func (s *Simulation) Log() *SimLog { return s.log }

// Snapshot deep-copies the whole population.
func (s *Simulation) Snapshot() *GroupSnapshot { return s.root.Snapshot() }

// AdvanceTurn finishes the current turn and returns its report: all
// remaining stages run in order, ending with mutation. From a turn
// boundary that is the whole five-stage pipeline; after manual
// AdvanceStage calls it completes the partial turn first. The report
// carries every event of the turn, including those of stages stepped
// manually.
func (s *Simulation) AdvanceTurn() (*TurnReport, error) {
	turn := s.turn
	for {
		report, err := s.AdvanceStage()
		if err != nil {
			return nil, err
		}
		if report.TurnDone {
			break
		}
	}
	return &TurnReport{
		Turn:   turn,
		Events: append([]InteractionEvent(nil), s.events.Events()...),
	}, nil
}

// AdvanceStage runs exactly one stage and returns its report. Stages
// cycle cooperation, punishment, learning, competition, mutation; the
// mutation report carries TurnDone and the turn counter then advances.
func (s *Simulation) AdvanceStage() (*StageReport, error) {
	stage := s.stage
	if stage == StageCooperation {
		s.events = &EventList{}
		if s.params.ResetPayoffs {
			for _, in := range s.root.AllIndividuals() {
				in.payoff = 1.0
			}
		}
	}
	before := s.events.Len()
	if err := s.runStage(stage); err != nil {
		return nil, err
	}
	stageEvents := append([]InteractionEvent(nil), s.events.Events()[before:]...)
	s.log.Add(s.turn, stage.String(), "sim", "events", "count",
		fmt.Sprintf("%d interaction(s)", len(stageEvents)), float64(len(stageEvents)))
	report := &StageReport{Turn: s.turn, Stage: stage, Events: stageEvents}
	s.stage = (s.stage + 1) % stageCount
	if s.stage == StageCooperation {
		report.TurnDone = true
		s.logTurnStats()
		s.turn++
	}
	return report, nil
}

func (s *Simulation) runStage(stage Stage) error {
	switch stage {
	case StageCooperation:
		Cooperate(s.root, s.params, s.rng)
	case StagePunishment:
		Punish(s.root, s.params, s.events)
	case StageLearning:
		return forEachComposite(s.root, nil, func(g *Group, base []int) error {
			local := &EventList{}
			if err := Learn(g, s.params, s.rng, local); err != nil {
				return err
			}
			s.events.addRebased(local, base)
			return nil
		})
	case StageCompetition:
		return forEachComposite(s.root, nil, func(g *Group, base []int) error {
			local := &EventList{}
			if err := Compete(g, s.params, s.rng, local); err != nil {
				return err
			}
			s.events.addRebased(local, base)
			return nil
		})
	case StageMutation:
		n := Mutate(s.root, s.params, s.rng)
		s.log.Add(s.turn, stage.String(), "sim", "stats", "mutations",
			fmt.Sprintf("%d mutated", n), float64(n))
	}
	return nil
}

// forEachComposite visits every composite of the subtree pre-order,
// parents before children, carrying the index path from g. Contests
// and learning at an outer order therefore settle before the orders
// below them run.
func forEachComposite(g *Group, path []int, fn func(*Group, []int) error) error {
	if g.IsLeaf() {
		return nil
	}
	if err := fn(g, path); err != nil {
		return err
	}
	for i, child := range g.children {
		if err := forEachComposite(child, append(path[:len(path):len(path)], i), fn); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) logTurnStats() {
	c, p, d := RoleCounts(s.root)
	s.log.Add(s.turn, "turn", "sim", "stats", "cooperators", fmt.Sprintf("%d", c), float64(c))
	s.log.Add(s.turn, "turn", "sim", "stats", "punishers", fmt.Sprintf("%d", p), float64(p))
	s.log.Add(s.turn, "turn", "sim", "stats", "defectors", fmt.Sprintf("%d", d), float64(d))
	mean := MeanPayoff(s.root)
	s.log.Add(s.turn, "turn", "sim", "stats", "mean_payoff", fmt.Sprintf("%.4f", mean), mean)
	rate := CooperationRate(s.root)
	s.log.Add(s.turn, "turn", "sim", "stats", "cooperation_rate", fmt.Sprintf("%.4f", rate), rate)
	frac := CooperativeFraction(s.root)
	s.log.Add(s.turn, "turn", "sim", "stats", "cooperative_fraction", fmt.Sprintf("%.4f", frac), frac)
	if s.log.Verbose() {
		for i, in := range s.root.AllIndividuals() {
			s.log.AddVerbose(s.turn, "turn", fmt.Sprintf("ind%03d", i), "state", "individual", in.String(), in.payoff)
		}
	}
}
