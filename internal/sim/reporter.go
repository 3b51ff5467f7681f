package sim

import (
	"fmt"
	"strings"
)

// TurnSummary is one turn's aggregate statistics.
type TurnSummary struct {
	Turn            int
	Cooperators     int
	Punishers       int
	Defectors       int
	MeanPayoff      float64
	CooperationRate float64
	PunishEvents    int
	LearnEvents     int
	CompeteEvents   int
	Mutations       int
}

// Total is the population size the summary covers.
func (s TurnSummary) Total() int {
	return s.Cooperators + s.Punishers + s.Defectors
}

// Fixated reports whether a single role held the whole population.
func (s TurnSummary) Fixated() bool {
	t := s.Total()
	if t == 0 {
		return false
	}
	return s.Cooperators == t || s.Punishers == t || s.Defectors == t
}

// Reporter accumulates per-turn summaries from a running simulation.
// Call Collect once after each completed turn.
type Reporter struct {
	sim     *Simulation
	history []TurnSummary
}

func NewReporter(sim *Simulation) *Reporter {
	return &Reporter{sim: sim}
}

// Collect reads the population and the turn's events into a summary
// and appends it to the history.
func (r *Reporter) Collect(report *TurnReport) TurnSummary {
	c, p, d := RoleCounts(r.sim.Root())
	sum := TurnSummary{
		Turn:            report.Turn,
		Cooperators:     c,
		Punishers:       p,
		Defectors:       d,
		MeanPayoff:      MeanPayoff(r.sim.Root()),
		CooperationRate: CooperationRate(r.sim.Root()),
	}
	for _, ev := range report.Events {
		switch ev.Kind {
		case EventPunish:
			sum.PunishEvents++
		case EventLearn:
			sum.LearnEvents++
		case EventCompete:
			sum.CompeteEvents++
		}
	}
	// Mutation emits no interaction events; the count lives in the log.
	if e, ok := r.sim.Log().LastOf("sim", "mutations"); ok && e.Turn == report.Turn {
		sum.Mutations = int(e.NumVal)
	}
	r.history = append(r.history, sum)
	return sum
}

// History returns all collected summaries in turn order.
func (r *Reporter) History() []TurnSummary { return r.history }

// Latest returns the most recent summary.
func (r *Reporter) Latest() (TurnSummary, bool) {
	if len(r.history) == 0 {
		return TurnSummary{}, false
	}
	return r.history[len(r.history)-1], true
}

// FixationTurn returns the first collected turn where a single role
// held the whole population, or -1 when none has.
func (r *Reporter) FixationTurn() int {
	for _, s := range r.history {
		if s.Fixated() {
			return s.Turn
		}
	}
	return -1
}

// FormatLatest renders the most recent summary as one report block.
func (r *Reporter) FormatLatest() string {
	s, ok := r.Latest()
	if !ok {
		return "no turns collected\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "turn=%d C=%d P=%d D=%d\n", s.Turn, s.Cooperators, s.Punishers, s.Defectors)
	fmt.Fprintf(&b, "mean_payoff=%.4f cooperation_rate=%.4f\n", s.MeanPayoff, s.CooperationRate)
	fmt.Fprintf(&b, "events punish=%d learn=%d compete=%d mutations=%d\n",
		s.PunishEvents, s.LearnEvents, s.CompeteEvents, s.Mutations)
	return b.String()
}
