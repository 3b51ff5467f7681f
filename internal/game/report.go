package game

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/pohlkotter/multiselect/internal/sim"
)

// buildRunReport renders the run as a plain-text block: engine
// position, parameters, role counts, payoff stats, and the recent turn
// series from the reporter history.
func buildRunReport(s *sim.Simulation, rep *sim.Reporter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- multiselect run report ---\n")
	fmt.Fprintf(&b, "turn=%d stage=%s\n", s.Turn(), s.Stage())

	p := s.Params()
	fmt.Fprintf(&b, "params error_rate=%.3f cooperation_cost=%.3f punishment_penalty=%.3f punisher_cost=%.3f\n",
		p.ErrorRate, p.CooperationCost, p.PunishmentPenalty, p.PunisherCost)
	fmt.Fprintf(&b, "params migration_chance=%.3f competition_chance=%.3f mutation_chance=%.3f reset_payoffs=%v disable_punishers=%v\n",
		p.MigrationChance, p.CompetitionChance, p.MutationChance, p.ResetPayoffs, p.DisablePunishers)

	c, pn, d := sim.RoleCounts(s.Root())
	fmt.Fprintf(&b, "population C=%d P=%d D=%d total=%d\n", c, pn, d, c+pn+d)
	fmt.Fprintf(&b, "mean_payoff=%.4f cooperation_rate=%.4f\n", sim.MeanPayoff(s.Root()), sim.CooperationRate(s.Root()))
	fmt.Fprintf(&b, "fixation_turn=%d\n", rep.FixationTurn())

	history := rep.History()
	if len(history) == 0 {
		b.WriteString("(no completed turns yet)\n")
		return b.String()
	}
	from := len(history) - 10
	if from < 0 {
		from = 0
	}
	fmt.Fprintf(&b, "last %d turns:\n", len(history)-from)
	for _, ts := range history[from:] {
		fmt.Fprintf(&b, "  turn=%d C=%d P=%d D=%d mean=%.4f coop=%.4f punish=%d learn=%d compete=%d mut=%d\n",
			ts.Turn, ts.Cooperators, ts.Punishers, ts.Defectors, ts.MeanPayoff, ts.CooperationRate,
			ts.PunishEvents, ts.LearnEvents, ts.CompeteEvents, ts.Mutations)
	}
	return b.String()
}

// copyRunReport puts the current run report on the system clipboard.
func (g *Game) copyRunReport() {
	if err := clipboard.WriteAll(buildRunReport(g.sim, g.rep)); err != nil {
		g.setNote("report copy failed: " + err.Error())
		return
	}
	g.setNote("report copied to clipboard")
}
