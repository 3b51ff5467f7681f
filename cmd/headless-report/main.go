package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pohlkotter/multiselect/internal/history"
	"github.com/pohlkotter/multiselect/internal/scenario"
	"github.com/pohlkotter/multiselect/internal/sim"
)

// runStats is one run's final outcome plus its per-turn history.
type runStats struct {
	runIndex int
	seed     int64
	turns    int

	cooperators int
	punishers   int
	defectors   int
	meanPayoff  float64
	coopRate    float64

	punishEvents  int
	learnEvents   int
	competeEvents int
	mutations     int

	fixationTurn   int
	fixationRole   string
	firstBelowHalf int

	history []sim.TurnSummary
}

func main() {
	var runs int
	var turns int
	var seedBase int64
	var seedStep int64
	var scenarioName string
	var storeKind string
	var dbPath string
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&turns, "turns", 200, "turns per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenarioName, "scenario", "default", "built-in scenario name or path to a YAML file")
	flag.StringVar(&storeKind, "store", "none", "run history backend: none, memory, or sqlite")
	flag.StringVar(&dbPath, "db", "multiselect.db", "sqlite database path for -store sqlite")
	flag.BoolVar(&verbose, "verbose", false, "record per-interaction log entries")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if turns <= 0 {
		fmt.Println("error: -turns must be > 0")
		return
	}

	sc, err := scenario.Load(scenarioName)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	ctx := context.Background()
	var store history.Store
	if storeKind != "none" {
		store, err = history.NewStore(storeKind, dbPath)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		if err := store.Init(ctx); err != nil {
			fmt.Printf("error: initializing store: %v\n", err)
			return
		}
		defer func() { _ = history.CloseIfSupported(store) }()
	}

	fmt.Printf("=== Headless Selection Report ===\n")
	fmt.Printf("scenario=%s runs=%d turns=%d seed_base=%d seed_step=%d\n\n",
		sc.Name, runs, turns, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs, err := runOnce(i+1, seed, turns, sc, verbose)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, rs)
		printRun(rs, sc.Name)

		if store != nil {
			if err := saveRun(ctx, store, rs, sc); err != nil {
				fmt.Printf("error: saving run %d: %v\n", i+1, err)
				return
			}
		}
	}

	printAggregate(all)
}

// runOnce builds a fresh simulation from the scenario and seed and
// advances it the requested number of turns.
func runOnce(runIndex int, seed int64, turns int, sc *scenario.Scenario, verbose bool) (runStats, error) {
	s, err := sim.New(sc.Config(seed))
	if err != nil {
		return runStats{}, err
	}
	if verbose {
		s.Log().SetVerbose(true)
	}
	rep := sim.NewReporter(s)

	for i := 0; i < turns; i++ {
		tr, err := s.AdvanceTurn()
		if err != nil {
			return runStats{}, err
		}
		rep.Collect(tr)
	}

	summaries := rep.History()
	rs := runStats{
		runIndex:       runIndex,
		seed:           seed,
		turns:          turns,
		fixationTurn:   rep.FixationTurn(),
		fixationRole:   fixationRole(summaries),
		firstBelowHalf: firstTurnBelowHalf(summaries),
		history:        summaries,
	}
	if last, ok := rep.Latest(); ok {
		rs.cooperators = last.Cooperators
		rs.punishers = last.Punishers
		rs.defectors = last.Defectors
		rs.meanPayoff = last.MeanPayoff
		rs.coopRate = last.CooperationRate
	}
	for _, ts := range summaries {
		rs.punishEvents += ts.PunishEvents
		rs.learnEvents += ts.LearnEvents
		rs.competeEvents += ts.CompeteEvents
		rs.mutations += ts.Mutations
	}
	return rs, nil
}

// firstTurnBelowHalf returns the first collected turn where the
// cooperation rate dropped under 50%, or -1 when it never did.
func firstTurnBelowHalf(summaries []sim.TurnSummary) int {
	for _, ts := range summaries {
		if ts.CooperationRate < 0.5 {
			return ts.Turn
		}
	}
	return -1
}

// fixationRole names the role that first held the whole population,
// or "" when no turn fixated.
func fixationRole(summaries []sim.TurnSummary) string {
	for _, ts := range summaries {
		if !ts.Fixated() {
			continue
		}
		switch ts.Total() {
		case ts.Cooperators:
			return sim.RoleCooperator.String()
		case ts.Punishers:
			return sim.RolePunisher.String()
		default:
			return sim.RoleDefector.String()
		}
	}
	return ""
}

func printRun(rs runStats, scenarioName string) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("scenario=%s turns=%d\n", scenarioName, rs.turns)
	fmt.Printf("final: C=%d P=%d D=%d mean_payoff=%.4f cooperation_rate=%.4f\n",
		rs.cooperators, rs.punishers, rs.defectors, rs.meanPayoff, rs.coopRate)
	fmt.Printf("event_totals: punish=%d learn=%d compete=%d mutations=%d\n",
		rs.punishEvents, rs.learnEvents, rs.competeEvents, rs.mutations)
	role := rs.fixationRole
	if role == "" {
		role = "none"
	}
	fmt.Printf("markers: fixation_turn=%d fixation_role=%s first_coop_below_half=%d\n",
		rs.fixationTurn, role, rs.firstBelowHalf)
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalC := 0
	totalP := 0
	totalD := 0
	totalPayoff := 0.0
	totalCoopRate := 0.0
	totalPunish := 0
	totalLearn := 0
	totalCompete := 0
	totalMutations := 0

	fixationTurns := make([]int, 0, len(all))
	belowHalfTurns := make([]int, 0, len(all))
	fixationRoles := map[string]int{}

	for _, rs := range all {
		totalC += rs.cooperators
		totalP += rs.punishers
		totalD += rs.defectors
		totalPayoff += rs.meanPayoff
		totalCoopRate += rs.coopRate
		totalPunish += rs.punishEvents
		totalLearn += rs.learnEvents
		totalCompete += rs.competeEvents
		totalMutations += rs.mutations
		if rs.fixationTurn >= 0 {
			fixationTurns = append(fixationTurns, rs.fixationTurn)
			fixationRoles[rs.fixationRole]++
		}
		if rs.firstBelowHalf >= 0 {
			belowHalfTurns = append(belowHalfTurns, rs.firstBelowHalf)
		}
	}

	n := len(all)
	fmt.Println("=== Aggregate Report ===")
	fmt.Printf("runs=%d\n", n)
	fmt.Printf("avg_final: C=%.1f P=%.1f D=%.1f mean_payoff=%.4f cooperation_rate=%.4f\n",
		avg(totalC, n), avg(totalP, n), avg(totalD, n), totalPayoff/float64(n), totalCoopRate/float64(n))
	fmt.Printf("avg_events_per_run: punish=%.1f learn=%.1f compete=%.1f mutations=%.1f\n",
		avg(totalPunish, n), avg(totalLearn, n), avg(totalCompete, n), avg(totalMutations, n))
	fmt.Printf("fixation: fixated_runs=%d/%d avg_fixation_turn=%s roles=[%s]\n",
		len(fixationTurns), n, avgTurnString(fixationTurns), formatRoleCounts(fixationRoles))
	fmt.Printf("first_coop_below_half: runs=%d/%d avg_turn=%s\n",
		len(belowHalfTurns), n, avgTurnString(belowHalfTurns))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTurnString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func formatRoleCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	roles := make([]string, 0, len(counts))
	for r := range counts {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = fmt.Sprintf("%s=%d", r, counts[r])
	}
	return strings.Join(parts, " ")
}

// runID is the deterministic store key: same scenario, seed, and turn
// count always map to the same record.
func runID(scenarioName string, seed int64, turns int) string {
	return fmt.Sprintf("%s-seed%d-t%d", scenarioName, seed, turns)
}

func joinSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

// turnSeries converts reporter summaries into store rows.
func turnSeries(summaries []sim.TurnSummary) []history.TurnStats {
	out := make([]history.TurnStats, len(summaries))
	for i, ts := range summaries {
		out[i] = history.TurnStats{
			Turn:            ts.Turn,
			Cooperators:     ts.Cooperators,
			Punishers:       ts.Punishers,
			Defectors:       ts.Defectors,
			MeanPayoff:      ts.MeanPayoff,
			CooperationRate: ts.CooperationRate,
			PunishEvents:    ts.PunishEvents,
			LearnEvents:     ts.LearnEvents,
			CompeteEvents:   ts.CompeteEvents,
			Mutations:       ts.Mutations,
		}
	}
	return out
}

func buildRunRecord(rs runStats, sc *scenario.Scenario, now time.Time) history.RunRecord {
	return history.RunRecord{
		ID:              runID(sc.Name, rs.seed, rs.turns),
		Scenario:        sc.Name,
		Seed:            rs.seed,
		Turns:           rs.turns,
		Levels:          sc.Levels,
		GroupSizes:      joinSizes(sc.GroupSizes),
		Cooperators:     rs.cooperators,
		Punishers:       rs.punishers,
		Defectors:       rs.defectors,
		MeanPayoff:      rs.meanPayoff,
		CooperationRate: rs.coopRate,
		FixationTurn:    rs.fixationTurn,
		CreatedAt:       now,
	}
}

func saveRun(ctx context.Context, store history.Store, rs runStats, sc *scenario.Scenario) error {
	rec := buildRunRecord(rs, sc, time.Now())
	if err := store.SaveRun(ctx, rec); err != nil {
		return err
	}
	return store.SaveTurnSeries(ctx, rec.ID, turnSeries(rs.history))
}
