// Package history persists finished simulation runs and their
// per-turn statistics. Backends share the Store interface: the
// in-memory store serves tests and single invocations, the sqlite
// store keeps results across invocations.
package history

import (
	"context"
	"time"
)

// RunRecord summarizes one finished run.
type RunRecord struct {
	ID         string
	Scenario   string
	Seed       int64
	Turns      int
	Levels     int
	GroupSizes string // innermost-first, comma separated, e.g. "4,3,3"

	Cooperators     int
	Punishers       int
	Defectors       int
	MeanPayoff      float64
	CooperationRate float64
	FixationTurn    int // -1 when no role took the whole population

	CreatedAt time.Time
}

// TurnStats is one turn's aggregate numbers within a run.
type TurnStats struct {
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

// Store defines persistence operations for run results.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]RunRecord, error)
	SaveTurnSeries(ctx context.Context, runID string, series []TurnStats) error
	GetTurnSeries(ctx context.Context, runID string) ([]TurnStats, bool, error)
}
