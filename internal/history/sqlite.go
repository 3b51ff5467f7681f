package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, seed, turns, levels, group_sizes,
			cooperators, punishers, defectors, mean_payoff, cooperation_rate,
			fixation_turn, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			scenario = excluded.scenario,
			seed = excluded.seed,
			turns = excluded.turns,
			levels = excluded.levels,
			group_sizes = excluded.group_sizes,
			cooperators = excluded.cooperators,
			punishers = excluded.punishers,
			defectors = excluded.defectors,
			mean_payoff = excluded.mean_payoff,
			cooperation_rate = excluded.cooperation_rate,
			fixation_turn = excluded.fixation_turn,
			created_at = excluded.created_at
	`, run.ID, run.Scenario, run.Seed, run.Turns, run.Levels, run.GroupSizes,
		run.Cooperators, run.Punishers, run.Defectors, run.MeanPayoff,
		run.CooperationRate, run.FixationTurn,
		run.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return RunRecord{}, false, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT id, scenario, seed, turns, levels, group_sizes,
			cooperators, punishers, defectors, mean_payoff, cooperation_rate,
			fixation_turn, created_at
		FROM runs WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, false, nil
		}
		return RunRecord{}, false, err
	}
	return run, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, scenario, seed, turns, levels, group_sizes,
			cooperators, punishers, defectors, mean_payoff, cooperation_rate,
			fixation_turn, created_at
		FROM runs ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) SaveTurnSeries(ctx context.Context, runID string, series []TurnStats) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM turn_stats WHERE run_id = ?`, runID); err != nil {
		return err
	}
	for _, ts := range series {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO turn_stats (run_id, turn, cooperators, punishers,
				defectors, mean_payoff, cooperation_rate, punish_events,
				learn_events, compete_events, mutations)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, ts.Turn, ts.Cooperators, ts.Punishers, ts.Defectors,
			ts.MeanPayoff, ts.CooperationRate, ts.PunishEvents,
			ts.LearnEvents, ts.CompeteEvents, ts.Mutations)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetTurnSeries(ctx context.Context, runID string) ([]TurnStats, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT turn, cooperators, punishers, defectors, mean_payoff,
			cooperation_rate, punish_events, learn_events, compete_events,
			mutations
		FROM turn_stats WHERE run_id = ? ORDER BY turn
	`, runID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var series []TurnStats
	for rows.Next() {
		var ts TurnStats
		if err := rows.Scan(&ts.Turn, &ts.Cooperators, &ts.Punishers,
			&ts.Defectors, &ts.MeanPayoff, &ts.CooperationRate,
			&ts.PunishEvents, &ts.LearnEvents, &ts.CompeteEvents,
			&ts.Mutations); err != nil {
			return nil, false, err
		}
		series = append(series, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(series) == 0 {
		return nil, false, nil
	}
	return series, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var run RunRecord
	var createdAt string
	err := row.Scan(&run.ID, &run.Scenario, &run.Seed, &run.Turns,
		&run.Levels, &run.GroupSizes, &run.Cooperators, &run.Punishers,
		&run.Defectors, &run.MeanPayoff, &run.CooperationRate,
		&run.FixationTurn, &createdAt)
	if err != nil {
		return RunRecord{}, err
	}
	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return RunRecord{}, fmt.Errorf("decode run %s created_at: %w", run.ID, err)
	}
	return run, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			scenario TEXT NOT NULL,
			seed INTEGER NOT NULL,
			turns INTEGER NOT NULL,
			levels INTEGER NOT NULL,
			group_sizes TEXT NOT NULL,
			cooperators INTEGER NOT NULL,
			punishers INTEGER NOT NULL,
			defectors INTEGER NOT NULL,
			mean_payoff REAL NOT NULL,
			cooperation_rate REAL NOT NULL,
			fixation_turn INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS turn_stats (
			run_id TEXT NOT NULL,
			turn INTEGER NOT NULL,
			cooperators INTEGER NOT NULL,
			punishers INTEGER NOT NULL,
			defectors INTEGER NOT NULL,
			mean_payoff REAL NOT NULL,
			cooperation_rate REAL NOT NULL,
			punish_events INTEGER NOT NULL,
			learn_events INTEGER NOT NULL,
			compete_events INTEGER NOT NULL,
			mutations INTEGER NOT NULL,
			PRIMARY KEY (run_id, turn)
		);
	`)
	return err
}
