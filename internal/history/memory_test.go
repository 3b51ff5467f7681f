package history

import (
	"context"
	"testing"
	"time"
)

func sampleRun(id string, createdAt time.Time) RunRecord {
	return RunRecord{
		ID:              id,
		Scenario:        "default",
		Seed:            42,
		Turns:           200,
		Levels:          3,
		GroupSizes:      "4,3,3",
		Cooperators:     14,
		Punishers:       6,
		Defectors:       16,
		MeanPayoff:      0.6125,
		CooperationRate: 0.5278,
		FixationTurn:    -1,
		CreatedAt:       createdAt,
	}
}

func sampleSeries() []TurnStats {
	return []TurnStats{
		{Turn: 0, Cooperators: 14, Punishers: 7, Defectors: 15, MeanPayoff: 0.71, CooperationRate: 0.58, PunishEvents: 12, LearnEvents: 30, Mutations: 2},
		{Turn: 1, Cooperators: 13, Punishers: 7, Defectors: 16, MeanPayoff: 0.66, CooperationRate: 0.55, PunishEvents: 15, LearnEvents: 31, CompeteEvents: 1, Mutations: 1},
	}
}

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := sampleRun("run-1", time.Now())
	if err := store.SaveRun(ctx, input); err != nil {
		t.Fatalf("save run: %v", err)
	}

	output, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if output != input {
		t.Fatalf("unexpected run: %+v", output)
	}

	_, ok, err = store.GetRun(ctx, "absent")
	if err != nil {
		t.Fatalf("get absent run: %v", err)
	}
	if ok {
		t.Fatal("absent run should not be found")
	}
}

func TestMemoryStoreListRunsOrdered(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	base := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	for _, r := range []RunRecord{
		sampleRun("run-b", base.Add(time.Minute)),
		sampleRun("run-c", base),
		sampleRun("run-a", base),
	} {
		if err := store.SaveRun(ctx, r); err != nil {
			t.Fatalf("save run %s: %v", r.ID, err)
		}
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	want := []string{"run-a", "run-c", "run-b"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("list order = %v, want %v", ids, want)
		}
	}
}

func TestMemoryStoreTurnSeriesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := sampleSeries()
	if err := store.SaveTurnSeries(ctx, "run-1", input); err != nil {
		t.Fatalf("save series: %v", err)
	}

	output, ok, err := store.GetTurnSeries(ctx, "run-1")
	if err != nil {
		t.Fatalf("get series: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted series")
	}
	if len(output) != len(input) || output[1] != input[1] {
		t.Fatalf("unexpected series: %+v", output)
	}

	// The stored series must not alias the caller's slice.
	input[0].Cooperators = 999
	output2, _, _ := store.GetTurnSeries(ctx, "run-1")
	if output2[0].Cooperators == 999 {
		t.Fatal("stored series aliases the caller's slice")
	}
}

func TestMemoryStoreMissingSeries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	_, ok, err := store.GetTurnSeries(ctx, "absent")
	if err != nil {
		t.Fatalf("get series: %v", err)
	}
	if ok {
		t.Fatal("absent series should not be found")
	}
}
