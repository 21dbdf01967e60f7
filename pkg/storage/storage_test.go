package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mvaldr/kattscope/pkg/record"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "progress.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func score(v float64) *float64 { return &v }

func TestUpsertProgressLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	entries := []Entry{
		{Instance: "open", User: "alice", ProblemID: "apple", Score: score(100), Runtime: "0.02", Language: "C++"},
		{Instance: "open", User: "alice", ProblemID: "mango", Score: score(70), Runtime: "0.10", Language: "C++"},
	}

	// First sync: everything is new.
	changes, err := db.UpsertProgress(ctx, "open", "alice", entries)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 added, got %d", len(changes))
	}
	for _, ch := range changes {
		if ch.ChangeType != "added" {
			t.Fatalf("change type = %q", ch.ChangeType)
		}
	}

	// Identical sync: nothing changes.
	changes, err = db.UpsertProgress(ctx, "open", "alice", entries)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("expected no changes, got %v", changes)
	}

	// Improved score: one update. The vanished problem sweeps as removed.
	entries[1].Score = score(100)
	entries[1].Runtime = "0.05"
	changes, err = db.UpsertProgress(ctx, "open", "alice", entries[1:])
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	types := map[string]string{}
	for _, ch := range changes {
		types[ch.ProblemID] = ch.ChangeType
	}
	if types["mango"] != "updated" || types["apple"] != "removed" {
		t.Fatalf("changes = %v", types)
	}

	stored, err := db.ListEntries(ctx, ListOptions{Instance: "open", User: "alice"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 1 || stored[0].ProblemID != "mango" {
		t.Fatalf("stored = %+v", stored)
	}
	if stored[0].Score == nil || *stored[0].Score != 100 {
		t.Fatalf("score = %v", stored[0].Score)
	}
}

func TestListRecentChanges(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.UpsertProgress(ctx, "open", "alice", []Entry{
		{Instance: "open", User: "alice", ProblemID: "apple"},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	changes, err := db.ListRecentChanges(ctx, "open", "alice", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("changes: %v", err)
	}
	if len(changes) != 1 || changes[0].ChangeType != "added" {
		t.Fatalf("changes = %+v", changes)
	}

	none, err := db.ListRecentChanges(ctx, "open", "alice", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("changes: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("future window should be empty, got %v", none)
	}
}

func TestAccountStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	diff := func(v float64) *float64 { return &v }
	_, err := db.UpsertProgress(ctx, "open", "alice", []Entry{
		{Instance: "open", User: "alice", ProblemID: "apple", Difficulty: diff(2.0)},
		{Instance: "open", User: "alice", ProblemID: "mango", Difficulty: diff(4.0)},
		{Instance: "open", User: "alice", ProblemID: "zebra"},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	stats, err := db.AccountStats(ctx, "open", "alice")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Solved != 3 {
		t.Fatalf("solved = %d", stats.Solved)
	}
	if stats.AvgDifficulty != 3.0 {
		t.Fatalf("avg difficulty = %v", stats.AvgDifficulty)
	}
}

func TestLookupRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	in := map[string]string{"SGP": "Singapore", "SWE": "Sweden"}
	if err := db.SaveLookup(ctx, "open", "countries", in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := db.Lookup(ctx, "open", "countries")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 || out["SGP"] != "Singapore" {
		t.Fatalf("lookup = %v", out)
	}

	// Saving again replaces, never accumulates.
	if err := db.SaveLookup(ctx, "open", "countries", map[string]string{"SGP": "Singapore"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err = db.Lookup(ctx, "open", "countries")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("lookup = %v", out)
	}
}

func TestBuildEntries(t *testing.T) {
	stats := []record.Stat{
		{ProblemID: "apple", Name: "Apple", Runtime: "0.02", Language: "C++"},
	}
	diff := 2.4
	entries := BuildEntries("open", "alice", stats, map[string]*float64{"apple": &diff})
	if len(entries) != 1 {
		t.Fatalf("entries = %v", entries)
	}
	e := entries[0]
	if e.Instance != "open" || e.User != "alice" || e.ProblemID != "apple" {
		t.Fatalf("entry = %+v", e)
	}
	if e.Difficulty == nil || *e.Difficulty != 2.4 {
		t.Fatalf("difficulty = %v", e.Difficulty)
	}
}
