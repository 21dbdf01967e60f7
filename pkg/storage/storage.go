// Package storage persists scraped solve progress in a local sqlite database
// so successive runs can report what changed: newly solved problems, improved
// submissions, and problems that disappeared from the site.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS progress_entries (
  id            INTEGER PRIMARY KEY,
  instance      TEXT NOT NULL,
  user          TEXT NOT NULL,
  problem_id    TEXT NOT NULL,
  name          TEXT,
  score         REAL,
  runtime       TEXT,
  language      TEXT,
  difficulty    REAL,
  run_id        INTEGER NOT NULL DEFAULT 0,
  first_seen_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  last_seen_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(instance, user, problem_id)
);
CREATE INDEX IF NOT EXISTS idx_progress_account ON progress_entries(instance, user);
CREATE TABLE IF NOT EXISTS progress_changes (
  id          INTEGER PRIMARY KEY,
  occurred_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  instance    TEXT NOT NULL,
  user        TEXT NOT NULL,
  problem_id  TEXT NOT NULL,
  change_type TEXT NOT NULL CHECK (change_type IN ('added','updated','removed'))
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON progress_changes(occurred_at);
CREATE INDEX IF NOT EXISTS idx_changes_account ON progress_changes(instance, user, occurred_at);
CREATE TABLE IF NOT EXISTS lookup_entries (
  instance TEXT NOT NULL,
  kind     TEXT NOT NULL,
  code     TEXT NOT NULL,
  name     TEXT NOT NULL,
  PRIMARY KEY(instance, kind, code)
);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// UpsertProgress reconciles one account's scraped entries against the stored
// state inside a single transaction. Entries absent from this run are swept
// as removed; the returned changes describe everything that differed.
func (d *DB) UpsertProgress(ctx context.Context, instance, user string, entries []Entry) ([]Change, error) {
	now := time.Now().UTC()
	runID := time.Now().UnixNano()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, "SELECT problem_id, score, runtime, language FROM progress_entries WHERE instance = ? AND user = ?", instance, user)
	if err != nil {
		return nil, err
	}

	type existing struct {
		Score    sql.NullFloat64
		Runtime  sql.NullString
		Language sql.NullString
	}
	existingMap := make(map[string]existing)
	for rows.Next() {
		var (
			pid string
			ex  existing
		)
		if err = rows.Scan(&pid, &ex.Score, &ex.Runtime, &ex.Language); err != nil {
			rows.Close()
			return nil, err
		}
		existingMap[pid] = ex
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}

	var changes []Change
	for _, e := range entries {
		ex, existed := existingMap[e.ProblemID]

		if !existed {
			_, err = tx.ExecContext(ctx, `INSERT INTO progress_entries(instance, user, problem_id, name, score, runtime, language, difficulty, run_id, first_seen_at, last_seen_at) VALUES(?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)`,
				e.Instance, e.User, e.ProblemID, nullIfEmpty(e.Name), nullFloat(e.Score), nullIfEmpty(e.Runtime), nullIfEmpty(e.Language), nullFloat(e.Difficulty), runID)
			if err != nil {
				return nil, err
			}
			changes = append(changes, Change{OccurredAt: now, Instance: instance, User: user, ProblemID: e.ProblemID, ChangeType: "added"})
			continue
		}

		if progressDiffers(ex.Score, ex.Runtime, ex.Language, e) {
			_, err = tx.ExecContext(ctx, `UPDATE progress_entries SET name = ?, score = ?, runtime = ?, language = ?, difficulty = ?, run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE instance = ? AND user = ? AND problem_id = ?`,
				nullIfEmpty(e.Name), nullFloat(e.Score), nullIfEmpty(e.Runtime), nullIfEmpty(e.Language), nullFloat(e.Difficulty), runID, e.Instance, e.User, e.ProblemID)
			if err != nil {
				return nil, err
			}
			changes = append(changes, Change{OccurredAt: now, Instance: instance, User: user, ProblemID: e.ProblemID, ChangeType: "updated"})
		} else {
			_, err = tx.ExecContext(ctx, `UPDATE progress_entries SET run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE instance = ? AND user = ? AND problem_id = ?`,
				runID, e.Instance, e.User, e.ProblemID)
			if err != nil {
				return nil, err
			}
		}
	}

	// Sweep: entries not touched in this run vanished from the site.
	staleRows, err := tx.QueryContext(ctx, "SELECT problem_id FROM progress_entries WHERE instance = ? AND user = ? AND run_id != ?", instance, user, runID)
	if err != nil {
		return nil, err
	}
	var toRemove []string
	for staleRows.Next() {
		var pid string
		if err = staleRows.Scan(&pid); err != nil {
			staleRows.Close()
			return nil, err
		}
		toRemove = append(toRemove, pid)
	}
	if err = staleRows.Close(); err != nil {
		return nil, err
	}

	if len(toRemove) > 0 {
		_, err = tx.ExecContext(ctx, `DELETE FROM progress_entries WHERE instance = ? AND user = ? AND run_id != ?`, instance, user, runID)
		if err != nil {
			return nil, err
		}
		for _, pid := range toRemove {
			_, ierr := tx.ExecContext(ctx, `INSERT INTO progress_changes(occurred_at, instance, user, problem_id, change_type) VALUES(CURRENT_TIMESTAMP, ?, ?, ?, 'removed')`, instance, user, pid)
			if ierr != nil {
				return nil, ierr
			}
			changes = append(changes, Change{OccurredAt: now, Instance: instance, User: user, ProblemID: pid, ChangeType: "removed"})
		}
	}
	for _, ch := range changes {
		if ch.ChangeType == "removed" {
			continue
		}
		_, ierr := tx.ExecContext(ctx, `INSERT INTO progress_changes(occurred_at, instance, user, problem_id, change_type) VALUES(CURRENT_TIMESTAMP, ?, ?, ?, ?)`, instance, user, ch.ProblemID, ch.ChangeType)
		if ierr != nil {
			return nil, ierr
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return changes, nil
}

func progressDiffers(score sql.NullFloat64, runtime, language sql.NullString, e Entry) bool {
	if (e.Score == nil) != !score.Valid {
		return true
	}
	if e.Score != nil && *e.Score != score.Float64 {
		return true
	}
	return runtime.String != e.Runtime || language.String != e.Language
}

// ListOptions controls selection when listing progress entries.
type ListOptions struct {
	Instance string
	User     string
	Since    time.Time
}

// ListEntries returns current entries matching filters, ordered by problem id.
func (d *DB) ListEntries(ctx context.Context, opts ListOptions) ([]Entry, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if opts.Instance != "" {
		where += " AND instance = ?"
		args = append(args, opts.Instance)
	}
	if opts.User != "" {
		where += " AND user = ?"
		args = append(args, opts.User)
	}
	if !opts.Since.IsZero() {
		where += " AND last_seen_at >= ?"
		args = append(args, opts.Since.UTC())
	}

	q := "SELECT instance, user, problem_id, name, score, runtime, language, difficulty FROM progress_entries " + where + " ORDER BY instance, user, problem_id"
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e          Entry
			name       sql.NullString
			score      sql.NullFloat64
			runtime    sql.NullString
			language   sql.NullString
			difficulty sql.NullFloat64
		)
		if err := rows.Scan(&e.Instance, &e.User, &e.ProblemID, &name, &score, &runtime, &language, &difficulty); err != nil {
			return nil, err
		}
		e.Name = name.String
		e.Runtime = runtime.String
		e.Language = language.String
		if score.Valid {
			v := score.Float64
			e.Score = &v
		}
		if difficulty.Valid {
			v := difficulty.Float64
			e.Difficulty = &v
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRecentChanges returns change events since the given time, newest first.
func (d *DB) ListRecentChanges(ctx context.Context, instance, user string, since time.Time) ([]Change, error) {
	where := "WHERE occurred_at >= ?"
	args := []interface{}{since.UTC()}
	if instance != "" {
		where += " AND instance = ?"
		args = append(args, instance)
	}
	if user != "" {
		where += " AND user = ?"
		args = append(args, user)
	}

	q := "SELECT occurred_at, instance, user, problem_id, change_type FROM progress_changes " + where + " ORDER BY occurred_at DESC, id DESC"
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var ch Change
		if err := rows.Scan(&ch.OccurredAt, &ch.Instance, &ch.User, &ch.ProblemID, &ch.ChangeType); err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// Stats summarizes one account's stored progress.
type Stats struct {
	Solved        int
	AvgDifficulty float64
}

// AccountStats computes summary numbers for one account.
func (d *DB) AccountStats(ctx context.Context, instance, user string) (Stats, error) {
	var (
		s   Stats
		avg sql.NullFloat64
	)
	err := d.sql.QueryRowContext(ctx,
		"SELECT COUNT(*), AVG(difficulty) FROM progress_entries WHERE instance = ? AND user = ?",
		instance, user).Scan(&s.Solved, &avg)
	if err != nil {
		return Stats{}, fmt.Errorf("account stats: %w", err)
	}
	s.AvgDifficulty = avg.Float64
	return s, nil
}
