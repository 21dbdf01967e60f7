package storage

import (
	"context"
)

// SaveLookup replaces one cached lookup table (languages, countries,
// affiliations) for an instance. Lookups change rarely; caching them avoids a
// scrape per run.
func (d *DB) SaveLookup(ctx context.Context, instance, kind string, values map[string]string) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM lookup_entries WHERE instance = ? AND kind = ?", instance, kind); err != nil {
		return err
	}
	for code, name := range values {
		if _, err = tx.ExecContext(ctx, "INSERT INTO lookup_entries(instance, kind, code, name) VALUES(?,?,?,?)", instance, kind, code, name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Lookup loads one cached lookup table. An empty map means nothing cached.
func (d *DB) Lookup(ctx context.Context, instance, kind string) (map[string]string, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT code, name FROM lookup_entries WHERE instance = ? AND kind = ?", instance, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, err
		}
		out[code] = name
	}
	return out, rows.Err()
}
