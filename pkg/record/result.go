package record

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Result is an ordered collection of same-type records produced by one query.
// Query carries the canonical description of the query that produced it. The
// collection is owned by the caller once returned; Filter never mutates.
type Result[T Record] struct {
	Query   string
	rows    []T
	dropped int
}

func NewResult[T Record](query string) *Result[T] {
	return &Result[T]{Query: query}
}

func (r *Result[T]) Add(rec T) {
	r.rows = append(r.rows, rec)
}

// CountDropped records a structurally malformed row that was discarded during
// normalization, so callers can see that the collection is not the full page.
func (r *Result[T]) CountDropped() {
	r.dropped++
}

func (r *Result[T]) Len() int { return len(r.rows) }

func (r *Result[T]) Dropped() int { return r.dropped }

// All returns the records in insertion order. The returned slice is a copy;
// the collection itself stays immutable.
func (r *Result[T]) All() []T {
	out := make([]T, len(r.rows))
	copy(out, r.rows)
	return out
}

// Filter returns a new collection holding the records the predicate keeps,
// preserving order. The dropped-row count carries over.
func (r *Result[T]) Filter(keep func(T) bool) *Result[T] {
	out := &Result[T]{Query: r.Query, dropped: r.dropped}
	for _, rec := range r.rows {
		if keep(rec) {
			out.rows = append(out.rows, rec)
		}
	}
	return out
}

// Sort reorders the collection in place with a stable sort, so records that
// compare equal keep their page order.
func (r *Result[T]) Sort(less func(a, b T) bool) {
	sort.SliceStable(r.rows, func(i, j int) bool { return less(r.rows[i], r.rows[j]) })
}

// GroupCount buckets records by a key and counts them, e.g. accepted
// submissions per language.
func (r *Result[T]) GroupCount(key func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, rec := range r.rows {
		counts[key(rec)]++
	}
	return counts
}

func (r *Result[T]) schema() Schema {
	var zero T
	return zero.Schema()
}

// Table is the tabular container handed to export/rendering layers: the
// record schema plus one value row per record, columns in schema order.
type Table struct {
	Schema Schema
	Rows   [][]any
}

// ToTable projects the collection onto its schema. Column order matches the
// schema declaration order for every record type.
func (r *Result[T]) ToTable() *Table {
	t := &Table{Schema: r.schema()}
	for _, rec := range r.rows {
		t.Rows = append(t.Rows, rec.Values())
	}
	return t
}

// Render pretty-prints the table. Nil sentinels render as "--", matching the
// site's own placeholder.
func (t *Table) Render() string {
	w := table.NewWriter()

	header := make(table.Row, len(t.Schema.Columns))
	for i, c := range t.Schema.Columns {
		header[i] = c.Name
	}
	w.AppendHeader(header)

	for _, row := range t.Rows {
		out := make(table.Row, len(row))
		for i, v := range row {
			if v == nil {
				out[i] = "--"
			} else {
				out[i] = v
			}
		}
		w.AppendRow(out)
	}

	w.SetStyle(table.StyleLight)
	return w.Render()
}
