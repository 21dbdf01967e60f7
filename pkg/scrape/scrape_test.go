package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromString(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

const problemTable = `
<table id="problem_list">
  <thead><tr><th>Name</th><th>Difficulty</th><th> Fastest </th></tr></thead>
  <tbody>
    <tr><td><a href="/problems/hello">Hello World</a></td><td>1.2</td><td>0.01</td></tr>
    <tr><td><a href="/contests/x/problems/abc"></a><a href="/problems/abc">ABC</a></td><td>Medium 4.5</td><td>--</td></tr>
  </tbody>
</table>`

// Column order changes between deployments; extraction must key by header
// text, not position.
const problemTableReordered = `
<table id="problem_list">
  <thead><tr><th>Fastest</th><th>Name</th><th>Difficulty</th></tr></thead>
  <tbody>
    <tr><td>0.01</td><td><a href="/problems/hello">Hello World</a></td><td>1.2</td></tr>
    <tr><td>--</td><td><a href="/contests/x/problems/abc"></a><a href="/problems/abc">ABC</a></td><td>Medium 4.5</td></tr>
  </tbody>
</table>`

func TestTableKeysByHeader(t *testing.T) {
	for _, html := range []string{problemTable, problemTableReordered} {
		doc := docFromString(t, html)
		rows, err := TableRows(doc, "problems", "table#problem_list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}

		first := rows[0]
		if got := first.Text("name"); got != "Hello World" {
			t.Fatalf("name = %q", got)
		}
		if got := first.Text("difficulty"); got != "1.2" {
			t.Fatalf("difficulty = %q", got)
		}
		if got := first.FirstHref("name"); got != "/problems/hello" {
			t.Fatalf("href = %q", got)
		}
	}
}

func TestTableLastHrefPicksProblemLink(t *testing.T) {
	doc := docFromString(t, problemTable)
	rows, err := TableRows(doc, "problems", "table#problem_list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rows[1].LastHref("name"); got != "/problems/abc" {
		t.Fatalf("contest row should resolve to the problem link, got %q", got)
	}
}

func TestTableRowsMissingTableIsParseError(t *testing.T) {
	doc := docFromString(t, `<div><p>maintenance page</p></div>`)
	_, err := TableRows(doc, "problems", "table#problem_list")
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Reason != ReasonNoMatchingStructure {
		t.Fatalf("reason = %q", pe.Reason)
	}
	if pe.View != "problems" {
		t.Fatalf("view = %q", pe.View)
	}
}

func TestTableRowsEmptyTableIsEmptyNotError(t *testing.T) {
	doc := docFromString(t, `
<table id="problem_list">
  <thead><tr><th>Name</th><th>Difficulty</th></tr></thead>
  <tbody></tbody>
</table>`)
	rows, err := TableRows(doc, "problems", "table#problem_list")
	if err != nil {
		t.Fatalf("empty table must not be an error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected 0 rows, got %d", len(rows))
	}
}

func TestTableSkipsEllipsisRows(t *testing.T) {
	doc := docFromString(t, `
<table id="t">
  <thead><tr><th>Rank</th><th>Name</th></tr></thead>
  <tbody>
    <tr><td>1</td><td>alice</td></tr>
    <tr><td colspan="2">...</td></tr>
    <tr><td>512</td><td>bob</td></tr>
  </tbody>
</table>`)
	rows, err := TableRows(doc, "ranklist", "table#t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ellipsis row should be skipped, got %d rows", len(rows))
	}
}

func TestHeaderTableRows(t *testing.T) {
	doc := docFromString(t, `
<table><thead><tr><th>Problem</th></tr></thead><tbody><tr><td>x</td></tr></tbody></table>
<table><thead><tr><th>Rank</th><th>Name</th><th>Score</th></tr></thead>
<tbody><tr><td>7</td><td>carol</td><td>1234.5</td></tr></tbody></table>`)

	rows, err := HeaderTableRows(doc, "ranklist", "rank", "score")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Text("name") != "carol" {
		t.Fatalf("wrong table matched: %v", rows)
	}

	if _, err := HeaderTableRows(doc, "ranklist", "rank", "country"); err == nil {
		t.Fatal("expected ParseError for unmatched header set")
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  CPU  Runtime ", "cpu runtime"},
		{"Name", "name"},
		{"\nFastest\t", "fastest"},
	}
	for _, tt := range tests {
		if got := NormalizeHeader(tt.in); got != tt.want {
			t.Fatalf("NormalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Extracting the same document twice must yield identical field sets.
func TestTableExtractionIsIdempotent(t *testing.T) {
	doc := docFromString(t, problemTable)
	a, err := TableRows(doc, "problems", "table#problem_list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := TableRows(doc, "problems", "table#problem_list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("row counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		for k, v := range a[i] {
			if b[i][k].Text != v.Text {
				t.Fatalf("row %d field %q differs", i, k)
			}
		}
	}
}
