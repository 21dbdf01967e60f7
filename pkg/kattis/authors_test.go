package kattis

import (
	"context"
	"fmt"
	"net/http"
	"testing"
)

const authorsPage = `<html><body><table id="problem_authors">
<thead><tr><th>Author</th><th>Problems</th><th>Avg difficulty</th></tr></thead>
<tbody>
<tr><td><a href="/problem-authors/Per%20Austrin">Per Austrin</a></td><td>42</td><td>5.1 Medium</td></tr>
<tr><td><a href="/problem-authors/Greg%20Hamerly">Greg Hamerly</a></td><td>17</td><td>3.2 Easy</td></tr>
</tbody></table></body></html>`

const authorsPageEmpty = `<html><body><table id="problem_authors">
<thead><tr><th>Author</th><th>Problems</th><th>Avg difficulty</th></tr></thead>
<tbody></tbody></table></body></html>`

func TestProblemAuthors(t *testing.T) {
	site := newFakeSite(t)
	site.handle("/problem-authors", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, authorsPage)
			return
		}
		fmt.Fprint(w, authorsPageEmpty)
	})

	spec, err := NewSpec(ViewAuthors, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := site.client().ProblemAuthors(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Len() != 2 {
		t.Fatalf("expected 2 authors, got %d", result.Len())
	}

	first := result.All()[0]
	if first.Name != "Per Austrin" {
		t.Fatalf("author = %+v", first)
	}
	if first.Problems == nil || *first.Problems != 42 {
		t.Fatalf("problems = %v", first.Problems)
	}
	if first.AvgDifficulty == nil || *first.AvgDifficulty != 5.1 || first.AvgCategory != "Medium" {
		t.Fatalf("difficulty = %v %q", first.AvgDifficulty, first.AvgCategory)
	}
	if first.Link == "" {
		t.Fatal("link not resolved")
	}
}

func TestProblemSources(t *testing.T) {
	site := newFakeSite(t)
	site.handle("/problem-sources", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `<html><body><table id="problem_sources">
<thead><tr><th>Source</th><th>Problems</th><th>Avg difficulty</th></tr></thead>
<tbody>
<tr><td><a href="/problem-sources/NWERC">NWERC</a></td><td>120</td><td>6.9 Hard</td></tr>
</tbody></table></body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body><table id="problem_sources">
<thead><tr><th>Source</th><th>Problems</th><th>Avg difficulty</th></tr></thead>
<tbody></tbody></table></body></html>`)
	})

	spec, err := NewSpec(ViewSources, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := site.client().ProblemSources(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Len() != 1 {
		t.Fatalf("expected 1 source, got %d", result.Len())
	}
	if got := result.All()[0].Name; got != "NWERC" {
		t.Fatalf("source = %q", got)
	}
}

func TestProblemAuthorsRejectsWrongView(t *testing.T) {
	site := newFakeSite(t)
	spec, err := NewSpec(ViewSources, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := site.client().ProblemAuthors(context.Background(), spec); err == nil {
		t.Fatal("expected error for mismatched view")
	}
}
