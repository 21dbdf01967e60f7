package kattis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/mvaldr/kattscope/pkg/scrape"
)

const problemsPage1 = `<html><body><table id="problem_list">
<thead><tr><th>Name</th><th>Difficulty</th><th>Status</th></tr></thead>
<tbody>
<tr><td><a href="/problems/zebra">Zebra</a></td><td>7.1</td><td>Solved</td></tr>
<tr><td><a href="/problems/apple">Apple</a></td><td>2.4</td><td>Accepted (70)</td></tr>
<tr><td><a href="/problems/mango">Mango</a></td><td>3.3</td><td>Solved</td></tr>
</tbody></table></body></html>`

const problemsPageEmpty = `<html><body><table id="problem_list">
<thead><tr><th>Name</th><th>Difficulty</th><th>Status</th></tr></thead>
<tbody></tbody></table></body></html>`

func TestProblemsFiltersExtractedRows(t *testing.T) {
	site := newFakeSite(t)
	site.handle("/problems", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, problemsPage1)
			return
		}
		fmt.Fprint(w, problemsPageEmpty)
	})

	// The page renders three rows, one of them a partial solve; with the
	// partial filter off only two records may come back.
	spec, err := NewSpec(ViewProblems, Options{ShowSolved: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := site.client().Problems(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", result.Len())
	}

	// Sorted by problem id.
	all := result.All()
	if all[0].ID != "mango" || all[1].ID != "zebra" {
		t.Fatalf("wrong order: %s, %s", all[0].ID, all[1].ID)
	}
	if result.Query != spec.String() {
		t.Fatalf("query tag = %q", result.Query)
	}
}

func TestProblemsLowDetail(t *testing.T) {
	site := newFakeSite(t)
	site.handle("/problems", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("show_solved") != "on" {
			t.Errorf("show_solved = %q", r.URL.Query().Get("show_solved"))
		}
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `<html><body><table id="problem_list">
<thead><tr><th>Name</th></tr></thead>
<tbody>
<tr><td><a href="/problems/zebra">Zebra</a></td></tr>
<tr><td><a href="/problems/apple">Apple</a></td></tr>
</tbody></table></body></html>`)
			return
		}
		fmt.Fprint(w, problemsPageEmpty)
	})

	spec, err := NewSpec(ViewProblems, Options{ShowSolved: true, LowDetail: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := site.client().ProblemsLowDetail(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", result.Len())
	}
	all := result.All()
	if all[0].ID != "apple" || all[1].ID != "zebra" {
		t.Fatalf("wrong order: %s, %s", all[0].ID, all[1].ID)
	}
	if all[0].Link == "" {
		t.Fatal("link not resolved")
	}
}

func TestProblemsLowDetailNeedsLowDetailOption(t *testing.T) {
	site := newFakeSite(t)
	spec, err := NewSpec(ViewProblems, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := site.client().ProblemsLowDetail(context.Background(), spec); err == nil {
		t.Fatal("expected error for full-detail spec")
	}
}

func TestProblemsDropsMalformedRows(t *testing.T) {
	site := newFakeSite(t)
	site.handle("/problems", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, problemsPageEmpty)
			return
		}
		fmt.Fprint(w, `<html><body><table id="problem_list">
<thead><tr><th>Name</th><th>Difficulty</th><th>Status</th></tr></thead>
<tbody>
<tr><td><a href="/problems/zebra">Zebra</a></td><td>7.1</td><td>Solved</td></tr>
<tr><td>No Link</td><td>2.4</td><td>Solved</td></tr>
</tbody></table></body></html>`)
	})

	spec, err := NewSpec(ViewProblems, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := site.client().Problems(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", result.Len())
	}
	if result.Dropped() != 1 {
		t.Fatalf("expected 1 dropped row, got %d", result.Dropped())
	}
}

func TestProblemsMultiPageFailureIsAllOrNothing(t *testing.T) {
	site := newFakeSite(t)
	site.handle("/problems", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, problemsPage1)
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	spec, err := NewSpec(ViewProblems, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := site.client().Problems(context.Background(), spec)
	if result != nil {
		t.Fatal("partial results must be discarded")
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Reason != FetchReasonHTTPStatus || fe.StatusCode != http.StatusInternalServerError {
		t.Fatalf("wrong classification: %+v", fe)
	}
}

func TestProblemsMissingTableIsParseError(t *testing.T) {
	site := newFakeSite(t)
	site.handle("/problems", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>we moved the furniture</p></body></html>`)
	})

	spec, err := NewSpec(ViewProblems, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = site.client().Problems(context.Background(), spec)
	if err == nil {
		t.Fatal("expected error for unrecognized layout")
	}
}

func TestProblemsMidWalkMissingTableFails(t *testing.T) {
	site := newFakeSite(t)
	site.handle("/problems", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, problemsPage1)
			return
		}
		// A later page without the table is a layout change, not the end of
		// the list: past the end the site still renders the empty table.
		fmt.Fprint(w, `<html><body><p>we moved the furniture</p></body></html>`)
	})

	spec, err := NewSpec(ViewProblems, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := site.client().Problems(context.Background(), spec)
	if result != nil {
		t.Fatal("partial results must be discarded")
	}
	var pe *scrape.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Reason != scrape.ReasonNoMatchingStructure {
		t.Fatalf("reason = %q", pe.Reason)
	}
}

func TestProblemsTimeoutClassification(t *testing.T) {
	site := newFakeSite(t)
	site.handle("/problems", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		fmt.Fprint(w, problemsPageEmpty)
	})

	client := site.client()
	// Log in first so the deadline only covers the page fetch.
	if err := client.Session().Login(context.Background()); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	spec, err := NewSpec(ViewProblems, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = client.Problems(ctx, spec)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Reason != FetchReasonTimeout {
		t.Fatalf("reason = %q", fe.Reason)
	}
}
