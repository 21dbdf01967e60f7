// Package scrape locates tables and element structures inside fetched judge
// site pages and turns them into loosely-typed field sets. It deliberately
// keys cells by header text instead of column position: the site reorders
// columns between deployments, so positional indexing is how scrapers rot.
package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mvaldr/kattscope/internal/utils"
)

// Link is one anchor found inside a table cell, in source order.
type Link struct {
	Text string
	Href string
}

// Field is a single extracted cell: its collapsed text plus any anchors it
// contained.
type Field struct {
	Text  string
	Links []Link
}

// FieldSet is one extracted row, keyed by normalized header name. A key that
// is absent means the page did not render that column at all.
type FieldSet map[string]Field

// Has reports whether the row carries a non-empty value for the field.
func (fs FieldSet) Has(name string) bool {
	f, ok := fs[name]
	return ok && f.Text != ""
}

// Text returns the collapsed cell text, or "" when the field is missing.
func (fs FieldSet) Text(name string) string {
	return fs[name].Text
}

// FirstHref returns the href of the first anchor in the cell, or "".
func (fs FieldSet) FirstHref(name string) string {
	f := fs[name]
	if len(f.Links) == 0 {
		return ""
	}
	return f.Links[0].Href
}

// LastHref returns the href of the last anchor in the cell, or "". Problem
// name cells can carry two links when the row belongs to a contest; the
// problem link is always the last one.
func (fs FieldSet) LastHref(name string) string {
	f := fs[name]
	if len(f.Links) == 0 {
		return ""
	}
	return f.Links[len(f.Links)-1].Href
}

// ParseErrorReason classifies extraction failures.
type ParseErrorReason string

const (
	// ReasonNoMatchingStructure means none of the structural anchors the
	// extractor relies on were present: the page layout is unrecognized,
	// as opposed to recognized-but-empty.
	ReasonNoMatchingStructure ParseErrorReason = "no_matching_structure"
)

type ParseError struct {
	Reason ParseErrorReason
	View   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.View, e.Reason)
}

// NormalizeHeader reduces a header cell to a stable lowercase key ("CPU
// Runtime " -> "cpu runtime").
func NormalizeHeader(s string) string {
	return strings.ToLower(utils.CollapseSpaces(s))
}

func cellField(cell *goquery.Selection) Field {
	f := Field{Text: utils.CollapseSpaces(cell.Text())}
	cell.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		f.Links = append(f.Links, Link{
			Text: utils.CollapseSpaces(a.Text()),
			Href: strings.TrimSpace(href),
		})
	})
	return f
}

// Table extracts every data row of a table selection into field sets, keyed
// by the table's own header row. Rows with a different cell count than the
// header are keyed by however many cells line up; extra cells are dropped.
// Single-cell rows (the ranklist ellipsis) are skipped.
func Table(table *goquery.Selection) []FieldSet {
	var headers []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, NormalizeHeader(th.Text()))
	})

	rows := []FieldSet{}
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 || (cells.Length() == 1 && len(headers) > 1) {
			return
		}
		fs := FieldSet{}
		cells.Each(func(i int, td *goquery.Selection) {
			if i >= len(headers) || headers[i] == "" {
				return
			}
			fs[headers[i]] = cellField(td)
		})
		if len(fs) > 0 {
			rows = append(rows, fs)
		}
	})
	return rows
}

// FindTable resolves the first selector that matches a table on the page.
// A nil return means no candidate anchor matched, which callers surface as a
// structure mismatch rather than an empty result.
func FindTable(doc *goquery.Document, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		found := doc.Find(sel)
		if found.Length() > 0 {
			return found.First()
		}
	}
	return nil
}

// FindTableWithHeaders resolves the first table on the page whose header row
// carries every required (normalized) header. Pages like the homepage render
// several anonymous tables; the header set is the only stable anchor.
func FindTableWithHeaders(doc *goquery.Document, required ...string) *goquery.Selection {
	var match *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		have := map[string]bool{}
		table.Find("th").Each(func(_ int, th *goquery.Selection) {
			have[NormalizeHeader(th.Text())] = true
		})
		for _, name := range required {
			if !have[name] {
				return true
			}
		}
		match = table
		return false
	})
	return match
}

// HeaderTableRows is TableRows anchored by header names instead of selectors.
func HeaderTableRows(doc *goquery.Document, view string, required ...string) ([]FieldSet, error) {
	table := FindTableWithHeaders(doc, required...)
	if table == nil {
		return nil, &ParseError{Reason: ReasonNoMatchingStructure, View: view}
	}
	return Table(table), nil
}

// TableRows is the common "find the view's table, then walk it" helper. The
// distinction matters: a recognized table with zero rows is an empty page,
// a missing table is a ParseError.
func TableRows(doc *goquery.Document, view string, selectors ...string) ([]FieldSet, error) {
	table := FindTable(doc, selectors...)
	if table == nil {
		return nil, &ParseError{Reason: ReasonNoMatchingStructure, View: view}
	}
	return Table(table), nil
}
