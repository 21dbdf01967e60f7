package kattis

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mvaldr/kattscope/internal/utils"
	"github.com/mvaldr/kattscope/pkg/record"
	"github.com/mvaldr/kattscope/pkg/scrape"
)

// document fetches one authenticated page and parses it.
func (s *Session) document(ctx context.Context, path string, params url.Values) (*goquery.Document, error) {
	res, err := s.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(res.BodyString))
}

func cloneValues(v url.Values) url.Values {
	out := url.Values{}
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// Page numbering differs by view: the problem list counts from 1, the
// user-page views (submissions, achievements) count from 0.
const (
	firstProblemPage = 1
	firstUserPage    = 0
)

// collectPages walks a paginated table view page by page from startPage,
// normalizing every row into out. Pagination is strictly sequential and stops
// at the first page that renders the table with no rows; a page without the
// table at all is a structural failure on any page, since the site keeps
// rendering the empty table past the end. Any fetch or parse error aborts the
// whole walk: a multi-page query either completes or fails, it never returns
// a partial collection.
//
// Rows whose identity cannot be established are dropped and counted; every
// other normalization outcome is a row.
func collectPages[T record.Record](
	ctx context.Context,
	s *Session,
	path string,
	base url.Values,
	view string,
	startPage int,
	selectors []string,
	out *record.Result[T],
	norm func(scrape.FieldSet) (T, error),
) error {
	prevPrint := ""
	for page := startPage; ; page++ {
		params := cloneValues(base)
		params.Set("page", strconv.Itoa(page))

		doc, err := s.document(ctx, path, params)
		if err != nil {
			return err
		}

		rows, err := scrape.TableRows(doc, view, selectors...)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		// Views that ignore the page parameter render the same rows for every
		// page; treat a repeat as the end instead of looping.
		print := pageFingerprint(rows)
		if print == prevPrint {
			return nil
		}
		prevPrint = print

		if err := collectRows(rows, view, out, norm); err != nil {
			return err
		}
	}
}

func pageFingerprint(rows []scrape.FieldSet) string {
	var b strings.Builder
	first := rows[0]
	keys := make([]string, 0, len(first))
	for k := range first {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(first[k].Text)
		b.WriteByte(';')
	}
	b.WriteString(strconv.Itoa(len(rows)))
	return b.String()
}

// collectOnePage scrapes a single, unpaginated table view.
func collectOnePage[T record.Record](
	ctx context.Context,
	s *Session,
	path string,
	params url.Values,
	view string,
	selectors []string,
	out *record.Result[T],
	norm func(scrape.FieldSet) (T, error),
) error {
	doc, err := s.document(ctx, path, params)
	if err != nil {
		return err
	}
	rows, err := scrape.TableRows(doc, view, selectors...)
	if err != nil {
		return err
	}
	return collectRows(rows, view, out, norm)
}

// collectRows normalizes one page worth of rows into out.
func collectRows[T record.Record](
	rows []scrape.FieldSet,
	view string,
	out *record.Result[T],
	norm func(scrape.FieldSet) (T, error),
) error {
	for _, fs := range rows {
		rec, err := norm(fs)
		if err != nil {
			var ne *record.NormalizationError
			if errors.As(err, &ne) {
				out.CountDropped()
				utils.Log.Warnf("dropping %s row: %v", view, err)
				continue
			}
			return err
		}
		out.Add(rec)
	}
	return nil
}
