package kattis

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mvaldr/kattscope/internal/utils"
	"github.com/mvaldr/kattscope/pkg/record"
	"github.com/mvaldr/kattscope/pkg/scrape"
)

// ProblemDetails scrapes the full page for each requested problem id. An id
// the site does not know (404, or a page without a problem body) fails that
// single lookup and is reported in the returned map; the rest of the batch
// still completes. Transport-level failures abort the whole batch.
func (c *Client) ProblemDetails(ctx context.Context, spec Spec) (*record.Result[record.ProblemDetail], map[string]error, error) {
	if spec.View() != ViewProblem {
		return nil, nil, fmt.Errorf("problem: spec targets view %q", spec.View())
	}
	if err := c.session.EnsureValid(ctx); err != nil {
		return nil, nil, err
	}

	out := record.NewResult[record.ProblemDetail](spec.String())
	failed := make(map[string]error)
	for _, id := range spec.ProblemIDs() {
		detail, err := c.problemDetail(ctx, id, spec.Options())
		if err != nil {
			var pe *scrape.ParseError
			var fe *FetchError
			switch {
			case errors.As(err, &pe):
				failed[id] = err
			case errors.As(err, &fe) && fe.Reason == FetchReasonHTTPStatus && fe.StatusCode == 404:
				failed[id] = &scrape.ParseError{Reason: scrape.ReasonNoMatchingStructure, View: "problem"}
			default:
				return nil, nil, err
			}
			utils.Log.Warnf("problem %s: %v", id, failed[id])
			continue
		}
		out.Add(detail)
	}
	return out, failed, nil
}

func (c *Client) problemDetail(ctx context.Context, id string, opts Options) (record.ProblemDetail, error) {
	path := "/problems/" + url.PathEscape(id)
	doc, err := c.session.document(ctx, path, nil)
	if err != nil {
		return record.ProblemDetail{}, err
	}

	body := doc.Find("div.problembody")
	if body.Length() == 0 {
		return record.ProblemDetail{}, &scrape.ParseError{Reason: scrape.ReasonNoMatchingStructure, View: "problem"}
	}

	detail := record.ProblemDetail{
		ID:   id,
		Text: strings.TrimSpace(body.Text()),
		Link: c.session.BaseURL() + path,
	}
	c.fillMetadata(doc, &detail)

	if opts.WithStatistics {
		if err := c.fillStatistics(ctx, path, &detail); err != nil {
			return record.ProblemDetail{}, err
		}
	}
	if opts.WithSubmissions {
		if err := c.fillSubmissions(ctx, id, &detail); err != nil {
			return record.ProblemDetail{}, err
		}
	}
	return detail, nil
}

// fillMetadata walks the sidebar cards. Each card renders a label span and a
// value span; the label text is the anchor, never the card position.
func (c *Client) fillMetadata(doc *goquery.Document, detail *record.ProblemDetail) {
	doc.Find("div.metadata-grid div.card").Each(func(_ int, card *goquery.Selection) {
		spans := card.Find("span")
		if spans.Length() < 2 {
			return
		}
		label := scrape.NormalizeHeader(spans.First().Text())
		value := utils.CollapseSpaces(spans.Eq(1).Text())
		switch {
		case strings.Contains(label, "cpu"):
			detail.CPU = value
		case strings.Contains(label, "memory"):
			detail.Memory = value
		case strings.Contains(label, "difficulty"):
			detail.Difficulty = record.ParseDifficulty(value)
			detail.Category = record.ParseCategory(value)
		case strings.Contains(label, "source") || strings.Contains(label, "license"):
			if detail.Source == "" {
				detail.Source = value
			}
		}
	})

	doc.Find(`a[href*="/problem-authors/"]`).Each(func(_ int, a *goquery.Selection) {
		if name := utils.CollapseSpaces(a.Text()); name != "" {
			detail.Authors = append(detail.Authors, name)
		}
	})
	if src := doc.Find(`a[href*="/problem-sources/"]`).First(); src.Length() > 0 {
		if name := utils.CollapseSpaces(src.Text()); name != "" {
			detail.Source = name
		}
	}
	// Course-centric instances list which offerings assigned this problem.
	doc.Find(`div.problem-sidebar a[href*="/courses/"], div.metadata-grid a[href*="/courses/"]`).Each(func(_ int, a *goquery.Selection) {
		if name := utils.CollapseSpaces(a.Text()); name != "" {
			detail.Offerings = append(detail.Offerings, name)
		}
	})
}

// fillStatistics scrapes the per-language fastest/shortest leaderboards from
// the problem's statistics page. A missing statistics page is not an error:
// unsolved problems simply have none.
func (c *Client) fillStatistics(ctx context.Context, problemPath string, detail *record.ProblemDetail) error {
	doc, err := c.session.document(ctx, problemPath+"/statistics", nil)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) && fe.Reason == FetchReasonHTTPStatus && fe.StatusCode == 404 {
			return nil
		}
		return err
	}

	doc.Find("section.strip-item-plain").Each(func(_ int, sec *goquery.Selection) {
		table := sec.Find("table").First()
		if table.Length() == 0 {
			return
		}
		desc := utils.CollapseSpaces(sec.Find("h2").First().Text())
		stat := record.LanguageStat{
			Description: desc,
			Kind:        "fastest",
			Language:    languageFromDescription(desc),
		}
		if strings.Contains(strings.ToLower(desc), "shortest") {
			stat.Kind = "shortest"
		}
		for _, fs := range scrape.Table(table) {
			entry, err := record.NormalizeRankEntry(fs, c.session.BaseURL())
			if err != nil {
				continue
			}
			stat.Entries = append(stat.Entries, entry)
		}
		detail.Statistics = append(detail.Statistics, stat)
	})
	return nil
}

// languageFromDescription pulls the language out of headings like "Fastest
// submissions in C++".
func languageFromDescription(desc string) string {
	if i := strings.LastIndex(desc, " in "); i >= 0 {
		return strings.TrimSpace(desc[i+len(" in "):])
	}
	return ""
}

// fillSubmissions scrapes the session user's own submission history for the
// problem, all verdicts included.
func (c *Client) fillSubmissions(ctx context.Context, id string, detail *record.ProblemDetail) error {
	params := url.Values{}
	params.Set("problem", id)

	doc, err := c.session.document(ctx, "/users/"+c.session.User(), params)
	if err != nil {
		return err
	}
	rows, err := scrape.TableRows(doc, "submissions", submissionTableSelectors...)
	if err != nil {
		// A profile without a submissions table just means nothing submitted.
		var pe *scrape.ParseError
		if errors.As(err, &pe) {
			return nil
		}
		return err
	}
	for _, fs := range rows {
		stat, err := record.NormalizeStat(fs, c.session.BaseURL())
		if err != nil {
			continue
		}
		if stat.ProblemID == id {
			detail.Submissions = append(detail.Submissions, stat)
		}
	}
	return nil
}
