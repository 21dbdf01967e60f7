package kattis

import (
	"context"
	"fmt"

	"github.com/mvaldr/kattscope/pkg/record"
	"github.com/mvaldr/kattscope/pkg/scrape"
)

// problemTableSelectors anchor the problem list table. The id is the stable
// anchor; the looser fallbacks cover per-university instances with older
// markup.
var problemTableSelectors = []string{
	"table#problem_list",
	"section.strip table",
	"table.table2",
	"table",
}

// Problems scrapes the full problem list under the spec's filters, walking
// every page. The filter flags are passed to the site and re-applied to the
// extracted rows, so the collection honors them even when the site ignores a
// flag. Records come back sorted by problem id.
func (c *Client) Problems(ctx context.Context, spec Spec) (*record.Result[record.Problem], error) {
	if spec.View() != ViewProblems {
		return nil, fmt.Errorf("problems: spec targets view %q", spec.View())
	}
	if err := c.session.EnsureValid(ctx); err != nil {
		return nil, err
	}

	out := record.NewResult[record.Problem](spec.String())
	err := collectPages(ctx, c.session, "/problems", spec.problemParams(), "problems",
		firstProblemPage, problemTableSelectors, out,
		func(fs scrape.FieldSet) (record.Problem, error) {
			return record.NormalizeProblem(fs, c.session.BaseURL())
		})
	if err != nil {
		return nil, err
	}

	if !spec.Options().LowDetail {
		out = out.Filter(func(p record.Problem) bool { return spec.keep(p.Status) })
	}
	out.Sort(func(a, b record.Problem) bool { return a.ID < b.ID })
	return out, nil
}

// ProblemsLowDetail scrapes the trimmed problem list and keeps only each
// problem's identity. The spec must carry the low-detail option, since the
// full list renders columns this projection would silently discard.
func (c *Client) ProblemsLowDetail(ctx context.Context, spec Spec) (*record.Result[record.ProblemRef], error) {
	if spec.View() != ViewProblems {
		return nil, fmt.Errorf("problems: spec targets view %q", spec.View())
	}
	if !spec.Options().LowDetail {
		return nil, fmt.Errorf("problems: low-detail listing needs the low-detail option")
	}
	if err := c.session.EnsureValid(ctx); err != nil {
		return nil, err
	}

	out := record.NewResult[record.ProblemRef](spec.String())
	err := collectPages(ctx, c.session, "/problems", spec.problemParams(), "problems",
		firstProblemPage, problemTableSelectors, out,
		func(fs scrape.FieldSet) (record.ProblemRef, error) {
			return record.NormalizeProblemRef(fs, c.session.BaseURL())
		})
	if err != nil {
		return nil, err
	}
	out.Sort(func(a, b record.ProblemRef) bool { return a.ID < b.ID })
	return out, nil
}
