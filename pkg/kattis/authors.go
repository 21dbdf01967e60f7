package kattis

import (
	"context"
	"fmt"

	"github.com/mvaldr/kattscope/pkg/record"
	"github.com/mvaldr/kattscope/pkg/scrape"
)

var authorTableSelectors = []string{
	"table#problem_authors",
	"table#problem_sources",
	"section.strip table",
	"table.table2",
	"table",
}

// ProblemAuthors scrapes the site-wide author leaderboard: problems written
// and average difficulty per author.
func (c *Client) ProblemAuthors(ctx context.Context, spec Spec) (*record.Result[record.AuthorStat], error) {
	if spec.View() != ViewAuthors {
		return nil, fmt.Errorf("authors: spec targets view %q", spec.View())
	}
	return c.authorStats(ctx, spec, "/problem-authors", "authors")
}

// ProblemSources is ProblemAuthors for problem sources (contests and courses
// the problems originate from).
func (c *Client) ProblemSources(ctx context.Context, spec Spec) (*record.Result[record.AuthorStat], error) {
	if spec.View() != ViewSources {
		return nil, fmt.Errorf("sources: spec targets view %q", spec.View())
	}
	return c.authorStats(ctx, spec, "/problem-sources", "sources")
}

func (c *Client) authorStats(ctx context.Context, spec Spec, path, view string) (*record.Result[record.AuthorStat], error) {
	if err := c.session.EnsureValid(ctx); err != nil {
		return nil, err
	}
	out := record.NewResult[record.AuthorStat](spec.String())
	err := collectPages(ctx, c.session, path, nil, view, firstProblemPage, authorTableSelectors, out,
		func(fs scrape.FieldSet) (record.AuthorStat, error) {
			return record.NormalizeAuthorStat(fs, c.session.BaseURL())
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}
