package kattis

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mvaldr/kattscope/pkg/record"
	"github.com/mvaldr/kattscope/pkg/scrape"
)

var submissionTableSelectors = []string{
	"table#submissions",
	"div#submissions-tab table",
	"table.table2",
	"table",
}

// Stats scrapes the session user's accepted submissions, optionally filtered
// to one language, and keeps only the best submission per problem. Best means
// highest score, then most test cases passed, then lowest runtime.
func (c *Client) Stats(ctx context.Context, spec Spec) (*record.Result[record.Stat], error) {
	if spec.View() != ViewStats {
		return nil, fmt.Errorf("stats: spec targets view %q", spec.View())
	}
	if err := c.session.EnsureValid(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("status", "Accepted")
	if lang := spec.Options().Language; lang != "" {
		params.Set("language", lang)
	}

	raw := record.NewResult[record.Stat](spec.String())
	err := collectPages(ctx, c.session, "/users/"+c.session.User(), params, "stats",
		firstUserPage, submissionTableSelectors, raw,
		func(fs scrape.FieldSet) (record.Stat, error) {
			return record.NormalizeStat(fs, c.session.BaseURL())
		})
	if err != nil {
		return nil, err
	}

	return dedupeBest(raw), nil
}

// dedupeBest collapses multiple accepted submissions of the same problem to
// the single best one, keeping first-seen problem order.
func dedupeBest(in *record.Result[record.Stat]) *record.Result[record.Stat] {
	best := make(map[string]record.Stat)
	var order []string
	for _, s := range in.All() {
		cur, seen := best[s.ProblemID]
		if !seen {
			best[s.ProblemID] = s
			order = append(order, s.ProblemID)
			continue
		}
		if statBetter(s, cur) {
			best[s.ProblemID] = s
		}
	}

	out := record.NewResult[record.Stat](in.Query)
	for i := 0; i < in.Dropped(); i++ {
		out.CountDropped()
	}
	for _, id := range order {
		out.Add(best[id])
	}
	return out
}

func statBetter(a, b record.Stat) bool {
	if av, bv := floatOrZero(a.Score), floatOrZero(b.Score); av != bv {
		return av > bv
	}
	if av, bv := intOrZero(a.TestCasesPassed), intOrZero(b.TestCasesPassed); av != bv {
		return av > bv
	}
	ar, aok := parseRuntime(a.Runtime)
	br, bok := parseRuntime(b.Runtime)
	if aok && bok {
		return ar < br
	}
	// A parseable runtime beats an over-limit "> 45.00" one.
	return aok && !bok
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func parseRuntime(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
