package kattis

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mvaldr/kattscope/pkg/geo"
	"github.com/mvaldr/kattscope/pkg/record"
	"github.com/mvaldr/kattscope/pkg/scrape"
)

var ranklistTableSelectors = []string{
	"table#top_users",
	"section.strip table",
	"table.table2",
	"table",
}

// Ranklist scrapes the ranklist variant the spec selects. The top-level
// ranklists are single fixed-size pages; country and affiliation member lists
// paginate.
func (c *Client) Ranklist(ctx context.Context, spec Spec) (*record.Result[record.RankEntry], error) {
	if spec.View() != ViewRanklist {
		return nil, fmt.Errorf("ranklist: spec targets view %q", spec.View())
	}
	if err := c.session.EnsureValid(ctx); err != nil {
		return nil, err
	}

	opts := spec.Options()
	out := record.NewResult[record.RankEntry](spec.String())
	norm := func(fs scrape.FieldSet) (record.RankEntry, error) {
		return record.NormalizeRankEntry(fs, c.session.BaseURL())
	}

	switch opts.Ranklist {
	case RanklistUsers:
		if err := collectOnePage(ctx, c.session, "/ranklist", nil, "ranklist",
			ranklistTableSelectors, out, norm); err != nil {
			return nil, err
		}
	case RanklistChallenge:
		if err := collectOnePage(ctx, c.session, "/ranklist/challenge", nil, "ranklist",
			ranklistTableSelectors, out, norm); err != nil {
			return nil, err
		}
	case RanklistCountries:
		if err := c.countryRanklist(ctx, opts.Country, out, norm); err != nil {
			return nil, err
		}
	case RanklistAffiliations:
		if err := c.affiliationRanklist(ctx, opts.Affiliation, out, norm); err != nil {
			return nil, err
		}
	case RanklistNearby:
		if err := c.nearbyRanklist(ctx, out, norm); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("ranklist: unknown kind %q", opts.Ranklist)
	}
	return out, nil
}

// countryRanklist scrapes either the ranking of countries or, when a country
// is given, the users ranked within it. Display names resolve to their
// canonical code before hitting the URL.
func (c *Client) countryRanklist(ctx context.Context, country string, out *record.Result[record.RankEntry], norm func(scrape.FieldSet) (record.RankEntry, error)) error {
	if country == "" {
		return collectOnePage(ctx, c.session, "/ranklist/countries", nil, "ranklist",
			ranklistTableSelectors, out, norm)
	}
	code := geo.CountryCode(country)
	return collectPages(ctx, c.session, "/countries/"+url.PathEscape(code), nil, "ranklist",
		firstProblemPage, ranklistTableSelectors, out, norm)
}

// affiliationRanklist is countryRanklist for universities/affiliations.
func (c *Client) affiliationRanklist(ctx context.Context, affiliation string, out *record.Result[record.RankEntry], norm func(scrape.FieldSet) (record.RankEntry, error)) error {
	if affiliation == "" {
		return collectOnePage(ctx, c.session, "/ranklist/universities", nil, "ranklist",
			ranklistTableSelectors, out, norm)
	}
	code := geo.AffiliationCode(affiliation)
	return collectPages(ctx, c.session, "/universities/"+url.PathEscape(code), nil, "ranklist",
		firstProblemPage, ranklistTableSelectors, out, norm)
}

// nearbyRanklist scrapes the homepage snippet ranking the session user among
// their neighbors. The homepage renders several anonymous tables, so this one
// is anchored by its headers rather than a selector.
func (c *Client) nearbyRanklist(ctx context.Context, out *record.Result[record.RankEntry], norm func(scrape.FieldSet) (record.RankEntry, error)) error {
	doc, err := c.session.document(ctx, "/", nil)
	if err != nil {
		return err
	}
	rows, err := scrape.HeaderTableRows(doc, "ranklist", "rank", "score")
	if err != nil {
		return err
	}
	return collectRows(rows, "ranklist", out, norm)
}
