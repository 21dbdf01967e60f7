package kattis

import (
	"context"
	"fmt"

	"github.com/mvaldr/kattscope/pkg/record"
	"github.com/mvaldr/kattscope/pkg/scrape"
)

// Suggestions scrapes the homepage's suggested-problems widget: one candidate
// problem per difficulty bucket, with the bucket's difficulty range. Anchored
// by headers because the homepage tables carry no ids.
func (c *Client) Suggestions(ctx context.Context, spec Spec) (*record.Result[record.Suggestion], error) {
	if spec.View() != ViewSuggestions {
		return nil, fmt.Errorf("suggestions: spec targets view %q", spec.View())
	}
	if err := c.session.EnsureValid(ctx); err != nil {
		return nil, err
	}

	doc, err := c.session.document(ctx, "/", nil)
	if err != nil {
		return nil, err
	}
	rows, err := scrape.HeaderTableRows(doc, "suggestions", "difficulty", "problem")
	if err != nil {
		return nil, err
	}

	out := record.NewResult[record.Suggestion](spec.String())
	err = collectRows(rows, "suggestions", out,
		func(fs scrape.FieldSet) (record.Suggestion, error) {
			return record.NormalizeSuggestion(fs, c.session.BaseURL())
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}
