package kattis

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mvaldr/kattscope/pkg/record"
	"github.com/mvaldr/kattscope/pkg/scrape"
)

// Achievements scrapes the session user's achievements tab (fastest/shortest
// submission badges). Instances without the achievements feature fail with a
// structure mismatch rather than an empty collection.
func (c *Client) Achievements(ctx context.Context, spec Spec) (*record.Result[record.Achievement], error) {
	if spec.View() != ViewAchievements {
		return nil, fmt.Errorf("achievements: spec targets view %q", spec.View())
	}
	if err := c.session.EnsureValid(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("tab", "achievements")

	out := record.NewResult[record.Achievement](spec.String())
	err := collectPages(ctx, c.session, "/users/"+c.session.User(), params, "achievements",
		firstUserPage, []string{"table#achievements", "div#achievements-tab table"}, out,
		func(fs scrape.FieldSet) (record.Achievement, error) {
			return record.NormalizeAchievement(fs, c.session.BaseURL())
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}
