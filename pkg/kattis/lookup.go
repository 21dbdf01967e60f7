package kattis

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/mvaldr/kattscope/internal/utils"
	"github.com/mvaldr/kattscope/pkg/geo"
	"github.com/mvaldr/kattscope/pkg/scrape"
)

// selectDataRe matches the JSON array of {text, url} objects the site embeds
// in its select-widget bootstrap scripts.
var selectDataRe = regexp.MustCompile(`\[\s*\{[^\]]*\}\s*\]`)

// Languages scrapes the language filter of the session user's submission page
// and returns display name -> filter code ("C++" -> "cpp").
func (c *Client) Languages(ctx context.Context) (map[string]string, error) {
	if err := c.session.EnsureValid(ctx); err != nil {
		return nil, err
	}
	doc, err := c.session.document(ctx, "/users/"+c.session.User(), nil)
	if err != nil {
		return nil, err
	}

	options := doc.Find(`select[name="language"] option`)
	if options.Length() == 0 {
		return nil, &scrape.ParseError{Reason: scrape.ReasonNoMatchingStructure, View: "languages"}
	}

	out := make(map[string]string)
	options.Each(func(_ int, opt *goquery.Selection) {
		code, _ := opt.Attr("value")
		name := utils.CollapseSpaces(opt.Text())
		if code != "" && name != "" {
			out[name] = code
		}
	})
	return out, nil
}

// Countries scrapes the country select data embedded on the country ranklist
// and returns canonical code -> display name.
func (c *Client) Countries(ctx context.Context) (map[string]string, error) {
	return c.selectData(ctx, "/ranklist/countries", "/countries/", "countries", nil)
}

// Affiliations is Countries for universities/affiliations. Codes are
// collapsed to their registrable domain.
func (c *Client) Affiliations(ctx context.Context) (map[string]string, error) {
	return c.selectData(ctx, "/ranklist/universities", "/universities/", "affiliations",
		geo.NormalizeAffiliationCode)
}

// selectData pulls a {text, url} select bootstrap array out of the page's
// scripts and maps each entry's trailing url segment to its display text.
func (c *Client) selectData(ctx context.Context, path, hrefMarker, view string, normalizeCode func(string) string) (map[string]string, error) {
	if err := c.session.EnsureValid(ctx); err != nil {
		return nil, err
	}
	doc, err := c.session.document(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string)
	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := script.Text()
		if !strings.Contains(text, strings.ReplaceAll(hrefMarker, "/", `\/`)) &&
			!strings.Contains(text, hrefMarker) {
			return true
		}
		blob := selectDataRe.FindString(text)
		if blob == "" {
			return true
		}
		gjson.Parse(blob).ForEach(func(_, item gjson.Result) bool {
			name := item.Get("text").String()
			code := utils.LastPath(item.Get("url").String())
			if name == "" || code == "" {
				return true
			}
			if normalizeCode != nil {
				code = normalizeCode(code)
			}
			out[code] = name
			return true
		})
		return len(out) == 0
	})

	if len(out) == 0 {
		return nil, &scrape.ParseError{Reason: scrape.ReasonNoMatchingStructure, View: view}
	}
	return out, nil
}
