package record

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mvaldr/kattscope/internal/utils"
	"github.com/mvaldr/kattscope/pkg/geo"
	"github.com/mvaldr/kattscope/pkg/scrape"
)

// NormalizationErrorReason classifies row-level normalization failures.
type NormalizationErrorReason string

const (
	// ReasonMalformedPrimaryKey means the row's identity field (problem id,
	// assignment id, ...) could not be established, so the row is dropped.
	ReasonMalformedPrimaryKey NormalizationErrorReason = "malformed_primary_key"
)

type NormalizationError struct {
	Reason NormalizationErrorReason
	View   string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s row: %s", e.View, e.Reason)
}

var (
	numberRun = regexp.MustCompile(`[\d.]+`)
	alphaRun  = regexp.MustCompile(`[A-Za-z]+`)
)

// ParseDifficulty pulls a difficulty score out of cells like "4.7", "Medium
// 4.1 - 9.6" (the max end of a range wins) and rounds it to 2 decimals.
// Anything unparsable or outside the site's 1.0-10.0 scale normalizes to nil.
func ParseDifficulty(s string) *float64 {
	runs := numberRun.FindAllString(s, -1)
	if len(runs) == 0 {
		return nil
	}
	v, err := strconv.ParseFloat(runs[len(runs)-1], 64)
	if err != nil || v < 1.0 || v > 10.0 {
		return nil
	}
	v = Round2(v)
	return &v
}

// ParseCategory pulls the difficulty category label ("Easy", "Medium",
// "Hard") out of a difficulty cell, defaulting to "N/A".
func ParseCategory(s string) string {
	if m := alphaRun.FindString(s); m != "" {
		return m
	}
	return "N/A"
}

// Round2 applies the documented 2-decimal rounding for difficulty scores.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseFloatField coerces a numeric cell, treating the site's "--"
// placeholder and garbage as the null sentinel.
func ParseFloatField(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || utils.IsPlaceholder(s) {
		return nil
	}
	// Cells like "0.01 s" carry a unit suffix.
	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseIntField is ParseFloatField for integer cells.
func ParseIntField(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" || utils.IsPlaceholder(s) {
		return nil
	}
	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// ParseScore pulls a partial score out of a status cell like "Accepted (70)".
func ParseScore(s string) *float64 {
	m := scoreValue.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseTestCases splits a "14/17" test-case cell.
func ParseTestCases(s string) (passed, total *int) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return nil, nil
	}
	return ParseIntField(parts[0]), ParseIntField(parts[1])
}

func textAny(fs scrape.FieldSet, names ...string) string {
	for _, n := range names {
		if fs.Has(n) {
			return fs.Text(n)
		}
	}
	return ""
}

func fieldAny(fs scrape.FieldSet, names ...string) (scrape.Field, bool) {
	for _, n := range names {
		if f, ok := fs[n]; ok {
			return f, true
		}
	}
	return scrape.Field{}, false
}

// AbsoluteURL resolves a scraped href against the site base URL.
func AbsoluteURL(baseURL, href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(href, "/")
}

// NormalizeProblem turns a problem list row into a Problem. The row's
// identity comes from its problem link; a row without one cannot be keyed and
// fails with a NormalizationError.
func NormalizeProblem(fs scrape.FieldSet, baseURL string) (Problem, error) {
	nameField, ok := fieldAny(fs, "name", "problem", "problem name")
	href := ""
	if ok && len(nameField.Links) > 0 {
		href = nameField.Links[len(nameField.Links)-1].Href
	}
	id := utils.LastPath(href)
	if id == "" {
		return Problem{}, &NormalizationError{Reason: ReasonMalformedPrimaryKey, View: "problems"}
	}

	diffCell := textAny(fs, "difficulty", "difficulty category", "diff")
	return Problem{
		ID:         id,
		Name:       nameField.Text,
		Difficulty: ParseDifficulty(diffCell),
		Category:   ParseCategory(diffCell),
		Status:     ParseSolveStatus(textAny(fs, "status")),
		Fastest:    ParseFloatField(textAny(fs, "fastest", "fastest runtime")),
		Shortest:   ParseIntField(textAny(fs, "shortest", "shortest length")),
		Total:      ParseIntField(textAny(fs, "total", "submissions", "n submissions")),
		Acc:        ParseIntField(textAny(fs, "acc", "accepted")),
		Link:       AbsoluteURL(baseURL, href),
	}, nil
}

// NormalizeProblemRef keeps just the identity of a problem list row. The
// trimmed list renders no per-user columns, so this is all it can carry.
func NormalizeProblemRef(fs scrape.FieldSet, baseURL string) (ProblemRef, error) {
	nameField, ok := fieldAny(fs, "name", "problem", "problem name")
	href := ""
	if ok && len(nameField.Links) > 0 {
		href = nameField.Links[len(nameField.Links)-1].Href
	}
	id := utils.LastPath(href)
	if id == "" {
		return ProblemRef{}, &NormalizationError{Reason: ReasonMalformedPrimaryKey, View: "problems"}
	}
	return ProblemRef{
		ID:   id,
		Name: nameField.Text,
		Link: AbsoluteURL(baseURL, href),
	}, nil
}

// NormalizeStat turns an accepted-submission row into a Stat. Contest rows
// carry two links in the problem cell; the problem link is the last one.
func NormalizeStat(fs scrape.FieldSet, baseURL string) (Stat, error) {
	probField, ok := fieldAny(fs, "problem", "contest problem name", "name")
	href := ""
	if ok && len(probField.Links) > 0 {
		href = probField.Links[len(probField.Links)-1].Href
	}
	id := utils.LastPath(href)
	if id == "" {
		return Stat{}, &NormalizationError{Reason: ReasonMalformedPrimaryKey, View: "stats"}
	}

	status := textAny(fs, "status")
	passed, total := ParseTestCases(textAny(fs, "test cases", "testcases", "tc"))

	link := ""
	if details, ok := fieldAny(fs, "view details", "details", "actions"); ok && len(details.Links) > 0 {
		link = AbsoluteURL(baseURL, details.Links[0].Href)
	}

	return Stat{
		ProblemID:       id,
		Name:            utils.LastPath(probField.Text),
		Verdict:         ParseVerdict(status),
		Score:           ParseScore(status),
		Runtime:         trimRuntimeUnit(textAny(fs, "cpu", "cpu runtime", "runtime")),
		Language:        textAny(fs, "language", "programming language", "lang"),
		TestCasesPassed: passed,
		TestCasesTotal:  total,
		Timestamp:       textAny(fs, "submission time", "time", "date"),
		Link:            link,
	}, nil
}

// trimRuntimeUnit keeps runtimes as strings because over-limit rows render as
// "> 45.00 s" and are still meaningful; only the unit suffix is dropped.
func trimRuntimeUnit(s string) string {
	fields := strings.Fields(s)
	if len(fields) > 1 && (fields[len(fields)-1] == "s" || fields[len(fields)-1] == "ms") {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

// NormalizeRankEntry turns one ranklist row into a RankEntry. Geography cells
// resolve their canonical code from the cell's link when present, and fall
// back to the static lookup tables, and finally to the raw display string.
func NormalizeRankEntry(fs scrape.FieldSet, baseURL string) (RankEntry, error) {
	entry := RankEntry{
		Rank: ParseIntField(textAny(fs, "rank")),
		Date: textAny(fs, "date"),
	}

	if userField, ok := fieldAny(fs, "user", "name"); ok {
		entry.Name = userField.Text
		for _, l := range userField.Links {
			switch {
			case strings.Contains(l.Href, "/users/"):
				entry.Username = utils.LastPath(l.Href)
			case strings.Contains(l.Href, "/countries/"):
				entry.Country = l.Text
				entry.CountryCode = utils.LastPath(l.Href)
			case strings.Contains(l.Href, "/universities/") || strings.Contains(l.Href, "/affiliations/"):
				entry.Affiliation = l.Text
				entry.AffiliationCode = utils.LastPath(l.Href)
			}
		}
	}

	if countryField, ok := fieldAny(fs, "country"); ok && countryField.Text != "" {
		entry.Country = countryField.Text
		if len(countryField.Links) > 0 {
			entry.CountryCode = utils.LastPath(countryField.Links[0].Href)
		} else {
			entry.CountryCode = geo.CountryCode(countryField.Text)
		}
	}
	if subField, ok := fieldAny(fs, "subdivision"); ok && subField.Text != "" {
		entry.Subdivision = subField.Text
		if len(subField.Links) > 0 {
			entry.SubdivisionCode = utils.LastPath(subField.Links[0].Href)
		}
	}
	if affField, ok := fieldAny(fs, "university", "affiliation"); ok && affField.Text != "" {
		entry.Affiliation = affField.Text
		if len(affField.Links) > 0 {
			entry.AffiliationCode = geo.NormalizeAffiliationCode(utils.LastPath(affField.Links[0].Href))
		} else {
			entry.AffiliationCode = geo.AffiliationCode(affField.Text)
		}
	}

	entry.Users = ParseIntField(textAny(fs, "users"))
	entry.Affiliations = ParseIntField(textAny(fs, "universities", "affiliations"))
	entry.Score = ParseFloatField(textAny(fs, "score", "points", "challenge score"))
	entry.Runtime = ParseFloatField(textAny(fs, "runtime"))
	entry.Length = ParseIntField(textAny(fs, "length"))

	// Ranklists have no stable primary key beyond the row itself; an entry
	// naming neither a user nor a country nor an affiliation is noise.
	if entry.Name == "" && entry.Country == "" && entry.Affiliation == "" {
		return RankEntry{}, &NormalizationError{Reason: ReasonMalformedPrimaryKey, View: "ranklist"}
	}
	return entry, nil
}

// NormalizeAchievement turns one achievements row into an Achievement.
func NormalizeAchievement(fs scrape.FieldSet, baseURL string) (Achievement, error) {
	nameField, ok := fieldAny(fs, "name", "problem")
	href := ""
	if ok && len(nameField.Links) > 0 {
		href = nameField.Links[0].Href
	}
	id := utils.LastPath(href)
	if id == "" {
		return Achievement{}, &NormalizationError{Reason: ReasonMalformedPrimaryKey, View: "achievements"}
	}

	diffCell := textAny(fs, "difficulty")
	return Achievement{
		ProblemID:   id,
		Name:        nameField.Text,
		Runtime:     ParseFloatField(textAny(fs, "cpu runtime", "runtime")),
		Length:      ParseIntField(textAny(fs, "length")),
		Achievement: textAny(fs, "achievements", "achievement"),
		Difficulty:  ParseDifficulty(diffCell),
		Category:    ParseCategory(diffCell),
		Link:        AbsoluteURL(baseURL, href),
	}, nil
}

// NormalizeSuggestion turns one suggested-problems row into a Suggestion. The
// difficulty cell renders as a bucket label plus a range ("Medium 4.1 - 6.7");
// single-value cells collapse to an equal min/max.
func NormalizeSuggestion(fs scrape.FieldSet, baseURL string) (Suggestion, error) {
	nameField, ok := fieldAny(fs, "problem", "name", "suggested problem")
	href := ""
	if ok && len(nameField.Links) > 0 {
		href = nameField.Links[len(nameField.Links)-1].Href
	}
	id := utils.LastPath(href)
	if id == "" {
		return Suggestion{}, &NormalizationError{Reason: ReasonMalformedPrimaryKey, View: "suggestions"}
	}

	diffCell := textAny(fs, "difficulty")
	var min, max *float64
	if runs := numberRun.FindAllString(diffCell, -1); len(runs) > 0 {
		min = ParseFloatField(runs[0])
		max = ParseFloatField(runs[len(runs)-1])
	}
	return Suggestion{
		ProblemID:  id,
		Name:       nameField.Text,
		Difficulty: ParseCategory(diffCell),
		Min:        min,
		Max:        max,
		Link:       AbsoluteURL(baseURL, href),
	}, nil
}

// NormalizeOffering turns one course-offering row into an Offering.
func NormalizeOffering(fs scrape.FieldSet, baseURL, courseID string) (Offering, error) {
	nameField, ok := fieldAny(fs, "name", "offering", "course offering")
	if !ok || nameField.Text == "" {
		return Offering{}, &NormalizationError{Reason: ReasonMalformedPrimaryKey, View: "offerings"}
	}
	link := ""
	if len(nameField.Links) > 0 {
		link = AbsoluteURL(baseURL, nameField.Links[0].Href)
	}
	return Offering{
		CourseID: courseID,
		Name:     nameField.Text,
		EndDate:  textAny(fs, "end date", "ends", "end"),
		Link:     link,
	}, nil
}

// NormalizeAuthorStat turns one problem-authors/problem-sources row into an
// AuthorStat.
func NormalizeAuthorStat(fs scrape.FieldSet, baseURL string) (AuthorStat, error) {
	nameField, ok := fieldAny(fs, "author", "source", "name")
	if !ok || nameField.Text == "" {
		return AuthorStat{}, &NormalizationError{Reason: ReasonMalformedPrimaryKey, View: "authors"}
	}
	link := ""
	if len(nameField.Links) > 0 {
		link = AbsoluteURL(baseURL, nameField.Links[0].Href)
	}
	diffCell := textAny(fs, "avg difficulty", "avg diff", "difficulty")
	return AuthorStat{
		Name:          nameField.Text,
		Problems:      ParseIntField(textAny(fs, "problems")),
		AvgDifficulty: ParseDifficulty(diffCell),
		AvgCategory:   ParseCategory(diffCell),
		Link:          link,
	}, nil
}
