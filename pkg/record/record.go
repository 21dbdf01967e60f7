// Package record holds the typed records the scraping pipeline produces, the
// normalization rules that build them from extracted field sets, and the
// ordered Result collection callers get back.
package record

import "fmt"

// Kind is the semantic type of a schema column.
type Kind string

const (
	KindString     Kind = "string"
	KindInt        Kind = "int"
	KindFloat      Kind = "float"
	KindStringList Kind = "string_list"
)

type Column struct {
	Name string
	Kind Kind
}

// Schema is the fixed, versioned column set of a record type. Column order is
// the declaration order and is preserved by ToTable.
type Schema struct {
	Version int
	Columns []Column
}

func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Record is one normalized unit of scraped output. Values are aligned with
// the record's schema columns; a nil value is the null sentinel for a field
// the page did not carry or that failed numeric coercion.
type Record interface {
	Schema() Schema
	Values() []any
}

func floatVal(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func intVal(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func asString(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func asFloatPtr(v any) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil, fmt.Errorf("expected float64, got %T", v)
	}
	return &f, nil
}

func asIntPtr(v any) (*int, error) {
	if v == nil {
		return nil, nil
	}
	n, ok := v.(int)
	if !ok {
		return nil, fmt.Errorf("expected int, got %T", v)
	}
	return &n, nil
}

func asStringList(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	l, ok := v.([]string)
	if !ok {
		return nil, fmt.Errorf("expected []string, got %T", v)
	}
	return l, nil
}

// rowScanner walks a tabular row left to right, remembering the first
// coercion failure. The FromRow constructors read one cell per schema column
// in declaration order and check Err once at the end.
type rowScanner struct {
	vals []any
	i    int
	err  error
}

func newRowScanner(schema Schema, vals []any) (*rowScanner, error) {
	if len(vals) != len(schema.Columns) {
		return nil, fmt.Errorf("expected %d values, got %d", len(schema.Columns), len(vals))
	}
	return &rowScanner{vals: vals}, nil
}

func (r *rowScanner) next() any {
	v := r.vals[r.i]
	r.i++
	return v
}

func (r *rowScanner) keep(err error) {
	if r.err == nil && err != nil {
		r.err = fmt.Errorf("column %d: %w", r.i, err)
	}
}

func (r *rowScanner) str() string {
	v, err := asString(r.next())
	r.keep(err)
	return v
}

func (r *rowScanner) floatPtr() *float64 {
	v, err := asFloatPtr(r.next())
	r.keep(err)
	return v
}

func (r *rowScanner) intPtr() *int {
	v, err := asIntPtr(r.next())
	r.keep(err)
	return v
}

func (r *rowScanner) strList() []string {
	v, err := asStringList(r.next())
	r.keep(err)
	return v
}

func (r *rowScanner) Err() error { return r.err }

// Problem is one row of the problem list view.
type Problem struct {
	ID         string
	Name       string
	Difficulty *float64
	Category   string
	Authors    []string
	Status     SolveStatus
	Fastest    *float64
	Shortest   *int
	Total      *int
	Acc        *int
	Link       string
}

var problemSchema = Schema{
	Version: 1,
	Columns: []Column{
		{"id", KindString},
		{"name", KindString},
		{"difficulty", KindFloat},
		{"category", KindString},
		{"authors", KindStringList},
		{"status", KindString},
		{"fastest", KindFloat},
		{"shortest", KindInt},
		{"total", KindInt},
		{"acc", KindInt},
		{"link", KindString},
	},
}

func (p Problem) Schema() Schema { return problemSchema }

func (p Problem) Values() []any {
	return []any{
		p.ID, p.Name, floatVal(p.Difficulty), p.Category, p.Authors,
		string(p.Status), floatVal(p.Fastest), intVal(p.Shortest),
		intVal(p.Total), intVal(p.Acc), p.Link,
	}
}

// ProblemFromRow rebuilds a Problem from a tabular row produced by ToTable.
func ProblemFromRow(vals []any) (Problem, error) {
	r, err := newRowScanner(problemSchema, vals)
	if err != nil {
		return Problem{}, err
	}
	p := Problem{
		ID:         r.str(),
		Name:       r.str(),
		Difficulty: r.floatPtr(),
		Category:   r.str(),
		Authors:    r.strList(),
		Status:     SolveStatus(r.str()),
		Fastest:    r.floatPtr(),
		Shortest:   r.intPtr(),
		Total:      r.intPtr(),
		Acc:        r.intPtr(),
		Link:       r.str(),
	}
	return p, r.Err()
}

// ProblemRef is the low-detail projection of a problem: just enough to link
// to it.
type ProblemRef struct {
	ID   string
	Name string
	Link string
}

var problemRefSchema = Schema{
	Version: 1,
	Columns: []Column{
		{"id", KindString},
		{"name", KindString},
		{"link", KindString},
	},
}

func (p ProblemRef) Schema() Schema { return problemRefSchema }
func (p ProblemRef) Values() []any  { return []any{p.ID, p.Name, p.Link} }

// ProblemRefFromRow rebuilds a ProblemRef from a tabular row.
func ProblemRefFromRow(vals []any) (ProblemRef, error) {
	r, err := newRowScanner(problemRefSchema, vals)
	if err != nil {
		return ProblemRef{}, err
	}
	p := ProblemRef{ID: r.str(), Name: r.str(), Link: r.str()}
	return p, r.Err()
}

// Stat is one accepted-submission row from the user's submission history.
type Stat struct {
	ProblemID       string
	Name            string
	Verdict         Verdict
	Score           *float64
	Runtime         string
	Language        string
	TestCasesPassed *int
	TestCasesTotal  *int
	Timestamp       string
	Link            string
}

var statSchema = Schema{
	Version: 1,
	Columns: []Column{
		{"id", KindString},
		{"name", KindString},
		{"verdict", KindString},
		{"score", KindFloat},
		{"runtime", KindString},
		{"language", KindString},
		{"test_case_passed", KindInt},
		{"test_case_full", KindInt},
		{"timestamp", KindString},
		{"link", KindString},
	},
}

func (s Stat) Schema() Schema { return statSchema }

func (s Stat) Values() []any {
	return []any{
		s.ProblemID, s.Name, string(s.Verdict), floatVal(s.Score), s.Runtime,
		s.Language, intVal(s.TestCasesPassed), intVal(s.TestCasesTotal),
		s.Timestamp, s.Link,
	}
}

// StatFromRow rebuilds a Stat from a tabular row.
func StatFromRow(vals []any) (Stat, error) {
	r, err := newRowScanner(statSchema, vals)
	if err != nil {
		return Stat{}, err
	}
	s := Stat{
		ProblemID:       r.str(),
		Name:            r.str(),
		Verdict:         Verdict(r.str()),
		Score:           r.floatPtr(),
		Runtime:         r.str(),
		Language:        r.str(),
		TestCasesPassed: r.intPtr(),
		TestCasesTotal:  r.intPtr(),
		Timestamp:       r.str(),
		Link:            r.str(),
	}
	return s, r.Err()
}

// RankEntry is one row of any of the ranklist views. Ranklist pages differ in
// which columns they render (country pages drop the country column, some
// carry subdivision, the top-100 country list carries user counts), so the
// schema is the union and absent columns stay at their null sentinel.
type RankEntry struct {
	Rank            *int
	Name            string
	Username        string
	Country         string
	CountryCode     string
	Subdivision     string
	SubdivisionCode string
	Affiliation     string
	AffiliationCode string
	Users           *int
	Affiliations    *int
	Score           *float64
	Runtime         *float64
	Length          *int
	Date            string
}

var rankEntrySchema = Schema{
	Version: 1,
	Columns: []Column{
		{"rank", KindInt},
		{"name", KindString},
		{"username", KindString},
		{"country", KindString},
		{"country_code", KindString},
		{"subdivision", KindString},
		{"subdivision_code", KindString},
		{"affiliation", KindString},
		{"affiliation_code", KindString},
		{"users", KindInt},
		{"affiliations", KindInt},
		{"score", KindFloat},
		{"runtime", KindFloat},
		{"length", KindInt},
		{"date", KindString},
	},
}

func (r RankEntry) Schema() Schema { return rankEntrySchema }

func (r RankEntry) Values() []any {
	return []any{
		intVal(r.Rank), r.Name, r.Username, r.Country, r.CountryCode,
		r.Subdivision, r.SubdivisionCode, r.Affiliation, r.AffiliationCode,
		intVal(r.Users), intVal(r.Affiliations), floatVal(r.Score),
		floatVal(r.Runtime), intVal(r.Length), r.Date,
	}
}

// RankEntryFromRow rebuilds a RankEntry from a tabular row.
func RankEntryFromRow(vals []any) (RankEntry, error) {
	r, err := newRowScanner(rankEntrySchema, vals)
	if err != nil {
		return RankEntry{}, err
	}
	e := RankEntry{
		Rank:            r.intPtr(),
		Name:            r.str(),
		Username:        r.str(),
		Country:         r.str(),
		CountryCode:     r.str(),
		Subdivision:     r.str(),
		SubdivisionCode: r.str(),
		Affiliation:     r.str(),
		AffiliationCode: r.str(),
		Users:           r.intPtr(),
		Affiliations:    r.intPtr(),
		Score:           r.floatPtr(),
		Runtime:         r.floatPtr(),
		Length:          r.intPtr(),
		Date:            r.str(),
	}
	return e, r.Err()
}

// Achievement is one solved-problem row that earned at least one badge.
type Achievement struct {
	ProblemID   string
	Name        string
	Runtime     *float64
	Length      *int
	Achievement string
	Difficulty  *float64
	Category    string
	Link        string
}

var achievementSchema = Schema{
	Version: 1,
	Columns: []Column{
		{"id", KindString},
		{"name", KindString},
		{"runtime", KindFloat},
		{"length", KindInt},
		{"achievement", KindString},
		{"difficulty", KindFloat},
		{"category", KindString},
		{"link", KindString},
	},
}

func (a Achievement) Schema() Schema { return achievementSchema }

func (a Achievement) Values() []any {
	return []any{
		a.ProblemID, a.Name, floatVal(a.Runtime), intVal(a.Length),
		a.Achievement, floatVal(a.Difficulty), a.Category, a.Link,
	}
}

// AchievementFromRow rebuilds an Achievement from a tabular row.
func AchievementFromRow(vals []any) (Achievement, error) {
	r, err := newRowScanner(achievementSchema, vals)
	if err != nil {
		return Achievement{}, err
	}
	a := Achievement{
		ProblemID:   r.str(),
		Name:        r.str(),
		Runtime:     r.floatPtr(),
		Length:      r.intPtr(),
		Achievement: r.str(),
		Difficulty:  r.floatPtr(),
		Category:    r.str(),
		Link:        r.str(),
	}
	return a, r.Err()
}

// Suggestion is one recommended problem from the authenticated homepage.
type Suggestion struct {
	ProblemID  string
	Name       string
	Difficulty string
	Min        *float64
	Max        *float64
	Link       string
}

var suggestionSchema = Schema{
	Version: 1,
	Columns: []Column{
		{"id", KindString},
		{"name", KindString},
		{"difficulty", KindString},
		{"min", KindFloat},
		{"max", KindFloat},
		{"link", KindString},
	},
}

func (s Suggestion) Schema() Schema { return suggestionSchema }

func (s Suggestion) Values() []any {
	return []any{s.ProblemID, s.Name, s.Difficulty, floatVal(s.Min), floatVal(s.Max), s.Link}
}

// SuggestionFromRow rebuilds a Suggestion from a tabular row.
func SuggestionFromRow(vals []any) (Suggestion, error) {
	r, err := newRowScanner(suggestionSchema, vals)
	if err != nil {
		return Suggestion{}, err
	}
	s := Suggestion{
		ProblemID:  r.str(),
		Name:       r.str(),
		Difficulty: r.str(),
		Min:        r.floatPtr(),
		Max:        r.floatPtr(),
		Link:       r.str(),
	}
	return s, r.Err()
}

// AuthorStat is one row of the problem-authors or problem-sources index.
type AuthorStat struct {
	Name          string
	Problems      *int
	AvgDifficulty *float64
	AvgCategory   string
	Link          string
}

var authorStatSchema = Schema{
	Version: 1,
	Columns: []Column{
		{"name", KindString},
		{"problems", KindInt},
		{"avg_difficulty", KindFloat},
		{"avg_category", KindString},
		{"link", KindString},
	},
}

func (a AuthorStat) Schema() Schema { return authorStatSchema }

func (a AuthorStat) Values() []any {
	return []any{a.Name, intVal(a.Problems), floatVal(a.AvgDifficulty), a.AvgCategory, a.Link}
}

// AuthorStatFromRow rebuilds an AuthorStat from a tabular row.
func AuthorStatFromRow(vals []any) (AuthorStat, error) {
	r, err := newRowScanner(authorStatSchema, vals)
	if err != nil {
		return AuthorStat{}, err
	}
	a := AuthorStat{
		Name:          r.str(),
		Problems:      r.intPtr(),
		AvgDifficulty: r.floatPtr(),
		AvgCategory:   r.str(),
		Link:          r.str(),
	}
	return a, r.Err()
}

// Course is one course the account can see on a course-enabled deployment.
type Course struct {
	ID   string
	Name string
	Link string
}

var courseSchema = Schema{
	Version: 1,
	Columns: []Column{
		{"course_id", KindString},
		{"name", KindString},
		{"link", KindString},
	},
}

func (c Course) Schema() Schema { return courseSchema }
func (c Course) Values() []any  { return []any{c.ID, c.Name, c.Link} }

// CourseFromRow rebuilds a Course from a tabular row.
func CourseFromRow(vals []any) (Course, error) {
	r, err := newRowScanner(courseSchema, vals)
	if err != nil {
		return Course{}, err
	}
	c := Course{ID: r.str(), Name: r.str(), Link: r.str()}
	return c, r.Err()
}

// Offering is one term offering of a course.
type Offering struct {
	CourseID string
	Name     string
	EndDate  string
	Link     string
}

var offeringSchema = Schema{
	Version: 1,
	Columns: []Column{
		{"course_id", KindString},
		{"name", KindString},
		{"end_date", KindString},
		{"link", KindString},
	},
}

func (o Offering) Schema() Schema { return offeringSchema }
func (o Offering) Values() []any  { return []any{o.CourseID, o.Name, o.EndDate, o.Link} }

// OfferingFromRow rebuilds an Offering from a tabular row.
func OfferingFromRow(vals []any) (Offering, error) {
	r, err := newRowScanner(offeringSchema, vals)
	if err != nil {
		return Offering{}, err
	}
	o := Offering{CourseID: r.str(), Name: r.str(), EndDate: r.str(), Link: r.str()}
	return o, r.Err()
}

// Assignment is one assignment inside a course offering, with its problem ids
// in page order.
type Assignment struct {
	ID         string
	Name       string
	CourseID   string
	OfferingID string
	Status     string
	DueDate    string
	ProblemIDs []string
	Link       string
}

var assignmentSchema = Schema{
	Version: 1,
	Columns: []Column{
		{"id", KindString},
		{"name", KindString},
		{"course_id", KindString},
		{"offering_id", KindString},
		{"status", KindString},
		{"due_date", KindString},
		{"problems", KindStringList},
		{"link", KindString},
	},
}

func (a Assignment) Schema() Schema { return assignmentSchema }

func (a Assignment) Values() []any {
	return []any{a.ID, a.Name, a.CourseID, a.OfferingID, a.Status, a.DueDate, a.ProblemIDs, a.Link}
}

// AssignmentFromRow rebuilds an Assignment from a tabular row.
func AssignmentFromRow(vals []any) (Assignment, error) {
	r, err := newRowScanner(assignmentSchema, vals)
	if err != nil {
		return Assignment{}, err
	}
	a := Assignment{
		ID:         r.str(),
		Name:       r.str(),
		CourseID:   r.str(),
		OfferingID: r.str(),
		Status:     r.str(),
		DueDate:    r.str(),
		ProblemIDs: r.strList(),
		Link:       r.str(),
	}
	return a, r.Err()
}

// LanguageStat is a per-language fastest/shortest leaderboard attached to a
// problem detail.
type LanguageStat struct {
	Language    string
	Kind        string // fastest | shortest
	Description string
	Entries     []RankEntry
}

// ProblemDetail is the full record for a single problem page. The nested
// leaderboards and submission history are exposed as typed sub-slices; the
// tabular projection covers the scalar and list fields.
type ProblemDetail struct {
	ID         string
	Text       string
	CPU        string
	Memory     string
	Difficulty *float64
	Category   string
	Authors    []string
	Source     string
	Link       string
	Offerings  []string

	Statistics  []LanguageStat
	Submissions []Stat
}

var problemDetailSchema = Schema{
	Version: 1,
	Columns: []Column{
		{"id", KindString},
		{"text", KindString},
		{"cpu", KindString},
		{"memory", KindString},
		{"difficulty", KindFloat},
		{"category", KindString},
		{"authors", KindStringList},
		{"source", KindString},
		{"link", KindString},
		{"offerings", KindStringList},
	},
}

func (p ProblemDetail) Schema() Schema { return problemDetailSchema }

func (p ProblemDetail) Values() []any {
	return []any{
		p.ID, p.Text, p.CPU, p.Memory, floatVal(p.Difficulty), p.Category,
		p.Authors, p.Source, p.Link, p.Offerings,
	}
}

// ProblemDetailFromRow rebuilds a ProblemDetail's scalar and list fields from
// a tabular row. The nested leaderboards and submissions are not part of the
// tabular projection, so they come back empty.
func ProblemDetailFromRow(vals []any) (ProblemDetail, error) {
	r, err := newRowScanner(problemDetailSchema, vals)
	if err != nil {
		return ProblemDetail{}, err
	}
	p := ProblemDetail{
		ID:         r.str(),
		Text:       r.str(),
		CPU:        r.str(),
		Memory:     r.str(),
		Difficulty: r.floatPtr(),
		Category:   r.str(),
		Authors:    r.strList(),
		Source:     r.str(),
		Link:       r.str(),
		Offerings:  r.strList(),
	}
	return p, r.Err()
}
