package kattis

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/mvaldr/kattscope/pkg/record"
)

// View names one scrapeable page family.
type View string

const (
	ViewProblems     View = "problems"
	ViewProblem      View = "problem"
	ViewStats        View = "stats"
	ViewAchievements View = "achievements"
	ViewSuggestions  View = "suggestions"
	ViewRanklist     View = "ranklist"
	ViewAuthors      View = "authors"
	ViewSources      View = "sources"
	ViewCourses      View = "courses"
	ViewOfferings    View = "offerings"
	ViewAssignments  View = "assignments"
)

// RanklistKind selects which ranklist variant a ranklist query targets.
type RanklistKind string

const (
	RanklistUsers        RanklistKind = "users"
	RanklistCountries    RanklistKind = "countries"
	RanklistAffiliations RanklistKind = "affiliations"
	RanklistChallenge    RanklistKind = "challenge"
	RanklistNearby       RanklistKind = "nearby"
)

// Options carries the raw filter knobs for a query. The zero value of each
// field means "not set"; the problem-list flags default to showing everything
// when none of them is set.
type Options struct {
	ShowSolved  bool
	ShowPartial bool
	ShowTried   bool
	ShowUntried bool
	// LowDetail requests the trimmed problem list that omits per-user solve
	// state. It cannot be combined with ShowTried/ShowUntried, which depend on
	// exactly that state.
	LowDetail bool

	ProblemIDs []string
	// WithStatistics and WithSubmissions pull the per-language leaderboards
	// and the session user's own submissions for each problem detail. Both add
	// one extra page fetch per problem.
	WithStatistics  bool
	WithSubmissions bool

	Language string

	Ranklist    RanklistKind
	Country     string
	Affiliation string

	CourseID   string
	OfferingID string
}

// Spec is a validated, immutable query specification. Construct one with
// NewSpec; a Spec that exists is a Spec that passed validation.
type Spec struct {
	view View
	opts Options
}

// NewSpec validates the options against the view and freezes them. Invalid
// combinations are rejected here, before any network traffic happens.
func NewSpec(view View, opts Options) (Spec, error) {
	switch view {
	case ViewProblems:
		if opts.LowDetail && (opts.ShowTried || opts.ShowUntried) {
			return Spec{}, fmt.Errorf("query: low-detail problem list cannot filter on tried/untried state")
		}
		if !opts.ShowSolved && !opts.ShowPartial && !opts.ShowTried && !opts.ShowUntried {
			// No flag set means no filtering at all.
			opts.ShowSolved, opts.ShowPartial, opts.ShowTried, opts.ShowUntried = true, true, true, true
		}
	case ViewProblem:
		if len(opts.ProblemIDs) == 0 {
			return Spec{}, fmt.Errorf("query: problem view needs at least one problem id")
		}
	case ViewRanklist:
		if opts.Ranklist == "" {
			opts.Ranklist = RanklistUsers
		}
		if opts.Country != "" && opts.Affiliation != "" {
			return Spec{}, fmt.Errorf("query: country and affiliation filters are mutually exclusive")
		}
	case ViewOfferings:
		if opts.CourseID == "" {
			return Spec{}, fmt.Errorf("query: offerings view needs a course id")
		}
	case ViewAssignments:
		if opts.OfferingID == "" {
			return Spec{}, fmt.Errorf("query: assignments view needs an offering id")
		}
	case ViewStats, ViewAchievements, ViewSuggestions, ViewAuthors, ViewSources, ViewCourses:
	default:
		return Spec{}, fmt.Errorf("query: unknown view %q", view)
	}

	// Freeze the id list so later mutations of the caller's slice cannot leak
	// into the spec.
	opts.ProblemIDs = append([]string(nil), opts.ProblemIDs...)
	return Spec{view: view, opts: opts}, nil
}

func (s Spec) View() View       { return s.view }
func (s Spec) Options() Options { return s.opts }

func (s Spec) ProblemIDs() []string {
	return append([]string(nil), s.opts.ProblemIDs...)
}

// keep reports whether a row's solve status passes the spec's filter flags.
// The site applies the same flags server-side, but rows it renders anyway
// (cached pages, inconsistent instances) still get filtered here.
func (s Spec) keep(st record.SolveStatus) bool {
	switch st {
	case record.SolveSolved:
		return s.opts.ShowSolved
	case record.SolvePartial:
		return s.opts.ShowPartial
	case record.SolveTried:
		return s.opts.ShowTried
	case record.SolveUntried:
		return s.opts.ShowUntried
	default:
		return true
	}
}

// onOff renders a boolean the way the site's filter form does.
func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// problemParams builds the filter query parameters for the problem list.
func (s Spec) problemParams() url.Values {
	v := url.Values{}
	if s.opts.LowDetail {
		// The trimmed list has no per-user columns and takes no solve-state
		// filters.
		v.Set("show_solved", onOff(s.opts.ShowSolved))
		v.Set("show_partial", onOff(s.opts.ShowPartial))
		return v
	}
	v.Set("f_solved", onOff(s.opts.ShowSolved))
	v.Set("f_partial-score", onOff(s.opts.ShowPartial))
	v.Set("f_tried", onOff(s.opts.ShowTried))
	v.Set("f_untried", onOff(s.opts.ShowUntried))
	return v
}

// String renders a canonical, deterministic description of the query, used to
// tag result collections.
func (s Spec) String() string {
	parts := []string{string(s.view)}
	if s.view == ViewRanklist {
		parts = append(parts, string(s.opts.Ranklist))
	}

	var flags []string
	switch s.view {
	case ViewProblems:
		if s.opts.LowDetail {
			flags = append(flags, "low_detail")
		}
		for _, f := range []struct {
			name string
			set  bool
		}{
			{"solved", s.opts.ShowSolved},
			{"partial", s.opts.ShowPartial},
			{"tried", s.opts.ShowTried},
			{"untried", s.opts.ShowUntried},
		} {
			if f.set {
				flags = append(flags, f.name)
			}
		}
	case ViewProblem:
		ids := append([]string(nil), s.opts.ProblemIDs...)
		sort.Strings(ids)
		flags = append(flags, "ids="+strings.Join(ids, ","))
	case ViewStats:
		if s.opts.Language != "" {
			flags = append(flags, "language="+s.opts.Language)
		}
	case ViewRanklist:
		if s.opts.Country != "" {
			flags = append(flags, "country="+s.opts.Country)
		}
		if s.opts.Affiliation != "" {
			flags = append(flags, "affiliation="+s.opts.Affiliation)
		}
	case ViewOfferings:
		flags = append(flags, "course="+s.opts.CourseID)
	case ViewAssignments:
		flags = append(flags, "course="+s.opts.CourseID, "offering="+s.opts.OfferingID)
	}

	if len(flags) > 0 {
		parts = append(parts, strings.Join(flags, " "))
	}
	return strings.Join(parts, ": ")
}
