package storage

import (
	"time"

	"github.com/mvaldr/kattscope/pkg/record"
)

// Entry is one solved problem as tracked in the progress database.
type Entry struct {
	// Account info
	Instance string
	User     string

	// Problem info
	ProblemID  string
	Name       string
	Score      *float64
	Runtime    string
	Language   string
	Difficulty *float64
}

// Change captures a single progress change event for auditing or printing.
type Change struct {
	OccurredAt time.Time

	Instance   string
	User       string
	ProblemID  string
	ChangeType string // added | updated | removed
}

// BuildEntries turns deduplicated submission stats into progress entries.
// difficulties, keyed by problem id, enriches entries when available.
func BuildEntries(instance, user string, stats []record.Stat, difficulties map[string]*float64) []Entry {
	out := make([]Entry, 0, len(stats))
	for _, s := range stats {
		e := Entry{
			Instance:  instance,
			User:      user,
			ProblemID: s.ProblemID,
			Name:      s.Name,
			Score:     s.Score,
			Runtime:   s.Runtime,
			Language:  s.Language,
		}
		if d, ok := difficulties[s.ProblemID]; ok {
			e.Difficulty = d
		}
		out = append(out, e)
	}
	return out
}
