package record

import (
	"regexp"
	"strings"
)

// Verdict is the closed set of judge outcomes a submission row can carry.
type Verdict string

const (
	VerdictAccepted            Verdict = "accepted"
	VerdictWrongAnswer         Verdict = "wrong_answer"
	VerdictTimeLimitExceeded   Verdict = "time_limit_exceeded"
	VerdictMemoryLimitExceeded Verdict = "memory_limit_exceeded"
	VerdictRunTimeError        Verdict = "run_time_error"
	VerdictCompileError        Verdict = "compile_error"
	VerdictOutputLimitExceeded Verdict = "output_limit_exceeded"
	VerdictJudgeError          Verdict = "judge_error"
	VerdictUnknown             Verdict = "unknown"
)

// verdictUnificationMap is the source of truth for verdict normalization.
// It groups the raw status strings the site renders under a closed verdict.
var verdictUnificationMap = map[Verdict][]string{
	VerdictAccepted:            {"accepted", "ac"},
	VerdictWrongAnswer:         {"wrong answer", "wa"},
	VerdictTimeLimitExceeded:   {"time limit exceeded", "tle"},
	VerdictMemoryLimitExceeded: {"memory limit exceeded", "mle"},
	VerdictRunTimeError:        {"run time error", "runtime error", "rte"},
	VerdictCompileError:        {"compile error", "compiler error", "ce"},
	VerdictOutputLimitExceeded: {"output limit exceeded", "ole"},
	VerdictJudgeError:          {"judge error", "submission error"},
}

// verdictMap is a reverse map generated from verdictUnificationMap for
// efficient lookups.
var verdictMap map[string]Verdict

func init() {
	verdictMap = make(map[string]Verdict)
	for unified, raws := range verdictUnificationMap {
		for _, raw := range raws {
			verdictMap[raw] = unified
		}
	}
}

// scoreSuffix matches the partial-score parenthetical in statuses like
// "Accepted (70)".
var scoreSuffix = regexp.MustCompile(`\s*\([\d.]+\)\s*$`)

// scoreValue captures the numeric part of the same parenthetical.
var scoreValue = regexp.MustCompile(`\(([\d.]+)\)`)

// ParseVerdict maps a raw status cell to a closed verdict, dropping any
// partial-score parenthetical first. Unrecognized strings map to
// VerdictUnknown, never to an error.
func ParseVerdict(raw string) Verdict {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = scoreSuffix.ReplaceAllString(s, "")
	if v, ok := verdictMap[s]; ok {
		return v
	}
	return VerdictUnknown
}

// SolveStatus is the per-problem solve state shown on problem list rows.
type SolveStatus string

const (
	SolveSolved  SolveStatus = "solved"
	SolvePartial SolveStatus = "partial"
	SolveTried   SolveStatus = "tried"
	SolveUntried SolveStatus = "untried"
	SolveUnknown SolveStatus = "unknown"
)

// ParseSolveStatus maps a problem row's status cell. The site renders the
// partial state in several ways ("Partial", "Partially Solved", an accepted
// verdict with a score below full marks).
func ParseSolveStatus(raw string) SolveStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return SolveUnknown
	case strings.HasPrefix(s, "partial"):
		return SolvePartial
	case strings.HasPrefix(s, "accepted"), strings.HasPrefix(s, "solved"):
		// A score parenthetical below full marks means a partial solve.
		if m := scoreValue.FindStringSubmatch(s); m != nil && m[1] != "100" {
			return SolvePartial
		}
		return SolveSolved
	case strings.HasPrefix(s, "tried") || strings.HasPrefix(s, "attempted"):
		return SolveTried
	case strings.HasPrefix(s, "untried") || strings.HasPrefix(s, "unattempted"):
		return SolveUntried
	}
	return SolveUnknown
}
