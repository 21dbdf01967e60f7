package record

import "testing"

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		in   string
		want Verdict
	}{
		{"Accepted", VerdictAccepted},
		{"accepted", VerdictAccepted},
		{"Accepted (70)", VerdictAccepted},
		{"Wrong Answer", VerdictWrongAnswer},
		{"Time Limit Exceeded", VerdictTimeLimitExceeded},
		{"Memory Limit Exceeded", VerdictMemoryLimitExceeded},
		{"Run Time Error", VerdictRunTimeError},
		{"Runtime Error", VerdictRunTimeError},
		{"Compile Error", VerdictCompileError},
		{"Output Limit Exceeded", VerdictOutputLimitExceeded},
		{"Judge Error", VerdictJudgeError},
		{"", VerdictUnknown},
		{"Some Future Verdict", VerdictUnknown},
	}
	for _, tt := range tests {
		if got := ParseVerdict(tt.in); got != tt.want {
			t.Fatalf("ParseVerdict(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSolveStatus(t *testing.T) {
	tests := []struct {
		in   string
		want SolveStatus
	}{
		{"Solved", SolveSolved},
		{"Accepted", SolveSolved},
		{"Accepted (100)", SolveSolved},
		{"Accepted (70)", SolvePartial},
		{"Partially Solved", SolvePartial},
		{"Partial", SolvePartial},
		{"Tried", SolveTried},
		{"Attempted", SolveTried},
		{"Untried", SolveUntried},
		{"", SolveUnknown},
		{"???", SolveUnknown},
	}
	for _, tt := range tests {
		if got := ParseSolveStatus(tt.in); got != tt.want {
			t.Fatalf("ParseSolveStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
