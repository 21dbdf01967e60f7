package cmd

import "testing"

func TestInstanceBaseURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"open", "https://open.kattis.com"},
		{"nus", "https://nus.kattis.com"},
		{"https://judge.example.edu", "https://judge.example.edu"},
	}
	for _, tt := range tests {
		if got := instanceBaseURL(tt.in); got != tt.want {
			t.Fatalf("instanceBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
