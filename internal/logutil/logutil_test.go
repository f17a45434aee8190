package logutil

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestRedactFillValue(t *testing.T) {
	t.Parallel()
	cases := []struct {
		selector string
		value    string
		want     string
	}{
		{"input#password", "hunter2", "[REDACTED]"},
		{"input[name='nhs_number']", "9434765919", "[REDACTED]"},
		{"#date-of-birth", "1963-01-28", "[REDACTED]"},
		{"#api-token", "abc", "[REDACTED]"},
		{"input#surname", "Smith", "Smith"},
		{"#clinic-search", "North", "North"},
	}
	for _, tc := range cases {
		if got := RedactFillValue(tc.selector, tc.value); got != tc.want {
			t.Errorf("RedactFillValue(%q) = %q, want %q", tc.selector, got, tc.want)
		}
	}
}

func testTruncateForLog_Bounded(t *rapid.T) {
	value := rapid.StringMatching(`[a-zA-Z0-9 \n]{0,200}`).Draw(t, "value")
	limit := rapid.IntRange(1, 120).Draw(t, "limit")

	got := TruncateForLog(value, limit)
	if strings.Contains(got, "\n") {
		t.Fatalf("output should be single-line: %q", got)
	}
	base := strings.TrimSuffix(got, "... [truncated]")
	if len(base) > limit {
		t.Fatalf("truncated body longer than limit: len=%d limit=%d", len(base), limit)
	}
}

func TestTruncateForLog_Bounded(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testTruncateForLog_Bounded)
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()
	if got := CollapseWhitespace("  April,\n\t 2020 "); got != "April, 2020" {
		t.Fatalf("CollapseWhitespace = %q", got)
	}
	if got := CollapseWhitespace(""); got != "" {
		t.Fatalf("CollapseWhitespace(\"\") = %q", got)
	}
}
