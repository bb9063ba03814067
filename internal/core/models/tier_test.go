package models

import "testing"

func TestIsLimitReached(t *testing.T) {
	tests := []struct {
		name  string
		usage string
		limit string
		want  bool
	}{
		{"unlimited never reached", "999", "-1", false},
		{"unlimited with zero usage", "0", "-1", false},
		{"under limit", "9", "10", false},
		{"at limit", "10", "10", true},
		{"over limit", "11", "10", true},
		{"zero limit", "0", "0", true},
		{"malformed usage treated as zero", "abc", "10", false},
		{"malformed limit treated as zero", "5", "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLimitReached(tt.usage, tt.limit); got != tt.want {
				t.Errorf("IsLimitReached(%q, %q) = %v, want %v", tt.usage, tt.limit, got, tt.want)
			}
		})
	}
}

func TestFormatLimitDisplay(t *testing.T) {
	if got := FormatLimitDisplay("5", "-1"); got != "5 / ∞" {
		t.Errorf("unlimited display = %q", got)
	}
	if got := FormatLimitDisplay("5", "10"); got != "5 / 10" {
		t.Errorf("bounded display = %q", got)
	}
}

func TestFormatLimit(t *testing.T) {
	if got := FormatLimit("-1"); got != "∞" {
		t.Errorf("FormatLimit(-1) = %q", got)
	}
	if got := FormatLimit("10"); got != "10" {
		t.Errorf("FormatLimit(10) = %q", got)
	}
}

func TestQueryTranslated(t *testing.T) {
	q := Query{NLQuery: "count customers", SQLQuery: "SELECT COUNT(*) FROM customers"}
	if !q.Translated() {
		t.Error("query with both texts should report translated")
	}
	if (Query{SQLQuery: "SELECT 1"}).Translated() {
		t.Error("raw-SQL query should not report translated")
	}
	if (Query{NLQuery: "count"}).Translated() {
		t.Error("untranslated query should not report translated")
	}
}
