package models

import "strconv"

// Tier describes the caller's plan limits and current usage as reported by
// the metadata endpoint. Limits and usage counts are string-typed on the
// wire; parse before comparing. A limit of "-1" means unlimited.
type Tier struct {
	Name                  string `json:"name"`
	UserID                string `json:"userId"`
	QueryLimit            string `json:"queryLimit"`
	QueryLimitUsage       string `json:"queryLimitUsage"`
	TranslationLimit      string `json:"translationLimit"`
	TranslationLimitUsage string `json:"translationLimitUsage"`
	DataRowLimit          string `json:"dataRowLimit"`
	DataRowLimitUsage     string `json:"dataRowLimitUsage"`
	ProjectLimit          string `json:"projectLimit"`
	ProjectLimitUsage     string `json:"projectLimitUsage"`
	MaxFileSize           string `json:"maxFileSize"` // megabytes
}

// Metadata is the meta half of every tier-aware API response.
type Metadata struct {
	Tier *Tier `json:"tier"`
}

// ParseLimit converts a wire limit/usage value to an int. Malformed values
// parse as 0 so a broken server response never panics the client.
func ParseLimit(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// IsLimitReached reports whether usage has hit the cap. A limit of -1
// means unlimited and is never reached.
func IsLimitReached(usage, limit string) bool {
	limitNum := ParseLimit(limit)
	if limitNum == -1 {
		return false
	}
	return ParseLimit(usage) >= limitNum
}

// FormatLimitDisplay renders "usage / limit", with -1 shown as the
// infinity sign.
func FormatLimitDisplay(usage, limit string) string {
	if ParseLimit(limit) == -1 {
		return usage + " / ∞"
	}
	return usage + " / " + limit
}

// FormatLimit renders a bare limit value, with -1 shown as the infinity
// sign. Used in limit-reached messages.
func FormatLimit(limit string) string {
	n := ParseLimit(limit)
	if n == -1 {
		return "∞"
	}
	return strconv.Itoa(n)
}
