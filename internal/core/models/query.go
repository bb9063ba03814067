package models

import "time"

// Query is one natural-language/SQL query against a project. ID is empty
// until the server persists it; NLQuery is empty for raw-SQL queries.
type Query struct {
	ID        string     `json:"id,omitempty"`
	ProjectID string     `json:"projectId"`
	NLQuery   string     `json:"nlQuery"`
	SQLQuery  string     `json:"sqlQuery"`
	Status    string     `json:"status,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Translated reports whether this query carries both a natural-language
// input and a SQL result, i.e. a completed translation.
func (q Query) Translated() bool {
	return q.NLQuery != "" && q.SQLQuery != ""
}

// Result holds the rows returned by executing a query.
type Result struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}
