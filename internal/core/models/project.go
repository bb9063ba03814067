package models

// Column types as reported by the file parser.
const (
	ColumnText   = "TEXT"
	ColumnNumber = "NUMBER"
	ColumnDate   = "DATE"
)

type Column struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Table is one uploaded spreadsheet sheet materialized as a SQL table.
type Table struct {
	ID          string   `json:"id"`
	FileName    string   `json:"fileName"`
	DisplayName string   `json:"displayName"`
	TableName   string   `json:"tableName"`
	Columns     []Column `json:"columns"`
	Rows        [][]any  `json:"rows,omitempty"`
}

type Project struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	UserID string  `json:"userId"`
	Tables []Table `json:"tables"`
}
