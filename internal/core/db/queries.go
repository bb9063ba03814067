package db

import (
	"database/sql"
	"fmt"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

// SyncHistory upserts fetched history entries for a project. Entries the
// server has not assigned an id yet are skipped; they will appear in the
// next fetch once persisted.
func (db *DB) SyncHistory(projectID string, entries []models.Query) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin sync: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO queries (query_id, project_id, nl_query, sql_query, status, executed_at, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(query_id) DO UPDATE SET
			nl_query = excluded.nl_query,
			sql_query = excluded.sql_query,
			status = excluded.status,
			executed_at = excluded.executed_at,
			synced_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare sync: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, q := range entries {
		if q.ID == "" {
			continue
		}
		var executedAt any
		if q.Timestamp != nil {
			executedAt = q.Timestamp.UTC()
		}
		if _, err := stmt.Exec(q.ID, projectID, q.NLQuery, q.SQLQuery, q.Status, executedAt); err != nil {
			return fmt.Errorf("upsert query %s: %w", q.ID, err)
		}
	}

	return tx.Commit()
}

// ListHistory returns mirrored entries for a project, most recent first.
func (db *DB) ListHistory(projectID string, limit int) ([]models.Query, error) {
	rows, err := db.conn.Query(`
		SELECT query_id, project_id, COALESCE(nl_query, ''), sql_query, COALESCE(status, ''), executed_at
		FROM queries
		WHERE project_id = ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanQueries(rows)
}

// SearchHistory matches mirrored entries whose NL or SQL text contains
// the term, case-insensitively.
func (db *DB) SearchHistory(projectID, term string, limit int) ([]models.Query, error) {
	pattern := "%" + term + "%"
	rows, err := db.conn.Query(`
		SELECT query_id, project_id, COALESCE(nl_query, ''), sql_query, COALESCE(status, ''), executed_at
		FROM queries
		WHERE project_id = ?
		  AND (nl_query LIKE ? COLLATE NOCASE OR sql_query LIKE ? COLLATE NOCASE)
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`, projectID, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanQueries(rows)
}

func scanQueries(rows *sql.Rows) ([]models.Query, error) {
	var queries []models.Query
	for rows.Next() {
		var q models.Query
		var executedAt sql.NullTime
		if err := rows.Scan(&q.ID, &q.ProjectID, &q.NLQuery, &q.SQLQuery, &q.Status, &executedAt); err != nil {
			return nil, err
		}
		if executedAt.Valid {
			ts := executedAt.Time
			q.Timestamp = &ts
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}
