package db

func (db *DB) initSchema() error {
	schema := `
	-- Mirrored query history, one row per server-side query
	CREATE TABLE IF NOT EXISTS queries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query_id TEXT UNIQUE NOT NULL,
		project_id TEXT NOT NULL,
		nl_query TEXT,
		sql_query TEXT NOT NULL,
		status TEXT,
		executed_at DATETIME,
		synced_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_queries_query_id ON queries(query_id);
	CREATE INDEX IF NOT EXISTS idx_queries_project_id ON queries(project_id);
	CREATE INDEX IF NOT EXISTS idx_queries_executed_at ON queries(executed_at);
	`

	_, err := db.conn.Exec(schema)
	return err
}
