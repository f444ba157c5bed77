package repository

import (
	"database/sql"
	"fmt"
)

// statements are written to run unchanged on both postgres and sqlite
var schema = []string{
	`CREATE TABLE IF NOT EXISTS api_request (
		request_id TEXT PRIMARY KEY,
		user_id TEXT,
		ip_address TEXT,
		method TEXT NOT NULL,
		route TEXT NOT NULL,
		request_body TEXT,
		start_ts TIMESTAMP NOT NULL,
		duration_ms BIGINT,
		status_code INTEGER,
		response_body TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS chat_message (
		chat_message_id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		user_id TEXT,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS chat_message_session_idx ON chat_message (session_id, created_at)`,
}

func InitSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
