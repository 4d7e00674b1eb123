// Package transcript is the append-only sink for per-turn capability traces,
// independent of the checkpoint store.
package transcript

// #region imports
import (
	"database/sql"
	"fmt"
	"time"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS transcript_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	turn_id     TEXT NOT NULL,
	stage       TEXT NOT NULL,
	tool        TEXT NOT NULL,
	input_json  TEXT,
	output_json TEXT,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transcript_session ON transcript_log(session_id);
`

// #endregion schema

// #region entry
// Entry is one capability invocation row.
type Entry struct {
	ID        int64
	SessionID string
	TurnID    string
	Stage     string
	Tool      string
	Input     string
	Output    string
	CreatedAt time.Time
}

// #endregion entry

// #region log-struct
// Log manages the transcript_log table.
type Log struct {
	db *sql.DB
}

// NewLog creates the table and returns a Log.
func NewLog(db *sql.DB) (*Log, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("transcript schema: %w", err)
	}
	return &Log{db: db}, nil
}

// #endregion log-struct

// #region append
// Append writes a single trace entry.
func (l *Log) Append(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.Exec(
		`INSERT INTO transcript_log (session_id, turn_id, stage, tool, input_json, output_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.TurnID, e.Stage, e.Tool,
		nullIfEmpty(e.Input), nullIfEmpty(e.Output),
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	return nil
}

// #endregion append

// #region by-session
// BySession returns up to limit entries for one session in execution order.
func (l *Log) BySession(sessionID string, limit int) ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT id, session_id, turn_id, stage, tool,
		        COALESCE(input_json, ''), COALESCE(output_json, ''), created_at
		 FROM transcript_log
		 WHERE session_id = ?
		 ORDER BY id ASC
		 LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.TurnID, &e.Stage, &e.Tool, &e.Input, &e.Output, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion by-session

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
