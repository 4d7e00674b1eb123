package checkpoint

// #region imports
import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
)

// #endregion

// #region schema
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	session_id  TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	state_json  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// SQLiteStore keeps one serialized Turn State row per session.
type SQLiteStore struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewSQLiteStore opens a SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. the
// transcript log and document store share the same file).
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region save
// Save upserts the full state snapshot for its session identity.
func (s *SQLiteStore) Save(ctx context.Context, st *session.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (session_id, user_id, state_json, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		   user_id = excluded.user_id,
		   state_json = excluded.state_json,
		   updated_at = excluded.updated_at`,
		st.SessionID, st.UserID, string(raw), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save checkpoint %s: %w", st.SessionID, err)
	}
	return nil
}

// #endregion save

// #region load
// Load returns the most recent snapshot for sessionID, or ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (*session.State, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT state_json FROM checkpoints WHERE session_id = ?`, sessionID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load checkpoint %s: %w", sessionID, err)
	}

	var st session.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("unmarshal checkpoint %s: %w", sessionID, err)
	}
	return &st, nil
}

// #endregion load

// #region list-sessions
// ListSessions returns session IDs ordered by most recent update.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id FROM checkpoints ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// #endregion list-sessions
