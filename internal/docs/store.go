// Package docs is the document storage, retrieval, and search capability.
package docs

// #region imports
import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS documents (
	doc_id        TEXT PRIMARY KEY,
	doc_type      TEXT NOT NULL,
	title         TEXT NOT NULL,
	content       TEXT NOT NULL,
	amount        REAL NOT NULL DEFAULT 0,
	currency      TEXT NOT NULL DEFAULT '',
	metadata_json TEXT,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_type ON documents(doc_type);
`

// #endregion schema

// #region store-struct
// Store manages the documents table.
type Store struct {
	db *sql.DB
}

// NewStore creates tables and returns a Store.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("documents schema: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion store-struct

// #region put
// Put inserts or replaces a document.
func (s *Store) Put(ctx context.Context, d Document) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (doc_id, doc_type, title, content, amount, currency, metadata_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Type, d.Title, d.Content, d.Amount, d.Currency,
		nullIfEmpty(d.MetadataJSON), d.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put document %s: %w", d.ID, err)
	}
	return nil
}

// #endregion put

// #region get
// Get fetches documents by ID. Unknown identifiers are reported per-id in the
// missing slice, never as a blanket failure.
func (s *Store) Get(ctx context.Context, ids []string) (map[string]Document, []string, error) {
	found := make(map[string]Document, len(ids))
	var missing []string

	for _, id := range ids {
		var d Document
		var createdAt string
		var meta sql.NullString
		err := s.db.QueryRowContext(ctx,
			`SELECT doc_id, doc_type, title, content, amount, currency, metadata_json, created_at
			 FROM documents WHERE doc_id = ?`, id,
		).Scan(&d.ID, &d.Type, &d.Title, &d.Content, &d.Amount, &d.Currency, &meta, &createdAt)
		if err == sql.ErrNoRows {
			missing = append(missing, id)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("get document %s: %w", id, err)
		}
		d.MetadataJSON = meta.String
		d.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		found[d.ID] = d
	}
	return found, missing, nil
}

// #endregion get

// #region search
// Search returns documents ranked by keyword relevance, filtered by type and
// amount. An empty result list is valid, not an error.
func (s *Store) Search(ctx context.Context, query string, f Filters) ([]SearchResult, error) {
	where, args := buildFilter(f)
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_id, title, content FROM documents`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	queryTokens := tokenize(query)
	queryLower := strings.ToLower(query)

	var results []SearchResult
	seen := make(map[string]bool)
	for rows.Next() {
		var id, title, content string
		if err := rows.Scan(&id, &title, &content); err != nil {
			return nil, err
		}
		// Result consistency: skip duplicates and empty documents.
		if seen[id] || content == "" {
			continue
		}
		seen[id] = true

		score := scoreDocument(queryTokens, queryLower, id, title, content)
		if score <= 0 {
			continue
		}
		results = append(results, SearchResult{ID: id, Title: title, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// #endregion search

// #region scoring

// scoreDocument counts shared keywords, weighting title hits double and an
// exact document-ID mention in the query highest of all.
func scoreDocument(queryTokens []string, queryLower, id, title, content string) float64 {
	score := float64(sharedKeywords(queryTokens, tokenize(content)))
	score += 2 * float64(sharedKeywords(queryTokens, tokenize(title)))
	if strings.Contains(queryLower, strings.ToLower(id)) {
		score += 10
	}
	return score
}

// #endregion scoring

// #region filter-sql

func buildFilter(f Filters) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if f.Type != "" {
		clauses = append(clauses, "doc_type = ?")
		args = append(args, f.Type)
	}
	switch f.AmountOp {
	case AmountGT:
		clauses = append(clauses, "amount > ?")
		args = append(args, f.AmountThreshold)
	case AmountGTE:
		clauses = append(clauses, "amount >= ?")
		args = append(args, f.AmountThreshold)
	case AmountLT:
		clauses = append(clauses, "amount < ?")
		args = append(args, f.AmountThreshold)
	case AmountLTE:
		clauses = append(clauses, "amount <= ?")
		args = append(args, f.AmountThreshold)
	case AmountEQ:
		clauses = append(clauses, "amount = ?")
		args = append(args, f.AmountThreshold)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// #endregion filter-sql

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
