package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/boligsjekk/boligsjekk/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS analyses (
	id         TEXT PRIMARY KEY,
	source_url TEXT NOT NULL,
	result     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id          TEXT PRIMARY KEY,
	analysis_id TEXT NOT NULL REFERENCES analyses(id),
	role        TEXT NOT NULL,
	content     TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_analyses_source_url ON analyses(source_url);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
CREATE INDEX IF NOT EXISTS idx_chat_messages_analysis_id ON chat_messages(analysis_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveAnalysis upserts a full analysis result keyed by its analysis ID.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, result *model.FullAnalysisResult) error {
	if result == nil || result.Analysis.ID == "" {
		return eris.New("sqlite: empty analysis")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal analysis")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, source_url, result, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			result     = excluded.result,
			updated_at = excluded.updated_at`,
		result.Analysis.ID,
		result.Analysis.SourceURL,
		string(payload),
		result.Analysis.CreatedAt.UTC(),
		result.Analysis.UpdatedAt.UTC(),
	)
	return eris.Wrap(err, "sqlite: save analysis")
}

// GetAnalysis loads one analysis by ID. Returns nil when not found.
func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*model.FullAnalysisResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM analyses WHERE id = ?`, id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get analysis")
	}
	return unmarshalResult(payload)
}

// GetLatestByURL loads the newest analysis for a source URL. Returns nil when
// none exists.
func (s *SQLiteStore) GetLatestByURL(ctx context.Context, sourceURL string) (*model.FullAnalysisResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM analyses WHERE source_url = ? ORDER BY created_at DESC LIMIT 1`,
		sourceURL,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get latest by url")
	}
	return unmarshalResult(payload)
}

// ListAnalyses returns analyses matching the filter, newest first.
func (s *SQLiteStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.FullAnalysisResult, error) {
	query := `SELECT result FROM analyses`
	var args []any
	if filter.SourceURL != "" {
		query += ` WHERE source_url = ?`
		args = append(args, filter.SourceURL)
	}
	query += ` ORDER BY created_at DESC`
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list analyses")
	}
	defer rows.Close()

	var results []model.FullAnalysisResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan analysis")
		}
		r, err := unmarshalResult(payload)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, eris.Wrap(rows.Err(), "sqlite: list analyses rows")
}

// AppendChatMessage stores one chat turn for an analysis.
func (s *SQLiteStore) AppendChatMessage(ctx context.Context, analysisID string, msg model.ChatMessage) error {
	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, analysis_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, analysisID, string(msg.Role), msg.Content, msg.Timestamp.UTC(),
	)
	return eris.Wrap(err, "sqlite: append chat message")
}

// GetChatHistory returns all chat messages for an analysis, oldest first.
// rowid breaks ties so a user/assistant pair stored with the same timestamp
// reads back in insertion order.
func (s *SQLiteStore) GetChatHistory(ctx context.Context, analysisID string) ([]model.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, content, created_at FROM chat_messages
		WHERE analysis_id = ? ORDER BY created_at ASC, rowid ASC`,
		analysisID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get chat history")
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		var role string
		if err := rows.Scan(&m.ID, &role, &m.Content, &m.Timestamp); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan chat message")
		}
		m.Role = model.ChatRole(role)
		messages = append(messages, m)
	}
	return messages, eris.Wrap(rows.Err(), "sqlite: chat history rows")
}

func unmarshalResult(payload string) (*model.FullAnalysisResult, error) {
	var r model.FullAnalysisResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal analysis")
	}
	return &r, nil
}
