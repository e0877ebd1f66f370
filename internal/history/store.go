package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"jarvis/internal/domain"
)

// SQLiteStore implements domain.HistoryStore using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Set connection pool (single connection for SQLite)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db, logger: logger}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS interpretations (
		id          TEXT PRIMARY KEY,
		channel     TEXT NOT NULL,
		chat_id     TEXT,
		utterance   TEXT NOT NULL,
		intent      TEXT NOT NULL,
		response    TEXT,
		actions     TEXT,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_interpretations_time ON interpretations(created_at);
	CREATE INDEX IF NOT EXISTS idx_interpretations_intent ON interpretations(intent);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Record(ctx context.Context, rec domain.Interpretation) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interpretations (id, channel, chat_id, utterance, intent, response, actions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Channel, rec.ChatID, rec.Utterance, rec.Intent, rec.Response, rec.Actions, rec.CreatedAt,
	)
	return err
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.Interpretation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, channel, chat_id, utterance, intent, response, actions, created_at
		 FROM interpretations ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.Interpretation
	for rows.Next() {
		var r domain.Interpretation
		var chatID, response, actions sql.NullString
		if err := rows.Scan(&r.ID, &r.Channel, &chatID, &r.Utterance, &r.Intent,
			&response, &actions, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.ChatID = chatID.String
		r.Response = response.String
		r.Actions = actions.String
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// PurgeOlderThan removes interpretations past the retention window and
// returns the number of rows deleted.
func (s *SQLiteStore) PurgeOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays < 1 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM interpretations WHERE created_at < ?`, cutoff,
	)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.logger.Info("purged old interpretations", "count", n, "retention_days", retentionDays)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
