package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/community-resources/backend/internal/storage/models"
	"github.com/community-resources/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_log (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		filters TEXT,
		result_count INTEGER,
		interpretation TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_search_log_created ON search_log(created_at);

	CREATE TABLE IF NOT EXISTS usage_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		detail TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_usage_log_type ON usage_log(event_type);
	CREATE INDEX IF NOT EXISTS idx_usage_log_created ON usage_log(created_at);

	CREATE TABLE IF NOT EXISTS passcodes (
		code TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1
	);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

// InsertSearchLog appends one interpretation attempt. Append-only: rows
// are never updated or deleted by this service.
func (c *Client) InsertSearchLog(ctx context.Context, entry *models.SearchLogEntry) error {
	query := `INSERT INTO search_log (id, query, filters, result_count, interpretation, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := c.db.ExecContext(ctx, query,
		entry.ID,
		entry.Query,
		entry.Filters,
		entry.ResultCount,
		entry.Interpretation,
		entry.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert search log: %w", err)
	}

	logger.Debug("Search logged", zap.String("search_id", entry.ID), zap.String("query", entry.Query))
	return nil
}

func (c *Client) InsertUsageEvent(ctx context.Context, event *models.UsageEvent) error {
	query := `INSERT INTO usage_log (event_type, detail, created_at) VALUES (?, ?, ?)`

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := c.db.ExecContext(ctx, query, event.EventType, event.Detail, createdAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert usage event: %w", err)
	}

	return nil
}

// VerifyPasscode looks up an active passcode and returns its label.
func (c *Client) VerifyPasscode(ctx context.Context, code string) (string, bool, error) {
	query := `SELECT label FROM passcodes WHERE code = ? AND active = 1`

	var label string
	err := c.db.QueryRowContext(ctx, query, code).Scan(&label)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to verify passcode: %w", err)
	}

	return label, true, nil
}
