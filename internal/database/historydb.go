package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mtcorpus/corpustools/internal/stats"
)

// FileName is the database file inside the database directory.
const FileName = "corpustools.db"

var (
	// ErrNotFound is returned when the database file does not exist and
	// creation is disabled.
	ErrNotFound = errors.New("database not found")

	// ErrRunNotFound is returned when no saved run matches an id.
	ErrRunNotFound = errors.New("run not found")
)

// HistoryDB provides SQLite-based storage for saved statistics.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, ErrNotFound is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		input TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		sentences INTEGER NOT NULL,
		tokens INTEGER NOT NULL,
		vocabulary INTEGER NOT NULL,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_input ON runs(input);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Run is the metadata of a saved summary.
type Run struct {
	// ID is the row id, usable with GetRun.
	ID int64 `json:"id"`

	// RunID is the random identifier assigned when saving.
	RunID string `json:"runId"`

	// Input is the corpus the summary was computed over.
	Input string `json:"input"`

	// Timestamp is when the summary was saved.
	Timestamp time.Time `json:"timestamp"`

	Sentences  int `json:"sentences"`
	Tokens     int `json:"tokens"`
	Vocabulary int `json:"vocabularySize"`
}

// SaveSummary stores a summary and returns the saved run.
func (hdb *HistoryDB) SaveSummary(ctx context.Context, summary *stats.Summary) (*Run, error) {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize summary: %w", err)
	}

	run := &Run{
		RunID:      uuid.NewString(),
		Input:      summary.Input,
		Sentences:  summary.Sentences,
		Tokens:     summary.Tokens,
		Vocabulary: summary.VocabularySize,
	}

	query := `
	INSERT INTO runs (run_id, input, sentences, tokens, vocabulary, summary_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		run.RunID,
		run.Input,
		run.Sentences,
		run.Tokens,
		run.Vocabulary,
		string(summaryJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}

	if run.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read run id: %w", err)
	}

	var timestamp string
	if err := hdb.db.QueryRowContext(ctx, "SELECT timestamp FROM runs WHERE id = ?", run.ID).Scan(&timestamp); err != nil {
		return nil, fmt.Errorf("failed to read run timestamp: %w", err)
	}
	run.Timestamp = parseTimestamp(timestamp)

	return run, nil
}

// ListRuns returns saved runs, newest first. A positive limit caps the
// number of rows.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
	SELECT id, run_id, input, timestamp, sentences, tokens, vocabulary
	FROM runs
	ORDER BY timestamp DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var timestamp string

		err := rows.Scan(
			&run.ID,
			&run.RunID,
			&run.Input,
			&timestamp,
			&run.Sentences,
			&run.Tokens,
			&run.Vocabulary,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Timestamp = parseTimestamp(timestamp)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun returns the summary saved under ref, which is either the row id
// or the run id.
func (hdb *HistoryDB) GetRun(ctx context.Context, ref string) (*Run, *stats.Summary, error) {
	query := `
	SELECT id, run_id, input, timestamp, sentences, tokens, vocabulary, summary_json
	FROM runs
	WHERE run_id = ?
	`
	args := []any{ref}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		query += " OR id = ?"
		args = append(args, id)
	}

	var run Run
	var timestamp, summaryJSON string

	err := hdb.db.QueryRowContext(ctx, query, args...).Scan(
		&run.ID,
		&run.RunID,
		&run.Input,
		&timestamp,
		&run.Sentences,
		&run.Tokens,
		&run.Vocabulary,
		&summaryJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, ref)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.Timestamp = parseTimestamp(timestamp)

	var summary stats.Summary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		return nil, nil, fmt.Errorf("failed to parse summary: %w", err)
	}

	return &run, &summary, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp tries each known format and returns zero time if none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
