package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"sitemapper/internal/model"
)

// HistoryDB provides SQLite-based storage for completed crawl runs.
// It manages connection pooling and provides methods for saving and
// querying crawl history.
//
// A single database file holds every run across all sites. This keeps
// cross-site queries (and backup/restore) simple.
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

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "sitemapper.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses URI-style mode parameters: rw requires the
	// file to exist, rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
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

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Runs store one row per completed crawl with the full report as JSON
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed_url TEXT NOT NULL,
		scope TEXT NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		elapsed_ms INTEGER DEFAULT 0,
		pages_crawled INTEGER DEFAULT 0,
		pages_failed INTEGER DEFAULT 0,
		sitemap_path TEXT,
		url_count INTEGER DEFAULT 0,
		valid INTEGER DEFAULT 0,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_scope ON runs(scope);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Run URLs store the discovered list per run, preserving order
	CREATE TABLE IF NOT EXISTS run_urls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		UNIQUE(run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_run_urls_run ON run_urls(run_id);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a completed crawl report and its discovered URL list.
// Returns the database ID of the stored run.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.CrawlReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	query := `
	INSERT INTO runs (seed_url, scope, started_at, elapsed_ms, pages_crawled, pages_failed, sitemap_path, url_count, valid, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	valid := 0
	if report.Valid {
		valid = 1
	}

	result, err := tx.ExecContext(ctx, query,
		report.SeedURL,
		report.Scope,
		report.StartedAt.UTC().Format("2006-01-02 15:04:05"),
		report.Elapsed.Milliseconds(),
		report.PagesCrawled,
		report.PagesFailed,
		report.SitemapPath,
		report.URLCount,
		valid,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	urlQuery := `INSERT INTO run_urls (run_id, position, url) VALUES (?, ?, ?)`
	for i, u := range report.Discovered {
		if _, err := tx.ExecContext(ctx, urlQuery, runID, i, u); err != nil {
			return 0, fmt.Errorf("failed to insert run URL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// RunMetadata contains summary information about a stored run.
// This is used for displaying crawl history without loading the full report.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// SeedURL is the URL the crawl started from.
	SeedURL string

	// Scope is the network location the crawl was restricted to.
	Scope string

	// StartedAt is when the crawl started.
	StartedAt time.Time

	// Elapsed is the total wall-clock duration of the crawl.
	Elapsed time.Duration

	// PagesCrawled is the number of pages rendered successfully.
	PagesCrawled int

	// PagesFailed is the number of pages whose render failed.
	PagesFailed int

	// URLCount is the number of entries written to the sitemap.
	URLCount int

	// Valid reports whether the generated sitemap passed re-validation.
	Valid bool
}

// ListRuns retrieves run metadata, most recent first. When scope is
// non-empty only runs for that network location are returned.
func (hdb *HistoryDB) ListRuns(ctx context.Context, scope string) ([]RunMetadata, error) {
	query := `
	SELECT id, seed_url, scope, started_at, elapsed_ms, pages_crawled, pages_failed, url_count, valid
	FROM runs
	WHERE 1=1
	`
	args := make([]interface{}, 0)

	if scope != "" {
		query += " AND scope = ?"
		args = append(args, scope)
	}

	query += " ORDER BY started_at DESC, id DESC"

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var startedAt string
		var elapsedMS int64
		var valid int

		err := rows.Scan(
			&meta.ID,
			&meta.SeedURL,
			&meta.Scope,
			&startedAt,
			&elapsedMS,
			&meta.PagesCrawled,
			&meta.PagesFailed,
			&meta.URLCount,
			&valid,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run metadata: %w", err)
		}

		meta.StartedAt = parseTimestamp(startedAt)
		meta.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		meta.Valid = valid != 0
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRun retrieves a full crawl report by its database ID.
// Returns nil without error when no such run exists.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*model.CrawlReport, error) {
	query := `
	SELECT report_json FROM runs
	WHERE id = ?
	`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.CrawlReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// GetRunURLs retrieves the discovered URL list of a run in discovery order.
func (hdb *HistoryDB) GetRunURLs(ctx context.Context, runID int64) ([]string, error) {
	query := `
	SELECT url FROM run_urls
	WHERE run_id = ?
	ORDER BY position
	`

	rows, err := hdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run URLs: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan run URL: %w", err)
		}
		urls = append(urls, u)
	}

	return urls, rows.Err()
}

// ListScopes returns every distinct network location with stored runs.
func (hdb *HistoryDB) ListScopes(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT scope FROM runs
	ORDER BY scope
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list scopes: %w", err)
	}
	defer rows.Close()

	var scopes []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan scope: %w", err)
		}
		scopes = append(scopes, s)
	}

	return scopes, rows.Err()
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

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
