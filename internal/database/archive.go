package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/linkgrab/internal/model"
)

// FileName is the name of the archive database inside the archive directory.
const FileName = "linkgrab.db"

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("run not found")

// Archive stores finished runs in a SQLite database.
type Archive struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Archive behavior.
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

// RunRecord is one archived run without its pages and links.
type RunRecord struct {
	ID          int64
	StartedAt   time.Time
	Elapsed     time.Duration
	Processed   int
	Completed   int
	Failed      int
	UniqueLinks int
	Fingerprint string
	Include     []string
	Exclude     []string
	OutputFile  string
}

// Open opens or creates the archive in dir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dir string, opts Options) (*Archive, error) {
	dbPath := filepath.Join(dir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("archive not found at %s: %w", dbPath, ErrNotFound)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check archive path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	a := &Archive{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := a.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return a, nil
}

// Path returns the database file path.
func (a *Archive) Path() string {
	return a.dbPath
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		processed INTEGER NOT NULL,
		completed INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		unique_links INTEGER NOT NULL,
		fingerprint TEXT NOT NULL,
		include_keywords TEXT,
		exclude_keywords TEXT,
		output_file TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint);

	CREATE TABLE IF NOT EXISTS run_pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		status TEXT NOT NULL,
		found INTEGER NOT NULL,
		new_links INTEGER NOT NULL,
		error TEXT,
		elapsed_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_run_pages_run ON run_pages(run_id);

	CREATE TABLE IF NOT EXISTS run_links (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		PRIMARY KEY (run_id, url)
	);
	`

	_, err := a.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores s with its pages and links and returns the new run ID.
func (a *Archive) SaveRun(ctx context.Context, s *model.RunSummary) (id int64, err error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (started_at, elapsed_ms, processed, completed, failed,
		unique_links, fingerprint, include_keywords, exclude_keywords, output_file)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.StartedAt.UTC().Format(time.RFC3339Nano),
		s.Elapsed.Milliseconds(),
		s.Processed,
		s.Completed,
		s.Failed,
		s.UniqueLinks,
		s.Fingerprint,
		joinKeywords(s.Include),
		joinKeywords(s.Exclude),
		s.OutputFile,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	pageStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO run_pages (run_id, url, status, found, new_links, error, elapsed_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare page insert: %w", err)
	}
	defer pageStmt.Close()

	for _, p := range s.Pages {
		if _, err = pageStmt.ExecContext(ctx, id, p.URL, p.Status.String(), p.Found, p.New, p.Error, p.Elapsed.Milliseconds()); err != nil {
			return 0, fmt.Errorf("failed to insert page %s: %w", p.URL, err)
		}
	}

	linkStmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO run_links (run_id, url) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare link insert: %w", err)
	}
	defer linkStmt.Close()

	for _, l := range s.Links {
		if _, err = linkStmt.ExecContext(ctx, id, l); err != nil {
			return 0, fmt.Errorf("failed to insert link: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

const runColumns = `id, started_at, elapsed_ms, processed, completed, failed,
	unique_links, fingerprint, include_keywords, exclude_keywords, output_file`

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns every run.
func (a *Archive) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY id DESC"
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// GetRun retrieves one run by ID. It returns ErrNotFound when no such run exists.
func (a *Archive) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	row := a.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetRunPages returns the per-seed outcomes of a run sorted by URL.
func (a *Archive) GetRunPages(ctx context.Context, id int64) ([]model.PageSummary, error) {
	rows, err := a.db.QueryContext(ctx, `
	SELECT url, status, found, new_links, error, elapsed_ms
	FROM run_pages
	WHERE run_id = ?
	ORDER BY url, id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []model.PageSummary
	for rows.Next() {
		var (
			p         model.PageSummary
			status    string
			errText   sql.NullString
			elapsedMS int64
		)
		if err := rows.Scan(&p.URL, &status, &p.Found, &p.New, &errText, &elapsedMS); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		p.Status = model.ParsePageStatus(status)
		p.Error = errText.String
		p.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// GetRunLinks returns the link set recorded for a run.
func (a *Archive) GetRunLinks(ctx context.Context, id int64) (model.LinkSet, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT url FROM run_links WHERE run_id = ?`, id)
	if err != nil {
		return model.LinkSet{}, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	links := model.NewLinkSet()
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return model.LinkSet{}, fmt.Errorf("failed to scan link: %w", err)
		}
		links.Add(l)
	}
	return links, rows.Err()
}

// FindRunsByFingerprint returns the IDs of runs that produced exactly the
// link set identified by fingerprint, newest first.
func (a *Archive) FindRunsByFingerprint(ctx context.Context, fingerprint string) ([]int64, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id FROM runs WHERE fingerprint = ? ORDER BY id DESC`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		rec       RunRecord
		startedAt string
		elapsedMS int64
		include   sql.NullString
		exclude   sql.NullString
		output    sql.NullString
	)
	err := row.Scan(
		&rec.ID,
		&startedAt,
		&elapsedMS,
		&rec.Processed,
		&rec.Completed,
		&rec.Failed,
		&rec.UniqueLinks,
		&rec.Fingerprint,
		&include,
		&exclude,
		&output,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("failed to scan run: %w", err)
	}

	rec.StartedAt = parseTimestamp(startedAt)
	rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	rec.Include = splitKeywords(include.String)
	rec.Exclude = splitKeywords(exclude.String)
	rec.OutputFile = output.String
	return rec, nil
}

// Keywords are stored newline separated.
func joinKeywords(kw []string) string {
	return strings.Join(kw, "\n")
}

func splitKeywords(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// timestampFormats contains the timestamp formats that SQLite may return.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format and returns zero time when none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
