// Package dirs stores visited directories and ranks them for jumping.
package dirs

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/pbrown/smartnav/internal/lock"
	"github.com/pbrown/smartnav/internal/models"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ErrInvalidPath is returned when a visit is recorded for an empty or
// relative path.
var ErrInvalidPath = errors.New("path must be absolute")

// busyTimeoutMs is how long a writer waits on another process's lock
const busyTimeoutMs = 5000

// migrateTimeout bounds the wait for another process's first-run migration
const migrateTimeout = 10 * time.Second

// Store is the persistent path -> (score, last access) table
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for last_accessed.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open opens the database at path, creating the file and its parent
// directory if needed, and applies pending migrations.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(wal)", path, busyTimeoutMs)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := migrate(ctx, db, path+".lock"); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// migrate applies embedded migrations while holding lockPath, so two
// processes opening a fresh database do not both create goose's table.
func migrate(ctx context.Context, db *sql.DB, lockPath string) error {
	lockCtx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	fl, err := lock.AcquireContext(lockCtx, lockPath)
	if err != nil {
		return fmt.Errorf("locking database for migration: %w", err)
	}
	defer fl.Release()

	sub, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations sub-fs: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, sub)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordVisit inserts path with score 1, or bumps the score of an existing
// row, in a single statement. last_accessed never moves backwards.
func (s *Store) RecordVisit(ctx context.Context, path string) error {
	if path == "" || !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	path = filepath.Clean(path)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dirs (path, score, last_accessed) VALUES (?, 1, ?)
		ON CONFLICT(path) DO UPDATE SET
			score = score + 1,
			last_accessed = MAX(last_accessed, excluded.last_accessed)`,
		path, s.now().Unix())
	if err != nil {
		return fmt.Errorf("record visit %s: %w", path, err)
	}
	return nil
}

// FindBestMatch returns the highest ranked path containing query.
//
// Ranking: paths under currentDir first, then score, then most recent
// visit, then path order. found is false when nothing contains query.
func (s *Store) FindBestMatch(ctx context.Context, query, currentDir string) (string, bool, error) {
	// instr and substr compare bytes exactly; LIKE would fold ASCII case and
	// treat % and _ in the query as wildcards.
	var path string
	err := s.db.QueryRowContext(ctx, `
		SELECT path FROM dirs
		WHERE instr(path, ?) > 0
		ORDER BY
			CASE WHEN substr(path, 1, length(?)) = ? THEN 0 ELSE 1 END,
			score DESC,
			last_accessed DESC,
			path ASC
		LIMIT 1`,
		query, currentDir, currentDir).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find match for %q: %w", query, err)
	}
	return path, true, nil
}

const recordColumns = `id, path, score, last_accessed`

func scanRecord(scanner interface{ Scan(...any) error }) (*models.DirRecord, error) {
	var (
		r        models.DirRecord
		accessed int64
	)
	if err := scanner.Scan(&r.ID, &r.Path, &r.Score, &accessed); err != nil {
		return nil, err
	}
	r.LastAccessed = time.Unix(accessed, 0)
	return &r, nil
}

// Get returns the record for path, or nil if it was never visited.
func (s *Store) Get(ctx context.Context, path string) (*models.DirRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM dirs WHERE path = ?`, filepath.Clean(path))
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return r, nil
}

// List returns records by score, then recency, then path.
// limit <= 0 returns all of them.
func (s *Store) List(ctx context.Context, limit int) ([]*models.DirRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM dirs
		ORDER BY score DESC, last_accessed DESC, path ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list dirs: %w", err)
	}
	defer rows.Close()

	var records []*models.DirRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dir: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of known directories
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dirs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count dirs: %w", err)
	}
	return n, nil
}
