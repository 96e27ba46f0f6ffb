package aligncache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"lyricalign/internal/alignment"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was written by a different schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
	initLockRetryDelay      = 50 * time.Millisecond
)

// Store manages cached alignments backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Stats summarizes the cache contents.
type Stats struct {
	Path    string
	Entries int
	Words   int
	Hits    int
}

// Open initializes or connects to the cache database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("open alignment cache: path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	// Two first runs must not race to create the schema.
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, initLockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if locked {
		defer func() { _ = lock.Unlock() }()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("insert schema version: %w", err)
	}
	return tx.Commit()
}

// Get returns the cached words for key, or ok=false on a miss.
func (s *Store) Get(ctx context.Context, key Key) ([]alignment.WordTiming, bool, error) {
	if !key.valid() {
		return nil, false, errors.New("cache get: incomplete key")
	}
	var payload string
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT words_json FROM alignments
			 WHERE audio_sha256 = ? AND lyrics_sha256 = ? AND backend = ? AND model = ? AND language = ?`,
			key.AudioSHA256, key.LyricsSHA256, key.Backend, key.Model, key.Language,
		).Scan(&payload)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	words, err := alignment.Unmarshal([]byte(payload))
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	if err := s.execWithRetry(ctx,
		`UPDATE alignments SET hit_count = hit_count + 1, last_hit_at = ?
		 WHERE audio_sha256 = ? AND lyrics_sha256 = ? AND backend = ? AND model = ? AND language = ?`,
		time.Now().UTC().Format(time.RFC3339), key.AudioSHA256, key.LyricsSHA256, key.Backend, key.Model, key.Language,
	); err != nil {
		return nil, false, fmt.Errorf("cache record hit: %w", err)
	}
	return words, true, nil
}

// Put stores words under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key Key, words []alignment.WordTiming) error {
	if !key.valid() {
		return errors.New("cache put: incomplete key")
	}
	payload, err := alignment.Marshal(words)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return s.execWithRetry(ctx,
		`INSERT OR REPLACE INTO alignments
		 (audio_sha256, lyrics_sha256, backend, model, language, words_json, word_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		key.AudioSHA256, key.LyricsSHA256, key.Backend, key.Model, key.Language,
		string(payload), len(words), time.Now().UTC().Format(time.RFC3339),
	)
}

// Stats reports entry, word and hit totals.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.path}
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT COUNT(1), COALESCE(SUM(word_count), 0), COALESCE(SUM(hit_count), 0) FROM alignments",
		).Scan(&stats.Entries, &stats.Words, &stats.Hits)
	})
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return stats, nil
}

// Clear removes every cached alignment and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM alignments")
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	return removed, nil
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Remove deletes the database at path together with its WAL side files.
func Remove(path string) error {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove alignment cache: %w", err)
		}
	}
	return nil
}
