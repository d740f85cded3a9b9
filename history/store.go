// Package history keeps a SQLite log of conversions served over HTTP.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"pseint2js/transpiler"
)

const (
	busyTimeout  = 5 * time.Second
	defaultLimit = 20
	maxLimit     = 200
)

// ErrNotFound is returned by Get when no conversion has the given id.
var ErrNotFound = errors.New("conversion not found")

// Entry is one recorded conversion. The source itself is not stored,
// only its SHA-256 digest.
type Entry struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	MainName   string    `json:"mainName"`
	Success    bool      `json:"success"`
	Warnings   int       `json:"warnings"`
	Errors     int       `json:"errors"`
	SourceHash string    `json:"sourceHash"`
}

// row mirrors the conversions table. Timestamps are unix milliseconds.
type row struct {
	ID         int64  `db:"id"`
	CreatedAt  int64  `db:"created_at"`
	MainName   string `db:"main_name"`
	Success    bool   `db:"success"`
	Warnings   int    `db:"warnings"`
	Errors     int    `db:"errors"`
	SourceHash string `db:"source_hash"`
}

func (r row) entry() Entry {
	return Entry{
		ID:         r.ID,
		CreatedAt:  time.UnixMilli(r.CreatedAt).UTC(),
		MainName:   r.MainName,
		Success:    r.Success,
		Warnings:   r.Warnings,
		Errors:     r.Errors,
		SourceHash: r.SourceHash,
	}
}

// NewEntry summarizes the conversion of src.
func NewEntry(src string, res *transpiler.Result) Entry {
	sum := sha256.Sum256([]byte(src))
	return Entry{
		MainName:   res.MainName,
		Success:    res.Success,
		Warnings:   len(res.Warnings),
		Errors:     len(res.Errors),
		SourceHash: hex.EncodeToString(sum[:]),
	}
}

// Store wraps a sqlx.DB holding the conversions table.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open opens or creates the database at path and migrates its schema.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve history path: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", abs, busyTimeout.Milliseconds())
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// A single connection serializes writers without relying on WAL.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), busyTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS conversions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL,
		main_name TEXT NOT NULL,
		success INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		source_hash TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_conversions_created ON conversions(created_at);`,
}

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// Record stores e and returns it with its id and timestamp filled in.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	r := row{
		CreatedAt:  s.now().UnixMilli(),
		MainName:   e.MainName,
		Success:    e.Success,
		Warnings:   e.Warnings,
		Errors:     e.Errors,
		SourceHash: e.SourceHash,
	}
	res, err := s.db.NamedExecContext(ctx, `INSERT INTO conversions
		(created_at, main_name, success, warnings, errors, source_hash)
		VALUES (:created_at, :main_name, :success, :warnings, :errors, :source_hash)`, r)
	if err != nil {
		return Entry{}, fmt.Errorf("insert conversion: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return Entry{}, fmt.Errorf("conversion id: %w", err)
	}
	return r.entry(), nil
}

// Recent returns up to limit conversions, newest first. A non-positive
// limit selects the default page size.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)
	rows := []row{}
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM conversions ORDER BY id DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("select conversions: %w", err)
	}
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.entry())
	}
	return out, nil
}

// Get returns the conversion with the given id.
func (s *Store) Get(ctx context.Context, id int64) (Entry, error) {
	var r row
	err := s.db.GetContext(ctx, &r, `SELECT * FROM conversions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("select conversion %d: %w", id, err)
	}
	return r.entry(), nil
}
