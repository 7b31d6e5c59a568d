/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements generic.ClosureStore: company closure days (year-end
  shutdown, foundation day, ...) that are not national holidays but still
  are not work days. Estimates are never stored.

KEY TABLES:
  closures: One row per closure day. Recurring rows repeat every year on
            the same month/day.

INDEXES:
  - idx_closures_date:   Range lookups for remaining-work-day counting
  - idx_closures_unique: One closure per (date, name)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety around the connection.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/closures.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  service := workhours.NewService(store, logger)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - generic/store.go: Interface definition
  - holiday/composite.go: Merges closures into the national calendar
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/hours-estimator/generic"
)

var _ generic.ClosureStore = (*Store)(nil)

// Store implements generic.ClosureStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every new connection to ":memory:" is a fresh, empty database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS closures (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_closures_date
		ON closures(date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_closures_unique
		ON closures(date, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CLOSURE STORE IMPLEMENTATION
// =============================================================================

// SaveClosure saves a closure to the database and returns the ID of the
// stored row. On a date and name conflict the existing row keeps its ID.
func (s *Store) SaveClosure(ctx context.Context, h generic.Holiday) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO closures (id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, name) DO UPDATE SET
			recurring = excluded.recurring
		RETURNING id
	`

	var id string
	err := s.db.QueryRowContext(ctx, query,
		h.ID,
		h.Date.Time.Format(generic.LayoutISO),
		h.Name,
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("save closure %s: %w", h.ID, err)
	}
	return id, nil
}

// DeleteClosure deletes a closure by ID.
func (s *Store) DeleteClosure(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM closures WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete closure %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("closure %s: %w", id, generic.ErrNotFound)
	}
	return nil
}

// ClosuresBetween returns closures in [from, to]. Recurring closures are
// expanded into every year of the range.
func (s *Store) ClosuresBetween(ctx context.Context, from, to generic.TimePoint) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, date, name, recurring
		FROM closures
		WHERE (recurring = FALSE AND date BETWEEN ? AND ?)
		   OR recurring = TRUE
		ORDER BY date ASC
	`

	stored, err := s.queryClosures(ctx, query,
		from.Time.Format(generic.LayoutISO),
		to.Time.Format(generic.LayoutISO),
	)
	if err != nil {
		return nil, err
	}

	var out []generic.Holiday
	for _, h := range stored {
		if !h.Recurring {
			out = append(out, h)
			continue
		}
		for year := from.Year(); year <= to.Year(); year++ {
			// Feb 29 only recurs in leap years.
			day := generic.NewTimePoint(year, h.Date.Month(), h.Date.Day())
			if day.Month() != h.Date.Month() {
				continue
			}
			if day.Before(from) || day.After(to) {
				continue
			}
			occurrence := h
			occurrence.Date = day
			out = append(out, occurrence)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// ListClosures returns all closures (for admin UI).
func (s *Store) ListClosures(ctx context.Context) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryClosures(ctx, `
		SELECT id, date, name, recurring
		FROM closures
		ORDER BY date ASC
	`)
}

// GetClosure returns a single closure, or ErrNotFound.
func (s *Store) GetClosure(ctx context.Context, id string) (*generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, date, name, recurring
		FROM closures
		WHERE id = ?
	`, id)

	h, err := scanClosure(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("closure %s: %w", id, generic.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Store) queryClosures(ctx context.Context, query string, args ...any) ([]generic.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query closures: %w", err)
	}
	defer rows.Close()

	var closures []generic.Holiday
	for rows.Next() {
		h, err := scanClosure(rows)
		if err != nil {
			return nil, err
		}
		closures = append(closures, h)
	}
	return closures, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClosure(sc scanner) (generic.Holiday, error) {
	var (
		h       generic.Holiday
		dateStr string
	)
	if err := sc.Scan(&h.ID, &dateStr, &h.Name, &h.Recurring); err != nil {
		return generic.Holiday{}, err
	}
	date, err := generic.ParseTimePoint(generic.LayoutISO, dateStr)
	if err != nil {
		return generic.Holiday{}, fmt.Errorf("closure %s: %w", h.ID, err)
	}
	h.Date = date
	h.Source = generic.SourceCompany
	return h, nil
}
