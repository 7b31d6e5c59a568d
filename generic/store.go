/*
store.go - Persistence interface for company closure days

PURPOSE:
  Defines the interface between the holiday lookup and the database.
  Company closures (year-end shutdown, foundation day) are reference data
  that sit on top of the national calendar. Estimates themselves are never
  stored.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite store

SEE ALSO:
  - holiday/composite.go: Merges closures with national holidays
  - api/handlers.go: Closure admin endpoints
*/
package generic

import "context"

// ClosureStore handles persistence of company closure days.
type ClosureStore interface {
	// SaveClosure inserts a closure or updates the one on the same date and
	// name. Returns the ID of the stored row, which is the existing ID when
	// an update happened.
	SaveClosure(ctx context.Context, h Holiday) (string, error)

	// DeleteClosure removes a closure. Returns ErrNotFound for unknown IDs.
	DeleteClosure(ctx context.Context, id string) error

	// ClosuresBetween returns closures in [from, to] with recurring entries
	// expanded into each covered year, sorted by date.
	ClosuresBetween(ctx context.Context, from, to TimePoint) ([]Holiday, error)

	// GetClosure returns one closure. Returns ErrNotFound for unknown IDs.
	GetClosure(ctx context.Context, id string) (*Holiday, error)

	// ListClosures returns all stored closures as entered.
	ListClosures(ctx context.Context) ([]Holiday, error)
}
