// Package store provides the row-store abstraction the service persists
// through. Implementations speak to a PostgREST endpoint, a Postgres
// database, or an in-memory table set, all with the same contract:
// equality-filter selects, representation-returning writes, and an order
// directive of the form "field.asc" or "field.desc".
package store

import (
	"context"
	"errors"
	"strings"
)

// Row is a single table row in its wire representation.
type Row map[string]any

// ErrUnavailable is wrapped by implementations when the backing service
// cannot be reached or rejects the request.
var ErrUnavailable = errors.New("store unavailable")

// Store is the row-store contract. An absent row is an empty result set,
// not an error; callers check emptiness.
type Store interface {
	// Select returns rows matching all equality filters, sorted by the
	// order directive when given.
	Select(ctx context.Context, table string, filters map[string]string, order string) ([]Row, error)
	// Insert writes rows and returns their post-write representation,
	// server-assigned fields included.
	Insert(ctx context.Context, table string, rows []Row) ([]Row, error)
	// Update patches rows matching all equality filters and returns the
	// post-write representation of every row touched.
	Update(ctx context.Context, table string, match map[string]string, patch Row) ([]Row, error)
	// Delete removes rows matching all equality filters.
	Delete(ctx context.Context, table string, match map[string]string) error
}

// SplitOrder parses an order directive into its field and direction.
func SplitOrder(order string) (field string, desc bool) {
	field, dir, found := strings.Cut(order, ".")
	if !found {
		return field, false
	}
	return field, dir == "desc"
}
