// Package storage defines the persistence contracts the handlers depend on.
// Consumers program against these interfaces; mongodb holds the production
// implementation and memory a driverless one.
package storage

import (
	"context"
	"errors"

	"go-shop/models"
)

// ErrNotFound is returned when an id does not resolve to a stored item.
// Absence is a first-class outcome, not a generic failure.
var ErrNotFound = errors.New("not found")

// ItemStore is the persistent catalog. Every mutation is a single-row write
// that either commits or surfaces an error with no partial state.
type ItemStore interface {
	// List returns the full catalog in insertion (id) order.
	List(ctx context.Context) ([]models.Item, error)
	// ListByPrice returns the catalog ordered by price ascending; equal
	// prices keep insertion order.
	ListByPrice(ctx context.Context) ([]models.Item, error)
	// Get returns the item with the given id, or ErrNotFound.
	Get(ctx context.Context, id int) (models.Item, error)
	// Create persists a new item with a fresh id and IsActive defaulted true.
	Create(ctx context.Context, title string, price int, text string) (models.Item, error)
	// Update replaces title, price and text in place. The active flag is
	// never touched. Returns ErrNotFound when the id is absent.
	Update(ctx context.Context, id int, title string, price int, text string) error
	// Delete physically removes the row, or returns ErrNotFound.
	Delete(ctx context.Context, id int) error
}

// CartStore keys ordered cart sequences by client session id. Mutations are
// expressed as a whole-sequence rewrite, so concurrent requests from the same
// client are an explicit last-write-wins.
type CartStore interface {
	// Get returns the cart for the session, empty when none exists yet.
	Get(ctx context.Context, sessionID string) ([]models.CartEntry, error)
	// Put rewrites the whole cart sequence for the session.
	Put(ctx context.Context, sessionID string, entries []models.CartEntry) error
	// Clear empties the cart; clearing an absent cart is a no-op.
	Clear(ctx context.Context, sessionID string) error
}
