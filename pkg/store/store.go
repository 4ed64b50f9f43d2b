// Package store defines the durable response store contract: an
// append-only collection of generated responses per signature.
package store

import (
	"context"
	"errors"

	"github.com/rehash-ai/rehash/pkg/models"
)

// ErrUnavailable marks a failure of the underlying durable storage.
// Callers decide whether to degrade to a forced miss or surface it.
var ErrUnavailable = errors.New("response store unavailable")

// ErrNotFound is returned by MarkServed for an unknown record ID.
// Lookup never returns it: an absent signature is an empty collection.
var ErrNotFound = errors.New("record not found")

// Store is the persistent signature-to-responses mapping. Collections
// are append-only: records are never overwritten or reordered, and a
// concurrent append to one signature never blocks lookups or appends
// for another. Implementations must guarantee that an interrupted
// Append leaves previously committed records readable and that
// concurrent appends to the same signature all survive.
type Store interface {
	// Lookup returns the collection for a signature in insertion order.
	// An absent signature yields an empty slice, not an error.
	Lookup(ctx context.Context, sig string) ([]models.CachedResponse, error)
	// Append adds a record to a signature's collection, creating the
	// collection if absent, and returns the stored record with its
	// assigned ID.
	Append(ctx context.Context, rec models.CachedResponse) (models.CachedResponse, error)
	// MarkServed increments a record's times_served counter.
	MarkServed(ctx context.Context, id string) error
	// Count reports the number of records under a signature.
	Count(ctx context.Context, sig string) (int, error)
	// Stats reports store-wide totals for diagnostics.
	Stats(ctx context.Context) (models.StoreStats, error)
	// Purge removes a signature's collection. Administrative surface
	// only; the orchestrator never calls it.
	Purge(ctx context.Context, sig string) (int64, error)
	// Close releases resources.
	Close() error
}
