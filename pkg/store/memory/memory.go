// Package memory implements the response store in process memory.
// It backs tests and ephemeral runs with the same contract as the
// durable store: per-signature append-only collections, serialized
// writes, and lookups that return independent copies.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rehash-ai/rehash/pkg/models"
	"github.com/rehash-ai/rehash/pkg/store"
)

// Store keeps response collections in a mutex-guarded map.
type Store struct {
	mu      sync.RWMutex
	bySig   map[string][]*models.CachedResponse
	byID    map[string]*models.CachedResponse
	records int64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		bySig: make(map[string][]*models.CachedResponse),
		byID:  make(map[string]*models.CachedResponse),
	}
}

// Lookup returns a copy of the signature's collection in insertion
// order. An unknown signature is an empty collection, never an error.
func (s *Store) Lookup(ctx context.Context, sig string) ([]models.CachedResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	collection := s.bySig[sig]
	out := make([]models.CachedResponse, len(collection))
	for i, rec := range collection {
		out[i] = *rec
		// The struct copy still shares the content backing array.
		out[i].Content = append([]byte(nil), rec.Content...)
	}
	return out, nil
}

// Append adds a record under its signature and returns it with an
// assigned ID.
func (s *Store) Append(ctx context.Context, rec models.CachedResponse) (models.CachedResponse, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.ProducedAt.IsZero() {
		rec.ProducedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := rec
	s.bySig[rec.Signature] = append(s.bySig[rec.Signature], &stored)
	s.byID[rec.ID] = &stored
	s.records++
	return rec, nil
}

// MarkServed increments a record's times_served counter.
func (s *Store) MarkServed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("mark served %s: %w", id, store.ErrNotFound)
	}
	rec.TimesServed++
	return nil
}

// Count reports the number of records under a signature.
func (s *Store) Count(ctx context.Context, sig string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bySig[sig]), nil
}

// Stats reports distinct signatures and total records.
func (s *Store) Stats(ctx context.Context) (models.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.StoreStats{
		Signatures: int64(len(s.bySig)),
		Records:    s.records,
	}, nil
}

// Purge removes a signature's collection.
func (s *Store) Purge(ctx context.Context, sig string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, ok := s.bySig[sig]
	if !ok {
		return 0, nil
	}
	for _, rec := range collection {
		delete(s.byID, rec.ID)
	}
	delete(s.bySig, sig)
	s.records -= int64(len(collection))
	return int64(len(collection)), nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
