// Package selector picks one stored response for a signature, or
// declares a miss, under a configurable selection policy.
package selector

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rehash-ai/rehash/pkg/models"
	"github.com/rehash-ai/rehash/pkg/store"
)

// Policy names a response selection strategy.
type Policy string

const (
	// PolicyRandom picks uniformly among stored responses.
	PolicyRandom Policy = "random"
	// PolicyWeighted picks inversely weighted by times_served,
	// favoring less-served responses for more perceived variety.
	PolicyWeighted Policy = "weighted"
	// PolicyDeterministic always returns the earliest record, for
	// reproducible replay.
	PolicyDeterministic Policy = "deterministic"
)

// ParsePolicy validates a policy name. "first" is accepted as an alias
// for deterministic.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(name) {
	case PolicyRandom, PolicyWeighted, PolicyDeterministic:
		return Policy(name), nil
	case "first":
		return PolicyDeterministic, nil
	}
	return "", fmt.Errorf("unknown selection policy %q", name)
}

// Selector queries the response store and applies the selection policy.
type Selector struct {
	store  store.Store
	policy Policy
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Selector. A nil rng seeds from the clock; tests inject
// a fixed seed for reproducible draws.
func New(st store.Store, policy Policy, rng *rand.Rand, logger *zap.Logger) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{store: st, policy: policy, rng: rng, logger: logger}
}

// Select returns a stored response for the signature, or ok=false on
// an empty collection. On a hit the chosen record's times_served
// counter is incremented through the store; a failed increment does
// not fail the hit.
func (s *Selector) Select(ctx context.Context, sig string) (*models.CachedResponse, bool, error) {
	collection, err := s.store.Lookup(ctx, sig)
	if err != nil {
		return nil, false, err
	}
	if len(collection) == 0 {
		s.logger.Debug("cache miss", zap.String("signature", sig))
		return nil, false, nil
	}

	chosen := s.pick(collection)
	if err := s.store.MarkServed(ctx, chosen.ID); err != nil {
		s.logger.Warn("times_served increment failed",
			zap.String("signature", sig), zap.String("id", chosen.ID), zap.Error(err))
	}

	s.logger.Debug("cache hit",
		zap.String("signature", sig),
		zap.String("id", chosen.ID),
		zap.Int("collection_size", len(collection)))
	return &chosen, true, nil
}

func (s *Selector) pick(collection []models.CachedResponse) models.CachedResponse {
	switch s.policy {
	case PolicyDeterministic:
		return collection[0]
	case PolicyWeighted:
		return s.pickWeighted(collection)
	default:
		s.mu.Lock()
		i := s.rng.Intn(len(collection))
		s.mu.Unlock()
		return collection[i]
	}
}

// pickWeighted samples with weight 1/(1+times_served) per record.
func (s *Selector) pickWeighted(collection []models.CachedResponse) models.CachedResponse {
	weights := make([]float64, len(collection))
	var total float64
	for i, rec := range collection {
		weights[i] = 1.0 / float64(1+rec.TimesServed)
		total += weights[i]
	}

	s.mu.Lock()
	target := s.rng.Float64() * total
	s.mu.Unlock()

	for i, w := range weights {
		target -= w
		if target < 0 {
			return collection[i]
		}
	}
	return collection[len(collection)-1]
}
