// Package sqlite implements the response store on an embedded SQLite
// database. Appends are transactional inserts into an append-only
// table, so an interrupted write never corrupts committed records and
// concurrent appends to one signature merge losslessly.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/rehash-ai/rehash/pkg/models"
	"github.com/rehash-ai/rehash/pkg/store"
)

// Store is the SQLite-backed response store.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

const createResponsesTable = `
CREATE TABLE IF NOT EXISTS responses (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	signature TEXT NOT NULL,
	content BLOB NOT NULL,
	source_tier TEXT NOT NULL,
	input_tokens INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	usage_cost REAL NOT NULL DEFAULT 0,
	times_served INTEGER NOT NULL DEFAULT 0,
	produced_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_responses_signature ON responses(signature, seq);
`

// New opens the response database and runs auto-migration. WAL mode
// keeps committed records readable while an append is in flight.
func New(dbPath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open response db: %w", err)
	}

	if _, err := db.Exec(createResponsesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate response db: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Lookup returns a signature's collection in insertion order. The seq
// rowid is assigned at commit, so the order a lookup observes never
// changes retroactively.
func (s *Store) Lookup(ctx context.Context, sig string) ([]models.CachedResponse, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, signature, content, source_tier, input_tokens, output_tokens, usage_cost, times_served, produced_at
		 FROM responses WHERE signature = ? ORDER BY seq ASC`,
		sig,
	)
	if err != nil {
		return nil, unavailable("lookup responses", err)
	}
	defer rows.Close()

	var records []models.CachedResponse
	for rows.Next() {
		var r models.CachedResponse
		if err := rows.Scan(&r.ID, &r.Signature, &r.Content, &r.SourceTier,
			&r.InputTokens, &r.OutputTokens, &r.UsageCost, &r.TimesServed, &r.ProducedAt); err != nil {
			return nil, unavailable("scan response", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("lookup responses", err)
	}
	return records, nil
}

// Append inserts a record under its signature. The insert is a single
// transaction: it is either fully visible or absent, never partial.
func (s *Store) Append(ctx context.Context, rec models.CachedResponse) (models.CachedResponse, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.ProducedAt.IsZero() {
		rec.ProducedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO responses (id, signature, content, source_tier, input_tokens, output_tokens, usage_cost, times_served, produced_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Signature, rec.Content, rec.SourceTier,
		rec.InputTokens, rec.OutputTokens, rec.UsageCost, rec.TimesServed, rec.ProducedAt,
	)
	if err != nil {
		return models.CachedResponse{}, unavailable("append response", err)
	}

	s.logger.Debug("response stored",
		zap.String("signature", rec.Signature),
		zap.String("id", rec.ID),
		zap.String("tier", rec.SourceTier))
	return rec, nil
}

// MarkServed atomically increments a record's times_served counter.
func (s *Store) MarkServed(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE responses SET times_served = times_served + 1 WHERE id = ?`, id)
	if err != nil {
		return unavailable("mark served", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("mark served", err)
	}
	if n == 0 {
		return fmt.Errorf("mark served %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// Count reports how many records a signature holds.
func (s *Store) Count(ctx context.Context, sig string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM responses WHERE signature = ?`, sig).Scan(&count)
	if err != nil {
		return 0, unavailable("count responses", err)
	}
	return count, nil
}

// Stats reports distinct signatures and total records.
func (s *Store) Stats(ctx context.Context) (models.StoreStats, error) {
	var st models.StoreStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT signature), COUNT(*) FROM responses`).Scan(&st.Signatures, &st.Records)
	if err != nil {
		return models.StoreStats{}, unavailable("store stats", err)
	}
	return st, nil
}

// Purge deletes a signature's collection and returns the record count
// removed.
func (s *Store) Purge(ctx context.Context, sig string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM responses WHERE signature = ?`, sig)
	if err != nil {
		return 0, unavailable("purge responses", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable("purge responses", err)
	}
	s.logger.Info("collection purged", zap.String("signature", sig), zap.Int64("records", n))
	return n, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(store.ErrUnavailable, err))
}
