// Package ledger records per-interaction cache outcomes and costs.
// Writes are best-effort from the orchestrator's perspective:
// observability must never become load-bearing.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/rehash-ai/rehash/pkg/models"
)

// Ledger records and aggregates interaction costs.
type Ledger interface {
	// Record stores one ledger entry.
	Record(ctx context.Context, entry models.LedgerEntry) error
	// Summary aggregates entries since a given time. A zero time means
	// all entries.
	Summary(ctx context.Context, since time.Time) (models.LedgerSummary, error)
	// ByTier aggregates miss spend per model tier since a given time.
	ByTier(ctx context.Context, since time.Time) ([]models.TierUsage, error)
	// Entries returns recent entries for a signature, newest first.
	Entries(ctx context.Context, sig string, limit int) ([]models.LedgerEntry, error)
	// Close releases resources.
	Close() error
}

// SQLiteLedger implements Ledger on an embedded SQLite database.
type SQLiteLedger struct {
	db     *sql.DB
	logger *zap.Logger
}

const createLedgerTable = `
CREATE TABLE IF NOT EXISTS cost_ledger (
	id TEXT PRIMARY KEY,
	signature TEXT NOT NULL,
	hit INTEGER NOT NULL,
	tier TEXT NOT NULL DEFAULT '',
	input_tokens INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	cost REAL NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ledger_signature ON cost_ledger(signature);
CREATE INDEX IF NOT EXISTS idx_ledger_created ON cost_ledger(created_at);
`

// New opens the ledger database and runs auto-migration.
func New(dbPath string, logger *zap.Logger) (*SQLiteLedger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	if _, err := db.Exec(createLedgerTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate ledger db: %w", err)
	}

	return &SQLiteLedger{db: db, logger: logger}, nil
}

// Record stores one ledger entry, assigning an ID and timestamp if
// unset.
func (l *SQLiteLedger) Record(ctx context.Context, entry models.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO cost_ledger (id, signature, hit, tier, input_tokens, output_tokens, cost, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Signature, entry.Hit, entry.Tier,
		entry.InputTokens, entry.OutputTokens, entry.Cost, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record ledger entry: %w", err)
	}
	return nil
}

// Summary aggregates all entries since the given time.
func (l *SQLiteLedger) Summary(ctx context.Context, since time.Time) (models.LedgerSummary, error) {
	var s models.LedgerSummary
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(hit), 0),
		        COALESCE(SUM(input_tokens), 0),
		        COALESCE(SUM(output_tokens), 0),
		        COALESCE(SUM(cost), 0)
		 FROM cost_ledger WHERE created_at >= ?`,
		since,
	).Scan(&s.Interactions, &s.Hits, &s.InputTokens, &s.OutputTokens, &s.TotalCost)
	if err != nil {
		return models.LedgerSummary{}, fmt.Errorf("ledger summary: %w", err)
	}

	s.Misses = s.Interactions - s.Hits
	if s.Interactions > 0 {
		s.HitRate = float64(s.Hits) / float64(s.Interactions)
	}
	return s, nil
}

// ByTier aggregates miss spend per model tier since the given time.
// Hits carry no tier cost and are excluded.
func (l *SQLiteLedger) ByTier(ctx context.Context, since time.Time) ([]models.TierUsage, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT tier, COUNT(*), SUM(input_tokens), SUM(output_tokens), SUM(cost)
		 FROM cost_ledger WHERE hit = 0 AND created_at >= ?
		 GROUP BY tier ORDER BY SUM(cost) DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("ledger by tier: %w", err)
	}
	defer rows.Close()

	var usages []models.TierUsage
	for rows.Next() {
		var u models.TierUsage
		if err := rows.Scan(&u.Tier, &u.Requests, &u.InputTokens, &u.OutputTokens, &u.Cost); err != nil {
			return nil, fmt.Errorf("scan tier usage: %w", err)
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}

// Entries returns recent entries for a signature, newest first.
func (l *SQLiteLedger) Entries(ctx context.Context, sig string, limit int) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, signature, hit, tier, input_tokens, output_tokens, cost, created_at
		 FROM cost_ledger WHERE signature = ? ORDER BY created_at DESC LIMIT ?`,
		sig, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.Signature, &e.Hit, &e.Tier,
			&e.InputTokens, &e.OutputTokens, &e.Cost, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database connection.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}
