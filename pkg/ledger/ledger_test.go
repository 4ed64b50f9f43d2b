package ledger

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/rehash-ai/rehash/pkg/models"
)

func newTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "ledger_test.db")
	l, err := New(dbPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordAndSummary(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	entries := []models.LedgerEntry{
		{Signature: "s1", Hit: false, Tier: "standard", InputTokens: 500, OutputTokens: 200, Cost: 0.0045},
		{Signature: "s1", Hit: true},
		{Signature: "s2", Hit: false, Tier: "economy", InputTokens: 300, OutputTokens: 100, Cost: 0.0002},
		{Signature: "s1", Hit: true},
	}
	for _, e := range entries {
		if err := l.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	s, err := l.Summary(ctx, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Interactions != 4 || s.Hits != 2 || s.Misses != 2 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.HitRate != 0.5 {
		t.Errorf("expected hit rate 0.5, got %v", s.HitRate)
	}
	if s.InputTokens != 800 || s.OutputTokens != 300 {
		t.Errorf("unexpected token totals: %+v", s)
	}
	if math.Abs(s.TotalCost-0.0047) > 1e-9 {
		t.Errorf("expected total cost 0.0047, got %v", s.TotalCost)
	}
}

func TestByTierExcludesHits(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_ = l.Record(ctx, models.LedgerEntry{Signature: "a", Hit: false, Tier: "standard", Cost: 0.01})
	_ = l.Record(ctx, models.LedgerEntry{Signature: "a", Hit: false, Tier: "standard", Cost: 0.02})
	_ = l.Record(ctx, models.LedgerEntry{Signature: "a", Hit: false, Tier: "economy", Cost: 0.001})
	_ = l.Record(ctx, models.LedgerEntry{Signature: "a", Hit: true})

	usages, err := l.ByTier(ctx, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(usages) != 2 {
		t.Fatalf("expected 2 tiers, got %d", len(usages))
	}
	if usages[0].Tier != "standard" || usages[0].Requests != 2 {
		t.Errorf("unexpected first tier row: %+v", usages[0])
	}
	if usages[1].Tier != "economy" || usages[1].Requests != 1 {
		t.Errorf("unexpected second tier row: %+v", usages[1])
	}
}

func TestEntriesBySignature(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		_ = l.Record(ctx, models.LedgerEntry{
			Signature: "s1",
			Hit:       i > 0,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	_ = l.Record(ctx, models.LedgerEntry{Signature: "other"})

	got, err := l.Entries(ctx, "s1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	// Newest first: the first recorded (a miss) comes last.
	if got[2].Hit {
		t.Error("expected oldest entry to be the miss")
	}
}

func TestSummarySinceFilters(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-48 * time.Hour)
	_ = l.Record(ctx, models.LedgerEntry{Signature: "s", Hit: false, Cost: 1.0, CreatedAt: old})
	_ = l.Record(ctx, models.LedgerEntry{Signature: "s", Hit: true})

	s, err := l.Summary(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if s.Interactions != 1 || s.Hits != 1 {
		t.Errorf("since filter not applied: %+v", s)
	}
}
