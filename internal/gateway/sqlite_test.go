package gateway

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-reconciliation/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "reconciler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func rental(id, start, end string) domain.TransactionRecord {
	return domain.TransactionRecord{
		InternalID:       id,
		CounterpartyName: "Customer " + id,
		WindowStart:      mustParseTime(start),
		WindowEnd:        mustParseTime(end),
		Amount:           decimal.RequireFromString("120.50"),
	}
}

func TestRentalRepo_RoundTrip(t *testing.T) {
	repo := NewRentalRepo(openTestDB(t))
	ctx := context.Background()

	full := rental("R1", "2025-08-20T10:00:00Z", "2025-08-22T10:00:00Z")
	full.CorrelationKey = "ORD-1"
	full.SecondaryQuantity = intPtr(0)
	full.ContactEmail = "jan@example.com"
	full.ContactPhone = "+421900111222"
	sparse := rental("R2", "2025-08-21T10:00:00Z", "2025-08-21T18:00:00Z")

	inserted, err := repo.BulkInsert(ctx, []domain.TransactionRecord{sparse, full})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = repo.BulkInsert(ctx, []domain.TransactionRecord{full})
	require.NoError(t, err)
	assert.Zero(t, inserted, "existing ids are skipped")

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := repo.ListTransactions(ctx, domain.Period{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "R1", got[0].InternalID, "ordered by window start")
	assert.Equal(t, "ORD-1", got[0].CorrelationKey)
	assert.Equal(t, "jan@example.com", got[0].ContactEmail)
	assert.Equal(t, "+421900111222", got[0].ContactPhone)
	require.NotNil(t, got[0].SecondaryQuantity)
	assert.Equal(t, 0, *got[0].SecondaryQuantity)
	assert.True(t, got[0].Amount.Equal(full.Amount))
	assert.True(t, got[0].WindowStart.Equal(full.WindowStart))
	assert.True(t, got[0].WindowEnd.Equal(full.WindowEnd))

	assert.Equal(t, "R2", got[1].InternalID)
	assert.Empty(t, got[1].CorrelationKey)
	assert.Nil(t, got[1].SecondaryQuantity)
}

func TestRentalRepo_ListTransactions_Period(t *testing.T) {
	repo := NewRentalRepo(openTestDB(t))
	ctx := context.Background()

	_, err := repo.BulkInsert(ctx, []domain.TransactionRecord{
		rental("before", "2025-07-01T10:00:00Z", "2025-07-05T10:00:00Z"),
		rental("ends-inside", "2025-07-30T10:00:00Z", "2025-08-02T10:00:00Z"),
		rental("inside", "2025-08-10T10:00:00Z", "2025-08-12T10:00:00Z"),
		rental("spans", "2025-07-20T10:00:00Z", "2025-09-10T10:00:00Z"),
		rental("after", "2025-09-01T10:00:00Z", "2025-09-03T10:00:00Z"),
	})
	require.NoError(t, err)

	got, err := repo.ListTransactions(ctx, domain.Period{
		From: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var ids []string
	for _, r := range got {
		ids = append(ids, r.InternalID)
	}
	assert.Equal(t, []string{"spans", "ends-inside", "inside"}, ids)
}

func TestRunRepo(t *testing.T) {
	repo := NewRunRepo(openTestDB(t))
	ctx := context.Background()

	older := &domain.Report{
		RunID:       "run-1",
		GeneratedAt: time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC),
		Summary:     domain.Summary{Matched: 3, NeedsReview: 1, UnmatchedTransactions: 2, UnmatchedInbound: 1},
		Matches: []domain.MatchResult{
			{InternalID: "R1", SourceID: "E1", Strategy: domain.StrategyExactName, Confidence: 90},
		},
	}
	newer := &domain.Report{RunID: "run-2", GeneratedAt: older.GeneratedAt.Add(time.Hour)}

	require.NoError(t, repo.Publish(ctx, older))
	require.NoError(t, repo.Publish(ctx, newer))
	assert.Error(t, repo.Publish(ctx, newer), "run ids are unique")

	runs, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, domain.RunSummary{
		RunID:       "run-1",
		GeneratedAt: older.GeneratedAt,
		Matched:     3,
		NeedsReview: 1,
		Unmatched:   3,
	}, runs[1])

	got, err := repo.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, older.Matches[0].InternalID, got.Matches[0].InternalID)
	assert.Equal(t, domain.StrategyExactName, got.Matches[0].Strategy)

	_, err = repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
