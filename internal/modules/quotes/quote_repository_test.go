package quotes

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/foliotrack/foliotrack/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, InitSchema(db))

	return db
}

func TestQuoteRepository_UpsertAndGetAll(t *testing.T) {
	repo := NewQuoteRepository(setupTestDB(t), zerolog.Nop())

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(domain.QuoteRecord{
		Symbol:      "ogzd.l",
		Price:       450,
		Currency:    domain.CurrencyGBX,
		LastUpdated: now,
	}))

	records, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec, ok := records["OGZD.L"]
	require.True(t, ok, "symbols are stored uppercase")
	assert.Equal(t, 450.0, rec.Price)
	assert.Equal(t, domain.CurrencyGBX, rec.Currency)
	assert.Equal(t, now, rec.LastUpdated)

	// A second upsert replaces, never duplicates
	later := now.Add(time.Hour)
	require.NoError(t, repo.Upsert(domain.QuoteRecord{
		Symbol:      "OGZD.L",
		Price:       460,
		Currency:    domain.CurrencyGBX,
		LastUpdated: later,
	}))

	records, err = repo.GetAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 460.0, records["OGZD.L"].Price)
	assert.Equal(t, later, records["OGZD.L"].LastUpdated)
}

func TestQuoteRepository_PriceHistory(t *testing.T) {
	repo := NewQuoteRepository(setupTestDB(t), zerolog.Nop())

	require.NoError(t, repo.RecordClose("AAA.L", "2025-06-02", 11))
	require.NoError(t, repo.RecordClose("AAA.L", "2025-06-01", 10))
	require.NoError(t, repo.RecordClose("AAA.L", "2025-06-03", 12))
	require.NoError(t, repo.RecordClose("BBB.L", "2025-06-01", 99))

	closes, err := repo.GetCloses("AAA.L", 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11, 12}, closes, "oldest first")

	// The limit keeps the most recent closes
	closes, err = repo.GetCloses("AAA.L", 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 12}, closes)

	// Same-day close is overwritten
	require.NoError(t, repo.RecordClose("AAA.L", "2025-06-03", 13))
	closes, err = repo.GetCloses("AAA.L", 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11, 13}, closes)
}
