package quotes

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/foliotrack/foliotrack/internal/domain"
)

// QuoteRepository handles quote cache and price history operations
type QuoteRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *sql.DB, log zerolog.Logger) *QuoteRepository {
	return &QuoteRepository{
		db:  db,
		log: log.With().Str("repo", "quote").Logger(),
	}
}

// GetAll returns every cached quote keyed by provider symbol
func (r *QuoteRepository) GetAll() (map[string]domain.QuoteRecord, error) {
	query := "SELECT symbol, price, currency, last_updated FROM quote_cache"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query quote cache: %w", err)
	}
	defer rows.Close()

	records := make(map[string]domain.QuoteRecord)
	for rows.Next() {
		var rec domain.QuoteRecord
		var currency, lastUpdated string

		if err := rows.Scan(&rec.Symbol, &rec.Price, &currency, &lastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}

		rec.Symbol = strings.ToUpper(strings.TrimSpace(rec.Symbol))
		rec.Currency = domain.NormalizeCurrency(currency)

		if t, err := time.Parse(time.RFC3339, lastUpdated); err == nil {
			rec.LastUpdated = t
		} else {
			r.log.Warn().
				Str("symbol", rec.Symbol).
				Str("last_updated", lastUpdated).
				Msg("Unparseable quote timestamp, dropping row")
			continue
		}

		records[rec.Symbol] = rec
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotes: %w", err)
	}

	return records, nil
}

// Upsert stores or replaces the cached quote for a symbol
func (r *QuoteRepository) Upsert(rec domain.QuoteRecord) error {
	query := `
		INSERT INTO quote_cache (symbol, price, currency, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			price = excluded.price,
			currency = excluded.currency,
			last_updated = excluded.last_updated
	`

	_, err := r.db.Exec(query,
		strings.ToUpper(strings.TrimSpace(rec.Symbol)),
		rec.Price,
		string(rec.Currency),
		rec.LastUpdated.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert quote: %w", err)
	}

	return nil
}

// RecordClose appends a daily close to the price history for a symbol
func (r *QuoteRepository) RecordClose(symbol string, date string, close float64) error {
	query := `
		INSERT INTO price_history (symbol, date, close)
		VALUES (?, ?, ?)
		ON CONFLICT(symbol, date) DO UPDATE SET close = excluded.close
	`

	_, err := r.db.Exec(query, strings.ToUpper(strings.TrimSpace(symbol)), date, close)
	if err != nil {
		return fmt.Errorf("failed to record close: %w", err)
	}

	return nil
}

// GetCloses returns up to limit daily closes for a symbol, oldest first
func (r *QuoteRepository) GetCloses(symbol string, limit int) ([]float64, error) {
	query := `
		SELECT close FROM (
			SELECT date, close FROM price_history
			WHERE symbol = ?
			ORDER BY date DESC
			LIMIT ?
		) ORDER BY date ASC
	`

	rows, err := r.db.Query(query, strings.ToUpper(strings.TrimSpace(symbol)), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var closes []float64
	for rows.Next() {
		var close float64
		if err := rows.Scan(&close); err != nil {
			return nil, fmt.Errorf("failed to scan close: %w", err)
		}
		closes = append(closes, close)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history: %w", err)
	}

	return closes, nil
}
