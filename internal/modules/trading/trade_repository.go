package trading

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/foliotrack/foliotrack/internal/domain"
)

// TradeRepository handles trade database operations
type TradeRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewTradeRepository creates a new trade repository
func NewTradeRepository(db *sql.DB, log zerolog.Logger) *TradeRepository {
	return &TradeRepository{
		db:  db,
		log: log.With().Str("repo", "trade").Logger(),
	}
}

// Create inserts a new trade record
func (r *TradeRepository) Create(trade domain.Trade) error {
	query := `
		INSERT INTO trades
		(stock_id, trade_type, trade_date, quantity, price_per_share,
		 price_currency, base_value, fx_rate, fee, fee_currency, local_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		trade.StockID,
		nullString(strings.ToUpper(string(trade.Side))),
		trade.TradeDate,
		trade.Quantity,
		nullFloat64Ptr(trade.PricePerShare),
		nullString(string(trade.PriceCurrency)),
		nullFloat64Ptr(trade.BaseValue),
		nullFloat64Ptr(trade.FXRate),
		nullFloat64Ptr(trade.Fee),
		nullString(string(trade.FeeCurrency)),
		nullFloat64Ptr(trade.LocalValue),
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}

	r.log.Debug().
		Int64("stock_id", trade.StockID).
		Str("side", string(trade.Side)).
		Float64("quantity", trade.Quantity).
		Msg("Trade created")

	return nil
}

// GetAll returns the full trade ledger
func (r *TradeRepository) GetAll() ([]domain.Trade, error) {
	query := `
		SELECT id, stock_id, trade_type, trade_date, quantity, price_per_share,
		       price_currency, base_value, fx_rate, fee, fee_currency, local_value, created_at
		FROM trades
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

// GetByStockID returns all trades for a stock
func (r *TradeRepository) GetByStockID(stockID int64) ([]domain.Trade, error) {
	query := `
		SELECT id, stock_id, trade_type, trade_date, quantity, price_per_share,
		       price_currency, base_value, fx_rate, fee, fee_currency, local_value, created_at
		FROM trades
		WHERE stock_id = ?
		ORDER BY trade_date
	`

	rows, err := r.db.Query(query, stockID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades by stock: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

func scanTrade(rows *sql.Rows) (domain.Trade, error) {
	var trade domain.Trade
	var tradeType, priceCurrency, feeCurrency, createdAt sql.NullString
	var pricePerShare, baseValue, fxRate, fee, localValue sql.NullFloat64

	err := rows.Scan(
		&trade.ID,
		&trade.StockID,
		&tradeType,
		&trade.TradeDate,
		&trade.Quantity,
		&pricePerShare,
		&priceCurrency,
		&baseValue,
		&fxRate,
		&fee,
		&feeCurrency,
		&localValue,
		&createdAt,
	)
	if err != nil {
		return trade, err
	}

	if tradeType.Valid {
		trade.Side = domain.TradeSide(strings.ToUpper(strings.TrimSpace(tradeType.String)))
	}
	if priceCurrency.Valid {
		trade.PriceCurrency = domain.NormalizeCurrency(priceCurrency.String)
	}
	if feeCurrency.Valid {
		trade.FeeCurrency = domain.NormalizeCurrency(feeCurrency.String)
	}
	if pricePerShare.Valid {
		trade.PricePerShare = &pricePerShare.Float64
	}
	if baseValue.Valid {
		trade.BaseValue = &baseValue.Float64
	}
	if fxRate.Valid {
		trade.FXRate = &fxRate.Float64
	}
	if fee.Valid {
		trade.Fee = &fee.Float64
	}
	if localValue.Valid {
		trade.LocalValue = &localValue.Float64
	}
	if createdAt.Valid {
		if t, err := time.Parse(time.RFC3339, createdAt.String); err == nil {
			trade.CreatedAt = &t
		}
	}

	return trade, nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat64Ptr(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{Valid: false}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
