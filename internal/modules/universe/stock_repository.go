package universe

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/foliotrack/foliotrack/internal/domain"
)

// StockRepository handles stock database operations
type StockRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *sql.DB, log zerolog.Logger) *StockRepository {
	return &StockRepository{
		db:  db,
		log: log.With().Str("repo", "stock").Logger(),
	}
}

// GetAll returns all stocks
func (r *StockRepository) GetAll() ([]domain.Stock, error) {
	query := "SELECT id, ticker, exchange, name, currency FROM stocks ORDER BY ticker"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	var stocks []domain.Stock
	for rows.Next() {
		stock, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks = append(stocks, stock)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stocks: %w", err)
	}

	return stocks, nil
}

// GetByID returns a stock by id, or nil when not found
func (r *StockRepository) GetByID(id int64) (*domain.Stock, error) {
	query := "SELECT id, ticker, exchange, name, currency FROM stocks WHERE id = ?"

	var stock domain.Stock
	var currency string
	err := r.db.QueryRow(query, id).Scan(
		&stock.ID, &stock.Ticker, &stock.Exchange, &stock.Name, &currency,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock by id: %w", err)
	}

	stock.Currency = domain.NormalizeCurrency(currency)
	return &stock, nil
}

// Upsert inserts a stock if the (ticker, exchange) pair is new and returns
// its id either way
func (r *StockRepository) Upsert(stock domain.Stock) (int64, error) {
	ticker := strings.ToUpper(strings.TrimSpace(stock.Ticker))
	exchange := strings.ToUpper(strings.TrimSpace(stock.Exchange))

	var id int64
	err := r.db.QueryRow(
		"SELECT id FROM stocks WHERE ticker = ? AND exchange = ?",
		ticker, exchange,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check stock existence: %w", err)
	}

	res, err := r.db.Exec(
		"INSERT INTO stocks (ticker, exchange, name, currency, created_at) VALUES (?, ?, ?, ?, ?)",
		ticker, exchange, stock.Name, string(stock.Currency), time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert stock: %w", err)
	}

	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get stock id: %w", err)
	}

	r.log.Info().
		Str("ticker", ticker).
		Str("exchange", exchange).
		Int64("id", id).
		Msg("Stock created")

	return id, nil
}

func scanStock(rows *sql.Rows) (domain.Stock, error) {
	var stock domain.Stock
	var currency string

	if err := rows.Scan(&stock.ID, &stock.Ticker, &stock.Exchange, &stock.Name, &currency); err != nil {
		return stock, err
	}

	stock.Ticker = strings.ToUpper(strings.TrimSpace(stock.Ticker))
	stock.Exchange = strings.ToUpper(strings.TrimSpace(stock.Exchange))
	stock.Currency = domain.NormalizeCurrency(currency)

	return stock, nil
}
